package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"cryptobot/internal/app"
	"cryptobot/internal/config"
	"cryptobot/internal/logger"
	"cryptobot/internal/trace"

	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// run owns every deferred cleanup so they execute before the process exits.
func run() int {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CRYPTOBOT_CONFIG")
	var (
		cfg *config.Config
		err error
	)
	if cfgPath == "" {
		cfg, err = config.LoadOptional("configs/config.yaml")
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}
	logFile, err := setupLogOutput(cfg.App.LogPath)
	if err != nil {
		log.Printf("failed to open log file: %v", err)
		return 1
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.SetLevel(cfg.App.LogLevel)
	logger.Infof("✓ Config loaded (env=%s, mode=%s, source=%s)", cfg.App.Env, cfg.Telegram.Mode, cfg.Market.ActiveSource)

	if err := trace.Init(trace.Config{Enabled: cfg.App.Tracing, Version: version}); err != nil {
		logger.Errorf("failed to init tracing: %v", err)
		return 1
	}
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := trace.Shutdown(shCtx); err != nil {
			logger.Warnf("Tracing shutdown: %v", err)
		}
	}()

	bot, err := app.NewApp(cfg)
	if err != nil {
		logger.Errorf("failed to build app: %v", err)
		return 1
	}
	if err := bot.Run(ctx); err != nil {
		logger.Errorf("Run failed: %v", err)
		return 1
	}
	logger.Infof("Bye")
	return 0
}

func setupLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	dir := filepath.Dir(trimmed)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(os.Stdout, file)
	log.SetOutput(mw)
	logger.SetOutput(mw)
	return file, nil
}

package main

import (
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"cryptobot/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReportsBadConfig(t *testing.T) {
	t.Setenv("CRYPTOBOT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, 1, run())
}

func TestRunFlushesLogFileOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	}))
	defer srv.Close()
	t.Cleanup(func() {
		logger.SetOutput(os.Stdout)
		log.SetOutput(os.Stderr)
	})

	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "bot.log")
	cfgPath := filepath.Join(dir, "config.yaml")
	body := "app:\n  log_path: " + logPath + "\n  http_addr: 127.0.0.1:0\n" +
		"telegram:\n  bot_token: abc\n  api_url: " + srv.URL + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))
	t.Setenv("CRYPTOBOT_CONFIG", cfgPath)
	t.Setenv("CRYPTOBOT_TELEGRAM_TOKEN", "")
	t.Setenv("TOKEN", "")

	assert.Equal(t, 1, run())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Run failed")
	assert.Contains(t, string(data), "delete webhook")
}

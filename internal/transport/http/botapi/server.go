// Package botapi serves the bot's HTTP surface: health checks and the
// Telegram webhook endpoint.
package botapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"cryptobot/internal/gateway/telegram"
	"cryptobot/internal/logger"

	"github.com/gin-gonic/gin"
)

const (
	WebhookPath  = "/telegram/webhook"
	SecretHeader = "X-Telegram-Bot-Api-Secret-Token"
)

// UpdateDispatcher accepts a webhook update. It must return promptly;
// Telegram redelivers updates whose webhook call does not answer in time.
type UpdateDispatcher interface {
	Dispatch(ctx context.Context, u telegram.Update)
}

type ServerConfig struct {
	Addr string
	// Dispatcher is nil in polling mode, which leaves the webhook route unregistered.
	Dispatcher    UpdateDispatcher
	WebhookSecret string
	SourceName    string
}

type Server struct {
	addr   string
	router *gin.Engine
}

func NewServer(cfg ServerConfig) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "price_source": cfg.SourceName})
	})
	if cfg.Dispatcher != nil {
		router.POST(WebhookPath, webhookHandler(cfg.Dispatcher, cfg.WebhookSecret))
	}
	return &Server{addr: cfg.Addr, router: router}
}

func webhookHandler(d UpdateDispatcher, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret != "" {
			got := c.GetHeader(SecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				logger.Warnf("[api] telegram webhook rejected ip=%s: bad secret", c.ClientIP())
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid secret token"})
				return
			}
		}
		var u telegram.Update
		if err := c.ShouldBindJSON(&u); err != nil {
			logger.Warnf("[api] telegram webhook bind failed ip=%s err=%v", c.ClientIP(), err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Request context ends with the response; the update outlives it.
		d.Dispatch(context.WithoutCancel(c.Request.Context()), u)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), c.ClientIP(), time.Since(start))
	}
}

func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Handler exposes the router for in-process use.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Infof("HTTP server listening on %s", s.addr)

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

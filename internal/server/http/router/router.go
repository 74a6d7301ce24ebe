package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/voucherbot/internal/pkg/auth"
	"github.com/polkiloo/voucherbot/internal/server/http/handlers"
	"github.com/polkiloo/voucherbot/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.BotFacade, verifiers pkgAuth.Verifiers, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest(middleware.MaxUpdateBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	statusHandler := handlers.NewStatusHandler(facade)
	webhookHandler := handlers.NewWebhookHandler(facade)

	engine.GET("/healthz", statusHandler.Health)

	if verifiers.Status.Enabled() {
		api := engine.Group("/api")
		api.Use(middleware.BearerRequired(verifiers.Status))
		api.GET("/status", statusHandler.Status)
	} else {
		logger.Warn("status endpoint disabled, set STATUS_TOKEN to enable it")
	}

	if verifiers.Webhook.Enabled() {
		hook := engine.Group("/telegram/webhook")
		hook.Use(middleware.PathSecretRequired(verifiers.Webhook))
		hook.POST("/:"+middleware.SecretParam, webhookHandler.Receive)
	}

	return engine
}

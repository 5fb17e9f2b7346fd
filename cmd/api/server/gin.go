package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ginhandler "users-api/internal/adapter/gin/handler"
	ginrouter "users-api/internal/adapter/gin/router"
	"users-api/internal/config"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	cfg *config.Config,
	users *ginhandler.UserHandler,
	system *ginhandler.SystemHandler,
	l *zap.Logger,
) *http.Server {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := ginrouter.SetupRouter(users, system, ginrouter.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		SwaggerEnabled: cfg.HTTP.SwaggerEnabled,
		ExposeErrors:   cfg.IsDevelopment(),
	}, l)

	addr := ":" + cfg.App.Port
	l.Info("Gin REST API configured", zap.String("address", addr))
	if cfg.HTTP.SwaggerEnabled {
		l.Info("Swagger UI available at", zap.String("url", "http://localhost"+addr+"/swagger/index.html"))
	}

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

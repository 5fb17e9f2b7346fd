package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"users-api/internal/adapter/gin/docs"
	"users-api/internal/adapter/gin/handler"
	"users-api/internal/adapter/gin/middleware"
	"users-api/pkg/logger"
)

// OpenAPIPath is where the embedded OpenAPI document is served
const OpenAPIPath = "/openapi.json"

// Options controls the optional parts of the router
type Options struct {
	AllowedOrigins []string
	SwaggerEnabled bool
	// ExposeErrors puts panic values in 500 bodies. Development only.
	ExposeErrors bool
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	userHandler *handler.UserHandler,
	systemHandler *handler.SystemHandler,
	opts Options,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()
	// "/users/" is registered alongside "/users" instead of redirected
	router.RedirectTrailingSlash = false

	// Global middleware, outermost first
	router.Use(middleware.Recovery(log, opts.ExposeErrors))
	router.Use(logger.RequestID())
	router.Use(middleware.AccessLog(log))
	router.Use(middleware.CORS(opts.AllowedOrigins))

	systemHandler.Register(router)
	userHandler.Register(router)

	if opts.SwaggerEnabled {
		router.GET(OpenAPIPath, func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json; charset=utf-8", docs.OpenAPI)
		})
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL(OpenAPIPath),
		)))
	}

	// Unknown methods on known paths are reported as missing routes too
	router.HandleMethodNotAllowed = true
	router.NoRoute(notFound)
	router.NoMethod(notFound)

	return router
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":   "Not Found",
		"message": fmt.Sprintf("Route %s not found", c.Request.URL.RequestURI()),
	})
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves the service index and liveness probe
type SystemHandler struct {
	version string
	now     func() time.Time
}

// NewSystemHandler creates a new SystemHandler instance
func NewSystemHandler(version string) *SystemHandler {
	return &SystemHandler{
		version: version,
		now:     time.Now,
	}
}

// Register mounts the system routes on rg
func (h *SystemHandler) Register(rg gin.IRoutes) {
	rg.GET("/", h.Index)
	handle(rg, http.MethodGet, "/health", h.Health)
}

// Index handles GET /
func (h *SystemHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to MySQL Users API",
		"version": h.version,
		"endpoints": gin.H{
			"health": "/health",
			"users": gin.H{
				"getAll":  "GET /users",
				"getById": "GET /users/:id",
				"create":  "POST /users",
				"update":  "PUT /users/:id",
				"delete":  "DELETE /users/:id",
			},
		},
	})
}

// Health handles GET /health. It does not touch storage.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "Server is running",
		"timestamp": h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

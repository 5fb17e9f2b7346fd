package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"users-api/pkg/logger"
)

const genericFailure = "Something went wrong!"

// Recovery returns a Gin middleware that turns panics into a 500 JSON body.
// The panic value is only exposed when exposeDetails is set.
func Recovery(log *zap.Logger, exposeDetails bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logger.WithContext(c.Request.Context(), log).Error("panic recovered in request",
				zap.Any("panic", r),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Stack("stack"),
			)

			message := genericFailure
			if exposeDetails {
				message = fmt.Sprint(r)
			}

			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Server Error",
				"message": message,
			})
		}()

		c.Next()
	}
}

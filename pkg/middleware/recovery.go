package middleware

import (
	"net/http"

	"cloud-video/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns panics into a generic 500 and logs the request that
// caused them.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Error("Unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
	})
}

package controllers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/faras-store/backend/logger"
	"github.com/faras-store/backend/services"
)

// respondError writes a service error as the JSON reply. Server-side
// failures are logged with the request ID before the reply goes out;
// client errors stay out of the error log.
func respondError(c *gin.Context, svcErr *services.ServiceError) {
	if svcErr.StatusCode >= 500 {
		logger.Error(c, "Request failed", svcErr.Err,
			zap.Int("status", svcErr.StatusCode),
			zap.String("path", c.FullPath()),
		)
	}
	c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
}

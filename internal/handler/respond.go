// Package handler provides HTTP request handlers for the application.
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thumbgrab/thumbnail-service-go/internal/gateway"
	"github.com/thumbgrab/thumbnail-service-go/internal/models"
	"github.com/thumbgrab/thumbnail-service-go/internal/service"
	"github.com/thumbgrab/thumbnail-service-go/pkg/logger"
	"go.uber.org/zap"
)

func sendError(c *gin.Context, status int, errText, message string) {
	c.JSON(status, models.ErrorResponse{
		Status:    status,
		Error:     errText,
		Message:   message,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}

// handleServiceError maps the service and gateway error taxonomy to HTTP
// responses.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case gateway.IsAlreadyExists(err):
		sendError(c, http.StatusConflict, "Conflict", "Video is already in this folder")
	case gateway.IsNotFound(err):
		sendError(c, http.StatusNotFound, "Not Found", "The requested record does not exist")
	default:
		switch err.(type) {
		case *service.ValidationError:
			logger.Log.Warn("Validation error",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			sendError(c, http.StatusBadRequest, "Bad Request", err.Error())
		case *service.FetchFailedError:
			sendError(c, http.StatusBadGateway, "Bad Gateway", err.Error())
		default:
			logger.Log.Error("Unexpected error",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			sendError(c, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		}
	}
}

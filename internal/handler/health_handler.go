package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thumbgrab/thumbnail-service-go/internal/gateway"
	"github.com/thumbgrab/thumbnail-service-go/internal/service"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	gw        gateway.HistoryFolderGateway
	publisher *service.EventPublisher
}

// NewHealthHandler creates a new HealthHandler instance. gw and publisher
// may be nil when the corresponding backend is not configured; a disabled
// backend is reported as healthy.
func NewHealthHandler(gw gateway.HistoryFolderGateway, publisher *service.EventPublisher) *HealthHandler {
	return &HealthHandler{
		gw:        gw,
		publisher: publisher,
	}
}

// LivenessProbe checks if the application is running.
func (h *HealthHandler) LivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"time":   time.Now(),
	})
}

// ReadinessProbe checks if the application is ready to serve traffic.
func (h *HealthHandler) ReadinessProbe(c *gin.Context) {
	ctx := c.Request.Context()

	if h.gw != nil {
		if err := h.gw.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "DOWN",
				"database": "unhealthy",
				"error":    err.Error(),
				"time":     time.Now(),
			})
			return
		}
	}

	if !h.publisher.IsHealthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "DOWN",
			"rabbitmq": "unhealthy",
			"time":     time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "UP",
		"database": "healthy",
		"rabbitmq": "healthy",
		"time":     time.Now(),
	})
}

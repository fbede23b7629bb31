package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController handles health check endpoints.
type HealthController struct {
	ping        func(ctx context.Context) error
	storageMode string
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Storage   string `json:"storage"`
	Mode      string `json:"mode"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(ping func(ctx context.Context) error, storageMode string) *HealthController {
	return &HealthController{
		ping:        ping,
		storageMode: storageMode,
	}
}

// Check handles GET /health requests.
// It answers 503 when the active data store cannot be reached.
func (h *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "ok",
		Storage:   "connected",
		Mode:      h.storageMode,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if h.ping == nil || h.ping(ctx) != nil {
		response.Status = "degraded"
		response.Storage = "disconnected"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

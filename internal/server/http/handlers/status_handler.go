package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/voucherbot/internal/server/http/dto"
)

// StatusHandler serves health and status endpoints.
type StatusHandler struct {
	facade StatusFacade
}

// NewStatusHandler constructs StatusHandler.
func NewStatusHandler(facade StatusFacade) *StatusHandler {
	return &StatusHandler{facade: facade}
}

// Health handles GET /healthz.
func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// Status handles GET /api/status.
func (h *StatusHandler) Status(c *gin.Context) {
	status := h.facade.Status(c.Request.Context())
	c.JSON(http.StatusOK, dto.StatusResponse{
		Mode:          status.Mode,
		StartedAt:     status.StartedAt,
		UptimeSeconds: int64(time.Since(status.StartedAt).Seconds()),
		Conversation:  status.Conversation,
	})
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives chat updates.
type WebhookHandler struct {
	facade WebhookFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Receive handles POST /telegram/webhook/:secret.
func (h *WebhookHandler) Receive(c *gin.Context) {
	err := h.facade.PushUpdate(c.Request.Context(), c.Request.Body)
	switch {
	case err == nil:
		c.Status(http.StatusOK)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.Status(http.StatusServiceUnavailable)
	default:
		c.Status(http.StatusBadRequest)
	}
}

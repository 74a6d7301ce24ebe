package dto

import (
	"time"

	"github.com/polkiloo/voucherbot/internal/domain/model"
)

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	Mode          string                     `json:"mode"`
	StartedAt     time.Time                  `json:"started_at"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Conversation  model.ConversationSnapshot `json:"conversation"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

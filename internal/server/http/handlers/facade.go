package handlers

import (
	"context"
	"io"

	"github.com/polkiloo/voucherbot/internal/domain/model"
)

// StatusFacade exposes bot state to the status endpoint.
type StatusFacade interface {
	Status(ctx context.Context) model.ServiceStatus
}

// WebhookFacade accepts updates delivered by the chat platform.
type WebhookFacade interface {
	PushUpdate(ctx context.Context, body io.Reader) error
}

// BotFacade aggregates the operations used across handlers.
type BotFacade interface {
	StatusFacade
	WebhookFacade
}

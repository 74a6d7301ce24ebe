package app

import (
	"context"
	"io"
	"time"

	"github.com/polkiloo/voucherbot/internal/domain/model"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// SnapshotProvider exposes the operator conversation state.
type SnapshotProvider interface {
	Snapshot(operatorID int64) model.ConversationSnapshot
	OperatorID() int64
}

// UpdatePusher accepts updates posted to the webhook.
type UpdatePusher interface {
	Push(ctx context.Context, body io.Reader) error
}

// BotFacade is what the ops server sees of the bot.
type BotFacade struct {
	snapshots SnapshotProvider
	updates   UpdatePusher
	mode      string
	startedAt time.Time
}

func NewBotFacade(snapshots SnapshotProvider, updates UpdatePusher, mode string) *BotFacade {
	return &BotFacade{snapshots: snapshots, updates: updates, mode: mode, startedAt: time.Now()}
}

func (f *BotFacade) Status(context.Context) model.ServiceStatus {
	return model.ServiceStatus{
		Mode:         f.mode,
		StartedAt:    f.startedAt,
		Conversation: f.snapshots.Snapshot(f.snapshots.OperatorID()),
	}
}

func (f *BotFacade) PushUpdate(ctx context.Context, body io.Reader) error {
	return f.updates.Push(ctx, body)
}

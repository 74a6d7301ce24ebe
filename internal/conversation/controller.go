package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/voucherbot/internal/domain/errors"
	"github.com/polkiloo/voucherbot/internal/domain/model"
	"github.com/polkiloo/voucherbot/internal/usecase"
)

const (
	msgAskSession     = "🔑 Send your SHEIN cookies (copy from browser F12 → Application → Cookies):"
	msgReady          = "✅ Cookies loaded! Send vouchers (one per line)."
	msgSessionSet     = "✅ Cookies set! Now send vouchers."
	msgNoCodes        = "❌ No codes found."
	msgLoggedOut      = "🔒 Cookies cleared. Send new cookies to continue."
	msgBusy           = "⏳ A batch is already running, wait for its report."
	msgSessionMissing = "🔑 Cookies are missing. Send your SHEIN cookies again."
	msgHelp           = "Commands:\n/start - show what to send next\n/status - show bot state\n/logout - forget cookies"
)

// Replier sends text back to a chat.
type Replier interface {
	Reply(ctx context.Context, chatID int64, text string) error
}

// SessionService is the session lifecycle used by the controller.
type SessionService interface {
	Accept(ctx context.Context, operatorID int64, raw string) (model.Session, error)
	Current(operatorID int64) (model.Session, bool)
	Invalidate(operatorID int64)
}

// BatchService checks voucher batches.
type BatchService interface {
	Process(ctx context.Context, session model.Session, codes []string) (*model.BatchResult, error)
}

type conversation struct {
	state     model.ConversationState
	busy      bool
	lastBatch *model.BatchSummary
	updatedAt time.Time
}

// Controller routes operator messages through the session and batch flows.
type Controller struct {
	operatorID int64
	sessions   SessionService
	batches    BatchService
	replier    Replier
	renderer   *Renderer
	logger     *slog.Logger
	now        func() time.Time

	mu    sync.Mutex
	convs map[int64]*conversation
}

// NewController creates Controller bound to a single operator chat.
func NewController(operatorID int64, sessions SessionService, batches BatchService, replier Replier, renderer *Renderer, logger *slog.Logger) *Controller {
	return &Controller{
		operatorID: operatorID,
		sessions:   sessions,
		batches:    batches,
		replier:    replier,
		renderer:   renderer,
		logger:     logger.With(slog.String("component", "conversation")),
		now:        time.Now,
		convs:      make(map[int64]*conversation),
	}
}

// Handle processes one inbound message. Messages from other chats return ErrForeignChat and are ignored.
func (c *Controller) Handle(ctx context.Context, msg model.Inbound) error {
	if msg.ChatID != c.operatorID {
		return domainErrors.ErrForeignChat
	}

	if msg.IsCommand() {
		return c.handleCommand(ctx, msg)
	}

	switch c.state(msg.ChatID) {
	case model.StateAwaitingSession:
		return c.handleSession(ctx, msg)
	default:
		return c.handleCodes(ctx, msg)
	}
}

// Snapshot reports the conversation state of the operator.
func (c *Controller) Snapshot(operatorID int64) model.ConversationSnapshot {
	c.mu.Lock()
	conv := c.conversationLocked(operatorID)
	snap := model.ConversationSnapshot{
		OperatorID: operatorID,
		State:      conv.state,
		UpdatedAt:  conv.updatedAt,
	}
	if conv.lastBatch != nil {
		last := *conv.lastBatch
		snap.LastBatch = &last
	}
	c.mu.Unlock()

	if session, ok := c.sessions.Current(operatorID); ok {
		snap.HasSession = true
		snap.SessionFingerprint = session.Fingerprint()
	}
	return snap
}

// OperatorID returns the only chat the controller serves.
func (c *Controller) OperatorID() int64 {
	return c.operatorID
}

func (c *Controller) handleCommand(ctx context.Context, msg model.Inbound) error {
	switch strings.ToLower(msg.Command) {
	case "start":
		if c.state(msg.ChatID) == model.StateReady {
			return c.reply(ctx, msg.ChatID, msgReady)
		}
		return c.reply(ctx, msg.ChatID, msgAskSession)
	case "status":
		return c.reply(ctx, msg.ChatID, c.statusText(msg.ChatID))
	case "logout":
		c.sessions.Invalidate(msg.ChatID)
		c.fire(msg.ChatID, EventLogout)
		return c.reply(ctx, msg.ChatID, msgLoggedOut)
	default:
		return c.reply(ctx, msg.ChatID, msgHelp)
	}
}

func (c *Controller) handleSession(ctx context.Context, msg model.Inbound) error {
	if _, err := c.sessions.Accept(ctx, msg.ChatID, msg.Text); err != nil {
		c.fire(msg.ChatID, EventSessionRejected)
		return c.reply(ctx, msg.ChatID, fmt.Sprintf("❌ Cookies rejected: %s. Send fresh cookies.", rejectionReason(err)))
	}
	c.fire(msg.ChatID, EventSessionAccepted)
	return c.reply(ctx, msg.ChatID, msgSessionSet)
}

func (c *Controller) handleCodes(ctx context.Context, msg model.Inbound) error {
	session, ok := c.sessions.Current(msg.ChatID)
	if !ok {
		c.fire(msg.ChatID, EventSessionExpired)
		return c.reply(ctx, msg.ChatID, msgSessionMissing)
	}

	codes := usecase.ParseCodes(msg.Text)
	if len(codes) == 0 {
		return c.reply(ctx, msg.ChatID, msgNoCodes)
	}

	if !c.acquire(msg.ChatID) {
		if err := c.reply(ctx, msg.ChatID, msgBusy); err != nil {
			return err
		}
		return domainErrors.ErrBatchInProgress
	}
	defer c.release(msg.ChatID)

	if err := c.reply(ctx, msg.ChatID, fmt.Sprintf("⚡ Checking %d...", len(codes))); err != nil {
		c.logger.Warn("progress reply failed", slog.String("error", err.Error()))
	}

	result, err := c.batches.Process(ctx, session, codes)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNoCodes) {
			return c.reply(ctx, msg.ChatID, msgNoCodes)
		}
		return fmt.Errorf("process batch: %w", err)
	}

	summary := result.Summary()
	c.mu.Lock()
	c.conversationLocked(msg.ChatID).lastBatch = &summary
	c.mu.Unlock()

	if result.SessionExpired {
		c.sessions.Invalidate(msg.ChatID)
		c.fire(msg.ChatID, EventSessionExpired)
	} else {
		c.fire(msg.ChatID, EventBatchProcessed)
	}
	for _, part := range c.renderer.Render(result) {
		if err := c.reply(ctx, msg.ChatID, part); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) statusText(chatID int64) string {
	snap := c.Snapshot(chatID)
	var b strings.Builder
	fmt.Fprintf(&b, "State: %s\n", snap.State)
	if snap.HasSession {
		fmt.Fprintf(&b, "Session: %s\n", snap.SessionFingerprint)
	} else {
		b.WriteString("Session: none\n")
	}
	if last := snap.LastBatch; last != nil {
		fmt.Fprintf(&b, "Last batch: %d codes, %d valid, %s, %d errors",
			last.Codes, last.Valid, c.renderer.Amount(last.TotalValue), last.Errors)
	} else {
		b.WriteString("Last batch: none")
	}
	return b.String()
}

func (c *Controller) state(chatID int64) model.ConversationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversationLocked(chatID).state
}

func (c *Controller) fire(chatID int64, event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	conv := c.conversationLocked(chatID)
	next, err := Next(conv.state, event)
	if err != nil {
		c.logger.Warn("ignored transition", slog.String("error", err.Error()))
		return
	}
	if next != conv.state {
		c.logger.Info("conversation state changed",
			slog.Int64("operator", chatID),
			slog.String("from", string(conv.state)),
			slog.String("to", string(next)),
		)
	}
	conv.state = next
	conv.updatedAt = c.now()
}

func (c *Controller) acquire(chatID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	conv := c.conversationLocked(chatID)
	if conv.busy {
		return false
	}
	conv.busy = true
	return true
}

func (c *Controller) release(chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conversationLocked(chatID).busy = false
}

func (c *Controller) conversationLocked(chatID int64) *conversation {
	conv, ok := c.convs[chatID]
	if !ok {
		conv = &conversation{state: model.StateAwaitingSession, updatedAt: c.now()}
		c.convs[chatID] = conv
	}
	return conv
}

func (c *Controller) reply(ctx context.Context, chatID int64, text string) error {
	if err := c.replier.Reply(ctx, chatID, text); err != nil {
		return fmt.Errorf("reply: %w", err)
	}
	return nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domainErrors.ErrEmptySession):
		return "message was empty"
	case errors.Is(err, domainErrors.ErrSessionRejected):
		return "the shop did not recognise this login"
	default:
		return "unexpected error"
	}
}

package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/polkiloo/voucherbot/internal/domain/model"
)

const pollTimeoutSeconds = 60

// API is the part of the Bot API client used by the transport.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// ToInbound converts a Bot API update into an inbound message. Updates without a text message are skipped.
func ToInbound(update tgbotapi.Update) (model.Inbound, bool) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return model.Inbound{}, false
	}
	in := model.Inbound{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		Text:      msg.Text,
	}
	if msg.IsCommand() {
		in.Command = msg.Command()
	}
	return in, true
}

// Sender replies to chats with HTML formatted messages.
type Sender struct {
	api    API
	logger *slog.Logger
}

// NewSender creates Sender.
func NewSender(api API, logger *slog.Logger) *Sender {
	return &Sender{api: api, logger: logger.With(slog.String("component", "telegram"))}
}

// Reply sends text to the chat.
func (s *Sender) Reply(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Poller receives updates by long polling.
type Poller struct {
	api    API
	logger *slog.Logger
}

// NewPoller creates Poller.
func NewPoller(api API, logger *slog.Logger) *Poller {
	return &Poller{api: api, logger: logger.With(slog.String("component", "telegram"))}
}

// Updates starts long polling. The returned channel closes when ctx is done.
func (p *Poller) Updates(ctx context.Context) <-chan model.Inbound {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSeconds
	updates := p.api.GetUpdatesChan(cfg)

	out := make(chan model.Inbound)
	go func() {
		defer close(out)
		defer p.api.StopReceivingUpdates()
		p.logger.Info("long polling started")
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				msg, ok := ToInbound(update)
				if !ok {
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// WebhookSource receives updates pushed over HTTP.
type WebhookSource struct {
	ch chan model.Inbound
}

// NewWebhookSource creates WebhookSource with the given buffer.
func NewWebhookSource(buffer int) *WebhookSource {
	if buffer <= 0 {
		buffer = 1
	}
	return &WebhookSource{ch: make(chan model.Inbound, buffer)}
}

// Updates returns the channel fed by Push.
func (w *WebhookSource) Updates(context.Context) <-chan model.Inbound {
	return w.ch
}

// Push decodes one update from body and queues it. Non-message updates are accepted and dropped.
func (w *WebhookSource) Push(ctx context.Context, body io.Reader) error {
	var update tgbotapi.Update
	if err := json.NewDecoder(body).Decode(&update); err != nil {
		return fmt.Errorf("decode update: %w", err)
	}
	msg, ok := ToInbound(update)
	if !ok {
		return nil
	}
	select {
	case w.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Register points the bot at the webhook URL, or removes the webhook when url is empty.
func Register(api API, url string) error {
	if url == "" {
		if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			return fmt.Errorf("delete webhook: %w", err)
		}
		return nil
	}
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("build webhook: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

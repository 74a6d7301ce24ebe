package telegram

import (
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"

	"github.com/polkiloo/voucherbot/internal/config"
)

// Module exposes the Telegram transport to the fx graph.
var Module = fx.Provide(
	newAPI,
	NewSender,
	NewPoller,
	newWebhookSource,
)

func newAPI(cfg *config.Config, logger *slog.Logger) (API, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	logger.Info("telegram bot authorised", slog.String("username", bot.Self.UserName))
	return bot, nil
}

func newWebhookSource(cfg *config.Config) *WebhookSource {
	return NewWebhookSource(cfg.QueueSize)
}

// WebhookURL returns the public URL Telegram should post updates to.
func WebhookURL(cfg *config.Config) string {
	if !cfg.WebhookEnabled() {
		return ""
	}
	return strings.TrimRight(cfg.WebhookURL, "/") + "/telegram/webhook/" + cfg.WebhookSecret
}

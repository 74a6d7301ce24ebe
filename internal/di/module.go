package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/voucherbot/internal/adapter/upstream"
	"github.com/polkiloo/voucherbot/internal/app"
	"github.com/polkiloo/voucherbot/internal/config"
	"github.com/polkiloo/voucherbot/internal/conversation"
	"github.com/polkiloo/voucherbot/internal/logger"
	"github.com/polkiloo/voucherbot/internal/pkg/auth"
	"github.com/polkiloo/voucherbot/internal/server/http/handlers"
	"github.com/polkiloo/voucherbot/internal/server/http/router"
	"github.com/polkiloo/voucherbot/internal/storage/memory"
	"github.com/polkiloo/voucherbot/internal/transport/telegram"
	"github.com/polkiloo/voucherbot/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		memory.Module,
		upstream.Module,
		usecase.Module,
		telegram.Module,
		fx.Provide(func(s *telegram.Sender) conversation.Replier { return s }),
		conversation.Module,
		fx.Provide(func(f *app.BotFacade) handlers.BotFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}

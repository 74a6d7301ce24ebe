package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/voucherbot/internal/config"
	"github.com/polkiloo/voucherbot/internal/conversation"
	"github.com/polkiloo/voucherbot/internal/transport/telegram"
	"github.com/polkiloo/voucherbot/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newBotFacade,
		newHTTPServer,
		newSource,
		newDispatcher,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Config     *config.Config
	Controller *conversation.Controller
	Webhook    *telegram.WebhookSource
}

func newBotFacade(p facadeParams) *BotFacade {
	mode := ModePolling
	if p.Config.WebhookEnabled() {
		mode = ModeWebhook
	}
	return NewBotFacade(p.Controller, p.Webhook, mode)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type sourceParams struct {
	fx.In

	Config  *config.Config
	Poller  *telegram.Poller
	Webhook *telegram.WebhookSource
}

func newSource(p sourceParams) worker.Source {
	if p.Config.WebhookEnabled() {
		return p.Webhook
	}
	return p.Poller
}

type workerParams struct {
	fx.In

	Source     worker.Source
	Controller *conversation.Controller
	Config     *config.Config
	Logger     *slog.Logger
}

func newDispatcher(p workerParams) *worker.Dispatcher {
	return worker.NewDispatcher(p.Source, p.Controller, p.Config.QueueSize, p.Logger)
}

type lifecycleParams struct {
	fx.In

	Context    context.Context
	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Dispatcher *worker.Dispatcher
	Bot        telegram.API
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := telegram.Register(p.Bot, telegram.WebhookURL(p.Config)); err != nil {
				return fmt.Errorf("register transport: %w", err)
			}
			p.Logger.Info("starting voucherbot",
				slog.String("addr", p.Server.Addr),
				slog.Bool("webhook", p.Config.WebhookEnabled()),
			)
			p.Dispatcher.Start(p.Context)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			// Webhook requests may wait on the queue, so the dispatcher keeps draining until they finish.
			err := p.Server.Shutdown(shutdownCtx)
			p.Dispatcher.Stop()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("voucherbot stopped")
			return nil
		},
	})
}

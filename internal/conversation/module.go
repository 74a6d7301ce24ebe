package conversation

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/voucherbot/internal/config"
	"github.com/polkiloo/voucherbot/internal/usecase"
)

// Module provides the conversation controller.
var Module = fx.Provide(newController)

type controllerParams struct {
	fx.In

	Config   *config.Config
	Sessions *usecase.SessionUseCase
	Batches  *usecase.BatchUseCase
	Replier  Replier
	Logger   *slog.Logger
}

func newController(p controllerParams) *Controller {
	return NewController(
		p.Config.OperatorChatID,
		p.Sessions,
		p.Batches,
		p.Replier,
		NewRenderer(p.Config.ReportLimit),
		p.Logger,
	)
}

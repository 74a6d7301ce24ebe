package upstream

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/voucherbot/internal/config"
)

// Module exposes upstream client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.UpstreamBaseURL, Options{
		Tenant:       p.Config.UpstreamTenant,
		ApplyTimeout: p.Config.ApplyTimeout,
		ResetTimeout: p.Config.ResetTimeout,
		ProbeTimeout: p.Config.ProbeTimeout,
	}, p.Logger)
}

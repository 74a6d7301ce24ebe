package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/voucherbot/internal/config"
)

// Module provides the ops server secret verifiers via fx.
var Module = fx.Provide(newVerifiers)

type verifierParams struct {
	fx.In

	Config *config.Config
}

func newVerifiers(p verifierParams) Verifiers {
	return Verifiers{
		Status:  NewHMACVerifier("status", p.Config.StatusToken),
		Webhook: NewHMACVerifier("webhook", p.Config.WebhookSecret),
	}
}

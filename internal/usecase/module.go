package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/voucherbot/internal/adapter/upstream"
	"github.com/polkiloo/voucherbot/internal/config"
	"github.com/polkiloo/voucherbot/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newTierTable,
	newSessionUseCase,
	newBatchUseCase,
)

func newTierTable(cfg *config.Config) *TierTable {
	return NewTierTable(cfg.VoucherTiers)
}

type sessionParams struct {
	fx.In

	Sessions repository.SessionRepository
	Client   upstream.Client
	Config   *config.Config
	Logger   *slog.Logger
}

func newSessionUseCase(p sessionParams) *SessionUseCase {
	return NewSessionUseCase(p.Sessions, p.Client, p.Config.ValidateSession, p.Logger)
}

type batchParams struct {
	fx.In

	Client upstream.Client
	Tiers  *TierTable
	Config *config.Config
	Logger *slog.Logger
}

func newBatchUseCase(p batchParams) *BatchUseCase {
	return NewBatchUseCase(p.Client, p.Tiers, p.Config.SessionFailureThreshold, p.Logger)
}

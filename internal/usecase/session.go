package usecase

import (
	"context"
	"fmt"
	"log/slog"

	domainErrors "github.com/polkiloo/voucherbot/internal/domain/errors"
	"github.com/polkiloo/voucherbot/internal/domain/model"
	"github.com/polkiloo/voucherbot/internal/domain/repository"
)

// SessionProber verifies that a cookie session is logged in upstream.
type SessionProber interface {
	Probe(ctx context.Context, session model.Session) error
}

// SessionUseCase accepts, validates and forgets operator sessions.
type SessionUseCase struct {
	sessions repository.SessionRepository
	prober   SessionProber
	validate bool
	logger   *slog.Logger
}

// NewSessionUseCase constructs SessionUseCase. A nil prober disables validation.
func NewSessionUseCase(sessions repository.SessionRepository, prober SessionProber, validate bool, logger *slog.Logger) *SessionUseCase {
	return &SessionUseCase{
		sessions: sessions,
		prober:   prober,
		validate: validate && prober != nil,
		logger:   logger.With(slog.String("component", "session")),
	}
}

// Accept normalizes the pasted cookies, optionally probes them and stores the session.
// A rejected candidate is never stored.
func (u *SessionUseCase) Accept(ctx context.Context, operatorID int64, raw string) (model.Session, error) {
	candidate := NormalizeSession(raw)
	if candidate == "" {
		u.sessions.Clear(operatorID)
		return "", domainErrors.ErrEmptySession
	}

	if u.validate {
		if err := u.prober.Probe(ctx, candidate); err != nil {
			u.sessions.Clear(operatorID)
			u.logger.Info("session rejected",
				slog.Int64("operator", operatorID),
				slog.String("fingerprint", candidate.Fingerprint()),
				slog.String("error", err.Error()),
			)
			return "", fmt.Errorf("%w: %v", domainErrors.ErrSessionRejected, err)
		}
	}

	u.logger.Info("session accepted",
		slog.Int64("operator", operatorID),
		slog.String("fingerprint", candidate.Fingerprint()),
		slog.Bool("validated", u.validate),
	)
	return u.sessions.Set(operatorID, candidate), nil
}

// Current returns the accepted session of the operator.
func (u *SessionUseCase) Current(operatorID int64) (model.Session, bool) {
	return u.sessions.Get(operatorID)
}

// Invalidate drops the operator session.
func (u *SessionUseCase) Invalidate(operatorID int64) {
	u.sessions.Clear(operatorID)
	u.logger.Info("session invalidated", slog.Int64("operator", operatorID))
}

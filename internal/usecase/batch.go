package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/voucherbot/internal/domain/errors"
	"github.com/polkiloo/voucherbot/internal/domain/model"
)

// VoucherClient is the subset of the upstream client used by batches.
type VoucherClient interface {
	Apply(ctx context.Context, session model.Session, code string) (*model.ApplyResponse, error)
	Reset(ctx context.Context, session model.Session, code string)
}

// BatchUseCase checks voucher codes one by one against the operator cart.
type BatchUseCase struct {
	client           VoucherClient
	tiers            *TierTable
	failureThreshold int
	logger           *slog.Logger
	now              func() time.Time
}

// NewBatchUseCase constructs BatchUseCase. failureThreshold of 0 disables session expiry detection.
func NewBatchUseCase(client VoucherClient, tiers *TierTable, failureThreshold int, logger *slog.Logger) *BatchUseCase {
	return &BatchUseCase{
		client:           client,
		tiers:            tiers,
		failureThreshold: failureThreshold,
		logger:           logger.With(slog.String("component", "batch")),
		now:              time.Now,
	}
}

// Process applies and resets every code sequentially. Per-code failures become ERROR outcomes,
// so the result always holds one outcome per code in submission order.
func (u *BatchUseCase) Process(ctx context.Context, session model.Session, codes []string) (*model.BatchResult, error) {
	if len(codes) == 0 {
		return nil, domainErrors.ErrNoCodes
	}

	result := &model.BatchResult{
		ID:        uuid.New(),
		Outcomes:  make([]model.Outcome, 0, len(codes)),
		StartedAt: u.now(),
	}
	logger := u.logger.With(slog.String("batch", result.ID.String()))
	logger.Info("batch started", slog.Int("codes", len(codes)), slog.String("session", session.Fingerprint()))

	consecutiveAuth := 0
	for _, code := range codes {
		outcome, err := u.check(ctx, session, code)
		if err != nil {
			result.ErrorCount++
			if errors.Is(err, domainErrors.ErrUnauthorized) {
				result.AuthFailures++
				consecutiveAuth++
			} else {
				consecutiveAuth = 0
			}
			logger.Warn("voucher check failed", slog.String("code", code), slog.String("error", err.Error()))
		} else {
			consecutiveAuth = 0
		}
		if u.failureThreshold > 0 && consecutiveAuth >= u.failureThreshold {
			result.SessionExpired = true
		}

		u.client.Reset(ctx, session, code)
		result.Add(outcome)
	}

	result.Duration = u.now().Sub(result.StartedAt)
	logger.Info("batch finished",
		slog.Int("valid", len(result.ValidCodes)),
		slog.Int64("total", result.TotalValue),
		slog.Int("errors", result.ErrorCount),
		slog.Bool("session_expired", result.SessionExpired),
		slog.Duration("duration", result.Duration),
	)
	return result, nil
}

func (u *BatchUseCase) check(ctx context.Context, session model.Session, code string) (model.Outcome, error) {
	resp, err := u.client.Apply(ctx, session, code)
	if err != nil {
		return model.Outcome{Code: code, Status: model.StatusError}, err
	}
	status, reported := Classify(resp)
	return model.Outcome{
		Code:   code,
		Status: status,
		Value:  ResolveValue(u.tiers.Value(code), reported),
	}, nil
}

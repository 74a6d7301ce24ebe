package repository

import "github.com/polkiloo/voucherbot/internal/domain/model"

// SessionRepository keeps the accepted session of each operator.
type SessionRepository interface {
	Set(operatorID int64, session model.Session) model.Session
	Get(operatorID int64) (model.Session, bool)
	Has(operatorID int64) bool
	Clear(operatorID int64)
}

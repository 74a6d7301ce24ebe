package memory

import (
	"go.uber.org/fx"

	"github.com/polkiloo/voucherbot/internal/domain/repository"
)

// Module wires in-memory session storage.
var Module = fx.Options(
	fx.Provide(NewSessionStore),
	fx.Provide(func(s *SessionStore) repository.SessionRepository { return s }),
)

package auth

import "errors"

var ErrInvalidToken = errors.New("invalid auth token")

// Verifier checks a presented shared secret.
type Verifier interface {
	Verify(token string) error
	Enabled() bool
	Name() string
}

// Verifiers groups the secrets guarding the ops server.
type Verifiers struct {
	Status  Verifier
	Webhook Verifier
}

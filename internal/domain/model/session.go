package model

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Session is the operator's browser cookie header value.
type Session string

// String hides the cookie value from formatted output.
func (s Session) String() string {
	if s == "" {
		return ""
	}
	return "session:" + s.Fingerprint()
}

// Fingerprint returns a short stable digest safe to log.
func (s Session) Fingerprint() string {
	if s == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(s))
	return hex.EncodeToString(sum[:6])
}

// Header returns the raw cookie header value.
func (s Session) Header() string {
	return string(s)
}

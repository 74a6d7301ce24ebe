package errors

import "errors"

var (
	ErrEmptySession      = errors.New("empty session")
	ErrSessionRejected   = errors.New("session rejected")
	ErrNoCodes           = errors.New("no voucher codes")
	ErrUnauthorized      = errors.New("upstream rejected session")
	ErrMalformedResponse = errors.New("malformed upstream response")
	ErrBatchInProgress   = errors.New("batch already in progress")
	ErrForeignChat       = errors.New("message from foreign chat")
)

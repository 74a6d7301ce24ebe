package test

import (
	"context"
	"sync"

	"github.com/polkiloo/voucherbot/internal/domain/model"
)

// UpstreamCall records a single upstream invocation.
type UpstreamCall struct {
	Op      string
	Session model.Session
	Code    string
}

// UpstreamStub provides controllable upstream client behaviour.
type UpstreamStub struct {
	ApplyFn func(context.Context, model.Session, string) (*model.ApplyResponse, error)
	ProbeFn func(context.Context, model.Session) error

	mu    sync.Mutex
	calls []UpstreamCall
}

// Apply records the call and delegates to ApplyFn or reports success without saved amount.
func (s *UpstreamStub) Apply(ctx context.Context, session model.Session, code string) (*model.ApplyResponse, error) {
	s.record("apply", session, code)
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, session, code)
	}
	return &model.ApplyResponse{}, nil
}

// Reset records the call.
func (s *UpstreamStub) Reset(ctx context.Context, session model.Session, code string) {
	s.record("reset", session, code)
}

// Probe records the call and delegates to ProbeFn or accepts the session.
func (s *UpstreamStub) Probe(ctx context.Context, session model.Session) error {
	s.record("probe", session, "")
	if s.ProbeFn != nil {
		return s.ProbeFn(ctx, session)
	}
	return nil
}

// Calls returns a copy of recorded invocations.
func (s *UpstreamStub) Calls() []UpstreamCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]UpstreamCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// CountOp returns how many times the operation was invoked.
func (s *UpstreamStub) CountOp(op string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (s *UpstreamStub) record(op string, session model.Session, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, UpstreamCall{Op: op, Session: session, Code: code})
}

// ErrorResponse builds an apply answer carrying a single error message.
func ErrorResponse(message string) *model.ApplyResponse {
	return &model.ApplyResponse{HasError: true, Messages: []string{message}}
}

package test

import (
	"context"
	"sync"
)

// Reply captures a message sent back to a chat.
type Reply struct {
	ChatID int64
	Text   string
}

// ReplierStub records outgoing chat messages.
type ReplierStub struct {
	Err error

	mu      sync.Mutex
	replies []Reply
}

// Reply stores the message and returns configured error.
func (r *ReplierStub) Reply(ctx context.Context, chatID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, Reply{ChatID: chatID, Text: text})
	return r.Err
}

// Replies returns a copy of captured messages.
func (r *ReplierStub) Replies() []Reply {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Reply, len(r.replies))
	copy(out, r.replies)
	return out
}

// Last returns the most recent message text.
func (r *ReplierStub) Last() string {
	replies := r.Replies()
	if len(replies) == 0 {
		return ""
	}
	return replies[len(replies)-1].Text
}

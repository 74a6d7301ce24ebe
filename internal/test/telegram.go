package test

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotAPIStub records Bot API calls made by the transport.
type BotAPIStub struct {
	RequestErr error
	Updates    chan tgbotapi.Update

	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

// Send records the message.
func (b *BotAPIStub) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, nil
}

// Request records the call and returns configured error.
func (b *BotAPIStub) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	if b.RequestErr != nil {
		return nil, b.RequestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// GetUpdatesChan returns the Updates channel, creating it on first use.
func (b *BotAPIStub) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Updates == nil {
		b.Updates = make(chan tgbotapi.Update)
	}
	return b.Updates
}

// StopReceivingUpdates is a no-op.
func (b *BotAPIStub) StopReceivingUpdates() {}

// Requests returns a copy of recorded requests.
func (b *BotAPIStub) Requests() []tgbotapi.Chattable {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]tgbotapi.Chattable, len(b.requests))
	copy(out, b.requests)
	return out
}

// Sent returns a copy of recorded messages.
func (b *BotAPIStub) Sent() []tgbotapi.Chattable {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]tgbotapi.Chattable, len(b.sent))
	copy(out, b.sent)
	return out
}

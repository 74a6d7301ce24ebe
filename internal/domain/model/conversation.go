package model

import "time"

// ConversationState is the operator conversation stage.
type ConversationState string

const (
	StateAwaitingSession ConversationState = "AWAITING_SESSION"
	StateReady           ConversationState = "READY"
)

// Inbound is a chat message delivered by the transport.
type Inbound struct {
	ChatID    int64
	MessageID int
	// Command holds the bot command without the leading slash, empty for plain text.
	Command string
	Text    string
}

// IsCommand reports whether the message is a bot command.
func (m Inbound) IsCommand() bool {
	return m.Command != ""
}

// ConversationSnapshot describes operator conversation for the status endpoint.
type ConversationSnapshot struct {
	OperatorID         int64             `json:"operator_id"`
	State              ConversationState `json:"state"`
	HasSession         bool              `json:"has_session"`
	SessionFingerprint string            `json:"session_fingerprint,omitempty"`
	LastBatch          *BatchSummary     `json:"last_batch,omitempty"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// ServiceStatus is the bot state reported to operators of the service.
type ServiceStatus struct {
	Mode         string
	StartedAt    time.Time
	Conversation ConversationSnapshot
}

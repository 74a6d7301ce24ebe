package conversation

import (
	"fmt"

	"github.com/polkiloo/voucherbot/internal/domain/model"
)

// Event drives conversation state changes.
type Event string

const (
	EventSessionAccepted Event = "session_accepted"
	EventSessionRejected Event = "session_rejected"
	EventBatchProcessed  Event = "batch_processed"
	EventSessionExpired  Event = "session_expired"
	EventLogout          Event = "logout"
)

type transitionKey struct {
	from  model.ConversationState
	event Event
}

var transitions = map[transitionKey]model.ConversationState{
	{model.StateAwaitingSession, EventSessionAccepted}: model.StateReady,
	{model.StateAwaitingSession, EventSessionRejected}: model.StateAwaitingSession,
	{model.StateAwaitingSession, EventLogout}:          model.StateAwaitingSession,
	{model.StateReady, EventBatchProcessed}:            model.StateReady,
	{model.StateReady, EventSessionExpired}:            model.StateAwaitingSession,
	{model.StateReady, EventLogout}:                    model.StateAwaitingSession,
}

// Next returns the state reached from the given state on event.
func Next(from model.ConversationState, event Event) (model.ConversationState, error) {
	to, ok := transitions[transitionKey{from: from, event: event}]
	if !ok {
		return from, fmt.Errorf("no transition from %s on %s", from, event)
	}
	return to, nil
}

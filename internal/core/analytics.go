package core

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventMessage              EventKind = "message"
	EventConversationContinue EventKind = "conversation.continue"
	EventStopID               EventKind = "stop.id"
	EventCacheMiss            EventKind = "cache.miss"
)

type Event struct {
	ID       string    `json:"id"`
	Kind     EventKind `json:"kind"`
	CallerID string    `json:"caller_id,omitempty"`
	At       time.Time `json:"at"`
}

// NewEvent stamps a usage event with a fresh id and the current time.
func NewEvent(kind EventKind, callerID string) Event {
	return Event{
		ID:       uuid.NewString(),
		Kind:     kind,
		CallerID: callerID,
		At:       time.Now().UTC(),
	}
}

package core

import (
	"context"
	"fmt"
	"strings"
)

type ContextKind string

const KindMultipleChoice ContextKind = "multiple-choice"

// Action names a resumable operation bound to a menu choice.
type Action int

const (
	ActionArrivalsForStop Action = iota + 1
	ActionArrivalsForHeadsign
)

func (a Action) String() string {
	switch a {
	case ActionArrivalsForStop:
		return "arrivalsForStop"
	case ActionArrivalsForHeadsign:
		return "arrivalsForHeadsign"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

func (a Action) Valid() bool {
	return a == ActionArrivalsForStop || a == ActionArrivalsForHeadsign
}

type ActionParams struct {
	StopID   string `json:"stop_id"`
	Headsign string `json:"headsign,omitempty"`
}

// ConversationContext is what we asked the caller last time.
// Choices, Actions and Params are parallel slices.
type ConversationContext struct {
	Kind    ContextKind
	Choices []string
	Actions []Action
	Params  []ActionParams
}

func NewMultipleChoice() *ConversationContext {
	return &ConversationContext{Kind: KindMultipleChoice}
}

// Add appends a choice. Letters must be unique and actions known.
func (c *ConversationContext) Add(letter string, action Action, params ActionParams) error {
	if letter == "" {
		return fmt.Errorf("empty choice letter")
	}
	if !action.Valid() {
		return fmt.Errorf("unknown action %v", action)
	}
	for _, existing := range c.Choices {
		if strings.EqualFold(existing, letter) {
			return fmt.Errorf("duplicate choice %q", letter)
		}
	}
	c.Choices = append(c.Choices, letter)
	c.Actions = append(c.Actions, action)
	c.Params = append(c.Params, params)
	return nil
}

func (c *ConversationContext) Len() int {
	return len(c.Choices)
}

// Match finds the choice the text selects. A choice matches case-insensitively
// when it is followed by the end of the text, a space or a closing parenthesis.
func (c *ConversationContext) Match(text string) (int, bool) {
	if c == nil || c.Kind != KindMultipleChoice {
		return -1, false
	}
	s := strings.TrimSpace(text)
	for i, choice := range c.Choices {
		if len(s) < len(choice) || !strings.EqualFold(s[:len(choice)], choice) {
			continue
		}
		if len(s) == len(choice) {
			return i, true
		}
		switch s[len(choice)] {
		case ' ', ')':
			return i, true
		}
	}
	return -1, false
}

// Responder answers one inbound message from a caller. Gateways depend on it.
type Responder interface {
	Respond(ctx context.Context, callerID, text string) string
}

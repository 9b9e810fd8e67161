package core

import "context"

// CmdRouter handles reserved diagnostic keywords ahead of the conversation flow.
type CmdRouter interface {
	Execute(ctx context.Context, callerID, input string) (string, bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, callerID string, args []string) (string, error)
}

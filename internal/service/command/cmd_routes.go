package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/internal/service/messages"
)

// RoutesCommand lists the agency's route numbers.
type RoutesCommand struct {
	directory core.TransitDirectory
	msgs      *messages.Messages
	fmt       *ResponseFormatter
}

func NewRoutesCommand(directory core.TransitDirectory, msgs *messages.Messages) *RoutesCommand {
	return &RoutesCommand{directory: directory, msgs: msgs, fmt: NewResponseFormatter()}
}

func (c *RoutesCommand) Name() string {
	return "routes"
}

func (c *RoutesCommand) Description() string {
	return "List agency routes"
}

func (c *RoutesCommand) Execute(ctx context.Context, callerID string, args []string) (string, error) {
	routes, err := c.directory.Routes(ctx)
	if err != nil {
		return "", fmt.Errorf("routes: %w", err)
	}

	names := make([]string, 0, len(routes))
	for _, r := range routes {
		names = append(names, r.ShortName)
	}
	return c.fmt.List(c.msgs.Routes, names), nil
}

package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/internal/service/messages"
)

// NearCommand lists stop ids and names near an address.
type NearCommand struct {
	resolver  core.AddressResolver
	directory core.TransitDirectory
	msgs      *messages.Messages
	shortID   func(string) string
	fmt       *ResponseFormatter
}

func NewNearCommand(resolver core.AddressResolver, directory core.TransitDirectory, msgs *messages.Messages, shortID func(string) string) *NearCommand {
	if shortID == nil {
		shortID = func(id string) string { return id }
	}
	return &NearCommand{
		resolver:  resolver,
		directory: directory,
		msgs:      msgs,
		shortID:   shortID,
		fmt:       NewResponseFormatter(),
	}
}

func (c *NearCommand) Name() string {
	return "near"
}

func (c *NearCommand) Description() string {
	return "List stops near an address"
}

func (c *NearCommand) Execute(ctx context.Context, callerID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.fmt.Usage("near <address>"), nil
	}

	coord, err := c.resolver.Resolve(ctx, core.AddressQuery{Line1: strings.Join(args, " ")})
	if err != nil {
		return "", fmt.Errorf("resolve: %w", err)
	}

	stops, err := c.directory.StopsNear(ctx, coord)
	if err != nil {
		return "", fmt.Errorf("stops near: %w", err)
	}

	items := make([]string, 0, len(stops))
	for _, s := range stops {
		items = append(items, c.fmt.Label(c.shortID(s.ID), s.Name))
	}
	return c.fmt.List(c.msgs.NearbyStops, items), nil
}

package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/internal/service/messages"
)

// GeocodeCommand shows where an address resolves and which service answered.
type GeocodeCommand struct {
	resolver core.AddressResolver
	msgs     *messages.Messages
	fmt      *ResponseFormatter
}

func NewGeocodeCommand(resolver core.AddressResolver, msgs *messages.Messages) *GeocodeCommand {
	return &GeocodeCommand{resolver: resolver, msgs: msgs, fmt: NewResponseFormatter()}
}

func (c *GeocodeCommand) Name() string {
	return "geocode"
}

func (c *GeocodeCommand) Description() string {
	return "Show coordinates, service and quality for an address"
}

func (c *GeocodeCommand) Execute(ctx context.Context, callerID string, args []string) (string, error) {
	if len(args) == 0 {
		return c.fmt.Usage("geocode <address>"), nil
	}

	coord, err := c.resolver.Resolve(ctx, core.AddressQuery{Line1: strings.Join(args, " ")})
	if err != nil {
		return "", fmt.Errorf("resolve: %w", err)
	}
	return fmt.Sprintf(c.msgs.Geocoded, coord.Lat, coord.Lon, coord.Service, coord.Quality), nil
}

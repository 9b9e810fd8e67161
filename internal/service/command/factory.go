package command

import (
	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/internal/service/messages"
)

// DiagnosticKeyword prefixes every diagnostic message.
const DiagnosticKeyword = "test"

func NewCommands(
	resolver core.AddressResolver,
	directory core.TransitDirectory,
	msgs *messages.Messages,
	shortID func(string) string,
) []core.Command {
	return []core.Command{
		NewNearCommand(resolver, directory, msgs, shortID),
		NewGeocodeCommand(resolver, msgs),
		NewRoutesCommand(directory, msgs),
	}
}

// NewDiagnostics builds the router for "test ..." messages.
func NewDiagnostics(resolver core.AddressResolver, directory core.TransitDirectory, msgs *messages.Messages, shortID func(string) string) *Router {
	return New(DiagnosticKeyword, msgs.UnknownCommand, msgs.GenericFail, NewCommands(resolver, directory, msgs, shortID))
}

package command

import (
	"context"
	"strings"
	"unicode"

	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/pkg/log"
)

// Router dispatches "<keyword> <command> args..." messages to diagnostic commands.
type Router struct {
	keyword  string
	commands map[string]core.Command
	order    []core.Command
	unknown  string
	failure  string
}

func New(keyword, unknown, failure string, commands []core.Command) *Router {
	c := &Router{
		keyword:  keyword,
		commands: make(map[string]core.Command),
		unknown:  unknown,
		failure:  failure,
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
		c.order = append(c.order, cmd)
	}
	return c
}

// Match reports whether input starts with the router keyword.
func (c *Router) Match(input string) (rest string, ok bool) {
	s := strings.TrimLeftFunc(input, unicode.IsSpace)
	if len(s) < len(c.keyword) || !strings.EqualFold(s[:len(c.keyword)], c.keyword) {
		return "", false
	}
	rest = s[len(c.keyword):]
	if rest != "" && !unicode.IsSpace(rune(rest[0])) {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func (c *Router) Execute(ctx context.Context, callerID, input string) (string, bool) {
	rest, ok := c.Match(input)
	if !ok {
		return "", false
	}

	parts := strings.Fields(rest)
	if len(parts) == 0 {
		return c.unknown, true
	}

	cmd, ok := c.commands[strings.ToLower(parts[0])]
	if !ok {
		return c.unknown, true
	}

	result, err := cmd.Execute(ctx, callerID, parts[1:])
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("command", cmd.Name()).Msg("diagnostic command failed")
		return c.failure, true
	}
	return result, true
}

func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, len(c.order))
	copy(res, c.order)
	return res
}

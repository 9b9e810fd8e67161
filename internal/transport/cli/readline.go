package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sandevgo/stoptext/internal/config"
	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/pkg/log"
)

const defaultCallerID = "cli-local"

type ReadLine struct {
	cfg       *config.AppConfig
	responder core.Responder
	rl        *readline.Instance
}

func NewReadLine(responder core.Responder, cfg *config.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.GetRuntimePath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     cfg.GetHistoryPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:       cfg,
		responder: responder,
		rl:        rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("ReadLine chat started. Type 'exit' to quit.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		Reply(ctx, r.rl.Stdout(), r.responder, line)
	}
}

// Reply answers one line as the local caller.
func Reply(ctx context.Context, w io.Writer, responder core.Responder, line string) {
	fmt.Fprintf(w, "%s\n", responder.Respond(ctx, defaultCallerID, line))
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

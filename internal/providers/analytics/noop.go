package analytics

import (
	"context"

	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/pkg/log"
)

// Noop drops events. It is used when no broker is configured.
type Noop struct{}

func (Noop) Record(ctx context.Context, event core.Event) error {
	log.FromCtx(ctx).Debug().Str("kind", string(event.Kind)).Msg("usage event")
	return nil
}

// NewRecorder picks the NATS publisher when a URL is configured.
func NewRecorder(url string, connect func() (*NATS, error)) (core.Recorder, error) {
	if url == "" {
		return Noop{}, nil
	}
	n, err := connect()
	if err != nil {
		return nil, err
	}
	return n, nil
}

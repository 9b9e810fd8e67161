package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/sandevgo/stoptext/internal/config"
	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/pkg/log"
)

type publisher interface {
	Publish(subject string, data []byte) error
}

// NATS publishes usage events as JSON to <prefix>.<kind>.
type NATS struct {
	conn   *nats.Conn
	pub    publisher
	prefix string
}

func NewNATS(ctx context.Context, cfg *config.AnalyticsConfig) (*NATS, error) {
	logger := log.FromCtx(ctx)
	opts := []nats.Option{
		nats.Name("stoptext"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info().Msg("nats reconnected")
		}),
	}
	if cfg.NatsToken != "" {
		opts = append(opts, nats.Token(cfg.NatsToken))
	}

	nc, err := nats.Connect(cfg.NatsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &NATS{conn: nc, pub: nc, prefix: cfg.SubjectPrefix}, nil
}

func (n *NATS) Subject(kind core.EventKind) string {
	return n.prefix + "." + string(kind)
}

func (n *NATS) Record(ctx context.Context, event core.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.pub.Publish(n.Subject(event.Kind), payload); err != nil {
		return fmt.Errorf("publish %s: %w", event.Kind, err)
	}
	return nil
}

func (n *NATS) Start(ctx context.Context) error {
	return nil
}

// Shutdown flushes buffered events and closes the connection.
func (n *NATS) Shutdown(ctx context.Context) error {
	if n.conn == nil {
		return nil
	}
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
		return fmt.Errorf("nats drain: %w", err)
	}
	return nil
}

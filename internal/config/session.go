package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/stoptext/pkg/log"
)

type SessionConfig struct {
	Lifetime      time.Duration `env:"SESSION_LIFETIME" envDefault:"5m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"30s"`
}

func NewSessionConfig(ctx context.Context) *SessionConfig {
	c := &SessionConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Session config")
	}
	return c
}

func (c SessionConfig) GetLifetime() time.Duration {
	return c.Lifetime
}

func (c SessionConfig) GetSweepInterval() time.Duration {
	return c.SweepInterval
}

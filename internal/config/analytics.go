package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/stoptext/pkg/log"
)

type AnalyticsConfig struct {
	NatsURL       string `env:"NATS_URL"`
	NatsToken     string `env:"NATS_TOKEN"`
	SubjectPrefix string `env:"STOPTEXT_USAGE_SUBJECT" envDefault:"stoptext.usage"`
}

func NewAnalyticsConfig(ctx context.Context) *AnalyticsConfig {
	c := &AnalyticsConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Analytics config")
	}
	return c
}

func (c AnalyticsConfig) Enabled() bool {
	return c.NatsURL != ""
}

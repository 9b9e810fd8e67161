package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/stoptext/pkg/log"
)

type WebhookConfig struct {
	Port int `env:"PORT" envDefault:"3000"`
}

func NewWebhookConfig(ctx context.Context) *WebhookConfig {
	c := &WebhookConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Webhook config")
	}
	return c
}

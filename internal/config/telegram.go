package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/stoptext/pkg/log"
)

type TelegramConfig struct {
	Token string `env:"STOPTEXT_TELEGRAM_TOKEN,required,notEmpty"`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}

package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v9"
	"github.com/sandevgo/stoptext/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"STOPTEXT_RUNTIME_PATH" envDefault:".stoptext"`

	// Transport Flags
	EnableTelegram bool `env:"STOPTEXT_ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"STOPTEXT_ENABLE_CLI" envDefault:"false"`
	EnableWebhook  bool `env:"STOPTEXT_ENABLE_WEBHOOK" envDefault:"true"`

	// Optional override for the embedded reply templates
	MessagesPath string `env:"STOPTEXT_MESSAGES_PATH"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	if !filepath.IsAbs(c.RuntimePath) {
		c.RuntimePath = GetRuntimePath()
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "stoptext.db")
}

func (c AppConfig) GetHistoryPath() string {
	return filepath.Join(c.RuntimePath, "input_history")
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/stoptext/pkg/log"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver string `env:"STOPTEXT_DB_DRIVER" envDefault:"sqlite"`
	URL    string `env:"DATABASE_URL"`
}

func NewDatabaseConfig(ctx context.Context) *DatabaseConfig {
	c := &DatabaseConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Database config")
	}
	return c
}

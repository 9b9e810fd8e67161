package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/stoptext/pkg/log"
)

type CacheConfig struct {
	MaxCount     int           `env:"CACHE_MAX_COUNT" envDefault:"9500" validate:"gt=0"`
	MaxAge       time.Duration `env:"CACHE_MAX_AGE" envDefault:"720h" validate:"gt=0"`
	MaxKeyLength int           `env:"CACHE_MAX_KEY_LENGTH" envDefault:"50" validate:"gt=0"`
	EvictBatch   int           `env:"CACHE_EVICT_BATCH" envDefault:"1000" validate:"gt=0"`
}

func NewCacheConfig(ctx context.Context) *CacheConfig {
	c := &CacheConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Cache config")
	}
	if err := validate.Struct(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("invalid Cache config")
	}
	return c
}

func (c CacheConfig) GetMaxCount() int {
	return c.MaxCount
}

func (c CacheConfig) GetMaxAge() time.Duration {
	return c.MaxAge
}

func (c CacheConfig) GetMaxKeyLength() int {
	return c.MaxKeyLength
}

func (c CacheConfig) GetEvictBatch() int {
	return c.EvictBatch
}

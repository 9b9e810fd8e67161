package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/stoptext/pkg/log"
)

type TransitConfig struct {
	BaseURL string `env:"OBA_URL" envDefault:"http://ddot-beta.herokuapp.com/api/where" validate:"required,url"`
	APIKey  string `env:"OBA_API_KEY" envDefault:"BETA"`
	Agency  string `env:"OBA_AGENCY" envDefault:"DDOT" validate:"required"`

	Timeout time.Duration `env:"OBA_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	Radius  int           `env:"OBA_SEARCH_RADIUS" envDefault:"800" validate:"gt=0"`

	NearbyStops int `env:"TRANSIT_NEARBY_STOPS" envDefault:"5" validate:"gt=0"`
	MenuSize    int `env:"TRANSIT_MENU_SIZE" envDefault:"6" validate:"gt=0,lte=26"`
	// Lookahead is the arrival window mentioned in the "no buses" reply.
	Lookahead time.Duration `env:"TRANSIT_LOOKAHEAD" envDefault:"60m" validate:"gt=0"`
}

func NewTransitConfig(ctx context.Context) *TransitConfig {
	c := &TransitConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Transit config")
	}
	if err := validate.Struct(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("invalid Transit config")
	}
	return c
}

func (c *TransitConfig) GetNearbyStops() int {
	return c.NearbyStops
}

func (c *TransitConfig) GetMenuSize() int {
	return c.MenuSize
}

func (c *TransitConfig) GetLookahead() time.Duration {
	return c.Lookahead
}

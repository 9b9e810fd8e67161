package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/sandevgo/stoptext/pkg/log"
)

type GeocoderConfig struct {
	Primary     string   `env:"GEOCODER_PRIMARY" envDefault:"arcgis" validate:"required"`
	Secondaries []string `env:"GEOCODER_SECONDARIES" envDefault:"pelias,nominatim,google" envSeparator:","`

	QualityThreshold  float64 `env:"GEOCODER_QUALITY_THRESHOLD" envDefault:"50" validate:"gte=0,lte=100"`
	HomeLocality      string  `env:"GEOCODER_HOME_LOCALITY" envDefault:"Detroit, MI" validate:"required"`
	AlternateLocality string  `env:"GEOCODER_ALTERNATE_LOCALITY" envDefault:"Highland Park, MI"`

	Timeout time.Duration `env:"GEOCODER_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	// MinIntervals holds per-provider cooldowns, e.g. "nominatim:1s,google:100ms".
	MinIntervals map[string]string `env:"GEOCODER_MIN_INTERVAL" envDefault:"nominatim:1s" envSeparator:"," envKeyValSeparator:":"`

	ArcGISURL    string `env:"ARCGIS_URL" envDefault:"https://gis.detroitmi.gov/arcgis/rest/services/DoIT/CompositeGeocoder/GeocodeServer/findAddressCandidates" validate:"omitempty,url"`
	PeliasURL    string `env:"PELIAS_URL" envDefault:"https://api.geocode.earth/v1/search" validate:"omitempty,url"`
	PeliasKey    string `env:"PELIAS_API_KEY"`
	NominatimURL string `env:"NOMINATIM_URL" envDefault:"https://nominatim.openstreetmap.org/search" validate:"omitempty,url"`
	GoogleURL    string `env:"GOOGLE_GEOCODE_URL" envDefault:"https://maps.googleapis.com/maps/api/geocode/json" validate:"omitempty,url"`
	GoogleKey    string `env:"GOOGLE_API_KEY"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func NewGeocoderConfig(ctx context.Context) *GeocoderConfig {
	c := &GeocoderConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Geocoder config")
	}
	if err := validate.Struct(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("invalid Geocoder config")
	}
	return c
}

func (c GeocoderConfig) GetQualityThreshold() float64 {
	return c.QualityThreshold
}

func (c GeocoderConfig) GetHomeLocality() string {
	return c.HomeLocality
}

func (c GeocoderConfig) GetAlternateLocality() string {
	return c.AlternateLocality
}

// MinInterval returns the cooldown configured for a provider, or zero.
func (c GeocoderConfig) MinInterval(provider string) time.Duration {
	raw, ok := c.MinIntervals[provider]
	if !ok {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}

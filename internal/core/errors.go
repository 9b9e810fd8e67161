package core

import (
	"errors"
	"fmt"
)

// Provider layer.
var (
	ErrRateLimited     = errors.New("rate limited")
	ErrNoResults       = errors.New("no results")
	ErrLowQuality      = errors.New("no high-quality results")
	ErrDefaultLocation = errors.New("default location returned")
	ErrTransport       = errors.New("transport error")
)

// Resolver and cache layer.
var (
	ErrAllProvidersFailed = errors.New("all geocoder services failed to return results")
	ErrBadLocation        = errors.New("location could not be geocoded")
	ErrCacheMiss          = errors.New("cache miss")
)

// Transit layer.
var (
	ErrNoStopsFound  = errors.New("no stops found")
	ErrNoArrivalData = errors.New("no arrival data")
)

// ProviderError tags a failure with the geocoder that produced it.
type ProviderError struct {
	Provider string
	Err      error
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: err}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

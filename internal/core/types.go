package core

import (
	"strings"
	"time"
)

const (
	AppName       = "stoptext"
	AppUserAgent  = "stoptext/0.1 (+https://github.com/sandevgo/stoptext)"
	RepositoryURL = "https://github.com/sandevgo/stoptext"
	AppVersion    = "0.1.0"
)

// ServiceCache is reported as the Coordinate service for cache hits.
const ServiceCache = "cache"

// AddressQuery is a two-line address as typed by the sender.
type AddressQuery struct {
	Line1 string
	Line2 string
}

// WithLocality fills Line2 with the given locality when the sender left it empty.
func (q AddressQuery) WithLocality(locality string) AddressQuery {
	if strings.TrimSpace(q.Line2) == "" {
		q.Line2 = locality
	}
	return q
}

// Coordinate is the result of a single successful geocode.
// Quality is normalized to 0-100 by the provider that produced it.
type Coordinate struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Quality float64 `json:"quality"`
	Service string  `json:"service"`
}

// CacheEntry mirrors one row of the geocoder cache.
type CacheEntry struct {
	Key        string
	Coordinate Coordinate
	LastAccess time.Time
	HitCount   int
}

package core

import "time"

type ResolverConfig interface {
	GetQualityThreshold() float64
	GetHomeLocality() string
	GetAlternateLocality() string
}

type CacheConfig interface {
	GetMaxCount() int
	GetMaxAge() time.Duration
	GetMaxKeyLength() int
	GetEvictBatch() int
}

type SessionConfig interface {
	GetLifetime() time.Duration
	GetSweepInterval() time.Duration
}

type ConversationConfig interface {
	GetNearbyStops() int
	GetMenuSize() int
	GetLookahead() time.Duration
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/stoptext/internal/config"
	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/internal/providers/analytics"
	"github.com/sandevgo/stoptext/internal/providers/geocoder"
	"github.com/sandevgo/stoptext/internal/providers/transit"
	"github.com/sandevgo/stoptext/internal/service/command"
	"github.com/sandevgo/stoptext/internal/service/conversation"
	"github.com/sandevgo/stoptext/internal/service/geocode"
	"github.com/sandevgo/stoptext/internal/service/messages"
	"github.com/sandevgo/stoptext/internal/service/session"
	"github.com/sandevgo/stoptext/internal/storage/memory"
	"github.com/sandevgo/stoptext/internal/storage/postgres"
	"github.com/sandevgo/stoptext/internal/storage/sqlite"
	"github.com/sandevgo/stoptext/internal/transport/cli"
	"github.com/sandevgo/stoptext/internal/transport/telegram"
	"github.com/sandevgo/stoptext/internal/transport/webhook"
	"github.com/sandevgo/stoptext/pkg/log"
	"github.com/sandevgo/stoptext/pkg/srv"
)

// app holds the wired core shared by every command.
type app struct {
	cfg      *config.AppConfig
	resolver *geocode.Resolver
	engine   *conversation.Engine
	services []srv.Service
}

// newApp wires storage, geocoding, transit and the conversation engine.
// Background services are returned in start order and must be shut down by the caller.
func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	a := &app{cfg: config.NewAppConfig(ctx)}
	geoCfg := config.NewGeocoderConfig(ctx)
	transitCfg := config.NewTransitConfig(ctx)

	msgs, err := messages.Load(a.cfg.MessagesPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load reply templates")
	}

	// 2. Storage
	repo, cleanup, err := initStorage(ctx, a.cfg, config.NewDatabaseConfig(ctx))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	if cleanup != nil {
		a.services = append(a.services, srv.NewCleanup(cleanup))
	}

	// 3. Usage analytics
	analyticsCfg := config.NewAnalyticsConfig(ctx)
	recorder, err := analytics.NewRecorder(analyticsCfg.NatsURL, func() (*analytics.NATS, error) {
		return analytics.NewNATS(ctx, analyticsCfg)
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect analytics")
	}
	if svc, ok := recorder.(srv.Service); ok {
		a.services = append(a.services, svc)
	}

	// 4. Geocoding
	primary, secondaries, err := geocoder.NewGeocoders(ctx, geoCfg, geocoder.NewRateLimiter(nil))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize geocoders")
	}
	cache := geocode.NewCache(repo, config.NewCacheConfig(ctx))
	a.services = append(a.services, cache)
	a.resolver = geocode.NewResolver(cache, primary, secondaries, geoCfg, recorder)

	// 5. Transit directory
	directory := transit.NewOneBusAway(transitCfg)

	// 6. Conversation
	sessions := session.NewStore(config.NewSessionConfig(ctx))
	a.services = append(a.services, sessions)

	router := command.NewDiagnostics(a.resolver, directory, msgs, directory.ShortStopID)
	a.engine = conversation.NewEngine(router, a.resolver, directory, sessions, recorder, msgs, transitCfg)

	return a
}

func initStorage(ctx context.Context, appCfg *config.AppConfig, dbCfg *config.DatabaseConfig) (core.GeocodeCacheRepository, func() error, error) {
	switch dbCfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewGeocodeCache(db), db.Close, nil
	case config.DriverPostgres:
		store, err := postgres.New(ctx, dbCfg.URL)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewGeocodeCache(store), func() error {
			store.Close()
			return nil
		}, nil
	case config.DriverMemory:
		return memory.NewGeocodeCache(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", dbCfg.Driver)
	}
}

func initTransports(ctx context.Context, cfg *config.AppConfig, engine core.Responder) ([]srv.Service, error) {
	var services []srv.Service

	if cfg.EnableWebhook {
		services = append(services, webhook.NewServer(ctx, config.NewWebhookConfig(ctx), engine))
	}

	// Telegram Bot
	if cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, engine)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	if cfg.EnableCLI {
		rl, err := cli.NewReadLine(engine, cfg)
		if err != nil {
			return nil, err
		}
		services = append(services, rl)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

package srv

import (
	"context"
	"time"

	"github.com/sandevgo/stoptext/pkg/log"
)

// DefaultShutdownTimeout bounds how long ShutdownServices waits for all services.
const DefaultShutdownTimeout = 10 * time.Second

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

func StartServices(ctx context.Context, services []Service) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			if err := service.Start(ctx); err != nil {
				logger.Fatal().Err(err).Msgf("%T failed to start", service)
			}
		}(service)
	}
}

// ShutdownServices blocks until ctx is done, then stops services in reverse
// start order. Each Shutdown gets a fresh context bounded by timeout.
func ShutdownServices(ctx context.Context, services []Service, timeout time.Duration) {
	<-ctx.Done()

	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	logger := log.FromCtx(ctx)
	shutdownCtx, cancel := context.WithTimeout(logger.WithContext(context.Background()), timeout)
	defer cancel()

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}

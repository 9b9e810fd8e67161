package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sandevgo/stoptext/internal/config"
	"github.com/sandevgo/stoptext/internal/core"
	"github.com/sandevgo/stoptext/pkg/log"
)

// Server receives Twilio SMS webhooks and answers with TwiML.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	responder core.Responder
}

func NewServer(ctx context.Context, cfg *config.WebhookConfig, responder core.Responder) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(requestLogger(*log.FromCtx(ctx)))
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		responder: responder,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	router.Get("/health", s.health)
	router.Post("/twilio", s.twilio)

	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.server.Addr).Msg("webhook server starting")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) twilio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	body, ok := r.PostForm["Body"]
	if !ok || len(body) == 0 {
		http.Error(w, "missing Body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	callerID := CallerID(r.PostForm.Get("From"))
	logger := log.FromCtx(ctx)
	logger.Info().Str("caller", callerID).Str("body", body[0]).Msg("inbound message")

	start := time.Now()
	reply := s.responder.Respond(ctx, callerID, body[0])

	out, err := TwiML(reply)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build reply")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	logger.Info().
		Str("caller", callerID).
		Int("length", len(reply)).
		Dur("elapsed", time.Since(start)).
		Msg("outbound message")

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// requestLogger attaches the base logger to each request and logs it once done.
func requestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context())))

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}

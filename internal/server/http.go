package server

import (
	"context"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/lms-platform/internal/auth"
	"github.com/gokatarajesh/lms-platform/internal/config"
	"github.com/gokatarajesh/lms-platform/internal/logging"
	"github.com/gokatarajesh/lms-platform/internal/metrics"
	httperrors "github.com/gokatarajesh/lms-platform/pkg/http/errors"
)

// Registrar mounts a package's routes.
type Registrar interface {
	Register(mux *http.ServeMux)
}

// Pinger reports whether a backing dependency is reachable.
type Pinger func(ctx context.Context) error

// Options carries everything the HTTP server wires around the feature routes.
type Options struct {
	Tokens   auth.TokenValidator
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Pingers  map[string]Pinger
}

// NewUpgrader accepts WebSocket handshakes from the configured origins. Requests without
// an Origin header (non-browser clients) are allowed.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		},
	}
}

// NewHTTPServer wires base routes (health, metrics, ping) plus the feature routes.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, opts Options, routes ...Registrar) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		for name, ping := range opts.Pingers {
			if err := ping(r.Context()); err != nil {
				logger := logging.FromContext(r.Context())
				logger.Error().Err(err).Str("dependency", name).Msg("dependency ping failed")
				httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError, name+" unavailable")
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	for _, r := range routes {
		r.Register(mux)
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: Handler(cfg.CORS, logger, opts, mux),
	}
}

// Handler wraps mux with logging, CORS, auth and metrics, outermost first.
func Handler(corsCfg config.CORS, logger zerolog.Logger, opts Options, mux http.Handler) http.Handler {
	var h http.Handler = mux
	if opts.Metrics != nil {
		h = opts.Metrics.Middleware(h)
	}
	if opts.Tokens != nil {
		h = auth.Middleware(opts.Tokens, logger)(h)
	}
	h = cors.New(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   corsCfg.AllowedMethods,
		AllowedHeaders:   corsCfg.AllowedHeaders,
		ExposedHeaders:   []string{logging.RequestIDHeader},
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           corsCfg.MaxAge,
	}).Handler(h)
	return logging.Middleware(logger)(h)
}

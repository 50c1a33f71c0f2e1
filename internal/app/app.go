package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gokatarajesh/lms-platform/internal/assessment"
	"github.com/gokatarajesh/lms-platform/internal/auth/jwt"
	"github.com/gokatarajesh/lms-platform/internal/config"
	"github.com/gokatarajesh/lms-platform/internal/course"
	"github.com/gokatarajesh/lms-platform/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/lms-platform/internal/db/sqlc"
	"github.com/gokatarajesh/lms-platform/internal/logging"
	"github.com/gokatarajesh/lms-platform/internal/metrics"
	"github.com/gokatarajesh/lms-platform/internal/server"
	ws "github.com/gokatarajesh/lms-platform/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server) and the
// background workers.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	warmer      *assessment.Warmer
	broadcaster *assessment.Broadcaster
}

// New bootstraps logger, Postgres, Redis, services and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env, cfg.LogLevel)
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	queries := sqlcgen.New(pool)
	courseRepo := repository.NewCourseRepository(queries)
	lessonRepo := repository.NewLessonRepository(queries)
	resourceRepo := repository.NewResourceRepository(queries, pool)
	quizRepo := repository.NewQuizRepository(queries)

	m := metrics.New(prometheus.DefaultRegisterer)
	tokens := jwt.NewManager(jwt.TokenConfig{
		Secret:    []byte(cfg.Security.JWTSecret),
		AccessTTL: cfg.Security.AccessTTL,
		Issuer:    cfg.Security.JWTIssuer,
	})

	quizCache := assessment.NewCache(redisClient, cfg.Quiz.CacheTTL)
	publisher := assessment.NewPublisher(redisClient, cfg.Quiz.EventsChannel)
	quizSvc := assessment.NewService(quizRepo, resourceRepo, quizCache, publisher, assessment.ServiceOptions{
		Metrics: m,
	}, logger)
	warmer := assessment.NewWarmer(quizSvc, cfg.Quiz.WarmQueueSize, cfg.Quiz.WarmTimeout, logger)

	hub := ws.NewHub(logger)
	broadcaster := assessment.NewBroadcaster(redisClient, hub, cfg.Quiz.EventsChannel, logger)

	courseSvc := course.NewService(courseRepo, lessonRepo, resourceRepo, warmer, quizCache, logger)

	apiServer := server.NewHTTPServer(cfg, logger, server.Options{
		Tokens:   tokens,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
		Pingers: map[string]server.Pinger{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	},
		course.NewHTTPHandler(courseSvc, logger),
		assessment.NewHTTPHandler(quizSvc, cfg.Quiz.MaxPayloadBytes, logger),
		assessment.NewWSHandler(quizSvc, hub, server.NewUpgrader(cfg.CORS.AllowedOrigins), m, logger),
	)

	return &Application{
		cfg:         cfg,
		logger:      logger,
		pool:        pool,
		redis:       redisClient,
		http:        apiServer,
		warmer:      warmer,
		broadcaster: broadcaster,
	}, nil
}

// Run serves HTTP and runs the workers until a termination signal, ctx cancellation or
// the first failure.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return ignoreCanceled(a.warmer.Run(gctx))
	})
	g.Go(func() error {
		if err := ignoreCanceled(a.broadcaster.Run(gctx)); err != nil {
			a.logger.Warn().Err(err).Msg("quiz broadcaster stopped")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
		defer cancel()
		if err := a.http.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("http shutdown error")
		}
		return nil
	})

	err := g.Wait()

	a.pool.Close()
	if cerr := a.redis.Close(); cerr != nil {
		a.logger.Error().Err(cerr).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return err
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

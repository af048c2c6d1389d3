package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"github.com/riskibarqy/esoccer-watchdog/external/livecapture"
	"github.com/riskibarqy/esoccer-watchdog/external/scorefeed"
	"github.com/riskibarqy/esoccer-watchdog/internal/config"
	"github.com/riskibarqy/esoccer-watchdog/internal/infrastructure/matchlog"
	"github.com/riskibarqy/esoccer-watchdog/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/esoccer-watchdog/internal/infrastructure/repository/postgres"
	redisrepo "github.com/riskibarqy/esoccer-watchdog/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/esoccer-watchdog/internal/interfaces/httpapi"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/logging"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/resilience"
	"github.com/riskibarqy/esoccer-watchdog/internal/usecase"
)

// App is the assembled watchdog process.
type App struct {
	logger       *logging.Logger
	service      *usecase.WatchdogService
	statusServer *http.Server
	closers      []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{logger: logger}

	store := memory.NewMatchRepository(cfg.StoreMaxMatches)
	window := usecase.NewWindowController(store, cfg.WindowDuration, nil)

	sinks, err := a.buildSinks(ctx, cfg)
	if err != nil {
		_ = a.closeAll()
		return nil, err
	}
	writer := matchlog.NewFanOut(matchlog.NewCSVWriter(cfg.MatchLogDir), logger, sinks...)

	feed := scorefeed.NewClient(scorefeed.ClientConfig{
		Timeout:     cfg.ConnectionTimeout,
		MaxRetries:  cfg.FetchMaxRetries,
		SportMarker: cfg.SportMarker,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FeedCircuitEnabled,
			FailureThreshold: cfg.FeedCircuitFailureCount,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FeedCircuitHalfOpenMaxReq,
		},
	})
	discoverer := livecapture.NewDiscoverer(livecapture.Config{
		SourceURL:       cfg.SourceURL,
		URLMarker:       cfg.SourceURLMarker,
		CaptureDelay:    cfg.CaptureDelay,
		PageLoadTimeout: cfg.ConnectionTimeout,
		Logger:          logger,
	})

	a.service = usecase.NewWatchdogService(
		discoverer,
		feed,
		store,
		window,
		writer,
		usecase.WatchdogConfig{
			FetchWorkers: cfg.FetchWorkers,
			PollInterval: cfg.PollInterval,
		},
		logger,
	)

	if cfg.StatusHTTPEnabled {
		handler := httpapi.NewHandler(store, window, a.service, feed, logger)
		a.statusServer = &http.Server{
			Addr:         cfg.StatusHTTPAddr,
			Handler:      httpapi.NewRouter(handler, logger),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}
	}

	return a, nil
}

func (a *App) buildSinks(ctx context.Context, cfg config.Config) ([]matchlog.Sink, error) {
	var sinks []matchlog.Sink

	if cfg.PostgresLogEnabled {
		db, err := postgres.Open(ctx, postgres.DBConfig{URL: cfg.DBURL, MaxOpenConns: 4})
		if err != nil {
			return nil, fmt.Errorf("postgres match log: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		sinks = append(sinks, matchlog.Sink{Name: "postgres", Writer: postgres.NewMatchLogRepository(db)})
		a.logger.InfoContext(ctx, "postgres match log enabled")
	}

	if cfg.RedisLogEnabled {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.closers = append(a.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		sinks = append(sinks, matchlog.Sink{Name: "redis", Writer: redisrepo.NewSnapshotRepository(client, cfg.RedisSnapshotTTL)})
		a.logger.InfoContext(ctx, "redis match log enabled", "addr", cfg.RedisAddr)
	}

	return sinks, nil
}

// Run serves the status API, if enabled, and polls until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.statusServer != nil {
		go func() {
			a.logger.Info("status server starting", "addr", a.statusServer.Addr)
			if err := a.statusServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("status server failed", "error", err)
			}
		}()
	}

	return a.service.Run(ctx)
}

// Shutdown stops the status server and releases sink connections.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.statusServer != nil {
		if err := a.statusServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown status server: %w", err))
		}
	}
	if err := a.closeAll(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeAll() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

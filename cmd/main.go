package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/okian/pitcrew/internal/adapters/http/api"
	"github.com/okian/pitcrew/internal/adapters/http/site"
	"github.com/okian/pitcrew/internal/adapters/http/swagger"
	app "github.com/okian/pitcrew/internal/app"
	"github.com/okian/pitcrew/internal/config"
	"github.com/okian/pitcrew/pkg/logger"
	"github.com/okian/pitcrew/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Get().Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}
	if err := logger.InitWithWriter(os.Stdout, cfg.LogFormat); err != nil {
		logger.Get().Error(ctx, "failed to switch log format", logger.Error(err))
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		logger.Get().Error(ctx, "failed to listen", logger.String("addr", cfg.Addr), logger.Error(err))
		os.Exit(1)
	}
	if err := run(ctx, cfg, ln); err != nil {
		logger.Get().Error(ctx, "server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

// newService builds the service from configuration.
func newService(cfg *config.Config) *app.Service {
	return app.New(
		app.WithLogger(logger.Named("service")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithStrictWinner(cfg.StrictWinner),
		app.WithSeedBattles(cfg.SeedBattles),
		app.WithAvatarPool(cfg.AvatarPool),
	)
}

// newHandler wires the API, the docs and the landing page into one router.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	return api.NewServer(svc,
		api.WithCORSOrigins(cfg.CORSOrigins),
		api.WithMount(func(r chi.Router) { swagger.Register(ctx, r) }),
		api.WithMount(func(r chi.Router) { site.Register(ctx, r) }),
	).Router()
}

// run serves on ln until ctx is cancelled, then shuts everything down.
func run(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	log := logger.Named("main")

	svc := newService(cfg)
	if err := svc.Start(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		startSystemMetricsUpdater(gctx)
		return nil
	})

	g.Go(func() error {
		startServiceMetricsUpdater(gctx, svc)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(context.WithoutCancel(gctx), "shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if stopErr := svc.Stop(shutdownCtx); stopErr != nil {
			err = errors.Join(err, stopErr)
		}
		log.Info(shutdownCtx, "server stopped")
		return err
	})

	return g.Wait()
}

// startSystemMetricsUpdater updates process metrics until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater refreshes service gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics refreshes the gauges GetStats does not own.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()
	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}
	if workerCount, ok := stats["workerCount"].(int); ok {
		metrics.UpdateWorkerCount(workerCount)
	}
	if subscribers, ok := stats["subscribers"].(int); ok {
		metrics.UpdateSubscribers(subscribers)
	}
}

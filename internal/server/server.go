// Package server boots every subsystem and runs the HTTP and gRPC
// listeners until the process is told to stop.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikhilverma/shopline/app/jobs"
	"github.com/nikhilverma/shopline/app/listeners"
	"github.com/nikhilverma/shopline/app/services"
	"github.com/nikhilverma/shopline/config"
	"github.com/nikhilverma/shopline/internal/kernel"
	"github.com/nikhilverma/shopline/pkg/cache"
	"github.com/nikhilverma/shopline/pkg/database"
	"github.com/nikhilverma/shopline/pkg/grpcserver"
	"github.com/nikhilverma/shopline/pkg/logger"
	"github.com/nikhilverma/shopline/pkg/notification"
	"github.com/nikhilverma/shopline/pkg/queue"
	"github.com/nikhilverma/shopline/pkg/schedule"
	"github.com/nikhilverma/shopline/pkg/storage"
)

const (
	queueWorkers      = 4
	stalePendingAge   = 24 * time.Hour
	guestCartAge      = 7 * 24 * time.Hour
	shutdownTimeout   = 15 * time.Second
	httpReadTimeout   = 30 * time.Second
	httpWriteTimeout  = 0 // SSE and websocket streams stay open
	httpIdleTimeout   = 120 * time.Second
	headerReadTimeout = 10 * time.Second
)

// Start boots the application and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(); err != nil {
		return err
	}

	// Cache and queue degrade to in-process fallbacks without Redis.
	if err := cache.Connect(); err != nil {
		logger.Warn("boot: redis unavailable, using in-memory cache and queue", "error", err)
		queue.SetDriver(queue.NewMemoryDriver())
	} else {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}

	storage.Connect()
	notification.SetSlackWebhook(config.Get("SLACK_WEBHOOK_URL", ""))

	jobs.RegisterAll()
	listeners.RegisterAll()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.StartWorkers(ctx, queueWorkers)
	registerSchedule()
	go schedule.Start(ctx)

	grpcSrv, err := grpcserver.Start(config.GRPCPort())
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           kernel.NewHandler(),
		ReadTimeout:       httpReadTimeout,
		ReadHeaderTimeout: headerReadTimeout,
		WriteTimeout:      httpWriteTimeout,
		IdleTimeout:       httpIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening", "addr", httpSrv.Addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		grpcserver.Stop(grpcSrv)
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown: draining")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	grpcserver.Stop(grpcSrv)
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown: forced", "error", err)
		return err
	}
	logger.Info("shutdown: complete")
	return nil
}

// registerSchedule wires the recurring maintenance tasks.
func registerSchedule() {
	orderSvc := services.NewOrderService()
	cartSvc := services.NewCartService()

	schedule.Daily().Name("orders.cancel-stale").WithoutOverlapping().Run(func() {
		orderSvc.CancelStalePending(stalePendingAge)
	})

	schedule.Every(6).Hours().Name("carts.prune-guests").WithoutOverlapping().Run(func() {
		cartSvc.PruneStaleGuestCarts(guestCartAge)
	})
}

// StartWorkersOnly runs just the queue worker loop, for `shopline
// queue:work` on a dedicated process.
func StartWorkersOnly(n int) error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("boot: redis unavailable, using in-memory queue", "error", err)
		queue.SetDriver(queue.NewMemoryDriver())
	} else {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	notification.SetSlackWebhook(config.Get("SLACK_WEBHOOK_URL", ""))
	jobs.RegisterAll()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("queue: workers running", "count", n)
	queue.StartWorkers(ctx, n)
	<-ctx.Done()
	return nil
}

// StartSchedulerOnly runs just the scheduler loop, for `shopline
// schedule:run` on a dedicated process.
func StartSchedulerOnly() error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("boot: redis unavailable", "error", err)
	}
	jobs.RegisterAll()
	registerSchedule()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("schedule: running", "tasks", schedule.List())
	schedule.Start(ctx)
	return nil
}

// Package server runs the shop process: HTTP API, gRPC health, the
// websocket hub, queue workers and the scheduler, all stopped together when
// the context ends or any of them fails.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/honeyshop/config"
	"github.com/shashiranjanraj/honeyshop/internal/kernel"
	"github.com/shashiranjanraj/honeyshop/pkg/grpc"
	"github.com/shashiranjanraj/honeyshop/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Options selects the background loops started next to the HTTP server.
type Options struct {
	Workers   int
	Scheduler bool
}

// Run serves until ctx is cancelled or the HTTP listener fails.
func Run(ctx context.Context, k *kernel.Kernel, opts Options) error {
	health := grpc.New(
		grpc.Check("sql", k.PingSQL),
		grpc.Check("mongo", k.PingMongo),
	)
	if err := health.Start(config.GRPCPort()); err != nil {
		return err
	}
	defer health.Stop()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		k.Hub.Run(gctx)
		return nil
	})
	if opts.Workers > 0 {
		g.Go(func() error {
			k.Queue.StartWorkers(gctx, opts.Workers).Wait()
			return nil
		})
	}
	if opts.Scheduler {
		g.Go(func() error {
			k.Cron.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("http: server starting", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http: listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("http: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

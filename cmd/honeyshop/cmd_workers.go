package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/honeyshop/config"
	"github.com/shashiranjanraj/honeyshop/internal/kernel"
)

var (
	queueWorkersFlag int
	scheduleOnce     bool
)

// honeyshop queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Process queued jobs until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if config.Get("QUEUE_DRIVER", "memory") == "memory" {
			fmt.Println("QUEUE_DRIVER=memory: this worker only sees jobs dispatched by its own process.")
		}

		k, err := kernel.Boot(ctx)
		if err != nil {
			return err
		}
		defer k.Close(context.Background())

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 1
		}
		if n, err := k.Queue.Backlog(ctx); err == nil {
			fmt.Printf("%d job(s) waiting.\n", n)
		}
		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		k.Queue.StartWorkers(ctx, workers).Wait()
		fmt.Println("Queue worker stopped.")
		return nil
	},
}

// honeyshop schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Run scheduled tasks (loop, or once with --once)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := kernel.Boot(ctx)
		if err != nil {
			return err
		}
		defer k.Close(context.Background())

		fmt.Println("Registered scheduled tasks:")
		for _, t := range k.Cron.List() {
			fmt.Println("  •", t)
		}

		if scheduleOnce {
			n := k.Cron.RunDue(ctx, time.Now())
			fmt.Printf("Ran %d task(s).\n", n)
			return nil
		}
		fmt.Println("Scheduler started. Press Ctrl+C to stop.")
		k.Cron.Start(ctx)
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 2, "Number of concurrent workers")
	scheduleRunCmd.Flags().BoolVar(&scheduleOnce, "once", false, "Run due tasks once and exit")
}

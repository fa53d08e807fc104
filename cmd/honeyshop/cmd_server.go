package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/honeyshop/app/routes"
	"github.com/shashiranjanraj/honeyshop/config"
	"github.com/shashiranjanraj/honeyshop/internal/kernel"
	"github.com/shashiranjanraj/honeyshop/internal/server"
	"github.com/shashiranjanraj/honeyshop/pkg/auth"
)

var (
	serveWorkers   int
	serveScheduler bool
)

// honeyshop serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		k, err := kernel.Boot(ctx)
		if err != nil {
			return err
		}
		defer k.Close(context.Background())

		workers := serveWorkers
		if !cmd.Flags().Changed("workers") {
			workers = config.Int("QUEUE_WORKERS", 2)
		}
		return server.Run(ctx, k, server.Options{Workers: workers, Scheduler: serveScheduler})
	},
}

// honeyshop route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := kernel.NewRouter(routes.API{
			Tokens:  auth.NewIssuer(config.JWTSecret(), config.JWTTTL()),
			GraphQL: http.NotFoundHandler(),
		}, nil)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range r.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&serveWorkers, "workers", "w", 2, "Queue workers to run in-process (0 disables)")
	serveCmd.Flags().BoolVar(&serveScheduler, "scheduler", true, "Run scheduled tasks in-process")
}

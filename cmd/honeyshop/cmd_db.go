package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/honeyshop/config"
	"github.com/shashiranjanraj/honeyshop/database/seeders"
	"github.com/shashiranjanraj/honeyshop/internal/kernel"
	"github.com/shashiranjanraj/honeyshop/pkg/database"
	"github.com/shashiranjanraj/honeyshop/pkg/migration"
)

// withRunner opens the relational database and hands fn a migration runner.
func withRunner(fn func(r *migration.Runner) error) error {
	if err := config.Load(); err != nil {
		return err
	}
	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(migration.New(db, migration.Registered(), os.Stdout))
}

// honeyshop migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(r *migration.Runner) error {
			n, err := r.Run()
			if err == nil && n > 0 {
				fmt.Printf("Migrated %d file(s).\n", n)
			}
			return err
		})
	},
}

// honeyshop migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(r *migration.Runner) error {
			n, err := r.Rollback()
			if err == nil {
				fmt.Printf("Rolled back %d migration(s).\n", n)
			}
			return err
		})
	},
}

// honeyshop migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunner(func(r *migration.Runner) error {
			rows, err := r.Status()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "RAN\tBATCH\tMIGRATION")
			for _, row := range rows {
				ran, batch := "no", "-"
				if row.Ran {
					ran, batch = "yes", fmt.Sprint(row.Batch)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", ran, batch, row.Name)
			}
			return w.Flush()
		})
	},
}

// honeyshop seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin account and the starter catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		k, err := kernel.Boot(ctx)
		if err != nil {
			return err
		}
		defer k.Close(ctx)

		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx, k.SeedDeps(), os.Stdout)
	},
}

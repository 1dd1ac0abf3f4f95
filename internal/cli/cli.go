// Package cli implements jobctl, the operator tool for migrations, job
// inspection and queue depth.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pdfextract-backend/internal/bootstrap"
	"pdfextract-backend/internal/jobs"
	"pdfextract-backend/internal/shared/config"
	"pdfextract-backend/internal/shared/storage/db"
)

// Builder constructs the application for commands that need stores.
type Builder func(ctx context.Context, cfg config.Config) (*bootstrap.App, error)

type options struct {
	loadConfig func() config.Config
	build      Builder
}

// BuildCLI returns the jobctl root command.
func BuildCLI() *cobra.Command {
	return newRootCommand(options{loadConfig: config.Load, build: bootstrap.Build})
}

func newRootCommand(opts options) *cobra.Command {
	root := &cobra.Command{
		Use:           "jobctl",
		Short:         "Operate the PDF extraction backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		buildMigrateCommand(opts),
		buildJobCommand(opts),
		buildQueueCommand(opts),
	)
	return root
}

func buildMigrateCommand(opts options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply record store migrations (postgres, sqlite)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), opts.loadConfig(), cmd.OutOrStdout())
		},
	}
}

func runMigrate(ctx context.Context, cfg config.Config, out io.Writer) error {
	var (
		dialect db.Dialect
		dsn     string
		dbOpts  = db.OptionsFromEnv(db.DefaultMigrateOptions())
	)
	switch cfg.RecordStoreType {
	case "postgres":
		dialect, dsn = db.Postgres, cfg.DatabaseURL
	case "sqlite":
		dialect, dsn = db.SQLite, cfg.SQLitePath
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return fmt.Errorf("create sqlite dir: %w", err)
		}
	default:
		fmt.Fprintf(out, "record store %q has no migrations\n", cfg.RecordStoreType)
		return nil
	}

	conn, err := db.Connect(ctx, dialect, dsn, dbOpts)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn, dialect); err != nil {
		return err
	}
	version, err := db.MigrationVersion(ctx, conn, dialect)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s migrated to version %d\n", dialect, version)
	return nil
}

func buildJobCommand(opts options) *cobra.Command {
	jobCmd := &cobra.Command{
		Use:   "job",
		Short: "Inspect jobs",
	}
	jobCmd.AddCommand(&cobra.Command{
		Use:   "get <job-id>",
		Short: "Print a job record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(app *bootstrap.App) error {
				job, err := app.Jobs.Load(cmd.Context(), args[0])
				if errors.Is(err, jobs.ErrNotFound) {
					return fmt.Errorf("job %s not found", args[0])
				}
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(job)
			})
		},
	})
	jobCmd.AddCommand(&cobra.Command{
		Use:   "requeue <job-id>",
		Short: "Push a queued job's id onto the work queue again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), opts, func(app *bootstrap.App) error {
				if err := app.Jobs.Requeue(cmd.Context(), args[0], ""); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "requeued %s\n", args[0])
				return nil
			})
		},
	})
	return jobCmd
}

func buildQueueCommand(opts options) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the work queue",
	}
	queueCmd.AddCommand(&cobra.Command{
		Use:   "depth",
		Short: "Print the number of pending job ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(app *bootstrap.App) error {
				n, err := app.Queue.Len(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			})
		},
	})
	return queueCmd
}

func withApp(ctx context.Context, opts options, fn func(*bootstrap.App) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := opts.build(ctx, opts.loadConfig())
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/vladislavdragonenkov/siproad-orders/internal/storage/migrations"
	"github.com/vladislavdragonenkov/siproad-orders/internal/storage/mysql"
	"github.com/vladislavdragonenkov/siproad-orders/internal/storage/postgres"
)

const defaultTimeout = 30 * time.Second

const (
	envPostgresDSN = "SIPROAD_POSTGRES_DSN"
	envMySQLDSN    = "SIPROAD_MYSQL_DSN"
)

// migrator - общий контракт postgres и mysql хранилищ.
type migrator interface {
	MigrateUp(ctx context.Context, steps int) error
	MigrateDown(ctx context.Context, steps int) error
	MigrationStatus(ctx context.Context) (migrations.Status, error)
	Close() error
}

type opener func(ctx context.Context, driver, dsn string) (migrator, error)

func main() {
	if err := newApp(openStore, os.Stdout).Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(open opener, out io.Writer) *cli.App {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "driver",
			Value: "postgres",
			Usage: "storage driver: postgres|mysql",
		},
		&cli.StringFlag{
			Name:  "dsn",
			Usage: "database DSN (fallback: " + envPostgresDSN + " / " + envMySQLDSN + ")",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Value: defaultTimeout,
		},
	}

	return &cli.App{
		Name:      "migrate",
		Usage:     "manage siproad-orders database schema",
		Writer:    out,
		ErrWriter: out,
		Flags:     flags,
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply pending migrations",
				Flags: []cli.Flag{stepsFlag()},
				Action: withStore(open, out, func(ctx context.Context, c *cli.Context, store migrator) error {
					if err := store.MigrateUp(ctx, c.Int("steps")); err != nil {
						return fmt.Errorf("migrate up failed: %w", err)
					}
					return printStatus(ctx, out, "migrate up ok", store)
				}),
			},
			{
				Name:  "down",
				Usage: "rollback migrations",
				Flags: []cli.Flag{stepsFlag()},
				Action: withStore(open, out, func(ctx context.Context, c *cli.Context, store migrator) error {
					steps := c.Int("steps")
					if steps <= 0 {
						steps = 1
					}
					if err := store.MigrateDown(ctx, steps); err != nil {
						return fmt.Errorf("migrate down failed: %w", err)
					}
					return printStatus(ctx, out, "migrate down ok", store)
				}),
			},
			{
				Name:  "status",
				Usage: "print current schema version",
				Action: withStore(open, out, func(ctx context.Context, _ *cli.Context, store migrator) error {
					return printStatus(ctx, out, "migration status", store)
				}),
			},
		},
	}
}

func stepsFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "steps",
		Usage: "number of migrations to apply/rollback (0=all for up, 1 for down)",
	}
}

func withStore(open opener, out io.Writer, fn func(context.Context, *cli.Context, migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		driver := strings.ToLower(strings.TrimSpace(c.String("driver")))
		dsn, err := resolveDSN(driver, c.String("dsn"), os.LookupEnv)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
		defer cancel()

		store, err := open(ctx, driver, dsn)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				_, _ = fmt.Fprintf(out, "close store: %v\n", closeErr)
			}
		}()

		return fn(ctx, c, store)
	}
}

func resolveDSN(driver, flagValue string, lookup func(string) (string, bool)) (string, error) {
	if dsn := strings.TrimSpace(flagValue); dsn != "" {
		return dsn, nil
	}

	var env string
	switch driver {
	case "postgres":
		env = envPostgresDSN
	case "mysql":
		env = envMySQLDSN
	default:
		return "", fmt.Errorf("unsupported driver: %s (use postgres|mysql)", driver)
	}

	if value, ok := lookup(env); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), nil
	}
	return "", fmt.Errorf("%s (or --dsn) is required", env)
}

func openStore(ctx context.Context, driver, dsn string) (migrator, error) {
	switch driver {
	case "postgres":
		store, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, nil
	case "mysql":
		store, err := mysql.Open(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s (use postgres|mysql)", driver)
	}
}

func printStatus(ctx context.Context, out io.Writer, prefix string, store migrator) error {
	status, err := store.MigrationStatus(ctx)
	if err != nil {
		return fmt.Errorf("migration status failed: %w", err)
	}
	_, err = fmt.Fprintf(out, "%s: version=%d dirty=%t applied=%t\n", prefix, status.Version, status.Dirty, status.Applied)
	return err
}

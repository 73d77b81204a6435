package postgres

import (
	"context"
	"embed"
	"fmt"

	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"

	"github.com/vladislavdragonenkov/siproad-orders/internal/storage/migrations"
)

const migrationsDir = "sql/migrations"

//go:embed sql/migrations/*.sql
var migrationsFS embed.FS

// MigrateUp применяет up-миграции.
// steps=0 означает "применить все доступные".
func (s *Store) MigrateUp(ctx context.Context, steps int) error {
	return s.withMigrations(ctx, func(r *migrations.Runner) error {
		return r.Up(steps)
	})
}

// MigrateDown откатывает миграции; steps<=0 откатывает одну.
func (s *Store) MigrateDown(ctx context.Context, steps int) error {
	return s.withMigrations(ctx, func(r *migrations.Runner) error {
		return r.Down(steps)
	})
}

// MigrationStatus возвращает текущую версию схемы.
func (s *Store) MigrationStatus(ctx context.Context) (migrations.Status, error) {
	var status migrations.Status
	err := s.withMigrations(ctx, func(r *migrations.Runner) error {
		var err error
		status, err = r.Status()
		return err
	})
	return status, err
}

// withMigrations открывает отдельное подключение: драйвер миграций
// закрывает его вместе с собой и держит advisory lock на время работы.
func (s *Store) withMigrations(ctx context.Context, fn func(*migrations.Runner) error) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("postgres store is not initialized")
	}

	db, err := openDB(ctx, s.dsn)
	if err != nil {
		return err
	}

	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("init postgres migration driver: %w", err)
	}

	runner, err := migrations.New(migrationsFS, migrationsDir, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return err
	}
	defer func() { _ = runner.Close() }()

	return fn(runner)
}

// Package mysql - хранилище каталога в MySQL/MariaDB поверх sqlx.
package mysql

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	mysqlmigrate "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
	"github.com/vladislavdragonenkov/siproad-orders/internal/storage/migrations"
)

const (
	defaultConnTimeout     = 5 * time.Second
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 30 * time.Minute

	opTimeout     = 5 * time.Second
	migrationsDir = "sql/migrations"
)

// Номера ошибок MySQL, которые различает хранилище.
const (
	errDupEntry         = 1062
	errRowIsReferenced  = 1217
	errNoReferencedRow  = 1216
	errRowIsReferenced2 = 1451
	errNoReferencedRow2 = 1452
)

//go:embed sql/migrations/*.sql
var migrationsFS embed.FS

// Store оборачивает подключение к MySQL.
type Store struct {
	db  *sqlx.DB
	dsn string
}

// Open открывает подключение и проверяет доступность базы.
// В DSN принудительно включается parseTime.
func Open(ctx context.Context, dsn string) (*Store, error) {
	normalized, err := normalizeDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := openDB(ctx, normalized)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)

	return &Store{db: db, dsn: normalized}, nil
}

func normalizeDSN(dsn string) (string, error) {
	cfg, err := mysqldrv.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func openDB(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// DB возвращает sqlx-подключение.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Ping проверяет доступность подключения.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("mysql store is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	return s.db.PingContext(pingCtx)
}

// Close закрывает подключение.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// MigrateUp применяет up-миграции; steps=0 - все доступные.
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

func (s *Store) withMigrations(ctx context.Context, fn func(*migrations.Runner) error) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("mysql store is not initialized")
	}

	db, err := openDB(ctx, s.dsn)
	if err != nil {
		return err
	}

	driver, err := mysqlmigrate.WithInstance(db.DB, &mysqlmigrate.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("init mysql migration driver: %w", err)
	}

	runner, err := migrations.New(migrationsFS, migrationsDir, "mysql", driver)
	if err != nil {
		_ = driver.Close()
		return err
	}
	defer func() { _ = runner.Close() }()

	return fn(runner)
}

// translateError переводит ошибки ограничений MySQL в доменные sentinel-ошибки.
func translateError(op string, err error) error {
	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errRowIsReferenced, errRowIsReferenced2, errNoReferencedRow, errNoReferencedRow2:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrForeignKeyViolation, myErr.Message)
		case errDupEntry:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrUniqueViolation, myErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
	"github.com/vladislavdragonenkov/siproad-orders/internal/health"
	"github.com/vladislavdragonenkov/siproad-orders/internal/storage/memory"
	"github.com/vladislavdragonenkov/siproad-orders/internal/storage/mysql"
	"github.com/vladislavdragonenkov/siproad-orders/internal/storage/postgres"
)

// runtimeDependencies - хранилища, выбранные по StorageDriver.
type runtimeDependencies struct {
	driver    string
	companies domain.CompanyRepository
	products  domain.ProductRepository
	outbox    domain.OutboxRepository
	pinger    health.Pinger
	close     func() error
}

type migratingStore interface {
	MigrateUp(ctx context.Context, steps int) error
}

type memoryPinger struct{}

func (memoryPinger) Ping(ctx context.Context) error { return ctx.Err() }

func initRuntimeDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*runtimeDependencies, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	switch driver {
	case "", StorageDriverMemory:
		refs := memory.NewReferences()
		return &runtimeDependencies{
			driver:    StorageDriverMemory,
			companies: memory.NewCompanyRepository(refs),
			products:  memory.NewProductRepository(refs),
			outbox:    memory.NewOutboxRepository(),
			pinger:    memoryPinger{},
			close:     func() error { return nil },
		}, nil

	case StorageDriverPostgres:
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return nil, errors.New("postgres storage requires dsn")
		}
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		if err := migrate(ctx, cfg, store, logger); err != nil {
			_ = store.Close()
			return nil, err
		}
		return &runtimeDependencies{
			driver:    driver,
			companies: postgres.NewCompanyRepository(store),
			products:  postgres.NewProductRepository(store),
			outbox:    postgres.NewOutboxRepository(store),
			pinger:    store,
			close:     store.Close,
		}, nil

	case StorageDriverMySQL:
		if strings.TrimSpace(cfg.MySQLDSN) == "" {
			return nil, errors.New("mysql storage requires dsn")
		}
		store, err := mysql.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("open mysql store: %w", err)
		}
		if err := migrate(ctx, cfg, store, logger); err != nil {
			_ = store.Close()
			return nil, err
		}
		return &runtimeDependencies{
			driver:    driver,
			companies: mysql.NewCompanyRepository(store),
			products:  mysql.NewProductRepository(store),
			outbox:    mysql.NewOutboxRepository(store),
			pinger:    store,
			close:     store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func migrate(ctx context.Context, cfg Config, store migratingStore, logger *log.Entry) error {
	if !cfg.AutoMigrate {
		return nil
	}
	if err := store.MigrateUp(ctx, 0); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.WithField("driver", cfg.StorageDriver).Info("migrations applied")
	return nil
}

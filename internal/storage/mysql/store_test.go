package mysql

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

const defaultLocalIntegrationDSN = "siproad:siproad@tcp(localhost:3306)/siproad_orders"

func openMySQLStoreForIntegrationTest(t *testing.T) *Store {
	t.Helper()

	var openErrs []string
	for _, dsn := range []string{
		os.Getenv("SIPROAD_MYSQL_TEST_DSN"),
		os.Getenv("SIPROAD_MYSQL_DSN"),
		defaultLocalIntegrationDSN,
	} {
		dsn = strings.TrimSpace(dsn)
		if dsn == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		store, err := Open(ctx, dsn)
		cancel()
		if err != nil {
			openErrs = append(openErrs, fmt.Sprintf("%s: %v", dsn, err))
			continue
		}
		t.Cleanup(func() { _ = store.Close() })

		migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancelMigrate()
		require.NoError(t, store.MigrateUp(migrateCtx, 0))

		for _, table := range []string{"ord_outbox", "ord_order_product", "ord_product", "ord_company"} {
			_, err := store.DB().ExecContext(migrateCtx, "DELETE FROM "+table)
			require.NoError(t, err)
		}
		return store
	}

	t.Skipf("mysql is not available for integration tests: %s", strings.Join(openErrs, " | "))
	return nil
}

func TestNormalizeDSN_EnablesParseTime(t *testing.T) {
	dsn, err := normalizeDSN("user:pass@tcp(db:3306)/orders")
	require.NoError(t, err)

	cfg, err := mysqldrv.ParseDSN(dsn)
	require.NoError(t, err)
	require.True(t, cfg.ParseTime)
	require.Equal(t, "orders", cfg.DBName)

	_, err = normalizeDSN("::not a dsn")
	require.Error(t, err)
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		number uint16
		want   error
	}{
		{number: 1217, want: domain.ErrForeignKeyViolation},
		{number: 1451, want: domain.ErrForeignKeyViolation},
		{number: 1452, want: domain.ErrForeignKeyViolation},
		{number: 1062, want: domain.ErrUniqueViolation},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("errno %d", tt.number), func(t *testing.T) {
			err := translateError("op", fmt.Errorf("exec: %w", &mysqldrv.MySQLError{Number: tt.number}))
			require.ErrorIs(t, err, tt.want)
		})
	}

	other := translateError("op", &mysqldrv.MySQLError{Number: 1146})
	require.False(t, errors.Is(other, domain.ErrForeignKeyViolation))
	require.False(t, errors.Is(other, domain.ErrUniqueViolation))
}

func TestWhereBuilder_ExpandsInClause(t *testing.T) {
	var where whereBuilder
	where.add("active = 1")
	where.add("company_id = ?", "c1")
	where.add("name IN (?)", []string{"A", "B", "C"})

	query, args, err := where.build("SELECT id FROM ord_product", "created_at, id", 20, 10)
	require.NoError(t, err)
	require.Equal(t,
		"SELECT id FROM ord_product WHERE active = 1 AND company_id = ? AND name IN (?, ?, ?) ORDER BY created_at, id LIMIT ? OFFSET ?",
		query)
	require.Equal(t, []any{"c1", "A", "B", "C", 10, 20}, args)
}

func TestWhereBuilder_OffsetWithoutLimit(t *testing.T) {
	var where whereBuilder
	query, args, err := where.build("SELECT id FROM ord_company", "id", 5, 0)
	require.NoError(t, err)
	require.Contains(t, query, "OFFSET ?")
	require.Equal(t, []any{5}, args)
}

func TestStore_NilGuards(t *testing.T) {
	var store *Store
	require.Error(t, store.Ping(context.Background()))
	require.NoError(t, store.Close())
	require.Error(t, store.MigrateUp(context.Background(), 0))
}

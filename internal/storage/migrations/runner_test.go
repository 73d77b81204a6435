package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/golang-migrate/migrate/v4/database/stub"
	"github.com/stretchr/testify/require"
)

func testSource() fstest.MapFS {
	return fstest.MapFS{
		"sql/0001_create_company.up.sql":   {Data: []byte("CREATE TABLE ord_company (id TEXT)")},
		"sql/0001_create_company.down.sql": {Data: []byte("DROP TABLE ord_company")},
		"sql/0002_create_product.up.sql":   {Data: []byte("CREATE TABLE ord_product (id TEXT)")},
		"sql/0002_create_product.down.sql": {Data: []byte("DROP TABLE ord_product")},
	}
}

func newStubRunner(t *testing.T) *Runner {
	t.Helper()

	driver, err := stub.WithInstance(nil, &stub.Config{})
	require.NoError(t, err)

	runner, err := New(testSource(), "sql", "stub", driver)
	require.NoError(t, err)
	t.Cleanup(func() { _ = runner.Close() })
	return runner
}

func TestRunner_UpDownStatus(t *testing.T) {
	runner := newStubRunner(t)

	status, err := runner.Status()
	require.NoError(t, err)
	require.False(t, status.Applied)

	require.NoError(t, runner.Up(1))
	status, err = runner.Status()
	require.NoError(t, err)
	require.Equal(t, Status{Version: 1, Applied: true}, status)

	require.NoError(t, runner.Up(0))
	status, err = runner.Status()
	require.NoError(t, err)
	require.Equal(t, uint(2), status.Version)

	// Повторный up без новых файлов не ошибка.
	require.NoError(t, runner.Up(0))

	require.NoError(t, runner.Down(0))
	status, err = runner.Status()
	require.NoError(t, err)
	require.Equal(t, uint(1), status.Version)
}

func TestRunner_DownBeyondFirstIsNotError(t *testing.T) {
	runner := newStubRunner(t)

	require.NoError(t, runner.Up(0))
	require.NoError(t, runner.Down(5))
}

func TestNew_InvalidSourceDir(t *testing.T) {
	driver, err := stub.WithInstance(nil, &stub.Config{})
	require.NoError(t, err)

	_, err = New(testSource(), "missing", "stub", driver)
	require.Error(t, err)
}

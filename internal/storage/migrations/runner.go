// Package migrations применяет версионированные SQL-миграции,
// встроенные в пакеты драйверов хранилища.
package migrations

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
)

// Status - текущее состояние схемы.
type Status struct {
	Version uint
	Dirty   bool
	// Applied=false означает, что ни одна миграция ещё не применялась.
	Applied bool
}

// Runner выполняет миграции одного драйвера.
type Runner struct {
	m      *migrate.Migrate
	logger *log.Entry
}

// New создаёт Runner. Файлы миграций лежат в dir внутри source и
// называются NNNN_name.up.sql / NNNN_name.down.sql.
// Runner владеет driver: Close закрывает и его.
func New(source fs.FS, dir, databaseName string, driver database.Driver) (*Runner, error) {
	src, err := iofs.New(source, dir)
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, databaseName, driver)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("init migrate for %s: %w", databaseName, err)
	}

	logger := log.WithFields(log.Fields{"component": "migrations", "database": databaseName})
	m.Log = migrateLogger{entry: logger}

	return &Runner{m: m, logger: logger}, nil
}

// Up применяет up-миграции. steps=0 означает "применить все доступные".
func (r *Runner) Up(steps int) error {
	var err error
	if steps > 0 {
		err = r.m.Steps(steps)
	} else {
		err = r.m.Up()
	}
	return r.result("up", err)
}

// Down откатывает миграции. steps<=0 интерпретируется как 1 шаг.
func (r *Runner) Down(steps int) error {
	if steps <= 0 {
		steps = 1
	}
	return r.result("down", r.m.Steps(-steps))
}

// Status возвращает текущую версию схемы.
func (r *Runner) Status() (Status, error) {
	version, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("read migration version: %w", err)
	}
	return Status{Version: version, Dirty: dirty, Applied: true}, nil
}

// Close освобождает источник и подключение драйвера.
func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (r *Runner) result(direction string, err error) error {
	switch {
	case err == nil:
		r.logger.WithField("direction", direction).Info("migrations applied")
		return nil
	case errors.Is(err, migrate.ErrNoChange):
		r.logger.WithField("direction", direction).Info("schema is up to date")
		return nil
	default:
		var short migrate.ErrShortLimit
		if errors.As(err, &short) {
			r.logger.WithField("direction", direction).Warnf("fewer migrations than requested: %v", err)
			return nil
		}
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
}

// migrateLogger направляет журнал golang-migrate в logrus.
type migrateLogger struct {
	entry *log.Entry
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.entry.Debugf(format, v...)
}

func (l migrateLogger) Verbose() bool {
	return l.entry.Logger.IsLevelEnabled(log.DebugLevel)
}

package sqldb

import (
	"context"
	"database/sql"
	"embed"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/trezcool/masomo-lms/core"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	pgDiskFull = "53100"
)

var (
	//go:embed migrations/*.sql
	migrationsFS embed.FS

	gooseRunFunc = goose.RunFS // mockable

	gooseDialects = map[string]string{
		DriverSQLite:   "sqlite3",
		DriverPostgres: "postgres",
	}
)

// Medium stores records in the kv_records table of a SQL database.
type Medium struct {
	db      *sqlx.DB
	dialect string
}

var _ core.Medium = (*Medium)(nil) // interface compliance check

// Open connects to the database and migrates it.
// dsn is a file path for sqlite and a connection URL for postgres.
func Open(driver, dsn string) (*Medium, error) {
	dialect, ok := gooseDialects[driver]
	if !ok {
		return nil, errors.Errorf("unsupported sql driver %q", driver)
	}
	if driver == DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, errors.Wrap(err, "creating data dir")
		}
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1) // sqlite allows a single writer
	}
	if err = ping(db.DB); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "pinging database")
	}
	if err = Migrate(db.DB, dialect); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Medium{db: db, dialect: dialect}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sql.DB) error {
	var err error
	maxAttempts := 10
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func Migrate(db *sql.DB, dialect string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return errors.Wrap(err, "setting migrations dialect")
	}
	if err := gooseRunFunc("up", db, migrationsFS, "migrations"); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// RunMigrations runs a goose command (up, down, status, version...) against the database.
func (m *Medium) RunMigrations(command string, args ...string) error {
	if err := goose.SetDialect(m.dialect); err != nil {
		return errors.Wrap(err, "setting migrations dialect")
	}
	return gooseRunFunc(command, m.db.DB, migrationsFS, "migrations", args...)
}

func (m *Medium) Get(ctx context.Context, key string) ([]byte, error) {
	var val string
	q := m.db.Rebind(`SELECT record_value FROM kv_records WHERE record_key = ?`)
	if err := m.db.GetContext(ctx, &val, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrKeyNotFound
		}
		return nil, errors.Wrap(err, "selecting record")
	}
	return []byte(val), nil
}

func (m *Medium) Put(ctx context.Context, key string, value []byte) error {
	q := m.db.Rebind(`
		INSERT INTO kv_records (record_key, record_value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (record_key) DO UPDATE SET record_value = excluded.record_value, updated_at = excluded.updated_at`)
	if _, err := m.db.ExecContext(ctx, q, key, string(value), time.Now().UTC()); err != nil {
		if isDiskFull(err) {
			return core.ErrStorageFull
		}
		return errors.Wrap(err, "upserting record")
	}
	return nil
}

func (m *Medium) Delete(ctx context.Context, key string) error {
	q := m.db.Rebind(`DELETE FROM kv_records WHERE record_key = ?`)
	if _, err := m.db.ExecContext(ctx, q, key); err != nil {
		return errors.Wrap(err, "deleting record")
	}
	return nil
}

func (m *Medium) Close() error {
	return m.db.Close()
}

func isDiskFull(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_FULL
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgDiskFull
	}
	return false
}

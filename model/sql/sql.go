package sql

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/Brawl345/invitebot/logger"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations
var embeddedMigrations embed.FS

var log = logger.New("sql")

const (
	DriverSQLite   = "sqlite3"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type dialect struct {
	// driver is the database/sql driver name, migration is the sql-migrate dialect
	driver    string
	migration string
	dsn       func(string) (string, error)
	tune      func(*sqlx.DB)
}

var dialects = map[string]dialect{
	DriverSQLite: {
		driver:    "sqlite3",
		migration: "sqlite3",
		dsn:       sqliteDSN,
		tune: func(db *sqlx.DB) {
			// SQLite allows one writer at a time, a single connection
			// serializes all statements instead of failing with SQLITE_BUSY.
			db.SetMaxOpenConns(1)
			db.SetMaxIdleConns(1)
			db.SetConnMaxIdleTime(0)
		},
	},
	DriverMySQL: {
		driver:    "mysql",
		migration: "mysql",
		dsn:       mysqlDSN,
		tune:      tunePool,
	},
	DriverPostgres: {
		driver:    "pgx",
		migration: "postgres",
		dsn:       func(dsn string) (string, error) { return dsn, nil },
		tune:      tunePool,
	},
}

type Options struct {
	Driver string
	DSN    string
	// SkipMigrations leaves the schema untouched, e.g. when it is managed elsewhere.
	SkipMigrations bool
}

// New connects to the configured database and applies the embedded migrations
// for its dialect. Applying them is idempotent, so New is safe to call on every start.
func New(ctx context.Context, opts Options) (*sqlx.DB, error) {
	d, ok := dialects[opts.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	dsn, err := d.dsn(strings.TrimSpace(opts.DSN))
	if err != nil {
		return nil, fmt.Errorf("invalid %s dsn: %w", opts.Driver, err)
	}

	db, err := sqlx.ConnectContext(ctx, d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", opts.Driver, err)
	}

	d.tune(db)

	if !opts.SkipMigrations {
		n, err := Migrate(db, opts.Driver)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if n > 0 {
			log.Info().Msgf("Applied %d migration(s)", n)
		}
	}

	return db, nil
}

func Migrate(db *sqlx.DB, driver string) (int, error) {
	d, ok := dialects[driver]
	if !ok {
		return 0, fmt.Errorf("unsupported database driver %q", driver)
	}

	migrationSource := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: embeddedMigrations,
		Root:       "migrations/" + driver,
	}
	n, err := migrate.Exec(db.DB, d.migration, migrationSource, migrate.Up)
	if err != nil {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return n, nil
}

func tunePool(db *sqlx.DB) {
	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(25)
	db.SetConnMaxIdleTime(10 * time.Minute)
}

// https://github.com/mattn/go-sqlite3#connection-string
func sqliteDSN(dsn string) (string, error) {
	if dsn == "" {
		return "", fmt.Errorf("empty database path")
	}

	opts := []string{
		"_journal_mode=WAL",
		"_synchronous=NORMAL",
		"_busy_timeout=5000",
	}

	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}
	return dsn + separator + strings.Join(opts, "&"), nil
}

// Timestamps are scanned into time.Time and stored as UTC.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	cfg.Params["charset"] = "utf8mb4"
	return cfg.FormatDSN(), nil
}

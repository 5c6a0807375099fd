package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"climate-server/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Open returns a pooled handle to the climate store. SQLite stores are opened
// read-only; the file must already exist.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := open(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func open(cfg config.Config, logger *slog.Logger) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		dsn, err := postgresDSN(cfg.DSN)
		if err != nil {
			return nil, err
		}
		db, err := sql.Open(config.DriverPostgres, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
		return db, nil
	case config.DriverSQLite, "":
		dsn, err := buildDSN(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.LogSQL {
			connector, err := NewLoggingConnector(dsn, logger)
			if err != nil {
				return nil, err
			}
			return sql.OpenDB(connector), nil
		}
		db, err := sql.Open(config.DriverSQLite, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("db open: unsupported driver %q", cfg.Driver)
	}
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// buildDSN turns the configured path, or a caller-supplied DSN, into a
// read-only sqlite URI. mode=ro refuses to create a missing file;
// _query_only rejects writes even if the file itself is writable.
func buildDSN(cfg config.Config) (string, error) {
	dsn := cfg.DSN
	if dsn == "" {
		if !strings.HasPrefix(cfg.Path, "file:") {
			if _, err := os.Stat(cfg.Path); err != nil {
				return "", fmt.Errorf("sqlite store %s: %w", cfg.Path, err)
			}
		}
		dsn = cfg.Path
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}

	base, rawQuery, _ := strings.Cut(dsn, "?")
	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", fmt.Errorf("sqlite dsn params: %w", err)
	}
	params.Set("mode", "ro")
	params.Set("_query_only", "true")
	if params.Get("_busy_timeout") == "" {
		params.Set("_busy_timeout", "5000")
	}
	return base + "?" + params.Encode(), nil
}

// postgresDSN makes every session default to read-only transactions. pgx
// passes unknown settings through as runtime parameters.
func postgresDSN(dsn string) (string, error) {
	const param = "default_transaction_read_only"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("postgres dsn: %w", err)
		}
		q := u.Query()
		q.Set(param, "on")
		u.RawQuery = q.Encode()
		return u.String(), nil
	}
	return strings.TrimSpace(dsn+" "+param+"=on"), nil
}

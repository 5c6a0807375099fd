package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// slowStatement is the elapsed time above which a statement is logged at
// warn instead of debug.
const slowStatement = 250 * time.Millisecond

var errSQLLogOpen = errors.New("sql log: open through sql.OpenDB(NewLoggingConnector(...))")

// loggingConnector opens sqlite3 connections whose statements report to
// logger when they finish.
type loggingConnector struct {
	dsn    string
	logger *slog.Logger
}

// NewLoggingConnector wraps the sqlite3 driver so every statement is logged
// with its arguments and duration. A nil logger means slog.Default().
func NewLoggingConnector(dsn string, logger *slog.Logger) (driver.Connector, error) {
	if dsn == "" {
		return nil, errors.New("sql log: empty dsn")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingConnector{dsn: dsn, logger: logger}, nil
}

func (c *loggingConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := (&sqlite3.SQLiteDriver{}).Open(c.dsn)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("sql connect")
	return &loggingConn{Conn: conn, logger: c.logger}, nil
}

func (c *loggingConnector) Driver() driver.Driver { return loggingDriver{} }

// loggingDriver is never used to open connections directly.
type loggingDriver struct{}

func (loggingDriver) Open(string) (driver.Conn, error) { return nil, errSQLLogOpen }

// loggingConn embeds the sqlite connection and only intercepts statement
// preparation and the optional interfaces database/sql probes for.
type loggingConn struct {
	driver.Conn
	logger *slog.Logger
}

func (c *loggingConn) Prepare(query string) (driver.Stmt, error) {
	return c.PrepareContext(context.Background(), query)
}

func (c *loggingConn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	var (
		stmt driver.Stmt
		err  error
	)
	if p, ok := c.Conn.(driver.ConnPrepareContext); ok {
		stmt, err = p.PrepareContext(ctx, query)
	} else {
		stmt, err = c.Conn.Prepare(query)
	}
	if err != nil {
		return nil, err
	}
	return &loggingStmt{Stmt: stmt, query: query, logger: c.logger}, nil
}

func (c *loggingConn) Ping(ctx context.Context) error {
	if p, ok := c.Conn.(driver.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (c *loggingConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if b, ok := c.Conn.(driver.ConnBeginTx); ok {
		return b.BeginTx(ctx, opts)
	}
	//nolint:staticcheck // SA1019: fallback for drivers without ConnBeginTx
	return c.Conn.Begin()
}

type loggingStmt struct {
	driver.Stmt
	query  string
	logger *slog.Logger
}

func (s *loggingStmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	done := s.observe(ctx, "exec", args)
	var (
		res driver.Result
		err error
	)
	if e, ok := s.Stmt.(driver.StmtExecContext); ok {
		res, err = e.ExecContext(ctx, args)
	} else {
		//nolint:staticcheck // SA1019: fallback for drivers without StmtExecContext
		res, err = s.Stmt.Exec(plainValues(args))
	}
	done(err)
	return res, err
}

func (s *loggingStmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	done := s.observe(ctx, "query", args)
	var (
		rows driver.Rows
		err  error
	)
	if q, ok := s.Stmt.(driver.StmtQueryContext); ok {
		rows, err = q.QueryContext(ctx, args)
	} else {
		//nolint:staticcheck // SA1019: fallback for drivers without StmtQueryContext
		rows, err = s.Stmt.Query(plainValues(args))
	}
	done(err)
	return rows, err
}

// observe starts timing a statement and returns the callback that logs it.
func (s *loggingStmt) observe(ctx context.Context, op string, args []driver.NamedValue) func(error) {
	start := time.Now()
	return func(err error) {
		elapsed := time.Since(start)
		level := slog.LevelDebug
		msg := "sql"
		if elapsed > slowStatement {
			level, msg = slog.LevelWarn, "slow sql"
		}
		attrs := []any{
			"op", op,
			"sql", s.query,
			"args", logArgs(args),
			"duration_ms", elapsed.Milliseconds(),
		}
		if err != nil {
			attrs = append(attrs, "error", err)
		}
		s.logger.Log(ctx, level, msg, attrs...)
	}
}

func logArgs(args []driver.NamedValue) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if a.Name != "" {
			out[i] = a.Name + "=" + formatArg(a.Value)
			continue
		}
		out[i] = formatArg(a.Value)
	}
	return out
}

func plainValues(args []driver.NamedValue) []driver.Value {
	out := make([]driver.Value, len(args))
	for i := range args {
		out[i] = args[i].Value
	}
	return out
}

func formatArg(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

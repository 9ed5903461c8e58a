package database

import (
	"context"
	"fmt"

	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
)

// Conn is the narrow surface the engine and repositories need. Each call
// takes its own connection from the underlying pool.
type Conn interface {
	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
	// Query returns every row as a column name to value map.
	Query(ctx context.Context, sql string, args ...any) ([]map[string]any, error)
	// CopyFrom bulk loads rows into target.
	CopyFrom(ctx context.Context, target CopyTarget, rows [][]any) (int64, error)
	Ping(ctx context.Context) error
	Close()
}

// CopyTarget names the table and column order of a bulk load.
type CopyTarget struct {
	Schema  string
	Table   string
	Columns []string
}

// Open connects to the backend of d and verifies the connection.
func Open(ctx context.Context, d dialect.Dialect, dsn string) (Conn, error) {
	if dsn == "" {
		return nil, fmt.Errorf("connection string not set")
	}

	var (
		conn Conn
		err  error
	)
	switch d.Name() {
	case dialect.Postgres:
		conn, err = openPgx(ctx, dsn)
	case dialect.MSSQL:
		conn, err = openSQL("sqlserver", dsn, d)
	case dialect.SQLite:
		conn, err = openSQL("sqlite", dsn, d)
	default:
		return nil, fmt.Errorf("no driver for dialect %s", d.Name())
	}
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return conn, nil
}

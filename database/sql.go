package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
)

// sqlConn serves SQL Server and SQLite through database/sql.
type sqlConn struct {
	db *sql.DB
	d  dialect.Dialect
}

func openSQL(driver, dsn string, d dialect.Dialect) (*sqlConn, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s database: %w", driver, err)
	}
	if d.Name() == dialect.SQLite {
		// An in-memory database exists per connection.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	return &sqlConn{db: db, d: d}, nil
}

// NewSQL wraps an already open handle. It is used by tests that own the
// database lifecycle.
func NewSQL(db *sql.DB, d dialect.Dialect) Conn {
	return &sqlConn{db: db, d: d}
}

func (c *sqlConn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (c *sqlConn) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

// CopyFrom streams rows with the TDS bulk copy on SQL Server and falls back
// to prepared inserts inside one transaction on SQLite.
func (c *sqlConn) CopyFrom(ctx context.Context, target CopyTarget, rows [][]any) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin copy: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stmtText string
	if c.d.Name() == dialect.MSSQL {
		stmtText = mssql.CopyIn(c.d.Table(target.Schema, target.Table), mssql.BulkOptions{}, target.Columns...)
	} else {
		cols := make([]string, len(target.Columns))
		params := make([]string, len(target.Columns))
		for i, col := range target.Columns {
			cols[i] = c.d.Quote(col)
			params[i] = c.d.Placeholder(i + 1)
		}
		stmtText = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			c.d.Table(target.Schema, target.Table), strings.Join(cols, ", "), strings.Join(params, ", "))
	}

	stmt, err := tx.PrepareContext(ctx, stmtText)
	if err != nil {
		return 0, fmt.Errorf("prepare copy: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return 0, fmt.Errorf("copy row %d: %w", i, err)
		}
	}
	if c.d.Name() == dialect.MSSQL {
		// An argument-less exec flushes the bulk batch.
		if _, err := stmt.ExecContext(ctx); err != nil {
			return 0, fmt.Errorf("flush copy: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit copy: %w", err)
	}
	return int64(len(rows)), nil
}

func (c *sqlConn) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *sqlConn) Close() { _ = c.db.Close() }

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxConn struct {
	pool *pgxpool.Pool
}

func openPgx(ctx context.Context, dsn string) (*pgxConn, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return &pgxConn{pool: pool}, nil
}

func (c *pgxConn) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := c.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (c *pgxConn) Query(ctx context.Context, sql string, args ...any) ([]map[string]any, error) {
	rows, err := c.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := []map[string]any{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make(map[string]any, len(fields))
		for i, f := range fields {
			row[f.Name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

// CopyFrom uses the COPY protocol. Identifiers are folded to lower case to
// match the unquoted names the dialect creates.
func (c *pgxConn) CopyFrom(ctx context.Context, target CopyTarget, rows [][]any) (int64, error) {
	columns := make([]string, len(target.Columns))
	for i, col := range target.Columns {
		columns[i] = strings.ToLower(col)
	}
	ident := pgx.Identifier{strings.ToLower(target.Schema), strings.ToLower(target.Table)}
	return c.pool.CopyFrom(ctx, ident, columns, pgx.CopyFromRows(rows))
}

func (c *pgxConn) Ping(ctx context.Context) error { return c.pool.Ping(ctx) }

func (c *pgxConn) Close() { c.pool.Close() }

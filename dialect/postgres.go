package dialect

import (
	"fmt"
	"strings"

	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

// PostgresDialect renders unquoted, lower-case identifiers. It has no
// system-versioned tables.
type PostgresDialect struct{}

func (PostgresDialect) Name() Name { return Postgres }

func (PostgresDialect) Quote(ident string) string { return strings.ToLower(ident) }

func (d PostgresDialect) Table(schemaName, name string) string {
	return d.Quote(schemaName) + "." + d.Quote(name)
}

func (PostgresDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

func (PostgresDialect) ColumnType(p schema.DbProperty) string {
	switch p.Kind {
	case schema.KindString:
		if p.Length > 0 {
			return fmt.Sprintf("VARCHAR(%d)", p.Length)
		}
		return "TEXT"
	case schema.KindInt:
		return "INTEGER"
	case schema.KindInt64:
		return "BIGINT"
	case schema.KindBool:
		return "BOOLEAN"
	case schema.KindFloat:
		return "DOUBLE PRECISION"
	case schema.KindTime:
		return "TIMESTAMPTZ"
	case schema.KindUUID:
		return "UUID"
	}
	return "TEXT"
}

func (PostgresDialect) SupportsTemporal() bool    { return false }
func (PostgresDialect) SupportsForeignKeys() bool { return true }

func (d PostgresDialect) CreateSchema(name string) string {
	return "CREATE SCHEMA IF NOT EXISTS " + d.Quote(name)
}

func (d PostgresDialect) CreateTable(t TableSpec) string { return createTable(d, t, nil, "") }

func (d PostgresDialect) AddColumn(schemaName, table string, p schema.DbProperty) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.Table(schemaName, table), columnDef(d, p))
}

func (d PostgresDialect) AddUnique(u UniqueSpec) string {
	stmt := fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s)",
		d.Quote(u.Name), d.Table(u.Schema, u.Table), quoteAll(d, u.Columns))
	if len(u.Include) > 0 {
		stmt += fmt.Sprintf(" INCLUDE (%s)", quoteAll(d, u.Include))
	}
	return stmt
}

func (d PostgresDialect) AddForeignKey(fk ForeignKeySpec) string { return addForeignKey(d, fk) }

func (d PostgresDialect) CreateView(schemaName, name, body string) []string {
	return []string{fmt.Sprintf("CREATE OR REPLACE VIEW %s AS\n%s", d.Table(schemaName, name), body)}
}

func (d PostgresDialect) TableExists(schemaName, table string) (string, []any) {
	return "SELECT COUNT(*) AS count FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2",
		[]any{d.Quote(schemaName), d.Quote(table)}
}

func (d PostgresDialect) Columns(schemaName, table string) (string, []any) {
	return `SELECT column_name AS name, data_type AS type, CASE WHEN is_nullable = 'YES' THEN 1 ELSE 0 END AS nullable
FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`,
		[]any{d.Quote(schemaName), d.Quote(table)}
}

func (PostgresDialect) Like() string { return "ILIKE" }

func (PostgresDialect) AsOf(string) string { return "" }

func (PostgresDialect) WrapResult(sql string) string { return sql }

func (PostgresDialect) DecodeRows(rows []map[string]any) ([]map[string]any, error) {
	if rows == nil {
		return []map[string]any{}, nil
	}
	return rows, nil
}

func (d PostgresDialect) Upsert(schemaName, table string, columns, keys []string) string {
	return upsertOnConflict(d, schemaName, table, columns, keys)
}

package dialect

import (
	"fmt"
	"strings"

	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

// SQLiteDialect is the embedded backend. SQLite has no schemas, so the
// schema is folded into the table name as {schema}_{name}. Foreign keys
// cannot be added to existing tables and are skipped.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() Name { return SQLite }

func (SQLiteDialect) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (d SQLiteDialect) Table(schemaName, name string) string {
	return d.Quote(FoldTable(schemaName, name))
}

// FoldTable is the stored name of schema.name on SQLite.
func FoldTable(schemaName, name string) string {
	if schemaName == "" {
		return name
	}
	return schemaName + "_" + name
}

func (SQLiteDialect) Placeholder(int) string { return "?" }

func (SQLiteDialect) ColumnType(p schema.DbProperty) string {
	switch p.Kind {
	case schema.KindInt, schema.KindInt64:
		return "INTEGER"
	case schema.KindBool:
		return "BOOLEAN"
	case schema.KindFloat:
		return "REAL"
	case schema.KindTime:
		return "DATETIME"
	}
	return "TEXT"
}

func (SQLiteDialect) SupportsTemporal() bool    { return false }
func (SQLiteDialect) SupportsForeignKeys() bool { return false }

func (SQLiteDialect) CreateSchema(string) string { return "" }

func (d SQLiteDialect) CreateTable(t TableSpec) string { return createTable(d, t, nil, "") }

func (d SQLiteDialect) AddColumn(schemaName, table string, p schema.DbProperty) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", d.Table(schemaName, table), columnDef(d, p))
}

// AddUnique ignores included columns; SQLite indexes cannot cover.
func (d SQLiteDialect) AddUnique(u UniqueSpec) string {
	return fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s)",
		d.Quote(u.Name), d.Table(u.Schema, u.Table), quoteAll(d, u.Columns))
}

func (SQLiteDialect) AddForeignKey(ForeignKeySpec) string { return "" }

func (d SQLiteDialect) CreateView(schemaName, name, body string) []string {
	return []string{
		"DROP VIEW IF EXISTS " + d.Table(schemaName, name),
		fmt.Sprintf("CREATE VIEW %s AS\n%s", d.Table(schemaName, name), body),
	}
}

func (SQLiteDialect) TableExists(schemaName, table string) (string, []any) {
	return `SELECT COUNT(*) AS "Count" FROM sqlite_master WHERE type = 'table' AND name = ?`,
		[]any{FoldTable(schemaName, table)}
}

func (SQLiteDialect) Columns(schemaName, table string) (string, []any) {
	return `SELECT name AS "Name", type AS "Type", CASE WHEN "notnull" = 0 THEN 1 ELSE 0 END AS "Nullable" FROM pragma_table_info(?)`,
		[]any{FoldTable(schemaName, table)}
}

func (SQLiteDialect) Like() string { return "LIKE" }

func (SQLiteDialect) AsOf(string) string { return "" }

func (SQLiteDialect) WrapResult(sql string) string { return sql }

func (SQLiteDialect) DecodeRows(rows []map[string]any) ([]map[string]any, error) {
	if rows == nil {
		return []map[string]any{}, nil
	}
	return rows, nil
}

func (d SQLiteDialect) Upsert(schemaName, table string, columns, keys []string) string {
	return upsertOnConflict(d, schemaName, table, columns, keys)
}

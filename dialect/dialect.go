// Package dialect renders backend specific SQL. Everything that differs
// between SQL Server, PostgreSQL and SQLite lives behind Dialect.
package dialect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

type Name string

const (
	MSSQL    Name = "mssql"
	Postgres Name = "postgres"
	SQLite   Name = "sqlite"
)

// ErrTemporalUnsupported is returned for point-in-time reads on a backend
// without system-versioned tables.
var ErrTemporalUnsupported = errors.New("dialect: point-in-time reads need a temporal backend")

// Period columns added to system-versioned tables.
const (
	ValidFrom = "ValidFrom"
	ValidTo   = "ValidTo"
)

type TableSpec struct {
	Schema        string
	Name          string
	Columns       []schema.DbProperty
	PrimaryKey    *schema.DbConstraint
	Temporal      bool
	HistorySchema string
}

type UniqueSpec struct {
	Schema  string
	Table   string
	Name    string
	Columns []string
	Include []string
}

type ForeignKeySpec struct {
	Schema    string
	Table     string
	Name      string
	Column    string
	RefSchema string
	RefTable  string
	RefColumn string
	Cascade   bool
}

type Dialect interface {
	Name() Name
	Quote(ident string) string
	// Table renders a qualified table name.
	Table(schema, name string) string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder(n int) string
	ColumnType(p schema.DbProperty) string
	SupportsTemporal() bool
	SupportsForeignKeys() bool

	// CreateSchema returns "" when the backend has no schemas.
	CreateSchema(name string) string
	CreateTable(t TableSpec) string
	AddColumn(schema, table string, p schema.DbProperty) string
	AddUnique(u UniqueSpec) string
	AddForeignKey(fk ForeignKeySpec) string
	CreateView(schema, name, body string) []string

	// TableExists returns a query yielding one row with a Count column.
	TableExists(schema, table string) (string, []any)
	// Columns returns a query yielding Name, Type and Nullable per column.
	Columns(schema, table string) (string, []any)

	Like() string
	// AsOf renders the clause placed after a table name for point-in-time
	// reads. It is only called when SupportsTemporal is true.
	AsOf(param string) string
	// WrapResult and DecodeRows adapt the result transport of reads.
	WrapResult(sql string) string
	DecodeRows(rows []map[string]any) ([]map[string]any, error)
	// Upsert renders an insert-or-update keyed on keys. Parameters follow
	// the order of columns.
	Upsert(schema, table string, columns, keys []string) string
}

type sqlContext struct {
	d      Dialect
	schema string
}

// NewSQLContext resolves names for view and query renderers.
func NewSQLContext(d Dialect, schemaName string) schema.SQLContext {
	return sqlContext{d: d, schema: schemaName}
}

func (c sqlContext) Table(model string) string { return c.d.Table(c.schema, model) }
func (c sqlContext) Column(name string) string { return c.d.Quote(name) }

// Parse resolves a configured dialect name.
func Parse(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mssql", "sqlserver":
		return MSSQLDialect{}, nil
	case "postgres", "postgresql", "pgx":
		return PostgresDialect{}, nil
	case "sqlite", "sqlite3":
		return SQLiteDialect{}, nil
	}
	return nil, fmt.Errorf("unknown dialect %q", name)
}

func quoteAll(d Dialect, names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = d.Quote(n)
	}
	return strings.Join(quoted, ", ")
}

func placeholders(d Dialect, from, n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = d.Placeholder(from + i)
	}
	return strings.Join(out, ", ")
}

func columnDef(d Dialect, p schema.DbProperty) string {
	var sb strings.Builder
	sb.WriteString(d.Quote(p.Name))
	sb.WriteString(" ")
	sb.WriteString(d.ColumnType(p))
	if p.Nullable {
		sb.WriteString(" NULL")
	} else {
		sb.WriteString(" NOT NULL")
	}
	if p.Default != nil {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(*p.Default)
	}
	return sb.String()
}

func createTable(d Dialect, t TableSpec, extra []string, suffix string) string {
	var defs []string
	for _, c := range t.Columns {
		defs = append(defs, columnDef(d, c))
	}
	defs = append(defs, extra...)
	if t.PrimaryKey != nil {
		defs = append(defs, fmt.Sprintf("CONSTRAINT %s PRIMARY KEY (%s)",
			d.Quote(t.PrimaryKey.Name), quoteAll(d, t.PrimaryKey.Properties)))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)%s", d.Table(t.Schema, t.Name), strings.Join(defs, ",\n\t"), suffix)
}

func addForeignKey(d Dialect, fk ForeignKeySpec) string {
	stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		d.Table(fk.Schema, fk.Table),
		d.Quote(fk.Name),
		d.Quote(fk.Column),
		d.Table(fk.RefSchema, fk.RefTable),
		d.Quote(fk.RefColumn),
	)
	if fk.Cascade {
		stmt += " ON DELETE CASCADE"
	}
	return stmt
}

// upsertOnConflict is shared by PostgreSQL and SQLite.
func upsertOnConflict(d Dialect, schemaName, table string, columns, keys []string) string {
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s)",
		d.Table(schemaName, table), quoteAll(d, columns), placeholders(d, 1, len(columns)), quoteAll(d, keys))
	var sets []string
	for _, c := range columns {
		if contains(keys, c) {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", d.Quote(c), d.Quote(c)))
	}
	if len(sets) == 0 {
		return stmt + " DO NOTHING"
	}
	return stmt + " DO UPDATE SET " + strings.Join(sets, ", ")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

package dialect

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

// MSSQLDialect targets SQL Server. Tables may be system-versioned and reads
// come back as FOR JSON fragments.
type MSSQLDialect struct{}

func (MSSQLDialect) Name() Name { return MSSQL }

func (MSSQLDialect) Quote(ident string) string {
	return "[" + strings.ReplaceAll(ident, "]", "]]") + "]"
}

func (d MSSQLDialect) Table(schemaName, name string) string {
	return d.Quote(schemaName) + "." + d.Quote(name)
}

func (MSSQLDialect) Placeholder(n int) string { return fmt.Sprintf("@p%d", n) }

func (MSSQLDialect) ColumnType(p schema.DbProperty) string {
	switch p.Kind {
	case schema.KindString:
		if p.Length > 0 {
			return fmt.Sprintf("NVARCHAR(%d)", p.Length)
		}
		return "NVARCHAR(MAX)"
	case schema.KindInt:
		return "INT"
	case schema.KindInt64:
		return "BIGINT"
	case schema.KindBool:
		return "BIT"
	case schema.KindFloat:
		return "FLOAT"
	case schema.KindTime:
		return "DATETIME2(7)"
	case schema.KindUUID:
		return "UNIQUEIDENTIFIER"
	}
	return "NVARCHAR(MAX)"
}

func (MSSQLDialect) SupportsTemporal() bool    { return true }
func (MSSQLDialect) SupportsForeignKeys() bool { return true }

func (d MSSQLDialect) CreateSchema(name string) string {
	return fmt.Sprintf("IF NOT EXISTS (SELECT 1 FROM sys.schemas WHERE name = N'%s') EXEC('CREATE SCHEMA %s')",
		strings.ReplaceAll(name, "'", "''"), d.Quote(name))
}

func (d MSSQLDialect) CreateTable(t TableSpec) string {
	if !t.Temporal {
		return createTable(d, t, nil, "")
	}
	period := []string{
		fmt.Sprintf("%s DATETIME2(7) GENERATED ALWAYS AS ROW START HIDDEN NOT NULL", d.Quote(ValidFrom)),
		fmt.Sprintf("%s DATETIME2(7) GENERATED ALWAYS AS ROW END HIDDEN NOT NULL", d.Quote(ValidTo)),
		fmt.Sprintf("PERIOD FOR SYSTEM_TIME (%s, %s)", d.Quote(ValidFrom), d.Quote(ValidTo)),
	}
	suffix := fmt.Sprintf(" WITH (SYSTEM_VERSIONING = ON (HISTORY_TABLE = %s))", d.Table(t.HistorySchema, t.Name))
	return createTable(d, t, period, suffix)
}

func (d MSSQLDialect) AddColumn(schemaName, table string, p schema.DbProperty) string {
	return fmt.Sprintf("ALTER TABLE %s ADD %s", d.Table(schemaName, table), columnDef(d, p))
}

func (d MSSQLDialect) AddUnique(u UniqueSpec) string {
	stmt := fmt.Sprintf("CREATE UNIQUE NONCLUSTERED INDEX %s ON %s (%s)",
		d.Quote(u.Name), d.Table(u.Schema, u.Table), quoteAll(d, u.Columns))
	if len(u.Include) > 0 {
		stmt += fmt.Sprintf(" INCLUDE (%s)", quoteAll(d, u.Include))
	}
	return stmt
}

func (d MSSQLDialect) AddForeignKey(fk ForeignKeySpec) string { return addForeignKey(d, fk) }

func (d MSSQLDialect) CreateView(schemaName, name, body string) []string {
	return []string{fmt.Sprintf("CREATE OR ALTER VIEW %s AS\n%s", d.Table(schemaName, name), body)}
}

func (MSSQLDialect) TableExists(schemaName, table string) (string, []any) {
	return "SELECT COUNT(*) AS [Count] FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2",
		[]any{schemaName, table}
}

func (MSSQLDialect) Columns(schemaName, table string) (string, []any) {
	return `SELECT COLUMN_NAME AS [Name], DATA_TYPE AS [Type], CASE WHEN IS_NULLABLE = 'YES' THEN 1 ELSE 0 END AS [Nullable]
FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2 ORDER BY ORDINAL_POSITION`,
		[]any{schemaName, table}
}

func (MSSQLDialect) Like() string { return "LIKE" }

func (MSSQLDialect) AsOf(param string) string { return "FOR SYSTEM_TIME AS OF " + param }

func (MSSQLDialect) WrapResult(sql string) string {
	return sql + " FOR JSON PATH, INCLUDE_NULL_VALUES"
}

// DecodeRows joins the FOR JSON fragments, which SQL Server splits over
// several rows for large results, and parses the document.
func (MSSQLDialect) DecodeRows(rows []map[string]any) ([]map[string]any, error) {
	var sb strings.Builder
	for _, row := range rows {
		for _, v := range row {
			switch s := v.(type) {
			case string:
				sb.WriteString(s)
			case []byte:
				sb.Write(s)
			}
		}
	}
	out := []map[string]any{}
	if sb.Len() == 0 {
		return out, nil
	}
	dec := json.NewDecoder(strings.NewReader(sb.String()))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode json result: %w", err)
	}
	return out, nil
}

func (d MSSQLDialect) Upsert(schemaName, table string, columns, keys []string) string {
	source := make([]string, len(columns))
	for i, c := range columns {
		source[i] = fmt.Sprintf("%s AS %s", d.Placeholder(i+1), d.Quote(c))
	}
	on := make([]string, len(keys))
	for i, k := range keys {
		on[i] = fmt.Sprintf("TARGET.%s = SOURCE.%s", d.Quote(k), d.Quote(k))
	}
	var sets, values []string
	for _, c := range columns {
		values = append(values, "SOURCE."+d.Quote(c))
		if !contains(keys, c) {
			sets = append(sets, fmt.Sprintf("%s = SOURCE.%s", d.Quote(c), d.Quote(c)))
		}
	}
	stmt := fmt.Sprintf("MERGE INTO %s AS TARGET USING (SELECT %s) AS SOURCE ON %s",
		d.Table(schemaName, table), strings.Join(source, ", "), strings.Join(on, " AND "))
	if len(sets) > 0 {
		stmt += " WHEN MATCHED THEN UPDATE SET " + strings.Join(sets, ", ")
	}
	stmt += fmt.Sprintf(" WHEN NOT MATCHED THEN INSERT (%s) VALUES (%s);", quoteAll(d, columns), strings.Join(values, ", "))
	return stmt
}

package introspect

import (
	"context"
	"fmt"

	"github.com/Altinn/altinn-authorization-tmp-sub012/database"
	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

type ExistingColumn struct {
	Name     string
	Type     string
	Nullable bool
}

// TableExists reports whether schema.table is present.
func TableExists(ctx context.Context, conn database.Conn, d dialect.Dialect, schemaName, table string) (bool, error) {
	q, args := d.TableExists(schemaName, table)
	rows, err := conn.Query(ctx, q, args...)
	if err != nil {
		return false, fmt.Errorf("querying tables: %w", err)
	}
	if len(rows) == 0 {
		return false, nil
	}
	var out []struct{ Count int64 }
	if err := database.Decode(rows, &out); err != nil {
		return false, fmt.Errorf("reading table count: %w", err)
	}
	return out[0].Count > 0, nil
}

// Columns lists the columns of schema.table in ordinal order.
func Columns(ctx context.Context, conn database.Conn, d dialect.Dialect, schemaName, table string) ([]ExistingColumn, error) {
	q, args := d.Columns(schemaName, table)
	rows, err := conn.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	columns := []ExistingColumn{}
	if err := database.Decode(rows, &columns); err != nil {
		return nil, fmt.Errorf("scanning column: %w", err)
	}
	return columns, nil
}

// Drift describes the difference between a definition and its live table.
type Drift struct {
	Type           string
	MissingTable   bool
	MissingColumns []string
	ExtraColumns   []string
}

func (d Drift) Clean() bool {
	return !d.MissingTable && len(d.MissingColumns) == 0 && len(d.ExtraColumns) == 0
}

// Compare checks every table definition in reg against the live schema.
// Columns the backend adds itself, such as period columns, are not extra.
func Compare(ctx context.Context, conn database.Conn, d dialect.Dialect, reg *schema.Registry, schemaName string) ([]Drift, error) {
	var drifts []Drift
	for _, def := range reg.All() {
		if def.DefinitionType != schema.Table {
			continue
		}
		drift := Drift{Type: def.ModelType}
		exists, err := TableExists(ctx, conn, d, schemaName, def.ModelType)
		if err != nil {
			return nil, fmt.Errorf("checking table %s: %w", def.ModelType, err)
		}
		if !exists {
			drift.MissingTable = true
			drifts = append(drifts, drift)
			continue
		}
		columns, err := Columns(ctx, conn, d, schemaName, def.ModelType)
		if err != nil {
			return nil, fmt.Errorf("getting columns for table %s: %w", def.ModelType, err)
		}
		live := map[string]bool{}
		for _, c := range columns {
			live[d.Quote(c.Name)] = true
		}
		for _, p := range def.Properties {
			if !live[d.Quote(p.Name)] {
				drift.MissingColumns = append(drift.MissingColumns, p.Name)
			}
			delete(live, d.Quote(p.Name))
		}
		delete(live, d.Quote(dialect.ValidFrom))
		delete(live, d.Quote(dialect.ValidTo))
		for _, c := range columns {
			if live[d.Quote(c.Name)] {
				drift.ExtraColumns = append(drift.ExtraColumns, c.Name)
			}
		}
		if !drift.Clean() {
			drifts = append(drifts, drift)
		}
	}
	return drifts, nil
}

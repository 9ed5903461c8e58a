package diff

import (
	"fmt"
	"sort"

	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

type OperationType string

const (
	CreateSchema        OperationType = "CREATE_SCHEMA"
	CreateTable         OperationType = "CREATE_TABLE"
	AddColumn           OperationType = "ADD_COLUMN"
	AddUniqueConstraint OperationType = "ADD_UNIQUE_CONSTRAINT"
	AddForeignKey       OperationType = "ADD_FOREIGN_KEY"
	CreateView          OperationType = "CREATE_VIEW"
	CreateFunction      OperationType = "CREATE_FUNCTION"
)

// Operation is one forward-only schema change. Its Key identifies it in the
// migration journal and must stay stable across releases.
type Operation struct {
	Type        OperationType
	Schema      string
	Definition  *schema.DbDefinition
	Translation bool
	Property    *schema.DbProperty
	Constraint  *schema.DbConstraint
	Relation    *schema.DbRelation
	Name        string
	Script      string
}

// ObjectName is the journal object an operation belongs to: the model type,
// or the schema or function name.
func (op Operation) ObjectName() string {
	switch op.Type {
	case CreateSchema:
		return op.Schema
	case CreateFunction:
		return op.Name
	}
	return op.Definition.ModelType
}

func (op Operation) Key() string {
	switch op.Type {
	case CreateSchema:
		return "CREATE SCHEMA " + op.Schema
	case CreateTable:
		return fmt.Sprintf("CREATE TABLE %s.%s", op.Schema, op.Definition.ModelType)
	case AddColumn:
		return fmt.Sprintf("ADD COLUMN %s.%s.%s", op.Schema, op.Definition.ModelType, op.Property.Name)
	case AddUniqueConstraint:
		return fmt.Sprintf("ADD CONSTRAINT %s.%s.%s", op.Schema, op.Definition.ModelType, op.Constraint.Name)
	case AddForeignKey:
		return fmt.Sprintf("ADD CONSTRAINT %s.%s.%s", op.Schema, op.Definition.ModelType,
			schema.ForeignKeyName(op.Definition.ModelType, op.Relation.BaseProperty))
	case CreateView:
		return fmt.Sprintf("CREATE VIEW %s.%s.v%d", op.Schema, op.Definition.ModelType, op.Definition.Version)
	case CreateFunction:
		return fmt.Sprintf("CREATE FUNCTION %s.%s", op.Schema, op.Name)
	}
	return string(op.Type)
}

type PlanOptions struct {
	Schema            string
	TranslationSchema string
	HistorySchema     string
	// Temporal is set when the backend keeps history tables.
	Temporal bool
}

// Plan lists every operation needed to reconcile reg: schemas, tables with
// their columns, translation tables, unique constraints, foreign keys, and
// views in dependency order. The engine skips what the journal already has.
func Plan(reg *schema.Registry, opts PlanOptions) ([]Operation, error) {
	var ops []Operation
	defs := reg.All()

	schemas := []string{opts.Schema}
	for _, def := range defs {
		if def.EnableTranslation && !containsString(schemas, opts.TranslationSchema) {
			schemas = append(schemas, opts.TranslationSchema)
		}
		if def.EnableAudit && opts.Temporal && !containsString(schemas, opts.HistorySchema) {
			schemas = append(schemas, opts.HistorySchema)
		}
	}
	for _, s := range schemas {
		ops = append(ops, Operation{Type: CreateSchema, Schema: s})
	}

	for _, def := range defs {
		if def.DefinitionType != schema.Table {
			continue
		}
		ops = append(ops, Operation{Type: CreateTable, Schema: opts.Schema, Definition: def})
		for i := range def.Properties {
			ops = append(ops, Operation{Type: AddColumn, Schema: opts.Schema, Definition: def, Property: &def.Properties[i]})
		}
		if !def.EnableTranslation {
			continue
		}
		ops = append(ops, Operation{Type: CreateTable, Schema: opts.TranslationSchema, Definition: def, Translation: true})
		for _, p := range def.StringProperties() {
			p := p
			ops = append(ops, Operation{Type: AddColumn, Schema: opts.TranslationSchema, Definition: def, Property: &p, Translation: true})
		}
	}

	for _, def := range defs {
		if def.DefinitionType != schema.Table {
			continue
		}
		for i := range def.Constraints {
			if def.Constraints[i].IsPrimaryKey {
				continue
			}
			ops = append(ops, Operation{Type: AddUniqueConstraint, Schema: opts.Schema, Definition: def, Constraint: &def.Constraints[i]})
		}
	}

	for _, def := range defs {
		if def.DefinitionType != schema.Table {
			continue
		}
		seen := map[string]bool{}
		for i := range def.Relations {
			rel := &def.Relations[i]
			if rel.IsList || seen[rel.BaseProperty] {
				continue
			}
			seen[rel.BaseProperty] = true
			ops = append(ops, Operation{Type: AddForeignKey, Schema: opts.Schema, Definition: def, Relation: rel})
		}
	}

	views, err := sortViews(defs)
	if err != nil {
		return nil, err
	}
	for _, def := range views {
		ops = append(ops, Operation{Type: CreateView, Schema: opts.Schema, Definition: def})
	}
	return ops, nil
}

// sortViews orders views so that each comes after the views it depends on.
func sortViews(defs []*schema.DbDefinition) ([]*schema.DbDefinition, error) {
	views := map[string]*schema.DbDefinition{}
	var names []string
	for _, def := range defs {
		if def.DefinitionType == schema.View {
			views[def.ModelType] = def
			names = append(names, def.ModelType)
		}
	}

	inDegree := map[string]int{}
	dependents := map[string][]string{}
	for _, name := range names {
		for _, dep := range views[name].Dependencies {
			if _, isView := views[dep]; isView {
				inDegree[name]++
				dependents[dep] = append(dependents[dep], name)
			}
		}
	}

	var queue []string
	for _, name := range names {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	var out []*schema.DbDefinition
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		out = append(out, views[name])
		next := dependents[name]
		sort.Strings(next)
		for _, d := range next {
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	if len(out) != len(names) {
		return nil, fmt.Errorf("circular dependency between views")
	}
	return out, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

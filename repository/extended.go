package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Altinn/altinn-authorization-tmp-sub012/query"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

// ExtendedRepository reads T together with its registered relations into
// TExt. Single relations are joined into the base query; list relations are
// loaded with one extra query each.
type ExtendedRepository[T schema.Entity, TExt any] struct {
	*Repository[T]
}

func NewExtendedRepository[T schema.Entity, TExt any](s *Store) (*ExtendedRepository[T, TExt], error) {
	base, err := NewRepository[T](s)
	if err != nil {
		return nil, err
	}
	return &ExtendedRepository[T, TExt]{Repository: base}, nil
}

func relationPrefix(rel schema.DbRelation) string { return rel.ExtendedProperty + "__" }

func (r *ExtendedRepository[T, TExt]) GetExtended(ctx context.Context, filter *Filter, opts *RequestOptions) ([]TExt, error) {
	res, err := r.QueryExtended(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (r *ExtendedRepository[T, TExt]) GetExtendedBy(ctx context.Context, property string, value any, opts *RequestOptions) ([]TExt, error) {
	return r.GetExtended(ctx, NewFilter().Equal(property, value), opts)
}

func (r *ExtendedRepository[T, TExt]) GetExtendedByID(ctx context.Context, id any, opts *RequestOptions) (*TExt, error) {
	col := r.def.IdentityColumn()
	if col == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoIdentity, r.def.ModelType)
	}
	rows, err := r.GetExtendedBy(ctx, col, id, opts)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s %v: %w", r.def.ModelType, id, ErrNotFound)
	}
	return &rows[0], nil
}

func (r *ExtendedRepository[T, TExt]) QueryExtended(ctx context.Context, filter *Filter, opts *RequestOptions) (*QueryResponse[TExt], error) {
	o := opts.orDefault()
	sel, err := r.s.selectFor(r.def, filter, nil, o)
	if err != nil {
		return nil, err
	}

	var lists []schema.DbRelation
	for i, rel := range r.def.Relations {
		if rel.IsList {
			lists = append(lists, rel)
			continue
		}
		ref, ok := r.s.reg.Get(rel.Ref)
		if !ok {
			return nil, fmt.Errorf("%s.%s: %s is not registered", r.def.ModelType, rel.ExtendedProperty, rel.Ref)
		}
		alias := fmt.Sprintf("R%d", i)
		src, err := r.s.source(ref, alias, o)
		if err != nil {
			return nil, err
		}
		cols, joins := r.s.project(ref, alias, relationPrefix(rel), o)
		kind := query.InnerJoin
		if rel.IsOptional {
			kind = query.LeftJoin
		}
		sel.Joins = append(sel.Joins, query.Join{
			Kind:   kind,
			Source: src,
			On: []query.On{{
				Left:  query.Ref{Source: alias, Name: rel.RefProperty},
				Right: query.Ref{Source: "T", Name: rel.BaseProperty},
			}},
		})
		sel.Joins = append(sel.Joins, joins...)
		sel.Columns = append(sel.Columns, cols...)
	}

	rows, text, err := r.s.fetch(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("reading extended %s: %w", r.def.ModelType, err)
	}

	maps := make([]map[string]any, len(rows))
	for i, row := range rows {
		m := unflatten(r.def, row, "")
		for _, rel := range r.def.Relations {
			if rel.IsList {
				continue
			}
			prefix := relationPrefix(rel)
			if row[strings.ToLower(prefix+rel.RefProperty)] == nil {
				m[rel.ExtendedProperty] = nil
				continue
			}
			m[rel.ExtendedProperty] = unflatten(r.s.reg.MustGet(rel.Ref), row, prefix)
		}
		maps[i] = m
	}

	for _, rel := range lists {
		if err := r.loadList(ctx, rel, rows, maps, o); err != nil {
			return nil, err
		}
	}

	data, err := decodeAll[TExt](maps, text)
	if err != nil {
		r.s.log.Errorw("failed to decode extended rows", "type", r.def.ModelType, "sql", text, "error", err)
		return nil, err
	}
	page, err := r.s.page(ctx, sel, rows, o)
	if err != nil {
		return nil, fmt.Errorf("counting extended %s: %w", r.def.ModelType, err)
	}
	return &QueryResponse[TExt]{Data: data, Page: page}, nil
}

// loadList reads the rows of rel referencing any of rows and attaches them
// to maps, which is parallel to rows.
func (r *ExtendedRepository[T, TExt]) loadList(ctx context.Context, rel schema.DbRelation, rows, maps []map[string]any, opts RequestOptions) error {
	ref, ok := r.s.reg.Get(rel.Ref)
	if !ok {
		return fmt.Errorf("%s.%s: %s is not registered", r.def.ModelType, rel.ExtendedProperty, rel.Ref)
	}

	baseKey := strings.ToLower(rel.BaseProperty)
	seen := map[string]bool{}
	var keys []any
	for _, row := range rows {
		v := row[baseKey]
		if v == nil || seen[keyOf(v)] {
			continue
		}
		seen[keyOf(v)] = true
		keys = append(keys, v)
	}

	grouped := map[string][]map[string]any{}
	if len(keys) > 0 {
		listOpts := RequestOptions{Language: opts.Language, AsOf: opts.AsOf}
		cond := query.Predicate{Column: query.Ref{Source: "T", Name: rel.RefProperty}, Comparer: query.In, Values: keys}
		sel, err := r.s.selectFor(ref, nil, []query.Condition{cond}, listOpts)
		if err != nil {
			return err
		}
		related, _, err := r.s.fetch(ctx, sel)
		if err != nil {
			return fmt.Errorf("reading %s of %s: %w", rel.ExtendedProperty, r.def.ModelType, err)
		}
		refKey := strings.ToLower(rel.RefProperty)
		for _, row := range related {
			k := keyOf(row[refKey])
			grouped[k] = append(grouped[k], unflatten(ref, row, ""))
		}
	}

	for i, row := range rows {
		list := grouped[keyOf(row[baseKey])]
		if list == nil {
			list = []map[string]any{}
		}
		maps[i][rel.ExtendedProperty] = list
	}
	return nil
}

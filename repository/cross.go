package repository

import (
	"context"
	"fmt"

	"github.com/Altinn/altinn-authorization-tmp-sub012/query"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

// CrossRepository reads through a junction TJ linking TA and TB. It embeds
// the junction's basic repository for writes.
type CrossRepository[TJ, TA, TB schema.Entity] struct {
	*Repository[TJ]
	a     *Repository[TA]
	b     *Repository[TB]
	cross *schema.DbCrossRelation
}

func NewCrossRepository[TJ, TA, TB schema.Entity](s *Store) (*CrossRepository[TJ, TA, TB], error) {
	junction, err := NewRepository[TJ](s)
	if err != nil {
		return nil, err
	}
	cross := junction.def.CrossRelation
	if cross == nil {
		return nil, fmt.Errorf("%s is not a cross reference", junction.def.ModelType)
	}
	a, err := NewRepository[TA](s)
	if err != nil {
		return nil, err
	}
	b, err := NewRepository[TB](s)
	if err != nil {
		return nil, err
	}
	if cross.A != a.def.ModelType || cross.B != b.def.ModelType {
		return nil, fmt.Errorf("%s crosses %s and %s, not %s and %s",
			junction.def.ModelType, cross.A, cross.B, a.def.ModelType, b.def.ModelType)
	}
	return &CrossRepository[TJ, TA, TB]{Repository: junction, a: a, b: b, cross: cross}, nil
}

// inJunction matches rows whose identity is referenced by a junction row
// pointing at id from the other side.
func (r *CrossRepository[TJ, TA, TB]) inJunction(identity, selected, matched string, id any) query.Condition {
	sub := query.Select{
		Columns: []query.Column{{Ref: query.Ref{Source: "J", Name: selected}}},
		From:    query.Source{Schema: r.s.settings.Schema, Table: r.cross.Junction, Alias: "J"},
		Where: []query.Condition{query.Predicate{
			Column:   query.Ref{Source: "J", Name: matched},
			Comparer: query.Equal,
			Values:   []any{id},
		}},
	}
	return query.Predicate{Column: query.Ref{Source: "T", Name: identity}, Comparer: query.InSelect, Sub: &sub}
}

// ExecuteForA returns the A rows linked to the B row identified by bID.
func (r *CrossRepository[TJ, TA, TB]) ExecuteForA(ctx context.Context, bID any, opts *RequestOptions) ([]TA, error) {
	res, err := r.QueryForA(ctx, bID, nil, opts)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// ExecuteForB returns the B rows linked to the A row identified by aID.
func (r *CrossRepository[TJ, TA, TB]) ExecuteForB(ctx context.Context, aID any, opts *RequestOptions) ([]TB, error) {
	res, err := r.QueryForB(ctx, aID, nil, opts)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (r *CrossRepository[TJ, TA, TB]) QueryForA(ctx context.Context, bID any, filter *Filter, opts *RequestOptions) (*QueryResponse[TA], error) {
	cond := r.inJunction(r.cross.AIdentity, r.cross.AReference, r.cross.BReference, bID)
	return r.a.read(ctx, filter, []query.Condition{cond}, opts.orDefault())
}

func (r *CrossRepository[TJ, TA, TB]) QueryForB(ctx context.Context, aID any, filter *Filter, opts *RequestOptions) (*QueryResponse[TB], error) {
	cond := r.inJunction(r.cross.BIdentity, r.cross.BReference, r.cross.AReference, aID)
	return r.b.read(ctx, filter, []query.Condition{cond}, opts.orDefault())
}

package repository

import (
	"fmt"
	"time"

	"github.com/Altinn/altinn-authorization-tmp-sub012/query"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

// DefaultPageSize is used when paging is requested without a size.
const DefaultPageSize = 50

// RequestOptions controls how a read is executed.
type RequestOptions struct {
	// Language selects translated values; untranslated columns fall back to
	// the base row.
	Language string
	// AsOf reads audited tables as they were at that time.
	AsOf            *time.Time
	UsePaging       bool
	PageNumber      int
	PageSize        int
	OrderBy         string
	OrderDescending bool
}

func (o *RequestOptions) orDefault() RequestOptions {
	if o == nil {
		return RequestOptions{}
	}
	out := *o
	if out.UsePaging {
		if out.PageNumber < 1 {
			out.PageNumber = 1
		}
		if out.PageSize < 1 {
			out.PageSize = DefaultPageSize
		}
	}
	return out
}

type PageInfo struct {
	PageNumber int
	PageSize   int
	ItemCount  int64
	PageCount  int64
}

type QueryResponse[T any] struct {
	Data []T
	Page PageInfo
}

type filterTerm struct {
	property string
	comparer query.Comparer
	values   []any
}

// Filter is a conjunction of property comparisons. Property names are
// resolved against the definition when the read executes.
type Filter struct {
	terms []filterTerm
}

func NewFilter() *Filter { return &Filter{} }

func (f *Filter) add(property string, c query.Comparer, values ...any) *Filter {
	f.terms = append(f.terms, filterTerm{property: property, comparer: c, values: values})
	return f
}

func (f *Filter) Equal(property string, value any) *Filter {
	return f.add(property, query.Equal, value)
}

func (f *Filter) NotEqual(property string, value any) *Filter {
	return f.add(property, query.NotEqual, value)
}

func (f *Filter) In(property string, values ...any) *Filter {
	return f.add(property, query.In, values...)
}

func (f *Filter) NotIn(property string, values ...any) *Filter {
	return f.add(property, query.NotIn, values...)
}

func (f *Filter) IsNull(property string) *Filter    { return f.add(property, query.IsNull) }
func (f *Filter) IsNotNull(property string) *Filter { return f.add(property, query.IsNotNull) }

func (f *Filter) StartsWith(property, value string) *Filter {
	return f.add(property, query.StartsWith, value)
}

func (f *Filter) EndsWith(property, value string) *Filter {
	return f.add(property, query.EndsWith, value)
}

func (f *Filter) Contains(property, value string) *Filter {
	return f.add(property, query.Contains, value)
}

// conditions resolves the filter for def read through alias.
func (f *Filter) conditions(def *schema.DbDefinition, alias string) ([]query.Condition, error) {
	if f == nil {
		return nil, nil
	}
	out := make([]query.Condition, 0, len(f.terms))
	for _, t := range f.terms {
		p, ok := def.PropertyFold(t.property)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownProperty, def.ModelType, t.property)
		}
		out = append(out, query.Predicate{
			Column:   query.Ref{Source: alias, Name: p.Name},
			Comparer: t.comparer,
			Values:   t.values,
		})
	}
	return out, nil
}

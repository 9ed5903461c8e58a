// Package query is a small select builder. Clauses are plain values that are
// rendered for one dialect by Render; bind arguments are collected in the
// order their placeholders appear in the text.
package query

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
)

// Paging columns added by Render when Select.Page is set.
const (
	RowNumberColumn = "_rownum"
	TotalColumn     = "_totalitemcount"
)

type Comparer int

const (
	Equal Comparer = iota
	NotEqual
	In
	NotIn
	IsNull
	IsNotNull
	StartsWith
	EndsWith
	Contains
	// InSelect compares against a single-column sub-select.
	InSelect
)

var comparerNames = map[Comparer]string{
	Equal:      "eq",
	NotEqual:   "ne",
	In:         "in",
	NotIn:      "notin",
	IsNull:     "null",
	IsNotNull:  "notnull",
	StartsWith: "startswith",
	EndsWith:   "endswith",
	Contains:   "contains",
	InSelect:   "inselect",
}

func (c Comparer) String() string { return comparerNames[c] }

// Ref names a column of an aliased source.
type Ref struct {
	Source string
	Name   string
}

// Column is one select-list entry. With Fallback set it renders
// COALESCE(Fallback.Name, Source.Name).
type Column struct {
	Ref
	Fallback string
	Alias    string
}

// Source is a table, optionally read as of a point in time, or a raw
// derived table when Raw is set.
type Source struct {
	Schema string
	Table  string
	Raw    string
	Alias  string
	AsOf   *time.Time
}

type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
)

type On struct {
	Left  Ref
	Right Ref
}

type Join struct {
	Kind   JoinKind
	Source Source
	On     []On
	Where  []Condition
}

// Condition is a Predicate or an Any group.
type Condition interface {
	render(r *renderer) string
}

type Predicate struct {
	Column   Ref
	Comparer Comparer
	Values   []any
	Sub      *Select
}

// Any joins its predicates with OR.
type Any []Condition

type Order struct {
	Column     Ref
	Descending bool
}

type Page struct {
	Number int
	Size   int
}

type Select struct {
	Columns []Column
	From    Source
	Joins   []Join
	Where   []Condition
	OrderBy []Order
	Page    *Page
}

type renderer struct {
	d    dialect.Dialect
	args []any
}

func (r *renderer) param(v any) string {
	r.args = append(r.args, v)
	return r.d.Placeholder(len(r.args))
}

func (r *renderer) ref(c Ref) string {
	if c.Source == "" {
		return r.d.Quote(c.Name)
	}
	return c.Source + "." + r.d.Quote(c.Name)
}

// Render returns the SQL text and its arguments.
func Render(d dialect.Dialect, s Select) (string, []any) {
	r := &renderer{d: d}
	return r.selectStmt(s), r.args
}

func (r *renderer) selectStmt(s Select) string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	cols := make([]string, 0, len(s.Columns)+2)
	for _, c := range s.Columns {
		cols = append(cols, r.column(c))
	}
	if s.Page != nil {
		cols = append(cols,
			fmt.Sprintf("ROW_NUMBER() OVER (ORDER BY %s) AS %s", r.orderList(s.OrderBy), RowNumberColumn),
			fmt.Sprintf("COUNT(*) OVER () AS %s", TotalColumn))
	}
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(r.source(s.From))
	for _, j := range s.Joins {
		sb.WriteString(r.join(j))
	}
	if len(s.Where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(r.conditions(s.Where, " AND "))
	}
	if s.Page == nil {
		if len(s.OrderBy) > 0 {
			sb.WriteString(" ORDER BY ")
			sb.WriteString(r.orderList(s.OrderBy))
		}
		return sb.String()
	}
	size := s.Page.Size
	number := s.Page.Number
	if number < 1 {
		number = 1
	}
	first := (number-1)*size + 1
	last := number * size
	return fmt.Sprintf("SELECT * FROM (%s) AS _paged WHERE %s BETWEEN %s AND %s ORDER BY %s",
		sb.String(), RowNumberColumn, r.param(first), r.param(last), RowNumberColumn)
}

func (r *renderer) column(c Column) string {
	expr := r.ref(c.Ref)
	if c.Fallback != "" {
		expr = fmt.Sprintf("COALESCE(%s.%s, %s)", c.Fallback, r.d.Quote(c.Name), expr)
	}
	alias := c.Alias
	if alias == "" {
		alias = c.Name
	}
	return expr + " AS " + r.d.Quote(alias)
}

func (r *renderer) source(s Source) string {
	var out string
	if s.Raw != "" {
		out = "(" + s.Raw + ")"
	} else {
		out = r.d.Table(s.Schema, s.Table)
	}
	if s.AsOf != nil && r.d.SupportsTemporal() {
		out += " " + r.d.AsOf(r.param(*s.AsOf))
	}
	if s.Alias != "" {
		out += " AS " + s.Alias
	}
	return out
}

func (r *renderer) join(j Join) string {
	kind := " INNER JOIN "
	if j.Kind == LeftJoin {
		kind = " LEFT JOIN "
	}
	var conds []string
	for _, on := range j.On {
		conds = append(conds, fmt.Sprintf("%s = %s", r.ref(on.Left), r.ref(on.Right)))
	}
	src := r.source(j.Source)
	for _, w := range j.Where {
		conds = append(conds, w.render(r))
	}
	return kind + src + " ON " + strings.Join(conds, " AND ")
}

func (r *renderer) conditions(cs []Condition, sep string) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.render(r)
	}
	return strings.Join(parts, sep)
}

func (r *renderer) orderList(orders []Order) string {
	if len(orders) == 0 {
		return "(SELECT NULL)"
	}
	parts := make([]string, len(orders))
	for i, o := range orders {
		parts[i] = r.ref(o.Column)
		if o.Descending {
			parts[i] += " DESC"
		}
	}
	return strings.Join(parts, ", ")
}

func (p Predicate) render(r *renderer) string {
	col := r.ref(p.Column)
	switch p.Comparer {
	case Equal:
		if isNil(p.value()) {
			return col + " IS NULL"
		}
		return fmt.Sprintf("%s = %s", col, r.param(p.value()))
	case NotEqual:
		if isNil(p.value()) {
			return col + " IS NOT NULL"
		}
		return fmt.Sprintf("%s <> %s", col, r.param(p.value()))
	case In, NotIn:
		if len(p.Values) == 0 {
			if p.Comparer == In {
				return "1 = 0"
			}
			return "1 = 1"
		}
		params := make([]string, len(p.Values))
		for i, v := range p.Values {
			params[i] = r.param(v)
		}
		op := "IN"
		if p.Comparer == NotIn {
			op = "NOT IN"
		}
		return fmt.Sprintf("%s %s (%s)", col, op, strings.Join(params, ", "))
	case IsNull:
		return col + " IS NULL"
	case IsNotNull:
		return col + " IS NOT NULL"
	case StartsWith:
		return r.like(col, r.likeTerm(p.value())+"%")
	case EndsWith:
		return r.like(col, "%"+r.likeTerm(p.value()))
	case Contains:
		return r.like(col, "%"+r.likeTerm(p.value())+"%")
	case InSelect:
		return fmt.Sprintf("%s IN (%s)", col, r.selectStmt(*p.Sub))
	}
	panic(fmt.Sprintf("query: unknown comparer %d", p.Comparer))
}

func (p Predicate) value() any {
	if len(p.Values) == 0 {
		return nil
	}
	return p.Values[0]
}

// isNil reports nil and nil pointers; comparing them with = never matches.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func (a Any) render(r *renderer) string {
	if len(a) == 0 {
		return "1 = 0"
	}
	return "(" + r.conditions(a, " OR ") + ")"
}

// LikeEscape is the escape character of rendered LIKE patterns.
const LikeEscape = `\`

func (r *renderer) like(col, pattern string) string {
	return fmt.Sprintf("%s %s %s ESCAPE '%s'", col, r.d.Like(), r.param(pattern), LikeEscape)
}

// likeTerm escapes the wildcards of v so that it matches literally. SQL
// Server also treats brackets as a character class.
func (r *renderer) likeTerm(v any) string {
	specials := LikeEscape + "%_"
	if r.d.Name() == dialect.MSSQL {
		specials += "["
	}
	term := fmt.Sprint(v)
	var sb strings.Builder
	for _, c := range term {
		if strings.ContainsRune(specials, c) {
			sb.WriteString(LikeEscape)
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

// Package repository reads and writes registered definitions. Repository is
// the basic per-type access, ExtendedRepository adds joined relations and
// CrossRepository walks many-to-many junctions.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Altinn/altinn-authorization-tmp-sub012/database"
	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
	"github.com/Altinn/altinn-authorization-tmp-sub012/query"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUnknownProperty     = errors.New("unknown property")
	ErrReadOnly            = errors.New("definition is read-only")
	ErrNoIdentity          = errors.New("definition has no single-column primary key")
	ErrNotSearchable       = errors.New("definition has no searchable properties")
	ErrTranslationDisabled = errors.New("translation is not enabled")
)

// DecodeError is a result set that could not be mapped onto its type.
type DecodeError struct {
	Query string
	Err   error
}

func (e *DecodeError) Error() string { return "decoding result: " + e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

type Settings struct {
	Schema            string
	TranslationSchema string
}

// Store is shared by every repository of one database.
type Store struct {
	conn     database.Conn
	d        dialect.Dialect
	reg      *schema.Registry
	log      *zap.SugaredLogger
	settings Settings
}

func NewStore(conn database.Conn, d dialect.Dialect, reg *schema.Registry, log *zap.SugaredLogger, settings Settings) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if settings.Schema == "" {
		settings.Schema = "dbo"
	}
	if settings.TranslationSchema == "" {
		settings.TranslationSchema = "translation"
	}
	return &Store{conn: conn, d: d, reg: reg, log: log, settings: settings}
}

func (s *Store) Registry() *schema.Registry { return s.reg }

func (s *Store) source(def *schema.DbDefinition, alias string, opts RequestOptions) (query.Source, error) {
	src := query.Source{Schema: s.settings.Schema, Table: def.ModelType, Alias: alias}
	if def.DefinitionType == schema.Query {
		src = query.Source{Raw: def.Query(dialect.NewSQLContext(s.d, s.settings.Schema)), Alias: alias}
	}
	if opts.AsOf != nil {
		if !s.d.SupportsTemporal() {
			return query.Source{}, dialect.ErrTemporalUnsupported
		}
		if def.EnableAudit {
			src.AsOf = opts.AsOf
		}
	}
	return src, nil
}

// project selects every column of def read through alias. Column aliases
// get prefix. When a language is requested, translatable columns fall back
// from the translation row to the base row.
func (s *Store) project(def *schema.DbDefinition, alias, prefix string, opts RequestOptions) ([]query.Column, []query.Join) {
	translate := def.EnableTranslation && opts.Language != ""
	ta := alias + "T"
	cols := make([]query.Column, 0, len(def.Properties))
	for _, p := range def.Properties {
		c := query.Column{Ref: query.Ref{Source: alias, Name: p.Name}}
		if prefix != "" {
			c.Alias = prefix + p.Name
		}
		if translate && p.Kind == schema.KindString && !def.IsKey(p.Name) {
			c.Fallback = ta
		}
		cols = append(cols, c)
	}
	if !translate {
		return cols, nil
	}
	j := query.Join{
		Kind:   query.LeftJoin,
		Source: query.Source{Schema: s.settings.TranslationSchema, Table: def.ModelType, Alias: ta},
		Where: []query.Condition{query.Predicate{
			Column:   query.Ref{Source: ta, Name: schema.LanguageProperty.Name},
			Comparer: query.Equal,
			Values:   []any{opts.Language},
		}},
	}
	for _, k := range def.PrimaryKey().Properties {
		j.On = append(j.On, query.On{Left: query.Ref{Source: ta, Name: k}, Right: query.Ref{Source: alias, Name: k}})
	}
	return cols, []query.Join{j}
}

func (s *Store) order(def *schema.DbDefinition, alias string, opts RequestOptions) ([]query.Order, error) {
	if opts.OrderBy != "" {
		p, ok := def.PropertyFold(opts.OrderBy)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownProperty, def.ModelType, opts.OrderBy)
		}
		return []query.Order{{Column: query.Ref{Source: alias, Name: p.Name}, Descending: opts.OrderDescending}}, nil
	}
	if pk := def.PrimaryKey(); pk != nil {
		out := make([]query.Order, len(pk.Properties))
		for i, k := range pk.Properties {
			out[i] = query.Order{Column: query.Ref{Source: alias, Name: k}}
		}
		return out, nil
	}
	if len(def.Properties) > 0 {
		return []query.Order{{Column: query.Ref{Source: alias, Name: def.Properties[0].Name}}}, nil
	}
	return nil, nil
}

// selectFor builds the read of def filtered by filter and extra.
func (s *Store) selectFor(def *schema.DbDefinition, filter *Filter, extra []query.Condition, opts RequestOptions) (query.Select, error) {
	const alias = "T"
	src, err := s.source(def, alias, opts)
	if err != nil {
		return query.Select{}, err
	}
	cols, joins := s.project(def, alias, "", opts)
	where, err := filter.conditions(def, alias)
	if err != nil {
		return query.Select{}, err
	}
	orders, err := s.order(def, alias, opts)
	if err != nil {
		return query.Select{}, err
	}
	sel := query.Select{
		Columns: cols,
		From:    src,
		Joins:   joins,
		Where:   append(where, extra...),
		OrderBy: orders,
	}
	if opts.UsePaging {
		sel.Page = &query.Page{Number: opts.PageNumber, Size: opts.PageSize}
	}
	return sel, nil
}

// fetch runs sel and returns its rows with lower-cased keys, and the text
// that was executed.
func (s *Store) fetch(ctx context.Context, sel query.Select) ([]map[string]any, string, error) {
	text, args := query.Render(s.d, sel)
	text = s.d.WrapResult(text)
	s.log.Debugw("executing query", "sql", text, "args", len(args))

	rows, err := s.conn.Query(ctx, text, args...)
	if err != nil {
		return nil, text, fmt.Errorf("executing query: %w", err)
	}
	rows, err = s.d.DecodeRows(rows)
	if err != nil {
		s.log.Errorw("failed to decode result", "sql", text, "error", err)
		return nil, text, &DecodeError{Query: text, Err: err}
	}
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		lower := make(map[string]any, len(row))
		for k, v := range row {
			lower[strings.ToLower(k)] = v
		}
		out[i] = lower
	}
	return out, text, nil
}

// unflatten nests the columns of def found in row under their struct path.
func unflatten(def *schema.DbDefinition, row map[string]any, prefix string) map[string]any {
	out := map[string]any{}
	for _, p := range def.Properties {
		path := p.Path
		if len(path) == 0 {
			path = []string{p.Name}
		}
		setPath(out, path, row[strings.ToLower(prefix+p.Name)])
	}
	return out
}

func setPath(m map[string]any, path []string, v any) {
	for _, key := range path[:len(path)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[key] = next
		}
		m = next
	}
	m[path[len(path)-1]] = v
}

// page returns the page information of rows read by sel. A page past the end
// has no total of its own; the first row of the result supplies it.
func (s *Store) page(ctx context.Context, sel query.Select, rows []map[string]any, opts RequestOptions) (PageInfo, error) {
	if !opts.UsePaging || len(rows) > 0 || opts.PageNumber <= 1 {
		return pageInfo(rows, opts), nil
	}
	sel.Page = &query.Page{Number: 1, Size: 1}
	first, _, err := s.fetch(ctx, sel)
	if err != nil {
		return PageInfo{}, err
	}
	info := pageInfo(first, opts)
	info.PageNumber = opts.PageNumber
	return info, nil
}

func pageInfo(rows []map[string]any, opts RequestOptions) PageInfo {
	if !opts.UsePaging {
		info := PageInfo{PageNumber: 1, PageSize: len(rows), ItemCount: int64(len(rows))}
		if len(rows) > 0 {
			info.PageCount = 1
		}
		return info
	}
	info := PageInfo{PageNumber: opts.PageNumber, PageSize: opts.PageSize}
	if len(rows) > 0 {
		info.ItemCount = asInt64(rows[0][query.TotalColumn])
	}
	size := int64(opts.PageSize)
	info.PageCount = (info.ItemCount + size - 1) / size
	return info
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	case []byte:
		i, _ := strconv.ParseInt(string(n), 10, 64)
		return i
	}
	return 0
}

func decodeAll[T any](maps []map[string]any, text string) ([]T, error) {
	out := make([]T, 0, len(maps))
	if len(maps) == 0 {
		return out, nil
	}
	if err := database.Decode(maps, &out); err != nil {
		return nil, &DecodeError{Query: text, Err: err}
	}
	return out, nil
}

// keyOf normalizes a key value so rows from different drivers group alike.
func keyOf(v any) string {
	switch k := v.(type) {
	case nil:
		return ""
	case [16]byte:
		return strings.ToLower(uuid.UUID(k).String())
	case []byte:
		if len(k) == 16 {
			var b [16]byte
			copy(b[:], k)
			return strings.ToLower(uuid.UUID(b).String())
		}
		return strings.ToLower(string(k))
	}
	return strings.ToLower(fmt.Sprint(v))
}

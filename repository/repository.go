package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Altinn/altinn-authorization-tmp-sub012/database"
	"github.com/Altinn/altinn-authorization-tmp-sub012/query"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

// Repository is the basic read and write access to one definition.
type Repository[T schema.Entity] struct {
	s   *Store
	def *schema.DbDefinition
}

func NewRepository[T schema.Entity](s *Store) (*Repository[T], error) {
	def, err := schema.Lookup[T](s.reg)
	if err != nil {
		return nil, err
	}
	return &Repository[T]{s: s, def: def}, nil
}

func (r *Repository[T]) Definition() *schema.DbDefinition { return r.def }

// Get returns every row matching filter. A nil filter matches all rows.
func (r *Repository[T]) Get(ctx context.Context, filter *Filter, opts *RequestOptions) ([]T, error) {
	res, err := r.Query(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

// GetBy returns the rows whose property equals value.
func (r *Repository[T]) GetBy(ctx context.Context, property string, value any, opts *RequestOptions) ([]T, error) {
	return r.Get(ctx, NewFilter().Equal(property, value), opts)
}

// GetByID returns the row identified by id, or ErrNotFound.
func (r *Repository[T]) GetByID(ctx context.Context, id any, opts *RequestOptions) (*T, error) {
	col := r.def.IdentityColumn()
	if col == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoIdentity, r.def.ModelType)
	}
	rows, err := r.GetBy(ctx, col, id, opts)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s %v: %w", r.def.ModelType, id, ErrNotFound)
	}
	return &rows[0], nil
}

// Query is Get with page information. Without paging the whole result is
// one page. A page past the end has no rows but still reports the total.
func (r *Repository[T]) Query(ctx context.Context, filter *Filter, opts *RequestOptions) (*QueryResponse[T], error) {
	return r.read(ctx, filter, nil, opts.orDefault())
}

// Search matches term against every searchable column, translated ones
// included when a language is requested.
func (r *Repository[T]) Search(ctx context.Context, term string, opts *RequestOptions) (*QueryResponse[T], error) {
	o := opts.orDefault()
	props := r.def.StringProperties()
	if len(props) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotSearchable, r.def.ModelType)
	}
	var matches query.Any
	for _, p := range props {
		matches = append(matches, query.Predicate{Column: query.Ref{Source: "T", Name: p.Name}, Comparer: query.Contains, Values: []any{term}})
		if r.def.EnableTranslation && o.Language != "" {
			matches = append(matches, query.Predicate{Column: query.Ref{Source: "TT", Name: p.Name}, Comparer: query.Contains, Values: []any{term}})
		}
	}
	return r.read(ctx, nil, []query.Condition{matches}, o)
}

func (r *Repository[T]) read(ctx context.Context, filter *Filter, extra []query.Condition, opts RequestOptions) (*QueryResponse[T], error) {
	sel, err := r.s.selectFor(r.def, filter, extra, opts)
	if err != nil {
		return nil, err
	}
	rows, text, err := r.s.fetch(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.def.ModelType, err)
	}
	maps := make([]map[string]any, len(rows))
	for i, row := range rows {
		maps[i] = unflatten(r.def, row, "")
	}
	data, err := decodeAll[T](maps, text)
	if err != nil {
		r.s.log.Errorw("failed to decode rows", "type", r.def.ModelType, "sql", text, "error", err)
		return nil, err
	}
	page, err := r.s.page(ctx, sel, rows, opts)
	if err != nil {
		return nil, fmt.Errorf("counting %s: %w", r.def.ModelType, err)
	}
	return &QueryResponse[T]{Data: data, Page: page}, nil
}

func (r *Repository[T]) writable() error {
	if r.def.DefinitionType != schema.Table {
		return fmt.Errorf("%w: %s is a %s", ErrReadOnly, r.def.ModelType, r.def.DefinitionType)
	}
	return nil
}

func (r *Repository[T]) table() string {
	return r.s.d.Table(r.s.settings.Schema, r.def.ModelType)
}

func (r *Repository[T]) translationTable() string {
	return r.s.d.Table(r.s.settings.TranslationSchema, r.def.ModelType)
}

func (r *Repository[T]) columns(props []schema.DbProperty) ([]string, []string) {
	names := make([]string, len(props))
	quoted := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
		quoted[i] = r.s.d.Quote(p.Name)
	}
	return names, quoted
}

func (r *Repository[T]) placeholders(from, n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = r.s.d.Placeholder(from + i)
	}
	return strings.Join(out, ", ")
}

func (r *Repository[T]) exec(ctx context.Context, op, stmt string, args ...any) (int64, error) {
	r.s.log.Debugw("executing statement", "type", r.def.ModelType, "op", op, "sql", stmt)
	n, err := r.s.conn.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", op, r.def.ModelType, err)
	}
	return n, nil
}

// Create inserts e and returns the number of affected rows.
func (r *Repository[T]) Create(ctx context.Context, e T) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	names, quoted := r.columns(r.def.Properties)
	values := e.DBValues()
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = values[n]
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", r.table(), strings.Join(quoted, ", "), r.placeholders(1, len(names)))
	return r.exec(ctx, "create", stmt, args...)
}

// Update overwrites every non-key column of the row identified by id.
func (r *Repository[T]) Update(ctx context.Context, id any, e T) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	identity := r.def.IdentityColumn()
	if identity == "" {
		return 0, fmt.Errorf("%w: %s", ErrNoIdentity, r.def.ModelType)
	}
	values := e.DBValues()
	var sets []string
	var args []any
	for _, p := range r.def.Properties {
		if r.def.IsKey(p.Name) {
			continue
		}
		args = append(args, values[p.Name])
		sets = append(sets, fmt.Sprintf("%s = %s", r.s.d.Quote(p.Name), r.s.d.Placeholder(len(args))))
	}
	args = append(args, id)
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		r.table(), strings.Join(sets, ", "), r.s.d.Quote(identity), r.s.d.Placeholder(len(args)))
	return r.exec(ctx, "update", stmt, args...)
}

// Upsert inserts e or updates the row with the same primary key.
func (r *Repository[T]) Upsert(ctx context.Context, e T) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	names, _ := r.columns(r.def.Properties)
	values := e.DBValues()
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = values[n]
	}
	stmt := r.s.d.Upsert(r.s.settings.Schema, r.def.ModelType, names, r.def.PrimaryKey().Properties)
	return r.exec(ctx, "upsert", stmt, args...)
}

// Delete removes the row identified by id together with its translations.
func (r *Repository[T]) Delete(ctx context.Context, id any) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	identity := r.def.IdentityColumn()
	if identity == "" {
		return 0, fmt.Errorf("%w: %s", ErrNoIdentity, r.def.ModelType)
	}
	if r.def.EnableTranslation {
		stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", r.translationTable(), r.s.d.Quote(identity), r.s.d.Placeholder(1))
		if _, err := r.exec(ctx, "delete translations of", stmt, id); err != nil {
			return 0, err
		}
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = %s", r.table(), r.s.d.Quote(identity), r.s.d.Placeholder(1))
	return r.exec(ctx, "delete", stmt, id)
}

func (r *Repository[T]) translationValues(e T, language string) ([]schema.DbProperty, []any, error) {
	if !r.def.EnableTranslation {
		return nil, nil, fmt.Errorf("%w: %s", ErrTranslationDisabled, r.def.ModelType)
	}
	if language == "" {
		return nil, nil, fmt.Errorf("translation of %s needs a language", r.def.ModelType)
	}
	values := e.DBValues()
	var props []schema.DbProperty
	var args []any
	for _, k := range r.def.PrimaryKey().Properties {
		p, _ := r.def.Property(k)
		props = append(props, p)
		args = append(args, values[k])
	}
	props = append(props, schema.LanguageProperty)
	args = append(args, language)
	// An empty value stays NULL so reads fall back to the base row.
	for _, p := range r.def.StringProperties() {
		props = append(props, p)
		if v, ok := values[p.Name].(string); ok && v == "" {
			args = append(args, nil)
			continue
		}
		args = append(args, values[p.Name])
	}
	return props, args, nil
}

// CreateTranslation stores the string columns of e as the language variant
// of the row with the same key.
func (r *Repository[T]) CreateTranslation(ctx context.Context, e T, language string) (int64, error) {
	props, args, err := r.translationValues(e, language)
	if err != nil {
		return 0, err
	}
	_, quoted := r.columns(props)
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", r.translationTable(), strings.Join(quoted, ", "), r.placeholders(1, len(props)))
	return r.exec(ctx, "create translation of", stmt, args...)
}

func (r *Repository[T]) UpdateTranslation(ctx context.Context, e T, language string) (int64, error) {
	props, args, err := r.translationValues(e, language)
	if err != nil {
		return 0, err
	}
	keys := len(r.def.PrimaryKey().Properties) + 1
	var sets, where []string
	var ordered []any
	for i, p := range props[keys:] {
		ordered = append(ordered, args[keys+i])
		sets = append(sets, fmt.Sprintf("%s = %s", r.s.d.Quote(p.Name), r.s.d.Placeholder(len(ordered))))
	}
	for i, p := range props[:keys] {
		ordered = append(ordered, args[i])
		where = append(where, fmt.Sprintf("%s = %s", r.s.d.Quote(p.Name), r.s.d.Placeholder(len(ordered))))
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s", r.translationTable(), strings.Join(sets, ", "), strings.Join(where, " AND "))
	return r.exec(ctx, "update translation of", stmt, ordered...)
}

// Ingest bulk loads batch with the backend's copy protocol.
func (r *Repository[T]) Ingest(ctx context.Context, batch []T) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	if len(batch) == 0 {
		return 0, nil
	}
	names, _ := r.columns(r.def.Properties)
	rows := make([][]any, len(batch))
	for i, e := range batch {
		values := e.DBValues()
		row := make([]any, len(names))
		for j, n := range names {
			row[j] = values[n]
		}
		rows[i] = row
	}
	target := database.CopyTarget{Schema: r.s.settings.Schema, Table: r.def.ModelType, Columns: names}
	n, err := r.s.conn.CopyFrom(ctx, target, rows)
	if err != nil {
		return 0, fmt.Errorf("ingest %s: %w", r.def.ModelType, err)
	}
	r.s.log.Infow("ingested rows", "type", r.def.ModelType, "rows", n)
	return n, nil
}

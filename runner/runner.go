// Package runner applies definitions to a live database. Every operation is
// journaled by (object, key, collection) and runs at most once per database.
//
// An Engine keeps its journal in memory without locking. Run migrations from
// a single goroutine in a single instance, or behind an external lock,
// before serving traffic.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Altinn/altinn-authorization-tmp-sub012/database"
	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
	"github.com/Altinn/altinn-authorization-tmp-sub012/diff"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

type State int

const (
	Uninitialized State = iota
	Initializing
	Ready
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	}
	return "uninitialized"
}

// ErrNotReady is returned by operations invoked before Init.
var ErrNotReady = errors.New("runner: engine is not initialized")

// MigrationError is a failed DDL statement. It aborts the run.
type MigrationError struct {
	Key    string
	Script string
	Err    error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %q failed: %v", e.Key, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

// ReferenceError is an operation naming a property or type that does not
// exist. Migrate logs it and skips only that operation.
type ReferenceError struct {
	Type     string
	Property string
	Reason   string
}

func (e *ReferenceError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("%s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("%s.%s: %s", e.Type, e.Property, e.Reason)
}

type Options struct {
	Schema            string
	TranslationSchema string
	HistorySchema     string
	CollectionId      string
	// DryRun renders scripts without executing or journaling them.
	DryRun bool
}

type Engine struct {
	conn database.Conn
	d    dialect.Dialect
	reg  *schema.Registry
	log  *zap.SugaredLogger
	opts Options

	state   State
	journal map[journalKey]JournalEntry
	entries []JournalEntry
	applied []string
	now     func() time.Time
}

func New(conn database.Conn, d dialect.Dialect, reg *schema.Registry, log *zap.SugaredLogger, opts Options) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if opts.Schema == "" {
		opts.Schema = "dbo"
	}
	if opts.TranslationSchema == "" {
		opts.TranslationSchema = "translation"
	}
	if opts.HistorySchema == "" {
		opts.HistorySchema = "history"
	}
	return &Engine{
		conn:    conn,
		d:       d,
		reg:     reg,
		log:     log.With("collection", opts.CollectionId, "dialect", d.Name()),
		opts:    opts,
		journal: map[journalKey]JournalEntry{},
		now:     time.Now,
	}
}

func (e *Engine) State() State { return e.state }

// Journal returns the entries known to this engine, oldest first.
func (e *Engine) Journal() []JournalEntry {
	return append([]JournalEntry(nil), e.entries...)
}

// Applied returns the scripts executed, or previewed in a dry run, by this
// engine.
func (e *Engine) Applied() []string {
	return append([]string(nil), e.applied...)
}

// Init creates the journal when needed and loads it. Calling Init again is
// a no-op.
func (e *Engine) Init(ctx context.Context) error {
	if e.state == Ready {
		return nil
	}
	if e.opts.CollectionId == "" {
		return fmt.Errorf("runner: collection id is required")
	}
	e.state = Initializing
	exists, err := e.ensureJournal(ctx)
	if err != nil {
		e.state = Uninitialized
		return err
	}
	if exists {
		e.loadJournal(ctx)
	}
	e.state = Ready
	return nil
}

// Migrate applies the full plan of the registry. Operations with invalid
// references are logged and skipped; a failing statement stops the run.
func (e *Engine) Migrate(ctx context.Context) error {
	if err := e.Init(ctx); err != nil {
		return err
	}
	plan, err := e.Plan()
	if err != nil {
		return err
	}
	e.reg.LogWarnings(e.log)

	before := len(e.applied)
	for _, op := range plan {
		err := e.Apply(ctx, op)
		var refErr *ReferenceError
		if errors.As(err, &refErr) {
			e.log.Errorw("skipping migration", "key", op.Key(), "error", err)
			continue
		}
		if err != nil {
			return err
		}
	}
	e.log.Infow("migration complete", "executed", len(e.applied)-before, "planned", len(plan))
	return nil
}

func (e *Engine) Plan() ([]diff.Operation, error) {
	return diff.Plan(e.reg, diff.PlanOptions{
		Schema:            e.opts.Schema,
		TranslationSchema: e.opts.TranslationSchema,
		HistorySchema:     e.opts.HistorySchema,
		Temporal:          e.d.SupportsTemporal(),
	})
}

// Pending returns the planned operations not yet in the journal.
func (e *Engine) Pending(ctx context.Context) ([]diff.Operation, error) {
	if err := e.Init(ctx); err != nil {
		return nil, err
	}
	plan, err := e.Plan()
	if err != nil {
		return nil, err
	}
	var pending []diff.Operation
	for _, op := range plan {
		if !e.done(op) && !e.unsupported(op) {
			pending = append(pending, op)
		}
	}
	return pending, nil
}

// unsupported reports operations the backend turns into no statement at all;
// they never reach the journal.
func (e *Engine) unsupported(op diff.Operation) bool {
	switch op.Type {
	case diff.CreateSchema:
		return e.d.CreateSchema(op.Schema) == ""
	case diff.AddForeignKey:
		return !e.d.SupportsForeignKeys()
	}
	return false
}

// Apply runs one planned operation.
func (e *Engine) Apply(ctx context.Context, op diff.Operation) error {
	switch op.Type {
	case diff.CreateSchema:
		return e.CreateSchema(ctx, op.Schema)
	case diff.CreateTable:
		if op.Translation {
			return e.CreateTranslationTable(ctx, op.Definition)
		}
		return e.CreateTable(ctx, op.Definition)
	case diff.AddColumn:
		if op.Translation {
			return e.CreateTranslationColumn(ctx, op.Definition, op.Property.Name)
		}
		return e.CreateColumn(ctx, op.Definition, op.Property.Name)
	case diff.AddUniqueConstraint:
		return e.CreateUniqueConstraint(ctx, op.Definition, *op.Constraint)
	case diff.AddForeignKey:
		return e.createForeignKey(ctx, op.Definition, *op.Relation)
	case diff.CreateView:
		return e.CreateView(ctx, op.Definition)
	case diff.CreateFunction:
		return e.CreateFunction(ctx, op.Schema, op.Name, op.Script)
	}
	return fmt.Errorf("unsupported operation: %s", op.Type)
}

// run executes op unless the journal has it. Included operations are
// journaled alongside op without scripts of their own.
func (e *Engine) run(ctx context.Context, op diff.Operation, scripts []string, included ...diff.Operation) error {
	if e.state != Ready {
		return ErrNotReady
	}
	if e.done(op) {
		e.log.Debugw("already applied", "key", op.Key())
		return nil
	}
	script := strings.Join(scripts, ";\n")
	if !e.opts.DryRun {
		for _, stmt := range scripts {
			if _, err := e.conn.Exec(ctx, stmt); err != nil {
				e.log.Errorw("migration failed", "key", op.Key(), "script", stmt, "error", err)
				return &MigrationError{Key: op.Key(), Script: stmt, Err: err}
			}
		}
	}
	e.applied = append(e.applied, script)
	if err := e.record(ctx, op, script, StatusApplied); err != nil {
		return err
	}
	for _, inc := range included {
		if e.done(inc) {
			continue
		}
		if err := e.record(ctx, inc, "", StatusIncluded); err != nil {
			return err
		}
	}
	e.log.Infow("applied", "key", op.Key())
	return nil
}

// skip journals op without running anything so that the warning is only
// reported once per database.
func (e *Engine) skip(ctx context.Context, op diff.Operation, warning string) error {
	if e.state != Ready {
		return ErrNotReady
	}
	if e.done(op) {
		return nil
	}
	e.log.Warnw(warning, "key", op.Key())
	return e.record(ctx, op, "", StatusIncluded)
}

func (e *Engine) CreateSchema(ctx context.Context, name string) error {
	stmt := e.d.CreateSchema(name)
	if stmt == "" {
		return nil
	}
	return e.run(ctx, diff.Operation{Type: diff.CreateSchema, Schema: name}, []string{stmt})
}

// CreateTable creates the table of def with every property known at this
// point. Later properties are added by CreateColumn. A history request on a
// backend without system versioning yields a plain table and a warning.
func (e *Engine) CreateTable(ctx context.Context, def *schema.DbDefinition) error {
	if def.DefinitionType != schema.Table {
		return &ReferenceError{Type: def.ModelType, Reason: fmt.Sprintf("%s is not a table", def.DefinitionType)}
	}
	op := diff.Operation{Type: diff.CreateTable, Schema: e.opts.Schema, Definition: def}
	if e.done(op) {
		return nil
	}
	temporal := def.EnableAudit
	if temporal && !e.d.SupportsTemporal() {
		e.log.Warnw("history tables are not supported by this backend, creating a plain table",
			"type", def.ModelType, "dialect", e.d.Name())
		temporal = false
	}
	stmt := e.d.CreateTable(dialect.TableSpec{
		Schema:        e.opts.Schema,
		Name:          def.ModelType,
		Columns:       def.Properties,
		PrimaryKey:    def.PrimaryKey(),
		Temporal:      temporal,
		HistorySchema: e.opts.HistorySchema,
	})
	var included []diff.Operation
	for i := range def.Properties {
		included = append(included, diff.Operation{Type: diff.AddColumn, Schema: e.opts.Schema, Definition: def, Property: &def.Properties[i]})
	}
	return e.run(ctx, op, []string{stmt}, included...)
}

// CreateTranslationTable creates the shadow table holding per-language
// values of the string columns of def, keyed by its primary key and
// Language.
func (e *Engine) CreateTranslationTable(ctx context.Context, def *schema.DbDefinition) error {
	if !def.EnableTranslation {
		return &ReferenceError{Type: def.ModelType, Reason: "translation is not enabled"}
	}
	op := diff.Operation{Type: diff.CreateTable, Schema: e.opts.TranslationSchema, Definition: def, Translation: true}
	if e.done(op) {
		return nil
	}
	pk := def.PrimaryKey()
	var columns []schema.DbProperty
	for _, name := range pk.Properties {
		p, _ := def.Property(name)
		p.Nullable = false
		p.Default = nil
		columns = append(columns, p)
	}
	columns = append(columns, schema.LanguageProperty)
	var included []diff.Operation
	for _, p := range def.StringProperties() {
		p := translationColumn(p)
		columns = append(columns, p)
		included = append(included, diff.Operation{Type: diff.AddColumn, Schema: e.opts.TranslationSchema, Definition: def, Property: &p, Translation: true})
	}
	stmt := e.d.CreateTable(dialect.TableSpec{
		Schema:  e.opts.TranslationSchema,
		Name:    def.ModelType,
		Columns: columns,
		PrimaryKey: &schema.DbConstraint{
			Name:         pk.Name,
			IsPrimaryKey: true,
			Properties:   append(append([]string(nil), pk.Properties...), schema.LanguageProperty.Name),
		},
	})
	return e.run(ctx, op, []string{stmt}, included...)
}

func translationColumn(p schema.DbProperty) schema.DbProperty {
	p.Nullable = true
	p.Default = nil
	return p
}

// CreateColumn adds property name to the table of def. Adding a NOT NULL
// column without a default fails on populated tables, so it is warned about.
func (e *Engine) CreateColumn(ctx context.Context, def *schema.DbDefinition, name string) error {
	p, ok := def.Property(name)
	if !ok {
		return &ReferenceError{Type: def.ModelType, Property: name, Reason: "no such property"}
	}
	op := diff.Operation{Type: diff.AddColumn, Schema: e.opts.Schema, Definition: def, Property: &p}
	if e.done(op) {
		return nil
	}
	if !p.Nullable && p.Default == nil {
		e.log.Warnw("adding NOT NULL column without default; this fails if the table has rows",
			"type", def.ModelType, "column", p.Name)
	}
	return e.run(ctx, op, []string{e.d.AddColumn(e.opts.Schema, def.ModelType, p)})
}

func (e *Engine) CreateTranslationColumn(ctx context.Context, def *schema.DbDefinition, name string) error {
	p, ok := def.Property(name)
	if !ok || p.Kind != schema.KindString {
		return &ReferenceError{Type: def.ModelType, Property: name, Reason: "no such string property"}
	}
	p = translationColumn(p)
	op := diff.Operation{Type: diff.AddColumn, Schema: e.opts.TranslationSchema, Definition: def, Property: &p, Translation: true}
	return e.run(ctx, op, []string{e.d.AddColumn(e.opts.TranslationSchema, def.ModelType, p)})
}

func (e *Engine) CreateUniqueConstraint(ctx context.Context, def *schema.DbDefinition, c schema.DbConstraint) error {
	for _, name := range append(append([]string(nil), c.Properties...), c.Include...) {
		if _, ok := def.Property(name); !ok {
			return &ReferenceError{Type: def.ModelType, Property: name, Reason: "no such property"}
		}
	}
	op := diff.Operation{Type: diff.AddUniqueConstraint, Schema: e.opts.Schema, Definition: def, Constraint: &c}
	return e.run(ctx, op, []string{e.d.AddUnique(dialect.UniqueSpec{
		Schema:  e.opts.Schema,
		Table:   def.ModelType,
		Name:    c.Name,
		Columns: c.Properties,
		Include: c.Include,
	})})
}

// CreateForeignKeyConstraint adds FK_{Type}_{property} from source.property
// to the primary key of target.
func (e *Engine) CreateForeignKeyConstraint(ctx context.Context, source, target *schema.DbDefinition, property string, cascade bool) error {
	identity := target.IdentityColumn()
	if identity == "" {
		return &ReferenceError{Type: target.ModelType, Reason: "foreign keys need a single column primary key"}
	}
	return e.createForeignKey(ctx, source, schema.DbRelation{
		Base:          source.ModelType,
		BaseProperty:  property,
		Ref:           target.ModelType,
		RefProperty:   identity,
		CascadeDelete: cascade,
	})
}

func (e *Engine) createForeignKey(ctx context.Context, source *schema.DbDefinition, rel schema.DbRelation) error {
	if _, ok := source.Property(rel.BaseProperty); !ok {
		return &ReferenceError{Type: source.ModelType, Property: rel.BaseProperty, Reason: "no such property"}
	}
	target, ok := e.reg.Get(rel.Ref)
	if !ok {
		return &ReferenceError{Type: rel.Ref, Reason: "not registered"}
	}
	if _, ok := target.Property(rel.RefProperty); !ok {
		return &ReferenceError{Type: target.ModelType, Property: rel.RefProperty, Reason: "no such property"}
	}
	if target.DefinitionType != schema.Table || !target.IsKey(rel.RefProperty) || target.IdentityColumn() == "" {
		return &ReferenceError{Type: target.ModelType, Property: rel.RefProperty, Reason: "foreign keys must reference a single column primary key"}
	}
	op := diff.Operation{Type: diff.AddForeignKey, Schema: e.opts.Schema, Definition: source, Relation: &rel}
	if !e.d.SupportsForeignKeys() {
		return e.skip(ctx, op, "foreign keys are not supported by this backend, skipping")
	}
	return e.run(ctx, op, []string{e.d.AddForeignKey(dialect.ForeignKeySpec{
		Schema:    e.opts.Schema,
		Table:     source.ModelType,
		Name:      schema.ForeignKeyName(source.ModelType, rel.BaseProperty),
		Column:    rel.BaseProperty,
		RefSchema: e.opts.Schema,
		RefTable:  target.ModelType,
		RefColumn: rel.RefProperty,
		Cascade:   rel.CascadeDelete,
	})})
}

// CreateFunction runs script once per schema.name.
func (e *Engine) CreateFunction(ctx context.Context, schemaName, name, script string) error {
	if schemaName == "" {
		schemaName = e.opts.Schema
	}
	if strings.TrimSpace(script) == "" {
		return &ReferenceError{Type: schemaName, Property: name, Reason: "empty function script"}
	}
	op := diff.Operation{Type: diff.CreateFunction, Schema: schemaName, Name: name, Script: script}
	return e.run(ctx, op, []string{script})
}

// CreateView (re)creates a view. The key carries the definition version, so
// bumping the version recreates it.
func (e *Engine) CreateView(ctx context.Context, def *schema.DbDefinition) error {
	if def.DefinitionType != schema.View {
		return &ReferenceError{Type: def.ModelType, Reason: "not a view"}
	}
	op := diff.Operation{Type: diff.CreateView, Schema: e.opts.Schema, Definition: def}
	if e.done(op) {
		return nil
	}
	body := def.Query(dialect.NewSQLContext(e.d, e.opts.Schema))
	return e.run(ctx, op, e.d.CreateView(e.opts.Schema, def.ModelType, body))
}

func (e *Engine) lookup(name string) (*schema.DbDefinition, error) {
	def, ok := e.reg.Get(name)
	if !ok {
		return nil, &ReferenceError{Type: name, Reason: "not registered"}
	}
	return def, nil
}

func CreateTableFor[T schema.Entity](ctx context.Context, e *Engine) error {
	def, err := e.lookup(schema.TypeOf[T]().Name)
	if err != nil {
		return err
	}
	if err := e.CreateTable(ctx, def); err != nil {
		return err
	}
	if def.EnableTranslation {
		return e.CreateTranslationTable(ctx, def)
	}
	return nil
}

// CreateColumnFor adds the columns of field; a complex field adds one
// column per flattened leaf.
func CreateColumnFor[T schema.Entity](ctx context.Context, e *Engine, field schema.Field) error {
	def, err := e.lookup(schema.TypeOf[T]().Name)
	if err != nil {
		return err
	}
	found := false
	for _, p := range def.Properties {
		if p.Path[0] != field.Name {
			continue
		}
		found = true
		if err := e.CreateColumn(ctx, def, p.Name); err != nil {
			return err
		}
	}
	if !found {
		return &ReferenceError{Type: def.ModelType, Property: field.Name, Reason: "no such property"}
	}
	return nil
}

func CreateUniqueConstraintFor[T schema.Entity](ctx context.Context, e *Engine, properties []string, include ...string) error {
	def, err := e.lookup(schema.TypeOf[T]().Name)
	if err != nil {
		return err
	}
	return e.CreateUniqueConstraint(ctx, def, schema.DbConstraint{
		Name:       schema.ConstraintName(def.ModelType, false, properties),
		Properties: properties,
		Include:    include,
	})
}

// CreateForeignKeyFor adds a foreign key from field on T to the primary key
// of U.
func CreateForeignKeyFor[T, U schema.Entity](ctx context.Context, e *Engine, field schema.Field, cascade bool) error {
	source, err := e.lookup(schema.TypeOf[T]().Name)
	if err != nil {
		return err
	}
	target, err := e.lookup(schema.TypeOf[U]().Name)
	if err != nil {
		return err
	}
	if field.Owner != source.ModelType {
		return &ReferenceError{Type: source.ModelType, Property: field.Name, Reason: "field belongs to " + field.Owner}
	}
	return e.CreateForeignKeyConstraint(ctx, source, target, field.Name, cascade)
}

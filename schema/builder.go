package schema

import (
	"fmt"
	"strings"
)

// ConfigError reports an invalid definition. It is returned by Build and is
// fatal to startup.
type ConfigError struct {
	Type     string
	Property string
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("definition %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("definition %s: property %s: %s", e.Type, e.Property, e.Reason)
}

type PropertyOption func(*DbProperty)

func Nullable() PropertyOption {
	return func(p *DbProperty) { p.Nullable = true }
}

// Default sets a raw SQL default expression.
func Default(sql string) PropertyOption {
	return func(p *DbProperty) { p.Default = &sql }
}

func Length(n int) PropertyOption {
	return func(p *DbProperty) { p.Length = n }
}

type RelationOption func(*DbRelation)

func Optional() RelationOption {
	return func(r *DbRelation) { r.IsOptional = true }
}

func List() RelationOption {
	return func(r *DbRelation) { r.IsList = true }
}

func CascadeDelete() RelationOption {
	return func(r *DbRelation) { r.CascadeDelete = true }
}

// CrossSide describes one side of a many-to-many relation: the identity on
// the related type, the reference on the junction, and the property on the
// extended type that receives the related row.
type CrossSide struct {
	Identity  Field
	Reference Field
	Extended  Field
	Options   []RelationOption
}

// Builder accumulates the definition of T. The first error sticks and is
// returned by Build.
type Builder[T Entity] struct {
	info TypeInfo
	def  DbDefinition
	err  error
}

func Define[T Entity]() *Builder[T] {
	info := TypeOf[T]()
	return &Builder[T]{
		info: info,
		def: DbDefinition{
			ModelType:      info.Name,
			Version:        1,
			DefinitionType: Table,
		},
	}
}

func (b *Builder[T]) fail(property, format string, args ...any) {
	if b.err == nil {
		b.err = &ConfigError{Type: b.info.Name, Property: property, Reason: fmt.Sprintf(format, args...)}
	}
}

// RegisterProperty adds f as a column. Complex fields are expanded into one
// column per leaf, named {Field}_{Sub}.
func (b *Builder[T]) RegisterProperty(f Field, opts ...PropertyOption) *Builder[T] {
	if b.err != nil {
		return b
	}
	if f.Owner != b.info.Name {
		b.fail(f.Name, "field belongs to %s", f.Owner)
		return b
	}
	if f.Kind == KindReference {
		b.fail(f.Name, "reference fields are relations, not columns")
		return b
	}
	b.flatten(f, "", nil, opts)
	return b
}

func (b *Builder[T]) flatten(f Field, prefix string, path []string, opts []PropertyOption) {
	name := prefix + f.Name
	path = append(append([]string(nil), path...), f.Name)
	if f.Kind == KindComplex {
		if len(f.Fields) == 0 {
			b.fail(name, "complex type %s has no fields", f.GoType)
			return
		}
		for _, sub := range f.Fields {
			if sub.Kind == KindReference {
				continue
			}
			b.flatten(sub, name+"_", path, opts)
		}
		return
	}
	if _, exists := b.def.Property(name); exists {
		b.fail(name, "registered twice")
		return
	}
	p := DbProperty{
		Name:     name,
		Path:     path,
		Kind:     f.Kind,
		Nullable: f.Nullable,
	}
	for _, opt := range opts {
		opt(&p)
	}
	b.def.Properties = append(b.def.Properties, p)
}

func (b *Builder[T]) RegisterPrimaryKey(properties ...string) *Builder[T] {
	return b.registerConstraint(true, properties, nil)
}

// RegisterUniqueConstraint adds a unique index over properties. Included
// columns are stored in the index but take no part in uniqueness.
func (b *Builder[T]) RegisterUniqueConstraint(properties []string, include ...string) *Builder[T] {
	return b.registerConstraint(false, properties, include)
}

func (b *Builder[T]) registerConstraint(primary bool, properties, include []string) *Builder[T] {
	if b.err != nil {
		return b
	}
	if len(properties) == 0 {
		b.fail("", "constraint without properties")
		return b
	}
	for _, name := range append(append([]string(nil), properties...), include...) {
		if _, ok := b.def.Property(name); !ok {
			b.fail(name, "no such property on %s", b.info.Name)
			return b
		}
	}
	c := DbConstraint{
		Name:         ConstraintName(b.info.Name, primary, properties),
		IsPrimaryKey: primary,
		Properties:   properties,
		Include:      include,
	}
	if primary && b.def.PrimaryKey() != nil {
		b.fail("", "primary key registered twice")
		return b
	}
	for _, existing := range b.def.Constraints {
		if existing.Name == c.Name {
			b.fail("", "constraint %s registered twice", c.Name)
			return b
		}
	}
	b.def.Constraints = append(b.def.Constraints, c)
	return b
}

// ConstraintName returns PK_{Type} or UC_{Type}_{p1}_{p2}...
func ConstraintName(model string, primary bool, properties []string) string {
	if primary {
		return "PK_" + model
	}
	return "UC_" + model + "_" + strings.Join(properties, "_")
}

// ForeignKeyName returns FK_{Type}_{property}.
func ForeignKeyName(model, property string) string {
	return "FK_" + model + "_" + property
}

// RegisterExtendedProperty records a join from source (a column of T) to
// join (a column of the referenced type), read into extended on the
// denormalized type.
func (b *Builder[T]) RegisterExtendedProperty(source, join, extended Field, opts ...RelationOption) *Builder[T] {
	if b.err != nil {
		return b
	}
	r, ok := b.relation(source, join, extended)
	if !ok {
		return b
	}
	for _, opt := range opts {
		opt(&r)
	}
	b.def.Relations = append(b.def.Relations, r)
	return b
}

func (b *Builder[T]) relation(source, join, extended Field) (DbRelation, bool) {
	if source.Owner != b.info.Name {
		b.fail(source.Name, "source field belongs to %s", source.Owner)
		return DbRelation{}, false
	}
	if _, ok := b.def.Property(source.Name); !ok {
		b.fail(source.Name, "no such property on %s", b.info.Name)
		return DbRelation{}, false
	}
	if join.Kind == KindComplex || join.Kind == KindReference {
		b.fail(join.Name, "join field on %s must be a scalar", join.Owner)
		return DbRelation{}, false
	}
	if extended.Kind != KindReference {
		b.fail(extended.Name, "extended field on %s must reference a struct", extended.Owner)
		return DbRelation{}, false
	}
	if _, exists := b.def.Relation(extended.Name); exists {
		b.fail(extended.Name, "relation registered twice")
		return DbRelation{}, false
	}
	if extended.GoType != join.Owner {
		b.def.Warnings = append(b.def.Warnings, fmt.Sprintf(
			"%s.%s has type %s but joins %s", extended.Owner, extended.Name, extended.GoType, join.Owner))
	}
	return DbRelation{
		Base:             b.info.Name,
		BaseProperty:     source.Name,
		Ref:              join.Owner,
		RefProperty:      join.Name,
		Extended:         extended.Owner,
		ExtendedProperty: extended.Name,
	}, true
}

// RegisterAsCrossReferenceExtended marks T as the junction between a and b.
// Both joins are registered before the cross relation itself.
func (b *Builder[T]) RegisterAsCrossReferenceExtended(a, c CrossSide) *Builder[T] {
	if b.err != nil {
		return b
	}
	if b.def.CrossRelation != nil {
		b.fail("", "cross relation registered twice")
		return b
	}
	if a.Extended.Owner != c.Extended.Owner {
		b.fail(c.Extended.Name, "extended sides disagree: %s and %s", a.Extended.Owner, c.Extended.Owner)
		return b
	}
	b.RegisterExtendedProperty(a.Reference, a.Identity, a.Extended, a.Options...)
	b.RegisterExtendedProperty(c.Reference, c.Identity, c.Extended, c.Options...)
	if b.err != nil {
		return b
	}
	b.def.CrossRelation = &DbCrossRelation{
		Junction:   b.info.Name,
		Extended:   a.Extended.Owner,
		A:          a.Identity.Owner,
		AIdentity:  a.Identity.Name,
		AReference: a.Reference.Name,
		B:          c.Identity.Owner,
		BIdentity:  c.Identity.Name,
		BReference: c.Reference.Name,
	}
	return b
}

// SetVersion gates recreation of views.
func (b *Builder[T]) SetVersion(v int) *Builder[T] {
	b.def.Version = v
	return b
}

func (b *Builder[T]) EnableTranslation() *Builder[T] {
	b.def.EnableTranslation = true
	return b
}

// EnableAudit requests a system-versioned table.
func (b *Builder[T]) EnableAudit() *Builder[T] {
	b.def.EnableAudit = true
	return b
}

func (b *Builder[T]) AsView(render SQLRenderer, dependencies ...string) *Builder[T] {
	b.def.DefinitionType = View
	b.def.Query = render
	b.def.Dependencies = dependencies
	return b
}

// AsQuery maps T onto a derived table instead of a stored object.
func (b *Builder[T]) AsQuery(render SQLRenderer, dependencies ...string) *Builder[T] {
	b.def.DefinitionType = Query
	b.def.Query = render
	b.def.Dependencies = dependencies
	return b
}

func (b *Builder[T]) Build() (*DbDefinition, error) {
	if b.err != nil {
		return nil, b.err
	}
	switch b.def.DefinitionType {
	case Table:
		if b.def.PrimaryKey() == nil {
			return nil, &ConfigError{Type: b.info.Name, Reason: "primary key is required"}
		}
	case View, Query:
		if b.def.Query == nil {
			return nil, &ConfigError{Type: b.info.Name, Reason: fmt.Sprintf("%s without sql", b.def.DefinitionType)}
		}
		if b.def.EnableAudit || b.def.EnableTranslation {
			return nil, &ConfigError{Type: b.info.Name, Reason: "audit and translation apply to tables only"}
		}
	}
	if b.def.Version < 1 {
		return nil, &ConfigError{Type: b.info.Name, Reason: "version must be positive"}
	}
	def := b.def
	return &def, nil
}

// MustBuild is Build for package-level wiring.
func (b *Builder[T]) MustBuild() *DbDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

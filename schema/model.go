package schema

import "strings"

type DefinitionType string

const (
	Table DefinitionType = "table"
	View  DefinitionType = "view"
	Query DefinitionType = "query"
)

// DbDefinition is the metadata of one mapped type. It is never mutated after
// Build.
type DbDefinition struct {
	ModelType      string
	Version        int
	DefinitionType DefinitionType
	Properties     []DbProperty
	Relations      []DbRelation
	CrossRelation  *DbCrossRelation
	Constraints    []DbConstraint

	// Query renders the body of a View or Query definition.
	Query        SQLRenderer
	Dependencies []string

	EnableAudit       bool
	EnableTranslation bool

	Warnings []string
}

// DbProperty is one column. Path holds the struct field path for flattened
// complex properties; it has a single element otherwise.
type DbProperty struct {
	Name     string
	Path     []string
	Kind     Kind
	Length   int
	Nullable bool
	Default  *string
}

type DbRelation struct {
	Base             string
	BaseProperty     string
	Ref              string
	RefProperty      string
	Extended         string
	ExtendedProperty string
	IsOptional       bool
	IsList           bool
	CascadeDelete    bool
}

// DbCrossRelation binds a junction type to the two types it links.
type DbCrossRelation struct {
	Junction   string
	Extended   string
	A          string
	AIdentity  string
	AReference string
	B          string
	BIdentity  string
	BReference string
}

type DbConstraint struct {
	Name         string
	IsPrimaryKey bool
	Properties   []string
	Include      []string
}

// LanguageProperty discriminates the rows of a translation table.
var LanguageProperty = DbProperty{Name: "Language", Path: []string{"Language"}, Kind: KindString, Length: 10}

// SQLContext resolves names for view and query renderers.
type SQLContext interface {
	Table(model string) string
	Column(name string) string
}

type SQLRenderer func(ctx SQLContext) string

// Property returns the column with the given name.
func (d *DbDefinition) Property(name string) (DbProperty, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return DbProperty{}, false
}

// PropertyFold is Property with case-insensitive matching.
func (d *DbDefinition) PropertyFold(name string) (DbProperty, bool) {
	for _, p := range d.Properties {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return DbProperty{}, false
}

func (d *DbDefinition) PrimaryKey() *DbConstraint {
	for i := range d.Constraints {
		if d.Constraints[i].IsPrimaryKey {
			return &d.Constraints[i]
		}
	}
	return nil
}

func (d *DbDefinition) UniqueConstraints() []DbConstraint {
	var out []DbConstraint
	for _, c := range d.Constraints {
		if !c.IsPrimaryKey {
			out = append(out, c)
		}
	}
	return out
}

// IdentityColumn returns the single primary key column, or "" when the key
// is composite or missing.
func (d *DbDefinition) IdentityColumn() string {
	pk := d.PrimaryKey()
	if pk == nil || len(pk.Properties) != 1 {
		return ""
	}
	return pk.Properties[0]
}

func (d *DbDefinition) IsKey(name string) bool {
	pk := d.PrimaryKey()
	if pk == nil {
		return false
	}
	for _, p := range pk.Properties {
		if p == name {
			return true
		}
	}
	return false
}

// StringProperties lists the non-key string columns; these are the
// translatable and searchable ones.
func (d *DbDefinition) StringProperties() []DbProperty {
	var out []DbProperty
	for _, p := range d.Properties {
		if p.Kind == KindString && !d.IsKey(p.Name) {
			out = append(out, p)
		}
	}
	return out
}

func (d *DbDefinition) Relation(extendedProperty string) (DbRelation, bool) {
	for _, r := range d.Relations {
		if r.ExtendedProperty == extendedProperty {
			return r, true
		}
	}
	return DbRelation{}, false
}

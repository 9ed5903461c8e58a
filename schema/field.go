package schema

// Kind classifies a generated field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindInt64
	KindBool
	KindFloat
	KindTime
	KindUUID
	// KindComplex is a value struct from the same package; it is flattened
	// into prefixed columns.
	KindComplex
	// KindReference is a pointer or slice of a struct from the same package.
	// It names a relation target and is never a column.
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindInt64:
		return "int64"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindTime:
		return "time"
	case KindUUID:
		return "uuid"
	case KindComplex:
		return "complex"
	case KindReference:
		return "reference"
	}
	return "unknown"
}

// Field is the static descriptor of one struct field. Values are emitted by
// `dbdef generate` into zz_generated.dbfields.go next to the model types.
type Field struct {
	Owner    string
	Name     string
	GoType   string
	Kind     Kind
	Nullable bool
	Fields   []Field
}

// TypeInfo describes a generated type.
type TypeInfo struct {
	Name   string
	Fields []Field
}

// Field returns the top-level field with the given name.
func (t TypeInfo) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Entity is implemented by every generated model type.
type Entity interface {
	DBType() TypeInfo
	DBValues() map[string]any
}

// Value dereferences an optional field for DBValues.
func Value[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// TypeOf returns the generated type info of T.
func TypeOf[T Entity]() TypeInfo {
	var zero T
	return zero.DBType()
}

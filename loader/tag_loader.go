package loader

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

// Marker is the doc comment line that selects a struct for generation.
const Marker = "+dbdef"

// GeneratedFile is skipped when loading so that stale output never feeds
// back into generation.
const GeneratedFile = "zz_generated.dbfields.go"

// StructDef is a marked struct and its resolved fields.
type StructDef struct {
	Name   string
	Fields []FieldDef
}

// FieldDef is one field of a marked struct. Complex fields carry the fields
// of their struct; Pointer is set for optional scalars.
type FieldDef struct {
	Owner    string
	Name     string
	GoType   string
	Kind     schema.Kind
	Nullable bool
	Pointer  bool
	Fields   []FieldDef
}

// Package is the result of loading one directory.
type Package struct {
	Name    string
	Dir     string
	Structs []StructDef
}

// TagLoader loads marked structs from the Go files of one directory
type TagLoader struct {
	dir     string
	structs map[string]*ast.StructType
	marked  []string
}

// NewTagLoader creates a new loader for dir
func NewTagLoader(dir string) *TagLoader {
	return &TagLoader{
		dir:     dir,
		structs: map[string]*ast.StructType{},
	}
}

// LoadPackage loads every struct marked with +dbdef in dir
func LoadPackage(dir string) (*Package, error) {
	return NewTagLoader(dir).Load()
}

// Load parses the directory and resolves the marked structs in source order
func (tl *TagLoader) Load() (*Package, error) {
	if _, err := os.Stat(tl.dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("models directory '%s' does not exist", tl.dir)
	}

	files, err := filepath.Glob(filepath.Join(tl.dir, "*.go"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", tl.dir, err)
	}
	sort.Strings(files)

	pkg := &Package{Dir: tl.dir}
	for _, path := range files {
		base := filepath.Base(path)
		if base == GeneratedFile || strings.HasSuffix(base, "_test.go") {
			continue
		}
		name, err := tl.parseGoFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if pkg.Name == "" {
			pkg.Name = name
		} else if pkg.Name != name {
			return nil, fmt.Errorf("%s: package %s, expected %s", path, name, pkg.Name)
		}
	}

	for _, name := range tl.marked {
		fields, err := tl.resolveFields(name, tl.structs[name], map[string]bool{name: true})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pkg.Structs = append(pkg.Structs, StructDef{Name: name, Fields: fields})
	}
	return pkg, nil
}

// parseGoFile records the struct types of one file and returns its package name
func (tl *TagLoader) parseGoFile(path string) (string, error) {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return "", err
	}

	for _, decl := range node.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			tl.structs[ts.Name.Name] = st
			doc := ts.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}
			if hasMarker(doc) {
				tl.marked = append(tl.marked, ts.Name.Name)
			}
		}
	}
	return node.Name.Name, nil
}

func hasMarker(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.TrimSpace(strings.TrimPrefix(c.Text, "//")) == Marker {
			return true
		}
	}
	return false
}

// resolveFields lists the exported fields of st owned by owner. Embedded
// structs of the package are promoted; visiting guards against cycles.
func (tl *TagLoader) resolveFields(owner string, st *ast.StructType, visiting map[string]bool) ([]FieldDef, error) {
	var out []FieldDef
	for _, field := range st.Fields.List {
		if ignored(field.Tag) {
			continue
		}

		if len(field.Names) == 0 {
			ident, ok := field.Type.(*ast.Ident)
			if !ok {
				continue
			}
			embedded, ok := tl.structs[ident.Name]
			if !ok || visiting[ident.Name] {
				continue
			}
			visiting[ident.Name] = true
			promoted, err := tl.resolveFields(owner, embedded, visiting)
			delete(visiting, ident.Name)
			if err != nil {
				return nil, err
			}
			out = append(out, promoted...)
			continue
		}

		for _, n := range field.Names {
			if !ast.IsExported(n.Name) {
				continue
			}
			f, err := tl.parseField(owner, n.Name, field.Type, visiting)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", n.Name, err)
			}
			out = append(out, f)
		}
	}
	return out, nil
}

// parseField classifies one field by its declared type
func (tl *TagLoader) parseField(owner, name string, expr ast.Expr, visiting map[string]bool) (FieldDef, error) {
	f := FieldDef{Owner: owner, Name: name}

	switch t := expr.(type) {
	case *ast.StarExpr:
		if elem, ok := tl.localStruct(t.X); ok {
			f.GoType, f.Kind, f.Nullable = elem, schema.KindReference, true
			return f, nil
		}
		goType := typeName(t.X)
		kind, ok := scalarKinds[goType]
		if !ok {
			return f, fmt.Errorf("unsupported type *%s", goType)
		}
		f.GoType, f.Kind, f.Nullable, f.Pointer = goType, kind, true, true
		return f, nil

	case *ast.ArrayType:
		elem := t.Elt
		if star, ok := elem.(*ast.StarExpr); ok {
			elem = star.X
		}
		if name, ok := tl.localStruct(elem); ok && t.Len == nil {
			f.GoType, f.Kind = name, schema.KindReference
			return f, nil
		}
		return f, fmt.Errorf("unsupported type []%s", typeName(elem))
	}

	if sub, ok := tl.localStruct(expr); ok {
		if visiting[sub] {
			return f, fmt.Errorf("complex type %s contains itself", sub)
		}
		visiting[sub] = true
		fields, err := tl.resolveFields(sub, tl.structs[sub], visiting)
		delete(visiting, sub)
		if err != nil {
			return f, err
		}
		f.GoType, f.Kind, f.Fields = sub, schema.KindComplex, fields
		return f, nil
	}

	goType := typeName(expr)
	kind, ok := scalarKinds[goType]
	if !ok {
		return f, fmt.Errorf("unsupported type %s", goType)
	}
	f.GoType, f.Kind = goType, kind
	return f, nil
}

// localStruct reports whether expr names a struct of the loaded package
func (tl *TagLoader) localStruct(expr ast.Expr) (string, bool) {
	ident, ok := expr.(*ast.Ident)
	if !ok {
		return "", false
	}
	_, ok = tl.structs[ident.Name]
	return ident.Name, ok
}

var scalarKinds = map[string]schema.Kind{
	"string":    schema.KindString,
	"int":       schema.KindInt,
	"int16":     schema.KindInt,
	"int32":     schema.KindInt,
	"int64":     schema.KindInt64,
	"bool":      schema.KindBool,
	"float32":   schema.KindFloat,
	"float64":   schema.KindFloat,
	"time.Time": schema.KindTime,
	"uuid.UUID": schema.KindUUID,
}

// typeName extracts the Go type name from an ast.Expr
func typeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + typeName(t.X)
	case *ast.ArrayType:
		return "[]" + typeName(t.Elt)
	case *ast.SelectorExpr:
		if x, ok := t.X.(*ast.Ident); ok {
			return x.Name + "." + t.Sel.Name
		}
	}
	return fmt.Sprintf("%T", expr)
}

// ignored reports a `dbdef:"-"` tag
func ignored(tag *ast.BasicLit) bool {
	if tag == nil {
		return false
	}
	return reflect.StructTag(strings.Trim(tag.Value, "`")).Get("dbdef") == "-"
}

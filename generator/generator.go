// Package generator writes the static field descriptors of marked model
// structs. The output lets definitions name fields as values, for example
// EntityFields.Address, without reflection at runtime.
package generator

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Altinn/altinn-authorization-tmp-sub012/loader"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

// SchemaImport is the import path of the generated code's runtime types.
const SchemaImport = "github.com/Altinn/altinn-authorization-tmp-sub012/schema"

var kindIdents = map[schema.Kind]string{
	schema.KindString:    "schema.KindString",
	schema.KindInt:       "schema.KindInt",
	schema.KindInt64:     "schema.KindInt64",
	schema.KindBool:      "schema.KindBool",
	schema.KindFloat:     "schema.KindFloat",
	schema.KindTime:      "schema.KindTime",
	schema.KindUUID:      "schema.KindUUID",
	schema.KindComplex:   "schema.KindComplex",
	schema.KindReference: "schema.KindReference",
}

type value struct {
	Key  string
	Expr string
}

var fileTemplate = template.Must(template.New("dbfields").Funcs(template.FuncMap{
	"field":  fieldLiteral,
	"values": values,
}).Parse(`// Code generated by dbdef generate. DO NOT EDIT.

package {{.Name}}

import "{{.Import}}"
{{range $s := .Structs}}
// {{$s.Name}}Fields describes the fields of {{$s.Name}}.
var {{$s.Name}}Fields = struct {
{{- range $s.Fields}}
	{{.Name}} schema.Field
{{- end}}
}{
{{- range $s.Fields}}
	{{.Name}}: {{field .}},
{{- end}}
}

func ({{$s.Name}}) DBType() schema.TypeInfo {
	return schema.TypeInfo{
		Name: "{{$s.Name}}",
		Fields: []schema.Field{
{{- range $s.Fields}}
			{{$s.Name}}Fields.{{.Name}},
{{- end}}
		},
	}
}

func (e {{$s.Name}}) DBValues() map[string]any {
	return map[string]any{
{{- range values $s}}
		"{{.Key}}": {{.Expr}},
{{- end}}
	}
}
{{end}}`))

// Render returns the formatted source of the descriptor file for pkg.
func Render(pkg *loader.Package) ([]byte, error) {
	var buf bytes.Buffer
	err := fileTemplate.Execute(&buf, struct {
		*loader.Package
		Import string
	}{pkg, SchemaImport})
	if err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w", err)
	}
	return src, nil
}

// Generate loads dir and writes its descriptor file next to the models. It
// returns the path written.
func Generate(dir string) (string, error) {
	pkg, err := loader.LoadPackage(dir)
	if err != nil {
		return "", err
	}
	if len(pkg.Structs) == 0 {
		return "", fmt.Errorf("no structs marked %s in %s", loader.Marker, dir)
	}
	src, err := Render(pkg)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, loader.GeneratedFile)
	if err := os.WriteFile(path, src, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func fieldLiteral(f loader.FieldDef) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "schema.Field{Owner: %q, Name: %q, GoType: %q, Kind: %s", f.Owner, f.Name, f.GoType, kindIdents[f.Kind])
	if f.Nullable {
		sb.WriteString(", Nullable: true")
	}
	if len(f.Fields) > 0 {
		sb.WriteString(", Fields: []schema.Field{")
		for i, sub := range f.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strings.TrimPrefix(fieldLiteral(sub), "schema.Field"))
		}
		sb.WriteString("}")
	}
	sb.WriteString("}")
	return sb.String()
}

// values lists the column values of s keyed by flattened column name.
func values(s loader.StructDef) []value {
	var out []value
	var walk func(fields []loader.FieldDef, key, expr string)
	walk = func(fields []loader.FieldDef, key, expr string) {
		for _, f := range fields {
			switch {
			case f.Kind == schema.KindReference:
			case f.Kind == schema.KindComplex:
				walk(f.Fields, key+f.Name+"_", expr+f.Name+".")
			case f.Pointer:
				out = append(out, value{Key: key + f.Name, Expr: "schema.Value(" + expr + f.Name + ")"})
			default:
				out = append(out, value{Key: key + f.Name, Expr: expr + f.Name})
			}
		}
	}
	walk(s.Fields, "", "e.")
	return out
}

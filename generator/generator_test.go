package generator_test

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/Altinn/altinn-authorization-tmp-sub012/generator"
	"github.com/Altinn/altinn-authorization-tmp-sub012/loader"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

var spaces = regexp.MustCompile(`[ \t]+`)

// squash folds the alignment gofmt adds between keys and values.
func squash(src []byte) string {
	return spaces.ReplaceAllString(string(src), " ")
}

func testPackage() *loader.Package {
	return &loader.Package{
		Name: "shop",
		Structs: []loader.StructDef{
			{
				Name: "Customer",
				Fields: []loader.FieldDef{
					{Owner: "Customer", Name: "Id", GoType: "uuid.UUID", Kind: schema.KindUUID},
					{Owner: "Customer", Name: "Nickname", GoType: "string", Kind: schema.KindString, Nullable: true, Pointer: true},
					{Owner: "Customer", Name: "Address", GoType: "Address", Kind: schema.KindComplex, Fields: []loader.FieldDef{
						{Owner: "Address", Name: "City", GoType: "string", Kind: schema.KindString},
					}},
					{Owner: "Customer", Name: "Orders", GoType: "Order", Kind: schema.KindReference},
				},
			},
		},
	}
}

func TestRender(t *testing.T) {
	src, err := generator.Render(testPackage())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := squash(src)

	for _, want := range []string{
		"// Code generated by dbdef generate. DO NOT EDIT.",
		"package shop",
		`import "` + generator.SchemaImport + `"`,
		"var CustomerFields = struct {",
		`Id: schema.Field{Owner: "Customer", Name: "Id", GoType: "uuid.UUID", Kind: schema.KindUUID}`,
		`Nickname: schema.Field{Owner: "Customer", Name: "Nickname", GoType: "string", Kind: schema.KindString, Nullable: true}`,
		`Fields: []schema.Field{{Owner: "Address", Name: "City", GoType: "string", Kind: schema.KindString}}`,
		"func (Customer) DBType() schema.TypeInfo {",
		"CustomerFields.Orders,",
		"func (e Customer) DBValues() map[string]any {",
		`"Nickname": schema.Value(e.Nickname),`,
		`"Address_City": e.Address.City,`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, `"Orders":`) {
		t.Error("references must not produce column values")
	}
}

func TestGenerateWritesFile(t *testing.T) {
	dir := t.TempDir()
	src := "package shop\n\nimport \"github.com/google/uuid\"\n\n// +dbdef\ntype Order struct {\n\tId    uuid.UUID\n\tTotal float64\n}\n"
	if err := os.WriteFile(filepath.Join(dir, "models.go"), []byte(src), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	path, err := generator.Generate(dir)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if filepath.Base(path) != loader.GeneratedFile {
		t.Errorf("expected %s, got %s", loader.GeneratedFile, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(squash(data), `"Total": e.Total,`) {
		t.Errorf("unexpected generated file:\n%s", data)
	}

	// a second run ignores the generated file
	if _, err := generator.Generate(dir); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
}

func TestGenerateWithoutMarkedStructs(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "models.go"), []byte("package shop\n\ntype Plain struct{ Id int }\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := generator.Generate(dir); err == nil || !strings.Contains(err.Error(), "no structs marked") {
		t.Fatalf("expected no marked structs error, got %v", err)
	}
}

func TestWriteScript(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scripts")
	now := time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)

	path, err := generator.WriteScript(dir, []string{"CREATE TABLE a (x INT);", "ALTER TABLE a ADD y INT"}, "core", now)
	if err != nil {
		t.Fatalf("write script: %v", err)
	}
	if filepath.Base(path) != "20240305102030_migration.sql" {
		t.Errorf("unexpected file name %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "-- Migration: 20240305102030\n-- Collection: core\n\nCREATE TABLE a (x INT);\n\nALTER TABLE a ADD y INT;\n\n"
	if string(data) != want {
		t.Errorf("unexpected script:\n%s", data)
	}
}

package schema_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Altinn/altinn-authorization-tmp-sub012/models"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

func TestBuildRequiresPrimaryKey(t *testing.T) {
	_, err := schema.Define[models.Provider]().
		RegisterProperty(models.ProviderFields.Id).
		RegisterProperty(models.ProviderFields.Name).
		Build()

	var cfgErr *schema.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Type != "Provider" {
		t.Errorf("expected type Provider, got %s", cfgErr.Type)
	}
}

func TestPrimaryKeyOnUnknownProperty(t *testing.T) {
	_, err := schema.Define[models.Provider]().
		RegisterProperty(models.ProviderFields.Name).
		RegisterPrimaryKey("Id").
		Build()

	var cfgErr *schema.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Property != "Id" {
		t.Errorf("expected property Id, got %q", cfgErr.Property)
	}
}

func TestRegisterPropertyOfOtherType(t *testing.T) {
	_, err := schema.Define[models.Provider]().
		RegisterProperty(models.AreaFields.Name).
		Build()
	if err == nil || !strings.Contains(err.Error(), "belongs to Area") {
		t.Fatalf("expected ownership error, got %v", err)
	}
}

func TestComplexPropertyIsFlattened(t *testing.T) {
	def, err := schema.Define[models.Entity]().
		RegisterProperty(models.EntityFields.Id).
		RegisterProperty(models.EntityFields.Address, schema.Nullable()).
		RegisterPrimaryKey("Id").
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := []string{"Id", "Address_Street", "Address_PostalCode", "Address_City"}
	var got []string
	for _, p := range def.Properties {
		got = append(got, p.Name)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected properties %v, got %v", want, got)
	}

	p, _ := def.Property("Address_City")
	if !reflect.DeepEqual(p.Path, []string{"Address", "City"}) {
		t.Errorf("expected path [Address City], got %v", p.Path)
	}
	if !p.Nullable {
		t.Error("expected options to apply to every flattened column")
	}
}

func TestPointerFieldIsNullable(t *testing.T) {
	def := schema.Define[models.Entity]().
		RegisterProperty(models.EntityFields.Id).
		RegisterProperty(models.EntityFields.RefId).
		RegisterPrimaryKey("Id").
		MustBuild()

	p, ok := def.Property("RefId")
	if !ok {
		t.Fatal("expected RefId property")
	}
	if !p.Nullable {
		t.Error("expected pointer field to be nullable")
	}
}

func TestConstraintNames(t *testing.T) {
	def := schema.Define[models.Role]().
		RegisterProperty(models.RoleFields.Id).
		RegisterProperty(models.RoleFields.Name).
		RegisterProperty(models.RoleFields.Code).
		RegisterPrimaryKey("Id").
		RegisterUniqueConstraint([]string{"Code"}, "Name").
		MustBuild()

	if pk := def.PrimaryKey(); pk == nil || pk.Name != "PK_Role" {
		t.Fatalf("expected PK_Role, got %+v", pk)
	}
	uniques := def.UniqueConstraints()
	if len(uniques) != 1 {
		t.Fatalf("expected 1 unique constraint, got %d", len(uniques))
	}
	if uniques[0].Name != "UC_Role_Code" {
		t.Errorf("expected UC_Role_Code, got %s", uniques[0].Name)
	}
	if !reflect.DeepEqual(uniques[0].Include, []string{"Name"}) {
		t.Errorf("expected include [Name], got %v", uniques[0].Include)
	}
	if got := schema.ForeignKeyName("Assignment", "FromId"); got != "FK_Assignment_FromId" {
		t.Errorf("expected FK_Assignment_FromId, got %s", got)
	}
}

func TestDuplicateConstraint(t *testing.T) {
	_, err := schema.Define[models.Provider]().
		RegisterProperty(models.ProviderFields.Id).
		RegisterProperty(models.ProviderFields.Code).
		RegisterPrimaryKey("Id").
		RegisterUniqueConstraint([]string{"Code"}).
		RegisterUniqueConstraint([]string{"Code"}).
		Build()
	if err == nil || !strings.Contains(err.Error(), "registered twice") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestExtendedTypeMismatchWarns(t *testing.T) {
	def, err := schema.Define[models.EntityType]().
		RegisterProperty(models.EntityTypeFields.Id).
		RegisterProperty(models.EntityTypeFields.ProviderId).
		RegisterPrimaryKey("Id").
		RegisterExtendedProperty(models.EntityTypeFields.ProviderId, models.ProviderFields.Id, models.ExtEntityFields.Type).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(def.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", def.Warnings)
	}
	if !strings.Contains(def.Warnings[0], "EntityType") || !strings.Contains(def.Warnings[0], "Provider") {
		t.Errorf("unexpected warning %q", def.Warnings[0])
	}
}

func TestExtendedPropertyMustBeReference(t *testing.T) {
	_, err := schema.Define[models.EntityType]().
		RegisterProperty(models.EntityTypeFields.Id).
		RegisterProperty(models.EntityTypeFields.ProviderId).
		RegisterPrimaryKey("Id").
		RegisterExtendedProperty(models.EntityTypeFields.ProviderId, models.ProviderFields.Id, models.ExtEntityTypeFields.Name).
		Build()
	if err == nil {
		t.Fatal("expected error for scalar extended field")
	}
}

func TestCrossRelation(t *testing.T) {
	defs, err := models.Definitions()
	if err != nil {
		t.Fatalf("definitions: %v", err)
	}
	var junction *schema.DbDefinition
	for _, def := range defs {
		if def.ModelType == "AssignmentPackage" {
			junction = def
		}
	}
	if junction == nil {
		t.Fatal("AssignmentPackage not defined")
	}

	cr := junction.CrossRelation
	if cr == nil {
		t.Fatal("expected cross relation")
	}
	want := schema.DbCrossRelation{
		Junction:   "AssignmentPackage",
		Extended:   "ExtAssignmentPackage",
		A:          "Assignment",
		AIdentity:  "Id",
		AReference: "AssignmentId",
		B:          "Package",
		BIdentity:  "Id",
		BReference: "PackageId",
	}
	if *cr != want {
		t.Errorf("expected %+v, got %+v", want, *cr)
	}
	if len(junction.Relations) != 2 {
		t.Fatalf("expected both sides registered as relations, got %d", len(junction.Relations))
	}
	if !junction.Relations[0].CascadeDelete {
		t.Error("expected cascade delete on the assignment side")
	}
}

func TestViewRules(t *testing.T) {
	_, err := schema.Define[models.AssignmentSummary]().
		RegisterProperty(models.AssignmentSummaryFields.Id).
		AsView(nil).
		Build()
	if err == nil {
		t.Fatal("expected error for view without sql")
	}

	render := func(schema.SQLContext) string { return "SELECT 1" }
	_, err = schema.Define[models.AssignmentSummary]().
		RegisterProperty(models.AssignmentSummaryFields.Id).
		AsView(render).
		EnableTranslation().
		Build()
	if err == nil {
		t.Fatal("expected error for translated view")
	}

	def, err := schema.Define[models.AssignmentSummary]().
		RegisterProperty(models.AssignmentSummaryFields.Id).
		AsView(render, "Assignment").
		SetVersion(3).
		Build()
	if err != nil {
		t.Fatalf("build view: %v", err)
	}
	if def.DefinitionType != schema.View || def.Version != 3 {
		t.Errorf("expected view version 3, got %s v%d", def.DefinitionType, def.Version)
	}
}

func TestRegistry(t *testing.T) {
	reg, err := models.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	def, err := schema.Lookup[models.Role](reg)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !def.EnableAudit || !def.EnableTranslation {
		t.Error("expected Role to be audited and translated")
	}

	if _, ok := reg.Get("Nope"); ok {
		t.Error("expected unknown type to be missing")
	}

	all := reg.All()
	if all[0].ModelType != "Provider" {
		t.Errorf("expected registration order, first is %s", all[0].ModelType)
	}
}

func TestRegistryRejectsDanglingRelation(t *testing.T) {
	entityType := schema.Define[models.EntityType]().
		RegisterProperty(models.EntityTypeFields.Id).
		RegisterProperty(models.EntityTypeFields.ProviderId).
		RegisterPrimaryKey("Id").
		RegisterExtendedProperty(models.EntityTypeFields.ProviderId, models.ProviderFields.Id, models.ExtEntityTypeFields.Provider).
		MustBuild()

	_, err := schema.NewRegistry(entityType, entityType)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "registered twice") {
		t.Errorf("expected duplicate registration in %q", msg)
	}
	if !strings.Contains(msg, "unregistered type Provider") {
		t.Errorf("expected dangling relation in %q", msg)
	}
}

func TestStringProperties(t *testing.T) {
	reg, err := models.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	var names []string
	for _, p := range reg.MustGet("Package").StringProperties() {
		names = append(names, p.Name)
	}
	if !reflect.DeepEqual(names, []string{"Name", "Description"}) {
		t.Errorf("expected [Name Description], got %v", names)
	}
}

package diff_test

import (
	"strings"
	"testing"

	"github.com/Altinn/altinn-authorization-tmp-sub012/diff"
	"github.com/Altinn/altinn-authorization-tmp-sub012/models"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

func plan(t *testing.T, temporal bool) []diff.Operation {
	t.Helper()
	reg, err := models.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	ops, err := diff.Plan(reg, diff.PlanOptions{
		Schema:            "dbo",
		TranslationSchema: "translation",
		HistorySchema:     "history",
		Temporal:          temporal,
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	return ops
}

func keys(ops []diff.Operation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.Key()
	}
	return out
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func TestPlanKeys(t *testing.T) {
	got := keys(plan(t, true))
	for _, want := range []string{
		"CREATE SCHEMA dbo",
		"CREATE SCHEMA translation",
		"CREATE SCHEMA history",
		"CREATE TABLE dbo.Role",
		"ADD COLUMN dbo.Role.Code",
		"CREATE TABLE translation.Role",
		"ADD COLUMN translation.Role.Name",
		"ADD COLUMN dbo.Entity.Address_City",
		"ADD CONSTRAINT dbo.Role.UC_Role_Code",
		"ADD CONSTRAINT dbo.Assignment.FK_Assignment_FromId",
		"CREATE VIEW dbo.AssignmentSummary.v1",
	} {
		if indexOf(got, want) < 0 {
			t.Errorf("expected %q in plan", want)
		}
	}
}

func TestPlanOrder(t *testing.T) {
	got := keys(plan(t, false))

	lastTable, firstConstraint, lastConstraint, firstView := -1, len(got), -1, len(got)
	for i, k := range got {
		switch {
		case strings.HasPrefix(k, "CREATE TABLE"), strings.HasPrefix(k, "ADD COLUMN"):
			lastTable = i
		case strings.HasPrefix(k, "ADD CONSTRAINT"):
			if i < firstConstraint {
				firstConstraint = i
			}
			lastConstraint = i
		case strings.HasPrefix(k, "CREATE VIEW"):
			if i < firstView {
				firstView = i
			}
		}
	}
	if lastTable > firstConstraint {
		t.Error("expected every table before the first constraint")
	}
	if lastConstraint > firstView {
		t.Error("expected every constraint before the first view")
	}
	if indexOf(got, "CREATE SCHEMA history") >= 0 {
		t.Error("expected no history schema without temporal support")
	}
}

func TestPlanSkipsListRelationsAndQueries(t *testing.T) {
	for _, k := range keys(plan(t, false)) {
		if strings.Contains(k, "FK_Area_Id") {
			t.Errorf("list relation must not produce a foreign key: %s", k)
		}
		if strings.Contains(k, "AreaPackageCount") {
			t.Errorf("query definitions are not stored: %s", k)
		}
	}
}

func TestPlanTranslationColumnsAreStrings(t *testing.T) {
	for _, op := range plan(t, false) {
		if !op.Translation || op.Type != diff.AddColumn {
			continue
		}
		if op.Property.Kind != schema.KindString {
			t.Errorf("translation column %s is %s", op.Key(), op.Property.Kind)
		}
	}
}

func TestViewKeyCarriesVersion(t *testing.T) {
	render := func(schema.SQLContext) string { return "SELECT 1 AS Id" }
	v2 := schema.Define[models.AssignmentSummary]().
		RegisterProperty(models.AssignmentSummaryFields.Id).
		AsView(render).
		SetVersion(2).
		MustBuild()

	op := diff.Operation{Type: diff.CreateView, Schema: "dbo", Definition: v2}
	if op.Key() != "CREATE VIEW dbo.AssignmentSummary.v2" {
		t.Errorf("unexpected key %s", op.Key())
	}
	if op.ObjectName() != "AssignmentSummary" {
		t.Errorf("unexpected object %s", op.ObjectName())
	}
}

func TestFunctionKey(t *testing.T) {
	op := diff.Operation{Type: diff.CreateFunction, Schema: "dbo", Name: "fn_packages"}
	if op.Key() != "CREATE FUNCTION dbo.fn_packages" || op.ObjectName() != "fn_packages" {
		t.Errorf("unexpected key %s / %s", op.Key(), op.ObjectName())
	}
}

func TestCircularViews(t *testing.T) {
	render := func(schema.SQLContext) string { return "SELECT 1" }
	a := schema.Define[models.AssignmentSummary]().
		RegisterProperty(models.AssignmentSummaryFields.Id).
		AsView(render, "AreaPackageCount").
		MustBuild()
	b := schema.Define[models.AreaPackageCount]().
		RegisterProperty(models.AreaPackageCountFields.AreaId).
		AsView(render, "AssignmentSummary").
		MustBuild()
	reg, err := schema.NewRegistry(a, b)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if _, err := diff.Plan(reg, diff.PlanOptions{Schema: "dbo"}); err == nil {
		t.Fatal("expected circular dependency error")
	}
}

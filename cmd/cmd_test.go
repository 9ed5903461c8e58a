package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
	"github.com/Altinn/altinn-authorization-tmp-sub012/diff"
	"github.com/Altinn/altinn-authorization-tmp-sub012/models"
	"github.com/Altinn/altinn-authorization-tmp-sub012/runner"
)

func TestFilterHistory(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []runner.JournalEntry{
		{ObjectName: "Role", Key: "CREATE TABLE dbo.Role", At: base},
		{ObjectName: "Area", Key: "CREATE TABLE dbo.Area", At: base.Add(time.Minute)},
		{ObjectName: "Role", Key: "ADD COLUMN dbo.Role.Code", At: base.Add(2 * time.Minute)},
	}

	all := filterHistory(entries, "", 0)
	if len(all) != 3 || all[0].Key != "ADD COLUMN dbo.Role.Code" {
		t.Fatalf("expected newest first, got %v", all)
	}

	roles := filterHistory(entries, "role", 0)
	if len(roles) != 2 {
		t.Fatalf("expected 2 Role entries, got %d", len(roles))
	}

	limited := filterHistory(entries, "", 1)
	if len(limited) != 1 || limited[0].ObjectName != "Role" {
		t.Errorf("unexpected limited history %v", limited)
	}
}

func TestGroupOperations(t *testing.T) {
	reg, err := models.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	ops, err := diff.Plan(reg, diff.PlanOptions{Schema: "dbo", TranslationSchema: "translation", HistorySchema: "history"})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	order, groups := groupOperations(ops)
	if order[0] != "dbo" {
		t.Errorf("expected the schema to come first, got %s", order[0])
	}

	seen := map[string]bool{}
	total := 0
	for _, name := range order {
		if seen[name] {
			t.Errorf("%s listed twice", name)
		}
		seen[name] = true
		total += len(groups[name])
	}
	if total != len(ops) {
		t.Errorf("expected %d grouped operations, got %d", len(ops), total)
	}
	if len(groups["Role"]) == 0 {
		t.Error("expected operations for Role")
	}
}

func TestGenerateMermaidContent(t *testing.T) {
	reg, err := models.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	out := generateMermaidContent(reg, dialect.MSSQLDialect{})
	for _, want := range []string{
		"```mermaid\nerDiagram\n",
		"    Role {\n",
		"        UNIQUEIDENTIFIER Id PK\n",
		"        NVARCHAR_200 Name \n",
		"        UNIQUEIDENTIFIER FromId FK\n",
		`    Entity ||--o{ Assignment : "FromId"`,
		`    Role ||--o{ Assignment : "RoleId"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected diagram to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "AssignmentSummary {") {
		t.Error("views must not be drawn as tables")
	}
	if strings.Contains(out, `Package ||--o{ Area`) {
		t.Error("list relations must not be drawn")
	}
}

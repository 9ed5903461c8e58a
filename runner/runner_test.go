package runner_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
	"github.com/Altinn/altinn-authorization-tmp-sub012/models"
	"github.com/Altinn/altinn-authorization-tmp-sub012/runner"
	"github.com/Altinn/altinn-authorization-tmp-sub012/testhelpers"
)

func newMSSQLEngine(t *testing.T) (*runner.Engine, *testhelpers.RecordingConn) {
	t.Helper()
	conn := &testhelpers.RecordingConn{}
	e := runner.New(conn, dialect.MSSQLDialect{}, testhelpers.NewRegistry(t), nil, runner.Options{CollectionId: "test"})
	if err := e.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return e, conn
}

func TestInitRequiresCollection(t *testing.T) {
	e := runner.New(&testhelpers.RecordingConn{}, dialect.MSSQLDialect{}, testhelpers.NewRegistry(t), nil, runner.Options{})
	if err := e.Init(context.Background()); err == nil {
		t.Fatal("expected error without collection id")
	}
	if e.State() != runner.Uninitialized {
		t.Errorf("expected uninitialized, got %s", e.State())
	}
}

func TestOperationsNeedInit(t *testing.T) {
	e := runner.New(&testhelpers.RecordingConn{}, dialect.MSSQLDialect{}, testhelpers.NewRegistry(t), nil, runner.Options{CollectionId: "test"})
	err := runner.CreateTableFor[models.Provider](context.Background(), e)
	if !errors.Is(err, runner.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestInitCreatesJournal(t *testing.T) {
	_, conn := newMSSQLEngine(t)

	var created bool
	for _, stmt := range conn.Execs {
		if strings.HasPrefix(stmt, "CREATE TABLE [dbo].[_MigrationJournal]") {
			created = true
		}
	}
	if !created {
		t.Fatalf("expected journal table to be created, got %v", conn.Execs)
	}
}

func TestCreateForeignKeyRunsOnce(t *testing.T) {
	e, conn := newMSSQLEngine(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := runner.CreateForeignKeyFor[models.Assignment, models.Entity](ctx, e, models.AssignmentFields.FromId, false); err != nil {
			t.Fatalf("create foreign key: %v", err)
		}
	}

	got := conn.Matching("ALTER TABLE")
	want := "ALTER TABLE [dbo].[Assignment] ADD CONSTRAINT [FK_Assignment_FromId] FOREIGN KEY ([FromId]) REFERENCES [dbo].[Entity] ([Id])"
	if len(got) != 1 {
		t.Fatalf("expected 1 statement, got %d: %v", len(got), got)
	}
	if got[0] != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got[0])
	}

	var found bool
	for _, entry := range e.Journal() {
		if entry.Key == "ADD CONSTRAINT dbo.Assignment.FK_Assignment_FromId" {
			found = true
			if entry.Status != runner.StatusApplied || entry.ObjectName != "Assignment" {
				t.Errorf("unexpected journal entry %+v", entry)
			}
		}
	}
	if !found {
		t.Error("expected foreign key in journal")
	}
}

func TestForeignKeyFieldOfOtherType(t *testing.T) {
	e, _ := newMSSQLEngine(t)
	err := runner.CreateForeignKeyFor[models.Assignment, models.Entity](context.Background(), e, models.RoleFields.ProviderId, false)
	var refErr *runner.ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected ReferenceError, got %v", err)
	}
}

func TestCreateTemporalTable(t *testing.T) {
	e, conn := newMSSQLEngine(t)
	if err := runner.CreateTableFor[models.Role](context.Background(), e); err != nil {
		t.Fatalf("create table: %v", err)
	}

	tables := conn.Matching("CREATE TABLE")
	if len(tables) != 2 {
		t.Fatalf("expected base and translation table, got %v", tables)
	}
	if !strings.Contains(tables[0], "HISTORY_TABLE = [history].[Role]") {
		t.Errorf("expected system versioned table, got %s", tables[0])
	}
	if !strings.HasPrefix(tables[1], "CREATE TABLE [translation].[Role]") ||
		!strings.Contains(tables[1], "PRIMARY KEY ([Id], [Language])") {
		t.Errorf("unexpected translation table %s", tables[1])
	}
	if strings.Contains(tables[1], "[ProviderId]") {
		t.Errorf("translation table must only hold string columns, got %s", tables[1])
	}
}

func TestCreateColumnForComplexField(t *testing.T) {
	e, conn := newMSSQLEngine(t)
	if err := runner.CreateColumnFor[models.Entity](context.Background(), e, models.EntityFields.Address); err != nil {
		t.Fatalf("create column: %v", err)
	}
	got := conn.Matching("ALTER TABLE")
	if len(got) != 3 {
		t.Fatalf("expected one column per leaf, got %v", got)
	}
	if got[0] != "ALTER TABLE [dbo].[Entity] ADD [Address_Street] NVARCHAR(MAX) NULL" {
		t.Errorf("unexpected statement %s", got[0])
	}
}

func TestDryRunExecutesNothing(t *testing.T) {
	conn := &testhelpers.RecordingConn{}
	e := runner.New(conn, dialect.MSSQLDialect{}, testhelpers.NewRegistry(t), nil, runner.Options{CollectionId: "test", DryRun: true})
	if err := e.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if len(conn.Execs) != 0 {
		t.Errorf("expected no statements, got %d", len(conn.Execs))
	}
	if len(e.Applied()) == 0 {
		t.Error("expected previewed scripts")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	conn := testhelpers.NewTestConn(t)
	reg := testhelpers.NewRegistry(t)
	ctx := context.Background()

	first := runner.New(conn, dialect.SQLiteDialect{}, reg, nil, runner.Options{CollectionId: "test"})
	if err := first.Migrate(ctx); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if len(first.Applied()) == 0 {
		t.Fatal("expected statements on the first run")
	}

	second := runner.New(conn, dialect.SQLiteDialect{}, reg, nil, runner.Options{CollectionId: "test"})
	if err := second.Migrate(ctx); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if n := len(second.Applied()); n != 0 {
		t.Errorf("expected no statements on the second run, got %d", n)
	}

	pending, err := second.Pending(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected nothing pending, got %v", pending[0].Key())
	}
}

func TestJournalStatuses(t *testing.T) {
	conn := testhelpers.NewTestConn(t)
	reg := testhelpers.NewRegistry(t)
	ctx := context.Background()

	if err := runner.New(conn, dialect.SQLiteDialect{}, reg, nil, runner.Options{CollectionId: "test"}).Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	e := runner.New(conn, dialect.SQLiteDialect{}, reg, nil, runner.Options{CollectionId: "test"})
	if err := e.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	statuses := map[string]string{}
	for _, entry := range e.Journal() {
		statuses[entry.Key] = entry.Status
	}
	if statuses["CREATE TABLE dbo.Provider"] != runner.StatusApplied {
		t.Errorf("expected table applied, got %q", statuses["CREATE TABLE dbo.Provider"])
	}
	if statuses["ADD COLUMN dbo.Provider.Name"] != runner.StatusIncluded {
		t.Errorf("expected column included, got %q", statuses["ADD COLUMN dbo.Provider.Name"])
	}
	if _, ok := statuses["CREATE VIEW dbo.AssignmentSummary.v1"]; !ok {
		t.Error("expected view in journal")
	}

	other := runner.New(conn, dialect.SQLiteDialect{}, reg, nil, runner.Options{CollectionId: "other"})
	if err := other.Init(ctx); err != nil {
		t.Fatalf("init other: %v", err)
	}
	if n := len(other.Journal()); n != 0 {
		t.Errorf("expected collections to be separate, got %d entries", n)
	}
}

func TestHistoryDowngradeWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core).Sugar()

	e := runner.New(testhelpers.NewTestConn(t), dialect.SQLiteDialect{}, testhelpers.NewRegistry(t), log, runner.Options{CollectionId: "test"})
	if err := e.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if n := logs.FilterMessageSnippet("history tables are not supported").Len(); n != 2 {
		t.Errorf("expected a warning for Role and Assignment, got %d", n)
	}
	if logs.FilterMessageSnippet("foreign keys are not supported").Len() == 0 {
		t.Error("expected skipped foreign keys to be reported")
	}
}

func TestSkippedForeignKeyIsJournaled(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core).Sugar()
	conn := testhelpers.NewTestConn(t)
	reg := testhelpers.NewRegistry(t)
	ctx := context.Background()

	if err := runner.New(conn, dialect.SQLiteDialect{}, reg, log, runner.Options{CollectionId: "test"}).Migrate(ctx); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	warned := logs.FilterMessageSnippet("foreign keys are not supported").Len()
	if warned == 0 {
		t.Fatal("expected skipped foreign keys to be reported")
	}

	second := runner.New(conn, dialect.SQLiteDialect{}, reg, log, runner.Options{CollectionId: "test"})
	if err := second.Migrate(ctx); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if n := logs.FilterMessageSnippet("foreign keys are not supported").Len(); n != warned {
		t.Errorf("expected no new warnings on the second run, got %d more", n-warned)
	}

	var found bool
	for _, entry := range second.Journal() {
		if entry.Key == "ADD CONSTRAINT dbo.Assignment.FK_Assignment_FromId" {
			found = true
			if entry.Status != runner.StatusIncluded || entry.Script != "" {
				t.Errorf("expected an included entry without script, got %+v", entry)
			}
		}
	}
	if !found {
		t.Error("expected the skipped foreign key in the journal")
	}
}

func TestCreateFunction(t *testing.T) {
	e, conn := newMSSQLEngine(t)
	ctx := context.Background()

	script := "CREATE OR ALTER FUNCTION dbo.fn_one() RETURNS INT AS BEGIN RETURN 1 END"
	for i := 0; i < 2; i++ {
		if err := e.CreateFunction(ctx, "", "fn_one", script); err != nil {
			t.Fatalf("create function: %v", err)
		}
	}
	if got := conn.Matching("CREATE OR ALTER FUNCTION"); len(got) != 1 {
		t.Errorf("expected function to run once, got %d", len(got))
	}

	var refErr *runner.ReferenceError
	if err := e.CreateFunction(ctx, "dbo", "fn_empty", " "); !errors.As(err, &refErr) {
		t.Errorf("expected ReferenceError for empty script, got %v", err)
	}
}

package testhelpers

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/Altinn/altinn-authorization-tmp-sub012/database"
	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
	"github.com/Altinn/altinn-authorization-tmp-sub012/models"
	"github.com/Altinn/altinn-authorization-tmp-sub012/runner"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

// CollectionId is the journal collection used by test migrations.
const CollectionId = "test"

// NewTestConn returns an in-memory SQLite connection configured the same way
// as production. It is closed when the test completes.
func NewTestConn(t *testing.T) database.Conn {
	t.Helper()

	conn, err := database.Open(context.Background(), dialect.SQLiteDialect{}, ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	t.Cleanup(conn.Close)

	return conn
}

// NewRegistry returns the catalog registry.
func NewRegistry(t *testing.T) *schema.Registry {
	t.Helper()

	reg, err := models.Registry()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

// NewMigratedConn returns an in-memory database with every catalog table and
// view created.
func NewMigratedConn(t *testing.T) (database.Conn, *schema.Registry) {
	t.Helper()

	conn := NewTestConn(t)
	reg := NewRegistry(t)
	engine := runner.New(conn, dialect.SQLiteDialect{}, reg, nil, runner.Options{CollectionId: CollectionId})
	if err := engine.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn, reg
}

// RecordingConn is a Conn that executes nothing. Statements are recorded and
// every query returns Rows.
type RecordingConn struct {
	mu    sync.Mutex
	Execs []string
	Rows  []map[string]any
}

func (c *RecordingConn) Exec(_ context.Context, sql string, _ ...any) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Execs = append(c.Execs, sql)
	return 0, nil
}

func (c *RecordingConn) Query(context.Context, string, ...any) ([]map[string]any, error) {
	return c.Rows, nil
}

func (c *RecordingConn) CopyFrom(_ context.Context, _ database.CopyTarget, rows [][]any) (int64, error) {
	return int64(len(rows)), nil
}

func (c *RecordingConn) Ping(context.Context) error { return nil }

func (c *RecordingConn) Close() {}

// Matching returns the recorded statements starting with prefix, the journal
// inserts excluded.
func (c *RecordingConn) Matching(prefix string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, stmt := range c.Execs {
		if strings.HasPrefix(stmt, prefix) && !strings.Contains(stmt, runner.JournalTable) {
			out = append(out, stmt)
		}
	}
	return out
}

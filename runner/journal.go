package runner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Altinn/altinn-authorization-tmp-sub012/database"
	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
	"github.com/Altinn/altinn-authorization-tmp-sub012/diff"
	"github.com/Altinn/altinn-authorization-tmp-sub012/introspect"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
)

// JournalTable is created in the default schema.
const JournalTable = "_MigrationJournal"

const (
	// StatusApplied marks an operation whose script was executed.
	StatusApplied = "Applied"
	// StatusIncluded marks a column created as part of its table.
	StatusIncluded = "Included"
)

// JournalEntry records one applied operation. Entries are never updated or
// deleted.
type JournalEntry struct {
	ObjectName   string
	Key          string
	At           time.Time
	Status       string
	Script       string
	CollectionId string
}

type journalKey struct {
	object string
	key    string
}

var journalColumns = []schema.DbProperty{
	{Name: "ObjectName", Kind: schema.KindString, Length: 400},
	{Name: "Key", Kind: schema.KindString, Length: 400},
	{Name: "At", Kind: schema.KindTime},
	{Name: "Status", Kind: schema.KindString, Length: 50},
	{Name: "Script", Kind: schema.KindString, Nullable: true},
	{Name: "CollectionId", Kind: schema.KindString, Length: 200},
}

func (e *Engine) journalTable() string {
	return e.d.Table(e.opts.Schema, JournalTable)
}

// ensureJournal creates the journal table when it is missing. A failed
// create is tolerated when the table turns out to exist afterwards, which
// happens when an earlier run stopped half way or another instance won.
func (e *Engine) ensureJournal(ctx context.Context) (bool, error) {
	exists, err := introspect.TableExists(ctx, e.conn, e.d, e.opts.Schema, JournalTable)
	if err != nil {
		e.log.Warnw("could not check migration journal", "error", err)
	}
	if exists {
		return true, nil
	}

	e.log.Warnw("migration journal not found, creating it", "table", e.journalTable())
	if e.opts.DryRun {
		return false, nil
	}

	if stmt := e.d.CreateSchema(e.opts.Schema); stmt != "" {
		if _, err := e.conn.Exec(ctx, stmt); err != nil {
			e.log.Errorw("failed to create schema", "schema", e.opts.Schema, "script", stmt, "error", err)
			return false, &MigrationError{Key: "CREATE SCHEMA " + e.opts.Schema, Script: stmt, Err: err}
		}
	}

	stmt := e.d.CreateTable(dialect.TableSpec{Schema: e.opts.Schema, Name: JournalTable, Columns: journalColumns})
	if _, err := e.conn.Exec(ctx, stmt); err != nil {
		if again, checkErr := introspect.TableExists(ctx, e.conn, e.d, e.opts.Schema, JournalTable); checkErr == nil && again {
			e.log.Warnw("migration journal appeared while creating it", "error", err)
			return true, nil
		}
		e.log.Errorw("failed to create migration journal", "script", stmt, "error", err)
		return false, &MigrationError{Key: "CREATE TABLE " + e.opts.Schema + "." + JournalTable, Script: stmt, Err: err}
	}
	return true, nil
}

// loadJournal reads the entries of this collection. A read failure leaves
// the journal empty.
func (e *Engine) loadJournal(ctx context.Context) {
	cols := make([]string, len(journalColumns))
	for i, c := range journalColumns {
		cols[i] = e.d.Quote(c.Name)
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		strings.Join(cols, ", "), e.journalTable(), e.d.Quote("CollectionId"), e.d.Placeholder(1))

	rows, err := e.conn.Query(ctx, q, e.opts.CollectionId)
	if err != nil {
		e.log.Warnw("could not read migration journal, continuing with an empty journal", "error", err)
		return
	}
	var entries []JournalEntry
	if err := database.Decode(rows, &entries); err != nil {
		e.log.Warnw("could not decode migration journal, continuing with an empty journal", "error", err)
		return
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].At.Before(entries[j].At) })
	for _, entry := range entries {
		e.remember(entry)
	}
	e.log.Debugw("migration journal loaded", "entries", len(entries), "collection", e.opts.CollectionId)
}

func (e *Engine) remember(entry JournalEntry) {
	k := journalKey{entry.ObjectName, entry.Key}
	if _, ok := e.journal[k]; ok {
		return
	}
	e.journal[k] = entry
	e.entries = append(e.entries, entry)
}

func (e *Engine) done(op diff.Operation) bool {
	_, ok := e.journal[journalKey{op.ObjectName(), op.Key()}]
	return ok
}

// record persists an entry and then adds it to the in-memory journal.
func (e *Engine) record(ctx context.Context, op diff.Operation, script, status string) error {
	entry := JournalEntry{
		ObjectName:   op.ObjectName(),
		Key:          op.Key(),
		At:           e.now().UTC(),
		Status:       status,
		Script:       script,
		CollectionId: e.opts.CollectionId,
	}
	if !e.opts.DryRun {
		cols := make([]string, len(journalColumns))
		params := make([]string, len(journalColumns))
		for i, c := range journalColumns {
			cols[i] = e.d.Quote(c.Name)
			params[i] = e.d.Placeholder(i + 1)
		}
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", e.journalTable(), strings.Join(cols, ", "), strings.Join(params, ", "))
		if _, err := e.conn.Exec(ctx, q, entry.ObjectName, entry.Key, entry.At, entry.Status, entry.Script, entry.CollectionId); err != nil {
			e.log.Errorw("failed to write migration journal", "key", entry.Key, "error", err)
			return &MigrationError{Key: entry.Key, Script: q, Err: err}
		}
	}
	e.remember(entry)
	return nil
}

package persistence

import (
	"sync"

	"github.com/chahine-tech/reldb/internal/database"
	"github.com/chahine-tech/reldb/internal/errs"
	"github.com/chahine-tech/reldb/internal/table"
	"github.com/chahine-tech/reldb/internal/types"
)

// MemBackend is an in-memory implementation of database.Backend, used by
// tests that want real save/load round-trips without touching disk. It
// stores deep copies so callers can't mutate saved state through a live
// reference.
type MemBackend struct {
	mu  sync.Mutex
	dbs map[string]*database.Database
}

// NewMemBackend returns an empty in-memory backend.
func NewMemBackend() *MemBackend {
	return &MemBackend{dbs: make(map[string]*database.Database)}
}

func cloneTable(tbl *table.Table) *table.Table {
	rows := make([]types.Row, len(tbl.Rows))
	for i, row := range tbl.Rows {
		rows[i] = append(types.Row(nil), row...)
	}
	schema := tbl.Schema
	schema.ColumnNames = append([]string(nil), tbl.Schema.ColumnNames...)
	schema.ColumnTypes = append([]types.ColumnType(nil), tbl.Schema.ColumnTypes...)
	return &table.Table{Schema: schema, Rows: rows}
}

func (b *MemBackend) SaveDatabase(db *database.Database) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	clone := database.New(db.Name)
	for name, tbl := range db.Tables {
		clone.Tables[name] = cloneTable(tbl)
	}
	b.dbs[db.Name] = clone
	return nil
}

func (b *MemBackend) SaveTable(dbName string, tbl *table.Table) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	db, ok := b.dbs[dbName]
	if !ok {
		db = database.New(dbName)
		b.dbs[dbName] = db
	}
	db.Tables[tbl.Schema.Name] = cloneTable(tbl)
	return nil
}

func (b *MemBackend) DeleteDatabase(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.dbs, name)
	return nil
}

func (b *MemBackend) DeleteTable(dbName, tableName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	db, ok := b.dbs[dbName]
	if !ok {
		return nil
	}
	delete(db.Tables, tableName)
	return nil
}

func (b *MemBackend) LoadDatabase(name string) (*database.Database, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	db, ok := b.dbs[name]
	if !ok {
		return nil, errs.DatabaseDoesNotExist(name)
	}
	clone := database.New(name)
	for tname, tbl := range db.Tables {
		clone.Tables[tname] = cloneTable(tbl)
	}
	return clone, nil
}

// ListDatabases returns the names of every saved database, in no
// particular order.
func (b *MemBackend) ListDatabases() ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.dbs))
	for name := range b.dbs {
		names = append(names, name)
	}
	return names, nil
}

// NoopBackend discards every write and fails every load, for tests that
// never select a database through persistence at all.
type NoopBackend struct{}

func (NoopBackend) SaveDatabase(*database.Database) error        { return nil }
func (NoopBackend) SaveTable(string, *table.Table) error         { return nil }
func (NoopBackend) DeleteDatabase(string) error                  { return nil }
func (NoopBackend) DeleteTable(string, string) error             { return nil }
func (NoopBackend) LoadDatabase(name string) (*database.Database, error) {
	return nil, errs.DatabaseDoesNotExist(name)
}
func (NoopBackend) ListDatabases() ([]string, error) { return nil, nil }

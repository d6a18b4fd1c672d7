package database

import "github.com/chahine-tech/reldb/internal/table"

// Backend abstracts the persistence layer that a Runtime talks to. It is
// defined here (rather than in the persistence package) so that this
// package never needs to import persistence — persistence imports
// database to implement Backend, not the other way around.
type Backend interface {
	SaveDatabase(db *Database) error
	SaveTable(dbName string, tbl *table.Table) error
	DeleteDatabase(name string) error
	DeleteTable(dbName, tableName string) error
	LoadDatabase(name string) (*Database, error)
	ListDatabases() ([]string, error)
}

// Runtime is the per-session evaluation context: an optionally selected
// Database plus a reference to the persistence backend. The Runtime
// exclusively owns Current; Current exclusively owns its Tables.
type Runtime struct {
	Current *Database
	Backend Backend
}

// NewRuntime returns an empty Runtime bound to backend.
func NewRuntime(backend Backend) *Runtime {
	return &Runtime{Backend: backend}
}

// Select makes db the current database.
func (r *Runtime) Select(db *Database) {
	r.Current = db
}

// Clear drops the current database selection, e.g. on session close.
func (r *Runtime) Clear() {
	r.Current = nil
}

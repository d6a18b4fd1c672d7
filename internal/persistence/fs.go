// Package persistence implements the on-disk backend for databases and
// tables, plus an in-memory backend used by tests and a no-op backend
// used where no durability is required.
package persistence

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/chahine-tech/reldb/internal/codec"
	"github.com/chahine-tech/reldb/internal/database"
	"github.com/chahine-tech/reldb/internal/errs"
	"github.com/chahine-tech/reldb/internal/table"
)

// dirMode is the permission mode for database directories, per the
// filesystem layout section: <root>/<database-name>/<table-name>.
const dirMode = 0o750

// FSBackend implements database.Backend over a directory tree rooted at
// Root. Writes to a single database directory are serialized by a
// per-database mutex so concurrent sessions touching the same database
// don't interleave a directory create with a table write.
type FSBackend struct {
	Root string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFSBackend returns a backend rooted at root. The root directory
// itself is not created until the first database is saved.
func NewFSBackend(root string) *FSBackend {
	return &FSBackend{Root: root, locks: make(map[string]*sync.Mutex)}
}

func (b *FSBackend) lockFor(dbName string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.locks[dbName]
	if !ok {
		l = &sync.Mutex{}
		b.locks[dbName] = l
	}
	return l
}

func (b *FSBackend) dbDir(name string) string {
	return filepath.Join(b.Root, name)
}

func (b *FSBackend) tableFile(dbName, tableName string) string {
	return filepath.Join(b.dbDir(dbName), tableName)
}

// writeFileAtomic writes data to path by writing a temp file in the same
// directory and renaming it into place, so a concurrent reader never
// observes a partially written table file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// SaveDatabase creates the database directory and writes every table in
// it. Per spec, this is a create-dir-then-serialize-every-table
// operation, not a diff against what's already on disk.
func (b *FSBackend) SaveDatabase(db *database.Database) error {
	lock := b.lockFor(db.Name)
	lock.Lock()
	defer lock.Unlock()

	dir := b.dbDir(db.Name)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return errs.FSError(err)
	}
	for name, tbl := range db.Tables {
		data := codec.EncodeTable(tbl)
		if err := writeFileAtomic(b.tableFile(db.Name, name), data); err != nil {
			return errs.CouldNotStoreTable(name, err)
		}
	}
	return nil
}

// SaveTable overwrites a single table's file without touching its
// siblings.
func (b *FSBackend) SaveTable(dbName string, tbl *table.Table) error {
	lock := b.lockFor(dbName)
	lock.Lock()
	defer lock.Unlock()

	dir := b.dbDir(dbName)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return errs.FSError(err)
	}
	data := codec.EncodeTable(tbl)
	if err := writeFileAtomic(b.tableFile(dbName, tbl.Schema.Name), data); err != nil {
		return errs.CouldNotStoreTable(tbl.Schema.Name, err)
	}
	return nil
}

// DeleteDatabase removes the database's directory and everything in it.
func (b *FSBackend) DeleteDatabase(name string) error {
	lock := b.lockFor(name)
	lock.Lock()
	defer lock.Unlock()

	if err := os.RemoveAll(b.dbDir(name)); err != nil {
		return errs.CouldNotRemoveDatabase(name, err)
	}
	return nil
}

// DeleteTable removes a single table's file.
func (b *FSBackend) DeleteTable(dbName, tableName string) error {
	lock := b.lockFor(dbName)
	lock.Lock()
	defer lock.Unlock()

	if err := os.Remove(b.tableFile(dbName, tableName)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errs.CouldNotRemoveTable(tableName, err)
	}
	return nil
}

// LoadDatabase reads every file in the database's directory, decoding
// each as a Table and inserting it by name. A missing directory is
// DatabaseDoesNotExist rather than a generic FSError, since it's the
// expected shape of "no such database".
func (b *FSBackend) LoadDatabase(name string) (*database.Database, error) {
	lock := b.lockFor(name)
	lock.Lock()
	defer lock.Unlock()

	dir := b.dbDir(name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.DatabaseDoesNotExist(name)
		}
		return nil, errs.FSError(err)
	}

	db := database.New(name)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, errs.FSError(err)
		}
		tbl, err := codec.DecodeTable(data)
		if err != nil {
			return nil, err
		}
		db.Tables[tbl.Schema.Name] = tbl
	}
	return db, nil
}

// ListDatabases returns the name of every database directory under Root.
// A not-yet-created Root (no database has ever been saved) is an empty
// list, not an error.
func (b *FSBackend) ListDatabases() ([]string, error) {
	entries, err := os.ReadDir(b.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errs.FSError(err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

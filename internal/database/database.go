// Package database maintains named tables and lowers parsed statements
// into table-engine operations.
package database

import (
	"github.com/chahine-tech/reldb/internal/errs"
	"github.com/chahine-tech/reldb/internal/table"
	"github.com/chahine-tech/reldb/internal/types"
)

// Database is a name plus a mapping from table name to Table.
type Database struct {
	Name   string
	Tables map[string]*table.Table
}

// New returns an empty, named database.
func New(name string) *Database {
	return &Database{Name: name, Tables: make(map[string]*table.Table)}
}

// CreateTable adds a new table, rejecting a duplicate name.
func (d *Database) CreateTable(schema types.TableSchema) (*table.Table, error) {
	if _, ok := d.Tables[schema.Name]; ok {
		return nil, errs.DuplicateTable(schema.Name)
	}
	tbl, err := table.New(schema)
	if err != nil {
		return nil, err
	}
	d.Tables[schema.Name] = tbl
	return tbl, nil
}

// DropTable removes a table by name.
func (d *Database) DropTable(name string) error {
	if _, ok := d.Tables[name]; !ok {
		return errs.TableDoesNotExist(name)
	}
	delete(d.Tables, name)
	return nil
}

func (d *Database) lookup(name string) (*table.Table, error) {
	tbl, ok := d.Tables[name]
	if !ok {
		return nil, errs.TableDoesNotExist(name)
	}
	return tbl, nil
}

// Insert forwards to the named table's Insert/InsertMultiple.
func (d *Database) Insert(tableName string, rows []types.Row) error {
	tbl, err := d.lookup(tableName)
	if err != nil {
		return err
	}
	return tbl.InsertMultiple(rows)
}

// Select forwards to the named table's Select.
func (d *Database) Select(tableName string, sel table.Selector, where *table.PreparedWhere) (table.RowSet, error) {
	tbl, err := d.lookup(tableName)
	if err != nil {
		return table.RowSet{}, err
	}
	return tbl.Select(sel, where)
}

// Update forwards to the named table's Update.
func (d *Database) Update(tableName string, names []string, values []types.ColumnValue, where *table.PreparedWhere) error {
	tbl, err := d.lookup(tableName)
	if err != nil {
		return err
	}
	return tbl.Update(names, values, where)
}

// Delete forwards to the named table's Delete.
func (d *Database) Delete(tableName string, where *table.PreparedWhere) error {
	tbl, err := d.lookup(tableName)
	if err != nil {
		return err
	}
	return tbl.Delete(where)
}

// Table returns the named table, for persistence and PrepareWhere.
func (d *Database) Table(name string) (*table.Table, error) {
	return d.lookup(name)
}

// TableNames returns the names of every table, for ListTables.
func (d *Database) TableNames() []string {
	names := make([]string, 0, len(d.Tables))
	for name := range d.Tables {
		names = append(names, name)
	}
	return names
}

// Package table implements row storage, schema checks, and the
// select/insert/update/delete operations that the database evaluator
// dispatches to.
package table

import (
	"github.com/chahine-tech/reldb/internal/errs"
	"github.com/chahine-tech/reldb/internal/types"
)

// Table is a schema plus an ordered sequence of rows.
type Table struct {
	Schema types.TableSchema
	Rows   []types.Row
}

// New constructs an empty table, rejecting duplicate column names.
func New(schema types.TableSchema) (*Table, error) {
	seen := make(map[string]struct{}, len(schema.ColumnNames))
	for _, name := range schema.ColumnNames {
		if _, ok := seen[name]; ok {
			return nil, errs.ColumnNameNotUnique(name)
		}
		seen[name] = struct{}{}
	}
	return &Table{Schema: schema}, nil
}

// Insert appends row if its value kinds match the schema positionally.
func (t *Table) Insert(row types.Row) error {
	want := t.Schema.ColumnTypes
	got := row.Types()
	if !types.TypesEqual(got, want) {
		return errs.IncompatibleTypes(got, want)
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// InsertMultiple inserts each row in order. A failure aborts at the first
// error; rows inserted before the failing one remain in the table.
func (t *Table) InsertMultiple(rows []types.Row) error {
	for _, row := range rows {
		if err := t.Insert(row); err != nil {
			return err
		}
	}
	return nil
}

// RowSet is a projection result: parallel column types/names plus the
// projected rows, in insertion order.
type RowSet struct {
	Types []types.ColumnType
	Names []string
	Rows  []types.Row
}

// Equal compares two row-sets ignoring names, per spec: only types and
// values participate in equality.
func (rs RowSet) Equal(other RowSet) bool {
	if !types.TypesEqual(rs.Types, other.Types) {
		return false
	}
	if len(rs.Rows) != len(other.Rows) {
		return false
	}
	for i := range rs.Rows {
		if !rs.Rows[i].Equal(other.Rows[i]) {
			return false
		}
	}
	return true
}

// Selector picks either every column (in schema order) or an explicit,
// possibly empty, list of column names.
type Selector struct {
	All   bool
	Names []string // non-nil (possibly empty) when All is false
}

func (t *Table) resolveIndices(sel Selector) ([]int, []string, error) {
	if sel.All {
		indices := make([]int, len(t.Schema.ColumnNames))
		names := make([]string, len(t.Schema.ColumnNames))
		for i, name := range t.Schema.ColumnNames {
			indices[i] = i
			names[i] = name
		}
		return indices, names, nil
	}

	indices := make([]int, len(sel.Names))
	for i, name := range sel.Names {
		idx := t.Schema.IndexOf(name)
		if idx < 0 {
			return nil, nil, errs.NameDoesNotExist(name, t.Schema.ColumnNames)
		}
		indices[i] = idx
	}
	return indices, sel.Names, nil
}

// Select projects sel over rows matching where (nil matches every row),
// returning a RowSet in insertion order.
func (t *Table) Select(sel Selector, where *PreparedWhere) (RowSet, error) {
	indices, names, err := t.resolveIndices(sel)
	if err != nil {
		return RowSet{}, err
	}

	columnTypes := make([]types.ColumnType, len(indices))
	for i, idx := range indices {
		columnTypes[i] = t.Schema.ColumnTypes[idx]
	}

	var rows []types.Row
	for _, row := range t.Rows {
		ok, err := matches(row, where)
		if err != nil {
			return RowSet{}, err
		}
		if !ok {
			continue
		}
		projected := make(types.Row, len(indices))
		for i, idx := range indices {
			projected[i] = row[idx]
		}
		rows = append(rows, projected)
	}

	return RowSet{Types: columnTypes, Names: names, Rows: rows}, nil
}

// Update overwrites names[i] with newValues[i] on every row matching
// where. Types of newValues must equal the schema types at the resolved
// indices.
func (t *Table) Update(names []string, newValues []types.ColumnValue, where *PreparedWhere) error {
	if len(names) != len(newValues) {
		return errs.UnequalLengths(len(newValues), len(names))
	}

	indices := make([]int, len(names))
	for i, name := range names {
		idx := t.Schema.IndexOf(name)
		if idx < 0 {
			return errs.NameDoesNotExist(name, t.Schema.ColumnNames)
		}
		indices[i] = idx
	}

	wantTypes := make([]types.ColumnType, len(indices))
	for i, idx := range indices {
		wantTypes[i] = t.Schema.ColumnTypes[idx]
	}
	gotTypes := make([]types.ColumnType, len(newValues))
	for i, v := range newValues {
		gotTypes[i] = v.Type()
	}
	if !types.TypesEqual(gotTypes, wantTypes) {
		return errs.IncompatibleTypes(gotTypes, wantTypes)
	}

	for rowIdx := range t.Rows {
		ok, err := matches(t.Rows[rowIdx], where)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		for i, idx := range indices {
			t.Rows[rowIdx][idx] = newValues[i]
		}
	}
	return nil
}

// Delete removes every row matching where, preserving the relative order
// of survivors.
func (t *Table) Delete(where *PreparedWhere) error {
	survivors := t.Rows[:0:0]
	for _, row := range t.Rows {
		ok, err := matches(row, where)
		if err != nil {
			return err
		}
		if !ok {
			survivors = append(survivors, row)
		}
	}
	t.Rows = survivors
	return nil
}

// PrepareWhere resolves a WHERE clause's left identifier to a column
// index against this table's schema, and requires the right side to be a
// value literal.
func (t *Table) PrepareWhere(left string, op Operator, right types.ColumnValue) (PreparedWhere, error) {
	idx := t.Schema.IndexOf(left)
	if idx < 0 {
		return PreparedWhere{}, errs.NameDoesNotExist(left, t.Schema.ColumnNames)
	}
	return PreparedWhere{LeftIndex: idx, Op: op, Right: right}, nil
}

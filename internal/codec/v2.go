package codec

import (
	"github.com/chahine-tech/reldb/internal/table"
	"github.com/chahine-tech/reldb/internal/types"
)

// encodeSchemaV2 writes name, types (length-prefixed), then column names
// (length-prefixed) — exactly the field order of spec section 4.5.
func encodeSchemaV2(b *buffer, s types.TableSchema) {
	b.writeString(s.Name)
	b.writeTypeVec(s.ColumnTypes)
	b.writeStringVec(s.ColumnNames)
}

func decodeSchemaV2(c *cursor) (types.TableSchema, error) {
	name, err := c.readString()
	if err != nil {
		return types.TableSchema{}, err
	}
	colTypes, err := c.readTypeVec()
	if err != nil {
		return types.TableSchema{}, err
	}
	colNames, err := c.readStringVec()
	if err != nil {
		return types.TableSchema{}, err
	}
	return types.TableSchema{Name: name, ColumnTypes: colTypes, ColumnNames: colNames}, nil
}

// encodeTableV2 writes schema then rows (length-prefixed), per spec.
func encodeTableV2(b *buffer, t *table.Table) {
	encodeSchemaV2(b, t.Schema)
	b.writeU64(uint64(len(t.Rows)))
	for _, row := range t.Rows {
		b.writeRow(row)
	}
}

func decodeTableV2(c *cursor) (*table.Table, error) {
	schema, err := decodeSchemaV2(c)
	if err != nil {
		return nil, err
	}
	n, err := c.readU64()
	if err != nil {
		return nil, err
	}
	rows := make([]types.Row, n)
	for i := range rows {
		row, err := c.readRow(schema.ColumnTypes)
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return &table.Table{Schema: schema, Rows: rows}, nil
}

// encodeRowSetV2 writes types, names, values — in that order, per spec.
func encodeRowSetV2(b *buffer, rs table.RowSet) {
	b.writeTypeVec(rs.Types)
	b.writeStringVec(rs.Names)
	b.writeU64(uint64(len(rs.Rows)))
	for _, row := range rs.Rows {
		b.writeRow(row)
	}
}

func decodeRowSetV2(c *cursor) (table.RowSet, error) {
	colTypes, err := c.readTypeVec()
	if err != nil {
		return table.RowSet{}, err
	}
	names, err := c.readStringVec()
	if err != nil {
		return table.RowSet{}, err
	}
	n, err := c.readU64()
	if err != nil {
		return table.RowSet{}, err
	}
	rows := make([]types.Row, n)
	for i := range rows {
		row, err := c.readRow(colTypes)
		if err != nil {
			return table.RowSet{}, err
		}
		rows[i] = row
	}
	return table.RowSet{Types: colTypes, Names: names, Rows: rows}, nil
}

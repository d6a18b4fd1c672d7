package codec

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/chahine-tech/reldb/internal/table"
	"github.com/chahine-tech/reldb/internal/types"
)

func mustTable(t *testing.T, schema types.TableSchema, rows ...types.Row) *table.Table {
	t.Helper()
	tbl, err := table.New(schema)
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	if err := tbl.InsertMultiple(rows); err != nil {
		t.Fatalf("InsertMultiple: %v", err)
	}
	return tbl
}

func TestRoundTripTableWithAllTypes(t *testing.T) {
	schema := types.TableSchema{
		Name:        "widgets",
		ColumnNames: []string{"id", "price", "label", "active"},
		ColumnTypes: []types.ColumnType{types.Int, types.Decimal, types.Text, types.Bool},
	}
	tbl := mustTable(t, schema,
		types.Row{types.NewInt(1), types.NewDecimal(19, 99), types.NewText("widget"), types.NewBool(true)},
		types.Row{types.NewInt(2), types.NewDecimal(0, 5), types.NewText(""), types.NewBool(false)},
	)

	encoded := EncodeTable(tbl)
	if encoded[0] != byte(V2) {
		t.Fatalf("expected leading version byte %d, got %d", V2, encoded[0])
	}

	decoded, err := DecodeTable(encoded)
	if err != nil {
		t.Fatalf("DecodeTable: %v", err)
	}
	if decoded.Schema.Name != tbl.Schema.Name || len(decoded.Rows) != len(tbl.Rows) {
		t.Fatalf("got %+v, want %+v", decoded, tbl)
	}
	for i, row := range tbl.Rows {
		if !row.Equal(decoded.Rows[i]) {
			t.Fatalf("row %d: got %v, want %v", i, decoded.Rows[i], row)
		}
	}
}

func TestRoundTripEmptyTable(t *testing.T) {
	schema := types.TableSchema{
		Name:        "empty",
		ColumnNames: []string{"a"},
		ColumnTypes: []types.ColumnType{types.Int},
	}
	tbl := mustTable(t, schema)
	decoded, err := DecodeTable(EncodeTable(tbl))
	if err != nil {
		t.Fatalf("DecodeTable: %v", err)
	}
	if len(decoded.Rows) != 0 {
		t.Fatalf("got %d rows, want 0", len(decoded.Rows))
	}
}

func TestDecimalPrecisionSurvivesRoundTrip(t *testing.T) {
	schema := types.TableSchema{
		Name:        "t",
		ColumnNames: []string{"d"},
		ColumnTypes: []types.ColumnType{types.Decimal},
	}
	tbl := mustTable(t, schema, types.Row{types.NewDecimal(1, 5)}, types.Row{types.NewDecimal(1, 50)})
	decoded, err := DecodeTable(EncodeTable(tbl))
	if err != nil {
		t.Fatalf("DecodeTable: %v", err)
	}
	if decoded.Rows[0][0].Frac != 5 || decoded.Rows[1][0].Frac != 50 {
		t.Fatalf("lost distinct fractional parts: %+v", decoded.Rows)
	}
}

func TestRoundTripRowSet(t *testing.T) {
	rs := table.RowSet{
		Types: []types.ColumnType{types.Text, types.Bool},
		Names: []string{"name", "ok"},
		Rows: []types.Row{
			{types.NewText("a"), types.NewBool(true)},
			{types.NewText("b"), types.NewBool(false)},
		},
	}
	decoded, err := DecodeRowSet(EncodeRowSet(rs))
	if err != nil {
		t.Fatalf("DecodeRowSet: %v", err)
	}
	if !decoded.Equal(rs) {
		t.Fatalf("got %+v, want %+v", decoded, rs)
	}
}

func TestDecodeTableRejectsBadTypeDiscriminator(t *testing.T) {
	schema := types.TableSchema{
		Name:        "t",
		ColumnNames: []string{"a"},
		ColumnTypes: []types.ColumnType{types.Int},
	}
	tbl := mustTable(t, schema, types.Row{types.NewInt(1)})
	encoded := EncodeTable(tbl)

	// Corrupt the type-vector entry (comes right after the 8-byte name
	// length + name bytes + 8-byte type-vec length) to an invalid byte.
	nameLen := int(encoded[1]) // "t" is short, length fits in the low byte
	typeByteOffset := 1 + 8 + nameLen + 8
	corrupted := append([]byte(nil), encoded...)
	corrupted[typeByteOffset] = 0xFF

	if _, err := DecodeTable(corrupted); err == nil {
		t.Fatal("expected NotATypeDiscriminator error")
	}
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	data := []byte{0x09, 0, 0, 0}
	if _, err := DecodeTable(data); err == nil {
		t.Fatal("expected IncompatibleVersion error")
	}
	if _, err := DecodeRowSet(data); err == nil {
		t.Fatal("expected IncompatibleVersion error")
	}
}

func TestDecodeTableTruncatedInputFails(t *testing.T) {
	schema := types.TableSchema{
		Name:        "t",
		ColumnNames: []string{"a"},
		ColumnTypes: []types.ColumnType{types.Int},
	}
	tbl := mustTable(t, schema, types.Row{types.NewInt(1)})
	encoded := EncodeTable(tbl)
	truncated := encoded[:len(encoded)-3]

	if _, err := DecodeTable(truncated); err == nil {
		t.Fatal("expected InputTooShort error")
	}
}

func TestDecodeTableWithTrailingBytesWarnsAndIgnores(t *testing.T) {
	logger, hook := test.NewNullLogger()
	SetLogger(logger)
	defer SetLogger(logrus.StandardLogger())

	schema := types.TableSchema{
		Name:        "t",
		ColumnNames: []string{"a"},
		ColumnTypes: []types.ColumnType{types.Int},
	}
	tbl := mustTable(t, schema, types.Row{types.NewInt(1)})
	encoded := append(EncodeTable(tbl), 0xAA, 0xBB, 0xCC)

	decoded, err := DecodeTable(encoded)
	if err != nil {
		t.Fatalf("DecodeTable: %v", err)
	}
	if len(decoded.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(decoded.Rows))
	}

	entries := hook.AllEntries()
	if len(entries) != 1 || entries[0].Level != logrus.WarnLevel {
		t.Fatalf("got %+v, want exactly one Warn entry", entries)
	}
	if n, ok := entries[0].Data["trailing_bytes"].(int); !ok || n != 3 {
		t.Fatalf("got trailing_bytes field %v, want 3", entries[0].Data["trailing_bytes"])
	}
}

func TestSchemaRoundTrip(t *testing.T) {
	schema := types.TableSchema{
		Name:        "s",
		ColumnNames: []string{"x", "y"},
		ColumnTypes: []types.ColumnType{types.Int, types.Text},
	}
	decoded, err := DecodeSchema(EncodeSchema(schema))
	if err != nil {
		t.Fatalf("DecodeSchema: %v", err)
	}
	if decoded.Name != schema.Name || len(decoded.ColumnNames) != 2 {
		t.Fatalf("got %+v, want %+v", decoded, schema)
	}
}

package table

import (
	"testing"

	"github.com/chahine-tech/reldb/internal/types"
)

func testSchema() types.TableSchema {
	return types.TableSchema{
		Name:        "t",
		ColumnNames: []string{"a", "b"},
		ColumnTypes: []types.ColumnType{types.Int, types.Bool},
	}
}

func mustTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(testSchema())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tbl
}

func TestNewRejectsDuplicateColumnNames(t *testing.T) {
	_, err := New(types.TableSchema{
		Name:        "t",
		ColumnNames: []string{"a", "a"},
		ColumnTypes: []types.ColumnType{types.Int, types.Int},
	})
	if err == nil {
		t.Fatal("expected ColumnNameNotUnique error")
	}
}

func TestInsertSchemaIntegrity(t *testing.T) {
	tbl := mustTable(t)
	if err := tbl.Insert(types.Row{types.NewInt(5), types.NewBool(true)}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(tbl.Rows))
	}
	for i, v := range tbl.Rows[0] {
		if v.Type() != tbl.Schema.ColumnTypes[i] {
			t.Fatalf("row[%d] type %s != schema type %s", i, v.Type(), tbl.Schema.ColumnTypes[i])
		}
	}
}

func TestInsertIncompatibleTypes(t *testing.T) {
	tbl := mustTable(t)
	err := tbl.Insert(types.Row{types.NewInt(5), types.NewInt(6)})
	if err == nil {
		t.Fatal("expected IncompatibleTypes error")
	}
}

func TestInsertMultiplePartialFailureKeepsPriorRows(t *testing.T) {
	tbl := mustTable(t)
	rows := []types.Row{
		{types.NewInt(1), types.NewBool(true)},
		{types.NewInt(2), types.NewInt(3)}, // bad
		{types.NewInt(4), types.NewBool(false)},
	}
	err := tbl.InsertMultiple(rows)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("got %d rows, want 1 (only the first insert should have landed)", len(tbl.Rows))
	}
}

func TestSelectAllColumns(t *testing.T) {
	tbl := mustTable(t)
	_ = tbl.Insert(types.Row{types.NewInt(5), types.NewBool(true)})
	_ = tbl.Insert(types.Row{types.NewInt(6), types.NewBool(false)})

	rs, err := tbl.Select(Selector{All: true}, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rs.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rs.Rows))
	}
	if rs.Names[0] != "a" || rs.Names[1] != "b" {
		t.Fatalf("got names %v", rs.Names)
	}
}

func TestSelectEmptyNameListProducesZeroWidthRows(t *testing.T) {
	tbl := mustTable(t)
	_ = tbl.Insert(types.Row{types.NewInt(5), types.NewBool(true)})

	rs, err := tbl.Select(Selector{Names: []string{}}, nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rs.Rows) != 1 || len(rs.Rows[0]) != 0 {
		t.Fatalf("got rows %v, want one row of length zero", rs.Rows)
	}
}

func TestSelectUnknownNameFails(t *testing.T) {
	tbl := mustTable(t)
	_, err := tbl.Select(Selector{Names: []string{"nope"}}, nil)
	if err == nil {
		t.Fatal("expected NameDoesNotExist error")
	}
}

func TestSelectWithWhere(t *testing.T) {
	tbl := mustTable(t)
	_ = tbl.Insert(types.Row{types.NewInt(5), types.NewBool(true)})
	_ = tbl.Insert(types.Row{types.NewInt(6), types.NewBool(false)})

	where, err := tbl.PrepareWhere("b", OpEq, types.NewBool(true))
	if err != nil {
		t.Fatalf("PrepareWhere: %v", err)
	}
	rs, err := tbl.Select(Selector{All: true}, &where)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(rs.Rows) != 1 || rs.Rows[0][0].IntVal != 5 {
		t.Fatalf("got %v", rs.Rows)
	}
}

func TestUpdateOverwritesMatchingRows(t *testing.T) {
	tbl := mustTable(t)
	_ = tbl.Insert(types.Row{types.NewInt(5), types.NewBool(true)})
	_ = tbl.Insert(types.Row{types.NewInt(6), types.NewBool(true)})

	where, _ := tbl.PrepareWhere("a", OpEq, types.NewInt(5))
	err := tbl.Update([]string{"b"}, []types.ColumnValue{types.NewBool(false)}, &where)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if tbl.Rows[0][1].BoolVal != false || tbl.Rows[1][1].BoolVal != true {
		t.Fatalf("got %v", tbl.Rows)
	}
}

func TestUpdateIncompatibleTypes(t *testing.T) {
	tbl := mustTable(t)
	_ = tbl.Insert(types.Row{types.NewInt(5), types.NewBool(true)})
	err := tbl.Update([]string{"b"}, []types.ColumnValue{types.NewInt(1)}, nil)
	if err == nil {
		t.Fatal("expected IncompatibleTypes error")
	}
}

func TestDeletePreservesOrderOfSurvivors(t *testing.T) {
	tbl := mustTable(t)
	_ = tbl.Insert(types.Row{types.NewInt(1), types.NewBool(true)})
	_ = tbl.Insert(types.Row{types.NewInt(2), types.NewBool(false)})
	_ = tbl.Insert(types.Row{types.NewInt(3), types.NewBool(true)})

	where, _ := tbl.PrepareWhere("b", OpEq, types.NewBool(true))
	if err := tbl.Delete(&where); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0][0].IntVal != 2 {
		t.Fatalf("got %v", tbl.Rows)
	}
}

func TestPredicateTotalityNeverPanics(t *testing.T) {
	row := types.Row{types.NewText("x"), types.NewBool(true)}
	where := &PreparedWhere{LeftIndex: 0, Op: OpEq, Right: types.NewInt(1)}
	_, err := Matches(row, where)
	if err == nil {
		t.Fatal("expected ImpossibleComparison error")
	}
}

func TestDecimalComparisonIsLexicographicOnWholeFracPair(t *testing.T) {
	// 1.5 vs 1.50: lexicographic compare on (whole, frac) = (1,5) vs (1,50).
	// 5 < 50 numerically, so Decimal(1,5) < Decimal(1,50) even though the
	// "true" values are equal. This matches spec section 4.3 precisely.
	cmp, ok := compare(types.NewDecimal(1, 5), types.NewDecimal(1, 50))
	if !ok || cmp >= 0 {
		t.Fatalf("got cmp=%d ok=%v, want negative", cmp, ok)
	}
}

func TestIntBehavesAsDecimalWithZeroFrac(t *testing.T) {
	cmp, ok := compare(types.NewInt(5), types.NewDecimal(5, 0))
	if !ok || cmp != 0 {
		t.Fatalf("got cmp=%d ok=%v, want 0", cmp, ok)
	}
}

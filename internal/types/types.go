// Package types defines the primitive value and type system shared by the
// table engine, codec, and protocol: ColumnValue, ColumnType, and Row.
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ColumnType is the type of a column or value.
type ColumnType byte

const (
	Int ColumnType = iota + 1
	Decimal
	Text
	Bool
)

func (t ColumnType) String() string {
	switch t {
	case Int:
		return "Int"
	case Decimal:
		return "Decimal"
	case Text:
		return "Text"
	case Bool:
		return "Bool"
	default:
		return fmt.Sprintf("ColumnType(%d)", byte(t))
	}
}

// ColumnValue is a tagged union over the four supported primitive kinds.
// Exactly one of the fields is meaningful, selected by Kind.
type ColumnValue struct {
	Kind    ColumnType
	IntVal  uint64
	Whole   uint64 // Decimal
	Frac    uint64 // Decimal
	StrVal  string
	BoolVal bool
}

func NewInt(v uint64) ColumnValue           { return ColumnValue{Kind: Int, IntVal: v} }
func NewDecimal(whole, frac uint64) ColumnValue {
	return ColumnValue{Kind: Decimal, Whole: whole, Frac: frac}
}
func NewText(v string) ColumnValue { return ColumnValue{Kind: Text, StrVal: v} }
func NewBool(v bool) ColumnValue   { return ColumnValue{Kind: Bool, BoolVal: v} }

// Type returns the ColumnType of v.
func (v ColumnValue) Type() ColumnType { return v.Kind }

// Equal reports whether two values are structurally identical, including
// their kind.
func (v ColumnValue) Equal(other ColumnValue) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case Int:
		return v.IntVal == other.IntVal
	case Decimal:
		return v.Whole == other.Whole && v.Frac == other.Frac
	case Text:
		return v.StrVal == other.StrVal
	case Bool:
		return v.BoolVal == other.BoolVal
	default:
		return false
	}
}

func (v ColumnValue) String() string {
	switch v.Kind {
	case Int:
		return fmt.Sprintf("Int(%d)", v.IntVal)
	case Decimal:
		return fmt.Sprintf("Decimal(%s)", v.DisplayDecimal())
	case Text:
		return fmt.Sprintf("Str(%q)", v.StrVal)
	case Bool:
		return fmt.Sprintf("Bool(%t)", v.BoolVal)
	default:
		return "Invalid"
	}
}

// DisplayDecimal renders a Decimal value's true numeric value (whole +
// frac/10^digits(frac)) for human-readable output such as error text. This is display-only: ordering and equality of Decimal
// values for WHERE-clause evaluation compare the (whole, frac) pair
// lexicographically, per the table engine's predicate semantics, and must
// NOT use this arithmetic reconstruction.
func (v ColumnValue) DisplayDecimal() string {
	whole := decimal.NewFromInt(int64(v.Whole))
	if v.Frac == 0 {
		return whole.String()
	}
	scale := decimal.New(1, digits(v.Frac))
	frac := decimal.NewFromInt(int64(v.Frac)).Div(scale)
	return whole.Add(frac).String()
}

func digits(n uint64) int32 {
	if n == 0 {
		return 1
	}
	count := int32(0)
	for n > 0 {
		count++
		n /= 10
	}
	return count
}

// Row is an ordered, positional tuple of values.
type Row []ColumnValue

// Types returns the per-position ColumnType sequence of the row.
func (r Row) Types() []ColumnType {
	types := make([]ColumnType, len(r))
	for i, v := range r {
		types[i] = v.Type()
	}
	return types
}

// Equal compares two rows value-by-value.
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if !r[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

// TableSchema describes a table's shape: its name, ordered column names
// (all distinct), and ordered column types.
type TableSchema struct {
	Name        string
	ColumnNames []string
	ColumnTypes []ColumnType
	// Constraints is reserved for foreign keys; unused by the evaluator in
	// this version.
	Constraints []ForeignKeyConstraint
}

// ForeignKeyConstraint names a column and the table/column it references.
// Parsed but not enforced (see spec Non-goals).
type ForeignKeyConstraint struct {
	Column          string
	ReferencesTable string
	ReferencesCol   string
}

// IndexOf resolves a column name to its position, or -1 if absent.
func (s TableSchema) IndexOf(name string) int {
	for i, n := range s.ColumnNames {
		if n == name {
			return i
		}
	}
	return -1
}

func TypesEqual(a, b []ColumnType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

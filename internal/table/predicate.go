package table

import (
	"github.com/chahine-tech/reldb/internal/errs"
	"github.com/chahine-tech/reldb/internal/types"
)

// Operator is a resolved comparison operator.
type Operator int

const (
	OpEq Operator = iota
	OpNotEq
	OpLt
	OpLte
	OpGt
	OpGte
)

// PreparedWhere is a WHERE clause with its left identifier already
// resolved to a column index.
type PreparedWhere struct {
	LeftIndex int
	Op        Operator
	Right     types.ColumnValue
}

// compare orders two values of possibly different kinds. It returns
// (cmp, true) where cmp is negative/zero/positive like strings.Compare,
// or (0, false) if the pairing is impossible (spec: ImpossibleComparison).
//
// Decimal comparison is lexicographic on the (whole, frac) pair, exactly
// as specified — not true decimal magnitude. Int(n) behaves as
// Decimal(n, 0) when paired against a Decimal.
func compare(l, r types.ColumnValue) (int, bool) {
	switch {
	case l.Kind == types.Int && r.Kind == types.Int:
		return compareUint(l.IntVal, r.IntVal), true

	case l.Kind == types.Decimal && r.Kind == types.Decimal:
		return comparePair(l.Whole, l.Frac, r.Whole, r.Frac), true

	case l.Kind == types.Int && r.Kind == types.Decimal:
		return comparePair(l.IntVal, 0, r.Whole, r.Frac), true

	case l.Kind == types.Decimal && r.Kind == types.Int:
		return comparePair(l.Whole, l.Frac, r.IntVal, 0), true

	case l.Kind == types.Bool && r.Kind == types.Bool:
		return compareBool(l.BoolVal, r.BoolVal), true

	case l.Kind == types.Text && r.Kind == types.Text:
		return compareString(l.StrVal, r.StrVal), true

	default:
		return 0, false
	}
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func comparePair(aWhole, aFrac, bWhole, bFrac uint64) int {
	if c := compareUint(aWhole, bWhole); c != 0 {
		return c
	}
	return compareUint(aFrac, bFrac)
}

// compareBool orders false < true.
func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func evalOperator(op Operator, cmp int) bool {
	switch op {
	case OpEq:
		return cmp == 0
	case OpNotEq:
		return cmp != 0
	case OpLt:
		return cmp < 0
	case OpLte:
		return cmp <= 0
	case OpGt:
		return cmp > 0
	case OpGte:
		return cmp >= 0
	default:
		return false
	}
}

// matches reports whether row satisfies where. A nil where matches every
// row. Never panics: an impossible comparison is reported as an error.
func matches(row types.Row, where *PreparedWhere) (bool, error) {
	if where == nil {
		return true, nil
	}
	if where.LeftIndex < 0 || where.LeftIndex >= len(row) {
		return false, errs.IndexOutOfBounds(where.LeftIndex, len(row))
	}
	left := row[where.LeftIndex]
	cmp, ok := compare(left, where.Right)
	if !ok {
		return false, errs.ImpossibleComparison(left, where.Right)
	}
	return evalOperator(where.Op, cmp), nil
}

// Matches is the exported form of matches, for callers outside this
// package that have already prepared a predicate (used by tests).
func Matches(row types.Row, where *PreparedWhere) (bool, error) {
	return matches(row, where)
}

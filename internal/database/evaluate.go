package database

import (
	"github.com/chahine-tech/reldb/internal/ast"
	"github.com/chahine-tech/reldb/internal/errs"
	"github.com/chahine-tech/reldb/internal/table"
	"github.com/chahine-tech/reldb/internal/types"
)

// ResultKind tags the variant of an ExecutionResult.
type ResultKind int

const (
	ResultNone ResultKind = iota
	ResultSelect
	ResultCreateDatabase
	ResultDropDatabase
	ResultCreateTable
	ResultDropTable
)

// ExecutionResult is the tagged-union outcome of evaluating one
// statement. It holds plain values (not references) so it can cross a
// session boundary without lifetime entanglement, per the design note.
type ExecutionResult struct {
	Kind   ResultKind
	RowSet table.RowSet
	Name   string // database or table name, for the Create/Drop variants
}

// literalToValue converts a literal Expression into a ColumnValue. Only
// the four literal kinds convert; anything else (an Ident, an
// AllColumns, ...) is an ImpossibleConversion.
func literalToValue(expr ast.Expression) (types.ColumnValue, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return types.NewInt(e.Value), nil
	case *ast.DecimalLit:
		return types.NewDecimal(e.Whole, e.Frac), nil
	case *ast.StrLit:
		return types.NewText(e.Value), nil
	case *ast.BoolLit:
		return types.NewBool(e.Value), nil
	default:
		return types.ColumnValue{}, errs.ImpossibleConversion(expr, "ColumnValue")
	}
}

func rowFromExpressions(exprs []ast.Expression) (types.Row, error) {
	row := make(types.Row, len(exprs))
	for i, e := range exprs {
		v, err := literalToValue(e)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

// resolveWhere prepares a WHERE clause against tbl. Only identifier op
// literal is supported; any other shape (literal op literal, ident op
// ident, ...) yields InvalidParameter, matching the design note that the
// grammar is broader than what evaluation accepts today.
func resolveWhere(tbl *table.Table, where *ast.Where) (*table.PreparedWhere, error) {
	if where == nil {
		return nil, nil
	}
	leftIdent, ok := where.Left.(*ast.Ident)
	if !ok {
		return nil, errs.InvalidParameter()
	}
	rightValue, err := literalToValue(where.Right)
	if err != nil {
		return nil, errs.InvalidParameter()
	}
	op := toTableOperator(where.Operator)
	prepared, err := tbl.PrepareWhere(leftIdent.Name, op, rightValue)
	if err != nil {
		return nil, err
	}
	return &prepared, nil
}

func toTableOperator(op ast.Operator) table.Operator {
	switch op {
	case ast.OpEq:
		return table.OpEq
	case ast.OpNotEq:
		return table.OpNotEq
	case ast.OpLt:
		return table.OpLt
	case ast.OpLte:
		return table.OpLte
	case ast.OpGt:
		return table.OpGt
	case ast.OpGte:
		return table.OpGte
	default:
		return table.OpEq
	}
}

func columnTypesFromDefs(defs []ast.ColumnDefinition, constraints []ast.ForeignKeyConstraint) types.TableSchema {
	schema := types.TableSchema{}
	for _, d := range defs {
		schema.ColumnNames = append(schema.ColumnNames, d.Name)
		schema.ColumnTypes = append(schema.ColumnTypes, d.Type)
	}
	for _, c := range constraints {
		schema.Constraints = append(schema.Constraints, types.ForeignKeyConstraint{
			Column:          c.Column,
			ReferencesTable: c.ReferencesTable,
			ReferencesCol:   c.ReferencesCol,
		})
	}
	return schema
}

// Evaluate lowers one parsed statement to table-engine calls against rt's
// current database. All mutating statements require a selected database;
// SELECT also requires one, since there is no notion of a tableless
// query.
func Evaluate(rt *Runtime, stmt ast.Statement) (ExecutionResult, error) {
	switch s := stmt.(type) {
	case *ast.CreateDatabaseStatement:
		db := New(s.Name)
		if rt.Backend != nil {
			if err := rt.Backend.SaveDatabase(db); err != nil {
				return ExecutionResult{}, err
			}
		}
		rt.Select(db)
		return ExecutionResult{Kind: ResultCreateDatabase, Name: s.Name}, nil

	case *ast.DropDatabaseStatement:
		if rt.Backend != nil {
			if err := rt.Backend.DeleteDatabase(s.Name); err != nil {
				return ExecutionResult{}, err
			}
		}
		if rt.Current != nil && rt.Current.Name == s.Name {
			rt.Clear()
		}
		return ExecutionResult{Kind: ResultDropDatabase, Name: s.Name}, nil

	case *ast.CreateTableStatement:
		if rt.Current == nil {
			return ExecutionResult{}, errs.NoDatabaseSelected()
		}
		schema := columnTypesFromDefs(s.Columns, s.Constraints)
		schema.Name = s.Table
		if _, err := rt.Current.CreateTable(schema); err != nil {
			return ExecutionResult{}, err
		}
		return ExecutionResult{Kind: ResultCreateTable, Name: s.Table}, nil

	case *ast.DropTableStatement:
		if rt.Current == nil {
			return ExecutionResult{}, errs.NoDatabaseSelected()
		}
		if err := rt.Current.DropTable(s.Name); err != nil {
			return ExecutionResult{}, err
		}
		return ExecutionResult{Kind: ResultDropTable, Name: s.Name}, nil

	case *ast.InsertStatement:
		if rt.Current == nil {
			return ExecutionResult{}, errs.NoDatabaseSelected()
		}
		tbl, err := rt.Current.Table(s.Table)
		if err != nil {
			return ExecutionResult{}, err
		}
		rows := make([]types.Row, 0, len(s.Rows))
		for _, exprs := range s.Rows {
			if s.Columns != nil && len(s.Columns) != len(exprs) {
				return ExecutionResult{}, errs.UnequalLengths(len(exprs), len(s.Columns))
			}
			row, err := rowFromExpressions(exprs)
			if err != nil {
				return ExecutionResult{}, err
			}
			rows = append(rows, row)
		}
		if err := tbl.InsertMultiple(rows); err != nil {
			return ExecutionResult{}, err
		}
		return ExecutionResult{Kind: ResultNone}, nil

	case *ast.SelectStatement:
		if rt.Current == nil {
			return ExecutionResult{}, errs.NoDatabaseSelected()
		}
		tbl, err := rt.Current.Table(s.Table)
		if err != nil {
			return ExecutionResult{}, err
		}
		prepared, err := resolveWhere(tbl, s.Where)
		if err != nil {
			return ExecutionResult{}, err
		}
		sel := table.Selector{All: s.Columns.All, Names: s.Columns.Names}
		rs, err := tbl.Select(sel, prepared)
		if err != nil {
			return ExecutionResult{}, err
		}
		return ExecutionResult{Kind: ResultSelect, RowSet: rs}, nil

	case *ast.UpdateStatement:
		if rt.Current == nil {
			return ExecutionResult{}, errs.NoDatabaseSelected()
		}
		tbl, err := rt.Current.Table(s.Table)
		if err != nil {
			return ExecutionResult{}, err
		}
		prepared, err := resolveWhere(tbl, s.Where)
		if err != nil {
			return ExecutionResult{}, err
		}
		names := make([]string, len(s.Set))
		values := make([]types.ColumnValue, len(s.Set))
		for i, pair := range s.Set {
			v, err := literalToValue(pair.Value)
			if err != nil {
				return ExecutionResult{}, err
			}
			names[i] = pair.Column
			values[i] = v
		}
		if err := tbl.Update(names, values, prepared); err != nil {
			return ExecutionResult{}, err
		}
		return ExecutionResult{Kind: ResultNone}, nil

	case *ast.DeleteStatement:
		if rt.Current == nil {
			return ExecutionResult{}, errs.NoDatabaseSelected()
		}
		tbl, err := rt.Current.Table(s.Table)
		if err != nil {
			return ExecutionResult{}, err
		}
		prepared, err := resolveWhere(tbl, s.Where)
		if err != nil {
			return ExecutionResult{}, err
		}
		if err := tbl.Delete(prepared); err != nil {
			return ExecutionResult{}, err
		}
		return ExecutionResult{Kind: ResultNone}, nil

	default:
		return ExecutionResult{}, errs.ParseError("unsupported statement")
	}
}

// IsMutating reports whether stmt, once successfully evaluated, should
// trigger a database save by the session runtime (spec section 4.8).
func IsMutating(stmt ast.Statement) bool {
	switch stmt.(type) {
	case *ast.InsertStatement, *ast.UpdateStatement, *ast.DeleteStatement,
		*ast.CreateTableStatement, *ast.DropTableStatement:
		return true
	default:
		return false
	}
}

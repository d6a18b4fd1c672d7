// Package ast defines the expression and statement tree produced by the
// parser. Node, Statement, and Expression mirror the teacher's node
// hierarchy, narrowed to the grammar this front-end actually supports.
package ast

import (
	"fmt"
	"strings"

	"github.com/chahine-tech/reldb/internal/types"
)

// Node is the common interface of every AST element.
type Node interface {
	String() string
}

// Expression is a node that evaluates to a value or names something
// (a column, a type, a literal).
type Expression interface {
	Node
	expressionNode()
}

// Statement is a top-level SQL statement.
type Statement interface {
	Node
	statementNode()
}

// base gives every concrete node a no-op marker method body to embed.
type base struct{}

func (base) expressionNode() {}

type stmtBase struct{}

func (stmtBase) statementNode() {}

// ---- Expressions ----

type IntLit struct {
	base
	Value uint64
}

func (e *IntLit) String() string { return fmt.Sprintf("%d", e.Value) }

type DecimalLit struct {
	base
	Whole, Frac uint64
}

func (e *DecimalLit) String() string { return fmt.Sprintf("%d.%d", e.Whole, e.Frac) }

type StrLit struct {
	base
	Value string
}

func (e *StrLit) String() string { return fmt.Sprintf("'%s'", e.Value) }

type BoolLit struct {
	base
	Value bool
}

func (e *BoolLit) String() string { return fmt.Sprintf("%t", e.Value) }

// TypeLit names one of the four column type keywords.
type TypeLit struct {
	base
	Value types.ColumnType
}

func (e *TypeLit) String() string { return e.Value.String() }

// Ident is a bare identifier: a column or table name.
type Ident struct {
	base
	Name string
}

func (e *Ident) String() string { return e.Name }

// AllColumns is the `*` selector.
type AllColumns struct{ base }

func (e *AllColumns) String() string { return "*" }

// ColumnDefinition is `name type` inside a CREATE TABLE column list.
type ColumnDefinition struct {
	base
	Name string
	Type types.ColumnType
}

func (e *ColumnDefinition) String() string { return fmt.Sprintf("%s %s", e.Name, e.Type) }

// ForeignKeyConstraint is `FOREIGN KEY (col) REFERENCES table (col)`.
type ForeignKeyConstraint struct {
	base
	Column          string
	ReferencesTable string
	ReferencesCol   string
}

func (e *ForeignKeyConstraint) String() string {
	return fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)", e.Column, e.ReferencesTable, e.ReferencesCol)
}

// Operator is a comparison operator usable in a WHERE clause.
type Operator int

const (
	OpEq Operator = iota
	OpNotEq
	OpLt
	OpLte
	OpGt
	OpGte
)

func (o Operator) String() string {
	switch o {
	case OpEq:
		return "="
	case OpNotEq:
		return "<>"
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	default:
		return "?"
	}
}

// Where holds the parsed `<left> <op> <right>` condition. Both sides are
// full Expressions syntactically; the evaluator accepts only
// identifier-vs-literal at evaluation time and rejects anything else with
// InvalidParameter, per the design note on keeping the predicate AST
// broader than what's evaluated today.
type Where struct {
	base
	Left     Expression
	Operator Operator
	Right    Expression
}

func (e *Where) String() string { return fmt.Sprintf("WHERE %s %s %s", e.Left, e.Operator, e.Right) }

// Array is a parenthesized value list, e.g. one VALUES row.
type Array struct {
	base
	Values []Expression
}

func (e *Array) String() string {
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ColumnValuePair is `ident = value`, used only inside UPDATE SET.
type ColumnValuePair struct {
	base
	Column string
	Value  Expression
}

func (e *ColumnValuePair) String() string { return fmt.Sprintf("%s = %s", e.Column, e.Value) }

// ---- Statements ----

// ColumnSelector is either AllColumns or an explicit identifier list.
type ColumnSelector struct {
	All   bool
	Names []string
}

type SelectStatement struct {
	stmtBase
	Columns ColumnSelector
	Table   string
	Where   *Where
}

func (s *SelectStatement) String() string { return fmt.Sprintf("SELECT ... FROM %s", s.Table) }

type CreateDatabaseStatement struct {
	stmtBase
	Name string
}

func (s *CreateDatabaseStatement) String() string { return fmt.Sprintf("CREATE DATABASE %s", s.Name) }

type CreateTableStatement struct {
	stmtBase
	Table       string
	Columns     []ColumnDefinition
	Constraints []ForeignKeyConstraint
}

func (s *CreateTableStatement) String() string { return fmt.Sprintf("CREATE TABLE %s", s.Table) }

type InsertStatement struct {
	stmtBase
	Table   string
	Columns []string // optional explicit column list; nil means "all, in order"
	Rows    [][]Expression
}

func (s *InsertStatement) String() string {
	return fmt.Sprintf("INSERT INTO %s (%d rows)", s.Table, len(s.Rows))
}

type UpdateStatement struct {
	stmtBase
	Table string
	Set   []ColumnValuePair
	Where *Where
}

func (s *UpdateStatement) String() string { return fmt.Sprintf("UPDATE %s", s.Table) }

type DeleteStatement struct {
	stmtBase
	Table string
	Where *Where
}

func (s *DeleteStatement) String() string { return fmt.Sprintf("DELETE FROM %s", s.Table) }

type DropDatabaseStatement struct {
	stmtBase
	Name string
}

func (s *DropDatabaseStatement) String() string { return fmt.Sprintf("DROP DATABASE %s", s.Name) }

type DropTableStatement struct {
	stmtBase
	Name string
}

func (s *DropTableStatement) String() string { return fmt.Sprintf("DROP TABLE %s", s.Name) }

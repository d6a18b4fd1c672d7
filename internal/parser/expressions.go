package parser

import (
	"strconv"
	"strings"

	"github.com/chahine-tech/reldb/internal/ast"
	"github.com/chahine-tech/reldb/internal/lexer"
	"github.com/chahine-tech/reldb/internal/types"
)

func parseIntLit(tokens []lexer.Token) (ast.Expression, []lexer.Token, bool) {
	tok, rest, ok := token(lexer.INT)(tokens)
	if !ok {
		return nil, tokens, false
	}
	v, err := strconv.ParseUint(tok.Literal, 10, 64)
	if err != nil {
		return nil, tokens, false
	}
	return &ast.IntLit{Value: v}, rest, true
}

func parseDecimalLit(tokens []lexer.Token) (ast.Expression, []lexer.Token, bool) {
	tok, rest, ok := token(lexer.DECIMAL)(tokens)
	if !ok {
		return nil, tokens, false
	}
	parts := strings.SplitN(tok.Literal, ".", 2)
	whole, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return nil, tokens, false
	}
	var frac uint64
	if len(parts) == 2 && parts[1] != "" {
		frac, err = strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return nil, tokens, false
		}
	}
	return &ast.DecimalLit{Whole: whole, Frac: frac}, rest, true
}

func parseStrLit(tokens []lexer.Token) (ast.Expression, []lexer.Token, bool) {
	tok, rest, ok := token(lexer.STR)(tokens)
	if !ok {
		return nil, tokens, false
	}
	return &ast.StrLit{Value: tok.Literal}, rest, true
}

func parseBoolLit(tokens []lexer.Token) (ast.Expression, []lexer.Token, bool) {
	tok, rest, ok := token(lexer.BOOL)(tokens)
	if !ok {
		return nil, tokens, false
	}
	return &ast.BoolLit{Value: strings.EqualFold(tok.Literal, "true")}, rest, true
}

func parseIdent(tokens []lexer.Token) (ast.Expression, []lexer.Token, bool) {
	tok, rest, ok := token(lexer.IDENT)(tokens)
	if !ok {
		return nil, tokens, false
	}
	return &ast.Ident{Name: tok.Literal}, rest, true
}

func parseIdentName(tokens []lexer.Token) (string, []lexer.Token, bool) {
	tok, rest, ok := token(lexer.IDENT)(tokens)
	if !ok {
		return "", tokens, false
	}
	return tok.Literal, rest, true
}

func parseAllColumns(tokens []lexer.Token) (ast.Expression, []lexer.Token, bool) {
	_, rest, ok := token(lexer.ASTERISK)(tokens)
	if !ok {
		return nil, tokens, false
	}
	return &ast.AllColumns{}, rest, true
}

// parseType matches one of the four type keywords.
func parseType(tokens []lexer.Token) (types.ColumnType, []lexer.Token, bool) {
	if len(tokens) == 0 {
		return 0, tokens, false
	}
	switch tokens[0].Type {
	case lexer.TYPE_INT:
		return types.Int, tokens[1:], true
	case lexer.TYPE_DECIMAL:
		return types.Decimal, tokens[1:], true
	case lexer.TYPE_TEXT:
		return types.Text, tokens[1:], true
	case lexer.TYPE_BOOL:
		return types.Bool, tokens[1:], true
	default:
		return 0, tokens, false
	}
}

// parseValue matches exactly one literal token: Int, Decimal, Str, or Bool.
func parseValue(tokens []lexer.Token) (ast.Expression, []lexer.Token, bool) {
	return or(parseIntLit, parseDecimalLit, parseStrLit, parseBoolLit)(tokens)
}

// parseColumnDefinition matches `ident type`, used in CREATE TABLE.
func parseColumnDefinition(tokens []lexer.Token) (ast.ColumnDefinition, []lexer.Token, bool) {
	name, rest, ok := parseIdentName(tokens)
	if !ok {
		return ast.ColumnDefinition{}, tokens, false
	}
	typ, rest2, ok := parseType(rest)
	if !ok {
		return ast.ColumnDefinition{}, tokens, false
	}
	return ast.ColumnDefinition{Name: name, Type: typ}, rest2, true
}

// tableListItem is one entry in a CREATE TABLE column list: either a plain
// column definition or a FOREIGN KEY constraint, freely interleaved, per
// the source grammar.
type tableListItem struct {
	Column     ast.ColumnDefinition
	ForeignKey *ast.ForeignKeyConstraint
}

func parseTableListItem(tokens []lexer.Token) (tableListItem, []lexer.Token, bool) {
	if fk, rest, ok := parseForeignKeyConstraint(tokens); ok {
		return tableListItem{ForeignKey: fk.(*ast.ForeignKeyConstraint)}, rest, true
	}
	if col, rest, ok := parseColumnDefinition(tokens); ok {
		return tableListItem{Column: col}, rest, true
	}
	return tableListItem{}, tokens, false
}

// parseForeignKeyConstraint matches
// `FOREIGN KEY ( ident ) REFERENCES ident ( ident )`.
func parseForeignKeyConstraint(tokens []lexer.Token) (ast.Expression, []lexer.Token, bool) {
	rest := tokens
	var ok bool
	if _, rest, ok = token(lexer.FOREIGN)(rest); !ok {
		return nil, tokens, false
	}
	if _, rest, ok = token(lexer.KEY)(rest); !ok {
		return nil, tokens, false
	}
	column, rest2, ok := parenthesized(parseIdentName)(rest)
	if !ok {
		return nil, tokens, false
	}
	rest = rest2
	if _, rest, ok = token(lexer.REFERENCES)(rest); !ok {
		return nil, tokens, false
	}
	refTable, rest2, ok := parseIdentName(rest)
	if !ok {
		return nil, tokens, false
	}
	rest = rest2
	refCol, rest2, ok := parenthesized(parseIdentName)(rest)
	if !ok {
		return nil, tokens, false
	}
	rest = rest2
	return &ast.ForeignKeyConstraint{Column: column, ReferencesTable: refTable, ReferencesCol: refCol}, rest, true
}

// identOrValue parses the left/right side of a WHERE comparison: either an
// identifier or a literal value. The grammar accepts both shapes on either
// side; the evaluator later rejects anything but identifier-vs-literal.
func identOrValue(tokens []lexer.Token) (ast.Expression, []lexer.Token, bool) {
	return or(parseIdent, parseValue)(tokens)
}

var operatorTokens = map[lexer.TokenType]ast.Operator{
	lexer.EQ:     ast.OpEq,
	lexer.NOT_EQ: ast.OpNotEq,
	lexer.LT:     ast.OpLt,
	lexer.LTE:    ast.OpLte,
	lexer.GT:     ast.OpGt,
	lexer.GTE:    ast.OpGte,
}

func parseOperator(tokens []lexer.Token) (ast.Operator, []lexer.Token, bool) {
	if len(tokens) == 0 {
		return 0, tokens, false
	}
	op, ok := operatorTokens[tokens[0].Type]
	if !ok {
		return 0, tokens, false
	}
	return op, tokens[1:], true
}

// parseWhere matches `WHERE <ident|value> <op> <ident|value>`.
func parseWhere(tokens []lexer.Token) (*ast.Where, []lexer.Token, bool) {
	_, rest, ok := token(lexer.WHERE)(tokens)
	if !ok {
		return nil, tokens, false
	}
	left, rest2, ok := identOrValue(rest)
	if !ok {
		return nil, tokens, false
	}
	rest = rest2
	op, rest2, ok := parseOperator(rest)
	if !ok {
		return nil, tokens, false
	}
	rest = rest2
	right, rest2, ok := identOrValue(rest)
	if !ok {
		return nil, tokens, false
	}
	rest = rest2
	return &ast.Where{Left: left, Operator: op, Right: right}, rest, true
}

// parseArray matches `(` value-list `)`, allowing a trailing comma.
func parseArray(tokens []lexer.Token) ([]ast.Expression, []lexer.Token, bool) {
	return parenthesized(multiple(parseValue, true))(tokens)
}

// parseColumnValuePair matches `ident = value`, used only in UPDATE SET.
func parseColumnValuePair(tokens []lexer.Token) (ast.ColumnValuePair, []lexer.Token, bool) {
	name, rest, ok := parseIdentName(tokens)
	if !ok {
		return ast.ColumnValuePair{}, tokens, false
	}
	if _, rest2, ok := token(lexer.EQ)(rest); ok {
		rest = rest2
	} else {
		return ast.ColumnValuePair{}, tokens, false
	}
	value, rest2, ok := parseValue(rest)
	if !ok {
		return ast.ColumnValuePair{}, tokens, false
	}
	return ast.ColumnValuePair{Column: name, Value: value}, rest2, true
}

// parseIdentList matches a comma-separated identifier list with no
// trailing comma allowed.
func parseIdentList(tokens []lexer.Token) ([]string, []lexer.Token, bool) {
	return multiple(parseIdentName, false)(tokens)
}

package parser

import (
	"github.com/chahine-tech/reldb/internal/ast"
	"github.com/chahine-tech/reldb/internal/errs"
	"github.com/chahine-tech/reldb/internal/lexer"
)

// Parse lexes and parses one SQL statement. A missing trailing semicolon,
// trailing garbage after the semicolon, or no grammar rule matching at all
// surfaces as a single ParseError, per the spec's "parser failure surfaces
// as a single ParseError at the evaluator boundary".
func Parse(sql string) (ast.Statement, error) {
	tokens := lexer.Lex(sql)
	for _, tok := range tokens {
		if tok.Type == lexer.INVALID {
			return nil, errs.ParseError(tok.Literal)
		}
	}

	stmt, rest, ok := parseStatement(tokens)
	if !ok {
		return nil, errs.ParseError("could not parse statement")
	}
	if len(rest) == 0 || rest[0].Type != lexer.EOF {
		return nil, errs.ParseError("unexpected trailing input after statement")
	}
	return stmt, nil
}

func parseStatement(tokens []lexer.Token) (ast.Statement, []lexer.Token, bool) {
	return or(
		parseSelectStatement,
		parseCreateStatement,
		parseInsertStatement,
		parseUpdateStatement,
		parseDeleteStatement,
		parseDropStatement,
	)(tokens)
}

func requireSemicolon(tokens []lexer.Token) ([]lexer.Token, bool) {
	_, rest, ok := token(lexer.SEMICOLON)(tokens)
	return rest, ok
}

func parseSelectStatement(tokens []lexer.Token) (ast.Statement, []lexer.Token, bool) {
	rest := tokens
	var ok bool
	if _, rest, ok = token(lexer.SELECT)(rest); !ok {
		return nil, tokens, false
	}

	selector, rest2, ok := parseColumnSelector(rest)
	if !ok {
		return nil, tokens, false
	}
	rest = rest2

	if _, rest2, ok = token(lexer.FROM)(rest); !ok {
		return nil, tokens, false
	}
	rest = rest2

	table, rest2, ok := parseIdentName(rest)
	if !ok {
		return nil, tokens, false
	}
	rest = rest2

	where, rest2, _ := parseWhere(rest)
	rest = rest2

	rest, ok = requireSemicolon(rest)
	if !ok {
		return nil, tokens, false
	}

	stmt := &ast.SelectStatement{Columns: selector, Table: table}
	if where != nil {
		stmt.Where = where
	}
	return stmt, rest, true
}

func parseColumnSelector(tokens []lexer.Token) (ast.ColumnSelector, []lexer.Token, bool) {
	if _, rest, ok := token(lexer.ASTERISK)(tokens); ok {
		return ast.ColumnSelector{All: true}, rest, true
	}
	names, rest, ok := parseIdentList(tokens)
	if !ok {
		return ast.ColumnSelector{}, tokens, false
	}
	return ast.ColumnSelector{Names: names}, rest, true
}

func parseCreateStatement(tokens []lexer.Token) (ast.Statement, []lexer.Token, bool) {
	rest := tokens
	var ok bool
	if _, rest, ok = token(lexer.CREATE)(rest); !ok {
		return nil, tokens, false
	}

	if _, afterDB, ok := token(lexer.DATABASE)(rest); ok {
		name, afterName, ok := parseIdentName(afterDB)
		if !ok {
			return nil, tokens, false
		}
		// A column list is forbidden for CREATE DATABASE.
		if _, _, ok := parenthesized(multiple(parseColumnDefinition, false))(afterName); ok {
			return nil, tokens, false
		}
		afterSemi, ok := requireSemicolon(afterName)
		if !ok {
			return nil, tokens, false
		}
		return &ast.CreateDatabaseStatement{Name: name}, afterSemi, true
	}

	if _, afterTable, ok := token(lexer.TABLE)(rest); ok {
		name, afterName, ok := parseIdentName(afterTable)
		if !ok {
			return nil, tokens, false
		}
		items, afterColumns, ok := parenthesized(multiple(parseTableListItem, false))(afterName)
		if !ok {
			// The parenthesized column list is required for CREATE TABLE.
			return nil, tokens, false
		}
		afterSemi, ok := requireSemicolon(afterColumns)
		if !ok {
			return nil, tokens, false
		}
		var columns []ast.ColumnDefinition
		var constraints []ast.ForeignKeyConstraint
		for _, it := range items {
			if it.ForeignKey != nil {
				constraints = append(constraints, *it.ForeignKey)
			} else {
				columns = append(columns, it.Column)
			}
		}
		return &ast.CreateTableStatement{Table: name, Columns: columns, Constraints: constraints}, afterSemi, true
	}

	return nil, tokens, false
}

func parseInsertStatement(tokens []lexer.Token) (ast.Statement, []lexer.Token, bool) {
	rest := tokens
	var ok bool
	if _, rest, ok = token(lexer.INSERT)(rest); !ok {
		return nil, tokens, false
	}
	if _, rest, ok = token(lexer.INTO)(rest); !ok {
		return nil, tokens, false
	}

	table, rest2, ok := parseIdentName(rest)
	if !ok {
		return nil, tokens, false
	}
	rest = rest2

	columns, rest2, _ := parenthesized(parseIdentList)(rest)
	rest = rest2

	if _, rest2, ok = token(lexer.VALUES)(rest); !ok {
		return nil, tokens, false
	}
	rest = rest2

	rows, rest2, ok := multiple(parseArray, false)(rest)
	if !ok {
		return nil, tokens, false
	}
	rest = rest2

	rest, ok = requireSemicolon(rest)
	if !ok {
		return nil, tokens, false
	}

	stmt := &ast.InsertStatement{Table: table, Rows: rows}
	if columns != nil {
		stmt.Columns = columns
	}
	return stmt, rest, true
}

func parseUpdateStatement(tokens []lexer.Token) (ast.Statement, []lexer.Token, bool) {
	rest := tokens
	var ok bool
	if _, rest, ok = token(lexer.UPDATE)(rest); !ok {
		return nil, tokens, false
	}

	table, rest2, ok := parseIdentName(rest)
	if !ok {
		return nil, tokens, false
	}
	rest = rest2

	if _, rest2, ok = token(lexer.SET)(rest); !ok {
		return nil, tokens, false
	}
	rest = rest2

	pairs, rest2, ok := multiple(parseColumnValuePair, false)(rest)
	if !ok {
		return nil, tokens, false
	}
	rest = rest2

	where, rest2, _ := parseWhere(rest)
	rest = rest2

	rest, ok = requireSemicolon(rest)
	if !ok {
		return nil, tokens, false
	}

	stmt := &ast.UpdateStatement{Table: table, Set: pairs}
	if where != nil {
		stmt.Where = where
	}
	return stmt, rest, true
}

func parseDeleteStatement(tokens []lexer.Token) (ast.Statement, []lexer.Token, bool) {
	rest := tokens
	var ok bool
	if _, rest, ok = token(lexer.DELETE)(rest); !ok {
		return nil, tokens, false
	}
	if _, rest, ok = token(lexer.FROM)(rest); !ok {
		return nil, tokens, false
	}

	table, rest2, ok := parseIdentName(rest)
	if !ok {
		return nil, tokens, false
	}
	rest = rest2

	where, rest2, _ := parseWhere(rest)
	rest = rest2

	rest, ok = requireSemicolon(rest)
	if !ok {
		return nil, tokens, false
	}

	stmt := &ast.DeleteStatement{Table: table}
	if where != nil {
		stmt.Where = where
	}
	return stmt, rest, true
}

func parseDropStatement(tokens []lexer.Token) (ast.Statement, []lexer.Token, bool) {
	rest := tokens
	var ok bool
	if _, rest, ok = token(lexer.DROP)(rest); !ok {
		return nil, tokens, false
	}

	if _, afterDB, ok := token(lexer.DATABASE)(rest); ok {
		name, afterName, ok := parseIdentName(afterDB)
		if !ok {
			return nil, tokens, false
		}
		afterSemi, ok := requireSemicolon(afterName)
		if !ok {
			return nil, tokens, false
		}
		return &ast.DropDatabaseStatement{Name: name}, afterSemi, true
	}

	if _, afterTable, ok := token(lexer.TABLE)(rest); ok {
		name, afterName, ok := parseIdentName(afterTable)
		if !ok {
			return nil, tokens, false
		}
		afterSemi, ok := requireSemicolon(afterName)
		if !ok {
			return nil, tokens, false
		}
		return &ast.DropTableStatement{Name: name}, afterSemi, true
	}

	return nil, tokens, false
}

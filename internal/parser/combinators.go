// Package parser builds a Statement AST from a token stream using small
// composable parsing primitives, in the spirit of the original combinator
// lexer/parser split: every primitive returns ok=false and the untouched
// remainder on failure, and never consumes input it doesn't commit to.
package parser

import "github.com/chahine-tech/reldb/internal/lexer"

// Parser consumes a prefix of tokens and, on success, returns the parsed
// value and the remaining tokens. On failure it must return the input
// slice unchanged.
type Parser[T any] func(tokens []lexer.Token) (T, []lexer.Token, bool)

// token matches a single token of the given type and returns its literal.
func token(tt lexer.TokenType) Parser[lexer.Token] {
	return func(tokens []lexer.Token) (lexer.Token, []lexer.Token, bool) {
		if len(tokens) == 0 || tokens[0].Type != tt {
			return lexer.Token{}, tokens, false
		}
		return tokens[0], tokens[1:], true
	}
}

// or tries each parser in order and returns the first that succeeds.
func or[T any](parsers ...Parser[T]) Parser[T] {
	return func(tokens []lexer.Token) (T, []lexer.Token, bool) {
		for _, p := range parsers {
			if v, rest, ok := p(tokens); ok {
				return v, rest, true
			}
		}
		var zero T
		return zero, tokens, false
	}
}

// then runs pa then pb in sequence, combining their results. If either
// fails, the whole thing fails and no input is consumed.
func then[A, B, R any](pa Parser[A], pb Parser[B], combine func(A, B) R) Parser[R] {
	return func(tokens []lexer.Token) (R, []lexer.Token, bool) {
		var zero R
		a, rest, ok := pa(tokens)
		if !ok {
			return zero, tokens, false
		}
		b, rest2, ok := pb(rest)
		if !ok {
			return zero, tokens, false
		}
		return combine(a, b), rest2, true
	}
}

// multiple parses one-or-more comma-separated items. If allowTrailingComma
// is false, a comma not followed by another item is left unconsumed (the
// trailing comma then fails whatever parses next, e.g. the closing paren).
func multiple[T any](item Parser[T], allowTrailingComma bool) Parser[[]T] {
	comma := token(lexer.COMMA)
	return func(tokens []lexer.Token) ([]T, []lexer.Token, bool) {
		first, rest, ok := item(tokens)
		if !ok {
			return nil, tokens, false
		}
		items := []T{first}
		for {
			_, afterComma, ok := comma(rest)
			if !ok {
				return items, rest, true
			}
			next, afterItem, ok := item(afterComma)
			if !ok {
				if allowTrailingComma {
					return items, afterComma, true
				}
				return items, rest, true
			}
			items = append(items, next)
			rest = afterItem
		}
	}
}

// parenthesized wraps p in a required `( ... )`.
func parenthesized[T any](p Parser[T]) Parser[T] {
	lparen := token(lexer.LPAREN)
	rparen := token(lexer.RPAREN)
	return func(tokens []lexer.Token) (T, []lexer.Token, bool) {
		var zero T
		_, rest, ok := lparen(tokens)
		if !ok {
			return zero, tokens, false
		}
		v, rest2, ok := p(rest)
		if !ok {
			return zero, tokens, false
		}
		_, rest3, ok := rparen(rest2)
		if !ok {
			return zero, tokens, false
		}
		return v, rest3, true
	}
}

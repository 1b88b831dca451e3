// Package search implements boolean and BM25-ranked query evaluation over a
// read-only inverted index. The boolean path parses AND/OR/NOT expressions
// into an AST and evaluates it with merge-based postings algebra; the ranked
// path scores free-text queries with BM25. Both paths produce the same
// Result structure.
package search

import "fmt"

// Kind classifies a lexed query token.
type Kind int

const (
	KindTerm Kind = iota
	KindAnd
	KindOr
	KindNot
	KindLParen
	KindRParen
	KindEOF
)

func (k Kind) String() string {
	switch k {
	case KindTerm:
		return "TERM"
	case KindAnd:
		return "AND"
	case KindOr:
		return "OR"
	case KindNot:
		return "NOT"
	case KindLParen:
		return "LPAREN"
	case KindRParen:
		return "RPAREN"
	case KindEOF:
		return "EOF"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a classified query token.
type Token struct {
	Value string
	Kind  Kind
}

// Lex classifies raw word tokens by exact match against the reserved
// operator spellings and appends the end-of-stream marker. Anything that is
// not an operator or parenthesis is a TERM.
func Lex(words []string) []Token {
	tokens := make([]Token, 0, len(words)+1)
	for _, w := range words {
		kind := KindTerm
		switch w {
		case "AND":
			kind = KindAnd
		case "OR":
			kind = KindOr
		case "NOT":
			kind = KindNot
		case "(":
			kind = KindLParen
		case ")":
			kind = KindRParen
		}
		tokens = append(tokens, Token{Value: w, Kind: kind})
	}
	return append(tokens, Token{Kind: KindEOF})
}

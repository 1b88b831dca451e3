package search

import (
	"fmt"

	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/tokenizer"
)

// SyntaxError reports a malformed boolean query: the token at the failure
// point did not match the kind the grammar expected. It covers unbalanced
// parentheses, operators in term position, and truncated queries.
type SyntaxError struct {
	Expected Kind
	Actual   Kind
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid query syntax: expected %s, got %s", e.Expected, e.Actual)
}

// Parser builds an AST from a boolean query string using recursive descent
// with one token of lookahead.
//
// Grammar, precedence low to high (NOT binds tighter than AND, AND tighter
// than OR; parentheses override):
//
//	expression  := conjunction (OR conjunction)*
//	conjunction := term (AND term)*
//	term        := NOT term | TERM | LPAREN expression RPAREN
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser tokenizes query and prepares a Parser over the token stream.
func NewParser(query string) *Parser {
	return &Parser{tokens: Lex(tokenizer.Scan(query))}
}

// Parse consumes the whole token stream and returns the AST. Any deviation
// from the grammar aborts parsing with a SyntaxError; no partial tree is
// returned.
func (p *Parser) Parse() (Node, error) {
	node, err := p.expression()
	if err != nil {
		return nil, err
	}
	// Trailing tokens (for example a stray closing parenthesis) are a
	// syntax error, not silently ignored.
	if err := p.ingest(KindEOF); err != nil {
		return nil, err
	}
	return node, nil
}

// current returns the lookahead token. The stream always ends with EOF, so
// pos never runs past the slice.
func (p *Parser) current() Token {
	return p.tokens[p.pos]
}

// ingest consumes the current token if it matches kind, otherwise it
// reports expected versus actual.
func (p *Parser) ingest(kind Kind) error {
	if p.current().Kind != kind {
		return &SyntaxError{Expected: kind, Actual: p.current().Kind}
	}
	if p.current().Kind != KindEOF {
		p.pos++
	}
	return nil
}

func (p *Parser) expression() (Node, error) {
	node, err := p.conjunction()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == KindOr {
		op := p.current()
		if err := p.ingest(KindOr); err != nil {
			return nil, err
		}
		right, err := p.conjunction()
		if err != nil {
			return nil, err
		}
		node = &BinaryNode{Left: node, Op: op, Right: right}
	}
	return node, nil
}

func (p *Parser) conjunction() (Node, error) {
	node, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == KindAnd {
		op := p.current()
		if err := p.ingest(KindAnd); err != nil {
			return nil, err
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		node = &BinaryNode{Left: node, Op: op, Right: right}
	}
	return node, nil
}

func (p *Parser) term() (Node, error) {
	tok := p.current()
	switch tok.Kind {
	case KindNot:
		if err := p.ingest(KindNot); err != nil {
			return nil, err
		}
		child, err := p.term()
		if err != nil {
			return nil, err
		}
		return &UnaryNode{Op: tok, Child: child}, nil
	case KindTerm:
		if err := p.ingest(KindTerm); err != nil {
			return nil, err
		}
		return &TermNode{Tok: tok}, nil
	case KindLParen:
		if err := p.ingest(KindLParen); err != nil {
			return nil, err
		}
		node, err := p.expression()
		if err != nil {
			return nil, err
		}
		if err := p.ingest(KindRParen); err != nil {
			return nil, err
		}
		return node, nil
	default:
		// Covers EOF after a dangling operator and operators in term
		// position.
		return nil, &SyntaxError{Expected: KindTerm, Actual: tok.Kind}
	}
}

package search

import (
	"errors"
	"fmt"
	"testing"
)

// render flattens an AST to a fully parenthesised string so test cases can
// assert the tree shape directly.
func render(n Node) string {
	switch n := n.(type) {
	case *BinaryNode:
		return fmt.Sprintf("(%s %s %s)", render(n.Left), n.Op.Kind, render(n.Right))
	case *UnaryNode:
		return fmt.Sprintf("(NOT %s)", render(n.Child))
	case *TermNode:
		return n.Tok.Value
	default:
		return fmt.Sprintf("<%T>", n)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"single_term", "apple", "apple"},
		{"and", "apple AND banana", "(apple AND banana)"},
		{"or", "apple OR banana", "(apple OR banana)"},
		{"not", "NOT apple", "(NOT apple)"},
		{"and_binds_tighter_than_or", "apple OR banana AND cherry", "(apple OR (banana AND cherry))"},
		{"not_binds_tighter_than_and", "NOT apple AND banana", "((NOT apple) AND banana)"},
		{"left_assoc_and", "apple AND banana AND cherry", "((apple AND banana) AND cherry)"},
		{"left_assoc_or", "apple OR banana OR cherry", "((apple OR banana) OR cherry)"},
		{"parens_override", "(apple OR banana) AND cherry", "((apple OR banana) AND cherry)"},
		{"nested_parens", "((apple))", "apple"},
		{"double_not", "NOT NOT apple", "(NOT (NOT apple))"},
		{"not_parenthesised", "NOT (apple OR banana)", "(NOT (apple OR banana))"},
		{"tight_parens", "(apple)AND(banana)", "(apple AND banana)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := NewParser(tt.query).Parse()
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.query, err)
			}
			if got := render(tree); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected Kind
		actual   Kind
	}{
		{"empty", "", KindTerm, KindEOF},
		{"dangling_and", "apple AND", KindTerm, KindEOF},
		{"dangling_or", "apple OR", KindTerm, KindEOF},
		{"dangling_not", "NOT", KindTerm, KindEOF},
		{"leading_and", "AND apple", KindTerm, KindAnd},
		{"operator_in_term_position", "apple AND OR banana", KindTerm, KindOr},
		{"unclosed_paren", "(apple", KindRParen, KindEOF},
		{"unclosed_nested", "(apple AND (banana)", KindRParen, KindEOF},
		{"trailing_rparen", "apple )", KindEOF, KindRParen},
		{"bare_rparen", ")", KindTerm, KindRParen},
		{"empty_parens", "()", KindTerm, KindRParen},
		{"adjacent_terms", "apple banana AND cherry", KindEOF, KindTerm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(tt.query).Parse()
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want syntax error", tt.query)
			}
			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("Parse(%q) error = %v, want *SyntaxError", tt.query, err)
			}
			if synErr.Expected != tt.expected || synErr.Actual != tt.actual {
				t.Errorf("Parse(%q) = expected %s got %s, want expected %s got %s",
					tt.query, synErr.Expected, synErr.Actual, tt.expected, tt.actual)
			}
		})
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	err := &SyntaxError{Expected: KindRParen, Actual: KindEOF}
	if want := "invalid query syntax: expected RPAREN, got EOF"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestLex(t *testing.T) {
	tokens := Lex([]string{"apple", "AND", "(", "banana", "OR", "NOT", "cherry", ")"})
	wantKinds := []Kind{KindTerm, KindAnd, KindLParen, KindTerm, KindOr, KindNot, KindTerm, KindRParen, KindEOF}
	if len(tokens) != len(wantKinds) {
		t.Fatalf("Lex returned %d tokens, want %d", len(tokens), len(wantKinds))
	}
	for i, k := range wantKinds {
		if tokens[i].Kind != k {
			t.Errorf("token %d kind = %s, want %s", i, tokens[i].Kind, k)
		}
	}
}

func TestLexOperatorsAreCaseSensitive(t *testing.T) {
	tokens := Lex([]string{"and", "Or", "noT"})
	for _, tok := range tokens[:3] {
		if tok.Kind != KindTerm {
			t.Errorf("Lex(%q) kind = %s, want TERM", tok.Value, tok.Kind)
		}
	}
}

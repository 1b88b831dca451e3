package search

import (
	"fmt"

	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/index"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/tokenizer"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/errors"
)

// operand is the value a subexpression evaluates to. absent marks a term
// that is not in the index at all (stop word, non-indexed token), which is
// distinct from a term that is indexed with zero matches. The flag is set
// only at the index boundary; algebra over real postings never produces it.
type operand struct {
	list   index.PostingList
	absent bool
}

// Evaluator runs boolean queries against an index. Each Evaluate call owns
// a fresh Result; an Evaluator may be reused sequentially but not
// concurrently.
type Evaluator struct {
	idx    index.Index
	result *Result
}

// NewEvaluator creates an Evaluator over idx.
func NewEvaluator(idx index.Index) *Evaluator {
	return &Evaluator{idx: idx}
}

// Evaluate parses and evaluates a boolean query, returning the finalized
// Result. A malformed query returns a *SyntaxError; an AST node the walker
// does not recognise returns an error wrapping errors.ErrInternal.
func (e *Evaluator) Evaluate(query string) (*Result, error) {
	tree, err := NewParser(query).Parse()
	if err != nil {
		return nil, err
	}
	e.result = NewResult()
	op, err := e.visit(tree)
	if err != nil {
		return nil, err
	}
	if op.absent {
		// Every queried term was unindexed; the answer is empty, not nil.
		op.list = index.PostingList{}
	}
	e.result.finalize(op.list)
	return e.result, nil
}

func (e *Evaluator) visit(n Node) (operand, error) {
	switch n := n.(type) {
	case *BinaryNode:
		return e.visitBinary(n)
	case *UnaryNode:
		return e.visitUnary(n)
	case *TermNode:
		return e.visitTerm(n), nil
	default:
		// Unreachable while the Node set stays closed; a new node type
		// without evaluator support is a programming error, not bad input.
		return operand{}, fmt.Errorf("%w: unknown AST node %T", errors.ErrInternal, n)
	}
}

func (e *Evaluator) visitBinary(n *BinaryNode) (operand, error) {
	left, err := e.visit(n.Left)
	if err != nil {
		return operand{}, err
	}
	right, err := e.visit(n.Right)
	if err != nil {
		return operand{}, err
	}
	switch n.Op.Kind {
	case KindAnd:
		// An unindexed operand acts as the identity for AND, so a stop
		// word in a conjunction does not wipe out the other side. A term
		// that is indexed with zero matches intersects normally.
		switch {
		case left.absent && right.absent:
			return operand{absent: true}, nil
		case left.absent:
			return right, nil
		case right.absent:
			return left, nil
		}
		return operand{list: Intersect(left.list, right.list)}, nil
	case KindOr:
		// Absent behaves as empty in a union.
		return operand{list: Union(left.list, right.list)}, nil
	default:
		return operand{}, fmt.Errorf("%w: invalid binary operator %s", errors.ErrInternal, n.Op.Kind)
	}
}

func (e *Evaluator) visitUnary(n *UnaryNode) (operand, error) {
	child, err := e.visit(n.Child)
	if err != nil {
		return operand{}, err
	}
	return operand{list: Negate(e.idx.Universe(), child.list)}, nil
}

func (e *Evaluator) visitTerm(n *TermNode) operand {
	tokens := tokenizer.Tokenize(n.Tok.Value)
	if len(tokens) == 0 {
		// Stop word or non-indexable token; the index never saw it.
		e.result.addPostings(n.Tok.Value, nil)
		return operand{absent: true}
	}
	term := tokens[0].Term
	tp := e.idx.GetPostings(term)
	if tp == nil {
		e.result.addPostings(term, nil)
		return operand{absent: true}
	}
	e.result.addPostings(term, tp.Postings)
	return operand{list: tp.Postings}
}

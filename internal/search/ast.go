package search

// Node is a parsed boolean query expression. The implementation set is
// closed: BinaryNode, UnaryNode, and TermNode. A node tree is immutable
// once built and owned by the evaluation that parsed it.
type Node interface {
	node()
}

// BinaryNode applies AND or OR to two subexpressions.
type BinaryNode struct {
	Left  Node
	Op    Token
	Right Node
}

// UnaryNode applies NOT to a subexpression.
type UnaryNode struct {
	Op    Token
	Child Node
}

// TermNode is a query term leaf.
type TermNode struct {
	Tok Token
}

func (*BinaryNode) node() {}
func (*UnaryNode) node()  {}
func (*TermNode) node()   {}

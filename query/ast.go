package query

import "github.com/vegasq/csvfilt/schema"

// Expr is a node of a parsed query. Nodes are built by the parser and never
// modified afterwards. Operands are raw text: whether an identifier names a
// column or is a literal is only decided by Compile.
type Expr interface {
	// String renders the node fully parenthesised, e.g. (a = 1 && (b < 2)).
	String() string
	exprNode()
}

// Comparison is `Left Op Right`.
type Comparison struct {
	Left  string
	Op    schema.Operator
	Right string
}

// Not negates Inner.
type Not struct {
	Inner Expr
}

// And is true when both sides are.
type And struct {
	Left, Right Expr
}

// Or is true when either side is.
type Or struct {
	Left, Right Expr
}

func (*Comparison) exprNode() {}
func (*Not) exprNode()        {}
func (*And) exprNode()        {}
func (*Or) exprNode()         {}

func (c *Comparison) String() string {
	return c.Left + " " + c.Op.String() + " " + c.Right
}

func (n *Not) String() string {
	return "!(" + n.Inner.String() + ")"
}

func (a *And) String() string {
	return "(" + a.Left.String() + " && " + a.Right.String() + ")"
}

func (o *Or) String() string {
	return "(" + o.Left.String() + " || " + o.Right.String() + ")"
}

// Walk calls fn for e and each of its descendants, parents first. It stops
// descending below a node when fn returns false.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *Not:
		Walk(n.Inner, fn)
	case *And:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Or:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	}
}

// Identifiers returns every operand text referenced by e, in source order.
func Identifiers(e Expr) []string {
	var ids []string
	Walk(e, func(n Expr) bool {
		if c, ok := n.(*Comparison); ok {
			ids = append(ids, c.Left, c.Right)
		}
		return true
	})
	return ids
}

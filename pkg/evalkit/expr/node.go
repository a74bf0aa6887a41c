package expr

import (
	"iter"
	"strings"

	"github.com/randalmurphal/evalkit/pkg/evalkit/numeric"
)

// Node is an operator tree produced by BuildTree. A node owns its children;
// trees are immutable after construction and can be evaluated any number of
// times, against any number of contexts.
type Node[I numeric.Integer[I, F], F numeric.Float[F]] struct {
	op       Operator
	literal  Value[I, F]
	name     string
	children []*Node[I, F]
	height   int
}

// DefaultNode is a Node over 64-bit integers and floats.
type DefaultNode = Node[numeric.Int64, numeric.Float64]

// Operator returns the node's operator tag.
func (n *Node[I, F]) Operator() Operator { return n.op }

// Literal returns the value of an OpConst node, or Empty.
func (n *Node[I, F]) Literal() Value[I, F] { return n.literal }

// Identifier returns the name of a variable or function node, or "".
func (n *Node[I, F]) Identifier() string { return n.name }

// Children returns the node's children in evaluation order.
func (n *Node[I, F]) Children() []*Node[I, F] {
	children := make([]*Node[I, F], len(n.children))
	copy(children, n.children)
	return children
}

// Depth returns the height of the tree rooted at n. Evaluation recurses
// once per level, so this bounds the stack an evaluation needs.
func (n *Node[I, F]) Depth() int {
	if n.height > 0 {
		return n.height
	}
	deepest := 0
	for _, child := range n.children {
		if d := child.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// All yields every node of the tree in pre-order, starting with n.
func (n *Node[I, F]) All() iter.Seq[*Node[I, F]] {
	return func(yield func(*Node[I, F]) bool) {
		stack := []*Node[I, F]{n}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(node) {
				return
			}
			for i := len(node.children) - 1; i >= 0; i-- {
				stack = append(stack, node.children[i])
			}
		}
	}
}

// identifiers yields the names of nodes with one of the given operators.
func (n *Node[I, F]) identifiers(ops ...Operator) iter.Seq[string] {
	return func(yield func(string) bool) {
		for node := range n.All() {
			for _, op := range ops {
				if node.op == op {
					if !yield(node.name) {
						return
					}
					break
				}
			}
		}
	}
}

// VariableIdentifiers yields every variable name read or written, in
// pre-order and with repetitions.
func (n *Node[I, F]) VariableIdentifiers() iter.Seq[string] {
	return n.identifiers(OpVariableRead, OpVariableWrite)
}

// ReadVariableIdentifiers yields the variable names used as values.
func (n *Node[I, F]) ReadVariableIdentifiers() iter.Seq[string] {
	return n.identifiers(OpVariableRead)
}

// WriteVariableIdentifiers yields the variable names assigned to.
func (n *Node[I, F]) WriteVariableIdentifiers() iter.Seq[string] {
	return n.identifiers(OpVariableWrite)
}

// FunctionIdentifiers yields the names of called functions.
func (n *Node[I, F]) FunctionIdentifiers() iter.Seq[string] {
	return n.identifiers(OpFunction)
}

// String renders the tree as fully parenthesized source that BuildTree
// parses back into an equal tree.
func (n *Node[I, F]) String() string {
	var sb strings.Builder
	n.writeTo(&sb)
	return sb.String()
}

func (n *Node[I, F]) writeTo(sb *strings.Builder) {
	switch n.op {
	case OpConst:
		n.literal.writeTo(sb)

	case OpVariableRead, OpVariableWrite:
		sb.WriteString(n.name)

	case OpFunction:
		sb.WriteString(n.name)
		arg := n.children[0]
		if arg.op == OpTuple || (arg.op == OpConst && arg.literal.IsEmpty()) {
			arg.writeTo(sb)
			return
		}
		sb.WriteByte('(')
		arg.writeTo(sb)
		sb.WriteByte(')')

	case OpNeg, OpNot:
		sb.WriteByte('(')
		sb.WriteString(n.op.String())
		n.children[0].writeTo(sb)
		sb.WriteByte(')')

	case OpTuple, OpChain:
		sep := ", "
		if n.op == OpChain {
			sep = "; "
		}
		sb.WriteByte('(')
		for i, child := range n.children {
			if i > 0 {
				sb.WriteString(sep)
			}
			child.writeTo(sb)
		}
		sb.WriteByte(')')

	default:
		sb.WriteByte('(')
		n.children[0].writeTo(sb)
		sb.WriteByte(' ')
		sb.WriteString(n.op.String())
		sb.WriteByte(' ')
		n.children[1].writeTo(sb)
		sb.WriteByte(')')
	}
}

// MarshalText implements encoding.TextMarshaler, so trees travel through
// JSON and YAML as expression strings.
func (n *Node[I, F]) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler by parsing the text.
func (n *Node[I, F]) UnmarshalText(text []byte) error {
	tree, err := BuildTree[I, F](string(text))
	if err != nil {
		return err
	}
	*n = *tree
	return nil
}

func constNode[I numeric.Integer[I, F], F numeric.Float[F]](v Value[I, F]) *Node[I, F] {
	return &Node[I, F]{op: OpConst, literal: v, height: 1}
}

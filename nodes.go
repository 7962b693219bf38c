package nam

import (
	"strconv"
	"strings"
)

// Operator is a binary operator.
type Operator int8

const (
	opNone Operator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
	// OpAssign binds its right operand to the variable on its left.
	OpAssign
)

// Prec returns the precedence of the operator. Higher binds tighter.
func (op Operator) Prec() int {
	switch op {
	case OpAssign:
		return 1
	case OpAdd, OpSub:
		return 2
	case OpMul, OpDiv:
		return 3
	case OpPow:
		return 4
	default:
		return 0
	}
}

// RightAssoc reports whether the operator groups right to left.
func (op Operator) RightAssoc() bool {
	return op == OpAssign || op == OpPow
}

func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "^"
	case OpAssign:
		return "="
	default:
		return "Operator(" + strconv.Itoa(int(op)) + ")"
	}
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result is opNone.
func binop(text string) Operator {
	switch text {
	case "+":
		return OpAdd
	case "-":
		return OpSub
	case "*":
		return OpMul
	case "/":
		return OpDiv
	case "^":
		return OpPow
	case "=":
		return OpAssign
	default:
		return opNone
	}
}

// NodeKind identifies the variant held by a Node.
type NodeKind int8

const (
	NodeNone NodeKind = iota

	NodeNumber   // scalar literal
	NodeVariable // unresolved name
	NodeMatrix   // rows of cell expressions
	NodeOperator // only inside a postfix sequence
	NodePostfix  // postfix sequence, stored last-to-evaluate first
)

func (k NodeKind) String() string {
	switch k {
	case NodeNone:
		return "None"
	case NodeNumber:
		return "Number"
	case NodeVariable:
		return "Variable"
	case NodeMatrix:
		return "Matrix"
	case NodeOperator:
		return "Operator"
	case NodePostfix:
		return "Postfix"
	default:
		return "NodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Node is a parsed expression. Nodes are immutable once built, so a node may
// be evaluated any number of times.
type Node struct {
	kind NodeKind

	num  float64
	name string
	op   Operator

	rows [][]*Node
	// seq is the postfix sequence in reverse evaluation order: the last
	// element is evaluated first.
	seq []*Node
}

// Number creates a scalar literal node.
func Number(x float64) *Node {
	return &Node{kind: NodeNumber, num: x}
}

// Variable creates a variable reference node.
func Variable(name string) *Node {
	return &Node{kind: NodeVariable, name: name}
}

// MatrixLit creates a matrix literal node. The rows are not copied.
func MatrixLit(rows [][]*Node) *Node {
	return &Node{kind: NodeMatrix, rows: rows}
}

// OperatorNode creates an operator node for use in a postfix sequence.
func OperatorNode(op Operator) *Node {
	return &Node{kind: NodeOperator, op: op}
}

// Postfix creates a postfix sequence node from nodes in evaluation order, e.g.
// Postfix(Number(1), Number(2), OperatorNode(OpAdd)) for 1+2. The sequence is
// stored reversed.
func Postfix(nodes ...*Node) *Node {
	seq := make([]*Node, len(nodes))
	for i, n := range nodes {
		seq[len(nodes)-1-i] = n
	}
	return &Node{kind: NodePostfix, seq: seq}
}

// Kind returns the variant of the node.
func (n *Node) Kind() NodeKind {
	return n.kind
}

// Num returns the value of a NodeNumber.
func (n *Node) Num() float64 {
	return n.num
}

// Name returns the name of a NodeVariable.
func (n *Node) Name() string {
	return n.name
}

// Op returns the operator of a NodeOperator.
func (n *Node) Op() Operator {
	return n.op
}

// Rows returns the cells of a NodeMatrix.
func (n *Node) Rows() [][]*Node {
	return n.rows
}

// Seq returns the postfix sequence of a NodePostfix in evaluation order.
func (n *Node) Seq() []*Node {
	r := make([]*Node, len(n.seq))
	for i, m := range n.seq {
		r[len(n.seq)-1-i] = m
	}
	return r
}

// hasAssign reports whether a postfix node contains an assignment.
func (n *Node) hasAssign() bool {
	for _, m := range n.seq {
		if m.kind == NodeOperator && m.op == OpAssign {
			return true
		}
	}
	return false
}

// assignTarget returns the name of the variable assigned by a postfix node.
// It is "" unless = is the last operator evaluated and its target is a
// variable, since otherwise the statement's value is not the value bound.
func (n *Node) assignTarget() string {
	if len(n.seq) == 0 {
		return ""
	}
	if last := n.seq[0]; last.kind != NodeOperator || last.op != OpAssign {
		return ""
	}
	first := n.seq[len(n.seq)-1]
	if first.kind != NodeVariable {
		return ""
	}
	return first.name
}

// String formats the node. Postfix sequences are written in evaluation order
// separated by spaces.
func (n *Node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

func (n *Node) fmt(b *strings.Builder) {
	switch n.kind {
	case NodeNone:
		// Invalid nodes use invalid characters.
		b.WriteString("$$")
	case NodeNumber:
		b.WriteString(strconv.FormatFloat(n.num, 'g', -1, 64))
	case NodeVariable:
		b.WriteString(n.name)
	case NodeOperator:
		b.WriteString(n.op.String())
	case NodeMatrix:
		b.WriteByte('[')
		for i, row := range n.rows {
			if i > 0 {
				b.WriteString("; ")
			}
			for j, cell := range row {
				if j > 0 {
					b.WriteString(", ")
				}
				cell.fmt(b)
			}
		}
		b.WriteByte(']')
	case NodePostfix:
		for i := len(n.seq) - 1; i >= 0; i-- {
			n.seq[i].fmt(b)
			if i > 0 {
				b.WriteByte(' ')
			}
		}
	default:
		panic("nam: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

// Stmt is a parsed statement: one expression plus how its result is reported.
type Stmt struct {
	// Expr is the statement's expression.
	Expr *Node
	// StoreInAns indicates that evaluating the statement binds its result to
	// the variable ans. It is true for literals and arithmetic and false for
	// bare variable reads and assignments.
	StoreInAns bool
	// PrintResult indicates that the statement was terminated by a line end
	// or end of input rather than a semicolon.
	PrintResult bool
	// Name is the name under which the result is displayed: "ans", the
	// variable read, or the variable assigned. It is empty if an assignment's
	// target is not a variable or the assignment is nested inside other
	// operators, as in (a = 2) * a.
	Name string
}

func (s *Stmt) String() string {
	if s.PrintResult {
		return s.Expr.String()
	}
	return s.Expr.String() + ";"
}

// decorate computes the statement flags that depend on the expression kind.
func (s *Stmt) decorate() {
	n := s.Expr
	switch n.kind {
	case NodeNumber, NodeMatrix:
		s.StoreInAns = true
		s.Name = "ans"
	case NodeVariable:
		s.StoreInAns = false
		s.Name = n.name
	case NodePostfix:
		if n.hasAssign() {
			s.StoreInAns = false
			s.Name = n.assignTarget()
		} else {
			s.StoreInAns = true
			s.Name = "ans"
		}
	default:
		panic("nam: statement of kind " + n.kind.String())
	}
}

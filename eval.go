package nam

import (
	"io"
	"sort"
	"strings"
)

// Ans is the variable that holds the result of the last statement that was
// neither an assignment nor a bare variable read.
const Ans = "ans"

// Context is a context for evaluating statements: the variable environment
// plus scratch space for evaluation. It is not safe to use a Context
// concurrently.
type Context struct {
	names map[string]Value
	// pend holds assignments made by the statement being evaluated. They are
	// committed to names only if the whole statement succeeds.
	pend  map[string]Value
	stack []operand
	tol   float64
}

// operand is a value on the evaluation stack. A named operand is a variable
// that has not been looked up yet, which happens only when an operator uses
// it, so that the left side of = is never resolved.
type operand struct {
	name string
	val  Value
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  Value
	}
	varsopt map[string]Value
	tolopt  float64
)

func (varopt) ctxOption()  {}
func (varsopt) ctxOption() {}
func (tolopt) ctxOption()  {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val Value) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]Value) ContextOption {
	return varsopt(vars)
}

// Tolerance sets the magnitude at or below which a pivot counts as zero when
// inverting a matrix for division or negative powers. The default is 0, so
// only exact zeros are treated as zero.
func Tolerance(eps float64) ContextOption {
	return tolopt(eps)
}

// NewContext creates a new evaluation context with no variables.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{}
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it. Variables set
// in the clone do not affect the original.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		names: make(map[string]Value, len(ctx.names)),
		tol:   ctx.tol,
	}
	// Values are never modified in place, so sharing them is safe.
	for k, v := range ctx.names {
		n.names[k] = v
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.name] = opt.val
		case varsopt:
			for k, v := range opt {
				n.names[k] = v
			}
		case tolopt:
			n.tol = float64(opt)
		default:
			panic("nam: unknown option type")
		}
	}
	return &n
}

// Set sets the value of a variable. Returns ctx for chaining.
func (ctx *Context) Set(name string, val Value) *Context {
	ctx.names[name] = val
	return ctx
}

// Lookup returns the value of a variable and whether it exists.
func (ctx *Context) Lookup(name string) (Value, bool) {
	v, ok := ctx.names[name]
	return v, ok
}

// Vars returns the names of all variables in sorted order.
func (ctx *Context) Vars() []string {
	names := make([]string, 0, len(ctx.names))
	for k := range ctx.names {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Eval evaluates a statement and returns its value. Assignments update the
// context, and statements marked StoreInAns bind their result to ans. If an
// error occurs, the context is left as it was before the statement.
func (ctx *Context) Eval(s *Stmt) (Value, error) {
	if len(ctx.stack) != 0 {
		panic("nam: Eval during Eval")
	}
	ctx.pend = make(map[string]Value)
	defer func() {
		ctx.pend = nil
		ctx.stack = ctx.stack[:0]
	}()
	v, err := ctx.eval(s.Expr)
	if err != nil {
		return Value{}, err
	}
	for k, x := range ctx.pend {
		ctx.names[k] = x
	}
	if s.StoreInAns {
		ctx.names[Ans] = v
	}
	return v, nil
}

// lookup resolves a variable, seeing assignments pending in the current
// statement.
func (ctx *Context) lookup(name string) (Value, error) {
	if v, ok := ctx.pend[name]; ok {
		return v, nil
	}
	if v, ok := ctx.names[name]; ok {
		return v, nil
	}
	return Value{}, &NameError{Name: name}
}

// assign binds a variable for the current statement.
func (ctx *Context) assign(name string, v Value) {
	ctx.pend[name] = v
}

// eval evaluates any node that may appear as a statement or matrix cell.
func (ctx *Context) eval(n *Node) (Value, error) {
	switch n.kind {
	case NodeNumber:
		return Scalar(n.num), nil
	case NodeVariable:
		return ctx.lookup(n.name)
	case NodeMatrix:
		return ctx.evalMatrix(n)
	case NodePostfix:
		return ctx.evalPostfix(n)
	case NodeOperator:
		// A lone operator is a postfix sequence that cannot reduce.
		return Value{}, ErrMalformed
	default:
		panic("nam: invalid AST node " + n.kind.String())
	}
}

// evalMatrix evaluates every cell of a matrix literal. A 1×1 result is a
// scalar.
func (ctx *Context) evalMatrix(n *Node) (Value, error) {
	if len(n.rows) == 0 {
		return matrixValue(&Matrix{}), nil
	}
	width := len(n.rows[0])
	data := make([]float64, 0, len(n.rows)*width)
	for _, row := range n.rows {
		if len(row) != width {
			return Value{}, &WidthError{Want: width, Got: len(row)}
		}
		for _, cell := range row {
			v, err := ctx.eval(cell)
			if err != nil {
				return Value{}, err
			}
			if v.kind == KindMatrix {
				return Value{}, ErrNestedMatrix
			}
			data = append(data, v.x)
		}
	}
	if len(n.rows) == 1 && width == 1 {
		return Scalar(data[0]), nil
	}
	return matrixValue(NewMatrix(len(n.rows), width, data)), nil
}

// evalPostfix evaluates a postfix sequence with the operand stack, consuming
// the sequence from its tail. The sequence itself is not modified.
func (ctx *Context) evalPostfix(n *Node) (Value, error) {
	base := len(ctx.stack)
	defer func() { ctx.stack = ctx.stack[:base] }()
	for i := len(n.seq) - 1; i >= 0; i-- {
		m := n.seq[i]
		switch m.kind {
		case NodeVariable:
			ctx.push(operand{name: m.name})
		case NodeNumber, NodeMatrix:
			v, err := ctx.eval(m)
			if err != nil {
				return Value{}, err
			}
			ctx.push(operand{val: v})
		case NodeOperator:
			if len(ctx.stack)-base < 2 {
				return Value{}, ErrMalformed
			}
			if err := ctx.apply(m.op); err != nil {
				return Value{}, err
			}
		case NodePostfix:
			panic("nam: nested postfix sequence")
		default:
			panic("nam: invalid AST node " + m.kind.String())
		}
	}
	if len(ctx.stack)-base != 1 {
		return Value{}, ErrMalformed
	}
	return ctx.resolve(ctx.pop())
}

// apply pops two operands, applies op, and pushes the result.
func (ctx *Context) apply(op Operator) error {
	r, err := ctx.resolve(ctx.pop())
	if err != nil {
		return err
	}
	l := ctx.pop()
	if op == OpAssign {
		if l.name == "" {
			return ErrAssignTarget
		}
		ctx.assign(l.name, r)
		// Push the name back so that a = b = 1 can read it.
		ctx.push(l)
		return nil
	}
	lv, err := ctx.resolve(l)
	if err != nil {
		return err
	}
	v, err := binary(op, lv, r, ctx.tol)
	if err != nil {
		return err
	}
	ctx.push(operand{val: v})
	return nil
}

// resolve looks up a named operand.
func (ctx *Context) resolve(x operand) (Value, error) {
	if x.name == "" {
		return x.val, nil
	}
	return ctx.lookup(x.name)
}

func (ctx *Context) push(x operand) {
	ctx.stack = append(ctx.stack, x)
}

func (ctx *Context) pop() operand {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// Result is a statement paired with the value it produced.
type Result struct {
	Stmt  *Stmt
	Value Value
}

// String renders the result as "name = value".
func (r Result) String() string {
	if r.Stmt.Name == "" {
		return r.Value.String()
	}
	return r.Stmt.Name + " = " + r.Value.String()
}

// Exec parses and evaluates every statement in src in order. It stops at the
// first error, returning the results of the statements evaluated before it.
// All of src is tokenized before any statement runs, so a lexical error
// anywhere in src means no statement is evaluated: x = 1; 2 $ 3 binds nothing.
func (ctx *Context) Exec(src io.RuneScanner) ([]Result, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := NewParser(toks)
	var rs []Result
	for {
		s, err := p.Next()
		if err != nil {
			if err == io.EOF {
				return rs, nil
			}
			return rs, err
		}
		v, err := ctx.Eval(s)
		if err != nil {
			return rs, err
		}
		rs = append(rs, Result{Stmt: s, Value: v})
	}
}

// EvalString is a shortcut to evaluate every statement in src and return the
// value of the last one.
func (ctx *Context) EvalString(src string) (Value, error) {
	rs, err := ctx.Exec(strings.NewReader(src))
	if err != nil {
		return Value{}, err
	}
	if len(rs) == 0 {
		return Value{}, &EmptyExpressionError{Col: 1}
	}
	return rs[len(rs)-1].Value, nil
}

// EvalString is a shortcut to evaluate a string in a new context.
func EvalString(src string, opts ...ContextOption) (Value, error) {
	return NewContext(opts...).EvalString(src)
}

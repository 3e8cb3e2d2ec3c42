// Package texpr holds the binding-expression AST embedded in template
// bindings. Like the template AST, expressions are produced by the host
// parser and consumed read-only.
package texpr

import (
	"github.com/walteh/tplcheck/pkg/position"
)

// Expr is implemented by every expression node.
type Expr interface {
	ExprSpan() position.Span
}

// ImplicitReceiver is the unnamed receiver of unqualified reads.
type ImplicitReceiver struct {
	Span position.Span
}

func (e *ImplicitReceiver) ExprSpan() position.Span { return e.Span }

// ThisReceiver is an explicit `this` receiver. It resolves the same way
// as ImplicitReceiver, including against template scope entities.
type ThisReceiver struct {
	Span position.Span
}

func (e *ThisReceiver) ExprSpan() position.Span { return e.Span }

// PropertyRead is receiver.name.
type PropertyRead struct {
	Receiver Expr
	Name     string
	Span     position.Span
	NameSpan position.Span
}

func (e *PropertyRead) ExprSpan() position.Span { return e.Span }

// SafePropertyRead is receiver?.name.
type SafePropertyRead struct {
	Receiver Expr
	Name     string
	Span     position.Span
	NameSpan position.Span
}

func (e *SafePropertyRead) ExprSpan() position.Span { return e.Span }

// KeyedRead is receiver[key].
type KeyedRead struct {
	Receiver Expr
	Key      Expr
	Span     position.Span
}

func (e *KeyedRead) ExprSpan() position.Span { return e.Span }

// SafeKeyedRead is receiver?.[key].
type SafeKeyedRead struct {
	Receiver Expr
	Key      Expr
	Span     position.Span
}

func (e *SafeKeyedRead) ExprSpan() position.Span { return e.Span }

// Call is fn(args...).
type Call struct {
	Receiver Expr
	Args     []Expr
	Span     position.Span
}

func (e *Call) ExprSpan() position.Span { return e.Span }

// SafeCall is fn?.(args...).
type SafeCall struct {
	Receiver Expr
	Args     []Expr
	Span     position.Span
}

func (e *SafeCall) ExprSpan() position.Span { return e.Span }

// Pipe is exp | name:args....
type Pipe struct {
	Exp      Expr
	Name     string
	Args     []Expr
	Span     position.Span
	NameSpan position.Span
}

func (e *Pipe) ExprSpan() position.Span { return e.Span }

// LiteralPrimitive is a string, number, boolean, null or undefined
// literal. Raw carries the literal exactly as written.
type LiteralPrimitive struct {
	Raw  string
	Span position.Span
}

func (e *LiteralPrimitive) ExprSpan() position.Span { return e.Span }

// LiteralArray is [a, b, ...].
type LiteralArray struct {
	Values []Expr
	Span   position.Span
}

func (e *LiteralArray) ExprSpan() position.Span { return e.Span }

// LiteralMapKey is one key of a LiteralMap.
type LiteralMapKey struct {
	Key    string
	Quoted bool
}

// LiteralMap is {k: v, ...}.
type LiteralMap struct {
	Keys   []LiteralMapKey
	Values []Expr
	Span   position.Span
}

func (e *LiteralMap) ExprSpan() position.Span { return e.Span }

// Binary is left op right. Assignment is represented as op "=".
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
	Span  position.Span
}

func (e *Binary) ExprSpan() position.Span { return e.Span }

// Unary is op expr, e.g. -x.
type Unary struct {
	Op   string
	Expr Expr
	Span position.Span
}

func (e *Unary) ExprSpan() position.Span { return e.Span }

// PrefixNot is !expr.
type PrefixNot struct {
	Expr Expr
	Span position.Span
}

func (e *PrefixNot) ExprSpan() position.Span { return e.Span }

// NonNullAssert is expr!.
type NonNullAssert struct {
	Expr Expr
	Span position.Span
}

func (e *NonNullAssert) ExprSpan() position.Span { return e.Span }

// Conditional is cond ? trueExpr : falseExpr.
type Conditional struct {
	Cond      Expr
	TrueExpr  Expr
	FalseExpr Expr
	Span      position.Span
}

func (e *Conditional) ExprSpan() position.Span { return e.Span }

// Interpolation is a text binding: Strings has one more element than
// Exprs and the two interleave.
type Interpolation struct {
	Strings []string
	Exprs   []Expr
	Span    position.Span
}

func (e *Interpolation) ExprSpan() position.Span { return e.Span }

// EmptyExpr stands in for a missing expression.
type EmptyExpr struct {
	Span position.Span
}

func (e *EmptyExpr) ExprSpan() position.Span { return e.Span }

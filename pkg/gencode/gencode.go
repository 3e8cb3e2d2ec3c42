// Package gencode models the synthesized type-check program as a
// structured expression/statement tree. Every node can carry the span of
// the template source it originated from; the emitter preserves those
// spans in a mapping table so diagnostics and type queries on the
// generated text can be traced back to the template.
package gencode

import (
	"github.com/walteh/tplcheck/pkg/position"
)

// SemanticTag marks what a synthesized identifier stands for. Hosts use
// it to decide how to present a type query result.
type SemanticTag string

const (
	TagNone        SemanticTag = ""
	TagElement     SemanticTag = "element"
	TagDirective   SemanticTag = "directive"
	TagTemplateCtx SemanticTag = "template-context"
	TagVariable    SemanticTag = "variable"
	TagReference   SemanticTag = "reference"
)

// Expression is one node of a synthesized expression. The set of
// implementations is closed within this package.
type Expression interface {
	// Src returns the originating template span, or nil for scaffolding.
	Src() *position.Span
	emitExpr(e *emitter)
}

// Statement is one synthesized statement.
type Statement interface {
	emitStmt(e *emitter)
}

// Type is a synthesized type annotation.
type Type interface {
	emitType(e *emitter)
}

// Ident is a named symbol in the synthesized program. Idents are never
// mutated after creation; WithSpan returns a copy bound to a use site.
type Ident struct {
	Name string
	Span *position.Span
	Tag  SemanticTag
}

func (x *Ident) Src() *position.Span { return x.Span }

// WithSpan returns a copy of the identifier carrying the given use-site
// span.
func (x *Ident) WithSpan(span position.Span) *Ident {
	return &Ident{Name: x.Name, Span: &span, Tag: x.Tag}
}

// PropAccess is recv.name.
type PropAccess struct {
	Recv Expression
	Name string
	Span *position.Span
}

func (x *PropAccess) Src() *position.Span { return x.Span }

// IndexAccess is recv[key].
type IndexAccess struct {
	Recv Expression
	Key  Expression
	Span *position.Span
}

func (x *IndexAccess) Src() *position.Span { return x.Span }

// Call is fn(args...).
type Call struct {
	Fn   Expression
	Args []Expression
	Span *position.Span
}

func (x *Call) Src() *position.Span { return x.Span }

// Binary is l op r.
type Binary struct {
	Op   string
	L    Expression
	R    Expression
	Span *position.Span
}

func (x *Binary) Src() *position.Span { return x.Span }

// Unary is op e.
type Unary struct {
	Op   string
	E    Expression
	Span *position.Span
}

func (x *Unary) Src() *position.Span { return x.Span }

// Ternary is cond ? then : els.
type Ternary struct {
	Cond Expression
	Then Expression
	Else Expression
	Span *position.Span
}

func (x *Ternary) Src() *position.Span { return x.Span }

// NonNull is e!.
type NonNull struct {
	E    Expression
	Span *position.Span
}

func (x *NonNull) Src() *position.Span { return x.Span }

// Cast is (e as T).
type Cast struct {
	E    Expression
	To   Type
	Span *position.Span
}

func (x *Cast) Src() *position.Span { return x.Span }

// Paren wraps e in parentheses, optionally re-spanning it to a use site.
type Paren struct {
	E    Expression
	Span *position.Span
}

func (x *Paren) Src() *position.Span { return x.Span }

// Lit is a literal token emitted verbatim: string, number, boolean,
// null, undefined or this.
type Lit struct {
	Raw  string
	Span *position.Span
}

func (x *Lit) Src() *position.Span { return x.Span }

// ArrayLit is [elems...].
type ArrayLit struct {
	Elems []Expression
	Span  *position.Span
}

func (x *ArrayLit) Src() *position.Span { return x.Span }

// Prop is one key of an ObjectLit.
type Prop struct {
	Key    string
	Quoted bool
	Value  Expression
}

// ObjectLit is {props...}.
type ObjectLit struct {
	Props []Prop
	Span  *position.Span
}

func (x *ObjectLit) Src() *position.Span { return x.Span }

// Param is one parameter of an Arrow. A nil Type emits no annotation so
// the checker infers the parameter type from context.
type Param struct {
	Name string
	Type Type
}

// Arrow is (params): any => { body }.
type Arrow struct {
	Params []Param
	Body   []Statement
	Span   *position.Span
}

func (x *Arrow) Src() *position.Span { return x.Span }

// TypeRef is a named type with optional parameters, e.g. Dir<any, any>.
type TypeRef struct {
	Name   string
	Params []Type
}

// VarDecl is var name = init;.
type VarDecl struct {
	Name *Ident
	Init Expression
	Span *position.Span
}

// ExprStmt is e;.
type ExprStmt struct {
	E    Expression
	Span *position.Span
}

// If is if (cond) { then }.
type If struct {
	Cond Expression
	Then []Statement
	Span *position.Span
}

// Shared scaffolding fragments.

// Any returns the universal top type.
func Any() Type { return &TypeRef{Name: "any"} }

// CastToAny wraps e in a parenthesized cast to the top type.
func CastToAny(e Expression) Expression {
	return &Paren{E: &Cast{E: e, To: Any()}}
}

// NullBang is null!, the non-null-asserted bottom value used to pin a
// declared type without a real value.
func NullBang() Expression {
	return &NonNull{E: &Lit{Raw: "null"}}
}

// InferAny is (null as any), the type-inferring placeholder substituted
// for an operation while it is re-entrantly resolved.
func InferAny() Expression {
	return &Paren{E: &Cast{E: &Lit{Raw: "null"}, To: Any()}}
}

// True is the literal true.
func True() Expression { return &Lit{Raw: "true"} }

// Str is a double-quoted string literal.
func Str(value string, span *position.Span) Expression {
	return &Lit{Raw: quote(value), Span: span}
}

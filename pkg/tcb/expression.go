package tcb

import (
	"fmt"

	"github.com/walteh/tplcheck/pkg/diagnostic"
	"github.com/walteh/tplcheck/pkg/gencode"
	"github.com/walteh/tplcheck/pkg/position"
	"github.com/walteh/tplcheck/pkg/texpr"
)

// ctxReceiverName is the implicit top-level context receiver of the
// generated block.
const ctxReceiverName = "ctx"

// anyEscapeHatch is the reserved single-argument call that stops type
// checking of its argument.
const anyEscapeHatch = "$any"

// tcbExpression converts one template expression into a synthesized
// expression, resolving identifiers against the given scope.
func tcbExpression(e texpr.Expr, tcb *Context, scope *Scope) gencode.Expression {
	t := &exprTranslator{tcb: tcb, scope: scope}
	return t.translate(e)
}

type exprTranslator struct {
	tcb   *Context
	scope *Scope

	// resolveSpecial intercepts unqualified reads before scope
	// resolution; the event-handler translator binds $event through it.
	resolveSpecial func(read texpr.Expr, name string) gencode.Expression
}

func (t *exprTranslator) translate(e texpr.Expr) gencode.Expression {
	switch x := e.(type) {
	case *texpr.ImplicitReceiver:
		return &gencode.Ident{Name: ctxReceiverName}

	case *texpr.ThisReceiver:
		return &gencode.Ident{Name: ctxReceiverName, Span: &x.Span}

	case *texpr.PropertyRead:
		return t.translateRead(x, x.Receiver, x.Name)

	case *texpr.SafePropertyRead:
		recv := t.translate(x.Receiver)
		access := func(qualifier gencode.Expression) gencode.Expression {
			return &gencode.PropAccess{Recv: qualifier, Name: x.Name, Span: &x.NameSpan}
		}
		return t.safeNav(recv, access, x.Span)

	case *texpr.KeyedRead:
		return &gencode.IndexAccess{
			Recv: t.translate(x.Receiver),
			Key:  t.translate(x.Key),
			Span: &x.Span,
		}

	case *texpr.SafeKeyedRead:
		recv := t.translate(x.Receiver)
		key := t.translate(x.Key)
		access := func(qualifier gencode.Expression) gencode.Expression {
			return &gencode.IndexAccess{Recv: qualifier, Key: key, Span: &x.Span}
		}
		return t.safeNav(recv, access, x.Span)

	case *texpr.Call:
		if cast := t.tryAnyCast(x); cast != nil {
			return cast
		}
		args := t.translateAll(x.Args)
		return &gencode.Call{Fn: t.translate(x.Receiver), Args: args, Span: &x.Span}

	case *texpr.SafeCall:
		recv := t.translate(x.Receiver)
		args := t.translateAll(x.Args)
		access := func(qualifier gencode.Expression) gencode.Expression {
			return &gencode.Call{Fn: qualifier, Args: args, Span: &x.Span}
		}
		return t.safeNav(recv, access, x.Span)

	case *texpr.Pipe:
		return t.translatePipe(x)

	case *texpr.LiteralPrimitive:
		return &gencode.Lit{Raw: x.Raw, Span: &x.Span}

	case *texpr.LiteralArray:
		lit := &gencode.ArrayLit{Elems: t.translateAll(x.Values), Span: &x.Span}
		return t.maybeWidenLiteral(lit, x.Span)

	case *texpr.LiteralMap:
		props := make([]gencode.Prop, len(x.Keys))
		for i, key := range x.Keys {
			props[i] = gencode.Prop{
				Key:    key.Key,
				Quoted: key.Quoted,
				Value:  t.translate(x.Values[i]),
			}
		}
		lit := &gencode.ObjectLit{Props: props, Span: &x.Span}
		return t.maybeWidenLiteral(lit, x.Span)

	case *texpr.Binary:
		return &gencode.Binary{Op: x.Op, L: t.translate(x.Left), R: t.translate(x.Right), Span: &x.Span}

	case *texpr.Unary:
		return &gencode.Unary{Op: x.Op, E: t.translate(x.Expr), Span: &x.Span}

	case *texpr.PrefixNot:
		return &gencode.Unary{Op: "!", E: t.translate(x.Expr), Span: &x.Span}

	case *texpr.NonNullAssert:
		return &gencode.NonNull{E: t.translate(x.Expr), Span: &x.Span}

	case *texpr.Conditional:
		return &gencode.Ternary{
			Cond: t.translate(x.Cond),
			Then: t.translate(x.TrueExpr),
			Else: t.translate(x.FalseExpr),
			Span: &x.Span,
		}

	case *texpr.Interpolation:
		var acc gencode.Expression = gencode.Str(x.Strings[0], nil)
		for i, sub := range x.Exprs {
			acc = &gencode.Binary{Op: "+", L: acc, R: &gencode.Paren{E: t.translate(sub)}}
			if tail := x.Strings[i+1]; tail != "" {
				acc = &gencode.Binary{Op: "+", L: acc, R: gencode.Str(tail, nil)}
			}
		}
		return acc

	case *texpr.EmptyExpr:
		return gencode.InferAny()

	default:
		panic(fmt.Sprintf("tcb: unhandled expression node %T", e))
	}
}

// translateRead handles unqualified and this-qualified property reads.
// Both resolve against the scope chain before falling through to the
// top-level context receiver. When a nested scope declares a variable
// with the same name as a context property, a this-qualified read picks
// the variable; that result is wrong but downstream tooling depends on
// the exact output, so it stays.
func (t *exprTranslator) translateRead(read texpr.Expr, receiver texpr.Expr, name string) gencode.Expression {
	if t.resolveSpecial != nil {
		if res := t.resolveSpecial(read, name); res != nil {
			return res
		}
	}

	if target := t.tcb.target.ExpressionTarget(read); target != nil {
		return respan(t.scope.resolve(target, nil), read.ExprSpan())
	}

	recv := t.translate(receiver)
	sp := read.ExprSpan()
	return &gencode.PropAccess{Recv: recv, Name: name, Span: &sp}
}

// safeNav emits one of the three safe-navigation forms. access builds
// the underlying read given a decorated qualifier.
func (t *exprTranslator) safeNav(recv gencode.Expression, access func(gencode.Expression) gencode.Expression, span position.Span) gencode.Expression {
	switch {
	case t.tcb.Config.StrictSafeNavigationTypes:
		// (0 as any ? a!.b : undefined) — the checker unions both
		// branches into (B | undefined).
		return &gencode.Paren{
			E: &gencode.Ternary{
				Cond: gencode.CastToAny(&gencode.Lit{Raw: "0"}),
				Then: access(&gencode.NonNull{E: recv}),
				Else: &gencode.Lit{Raw: "undefined"},
			},
			Span: &span,
		}

	case t.tcb.Config.LegacySafeNavigation:
		// ((a as any).b) — the legacy engine never checked the
		// qualifier; kept bug-for-bug.
		return &gencode.Paren{E: access(gencode.CastToAny(recv)), Span: &span}

	default:
		// ((a!.b as any)) — qualifier is checked, result degrades.
		return &gencode.Paren{
			E:    &gencode.Cast{E: access(&gencode.NonNull{E: recv}), To: gencode.Any()},
			Span: &span,
		}
	}
}

// tryAnyCast rewrites $any(expr) into a parenthesized cast to the top
// type.
func (t *exprTranslator) tryAnyCast(call *texpr.Call) gencode.Expression {
	read, ok := call.Receiver.(*texpr.PropertyRead)
	if !ok || read.Name != anyEscapeHatch || len(call.Args) != 1 {
		return nil
	}
	if _, ok := read.Receiver.(*texpr.ImplicitReceiver); !ok {
		return nil
	}
	return &gencode.Paren{
		E:    &gencode.Cast{E: t.translate(call.Args[0]), To: gencode.Any()},
		Span: &call.Span,
	}
}

func (t *exprTranslator) translatePipe(pipe *texpr.Pipe) gencode.Expression {
	var pipeExpr gencode.Expression
	if found, ok := t.tcb.PipeByName(pipe.Name); !ok {
		// Degrade to a top-typed placeholder so the rest of the
		// expression is still checked.
		t.tcb.report(diagnostic.CodeMissingPipe, diagnostic.Error, pipe.NameSpan,
			"no pipe named %q is available", pipe.Name)
		pipeExpr = gencode.InferAny()
	} else if !t.tcb.Config.CheckTypeOfPipes {
		pipeExpr = gencode.CastToAny(t.tcb.env.PipeInstance(found))
	} else {
		pipeExpr = t.tcb.env.PipeInstance(found)
	}

	args := make([]gencode.Expression, 0, len(pipe.Args)+1)
	args = append(args, t.translate(pipe.Exp))
	for _, a := range pipe.Args {
		args = append(args, t.translate(a))
	}
	return &gencode.Call{
		Fn:   &gencode.PropAccess{Recv: pipeExpr, Name: "transform", Span: &pipe.NameSpan},
		Args: args,
		Span: &pipe.Span,
	}
}

func (t *exprTranslator) maybeWidenLiteral(lit gencode.Expression, span position.Span) gencode.Expression {
	if t.tcb.Config.StrictLiteralTypes {
		return lit
	}
	// Widening literals avoids premature errors from literal-type
	// inference.
	return &gencode.Paren{E: &gencode.Cast{E: lit, To: gencode.Any()}, Span: &span}
}

func (t *exprTranslator) translateAll(exprs []texpr.Expr) []gencode.Expression {
	out := make([]gencode.Expression, len(exprs))
	for i, e := range exprs {
		out[i] = t.translate(e)
	}
	return out
}

// respan rebinds a resolved identifier to its use site so the mapping
// table points each read at the template text that performed it.
func respan(res gencode.Expression, span position.Span) gencode.Expression {
	if id, ok := res.(*gencode.Ident); ok {
		return id.WithSpan(span)
	}
	return &gencode.Paren{E: res, Span: &span}
}

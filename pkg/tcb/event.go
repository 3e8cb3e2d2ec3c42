package tcb

import (
	"github.com/walteh/tplcheck/pkg/gencode"
	"github.com/walteh/tplcheck/pkg/texpr"
	"github.com/walteh/tplcheck/pkg/tmplast"
)

// eventParamName is the conventional event payload binding inside
// handler arrow functions.
const eventParamName = "$event"

// tcbCreateEventHandler builds the arrow function synthesized for an
// event binding. paramType annotates the $event parameter; nil leaves
// it unannotated so the checker infers it from the subscription site.
//
// Handlers run under the narrowing established by enclosing template
// guards, so the body is re-wrapped in the scope's guard condition.
func tcbCreateEventHandler(event *tmplast.BoundEvent, tcb *Context, scope *Scope, paramType gencode.Type) gencode.Expression {
	t := &exprTranslator{tcb: tcb, scope: scope}
	t.resolveSpecial = func(read texpr.Expr, name string) gencode.Expression {
		if name != eventParamName {
			return nil
		}
		pr, ok := read.(*texpr.PropertyRead)
		if !ok {
			return nil
		}
		if _, ok := pr.Receiver.(*texpr.ImplicitReceiver); !ok {
			return nil
		}
		sp := pr.NameSpan
		return &gencode.Ident{Name: eventParamName, Span: &sp}
	}

	var handler gencode.Expression
	if event.Type == tmplast.EventTwoWay {
		// (x)="target" is sugar for the assignment target = $event.
		target := t.translate(event.Handler)
		sp := event.Handler.ExprSpan()
		handler = &gencode.Binary{
			Op:   "=",
			L:    target,
			R:    &gencode.Ident{Name: eventParamName},
			Span: &sp,
		}
	} else {
		handler = t.translate(event.Handler)
	}

	body := []gencode.Statement{&gencode.ExprStmt{E: handler, Span: &event.HandlerSpan}}
	if guard := scope.guards(); guard != nil {
		body = []gencode.Statement{&gencode.If{Cond: guard, Then: body}}
	}

	return &gencode.Arrow{
		Params: []gencode.Param{{Name: eventParamName, Type: paramType}},
		Body:   body,
		Span:   &event.Span,
	}
}

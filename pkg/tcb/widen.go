package tcb

import (
	"github.com/walteh/tplcheck/pkg/gencode"
	"github.com/walteh/tplcheck/pkg/texpr"
)

// widenBinding applies the configured input-binding widening policy to
// a translated binding expression. ast is the original expression the
// translation came from; literal detection works on it rather than the
// synthesized tree because translation may already have wrapped the
// literal.
func widenBinding(expr gencode.Expression, ast texpr.Expr, tcb *Context) gencode.Expression {
	if !tcb.Config.CheckTypeOfInputBindings {
		return gencode.CastToAny(expr)
	}
	if !tcb.Config.StrictNullInputBindings {
		// Object and array literals can never be null, so asserting
		// them away would only discard inference detail.
		switch ast.(type) {
		case *texpr.LiteralArray, *texpr.LiteralMap:
			return expr
		}
		return &gencode.NonNull{E: expr}
	}
	return expr
}

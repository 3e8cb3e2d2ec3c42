package texpr

import (
	"encoding/json"

	"github.com/walteh/tplcheck/pkg/position"
	"gitlab.com/tozd/go/errors"
)

// jsonExpr is the kind-discriminated interchange form of an expression.
// Hosts serialize their parsed expression trees into this shape; only the
// fields relevant to a kind are populated.
type jsonExpr struct {
	Kind     string      `json:"kind"`
	Span     [2]int      `json:"span"`
	NameSpan *[2]int     `json:"nameSpan,omitempty"`
	Name     string      `json:"name,omitempty"`
	Op       string      `json:"op,omitempty"`
	Raw      string      `json:"raw,omitempty"`
	Receiver *jsonExpr   `json:"receiver,omitempty"`
	Exp      *jsonExpr   `json:"exp,omitempty"`
	Key      *jsonExpr   `json:"key,omitempty"`
	Expr     *jsonExpr   `json:"expr,omitempty"`
	Cond     *jsonExpr   `json:"cond,omitempty"`
	True     *jsonExpr   `json:"true,omitempty"`
	False    *jsonExpr   `json:"false,omitempty"`
	Left     *jsonExpr   `json:"left,omitempty"`
	Right    *jsonExpr   `json:"right,omitempty"`
	Args     []*jsonExpr `json:"args,omitempty"`
	Values   []*jsonExpr `json:"values,omitempty"`
	Keys     []jsonKey   `json:"keys,omitempty"`
	Strings  []string    `json:"strings,omitempty"`
	Exprs    []*jsonExpr `json:"exprs,omitempty"`
}

type jsonKey struct {
	Key    string `json:"key"`
	Quoted bool   `json:"quoted,omitempty"`
}

// Decode parses one interchange-encoded expression.
func Decode(data []byte) (Expr, error) {
	var j jsonExpr
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, errors.Errorf("decoding expression: %w", err)
	}
	return fromJSON(&j)
}

func spanOf(raw [2]int) position.Span {
	return position.NewSpan(raw[0], raw[1])
}

func nameSpanOf(j *jsonExpr) position.Span {
	if j.NameSpan != nil {
		return spanOf(*j.NameSpan)
	}
	return spanOf(j.Span)
}

func fromJSON(j *jsonExpr) (Expr, error) {
	if j == nil {
		return nil, nil
	}
	span := spanOf(j.Span)

	switch j.Kind {
	case "implicitReceiver":
		return &ImplicitReceiver{Span: span}, nil
	case "thisReceiver":
		return &ThisReceiver{Span: span}, nil
	case "propertyRead", "safePropertyRead":
		recv, err := fromJSON(j.Receiver)
		if err != nil {
			return nil, err
		}
		if recv == nil {
			recv = &ImplicitReceiver{Span: position.NewSpan(span.Start, span.Start)}
		}
		if j.Kind == "safePropertyRead" {
			return &SafePropertyRead{Receiver: recv, Name: j.Name, Span: span, NameSpan: nameSpanOf(j)}, nil
		}
		return &PropertyRead{Receiver: recv, Name: j.Name, Span: span, NameSpan: nameSpanOf(j)}, nil
	case "keyedRead", "safeKeyedRead":
		recv, err := fromJSON(j.Receiver)
		if err != nil {
			return nil, err
		}
		key, err := fromJSON(j.Key)
		if err != nil {
			return nil, err
		}
		if j.Kind == "safeKeyedRead" {
			return &SafeKeyedRead{Receiver: recv, Key: key, Span: span}, nil
		}
		return &KeyedRead{Receiver: recv, Key: key, Span: span}, nil
	case "call", "safeCall":
		recv, err := fromJSON(j.Receiver)
		if err != nil {
			return nil, err
		}
		args, err := exprList(j.Args)
		if err != nil {
			return nil, err
		}
		if j.Kind == "safeCall" {
			return &SafeCall{Receiver: recv, Args: args, Span: span}, nil
		}
		return &Call{Receiver: recv, Args: args, Span: span}, nil
	case "pipe":
		exp, err := fromJSON(j.Exp)
		if err != nil {
			return nil, err
		}
		args, err := exprList(j.Args)
		if err != nil {
			return nil, err
		}
		return &Pipe{Exp: exp, Name: j.Name, Args: args, Span: span, NameSpan: nameSpanOf(j)}, nil
	case "literal":
		return &LiteralPrimitive{Raw: j.Raw, Span: span}, nil
	case "literalArray":
		values, err := exprList(j.Values)
		if err != nil {
			return nil, err
		}
		return &LiteralArray{Values: values, Span: span}, nil
	case "literalMap":
		values, err := exprList(j.Values)
		if err != nil {
			return nil, err
		}
		keys := make([]LiteralMapKey, len(j.Keys))
		for i, k := range j.Keys {
			keys[i] = LiteralMapKey{Key: k.Key, Quoted: k.Quoted}
		}
		if len(keys) != len(values) {
			return nil, errors.Errorf("literal map has %d keys but %d values", len(keys), len(values))
		}
		return &LiteralMap{Keys: keys, Values: values, Span: span}, nil
	case "binary":
		left, err := fromJSON(j.Left)
		if err != nil {
			return nil, err
		}
		right, err := fromJSON(j.Right)
		if err != nil {
			return nil, err
		}
		return &Binary{Op: j.Op, Left: left, Right: right, Span: span}, nil
	case "unary":
		inner, err := fromJSON(j.Expr)
		if err != nil {
			return nil, err
		}
		return &Unary{Op: j.Op, Expr: inner, Span: span}, nil
	case "prefixNot":
		inner, err := fromJSON(j.Expr)
		if err != nil {
			return nil, err
		}
		return &PrefixNot{Expr: inner, Span: span}, nil
	case "nonNullAssert":
		inner, err := fromJSON(j.Expr)
		if err != nil {
			return nil, err
		}
		return &NonNullAssert{Expr: inner, Span: span}, nil
	case "conditional":
		cond, err := fromJSON(j.Cond)
		if err != nil {
			return nil, err
		}
		trueExpr, err := fromJSON(j.True)
		if err != nil {
			return nil, err
		}
		falseExpr, err := fromJSON(j.False)
		if err != nil {
			return nil, err
		}
		return &Conditional{Cond: cond, TrueExpr: trueExpr, FalseExpr: falseExpr, Span: span}, nil
	case "interpolation":
		exprs, err := exprList(j.Exprs)
		if err != nil {
			return nil, err
		}
		if len(j.Strings) != len(exprs)+1 {
			return nil, errors.Errorf("interpolation has %d strings for %d expressions", len(j.Strings), len(exprs))
		}
		return &Interpolation{Strings: j.Strings, Exprs: exprs, Span: span}, nil
	case "empty":
		return &EmptyExpr{Span: span}, nil
	default:
		return nil, errors.Errorf("unknown expression kind %q", j.Kind)
	}
}

func exprList(js []*jsonExpr) ([]Expr, error) {
	out := make([]Expr, 0, len(js))
	for _, j := range js {
		e, err := fromJSON(j)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

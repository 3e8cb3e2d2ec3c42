package gencode

import (
	"strconv"
	"strings"

	"github.com/walteh/tplcheck/pkg/position"
)

// Mapping ties one range of the generated text to the template span it
// originated from.
type Mapping struct {
	Gen position.Span
	Src position.Span
}

// SourceMapper answers both directions of the round-trip query between
// generated text and template source.
type SourceMapper struct {
	mappings []Mapping
}

// Mappings returns the recorded mappings in emission order. Outer nodes
// appear before the nodes they contain.
func (m *SourceMapper) Mappings() []Mapping {
	return m.mappings
}

// SourceAt returns the template span for a generated offset. The
// innermost (narrowest) enclosing mapping wins. ok is false when the
// offset falls only on scaffolding.
func (m *SourceMapper) SourceAt(genOffset int) (position.Span, bool) {
	var best *Mapping
	for i := range m.mappings {
		mp := &m.mappings[i]
		if !mp.Gen.Contains(genOffset) {
			continue
		}
		if best == nil || best.Gen.Length() > mp.Gen.Length() {
			best = mp
		}
	}
	if best == nil {
		return position.Span{}, false
	}
	return best.Src, true
}

// SourceForSpan returns the template span for an exact generated range.
func (m *SourceMapper) SourceForSpan(gen position.Span) (position.Span, bool) {
	for _, mp := range m.mappings {
		if mp.Gen == gen {
			return mp.Src, true
		}
	}
	return position.Span{}, false
}

// GeneratedFor returns the narrowest generated range whose source is
// exactly the given template span.
func (m *SourceMapper) GeneratedFor(src position.Span) (position.Span, bool) {
	var best *Mapping
	for i := range m.mappings {
		mp := &m.mappings[i]
		if mp.Src != src {
			continue
		}
		if best == nil || best.Gen.Length() > mp.Gen.Length() {
			best = mp
		}
	}
	if best == nil {
		return position.Span{}, false
	}
	return best.Gen, true
}

// Emit renders the statements as TypeScript-flavored text and returns
// the span table tying the text back to the template.
func Emit(stmts []Statement) (string, *SourceMapper) {
	e := &emitter{mapper: &SourceMapper{}}
	for _, s := range stmts {
		s.emitStmt(e)
		e.raw("\n")
	}
	return e.sb.String(), e.mapper
}

// EmitExpression renders a single expression; used by tests and by
// hosts that inspect one fragment at a time.
func EmitExpression(expr Expression) (string, *SourceMapper) {
	e := &emitter{mapper: &SourceMapper{}}
	expr.emitExpr(e)
	return e.sb.String(), e.mapper
}

type emitter struct {
	sb     strings.Builder
	mapper *SourceMapper
}

func (e *emitter) raw(s string) {
	e.sb.WriteString(s)
}

// spanned runs f and, when src is set, records the generated range f
// produced against it.
func (e *emitter) spanned(src *position.Span, f func()) {
	if src == nil {
		f()
		return
	}
	start := e.sb.Len()
	f()
	e.mapper.mappings = append(e.mapper.mappings, Mapping{
		Gen: position.NewSpan(start, e.sb.Len()),
		Src: *src,
	})
}

func quote(s string) string {
	return strconv.Quote(s)
}

func (x *Ident) emitExpr(e *emitter) {
	e.spanned(x.Span, func() { e.raw(x.Name) })
}

func (x *PropAccess) emitExpr(e *emitter) {
	e.spanned(x.Span, func() {
		x.Recv.emitExpr(e)
		e.raw(".")
		e.raw(x.Name)
	})
}

func (x *IndexAccess) emitExpr(e *emitter) {
	e.spanned(x.Span, func() {
		x.Recv.emitExpr(e)
		e.raw("[")
		x.Key.emitExpr(e)
		e.raw("]")
	})
}

func (x *Call) emitExpr(e *emitter) {
	e.spanned(x.Span, func() {
		x.Fn.emitExpr(e)
		e.raw("(")
		for i, arg := range x.Args {
			if i > 0 {
				e.raw(", ")
			}
			arg.emitExpr(e)
		}
		e.raw(")")
	})
}

func (x *Binary) emitExpr(e *emitter) {
	e.spanned(x.Span, func() {
		x.L.emitExpr(e)
		e.raw(" " + x.Op + " ")
		x.R.emitExpr(e)
	})
}

func (x *Unary) emitExpr(e *emitter) {
	e.spanned(x.Span, func() {
		e.raw(x.Op)
		x.E.emitExpr(e)
	})
}

func (x *Ternary) emitExpr(e *emitter) {
	e.spanned(x.Span, func() {
		x.Cond.emitExpr(e)
		e.raw(" ? ")
		x.Then.emitExpr(e)
		e.raw(" : ")
		x.Else.emitExpr(e)
	})
}

func (x *NonNull) emitExpr(e *emitter) {
	e.spanned(x.Span, func() {
		x.E.emitExpr(e)
		e.raw("!")
	})
}

func (x *Cast) emitExpr(e *emitter) {
	e.spanned(x.Span, func() {
		x.E.emitExpr(e)
		e.raw(" as ")
		x.To.emitType(e)
	})
}

func (x *Paren) emitExpr(e *emitter) {
	e.spanned(x.Span, func() {
		e.raw("(")
		x.E.emitExpr(e)
		e.raw(")")
	})
}

func (x *Lit) emitExpr(e *emitter) {
	e.spanned(x.Span, func() { e.raw(x.Raw) })
}

func (x *ArrayLit) emitExpr(e *emitter) {
	e.spanned(x.Span, func() {
		e.raw("[")
		for i, el := range x.Elems {
			if i > 0 {
				e.raw(", ")
			}
			el.emitExpr(e)
		}
		e.raw("]")
	})
}

func (x *ObjectLit) emitExpr(e *emitter) {
	e.spanned(x.Span, func() {
		if len(x.Props) == 0 {
			e.raw("{}")
			return
		}
		e.raw("{ ")
		for i, p := range x.Props {
			if i > 0 {
				e.raw(", ")
			}
			if p.Quoted {
				e.raw(quote(p.Key))
			} else {
				e.raw(p.Key)
			}
			e.raw(": ")
			p.Value.emitExpr(e)
		}
		e.raw(" }")
	})
}

func (x *Arrow) emitExpr(e *emitter) {
	e.spanned(x.Span, func() {
		e.raw("(")
		for i, p := range x.Params {
			if i > 0 {
				e.raw(", ")
			}
			e.raw(p.Name)
			if p.Type != nil {
				e.raw(": ")
				p.Type.emitType(e)
			}
		}
		e.raw("): any => {")
		if len(x.Body) == 0 {
			e.raw("}")
			return
		}
		e.raw("\n")
		for _, s := range x.Body {
			s.emitStmt(e)
			e.raw("\n")
		}
		e.raw("}")
	})
}

func (t *TypeRef) emitType(e *emitter) {
	e.raw(t.Name)
	if len(t.Params) == 0 {
		return
	}
	e.raw("<")
	for i, p := range t.Params {
		if i > 0 {
			e.raw(", ")
		}
		p.emitType(e)
	}
	e.raw(">")
}

func (s *VarDecl) emitStmt(e *emitter) {
	e.spanned(s.Span, func() {
		e.raw("var ")
		s.Name.emitExpr(e)
		e.raw(" = ")
		s.Init.emitExpr(e)
		e.raw(";")
	})
}

func (s *ExprStmt) emitStmt(e *emitter) {
	e.spanned(s.Span, func() {
		s.E.emitExpr(e)
		e.raw(";")
	})
}

func (s *If) emitStmt(e *emitter) {
	e.spanned(s.Span, func() {
		e.raw("if (")
		s.Cond.emitExpr(e)
		e.raw(") {\n")
		for _, st := range s.Then {
			st.emitStmt(e)
			e.raw("\n")
		}
		e.raw("}")
	})
}

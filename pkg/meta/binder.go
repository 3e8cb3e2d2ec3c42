package meta

import (
	"strings"

	"github.com/walteh/tplcheck/pkg/texpr"
	"github.com/walteh/tplcheck/pkg/tmplast"
	"gitlab.com/tozd/go/errors"
)

// Registry is the set of declarations in scope for one template: every
// directive and pipe the host compiled for the enclosing component.
type Registry struct {
	Directives []*Directive `json:"directives"`
	Pipes      []*Pipe      `json:"pipes"`
}

// Binder computes a BoundTarget for a template against a Registry. The
// host IDE has its own binder; this one exists so the synthesizer can be
// driven end to end from interchange data.
type Binder struct {
	registry *Registry
}

func NewBinder(registry *Registry) *Binder {
	return &Binder{registry: registry}
}

type boundTarget struct {
	directives  map[tmplast.Node][]*Directive
	refTargets  map[*tmplast.Reference]ReferenceTarget
	exprTargets map[texpr.Expr]tmplast.Node
	pipes       map[string]*Pipe
	usedPipes   []string
}

var _ BoundTarget = (*boundTarget)(nil)

// Bind matches directives, resolves references and binds expression
// reads for every node in the template.
func (b *Binder) Bind(nodes []tmplast.Node) (BoundTarget, error) {
	bt := &boundTarget{
		directives:  make(map[tmplast.Node][]*Directive),
		refTargets:  make(map[*tmplast.Reference]ReferenceTarget),
		exprTargets: make(map[texpr.Expr]tmplast.Node),
		pipes:       make(map[string]*Pipe),
	}
	for _, p := range b.registry.Pipes {
		if _, ok := bt.pipes[p.Name]; ok {
			return nil, errors.Errorf("duplicate pipe name %q in registry", p.Name)
		}
		bt.pipes[p.Name] = p
	}

	root := newBindScope(nil)
	b.bindLevel(bt, nodes, root)
	return bt, nil
}

type bindScope struct {
	parent   *bindScope
	entities map[string]tmplast.Node
}

func newBindScope(parent *bindScope) *bindScope {
	return &bindScope{parent: parent, entities: make(map[string]tmplast.Node)}
}

func (s *bindScope) declare(name string, entity tmplast.Node) {
	// First declaration wins; the synthesizer reports the duplicate.
	if _, ok := s.entities[name]; ok {
		return
	}
	s.entities[name] = entity
}

func (s *bindScope) lookup(name string) tmplast.Node {
	for cur := s; cur != nil; cur = cur.parent {
		if e, ok := cur.entities[name]; ok {
			return e
		}
	}
	return nil
}

// bindLevel processes all nodes of one lexical level: it hoists the
// level's references, matches directives, resolves expression reads and
// recurses into nested templates with a child scope.
func (b *Binder) bindLevel(bt *boundTarget, nodes []tmplast.Node, scope *bindScope) {
	// References are visible to the whole level, including bindings that
	// appear before the declaring node.
	var hoist func(nodes []tmplast.Node)
	hoist = func(nodes []tmplast.Node) {
		for _, n := range nodes {
			switch node := n.(type) {
			case *tmplast.Element:
				for _, ref := range node.References {
					scope.declare(ref.Name, ref)
				}
				hoist(node.Children)
			case *tmplast.Template:
				for _, ref := range node.References {
					scope.declare(ref.Name, ref)
				}
			case *tmplast.Content:
				hoist(node.Children)
			}
		}
	}
	hoist(nodes)

	var walk func(nodes []tmplast.Node)
	walk = func(nodes []tmplast.Node) {
		for _, n := range nodes {
			switch node := n.(type) {
			case *tmplast.Element:
				b.bindDirectiveOwner(bt, node, scope)
				walk(node.Children)

			case *tmplast.Template:
				// The template's own bindings evaluate in the outer
				// scope; only its children see its variables.
				b.bindDirectiveOwner(bt, node, scope)
				child := newBindScope(scope)
				for _, v := range node.Variables {
					child.declare(v.Name, v)
				}
				b.bindLevel(bt, node.Children, child)

			case *tmplast.BoundText:
				b.bindExpr(bt, node.Value, scope)

			case *tmplast.Content:
				walk(node.Children)
			}
		}
	}
	walk(nodes)
}

func (b *Binder) bindDirectiveOwner(bt *boundTarget, node tmplast.DirectiveOwner, scope *bindScope) {
	var matched []*Directive
	for _, dir := range b.registry.Directives {
		if selectorMatches(dir.Selector, node) {
			matched = append(matched, dir)
		}
	}
	bt.directives[node] = matched

	for _, ref := range node.LocalReferences() {
		if target, ok := resolveReference(ref, node, matched); ok {
			bt.refTargets[ref] = target
		}
	}

	for _, input := range node.BoundInputs() {
		b.bindExpr(bt, input.Value, scope)
	}
	for _, output := range node.BoundOutputs() {
		b.bindExpr(bt, output.Handler, scope)
	}
}

func resolveReference(ref *tmplast.Reference, node tmplast.DirectiveOwner, matched []*Directive) (ReferenceTarget, bool) {
	if ref.Value == "" {
		// An unvalued reference targets the component when one matched,
		// otherwise the element or template itself.
		for _, dir := range matched {
			if dir.IsComponent {
				return ReferenceTarget{Node: node, Directive: dir}, true
			}
		}
		return ReferenceTarget{Node: node}, true
	}
	for _, dir := range matched {
		for _, exportAs := range dir.ExportAs {
			if exportAs == ref.Value {
				return ReferenceTarget{Node: node, Directive: dir}, true
			}
		}
	}
	return ReferenceTarget{}, false
}

// bindExpr records the scope entity behind every unqualified (or
// this-qualified) read, and collects pipe usages.
func (b *Binder) bindExpr(bt *boundTarget, expr texpr.Expr, scope *bindScope) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *texpr.PropertyRead:
		b.bindRead(bt, e, e.Receiver, e.Name, scope)
	case *texpr.SafePropertyRead:
		b.bindRead(bt, e, e.Receiver, e.Name, scope)
	case *texpr.KeyedRead:
		b.bindExpr(bt, e.Receiver, scope)
		b.bindExpr(bt, e.Key, scope)
	case *texpr.SafeKeyedRead:
		b.bindExpr(bt, e.Receiver, scope)
		b.bindExpr(bt, e.Key, scope)
	case *texpr.Call:
		b.bindExpr(bt, e.Receiver, scope)
		for _, a := range e.Args {
			b.bindExpr(bt, a, scope)
		}
	case *texpr.SafeCall:
		b.bindExpr(bt, e.Receiver, scope)
		for _, a := range e.Args {
			b.bindExpr(bt, a, scope)
		}
	case *texpr.Pipe:
		if _, seen := firstIndex(bt.usedPipes, e.Name); !seen {
			bt.usedPipes = append(bt.usedPipes, e.Name)
		}
		b.bindExpr(bt, e.Exp, scope)
		for _, a := range e.Args {
			b.bindExpr(bt, a, scope)
		}
	case *texpr.LiteralArray:
		for _, v := range e.Values {
			b.bindExpr(bt, v, scope)
		}
	case *texpr.LiteralMap:
		for _, v := range e.Values {
			b.bindExpr(bt, v, scope)
		}
	case *texpr.Binary:
		b.bindExpr(bt, e.Left, scope)
		b.bindExpr(bt, e.Right, scope)
	case *texpr.Unary:
		b.bindExpr(bt, e.Expr, scope)
	case *texpr.PrefixNot:
		b.bindExpr(bt, e.Expr, scope)
	case *texpr.NonNullAssert:
		b.bindExpr(bt, e.Expr, scope)
	case *texpr.Conditional:
		b.bindExpr(bt, e.Cond, scope)
		b.bindExpr(bt, e.TrueExpr, scope)
		b.bindExpr(bt, e.FalseExpr, scope)
	case *texpr.Interpolation:
		for _, sub := range e.Exprs {
			b.bindExpr(bt, sub, scope)
		}
	}
}

func (b *Binder) bindRead(bt *boundTarget, read texpr.Expr, receiver texpr.Expr, name string, scope *bindScope) {
	switch receiver.(type) {
	case *texpr.ImplicitReceiver, *texpr.ThisReceiver:
		if entity := scope.lookup(name); entity != nil {
			bt.exprTargets[read] = entity
		}
	default:
		b.bindExpr(bt, receiver, scope)
	}
}

func firstIndex(list []string, val string) (int, bool) {
	for i, s := range list {
		if s == val {
			return i, true
		}
	}
	return -1, false
}

// selectorMatches supports the selector subset the suite's template
// languages use: comma-separated alternatives of an element name, an
// [attr] requirement, or both.
func selectorMatches(selector string, node tmplast.DirectiveOwner) bool {
	for _, alt := range strings.Split(selector, ",") {
		if alternativeMatches(strings.TrimSpace(alt), node) {
			return true
		}
	}
	return false
}

func alternativeMatches(alt string, node tmplast.DirectiveOwner) bool {
	if alt == "" {
		return false
	}
	tag := alt
	var attrs []string
	for {
		open := strings.IndexByte(tag, '[')
		if open < 0 {
			break
		}
		end := strings.IndexByte(tag[open:], ']')
		if end < 0 {
			return false
		}
		attrs = append(attrs, tag[open+1:open+end])
		tag = tag[:open] + tag[open+end+1:]
	}
	if tag != "" && tag != node.TagName() {
		return false
	}
	for _, attr := range attrs {
		if !hasAttribute(node, attr) {
			return false
		}
	}
	return tag != "" || len(attrs) > 0
}

func hasAttribute(node tmplast.DirectiveOwner, name string) bool {
	for _, a := range node.TextAttributes() {
		if a.Name == name {
			return true
		}
	}
	for _, in := range node.BoundInputs() {
		if in.Name == name {
			return true
		}
	}
	for _, out := range node.BoundOutputs() {
		if out.Name == name {
			return true
		}
	}
	return false
}

func (bt *boundTarget) DirectivesOfNode(node tmplast.Node) []*Directive {
	return bt.directives[node]
}

func (bt *boundTarget) ReferenceTarget(ref *tmplast.Reference) (ReferenceTarget, bool) {
	target, ok := bt.refTargets[ref]
	return target, ok
}

func (bt *boundTarget) ExpressionTarget(expr texpr.Expr) tmplast.Node {
	return bt.exprTargets[expr]
}

func (bt *boundTarget) PipeByName(name string) (*Pipe, bool) {
	p, ok := bt.pipes[name]
	return p, ok
}

func (bt *boundTarget) UsedPipes() []string {
	return bt.usedPipes
}

package tcb

import (
	"fmt"

	"github.com/walteh/tplcheck/pkg/diagnostic"
	"github.com/walteh/tplcheck/pkg/gencode"
	"github.com/walteh/tplcheck/pkg/meta"
	"github.com/walteh/tplcheck/pkg/tmplast"
)

// opSlot is one position in a Scope's operation queue. A slot moves
// through exactly three states: pending (op holds the real operation),
// in progress (op holds the circular fallback), and done (result holds
// the cached value, which may legitimately be nil).
type opSlot struct {
	op     tcbOp
	result gencode.Expression
	done   bool
}

// Scope builds and renders the ordered synthesis program for one
// lexical level of the template: the root, or one nested template.
type Scope struct {
	tcb    *Context
	parent *Scope

	// guard is this level's narrowing condition; ancestors' guards
	// compose in front of it.
	guard gencode.Expression

	opQueue    []opSlot
	statements []gencode.Statement

	elementOps     map[*tmplast.Element]int
	templateCtxOps map[*tmplast.Template]int
	directiveOps   map[tmplast.Node]map[*meta.Directive]int
	referenceOps   map[*tmplast.Reference]int
	varOps         map[*tmplast.Variable]int
}

// newScope builds the scope for one lexical level. scopedNode is the
// template introducing the level, or nil for the root; scoping to any
// other node kind is not supported.
func newScope(tcb *Context, parent *Scope, scopedNode *tmplast.Template, children []tmplast.Node, guard gencode.Expression) *Scope {
	s := &Scope{
		tcb:            tcb,
		parent:         parent,
		guard:          guard,
		elementOps:     make(map[*tmplast.Element]int),
		templateCtxOps: make(map[*tmplast.Template]int),
		directiveOps:   make(map[tmplast.Node]map[*meta.Directive]int),
		referenceOps:   make(map[*tmplast.Reference]int),
		varOps:         make(map[*tmplast.Variable]int),
	}

	if scopedNode != nil {
		names := map[string]bool{}
		for _, v := range scopedNode.Variables {
			if names[v.Name] {
				// First declaration wins for all resolutions.
				tcb.report(diagnostic.CodeDuplicateTemplateVar, diagnostic.Error, v.Span,
					"template variable %q is declared more than once", v.Name)
				continue
			}
			names[v.Name] = true
			s.varOps[v] = s.pushOp(&variableOp{tcb: tcb, scope: s, template: scopedNode, variable: v})
		}
	}

	for _, child := range children {
		s.appendNode(child)
	}
	return s
}

func (s *Scope) pushOp(op tcbOp) int {
	s.opQueue = append(s.opQueue, opSlot{op: op})
	return len(s.opQueue) - 1
}

func (s *Scope) addStatement(stmt gencode.Statement) {
	s.statements = append(s.statements, stmt)
}

func (s *Scope) appendNode(node tmplast.Node) {
	switch n := node.(type) {
	case *tmplast.Element:
		s.elementOps[n] = s.pushOp(&elementOp{tcb: s.tcb, scope: s, element: n})
		// Content-projection consistency checking would be registered
		// here; it is not implemented yet.
		s.appendDirectivesAndInputsOfNode(n)
		s.appendOutputsOfNode(n)
		for _, child := range n.Children {
			s.appendNode(child)
		}
		s.appendReferencesOfNode(n)

	case *tmplast.Template:
		s.appendDirectivesAndInputsOfNode(n)
		s.appendOutputsOfNode(n)
		s.templateCtxOps[n] = s.pushOp(&templateCtxOp{tcb: s.tcb, scope: s, template: n})
		if s.tcb.Config.CheckTemplateBodies {
			s.pushOp(&templateBodyOp{tcb: s.tcb, scope: s, template: n})
		}
		s.appendReferencesOfNode(n)

	case *tmplast.BoundText:
		s.pushOp(&boundTextOp{tcb: s.tcb, scope: s, text: n})

	case *tmplast.Content:
		// Transparent container: children stay in this scope.
		for _, child := range n.Children {
			s.appendNode(child)
		}
	}
	// Other node kinds contribute nothing to type checking.
}

// appendDirectivesAndInputsOfNode queues a type-instantiation and an
// inputs-checking operation per matched directive, then an unclaimed
// inputs check for whatever bindings no directive declared.
func (s *Scope) appendDirectivesAndInputsOfNode(node tmplast.DirectiveOwner) {
	claimed := map[string]bool{}

	dirs := s.tcb.target.DirectivesOfNode(node)
	if len(dirs) > 0 {
		dirMap := make(map[*meta.Directive]int, len(dirs))
		for _, dir := range dirs {
			if dir.IsExplicitlyDeferred {
				s.tcb.report(diagnostic.CodeDeferredDirectiveEager, diagnostic.Error, node.NodeSpan(),
					"deferred directive %s is instantiated eagerly", dir.Name)
			}

			var op tcbOp
			switch {
			case !dir.IsGeneric:
				op = &directiveTypeOp{tcb: s.tcb, scope: s, node: node, dir: dir}
			case !dir.RequiresInlineTypeCtor || s.tcb.Config.UseInlineTypeConstructors:
				op = &directiveCtorOp{tcb: s.tcb, scope: s, node: node, dir: dir}
			default:
				op = &genericDirectiveTypeOp{tcb: s.tcb, scope: s, node: node, dir: dir}
			}
			dirMap[dir] = s.pushOp(op)

			s.pushOp(&directiveInputsOp{tcb: s.tcb, scope: s, node: node, dir: dir})

			for _, input := range dir.Inputs {
				claimed[input.BindingPropertyName] = true
			}
		}
		s.directiveOps[node] = dirMap
	}

	if el, ok := node.(*tmplast.Element); ok {
		s.pushOp(&unclaimedInputsOp{tcb: s.tcb, scope: s, element: el, claimed: claimed})
	}
}

// appendOutputsOfNode mirrors input expansion for event bindings.
func (s *Scope) appendOutputsOfNode(node tmplast.DirectiveOwner) {
	claimed := map[string]bool{}

	for _, dir := range s.tcb.target.DirectivesOfNode(node) {
		s.pushOp(&directiveOutputsOp{tcb: s.tcb, scope: s, node: node, dir: dir})
		for _, output := range dir.Outputs {
			claimed[output.BindingPropertyName] = true
		}
	}

	if el, ok := node.(*tmplast.Element); ok {
		s.pushOp(&unclaimedOutputsOp{tcb: s.tcb, scope: s, element: el, claimed: claimed})
	}
}

func (s *Scope) appendReferencesOfNode(node tmplast.DirectiveOwner) {
	for _, ref := range node.LocalReferences() {
		target, ok := s.tcb.target.ReferenceTarget(ref)
		if !ok {
			s.tcb.report(diagnostic.CodeMissingReferenceTarget, diagnostic.Error, ref.Span,
				"no directive on this node exports as %q", ref.Value)
			s.referenceOps[ref] = s.pushOp(&invalidReferenceOp{tcb: s.tcb, scope: s, ref: ref})
			continue
		}
		s.referenceOps[ref] = s.pushOp(&referenceOp{tcb: s.tcb, scope: s, node: node, ref: ref, target: target})
	}
}

// resolve returns the identifier produced by the operation registered
// for node (and, for directive instances, the directive), forcing its
// execution if it has not run yet. The lookup walks the parent chain; a
// miss everywhere is a synthesis bug and panics.
func (s *Scope) resolve(node tmplast.Node, dir *meta.Directive) gencode.Expression {
	for cur := s; cur != nil; cur = cur.parent {
		if res, ok := cur.resolveLocal(node, dir); ok {
			return res
		}
	}
	if dir != nil {
		panic(fmt.Sprintf("tcb: no operation registered for directive %s on node %T in any scope", dir.Name, node))
	}
	panic(fmt.Sprintf("tcb: no operation registered for node %T in any scope", node))
}

func (s *Scope) resolveLocal(node tmplast.Node, dir *meta.Directive) (gencode.Expression, bool) {
	if dir != nil {
		if m, ok := s.directiveOps[node]; ok {
			if idx, ok := m[dir]; ok {
				return s.executeOp(idx, false), true
			}
		}
		return nil, false
	}

	switch n := node.(type) {
	case *tmplast.Element:
		if idx, ok := s.elementOps[n]; ok {
			return s.executeOp(idx, false), true
		}
	case *tmplast.Template:
		if idx, ok := s.templateCtxOps[n]; ok {
			return s.executeOp(idx, false), true
		}
	case *tmplast.Variable:
		if idx, ok := s.varOps[n]; ok {
			return s.executeOp(idx, false), true
		}
	case *tmplast.Reference:
		if idx, ok := s.referenceOps[n]; ok {
			return s.executeOp(idx, false), true
		}
	}
	return nil, false
}

// executeOp runs the operation in one queue slot, memoizing its result
// in place. Before execute runs, the slot holds the operation's
// circular fallback: a re-entrant resolve during execution lands on the
// fallback instead of recursing, and the real result overwrites the
// slot once execution completes.
func (s *Scope) executeOp(index int, skipOptional bool) gencode.Expression {
	slot := &s.opQueue[index]
	if slot.done {
		return slot.result
	}

	op := slot.op
	if skipOptional && op.optional() {
		return nil
	}

	slot.op = op.circularFallback()
	res := op.execute()
	slot.op = nil
	slot.result = res
	slot.done = true
	return res
}

// Render executes every queued operation in insertion order and
// returns the accumulated statements. Optional operations nothing
// resolved are skipped unless the pass needs exhaustive identifiers.
func (s *Scope) Render() []gencode.Statement {
	skipOptional := !s.tcb.Config.EnableSymbolInspection
	for i := range s.opQueue {
		s.executeOp(i, skipOptional)
	}
	return s.statements
}

// guards composes the narrowing guard for this scope with every
// ancestor guard, parent first: a parent's narrowing is a precondition
// for the child guard's validity.
func (s *Scope) guards() gencode.Expression {
	var parentGuard gencode.Expression
	if s.parent != nil {
		parentGuard = s.parent.guards()
	}
	if parentGuard == nil {
		return s.guard
	}
	if s.guard == nil {
		return parentGuard
	}
	return &gencode.Binary{Op: "&&", L: parentGuard, R: s.guard}
}

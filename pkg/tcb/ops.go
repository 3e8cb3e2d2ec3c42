package tcb

import (
	"strings"

	"github.com/walteh/tplcheck/pkg/diagnostic"
	"github.com/walteh/tplcheck/pkg/gencode"
	"github.com/walteh/tplcheck/pkg/meta"
	"github.com/walteh/tplcheck/pkg/position"
	"github.com/walteh/tplcheck/pkg/tmplast"
)

// tcbOp is one unit of pending synthesis work. The set of
// implementations is closed: every variant lives in this file.
//
// An operation executes at most once per pass. While it executes, its
// queue slot temporarily holds its circular fallback so re-entrant
// resolution terminates with a usable placeholder instead of recursing.
type tcbOp interface {
	// optional operations may be skipped entirely when rendering for a
	// consumer that does not need exhaustive identifiers, unless
	// something resolved them first.
	optional() bool

	// execute performs the synthesis work, appending statements to the
	// owning scope, and returns the operation's identifier (nil when the
	// operation produces no value).
	execute() gencode.Expression

	// circularFallback is substituted into the queue slot for the
	// duration of execute.
	circularFallback() tcbOp
}

// inferTypeFallbackOp is the shared fallback: a type-inferring
// placeholder value. It resolves nothing, so it can never re-enter.
type inferTypeFallbackOp struct{}

func (inferTypeFallbackOp) optional() bool              { return false }
func (inferTypeFallbackOp) execute() gencode.Expression { return gencode.InferAny() }
func (op inferTypeFallbackOp) circularFallback() tcbOp  { return op }

// elementOp creates the variable standing in for a DOM element. Only
// materialized when something references the element.
type elementOp struct {
	tcb     *Context
	scope   *Scope
	element *tmplast.Element
}

func (op *elementOp) optional() bool          { return true }
func (op *elementOp) circularFallback() tcbOp { return inferTypeFallbackOp{} }

func (op *elementOp) execute() gencode.Expression {
	id := op.tcb.AllocateID(&op.element.Span, gencode.TagElement)
	op.scope.addStatement(&gencode.VarDecl{
		Name: id,
		Init: &gencode.Call{
			Fn: &gencode.PropAccess{
				Recv: &gencode.Ident{Name: "document"},
				Name: "createElement",
			},
			Args: []gencode.Expression{gencode.Str(op.element.Name, nil)},
		},
	})
	return id
}

// variableOp extracts one let- variable out of its template's context.
type variableOp struct {
	tcb      *Context
	scope    *Scope
	template *tmplast.Template
	variable *tmplast.Variable
}

func (op *variableOp) optional() bool          { return false }
func (op *variableOp) circularFallback() tcbOp { return inferTypeFallbackOp{} }

func (op *variableOp) execute() gencode.Expression {
	ctx := op.scope.resolve(op.template, nil)

	key := op.variable.Value
	if key == "" {
		key = "$implicit"
	}

	id := op.tcb.AllocateID(&op.variable.KeySpan, gencode.TagVariable)
	op.scope.addStatement(&gencode.VarDecl{
		Name: id,
		Init: &gencode.PropAccess{Recv: ctx, Name: key, Span: &op.variable.Span},
	})
	return id
}

// templateCtxOp declares the context variable for a nested template.
// The context starts as the top type; context guards narrow it.
type templateCtxOp struct {
	tcb      *Context
	scope    *Scope
	template *tmplast.Template
}

func (op *templateCtxOp) optional() bool          { return true }
func (op *templateCtxOp) circularFallback() tcbOp { return inferTypeFallbackOp{} }

func (op *templateCtxOp) execute() gencode.Expression {
	id := op.tcb.AllocateID(&op.template.Span, gencode.TagTemplateCtx)
	op.scope.addStatement(&gencode.VarDecl{
		Name: id,
		Init: &gencode.Cast{E: gencode.NullBang(), To: gencode.Any()},
	})
	return id
}

// templateBodyOp renders a nested template's body in a child scope,
// guarded by whatever narrowing its directives contribute.
type templateBodyOp struct {
	tcb      *Context
	scope    *Scope
	template *tmplast.Template
}

func (op *templateBodyOp) optional() bool          { return false }
func (op *templateBodyOp) circularFallback() tcbOp { return inferTypeFallbackOp{} }

func (op *templateBodyOp) execute() gencode.Expression {
	var guards []gencode.Expression

	for _, dir := range op.tcb.target.DirectivesOfNode(op.template) {
		for _, guard := range dir.TemplateGuards {
			binding := boundInputNamed(op.template, guard.InputName)
			if binding == nil {
				continue
			}
			guardExpr := tcbExpression(binding.Value, op.tcb, op.scope)
			switch guard.Kind {
			case meta.GuardBinding:
				guards = append(guards, guardExpr)
			case meta.GuardInvocation:
				dirInstance := op.scope.resolve(op.template, dir)
				guards = append(guards, &gencode.Call{
					Fn: &gencode.PropAccess{
						Recv: &gencode.Ident{Name: dir.Name},
						Name: "ngTemplateGuard_" + guard.InputName,
					},
					Args: []gencode.Expression{dirInstance, guardExpr},
					Span: &binding.Span,
				})
			}
		}

		if dir.HasContextGuard && op.tcb.Config.ApplyTemplateContextGuards {
			dirInstance := op.scope.resolve(op.template, dir)
			ctx := op.scope.resolve(op.template, nil)
			guards = append(guards, &gencode.Call{
				Fn: &gencode.PropAccess{
					Recv: &gencode.Ident{Name: dir.Name},
					Name: "ngTemplateContextGuard",
				},
				Args: []gencode.Expression{dirInstance, ctx},
				Span: &op.template.Span,
			})
		}
	}

	var guard gencode.Expression
	for _, g := range guards {
		if guard == nil {
			guard = g
		} else {
			guard = &gencode.Binary{Op: "&&", L: guard, R: g}
		}
	}

	child := newScope(op.tcb, op.scope, op.template, op.template.Children, guard)
	stmts := child.Render()
	if len(stmts) == 0 {
		// An empty body would only add checker workload.
		return nil
	}

	cond := guard
	if cond == nil {
		cond = gencode.True()
	}
	op.scope.addStatement(&gencode.If{Cond: cond, Then: stmts, Span: &op.template.Span})
	return nil
}

// boundTextOp checks the expression of a bound text node.
type boundTextOp struct {
	tcb   *Context
	scope *Scope
	text  *tmplast.BoundText
}

func (op *boundTextOp) optional() bool          { return false }
func (op *boundTextOp) circularFallback() tcbOp { return inferTypeFallbackOp{} }

func (op *boundTextOp) execute() gencode.Expression {
	expr := tcbExpression(op.text.Value, op.tcb, op.scope)
	op.scope.addStatement(&gencode.ExprStmt{
		E:    &gencode.Binary{Op: "+", L: gencode.Str("", nil), R: &gencode.Paren{E: expr}},
		Span: &op.text.Span,
	})
	return nil
}

// directiveTypeOp pins a non-generic directive instance to its declared
// type.
type directiveTypeOp struct {
	tcb   *Context
	scope *Scope
	node  tmplast.DirectiveOwner
	dir   *meta.Directive
}

func (op *directiveTypeOp) optional() bool          { return true }
func (op *directiveTypeOp) circularFallback() tcbOp { return inferTypeFallbackOp{} }

func (op *directiveTypeOp) execute() gencode.Expression {
	id := op.tcb.AllocateID(spanPtr(op.node), gencode.TagDirective)
	op.scope.addStatement(&gencode.VarDecl{
		Name: id,
		Init: &gencode.Cast{E: gencode.NullBang(), To: op.tcb.env.DeclaredType(op.dir)},
	})
	return id
}

// genericDirectiveTypeOp pins a generic directive instance to its
// declared type with every generic parameter erased to the top type.
// Used when inline type constructors are unavailable: the program stays
// compilable at the cost of generic-parameter checking.
type genericDirectiveTypeOp struct {
	tcb   *Context
	scope *Scope
	node  tmplast.DirectiveOwner
	dir   *meta.Directive
}

func (op *genericDirectiveTypeOp) optional() bool          { return true }
func (op *genericDirectiveTypeOp) circularFallback() tcbOp { return inferTypeFallbackOp{} }

func (op *genericDirectiveTypeOp) execute() gencode.Expression {
	id := op.tcb.AllocateID(spanPtr(op.node), gencode.TagDirective)
	op.scope.addStatement(&gencode.VarDecl{
		Name: id,
		Init: &gencode.Cast{E: gencode.NullBang(), To: op.tcb.env.TypeWithAnyParams(op.dir)},
	})
	return id
}

// directiveCtorOp instantiates a generic directive through its type
// constructor so the checker infers generic parameters from the bound
// inputs. Self-referential bindings fall back to a constructor call
// with no input expressions.
type directiveCtorOp struct {
	tcb   *Context
	scope *Scope
	node  tmplast.DirectiveOwner
	dir   *meta.Directive
}

func (op *directiveCtorOp) optional() bool { return true }

func (op *directiveCtorOp) circularFallback() tcbOp {
	return &directiveCtorCircularFallbackOp{tcb: op.tcb, scope: op.scope, dir: op.dir}
}

func (op *directiveCtorOp) execute() gencode.Expression {
	id := op.tcb.AllocateID(spanPtr(op.node), gencode.TagDirective)

	var props []gencode.Prop
	claimed := map[string]bool{}

	for _, binding := range op.node.BoundInputs() {
		for _, input := range op.dir.InputsByBindingName(binding.Name) {
			if claimed[input.ClassPropertyName] {
				continue
			}
			claimed[input.ClassPropertyName] = true
			// Signal inputs carry their own write type and contribute
			// nothing to generic inference.
			if input.IsSignal {
				continue
			}
			expr := widenBinding(tcbExpression(binding.Value, op.tcb, op.scope), binding.Value, op.tcb)
			props = append(props, gencode.Prop{
				Key:    input.ClassPropertyName,
				Quoted: !isValidIdentifier(input.ClassPropertyName),
				Value:  expr,
			})
		}
	}

	for _, attr := range op.node.TextAttributes() {
		for _, input := range op.dir.InputsByBindingName(attr.Name) {
			if claimed[input.ClassPropertyName] || input.IsSignal {
				continue
			}
			claimed[input.ClassPropertyName] = true
			props = append(props, gencode.Prop{
				Key:    input.ClassPropertyName,
				Quoted: !isValidIdentifier(input.ClassPropertyName),
				Value:  gencode.Str(attr.Value, attrValueSpan(attr)),
			})
		}
	}

	op.scope.addStatement(&gencode.VarDecl{
		Name: id,
		Init: &gencode.Call{
			Fn:   op.tcb.env.TypeCtor(op.dir),
			Args: []gencode.Expression{&gencode.ObjectLit{Props: props}},
		},
	})
	return id
}

// directiveCtorCircularFallbackOp infers the widest possible directive
// type by calling the type constructor with no input expressions at all.
type directiveCtorCircularFallbackOp struct {
	tcb   *Context
	scope *Scope
	dir   *meta.Directive
}

func (op *directiveCtorCircularFallbackOp) optional() bool          { return false }
func (op *directiveCtorCircularFallbackOp) circularFallback() tcbOp { return inferTypeFallbackOp{} }

func (op *directiveCtorCircularFallbackOp) execute() gencode.Expression {
	id := op.tcb.AllocateID(nil, gencode.TagDirective)
	op.scope.addStatement(&gencode.VarDecl{
		Name: id,
		Init: &gencode.Call{
			Fn:   op.tcb.env.TypeCtor(op.dir),
			Args: []gencode.Expression{gencode.NullBang()},
		},
	})
	return id
}

// directiveInputsOp checks every input binding claimed by one directive.
type directiveInputsOp struct {
	tcb   *Context
	scope *Scope
	node  tmplast.DirectiveOwner
	dir   *meta.Directive
}

func (op *directiveInputsOp) optional() bool          { return false }
func (op *directiveInputsOp) circularFallback() tcbOp { return inferTypeFallbackOp{} }

func (op *directiveInputsOp) execute() gencode.Expression {
	var dirID gencode.Expression
	seen := map[string]bool{}

	for _, binding := range op.node.BoundInputs() {
		inputs := op.dir.InputsByBindingName(binding.Name)
		if len(inputs) == 0 {
			continue
		}
		for _, input := range inputs {
			seen[input.ClassPropertyName] = true
		}

		translated := tcbExpression(binding.Value, op.tcb, op.scope)
		wide := widenBinding(translated, binding.Value, op.tcb)

		if !op.tcb.Config.CheckTypeOfInputBindings {
			// The field may not even be publicly writable; check only
			// the expression itself.
			op.scope.addStatement(&gencode.ExprStmt{E: &gencode.Paren{E: wide}, Span: &binding.Span})
			continue
		}

		if dirID == nil {
			dirID = op.scope.resolve(op.node, op.dir)
		}
		for _, input := range inputs {
			op.assignInput(dirID, input, wide, binding)
		}
	}

	if op.tcb.Config.CheckTypeOfAttributes {
		for _, attr := range op.node.TextAttributes() {
			inputs := op.dir.InputsByBindingName(attr.Name)
			if len(inputs) == 0 {
				continue
			}
			for _, input := range inputs {
				seen[input.ClassPropertyName] = true
			}
			if dirID == nil {
				dirID = op.scope.resolve(op.node, op.dir)
			}
			value := gencode.Str(attr.Value, attrValueSpan(attr))
			for _, input := range inputs {
				op.assignStaticInput(dirID, input, value, attr)
			}
		}
	}

	var missing []string
	for _, input := range op.dir.Inputs {
		if input.Required && !seen[input.ClassPropertyName] {
			missing = append(missing, input.BindingPropertyName)
		}
	}
	if len(missing) > 0 {
		op.tcb.report(diagnostic.CodeMissingRequiredInputs, diagnostic.Error, op.node.NodeSpan(),
			"required inputs of directive %s are not bound: %s", op.dir.Name, strings.Join(missing, ", "))
	}

	return nil
}

func (op *directiveInputsOp) assignInput(dirID gencode.Expression, input meta.Input, value gencode.Expression, binding *tmplast.BoundAttribute) {
	target := op.inputTarget(dirID, input, &binding.KeySpan)
	op.scope.addStatement(&gencode.ExprStmt{
		E:    &gencode.Binary{Op: "=", L: target, R: value},
		Span: &binding.Span,
	})
}

func (op *directiveInputsOp) assignStaticInput(dirID gencode.Expression, input meta.Input, value gencode.Expression, attr *tmplast.TextAttribute) {
	target := op.inputTarget(dirID, input, &attr.KeySpan)
	op.scope.addStatement(&gencode.ExprStmt{
		E:    &gencode.Binary{Op: "=", L: target, R: value},
		Span: &attr.Span,
	})
}

// inputTarget builds the left side of an input check. Coerced inputs go
// through a separate variable pinned to the transform type; signal
// inputs through the write-type brand of the signal wrapper.
func (op *directiveInputsOp) inputTarget(dirID gencode.Expression, input meta.Input, keySpan *position.Span) gencode.Expression {
	if input.TransformType != "" {
		coerced := op.tcb.AllocateID(nil, gencode.TagNone)
		op.scope.addStatement(&gencode.VarDecl{
			Name: coerced,
			Init: &gencode.Cast{E: gencode.NullBang(), To: &gencode.TypeRef{Name: input.TransformType}},
		})
		return coerced.WithSpan(*keySpan)
	}

	field := &gencode.PropAccess{Recv: dirID, Name: input.ClassPropertyName, Span: keySpan}
	if input.IsSignal {
		return &gencode.IndexAccess{
			Recv: field,
			Key:  gencode.Str(signalInputBrandWriteType, nil),
		}
	}
	return field
}

// signalInputBrandWriteType is the brand property the signal wrapper
// exposes its accepted write type under.
const signalInputBrandWriteType = "__brandWriteType"

// directiveOutputsOp checks every output binding claimed by one
// directive via a subscribe-style call so the event payload type flows
// into the handler.
type directiveOutputsOp struct {
	tcb   *Context
	scope *Scope
	node  tmplast.DirectiveOwner
	dir   *meta.Directive
}

func (op *directiveOutputsOp) optional() bool          { return false }
func (op *directiveOutputsOp) circularFallback() tcbOp { return inferTypeFallbackOp{} }

func (op *directiveOutputsOp) execute() gencode.Expression {
	for _, output := range op.node.BoundOutputs() {
		if output.Type == tmplast.EventAnimation {
			continue
		}
		outputs := op.dir.OutputsByBindingName(output.Name)
		if len(outputs) == 0 {
			continue
		}

		if isSplitTwoWayBinding(op.tcb, op.node, output, op.dir) {
			continue
		}

		if !op.tcb.Config.CheckTypeOfOutputEvents {
			handler := tcbCreateEventHandler(output, op.tcb, op.scope, gencode.Any())
			op.scope.addStatement(&gencode.ExprStmt{E: &gencode.Paren{E: handler}, Span: &output.Span})
			continue
		}

		dirID := op.scope.resolve(op.node, op.dir)
		for _, declared := range outputs {
			field := &gencode.IndexAccess{
				Recv: dirID,
				Key:  gencode.Str(declared.ClassPropertyName, nil),
				Span: &output.KeySpan,
			}
			handler := tcbCreateEventHandler(output, op.tcb, op.scope, nil)
			op.scope.addStatement(&gencode.ExprStmt{
				E: &gencode.Call{
					Fn:   &gencode.PropAccess{Recv: field, Name: "subscribe"},
					Args: []gencode.Expression{handler},
				},
				Span: &output.Span,
			})
		}
	}
	return nil
}

// unclaimedInputsOp checks property bindings no directive claimed
// directly against the DOM element.
type unclaimedInputsOp struct {
	tcb     *Context
	scope   *Scope
	element *tmplast.Element
	claimed map[string]bool
}

func (op *unclaimedInputsOp) optional() bool          { return false }
func (op *unclaimedInputsOp) circularFallback() tcbOp { return inferTypeFallbackOp{} }

func (op *unclaimedInputsOp) execute() gencode.Expression {
	var elID gencode.Expression

	for _, binding := range op.element.Inputs {
		if op.claimed[binding.Name] {
			continue
		}
		switch binding.Type {
		case tmplast.BindingProperty, tmplast.BindingTwoWay:
		default:
			// class/style/attribute/animation bindings have no DOM
			// property to check against.
			continue
		}

		expr := widenBinding(tcbExpression(binding.Value, op.tcb, op.scope), binding.Value, op.tcb)

		if !op.tcb.Config.CheckTypeOfDomBindings {
			op.scope.addStatement(&gencode.ExprStmt{E: &gencode.Paren{E: expr}, Span: &binding.Span})
			continue
		}

		if elID == nil {
			elID = op.scope.resolve(op.element, nil)
		}
		target := &gencode.IndexAccess{
			Recv: elID,
			Key:  gencode.Str(domPropertyName(binding.Name), nil),
			Span: &binding.KeySpan,
		}
		op.scope.addStatement(&gencode.ExprStmt{
			E:    &gencode.Binary{Op: "=", L: target, R: expr},
			Span: &binding.Span,
		})
	}
	return nil
}

// unclaimedOutputsOp registers listeners for events no directive
// claimed: DOM events through addEventListener so the payload type is
// real, animation events with the animation payload type.
type unclaimedOutputsOp struct {
	tcb     *Context
	scope   *Scope
	element *tmplast.Element
	claimed map[string]bool
}

func (op *unclaimedOutputsOp) optional() bool          { return false }
func (op *unclaimedOutputsOp) circularFallback() tcbOp { return inferTypeFallbackOp{} }

func (op *unclaimedOutputsOp) execute() gencode.Expression {
	var elID gencode.Expression

	for _, output := range op.element.Outputs {
		if op.claimed[output.Name] {
			continue
		}

		if output.Type == tmplast.EventTwoWay && isSplitTwoWayBinding(op.tcb, op.element, output, nil) {
			continue
		}

		if output.Type == tmplast.EventAnimation {
			paramType := gencode.Any()
			if op.tcb.Config.CheckTypeOfAnimationEvents {
				paramType = &gencode.TypeRef{Name: "AnimationEvent"}
			}
			handler := tcbCreateEventHandler(output, op.tcb, op.scope, paramType)
			op.scope.addStatement(&gencode.ExprStmt{E: &gencode.Paren{E: handler}, Span: &output.Span})
			continue
		}

		if !op.tcb.Config.CheckTypeOfDomEvents {
			handler := tcbCreateEventHandler(output, op.tcb, op.scope, gencode.Any())
			op.scope.addStatement(&gencode.ExprStmt{E: &gencode.Paren{E: handler}, Span: &output.Span})
			continue
		}

		if elID == nil {
			elID = op.scope.resolve(op.element, nil)
		}
		handler := tcbCreateEventHandler(output, op.tcb, op.scope, nil)
		op.scope.addStatement(&gencode.ExprStmt{
			E: &gencode.Call{
				Fn:   &gencode.PropAccess{Recv: elID, Name: "addEventListener"},
				Args: []gencode.Expression{gencode.Str(output.Name, &output.KeySpan), handler},
			},
			Span: &output.Span,
		})
	}
	return nil
}

// referenceOp binds a local #ref to its resolved target: a directive
// instance, the host element, or the template (typed as a TemplateRef).
type referenceOp struct {
	tcb    *Context
	scope  *Scope
	node   tmplast.DirectiveOwner
	ref    *tmplast.Reference
	target meta.ReferenceTarget
}

func (op *referenceOp) optional() bool          { return true }
func (op *referenceOp) circularFallback() tcbOp { return inferTypeFallbackOp{} }

func (op *referenceOp) execute() gencode.Expression {
	var value gencode.Expression
	if op.target.Directive != nil {
		value = op.scope.resolve(op.target.Node, op.target.Directive)
	} else {
		value = op.scope.resolve(op.target.Node, nil)
	}

	if _, isTemplate := op.target.Node.(*tmplast.Template); isTemplate && op.target.Directive == nil {
		// At runtime the reference is the TemplateRef, not the context
		// variable the scope tracks for the template.
		value = &gencode.Paren{E: &gencode.Cast{
			E:  &gencode.Paren{E: &gencode.Cast{E: value, To: gencode.Any()}},
			To: &gencode.TypeRef{Name: "TemplateRef", Params: []gencode.Type{gencode.Any()}},
		}}
	}

	id := op.tcb.AllocateID(&op.ref.KeySpan, gencode.TagReference)
	op.scope.addStatement(&gencode.VarDecl{Name: id, Init: value, Span: &op.ref.Span})
	return id
}

// invalidReferenceOp stands in for a reference whose target could not
// be resolved; the diagnostic was already recorded at registration.
type invalidReferenceOp struct {
	tcb   *Context
	scope *Scope
	ref   *tmplast.Reference
}

func (op *invalidReferenceOp) optional() bool          { return true }
func (op *invalidReferenceOp) circularFallback() tcbOp { return inferTypeFallbackOp{} }

func (op *invalidReferenceOp) execute() gencode.Expression {
	id := op.tcb.AllocateID(&op.ref.KeySpan, gencode.TagReference)
	op.scope.addStatement(&gencode.VarDecl{Name: id, Init: gencode.InferAny()})
	return id
}

// isSplitTwoWayBinding reports whether the input half of a two-way
// binding was claimed by a directive other than the output's owner (nil
// owner meaning the output landed on the element). The two halves are
// recognized as one desugared binding only when the input with the
// matching synthetic name shares the output's source span.
func isSplitTwoWayBinding(tcb *Context, node tmplast.DirectiveOwner, output *tmplast.BoundEvent, owner *meta.Directive) bool {
	if output.Type != tmplast.EventTwoWay {
		return false
	}
	inputName := strings.TrimSuffix(output.Name, "Change")
	input := boundInputOf(node, inputName)
	if input == nil || input.Span != output.Span {
		return false
	}
	for _, dir := range tcb.target.DirectivesOfNode(node) {
		if dir == owner {
			continue
		}
		if dir.ClaimsInput(inputName) {
			tcb.report(diagnostic.CodeSplitTwoWayBinding, diagnostic.Error, output.Span,
				"the two-way binding [(%s)] is split: its input is claimed by directive %s but its output is not",
				inputName, dir.Name)
			return true
		}
	}
	return false
}

func boundInputNamed(template *tmplast.Template, name string) *tmplast.BoundAttribute {
	for _, binding := range template.Inputs {
		if binding.Name == name {
			return binding
		}
	}
	return nil
}

func boundInputOf(node tmplast.DirectiveOwner, name string) *tmplast.BoundAttribute {
	for _, binding := range node.BoundInputs() {
		if binding.Name == name {
			return binding
		}
	}
	return nil
}

func spanPtr(node tmplast.Node) *position.Span {
	span := node.NodeSpan()
	return &span
}

func attrValueSpan(attr *tmplast.TextAttribute) *position.Span {
	if attr.ValueSpan != nil {
		return attr.ValueSpan
	}
	return &attr.Span
}

// domPropertyName maps attribute-style binding names to the DOM
// property actually checked.
func domPropertyName(name string) string {
	switch name {
	case "class":
		return "className"
	case "for":
		return "htmlFor"
	case "formaction":
		return "formAction"
	case "innerHtml":
		return "innerHTML"
	case "readonly":
		return "readOnly"
	case "tabindex":
		return "tabIndex"
	}
	return name
}

func isValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

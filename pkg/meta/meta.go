// Package meta describes the externally supplied semantic model the
// synthesizer works against: directive and pipe metadata, and the
// BoundTarget lookup interface computed by the host's binder for one
// template.
package meta

import (
	"github.com/walteh/tplcheck/pkg/texpr"
	"github.com/walteh/tplcheck/pkg/tmplast"
)

// TemplateGuardKind selects how a directive's narrowing guard for one
// input is synthesized.
type TemplateGuardKind string

const (
	// GuardBinding uses the bound input expression itself as the guard.
	GuardBinding TemplateGuardKind = "binding"
	// GuardInvocation calls the directive's static guard method with the
	// directive instance and the bound expression.
	GuardInvocation TemplateGuardKind = "invocation"
)

// TemplateGuard declares that binding the named input narrows the types
// visible inside the template the directive is applied to.
type TemplateGuard struct {
	InputName string            `json:"inputName"`
	Kind      TemplateGuardKind `json:"kind"`
}

// Input is one declared input of a directive.
type Input struct {
	// ClassPropertyName is the field on the directive class.
	ClassPropertyName string `json:"classPropertyName"`
	// BindingPropertyName is the name used in the template binding.
	BindingPropertyName string `json:"bindingPropertyName"`
	Required            bool   `json:"required,omitempty"`
	IsSignal            bool   `json:"isSignal,omitempty"`
	// TransformType, when set, is the accepted (coerced) write type of
	// the input, which may be wider than the field type.
	TransformType string `json:"transformType,omitempty"`
}

// Output is one declared output of a directive.
type Output struct {
	ClassPropertyName   string `json:"classPropertyName"`
	BindingPropertyName string `json:"bindingPropertyName"`
}

// Directive is the externally supplied description of a directive or
// component class matched to a template node. Immutable per synthesis
// pass.
type Directive struct {
	// Name is the class name; the environment derives type expressions
	// from it.
	Name     string `json:"name"`
	Selector string `json:"selector"`
	// ExportAs names this directive can be targeted by from a local
	// reference.
	ExportAs    []string `json:"exportAs,omitempty"`
	IsComponent bool     `json:"isComponent,omitempty"`

	IsGeneric         bool `json:"isGeneric,omitempty"`
	GenericParamCount int  `json:"genericParamCount,omitempty"`
	// RequiresInlineTypeCtor means generic parameters can only be
	// inferred by emitting a type-constructor call inline.
	RequiresInlineTypeCtor bool `json:"requiresInlineTypeCtor,omitempty"`

	Inputs  []Input  `json:"inputs,omitempty"`
	Outputs []Output `json:"outputs,omitempty"`

	TemplateGuards  []TemplateGuard `json:"templateGuards,omitempty"`
	HasContextGuard bool            `json:"hasContextGuard,omitempty"`

	// IsExplicitlyDeferred marks a directive that must only be
	// instantiated from a deferred block.
	IsExplicitlyDeferred bool `json:"isExplicitlyDeferred,omitempty"`
}

// InputsByBindingName returns the declared inputs claimed by the given
// binding name. One binding can feed several class fields.
func (d *Directive) InputsByBindingName(name string) []Input {
	var out []Input
	for _, in := range d.Inputs {
		if in.BindingPropertyName == name {
			out = append(out, in)
		}
	}
	return out
}

// OutputsByBindingName returns the declared outputs for a binding name.
func (d *Directive) OutputsByBindingName(name string) []Output {
	var out []Output
	for _, o := range d.Outputs {
		if o.BindingPropertyName == name {
			out = append(out, o)
		}
	}
	return out
}

// ClaimsInput reports whether the directive declares an input for the
// binding name.
func (d *Directive) ClaimsInput(name string) bool {
	return len(d.InputsByBindingName(name)) > 0
}

// Pipe is the externally supplied description of a pipe.
type Pipe struct {
	Name string `json:"name"`
	// ClassName backs the pipe instance expression.
	ClassName string `json:"className"`
}

// ReferenceTarget is what a local reference resolves to: a directive on
// the host node, or (when Directive is nil) the host element or template
// itself.
type ReferenceTarget struct {
	Node      tmplast.Node
	Directive *Directive
}

// BoundTarget exposes the binder's per-template lookups. It is computed
// once before synthesis and read-only afterwards.
type BoundTarget interface {
	// DirectivesOfNode returns the directives matched on an element or
	// template node, in match order.
	DirectivesOfNode(node tmplast.Node) []*Directive

	// ReferenceTarget resolves a local reference. ok is false when the
	// reference names an exportAs with no matching directive.
	ReferenceTarget(ref *tmplast.Reference) (ReferenceTarget, bool)

	// ExpressionTarget returns the template Variable or Reference an
	// unqualified read refers to, or nil when the read falls through to
	// the top-level context.
	ExpressionTarget(expr texpr.Expr) tmplast.Node

	// PipeByName resolves a pipe used in a binding expression.
	PipeByName(name string) (*Pipe, bool)

	// UsedPipes lists the distinct pipe names referenced by the
	// template, in first-use order.
	UsedPipes() []string
}

// Package tmplast holds the parsed component-template AST the synthesizer
// consumes. The nodes are produced by the host platform's parser and are
// treated as immutable here; this package only defines their shape and a
// JSON interchange decoder so an external host can hand a parsed template
// across a process boundary.
package tmplast

import (
	"github.com/walteh/tplcheck/pkg/position"
	"github.com/walteh/tplcheck/pkg/texpr"
)

// Node is implemented by every template AST node.
type Node interface {
	NodeSpan() position.Span
}

// BindingType describes what kind of target a bound attribute writes to.
type BindingType string

const (
	BindingProperty  BindingType = "property"
	BindingAttribute BindingType = "attribute"
	BindingClass     BindingType = "class"
	BindingStyle     BindingType = "style"
	BindingAnimation BindingType = "animation"
	BindingTwoWay    BindingType = "twoWay"
)

// EventType describes what kind of event a bound event listens for.
type EventType string

const (
	EventRegular   EventType = "regular"
	EventAnimation EventType = "animation"
	EventTwoWay    EventType = "twoWay"
)

// Text is a static text node.
type Text struct {
	Value string
	Span  position.Span
}

func (n *Text) NodeSpan() position.Span { return n.Span }

// BoundText is a text node containing one or more interpolated
// expressions.
type BoundText struct {
	Value texpr.Expr
	Span  position.Span
}

func (n *BoundText) NodeSpan() position.Span { return n.Span }

// Content is a content-projection point. It is a transparent container:
// its children belong to the enclosing lexical scope.
type Content struct {
	Selector string
	Children []Node
	Span     position.Span
}

func (n *Content) NodeSpan() position.Span { return n.Span }

// TextAttribute is a plain name="value" attribute.
type TextAttribute struct {
	Name      string
	Value     string
	Span      position.Span
	KeySpan   position.Span
	ValueSpan *position.Span
}

func (n *TextAttribute) NodeSpan() position.Span { return n.Span }

// BoundAttribute is a [name]="expr" style binding.
type BoundAttribute struct {
	Name    string
	Value   texpr.Expr
	Type    BindingType
	Span    position.Span
	KeySpan position.Span
}

func (n *BoundAttribute) NodeSpan() position.Span { return n.Span }

// BoundEvent is a (name)="handler" style listener. For two-way events the
// Handler expression is the assignment target, not a handler body.
type BoundEvent struct {
	Name        string
	Handler     texpr.Expr
	Type        EventType
	Span        position.Span
	KeySpan     position.Span
	HandlerSpan position.Span
}

func (n *BoundEvent) NodeSpan() position.Span { return n.Span }

// Variable is a let- declaration introducing a context variable into a
// template scope. Value names the context key it reads; empty means the
// implicit key.
type Variable struct {
	Name    string
	Value   string
	Span    position.Span
	KeySpan position.Span
}

func (n *Variable) NodeSpan() position.Span { return n.Span }

// Reference is a #ref local reference. Value selects a directive by its
// exportAs name; empty targets the host element or template itself.
type Reference struct {
	Name    string
	Value   string
	Span    position.Span
	KeySpan position.Span
}

func (n *Reference) NodeSpan() position.Span { return n.Span }

// Element is a concrete DOM element.
type Element struct {
	Name       string
	Attributes []*TextAttribute
	Inputs     []*BoundAttribute
	Outputs    []*BoundEvent
	References []*Reference
	Children   []Node
	Span       position.Span
}

func (n *Element) NodeSpan() position.Span { return n.Span }

// Template is a structural template node. It introduces a child lexical
// scope, optional context variables, and is the unit narrowing guards
// attach to.
type Template struct {
	// Tag is the element name the template was written on, if any.
	Tag        string
	Attributes []*TextAttribute
	Inputs     []*BoundAttribute
	Outputs    []*BoundEvent
	Variables  []*Variable
	References []*Reference
	Children   []Node
	Span       position.Span
}

func (n *Template) NodeSpan() position.Span { return n.Span }

// DirectiveOwner is the subset of nodes directives can match on.
type DirectiveOwner interface {
	Node
	BoundInputs() []*BoundAttribute
	BoundOutputs() []*BoundEvent
	TextAttributes() []*TextAttribute
	LocalReferences() []*Reference
	TagName() string
}

func (n *Element) BoundInputs() []*BoundAttribute    { return n.Inputs }
func (n *Element) BoundOutputs() []*BoundEvent       { return n.Outputs }
func (n *Element) TextAttributes() []*TextAttribute  { return n.Attributes }
func (n *Element) LocalReferences() []*Reference     { return n.References }
func (n *Element) TagName() string                   { return n.Name }
func (n *Template) BoundInputs() []*BoundAttribute   { return n.Inputs }
func (n *Template) BoundOutputs() []*BoundEvent      { return n.Outputs }
func (n *Template) TextAttributes() []*TextAttribute { return n.Attributes }
func (n *Template) LocalReferences() []*Reference    { return n.References }
func (n *Template) TagName() string                  { return n.Tag }

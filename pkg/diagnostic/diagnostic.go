package diagnostic

import (
	"fmt"

	"github.com/walteh/tplcheck/pkg/position"
)

// Severity represents the severity level of a diagnostic
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
	Hint    Severity = "hint"
)

// Code identifies the category of a template diagnostic. Every
// diagnosable template error has its own code so hosts can filter or
// re-map severities.
type Code string

const (
	// CodeDuplicateTemplateVar is reported when two let- declarations in
	// the same template scope use the same name. The first declaration
	// wins for all resolutions.
	CodeDuplicateTemplateVar Code = "duplicate-template-variable"

	// CodeMissingPipe is reported when a pipe name cannot be resolved
	// against the checking session's pipe registry.
	CodeMissingPipe Code = "missing-pipe"

	// CodeMissingReferenceTarget is reported when a local reference's
	// exportAs value does not match any directive on the host node.
	CodeMissingReferenceTarget Code = "missing-reference-target"

	// CodeSplitTwoWayBinding is reported when the input half and the
	// output half of a two-way binding resolve to different owners.
	CodeSplitTwoWayBinding Code = "split-two-way-binding"

	// CodeDeferredDirectiveEager is reported when a directive marked as
	// deferred is matched on a node that instantiates it eagerly.
	CodeDeferredDirectiveEager Code = "deferred-directive-used-eagerly"

	// CodeMissingRequiredInputs is reported when a directive declares
	// required inputs that have no binding on the matched node.
	CodeMissingRequiredInputs Code = "missing-required-inputs"
)

// Diagnostic represents a single diagnostic message anchored to a span
// of the original template.
type Diagnostic struct {
	Code     Code
	Message  string
	Span     position.Span
	Severity Severity
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s @ %s)", d.Severity, d.Message, d.Code, d.Span)
}

// Recorder receives diagnostics out of band while synthesis continues
// with a type-degrading fallback.
type Recorder interface {
	Record(d Diagnostic)
}

// Collector is an in-memory Recorder.
type Collector struct {
	diags []Diagnostic
}

func NewCollector() *Collector {
	return &Collector{diags: make([]Diagnostic, 0)}
}

// Record implements Recorder
func (c *Collector) Record(d Diagnostic) {
	c.diags = append(c.diags, d)
}

// Diagnostics returns everything recorded so far, in record order.
func (c *Collector) Diagnostics() []Diagnostic {
	return c.diags
}

// ByCode returns the recorded diagnostics carrying the given code.
func (c *Collector) ByCode(code Code) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any recorded diagnostic has Error severity.
func (c *Collector) HasErrors() bool {
	for _, d := range c.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Package tcb synthesizes the type-check block for one component
// template: a strongly-typed program fragment whose only purpose is to
// make a general-purpose type checker surface template errors, with
// every emitted token traceable back to the template source.
package tcb

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/walteh/tplcheck/pkg/config"
	"github.com/walteh/tplcheck/pkg/diagnostic"
	"github.com/walteh/tplcheck/pkg/gencode"
	"github.com/walteh/tplcheck/pkg/meta"
	"github.com/walteh/tplcheck/pkg/position"
)

// Context is the per-pass state shared by every Scope and operation of
// one template-checking session.
type Context struct {
	Config config.TypeCheckConfig

	env    Environment
	target meta.BoundTarget
	rec    diagnostic.Recorder

	// nextID is monotonic for the whole pass; identifier names are never
	// reused, even across nested scopes.
	nextID int

	passID string
}

func NewContext(cfg config.TypeCheckConfig, env Environment, target meta.BoundTarget, rec diagnostic.Recorder) *Context {
	return &Context{
		Config: cfg,
		env:    env,
		target: target,
		rec:    rec,
		nextID: 1,
		passID: xid.New().String(),
	}
}

// AllocateID returns a fresh identifier for the synthesized program,
// optionally anchored to a template span and tagged with what it denotes.
func (c *Context) AllocateID(span *position.Span, tag gencode.SemanticTag) *gencode.Ident {
	id := &gencode.Ident{
		Name: fmt.Sprintf("_t%d", c.nextID),
		Span: span,
		Tag:  tag,
	}
	c.nextID++
	return id
}

// PipeByName resolves a pipe against the bound target's registry.
func (c *Context) PipeByName(name string) (*meta.Pipe, bool) {
	return c.target.PipeByName(name)
}

// PassID identifies this synthesis pass in logs.
func (c *Context) PassID() string {
	return c.passID
}

func (c *Context) report(code diagnostic.Code, severity diagnostic.Severity, span position.Span, format string, args ...any) {
	c.rec.Record(diagnostic.Diagnostic{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
		Severity: severity,
	})
}

package tcb

import (
	"github.com/walteh/tplcheck/pkg/gencode"
	"github.com/walteh/tplcheck/pkg/meta"
)

// Environment names the declarations that live outside the generated
// block: directive class types, their type constructors, and pipe
// instances. The synthesizer only ever asks for expressions/types and
// never cares how the environment made them addressable.
type Environment interface {
	// DeclaredType is the directive's type as written, without generic
	// parameters. Used for non-generic directives.
	DeclaredType(dir *meta.Directive) gencode.Type

	// TypeWithAnyParams is the directive's type with every generic
	// parameter erased to the top type. Used when inline inference is
	// unavailable: the program stays compilable at the cost of losing
	// generic-parameter checking.
	TypeWithAnyParams(dir *meta.Directive) gencode.Type

	// TypeCtor is the callable that infers a generic directive's
	// parameters from an object literal of its bound inputs.
	TypeCtor(dir *meta.Directive) gencode.Expression

	// PipeInstance is an expression producing an instance of the pipe.
	PipeInstance(pipe *meta.Pipe) gencode.Expression
}

// DefaultEnvironment derives every name from the class names in the
// metadata, which suits an output environment where directive and pipe
// classes are imported under their own names.
type DefaultEnvironment struct{}

var _ Environment = (*DefaultEnvironment)(nil)

func (DefaultEnvironment) DeclaredType(dir *meta.Directive) gencode.Type {
	return &gencode.TypeRef{Name: dir.Name}
}

func (DefaultEnvironment) TypeWithAnyParams(dir *meta.Directive) gencode.Type {
	params := make([]gencode.Type, dir.GenericParamCount)
	for i := range params {
		params[i] = gencode.Any()
	}
	return &gencode.TypeRef{Name: dir.Name, Params: params}
}

func (DefaultEnvironment) TypeCtor(dir *meta.Directive) gencode.Expression {
	return &gencode.PropAccess{
		Recv: &gencode.Ident{Name: dir.Name},
		Name: "ngTypeCtor",
	}
}

func (DefaultEnvironment) PipeInstance(pipe *meta.Pipe) gencode.Expression {
	return &gencode.Paren{E: &gencode.Cast{
		E:  gencode.NullBang(),
		To: &gencode.TypeRef{Name: pipe.ClassName},
	}}
}

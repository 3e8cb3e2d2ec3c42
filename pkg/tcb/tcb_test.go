package tcb_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/tplcheck/pkg/config"
	"github.com/walteh/tplcheck/pkg/diagnostic"
	"github.com/walteh/tplcheck/pkg/diff"
	"github.com/walteh/tplcheck/pkg/gencode"
	"github.com/walteh/tplcheck/pkg/meta"
	"github.com/walteh/tplcheck/pkg/position"
	"github.com/walteh/tplcheck/pkg/tcb"
	"github.com/walteh/tplcheck/pkg/texpr"
	"github.com/walteh/tplcheck/pkg/tmplast"
)

func sp(start, end int) position.Span {
	return position.NewSpan(start, end)
}

// read builds an unqualified property read anchored at start.
func read(name string, start int) *texpr.PropertyRead {
	end := start + len(name)
	return &texpr.PropertyRead{
		Receiver: &texpr.ImplicitReceiver{},
		Name:     name,
		Span:     sp(start, end),
		NameSpan: sp(start, end),
	}
}

func synthesize(t *testing.T, cfg config.TypeCheckConfig, registry *meta.Registry, nodes []tmplast.Node) (string, *gencode.SourceMapper, *diagnostic.Collector) {
	t.Helper()
	target, err := meta.NewBinder(registry).Bind(nodes)
	require.NoError(t, err)
	collector := diagnostic.NewCollector()
	stmts := tcb.Synthesize(context.Background(), cfg, tcb.DefaultEnvironment{}, target, collector, nodes)
	text, mapper := gencode.Emit(stmts)
	return text, mapper, collector
}

// requireProgram compares a full generated program verbatim, printing
// a line diff on mismatch.
func requireProgram(t *testing.T, want, got string) {
	t.Helper()
	require.Equal(t, want, got, diff.Text(want, got))
}

func emptyRegistry() *meta.Registry {
	return &meta.Registry{}
}

func TestBoundTextTranslation(t *testing.T) {
	nodes := []tmplast.Node{
		&tmplast.BoundText{Value: read("name", 3), Span: sp(0, 10)},
	}

	text, _, collector := synthesize(t, config.Strict(), emptyRegistry(), nodes)

	requireProgram(t, "\"\" + (ctx.name);\n", text)
	assert.Empty(t, collector.Diagnostics())
}

func TestInterpolationFolding(t *testing.T) {
	nodes := []tmplast.Node{
		&tmplast.BoundText{
			Value: &texpr.Interpolation{
				Strings: []string{"Hello ", "!"},
				Exprs:   []texpr.Expr{read("name", 9)},
				Span:    sp(0, 20),
			},
			Span: sp(0, 20),
		},
	}

	text, _, _ := synthesize(t, config.Strict(), emptyRegistry(), nodes)

	requireProgram(t, "\"\" + (\"Hello \" + (ctx.name) + \"!\");\n", text)
}

func TestElementMaterialization(t *testing.T) {
	element := func() *tmplast.Element {
		return &tmplast.Element{
			Name: "div",
			Inputs: []*tmplast.BoundAttribute{{
				Name:    "id",
				Value:   read("x", 11),
				Type:    tmplast.BindingProperty,
				Span:    sp(5, 13),
				KeySpan: sp(6, 8),
			}},
			Span: sp(0, 20),
		}
	}

	t.Run("materialized when a DOM binding resolves it", func(t *testing.T) {
		cfg := config.Strict()
		cfg.EnableSymbolInspection = false

		text, _, _ := synthesize(t, cfg, emptyRegistry(), []tmplast.Node{element()})

		requireProgram(t, "var _t1 = document.createElement(\"div\");\n_t1[\"id\"] = ctx.x;\n", text)
	})

	t.Run("skipped when nothing resolves it", func(t *testing.T) {
		cfg := config.Strict()
		cfg.EnableSymbolInspection = false
		cfg.CheckTypeOfDomBindings = false

		text, _, _ := synthesize(t, cfg, emptyRegistry(), []tmplast.Node{element()})

		assert.NotContains(t, text, "createElement")
		assert.Contains(t, text, "(ctx.x);")
	})
}

func TestOperationExecutesOnce(t *testing.T) {
	// Two references force two resolutions of the same element.
	nodes := []tmplast.Node{
		&tmplast.Element{
			Name: "div",
			References: []*tmplast.Reference{
				{Name: "a", Span: sp(5, 7), KeySpan: sp(6, 7)},
				{Name: "b", Span: sp(8, 10), KeySpan: sp(9, 10)},
			},
			Span: sp(0, 20),
		},
	}

	cfg := config.Strict()
	cfg.EnableSymbolInspection = true
	text, _, _ := synthesize(t, cfg, emptyRegistry(), nodes)

	assert.Equal(t, 1, strings.Count(text, "document.createElement(\"div\")"))
	assert.Contains(t, text, "var _t2 = _t1;")
	assert.Contains(t, text, "var _t3 = _t1;")
}

func TestCircularReferenceFallsBack(t *testing.T) {
	// <comp #ref [x]="ref.y"> — inferring the component type needs the
	// binding, the binding needs the reference, the reference needs the
	// component type.
	comp := &meta.Directive{
		Name:              "Comp",
		Selector:          "comp",
		IsComponent:       true,
		IsGeneric:         true,
		GenericParamCount: 1,
		Inputs: []meta.Input{
			{ClassPropertyName: "x", BindingPropertyName: "x"},
		},
	}
	nodes := []tmplast.Node{
		&tmplast.Element{
			Name: "comp",
			Inputs: []*tmplast.BoundAttribute{{
				Name: "x",
				Value: &texpr.PropertyRead{
					Receiver: read("ref", 10),
					Name:     "y",
					Span:     sp(10, 15),
					NameSpan: sp(14, 15),
				},
				Type:    tmplast.BindingProperty,
				Span:    sp(6, 16),
				KeySpan: sp(7, 8),
			}},
			References: []*tmplast.Reference{
				{Name: "ref", Span: sp(17, 21), KeySpan: sp(18, 21)},
			},
			Span: sp(0, 30),
		},
	}

	cfg := config.Strict()
	cfg.EnableSymbolInspection = true
	text, _, collector := synthesize(t, cfg, &meta.Registry{Directives: []*meta.Directive{comp}}, nodes)

	fallback := strings.Index(text, "Comp.ngTypeCtor(null!)")
	inferred := strings.Index(text, "Comp.ngTypeCtor({ x: ")
	require.GreaterOrEqual(t, fallback, 0, "fallback constructor call missing:\n%s", text)
	require.GreaterOrEqual(t, inferred, 0, "inferring constructor call missing:\n%s", text)
	assert.Less(t, fallback, inferred, "fallback must be declared before the real constructor")
	assert.Empty(t, collector.Diagnostics())
}

func TestTemplateGuardNesting(t *testing.T) {
	ngIf := &meta.Directive{
		Name:     "NgIf",
		Selector: "[ngIf]",
		Inputs: []meta.Input{
			{ClassPropertyName: "ngIf", BindingPropertyName: "ngIf"},
		},
		TemplateGuards: []meta.TemplateGuard{
			{InputName: "ngIf", Kind: meta.GuardBinding},
		},
	}

	button := &tmplast.Element{
		Name: "button",
		Outputs: []*tmplast.BoundEvent{{
			Name: "click",
			Handler: &texpr.Call{
				Receiver: read("onGo", 40),
				Args: []texpr.Expr{&texpr.PropertyRead{
					Receiver: &texpr.ImplicitReceiver{},
					Name:     "$event",
					Span:     sp(45, 51),
					NameSpan: sp(45, 51),
				}},
				Span: sp(40, 52),
			},
			Type:        tmplast.EventRegular,
			Span:        sp(33, 53),
			KeySpan:     sp(34, 39),
			HandlerSpan: sp(40, 52),
		}},
		Span: sp(30, 60),
	}
	inner := &tmplast.Template{
		Inputs: []*tmplast.BoundAttribute{{
			Name:    "ngIf",
			Value:   read("b", 25),
			Type:    tmplast.BindingProperty,
			Span:    sp(20, 26),
			KeySpan: sp(21, 25),
		}},
		Children: []tmplast.Node{button},
		Span:     sp(15, 70),
	}
	outer := &tmplast.Template{
		Inputs: []*tmplast.BoundAttribute{{
			Name:    "ngIf",
			Value:   read("a", 9),
			Type:    tmplast.BindingProperty,
			Span:    sp(4, 10),
			KeySpan: sp(5, 9),
		}},
		Children: []tmplast.Node{inner},
		Span:     sp(0, 80),
	}

	text, _, collector := synthesize(t, config.Strict(), &meta.Registry{Directives: []*meta.Directive{ngIf}}, []tmplast.Node{outer})

	assert.Contains(t, text, "if (ctx.a) {")
	assert.Contains(t, text, "if (ctx.b) {")
	assert.Contains(t, text, ".addEventListener(\"click\", ($event): any => {")
	// Handlers re-check the full guard chain, parent condition first.
	assert.Contains(t, text, "if (ctx.a && ctx.b) {")
	assert.Contains(t, text, "ctx.onGo($event);")
	assert.Empty(t, collector.Diagnostics())
}

func TestEmptyTemplateBodyElided(t *testing.T) {
	nodes := []tmplast.Node{
		&tmplast.Template{Span: sp(0, 10)},
	}

	text, _, _ := synthesize(t, config.Strict(), emptyRegistry(), nodes)

	assert.NotContains(t, text, "if (")
}

func TestDuplicateTemplateVariable(t *testing.T) {
	nodes := []tmplast.Node{
		&tmplast.Template{
			Variables: []*tmplast.Variable{
				{Name: "item", Span: sp(5, 13), KeySpan: sp(9, 13)},
				{Name: "item", Value: "index", Span: sp(14, 28), KeySpan: sp(18, 22)},
			},
			Children: []tmplast.Node{
				&tmplast.BoundText{Value: read("item", 40), Span: sp(38, 46)},
			},
			Span: sp(0, 50),
		},
	}

	text, _, collector := synthesize(t, config.Strict(), emptyRegistry(), nodes)

	require.Len(t, collector.ByCode(diagnostic.CodeDuplicateTemplateVar), 1)
	// The surviving declaration reads the implicit context key.
	assert.Contains(t, text, ".$implicit;")
	assert.NotContains(t, text, ".index;")
}

func TestInputBindingWidening(t *testing.T) {
	dir := &meta.Directive{
		Name:     "MyDir",
		Selector: "[foo]",
		Inputs: []meta.Input{
			{ClassPropertyName: "foo", BindingPropertyName: "foo"},
		},
	}
	registry := &meta.Registry{Directives: []*meta.Directive{dir}}

	element := func(value texpr.Expr) []tmplast.Node {
		return []tmplast.Node{
			&tmplast.Element{
				Name: "div",
				Inputs: []*tmplast.BoundAttribute{{
					Name:    "foo",
					Value:   value,
					Type:    tmplast.BindingProperty,
					Span:    sp(5, 17),
					KeySpan: sp(6, 9),
				}},
				Span: sp(0, 20),
			},
		}
	}

	tests := []struct {
		name    string
		adjust  func(*config.TypeCheckConfig)
		value   texpr.Expr
		want    string
		notWant string
	}{
		{
			name:   "input checks disabled widen to the top type",
			adjust: func(c *config.TypeCheckConfig) { c.CheckTypeOfInputBindings = false },
			value:  read("val", 12),
			want:   "((ctx.val as any));",
		},
		{
			name:   "non-strict null asserts nullability away",
			adjust: func(c *config.TypeCheckConfig) { c.StrictNullInputBindings = false },
			value:  read("val", 12),
			want:   ".foo = ctx.val!;",
		},
		{
			name:   "non-strict null leaves literals alone",
			adjust: func(c *config.TypeCheckConfig) { c.StrictNullInputBindings = false },
			value:  &texpr.LiteralArray{Span: sp(12, 14)},
			want:   ".foo = [];",
		},
		{
			name:    "full strictness passes the expression through",
			adjust:  func(c *config.TypeCheckConfig) {},
			value:   read("val", 12),
			want:    ".foo = ctx.val;",
			notWant: "ctx.val!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Strict()
			tt.adjust(&cfg)

			text, _, _ := synthesize(t, cfg, registry, element(tt.value))

			assert.Contains(t, text, tt.want)
			if tt.notWant != "" {
				assert.NotContains(t, text, tt.notWant)
			}
		})
	}
}

func TestSafeNavigationStrategies(t *testing.T) {
	nodes := func() []tmplast.Node {
		return []tmplast.Node{
			&tmplast.BoundText{
				Value: &texpr.SafePropertyRead{
					Receiver: read("a", 0),
					Name:     "b",
					Span:     sp(0, 4),
					NameSpan: sp(3, 4),
				},
				Span: sp(0, 4),
			},
		}
	}

	tests := []struct {
		name   string
		adjust func(*config.TypeCheckConfig)
		want   string
	}{
		{
			name:   "strict types union with undefined",
			adjust: func(c *config.TypeCheckConfig) {},
			want:   "(0 as any) ? ctx.a!.b : undefined",
		},
		{
			name: "legacy never checks the qualifier",
			adjust: func(c *config.TypeCheckConfig) {
				c.StrictSafeNavigationTypes = false
				c.LegacySafeNavigation = true
			},
			want: "(ctx.a as any).b",
		},
		{
			name: "default checks the qualifier and degrades the result",
			adjust: func(c *config.TypeCheckConfig) {
				c.StrictSafeNavigationTypes = false
			},
			want: "ctx.a!.b as any",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Strict()
			tt.adjust(&cfg)

			text, _, _ := synthesize(t, cfg, emptyRegistry(), nodes())

			assert.Contains(t, text, tt.want)
		})
	}
}

func TestPipes(t *testing.T) {
	pipeExpr := func() texpr.Expr {
		return &texpr.Pipe{
			Exp:      read("x", 0),
			Name:     "upper",
			Args:     []texpr.Expr{read("limit", 10)},
			Span:     sp(0, 15),
			NameSpan: sp(4, 9),
		}
	}
	registry := &meta.Registry{
		Pipes: []*meta.Pipe{{Name: "upper", ClassName: "UpperPipe"}},
	}

	t.Run("known pipe transforms through its class", func(t *testing.T) {
		nodes := []tmplast.Node{&tmplast.BoundText{Value: pipeExpr(), Span: sp(0, 15)}}

		text, _, collector := synthesize(t, config.Strict(), registry, nodes)

		assert.Contains(t, text, "(null! as UpperPipe).transform(ctx.x, ctx.limit)")
		assert.Empty(t, collector.Diagnostics())
	})

	t.Run("unchecked pipes degrade the instance", func(t *testing.T) {
		cfg := config.Strict()
		cfg.CheckTypeOfPipes = false
		nodes := []tmplast.Node{&tmplast.BoundText{Value: pipeExpr(), Span: sp(0, 15)}}

		text, _, _ := synthesize(t, cfg, registry, nodes)

		assert.Contains(t, text, "((null! as UpperPipe) as any).transform(")
	})

	t.Run("missing pipe reports and degrades", func(t *testing.T) {
		nodes := []tmplast.Node{&tmplast.BoundText{Value: pipeExpr(), Span: sp(0, 15)}}

		text, _, collector := synthesize(t, config.Strict(), emptyRegistry(), nodes)

		require.Len(t, collector.ByCode(diagnostic.CodeMissingPipe), 1)
		assert.Contains(t, text, "(null as any).transform(ctx.x, ctx.limit)")
	})
}

func TestAnyEscapeHatch(t *testing.T) {
	nodes := []tmplast.Node{
		&tmplast.BoundText{
			Value: &texpr.Call{
				Receiver: read("$any", 0),
				Args:     []texpr.Expr{read("x", 5)},
				Span:     sp(0, 7),
			},
			Span: sp(0, 7),
		},
	}

	text, _, _ := synthesize(t, config.Strict(), emptyRegistry(), nodes)

	assert.Contains(t, text, "(ctx.x as any)")
	assert.NotContains(t, text, "$any")
}

func TestTwoWayBinding(t *testing.T) {
	toggle := &meta.Directive{
		Name:     "Toggle",
		Selector: "[value]",
		Inputs: []meta.Input{
			{ClassPropertyName: "value", BindingPropertyName: "value"},
		},
		Outputs: []meta.Output{
			{ClassPropertyName: "valueChange", BindingPropertyName: "valueChange"},
		},
	}
	nodes := []tmplast.Node{
		&tmplast.Element{
			Name: "div",
			Inputs: []*tmplast.BoundAttribute{{
				Name:    "value",
				Value:   read("val", 12),
				Type:    tmplast.BindingTwoWay,
				Span:    sp(5, 16),
				KeySpan: sp(7, 12),
			}},
			Outputs: []*tmplast.BoundEvent{{
				Name:        "valueChange",
				Handler:     read("val", 12),
				Type:        tmplast.EventTwoWay,
				Span:        sp(5, 16),
				KeySpan:     sp(7, 12),
				HandlerSpan: sp(13, 16),
			}},
			Span: sp(0, 20),
		},
	}

	text, _, collector := synthesize(t, config.Strict(), &meta.Registry{Directives: []*meta.Directive{toggle}}, nodes)

	assert.Contains(t, text, "[\"valueChange\"].subscribe(($event): any => {")
	assert.Contains(t, text, "ctx.val = $event;")
	assert.Empty(t, collector.Diagnostics())
}

func TestSplitTwoWayBinding(t *testing.T) {
	// The directive claims the input half but declares no matching
	// output, so the event half lands on the element.
	valueOnly := &meta.Directive{
		Name:     "ValueOnly",
		Selector: "[value]",
		Inputs: []meta.Input{
			{ClassPropertyName: "value", BindingPropertyName: "value"},
		},
	}
	nodes := []tmplast.Node{
		&tmplast.Element{
			Name: "div",
			Inputs: []*tmplast.BoundAttribute{{
				Name:    "value",
				Value:   read("val", 12),
				Type:    tmplast.BindingTwoWay,
				Span:    sp(5, 16),
				KeySpan: sp(7, 12),
			}},
			Outputs: []*tmplast.BoundEvent{{
				Name:        "valueChange",
				Handler:     read("val", 12),
				Type:        tmplast.EventTwoWay,
				Span:        sp(5, 16),
				KeySpan:     sp(7, 12),
				HandlerSpan: sp(13, 16),
			}},
			Span: sp(0, 20),
		},
	}

	text, _, collector := synthesize(t, config.Strict(), &meta.Registry{Directives: []*meta.Directive{valueOnly}}, nodes)

	require.Len(t, collector.ByCode(diagnostic.CodeSplitTwoWayBinding), 1)
	assert.NotContains(t, text, "addEventListener")
}

func TestTwoWayHalvesAtDifferentSpansAreIndependent(t *testing.T) {
	// A "value" input and a "valueChange" output written as separate
	// bindings are not one desugared two-way binding, even though a
	// directive claims the input half.
	valueOnly := &meta.Directive{
		Name:     "ValueOnly",
		Selector: "[value]",
		Inputs: []meta.Input{
			{ClassPropertyName: "value", BindingPropertyName: "value"},
		},
	}
	nodes := []tmplast.Node{
		&tmplast.Element{
			Name: "div",
			Inputs: []*tmplast.BoundAttribute{{
				Name:    "value",
				Value:   read("val", 12),
				Type:    tmplast.BindingTwoWay,
				Span:    sp(5, 16),
				KeySpan: sp(7, 12),
			}},
			Outputs: []*tmplast.BoundEvent{{
				Name:        "valueChange",
				Handler:     read("val", 33),
				Type:        tmplast.EventTwoWay,
				Span:        sp(20, 37),
				KeySpan:     sp(22, 33),
				HandlerSpan: sp(33, 36),
			}},
			Span: sp(0, 40),
		},
	}

	text, _, collector := synthesize(t, config.Strict(), &meta.Registry{Directives: []*meta.Directive{valueOnly}}, nodes)

	assert.Empty(t, collector.ByCode(diagnostic.CodeSplitTwoWayBinding))
	assert.Contains(t, text, ".addEventListener(\"valueChange\", ")
}

func TestDomEventStrategies(t *testing.T) {
	nodes := func() []tmplast.Node {
		return []tmplast.Node{
			&tmplast.Element{
				Name: "button",
				Outputs: []*tmplast.BoundEvent{{
					Name:        "click",
					Handler:     &texpr.Call{Receiver: read("go", 14), Span: sp(14, 18)},
					Type:        tmplast.EventRegular,
					Span:        sp(8, 19),
					KeySpan:     sp(9, 14),
					HandlerSpan: sp(14, 18),
				}},
				Span: sp(0, 30),
			},
		}
	}

	t.Run("checked events listen on the element", func(t *testing.T) {
		text, _, _ := synthesize(t, config.Strict(), emptyRegistry(), nodes())

		assert.Contains(t, text, ".addEventListener(\"click\", ($event): any => {")
		assert.Contains(t, text, "ctx.go();")
	})

	t.Run("unchecked events still check the handler body", func(t *testing.T) {
		cfg := config.Strict()
		cfg.CheckTypeOfDomEvents = false

		text, _, _ := synthesize(t, cfg, emptyRegistry(), nodes())

		assert.NotContains(t, text, "addEventListener")
		assert.Contains(t, text, "($event: any): any => {")
		assert.Contains(t, text, "ctx.go();")
	})
}

func TestAnimationEvents(t *testing.T) {
	nodes := func() []tmplast.Node {
		return []tmplast.Node{
			&tmplast.Element{
				Name: "div",
				Outputs: []*tmplast.BoundEvent{{
					Name:        "@fade.done",
					Handler:     &texpr.Call{Receiver: read("done", 20), Span: sp(20, 26)},
					Type:        tmplast.EventAnimation,
					Span:        sp(5, 27),
					KeySpan:     sp(6, 16),
					HandlerSpan: sp(20, 26),
				}},
				Span: sp(0, 30),
			},
		}
	}

	t.Run("checked animation events type the payload", func(t *testing.T) {
		text, _, _ := synthesize(t, config.Strict(), emptyRegistry(), nodes())

		assert.Contains(t, text, "($event: AnimationEvent): any => {")
	})

	t.Run("unchecked animation events take any payload", func(t *testing.T) {
		cfg := config.Strict()
		cfg.CheckTypeOfAnimationEvents = false

		text, _, _ := synthesize(t, cfg, emptyRegistry(), nodes())

		assert.Contains(t, text, "($event: any): any => {")
	})
}

func TestReferences(t *testing.T) {
	// References are only materialized on demand; inspect-everything
	// mode forces them so their shape can be checked directly.
	cfg := config.Strict()
	cfg.EnableSymbolInspection = true

	t.Run("template reference is a TemplateRef at runtime", func(t *testing.T) {
		nodes := []tmplast.Node{
			&tmplast.Template{
				References: []*tmplast.Reference{
					{Name: "tpl", Span: sp(13, 17), KeySpan: sp(14, 17)},
				},
				Span: sp(0, 30),
			},
		}

		text, _, _ := synthesize(t, cfg, emptyRegistry(), nodes)

		assert.Contains(t, text, "as TemplateRef<any>)")
	})

	t.Run("directive reference resolves the instance", func(t *testing.T) {
		form := &meta.Directive{
			Name:     "Form",
			Selector: "form",
			ExportAs: []string{"myForm"},
		}
		nodes := []tmplast.Node{
			&tmplast.Element{
				Name: "form",
				References: []*tmplast.Reference{
					{Name: "f", Value: "myForm", Span: sp(6, 18), KeySpan: sp(7, 8)},
				},
				Span: sp(0, 30),
			},
		}

		text, _, collector := synthesize(t, cfg, &meta.Registry{Directives: []*meta.Directive{form}}, nodes)

		assert.Contains(t, text, "null! as Form;")
		assert.Empty(t, collector.Diagnostics())
	})

	t.Run("unresolvable reference reports and degrades", func(t *testing.T) {
		nodes := []tmplast.Node{
			&tmplast.Element{
				Name: "div",
				References: []*tmplast.Reference{
					{Name: "f", Value: "missing", Span: sp(5, 18), KeySpan: sp(6, 7)},
				},
				Span: sp(0, 30),
			},
		}

		text, _, collector := synthesize(t, cfg, emptyRegistry(), nodes)

		require.Len(t, collector.ByCode(diagnostic.CodeMissingReferenceTarget), 1)
		assert.Contains(t, text, "= (null as any);")
	})
}

func TestRequiredInputs(t *testing.T) {
	dir := &meta.Directive{
		Name:     "Req",
		Selector: "div",
		Inputs: []meta.Input{
			{ClassPropertyName: "need", BindingPropertyName: "need", Required: true},
		},
	}
	nodes := []tmplast.Node{
		&tmplast.Element{Name: "div", Span: sp(0, 10)},
	}

	_, _, collector := synthesize(t, config.Strict(), &meta.Registry{Directives: []*meta.Directive{dir}}, nodes)

	diags := collector.ByCode(diagnostic.CodeMissingRequiredInputs)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "need")
}

func TestDeferredDirectiveUsedEagerly(t *testing.T) {
	dir := &meta.Directive{
		Name:                 "Lazy",
		Selector:             "div",
		IsExplicitlyDeferred: true,
	}
	nodes := []tmplast.Node{
		&tmplast.Element{Name: "div", Span: sp(0, 10)},
	}

	_, _, collector := synthesize(t, config.Strict(), &meta.Registry{Directives: []*meta.Directive{dir}}, nodes)

	require.Len(t, collector.ByCode(diagnostic.CodeDeferredDirectiveEager), 1)
}

func TestSignalInputWritesThroughBrand(t *testing.T) {
	dir := &meta.Directive{
		Name:     "Sig",
		Selector: "[sig]",
		Inputs: []meta.Input{
			{ClassPropertyName: "sig", BindingPropertyName: "sig", IsSignal: true},
		},
	}
	nodes := []tmplast.Node{
		&tmplast.Element{
			Name: "div",
			Inputs: []*tmplast.BoundAttribute{{
				Name:    "sig",
				Value:   read("v", 11),
				Type:    tmplast.BindingProperty,
				Span:    sp(5, 12),
				KeySpan: sp(6, 9),
			}},
			Span: sp(0, 20),
		},
	}

	text, _, _ := synthesize(t, config.Strict(), &meta.Registry{Directives: []*meta.Directive{dir}}, nodes)

	assert.Contains(t, text, ".sig[\"__brandWriteType\"] = ctx.v;")
}

func TestTransformedInputChecksAgainstTransformType(t *testing.T) {
	dir := &meta.Directive{
		Name:     "Coerce",
		Selector: "[flag]",
		Inputs: []meta.Input{
			{ClassPropertyName: "flag", BindingPropertyName: "flag", TransformType: "string | boolean"},
		},
	}
	nodes := []tmplast.Node{
		&tmplast.Element{
			Name: "div",
			Inputs: []*tmplast.BoundAttribute{{
				Name:    "flag",
				Value:   read("v", 12),
				Type:    tmplast.BindingProperty,
				Span:    sp(5, 13),
				KeySpan: sp(6, 10),
			}},
			Span: sp(0, 20),
		},
	}

	text, _, _ := synthesize(t, config.Strict(), &meta.Registry{Directives: []*meta.Directive{dir}}, nodes)

	assert.Contains(t, text, "null! as string | boolean;")
	assert.NotContains(t, text, ".flag =")
}

func TestGenericDirectiveWithoutInlineCtor(t *testing.T) {
	dir := &meta.Directive{
		Name:                   "Gen",
		Selector:               "div",
		IsGeneric:              true,
		GenericParamCount:      2,
		RequiresInlineTypeCtor: true,
	}
	cfg := config.Strict()
	cfg.UseInlineTypeConstructors = false
	cfg.EnableSymbolInspection = true
	nodes := []tmplast.Node{
		&tmplast.Element{Name: "div", Span: sp(0, 10)},
	}

	text, _, _ := synthesize(t, cfg, &meta.Registry{Directives: []*meta.Directive{dir}}, nodes)

	assert.Contains(t, text, "null! as Gen<any, any>;")
	assert.NotContains(t, text, "ngTypeCtor")
}

func TestStaticAttributeInputs(t *testing.T) {
	dir := &meta.Directive{
		Name:     "Titled",
		Selector: "[title]",
		Inputs: []meta.Input{
			{ClassPropertyName: "title", BindingPropertyName: "title"},
		},
	}
	nodes := []tmplast.Node{
		&tmplast.Element{
			Name: "div",
			Attributes: []*tmplast.TextAttribute{{
				Name:      "title",
				Value:     "hello",
				Span:      sp(5, 18),
				KeySpan:   sp(5, 10),
				ValueSpan: position.Ptr(12, 17),
			}},
			Span: sp(0, 20),
		},
	}

	text, _, _ := synthesize(t, config.Strict(), &meta.Registry{Directives: []*meta.Directive{dir}}, nodes)

	assert.Contains(t, text, ".title = \"hello\";")
}

func TestSourceMapRoundTrip(t *testing.T) {
	src := sp(5, 13)
	nodes := []tmplast.Node{
		&tmplast.BoundText{
			Value: &texpr.PropertyRead{
				Receiver: &texpr.ImplicitReceiver{},
				Name:     "name",
				Span:     src,
				NameSpan: sp(9, 13),
			},
			Span: sp(3, 16),
		},
	}

	text, mapper, _ := synthesize(t, config.Strict(), emptyRegistry(), nodes)

	gen, ok := mapper.GeneratedFor(src)
	require.True(t, ok)
	assert.Equal(t, "ctx.name", text[gen.Start:gen.End])

	back, ok := mapper.SourceAt(gen.Start)
	require.True(t, ok)
	assert.Equal(t, src, back)

	exact, ok := mapper.SourceForSpan(gen)
	require.True(t, ok)
	assert.Equal(t, src, exact)
}

func TestThisQualifiedReadPrefersScope(t *testing.T) {
	// A this-qualified read of a name shadowed by a template variable
	// resolves to the variable, matching the long-standing behavior
	// consumers expect.
	nodes := []tmplast.Node{
		&tmplast.Template{
			Variables: []*tmplast.Variable{
				{Name: "user", Span: sp(5, 13), KeySpan: sp(9, 13)},
			},
			Children: []tmplast.Node{
				&tmplast.BoundText{
					Value: &texpr.PropertyRead{
						Receiver: &texpr.ThisReceiver{Span: sp(20, 24)},
						Name:     "user",
						Span:     sp(20, 29),
						NameSpan: sp(25, 29),
					},
					Span: sp(18, 31),
				},
			},
			Span: sp(0, 40),
		},
	}

	text, _, _ := synthesize(t, config.Strict(), emptyRegistry(), nodes)

	assert.NotContains(t, text, "ctx.user")
	assert.Contains(t, text, ".$implicit;")
}

package tcb

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/tplcheck/pkg/config"
	"github.com/walteh/tplcheck/pkg/diagnostic"
	"github.com/walteh/tplcheck/pkg/gencode"
	"github.com/walteh/tplcheck/pkg/meta"
	"github.com/walteh/tplcheck/pkg/tmplast"
)

// Synthesize runs one full type-check-block pass over a bound template
// and returns the synthesized statements in render order. Diagnostics
// found while synthesizing (missing pipes, duplicate variables, split
// two-way bindings, ...) go to rec; they are template problems in their
// own right, independent of anything the downstream checker reports.
func Synthesize(ctx context.Context, cfg config.TypeCheckConfig, env Environment, target meta.BoundTarget, rec diagnostic.Recorder, nodes []tmplast.Node) []gencode.Statement {
	tcb := NewContext(cfg, env, target, rec)

	zerolog.Ctx(ctx).Debug().
		Str("pass", tcb.PassID()).
		Int("roots", len(nodes)).
		Msg("synthesizing type-check block")

	root := newScope(tcb, nil, nil, nodes, nil)
	stmts := root.Render()

	zerolog.Ctx(ctx).Debug().
		Str("pass", tcb.PassID()).
		Int("statements", len(stmts)).
		Msg("type-check block complete")

	return stmts
}

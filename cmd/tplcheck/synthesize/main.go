package synthesize

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/walteh/tplcheck/pkg/config"
	"github.com/walteh/tplcheck/pkg/diagnostic"
	"github.com/walteh/tplcheck/pkg/gencode"
	"github.com/walteh/tplcheck/pkg/meta"
	"github.com/walteh/tplcheck/pkg/tcb"
	"github.com/walteh/tplcheck/pkg/tmplast"
)

type Handler struct {
	pattern      string
	registryFile string
	configFile   string
	mappings     bool

	fs afero.Fs
}

func NewSynthesizeCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "synthesize [template-glob]",
		Short: "synthesize type-check blocks for parsed templates",
		Long: "Reads interchange-encoded template ASTs matching the glob, synthesizes a\n" +
			"type-check block for each and writes it next to the input as <name>.tcb.ts.",
	}

	cmd.Flags().StringVar(&me.registryFile, "registry", "", "path to the directive/pipe registry JSON")
	cmd.Flags().StringVar(&me.configFile, "config", "", "path to a strictness config file (.hcl, .yaml)")
	cmd.Flags().BoolVar(&me.mappings, "mappings", false, "also write the source mapping table as <name>.tcb.map.json")
	cmd.MarkFlagRequired("registry")
	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.pattern = args[0]
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	cfg := config.Strict()
	if me.configFile != "" {
		loaded, err := config.Load(me.configFile)
		if err != nil {
			return errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	registry, err := me.loadRegistry()
	if err != nil {
		return errors.Errorf("loading registry: %w", err)
	}

	matches, err := doublestar.FilepathGlob(me.pattern)
	if err != nil {
		return errors.Errorf("globbing %q: %w", me.pattern, err)
	}
	if len(matches) == 0 {
		return errors.Errorf("no template files match %q", me.pattern)
	}

	var errs error
	errorCount := 0
	for _, path := range matches {
		count, err := me.synthesizeFile(ctx, path, cfg, registry)
		if err != nil {
			errs = multierr.Append(errs, errors.Errorf("synthesizing %s: %w", path, err))
			continue
		}
		errorCount += count
	}
	if errs != nil {
		return errs
	}
	if errorCount > 0 {
		return errors.Errorf("%d template error(s) found", errorCount)
	}
	return nil
}

func (me *Handler) loadRegistry() (*meta.Registry, error) {
	data, err := afero.ReadFile(me.fs, me.registryFile)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", me.registryFile, err)
	}
	registry := &meta.Registry{}
	if err := json.Unmarshal(data, registry); err != nil {
		return nil, errors.Errorf("decoding %s: %w", me.registryFile, err)
	}
	return registry, nil
}

// synthesizeFile runs one template through the full pipeline and
// returns how many error-severity diagnostics it produced.
func (me *Handler) synthesizeFile(ctx context.Context, path string, cfg config.TypeCheckConfig, registry *meta.Registry) (int, error) {
	data, err := afero.ReadFile(me.fs, path)
	if err != nil {
		return 0, errors.Errorf("reading template: %w", err)
	}

	nodes, err := tmplast.DecodeNodes(data)
	if err != nil {
		return 0, errors.Errorf("decoding template: %w", err)
	}

	target, err := meta.NewBinder(registry).Bind(nodes)
	if err != nil {
		return 0, errors.Errorf("binding template: %w", err)
	}

	collector := diagnostic.NewCollector()
	stmts := tcb.Synthesize(ctx, cfg, tcb.DefaultEnvironment{}, target, collector, nodes)
	text, mapper := gencode.Emit(stmts)

	outPath := outputPath(path, ".tcb.ts")
	if err := afero.WriteFile(me.fs, outPath, []byte(text), 0o644); err != nil {
		return 0, errors.Errorf("writing %s: %w", outPath, err)
	}

	if me.mappings {
		encoded, err := json.MarshalIndent(mapper.Mappings(), "", "  ")
		if err != nil {
			return 0, errors.Errorf("encoding mappings: %w", err)
		}
		mapPath := outputPath(path, ".tcb.map.json")
		if err := afero.WriteFile(me.fs, mapPath, encoded, 0o644); err != nil {
			return 0, errors.Errorf("writing %s: %w", mapPath, err)
		}
	}

	errorCount := 0
	for _, d := range collector.Diagnostics() {
		if d.Severity == diagnostic.Error {
			errorCount++
		}
		zerolog.Ctx(ctx).Warn().
			Str("file", path).
			Str("code", string(d.Code)).
			Str("severity", string(d.Severity)).
			Msg(d.Message)
	}

	zerolog.Ctx(ctx).Info().
		Str("file", path).
		Str("out", outPath).
		Int("statements", len(stmts)).
		Int("diagnostics", len(collector.Diagnostics())).
		Msg("synthesized type-check block")

	return errorCount, nil
}

// outputPath swaps the input's extension for ext, so a.template.json
// becomes a.template.tcb.ts.
func outputPath(path string, ext string) string {
	if idx := strings.LastIndex(path, "."); idx > strings.LastIndexAny(path, "/\\") {
		return path[:idx] + ext
	}
	return path + ext
}

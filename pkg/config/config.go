// Package config carries the read-only type-checking configuration one
// synthesis pass runs under. The flags are supplied by the host; the
// loader accepts HCL or YAML files.
package config

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// TypeCheckConfig selects which checks the synthesized program encodes
// and how lenient the encoding is.
type TypeCheckConfig struct {
	// CheckTypeOfInputBindings enables checking bound input expressions
	// against input types at all. Off, every binding is cast to any.
	CheckTypeOfInputBindings bool `hcl:"check_type_of_input_bindings,optional" yaml:"check_type_of_input_bindings"`

	// StrictNullInputBindings keeps null/undefined in bound input types.
	// Off, non-literal binding expressions get a non-null assertion.
	StrictNullInputBindings bool `hcl:"strict_null_input_bindings,optional" yaml:"strict_null_input_bindings"`

	// CheckTypeOfAttributes checks text attributes bound to directive
	// inputs.
	CheckTypeOfAttributes bool `hcl:"check_type_of_attributes,optional" yaml:"check_type_of_attributes"`

	// CheckTypeOfDomBindings checks bindings against DOM element
	// properties when no directive claims them.
	CheckTypeOfDomBindings bool `hcl:"check_type_of_dom_bindings,optional" yaml:"check_type_of_dom_bindings"`

	// CheckTypeOfOutputEvents types the payload of directive outputs.
	CheckTypeOfOutputEvents bool `hcl:"check_type_of_output_events,optional" yaml:"check_type_of_output_events"`

	// CheckTypeOfAnimationEvents types animation event payloads.
	CheckTypeOfAnimationEvents bool `hcl:"check_type_of_animation_events,optional" yaml:"check_type_of_animation_events"`

	// CheckTypeOfDomEvents registers real DOM listeners so the event
	// payload type is checked.
	CheckTypeOfDomEvents bool `hcl:"check_type_of_dom_events,optional" yaml:"check_type_of_dom_events"`

	// CheckTypeOfPipes checks pipe transform signatures.
	CheckTypeOfPipes bool `hcl:"check_type_of_pipes,optional" yaml:"check_type_of_pipes"`

	// StrictSafeNavigationTypes gives a?.b the type (B | undefined)
	// instead of degrading to any.
	StrictSafeNavigationTypes bool `hcl:"strict_safe_navigation_types,optional" yaml:"strict_safe_navigation_types"`

	// LegacySafeNavigation reproduces the old engine's inference bug for
	// safe navigation: the qualifier is cast to any before the access.
	LegacySafeNavigation bool `hcl:"legacy_safe_navigation,optional" yaml:"legacy_safe_navigation"`

	// StrictLiteralTypes keeps array/object literal types instead of
	// widening them to any.
	StrictLiteralTypes bool `hcl:"strict_literal_types,optional" yaml:"strict_literal_types"`

	// UseInlineTypeConstructors permits emitting type-constructor calls
	// inline to infer directive generic parameters.
	UseInlineTypeConstructors bool `hcl:"use_inline_type_constructors,optional" yaml:"use_inline_type_constructors"`

	// ApplyTemplateContextGuards narrows template context variables via
	// directive context guards.
	ApplyTemplateContextGuards bool `hcl:"apply_template_context_guards,optional" yaml:"apply_template_context_guards"`

	// CheckTemplateBodies descends into nested template bodies.
	CheckTemplateBodies bool `hcl:"check_template_bodies,optional" yaml:"check_template_bodies"`

	// EnableSymbolInspection materializes optional operations even when
	// nothing references them, so hosts can query a type for every node.
	EnableSymbolInspection bool `hcl:"enable_symbol_inspection,optional" yaml:"enable_symbol_inspection"`

	// ContentProjectionSeverity selects the severity of the (not yet
	// implemented) content-projection interference diagnostic.
	ContentProjectionSeverity string `hcl:"content_projection_severity,optional" yaml:"content_projection_severity"`
}

// Strict returns the configuration with every check enabled, the mode
// new projects run under.
func Strict() TypeCheckConfig {
	return TypeCheckConfig{
		CheckTypeOfInputBindings:   true,
		StrictNullInputBindings:    true,
		CheckTypeOfAttributes:      true,
		CheckTypeOfDomBindings:     true,
		CheckTypeOfOutputEvents:    true,
		CheckTypeOfAnimationEvents: true,
		CheckTypeOfDomEvents:       true,
		CheckTypeOfPipes:           true,
		StrictSafeNavigationTypes:  true,
		StrictLiteralTypes:         true,
		UseInlineTypeConstructors:  true,
		ApplyTemplateContextGuards: true,
		CheckTemplateBodies:        true,
	}
}

// Basic returns the lenient legacy configuration: template bodies are
// still entered but every type degrades to any.
func Basic() TypeCheckConfig {
	return TypeCheckConfig{
		CheckTemplateBodies: true,
	}
}

// Load reads a configuration file, dispatching on extension (.hcl, or
// .yaml/.yml).
func Load(path string) (TypeCheckConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TypeCheckConfig{}, errors.Errorf("reading config file: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes configuration file contents; the filename selects the
// format.
func Parse(filename string, data []byte) (TypeCheckConfig, error) {
	if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		cfg := Strict()
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return TypeCheckConfig{}, errors.Errorf("parsing yaml config: %w", err)
		}
		return cfg, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return TypeCheckConfig{}, errors.Errorf("parsing hcl config: %w", diags)
	}
	cfg := Strict()
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return TypeCheckConfig{}, errors.Errorf("decoding hcl config: %w", diags)
	}
	return cfg, nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/restgen/wadl2go/internal/emitter/goemitter"
	"github.com/restgen/wadl2go/internal/gen"
	"github.com/restgen/wadl2go/internal/wadl"
)

// GenerateConfig captures all inputs that influence the generate command
// after merging defaults, config file values, and CLI overrides.
type GenerateConfig struct {
	Input          string
	Out            string
	Package        string
	Module         string
	SingleResource string
	CodeType       string

	Interfaces         bool
	Impl               bool
	Enums              bool
	InheritParams      bool
	SkipSchema         bool
	MultipleReps       bool
	VoidEmptyResponses bool
	ResponseIfHeaders  bool

	AsyncMethods    []string
	ResponseMethods []string

	MediaTypeMap     map[string]string
	SchemaPackageMap map[string]string
	SchemaTypeMap    map[string]string
	TypeMap          map[string]string

	ConfigPath string
	DryRun     bool
	Force      bool
	Verbose    bool
}

func defaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		CodeType:           goemitter.CodeTypeAll,
		Interfaces:         true,
		VoidEmptyResponses: true,
	}
}

var generateRunner = runGenerate

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Go resource classes from a WADL document",
		Long: "Generate Go resource interfaces, implementation stubs, payload types and " +
			"enumerations from a WADL document. Options can be provided via flags, " +
			"config files, or defaults.",
		Example: strings.TrimSpace(`  wadl2go generate --input app.wadl --out ./gen
  wadl2go --config wadl2go.yaml generate --impl --enums --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("input", "", "Path or URL to the WADL document")
	flags.String("out", "", "Output directory (derived from the input name when omitted)")
	flags.String("package", "", "Override the target package derived from the document")
	flags.String("module", "", "Module path prefix for cross-package imports in generated code")
	flags.String("single-resource", "", "Generate only the named top-level resource")
	flags.String("code-type", "", "What to emit: all (default) or grammar (payload types only)")
	flags.Bool("interfaces", true, "Emit resource interfaces")
	flags.Bool("impl", false, "Emit implementation stubs")
	flags.Bool("enums", false, "Generate enum types for params with option values")
	flags.Bool("inherit-params", false, "Propagate resource-level params of method-less resources to descendants")
	flags.Bool("skip-schema", false, "Skip compiling the grammar section")
	flags.Bool("multiple-reps", false, "Emit one method per distinguishing request representation")
	flags.Bool("void-empty-responses", true, "Drop the return value for success responses without representations")
	flags.Bool("response-if-headers", false, "Return the raw response when the sole response declares header params")
	flags.StringSlice("async-methods", nil, "Methods (by verb or id, or *) generated with a response channel")
	flags.StringSlice("response-methods", nil, "Methods (by verb or id, or *) forced to return the raw response")
	flags.StringSlice("media-type-map", nil, "mediaType=type payload overrides")
	flags.StringSlice("schema-package-map", nil, "namespace=package overrides")
	flags.StringSlice("schema-type-map", nil, "{namespace}local=type overrides for schema-declared param types")
	flags.StringSlice("type-map", nil, "package.local=type redirections")
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")
	flags.Bool("force", false, "Write into a non-empty output directory")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := defaultGenerateConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyGenerateConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	stringFields := map[string]*string{
		"input":           &cfg.Input,
		"out":             &cfg.Out,
		"package":         &cfg.Package,
		"module":          &cfg.Module,
		"single-resource": &cfg.SingleResource,
		"code-type":       &cfg.CodeType,
	}
	for name, target := range stringFields {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*target = strings.TrimSpace(value)
	}

	boolFields := map[string]*bool{
		"interfaces":           &cfg.Interfaces,
		"impl":                 &cfg.Impl,
		"enums":                &cfg.Enums,
		"inherit-params":       &cfg.InheritParams,
		"skip-schema":          &cfg.SkipSchema,
		"multiple-reps":        &cfg.MultipleReps,
		"void-empty-responses": &cfg.VoidEmptyResponses,
		"response-if-headers":  &cfg.ResponseIfHeaders,
		"dry-run":              &cfg.DryRun,
		"force":                &cfg.Force,
		"verbose":              &cfg.Verbose,
	}
	for name, target := range boolFields {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*target = value
	}

	sliceFields := map[string]*[]string{
		"async-methods":    &cfg.AsyncMethods,
		"response-methods": &cfg.ResponseMethods,
	}
	for name, target := range sliceFields {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetStringSlice(name)
		if err != nil {
			return err
		}
		*target = sanitizeList(value)
	}

	mapFields := map[string]*map[string]string{
		"media-type-map":     &cfg.MediaTypeMap,
		"schema-package-map": &cfg.SchemaPackageMap,
		"schema-type-map":    &cfg.SchemaTypeMap,
		"type-map":           &cfg.TypeMap,
	}
	for name, target := range mapFields {
		if !flags.Changed(name) {
			continue
		}
		value, err := flags.GetStringSlice(name)
		if err != nil {
			return err
		}
		parsed, err := parseKeyValues(value)
		if err != nil {
			return newUsageError(fmt.Sprintf("generate: --%s: %v", name, err))
		}
		*target = parsed
	}

	return nil
}

func (c *GenerateConfig) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Out = strings.TrimSpace(c.Out)
	c.Package = strings.TrimSpace(c.Package)
	c.Module = strings.TrimSpace(c.Module)
	c.SingleResource = strings.TrimSpace(c.SingleResource)
	c.CodeType = strings.ToLower(strings.TrimSpace(c.CodeType))
	c.AsyncMethods = sanitizeList(c.AsyncMethods)
	c.ResponseMethods = sanitizeList(c.ResponseMethods)
}

func (c *GenerateConfig) validate() error {
	if c.Input == "" {
		return newUsageError("generate: --input is required (set via flag or config file)")
	}
	switch c.CodeType {
	case "":
		c.CodeType = goemitter.CodeTypeAll
	case goemitter.CodeTypeAll, goemitter.CodeTypeGrammar:
	default:
		return newUsageError(fmt.Sprintf("generate: unsupported --code-type %q (allowed: all, grammar)", c.CodeType))
	}
	return nil
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	loader := wadl.NewLoader()
	app, err := loader.Load(ctx, cfg.Input)
	if err != nil {
		var de *wadl.DocError
		if errors.As(err, &de) {
			msg := fmt.Sprintf("wadl: %s", de.Message)
			if de.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, de.Location)
			}
			return newUsageError(msg)
		}
		return err
	}

	opts := gen.DefaultOptions()
	opts.GenerateInterfaces = cfg.Interfaces
	opts.GenerateImpl = cfg.Impl
	opts.PackageName = cfg.Package
	opts.ResourceName = cfg.SingleResource
	opts.GenerateEnums = cfg.Enums
	opts.SkipSchemaGeneration = cfg.SkipSchema
	opts.InheritResourceParams = cfg.InheritParams
	opts.UseVoidForEmptyResponses = cfg.VoidEmptyResponses
	opts.GenerateResponseIfHeadersSet = cfg.ResponseIfHeaders
	opts.SupportMultipleReps = cfg.MultipleReps
	opts.MediaTypeMap = cfg.MediaTypeMap
	opts.SchemaPackageMap = cfg.SchemaPackageMap
	opts.SchemaTypeMap = cfg.SchemaTypeMap
	opts.TypeNameMap = cfg.TypeMap
	opts.SuspendedAsyncMethods = toNameSet(cfg.AsyncMethods)
	opts.ResponseMethods = toNameSet(cfg.ResponseMethods)

	unit, err := gen.Generate(ctx, app, opts, loader, nil)
	if err != nil {
		return err
	}

	outDir := cfg.Out
	if outDir == "" {
		outDir = deriveOutDir(cfg.Input)
	}
	absOut := outDir
	if ap, err := filepath.Abs(outDir); err == nil {
		absOut = ap
	}

	res, err := goemitter.Emit(ctx, unit, goemitter.Options{
		OutDir:   outDir,
		Module:   cfg.Module,
		CodeType: cfg.CodeType,
		Force:    cfg.Force,
		DryRun:   cfg.DryRun,
	})
	if err != nil {
		return wrapOutputError(err, absOut)
	}
	if cfg.DryRun {
		paths := make([]string, 0, len(res.Planned))
		for _, p := range res.Planned {
			paths = append(paths, p.RelPath)
		}
		printPlan(absOut, len(res.Planned), paths)
	}
	return nil
}

func printPlan(outDir string, count int, relPaths []string) {
	fmt.Fprintf(os.Stdout, "Planned writes to %s (%d files):\n", outDir, count)
	for _, p := range relPaths {
		fmt.Fprintf(os.Stdout, "- %s\n", p)
	}
}

func wrapOutputError(err error, outDir string) error {
	msg := err.Error()
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "permission") || strings.Contains(lower, "read-only") || strings.Contains(lower, "mkdir") || strings.Contains(lower, "rename") || strings.Contains(lower, "output directory") {
		return newUsageError(fmt.Sprintf("output error for %s: %s\nHint: choose a different --out or use --force when appropriate.", outDir, msg))
	}
	return err
}

// deriveOutDir picks the default output directory from the input document's
// base name.
func deriveOutDir(input string) string {
	base := filepath.Base(strings.TrimRight(input, "/"))
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	base = strings.ToLower(strings.TrimSpace(base))
	if base == "" || base == "." {
		return "generated"
	}
	return base + "-gen"
}

func sanitizeList(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func toNameSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}

func parseKeyValues(items []string) (map[string]string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(items))
	for _, item := range items {
		key, value, ok := strings.Cut(item, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("expected key=value, got %q", item)
		}
		out[key] = value
	}
	return out, nil
}

func applyGenerateConfigFromFile(cfg *GenerateConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return newUsageError(fmt.Sprintf("read config file %q: %v", path, err))
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return newUsageError(fmt.Sprintf("parse config file %q: %v", path, err))
	}

	stringFields := map[string]*string{
		"input":          &cfg.Input,
		"out":            &cfg.Out,
		"package":        &cfg.Package,
		"module":         &cfg.Module,
		"singleresource": &cfg.SingleResource,
		"codetype":       &cfg.CodeType,
	}
	boolFields := map[string]*bool{
		"interfaces":         &cfg.Interfaces,
		"impl":               &cfg.Impl,
		"enums":              &cfg.Enums,
		"inheritparams":      &cfg.InheritParams,
		"skipschema":         &cfg.SkipSchema,
		"multiplereps":       &cfg.MultipleReps,
		"voidemptyresponses": &cfg.VoidEmptyResponses,
		"responseifheaders":  &cfg.ResponseIfHeaders,
		"dryrun":             &cfg.DryRun,
		"force":              &cfg.Force,
		"verbose":            &cfg.Verbose,
	}
	sliceFields := map[string]*[]string{
		"asyncmethods":    &cfg.AsyncMethods,
		"responsemethods": &cfg.ResponseMethods,
	}
	mapFields := map[string]*map[string]string{
		"mediatypemap":     &cfg.MediaTypeMap,
		"schemapackagemap": &cfg.SchemaPackageMap,
		"schematypemap":    &cfg.SchemaTypeMap,
		"typemap":          &cfg.TypeMap,
	}

	for key, value := range raw {
		normalized := normalizeKey(key)
		switch {
		case stringFields[normalized] != nil:
			str, err := valueAsString(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			*stringFields[normalized] = str
		case boolFields[normalized] != nil:
			val, err := valueAsBool(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			*boolFields[normalized] = val
		case sliceFields[normalized] != nil:
			list, err := valueAsStringSlice(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			*sliceFields[normalized] = sanitizeList(list)
		case mapFields[normalized] != nil:
			m, err := valueAsStringMap(value)
			if err != nil {
				return newUsageError(fmt.Sprintf("config field %q: %v", key, err))
			}
			*mapFields[normalized] = m
		default:
			return newUsageError(fmt.Sprintf("config file %q: unknown field %q", path, key))
		}
	}

	return nil
}

func normalizeKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	lowered = strings.ReplaceAll(lowered, "-", "")
	lowered = strings.ReplaceAll(lowered, "_", "")
	return lowered
}

func valueAsString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func valueAsStringSlice(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, nil
		}
		return splitAndTrim(val), nil
	case []any:
		items := make([]string, 0, len(val))
		for idx, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", idx, err)
			}
			if str != "" {
				items = append(items, str)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected string or list, got %T", v)
	}
}

func valueAsStringMap(v any) (map[string]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		out := make(map[string]string, len(val))
		for k, elem := range val {
			str, err := valueAsString(elem)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			out[strings.TrimSpace(k)] = str
		}
		return out, nil
	case []any:
		items, err := valueAsStringSlice(v)
		if err != nil {
			return nil, err
		}
		return parseKeyValues(items)
	default:
		return nil, fmt.Errorf("expected mapping or key=value list, got %T", v)
	}
}

func valueAsBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		trimmed := strings.ToLower(strings.TrimSpace(val))
		switch trimmed {
		case "true", "t", "1", "yes", "y":
			return true, nil
		case "false", "f", "0", "no", "n":
			return false, nil
		case "":
			return false, nil
		default:
			return false, fmt.Errorf("invalid boolean value %q", val)
		}
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

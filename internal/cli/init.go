package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// InitConfig captures the options for the init command.
type InitConfig struct {
	OutputPath string
	Force      bool
	Verbose    bool
}

var initRunner = runInit

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a sample wadl2go configuration file",
		Long:  "Scaffold a commented wadl2go configuration file that documents available options.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return err
			}
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			cfg := &InitConfig{
				OutputPath: out,
				Force:      force,
				Verbose:    verbose,
			}
			return initRunner(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("out", "wadl2go.yaml", "Where to write the sample config file")
	cmd.Flags().Bool("force", false, "Overwrite the target file if it already exists")

	return cmd
}

func runInit(ctx context.Context, cfg *InitConfig) error {
	_ = ctx

	out := strings.TrimSpace(cfg.OutputPath)
	if out == "" {
		out = "wadl2go.yaml"
	}
	absPath, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("init: resolve output path: %w", err)
	}

	if st, err := os.Stat(absPath); err == nil && !cfg.Force {
		if st.Mode().IsRegular() {
			return newUsageError(fmt.Sprintf("init: %q already exists (use --force to overwrite)", absPath))
		}
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot create parent directory: %v", err))
	}

	content := strings.TrimSpace(sampleConfigYAML) + "\n"

	// Atomic write via temp + rename
	tmp := absPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return newUsageError(fmt.Sprintf("init: cannot write temp file: %v\nHint: choose a different --out or check directory permissions.", err))
	}
	if err := os.Rename(tmp, absPath); err != nil {
		_ = os.Remove(tmp)
		return newUsageError(fmt.Sprintf("init: cannot place file at %s: %v", absPath, err))
	}
	fmt.Fprintf(os.Stdout, "Wrote sample config to %s\n", absPath)
	return nil
}

// sampleConfigYAML is a commented example config documenting available options.
const sampleConfigYAML = `# wadl2go configuration (YAML)
# All fields are optional. Command-line flags override config values.

# Path or URL to the WADL document (http/https or local file).
# input: ./app.wadl

# Output directory. When omitted, derived from the input name.
# out: ./gen

# Override the target package derived from the document.
# package: bookstore

# Module path prefix for cross-package imports in generated code.
# module: example.com/bookstore

# Generate only the named top-level resource.
# singleResource: bookstore

# What to emit: all (default) or grammar (payload types only).
# codeType: all

# Emit resource interfaces and/or implementation stubs.
# interfaces: true
# impl: false

# Generate enum types for params carrying option values.
# enums: false

# Propagate resource-level params of method-less resources to descendants.
# inheritParams: false

# Skip compiling the grammar section.
# skipSchema: false

# Emit one method per distinguishing request representation.
# multipleReps: false

# Drop the return value for success responses without representations.
# voidEmptyResponses: true

# Return the raw response when the sole response declares header params.
# responseIfHeaders: false

# Methods (by verb or id, or *) generated with a response channel, and
# methods forced to return the raw response.
# asyncMethods: [post]
# responseMethods: []

# Payload/type overrides.
# mediaTypeMap:
#   application/json: io.Reader
# schemaPackageMap:
#   http://www.example.com/books: books
# schemaTypeMap:
#   "{http://www.w3.org/2001/XMLSchema}date": string
# typeMap:
#   books.Chapter: books.Section

# Preview planned outputs without writing files.
# dryRun: false

# Write into a non-empty output directory.
# force: false

# Enable verbose logging.
# verbose: false
`

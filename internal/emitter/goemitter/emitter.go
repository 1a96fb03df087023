package goemitter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/tliron/commonlog"
	"golang.org/x/tools/imports"

	"github.com/restgen/wadl2go/internal/gen"
)

var log = commonlog.GetLogger("wadl2go.emit")

// Code types selecting which part of the unit is rendered.
const (
	CodeTypeAll     = "all"
	CodeTypeGrammar = "grammar"
)

// Options controls how the Go emitter renders a unit.
type Options struct {
	OutDir   string // required; target directory to write into
	Module   string // import path prefix for cross-package references
	CodeType string // CodeTypeAll (default) or CodeTypeGrammar
	Force    bool   // write into a non-empty directory
	DryRun   bool   // don't write, only plan
}

// PlannedFile describes a file the emitter intends to write.
type PlannedFile struct {
	RelPath string
	Size    int
	Mode    os.FileMode
}

// Result returns the planned files and the resolved module path.
type Result struct {
	Module  string
	Planned []PlannedFile
}

// Emit renders a generation unit as Go source: one file per resource class
// and per enumeration type, plus the payload type declarations of each
// schema package. Each file lands under the directory spelled by its dotted
// package. A failure to write one file is logged and skipped; the remaining
// files are still written.
func Emit(ctx context.Context, unit *gen.Unit, opts Options) (*Result, error) {
	_ = ctx
	if unit == nil {
		return nil, fmt.Errorf("goemitter: nil unit")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("goemitter: OutDir is required")
	}
	module := strings.TrimSpace(opts.Module)
	if module == "" {
		module = "wadlgen"
	}
	codeType := opts.CodeType
	if codeType == "" {
		codeType = CodeTypeAll
	}

	files := map[string][]byte{}
	if codeType != CodeTypeGrammar {
		for _, cls := range unit.Resources {
			rel := filepath.Join(packageDir(cls.Package), strcase.ToSnake(cls.Name)+".go")
			files[rel] = formatted(rel, renderResourceClass(module, cls))
		}
		for _, e := range unit.Enums {
			rel := filepath.Join(packageDir(e.Package), strcase.ToSnake(e.Name)+".go")
			files[rel] = formatted(rel, renderEnum(e))
		}
	}
	for pkg, locals := range typesByPackage(unit.TypeNames) {
		rel := filepath.Join(packageDir(pkg), "types.go")
		files[rel] = formatted(rel, renderSchemaTypes(pkg, locals))
	}

	rels := make([]string, 0, len(files))
	for p := range files {
		rels = append(rels, filepath.ToSlash(p))
	}
	sort.Strings(rels)

	planned := make([]PlannedFile, 0, len(rels))
	for _, rel := range rels {
		planned = append(planned, PlannedFile{RelPath: rel, Size: len(files[rel]), Mode: 0o644})
	}

	if !opts.DryRun {
		if err := writeFiles(opts.OutDir, files, opts.Force); err != nil {
			return nil, err
		}
	}
	return &Result{Module: module, Planned: planned}, nil
}

// formatted runs the goimports pass over rendered source. On failure the
// unformatted source is kept so the problem stays inspectable on disk.
func formatted(rel string, src string) []byte {
	out, err := imports.Process(rel, []byte(src), nil)
	if err != nil {
		log.Warningf("formatting %s failed, writing unformatted source: %v", rel, err)
		return []byte(src)
	}
	return out
}

func typesByPackage(typeNames []string) map[string][]string {
	byPkg := map[string][]string{}
	for _, name := range typeNames {
		dot := strings.LastIndex(name, ".")
		if dot == -1 {
			continue
		}
		pkg := name[:dot]
		byPkg[pkg] = append(byPkg[pkg], name[dot+1:])
	}
	for _, locals := range byPkg {
		sort.Strings(locals)
	}
	return byPkg
}

func writeFiles(outDir string, files map[string][]byte, force bool) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve out dir: %w", err)
	}
	if st, err := os.Stat(abs); err == nil && st.IsDir() && !force {
		entries, rerr := os.ReadDir(abs)
		if rerr == nil && len(entries) > 0 {
			return fmt.Errorf("goemitter: output directory %q is not empty (use --force to overwrite)", abs)
		}
	}
	for rel, content := range files {
		p := filepath.Join(abs, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			log.Errorf("mkdir for %s failed, skipping: %v", rel, err)
			continue
		}
		// atomic write via temp file + rename
		tmp := p + ".tmp-" + time.Now().Format("20060102150405")
		if err := os.WriteFile(tmp, content, 0o644); err != nil {
			log.Errorf("write %s failed, skipping: %v", rel, err)
			continue
		}
		if err := os.Rename(tmp, p); err != nil {
			_ = os.Remove(tmp)
			log.Errorf("rename %s failed, skipping: %v", rel, err)
		}
	}
	return nil
}

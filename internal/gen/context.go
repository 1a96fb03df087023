package gen

import (
	"context"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/restgen/wadl2go/internal/grammar"
	"github.com/restgen/wadl2go/internal/wadl"
)

var log = commonlog.GetLogger("wadl2go.gen")

const defaultPackageName = "application"

// Context is the per-run mutable state of one generation pass. A Context
// must not be shared between concurrent Generate calls; every top-level call
// builds its own.
type Context struct {
	opts     Options
	loader   wadl.Loader
	compiler grammar.Compiler

	app  *wadl.Application
	info *grammar.Info

	typeNames  []string
	typeSet    map[string]bool
	classNames map[string]bool
	enums      map[string]*EnumType

	unit *Unit
}

func newContext(opts Options, app *wadl.Application, loader wadl.Loader, compiler grammar.Compiler) *Context {
	return &Context{
		opts:       opts,
		loader:     loader,
		compiler:   compiler,
		app:        app,
		info:       grammar.NewInfo(),
		typeSet:    map[string]bool{},
		classNames: map[string]bool{},
		enums:      map[string]*EnumType{},
		unit:       &Unit{},
	}
}

// processGrammar collects a document's schema fragments, runs the schema
// compiler over them unless schema generation is skipped, and returns the
// document's grammar info. Compiled type names accumulate across documents.
func (c *Context) processGrammar(ctx context.Context, app *wadl.Application) (*grammar.Info, error) {
	schemas, err := grammar.CollectSchemas(ctx, app, c.opts.wadlNS(), c.loader)
	if err != nil {
		return nil, err
	}
	if !c.opts.SkipSchemaGeneration && len(schemas) > 0 {
		res, err := c.compiler.Compile(ctx, schemas)
		if err != nil {
			return nil, err
		}
		for _, name := range res.TypeNames {
			c.addTypeName(name)
		}
		c.unit.Diagnostics = append(c.unit.Diagnostics, res.Diagnostics...)
	}
	return grammar.Build(ctx, app, schemas, c.loader)
}

func (c *Context) addTypeName(name string) {
	if !c.typeSet[name] {
		c.typeSet[name] = true
		c.typeNames = append(c.typeNames, name)
	}
}

// classPackageName picks the target package: explicit override, then the
// document-derived package, then the stock default.
func (c *Context) classPackageName(derived string) string {
	if c.opts.PackageName != "" {
		return c.opts.PackageName
	}
	if derived != "" {
		return derived
	}
	return defaultPackageName
}

// packageForNamespace applies the namespace→package override map before the
// deterministic derivation.
func (c *Context) packageForNamespace(ns string) string {
	if pkg, ok := c.opts.SchemaPackageMap[ns]; ok {
		return pkg
	}
	return grammar.PackageForNamespace(ns)
}

func (c *Context) addEnum(e *EnumType) {
	key := e.Package + "." + e.Name
	if _, ok := c.enums[key]; ok {
		return
	}
	c.enums[key] = e
	c.unit.Enums = append(c.unit.Enums, e)
}

// wadlElements returns parent's WADL children with href indirection resolved
// against the owning document root.
func (c *Context) wadlElements(root, parent *wadl.Element, name string) []*wadl.Element {
	return wadl.ElementsOf(root, parent, c.opts.wadlNS(), name)
}

func splitQualified(name string) (pkg, local string) {
	if i := strings.LastIndex(name, "."); i != -1 {
		return name[:i], name[i+1:]
	}
	return "", name
}

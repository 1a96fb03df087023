package grammar

import (
	"context"
	"fmt"

	"github.com/iancoleman/strcase"

	"github.com/restgen/wadl2go/internal/wadl"
)

// CompileResult reports the payload type names produced by a schema compiler
// run, qualified with their dotted target package (com.example.books.Book),
// plus any non-fatal diagnostics.
type CompileResult struct {
	TypeNames   []string
	Diagnostics []string
}

// Compiler turns schema fragments into payload type declarations. The engine
// consumes it as an opaque capability; it only needs the names of the types a
// run produced to wire resource signatures against them.
type Compiler interface {
	Compile(ctx context.Context, schemas []SchemaInfo) (*CompileResult, error)
}

// DOMCompiler derives type names from top-level element and complexType
// declarations without interpreting the schemas any further. It stands in
// for a full schema-to-Go compiler and keeps the engine usable stand-alone.
type DOMCompiler struct {
	// PackageResolver maps a target namespace to a dotted package name.
	// Defaults to PackageForNamespace when nil.
	PackageResolver func(namespace string) string
}

func (c *DOMCompiler) packageFor(ns string) string {
	if c.PackageResolver != nil {
		return c.PackageResolver(ns)
	}
	return PackageForNamespace(ns)
}

// Compile scans every fragment for named top-level declarations. A fragment
// whose root is not a schema element is reported as a diagnostic and skipped;
// generation continues with whatever the remaining fragments provide.
func (c *DOMCompiler) Compile(ctx context.Context, schemas []SchemaInfo) (*CompileResult, error) {
	res := &CompileResult{}
	seen := map[string]bool{}
	for _, schema := range schemas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if schema.Element == nil || schema.Element.Name.Space != wadl.XSDNamespace || schema.Element.Name.Local != "schema" {
			diag := fmt.Sprintf("fragment %s is not a schema document, using DOM-level information only", schema.SystemID)
			log.Warningf("%s", diag)
			res.Diagnostics = append(res.Diagnostics, diag)
			continue
		}
		pkg := c.packageFor(schema.TargetNamespace)
		for _, kind := range []string{"element", "complexType", "simpleType"} {
			for _, el := range schema.Element.ChildrenNS(wadl.XSDNamespace, kind) {
				name := el.Attr("name")
				if name == "" {
					continue
				}
				typeName := strcase.ToCamel(name)
				if pkg != "" {
					typeName = pkg + "." + typeName
				}
				if !seen[typeName] {
					seen[typeName] = true
					res.TypeNames = append(res.TypeNames, typeName)
				}
			}
		}
	}
	return res, nil
}

package grammar

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/restgen/wadl2go/internal/wadl"
)

// SchemaInfo is one schema fragment: either an inline xs:schema child of the
// grammars element or a document pulled in through a grammars-level include.
type SchemaInfo struct {
	Element         *wadl.Element
	SystemID        string
	TargetNamespace string
}

// CollectSchemas gathers the schema fragments of an application's grammars
// element. Returns nil when the document does not carry exactly one grammars
// element. Included schema documents are resolved relative to the WADL's own
// system id and loaded through the supplied loader.
func CollectSchemas(ctx context.Context, app *wadl.Application, wadlNS string, loader wadl.Loader) ([]SchemaInfo, error) {
	grammarEls := app.Root.ChildrenNS(wadlNS, "grammars")
	if len(grammarEls) != 1 {
		return nil, nil
	}

	var schemas []SchemaInfo
	inline := grammarEls[0].ChildrenNS(wadl.XSDNamespace, "schema")
	for i, schemaEl := range inline {
		systemID := app.Path
		if len(inline) > 1 {
			systemID += fmt.Sprintf("#grammar%d", i+1)
		}
		schemas = append(schemas, SchemaInfo{
			Element:         schemaEl,
			SystemID:        systemID,
			TargetNamespace: schemaEl.Attr("targetNamespace"),
		})
	}

	for _, includeEl := range grammarEls[0].ChildrenNS(wadlNS, "include") {
		href := includeEl.Attr("href")
		schemaURI := resolveSchemaLocation(app, href)
		doc, err := loader.Load(ctx, schemaURI)
		if err != nil {
			return nil, fmt.Errorf("include %s: %w", href, err)
		}
		schemas = append(schemas, SchemaInfo{
			Element:         doc.Root,
			SystemID:        schemaURI,
			TargetNamespace: doc.Root.Attr("targetNamespace"),
		})
	}
	return schemas, nil
}

func resolveSchemaLocation(app *wadl.Application, href string) string {
	u, err := url.Parse(href)
	if err == nil && u.IsAbs() {
		return href
	}
	if app.Path == "" {
		return href
	}
	base := app.BasePath()
	if !strings.HasPrefix(href, "/") && !strings.Contains(href, "..") {
		return base + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return base + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return base + href
	}
	return baseURL.ResolveReference(ref).String()
}

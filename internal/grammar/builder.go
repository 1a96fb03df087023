package grammar

import (
	"context"

	"github.com/tliron/commonlog"

	"github.com/restgen/wadl2go/internal/wadl"
)

var log = commonlog.GetLogger("wadl2go.grammar")

// Build assembles an Info for one application and its schema fragments:
// xmlns prefix bindings from the document root, element→type associations
// from every fragment, and everything reachable through xs:include chains.
// Include chains are guarded with a visited set; a schema location seen twice
// is skipped rather than re-read, so cyclic includes terminate.
func Build(ctx context.Context, app *wadl.Application, schemas []SchemaInfo, loader wadl.Loader) (*Info, error) {
	info := NewInfo()
	if len(schemas) == 0 {
		return info, nil
	}

	for prefix, uri := range app.Root.PrefixBindings() {
		info.NsMap[prefix] = uri
	}

	visited := map[string]bool{}
	for _, schema := range schemas {
		if err := populateElementTypes(ctx, schema.Element, schema.SystemID, info.ElementTypeMap, loader, visited); err != nil {
			return nil, err
		}
	}

	info.NoTargetNamespace = len(schemas) == 1 && schemas[0].TargetNamespace == ""
	return info, nil
}

func populateElementTypes(ctx context.Context, schemaEl *wadl.Element, systemID string, elementTypeMap map[string]string, loader wadl.Loader, visited map[string]bool) error {
	for _, el := range schemaEl.ChildrenNS(wadl.XSDNamespace, "element") {
		if typ := el.Attr("type"); typ != "" {
			elementTypeMap[el.Attr("name")] = typ
		}
	}
	base := baseDir(systemID)
	if base == "" {
		return nil
	}
	for _, includeEl := range schemaEl.ChildrenNS(wadl.XSDNamespace, "include") {
		schemaURI := base + includeEl.Attr("schemaLocation")
		if visited[schemaURI] {
			log.Debugf("schema include %s already processed, skipping", schemaURI)
			continue
		}
		visited[schemaURI] = true
		doc, err := loader.Load(ctx, schemaURI)
		if err != nil {
			return err
		}
		if err := populateElementTypes(ctx, doc.Root, schemaURI, elementTypeMap, loader, visited); err != nil {
			return err
		}
	}
	return nil
}

func baseDir(systemID string) string {
	for i := len(systemID) - 1; i >= 0; i-- {
		if systemID[i] == '/' {
			return systemID[:i+1]
		}
	}
	return ""
}

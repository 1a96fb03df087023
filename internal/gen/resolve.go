package gen

import (
	"context"
	"fmt"
	"net/url"

	"github.com/restgen/wadl2go/internal/wadl"
)

// resolvedResource is the outcome of resource_type indirection: the concrete
// element describing the resource's methods and params, with the identity and
// placement of the referring resource overlaid. The underlying element is
// never modified.
type resolvedResource struct {
	id   string
	path string
	el   *wadl.Element
	app  *wadl.Application // document owning el, for local href lookups
}

// resolveResource resolves a resource element whose type attribute indirects
// to a resource_type, locally ("#id") or in another document ("doc.wadl#id").
// External documents contribute their grammar info to the run before the
// fragment is resolved against them. The visited set guards reference cycles:
// revisiting a document#fragment pair is a fatal error.
func (c *Context) resolveResource(ctx context.Context, app *wadl.Application, resEl *wadl.Element, typ string, visited map[string]bool) (*resolvedResource, error) {
	rr := &resolvedResource{
		id:   resEl.Attr("id"),
		path: resEl.Attr("path"),
		el:   resEl,
		app:  app,
	}
	if typ == "" {
		return rr, nil
	}

	if typ[0] == '#' {
		key := app.Path + typ
		if visited[key] {
			return nil, fmt.Errorf("gen: resource type reference cycle at %s", key)
		}
		visited[key] = true
		resourceType := wadl.ResolveLocal(app.Root, c.opts.wadlNS(), "resource_type", typ)
		if resourceType == nil {
			return nil, fmt.Errorf("gen: unresolved resource type reference %q in %s", typ, app.Path)
		}
		if next := resourceType.Attr("type"); next != "" {
			// The referenced type is itself indirected; re-resolve, keeping
			// the original resource's identity.
			inner, err := c.resolveResource(ctx, app, resourceType, next, visited)
			if err != nil {
				return nil, err
			}
			rr.el = inner.el
			rr.app = inner.app
			return rr, nil
		}
		rr.el = resourceType
		return rr, nil
	}

	ref, err := url.Parse(typ)
	if err != nil {
		return nil, fmt.Errorf("gen: malformed resource type reference %q: %w", typ, err)
	}
	refPath := ref.Path
	if app.Path != "" {
		refPath = app.BasePath() + ref.Path
	}
	refApp, err := c.loader.Load(ctx, refPath)
	if err != nil {
		return nil, fmt.Errorf("gen: resource type reference %q: %w", typ, err)
	}
	refInfo, err := c.processGrammar(ctx, refApp)
	if err != nil {
		return nil, err
	}
	c.info.Merge(refInfo)
	return c.resolveResource(ctx, refApp, resEl, "#"+ref.Fragment, visited)
}

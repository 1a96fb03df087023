package gen

import (
	"context"
	"fmt"
	"strings"

	"github.com/restgen/wadl2go/internal/grammar"
	"github.com/restgen/wadl2go/internal/wadl"
)

// Generate compiles a parsed application description into a code-generation
// unit: one resource class (and optionally an implementation stub) per
// top-level resource, payload type names from the compiled grammar, and the
// enumeration types encountered along the way. loader resolves external
// references; compiler derives type names from the grammar section. Both may
// be nil, in which case stock implementations are used.
func Generate(ctx context.Context, app *wadl.Application, opts Options, loader wadl.Loader, compiler grammar.Compiler) (*Unit, error) {
	if loader == nil {
		loader = wadl.NewLoader()
	}
	c := newContext(opts, app, loader, compiler)
	if c.compiler == nil {
		c.compiler = &grammar.DOMCompiler{PackageResolver: c.packageForNamespace}
	}

	info, err := c.processGrammar(ctx, app)
	if err != nil {
		return nil, err
	}
	c.info.Merge(info)

	resourcesEls := c.wadlElements(app.Root, app.Root, "resources")
	if len(resourcesEls) != 1 {
		return nil, fmt.Errorf("gen: single resources element expected, got %d", len(resourcesEls))
	}
	resourceEls := c.wadlElements(app.Root, resourcesEls[0], "resource")
	if len(resourceEls) == 0 {
		return nil, fmt.Errorf("gen: at least one resource element expected")
	}

	for _, resEl := range resourceEls {
		rr, err := c.resolveResource(ctx, app, resEl, resEl.Attr("type"), map[string]bool{})
		if err != nil {
			return nil, err
		}
		if err := c.buildResourceClass(ctx, rr, c.opts.GenerateInterfaces, true); err != nil {
			return nil, err
		}
		if c.opts.GenerateInterfaces && c.opts.GenerateImpl {
			if err := c.buildResourceClass(ctx, rr, false, true); err != nil {
				return nil, err
			}
		}
		if c.opts.ResourceName != "" {
			break
		}
	}

	c.unit.Package = c.classPackageName("")
	c.unit.TypeNames = c.typeNames
	return c.unit, nil
}

// buildResourceClass emits one class for a resolved resource and recurses
// into its named sub-resources. Resources whose identifier maps onto a
// payload type from the grammar are skipped, as are classes already emitted
// under the same name.
func (c *Context) buildResourceClass(ctx context.Context, rr *resolvedResource, asInterface, isRoot bool) error {
	resourceID := rr.id
	if c.opts.ResourceName != "" {
		resourceID = c.opts.ResourceName
	}
	if resourceID == "" {
		resourceID = resourceIdentifier("", rr.path)
	}

	expanded := strings.HasPrefix(resourceID, "{")
	pkgPart, local := splitResourceID(resourceID, expanded)
	packageName := pkgPart
	if expanded {
		packageName = c.packageForNamespace(pkgPart)
	}
	if c.schemaTypeName(packageName, local) != "" {
		log.Debugf("resource %q matches a payload type, skipping", resourceID)
		return nil
	}

	clsName := c.className(local, asInterface)
	if c.classNames[clsName] {
		log.Debugf("class %q already generated, skipping", clsName)
		return nil
	}
	c.classNames[clsName] = true

	cls := &ResourceClass{
		Name:        clsName,
		Package:     c.classPackageName(packageName),
		Path:        rr.path,
		IsInterface: asInterface,
	}
	if c.opts.GenerateInterfaces && !asInterface {
		cls.Implements = capitalize(local)
	}

	if err := c.walkMethods(ctx, rr.app, rr.el, cls, isRoot, "", resourceID, nil); err != nil {
		return err
	}
	c.unit.Resources = append(c.unit.Resources, cls)

	return c.buildSubresourceClasses(ctx, rr, asInterface, resourceID)
}

// buildSubresourceClasses emits a dedicated class for every descendant
// resource carrying its own id. Children repeating the parent's id and
// language-qualified ids are left to the locator methods alone.
func (c *Context) buildSubresourceClasses(ctx context.Context, rr *resolvedResource, asInterface bool, parentID string) error {
	for _, child := range c.wadlElements(rr.app.Root, rr.el, "resource") {
		id := child.Attr("id")
		if id != "" && id != parentID && !strings.HasPrefix(id, "java") && !strings.HasPrefix(id, "{java") {
			sub, err := c.resolveResource(ctx, rr.app, child, child.Attr("type"), map[string]bool{})
			if err != nil {
				return err
			}
			if err := c.buildResourceClass(ctx, sub, asInterface, false); err != nil {
				return err
			}
		}
		childRR := &resolvedResource{id: id, path: child.Attr("path"), el: child, app: rr.app}
		if err := c.buildSubresourceClasses(ctx, childRR, asInterface, id); err != nil {
			return err
		}
	}
	return nil
}

// walkMethods builds the method descriptors of one class: the resource's own
// operations, then the subtree of anonymous children (merged into this class
// with extended paths) and named children (as sub-resource locators).
// Resource-level params of method-less resources propagate to descendants by
// value; each recursion level works on its own copy.
func (c *Context) walkMethods(ctx context.Context, app *wadl.Application, el *wadl.Element, cls *ResourceClass, classRoot bool, currentPath, resourceID string, inherited []*wadl.Element) error {
	methodEls := c.wadlElements(app.Root, el, "method")
	for _, methodEl := range methodEls {
		if err := c.buildMethod(app, methodEl, el, cls, classRoot, currentPath, resourceID, inherited); err != nil {
			return err
		}
	}

	childInherited := inherited
	if c.opts.InheritResourceParams && len(methodEls) == 0 {
		childInherited = append([]*wadl.Element(nil), inherited...)
		for _, paramEl := range c.wadlElements(app.Root, el, "param") {
			if resourceLevelStyles[paramEl.Attr("style")] {
				childInherited = append(childInherited, paramEl)
			}
		}
	}

	for _, child := range c.wadlElements(app.Root, el, "resource") {
		path := child.Attr("path")
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		newPath := strings.ReplaceAll(currentPath+path, "//", "/")
		id := child.Attr("id")
		if id == "" {
			if err := c.walkMethods(ctx, app, child, cls, false, newPath, resourceID, childInherited); err != nil {
				return err
			}
			continue
		}
		// Named child: a locator method returning the sub-resource class.
		if err := c.buildMethod(app, child, child, cls, false, newPath, resourceID, childInherited); err != nil {
			return err
		}
	}
	return nil
}

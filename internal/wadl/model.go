package wadl

import "encoding/xml"

// Namespace defaults recognized by the generator. The WADL namespace can be
// overridden per run for documents using the older 2006 namespace.
const (
	Namespace    = "http://wadl.dev.java.net/2009/02"
	XSDNamespace = "http://www.w3.org/2001/XMLSchema"
)

// Element is a parsed XML node. Elements are treated as immutable once a
// document has been parsed: the generator never writes to them, it overlays
// attributes through resolved views instead.
type Element struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Element
	Text     string
}

// Attr returns the value of the named non-namespaced attribute, or "".
func (e *Element) Attr(name string) string {
	if e == nil {
		return ""
	}
	for _, a := range e.Attrs {
		if a.Name.Local == name && (a.Name.Space == "" || a.Name.Space == "xml") {
			return a.Value
		}
	}
	return ""
}

// PrefixBindings returns the xmlns:prefix→URI declarations on this element.
func (e *Element) PrefixBindings() map[string]string {
	out := map[string]string{}
	if e == nil {
		return out
	}
	for _, a := range e.Attrs {
		if a.Name.Space == "xmlns" {
			out[a.Name.Local] = a.Value
		}
	}
	return out
}

// ChildrenNS returns the direct children matching the namespace and local name.
func (e *Element) ChildrenNS(space, local string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, c := range e.Children {
		if c.Name.Space == space && c.Name.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildNS returns the first direct child matching namespace and local
// name, or nil.
func (e *Element) FirstChildNS(space, local string) *Element {
	for _, c := range e.Children {
		if c.Name.Space == space && c.Name.Local == local {
			return c
		}
	}
	return nil
}

// Application is a parsed WADL document plus the system id it was loaded
// from. Path is the base for resolving relative references to other
// documents and included schemas; it may be empty for in-memory documents.
type Application struct {
	Root *Element
	Path string
}

// BasePath returns the directory portion of the application's system id,
// including the trailing separator, for resolving relative references.
func (a *Application) BasePath() string {
	return baseOf(a.Path)
}

func baseOf(docPath string) string {
	for i := len(docPath) - 1; i >= 0; i-- {
		if docPath[i] == '/' {
			return docPath[:i+1]
		}
	}
	return docPath
}

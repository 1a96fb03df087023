// Package grammar extracts type information from the schema fragments
// embedded in or referenced by a WADL document.
package grammar

// Info captures what the generator needs to know about a document's grammar:
// the namespace prefix bindings declared on the document root, the mapping
// from top-level schema element names to their declared (prefixed) types,
// and whether the grammar consists of a single schema with no target
// namespace, which changes how unprefixed type references are interpreted.
type Info struct {
	NsMap             map[string]string
	ElementTypeMap    map[string]string
	NoTargetNamespace bool
}

// NewInfo returns an empty Info.
func NewInfo() *Info {
	return &Info{
		NsMap:          map[string]string{},
		ElementTypeMap: map[string]string{},
	}
}

// Merge adds the other grammar's bindings into this one. Merging is additive;
// bindings are never removed for the lifetime of a generation run.
func (g *Info) Merge(other *Info) {
	if other == nil {
		return
	}
	for k, v := range other.NsMap {
		g.NsMap[k] = v
	}
	for k, v := range other.ElementTypeMap {
		g.ElementTypeMap[k] = v
	}
}

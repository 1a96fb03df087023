package wadl

// ResolveLocal finds a top-level element of the given name whose id matches a
// "#id" fragment reference. Returns nil when no element matches.
func ResolveLocal(root *Element, ns, elementName, ref string) *Element {
	if len(ref) == 0 || ref[0] != '#' {
		return nil
	}
	refID := ref[1:]
	for _, el := range root.ChildrenNS(ns, elementName) {
		if el.Attr("id") == refID {
			return el
		}
	}
	return nil
}

// ElementsOf returns the WADL children of parent with the given local name.
// Non-resource elements carrying a local href reference ("#id") are replaced
// by their referenced top-level definition, so methods, params and
// representations can be declared once and reused.
func ElementsOf(root, parent *Element, ns, name string) []*Element {
	if parent == nil {
		return nil
	}
	elements := parent.ChildrenNS(ns, name)
	if name == "resource" {
		return elements
	}
	for i, el := range elements {
		href := el.Attr("href")
		if len(href) > 1 && href[0] == '#' {
			if real := ResolveLocal(root, ns, el.Name.Local, href); real != nil {
				elements[i] = real
			}
		}
	}
	return elements
}

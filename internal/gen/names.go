package gen

import (
	"strings"

	"github.com/iancoleman/strcase"
)

const defaultResourceSuffix = "Resource"

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// resourceIdentifier derives a resource's identifier from its id, or from
// its path when the id is empty: placeholder braces and underscores are
// stripped, each segment is capitalized, and the stock suffix is appended.
func resourceIdentifier(id, path string) string {
	if id != "" {
		return id
	}
	var b strings.Builder
	cleaned := strings.NewReplacer("{", "", "}", "", "_", "").Replace(path)
	for _, seg := range strings.Split(cleaned, "/") {
		if seg != "" {
			b.WriteString(capitalize(seg))
		}
	}
	return b.String() + defaultResourceSuffix
}

// className resolves the emitted class name for a resource identifier:
// implementation artifacts get the Impl suffix when interfaces are generated
// alongside, and a name colliding case-insensitively with a known payload
// type name is suffixed to disambiguate.
func (c *Context) className(local string, asInterface bool) string {
	name := local
	if !asInterface && c.opts.GenerateInterfaces {
		name += "Impl"
	}
	name = capitalize(name)
	for _, typeName := range c.typeNames {
		_, typeLocal := splitQualified(typeName)
		if strings.EqualFold(name, typeLocal) {
			name += defaultResourceSuffix
			break
		}
	}
	return name
}

// methodName completes a generated method name: when the id collapses to the
// bare HTTP verb, the path segments are appended (braces and any trailing
// ":regex" stripped, capitalized) so sibling methods stay distinguishable.
// Hyphens never survive into identifiers.
func methodName(verbLower, id, currentPath string) string {
	name := id
	if name == verbLower {
		var b strings.Builder
		for _, seg := range strings.Split(currentPath, "/") {
			seg = strings.NewReplacer("{", "", "}", "").Replace(seg)
			if i := strings.Index(seg, ":"); i > 0 {
				seg = seg[:i]
			}
			if seg != "" {
				b.WriteString(capitalize(seg))
			}
		}
		name += b.String()
	}
	return strings.ReplaceAll(name, "-", "")
}

// paramGoName sanitizes a declared parameter name into an identifier.
func paramGoName(name string) string {
	if goKeywords[name] {
		return name + "_arg"
	}
	return strings.NewReplacer(":", "_", ".", "_", "-", "_").Replace(name)
}

// enumTypeName derives the enumeration type name from a parameter name.
func enumTypeName(name string) string {
	return strcase.ToCamel(strings.NewReplacer(".", " ", "-", " ").Replace(name))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package gen

import (
	"strings"

	"github.com/restgen/wadl2go/internal/wadl"
)

const defaultTypeName = "string"

// xsdTypeMap is the fixed builtin grammar type table.
var xsdTypeMap = map[string]string{
	"string":          "string",
	"integer":         "int64",
	"int":             "int32",
	"long":            "int64",
	"short":           "int16",
	"byte":            "int8",
	"boolean":         "bool",
	"float":           "float32",
	"double":          "float64",
	"decimal":         "*big.Float",
	"positiveInteger": "*big.Int",
	"unsignedLong":    "uint64",
	"unsignedInt":     "uint32",
	"unsignedShort":   "uint16",
	"unsignedByte":    "uint8",
	"QName":           "xml.Name",
	"duration":        "time.Duration",
	"date":            "time.Time",
	"dateTime":        "time.Time",
	"time":            "time.Time",
	"anyType":         "string",
	"anyURI":          "*url.URL",
}

// nullableTypeMap holds the pointer variants used for optional parameters of
// value types.
var nullableTypeMap = map[string]string{
	"bool":    "*bool",
	"int8":    "*int8",
	"int16":   "*int16",
	"int32":   "*int32",
	"int64":   "*int64",
	"uint8":   "*uint8",
	"uint16":  "*uint16",
	"uint32":  "*uint32",
	"uint64":  "*uint64",
	"float32": "*float32",
	"float64": "*float64",
}

// optionalSources are the binding sources whose non-required parameters get
// the nullable variant of a value type.
var optionalSources = map[ParamSource]bool{
	SourceQuery:     true,
	SourceHeader:    true,
	SourceMatrix:    true,
	SourceForm:      true,
	SourceMultipart: true,
}

// paramType resolves a parameter's declared type string to a target type
// name. Resolution is a pure lookup: resolving the same type string twice in
// one run yields the same name.
func (c *Context) paramType(paramEl *wadl.Element) string {
	typ := paramEl.Attr("type")
	if typ == "" {
		return defaultTypeName
	}

	pair := strings.SplitN(typ, ":", 2)
	if len(pair) == 2 {
		if _, builtin := xsdTypeMap[pair[1]]; builtin {
			expanded := "{" + wadl.XSDNamespace + "}" + pair[1]
			if override, ok := c.opts.SchemaTypeMap[expanded]; ok {
				return rewriteGeneric(override)
			}
			return xsdTypeMap[pair[1]]
		}
		local := strings.NewReplacer("-", "", "_", "").Replace(pair[1])
		return c.refToTypeName(pair[0], local, defaultTypeName)
	}
	// A one-part form is an opaque, already-qualified type name.
	return rewriteGeneric(typ)
}

// refToTypeName maps a prefixed type reference onto a known generated type
// name: prefix → namespace → package, then a case-insensitive match against
// the run's type names, then the schema type override map.
func (c *Context) refToTypeName(prefix, local, fallback string) string {
	namespace, bound := c.info.NsMap[prefix]
	if bound || (prefix == "" && c.info.NoTargetNamespace) {
		pkg := c.packageForNamespace(namespace)
		typeName := c.schemaTypeName(pkg, local)
		if typeName == "" {
			typeName = c.opts.SchemaTypeMap["{"+namespace+"}"+local]
		}
		if typeName != "" {
			return rewriteGeneric(typeName)
		}
	}
	return fallback
}

// schemaTypeName finds the generated type name for an element or type local
// name within a package: direct case-insensitive match first, then through
// the grammar's element→type associations (including the underscore-stripped
// variant and a prefixed type's own namespace), then the explicit
// package-qualified redirection table.
func (c *Context) schemaTypeName(packageName, localName string) string {
	typeName := c.matchTypeName(packageName, localName)
	if typeName == "" {
		if prefixedType, ok := c.info.ElementTypeMap[localName]; ok {
			pair := strings.SplitN(prefixedType, ":", 2)
			elementTypeName := pair[len(pair)-1]
			typeName = c.matchTypeName(packageName, elementTypeName)
			if typeName == "" && strings.Contains(elementTypeName, "_") {
				typeName = c.matchTypeName(packageName, strings.ReplaceAll(elementTypeName, "_", ""))
			}
			if typeName == "" && len(pair) == 2 {
				if ns, ok := c.info.NsMap[pair[0]]; ok {
					typeName = c.matchTypeName(c.packageForNamespace(ns), elementTypeName)
				}
			}
		}
	}
	if typeName == "" && c.opts.TypeNameMap != nil {
		typeName = rewriteGeneric(c.opts.TypeNameMap[packageName+"."+localName])
	}
	return typeName
}

func (c *Context) matchTypeName(packageName, localName string) string {
	if localName == "" {
		return ""
	}
	want := strings.ToLower(packageName + "." + localName)
	for _, name := range c.typeNames {
		if strings.ToLower(name) == want {
			return name
		}
	}
	return ""
}

// rewriteGeneric turns the multi-segment generic marker "X..Y" into target
// generic syntax "X[Y]".
func rewriteGeneric(typeName string) string {
	if i := strings.LastIndex(typeName, ".."); i != -1 {
		return typeName[:i] + "[" + typeName[i+2:] + "]"
	}
	return typeName
}

// bindingType applies the joint required/repeating/source shape rules:
// repeating parameters become slices, optional value-typed parameters from
// query/header/matrix/form sources become pointers.
func bindingType(typeName string, source ParamSource, required, repeating bool) string {
	if repeating {
		return "[]" + typeName
	}
	if !required && optionalSources[source] {
		if boxed, ok := nullableTypeMap[typeName]; ok {
			return boxed
		}
	}
	return typeName
}

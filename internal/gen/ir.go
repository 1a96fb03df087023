// Package gen is the resolution-and-generation engine: it walks a WADL
// resource tree, resolves resource_type indirection and grammar type
// references, and produces an intermediate representation that the emitters
// turn into source files.
package gen

// ParamSource says where a method parameter is bound from.
type ParamSource string

const (
	SourcePath      ParamSource = "path"
	SourceHeader    ParamSource = "header"
	SourceQuery     ParamSource = "query"
	SourceMatrix    ParamSource = "matrix"
	SourceForm      ParamSource = "form"
	SourceMultipart ParamSource = "multipart"
)

// ParamBinding is one bound method parameter.
type ParamBinding struct {
	Source    ParamSource
	Name      string // as declared in the document
	GoName    string // sanitized identifier
	Type      string // Go type syntax; generated payload types keep their dotted package
	Required  bool
	Repeating bool
	Default   string
}

// MethodDescriptor is one generated method signature. A descriptor with an
// empty Verb is a sub-resource locator: a method returning another resource
// class rather than performing an HTTP operation.
type MethodDescriptor struct {
	Verb         string
	Name         string
	PathSuffix   string
	Consumes     []string
	Produces     []string
	Params       []ParamBinding
	Payload      *ParamBinding
	ResponseType string // empty means no return value
	Suspended    bool
}

// ResourceClass is one generated resource interface or implementation.
type ResourceClass struct {
	Name        string
	Package     string // dotted target package
	Path        string
	IsInterface bool
	Implements  string // interface name when this is an implementation artifact
	Methods     []MethodDescriptor
}

// EnumMember pairs a member identifier with its underlying literal.
type EnumMember struct {
	Ident   string
	Literal string
}

// EnumType is a string-backed enumeration derived from a parameter's option
// list.
type EnumType struct {
	Name    string
	Package string
	Members []EnumMember
}

// Unit is everything one generation run produced.
type Unit struct {
	Package     string // default package for resource classes
	Resources   []*ResourceClass
	Enums       []*EnumType
	TypeNames   []string // payload type names known to this run
	Diagnostics []string
}

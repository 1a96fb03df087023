package gen

import (
	"strings"

	"github.com/restgen/wadl2go/internal/wadl"
)

// Options configures a generation run. The zero value is not usable; call
// DefaultOptions and adjust.
type Options struct {
	// GenerateInterfaces emits resource interfaces; GenerateImpl emits
	// implementation stubs. With both set, the stub implements the interface.
	GenerateInterfaces bool
	GenerateImpl       bool

	// PackageName overrides the target package derived from the document.
	PackageName string
	// ResourceName names the single top-level resource class to generate;
	// remaining top-level resources are skipped.
	ResourceName string

	GenerateEnums         bool
	SkipSchemaGeneration  bool
	InheritResourceParams bool

	// UseVoidForEmptyResponses drops the return value for success responses
	// without representations. GenerateResponseIfHeadersSet forces a response
	// wrapper when the sole response declares header params.
	UseVoidForEmptyResponses     bool
	GenerateResponseIfHeadersSet bool

	// SupportMultipleReps emits one method per distinguishing request
	// representation instead of collapsing to a single document parameter.
	SupportMultipleReps bool

	// SchemaPackageMap maps schema namespace URIs to package names.
	SchemaPackageMap map[string]string
	// SchemaTypeMap maps expanded qualified names ("{ns}local") to type names.
	SchemaTypeMap map[string]string
	// TypeNameMap redirects "package.local" lookups to a concrete type name.
	TypeNameMap map[string]string
	// MediaTypeMap maps a media type to a dedicated payload type name.
	MediaTypeMap map[string]string

	// SuspendedAsyncMethods and ResponseMethods match methods by HTTP verb or
	// id; a single "*" entry matches every method.
	SuspendedAsyncMethods map[string]bool
	ResponseMethods       map[string]bool

	// WadlNamespace of the input documents.
	WadlNamespace string
}

// DefaultOptions mirrors the generator's stock behavior: interfaces only,
// empty success responses map to no return value.
func DefaultOptions() Options {
	return Options{
		GenerateInterfaces:       true,
		UseVoidForEmptyResponses: true,
		WadlNamespace:            wadl.Namespace,
	}
}

func (o *Options) wadlNS() string {
	if o.WadlNamespace == "" {
		return wadl.Namespace
	}
	return o.WadlNamespace
}

// methodMatched reports whether a method name set selects the method, by
// verb, by id, or via the "*" wildcard.
func methodMatched(names map[string]bool, verbLower, id string) bool {
	if len(names) == 0 {
		return false
	}
	if names[verbLower] {
		return true
	}
	if verbLower != id && names[strings.ToLower(id)] {
		return true
	}
	return len(names) == 1 && names["*"]
}

package goemitter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/restgen/wadl2go/internal/gen"
)

const generatedHeader = "// Code generated by wadl2go. DO NOT EDIT.\n\n"

// stdlibImports maps the package qualifiers the type resolver can produce to
// their import paths.
var stdlibImports = map[string]string{
	"big":       "math/big",
	"http":      "net/http",
	"io":        "io",
	"multipart": "mime/multipart",
	"time":      "time",
	"url":       "net/url",
	"xml":       "encoding/xml",
}

// renderer accumulates the imports a file needs while type references are
// being written out.
type renderer struct {
	module  string
	pkg     string // dotted package of the file being rendered
	imports map[string]bool
}

func newRenderer(module, pkg string) *renderer {
	return &renderer{module: module, pkg: pkg, imports: map[string]bool{}}
}

// typeRef renders a model type reference as Go source, registering whatever
// import it needs. Dotted packages other than the file's own are addressed by
// their last segment and imported below the module path.
func (r *renderer) typeRef(t string) string {
	switch {
	case t == "":
		return ""
	case strings.HasPrefix(t, "[]"):
		return "[]" + r.typeRef(t[2:])
	case strings.HasPrefix(t, "*"):
		return "*" + r.typeRef(t[1:])
	}
	if open := strings.Index(t, "["); open != -1 && strings.HasSuffix(t, "]") {
		return r.typeRef(t[:open]) + "[" + r.typeRef(t[open+1:len(t)-1]) + "]"
	}
	dot := strings.LastIndex(t, ".")
	if dot == -1 {
		return t
	}
	qual, local := t[:dot], t[dot+1:]
	if path, ok := stdlibImports[qual]; ok && !strings.Contains(qual, ".") {
		r.imports[path] = true
		return qual + "." + local
	}
	if qual == r.pkg {
		return local
	}
	r.imports[r.module+"/"+strings.ReplaceAll(qual, ".", "/")] = true
	return qual[strings.LastIndex(qual, ".")+1:] + "." + local
}

func (r *renderer) importBlock() string {
	if len(r.imports) == 0 {
		return ""
	}
	paths := make([]string, 0, len(r.imports))
	for p := range r.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	var b strings.Builder
	b.WriteString("import (\n")
	for _, p := range paths {
		fmt.Fprintf(&b, "\t%q\n", p)
	}
	b.WriteString(")\n\n")
	return b.String()
}

func packageClause(pkg string) string {
	return "package " + pkg[strings.LastIndex(pkg, ".")+1:] + "\n\n"
}

func packageDir(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "/")
}

// renderResourceClass renders one resource as an interface or an
// implementation stub, with the HTTP binding surfaced in doc comments.
func renderResourceClass(module string, cls *gen.ResourceClass) string {
	r := newRenderer(module, cls.Package)

	var body strings.Builder
	fmt.Fprintf(&body, "// %s covers the resource at %s.\n", cls.Name, pathOrRoot(cls.Path))
	if cls.IsInterface {
		fmt.Fprintf(&body, "type %s interface {\n", cls.Name)
		for _, md := range cls.Methods {
			writeMethodDoc(&body, "\t", cls, &md)
			fmt.Fprintf(&body, "\t%s%s\n", md.Name, r.signature(&md))
		}
		body.WriteString("}\n")
	} else {
		fmt.Fprintf(&body, "type %s struct{}\n\n", cls.Name)
		if cls.Implements != "" {
			fmt.Fprintf(&body, "var _ %s = (*%s)(nil)\n\n", cls.Implements, cls.Name)
		}
		for i, md := range cls.Methods {
			if i > 0 {
				body.WriteString("\n")
			}
			writeMethodDoc(&body, "", cls, &md)
			fmt.Fprintf(&body, "func (r *%s) %s%s {\n\tpanic(\"not implemented\")\n}\n", cls.Name, md.Name, r.signature(&md))
		}
	}

	var out strings.Builder
	out.WriteString(generatedHeader)
	out.WriteString(packageClause(cls.Package))
	out.WriteString(r.importBlock())
	out.WriteString(body.String())
	return out.String()
}

// signature renders the parameter list and return values of a method. A
// descriptor without a verb is a sub-resource accessor and returns the
// sub-resource directly; suspended methods take a response channel instead
// of returning one.
func (r *renderer) signature(md *gen.MethodDescriptor) string {
	var params []string
	for _, p := range md.Params {
		params = append(params, p.GoName+" "+r.typeRef(p.Type))
	}
	if md.Payload != nil {
		params = append(params, md.Payload.GoName+" "+r.typeRef(md.Payload.Type))
	}
	if md.Suspended {
		params = append(params, "async chan<- "+r.typeRef("*http.Response"))
	}
	sig := "(" + strings.Join(params, ", ") + ")"
	switch {
	case md.Verb == "":
		return sig + " " + r.typeRef(md.ResponseType)
	case md.Suspended || md.ResponseType == "":
		return sig + " error"
	default:
		return sig + " (" + r.typeRef(md.ResponseType) + ", error)"
	}
}

func writeMethodDoc(b *strings.Builder, indent string, cls *gen.ResourceClass, md *gen.MethodDescriptor) {
	if md.Verb == "" {
		fmt.Fprintf(b, "%s// %s locates the sub-resource at %s.\n", indent, md.Name, pathOrRoot(cls.Path+md.PathSuffix))
		return
	}
	fmt.Fprintf(b, "%s// %s handles %s %s.\n", indent, md.Name, md.Verb, pathOrRoot(cls.Path+md.PathSuffix))
	if len(md.Consumes) > 0 {
		fmt.Fprintf(b, "%s// Consumes: %s.\n", indent, strings.Join(md.Consumes, ", "))
	}
	if len(md.Produces) > 0 {
		fmt.Fprintf(b, "%s// Produces: %s.\n", indent, strings.Join(md.Produces, ", "))
	}
	for _, p := range md.Params {
		if p.Default == "" {
			continue
		}
		fmt.Fprintf(b, "%s// The %s param %q defaults to %q.\n", indent, p.Source, p.Name, p.Default)
	}
}

func pathOrRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

// renderEnum renders a string-backed constant set with a case-insensitive
// literal lookup.
func renderEnum(e *gen.EnumType) string {
	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString(packageClause(e.Package))
	b.WriteString("import (\n\t\"fmt\"\n\t\"strings\"\n)\n\n")

	fmt.Fprintf(&b, "// %s enumerates the accepted values of the %q parameter.\n", e.Name, strcase.ToSnake(e.Name))
	fmt.Fprintf(&b, "type %s string\n\n", e.Name)
	b.WriteString("const (\n")
	for _, m := range e.Members {
		fmt.Fprintf(&b, "\t%s%s %s = %q\n", e.Name, m.Ident, e.Name, m.Literal)
	}
	b.WriteString(")\n\n")

	fmt.Fprintf(&b, "// %sFromString matches a literal case-insensitively.\n", e.Name)
	fmt.Fprintf(&b, "func %sFromString(value string) (%s, error) {\n", e.Name, e.Name)
	fmt.Fprintf(&b, "\tfor _, v := range []%s{", e.Name)
	for i, m := range e.Members {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Name + m.Ident)
	}
	b.WriteString("} {\n")
	b.WriteString("\t\tif strings.EqualFold(string(v), value) {\n\t\t\treturn v, nil\n\t\t}\n\t}\n")
	fmt.Fprintf(&b, "\treturn \"\", fmt.Errorf(\"no enum value matches %%q\", value)\n}\n")
	return b.String()
}

// renderSchemaTypes renders the payload type declarations of one package.
// The stock schema compiler resolves names only, so the declarations are
// empty; a full schema compiler would populate the field layout.
func renderSchemaTypes(pkg string, locals []string) string {
	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString(packageClause(pkg))
	b.WriteString("// Payload types compiled from the grammar section.\n")
	for _, local := range locals {
		fmt.Fprintf(&b, "\ntype %s struct{}\n", local)
	}
	return b.String()
}

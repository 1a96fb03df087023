package grammar

import (
	"context"
	"fmt"
	"testing"

	"github.com/restgen/wadl2go/internal/wadl"
)

// mapLoader serves documents from memory, keyed by system id.
type mapLoader map[string]string

func (m mapLoader) Load(_ context.Context, href string) (*wadl.Application, error) {
	doc, ok := m[href]
	if !ok {
		return nil, fmt.Errorf("no document at %s", href)
	}
	root, err := wadl.ParseString(doc)
	if err != nil {
		return nil, err
	}
	return &wadl.Application{Root: root, Path: href}, nil
}

func parseApp(t *testing.T, doc, path string) *wadl.Application {
	t.Helper()
	root, err := wadl.ParseString(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return &wadl.Application{Root: root, Path: path}
}

func TestPackageForNamespace(t *testing.T) {
	t.Parallel()
	cases := []struct {
		ns, want string
	}{
		{"http://www.example.com/books", "com.example.books"},
		{"http://example.com/store/orders.xsd", "com.example.store.orders"},
		{"https://api.example.org", "org.example.api"},
		{"urn:acme:store", "acme.store"},
		{"http://example.com/2009/02", "com.example._2009._02"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := PackageForNamespace(tc.ns); got != tc.want {
			t.Errorf("PackageForNamespace(%q) = %q, want %q", tc.ns, got, tc.want)
		}
	}
}

func TestCollectSchemas_InlineAndIncluded(t *testing.T) {
	t.Parallel()
	app := parseApp(t, `<application xmlns="http://wadl.dev.java.net/2009/02"
            xmlns:xs="http://www.w3.org/2001/XMLSchema">
 <grammars>
  <xs:schema targetNamespace="http://www.example.com/books">
   <xs:element name="thebook" type="tns:book"/>
  </xs:schema>
  <include href="extra.xsd"/>
 </grammars>
 <resources base="/"/>
</application>`, "/specs/app.wadl")

	loader := mapLoader{
		"/specs/extra.xsd": `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
            targetNamespace="http://www.example.com/extra"/>`,
	}

	schemas, err := CollectSchemas(context.Background(), app, wadl.Namespace, loader)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(schemas) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(schemas))
	}
	if schemas[0].TargetNamespace != "http://www.example.com/books" {
		t.Errorf("inline target namespace: got %q", schemas[0].TargetNamespace)
	}
	if schemas[0].SystemID != "/specs/app.wadl" {
		t.Errorf("single inline fragment keeps the document system id, got %q", schemas[0].SystemID)
	}
	if schemas[1].SystemID != "/specs/extra.xsd" {
		t.Errorf("include resolved against the document base: got %q", schemas[1].SystemID)
	}
}

func TestCollectSchemas_RequiresSingleGrammars(t *testing.T) {
	t.Parallel()
	app := parseApp(t, `<application xmlns="http://wadl.dev.java.net/2009/02">
 <resources base="/"/>
</application>`, "")
	schemas, err := CollectSchemas(context.Background(), app, wadl.Namespace, nil)
	if err != nil || schemas != nil {
		t.Fatalf("expected no schemas and no error, got %v, %v", schemas, err)
	}
}

func TestBuild_ElementTypesAndBindings(t *testing.T) {
	t.Parallel()
	app := parseApp(t, `<application xmlns="http://wadl.dev.java.net/2009/02"
            xmlns:xs="http://www.w3.org/2001/XMLSchema"
            xmlns:prefix1="http://www.example.com/books">
 <grammars>
  <xs:schema targetNamespace="http://www.example.com/books">
   <xs:element name="thebook" type="prefix1:book"/>
   <xs:element name="nodecl"/>
  </xs:schema>
 </grammars>
 <resources base="/"/>
</application>`, "")

	schemas, err := CollectSchemas(context.Background(), app, wadl.Namespace, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	info, err := Build(context.Background(), app, schemas, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if info.NsMap["prefix1"] != "http://www.example.com/books" {
		t.Errorf("prefix binding missing: %v", info.NsMap)
	}
	if info.ElementTypeMap["thebook"] != "prefix1:book" {
		t.Errorf("element type association missing: %v", info.ElementTypeMap)
	}
	if _, ok := info.ElementTypeMap["nodecl"]; ok {
		t.Errorf("elements without a type attribute must not be recorded")
	}
	if info.NoTargetNamespace {
		t.Errorf("schema has a target namespace")
	}
}

func TestBuild_IncludeCycleTerminates(t *testing.T) {
	t.Parallel()
	app := parseApp(t, `<application xmlns="http://wadl.dev.java.net/2009/02"
            xmlns:xs="http://www.w3.org/2001/XMLSchema">
 <grammars>
  <include href="a.xsd"/>
 </grammars>
 <resources base="/"/>
</application>`, "/specs/app.wadl")

	loader := mapLoader{
		"/specs/a.xsd": `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="a" type="xs:string"/>
  <xs:include schemaLocation="b.xsd"/>
 </xs:schema>`,
		"/specs/b.xsd": `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="b" type="xs:string"/>
  <xs:include schemaLocation="a.xsd"/>
 </xs:schema>`,
	}

	schemas, err := CollectSchemas(context.Background(), app, wadl.Namespace, loader)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	info, err := Build(context.Background(), app, schemas, loader)
	if err != nil {
		t.Fatalf("build must terminate on cyclic includes: %v", err)
	}
	if info.ElementTypeMap["a"] != "xs:string" || info.ElementTypeMap["b"] != "xs:string" {
		t.Errorf("both fragments should contribute: %v", info.ElementTypeMap)
	}
}

func TestBuild_NoTargetNamespace(t *testing.T) {
	t.Parallel()
	app := parseApp(t, `<application xmlns="http://wadl.dev.java.net/2009/02"
            xmlns:xs="http://www.w3.org/2001/XMLSchema">
 <grammars>
  <xs:schema>
   <xs:element name="book" type="book"/>
  </xs:schema>
 </grammars>
 <resources base="/"/>
</application>`, "")

	schemas, err := CollectSchemas(context.Background(), app, wadl.Namespace, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	info, err := Build(context.Background(), app, schemas, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !info.NoTargetNamespace {
		t.Errorf("expected NoTargetNamespace for a single namespace-less schema")
	}
}

func TestDOMCompiler(t *testing.T) {
	t.Parallel()
	schemaRoot, err := wadl.ParseString(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"
        targetNamespace="http://www.example.com/books">
 <xs:element name="the-book" type="book"/>
 <xs:complexType name="book"/>
 <xs:simpleType name="access_mode"/>
</xs:schema>`)
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	junkRoot, err := wadl.ParseString(`<not-a-schema/>`)
	if err != nil {
		t.Fatalf("parse junk: %v", err)
	}

	compiler := &DOMCompiler{}
	res, err := compiler.Compile(context.Background(), []SchemaInfo{
		{Element: schemaRoot, SystemID: "a.xsd", TargetNamespace: "http://www.example.com/books"},
		{Element: junkRoot, SystemID: "junk.xml"},
	})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	want := map[string]bool{
		"com.example.books.TheBook":    true,
		"com.example.books.Book":       true,
		"com.example.books.AccessMode": true,
	}
	for _, name := range res.TypeNames {
		if !want[name] {
			t.Errorf("unexpected type name %q", name)
		}
		delete(want, name)
	}
	for name := range want {
		t.Errorf("missing type name %q", name)
	}
	if len(res.Diagnostics) != 1 {
		t.Errorf("expected one diagnostic for the non-schema fragment, got %v", res.Diagnostics)
	}
}

package gen

import (
	"testing"

	"github.com/restgen/wadl2go/internal/wadl"
)

func paramWithType(t *testing.T, typ string) *wadl.Element {
	t.Helper()
	el, err := wadl.ParseString(`<param xmlns="http://wadl.dev.java.net/2009/02" name="p" type="` + typ + `"/>`)
	if err != nil {
		t.Fatalf("parse param: %v", err)
	}
	return el
}

func emptyContext() *Context {
	return newContext(DefaultOptions(), nil, nil, nil)
}

func TestParamType_Builtins(t *testing.T) {
	t.Parallel()
	c := emptyContext()
	cases := map[string]string{
		"xs:string":          "string",
		"xs:int":             "int32",
		"xs:integer":         "int64",
		"xs:long":            "int64",
		"xs:short":           "int16",
		"xs:byte":            "int8",
		"xs:boolean":         "bool",
		"xs:float":           "float32",
		"xs:double":          "float64",
		"xs:decimal":         "*big.Float",
		"xs:positiveInteger": "*big.Int",
		"xs:unsignedInt":     "uint32",
		"xs:QName":           "xml.Name",
		"xs:duration":        "time.Duration",
		"xs:date":            "time.Time",
		"xs:dateTime":        "time.Time",
		"xs:anyURI":          "*url.URL",
		"xs:anyType":         "string",
	}
	for typ, want := range cases {
		if got := c.paramType(paramWithType(t, typ)); got != want {
			t.Errorf("paramType(%q) = %q, want %q", typ, got, want)
		}
	}
}

func TestParamType_DefaultsAndOverrides(t *testing.T) {
	t.Parallel()
	c := emptyContext()

	// No declared type falls back to the default.
	el, err := wadl.ParseString(`<param xmlns="http://wadl.dev.java.net/2009/02" name="p"/>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := c.paramType(el); got != "string" {
		t.Errorf("untyped param: got %q", got)
	}

	// Unresolvable prefixed references fall back to the default.
	if got := c.paramType(paramWithType(t, "tns:mystery")); got != "string" {
		t.Errorf("unresolvable reference: got %q", got)
	}

	// The expanded-name override table wins over the builtin mapping.
	c.opts.SchemaTypeMap = map[string]string{
		"{http://www.w3.org/2001/XMLSchema}date": "string",
	}
	if got := c.paramType(paramWithType(t, "xs:date")); got != "string" {
		t.Errorf("SchemaTypeMap override: got %q", got)
	}
}

func TestParamType_Deterministic(t *testing.T) {
	t.Parallel()
	c := emptyContext()
	c.addTypeName("com.example.books.Book")
	c.info.NsMap["b"] = "http://www.example.com/books"
	first := c.paramType(paramWithType(t, "b:book"))
	second := c.paramType(paramWithType(t, "b:book"))
	if first != second || first != "com.example.books.Book" {
		t.Errorf("resolution must be stable: %q then %q", first, second)
	}
}

func TestParamType_HyphensStrippedBeforeLookup(t *testing.T) {
	t.Parallel()
	c := emptyContext()
	c.addTypeName("com.example.books.TheBook")
	c.info.NsMap["b"] = "http://www.example.com/books"
	if got := c.paramType(paramWithType(t, "b:the-book")); got != "com.example.books.TheBook" {
		t.Errorf("hyphenated reference: got %q", got)
	}
}

func TestSchemaTypeName_ElementRedirection(t *testing.T) {
	t.Parallel()
	c := emptyContext()
	c.addTypeName("com.example.books.Book")
	c.info.ElementTypeMap["thebook"] = "tns:book"
	if got := c.schemaTypeName("com.example.books", "thebook"); got != "com.example.books.Book" {
		t.Errorf("element redirection: got %q", got)
	}

	// Underscored declared types match their stripped variant.
	c.info.ElementTypeMap["theentry"] = "the_entry"
	c.addTypeName("com.example.books.TheEntry")
	if got := c.schemaTypeName("com.example.books", "theentry"); got != "com.example.books.TheEntry" {
		t.Errorf("underscore variant: got %q", got)
	}
}

func TestSchemaTypeName_ExplicitRedirection(t *testing.T) {
	t.Parallel()
	c := emptyContext()
	c.opts.TypeNameMap = map[string]string{"com.example.books.chapter": "com.example.books.Section"}
	if got := c.schemaTypeName("com.example.books", "chapter"); got != "com.example.books.Section" {
		t.Errorf("TypeNameMap redirection: got %q", got)
	}
}

func TestRewriteGeneric(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Result..Book":  "Result[Book]",
		"a.b.List..Str": "a.b.List[Str]",
		"Plain":         "Plain",
	}
	for in, want := range cases {
		if got := rewriteGeneric(in); got != want {
			t.Errorf("rewriteGeneric(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBindingType(t *testing.T) {
	t.Parallel()
	cases := []struct {
		typeName  string
		source    ParamSource
		required  bool
		repeating bool
		want      string
	}{
		{"int32", SourceQuery, false, false, "*int32"},
		{"int32", SourceQuery, true, false, "int32"},
		{"int32", SourcePath, false, false, "int32"},
		{"bool", SourceHeader, false, false, "*bool"},
		{"string", SourceQuery, false, false, "string"},
		{"int32", SourceQuery, false, true, "[]int32"},
		{"string", SourceMatrix, false, true, "[]string"},
		{"float64", SourceForm, false, false, "*float64"},
	}
	for _, tc := range cases {
		got := bindingType(tc.typeName, tc.source, tc.required, tc.repeating)
		if got != tc.want {
			t.Errorf("bindingType(%q, %s, required=%v, repeating=%v) = %q, want %q",
				tc.typeName, tc.source, tc.required, tc.repeating, got, tc.want)
		}
	}
}

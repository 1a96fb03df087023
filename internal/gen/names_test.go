package gen

import "testing"

func TestResourceIdentifier(t *testing.T) {
	t.Parallel()
	cases := []struct {
		id, path, want string
	}{
		{"books", "/ignored", "books"},
		{"", "/bookstore/{id}", "BookstoreIdResource"},
		{"", "/book_store", "BookstoreResource"},
		{"", "", "Resource"},
	}
	for _, tc := range cases {
		if got := resourceIdentifier(tc.id, tc.path); got != tc.want {
			t.Errorf("resourceIdentifier(%q, %q) = %q, want %q", tc.id, tc.path, got, tc.want)
		}
	}
}

func TestClassName(t *testing.T) {
	t.Parallel()
	c := emptyContext()
	if got := c.className("books", true); got != "Books" {
		t.Errorf("interface name: got %q", got)
	}
	if got := c.className("books", false); got != "BooksImpl" {
		t.Errorf("impl name with interfaces on: got %q", got)
	}

	c.opts.GenerateInterfaces = false
	if got := c.className("books", false); got != "Books" {
		t.Errorf("impl name without interfaces: got %q", got)
	}
}

func TestClassName_PayloadCollision(t *testing.T) {
	t.Parallel()
	c := emptyContext()
	c.addTypeName("com.example.widgets.Widget")
	if got := c.className("widget", true); got != "WidgetResource" {
		t.Errorf("collision suffix: got %q", got)
	}
	if got := c.className("gadget", true); got != "Gadget" {
		t.Errorf("non-colliding name: got %q", got)
	}
}

func TestMethodName(t *testing.T) {
	t.Parallel()
	cases := []struct {
		verb, id, path, want string
	}{
		{"get", "getBook", "/books", "getBook"},
		{"get", "get", "/books/{id}", "getBooksId"},
		{"delete", "delete", "/books/{id:[0-9]+}", "deleteBooksId"},
		{"post", "add-book", "", "addbook"},
		{"get", "get", "", "get"},
	}
	for _, tc := range cases {
		if got := methodName(tc.verb, tc.id, tc.path); got != tc.want {
			t.Errorf("methodName(%q, %q, %q) = %q, want %q", tc.verb, tc.id, tc.path, got, tc.want)
		}
	}
}

func TestParamGoName(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"type":      "type_arg",
		"range":     "range_arg",
		"book-id":   "book_id",
		"x:lang":    "x_lang",
		"page.size": "page_size",
		"plainName": "plainName",
	}
	for in, want := range cases {
		if got := paramGoName(in); got != want {
			t.Errorf("paramGoName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEnumTypeName(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"access-mode": "AccessMode",
		"sort.order":  "SortOrder",
		"plain":       "Plain",
	}
	for in, want := range cases {
		if got := enumTypeName(in); got != want {
			t.Errorf("enumTypeName(%q) = %q, want %q", in, got, want)
		}
	}
}

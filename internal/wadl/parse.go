package wadl

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Parse reads an XML document into an Element tree. Character data is
// preserved only as trimmed text on the owning element; the generator never
// consumes mixed content.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	var root *Element
	var stack []*Element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DocError{Code: ParseError, Message: fmt.Sprintf("wadl: parse document: %v", err), Cause: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name, Attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				if root != nil {
					return nil, &DocError{Code: ParseError, Message: "wadl: multiple document elements"}
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				if text := strings.TrimSpace(string(t)); text != "" {
					stack[len(stack)-1].Text += text
				}
			}
		}
	}
	if root == nil {
		return nil, &DocError{Code: ParseError, Message: "wadl: empty document"}
	}
	return root, nil
}

// ParseString is a convenience wrapper over Parse.
func ParseString(doc string) (*Element, error) {
	return Parse(strings.NewReader(doc))
}

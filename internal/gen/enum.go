package gen

import (
	"fmt"
	"strings"

	"github.com/restgen/wadl2go/internal/wadl"
)

// buildEnum turns a parameter's option list into a string-backed enumeration:
// one member per option value, identifier derived by upper-casing the literal
// and replacing separator punctuation.
func buildEnum(name, pkg string, options []*wadl.Element) *EnumType {
	e := &EnumType{Name: enumTypeName(name), Package: pkg}
	seen := map[string]bool{}
	for _, opt := range options {
		value := opt.Attr("value")
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		e.Members = append(e.Members, EnumMember{
			Ident:   memberIdent(value),
			Literal: value,
		})
	}
	return e
}

func memberIdent(value string) string {
	return strings.NewReplacer(",", "_", "-", "_", ".", "_", " ", "_").Replace(strings.ToUpper(value))
}

// FromString performs the case-insensitive lookup the emitted enumeration
// carries: it matches against the underlying literal and fails when no
// member matches.
func (e *EnumType) FromString(value string) (EnumMember, error) {
	for _, m := range e.Members {
		if strings.EqualFold(m.Literal, value) {
			return m, nil
		}
	}
	return EnumMember{}, fmt.Errorf("%s: no enum constant for %q", e.Name, value)
}

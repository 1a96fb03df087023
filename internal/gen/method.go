package gen

import (
	"fmt"
	"strings"

	"github.com/restgen/wadl2go/internal/wadl"
)

// responseWrapper is the generic response type used when no payload type can
// be determined or a raw response is requested.
const responseWrapper = "*http.Response"

const formURLEncoded = "application/x-www-form-urlencoded"

// httpVerbs are the operations with a fixed verb mapping; anything else is
// carried through as a custom verb.
var httpVerbs = map[string]string{
	"get":     "GET",
	"put":     "PUT",
	"post":    "POST",
	"delete":  "DELETE",
	"head":    "HEAD",
	"options": "OPTIONS",
}

var resourceLevelStyles = map[string]bool{
	"template": true,
	"matrix":   true,
}

var paramStyleSources = map[string]ParamSource{
	"template": SourcePath,
	"header":   SourceHeader,
	"query":    SourceQuery,
	"matrix":   SourceMatrix,
}

// buildMethod appends the method descriptors for one operation (or one
// sub-resource locator, when methodEl is a resource element) to the class.
// parentID is the id of the resource enclosing methodEl; inherited carries
// the resource-level params active at this depth and is never mutated.
func (c *Context) buildMethod(app *wadl.Application, methodEl, resourceEl *wadl.Element, cls *ResourceClass, classRoot bool, currentPath, parentID string, inherited []*wadl.Element) error {
	root := app.Root
	isResourceElement := methodEl.Name.Local == "resource"

	responseEls := c.wadlElements(root, methodEl, "response")
	requestEls := c.wadlElements(root, methodEl, "request")
	var firstRequestEl *wadl.Element
	if len(requestEls) > 0 {
		firstRequestEl = requestEls[0]
	}
	allRequestReps := c.wadlElements(root, firstRequestEl, "representation")
	xmlReps := c.xmlReps(allRequestReps)

	verbLower := strings.ToLower(methodEl.Attr("name"))
	id := methodEl.Attr("id")
	if id == "" {
		id = verbLower
	}
	responseRequired := methodMatched(c.opts.ResponseMethods, verbLower, id)
	suspendedAsync := !responseRequired && methodMatched(c.opts.SuspendedAsyncMethods, verbLower, id)

	// Several distinguishing payload representations collapse to one method
	// with a generic document parameter unless multiple representations are
	// supported.
	docParamRequired := len(xmlReps) > 1 && !c.opts.SupportMultipleReps
	numMethods := len(xmlReps)
	if docParamRequired {
		numMethods = 1
	}

	for i := 0; i < numMethods; i++ {
		inXMLRep := xmlReps[i]

		suffix := ""
		if !docParamRequired && inXMLRep != nil && len(xmlReps) > 1 {
			value := inXMLRep.Attr("element")
			if idx := strings.Index(value, ":"); idx != -1 {
				value = value[idx+1:]
			}
			suffix = capitalize(strings.ReplaceAll(value, "-", ""))
		}

		md := MethodDescriptor{PathSuffix: currentPath, Suspended: suspendedAsync}

		if verbLower != "" {
			if verb, ok := httpVerbs[verbLower]; ok {
				md.Verb = verb
			} else {
				md.Verb = strings.ToUpper(verbLower)
			}
			md.Consumes = mediaTypes(allRequestReps)
			okResponse := c.selectSuccessResponse(responseEls)
			md.Produces = mediaTypes(c.wadlElements(root, okResponse, "representation"))
			md.ResponseType = c.responseType(root, responseEls, responseRequired, suspendedAsync)
			md.Name = capitalize(methodName(verbLower, id, currentPath)) + suffix
		} else {
			// Sub-resource locator: derive the return type from the child
			// resource's identifier.
			expanded := strings.HasPrefix(id, "{")
			pkgPart, local := splitResourceID(id, expanded)
			packageName := pkgPart
			if expanded {
				packageName = c.packageForNamespace(pkgPart)
			}
			clsFull := c.schemaTypeName(packageName, local)
			var localName, subNs string
			if clsFull == "" {
				localName = c.className(local, true)
				subNs = c.classPackageName(packageName)
			} else {
				subNs, localName = splitQualified(clsFull)
			}
			recursive := id == parentID
			if recursive || subNs == "" || subNs == cls.Package {
				md.ResponseType = localName
			} else {
				md.ResponseType = subNs + "." + localName
			}
			md.Name = "Get" + localName + suffix
		}

		isSubresourceMethod := !classRoot && !isResourceElement && resourceEl.Attr("id") != ""
		inParamEls := c.methodParameters(root, resourceEl, inherited, isSubresourceMethod)

		repElement := actualRepElement(allRequestReps, inXMLRep, c.opts.wadlNS())
		params, payload, err := c.requestBindings(root, firstRequestEl, repElement, inParamEls, docParamRequired, cls.Package)
		if err != nil {
			return err
		}
		md.Params = params
		md.Payload = payload

		cls.Methods = append(cls.Methods, md)
	}
	return nil
}

// methodParameters merges a resource's own declared params with the
// inherited ones. Resource-level (path/matrix) params are excluded in nested
// sub-resource-method contexts; inherited params already present by name are
// not duplicated. The caller's inherited slice is left untouched.
func (c *Context) methodParameters(root, resourceEl *wadl.Element, inherited []*wadl.Element, isSubresourceMethod bool) []*wadl.Element {
	var out []*wadl.Element
	for _, el := range c.wadlElements(root, resourceEl, "param") {
		if isSubresourceMethod && resourceLevelStyles[el.Attr("style")] {
			continue
		}
		out = append(out, el)
	}
	for _, inh := range inherited {
		duplicate := false
		for _, own := range out {
			if own.Attr("name") == inh.Attr("name") {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, inh)
		}
	}
	return out
}

// requestBindings classifies every parameter element into a binding and
// determines the payload parameter, honoring form/multipart promotion and
// the media-type override table.
func (c *Context) requestBindings(root, requestEl, repElement *wadl.Element, inParamEls []*wadl.Element, docParamRequired bool, classPackage string) ([]ParamBinding, *ParamBinding, error) {
	paramEls := append([]*wadl.Element(nil), inParamEls...)

	form := false
	multipart := false
	formParamsAvailable := false
	requestMediaType := ""
	if requestEl != nil {
		paramEls = append(paramEls, c.wadlElements(root, requestEl, "param")...)
		before := len(paramEls)
		repEls := c.wadlElements(root, requestEl, "representation")
		if len(repEls) == 1 {
			mt := repEls[0].Attr("mediaType")
			if mt == formURLEncoded || strings.HasPrefix(mt, "multipart/") {
				form = true
				multipart = strings.HasPrefix(mt, "multipart/")
				requestMediaType = mt
				if _, mapped := c.opts.MediaTypeMap[mt]; !mapped {
					paramEls = append(paramEls, c.wadlElements(root, repEls[0], "param")...)
				}
			}
		}
		formParamsAvailable = form && len(paramEls) > before
	}

	var bindings []ParamBinding
	for _, paramEl := range paramEls {
		style := paramEl.Attr("style")
		source, ok := paramStyleSources[style]
		if !ok {
			msg := fmt.Sprintf("gen: unsupported parameter style %q", style)
			if style == "plain" {
				msg += ", plain style parameters have to be wrapped by representations"
			}
			return nil, nil, fmt.Errorf("%s", msg)
		}
		if source == SourceQuery && formParamsAvailable {
			source = SourceForm
			if multipart {
				source = SourceMultipart
			}
		}

		name := paramEl.Attr("name")
		required := paramEl.Attr("required") == "true"
		repeating := paramEl.Attr("repeating") == "true"

		typeName := ""
		if c.opts.GenerateEnums {
			if options := paramEl.ChildrenNS(c.opts.wadlNS(), "option"); len(options) > 0 {
				e := buildEnum(name, classPackage, options)
				c.addEnum(e)
				typeName = e.Name
			}
		}
		if typeName == "" {
			typeName = c.paramType(paramEl)
		}

		bindings = append(bindings, ParamBinding{
			Source:    source,
			Name:      name,
			GoName:    paramGoName(name),
			Type:      bindingType(typeName, source, required, repeating),
			Required:  required,
			Repeating: repeating,
			Default:   paramEl.Attr("default"),
		})
	}

	var payload *ParamBinding
	switch {
	case !form && docParamRequired:
		payload = &ParamBinding{Name: "source", GoName: "source", Type: "io.Reader", Required: true}
	case !form:
		if typeName := c.elementRefName(root, repElement, false); typeName != "" {
			_, local := splitQualified(typeName)
			name := strings.ToLower(local)
			payload = &ParamBinding{Name: name, GoName: paramGoName(name), Type: typeName, Required: true}
		} else if repElement != nil {
			if param := repElement.FirstChildNS(c.opts.wadlNS(), "param"); param != nil {
				name := param.Attr("name")
				payload = &ParamBinding{Name: name, GoName: paramGoName(name), Type: c.paramType(param), Required: true}
			}
		}
	case !formParamsAvailable:
		if mapped, ok := c.opts.MediaTypeMap[requestMediaType]; ok {
			payload = &ParamBinding{Name: "body", GoName: "body", Type: rewriteGeneric(mapped), Required: true}
		} else if multipart {
			payload = &ParamBinding{Name: "body", GoName: "body", Type: "*multipart.Form", Required: true}
		} else {
			payload = &ParamBinding{Name: "form", GoName: "form", Type: "url.Values", Required: true}
		}
	}
	return bindings, payload, nil
}

// responseType picks the return type for a method: nothing for suspended
// operations, the canonical success representation's type when resolvable,
// the response wrapper otherwise.
func (c *Context) responseType(root *wadl.Element, responseEls []*wadl.Element, responseRequired, suspendedAsync bool) string {
	if suspendedAsync {
		return ""
	}
	okResponse := c.selectSuccessResponse(responseEls)
	var repElements []*wadl.Element
	if okResponse != nil {
		repElements = c.wadlElements(root, okResponse, "representation")
	}

	if !responseRequired && len(responseEls) == 1 && c.opts.GenerateResponseIfHeadersSet {
		if len(c.methodParameters(root, responseEls[0], nil, false)) > 0 {
			return responseWrapper
		}
	}
	if len(repElements) == 0 {
		if c.opts.UseVoidForEmptyResponses && !responseRequired {
			return ""
		}
		return responseWrapper
	}
	if responseRequired {
		return responseWrapper
	}
	rep := actualRepElement(repElements, c.xmlReps(repElements)[0], c.opts.wadlNS())
	if typeName := c.elementRefName(root, rep, true); typeName != "" {
		return typeName
	}
	return responseWrapper
}

// selectSuccessResponse picks the canonical success response: the first
// response without a status attribute, or the first whose status list names
// a 2xx success code.
func (c *Context) selectSuccessResponse(responseEls []*wadl.Element) *wadl.Element {
	for _, el := range responseEls {
		statusValue := el.Attr("status")
		if statusValue == "" {
			return el
		}
		for _, status := range strings.Fields(statusValue) {
			switch status {
			case "200", "201", "202", "203", "204":
				return el
			}
		}
	}
	return nil
}

// elementRefName resolves a representation's declared element (or, when
// checkPrimitive is set, its first declared primitive param) to a type name.
func (c *Context) elementRefName(root, repElement *wadl.Element, checkPrimitive bool) string {
	if repElement == nil {
		return ""
	}
	elementRef := repElement.Attr("element")
	if elementRef != "" {
		pair := strings.SplitN(elementRef, ":", 2)
		if len(pair) == 2 {
			return c.refToTypeName(pair[0], pair[1], "")
		}
		if c.info.NoTargetNamespace {
			return c.refToTypeName("", pair[0], "")
		}
		return ""
	}
	if mediaType := repElement.Attr("mediaType"); mediaType != "" {
		if mapped, ok := c.opts.MediaTypeMap[mediaType]; ok {
			return rewriteGeneric(mapped)
		}
	}
	if checkPrimitive {
		if param := repElement.FirstChildNS(c.opts.wadlNS(), "param"); param != nil {
			return c.paramType(param)
		}
	}
	return ""
}

// xmlReps filters the representations carrying a distinguishing payload
// element, deduplicated by element value. A slice holding a single nil means
// no representation distinguishes the payload.
func (c *Context) xmlReps(repElements []*wadl.Element) []*wadl.Element {
	values := map[string]bool{}
	var xmlReps []*wadl.Element
	for _, el := range repElements {
		value := el.Attr("element")
		if value != "" && (strings.Contains(value, ":") || c.info.NoTargetNamespace) && !values[value] {
			xmlReps = append(xmlReps, el)
			values[value] = true
		}
	}
	if len(xmlReps) == 0 {
		xmlReps = append(xmlReps, nil)
	}
	return xmlReps
}

// actualRepElement picks the representation describing the payload: the
// distinguishing XML one when present, else the first carrying a param
// child, else the first.
func actualRepElement(repElements []*wadl.Element, xmlRep *wadl.Element, ns string) *wadl.Element {
	if xmlRep != nil {
		return xmlRep
	}
	for _, el := range repElements {
		if el.FirstChildNS(ns, "param") != nil {
			return el
		}
	}
	if len(repElements) == 0 {
		return nil
	}
	return repElements[0]
}

func mediaTypes(repElements []*wadl.Element) []string {
	var out []string
	for _, el := range repElements {
		mt := el.Attr("mediaType")
		if mt == "" {
			continue
		}
		seen := false
		for _, existing := range out {
			if existing == mt {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, mt)
		}
	}
	return out
}

func splitResourceID(id string, expanded bool) (pkg, local string) {
	if expanded {
		if end := strings.Index(id, "}"); end != -1 {
			return id[1:end], id[end+1:]
		}
		return "", id
	}
	return splitQualified(id)
}

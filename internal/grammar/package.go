package grammar

import (
	"net/url"
	"strings"
)

// PackageForNamespace derives a dotted package name from a schema namespace
// URI: host labels reversed (minus any leading "www") followed by the path
// segments, each lowercased and sanitized. A urn namespace uses its colon
// separated parts directly. The derivation is deterministic so the same
// namespace always lands in the same package.
//
//	http://www.example.com/books -> com.example.books
//	urn:acme:store               -> acme.store
func PackageForNamespace(ns string) string {
	ns = strings.TrimSpace(ns)
	if ns == "" {
		return ""
	}

	var segments []string
	u, err := url.Parse(ns)
	if err == nil && u.Host != "" {
		labels := strings.Split(u.Hostname(), ".")
		if len(labels) > 1 && labels[0] == "www" {
			labels = labels[1:]
		}
		for i := len(labels) - 1; i >= 0; i-- {
			segments = append(segments, labels[i])
		}
		for _, seg := range strings.Split(u.Path, "/") {
			if seg != "" {
				segments = append(segments, trimExtension(seg))
			}
		}
	} else if err == nil && u.Scheme == "urn" {
		for _, seg := range strings.Split(u.Opaque, ":") {
			if seg != "" {
				segments = append(segments, seg)
			}
		}
	} else {
		for _, seg := range strings.Split(ns, "/") {
			if seg != "" && !strings.Contains(seg, ":") {
				segments = append(segments, seg)
			}
		}
	}

	cleaned := make([]string, 0, len(segments))
	for _, seg := range segments {
		if s := sanitizeSegment(seg); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return strings.Join(cleaned, ".")
}

func trimExtension(seg string) string {
	if i := strings.LastIndex(seg, "."); i > 0 {
		switch seg[i+1:] {
		case "xsd", "wadl", "xml":
			return seg[:i]
		}
	}
	return seg
}

func sanitizeSegment(seg string) string {
	seg = strings.ToLower(seg)
	var b strings.Builder
	for _, r := range seg {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return ""
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	return out
}

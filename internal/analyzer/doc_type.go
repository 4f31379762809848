package analyzer

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	returnTagPattern = regexp.MustCompile(`@return\s`)
	paramTagPattern  = regexp.MustCompile(`@param\s`)

	collectionDocPattern = regexp.MustCompile(`(?i)^\\?(array|list|iterable)<(.+)>$`)
	generatorDocPattern  = regexp.MustCompile(`(?i)^\\?Generator<(.+)>$`)
)

// DocTypes holds the type annotations declared in one doc comment
type DocTypes struct {
	Return string
	Params map[string]string
}

// ParseDocComment reads the @return type and the @param types keyed by
// parameter name (without $). A missing doc comment yields empty types.
func ParseDocComment(doc string) DocTypes {
	types := DocTypes{Params: map[string]string{}}
	if doc == "" {
		return types
	}

	if loc := returnTagPattern.FindStringIndex(doc); loc != nil {
		types.Return, _ = readTypeToken(doc[loc[1]:])
	}

	for _, loc := range paramTagPattern.FindAllStringIndex(doc, -1) {
		token, rest := readTypeToken(doc[loc[1]:])
		if token == "" {
			continue
		}
		name := readParamName(rest)
		if name == "" {
			continue
		}
		if _, exists := types.Params[name]; !exists {
			types.Params[name] = token
		}
	}

	return types
}

// Param returns the declared doc type of a parameter
func (d DocTypes) Param(name string) (string, bool) {
	t, ok := d.Params[name]
	return t, ok && t != ""
}

// readTypeToken reads one type expression, keeping whitespace that sits
// inside generic brackets so "array<int, Foo>" is one token.
func readTypeToken(s string) (string, string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	depth := 0
	for i, r := range s {
		switch r {
		case '<', '{', '(', '[':
			depth++
		case '>', '}', ')', ']':
			if depth > 0 {
				depth--
			}
		case '$':
			if depth == 0 && i > 0 {
				return strings.TrimSpace(s[:i]), s[i:]
			}
		default:
			if depth == 0 && unicode.IsSpace(r) {
				return s[:i], s[i:]
			}
			if depth > 0 && (r == '\n' || r == '\r') {
				return strings.TrimSpace(s[:i]), s[i:]
			}
		}
	}
	return strings.TrimRight(s, "*/ \t"), ""
}

// readParamName reads the "$name" following a @param type, accepting
// variadic and by-reference markers.
func readParamName(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	s = strings.TrimPrefix(s, "&")
	s = strings.TrimPrefix(s, "...")
	if !strings.HasPrefix(s, "$") {
		return ""
	}
	s = s[1:]

	end := strings.IndexFunc(s, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	if end < 0 {
		return s
	}
	return s[:end]
}

// LeadingAlternative returns the first top-level "|" alternative of a doc
// type, trimmed.
func LeadingAlternative(docType string) string {
	parts := splitTopLevel(strings.TrimSpace(docType), '|')
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// CollectionElementType resolves the element type of a collection doc type:
// T[] gives T, array<T> gives T and array<K, V> gives V. list and iterable
// are accepted in place of array.
func CollectionElementType(docType string) (string, bool) {
	t := LeadingAlternative(docType)
	if t == "" {
		return "", false
	}

	if strings.HasSuffix(t, "[]") {
		elem := strings.TrimSpace(strings.TrimSuffix(t, "[]"))
		return elem, elem != ""
	}

	m := collectionDocPattern.FindStringSubmatch(t)
	if m == nil {
		return "", false
	}
	params := splitTopLevel(m[2], ',')
	switch len(params) {
	case 1:
		return params[0], params[0] != ""
	case 2:
		return params[1], params[1] != ""
	}
	return "", false
}

// GeneratorElementType resolves the yield type of Generator<T> or
// Generator<K, V, ...>: one parameter gives T, more give the second.
func GeneratorElementType(docType string) (string, bool) {
	t := LeadingAlternative(docType)
	if t == "" {
		return "", false
	}

	m := generatorDocPattern.FindStringSubmatch(t)
	if m == nil {
		return "", false
	}
	params := splitTopLevel(m[1], ',')
	switch {
	case len(params) == 1:
		return params[0], params[0] != ""
	case len(params) >= 2:
		return params[1], params[1] != ""
	}
	return "", false
}

// splitTopLevel splits s on sep where the angle, brace and paren depth is
// zero. Parts are trimmed; empty parts are kept so arity stays visible.
func splitTopLevel(s string, sep rune) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '<', '{', '(', '[':
			depth++
		case '>', '}', ')', ']':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + len(string(sep))
			}
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

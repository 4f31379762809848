package analyzer

import (
	"strings"

	"github.com/ludo-technologies/dddscan/domain"
)

// DefaultStandardNames returns the built-in and foundational type names that
// resolve to themselves regardless of namespace or imports.
func DefaultStandardNames() []string {
	return []string{
		"null", "bool", "int", "float", "class-string", "string", "array",
		"object", "callable", "resource", "mixed", "self", "static", "parent",
		"void", "never", "iterable", "list", "false", "true",
		"DateTimeImmutable", "DateTime", "Throwable", "Stringable",
		"array<string,mixed>", "array<string,string>", "float|int",
		"string|Stringable", domain.UnknownExceptionName,
	}
}

// TypeResolver maps type references to canonical node identities
type TypeResolver struct {
	standard map[string]struct{}
}

// NewTypeResolver creates a resolver over a fixed set of standard names.
// A nil set falls back to DefaultStandardNames.
func NewTypeResolver(standardNames []string) *TypeResolver {
	if standardNames == nil {
		standardNames = DefaultStandardNames()
	}
	standard := make(map[string]struct{}, len(standardNames))
	for _, name := range standardNames {
		standard[name] = struct{}{}
	}
	return &TypeResolver{standard: standard}
}

// IsStandard reports whether name is one of the standard names. Scalar
// keywords match in any letter case.
func (r *TypeResolver) IsStandard(name string) bool {
	if _, ok := r.standard[name]; ok {
		return true
	}
	_, ok := r.standard[strings.ToLower(name)]
	return ok
}

// Resolve returns the canonical identity of ref as seen from item.
//
// Names the import table cannot explain are assumed to live in the
// namespace of the referencing class. That guess is wrong for names only
// reachable through a chain of re-exports and is kept as is.
func (r *TypeResolver) Resolve(item *domain.SourceItem, ref domain.TypeReference) domain.NodeID {
	raw := ref.RawName

	if r.IsStandard(raw) {
		return domain.NodeID(raw)
	}

	if ref.Qualification == domain.QualificationFullyQualified {
		return domain.NodeID(raw)
	}

	if item == nil {
		return domain.NodeID(raw)
	}

	if imp, ok := item.LookupImport(raw); ok {
		return imp.FQN
	}

	if ref.Qualification == domain.QualificationRelative {
		return qualify(item.Namespace, raw)
	}

	if ref.Qualification == domain.QualificationQualified {
		first, rest, _ := strings.Cut(raw, domain.NamespaceSeparator)
		if imp, ok := item.LookupImport(first); ok {
			return domain.NodeID(string(imp.FQN) + domain.NamespaceSeparator + rest)
		}
	}

	return qualify(item.Namespace, raw)
}

func qualify(namespace, name string) domain.NodeID {
	if namespace == "" {
		return domain.NodeID(name)
	}
	return domain.NodeID(namespace + domain.NamespaceSeparator + name)
}

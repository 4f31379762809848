package domain

// DeclarationKind is the kind of class-like declaration a file holds
type DeclarationKind string

const (
	DeclarationClass     DeclarationKind = "class"
	DeclarationInterface DeclarationKind = "interface"
	DeclarationEnum      DeclarationKind = "enum"
	DeclarationTrait     DeclarationKind = "trait"
)

// Import is one imported class name and the alias it is visible under
type Import struct {
	Alias string `json:"alias" yaml:"alias"`
	FQN   NodeID `json:"fqn" yaml:"fqn"`
}

// SourceItem is the structural model of one class-like declaration.
// It is filled by a single traversal and read-only afterwards.
type SourceItem struct {
	FQN              NodeID            `json:"fqn" yaml:"fqn"`
	Kind             DeclarationKind   `json:"kind" yaml:"kind"`
	File             string            `json:"file,omitempty" yaml:"file,omitempty"`
	Namespace        string            `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Imports          []Import          `json:"imports,omitempty" yaml:"imports,omitempty"`
	Implements       []TypeReference   `json:"implements,omitempty" yaml:"implements,omitempty"`
	Extends          *TypeReference    `json:"extends,omitempty" yaml:"extends,omitempty"`
	ParentInterfaces []TypeReference   `json:"parent_interfaces,omitempty" yaml:"parent_interfaces,omitempty"`
	Attributes       []TypeReference   `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Abstract         bool              `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Final            bool              `json:"final,omitempty" yaml:"final,omitempty"`
	Methods          []MethodSignature `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// HasNamespace reports whether the item was declared inside a namespace
func (s *SourceItem) HasNamespace() bool {
	return s.Namespace != ""
}

// LookupImport returns the import visible under alias
func (s *SourceItem) LookupImport(alias string) (Import, bool) {
	for _, imp := range s.Imports {
		if imp.Alias == alias {
			return imp, true
		}
	}
	return Import{}, false
}

package domain

// Argument is one declared method parameter
type Argument struct {
	Name         string        `json:"name" yaml:"name"`
	Type         TypeReference `json:"type" yaml:"type"`
	Nullable     bool          `json:"nullable" yaml:"nullable"`
	IsCollection bool          `json:"is_collection" yaml:"is_collection"`
}

// ReturnKindTag enumerates the return type variants
type ReturnKindTag string

const (
	ReturnVoid         ReturnKindTag = "void"
	ReturnUnknown      ReturnKindTag = "unknown"
	ReturnRegular      ReturnKindTag = "regular"
	ReturnNullable     ReturnKindTag = "nullable"
	ReturnCollection   ReturnKindTag = "collection"
	ReturnGenerator    ReturnKindTag = "generator"
	ReturnUnion        ReturnKindTag = "union"
	ReturnIntersection ReturnKindTag = "intersection"
)

// ReturnKind is the resolved return type of a method. Type is set for the
// Regular, Nullable, Collection and Generator variants only.
type ReturnKind struct {
	Kind ReturnKindTag  `json:"kind" yaml:"kind"`
	Type *TypeReference `json:"type,omitempty" yaml:"type,omitempty"`
}

func VoidReturn() ReturnKind    { return ReturnKind{Kind: ReturnVoid} }
func UnknownReturn() ReturnKind { return ReturnKind{Kind: ReturnUnknown} }

func RegularReturn(ref TypeReference) ReturnKind    { return ReturnKind{Kind: ReturnRegular, Type: &ref} }
func NullableReturn(ref TypeReference) ReturnKind   { return ReturnKind{Kind: ReturnNullable, Type: &ref} }
func CollectionReturn(ref TypeReference) ReturnKind { return ReturnKind{Kind: ReturnCollection, Type: &ref} }
func GeneratorReturn(ref TypeReference) ReturnKind  { return ReturnKind{Kind: ReturnGenerator, Type: &ref} }

// CanBeIgnored reports whether the return contributes no produces edge:
// void, unknown, variants without an inner type, and self returns.
func (r ReturnKind) CanBeIgnored() bool {
	if r.Type == nil {
		return true
	}
	switch r.Type.RawName {
	case "", "self", "void", "unknown":
		return true
	}
	return false
}

// MethodSignature is the extracted shape of one method
type MethodSignature struct {
	Owner     NodeID          `json:"owner" yaml:"owner"`
	Name      string          `json:"name" yaml:"name"`
	Arguments []Argument      `json:"arguments" yaml:"arguments"`
	Return    ReturnKind      `json:"return" yaml:"return"`
	IsStatic  bool            `json:"is_static" yaml:"is_static"`
	Throws    []TypeReference `json:"throws,omitempty" yaml:"throws,omitempty"`
}

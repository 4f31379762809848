package analyzer

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/dddscan/domain"
	"github.com/ludo-technologies/dddscan/internal/parser"
)

// SourceItemBuilder collects the structural model of one file during a
// single traversal. A builder belongs to one file and is not safe for
// concurrent use.
type SourceItemBuilder struct {
	file         string
	namespace    string
	hasNamespace bool
	imports      []domain.Import
	item         *domain.SourceItem
	declaration  *parser.Node
	err          error
}

// NewSourceItemBuilder creates a builder for the given file
func NewSourceItemBuilder(file string) *SourceItemBuilder {
	return &SourceItemBuilder{file: file}
}

// ExtractSourceItem traverses a parsed file and returns its source item.
// A file without a class-like declaration yields nil and no error.
func ExtractSourceItem(ast *parser.Node, file string) (*domain.SourceItem, error) {
	builder := NewSourceItemBuilder(file)
	ast.Walk(builder.Visit)
	return builder.Build()
}

// Visit is the collect step driven by parser.Node.Walk. It returns false
// for subtrees that hold nothing more to collect.
func (b *SourceItemBuilder) Visit(node *parser.Node) bool {
	if b.err != nil {
		return false
	}

	switch node.Type {
	case parser.NodeProgram:
		return true
	case parser.NodeNamespace:
		b.visitNamespace(node)
		return true
	case parser.NodeUse:
		return node.Kind == ""
	case parser.NodeUseClause:
		b.visitImport(node)
		return false
	case parser.NodeClass, parser.NodeInterface, parser.NodeEnum, parser.NodeTrait:
		b.visitDeclaration(node)
		return false
	default:
		// statements outside declarations hold no structure
		return false
	}
}

// Build finalizes the traversal. The returned item is not modified again.
func (b *SourceItemBuilder) Build() (*domain.SourceItem, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.item == nil {
		return nil, nil
	}

	item := b.item
	item.Namespace = b.namespace
	item.Imports = b.imports
	b.item = nil
	return item, nil
}

func (b *SourceItemBuilder) visitNamespace(node *parser.Node) {
	if b.hasNamespace {
		b.err = domain.NewStructureError(fmt.Sprintf("%s declares more than one namespace (%s, %s)", b.file, b.namespace, node.Name))
		return
	}
	b.hasNamespace = true
	b.namespace = strings.Trim(node.Name, domain.NamespaceSeparator)
}

func (b *SourceItemBuilder) visitImport(node *parser.Node) {
	if node.Kind != "" || node.Name == "" {
		return
	}

	fqn := strings.TrimLeft(node.Name, domain.NamespaceSeparator)
	alias := node.Alias
	if alias == "" {
		alias = domain.NodeID(fqn).ShortName()
	}
	b.imports = append(b.imports, domain.Import{Alias: alias, FQN: domain.NodeID(fqn)})
}

func (b *SourceItemBuilder) visitDeclaration(node *parser.Node) {
	if b.declaration != nil {
		b.err = domain.NewStructureError(fmt.Sprintf("%s declares more than one class-like type (%s, %s)",
			b.file, b.declaration.Name, node.Name))
		return
	}
	b.declaration = node

	fqn := domain.NodeID(node.Name)
	if b.namespace != "" {
		fqn = domain.NodeID(b.namespace + domain.NamespaceSeparator + node.Name)
	}

	item := &domain.SourceItem{
		FQN:      fqn,
		Kind:     declarationKind(node.Type),
		File:     b.file,
		Abstract: node.Abstract,
		Final:    node.Final,
	}

	for _, attr := range node.Attributes {
		if attr.Name != "" {
			item.Attributes = append(item.Attributes, domain.NewTypeReference(attr.Name))
		}
	}

	switch item.Kind {
	case domain.DeclarationInterface:
		for _, parent := range node.Extends {
			item.ParentInterfaces = append(item.ParentInterfaces, domain.NewTypeReference(parent.Name))
		}
	default:
		if len(node.Extends) > 0 {
			ref := domain.NewTypeReference(node.Extends[0].Name)
			item.Extends = &ref
		}
		for _, iface := range node.Implements {
			item.Implements = append(item.Implements, domain.NewTypeReference(iface.Name))
		}
	}

	for _, member := range node.Body {
		if member.Type != parser.NodeMethod {
			continue
		}
		method, err := buildMethod(fqn, member)
		if err != nil {
			b.err = err
			return
		}
		item.Methods = append(item.Methods, method)
	}

	b.item = item
}

func declarationKind(t parser.NodeType) domain.DeclarationKind {
	switch t {
	case parser.NodeInterface:
		return domain.DeclarationInterface
	case parser.NodeEnum:
		return domain.DeclarationEnum
	case parser.NodeTrait:
		return domain.DeclarationTrait
	default:
		return domain.DeclarationClass
	}
}

func buildMethod(owner domain.NodeID, node *parser.Node) (domain.MethodSignature, error) {
	doc := ParseDocComment(node.DocComment)

	method := domain.MethodSignature{
		Owner:    owner,
		Name:     node.Name,
		IsStatic: node.Static,
	}

	for _, param := range node.Params {
		arg, err := buildArgument(param, doc)
		if err != nil {
			return domain.MethodSignature{}, domain.NewStructureError(
				fmt.Sprintf("%s::%s(): %s", owner, node.Name, err.Error()))
		}
		method.Arguments = append(method.Arguments, arg)
	}

	method.Return = buildReturn(node.TypeAnnotation, doc)
	method.Throws = collectThrows(node.Body)

	return method, nil
}

func buildArgument(param *parser.Node, doc DocTypes) (domain.Argument, error) {
	if param.TypeAnnotation == nil {
		return domain.Argument{}, fmt.Errorf("parameter $%s has no declared type", param.Name)
	}

	typeNode, nullable := unwrapNullable(param.TypeAnnotation)
	arg := domain.Argument{
		Name:     param.Name,
		Nullable: nullable,
	}

	name := typeText(typeNode)
	if isCollectionMarker(name) {
		arg.IsCollection = true
		if docType, ok := doc.Param(param.Name); ok {
			if elem, ok := CollectionElementType(docType); ok {
				name = elem
			}
		}
	}

	switch typeNode.Type {
	case parser.NodeUnionType, parser.NodeIntersectionType:
		arg.Type = domain.TypeReference{RawName: name, Qualification: domain.QualificationUnknown}
	default:
		arg.Type = domain.NewTypeReference(name)
	}
	return arg, nil
}

// buildReturn applies the return precedence: doc types stand in for a
// missing declaration or a bare collection marker, unions degrade to
// unknown.
func buildReturn(declared *parser.Node, doc DocTypes) domain.ReturnKind {
	if declared == nil {
		if doc.Return == "" {
			return domain.VoidReturn()
		}
		if ret, ok := docElementReturn(doc.Return); ok {
			return ret
		}
		return domain.RegularReturn(docTypeReference(LeadingAlternative(doc.Return)))
	}

	typeNode, nullable := unwrapNullable(declared)

	switch typeNode.Type {
	case parser.NodeUnionType, parser.NodeIntersectionType:
		return domain.UnknownReturn()
	}

	name := typeText(typeNode)
	switch strings.ToLower(name) {
	case "void", "never":
		return domain.VoidReturn()
	}

	if isCollectionMarker(name) || isGeneratorMarker(name) {
		if doc.Return != "" {
			if ret, ok := docElementReturn(doc.Return); ok {
				return ret
			}
		}
		return domain.UnknownReturn()
	}

	if nullable {
		return domain.NullableReturn(domain.NewTypeReference(name))
	}
	return domain.RegularReturn(domain.NewTypeReference(name))
}

func docElementReturn(docType string) (domain.ReturnKind, bool) {
	if elem, ok := CollectionElementType(docType); ok {
		return domain.CollectionReturn(docTypeReference(elem)), true
	}
	if elem, ok := GeneratorElementType(docType); ok {
		return domain.GeneratorReturn(docTypeReference(elem)), true
	}
	return domain.ReturnKind{}, false
}

func docTypeReference(name string) domain.TypeReference {
	if name == "$this" {
		name = "self"
	}
	return domain.NewTypeReference(name)
}

// unwrapNullable strips ?T and T|null down to T
func unwrapNullable(t *parser.Node) (*parser.Node, bool) {
	switch t.Type {
	case parser.NodeNullableType:
		if t.Argument != nil {
			return t.Argument, true
		}
	case parser.NodeUnionType:
		var rest []*parser.Node
		hasNull := false
		for _, member := range t.Types {
			if member.Type == parser.NodePrimitiveType && strings.EqualFold(member.Name, "null") {
				hasNull = true
				continue
			}
			rest = append(rest, member)
		}
		if hasNull && len(rest) == 1 {
			return rest[0], true
		}
	}
	return t, false
}

// typeText renders a type node as written, joining union members with "|"
// and intersection members with "&".
func typeText(t *parser.Node) string {
	switch t.Type {
	case parser.NodeNullableType:
		if t.Argument != nil {
			return "?" + typeText(t.Argument)
		}
	case parser.NodeUnionType, parser.NodeIntersectionType:
		sep := "|"
		if t.Type == parser.NodeIntersectionType {
			sep = "&"
		}
		parts := make([]string, 0, len(t.Types))
		for _, member := range t.Types {
			parts = append(parts, typeText(member))
		}
		return strings.Join(parts, sep)
	}
	return t.Name
}

func isCollectionMarker(name string) bool {
	switch strings.ToLower(strings.TrimLeft(name, domain.NamespaceSeparator)) {
	case "array", "iterable", "list":
		return true
	}
	return false
}

func isGeneratorMarker(name string) bool {
	return strings.EqualFold(strings.TrimLeft(name, domain.NamespaceSeparator), "Generator")
}

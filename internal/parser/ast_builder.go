package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder builds our internal AST from tree-sitter CST
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds the AST from a tree-sitter node
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	return b.buildNode(tsNode)
}

// buildNode converts a tree-sitter node to our internal AST node
func (b *ASTBuilder) buildNode(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	switch tsNode.Type() {
	case "program":
		return b.buildProgram(tsNode)
	case "namespace_definition":
		return b.buildNamespace(tsNode)
	case "namespace_use_declaration":
		return b.buildUseDeclaration(tsNode)
	case "class_declaration":
		return b.buildClassLike(tsNode, NodeClass)
	case "interface_declaration":
		return b.buildClassLike(tsNode, NodeInterface)
	case "enum_declaration":
		return b.buildClassLike(tsNode, NodeEnum)
	case "trait_declaration":
		return b.buildClassLike(tsNode, NodeTrait)
	case "method_declaration":
		return b.buildFunctionLike(tsNode, NodeMethod)
	case "function_definition":
		return b.buildFunctionLike(tsNode, NodeFunction)
	case "anonymous_function", "anonymous_function_creation_expression", "arrow_function":
		return b.buildFunctionLike(tsNode, NodeClosure)
	case "compound_statement":
		return b.buildBlock(tsNode)
	case "throw_expression", "throw_statement":
		return b.buildThrow(tsNode)
	case "object_creation_expression":
		return b.buildNew(tsNode)
	case "scoped_call_expression":
		return b.buildStaticCall(tsNode)
	case "member_call_expression", "nullsafe_member_call_expression":
		return b.buildMethodCall(tsNode)
	case "function_call_expression":
		return b.buildTypedGeneric(tsNode, NodeFunctionCall)
	case "conditional_expression":
		return b.buildTypedGeneric(tsNode, NodeConditionalExpression)
	case "expression_statement":
		return b.buildTypedGeneric(tsNode, NodeExpressionStatement)
	case "return_statement":
		return b.buildTypedGeneric(tsNode, NodeReturn)
	case "parenthesized_expression":
		if inner := b.firstNamedChild(tsNode); inner != nil {
			return b.buildNode(inner)
		}
		return b.buildGenericNode(tsNode)
	case "variable_name":
		return b.buildVariable(tsNode)
	case "name", "qualified_name", "relative_scope", "namespace_name":
		return b.buildName(tsNode)
	case "named_type", "primitive_type", "optional_type", "union_type",
		"intersection_type", "bottom_type", "disjunctive_normal_form_type":
		return b.buildType(tsNode)
	default:
		// For unknown nodes, create a generic node and process children
		return b.buildGenericNode(tsNode)
	}
}

// buildProgram builds a program node
func (b *ASTBuilder) buildProgram(tsNode *sitter.Node) *Node {
	node := NewNode(NodeProgram)
	node.Location = b.getLocation(tsNode)

	for _, stmt := range b.buildStatements(tsNode) {
		stmt.Parent = node
		node.Body = append(node.Body, stmt)
	}

	return node
}

// buildNamespace builds a namespace definition; the braced form carries its
// statements in Body
func (b *ASTBuilder) buildNamespace(tsNode *sitter.Node) *Node {
	node := NewNode(NodeNamespace)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		switch child.Type() {
		case "namespace_name":
			node.Name = b.text(child)
		case "compound_statement":
			node.Body = b.buildStatements(child)
		}
	}

	return node
}

// buildUseDeclaration builds a use statement with one clause per imported name
func (b *ASTBuilder) buildUseDeclaration(tsNode *sitter.Node) *Node {
	node := NewNode(NodeUse)
	node.Location = b.getLocation(tsNode)

	prefix := ""
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		switch child.Type() {
		case "function", "const":
			node.Kind = child.Type()
		case "namespace_name", "qualified_name", "name":
			// prefix of a group use
			prefix = strings.Trim(b.text(child), `\`)
		case "namespace_use_clause":
			node.AddChild(b.buildUseClause(child, "", node.Kind))
		case "namespace_use_group":
			for j := 0; j < int(child.ChildCount()); j++ {
				clause := child.Child(j)
				if clause.Type() == "namespace_use_clause" || clause.Type() == "namespace_use_group_clause" {
					node.AddChild(b.buildUseClause(clause, prefix, node.Kind))
				}
			}
		}
	}

	return node
}

// buildUseClause builds one imported name with its optional alias
func (b *ASTBuilder) buildUseClause(tsNode *sitter.Node, prefix, kind string) *Node {
	node := NewNode(NodeUseClause)
	node.Location = b.getLocation(tsNode)
	node.Kind = kind

	sawAs := false
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		switch child.Type() {
		case "function", "const":
			node.Kind = child.Type()
		case "as":
			sawAs = true
		case "namespace_aliasing_clause":
			if alias := b.firstChildOfType(child, "name"); alias != nil {
				node.Alias = b.text(alias)
			}
		case "name", "qualified_name", "namespace_name":
			if sawAs || tsNode.FieldNameForChild(i) == "alias" {
				node.Alias = b.text(child)
			} else if node.Name == "" {
				node.Name = strings.TrimLeft(b.text(child), `\`)
			}
		}
	}

	if prefix != "" && node.Name != "" {
		node.Name = prefix + `\` + node.Name
	}

	return node
}

// buildClassLike builds class, interface, enum and trait declarations
func (b *ASTBuilder) buildClassLike(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		switch child.Type() {
		case "attribute_list":
			node.Attributes = append(node.Attributes, b.buildAttributes(child)...)
		case "abstract_modifier", "abstract":
			node.Abstract = true
		case "final_modifier", "final":
			node.Final = true
		case "name":
			if node.Name == "" {
				node.Name = b.text(child)
			}
		case "base_clause":
			node.Extends = append(node.Extends, b.buildNameList(child)...)
		case "class_interface_clause":
			node.Implements = append(node.Implements, b.buildNameList(child)...)
		case "declaration_list", "enum_declaration_list":
			node.Body = b.buildStatements(child)
		}
	}

	return node
}

// buildFunctionLike builds methods, functions and closures
func (b *ASTBuilder) buildFunctionLike(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.getLocation(tsNode)

	expectReturnType := false
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		childType := child.Type()

		if expectReturnType || tsNode.FieldNameForChild(i) == "return_type" {
			if isTypeNode(childType) {
				node.TypeAnnotation = b.buildType(child)
				expectReturnType = false
				continue
			}
		}

		switch childType {
		case "attribute_list":
			node.Attributes = append(node.Attributes, b.buildAttributes(child)...)
		case "comment":
			if text := child.Content(b.source); node.DocComment == "" && isDocComment(text) {
				node.DocComment = text
			}
		case "static_modifier", "static":
			node.Static = true
		case "abstract_modifier":
			node.Abstract = true
		case "final_modifier":
			node.Final = true
		case "name":
			if node.Name == "" {
				node.Name = b.text(child)
			}
		case "formal_parameters":
			node.Params = b.buildParameters(child)
		case ":":
			expectReturnType = true
		case "compound_statement":
			node.Body = b.buildBlock(child).Body
		default:
			// arrow function bodies are bare expressions
			if nodeType == NodeClosure && child.IsNamed() && tsNode.FieldNameForChild(i) == "body" {
				node.Body = append(node.Body, b.buildNode(child))
			}
		}
	}

	return node
}

// buildParameters builds parameter list from formal_parameters node
func (b *ASTBuilder) buildParameters(tsNode *sitter.Node) []*Node {
	var params []*Node

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		switch child.Type() {
		case "simple_parameter", "variadic_parameter", "property_promotion_parameter":
			params = append(params, b.buildParameter(child))
		}
	}

	return params
}

// buildParameter builds one declared parameter
func (b *ASTBuilder) buildParameter(tsNode *sitter.Node) *Node {
	node := NewNode(NodeParameter)
	node.Location = b.getLocation(tsNode)
	node.Variadic = tsNode.Type() == "variadic_parameter"
	node.Promoted = tsNode.Type() == "property_promotion_parameter"

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		childType := child.Type()
		switch {
		case childType == "attribute_list":
			node.Attributes = append(node.Attributes, b.buildAttributes(child)...)
		case childType == "...":
			node.Variadic = true
		case isTypeNode(childType) && node.TypeAnnotation == nil:
			node.TypeAnnotation = b.buildType(child)
		case childType == "variable_name" && node.Name == "":
			node.Name = strings.TrimPrefix(b.text(child), "$")
		case childType == "by_ref" && node.Name == "":
			if v := b.firstChildOfType(child, "variable_name"); v != nil {
				node.Name = strings.TrimPrefix(b.text(v), "$")
			}
		}
	}

	return node
}

// buildType builds a type expression
func (b *ASTBuilder) buildType(tsNode *sitter.Node) *Node {
	var node *Node

	switch tsNode.Type() {
	case "primitive_type", "bottom_type":
		node = NewNode(NodePrimitiveType)
		node.Name = b.text(tsNode)
	case "optional_type":
		node = NewNode(NodeNullableType)
		if inner := b.firstNamedChild(tsNode); inner != nil {
			node.Argument = b.buildType(inner)
		}
	case "union_type", "disjunctive_normal_form_type", "intersection_type":
		members := b.buildTypeMembers(tsNode)
		if len(members) == 1 {
			return members[0]
		}
		if tsNode.Type() == "intersection_type" {
			node = NewNode(NodeIntersectionType)
		} else {
			node = NewNode(NodeUnionType)
		}
		node.Types = members
	default:
		node = NewNode(NodeNamedType)
		node.Name = b.text(tsNode)
	}

	node.Location = b.getLocation(tsNode)
	return node
}

// buildTypeMembers builds the members of a union or intersection type
func (b *ASTBuilder) buildTypeMembers(tsNode *sitter.Node) []*Node {
	var members []*Node
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if isTypeNode(child.Type()) || child.Type() == "name" || child.Type() == "qualified_name" {
			members = append(members, b.buildType(child))
		}
	}
	return members
}

// buildAttributes flattens an attribute_list into attribute nodes
func (b *ASTBuilder) buildAttributes(tsNode *sitter.Node) []*Node {
	var attrs []*Node

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			switch child.Type() {
			case "attribute":
				attr := NewNode(NodeAttribute)
				attr.Location = b.getLocation(child)
				for j := 0; j < int(child.ChildCount()); j++ {
					part := child.Child(j)
					if part.Type() == "name" || part.Type() == "qualified_name" {
						attr.Name = b.text(part)
						break
					}
				}
				attrs = append(attrs, attr)
			case "attribute_group":
				visit(child)
			}
		}
	}
	visit(tsNode)

	return attrs
}

// buildNameList collects the names of an extends or implements clause
func (b *ASTBuilder) buildNameList(tsNode *sitter.Node) []*Node {
	var names []*Node
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child.Type() == "name" || child.Type() == "qualified_name" {
			names = append(names, b.buildName(child))
		}
	}
	return names
}

// buildThrow builds a throw with the thrown expression as Argument
func (b *ASTBuilder) buildThrow(tsNode *sitter.Node) *Node {
	node := NewNode(NodeThrow)
	node.Location = b.getLocation(tsNode)

	if expr := b.firstNamedChild(tsNode); expr != nil {
		node.Argument = b.buildNode(expr)
	}

	return node
}

// buildNew builds an object creation with the class designator as Callee
func (b *ASTBuilder) buildNew(tsNode *sitter.Node) *Node {
	node := NewNode(NodeNew)
	node.Location = b.getLocation(tsNode)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if !child.IsNamed() || child.Type() == "comment" {
			continue
		}
		if node.Callee == nil && child.Type() != "arguments" {
			node.Callee = b.buildNode(child)
			continue
		}
		node.AddChild(b.buildNode(child))
	}

	return node
}

// buildStaticCall builds a scoped call with the scope as Callee
func (b *ASTBuilder) buildStaticCall(tsNode *sitter.Node) *Node {
	node := NewNode(NodeStaticCall)
	node.Location = b.getLocation(tsNode)

	sawScope := false
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		switch {
		case child.Type() == "::":
			sawScope = true
		case !child.IsNamed() || child.Type() == "comment":
		case !sawScope && node.Callee == nil:
			node.Callee = b.buildNode(child)
		case sawScope && node.Name == "" && child.Type() == "name":
			node.Name = b.text(child)
		default:
			node.AddChild(b.buildNode(child))
		}
	}

	return node
}

// buildMethodCall builds an instance call with the receiver as Object
func (b *ASTBuilder) buildMethodCall(tsNode *sitter.Node) *Node {
	node := NewNode(NodeMethodCall)
	node.Location = b.getLocation(tsNode)

	sawArrow := false
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		switch {
		case child.Type() == "->" || child.Type() == "?->":
			sawArrow = true
		case !child.IsNamed() || child.Type() == "comment":
		case !sawArrow && node.Object == nil:
			node.Object = b.buildNode(child)
		case sawArrow && node.Name == "" && child.Type() == "name":
			node.Name = b.text(child)
		default:
			node.AddChild(b.buildNode(child))
		}
	}

	return node
}

// buildVariable builds a variable reference
func (b *ASTBuilder) buildVariable(tsNode *sitter.Node) *Node {
	node := NewNode(NodeVariable)
	node.Location = b.getLocation(tsNode)
	node.Name = strings.TrimPrefix(b.text(tsNode), "$")
	return node
}

// buildName builds a name as written in source
func (b *ASTBuilder) buildName(tsNode *sitter.Node) *Node {
	node := NewNode(NodeName)
	node.Location = b.getLocation(tsNode)
	node.Name = b.text(tsNode)
	node.Raw = node.Name
	return node
}

// buildBlock builds a compound statement
func (b *ASTBuilder) buildBlock(tsNode *sitter.Node) *Node {
	node := NewNode(NodeBlock)
	node.Location = b.getLocation(tsNode)
	node.Body = b.buildStatements(tsNode)
	return node
}

// buildStatements builds the named children of a statement container and
// attaches a preceding doc comment to declarations
func (b *ASTBuilder) buildStatements(tsNode *sitter.Node) []*Node {
	var stmts []*Node

	pendingDoc := ""
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child.Type() == "comment" {
			if text := child.Content(b.source); isDocComment(text) {
				pendingDoc = text
			}
			continue
		}
		if !child.IsNamed() || b.isTrivia(child) {
			continue
		}

		stmt := b.buildNode(child)
		if stmt == nil {
			continue
		}
		if pendingDoc != "" && (stmt.IsClassLike() || stmt.IsFunction()) && stmt.DocComment == "" {
			stmt.DocComment = pendingDoc
		}
		pendingDoc = ""
		stmts = append(stmts, stmt)
	}

	return stmts
}

// buildTypedGeneric builds a generic node under one of our node types
func (b *ASTBuilder) buildTypedGeneric(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := b.buildGenericNode(tsNode)
	node.Type = nodeType
	return node
}

// buildGenericNode builds a generic node for unknown types
func (b *ASTBuilder) buildGenericNode(tsNode *sitter.Node) *Node {
	node := NewNode(NodeType(tsNode.Type()))
	node.Location = b.getLocation(tsNode)

	if tsNode.ChildCount() == 0 {
		node.Raw = b.text(tsNode)
	}

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && child.IsNamed() && !b.isTrivia(child) {
			node.AddChild(b.buildNode(child))
		}
	}

	return node
}

// Helper methods

// getLocation extracts location information from a tree-sitter node
func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	return Location{
		File:      b.filename,
		StartLine: int(tsNode.StartPoint().Row) + 1,
		StartCol:  int(tsNode.StartPoint().Column),
		EndLine:   int(tsNode.EndPoint().Row) + 1,
		EndCol:    int(tsNode.EndPoint().Column),
	}
}

// text returns the source text of a node with whitespace removed
func (b *ASTBuilder) text(tsNode *sitter.Node) string {
	return strings.Join(strings.Fields(tsNode.Content(b.source)), "")
}

// firstNamedChild returns the first named child that is not a comment
func (b *ASTBuilder) firstNamedChild(tsNode *sitter.Node) *sitter.Node {
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child != nil && !b.isTrivia(child) {
			return child
		}
	}
	return nil
}

// firstChildOfType returns the first direct child of the given type
func (b *ASTBuilder) firstChildOfType(tsNode *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		if child := tsNode.Child(i); child != nil && child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// isTrivia checks if a node is trivia (comments, inline html, php tags)
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	switch tsNode.Type() {
	case "comment", "php_tag", "text", "text_interpolation", "":
		return true
	}
	return false
}

func isTypeNode(nodeType string) bool {
	switch nodeType {
	case "named_type", "primitive_type", "optional_type", "union_type",
		"intersection_type", "bottom_type", "disjunctive_normal_form_type":
		return true
	}
	return false
}

func isDocComment(text string) bool {
	return strings.HasPrefix(text, "/**")
}

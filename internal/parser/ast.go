package parser

import "fmt"

// NodeType represents the type of AST node
type NodeType string

// PHP AST node types
const (
	// Program and structure
	NodeProgram   NodeType = "Program"
	NodeNamespace NodeType = "NamespaceDefinition"
	NodeUse       NodeType = "UseDeclaration"
	NodeUseClause NodeType = "UseClause"

	// Class-like declarations
	NodeClass     NodeType = "ClassDeclaration"
	NodeInterface NodeType = "InterfaceDeclaration"
	NodeEnum      NodeType = "EnumDeclaration"
	NodeTrait     NodeType = "TraitDeclaration"
	NodeAttribute NodeType = "Attribute"

	// Members
	NodeMethod    NodeType = "MethodDeclaration"
	NodeParameter NodeType = "Parameter"
	NodeFunction  NodeType = "FunctionDefinition"
	NodeClosure   NodeType = "AnonymousFunction"

	// Names and types
	NodeName             NodeType = "Name"
	NodeNamedType        NodeType = "NamedType"
	NodePrimitiveType    NodeType = "PrimitiveType"
	NodeNullableType     NodeType = "NullableType"
	NodeUnionType        NodeType = "UnionType"
	NodeIntersectionType NodeType = "IntersectionType"

	// Statements
	NodeBlock               NodeType = "CompoundStatement"
	NodeExpressionStatement NodeType = "ExpressionStatement"
	NodeThrow               NodeType = "ThrowExpression"
	NodeReturn              NodeType = "ReturnStatement"

	// Expressions
	NodeNew                   NodeType = "ObjectCreationExpression"
	NodeStaticCall            NodeType = "ScopedCallExpression"
	NodeMethodCall            NodeType = "MemberCallExpression"
	NodeFunctionCall          NodeType = "FunctionCallExpression"
	NodeVariable              NodeType = "Variable"
	NodeConditionalExpression NodeType = "ConditionalExpression"
)

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node represents an AST node
type Node struct {
	Type     NodeType
	Children []*Node
	Location Location
	Parent   *Node

	// Name holds the declared name of classes, methods and parameters
	// (parameters without the leading $) and the written text of names
	// and types.
	Name string

	// Declarations
	Attributes []*Node // Attribute nodes
	Extends    []*Node // Name nodes after extends
	Implements []*Node // Name nodes after implements
	Body       []*Node // Members or statements
	DocComment string  // Preceding /** */ block, if any

	// Modifiers
	Abstract bool
	Final    bool
	Static   bool
	Variadic bool
	Promoted bool

	// Functions
	Params         []*Node
	TypeAnnotation *Node // Parameter type or declared return type

	// Types
	Types []*Node // Members of union and intersection types

	// Expressions
	Argument *Node // Thrown expression, inner type of a nullable type
	Callee   *Node // Class designator of new, scope of a static call
	Object   *Node // Receiver of a method call

	// Imports
	Alias string // Explicit alias of a use clause
	Kind  string // "function" or "const" for non-class imports

	Raw string // Source text of leaf nodes
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{
		Type:     nodeType,
		Children: []*Node{},
	}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk traverses the AST depth-first and calls the visitor function for each node
// If the visitor returns false, traversal of that branch is stopped
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}

	if !visitor(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(visitor)
	}
	for _, attr := range n.Attributes {
		attr.Walk(visitor)
	}
	for _, name := range n.Extends {
		name.Walk(visitor)
	}
	for _, name := range n.Implements {
		name.Walk(visitor)
	}
	for _, param := range n.Params {
		param.Walk(visitor)
	}
	for _, stmt := range n.Body {
		stmt.Walk(visitor)
	}
	for _, t := range n.Types {
		t.Walk(visitor)
	}

	if n.TypeAnnotation != nil {
		n.TypeAnnotation.Walk(visitor)
	}
	if n.Argument != nil {
		n.Argument.Walk(visitor)
	}
	if n.Callee != nil {
		n.Callee.Walk(visitor)
	}
	if n.Object != nil {
		n.Object.Walk(visitor)
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// IsClassLike returns true for class, interface, enum and trait declarations
func (n *Node) IsClassLike() bool {
	switch n.Type {
	case NodeClass, NodeInterface, NodeEnum, NodeTrait:
		return true
	}
	return false
}

// IsFunction returns true if the node opens a new function scope
func (n *Node) IsFunction() bool {
	switch n.Type {
	case NodeMethod, NodeFunction, NodeClosure:
		return true
	}
	return false
}

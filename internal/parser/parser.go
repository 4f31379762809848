package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"
)

// Parser wraps tree-sitter parser for PHP
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
}

// NewParser creates a new PHP parser
func NewParser() *Parser {
	parser := sitter.NewParser()
	lang := php.GetLanguage()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
	}
}

// ParseFileContext parses a PHP file, honoring cancellation of ctx
func (p *Parser) ParseFileContext(ctx context.Context, filename string, source []byte) (*Node, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", filename, err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}
	if rootNode.HasError() {
		pos := syntaxErrorAt(rootNode).StartPoint()
		return nil, fmt.Errorf("syntax error in %s at line %d, column %d", filename, pos.Row+1, pos.Column+1)
	}

	// Build our internal AST from tree-sitter CST
	builder := NewASTBuilder(filename, source)
	return builder.Build(rootNode), nil
}

// syntaxErrorAt returns the first ERROR or MISSING node below n, or n
// itself when tree-sitter flags the error without a dedicated node.
func syntaxErrorAt(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		return syntaxErrorAt(child)
	}
	return n
}

// ParseFile parses a PHP file
func (p *Parser) ParseFile(filename string, source []byte) (*Node, error) {
	return p.ParseFileContext(context.Background(), filename, source)
}

// Parse parses PHP source code
func (p *Parser) Parse(source []byte) (*Node, error) {
	return p.ParseFile("<input>", source)
}

// ParseString parses PHP source code from a string
func (p *Parser) ParseString(source string) (*Node, error) {
	return p.Parse([]byte(source))
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// Package testutil provides helper functions for testing dddscan components
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/dddscan/internal/parser"
)

// CreateTestAST creates a test AST from PHP source code
func CreateTestAST(t *testing.T, source string) *parser.Node {
	t.Helper()
	return CreateTestASTForFile(t, "<input>", source)
}

// CreateTestASTForFile parses source as if it were read from filename
func CreateTestASTForFile(t *testing.T, filename, source string) *parser.Node {
	t.Helper()
	p := parser.NewParser()
	defer p.Close()

	ast, err := p.ParseFile(filename, []byte(source))
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}
	return ast
}

// FindClassInAST finds a class-like declaration by name in the AST
func FindClassInAST(ast *parser.Node, name string) *parser.Node {
	var found *parser.Node
	ast.Walk(func(n *parser.Node) bool {
		if found != nil {
			return false
		}
		if n.IsClassLike() && n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// WriteFiles writes files (relative path to content) under root
func WriteFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
}

// DomainProject returns a small PHP project with one forbidden relation
// (Money consumes Line) and one untagged class (Clock).
func DomainProject() map[string]string {
	return map[string]string{
		"src/Domain/Order.php": `<?php
namespace App\Domain;

use PHPMolecules\DDD\Attribute\AggregateRoot;

#[AggregateRoot]
final class Order
{
    /**
     * @return list<Line>
     */
    public function lines(): array
    {
        return [];
    }

    public function add(Line $line, Money $price): void
    {
        if ($price === null) {
            throw new InvalidOrderException('price');
        }
    }
}
`,
		"src/Domain/Line.php": `<?php
namespace App\Domain;

use PHPMolecules\DDD\Attribute\Entity;

#[Entity]
class Line
{
    public function price(): Money
    {
    }
}
`,
		"src/Domain/Money.php": `<?php
namespace App\Domain;

use PHPMolecules\DDD\Attribute\ValueObject;

#[ValueObject]
final class Money
{
    public function allocate(Line $line): self
    {
        return $this;
    }
}
`,
		"src/Domain/InvalidOrderException.php": `<?php
namespace App\Domain;

final class InvalidOrderException extends \DomainException
{
}
`,
		"src/Domain/OrderRepository.php": `<?php
namespace App\Domain;

interface OrderRepository
{
    public function get(string $id): ?Order;
}
`,
		"src/Infrastructure/Clock.php": `<?php
namespace App\Infrastructure;

class Clock
{
    public function now(): \DateTimeImmutable
    {
    }
}
`,
		"src/bootstrap.php": `<?php
require __DIR__ . '/../vendor/autoload.php';
`,
	}
}

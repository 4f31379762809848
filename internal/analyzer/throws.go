package analyzer

import (
	"github.com/ludo-technologies/dddscan/domain"
	"github.com/ludo-technologies/dddscan/internal/parser"
)

// collectThrows returns one reference per throw found anywhere in body,
// nested blocks and closures included.
func collectThrows(body []*parser.Node) []domain.TypeReference {
	var throws []domain.TypeReference
	for _, stmt := range body {
		stmt.Walk(func(n *parser.Node) bool {
			if n.Type == parser.NodeThrow {
				throws = append(throws, thrownType(n.Argument))
			}
			return true
		})
	}
	return throws
}

// thrownType classifies a thrown expression by shape. Only "new Foo(...)"
// and "Foo::create(...)" name a type; anything else is unknown.
func thrownType(expr *parser.Node) domain.TypeReference {
	if expr == nil {
		return domain.UnknownException()
	}

	switch expr.Type {
	case parser.NodeNew, parser.NodeStaticCall:
		if expr.Callee != nil && expr.Callee.Type == parser.NodeName && expr.Callee.Name != "" {
			return domain.NewTypeReference(expr.Callee.Name)
		}
	}
	return domain.UnknownException()
}

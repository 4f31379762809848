package analyzer

import (
	"iter"

	"github.com/ludo-technologies/dddscan/domain"
)

// GraphBuilder turns source items into lazy node and relation sequences.
// Sequences are single pass; calling Nodes or Relations again restarts
// them from the same inputs.
type GraphBuilder struct {
	resolver *TypeResolver
}

// NewGraphBuilder creates a graph builder that resolves targets with resolver
func NewGraphBuilder(resolver *TypeResolver) *GraphBuilder {
	if resolver == nil {
		resolver = NewTypeResolver(nil)
	}
	return &GraphBuilder{resolver: resolver}
}

// Relations yields every typed edge leaving item
func (g *GraphBuilder) Relations(item *domain.SourceItem) iter.Seq[domain.Relation] {
	return func(yield func(domain.Relation) bool) {
		g.relations(item, yield)
	}
}

// Nodes yields the item's own node followed by the target of each relation
func (g *GraphBuilder) Nodes(item *domain.SourceItem) iter.Seq[domain.Node] {
	return func(yield func(domain.Node) bool) {
		if item == nil {
			return
		}
		if !yield(domain.Node{ID: item.FQN}) {
			return
		}
		g.relations(item, func(rel domain.Relation) bool {
			return yield(domain.Node{ID: rel.To})
		})
	}
}

// AllRelations chains Relations over items in order
func (g *GraphBuilder) AllRelations(items []*domain.SourceItem) iter.Seq[domain.Relation] {
	return func(yield func(domain.Relation) bool) {
		for _, item := range items {
			if !g.relations(item, yield) {
				return
			}
		}
	}
}

// AllNodes chains Nodes over items in order
func (g *GraphBuilder) AllNodes(items []*domain.SourceItem) iter.Seq[domain.Node] {
	return func(yield func(domain.Node) bool) {
		for _, item := range items {
			for node := range g.Nodes(item) {
				if !yield(node) {
					return
				}
			}
		}
	}
}

// relations drives yield over the edges of item and reports whether the
// consumer wants more.
func (g *GraphBuilder) relations(item *domain.SourceItem, yield func(domain.Relation) bool) bool {
	if item == nil {
		return true
	}

	emit := func(edge domain.Edge, ref domain.TypeReference) bool {
		return yield(domain.Relation{
			From: item.FQN,
			Edge: edge,
			To:   g.resolver.Resolve(item, ref),
		})
	}

	for _, iface := range item.Implements {
		if !emit(domain.EdgeImplements, iface) {
			return false
		}
	}
	if item.Extends != nil {
		if !emit(domain.EdgeExtends, *item.Extends) {
			return false
		}
	}
	for _, parent := range item.ParentInterfaces {
		if !emit(domain.EdgeExtends, parent) {
			return false
		}
	}

	for _, method := range item.Methods {
		for _, arg := range method.Arguments {
			if !emit(domain.EdgeConsumes, arg.Type) {
				return false
			}
		}
		if !method.Return.CanBeIgnored() {
			if !emit(domain.EdgeProduces, *method.Return.Type) {
				return false
			}
		}
		for _, thrown := range method.Throws {
			if !emit(domain.EdgeThrows, thrown) {
				return false
			}
		}
	}

	return true
}

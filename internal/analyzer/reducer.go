package analyzer

import (
	"iter"
	"strings"

	"github.com/ludo-technologies/dddscan/domain"
)

// IgnoreFilter decides whether an identity is left out of a reduced graph
type IgnoreFilter struct {
	names      map[string]struct{}
	prefixes   []string
	substrings []string
}

// NewIgnoreFilter builds a filter from ignore rules
func NewIgnoreFilter(rules domain.IgnoreRules) *IgnoreFilter {
	f := &IgnoreFilter{
		names:      make(map[string]struct{}, len(rules.Names)),
		prefixes:   rules.Prefixes,
		substrings: rules.Substrings,
	}
	for _, name := range rules.Names {
		f.names[name] = struct{}{}
	}
	return f
}

// Ignored matches names and substrings against the short name and
// prefixes against the full identity. Node reduction uses this mode.
func (f *IgnoreFilter) Ignored(id domain.NodeID) bool {
	if _, ok := f.names[id.ShortName()]; ok {
		return true
	}
	return f.matchesPatterns(id)
}

// IgnoredTarget is the relation mode: names must equal the full identity,
// so App\Number\Generator is kept while the global Generator is not.
func (f *IgnoreFilter) IgnoredTarget(id domain.NodeID) bool {
	if _, ok := f.names[string(id)]; ok {
		return true
	}
	return f.matchesPatterns(id)
}

func (f *IgnoreFilter) matchesPatterns(id domain.NodeID) bool {
	for _, prefix := range f.prefixes {
		if prefix != "" && id.HasPrefix(prefix) {
			return true
		}
	}
	short := id.ShortName()
	for _, sub := range f.substrings {
		if sub != "" && strings.Contains(short, sub) {
			return true
		}
	}
	return false
}

// NodeReducer folds nodes into a deduplicated list in first-seen order
type NodeReducer struct {
	filter *IgnoreFilter
	seen   map[domain.NodeID]struct{}
	nodes  []domain.Node
}

// NewNodeReducer creates an empty node reducer
func NewNodeReducer(rules domain.IgnoreRules) *NodeReducer {
	return &NodeReducer{
		filter: NewIgnoreFilter(rules),
		seen:   make(map[domain.NodeID]struct{}),
	}
}

// Add folds one node and reports whether it was kept
func (r *NodeReducer) Add(node domain.Node) bool {
	if r.filter.Ignored(node.ID) {
		return false
	}
	if _, ok := r.seen[node.ID]; ok {
		return false
	}
	r.seen[node.ID] = struct{}{}
	r.nodes = append(r.nodes, node)
	return true
}

// AddAll folds a node sequence
func (r *NodeReducer) AddAll(nodes iter.Seq[domain.Node]) {
	for node := range nodes {
		r.Add(node)
	}
}

// Nodes returns the reduced nodes
func (r *NodeReducer) Nodes() []domain.Node {
	out := make([]domain.Node, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// RelationReducer folds relations into a deduplicated list in first-seen
// order, keeping only edges of interest whose target is not ignored.
type RelationReducer struct {
	filter    *IgnoreFilter
	edges     map[domain.Edge]struct{}
	seen      map[domain.Relation]struct{}
	relations []domain.Relation
}

// NewRelationReducer creates an empty relation reducer. An empty edge list
// keeps every edge kind.
func NewRelationReducer(rules domain.IgnoreRules, edges []domain.Edge) *RelationReducer {
	if len(edges) == 0 {
		edges = domain.AllEdges()
	}
	r := &RelationReducer{
		filter: NewIgnoreFilter(rules),
		edges:  make(map[domain.Edge]struct{}, len(edges)),
		seen:   make(map[domain.Relation]struct{}),
	}
	for _, e := range edges {
		r.edges[e] = struct{}{}
	}
	return r
}

// Add folds one relation and reports whether it was kept
func (r *RelationReducer) Add(rel domain.Relation) bool {
	if r.filter.IgnoredTarget(rel.To) {
		return false
	}
	if _, ok := r.edges[rel.Edge]; !ok {
		return false
	}
	if _, ok := r.seen[rel]; ok {
		return false
	}
	r.seen[rel] = struct{}{}
	r.relations = append(r.relations, rel)
	return true
}

// AddAll folds a relation sequence
func (r *RelationReducer) AddAll(relations iter.Seq[domain.Relation]) {
	for rel := range relations {
		r.Add(rel)
	}
}

// Relations returns the reduced relations
func (r *RelationReducer) Relations() []domain.Relation {
	out := make([]domain.Relation, len(r.relations))
	copy(out, r.relations)
	return out
}

// ReduceNodes folds a node sequence in one call
func ReduceNodes(nodes iter.Seq[domain.Node], rules domain.IgnoreRules) []domain.Node {
	r := NewNodeReducer(rules)
	r.AddAll(nodes)
	return r.Nodes()
}

// ReduceRelations folds a relation sequence in one call
func ReduceRelations(relations iter.Seq[domain.Relation], rules domain.IgnoreRules, edges []domain.Edge) []domain.Relation {
	r := NewRelationReducer(rules, edges)
	r.AddAll(relations)
	return r.Relations()
}

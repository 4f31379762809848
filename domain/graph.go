package domain

import (
	"fmt"
	"strings"
)

// NamespaceSeparator joins namespace segments in a NodeID
const NamespaceSeparator = `\`

// NodeID is the canonical fully qualified name of a class-like type.
type NodeID string

// ShortName returns the last namespace segment
func (id NodeID) ShortName() string {
	s := string(id)
	if i := strings.LastIndex(s, NamespaceSeparator); i >= 0 {
		return s[i+1:]
	}
	return s
}

// HasPrefix reports whether the identity starts with prefix
func (id NodeID) HasPrefix(prefix string) bool {
	return strings.HasPrefix(string(id), prefix)
}

func (id NodeID) String() string {
	return string(id)
}

// Node is one vertex of the dependency graph
type Node struct {
	ID NodeID `json:"id" yaml:"id"`
}

// Name returns the short name of the node
func (n Node) Name() string {
	return n.ID.ShortName()
}

// Edge is the kind of a dependency between two types
type Edge string

const (
	EdgeImplements Edge = "implements"
	EdgeExtends    Edge = "extends"
	EdgeConsumes   Edge = "consumes"
	EdgeThrows     Edge = "throws"
	EdgeProduces   Edge = "produces"
)

// AllEdges lists every edge kind in a stable order
func AllEdges() []Edge {
	return []Edge{EdgeImplements, EdgeExtends, EdgeConsumes, EdgeThrows, EdgeProduces}
}

// ParseEdge parses an edge name case-insensitively
func ParseEdge(s string) (Edge, error) {
	for _, e := range AllEdges() {
		if strings.EqualFold(string(e), strings.TrimSpace(s)) {
			return e, nil
		}
	}
	return "", NewInvalidInputError(fmt.Sprintf("unknown edge %q", s), nil)
}

// Relation is a typed directed edge between two identities.
// Relations compare structurally with ==.
type Relation struct {
	From NodeID `json:"from" yaml:"from"`
	Edge Edge   `json:"edge" yaml:"edge"`
	To   NodeID `json:"to" yaml:"to"`
}

// String renders the relation as (From)-[edge]->(To) using short names.
func (r Relation) String() string {
	return fmt.Sprintf("(%s)-[%s]->(%s)", r.From.ShortName(), r.Edge, r.To.ShortName())
}

// RelationView is a relation enriched with its evaluated forbidden flag.
type RelationView struct {
	Relation  `yaml:",inline"`
	Forbidden bool `json:"forbidden" yaml:"forbidden"`
}

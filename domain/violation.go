package domain

import "fmt"

// ViolationKind distinguishes the two reportable findings
type ViolationKind string

const (
	ViolationMissingTag        ViolationKind = "missing_tag"
	ViolationForbiddenRelation ViolationKind = "forbidden_relation"
)

// Violation is one reportable architecture finding
type Violation struct {
	Kind     ViolationKind `json:"kind" yaml:"kind"`
	Subject  NodeID        `json:"subject" yaml:"subject"`
	Relation *Relation     `json:"relation,omitempty" yaml:"relation,omitempty"`
	FromRole Role          `json:"from_role,omitempty" yaml:"from_role,omitempty"`
	ToRole   Role          `json:"to_role,omitempty" yaml:"to_role,omitempty"`
	Message  string        `json:"message" yaml:"message"`
}

// NewMissingTagViolation reports a class without a role tag
func NewMissingTagViolation(id NodeID) Violation {
	return Violation{
		Kind:    ViolationMissingTag,
		Subject: id,
		Message: fmt.Sprintf("%s has no tactical tag!", id),
	}
}

// NewForbiddenRelationViolation reports a relation the forbidden table disallows
func NewForbiddenRelationViolation(rel Relation, from, to Role) Violation {
	r := rel
	return Violation{
		Kind:     ViolationForbiddenRelation,
		Subject:  rel.From,
		Relation: &r,
		FromRole: from,
		ToRole:   to,
		Message:  fmt.Sprintf("%s %s %s %s", rel, from, rel.Edge, to),
	}
}

func (v Violation) String() string {
	return v.Message
}

// Key identifies a violation for deduplication
func (v Violation) Key() string {
	if v.Relation != nil {
		return string(v.Kind) + "|" + string(v.Relation.From) + "|" + string(v.Relation.Edge) + "|" + string(v.Relation.To)
	}
	return string(v.Kind) + "|" + string(v.Subject)
}

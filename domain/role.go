package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Role is an architectural role tag
type Role string

const (
	RoleAggregateRoot Role = "AggregateRoot"
	RoleValueObject   Role = "ValueObject"
	RoleEntity        Role = "Entity"
	RoleFactory       Role = "Factory"
	RoleService       Role = "Service"
	RoleRepository    Role = "Repository"
)

// AllRoles lists every role in declaration order
func AllRoles() []Role {
	return []Role{RoleAggregateRoot, RoleValueObject, RoleEntity, RoleFactory, RoleService, RoleRepository}
}

// ParseRole parses a role name, accepting snake_case and any letter case
func ParseRole(s string) (Role, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	for _, r := range AllRoles() {
		if strings.EqualFold(string(r), normalized) {
			return r, nil
		}
	}
	return "", NewInvalidInputError(fmt.Sprintf("unknown role %q", s), nil)
}

// UniqueRoles removes duplicates and sorts roles for stable output
func UniqueRoles(roles []Role) []Role {
	if len(roles) == 0 {
		return nil
	}
	seen := make(map[Role]struct{}, len(roles))
	out := make([]Role, 0, len(roles))
	for _, r := range roles {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RoleReader reads the role tags attached to a class. An empty result means
// the class carries no tag; more than one means the tags are ambiguous.
type RoleReader interface {
	Roles(id NodeID) []Role
}

// DeclarationLookup answers which kind of declaration an identity denotes.
type DeclarationLookup interface {
	Kind(id NodeID) (DeclarationKind, bool)
}

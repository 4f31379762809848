package analyzer

import (
	"fmt"
	"slices"

	"github.com/ludo-technologies/dddscan/domain"
)

// ForbiddenTable maps a source role to the roles it must not depend on.
// Every role that can appear as a relation source must have an entry.
type ForbiddenTable struct {
	rules map[domain.Role][]domain.Role
}

// DefaultForbiddenTable returns the tactical design rules
func DefaultForbiddenTable() *ForbiddenTable {
	return NewForbiddenTable(map[domain.Role][]domain.Role{
		domain.RoleEntity:        {domain.RoleFactory, domain.RoleService, domain.RoleAggregateRoot},
		domain.RoleValueObject:   {domain.RoleEntity, domain.RoleAggregateRoot, domain.RoleRepository, domain.RoleFactory, domain.RoleService},
		domain.RoleAggregateRoot: {domain.RoleFactory},
		domain.RoleRepository:    {domain.RoleFactory, domain.RoleService},
		domain.RoleFactory:       {domain.RoleRepository},
		domain.RoleService:       {},
	})
}

// NewForbiddenTable creates a table from explicit rules
func NewForbiddenTable(rules map[domain.Role][]domain.Role) *ForbiddenTable {
	copied := make(map[domain.Role][]domain.Role, len(rules))
	for from, targets := range rules {
		copied[from] = slices.Clone(targets)
	}
	return &ForbiddenTable{rules: copied}
}

// Targets returns the roles from may not depend on
func (t *ForbiddenTable) Targets(from domain.Role) ([]domain.Role, error) {
	targets, ok := t.rules[from]
	if !ok {
		return nil, domain.NewConfigError(fmt.Sprintf("no forbidden-relation rule for role %s", from), nil)
	}
	return slices.Clone(targets), nil
}

// IsForbidden reports whether an edge from a role to another is disallowed
func (t *ForbiddenTable) IsForbidden(from, to domain.Role) (bool, error) {
	targets, ok := t.rules[from]
	if !ok {
		return false, domain.NewConfigError(fmt.Sprintf("no forbidden-relation rule for role %s", from), nil)
	}
	return slices.Contains(targets, to), nil
}

// Validate checks that every role has a rule
func (t *ForbiddenTable) Validate() error {
	for _, role := range domain.AllRoles() {
		if _, ok := t.rules[role]; !ok {
			return domain.NewConfigError(fmt.Sprintf("no forbidden-relation rule for role %s", role), nil)
		}
	}
	return nil
}

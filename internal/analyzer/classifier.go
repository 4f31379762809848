package analyzer

import (
	"strings"

	"github.com/ludo-technologies/dddscan/domain"
)

// Classifier assigns roles to classes and evaluates relations against the
// forbidden table. Roles are read on every call so changes made through
// the role reader are always reflected.
type Classifier struct {
	roles        domain.RoleReader
	declarations domain.DeclarationLookup
	table        *ForbiddenTable
}

// NewClassifier creates a classifier. declarations may be nil, in which
// case only the Exception suffix exempts a class.
func NewClassifier(roles domain.RoleReader, declarations domain.DeclarationLookup, table *ForbiddenTable) *Classifier {
	if table == nil {
		table = DefaultForbiddenTable()
	}
	return &Classifier{
		roles:        roles,
		declarations: declarations,
		table:        table,
	}
}

// IsExempt reports whether id needs no role: interfaces, traits and
// classes whose name ends with Exception.
func (c *Classifier) IsExempt(id domain.NodeID) bool {
	if c.isInterface(id) {
		return true
	}
	return strings.HasSuffix(id.ShortName(), "Exception")
}

func (c *Classifier) isInterface(id domain.NodeID) bool {
	if c.declarations == nil {
		return false
	}
	kind, ok := c.declarations.Kind(id)
	return ok && (kind == domain.DeclarationInterface || kind == domain.DeclarationTrait)
}

// RoleOf returns the single role of id. ok is false when id carries no
// role; more than one role is an *domain.AmbiguousRoleError.
func (c *Classifier) RoleOf(id domain.NodeID) (domain.Role, bool, error) {
	roles := domain.UniqueRoles(c.roles.Roles(id))
	switch len(roles) {
	case 0:
		return "", false, nil
	case 1:
		return roles[0], true, nil
	default:
		return "", false, &domain.AmbiguousRoleError{Class: id, Roles: roles}
	}
}

// roleOrNone collapses ambiguity to "no role"
func (c *Classifier) roleOrNone(id domain.NodeID) (domain.Role, bool) {
	role, ok, err := c.RoleOf(id)
	if err != nil {
		return "", false
	}
	return role, ok
}

// IsForbidden reports whether both endpoints carry exactly one role and
// the pair is in the forbidden table.
func (c *Classifier) IsForbidden(rel domain.Relation) (bool, error) {
	from, ok := c.roleOrNone(rel.From)
	if !ok {
		return false, nil
	}
	to, ok := c.roleOrNone(rel.To)
	if !ok {
		return false, nil
	}
	return c.table.IsForbidden(from, to)
}

func (c *Classifier) forbiddenViolation(rel domain.Relation) (domain.Violation, bool, error) {
	forbidden, err := c.IsForbidden(rel)
	if err != nil || !forbidden {
		return domain.Violation{}, false, err
	}
	from, _ := c.roleOrNone(rel.From)
	to, _ := c.roleOrNone(rel.To)
	return domain.NewForbiddenRelationViolation(rel, from, to), true, nil
}

// Evaluate pairs each relation with its forbidden flag
func (c *Classifier) Evaluate(relations []domain.Relation) ([]domain.RelationView, error) {
	views := make([]domain.RelationView, 0, len(relations))
	for _, rel := range relations {
		forbidden, err := c.IsForbidden(rel)
		if err != nil {
			return nil, err
		}
		views = append(views, domain.RelationView{Relation: rel, Forbidden: forbidden})
	}
	return views, nil
}

// CheckClass returns the violations of one class: a missing tag and every
// forbidden relation leaving it. Exempt classes have none. An ambiguous
// role aborts the check with an error and no violations.
func (c *Classifier) CheckClass(id domain.NodeID, relations []domain.Relation) ([]domain.Violation, error) {
	if c.IsExempt(id) {
		return nil, nil
	}

	_, hasRole, err := c.RoleOf(id)
	if err != nil {
		return nil, err
	}

	var violations []domain.Violation
	if !hasRole {
		violations = append(violations, domain.NewMissingTagViolation(id))
	}

	for _, rel := range relations {
		if rel.From != id {
			continue
		}
		v, found, err := c.forbiddenViolation(rel)
		if err != nil {
			return nil, err
		}
		if found {
			violations = append(violations, v)
		}
	}

	return violations, nil
}

// CheckFolder unions the per-class violations of classes with every
// forbidden relation of the folder graph. Each violation is reported once.
func (c *Classifier) CheckFolder(classes []domain.NodeID, relations []domain.Relation) ([]domain.Violation, error) {
	seen := make(map[string]struct{})
	var violations []domain.Violation
	add := func(v domain.Violation) {
		key := v.Key()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		violations = append(violations, v)
	}

	for _, class := range classes {
		classViolations, err := c.CheckClass(class, relations)
		if err != nil {
			return nil, err
		}
		for _, v := range classViolations {
			add(v)
		}
	}

	for _, rel := range relations {
		v, found, err := c.forbiddenViolation(rel)
		if err != nil {
			return nil, err
		}
		if found {
			add(v)
		}
	}

	return violations, nil
}

// AssertClass runs CheckClass and turns violations into one
// *domain.ViolationsError.
func (c *Classifier) AssertClass(id domain.NodeID, relations []domain.Relation) error {
	violations, err := c.CheckClass(id, relations)
	if err != nil {
		return err
	}
	return NewViolationsError(domain.ViolationScopeClass, string(id), violations)
}

// AssertFolder runs CheckFolder and turns violations into one
// *domain.ViolationsError.
func (c *Classifier) AssertFolder(folder string, classes []domain.NodeID, relations []domain.Relation) error {
	violations, err := c.CheckFolder(classes, relations)
	if err != nil {
		return err
	}
	return NewViolationsError(domain.ViolationScopeFolder, folder, violations)
}

// NewViolationsError returns nil for an empty list
func NewViolationsError(scope domain.ViolationScope, subject string, violations []domain.Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &domain.ViolationsError{Scope: scope, Subject: subject, Violations: violations}
}

// Tag returns the report tag of id: its role, interface, exception,
// uncategorized or ambiguous.
func (c *Classifier) Tag(id domain.NodeID) string {
	if c.isInterface(id) {
		return domain.TagInterface
	}
	if strings.HasSuffix(id.ShortName(), "Exception") {
		return domain.TagException
	}
	role, ok, err := c.RoleOf(id)
	switch {
	case err != nil:
		return domain.TagAmbiguous
	case !ok:
		return domain.TagUncategorized
	default:
		return string(role)
	}
}

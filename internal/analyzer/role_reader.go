package analyzer

import (
	"strings"

	"github.com/ludo-technologies/dddscan/domain"
)

// DefaultAttributeClasses maps each role to the attribute class marking it
func DefaultAttributeClasses() map[domain.Role]string {
	classes := make(map[domain.Role]string, len(domain.AllRoles()))
	for _, role := range domain.AllRoles() {
		classes[role] = `PHPMolecules\DDD\Attribute\` + string(role)
	}
	return classes
}

// AttributeRoleIndex reads roles from the attributes declared on extracted
// classes. It also answers declaration kind lookups for those classes.
type AttributeRoleIndex struct {
	roles map[domain.NodeID][]domain.Role
	kinds map[domain.NodeID]domain.DeclarationKind
}

// NewAttributeRoleIndex indexes items. Attribute names are resolved with
// resolver so imported and aliased attributes match the configured classes.
func NewAttributeRoleIndex(items []*domain.SourceItem, resolver *TypeResolver, attributeClasses map[domain.Role]string) *AttributeRoleIndex {
	if attributeClasses == nil {
		attributeClasses = DefaultAttributeClasses()
	}
	if resolver == nil {
		resolver = NewTypeResolver(nil)
	}

	byClass := make(map[domain.NodeID]domain.Role, len(attributeClasses))
	for role, class := range attributeClasses {
		byClass[domain.NodeID(strings.TrimLeft(class, domain.NamespaceSeparator))] = role
	}

	idx := &AttributeRoleIndex{
		roles: make(map[domain.NodeID][]domain.Role),
		kinds: make(map[domain.NodeID]domain.DeclarationKind),
	}
	for _, item := range items {
		if item == nil {
			continue
		}
		idx.kinds[item.FQN] = item.Kind

		var roles []domain.Role
		for _, attr := range item.Attributes {
			if role, ok := byClass[resolver.Resolve(item, attr)]; ok {
				roles = append(roles, role)
			}
		}
		if len(roles) > 0 {
			idx.roles[item.FQN] = domain.UniqueRoles(roles)
		}
	}
	return idx
}

// Roles implements domain.RoleReader
func (idx *AttributeRoleIndex) Roles(id domain.NodeID) []domain.Role {
	return idx.roles[id]
}

// Kind implements domain.DeclarationLookup
func (idx *AttributeRoleIndex) Kind(id domain.NodeID) (domain.DeclarationKind, bool) {
	kind, ok := idx.kinds[id]
	return kind, ok
}

// StaticRoleReader serves an explicit identity to roles mapping
type StaticRoleReader map[domain.NodeID][]domain.Role

// NewStaticRoleReader converts configured mappings, dropping a leading
// separator from class names.
func NewStaticRoleReader(mappings map[string][]domain.Role) StaticRoleReader {
	reader := make(StaticRoleReader, len(mappings))
	for class, roles := range mappings {
		id := domain.NodeID(strings.TrimLeft(class, domain.NamespaceSeparator))
		reader[id] = append(reader[id], roles...)
	}
	return reader
}

// Roles implements domain.RoleReader
func (r StaticRoleReader) Roles(id domain.NodeID) []domain.Role {
	return r[id]
}

// CompositeRoleReader merges the roles of several readers
type CompositeRoleReader []domain.RoleReader

// Roles implements domain.RoleReader
func (c CompositeRoleReader) Roles(id domain.NodeID) []domain.Role {
	var roles []domain.Role
	for _, reader := range c {
		if reader != nil {
			roles = append(roles, reader.Roles(id)...)
		}
	}
	return domain.UniqueRoles(roles)
}

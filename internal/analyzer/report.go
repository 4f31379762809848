package analyzer

import "github.com/ludo-technologies/dddscan/domain"

// Categorize tags every node and groups it into a report category.
// Ambiguous classes are listed as uncategorized.
func (c *Classifier) Categorize(nodes []domain.Node) ([]domain.ClassTag, domain.ReportCategories) {
	tags := make([]domain.ClassTag, 0, len(nodes))
	var categories domain.ReportCategories

	for _, node := range nodes {
		tag := c.Tag(node.ID)
		tags = append(tags, domain.ClassTag{Class: node.ID, Tag: tag})

		switch tag {
		case string(domain.RoleAggregateRoot):
			categories.AggregateRoots = append(categories.AggregateRoots, node.ID)
		case string(domain.RoleEntity):
			categories.Entities = append(categories.Entities, node.ID)
		case string(domain.RoleFactory):
			categories.Factories = append(categories.Factories, node.ID)
		case string(domain.RoleRepository):
			categories.Repositories = append(categories.Repositories, node.ID)
		case string(domain.RoleService):
			categories.Services = append(categories.Services, node.ID)
		case string(domain.RoleValueObject):
			categories.ValueObjects = append(categories.ValueObjects, node.ID)
		case domain.TagInterface:
			categories.Interfaces = append(categories.Interfaces, node.ID)
		case domain.TagException:
			categories.Exceptions = append(categories.Exceptions, node.ID)
		default:
			categories.Uncategorized = append(categories.Uncategorized, node.ID)
		}
	}

	return tags, categories
}

// ForbiddenDescriptions renders every forbidden relation once, in order
func (c *Classifier) ForbiddenDescriptions(relations []domain.Relation) ([]string, error) {
	descriptions := []string{}
	seen := make(map[string]struct{})
	for _, rel := range relations {
		v, found, err := c.forbiddenViolation(rel)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		if _, ok := seen[v.Message]; ok {
			continue
		}
		seen[v.Message] = struct{}{}
		descriptions = append(descriptions, v.Message)
	}
	return descriptions, nil
}

// DefaultReportEdges are the edges a categorization report inspects
func DefaultReportEdges() []domain.Edge {
	return []domain.Edge{domain.EdgeProduces, domain.EdgeConsumes, domain.EdgeThrows}
}

// DefaultIgnoreRules returns the ignore rules applied to check graphs
func DefaultIgnoreRules() domain.IgnoreRules {
	return domain.IgnoreRules{
		Names: []string{
			"string", "class-string", "self", "static", "callable", "mixed", "bool",
			"int", "float", "null", "void", "never", "iterable", "list",
			"DateTimeImmutable", "DateTime", "Throwable", "Exception", "Stringable",
			"array", "float|int", "string|Stringable", "array<string,mixed>",
			"array<string,string>", "Generator", "object", domain.UnknownExceptionName,
		},
	}
}

// DefaultReportIgnoreRules extends DefaultIgnoreRules with framework and
// vendor namespaces and inline array shapes.
func DefaultReportIgnoreRules() domain.IgnoreRules {
	rules := DefaultIgnoreRules()
	rules.Prefixes = []string{
		`App\Kernel`, `App\CLI\`, `App\DDD\`, `Doctrine\`, `Symfony\`, `Psr\`,
		`PhpParser\`, `phpDocumentor\`, `Monolog\`, `OpenTelemetry\`, `Rx\`,
		`React\`, `InfluxDB2\`, `EasyCorp\Bundle\EasyAdminBundle\`,
	}
	rules.Substrings = []string{"array<", "array{"}
	return rules
}

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/dddscan/domain"
)

func orderContext() *domain.SourceItem {
	return &domain.SourceItem{
		FQN:       `App\Domain\Order`,
		Namespace: `App\Domain`,
		Imports: []domain.Import{
			{Alias: "Customer", FQN: `App\Crm\Customer`},
			{Alias: "Amount", FQN: `App\Shared\Money`},
			{Alias: "Crm", FQN: `App\Crm`},
			{Alias: "DateTime", FQN: `App\Clock\DateTime`},
		},
	}
}

func TestTypeResolverResolve(t *testing.T) {
	resolver := NewTypeResolver(nil)
	ctx := orderContext()

	tests := []struct {
		name     string
		written  string
		expected domain.NodeID
	}{
		{"scalar", "int", "int"},
		{"standard class", "DateTimeImmutable", "DateTimeImmutable"},
		{"standard wins over import", "DateTime", "DateTime"},
		{"self", "self", "self"},
		{"fully qualified", `\Vendor\Thing`, `Vendor\Thing`},
		{"fully qualified standard", `\Throwable`, "Throwable"},
		{"import", "Customer", `App\Crm\Customer`},
		{"aliased import", "Amount", `App\Shared\Money`},
		{"qualified through alias", `Crm\Lead`, `App\Crm\Lead`},
		{"qualified without alias", `Sub\Thing`, `App\Domain\Sub\Thing`},
		{"relative", `namespace\Sub\Thing`, `App\Domain\Sub\Thing`},
		{"namespace fallback", "Line", `App\Domain\Line`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Resolve(ctx, domain.NewTypeReference(tt.written))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTypeResolverWithoutNamespace(t *testing.T) {
	resolver := NewTypeResolver(nil)
	ctx := &domain.SourceItem{FQN: "Order"}

	assert.Equal(t, domain.NodeID("Line"), resolver.Resolve(ctx, domain.NewTypeReference("Line")))
	assert.Equal(t, domain.NodeID(`Sub\Line`), resolver.Resolve(ctx, domain.NewTypeReference(`Sub\Line`)))
	assert.Equal(t, domain.NodeID("Line"), resolver.Resolve(nil, domain.NewTypeReference("Line")))
}

func TestTypeResolverStandardNamesAreVerbatim(t *testing.T) {
	resolver := NewTypeResolver(nil)
	contexts := []*domain.SourceItem{
		orderContext(),
		{FQN: "Plain"},
		{FQN: `X\Y`, Namespace: "X", Imports: []domain.Import{{Alias: "int", FQN: `X\Int`}}},
	}

	qualifications := []domain.Qualification{
		domain.QualificationUnqualified,
		domain.QualificationQualified,
		domain.QualificationRelative,
		domain.QualificationSpecialSelf,
		domain.QualificationUnknown,
	}

	for _, name := range DefaultStandardNames() {
		for _, ctx := range contexts {
			for _, q := range qualifications {
				ref := domain.TypeReference{RawName: name, Qualification: q}
				assert.Equal(t, domain.NodeID(name), resolver.Resolve(ctx, ref), "name %q in %s", name, ctx.FQN)
			}
		}
	}
}

func TestTypeResolverImportsWin(t *testing.T) {
	resolver := NewTypeResolver(nil)
	ctx := orderContext()

	qualifications := []domain.Qualification{
		domain.QualificationUnqualified,
		domain.QualificationQualified,
		domain.QualificationRelative,
		domain.QualificationUnknown,
	}

	for _, imp := range ctx.Imports {
		if resolver.IsStandard(imp.Alias) {
			continue
		}
		for _, q := range qualifications {
			ref := domain.TypeReference{RawName: imp.Alias, Qualification: q}
			assert.Equal(t, imp.FQN, resolver.Resolve(ctx, ref), "alias %s as %s", imp.Alias, q)
		}
	}
}

func TestTypeResolverCustomStandardNames(t *testing.T) {
	resolver := NewTypeResolver([]string{"Money"})
	ctx := orderContext()

	assert.Equal(t, domain.NodeID("Money"), resolver.Resolve(ctx, domain.NewTypeReference("Money")))
	assert.Equal(t, domain.NodeID(`App\Domain\int`), resolver.Resolve(ctx, domain.NewTypeReference("int")))
}

func TestTypeResolverScalarCase(t *testing.T) {
	resolver := NewTypeResolver(nil)
	assert.True(t, resolver.IsStandard("INT"))
	assert.True(t, resolver.IsStandard("Stringable"))
	assert.False(t, resolver.IsStandard("Order"))
}

package analyzer

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/dddscan/domain"
)

func nodes(ids ...domain.NodeID) []domain.Node {
	out := make([]domain.Node, len(ids))
	for i, id := range ids {
		out[i] = domain.Node{ID: id}
	}
	return out
}

func TestIgnoreFilter(t *testing.T) {
	filter := NewIgnoreFilter(domain.IgnoreRules{
		Names:      []string{"string", "Exception"},
		Prefixes:   []string{`Symfony\`, ""},
		Substrings: []string{"array<", ""},
	})

	tests := []struct {
		id     domain.NodeID
		node   bool
		target bool
	}{
		{"string", true, true},
		{"Exception", true, true},
		{`App\Exception`, true, false},
		{`Symfony\Component\Foo`, true, true},
		{`App\Symfony\Foo`, false, false},
		{"array<string,Foo>", true, true},
		{`App\Shape\array<int>`, true, true},
		{`App\Order`, false, false},
		{`App\StringValue`, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			assert.Equal(t, tt.node, filter.Ignored(tt.id), "node mode")
			assert.Equal(t, tt.target, filter.IgnoredTarget(tt.id), "target mode")
		})
	}
}

func TestReduceRelationsKeepsProjectClassesNamedLikeIgnoredTypes(t *testing.T) {
	input := []domain.Relation{
		{From: `App\Billing\InvoiceNumber`, Edge: domain.EdgeConsumes, To: `App\Billing\Number\Generator`},
		{From: `App\Billing\InvoiceNumber`, Edge: domain.EdgeProduces, To: "Generator"},
		{From: `App\Billing\InvoiceNumber`, Edge: domain.EdgeThrows, To: `App\Billing\Exception`},
		{From: `App\Billing\InvoiceNumber`, Edge: domain.EdgeThrows, To: "Exception"},
	}

	reduced := ReduceRelations(slices.Values(input), DefaultIgnoreRules(), nil)

	assert.Equal(t, []domain.Relation{input[0], input[2]}, reduced)
}

func TestReduceNodes(t *testing.T) {
	rules := domain.IgnoreRules{Names: []string{"int"}, Prefixes: []string{`Vendor\`}}
	input := nodes(`App\B`, "int", `App\A`, `App\B`, `Vendor\X`, `App\A`, `App\C`)

	reduced := ReduceNodes(slices.Values(input), rules)

	assert.Equal(t, nodes(`App\B`, `App\A`, `App\C`), reduced)
}

func TestReduceRelations(t *testing.T) {
	rules := domain.IgnoreRules{Names: []string{"string"}, Substrings: []string{"Internal"}}
	input := []domain.Relation{
		{From: `App\A`, Edge: domain.EdgeConsumes, To: `App\B`},
		{From: `App\A`, Edge: domain.EdgeConsumes, To: "string"},
		{From: "string", Edge: domain.EdgeConsumes, To: `App\B`},
		{From: `App\A`, Edge: domain.EdgeImplements, To: `App\I`},
		{From: `App\A`, Edge: domain.EdgeConsumes, To: `App\B`},
		{From: `App\A`, Edge: domain.EdgeThrows, To: `App\InternalError`},
		{From: `App\A`, Edge: domain.EdgeProduces, To: `App\B`},
	}

	reduced := ReduceRelations(slices.Values(input), rules, []domain.Edge{domain.EdgeConsumes, domain.EdgeProduces, domain.EdgeThrows})

	assert.Equal(t, []domain.Relation{
		{From: `App\A`, Edge: domain.EdgeConsumes, To: `App\B`},
		{From: "string", Edge: domain.EdgeConsumes, To: `App\B`},
		{From: `App\A`, Edge: domain.EdgeProduces, To: `App\B`},
	}, reduced)
}

func TestReduceRelationsAllEdgesByDefault(t *testing.T) {
	input := []domain.Relation{
		{From: `App\A`, Edge: domain.EdgeImplements, To: `App\I`},
		{From: `App\A`, Edge: domain.EdgeExtends, To: `App\Base`},
	}
	assert.Equal(t, input, ReduceRelations(slices.Values(input), domain.IgnoreRules{}, nil))
}

func TestReduceIsIdempotent(t *testing.T) {
	rules := DefaultIgnoreRules()
	nodeInput := nodes(`App\A`, "int", `App\A`, `App\B`, "Exception", `App\B`)
	relInput := []domain.Relation{
		{From: `App\A`, Edge: domain.EdgeConsumes, To: `App\B`},
		{From: `App\A`, Edge: domain.EdgeConsumes, To: `App\B`},
		{From: `App\A`, Edge: domain.EdgeConsumes, To: "int"},
		{From: `App\B`, Edge: domain.EdgeThrows, To: domain.UnknownExceptionName},
	}

	once := ReduceNodes(slices.Values(nodeInput), rules)
	twice := ReduceNodes(slices.Values(once), rules)
	assert.Equal(t, once, twice)

	relOnce := ReduceRelations(slices.Values(relInput), rules, nil)
	relTwice := ReduceRelations(slices.Values(relOnce), rules, nil)
	assert.Equal(t, relOnce, relTwice)
	assert.Len(t, relOnce, 1)
}

func TestReducerIncrementalMerge(t *testing.T) {
	r := NewNodeReducer(domain.IgnoreRules{})
	r.AddAll(slices.Values(nodes(`App\A`, `App\B`)))
	r.AddAll(slices.Values(nodes(`App\B`, `App\C`)))

	assert.True(t, r.Add(domain.Node{ID: `App\D`}))
	assert.False(t, r.Add(domain.Node{ID: `App\A`}))
	assert.Equal(t, nodes(`App\A`, `App\B`, `App\C`, `App\D`), r.Nodes())

	rr := NewRelationReducer(domain.IgnoreRules{}, nil)
	rel := domain.Relation{From: `App\A`, Edge: domain.EdgeConsumes, To: `App\B`}
	assert.True(t, rr.Add(rel))
	assert.False(t, rr.Add(rel))
	assert.Equal(t, []domain.Relation{rel}, rr.Relations())
}

package analyzer

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/dddscan/domain"
)

func ptr[T any](v T) *T { return &v }

func TestGraphBuilderRelations(t *testing.T) {
	item := &domain.SourceItem{
		FQN:        `App\Order`,
		Namespace:  "App",
		Imports:    []domain.Import{{Alias: "Money", FQN: `Shared\Money`}},
		Implements: []domain.TypeReference{domain.NewTypeReference("HasId")},
		Extends:    ptr(domain.NewTypeReference(`\Base\Model`)),
		Methods: []domain.MethodSignature{
			{
				Owner: `App\Order`,
				Name:  "pay",
				Arguments: []domain.Argument{
					{Name: "amount", Type: domain.NewTypeReference("Money")},
					{Name: "note", Type: domain.NewTypeReference("string")},
				},
				Return: domain.RegularReturn(domain.NewTypeReference("Receipt")),
				Throws: []domain.TypeReference{domain.NewTypeReference("PaymentFailed"), domain.UnknownException()},
			},
			{
				Owner:  `App\Order`,
				Name:   "self",
				Return: domain.RegularReturn(domain.NewTypeReference("self")),
			},
			{
				Owner:  `App\Order`,
				Name:   "close",
				Return: domain.VoidReturn(),
			},
		},
	}

	g := NewGraphBuilder(NewTypeResolver(nil))
	relations := slices.Collect(g.Relations(item))

	assert.Equal(t, []domain.Relation{
		{From: `App\Order`, Edge: domain.EdgeImplements, To: `App\HasId`},
		{From: `App\Order`, Edge: domain.EdgeExtends, To: `Base\Model`},
		{From: `App\Order`, Edge: domain.EdgeConsumes, To: `Shared\Money`},
		{From: `App\Order`, Edge: domain.EdgeConsumes, To: "string"},
		{From: `App\Order`, Edge: domain.EdgeProduces, To: `App\Receipt`},
		{From: `App\Order`, Edge: domain.EdgeThrows, To: `App\PaymentFailed`},
		{From: `App\Order`, Edge: domain.EdgeThrows, To: domain.UnknownExceptionName},
	}, relations)

	nodes := slices.Collect(g.Nodes(item))
	assert.Equal(t, domain.Node{ID: `App\Order`}, nodes[0])
	assert.Len(t, nodes, len(relations)+1)
	for i, rel := range relations {
		assert.Equal(t, rel.To, nodes[i+1].ID)
	}
}

func TestGraphBuilderParentInterfaces(t *testing.T) {
	item := &domain.SourceItem{
		FQN:              `App\Repo`,
		Namespace:        "App",
		Kind:             domain.DeclarationInterface,
		ParentInterfaces: []domain.TypeReference{domain.NewTypeReference("Reader"), domain.NewTypeReference("Writer")},
	}

	relations := slices.Collect(NewGraphBuilder(nil).Relations(item))
	assert.Equal(t, []domain.Relation{
		{From: `App\Repo`, Edge: domain.EdgeExtends, To: `App\Reader`},
		{From: `App\Repo`, Edge: domain.EdgeExtends, To: `App\Writer`},
	}, relations)
}

func TestGraphBuilderIsLazyAndRestartable(t *testing.T) {
	item := &domain.SourceItem{
		FQN:        `App\A`,
		Namespace:  "App",
		Implements: []domain.TypeReference{domain.NewTypeReference("X"), domain.NewTypeReference("Y"), domain.NewTypeReference("Z")},
	}
	g := NewGraphBuilder(nil)
	seq := g.Relations(item)

	var first []domain.Relation
	for rel := range seq {
		first = append(first, rel)
		if len(first) == 1 {
			break
		}
	}
	assert.Len(t, first, 1)

	assert.Len(t, slices.Collect(seq), 3)
	assert.Equal(t, slices.Collect(seq), slices.Collect(g.Relations(item)))
}

func TestGraphBuilderAllItems(t *testing.T) {
	a := &domain.SourceItem{FQN: `App\A`, Namespace: "App", Implements: []domain.TypeReference{domain.NewTypeReference("B")}}
	b := &domain.SourceItem{FQN: `App\B`, Namespace: "App"}
	g := NewGraphBuilder(nil)

	assert.Equal(t, []domain.Node{{ID: `App\A`}, {ID: `App\B`}, {ID: `App\B`}}, slices.Collect(g.AllNodes([]*domain.SourceItem{a, nil, b})))
	assert.Equal(t, []domain.Relation{{From: `App\A`, Edge: domain.EdgeImplements, To: `App\B`}},
		slices.Collect(g.AllRelations([]*domain.SourceItem{a, b})))

	var count int
	for range g.AllNodes([]*domain.SourceItem{a, b}) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestGraphBuilderCollectionAndGeneratorReturns(t *testing.T) {
	item := extract(t, "Finder.php", `<?php
namespace App;

class Finder
{
    /**
     * @return array<Foo>
     */
    public function all()
    {
    }

    /**
     * @return \Generator<int, Bar>
     */
    public function stream(): \Generator
    {
    }
}
`)

	relations := slices.Collect(NewGraphBuilder(nil).Relations(item))
	assert.Equal(t, []domain.Relation{
		{From: `App\Finder`, Edge: domain.EdgeProduces, To: `App\Foo`},
		{From: `App\Finder`, Edge: domain.EdgeProduces, To: `App\Bar`},
	}, relations)
}

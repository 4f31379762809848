package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectionElementType(t *testing.T) {
	tests := []struct {
		name     string
		docType  string
		expected string
		found    bool
	}{
		{"array suffix", "Foo[]", "Foo", true},
		{"array suffix with spaces", "  Foo[]  ", "Foo", true},
		{"qualified array suffix", `\App\Foo[]`, `\App\Foo`, true},
		{"array generic", "array<Foo>", "Foo", true},
		{"list generic", "list< Foo >", "Foo", true},
		{"iterable generic", "iterable<Foo>", "Foo", true},
		{"leading separator", `\iterable<Foo>`, "Foo", true},
		{"case insensitive", "ARRAY<Foo>", "Foo", true},
		{"non-empty list", "non-empty-list<Foo>", "", false},
		{"key value", "array<int, Foo>", "Foo", true},
		{"key value nested", "array<string, Collection<int, Foo>>", "Collection<int, Foo>", true},
		{"leading alternative", "Foo[]|null", "Foo", true},
		{"leading null alternative", "null|Foo[]", "", false},
		{"union inside generic", "array<int|string, Foo>|null", "Foo", true},
		{"plain name", "Foo", "", false},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
		{"empty generic", "array<>", "", false},
		{"three parameters", "array<int, string, Foo>", "", false},
		{"other generic", "Collection<Foo>", "", false},
		{"bare brackets", "[]", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elem, found := CollectionElementType(tt.docType)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, elem)
		})
	}
}

func TestGeneratorElementType(t *testing.T) {
	tests := []struct {
		name     string
		docType  string
		expected string
		found    bool
	}{
		{"single parameter", "Generator<Foo>", "Foo", true},
		{"key and value", "Generator<int, Foo>", "Foo", true},
		{"leading separator", `\Generator<int, Foo>`, "Foo", true},
		{"nested generic not split", "Generator<int, Collection<Foo>>", "Collection<Foo>", true},
		{"nested key value", "Generator<int, array<string, Foo>>", "array<string, Foo>", true},
		{"send and return types", "Generator<int, Foo, mixed, void>", "Foo", true},
		{"trimmed", "Generator< Foo >", "Foo", true},
		{"not a generator", "Iterator<Foo>", "", false},
		{"collection", "array<Foo>", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elem, found := GeneratorElementType(tt.docType)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, elem)
		})
	}
}

func TestParseDocComment(t *testing.T) {
	doc := `/**
     * Loads the lines.
     *
     * @param array<int, Line> $lines the lines
     * @param Foo[] ...$rest
     * @param string &$name
     * @param $untyped
     * @return Generator<int, Line>
     * @throws NotFound
     */`

	types := ParseDocComment(doc)

	assert.Equal(t, "Generator<int, Line>", types.Return)
	assert.Equal(t, map[string]string{
		"lines": "array<int, Line>",
		"rest":  "Foo[]",
		"name":  "string",
	}, types.Params)

	lines, ok := types.Param("lines")
	assert.True(t, ok)
	assert.Equal(t, "array<int, Line>", lines)

	_, ok = types.Param("missing")
	assert.False(t, ok)
}

func TestParseDocCommentSingleLine(t *testing.T) {
	types := ParseDocComment(`/** @return Foo[] */`)
	assert.Equal(t, "Foo[]", types.Return)

	types = ParseDocComment(`/** @return Foo*/`)
	assert.Equal(t, "Foo", types.Return)
}

func TestParseDocCommentEmpty(t *testing.T) {
	types := ParseDocComment("")
	assert.Empty(t, types.Return)
	assert.Empty(t, types.Params)
}

func TestParseDocCommentFirstParamWins(t *testing.T) {
	types := ParseDocComment(`/**
     * @param Foo $x
     * @param Bar $x
     */`)
	assert.Equal(t, "Foo", types.Params["x"])
}

func TestDocTypeExtractionIsDeterministic(t *testing.T) {
	inputs := []string{"Foo[]", "array<int, Foo>", "Generator<int, Collection<Foo>>", ""}
	for _, in := range inputs {
		a1, ok1 := CollectionElementType(in)
		a2, ok2 := CollectionElementType(in)
		assert.Equal(t, a1, a2)
		assert.Equal(t, ok1, ok2)

		g1, gok1 := GeneratorElementType(in)
		g2, gok2 := GeneratorElementType(in)
		assert.Equal(t, g1, g2)
		assert.Equal(t, gok1, gok2)
	}
}

func TestSplitTopLevel(t *testing.T) {
	assert.Equal(t, []string{"int", "Collection<Foo, Bar>"}, splitTopLevel("int, Collection<Foo, Bar>", ','))
	assert.Equal(t, []string{"array{a: int, b: Foo}", "null"}, splitTopLevel("array{a: int, b: Foo}|null", '|'))
	assert.Nil(t, splitTopLevel("  ", ','))
}

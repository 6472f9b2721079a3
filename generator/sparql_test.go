package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkml/linkml-go"
)

func TestSPARQLGeneratorWrapsNonRequiredSlotsInOptional(t *testing.T) {
	s := newFixtureSchema()
	gen := SPARQLGenerator{}

	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	content := outputs[0].Content
	assert.Contains(t, content, "CONSTRUCT {")
	assert.Contains(t, content, "?product a :Product .")
	assert.Contains(t, content, "OPTIONAL { ?product :price ?price . }")
	assert.NotContains(t, content, "OPTIONAL { ?product :sku ?sku . }")
}

func TestSPARQLGeneratorEmitsAllQueryKindsByDefault(t *testing.T) {
	s := newFixtureSchema()
	gen := SPARQLGenerator{}

	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)

	content := outputs[0].Content
	assert.Contains(t, content, "SELECT ")
	assert.Contains(t, content, "CONSTRUCT {")
	assert.Contains(t, content, "ASK {")
	assert.Contains(t, content, "INSERT DATA {")
	assert.Contains(t, content, "DELETE WHERE {")
}

func TestSPARQLGeneratorHonorsQueryKindOption(t *testing.T) {
	s := newFixtureSchema()
	gen := SPARQLGenerator{}

	outputs, err := gen.Generate(s, Options{SPARQLQueryKinds: []string{"ask"}})
	require.NoError(t, err)

	content := outputs[0].Content
	assert.Contains(t, content, "ASK {")
	assert.NotContains(t, content, "CONSTRUCT {")
	assert.NotContains(t, content, "SELECT ")
	assert.NotContains(t, content, "INSERT DATA {")
	assert.NotContains(t, content, "DELETE WHERE {")
}

func TestSPARQLGeneratorAskOnlyCoversRequiredSlots(t *testing.T) {
	s := newFixtureSchema()
	gen := SPARQLGenerator{}

	outputs, err := gen.Generate(s, Options{SPARQLQueryKinds: []string{"ask"}})
	require.NoError(t, err)

	content := outputs[0].Content
	assert.Contains(t, content, "?product :sku ?sku .")
	assert.Contains(t, content, "?product :title ?title .")
	assert.NotContains(t, content, "?product :price ?price .")
}

func TestSPARQLGeneratorEmitsFilterClauses(t *testing.T) {
	s := newFixtureSchema()
	s.Slots.Set("sku", &linkml.SlotDef{
		Name: "sku", Range: strPtr("string"), Identifier: boolPtr(true), Required: boolPtr(true),
		Pattern: strPtr("^[A-Z]{3}-[0-9]+$"),
	})
	s.Slots.Set("price", &linkml.SlotDef{
		Name: "price", Range: strPtr("float"),
		MinimumValue: linkml.NewRat(0), MaximumValue: linkml.NewRat(1000),
	})

	gen := SPARQLGenerator{}
	outputs, err := gen.Generate(s, Options{SPARQLQueryKinds: []string{"select"}})
	require.NoError(t, err)

	content := outputs[0].Content
	assert.Contains(t, content, `FILTER(REGEX(?sku, "^[A-Z]{3}-[0-9]+$"))`)
	assert.Contains(t, content, "FILTER(?price >= 0 && ?price <= 1000)")
	assert.Contains(t, content, `FILTER(?category IN ("books", "electronics"))`)
}

func TestSPARQLGeneratorInsertDataAndDeleteWhere(t *testing.T) {
	s := newFixtureSchema()
	gen := SPARQLGenerator{}

	outputs, err := gen.Generate(s, Options{SPARQLQueryKinds: []string{"insert", "delete"}})
	require.NoError(t, err)

	content := outputs[0].Content
	assert.Contains(t, content, "INSERT DATA {")
	assert.Contains(t, content, "<urn:uuid:REPLACE_ME> a :Product .")
	assert.Contains(t, content, "DELETE WHERE {")
	assert.Contains(t, content, "?product :sku ?sku .")
}

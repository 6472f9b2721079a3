package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkml/linkml-go"
)

func TestGraphQLGeneratorEmitsEnumAndType(t *testing.T) {
	s := newFixtureSchema()
	gen := GraphQLGenerator{}

	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	content := outputs[0].Content
	assert.Contains(t, content, "enum Category {")
	assert.Contains(t, content, "type Product {")
	assert.Contains(t, content, "sku: String!")
	assert.Contains(t, content, "tags: [String!]")
}

func TestGraphQLGeneratorEmitsInterfaceForAbstractClass(t *testing.T) {
	s := newFixtureSchema()
	s.Classes.Set("Catalogable", &linkml.ClassDef{Name: "Catalogable", Abstract: true, Slots: []string{"title"}})
	product, _ := s.Class("Product")
	product.IsA = strPtr("Catalogable")

	gen := GraphQLGenerator{}
	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)

	content := outputs[0].Content
	assert.Contains(t, content, "interface Catalogable {")
	assert.Contains(t, content, "type Product implements Catalogable {")
}

func TestGraphQLGeneratorEmitsRootTypesAndFilters(t *testing.T) {
	s := newFixtureSchema()
	gen := GraphQLGenerator{}

	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)

	content := outputs[0].Content
	assert.Contains(t, content, "type Query {")
	assert.Contains(t, content, "type Mutation {")
	assert.Contains(t, content, "type ProductConnection {")
	assert.Contains(t, content, "type ProductEdge {")
	assert.Contains(t, content, "type PageInfo {")
	assert.Contains(t, content, "input ProductFilterInput {")
	assert.Contains(t, content, "input StringFilter {")
	assert.Contains(t, content, "input ProductCreateInput {")
	assert.Contains(t, content, "input ProductUpdateInput {")
}

package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkml/linkml-go"
)

func TestOpenAPIGeneratorEmitsComponentSchemas(t *testing.T) {
	s := newFixtureSchema()
	gen := OpenAPIGenerator{}

	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	content := outputs[0].Content
	assert.Contains(t, content, "openapi: 3.0.3")
	assert.Contains(t, content, "Category:")
	assert.Contains(t, content, "Product:")
	assert.Contains(t, content, "required:")
	assert.Contains(t, content, "- sku")
	assert.Contains(t, content, "$ref: '#/components/schemas/Category'")
}

func TestOpenAPIGeneratorEmitsPathsAndErrorResponses(t *testing.T) {
	s := newFixtureSchema()
	gen := OpenAPIGenerator{}

	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)

	content := outputs[0].Content
	assert.Contains(t, content, "/products:")
	assert.Contains(t, content, "/products/{id}:")
	assert.Contains(t, content, "$ref: '#/components/responses/BadRequest'")
	assert.Contains(t, content, "$ref: '#/components/responses/NotFound'")
	assert.Contains(t, content, "ProductCreateRequest:")
	assert.Contains(t, content, "ProductUpdateRequest:")
	assert.Contains(t, content, "minProperties: 1")
}

func TestOpenAPIGeneratorEncodesIsAWithAllOf(t *testing.T) {
	s := newFixtureSchema()
	s.Classes.Set("DigitalProduct", &linkml.ClassDef{Name: "DigitalProduct", IsA: strPtr("Product")})

	gen := OpenAPIGenerator{}
	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)

	content := outputs[0].Content
	assert.Contains(t, content, "DigitalProduct:")
	assert.Contains(t, content, "allOf:")
	assert.Contains(t, content, "- $ref: '#/components/schemas/Product'")
}

package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkml/linkml-go"
)

func TestTypeScriptGeneratorEmitsInterfaceAndUnionType(t *testing.T) {
	s := newFixtureSchema()
	gen := TypeScriptGenerator{}

	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	content := outputs[0].Content
	assert.Contains(t, content, `export type Category = "books" | "electronics";`)
	assert.Contains(t, content, "export interface Product {")
	assert.Contains(t, content, "sku: string;")
	assert.Contains(t, content, "price?: number;")
	assert.Contains(t, content, "tags?: readonly string[];")
}

func TestTypeScriptGeneratorEmitsSharedValidationTypes(t *testing.T) {
	s := newFixtureSchema()
	gen := TypeScriptGenerator{}

	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)

	content := outputs[0].Content
	assert.Contains(t, content, "export interface ValidationError {")
	assert.Contains(t, content, "export type ValidationResult<T> =")
}

func TestTypeScriptGeneratorEmitsTypeGuardAndValidateFn(t *testing.T) {
	s := newFixtureSchema()
	gen := TypeScriptGenerator{}

	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)

	content := outputs[0].Content
	assert.Contains(t, content, "export function isProduct(value: unknown): value is Product {")
	assert.Contains(t, content, "export function validateProduct(value: unknown): ValidationResult<Product> {")
	assert.Contains(t, content, `typeof v.sku !== "string"`)
}

func TestTypeScriptGeneratorRendersUniqueAndOrderedMultivalued(t *testing.T) {
	s := newFixtureSchema()
	s.Slots.Set("aliases", &linkml.SlotDef{Name: "aliases", Range: strPtr("string"), Multivalued: boolPtr(true), Unique: boolPtr(true)})
	s.Slots.Set("steps", &linkml.SlotDef{Name: "steps", Range: strPtr("string"), Multivalued: boolPtr(true), Ordered: boolPtr(true)})
	product, _ := s.Class("Product")
	product.Slots = append(product.Slots, "aliases", "steps")

	gen := TypeScriptGenerator{}
	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)

	content := outputs[0].Content
	assert.Contains(t, content, "aliases?: Set<string>;")
	assert.Contains(t, content, "steps?: string[];")
}

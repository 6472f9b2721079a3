package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkml/linkml-go"
)

func TestJSONSchemaGeneratorEmitsRequiredAndBounds(t *testing.T) {
	s := newFixtureSchema()
	one := linkml.NewRat(1)
	s.Slots.Set("price", &linkml.SlotDef{Name: "price", Range: strPtr("float"), MinimumValue: one})

	gen := JSONSchemaGenerator{}
	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	content := outputs[0].Content
	assert.Contains(t, content, `"$id"`)
	assert.Contains(t, content, `"required": ["sku", "title"]`)
	assert.Contains(t, content, `"minimum": 1`)
}

func TestCerberusGeneratorEmitsRequiredRule(t *testing.T) {
	s := newFixtureSchema()
	gen := CerberusGenerator{}

	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Contains(t, outputs[0].Content, "'required': True")
}

func TestJoiGeneratorUsesCommonJSExport(t *testing.T) {
	s := newFixtureSchema()
	gen := JoiGenerator{}

	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Contains(t, outputs[0].Content, "Joi.object({")
	assert.Contains(t, outputs[0].Content, "module.exports")
}

func TestYupGeneratorUsesESMExport(t *testing.T) {
	s := newFixtureSchema()
	gen := YupGenerator{}

	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Contains(t, outputs[0].Content, "yup.object().shape({")
	assert.Contains(t, outputs[0].Content, "export {")
}

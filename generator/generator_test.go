package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkml/linkml-go"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func newFixtureSchema() *linkml.Schema {
	s := linkml.NewSchema("catalog")
	s.ID = "https://example.org/catalog"

	s.Slots.Set("sku", &linkml.SlotDef{Name: "sku", Range: strPtr("string"), Identifier: boolPtr(true), Required: boolPtr(true)})
	s.Slots.Set("title", &linkml.SlotDef{Name: "title", Range: strPtr("string"), Required: boolPtr(true)})
	s.Slots.Set("price", &linkml.SlotDef{Name: "price", Range: strPtr("float")})
	s.Slots.Set("category", &linkml.SlotDef{Name: "category", Range: strPtr("Category")})
	s.Slots.Set("tags", &linkml.SlotDef{Name: "tags", Range: strPtr("string"), Multivalued: boolPtr(true)})

	s.Enums.Set("Category", &linkml.EnumDef{Name: "Category", PermissibleValues: []linkml.PermissibleValue{
		{Text: "books"}, {Text: "electronics"},
	}})

	s.Classes.Set("Product", &linkml.ClassDef{
		Name:  "Product",
		Slots: []string{"sku", "title", "price", "category", "tags"},
	})

	return s
}

func TestRegistryHasAllTargets(t *testing.T) {
	for _, name := range []string{"sql", "graphql", "openapi", "typescript", "sparql", "jsonschema", "cerberus", "joi", "yup", "summary"} {
		_, ok := Get(name)
		assert.True(t, ok, "expected generator %q to be registered", name)
	}
}

func TestCollectSlotsWalksInheritance(t *testing.T) {
	s := newFixtureSchema()
	s.Classes.Set("DigitalProduct", &linkml.ClassDef{
		Name: "DigitalProduct", IsA: strPtr("Product"), Slots: []string{"tags"},
	})

	slots, err := CollectSlots(s, "DigitalProduct")
	require.NoError(t, err)
	assert.Contains(t, slots, "sku")
	assert.Contains(t, slots, "title")
}

func TestWrapDocWrapsAtColumn(t *testing.T) {
	out := WrapDoc("one two three four five six seven eight", "//", 20)
	for _, line := range splitLines(out) {
		assert.LessOrEqual(t, len(line), 20)
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

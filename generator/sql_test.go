package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkml/linkml-go"
)

func TestSQLGeneratorEmitsTableWithPrimaryKeyAndFK(t *testing.T) {
	s := newFixtureSchema()
	s.Classes.Set("Manufacturer", &linkml.ClassDef{Name: "Manufacturer"})
	classDef, _ := s.Class("Product")
	s.Slots.Set("manufacturer", &linkml.SlotDef{Name: "manufacturer", Range: strPtr("Manufacturer")})
	classDef.Slots = append(classDef.Slots, "manufacturer")
	gen := SQLGenerator{}

	outputs, err := gen.Generate(s, Options{Dialect: "postgres"})
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	content := outputs[0].Content
	assert.Contains(t, content, "CREATE TABLE product")
	assert.Contains(t, content, "id UUID PRIMARY KEY")
	assert.Contains(t, content, "FOREIGN KEY (manufacturer) REFERENCES manufacturer(id)")
	assert.Contains(t, content, "CREATE TYPE CATEGORY_ENUM AS ENUM")
}

func TestSQLGeneratorMySQLDialectUsesTinyIntForBoolean(t *testing.T) {
	s := newFixtureSchema()
	classDef, _ := s.Class("Product")
	s.Slots.Set("in_stock", &linkml.SlotDef{Name: "in_stock", Range: strPtr("boolean")})
	classDef.Slots = append(classDef.Slots, "in_stock")

	gen := SQLGenerator{}
	outputs, err := gen.Generate(s, Options{Dialect: "mysql"})
	require.NoError(t, err)
	assert.Contains(t, outputs[0].Content, "TINYINT(1)")
}

func TestSQLGeneratorMultivaluedClassRefEmitsJunctionTable(t *testing.T) {
	s := newFixtureSchema()
	s.Classes.Set("Manufacturer", &linkml.ClassDef{Name: "Manufacturer"})
	classDef, _ := s.Class("Product")
	s.Slots.Set("manufacturers", &linkml.SlotDef{Name: "manufacturers", Range: strPtr("Manufacturer"), Multivalued: boolPtr(true)})
	classDef.Slots = append(classDef.Slots, "manufacturers")

	gen := SQLGenerator{}
	outputs, err := gen.Generate(s, Options{Dialect: "postgres"})
	require.NoError(t, err)
	assert.Contains(t, outputs[0].Content, "product_manufacturers")
}

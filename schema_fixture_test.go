package linkml

func boolPtr(b bool) *bool     { return &b }
func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// newPersonSchema builds a small fixture: a Person class with a required
// name, an optional pattern-constrained email, a multivalued tags list, and
// an Address class referenced by an optional home_address slot.
func newPersonSchema() *Schema {
	s := NewSchema("person-schema")
	s.ID = "https://example.org/person-schema"

	s.Slots.Set("name", &SlotDef{Name: "name", Range: strPtr("string"), Required: boolPtr(true)})
	s.Slots.Set("email", &SlotDef{Name: "email", Range: strPtr("string"), Pattern: strPtr(`^[^@]+@[^@]+$`)})
	s.Slots.Set("age", &SlotDef{Name: "age", Range: strPtr("integer"), MinimumValue: NewRat(0), MaximumValue: NewRat(150)})
	s.Slots.Set("tags", &SlotDef{Name: "tags", Range: strPtr("string"), Multivalued: boolPtr(true)})
	s.Slots.Set("home_address", &SlotDef{Name: "home_address", Range: strPtr("Address")})
	s.Slots.Set("street", &SlotDef{Name: "street", Range: strPtr("string"), Required: boolPtr(true)})

	s.Classes.Set("Address", &ClassDef{
		Name:  "Address",
		Slots: []string{"street"},
	})

	s.Classes.Set("Person", &ClassDef{
		Name:  "Person",
		Slots: []string{"name", "email", "age", "tags", "home_address"},
	})

	return s
}

func personInstance() *OrderedMap {
	om := NewOrderedMap()
	om.Set("name", "Ada Lovelace")
	om.Set("email", "ada@example.org")
	om.Set("age", 36)
	return om
}

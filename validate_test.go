package linkml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsWellFormedInstance(t *testing.T) {
	schema := newPersonSchema()
	report := Validate(personInstance(), schema, "Person", ValidationOptions{})
	assert.True(t, report.Valid(), "expected valid report, got issues: %+v", report.All())
}

func TestValidateReportsMissingRequiredSlot(t *testing.T) {
	schema := newPersonSchema()
	om := NewOrderedMap()
	om.Set("email", "ada@example.org")

	report := Validate(om, schema, "Person", ValidationOptions{})
	require.False(t, report.Valid())

	found := false
	for _, issue := range report.All() {
		if issue.Code == CodeRequiredFieldMissing {
			found = true
		}
	}
	assert.True(t, found, "expected a required-field-missing issue")
}

func TestValidateRejectsPatternMismatch(t *testing.T) {
	schema := newPersonSchema()
	om := personInstance()
	om.Set("email", "not-an-email")

	report := Validate(om, schema, "Person", ValidationOptions{})
	assert.False(t, report.Valid())
}

func TestValidateRejectsRangeViolation(t *testing.T) {
	schema := newPersonSchema()
	om := personInstance()
	om.Set("age", 200)

	report := Validate(om, schema, "Person", ValidationOptions{})
	assert.False(t, report.Valid())
}

func TestValidateRecursesIntoNestedClass(t *testing.T) {
	schema := newPersonSchema()
	om := personInstance()
	address := NewOrderedMap()
	om.Set("home_address", address) // missing required "street"

	report := Validate(om, schema, "Person", ValidationOptions{})
	assert.False(t, report.Valid())
}

func TestValidateWithCompilerMatchesInterpretivePath(t *testing.T) {
	schema := newPersonSchema()
	compiler := NewCompiler(16)

	plain := Validate(personInstance(), schema, "Person", ValidationOptions{})
	compiled := Validate(personInstance(), schema, "Person", ValidationOptions{Compiler: compiler})

	assert.Equal(t, plain.Valid(), compiled.Valid())
	assert.True(t, compiled.Valid())
}

func TestValidateCollectionDetectsDuplicateIdentifiers(t *testing.T) {
	schema := NewSchema("identified")
	schema.Slots.Set("id", &SlotDef{Name: "id", Range: strPtr("string"), Identifier: boolPtr(true)})
	schema.Classes.Set("Item", &ClassDef{Name: "Item", Slots: []string{"id"}})

	first := NewOrderedMap()
	first.Set("id", "a")
	second := NewOrderedMap()
	second.Set("id", "a")

	report := ValidateCollection([]any{first, second}, schema, "Item", ValidationOptions{})
	require.False(t, report.Valid())

	found := false
	for _, issue := range report.All() {
		if issue.Code == CodeDuplicateIdentifier {
			found = true
		}
	}
	assert.True(t, found, "expected a duplicate-identifier issue")
}

func TestValidateFailFastStopsAtFirstError(t *testing.T) {
	schema := newPersonSchema()
	om := NewOrderedMap() // missing required "name"

	failFast := true
	report := Validate(om, schema, "Person", ValidationOptions{FailFast: &failFast})
	assert.False(t, report.Valid())
	assert.LessOrEqual(t, len(report.All()), 2)
}

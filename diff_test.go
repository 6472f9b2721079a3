package linkml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffDetectsAddedAndRemovedClasses(t *testing.T) {
	oldSchema := NewSchema("s")
	oldSchema.Classes.Set("Widget", &ClassDef{Name: "Widget"})

	newSchema := NewSchema("s")
	newSchema.Classes.Set("Gadget", &ClassDef{Name: "Gadget"})

	result, err := Diff(oldSchema, newSchema, DiffOptions{})
	require.NoError(t, err)
	assert.Contains(t, result.RemovedClasses, "Widget")
	assert.Contains(t, result.AddedClasses, "Gadget")
}

func TestDiffAllowsCompatibleTypePromotion(t *testing.T) {
	oldSchema := NewSchema("s")
	oldSchema.Slots.Set("count", &SlotDef{Name: "count", Range: strPtr("integer")})
	newSchema := NewSchema("s")
	newSchema.Slots.Set("count", &SlotDef{Name: "count", Range: strPtr("float")})

	result, err := Diff(oldSchema, newSchema, DiffOptions{})
	require.NoError(t, err)
	require.Len(t, result.ModifiedSlots, 1)
	assert.False(t, result.ModifiedSlots[0].Breaking, "integer -> float should be a non-breaking promotion")
}

func TestDiffFlagsIncompatibleTypeChangeAsBreaking(t *testing.T) {
	oldSchema := NewSchema("s")
	oldSchema.Slots.Set("count", &SlotDef{Name: "count", Range: strPtr("string")})
	newSchema := NewSchema("s")
	newSchema.Slots.Set("count", &SlotDef{Name: "count", Range: strPtr("integer")})

	result, err := Diff(oldSchema, newSchema, DiffOptions{})
	require.NoError(t, err)
	require.Len(t, result.ModifiedSlots, 1)
	assert.True(t, result.ModifiedSlots[0].Breaking)
}

func TestDiffRefusesRemovingRequiredSlot(t *testing.T) {
	oldSchema := NewSchema("s")
	oldSchema.Slots.Set("name", &SlotDef{Name: "name", Required: boolPtr(true)})
	oldSchema.Classes.Set("Person", &ClassDef{Name: "Person", Slots: []string{"name"}})

	newSchema := NewSchema("s")
	newSchema.Classes.Set("Person", &ClassDef{Name: "Person", Slots: []string{}})

	_, err := Diff(oldSchema, newSchema, DiffOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncompatibleSchemas))
}

func TestDiffHonorsIgnoreInDiffAnnotation(t *testing.T) {
	oldSchema := NewSchema("s")
	oldSchema.Classes.Set("Internal", &ClassDef{Name: "Internal", Extra: map[string]any{"ignore_in_diff": true}})
	newSchema := NewSchema("s")

	result, err := Diff(oldSchema, newSchema, DiffOptions{})
	require.NoError(t, err)
	assert.NotContains(t, result.RemovedClasses, "Internal")
}

func TestDiffBreakingChangesOnlyFilters(t *testing.T) {
	oldSchema := NewSchema("s")
	oldSchema.Slots.Set("nickname", &SlotDef{Name: "nickname", Description: strPtr("old doc")})
	newSchema := NewSchema("s")
	newSchema.Slots.Set("nickname", &SlotDef{Name: "nickname", Description: strPtr("new doc")})

	result, err := Diff(oldSchema, newSchema, DiffOptions{BreakingChangesOnly: true})
	require.NoError(t, err)
	assert.Empty(t, result.ModifiedSlots, "a documentation-only change should be filtered out under BreakingChangesOnly")
}

func TestRenderMarkdownAndJSONPatchProduceOutput(t *testing.T) {
	oldSchema := NewSchema("s")
	oldSchema.Classes.Set("Widget", &ClassDef{Name: "Widget"})
	newSchema := NewSchema("s")

	result, err := Diff(oldSchema, newSchema, DiffOptions{})
	require.NoError(t, err)

	md := RenderMarkdown(result)
	assert.Contains(t, md, "Widget")

	ops := RenderJSONPatch(result)
	require.Len(t, ops, 1)
	assert.Equal(t, "remove", ops[0].Op)
	assert.Equal(t, "/classes/Widget", ops[0].Path)
}

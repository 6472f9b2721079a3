package linkml

import "fmt"

// AttributeChange records one changed field on a modified entity, mapping
// attribute name to its (old, new) value, per spec.md §4.5.
type AttributeChange struct {
	Attribute string
	Old       any
	New       any
}

// EntityDiff describes how a single named entity (class, slot, type, or
// enum) changed between two schema versions.
type EntityDiff struct {
	Name       string
	Kind       string // "class", "slot", "type", "enum"
	Changes    []AttributeChange
	Breaking   bool
	BreakingWhy string
}

// DiffResult is the output of comparing two Schemas, per spec.md §4.5.
type DiffResult struct {
	AddedClasses    []string
	RemovedClasses  []string
	ModifiedClasses []EntityDiff

	AddedSlots    []string
	RemovedSlots  []string
	ModifiedSlots []EntityDiff

	AddedTypes    []string
	RemovedTypes  []string
	ModifiedTypes []EntityDiff

	AddedEnums    []string
	RemovedEnums  []string
	ModifiedEnums []EntityDiff

	BreakingChanges []EntityDiff
}

// DiffOptions parameterize a Diff call (SUPPLEMENTED beyond spec.md's bare
// two-Schema input, per the generator/diff renderer contracts).
type DiffOptions struct {
	BreakingChangesOnly  bool
	ContextLines         int
	IncludeDocumentation bool
}

// diffAnnotations reads the optional per-entity overrides from an Extra map,
// per spec.md §4.5's closing paragraph.
type diffAnnotations struct {
	ignoreInDiff     bool
	ignoreDocsInDiff bool
	breakingIfChanged map[string]bool
}

func readDiffAnnotations(extra map[string]any) diffAnnotations {
	a := diffAnnotations{}
	if extra == nil {
		return a
	}
	if v, ok := extra["ignore_in_diff"].(bool); ok {
		a.ignoreInDiff = v
	}
	if v, ok := extra["ignore_docs_in_diff"].(bool); ok {
		a.ignoreDocsInDiff = v
	}
	if list, ok := extra["breaking_if_changed"].([]any); ok {
		a.breakingIfChanged = map[string]bool{}
		for _, item := range list {
			if s, ok := item.(string); ok {
				a.breakingIfChanged[s] = true
			}
		}
	}
	return a
}

// Diff compares oldSchema against newSchema and returns a classified
// DiffResult, per spec.md §4.5. It returns ErrIncompatibleSchemas if removing
// a required or identifier slot would leave no non-destructive description
// of the change (the "loud refusal" case).
func Diff(oldSchema, newSchema *Schema, opts DiffOptions) (*DiffResult, error) {
	result := &DiffResult{}

	if err := diffClasses(oldSchema, newSchema, result, opts); err != nil {
		return nil, err
	}
	diffSlots(oldSchema, newSchema, result, opts)
	diffTypes(oldSchema, newSchema, result, opts)
	diffEnums(oldSchema, newSchema, result, opts)

	collectBreaking(result)

	if opts.BreakingChangesOnly {
		result.ModifiedClasses = onlyBreaking(result.ModifiedClasses)
		result.ModifiedSlots = onlyBreaking(result.ModifiedSlots)
		result.ModifiedTypes = onlyBreaking(result.ModifiedTypes)
		result.ModifiedEnums = onlyBreaking(result.ModifiedEnums)
	}

	return result, nil
}

func onlyBreaking(entities []EntityDiff) []EntityDiff {
	var out []EntityDiff
	for _, e := range entities {
		if e.Breaking {
			out = append(out, e)
		}
	}
	return out
}

func collectBreaking(result *DiffResult) {
	for _, name := range result.RemovedClasses {
		result.BreakingChanges = append(result.BreakingChanges, EntityDiff{Name: name, Kind: "class", Breaking: true, BreakingWhy: "class removed"})
	}
	for _, name := range result.RemovedSlots {
		result.BreakingChanges = append(result.BreakingChanges, EntityDiff{Name: name, Kind: "slot", Breaking: true, BreakingWhy: "slot removed from class"})
	}
	for _, name := range result.RemovedEnums {
		result.BreakingChanges = append(result.BreakingChanges, EntityDiff{Name: name, Kind: "enum", Breaking: true, BreakingWhy: "enum removed"})
	}
	for _, list := range [][]EntityDiff{result.ModifiedClasses, result.ModifiedSlots, result.ModifiedTypes, result.ModifiedEnums} {
		for _, e := range list {
			if e.Breaking {
				result.BreakingChanges = append(result.BreakingChanges, e)
			}
		}
	}
}

func diffClasses(oldSchema, newSchema *Schema, result *DiffResult, opts DiffOptions) error {
	var diffErr error
	oldSchema.Classes.Range(func(name string, v any) bool {
		oldClass := v.(*ClassDef)
		ann := readDiffAnnotations(oldClass.Extra)
		if ann.ignoreInDiff {
			return true
		}
		newClass, ok := newSchema.Class(name)
		if !ok {
			result.RemovedClasses = append(result.RemovedClasses, name)
			return true
		}
		changes, breaking, why, refuseErr := compareClassDef(oldSchema, newSchema, oldClass, newClass, ann, opts)
		if refuseErr != nil {
			diffErr = refuseErr
			return false
		}
		if len(changes) > 0 {
			result.ModifiedClasses = append(result.ModifiedClasses, EntityDiff{
				Name: name, Kind: "class", Changes: changes, Breaking: breaking, BreakingWhy: why,
			})
		}
		return true
	})
	if diffErr != nil {
		return diffErr
	}

	newSchema.Classes.Range(func(name string, v any) bool {
		if _, ok := oldSchema.Class(name); !ok {
			result.AddedClasses = append(result.AddedClasses, name)
		}
		return true
	})

	return nil
}

// compareClassDef diffs two class versions, including the per-slot breaking
// rules (removed required/identifier slots, added required slots, type
// changes, cardinality reductions) folded up into the class-level verdict,
// per spec.md §4.5. Removing a required or identifier slot has no
// non-destructive migration, so it fails diff generation outright (the
// "loud refusal" case) rather than merely being flagged breaking.
func compareClassDef(oldSchema, newSchema *Schema, oldClass, newClass *ClassDef, ann diffAnnotations, opts DiffOptions) ([]AttributeChange, bool, string, error) {
	var changes []AttributeChange
	breaking := false
	why := ""

	mark := func(reason string) {
		breaking = true
		if why == "" {
			why = reason
		}
	}

	oldIsA := ptrString(oldClass.IsA)
	newIsA := ptrString(newClass.IsA)
	if oldIsA != newIsA {
		changes = append(changes, AttributeChange{Attribute: "is_a", Old: oldIsA, New: newIsA})
		if ann.breakingIfChanged == nil || ann.breakingIfChanged["is_a"] {
			mark("is_a parent changed")
		}
	}

	if !ann.ignoreDocsInDiff {
		oldDesc := ptrString(oldClass.Description)
		newDesc := ptrString(newClass.Description)
		if oldDesc != newDesc {
			changes = append(changes, AttributeChange{Attribute: "description", Old: oldDesc, New: newDesc})
		}
	}

	oldSlots := stringSet(oldClass.Slots)
	newSlots := stringSet(newClass.Slots)
	for slotName := range oldSlots {
		if newSlots[slotName] {
			continue
		}
		changes = append(changes, AttributeChange{Attribute: "slots", Old: slotName, New: nil})
		if slotDef, ok := oldSchema.Slot(slotName); ok {
			if (slotDef.Required != nil && *slotDef.Required) || (slotDef.Identifier != nil && *slotDef.Identifier) {
				return nil, false, "", fmt.Errorf("%w: class %s removes required/identifier slot %s with no non-destructive migration", ErrIncompatibleSchemas, oldClass.Name, slotName)
			}
		}
		mark(fmt.Sprintf("slot %s removed from class", slotName))
	}
	for slotName := range newSlots {
		if oldSlots[slotName] {
			continue
		}
		changes = append(changes, AttributeChange{Attribute: "slots", Old: nil, New: slotName})
		if slotDef, ok := newSchema.Slot(slotName); ok && slotDef.Required != nil && *slotDef.Required {
			mark(fmt.Sprintf("required slot %s added", slotName))
		}
	}

	return changes, breaking, why, nil
}

// diffSlots diffs top-level slot definitions (not attributes, which are
// class-scoped and covered by compareClassDef's slot-list comparison).
func diffSlots(oldSchema, newSchema *Schema, result *DiffResult, opts DiffOptions) {
	oldSchema.Slots.Range(func(name string, v any) bool {
		oldSlot := v.(*SlotDef)
		ann := readDiffAnnotations(oldSlot.Extra)
		if ann.ignoreInDiff {
			return true
		}
		newSlot, ok := newSchema.Slot(name)
		if !ok {
			result.RemovedSlots = append(result.RemovedSlots, name)
			return true
		}
		changes, breaking, why := compareSlotDef(oldSlot, newSlot, ann, opts)
		if len(changes) > 0 {
			result.ModifiedSlots = append(result.ModifiedSlots, EntityDiff{Name: name, Kind: "slot", Changes: changes, Breaking: breaking, BreakingWhy: why})
		}
		return true
	})
	newSchema.Slots.Range(func(name string, v any) bool {
		if _, ok := oldSchema.Slot(name); !ok {
			result.AddedSlots = append(result.AddedSlots, name)
		}
		return true
	})
}

// compatibleTypePromotions lists non-breaking scalar-range widenings, per
// spec.md §4.5's type-change compatibility table.
var compatibleTypePromotions = map[string]map[string]bool{
	"integer": {"float": true, "double": true, "string": true},
	"float":   {"double": true, "string": true},
	"boolean": {"string": true},
}

func compareSlotDef(oldSlot, newSlot *SlotDef, ann diffAnnotations, opts DiffOptions) ([]AttributeChange, bool, string) {
	var changes []AttributeChange
	breaking := false
	why := ""
	mark := func(field, reason string) {
		if ann.breakingIfChanged != nil && !ann.breakingIfChanged[field] {
			return
		}
		breaking = true
		if why == "" {
			why = reason
		}
	}

	oldRange := ptrString(oldSlot.Range)
	newRange := ptrString(newSlot.Range)
	if oldRange != newRange {
		changes = append(changes, AttributeChange{Attribute: "range", Old: oldRange, New: newRange})
		if !compatibleTypePromotions[oldRange][newRange] {
			mark("range", fmt.Sprintf("type change from %s to %s is not a compatible promotion", oldRange, newRange))
		}
	}

	oldRequired := ptrBool(oldSlot.Required)
	newRequired := ptrBool(newSlot.Required)
	if oldRequired != newRequired {
		changes = append(changes, AttributeChange{Attribute: "required", Old: oldRequired, New: newRequired})
		if !oldRequired && newRequired {
			mark("required", "slot became required")
		}
		if oldRequired && (oldSlot.Identifier != nil && *oldSlot.Identifier) {
			mark("required", "identifier slot can no longer be made optional without a migration")
		}
	}

	oldMulti := ptrBool(oldSlot.Multivalued)
	newMulti := ptrBool(newSlot.Multivalued)
	if oldMulti != newMulti {
		changes = append(changes, AttributeChange{Attribute: "multivalued", Old: oldMulti, New: newMulti})
		if oldMulti && !newMulti {
			mark("multivalued", "cardinality reduced from multivalued to single-valued")
		}
	}

	if !ann.ignoreDocsInDiff {
		oldDesc := ptrString(oldSlot.Description)
		newDesc := ptrString(newSlot.Description)
		if oldDesc != newDesc {
			changes = append(changes, AttributeChange{Attribute: "description", Old: oldDesc, New: newDesc})
		}
	}

	return changes, breaking, why
}

func diffTypes(oldSchema, newSchema *Schema, result *DiffResult, opts DiffOptions) {
	oldSchema.Types.Range(func(name string, v any) bool {
		newType, ok := newSchema.Type(name)
		if !ok {
			result.RemovedTypes = append(result.RemovedTypes, name)
			return true
		}
		oldType := v.(*TypeDef)
		var changes []AttributeChange
		if ptrString(oldType.BaseType) != ptrString(newType.BaseType) {
			changes = append(changes, AttributeChange{Attribute: "base_type", Old: ptrString(oldType.BaseType), New: ptrString(newType.BaseType)})
		}
		if ptrString(oldType.Pattern) != ptrString(newType.Pattern) {
			changes = append(changes, AttributeChange{Attribute: "pattern", Old: ptrString(oldType.Pattern), New: ptrString(newType.Pattern)})
		}
		if len(changes) > 0 {
			result.ModifiedTypes = append(result.ModifiedTypes, EntityDiff{Name: name, Kind: "type", Changes: changes, Breaking: true, BreakingWhy: "base type constraints changed"})
		}
		return true
	})
	newSchema.Types.Range(func(name string, v any) bool {
		if _, ok := oldSchema.Type(name); !ok {
			result.AddedTypes = append(result.AddedTypes, name)
		}
		return true
	})
}

func diffEnums(oldSchema, newSchema *Schema, result *DiffResult, opts DiffOptions) {
	oldSchema.Enums.Range(func(name string, v any) bool {
		oldEnum := v.(*EnumDef)
		newEnum, ok := newSchema.Enum(name)
		if !ok {
			result.RemovedEnums = append(result.RemovedEnums, name)
			return true
		}
		oldValues := enumValueSet(oldEnum)
		newValues := enumValueSet(newEnum)
		var changes []AttributeChange
		breaking := false
		why := ""
		for val := range oldValues {
			if !newValues[val] {
				changes = append(changes, AttributeChange{Attribute: "permissible_values", Old: val, New: nil})
				breaking = true
				if why == "" {
					why = "enum value removed"
				}
			}
		}
		for val := range newValues {
			if !oldValues[val] {
				changes = append(changes, AttributeChange{Attribute: "permissible_values", Old: nil, New: val})
			}
		}
		if len(changes) > 0 {
			result.ModifiedEnums = append(result.ModifiedEnums, EntityDiff{Name: name, Kind: "enum", Changes: changes, Breaking: breaking, BreakingWhy: why})
		}
		return true
	})
	newSchema.Enums.Range(func(name string, v any) bool {
		if _, ok := oldSchema.Enum(name); !ok {
			result.AddedEnums = append(result.AddedEnums, name)
		}
		return true
	})
}

func enumValueSet(e *EnumDef) map[string]bool {
	out := map[string]bool{}
	for _, pv := range e.PermissibleValues {
		out[pv.Text] = true
	}
	return out
}

func stringSet(list []string) map[string]bool {
	out := make(map[string]bool, len(list))
	for _, s := range list {
		out[s] = true
	}
	return out
}

func ptrString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ptrBool(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}

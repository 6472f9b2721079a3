package linkml

import (
	"fmt"
	"sync"
)

// BuiltinTypes names the base range types every schema may use without
// declaring them, per spec.md §3's "Built-in types include string, integer,
// float/double, boolean, date, datetime, uri, decimal". "Any" is a pseudo
// range accepting every value (spec.md §8's boundary-behavior note on
// "range-typed optional slots reject null when range != Any").
var BuiltinTypes = map[string]bool{
	"string":   true,
	"integer":  true,
	"float":    true,
	"double":   true,
	"boolean":  true,
	"date":     true,
	"datetime": true,
	"uri":      true,
	"decimal":  true,
	"Any":      true,
}

// PermissibleValue is one member of an enumeration, per spec.md §3's EnumDef.
type PermissibleValue struct {
	Text        string
	Description string
	Meaning     string
}

// SlotCondition is one slot-scoped test within a Rule's preconditions or
// postconditions. Only the fields present are checked (nil means "not
// tested"), consistent with the field-level merge semantics used for
// SlotDef overrides elsewhere in this model.
type SlotCondition struct {
	Required *bool
	Pattern  *string
	Equals   *string
	Range    *string
}

// Rule is a class-level conditional constraint: when Preconditions hold,
// Postconditions must also hold, per spec.md §4.4 step 5.
type Rule struct {
	Description    string
	Preconditions  *OrderedMap // slot name -> *SlotCondition
	Postconditions *OrderedMap // slot name -> *SlotCondition
	ElseConditions *OrderedMap // slot name -> *SlotCondition
}

// SlotDef is a field declaration, per spec.md §3. Optional scalar fields are
// pointers so the resolver's field-level override merge (§4.1 step 4) can
// tell "unset, inherit" from "explicitly set".
type SlotDef struct {
	Name        string
	Description *string
	Range       *string

	Required    *bool
	Multivalued *bool
	Identifier  *bool
	Unique      *bool
	Ordered     *bool
	Inlined     *bool
	InlinedList *bool

	Pattern *string

	MinimumValue *Rat
	MaximumValue *Rat
	Inclusive    *bool

	MinimumCardinality *int
	MaximumCardinality *int
	MinimumLength      *int
	MaximumLength      *int

	PermissibleValues []PermissibleValue
	DefaultValue      any

	Extra map[string]any
}

// mergeSlotDef layers override atop base (the earlier, lower-precedence
// layer), returning a new SlotDef with override's set fields taking
// precedence and unset fields falling back to base, per spec.md §4.1 step 4.
func mergeSlotDef(base, override *SlotDef) *SlotDef {
	if base == nil {
		return cloneSlotDef(override)
	}
	if override == nil {
		return cloneSlotDef(base)
	}
	out := cloneSlotDef(base)
	out.Name = override.Name

	if override.Description != nil {
		out.Description = override.Description
	}
	if override.Range != nil {
		out.Range = override.Range
	}
	if override.Required != nil {
		out.Required = override.Required
	}
	if override.Multivalued != nil {
		out.Multivalued = override.Multivalued
	}
	if override.Identifier != nil {
		out.Identifier = override.Identifier
	}
	if override.Unique != nil {
		out.Unique = override.Unique
	}
	if override.Ordered != nil {
		out.Ordered = override.Ordered
	}
	if override.Inlined != nil {
		out.Inlined = override.Inlined
	}
	if override.InlinedList != nil {
		out.InlinedList = override.InlinedList
	}
	if override.Pattern != nil {
		out.Pattern = override.Pattern
	}
	if override.MinimumValue != nil {
		out.MinimumValue = override.MinimumValue
	}
	if override.MaximumValue != nil {
		out.MaximumValue = override.MaximumValue
	}
	if override.Inclusive != nil {
		out.Inclusive = override.Inclusive
	}
	if override.MinimumCardinality != nil {
		out.MinimumCardinality = override.MinimumCardinality
	}
	if override.MaximumCardinality != nil {
		out.MaximumCardinality = override.MaximumCardinality
	}
	if override.MinimumLength != nil {
		out.MinimumLength = override.MinimumLength
	}
	if override.MaximumLength != nil {
		out.MaximumLength = override.MaximumLength
	}
	if override.PermissibleValues != nil {
		out.PermissibleValues = override.PermissibleValues
	}
	if override.DefaultValue != nil {
		out.DefaultValue = override.DefaultValue
	}
	for k, v := range override.Extra {
		if out.Extra == nil {
			out.Extra = map[string]any{}
		}
		out.Extra[k] = v
	}
	return out
}

func cloneSlotDef(s *SlotDef) *SlotDef {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// TypeDef is a user-defined scalar type, per spec.md §3.
type TypeDef struct {
	Name         string
	BaseType     *string
	Pattern      *string
	MinimumValue *Rat
	MaximumValue *Rat
}

// EnumDef is a named enumeration, per spec.md §3.
type EnumDef struct {
	Name              string
	PermissibleValues []PermissibleValue
}

// ClassDef is a named bag of slots, per spec.md §3.
type ClassDef struct {
	Name        string
	Description *string
	IsA         *string
	Mixins      []string

	Abstract bool
	TreeRoot bool

	Slots      []string
	Attributes *OrderedMap // name -> *SlotDef
	SlotUsage  *OrderedMap // name -> *SlotDef

	Rules []Rule

	// Extra carries opaque mapping-URI lists (exact_mappings, close_mappings,
	// ...) and diff annotations (ignore_in_diff, ignore_docs_in_diff,
	// breaking_if_changed), preserved verbatim per spec.md §3.
	Extra map[string]any
}

// ValidationSettings are schema-level validation defaults, overridable
// per-call (caller wins when set), per spec.md §3 and §4.4 step 1.
type ValidationSettings struct {
	FailFast                  bool
	FailOnWarning             bool
	MaxDepth                  int
	AllowAdditionalProperties bool
	UseCache                  bool
}

// DefaultValidationSettings returns the engine's built-in defaults, applied
// when a schema declares no settings of its own.
func DefaultValidationSettings() ValidationSettings {
	return ValidationSettings{
		FailFast:                  false,
		FailOnWarning:             false,
		MaxDepth:                  0, // unbounded
		AllowAdditionalProperties: true,
		UseCache:                  true,
	}
}

// Schema is the top-level aggregate, per spec.md §3. Once constructed it is
// treated as immutable and safe to share by reference across concurrent
// validation and generation calls (spec.md §5).
type Schema struct {
	ID          string
	Name        string
	Version     string
	Description string

	Classes  *OrderedMap // name -> *ClassDef
	Slots    *OrderedMap // name -> *SlotDef
	Types    *OrderedMap // name -> *TypeDef
	Enums    *OrderedMap // name -> *EnumDef
	Subsets  *OrderedMap // name -> string (description)
	Prefixes *OrderedMap // curie prefix -> uri

	Settings *ValidationSettings

	resolveMu    sync.Mutex
	resolveCache map[string]*ResolvedClass
}

// NewSchema returns an empty Schema ready to be populated, e.g. by tests
// constructing a fixture programmatically instead of parsing a document.
func NewSchema(name string) *Schema {
	return &Schema{
		Name:     name,
		Classes:  NewOrderedMap(),
		Slots:    NewOrderedMap(),
		Types:    NewOrderedMap(),
		Enums:    NewOrderedMap(),
		Subsets:  NewOrderedMap(),
		Prefixes: NewOrderedMap(),
	}
}

// Class looks up a class by name.
func (s *Schema) Class(name string) (*ClassDef, bool) {
	v, ok := s.Classes.Get(name)
	if !ok {
		return nil, false
	}
	c, ok := v.(*ClassDef)
	return c, ok
}

// Slot looks up a top-level slot definition by name.
func (s *Schema) Slot(name string) (*SlotDef, bool) {
	v, ok := s.Slots.Get(name)
	if !ok {
		return nil, false
	}
	d, ok := v.(*SlotDef)
	return d, ok
}

// Type looks up a user-defined type by name.
func (s *Schema) Type(name string) (*TypeDef, bool) {
	v, ok := s.Types.Get(name)
	if !ok {
		return nil, false
	}
	d, ok := v.(*TypeDef)
	return d, ok
}

// Enum looks up an enum by name.
func (s *Schema) Enum(name string) (*EnumDef, bool) {
	v, ok := s.Enums.Get(name)
	if !ok {
		return nil, false
	}
	d, ok := v.(*EnumDef)
	return d, ok
}

// EachClass calls fn for every class in the schema, in declaration order.
func (s *Schema) EachClass(fn func(name string, classDef *ClassDef)) {
	s.Classes.Range(func(name string, v any) bool {
		fn(name, v.(*ClassDef))
		return true
	})
}

// IsKnownRange reports whether name resolves to a built-in type, a
// user-defined type, a class, or an enum, per spec.md §3's referential
// invariant on `range`.
func (s *Schema) IsKnownRange(name string) bool {
	if BuiltinTypes[name] {
		return true
	}
	if _, ok := s.Type(name); ok {
		return true
	}
	if _, ok := s.Class(name); ok {
		return true
	}
	if _, ok := s.Enum(name); ok {
		return true
	}
	return false
}

// Validate checks the schema-wide invariants from spec.md §3: every
// top-level slot's range resolves, every is_a/mixin reference resolves,
// CURIE prefixes resolve, and no is_a cycle exists. Ranges declared in
// attributes or slot_usage are not checked.
func (s *Schema) Validate() error {
	var err error
	s.Classes.Range(func(name string, v any) bool {
		class := v.(*ClassDef)
		if class.IsA != nil {
			if _, ok := s.Class(*class.IsA); !ok {
				err = fmt.Errorf("%w: class %s is_a %s", ErrUnknownClass, name, *class.IsA)
				return false
			}
		}
		for _, m := range class.Mixins {
			if _, ok := s.Class(m); !ok {
				err = fmt.Errorf("%w: class %s mixin %s", ErrUnknownClass, name, m)
				return false
			}
		}
		for _, slotName := range class.Slots {
			if _, ok := s.Slot(slotName); ok {
				continue
			}
			if class.Attributes != nil {
				if _, ok := class.Attributes.Get(slotName); ok {
					continue
				}
			}
			err = fmt.Errorf("%w: class %s slot %s", ErrUnknownSlot, name, slotName)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	checkRange := func(owner, field string, rangeName *string) error {
		if rangeName == nil {
			return nil
		}
		if !s.IsKnownRange(*rangeName) {
			return fmt.Errorf("%w: %s.%s range %s", ErrUnknownType, owner, field, *rangeName)
		}
		return nil
	}

	s.Slots.Range(func(name string, v any) bool {
		slot := v.(*SlotDef)
		if e := checkRange(name, "range", slot.Range); e != nil {
			err = e
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	if e := s.validateCURIEs(); e != nil {
		return e
	}

	if e := s.resolveAllCycleCheck(); e != nil {
		return e
	}
	return nil
}

// validateCURIEs checks that every CURIE reachable from the schema —
// PermissibleValue.Meaning and the mapping-URI lists parked in ClassDef/
// SlotDef.Extra (exact_mappings, close_mappings, related_mappings,
// narrow_mappings, broad_mappings, class_uri, slot_uri) — resolves against
// s.Prefixes, per spec.md §3's "prefix references in CURIEs must resolve".
func (s *Schema) validateCURIEs() error {
	var err error

	checkCURIE := func(owner, curie string) bool {
		if _, e := expandCURIE(curie, s.Prefixes, false); e != nil {
			err = fmt.Errorf("%s: %w", owner, e)
			return false
		}
		return true
	}

	s.Enums.Range(func(name string, v any) bool {
		enumDef := v.(*EnumDef)
		for _, pv := range enumDef.PermissibleValues {
			if pv.Meaning == "" {
				continue
			}
			if !checkCURIE(fmt.Sprintf("enum %s permissible value %s", name, pv.Text), pv.Meaning) {
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}

	s.Classes.Range(func(name string, v any) bool {
		class := v.(*ClassDef)
		for _, curie := range mappingCURIEs(class.Extra) {
			if !checkCURIE(fmt.Sprintf("class %s", name), curie) {
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}

	s.Slots.Range(func(name string, v any) bool {
		slot := v.(*SlotDef)
		for _, curie := range mappingCURIEs(slot.Extra) {
			if !checkCURIE(fmt.Sprintf("slot %s", name), curie) {
				return false
			}
		}
		return true
	})
	return err
}

// mappingURIKeys are the LinkML mapping-URI fields that park CURIEs outside
// the typed schema fields, per ClassDef.Extra's doc comment.
var mappingURIKeys = []string{
	"exact_mappings", "close_mappings", "related_mappings",
	"narrow_mappings", "broad_mappings", "class_uri", "slot_uri",
}

// mappingCURIEs extracts every CURIE string parked under extra's
// mappingURIKeys, whether stored as a single string or a list.
func mappingCURIEs(extra map[string]any) []string {
	var out []string
	for _, key := range mappingURIKeys {
		v, ok := extra[key]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case string:
			out = append(out, val)
		case []any:
			for _, item := range val {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

// resolveAllCycleCheck resolves every class once, surfacing the first
// inheritance-cycle error encountered.
func (s *Schema) resolveAllCycleCheck() error {
	var err error
	s.Classes.Range(func(name string, _ any) bool {
		if _, e := s.Resolve(name); e != nil {
			err = e
			return false
		}
		return true
	})
	return err
}

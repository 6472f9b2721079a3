package linkml

import "fmt"

// ResolvedSlot is a slot name paired with its fully merged effective
// definition, in the order the class exposes it.
type ResolvedSlot struct {
	Name string
	Slot *SlotDef
}

// ResolvedClass is the effective, flattened view of a class after walking
// is_a + mixins and layering slot_usage/attributes overrides, per spec.md
// §4.1.
type ResolvedClass struct {
	ClassName     string
	EffectiveSlots []ResolvedSlot
	Ancestors      []string // is_a chain, nearest first
	Mixins         []string // direct + inherited mixins, declaration order
}

// Slot returns the effective SlotDef for name, if the class exposes it.
func (r *ResolvedClass) Slot(name string) (*SlotDef, bool) {
	for _, s := range r.EffectiveSlots {
		if s.Name == name {
			return s.Slot, true
		}
	}
	return nil, false
}

// Resolve computes (and memoizes) the ResolvedClass for className, per
// spec.md §4.1's five-step algorithm: walk is_a deepest-first, then mixins,
// then direct slots, merging overrides layer by layer, with cycle detection.
func (s *Schema) Resolve(className string) (*ResolvedClass, error) {
	s.resolveMu.Lock()
	if s.resolveCache == nil {
		s.resolveCache = make(map[string]*ResolvedClass)
	}
	if cached, ok := s.resolveCache[className]; ok {
		s.resolveMu.Unlock()
		return cached, nil
	}
	s.resolveMu.Unlock()

	if _, ok := s.Class(className); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, className)
	}

	ancestry, err := isAAncestry(s, className, make(map[string]bool))
	if err != nil {
		return nil, err
	}

	type layer struct {
		classDef *ClassDef
		mixin    bool
	}
	var layers []layer
	// deepest ancestor first (ancestry is returned nearest-first, so reverse).
	for i := len(ancestry) - 1; i >= 0; i-- {
		c, _ := s.Class(ancestry[i])
		layers = append(layers, layer{classDef: c})
	}

	target, _ := s.Class(className)

	// mixins: declaration order, lower precedence than is_a for overrides,
	// contributed after the is_a chain per spec.md §4.1 step 2.
	var mixinNames []string
	seenMixin := map[string]bool{}
	var collectMixins func(c *ClassDef)
	collectMixins = func(c *ClassDef) {
		for _, m := range c.Mixins {
			if seenMixin[m] {
				continue
			}
			seenMixin[m] = true
			mixinNames = append(mixinNames, m)
			if mc, ok := s.Class(m); ok {
				layers = append(layers, layer{classDef: mc, mixin: true})
				collectMixins(mc)
			}
		}
	}
	for _, anc := range ancestry {
		if ac, ok := s.Class(anc); ok {
			collectMixins(ac)
		}
	}
	collectMixins(target)

	layers = append(layers, layer{classDef: target})

	var order []string
	seenOrder := map[string]bool{}
	merged := map[string]*SlotDef{}

	resolveSlotBase := func(name string) *SlotDef {
		if sd, ok := s.Slot(name); ok {
			return cloneSlotDef(sd)
		}
		return &SlotDef{Name: name}
	}

	for _, l := range layers {
		for _, slotName := range l.classDef.Slots {
			if !seenOrder[slotName] {
				seenOrder[slotName] = true
				order = append(order, slotName)
				merged[slotName] = resolveSlotBase(slotName)
			}
			if l.classDef.Attributes != nil {
				if v, ok := l.classDef.Attributes.Get(slotName); ok {
					if attrDef, ok := v.(*SlotDef); ok {
						merged[slotName] = mergeSlotDef(merged[slotName], attrDef)
					}
				}
			}
		}
		// a class's own attributes may also declare slots not listed in Slots.
		if l.classDef.Attributes != nil {
			l.classDef.Attributes.Range(func(slotName string, v any) bool {
				if !seenOrder[slotName] {
					seenOrder[slotName] = true
					order = append(order, slotName)
					merged[slotName] = resolveSlotBase(slotName)
				}
				if attrDef, ok := v.(*SlotDef); ok {
					merged[slotName] = mergeSlotDef(merged[slotName], attrDef)
				}
				return true
			})
		}
	}

	// target class's own slot_usage overrides apply last and with the
	// highest precedence, per spec.md §4.1 step 4.
	if target.SlotUsage != nil {
		target.SlotUsage.Range(func(slotName string, v any) bool {
			if !seenOrder[slotName] {
				seenOrder[slotName] = true
				order = append(order, slotName)
				merged[slotName] = resolveSlotBase(slotName)
			}
			if usageDef, ok := v.(*SlotDef); ok {
				merged[slotName] = mergeSlotDef(merged[slotName], usageDef)
			}
			return true
		})
	}

	result := &ResolvedClass{
		ClassName: className,
		Ancestors: ancestry,
		Mixins:    mixinNames,
	}
	for _, name := range order {
		result.EffectiveSlots = append(result.EffectiveSlots, ResolvedSlot{Name: name, Slot: merged[name]})
	}

	s.resolveMu.Lock()
	s.resolveCache[className] = result
	s.resolveMu.Unlock()

	return result, nil
}

// isAAncestry returns className's is_a chain, nearest ancestor first,
// excluding className itself. Detects cycles via bounded DFS, per spec.md
// §4.1 step 5 and §9's "detect cycles by bounded DFS".
func isAAncestry(s *Schema, className string, visiting map[string]bool) ([]string, error) {
	if visiting[className] {
		return nil, fmt.Errorf("%w: %s", ErrCycleDetected, className)
	}
	visiting[className] = true

	class, ok := s.Class(className)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, className)
	}
	if class.IsA == nil {
		return nil, nil
	}

	parentAncestry, err := isAAncestry(s, *class.IsA, visiting)
	if err != nil {
		return nil, err
	}
	return append([]string{*class.IsA}, parentAncestry...), nil
}

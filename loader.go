package linkml

import "fmt"

// LoadYAML parses a YAML-equivalent schema document into a Schema and
// validates its structural invariants, per spec.md §3 and §6 ("the loader
// produces a Schema object").
func LoadYAML(data []byte) (*Schema, error) {
	node, err := DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaParse, err)
	}
	return parseSchemaNode(node)
}

// LoadJSON parses a JSON-equivalent schema document into a Schema.
func LoadJSON(data []byte) (*Schema, error) {
	node, err := DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaParse, err)
	}
	return parseSchemaNode(node)
}

func parseSchemaNode(node any) (*Schema, error) {
	om, ok := node.(*OrderedMap)
	if !ok {
		return nil, fmt.Errorf("%w: schema document must be an object", ErrSchemaParse)
	}

	s := NewSchema(getString(om, "name"))
	s.ID = getString(om, "id")
	s.Version = getString(om, "version")
	s.Description = getString(om, "description")

	if prefixesNode, ok := om.Get("prefixes"); ok {
		if pm, ok := prefixesNode.(*OrderedMap); ok {
			pm.Range(func(k string, v any) bool {
				if str, ok := v.(string); ok {
					s.Prefixes.Set(k, str)
				}
				return true
			})
		}
	}

	if subsetsNode, ok := om.Get("subsets"); ok {
		if sm, ok := subsetsNode.(*OrderedMap); ok {
			sm.Range(func(k string, v any) bool {
				s.Subsets.Set(k, getStringOf(v, "description"))
				return true
			})
		}
	}

	if settingsNode, ok := om.Get("settings"); ok {
		if sm, ok := settingsNode.(*OrderedMap); ok {
			settings := DefaultValidationSettings()
			if v, ok := sm.Get("fail_fast"); ok {
				settings.FailFast, _ = v.(bool)
			}
			if v, ok := sm.Get("fail_on_warning"); ok {
				settings.FailOnWarning, _ = v.(bool)
			}
			if v, ok := sm.Get("max_depth"); ok {
				settings.MaxDepth = intOf(v)
			}
			if v, ok := sm.Get("allow_additional_properties"); ok {
				settings.AllowAdditionalProperties, _ = v.(bool)
			}
			if v, ok := sm.Get("use_cache"); ok {
				settings.UseCache, _ = v.(bool)
			}
			s.Settings = &settings
		}
	}

	if typesNode, ok := om.Get("types"); ok {
		if tm, ok := typesNode.(*OrderedMap); ok {
			tm.Range(func(name string, v any) bool {
				td := parseTypeDef(name, v)
				s.Types.Set(name, td)
				return true
			})
		}
	}

	if enumsNode, ok := om.Get("enums"); ok {
		if em, ok := enumsNode.(*OrderedMap); ok {
			em.Range(func(name string, v any) bool {
				ed := parseEnumDef(name, v)
				s.Enums.Set(name, ed)
				return true
			})
		}
	}

	if slotsNode, ok := om.Get("slots"); ok {
		if sm, ok := slotsNode.(*OrderedMap); ok {
			sm.Range(func(name string, v any) bool {
				sd := parseSlotDef(name, v)
				s.Slots.Set(name, sd)
				return true
			})
		}
	}

	if classesNode, ok := om.Get("classes"); ok {
		if cm, ok := classesNode.(*OrderedMap); ok {
			cm.Range(func(name string, v any) bool {
				cd := parseClassDef(name, v)
				s.Classes.Set(name, cd)
				return true
			})
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseTypeDef(name string, node any) *TypeDef {
	td := &TypeDef{Name: name}
	om, ok := node.(*OrderedMap)
	if !ok {
		return td
	}
	td.BaseType = getStringPtr(om, "base_type")
	td.Pattern = getStringPtr(om, "pattern")
	td.MinimumValue = getRat(om, "minimum_value")
	td.MaximumValue = getRat(om, "maximum_value")
	return td
}

func parseEnumDef(name string, node any) *EnumDef {
	ed := &EnumDef{Name: name}
	om, ok := node.(*OrderedMap)
	if !ok {
		return ed
	}
	if pvNode, ok := om.Get("permissible_values"); ok {
		ed.PermissibleValues = parsePermissibleValues(pvNode)
	}
	return ed
}

func parsePermissibleValues(node any) []PermissibleValue {
	var out []PermissibleValue
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			out = append(out, parseOnePermissibleValue(item))
		}
	case *OrderedMap:
		v.Range(func(k string, val any) bool {
			pv := parseOnePermissibleValue(val)
			pv.Text = k
			out = append(out, pv)
			return true
		})
	}
	return out
}

func parseOnePermissibleValue(node any) PermissibleValue {
	switch v := node.(type) {
	case string:
		return PermissibleValue{Text: v}
	case *OrderedMap:
		pv := PermissibleValue{Text: getString(v, "text")}
		pv.Description = getString(v, "description")
		pv.Meaning = getString(v, "meaning")
		return pv
	default:
		return PermissibleValue{}
	}
}

func parseSlotDef(name string, node any) *SlotDef {
	sd := &SlotDef{Name: name}
	om, ok := node.(*OrderedMap)
	if !ok {
		return sd
	}
	sd.Description = getStringPtr(om, "description")
	sd.Range = getStringPtr(om, "range")
	sd.Required = getBoolPtr(om, "required")
	sd.Multivalued = getBoolPtr(om, "multivalued")
	sd.Identifier = getBoolPtr(om, "identifier")
	sd.Unique = getBoolPtr(om, "unique")
	sd.Ordered = getBoolPtr(om, "ordered")
	sd.Inlined = getBoolPtr(om, "inlined")
	sd.InlinedList = getBoolPtr(om, "inlined_as_list")
	sd.Pattern = getStringPtr(om, "pattern")
	sd.MinimumValue = getRat(om, "minimum_value")
	sd.MaximumValue = getRat(om, "maximum_value")
	sd.Inclusive = getBoolPtr(om, "inclusive")
	sd.MinimumCardinality = getIntPtr(om, "minimum_cardinality")
	sd.MaximumCardinality = getIntPtr(om, "maximum_cardinality")
	sd.MinimumLength = getIntPtr(om, "minimum_length")
	sd.MaximumLength = getIntPtr(om, "maximum_length")
	if pvNode, ok := om.Get("permissible_values"); ok {
		sd.PermissibleValues = parsePermissibleValues(pvNode)
	}
	if v, ok := om.Get("default"); ok {
		sd.DefaultValue = v
	}
	om.Range(func(k string, v any) bool {
		if knownSlotFields[k] {
			return true
		}
		if sd.Extra == nil {
			sd.Extra = map[string]any{}
		}
		sd.Extra[k] = v
		return true
	})
	return sd
}

var knownSlotFields = map[string]bool{
	"description": true, "range": true, "required": true, "multivalued": true,
	"identifier": true, "unique": true, "ordered": true, "inlined": true,
	"inlined_as_list": true, "pattern": true, "minimum_value": true,
	"maximum_value": true, "inclusive": true, "minimum_cardinality": true,
	"maximum_cardinality": true, "minimum_length": true, "maximum_length": true,
	"permissible_values": true, "default": true,
}

var knownClassFields = map[string]bool{
	"description": true, "is_a": true, "mixins": true, "abstract": true,
	"tree_root": true, "slots": true, "attributes": true, "slot_usage": true,
	"rules": true,
}

func parseClassDef(name string, node any) *ClassDef {
	cd := &ClassDef{Name: name}
	om, ok := node.(*OrderedMap)
	if !ok {
		return cd
	}
	cd.Description = getStringPtr(om, "description")
	cd.IsA = getStringPtr(om, "is_a")
	cd.Mixins = getStringList(om, "mixins")
	if v, ok := om.Get("abstract"); ok {
		cd.Abstract, _ = v.(bool)
	}
	if v, ok := om.Get("tree_root"); ok {
		cd.TreeRoot, _ = v.(bool)
	}
	cd.Slots = getStringList(om, "slots")

	if attrsNode, ok := om.Get("attributes"); ok {
		if am, ok := attrsNode.(*OrderedMap); ok {
			cd.Attributes = NewOrderedMap()
			am.Range(func(slotName string, v any) bool {
				cd.Attributes.Set(slotName, parseSlotDef(slotName, v))
				return true
			})
		}
	}

	if usageNode, ok := om.Get("slot_usage"); ok {
		if um, ok := usageNode.(*OrderedMap); ok {
			cd.SlotUsage = NewOrderedMap()
			um.Range(func(slotName string, v any) bool {
				cd.SlotUsage.Set(slotName, parseSlotDef(slotName, v))
				return true
			})
		}
	}

	if rulesNode, ok := om.Get("rules"); ok {
		if list, ok := rulesNode.([]any); ok {
			for _, item := range list {
				cd.Rules = append(cd.Rules, parseRule(item))
			}
		}
	}

	om.Range(func(k string, v any) bool {
		if knownClassFields[k] {
			return true
		}
		if cd.Extra == nil {
			cd.Extra = map[string]any{}
		}
		cd.Extra[k] = v
		return true
	})

	return cd
}

func parseRule(node any) Rule {
	r := Rule{}
	om, ok := node.(*OrderedMap)
	if !ok {
		return r
	}
	r.Description = getString(om, "description")
	if preNode, ok := om.Get("preconditions"); ok {
		r.Preconditions = parseSlotConditions(preNode)
	}
	if postNode, ok := om.Get("postconditions"); ok {
		r.Postconditions = parseSlotConditions(postNode)
	}
	if elseNode, ok := om.Get("else_conditions"); ok {
		r.ElseConditions = parseSlotConditions(elseNode)
	}
	return r
}

func parseSlotConditions(node any) *OrderedMap {
	out := NewOrderedMap()
	om, ok := node.(*OrderedMap)
	if !ok {
		return out
	}
	scNode, ok := om.Get("slot_conditions")
	if !ok {
		scNode = node
	}
	sm, ok := scNode.(*OrderedMap)
	if !ok {
		return out
	}
	sm.Range(func(slotName string, v any) bool {
		condMap, ok := v.(*OrderedMap)
		if !ok {
			return true
		}
		cond := &SlotCondition{
			Required: getBoolPtr(condMap, "required"),
			Pattern:  getStringPtr(condMap, "pattern"),
			Equals:   getStringPtr(condMap, "equals_string"),
			Range:    getStringPtr(condMap, "range"),
		}
		out.Set(slotName, cond)
		return true
	})
	return out
}

// --- node accessor helpers ---

func getString(om *OrderedMap, key string) string {
	v, ok := om.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func getStringOf(node any, key string) string {
	om, ok := node.(*OrderedMap)
	if !ok {
		return ""
	}
	return getString(om, key)
}

func getStringPtr(om *OrderedMap, key string) *string {
	v, ok := om.Get(key)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func getBoolPtr(om *OrderedMap, key string) *bool {
	v, ok := om.Get(key)
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

func getIntPtr(om *OrderedMap, key string) *int {
	v, ok := om.Get(key)
	if !ok {
		return nil
	}
	n := intOf(v)
	return &n
}

func intOf(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	default:
		return 0
	}
}

func getRat(om *OrderedMap, key string) *Rat {
	v, ok := om.Get(key)
	if !ok {
		return nil
	}
	return NewRat(v)
}

func getStringList(om *OrderedMap, key string) []string {
	v, ok := om.Get(key)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		if s, ok := v.(string); ok {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

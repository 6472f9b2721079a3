package linkml

import (
	"fmt"
	"regexp"
	"time"
)

// ValidationOptions parameterize a single validate call, per spec.md §4.4
// step 1: caller-supplied values win over schema-level Settings wherever set.
type ValidationOptions struct {
	FailFast                  *bool
	FailOnWarning             *bool
	MaxDepth                  *int
	AllowAdditionalProperties *bool
	UseCache                  *bool

	Compiler *Compiler
}

// resolvedOptions merges caller options over schema settings, per step 1.
type resolvedOptions struct {
	failFast                  bool
	failOnWarning             bool
	maxDepth                  int
	allowAdditionalProperties bool
	useCache                  bool
}

func resolveOptions(schema *Schema, opts ValidationOptions) resolvedOptions {
	settings := schema.Settings
	if settings == nil {
		d := DefaultValidationSettings()
		settings = &d
	}
	r := resolvedOptions{
		failFast:                  settings.FailFast,
		failOnWarning:             settings.FailOnWarning,
		maxDepth:                  settings.MaxDepth,
		allowAdditionalProperties: settings.AllowAdditionalProperties,
		useCache:                  settings.UseCache,
	}
	if opts.FailFast != nil {
		r.failFast = *opts.FailFast
	}
	if opts.FailOnWarning != nil {
		r.failOnWarning = *opts.FailOnWarning
	}
	if opts.MaxDepth != nil {
		r.maxDepth = *opts.MaxDepth
	}
	if opts.AllowAdditionalProperties != nil {
		r.allowAdditionalProperties = *opts.AllowAdditionalProperties
	}
	if opts.UseCache != nil {
		r.useCache = *opts.UseCache
	}
	return r
}

// visitKey identifies one (class, object-identity) pair for recursion
// tracking, per spec.md §4.4 step 4.
type visitKey struct {
	class    string
	identity string
}

// recursionTracker records which (class, identity) pairs are on the current
// traversal stack.
type recursionTracker struct {
	visiting map[visitKey]bool
	depth    int
}

func newRecursionTracker() *recursionTracker {
	return &recursionTracker{visiting: map[visitKey]bool{}}
}

// validator carries the state threaded through one validate() call.
type validator struct {
	schema  *Schema
	opts    resolvedOptions
	report  *ValidationReport
	tracker *recursionTracker
	aborted bool
}

// Validate runs the public entry point `validate(data, schema, class-name,
// options) → ValidationReport` described in spec.md §4.4.
func Validate(data any, schema *Schema, className string, opts ValidationOptions) *ValidationReport {
	start := timeNow()
	report := &ValidationReport{}
	ro := resolveOptions(schema, opts)

	// Step 3: class existence.
	if _, ok := schema.Class(className); !ok {
		report.add(ValidationIssue{
			Severity: SeverityError, Path: "$", Validator: "schema",
			Code: CodeExecutionError, Message: fmt.Sprintf("%v: %s", ErrUnknownClass, className),
		})
		report.Stats.DurationNanos = sinceNanos(start)
		return report
	}

	// Step 2: non-destructive default application.
	data = applyDefaults(schema, className, data, report)

	v := &validator{schema: schema, opts: ro, report: report, tracker: newRecursionTracker()}
	v.validateInstance(data, className, "$", opts.Compiler)

	report.Sort()
	report.Stats.DurationNanos = sinceNanos(start)
	defaultLogger.Debugw("validate completed", "class", className, "valid", report.Valid(), "issues", len(report.All()), "durationNanos", report.Stats.DurationNanos)
	return report
}

// ValidateCollection validates each element of instances against className,
// then runs a sequential UniqueKeyValidator across the whole collection, per
// spec.md §4.4 step 9. Always sequential: a parallel variant would need
// partitioned identifier tracking to preserve duplicate-detection ordering,
// which is out of scope.
func ValidateCollection(instances []any, schema *Schema, className string, opts ValidationOptions) *ValidationReport {
	start := timeNow()
	combined := &ValidationReport{}
	seen := map[string]int{}

	resolved, resolveErr := schema.Resolve(className)
	var identifierSlot string
	if resolveErr == nil {
		for _, rs := range resolved.EffectiveSlots {
			if rs.Slot.Identifier != nil && *rs.Slot.Identifier {
				identifierSlot = rs.Name
				break
			}
		}
	}

	for i, inst := range instances {
		path := fmt.Sprintf("$[%d]", i)
		elementReport := Validate(inst, schema, className, opts)
		for _, issue := range elementReport.All() {
			issue.Path = path + issue.Path[1:]
			combined.add(issue)
		}
		combined.Stats.CompiledChecks += elementReport.Stats.CompiledChecks
		combined.Stats.InterpretedRules += elementReport.Stats.InterpretedRules

		if identifierSlot == "" {
			continue
		}
		om, ok := inst.(*OrderedMap)
		if !ok {
			continue
		}
		idVal, ok := om.Get(identifierSlot)
		if !ok {
			continue
		}
		key := fmt.Sprintf("%v", idVal)
		if first, dup := seen[key]; dup {
			combined.add(ValidationIssue{
				Severity: SeverityError, Path: path, Validator: "unique_key",
				Code: CodeDuplicateIdentifier,
				Message: fmt.Sprintf("duplicate identifier %q (first seen at index %d)", key, first),
				Context: map[string]any{"value": key, "firstIndex": first},
			})
		} else {
			seen[key] = i
		}
	}

	combined.Sort()
	combined.Stats.DurationNanos = sinceNanos(start)
	return combined
}

// validateInstance runs the full step sequence (recursion guard, conditional
// rules, compiled path, interpretive path) for one object at path, then
// recurses into nested object-valued slots per step 8.
func (v *validator) validateInstance(data any, className string, path string, compiler *Compiler) {
	if v.aborted {
		return
	}

	resolved, err := v.schema.Resolve(className)
	if err != nil {
		v.emit(SeverityError, path, "schema", CodeExecutionError, err.Error(), nil)
		return
	}

	// Step 4: recursion guard.
	if identity, tracked := v.identityOf(resolved, data); tracked {
		key := visitKey{class: className, identity: identity}
		if v.tracker.visiting[key] {
			v.emit(SeverityError, path, "recursion", CodeCycleDetected, "recursive reference detected for "+className, nil)
			return
		}
		if v.opts.maxDepth > 0 && v.tracker.depth >= v.opts.maxDepth {
			v.emit(SeverityError, path, "recursion", CodeRecursionLimit, "max recursion depth exceeded", nil)
			return
		}
		v.tracker.visiting[key] = true
		v.tracker.depth++
		defer func() {
			delete(v.tracker.visiting, key)
			v.tracker.depth--
		}()
	}

	classDef, _ := v.schema.Class(className)

	// Step 5: class-level conditional rules.
	for _, rule := range classDef.Rules {
		if v.aborted {
			return
		}
		v.evaluateRule(rule, data, path)
	}

	// Step 6: compiled path.
	if v.opts.useCache && compiler != nil {
		cv, err := compiler.Compile(v.schema, className, CompilationOptions{AllowAdditionalProperties: v.opts.allowAdditionalProperties})
		if err != nil {
			v.emit(SeverityError, path, "compiler", CodeExecutionError, err.Error(), nil)
		} else {
			v.report.Stats.CacheHit = compiler.CacheStats().Hits > 0
			v.runCompiledProgram(cv, data, path)
		}
	}
	if v.aborted {
		return
	}

	// Step 7: interpretive path, always run.
	v.runInterpretivePath(resolved, data, path, compiler)
}

// identityOf computes the (class, identity) pair used for recursion
// tracking: the value of the class's identifier slot if one exists, else a
// structural hash of the object.
func (v *validator) identityOf(resolved *ResolvedClass, data any) (string, bool) {
	om, ok := data.(*OrderedMap)
	if !ok {
		return "", false
	}
	for _, rs := range resolved.EffectiveSlots {
		if rs.Slot.Identifier != nil && *rs.Slot.Identifier {
			if idVal, ok := om.Get(rs.Name); ok {
				return fmt.Sprintf("%v", idVal), true
			}
		}
	}
	return structuralHash(om), true
}

func structuralHash(om *OrderedMap) string {
	s := ""
	om.Range(func(k string, val any) bool {
		s += fmt.Sprintf("%s=%v;", k, val)
		return true
	})
	return s
}

// runInterpretivePath implements spec.md §4.4 step 7.
func (v *validator) runInterpretivePath(resolved *ResolvedClass, data any, path string, compiler *Compiler) {
	om, ok := data.(*OrderedMap)
	if !ok {
		v.emit(SeverityError, path, "type", CodeTypeMismatch, "expected an object", nil)
		return
	}

	effective := map[string]bool{}
	for _, rs := range resolved.EffectiveSlots {
		if v.aborted {
			return
		}
		effective[rs.Name] = true
		slotPath := path + "." + rs.Name
		val, present := om.Get(rs.Name)

		if !present {
			if rs.Slot.Required != nil && *rs.Slot.Required {
				v.emit(SeverityError, slotPath, "required", CodeRequiredFieldMissing,
					fmt.Sprintf("required slot %q is missing", rs.Name), nil)
			}
			continue
		}

		v.validateSlotValue(rs.Slot, val, slotPath, compiler)
	}

	om.Range(func(key string, _ any) bool {
		if effective[key] {
			return true
		}
		extraPath := path + "." + key
		if v.opts.allowAdditionalProperties {
			v.emit(SeverityWarning, extraPath, "additional_properties", CodeUnknownSlot,
				fmt.Sprintf("slot %q is not declared on this class", key), nil)
		} else {
			v.emit(SeverityError, extraPath, "additional_properties", CodeUnknownSlot,
				fmt.Sprintf("slot %q is not declared on this class", key), nil)
		}
		return !v.aborted
	})
}

// validateSlotValue dispatches one slot's value to the slot-specific
// validators named in step 7, recursing for multivalued and object-ranged
// slots.
func (v *validator) validateSlotValue(slot *SlotDef, val any, path string, compiler *Compiler) {
	multivalued := slot.Multivalued != nil && *slot.Multivalued
	if multivalued {
		arr, ok := val.([]any)
		if !ok {
			v.emit(SeverityError, path, "cardinality", CodeCardinalityViolation, "expected a list", nil)
			return
		}
		if slot.MinimumCardinality != nil && len(arr) < *slot.MinimumCardinality {
			v.emit(SeverityError, path, "cardinality", CodeCardinalityViolation,
				fmt.Sprintf("expected at least %d elements, got %d", *slot.MinimumCardinality, len(arr)), nil)
		}
		if slot.MaximumCardinality != nil && len(arr) > *slot.MaximumCardinality {
			v.emit(SeverityError, path, "cardinality", CodeCardinalityViolation,
				fmt.Sprintf("expected at most %d elements, got %d", *slot.MaximumCardinality, len(arr)), nil)
		}
		for i, el := range arr {
			if v.aborted {
				return
			}
			v.validateScalarOrObject(slot, el, fmt.Sprintf("%s[%d]", path, i), compiler)
		}
		return
	}
	v.validateScalarOrObject(slot, val, path, compiler)
}

func (v *validator) validateScalarOrObject(slot *SlotDef, val any, path string, compiler *Compiler) {
	rangeName := "Any"
	if slot.Range != nil {
		rangeName = *slot.Range
	}

	if _, isClass := v.schema.Class(rangeName); isClass {
		v.validateInstance(val, rangeName, path, compiler)
		return
	}

	if enumDef, isEnum := v.schema.Enum(rangeName); isEnum {
		s, ok := val.(string)
		if !ok || !enumContains(enumDef, s) {
			v.emit(SeverityError, path, "enum", CodeEnumViolation, fmt.Sprintf("%v is not a permissible value", val), nil)
		}
		return
	}

	if !rangeAccepts(rangeName, val) {
		v.emit(SeverityError, path, "type", CodeTypeMismatch, fmt.Sprintf("expected %s, got %s", rangeName, getDataType(val)), nil)
		return
	}

	if slot.Pattern != nil {
		if s, ok := val.(string); ok {
			if matched, err := regexp.MatchString(*slot.Pattern, s); err != nil || !matched {
				v.emit(SeverityError, path, "pattern", CodePatternMismatch, fmt.Sprintf("%q does not match pattern %q", s, *slot.Pattern), nil)
			}
		}
	}

	if slot.MinimumValue != nil || slot.MaximumValue != nil {
		v.checkRange(slot, val, path)
	}

	if slot.MinimumLength != nil || slot.MaximumLength != nil {
		if s, ok := val.(string); ok {
			length := len([]rune(s))
			if slot.MinimumLength != nil && length < *slot.MinimumLength {
				v.emit(SeverityError, path, "length", CodeLengthViolation, fmt.Sprintf("length %d is below minimum %d", length, *slot.MinimumLength), nil)
			}
			if slot.MaximumLength != nil && length > *slot.MaximumLength {
				v.emit(SeverityError, path, "length", CodeLengthViolation, fmt.Sprintf("length %d exceeds maximum %d", length, *slot.MaximumLength), nil)
			}
		}
	}

	if formatName, ok := formatNameFor(slot); ok {
		if code := evaluateFormat(compiler, formatName, val); code != "" {
			v.emit(SeverityError, path, "format", code, fmt.Sprintf("value does not conform to format %q", formatName), nil)
		}
	}
}

func (v *validator) checkRange(slot *SlotDef, val any, path string) {
	r := NewRat(val)
	if r == nil {
		v.emit(SeverityError, path, "range", CodeTypeMismatch, "value is not numeric", nil)
		return
	}
	inclusive := true
	if slot.Inclusive != nil {
		inclusive = *slot.Inclusive
	}
	if slot.MinimumValue != nil {
		cmp, err := CompareRat(r, slot.MinimumValue)
		if err == nil {
			if (inclusive && cmp < 0) || (!inclusive && cmp <= 0) {
				v.emit(SeverityError, path, "range", CodeRangeViolation, fmt.Sprintf("%s is below minimum %s", FormatRat(r), FormatRat(slot.MinimumValue)), nil)
			}
		}
	}
	if slot.MaximumValue != nil {
		cmp, err := CompareRat(r, slot.MaximumValue)
		if err == nil {
			if (inclusive && cmp > 0) || (!inclusive && cmp >= 0) {
				v.emit(SeverityError, path, "range", CodeRangeViolation, fmt.Sprintf("%s exceeds maximum %s", FormatRat(r), FormatRat(slot.MaximumValue)), nil)
			}
		}
	}
}

// formatNameFor reads an optional "format" key stashed in a slot's Extra
// map, e.g. from a YAML `format: email` annotation.
func formatNameFor(slot *SlotDef) (string, bool) {
	if slot.Extra == nil {
		return "", false
	}
	name, ok := slot.Extra["format"].(string)
	return name, ok
}

func enumContains(enumDef *EnumDef, s string) bool {
	for _, pv := range enumDef.PermissibleValues {
		if pv.Text == s {
			return true
		}
	}
	return false
}

// rangeAccepts reports whether val's runtime shape is compatible with a
// built-in or user-defined scalar range.
func rangeAccepts(rangeName string, val any) bool {
	if rangeName == "Any" {
		return true
	}
	dataType := getDataType(val)
	switch rangeName {
	case "string", "uri", "date", "datetime", "decimal":
		return dataType == "string"
	case "integer":
		return dataType == "integer" || dataType == "number"
	case "float", "double":
		return dataType == "number" || dataType == "integer"
	case "boolean":
		return dataType == "boolean"
	default:
		return true // user-defined TypeDef: base-type checking happens via format/pattern
	}
}

// evaluateRule implements spec.md §4.4 step 5: preconditions gate
// postconditions, with an optional else branch, and a violation aborts
// further validation under fail-fast.
func (v *validator) evaluateRule(rule Rule, data any, path string) {
	om, ok := data.(*OrderedMap)
	if !ok {
		return
	}
	if !conditionsHold(rule.Preconditions, om) {
		return
	}
	if conditionsHold(rule.Postconditions, om) {
		return
	}
	if rule.ElseConditions != nil && conditionsHold(rule.ElseConditions, om) {
		return
	}
	v.emit(SeverityError, path, "rule", CodeRuleViolation, rule.Description, nil)
}

func conditionsHold(conditions *OrderedMap, om *OrderedMap) bool {
	if conditions == nil {
		return true
	}
	ok := true
	conditions.Range(func(slotName string, v any) bool {
		cond, isCond := v.(*SlotCondition)
		if !isCond {
			return true
		}
		val, present := om.Get(slotName)
		if cond.Required != nil && *cond.Required && !present {
			ok = false
			return false
		}
		if cond.Equals != nil {
			if s, isStr := val.(string); !isStr || s != *cond.Equals {
				ok = false
				return false
			}
		}
		if cond.Pattern != nil {
			s, isStr := val.(string)
			matched, _ := regexp.MatchString(*cond.Pattern, s)
			if !isStr || !matched {
				ok = false
				return false
			}
		}
		return true
	})
	return ok
}

// emit records one issue, honoring fail-fast/fail-on-warning semantics per
// spec.md §4.4's closing paragraph.
func (v *validator) emit(sev Severity, path, validatorName, code, message string, ctx map[string]any) {
	v.report.add(ValidationIssue{Severity: sev, Path: path, Validator: validatorName, Code: code, Message: message, Context: ctx})
	if sev == SeverityError && v.opts.failFast {
		v.aborted = true
	}
	if sev == SeverityWarning && v.opts.failOnWarning {
		v.aborted = true
	}
}

// runCompiledProgram executes a CompiledValidator's instruction list against
// data, reporting any violations it finds. It covers the checks expressible
// in bytecode (CheckRequired, ValidatePattern, ValidateRange, ValidateLength,
// ValidateEnum, ValidateType); ValidateObject/ValidateArray descend via the
// same engine so nested classes still go through the interpretive path too.
func (v *validator) runCompiledProgram(cv *CompiledValidator, data any, path string) {
	om, ok := data.(*OrderedMap)
	if !ok {
		return
	}
	for _, instr := range cv.Program {
		if v.aborted {
			return
		}
		v.runCompiledInstruction(cv, instr, om, path)
		v.report.Stats.CompiledChecks++
	}
}

func (v *validator) runCompiledInstruction(cv *CompiledValidator, instr CompiledInstruction, om *OrderedMap, basePath string) {
	if instr.Op == OpConditionalValidation {
		v.report.Stats.InterpretedRules++
		return
	}

	fieldPath := basePath
	if instr.Field != "" {
		fieldPath = basePath + "." + instr.Field
	}
	val, present := om.Get(instr.Field)

	switch instr.Op {
	case OpCheckRequired:
		if !present {
			v.emit(SeverityError, fieldPath, "compiled", CodeRequiredFieldMissing, fmt.Sprintf("required slot %q is missing", instr.Field), nil)
		}
	case OpValidatePattern:
		if !present {
			return
		}
		s, ok := val.(string)
		if !ok {
			return
		}
		if instr.PatternID >= 0 && instr.PatternID < len(cv.Patterns) {
			if !cv.Patterns[instr.PatternID].MatchString(s) {
				v.emit(SeverityError, fieldPath, "compiled", CodePatternMismatch, fmt.Sprintf("%q does not match required pattern", s), nil)
			}
		} else if instr.RawPattern != nil {
			if matched, err := regexp.MatchString(*instr.RawPattern, s); err != nil || !matched {
				v.emit(SeverityError, fieldPath, "compiled", CodePatternMismatch, fmt.Sprintf("%q does not match required pattern", s), nil)
			}
		}
	case OpValidateRange:
		if !present {
			return
		}
		r := NewRat(val)
		if r == nil {
			return
		}
		if instr.MinValue != nil {
			cmp, err := CompareRat(r, instr.MinValue)
			if err == nil && ((instr.Inclusive && cmp < 0) || (!instr.Inclusive && cmp <= 0)) {
				v.emit(SeverityError, fieldPath, "compiled", CodeRangeViolation, "value is below minimum", nil)
			}
		}
		if instr.MaxValue != nil {
			cmp, err := CompareRat(r, instr.MaxValue)
			if err == nil && ((instr.Inclusive && cmp > 0) || (!instr.Inclusive && cmp >= 0)) {
				v.emit(SeverityError, fieldPath, "compiled", CodeRangeViolation, "value exceeds maximum", nil)
			}
		}
	case OpValidateLength:
		if !present {
			return
		}
		s, ok := val.(string)
		if !ok {
			return
		}
		length := len([]rune(s))
		if instr.MinLength != nil && length < *instr.MinLength {
			v.emit(SeverityError, fieldPath, "compiled", CodeLengthViolation, "length is below minimum", nil)
		}
		if instr.MaxLength != nil && length > *instr.MaxLength {
			v.emit(SeverityError, fieldPath, "compiled", CodeLengthViolation, "length exceeds maximum", nil)
		}
	case OpValidateEnum:
		if !present {
			return
		}
		s, ok := val.(string)
		if !ok || instr.EnumID < 0 || instr.EnumID >= len(cv.EnumSets) || !cv.EnumSets[instr.EnumID][s] {
			v.emit(SeverityError, fieldPath, "compiled", CodeEnumViolation, fmt.Sprintf("%v is not a permissible value", val), nil)
		}
	case OpValidateType:
		if !present {
			return
		}
		if !compiledTypeAccepts(instr.ExpectedType, val) {
			v.emit(SeverityError, fieldPath, "compiled", CodeTypeMismatch, fmt.Sprintf("expected %s", instr.ExpectedType), nil)
		}
	case OpValidateArray:
		if !present {
			return
		}
		arr, ok := val.([]any)
		if !ok {
			v.emit(SeverityError, fieldPath, "compiled", CodeCardinalityViolation, "expected a list", nil)
			return
		}
		if instr.MinValue != nil {
			if cmp, err := CompareRat(NewRat(float64(len(arr))), instr.MinValue); err == nil && cmp < 0 {
				v.emit(SeverityError, fieldPath, "compiled", CodeCardinalityViolation, "too few elements", nil)
			}
		}
		if instr.MaxValue != nil {
			if cmp, err := CompareRat(NewRat(float64(len(arr))), instr.MaxValue); err == nil && cmp > 0 {
				v.emit(SeverityError, fieldPath, "compiled", CodeCardinalityViolation, "too many elements", nil)
			}
		}
		for i, el := range arr {
			if v.aborted {
				return
			}
			elPath := fmt.Sprintf("%s[%d]", fieldPath, i)
			if elOm, ok := el.(*OrderedMap); ok {
				for _, sub := range instr.ElementOps {
					v.runCompiledInstruction(cv, sub, wrapSingleValue(elOm), elPath)
				}
				continue
			}
			for _, sub := range instr.ElementOps {
				v.runCompiledInstruction(cv, sub, wrapSingleValue(el), elPath)
			}
		}
	case OpValidateObject:
		if !present || instr.ClassRef == "" {
			return
		}
		// Nested class instances go through the full engine (compiled +
		// interpretive), not just this bytecode fragment, per step 8.
		v.validateInstance(val, instr.ClassRef, fieldPath, nil)
	}
}

// wrapSingleValue lets runCompiledInstruction reuse its Field-keyed lookup
// for element-level checks inside a ValidateArray, where there is no field
// name: it stores the element under the empty-string key.
func wrapSingleValue(v any) *OrderedMap {
	om := NewOrderedMap()
	om.Set("", v)
	return om
}

func compiledTypeAccepts(expected string, val any) bool {
	if expected == "Any" {
		return true
	}
	dataType := getDataType(val)
	switch expected {
	case "String", "Uri":
		return dataType == "string"
	case "Date", "DateTime":
		return dataType == "string"
	case "Integer":
		return dataType == "integer" || dataType == "number"
	case "Float":
		return dataType == "number" || dataType == "integer"
	case "Boolean":
		return dataType == "boolean"
	case "Object":
		return dataType == "object"
	case "Array":
		return dataType == "array"
	default:
		return true
	}
}

// applyDefaults walks data and, for each absent slot with a declared
// default, inserts the resolved value into a shallow copy, per spec.md §4.4
// step 2. Failure to resolve a default is recorded as a warning, not an
// error.
func applyDefaults(schema *Schema, className string, data any, report *ValidationReport) any {
	om, ok := data.(*OrderedMap)
	if !ok {
		return data
	}
	resolved, err := schema.Resolve(className)
	if err != nil {
		return data
	}

	out := NewOrderedMap()
	om.Range(func(k string, v any) bool {
		out.Set(k, v)
		return true
	})

	for _, rs := range resolved.EffectiveSlots {
		if _, present := out.Get(rs.Name); present {
			continue
		}
		if rs.Slot.DefaultValue == nil {
			continue
		}
		val, err := resolveDefault(rs.Slot.DefaultValue)
		if err != nil {
			report.add(ValidationIssue{
				Severity: SeverityWarning, Path: "$." + rs.Name, Validator: "default",
				Code: CodeExecutionError, Message: fmt.Sprintf("could not apply default for %q: %v", rs.Name, err),
			})
			continue
		}
		out.Set(rs.Name, val)
	}
	return out
}

// timeNow and sinceNanos isolate the one non-deterministic clock read needed
// for ValidationStats.DurationNanos.
func timeNow() time.Time { return time.Now() }
func sinceNanos(start time.Time) int64 { return time.Since(start).Nanoseconds() }

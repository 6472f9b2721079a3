package linkml

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CompiledOp identifies one CompiledValidator instruction kind, per spec.md
// §4.3.
type CompiledOp int

const (
	OpCheckRequired CompiledOp = iota
	OpValidatePattern
	OpValidateRange
	OpValidateLength
	OpValidateEnum
	OpValidateType
	OpValidateArray
	OpValidateObject
	OpConditionalValidation
)

// CompiledInstruction is one step of a CompiledValidator's linear program.
// Field is the slot name the instruction applies to; for instructions
// nested inside a ValidateArray's ElementOps, Field is empty and means "the
// current array element".
type CompiledInstruction struct {
	Op CompiledOp

	Field string

	PatternID int // index into CompiledValidator.Patterns

	MinValue  *Rat
	MaxValue  *Rat
	Inclusive bool

	MinLength *int
	MaxLength *int

	EnumID int // index into CompiledValidator.EnumSets

	ExpectedType string // String, Integer, Float, Boolean, Date, DateTime, Uri, Object, Array, Any

	ElementOps []CompiledInstruction // ValidateArray: program run per element
	ClassRef   string                // ValidateObject: nested class to recurse into via the engine

	Cond, Then, Else []CompiledInstruction // ConditionalValidation sub-programs
	RuleDescription  string
	RawPattern       *string // condition-level pattern check, uncompiled (rules are evaluated rarely; not worth a side-table slot)
}

// CompiledValidator is the output of compiling a ResolvedClass under a set
// of CompilationOptions, per spec.md §4.3: a linear instruction list plus
// de-duplicated side tables of compiled patterns and enum value sets.
type CompiledValidator struct {
	ClassName string
	Program   []CompiledInstruction
	Patterns  []*regexp.Regexp
	EnumSets  []map[string]bool
}

// CompilationOptions parameterize how a class is compiled; they participate
// in the cache key alongside schema digest and class name (spec.md §3, §4.3).
type CompilationOptions struct {
	AllowAdditionalProperties bool
}

func (o CompilationOptions) digest() string {
	if o.AllowAdditionalProperties {
		return "aap1"
	}
	return "aap0"
}

// Compiler lowers resolved classes into CompiledValidators and caches the
// result, per spec.md §4.3's cache contract: single-flight per key, LRU
// eviction, schema-digest invalidation, and an exposed cache-hit-rate metric.
type Compiler struct {
	cache *lru.Cache[string, *CompiledValidator]

	inflightMu sync.Mutex
	inflight   map[string]*compileCall

	customFormats   map[string]func(any) bool
	customFormatsRW sync.RWMutex

	hits   atomic.Int64
	misses atomic.Int64

	logger Logger
}

type compileCall struct {
	wg     sync.WaitGroup
	result *CompiledValidator
	err    error
}

// NewCompiler returns a Compiler with an LRU cache bounded to capacity
// entries (not bytes; spec.md's "byte budget" is approximated here by an
// entry-count budget, since CompiledValidators have no natural byte size).
func NewCompiler(capacity int) *Compiler {
	if capacity <= 0 {
		capacity = 256
	}
	cache, _ := lru.New[string, *CompiledValidator](capacity)
	return &Compiler{
		cache:         cache,
		inflight:      make(map[string]*compileCall),
		customFormats: make(map[string]func(any) bool),
		logger:        defaultLogger,
	}
}

// SetLogger overrides the Compiler's Logger, used to report cache misses and
// schema invalidations.
func (c *Compiler) SetLogger(l Logger) *Compiler {
	if l == nil {
		l = noopLogger{}
	}
	c.logger = l
	return c
}

// RegisterFormat adds a custom format validator consulted before the global
// Formats registry.
func (c *Compiler) RegisterFormat(name string, validator func(any) bool) *Compiler {
	c.customFormatsRW.Lock()
	defer c.customFormatsRW.Unlock()
	c.customFormats[name] = validator
	return c
}

// CacheStats reports cache-hit-rate counters, per spec.md §4.3's "cache-hit
// rate is exposed as a metric".
type CacheStats struct {
	Hits   int64
	Misses int64
}

// HitRate returns Hits / (Hits + Misses), or 0 when nothing has been compiled.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// CacheStats returns the compiler's current cache-hit-rate counters.
func (c *Compiler) CacheStats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// SchemaDigest returns a stable content digest of s, used as the first
// component of the CompiledValidator cache key (spec.md §3, §6).
func SchemaDigest(s *Schema) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", s.ID, s.Name)
	s.Classes.Range(func(name string, v any) bool {
		class := v.(*ClassDef)
		fmt.Fprintf(h, "class:%s:%v:%v\x00", name, class.IsA, class.Mixins)
		for _, slotName := range class.Slots {
			fmt.Fprintf(h, "slot:%s\x00", slotName)
		}
		return true
	})
	return hex.EncodeToString(h.Sum(nil))
}

func cacheKey(schemaDigest, className, optionsDigest string) string {
	return schemaDigest + "|" + className + "|" + optionsDigest
}

// InvalidateSchema drops every cache entry for schemaDigest, per spec.md
// §4.3's "a schema-digest change invalidates all entries for that schema".
func (c *Compiler) InvalidateSchema(schemaDigest string) {
	prefix := schemaDigest + "|"
	removed := 0
	for _, key := range c.cache.Keys() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			c.cache.Remove(key)
			removed++
		}
	}
	c.logger.Infow("compiled validator cache invalidated", "schemaDigest", schemaDigest, "entriesRemoved", removed)
}

// Compile resolves className within s and lowers it to a CompiledValidator,
// serving from cache when available and single-flighting concurrent misses
// on the same key, per spec.md §4.3.
func (c *Compiler) Compile(s *Schema, className string, opts CompilationOptions) (*CompiledValidator, error) {
	key := cacheKey(SchemaDigest(s), className, opts.digest())

	if v, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return v, nil
	}

	c.inflightMu.Lock()
	if call, ok := c.inflight[key]; ok {
		c.inflightMu.Unlock()
		call.wg.Wait()
		return call.result, call.err
	}
	call := &compileCall{}
	call.wg.Add(1)
	c.inflight[key] = call
	c.inflightMu.Unlock()

	resolved, err := s.Resolve(className)
	var validator *CompiledValidator
	if err == nil {
		validator, err = compileResolvedClass(s, resolved)
	}
	if err == nil {
		c.misses.Add(1)
		c.cache.Add(key, validator)
		c.logger.Debugw("compiled validator", "class", className, "instructions", len(validator.Program))
	} else {
		c.logger.Warnw("compilation failed", "class", className, "error", err)
	}

	call.result, call.err = validator, err
	call.wg.Done()

	c.inflightMu.Lock()
	delete(c.inflight, key)
	c.inflightMu.Unlock()

	return validator, err
}

// compileResolvedClass walks resolved's effective slots and lowers each one
// to instructions, per spec.md §4.3's compilation rules, de-duplicating
// patterns and enum sets within the resulting CompiledValidator.
func compileResolvedClass(s *Schema, resolved *ResolvedClass) (*CompiledValidator, error) {
	cv := &CompiledValidator{ClassName: resolved.ClassName}
	patternIndex := map[string]int{}
	enumIndex := map[string]int{}

	internPattern := func(pattern string) (int, error) {
		if idx, ok := patternIndex[pattern]; ok {
			return idx, nil
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", ErrSchemaCompilation, pattern, err)
		}
		idx := len(cv.Patterns)
		cv.Patterns = append(cv.Patterns, re)
		patternIndex[pattern] = idx
		return idx, nil
	}

	internEnum := func(enumName string) (int, error) {
		if idx, ok := enumIndex[enumName]; ok {
			return idx, nil
		}
		enumDef, ok := s.Enum(enumName)
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownEnum, enumName)
		}
		set := make(map[string]bool, len(enumDef.PermissibleValues))
		for _, pv := range enumDef.PermissibleValues {
			set[pv.Text] = true
		}
		idx := len(cv.EnumSets)
		cv.EnumSets = append(cv.EnumSets, set)
		enumIndex[enumName] = idx
		return idx, nil
	}

	for _, rs := range resolved.EffectiveSlots {
		ops, err := compileSlotOps(s, rs.Name, rs.Slot, internPattern, internEnum, true)
		if err != nil {
			return nil, err
		}
		cv.Program = append(cv.Program, ops...)
	}

	if classDef, ok := s.Class(resolved.ClassName); ok {
		for _, rule := range classDef.Rules {
			cv.Program = append(cv.Program, compileRule(rule))
		}
	}

	return cv, nil
}

func compileRule(rule Rule) CompiledInstruction {
	return CompiledInstruction{
		Op:              OpConditionalValidation,
		Cond:            conditionsToOps(rule.Preconditions),
		Then:            conditionsToOps(rule.Postconditions),
		Else:            conditionsToOps(rule.ElseConditions),
		RuleDescription: rule.Description,
	}
}

func conditionsToOps(conditions *OrderedMap) []CompiledInstruction {
	if conditions == nil {
		return nil
	}
	var ops []CompiledInstruction
	conditions.Range(func(slotName string, v any) bool {
		cond, ok := v.(*SlotCondition)
		if !ok {
			return true
		}
		if cond.Required != nil && *cond.Required {
			ops = append(ops, CompiledInstruction{Op: OpCheckRequired, Field: slotName})
		}
		if cond.Pattern != nil {
			ops = append(ops, CompiledInstruction{Op: OpValidatePattern, Field: slotName, PatternID: -1, RawPattern: cond.Pattern})
		}
		return true
	})
	return ops
}

// compileSlotOps lowers a single effective slot into instructions, wrapping
// element-level checks in ValidateArray when multivalued, per spec.md §4.3.
func compileSlotOps(
	s *Schema,
	name string,
	slot *SlotDef,
	internPattern func(string) (int, error),
	internEnum func(string) (int, error),
	topLevel bool,
) ([]CompiledInstruction, error) {
	var ops []CompiledInstruction
	multivalued := slot.Multivalued != nil && *slot.Multivalued

	if topLevel && slot.Required != nil && *slot.Required {
		ops = append(ops, CompiledInstruction{Op: OpCheckRequired, Field: name})
	}

	elementOps, err := compileValueOps(s, name, slot, internPattern, internEnum)
	if err != nil {
		return nil, err
	}

	if multivalued {
		arrayInstr := CompiledInstruction{Op: OpValidateArray, Field: name, ElementOps: elementOps}
		if slot.MinimumCardinality != nil {
			arrayInstr.MinValue = NewRat(*slot.MinimumCardinality)
		}
		if slot.MaximumCardinality != nil {
			arrayInstr.MaxValue = NewRat(*slot.MaximumCardinality)
		}
		ops = append(ops, arrayInstr)
		return ops, nil
	}

	for i := range elementOps {
		elementOps[i].Field = name
	}
	ops = append(ops, elementOps...)
	return ops, nil
}

// compileValueOps lowers the scalar/object-level checks for one value
// (either the slot's own value, or one element of a multivalued slot).
// Field is left empty; callers set it based on context.
func compileValueOps(
	s *Schema,
	name string,
	slot *SlotDef,
	internPattern func(string) (int, error),
	internEnum func(string) (int, error),
) ([]CompiledInstruction, error) {
	var ops []CompiledInstruction

	if slot.Pattern != nil {
		idx, err := internPattern(*slot.Pattern)
		if err != nil {
			return nil, err
		}
		ops = append(ops, CompiledInstruction{Op: OpValidatePattern, PatternID: idx})
	}

	if slot.MinimumValue != nil || slot.MaximumValue != nil {
		inclusive := true
		if slot.Inclusive != nil {
			inclusive = *slot.Inclusive
		}
		ops = append(ops, CompiledInstruction{
			Op: OpValidateRange, MinValue: slot.MinimumValue, MaxValue: slot.MaximumValue, Inclusive: inclusive,
		})
	}

	if slot.MinimumLength != nil || slot.MaximumLength != nil {
		ops = append(ops, CompiledInstruction{Op: OpValidateLength, MinLength: slot.MinimumLength, MaxLength: slot.MaximumLength})
	}

	rangeName := "Any"
	if slot.Range != nil {
		rangeName = *slot.Range
	}

	if enumDef, ok := s.Enum(rangeName); ok {
		_ = enumDef
		idx, err := internEnum(rangeName)
		if err != nil {
			return nil, err
		}
		ops = append(ops, CompiledInstruction{Op: OpValidateEnum, EnumID: idx})
	} else if _, ok := s.Class(rangeName); ok {
		ops = append(ops, CompiledInstruction{Op: OpValidateObject, ClassRef: rangeName})
	} else {
		ops = append(ops, CompiledInstruction{Op: OpValidateType, ExpectedType: compiledTypeName(rangeName)})
	}

	return ops, nil
}

// compiledTypeName maps a LinkML range name to one of the compiled-type
// tags named in spec.md §4.3 (String, Integer, Float, Boolean, Date,
// DateTime, Uri, Object, Array, Any).
func compiledTypeName(rangeName string) string {
	switch rangeName {
	case "string", "decimal":
		return "String"
	case "integer":
		return "Integer"
	case "float", "double":
		return "Float"
	case "boolean":
		return "Boolean"
	case "date":
		return "Date"
	case "datetime":
		return "DateTime"
	case "uri":
		return "Uri"
	case "Any":
		return "Any"
	default:
		return "Any"
	}
}

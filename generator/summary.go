package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/linkml/linkml-go"
)

// SummaryGenerator emits schema-wide statistics in TSV, Markdown, JSON, and
// HTML, per spec.md §4.6's "Summary" contract: counts by entity kind,
// abstract/mixin counts, inheritance depth, slot-usage histogram,
// documentation coverage, and a complexity score.
type SummaryGenerator struct{}

func init() { Register(SummaryGenerator{}) }

func (SummaryGenerator) Name() string      { return "summary" }
func (SummaryGenerator) Extension() string { return "txt" }

type schemaStats struct {
	ClassCount       int
	AbstractCount    int
	MixinUseCount    int
	SlotCount        int
	TypeCount        int
	EnumCount        int
	RuleCount        int
	MaxInheritance   int
	SlotUsageCounts  map[string]int
	DocumentedCount  int
	UndocumentedCount int
	ComplexityScore  float64
}

func computeStats(schema *linkml.Schema) schemaStats {
	s := schemaStats{SlotUsageCounts: map[string]int{}}

	schema.EachClass(func(name string, classDef *linkml.ClassDef) {
		s.ClassCount++
		if classDef.Abstract {
			s.AbstractCount++
		}
		if len(classDef.Mixins) > 0 {
			s.MixinUseCount++
		}
		s.RuleCount += len(classDef.Rules)

		if classDef.Description != nil && strings.TrimSpace(*classDef.Description) != "" {
			s.DocumentedCount++
		} else {
			s.UndocumentedCount++
		}

		depth := 0
		cur := classDef
		visiting := map[string]bool{name: true}
		for cur.IsA != nil {
			parent, ok := schema.Class(*cur.IsA)
			if !ok || visiting[*cur.IsA] {
				break
			}
			visiting[*cur.IsA] = true
			depth++
			cur = parent
		}
		if depth > s.MaxInheritance {
			s.MaxInheritance = depth
		}

		for _, slotName := range classDef.Slots {
			s.SlotUsageCounts[slotName]++
		}
	})

	schema.Slots.Range(func(name string, v any) bool {
		s.SlotCount++
		slotDef := v.(*linkml.SlotDef)
		if slotDef.Description != nil && strings.TrimSpace(*slotDef.Description) != "" {
			s.DocumentedCount++
		} else {
			s.UndocumentedCount++
		}
		return true
	})
	schema.Types.Range(func(name string, v any) bool { s.TypeCount++; return true })
	schema.Enums.Range(func(name string, v any) bool { s.EnumCount++; return true })

	s.ComplexityScore = float64(s.ClassCount) + 2*float64(s.SlotCount) + 3*float64(s.MaxInheritance) + 4*float64(s.RuleCount)

	return s
}

func (g SummaryGenerator) Generate(schema *linkml.Schema, opts Options) ([]Output, error) {
	s := computeStats(schema)

	return []Output{
		{Filename: schema.Name + ".summary.tsv", Content: renderSummaryTSV(s), Metadata: OutputMetadata{Generator: g.Name(), SchemaName: schema.Name}},
		{Filename: schema.Name + ".summary.md", Content: renderSummaryMarkdown(s), Metadata: OutputMetadata{Generator: g.Name(), SchemaName: schema.Name}},
		{Filename: schema.Name + ".summary.json", Content: renderSummaryJSON(s), Metadata: OutputMetadata{Generator: g.Name(), SchemaName: schema.Name}},
		{Filename: schema.Name + ".summary.html", Content: renderSummaryHTML(s), Metadata: OutputMetadata{Generator: g.Name(), SchemaName: schema.Name}},
	}, nil
}

func renderSummaryTSV(s schemaStats) string {
	var b strings.Builder
	b.WriteString("metric\tvalue\n")
	fmt.Fprintf(&b, "classes\t%d\n", s.ClassCount)
	fmt.Fprintf(&b, "abstract_classes\t%d\n", s.AbstractCount)
	fmt.Fprintf(&b, "classes_using_mixins\t%d\n", s.MixinUseCount)
	fmt.Fprintf(&b, "slots\t%d\n", s.SlotCount)
	fmt.Fprintf(&b, "types\t%d\n", s.TypeCount)
	fmt.Fprintf(&b, "enums\t%d\n", s.EnumCount)
	fmt.Fprintf(&b, "rules\t%d\n", s.RuleCount)
	fmt.Fprintf(&b, "max_inheritance_depth\t%d\n", s.MaxInheritance)
	fmt.Fprintf(&b, "documented\t%d\n", s.DocumentedCount)
	fmt.Fprintf(&b, "undocumented\t%d\n", s.UndocumentedCount)
	fmt.Fprintf(&b, "complexity_score\t%.1f\n", s.ComplexityScore)
	for _, slotName := range sortedSlotUsageKeys(s.SlotUsageCounts) {
		fmt.Fprintf(&b, "slot_usage.%s\t%d\n", slotName, s.SlotUsageCounts[slotName])
	}
	return b.String()
}

func renderSummaryMarkdown(s schemaStats) string {
	var b strings.Builder
	b.WriteString("# Schema summary\n\n")
	b.WriteString("| metric | value |\n|---|---|\n")
	fmt.Fprintf(&b, "| classes | %d |\n", s.ClassCount)
	fmt.Fprintf(&b, "| abstract classes | %d |\n", s.AbstractCount)
	fmt.Fprintf(&b, "| classes using mixins | %d |\n", s.MixinUseCount)
	fmt.Fprintf(&b, "| slots | %d |\n", s.SlotCount)
	fmt.Fprintf(&b, "| types | %d |\n", s.TypeCount)
	fmt.Fprintf(&b, "| enums | %d |\n", s.EnumCount)
	fmt.Fprintf(&b, "| rules | %d |\n", s.RuleCount)
	fmt.Fprintf(&b, "| max inheritance depth | %d |\n", s.MaxInheritance)
	fmt.Fprintf(&b, "| documented | %d |\n", s.DocumentedCount)
	fmt.Fprintf(&b, "| undocumented | %d |\n", s.UndocumentedCount)
	fmt.Fprintf(&b, "| complexity score | %.1f |\n", s.ComplexityScore)
	return b.String()
}

func renderSummaryJSON(s schemaStats) string {
	var b strings.Builder
	b.WriteString("{\n")
	fmt.Fprintf(&b, "  \"classes\": %d,\n", s.ClassCount)
	fmt.Fprintf(&b, "  \"abstractClasses\": %d,\n", s.AbstractCount)
	fmt.Fprintf(&b, "  \"classesUsingMixins\": %d,\n", s.MixinUseCount)
	fmt.Fprintf(&b, "  \"slots\": %d,\n", s.SlotCount)
	fmt.Fprintf(&b, "  \"types\": %d,\n", s.TypeCount)
	fmt.Fprintf(&b, "  \"enums\": %d,\n", s.EnumCount)
	fmt.Fprintf(&b, "  \"rules\": %d,\n", s.RuleCount)
	fmt.Fprintf(&b, "  \"maxInheritanceDepth\": %d,\n", s.MaxInheritance)
	fmt.Fprintf(&b, "  \"documented\": %d,\n", s.DocumentedCount)
	fmt.Fprintf(&b, "  \"undocumented\": %d,\n", s.UndocumentedCount)
	fmt.Fprintf(&b, "  \"complexityScore\": %.1f\n", s.ComplexityScore)
	b.WriteString("}\n")
	return b.String()
}

func renderSummaryHTML(s schemaStats) string {
	var b strings.Builder
	b.WriteString("<table>\n")
	row := func(k string, v any) { fmt.Fprintf(&b, "<tr><td>%s</td><td>%v</td></tr>\n", k, v) }
	row("classes", s.ClassCount)
	row("abstract classes", s.AbstractCount)
	row("classes using mixins", s.MixinUseCount)
	row("slots", s.SlotCount)
	row("types", s.TypeCount)
	row("enums", s.EnumCount)
	row("rules", s.RuleCount)
	row("max inheritance depth", s.MaxInheritance)
	row("documented", s.DocumentedCount)
	row("undocumented", s.UndocumentedCount)
	row("complexity score", fmt.Sprintf("%.1f", s.ComplexityScore))
	b.WriteString("</table>\n")
	return b.String()
}

func sortedSlotUsageKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

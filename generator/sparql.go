package generator

import (
	"fmt"
	"strings"

	"github.com/linkml/linkml-go"
)

// SPARQLGenerator emits, per concrete class, one query for each configured
// query kind (select/construct/ask/insert/delete), per spec.md §4.6's
// SPARQL contract: class URIs from schema prefix + PascalCase, slot URIs
// from schema prefix + snake_case, OPTIONAL wrapping for non-required
// slots, FILTER clauses for pattern/numeric-bound/enum-membership
// constraints, and ASK queries asserting presence and required-slot
// coverage.
type SPARQLGenerator struct{}

func init() { Register(SPARQLGenerator{}) }

func (SPARQLGenerator) Name() string      { return "sparql" }
func (SPARQLGenerator) Extension() string { return "rq" }

var allSPARQLQueryKinds = []string{"select", "construct", "ask", "insert", "delete"}

func (g SPARQLGenerator) Generate(schema *linkml.Schema, opts Options) ([]Output, error) {
	var outputs []Output

	base := schema.ID
	if base == "" {
		base = "https://example.org/" + schema.Name + "/"
	}

	kinds := opts.SPARQLQueryKinds
	if len(kinds) == 0 {
		kinds = allSPARQLQueryKinds
	}

	var b strings.Builder
	fmt.Fprintf(&b, "PREFIX : <%s>\n", base)
	schema.Prefixes.Range(func(prefix string, v any) bool {
		uri, _ := v.(string)
		fmt.Fprintf(&b, "PREFIX %s: <%s>\n", prefix, uri)
		return true
	})
	b.WriteString("\n")

	for _, className := range concreteClasses(schema) {
		slots, err := CollectSlots(schema, className)
		if err != nil {
			return nil, err
		}
		classDef := mustClass(schema, className)

		fmt.Fprintf(&b, "# %s\n", className)
		for _, kind := range kinds {
			switch kind {
			case "select":
				writeSPARQLSelect(&b, schema, className, classDef, slots)
			case "construct":
				writeSPARQLConstruct(&b, schema, className, classDef, slots)
			case "ask":
				writeSPARQLAsk(&b, schema, className, classDef, slots)
			case "insert":
				writeSPARQLInsertData(&b, className, slots)
			case "delete":
				writeSPARQLDeleteWhere(&b, className, slots)
			}
		}
		b.WriteString("\n")
	}

	outputs = append(outputs, Output{
		Filename: outputFilename(schema, "rq"),
		Content:  b.String(),
		Metadata: OutputMetadata{Generator: g.Name(), SchemaName: schema.Name},
	})
	return outputs, nil
}

func mustClass(schema *linkml.Schema, name string) *linkml.ClassDef {
	c, _ := schema.Class(name)
	return c
}

// classVarFor and slotURI implement "class URIs derived from schema prefix
// + PascalCase; slot URIs from schema prefix + snake_case".
func classVarFor(className string) string {
	return "?" + linkml.ToCamelCase(className)
}

func classURI(className string) string {
	return ":" + linkml.ToPascalCase(className)
}

func slotURI(slotName string) string {
	return ":" + linkml.ToSnakeCase(slotName)
}

func writeSPARQLTriplePatterns(b *strings.Builder, schema *linkml.Schema, className string, slots []string, indent string) {
	for _, slotName := range slots {
		slotDef := effectiveSlotDef(schema, mustClass(schema, className), slotName)
		optionalOpen, optionalClose := "", ""
		if slotDef == nil || slotDef.Required == nil || !*slotDef.Required {
			optionalOpen, optionalClose = "OPTIONAL { ", " }"
		}
		fmt.Fprintf(b, "%s%s%s %s ?%s .%s\n", indent, optionalOpen, classVarFor(className), slotURI(slotName), linkml.ToCamelCase(slotName), optionalClose)
	}
}

func writeSPARQLConstruct(b *strings.Builder, schema *linkml.Schema, className string, classDef *linkml.ClassDef, slots []string) {
	classVar := classVarFor(className)
	fmt.Fprintf(b, "CONSTRUCT {\n")
	fmt.Fprintf(b, "  %s a %s .\n", classVar, classURI(className))
	for _, slotName := range slots {
		fmt.Fprintf(b, "  %s %s ?%s .\n", classVar, slotURI(slotName), linkml.ToCamelCase(slotName))
	}
	b.WriteString("}\nWHERE {\n")
	fmt.Fprintf(b, "  %s a %s .\n", classVar, classURI(className))
	writeSPARQLTriplePatterns(b, schema, className, slots, "  ")
	writeSPARQLFilters(b, schema, classDef, slots, "  ")
	b.WriteString("}\n")
}

func writeSPARQLSelect(b *strings.Builder, schema *linkml.Schema, className string, classDef *linkml.ClassDef, slots []string) {
	classVar := classVarFor(className)
	var vars []string
	for _, slotName := range slots {
		vars = append(vars, "?"+linkml.ToCamelCase(slotName))
	}
	fmt.Fprintf(b, "SELECT %s %s WHERE {\n", classVar, strings.Join(vars, " "))
	fmt.Fprintf(b, "  %s a %s .\n", classVar, classURI(className))
	writeSPARQLTriplePatterns(b, schema, className, slots, "  ")
	writeSPARQLFilters(b, schema, classDef, slots, "  ")
	b.WriteString("}\n")
}

// writeSPARQLAsk asserts presence of an instance of className and coverage
// of every required slot, per spec.md §4.6's "ASK queries generated to
// assert presence and required-slot coverage".
func writeSPARQLAsk(b *strings.Builder, schema *linkml.Schema, className string, classDef *linkml.ClassDef, slots []string) {
	classVar := classVarFor(className)
	b.WriteString("ASK {\n")
	fmt.Fprintf(b, "  %s a %s .\n", classVar, classURI(className))
	for _, slotName := range slots {
		slotDef := effectiveSlotDef(schema, classDef, slotName)
		if slotDef == nil || slotDef.Required == nil || !*slotDef.Required {
			continue
		}
		fmt.Fprintf(b, "  %s %s ?%s .\n", classVar, slotURI(slotName), linkml.ToCamelCase(slotName))
	}
	b.WriteString("}\n")
}

func writeSPARQLInsertData(b *strings.Builder, className string, slots []string) {
	b.WriteString("INSERT DATA {\n")
	fmt.Fprintf(b, "  <urn:uuid:REPLACE_ME> a %s .\n", classURI(className))
	for _, slotName := range slots {
		fmt.Fprintf(b, "  <urn:uuid:REPLACE_ME> %s \"REPLACE_ME\" .\n", slotURI(slotName))
	}
	b.WriteString("}\n")
}

func writeSPARQLDeleteWhere(b *strings.Builder, className string, slots []string) {
	classVar := classVarFor(className)
	b.WriteString("DELETE WHERE {\n")
	fmt.Fprintf(b, "  %s a %s .\n", classVar, classURI(className))
	for _, slotName := range slots {
		fmt.Fprintf(b, "  %s %s ?%s .\n", classVar, slotURI(slotName), linkml.ToCamelCase(slotName))
	}
	b.WriteString("}\n")
}

// writeSPARQLFilters emits FILTER clauses for pattern, numeric-bound, and
// enum-membership constraints on className's slots.
func writeSPARQLFilters(b *strings.Builder, schema *linkml.Schema, classDef *linkml.ClassDef, slots []string, indent string) {
	for _, slotName := range slots {
		slotDef := effectiveSlotDef(schema, classDef, slotName)
		if slotDef == nil {
			continue
		}
		v := "?" + linkml.ToCamelCase(slotName)

		if slotDef.Pattern != nil {
			fmt.Fprintf(b, "%sFILTER(REGEX(%s, %q))\n", indent, v, *slotDef.Pattern)
		}
		if slotDef.MinimumValue != nil || slotDef.MaximumValue != nil {
			var bounds []string
			if slotDef.MinimumValue != nil {
				bounds = append(bounds, fmt.Sprintf("%s >= %s", v, linkml.FormatRat(slotDef.MinimumValue)))
			}
			if slotDef.MaximumValue != nil {
				bounds = append(bounds, fmt.Sprintf("%s <= %s", v, linkml.FormatRat(slotDef.MaximumValue)))
			}
			fmt.Fprintf(b, "%sFILTER(%s)\n", indent, strings.Join(bounds, " && "))
		}

		rangeName := resolvedRangeFromPtr(slotDef)
		if enumDef, ok := schema.Enum(rangeName); ok {
			var quoted []string
			for _, pv := range enumDef.PermissibleValues {
				quoted = append(quoted, fmt.Sprintf("%q", pv.Text))
			}
			fmt.Fprintf(b, "%sFILTER(%s IN (%s))\n", indent, v, strings.Join(quoted, ", "))
		}
	}
}

func resolvedRangeFromPtr(slotDef *linkml.SlotDef) string {
	if slotDef.Range != nil {
		return *slotDef.Range
	}
	return "string"
}

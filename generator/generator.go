// Package generator turns a resolved linkml.Schema into target-language
// artifacts: SQL DDL, GraphQL, OpenAPI, TypeScript, SPARQL, JSON-Schema-
// family validators, and summary reports.
package generator

import (
	"fmt"
	"strings"

	"github.com/linkml/linkml-go"
)

// Output is one generated artifact, per spec.md §6's "{filename, content,
// metadata}" contract.
type Output struct {
	Filename string
	Content  string
	Metadata OutputMetadata
}

// OutputMetadata describes how an Output was produced.
type OutputMetadata struct {
	Generator  string
	SchemaName string
	Dialect    string
}

// Options parameterize a single Generate call, shared across targets.
type Options struct {
	Dialect          string // e.g. "postgres", "mysql" for the SQL generator
	DocWrapColumn    int    // documentation-formatting wrap column; 0 disables wrapping
	GenerateAbstract bool   // SQL: emit tables for abstract classes too (contradicts "abstract" — see DESIGN.md)

	// SPARQLQueryKinds selects which query kinds the SPARQL generator emits
	// per class: any of "select", "construct", "ask", "insert", "delete".
	// Empty means all five.
	SPARQLQueryKinds []string
}

// Generator produces one or more Outputs from a resolved schema.
type Generator interface {
	Name() string
	Extension() string
	Generate(schema *linkml.Schema, opts Options) ([]Output, error)
}

// registry maps a generator name to its implementation, per spec.md §9's
// "a registry maps a generator name to its variant".
var registry = map[string]Generator{}

// Register adds g to the global registry under g.Name().
func Register(g Generator) {
	registry[g.Name()] = g
}

// Get looks up a registered generator by name.
func Get(name string) (Generator, bool) {
	g, ok := registry[name]
	return g, ok
}

// Names lists every registered generator name.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// outputFilename implements spec.md §6's deterministic filename rule:
// "{schema.name}.{ext}".
func outputFilename(schema *linkml.Schema, ext string) string {
	return fmt.Sprintf("%s.%s", schema.Name, ext)
}

// WrapDoc wraps text at column, prefixing each line with prefix (the
// target's comment token), per spec.md §4.6's documentation-formatting
// contract. column <= 0 disables wrapping (one line per paragraph).
func WrapDoc(text, prefix string, column int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if column <= 0 {
		return prefix + " " + text
	}

	words := strings.Fields(text)
	var lines []string
	var line strings.Builder
	budget := column - len(prefix) - 1
	if budget < 1 {
		budget = 1
	}

	for _, w := range words {
		if line.Len() > 0 && line.Len()+1+len(w) > budget {
			lines = append(lines, prefix+" "+line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(w)
	}
	if line.Len() > 0 {
		lines = append(lines, prefix+" "+line.String())
	}
	return strings.Join(lines, "\n")
}

// CollectSlots walks className's is_a chain (deepest ancestor first) and
// accumulates every slot and attribute name in declaration order, without
// per-slot override merging (spec.md §4.6's "Slot collection"). Unlike the
// Resolver it does not visit mixins or slot_usage-only slots.
func CollectSlots(schema *linkml.Schema, className string) ([]string, error) {
	chain, err := ancestryChain(schema, className)
	if err != nil {
		return nil, err
	}

	var order []string
	seen := map[string]bool{}
	for _, name := range chain {
		classDef, ok := schema.Class(name)
		if !ok {
			continue
		}
		for _, slotName := range classDef.Slots {
			if !seen[slotName] {
				seen[slotName] = true
				order = append(order, slotName)
			}
		}
		if classDef.Attributes != nil {
			classDef.Attributes.Range(func(slotName string, _ any) bool {
				if !seen[slotName] {
					seen[slotName] = true
					order = append(order, slotName)
				}
				return true
			})
		}
	}
	return order, nil
}

// ancestryChain returns className's is_a ancestors followed by className
// itself (deepest-ancestor-first, target last).
func ancestryChain(schema *linkml.Schema, className string) ([]string, error) {
	var chain []string
	visiting := map[string]bool{}
	var walk func(name string) error
	walk = func(name string) error {
		if visiting[name] {
			return fmt.Errorf("inheritance cycle detected at %s", name)
		}
		visiting[name] = true
		classDef, ok := schema.Class(name)
		if !ok {
			return fmt.Errorf("unknown class %s", name)
		}
		if classDef.IsA != nil {
			if err := walk(*classDef.IsA); err != nil {
				return err
			}
		}
		chain = append(chain, name)
		return nil
	}
	if err := walk(className); err != nil {
		return nil, err
	}
	return chain, nil
}

// concreteClasses returns every non-abstract class name in the schema, in
// declaration order.
func concreteClasses(schema *linkml.Schema) []string {
	var out []string
	schema.EachClass(func(name string, classDef *linkml.ClassDef) {
		if !classDef.Abstract {
			out = append(out, name)
		}
	})
	return out
}

// Pluralize renders a naive English plural of a kebab/snake/Pascal word,
// used by generators that derive resource paths (e.g. OpenAPI's
// `/{resource}` paths) from a class name.
func Pluralize(word string) string {
	if word == "" {
		return word
	}
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return word + "es"
	case strings.HasSuffix(lower, "y") && len(word) > 1 && !isVowel(rune(lower[len(lower)-2])):
		return word[:len(word)-1] + "ies"
	default:
		return word + "s"
	}
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// allClasses returns every class name in declaration order.
func allClasses(schema *linkml.Schema) []string {
	var out []string
	schema.EachClass(func(name string, _ *linkml.ClassDef) {
		out = append(out, name)
	})
	return out
}

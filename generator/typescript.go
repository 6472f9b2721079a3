package generator

import (
	"fmt"
	"strings"

	"github.com/linkml/linkml-go"
)

// TypeScriptGenerator emits a .ts module: one interface per class, one union
// type per enum, a type guard and validation function per concrete class,
// and shared ValidationError/ValidationResult<T> types, per spec.md §4.6's
// TypeScript contract. Multivalued slots render as readonly T[] unless
// marked unique (Set<T>) or ordered (plain T[]).
type TypeScriptGenerator struct{}

func init() { Register(TypeScriptGenerator{}) }

func (TypeScriptGenerator) Name() string      { return "typescript" }
func (TypeScriptGenerator) Extension() string { return "ts" }

func typeScriptScalar(rangeName string) (string, bool) {
	switch rangeName {
	case "string", "uri", "date", "datetime":
		return "string", true
	case "integer", "float", "double", "decimal":
		return "number", true
	case "boolean":
		return "boolean", true
	case "Any":
		return "unknown", true
	}
	return "", false
}

func (g TypeScriptGenerator) Generate(schema *linkml.Schema, opts Options) ([]Output, error) {
	var b strings.Builder

	writeTypeScriptValidationTypes(&b)

	for _, enumName := range sortedEnumNames(schema) {
		enumDef, _ := schema.Enum(enumName)
		var variants []string
		for _, pv := range enumDef.PermissibleValues {
			variants = append(variants, fmt.Sprintf("%q", pv.Text))
		}
		fmt.Fprintf(&b, "export type %s = %s;\n\n", linkml.ToPascalCase(enumName), strings.Join(variants, " | "))
	}

	for _, className := range allClasses(schema) {
		classDef, _ := schema.Class(className)
		slots, err := CollectSlots(schema, className)
		if err != nil {
			return nil, err
		}

		writeTypeScriptInterface(&b, schema, className, classDef, slots, opts)
		if classDef.Abstract {
			continue
		}
		writeTypeScriptTypeGuard(&b, schema, className, classDef, slots)
		writeTypeScriptValidateFn(&b, schema, className, classDef, slots)
	}

	return []Output{{
		Filename: outputFilename(schema, "ts"),
		Content:  b.String(),
		Metadata: OutputMetadata{Generator: g.Name(), SchemaName: schema.Name},
	}}, nil
}

func writeTypeScriptInterface(b *strings.Builder, schema *linkml.Schema, className string, classDef *linkml.ClassDef, slots []string, opts Options) {
	if classDef.Description != nil && opts.DocWrapColumn >= 0 {
		b.WriteString("/**\n")
		for _, line := range strings.Split(WrapDoc(*classDef.Description, "*", opts.DocWrapColumn), "\n") {
			b.WriteString(" " + line + "\n")
		}
		b.WriteString(" */\n")
	}
	fmt.Fprintf(b, "export interface %s {\n", linkml.ToPascalCase(className))

	for _, slotName := range slots {
		slotDef := effectiveSlotDef(schema, classDef, slotName)
		if slotDef == nil {
			continue
		}
		fieldName := linkml.ToCamelCase(slotName)
		optional := ""
		if slotDef.Required == nil || !*slotDef.Required {
			optional = "?"
		}
		fmt.Fprintf(b, "  %s%s: %s;\n", fieldName, optional, typeScriptFieldType(schema, slotDef))
	}
	b.WriteString("}\n\n")
}

// typeScriptFieldType maps a slot to its TypeScript type: a unique
// multivalued slot becomes Set<T>, an ordered one stays a plain T[], and
// any other multivalued slot becomes a readonly T[], per spec.md §4.6.
func typeScriptFieldType(schema *linkml.Schema, slotDef *linkml.SlotDef) string {
	rangeName := "string"
	if slotDef.Range != nil {
		rangeName = *slotDef.Range
	}

	var base string
	if scalar, ok := typeScriptScalar(rangeName); ok {
		base = scalar
	} else if _, ok := schema.Enum(rangeName); ok {
		base = linkml.ToPascalCase(rangeName)
	} else if _, ok := schema.Class(rangeName); ok {
		base = linkml.ToPascalCase(rangeName)
	} else {
		base = "string"
	}

	if slotDef.Multivalued == nil || !*slotDef.Multivalued {
		return base
	}

	switch {
	case slotDef.Unique != nil && *slotDef.Unique:
		return "Set<" + base + ">"
	case slotDef.Ordered != nil && *slotDef.Ordered:
		return base + "[]"
	default:
		return "readonly " + base + "[]"
	}
}

func writeTypeScriptValidationTypes(b *strings.Builder) {
	b.WriteString("export interface ValidationError {\n  path: string;\n  message: string;\n}\n\n")
	b.WriteString("export type ValidationResult<T> =\n  | { valid: true; value: T }\n  | { valid: false; errors: ValidationError[] };\n\n")
}

// writeTypeScriptTypeGuard emits an is{Class} function that narrows an
// unknown value to the class interface by checking each required field's
// presence and runtime type.
func writeTypeScriptTypeGuard(b *strings.Builder, schema *linkml.Schema, className string, classDef *linkml.ClassDef, slots []string) {
	pascal := linkml.ToPascalCase(className)
	fmt.Fprintf(b, "export function is%s(value: unknown): value is %s {\n", pascal, pascal)
	b.WriteString("  if (typeof value !== \"object\" || value === null) {\n    return false;\n  }\n")
	b.WriteString("  const v = value as Record<string, unknown>;\n")
	for _, slotName := range slots {
		slotDef := effectiveSlotDef(schema, classDef, slotName)
		if slotDef == nil || slotDef.Required == nil || !*slotDef.Required {
			continue
		}
		fieldName := linkml.ToCamelCase(slotName)
		if guard := typeScriptGuardExpr(schema, slotDef, "v."+fieldName); guard != "" {
			fmt.Fprintf(b, "  if (%s) {\n    return false;\n  }\n", guard)
		}
	}
	b.WriteString("  return true;\n}\n\n")
}

// typeScriptGuardExpr returns a condition that is true when expr does NOT
// satisfy slotDef's runtime type, for use in a type guard's early-return.
func typeScriptGuardExpr(schema *linkml.Schema, slotDef *linkml.SlotDef, expr string) string {
	if slotDef.Multivalued != nil && *slotDef.Multivalued {
		if slotDef.Unique != nil && *slotDef.Unique {
			return fmt.Sprintf("!(%s instanceof Set)", expr)
		}
		return fmt.Sprintf("!Array.isArray(%s)", expr)
	}

	rangeName := "string"
	if slotDef.Range != nil {
		rangeName = *slotDef.Range
	}
	if scalar, ok := typeScriptScalar(rangeName); ok && scalar != "unknown" {
		return fmt.Sprintf("typeof %s !== %q", expr, scalar)
	}
	if _, ok := schema.Enum(rangeName); ok {
		return fmt.Sprintf("typeof %s !== \"string\"", expr)
	}
	return fmt.Sprintf("%s === undefined", expr)
}

// writeTypeScriptValidateFn emits a validate{Class} function returning a
// tagged-union ValidationResult<T>, collecting one ValidationError per
// required field that is missing or has the wrong runtime type.
func writeTypeScriptValidateFn(b *strings.Builder, schema *linkml.Schema, className string, classDef *linkml.ClassDef, slots []string) {
	pascal := linkml.ToPascalCase(className)
	fmt.Fprintf(b, "export function validate%s(value: unknown): ValidationResult<%s> {\n", pascal, pascal)
	b.WriteString("  const errors: ValidationError[] = [];\n")
	b.WriteString("  if (typeof value !== \"object\" || value === null) {\n")
	b.WriteString("    return { valid: false, errors: [{ path: \"$\", message: \"expected an object\" }] };\n  }\n")
	b.WriteString("  const v = value as Record<string, unknown>;\n")
	for _, slotName := range slots {
		slotDef := effectiveSlotDef(schema, classDef, slotName)
		if slotDef == nil || slotDef.Required == nil || !*slotDef.Required {
			continue
		}
		fieldName := linkml.ToCamelCase(slotName)
		if guard := typeScriptGuardExpr(schema, slotDef, "v."+fieldName); guard != "" {
			fmt.Fprintf(b, "  if (%s) {\n    errors.push({ path: %q, message: %q });\n  }\n", guard, fieldName, fieldName+" is missing or has the wrong type")
		}
	}
	fmt.Fprintf(b, "  if (errors.length > 0) {\n    return { valid: false, errors };\n  }\n  return { valid: true, value: v as %s };\n}\n\n", pascal)
}

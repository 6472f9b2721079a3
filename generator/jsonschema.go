package generator

import (
	"fmt"
	"strings"

	"github.com/linkml/linkml-go"
)

// JSONSchemaGenerator emits one JSON Schema document per class, sharing
// jsonSchemaScalarType's mapping table with the Cerberus/Joi/Yup variants
// below, per spec.md §4.6's "JSON-Schema-family validators".
type JSONSchemaGenerator struct{}

func init() { Register(JSONSchemaGenerator{}) }

func (JSONSchemaGenerator) Name() string      { return "jsonschema" }
func (JSONSchemaGenerator) Extension() string { return "schema.json" }

func jsonSchemaScalarType(rangeName string) string {
	switch rangeName {
	case "string", "uri", "date", "datetime":
		return "string"
	case "integer":
		return "integer"
	case "float", "double", "decimal":
		return "number"
	case "boolean":
		return "boolean"
	}
	return ""
}

func (g JSONSchemaGenerator) Generate(schema *linkml.Schema, opts Options) ([]Output, error) {
	var outputs []Output
	for _, className := range concreteClasses(schema) {
		var b strings.Builder
		b.WriteString("{\n")
		fmt.Fprintf(&b, "  \"$id\": \"%s#%s\",\n", schema.ID, className)
		b.WriteString("  \"type\": \"object\",\n")

		slots, required, err := jsonSchemaProperties(schema, className)
		if err != nil {
			return nil, err
		}
		b.WriteString("  \"properties\": {\n")
		for i, line := range slots {
			b.WriteString("    " + line)
			if i < len(slots)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString("  }")
		if len(required) > 0 {
			b.WriteString(",\n  \"required\": [" + strings.Join(quoteAll(required), ", ") + "]")
		}
		b.WriteString("\n}\n")

		outputs = append(outputs, Output{
			Filename: fmt.Sprintf("%s.schema.json", className),
			Content:  b.String(),
			Metadata: OutputMetadata{Generator: g.Name(), SchemaName: schema.Name},
		})
	}
	return outputs, nil
}

func jsonSchemaProperties(schema *linkml.Schema, className string) ([]string, []string, error) {
	classDef, _ := schema.Class(className)
	slotNames, err := CollectSlots(schema, className)
	if err != nil {
		return nil, nil, err
	}

	var lines []string
	var required []string
	for _, slotName := range slotNames {
		slotDef := effectiveSlotDef(schema, classDef, slotName)
		if slotDef == nil {
			continue
		}
		if slotDef.Required != nil && *slotDef.Required {
			required = append(required, slotName)
		}
		lines = append(lines, fmt.Sprintf("\"%s\": %s", slotName, jsonSchemaPropertyBody(schema, slotDef)))
	}
	return lines, required, nil
}

func jsonSchemaPropertyBody(schema *linkml.Schema, slotDef *linkml.SlotDef) string {
	rangeName := "string"
	if slotDef.Range != nil {
		rangeName = *slotDef.Range
	}
	body := jsonSchemaScalarBody(schema, rangeName)
	if slotDef.Pattern != nil {
		body = strings.TrimSuffix(body, "}") + fmt.Sprintf(", \"pattern\": %q}", *slotDef.Pattern)
	}
	if slotDef.MinimumValue != nil {
		body = strings.TrimSuffix(body, "}") + fmt.Sprintf(", \"minimum\": %s}", linkml.FormatRat(slotDef.MinimumValue))
	}
	if slotDef.MaximumValue != nil {
		body = strings.TrimSuffix(body, "}") + fmt.Sprintf(", \"maximum\": %s}", linkml.FormatRat(slotDef.MaximumValue))
	}
	if slotDef.Multivalued != nil && *slotDef.Multivalued {
		return fmt.Sprintf("{\"type\": \"array\", \"items\": %s}", body)
	}
	return body
}

func jsonSchemaScalarBody(schema *linkml.Schema, rangeName string) string {
	if t := jsonSchemaScalarType(rangeName); t != "" {
		return fmt.Sprintf("{\"type\": %q}", t)
	}
	if enumDef, ok := schema.Enum(rangeName); ok {
		values := make([]string, 0, len(enumDef.PermissibleValues))
		for _, pv := range enumDef.PermissibleValues {
			values = append(values, fmt.Sprintf("%q", pv.Text))
		}
		return fmt.Sprintf("{\"enum\": [%s]}", strings.Join(values, ", "))
	}
	if _, ok := schema.Class(rangeName); ok {
		return fmt.Sprintf("{\"$ref\": \"#%s\"}", rangeName)
	}
	return "{\"type\": \"string\"}"
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

// CerberusGenerator emits a Python Cerberus validation-rules dict per class,
// reusing CollectSlots and jsonSchemaScalarType's mapping table.
type CerberusGenerator struct{}

func init() { Register(CerberusGenerator{}) }

func (CerberusGenerator) Name() string      { return "cerberus" }
func (CerberusGenerator) Extension() string { return "py" }

func (g CerberusGenerator) Generate(schema *linkml.Schema, opts Options) ([]Output, error) {
	var outputs []Output
	for _, className := range concreteClasses(schema) {
		classDef, _ := schema.Class(className)
		slotNames, err := CollectSlots(schema, className)
		if err != nil {
			return nil, err
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s_SCHEMA = {\n", strings.ToUpper(linkml.ToSnakeCase(className)))
		for _, slotName := range slotNames {
			slotDef := effectiveSlotDef(schema, classDef, slotName)
			if slotDef == nil {
				continue
			}
			fmt.Fprintf(&b, "    %q: %s,\n", slotName, cerberusRule(schema, slotDef))
		}
		b.WriteString("}\n")

		outputs = append(outputs, Output{
			Filename: fmt.Sprintf("%s_rules.py", linkml.ToSnakeCase(className)),
			Content:  b.String(),
			Metadata: OutputMetadata{Generator: g.Name(), SchemaName: schema.Name},
		})
	}
	return outputs, nil
}

func cerberusRule(schema *linkml.Schema, slotDef *linkml.SlotDef) string {
	rangeName := "string"
	if slotDef.Range != nil {
		rangeName = *slotDef.Range
	}
	cerberusType := "string"
	switch jsonSchemaScalarType(rangeName) {
	case "integer":
		cerberusType = "integer"
	case "number":
		cerberusType = "float"
	case "boolean":
		cerberusType = "boolean"
	}
	if _, ok := schema.Class(rangeName); ok {
		cerberusType = "dict"
	}

	parts := []string{fmt.Sprintf("'type': '%s'", cerberusType)}
	if slotDef.Required != nil && *slotDef.Required {
		parts = append(parts, "'required': True")
	}
	if slotDef.Pattern != nil {
		parts = append(parts, fmt.Sprintf("'regex': %q", *slotDef.Pattern))
	}
	if slotDef.Multivalued != nil && *slotDef.Multivalued {
		return fmt.Sprintf("{'type': 'list', 'schema': {%s}}", strings.Join(parts, ", "))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// JoiGenerator emits a JavaScript Joi schema per class.
type JoiGenerator struct{}

func init() { Register(JoiGenerator{}) }

func (JoiGenerator) Name() string      { return "joi" }
func (JoiGenerator) Extension() string { return "js" }

func (g JoiGenerator) Generate(schema *linkml.Schema, opts Options) ([]Output, error) {
	return generateJSValidator(schema, "Joi", g.Name())
}

// YupGenerator emits a JavaScript Yup schema per class.
type YupGenerator struct{}

func init() { Register(YupGenerator{}) }

func (YupGenerator) Name() string      { return "yup" }
func (YupGenerator) Extension() string { return "js" }

func (g YupGenerator) Generate(schema *linkml.Schema, opts Options) ([]Output, error) {
	return generateJSValidator(schema, "Yup", g.Name())
}

// generateJSValidator backs both JoiGenerator and YupGenerator: the two
// outputs differ only in the library variable (`Joi` vs `yup`), the
// object-wrapper call (`object` vs `object().shape`) and the export
// statement (`module.exports` vs `export`), so one shared walk produces both.
func generateJSValidator(schema *linkml.Schema, lib, generatorName string) ([]Output, error) {
	var outputs []Output
	wrapper := "object"
	if lib == "Yup" {
		wrapper = "object().shape"
	}

	for _, className := range concreteClasses(schema) {
		classDef, _ := schema.Class(className)
		slotNames, err := CollectSlots(schema, className)
		if err != nil {
			return nil, err
		}

		var b strings.Builder
		libVar := "Joi"
		if lib == "Yup" {
			libVar = "yup"
		}
		fmt.Fprintf(&b, "const %sSchema = %s.%s({\n", linkml.ToCamelCase(className), libVar, wrapper)
		for _, slotName := range slotNames {
			slotDef := effectiveSlotDef(schema, classDef, slotName)
			if slotDef == nil {
				continue
			}
			fmt.Fprintf(&b, "  %s: %s,\n", linkml.ToCamelCase(slotName), jsValidatorChain(libVar, schema, slotDef))
		}
		b.WriteString("});\n")
		if lib == "Joi" {
			fmt.Fprintf(&b, "module.exports = { %sSchema };\n", linkml.ToCamelCase(className))
		} else {
			fmt.Fprintf(&b, "export { %sSchema };\n", linkml.ToCamelCase(className))
		}

		outputs = append(outputs, Output{
			Filename: fmt.Sprintf("%s.%s.js", linkml.ToKebabCase(className), strings.ToLower(lib)),
			Content:  b.String(),
			Metadata: OutputMetadata{Generator: generatorName, SchemaName: schema.Name},
		})
	}
	return outputs, nil
}

func jsValidatorChain(libVar string, schema *linkml.Schema, slotDef *linkml.SlotDef) string {
	rangeName := "string"
	if slotDef.Range != nil {
		rangeName = *slotDef.Range
	}

	base := libVar + ".string()"
	switch jsonSchemaScalarType(rangeName) {
	case "integer", "number":
		base = libVar + ".number()"
	case "boolean":
		base = libVar + ".boolean()"
	}
	if _, ok := schema.Class(rangeName); ok {
		base = libVar + ".object()"
	}

	if slotDef.Pattern != nil {
		base += fmt.Sprintf(".pattern(/%s/)", *slotDef.Pattern)
	}
	if slotDef.Required != nil && *slotDef.Required {
		base += ".required()"
	}
	if slotDef.Multivalued != nil && *slotDef.Multivalued {
		return fmt.Sprintf("%s.array().items(%s)", libVar, base)
	}
	return base
}

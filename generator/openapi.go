package generator

import (
	"fmt"
	"strings"

	"github.com/linkml/linkml-go"
)

// OpenAPIGenerator emits an OpenAPI 3.0.3 document (as YAML-shaped text, no
// external schema library required): one component schema per class and per
// enum with `allOf` encoding `is_a`, Create/Update request variants, CRUD
// paths per resource, and shared BadRequest/NotFound responses, per
// spec.md §4.6's OpenAPI contract.
type OpenAPIGenerator struct{}

func init() { Register(OpenAPIGenerator{}) }

func (OpenAPIGenerator) Name() string      { return "openapi" }
func (OpenAPIGenerator) Extension() string { return "yaml" }

func openAPIScalarType(rangeName string) (string, string) {
	switch rangeName {
	case "string", "uri":
		return "string", ""
	case "integer":
		return "integer", "int64"
	case "float":
		return "number", "float"
	case "double", "decimal":
		return "number", "double"
	case "boolean":
		return "boolean", ""
	case "date":
		return "string", "date"
	case "datetime":
		return "string", "date-time"
	}
	return "", ""
}

func (g OpenAPIGenerator) Generate(schema *linkml.Schema, opts Options) ([]Output, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "openapi: 3.0.3\n")
	fmt.Fprintf(&b, "info:\n  title: %s\n  version: \"%s\"\n", schema.Name, versionOrDefault(schema.Version))

	if err := writeOpenAPIPaths(&b, schema); err != nil {
		return nil, err
	}

	b.WriteString("components:\n")
	writeOpenAPIResponses(&b)
	b.WriteString("  schemas:\n")

	for _, enumName := range sortedEnumNames(schema) {
		enumDef, _ := schema.Enum(enumName)
		fmt.Fprintf(&b, "    %s:\n      type: string\n      enum:\n", linkml.ToPascalCase(enumName))
		for _, pv := range enumDef.PermissibleValues {
			fmt.Fprintf(&b, "        - %s\n", pv.Text)
		}
	}

	for _, className := range allClasses(schema) {
		classDef, _ := schema.Class(className)
		writeOpenAPIClassSchema(&b, schema, className, classDef)
		if classDef.Abstract {
			continue
		}

		slots, err := CollectSlots(schema, className)
		if err != nil {
			return nil, err
		}
		writeOpenAPIRequestVariant(&b, schema, className, classDef, slots, "CreateRequest", true, false)
		writeOpenAPIRequestVariant(&b, schema, className, classDef, slots, "UpdateRequest", false, true)
	}

	return []Output{{
		Filename: outputFilename(schema, "yaml"),
		Content:  b.String(),
		Metadata: OutputMetadata{Generator: g.Name(), SchemaName: schema.Name},
	}}, nil
}

// writeOpenAPIClassSchema emits a component schema for className. When the
// class has an is_a parent, the own-slot body is wrapped in `allOf` beside
// a `$ref` to the parent schema, per spec.md §4.6's "`allOf` encodes `is_a`".
func writeOpenAPIClassSchema(b *strings.Builder, schema *linkml.Schema, className string, classDef *linkml.ClassDef) {
	pascal := linkml.ToPascalCase(className)
	fmt.Fprintf(b, "    %s:\n", pascal)

	ownSlots := classDef.Slots
	if classDef.Attributes != nil {
		classDef.Attributes.Range(func(name string, _ any) bool {
			ownSlots = append(ownSlots, name)
			return true
		})
	}
	bodyIndent := "      "
	if classDef.IsA != nil {
		b.WriteString("      allOf:\n")
		fmt.Fprintf(b, "        - $ref: '#/components/schemas/%s'\n", linkml.ToPascalCase(*classDef.IsA))
		b.WriteString("        - type: object\n")
		bodyIndent = "          "
	} else {
		b.WriteString("      type: object\n")
	}

	if classDef.Description != nil {
		fmt.Fprintf(b, "%sdescription: %q\n", bodyIndent, *classDef.Description)
	}

	var required []string
	fmt.Fprintf(b, "%sproperties:\n", bodyIndent)
	for _, slotName := range ownSlots {
		slotDef := effectiveSlotDef(schema, classDef, slotName)
		if slotDef == nil {
			continue
		}
		if slotDef.Required != nil && *slotDef.Required {
			required = append(required, slotName)
		}
		writeOpenAPIProperty(b, schema, slotName, slotDef, bodyIndent+"  ")
	}
	if len(required) > 0 {
		fmt.Fprintf(b, "%srequired:\n", bodyIndent)
		for _, r := range required {
			fmt.Fprintf(b, "%s  - %s\n", bodyIndent, r)
		}
	}
}

// writeOpenAPIRequestVariant emits {Class}CreateRequest (no identifier
// slots) or {Class}UpdateRequest (minProperties: 1, every field optional).
func writeOpenAPIRequestVariant(b *strings.Builder, schema *linkml.Schema, className string, classDef *linkml.ClassDef, slots []string, suffix string, excludeIdentifier, minProperties bool) {
	fmt.Fprintf(b, "    %s%s:\n      type: object\n", linkml.ToPascalCase(className), suffix)
	if minProperties {
		b.WriteString("      minProperties: 1\n")
	}

	var required []string
	b.WriteString("      properties:\n")
	for _, slotName := range slots {
		slotDef := effectiveSlotDef(schema, classDef, slotName)
		if slotDef == nil {
			continue
		}
		if excludeIdentifier && slotDef.Identifier != nil && *slotDef.Identifier {
			continue
		}
		if !minProperties && slotDef.Required != nil && *slotDef.Required {
			required = append(required, slotName)
		}
		writeOpenAPIProperty(b, schema, slotName, slotDef, "        ")
	}
	if len(required) > 0 {
		b.WriteString("      required:\n")
		for _, r := range required {
			fmt.Fprintf(b, "        - %s\n", r)
		}
	}
}

func writeOpenAPIProperty(b *strings.Builder, schema *linkml.Schema, slotName string, slotDef *linkml.SlotDef, indent string) {
	rangeName := "string"
	if slotDef.Range != nil {
		rangeName = *slotDef.Range
	}
	multivalued := slotDef.Multivalued != nil && *slotDef.Multivalued

	fmt.Fprintf(b, "%s%s:\n", indent, slotName)
	propIndent := indent + "  "
	if multivalued {
		b.WriteString(propIndent + "type: array\n")
		b.WriteString(propIndent + "items:\n")
		propIndent += "  "
	}
	writeOpenAPIType(b, schema, rangeName, propIndent)
}

func writeOpenAPIType(b *strings.Builder, schema *linkml.Schema, rangeName, indent string) {
	if t, format := openAPIScalarType(rangeName); t != "" {
		fmt.Fprintf(b, "%stype: %s\n", indent, t)
		if format != "" {
			fmt.Fprintf(b, "%sformat: %s\n", indent, format)
		}
		return
	}
	if _, ok := schema.Enum(rangeName); ok {
		fmt.Fprintf(b, "%s$ref: '#/components/schemas/%s'\n", indent, linkml.ToPascalCase(rangeName))
		return
	}
	if _, ok := schema.Class(rangeName); ok {
		fmt.Fprintf(b, "%s$ref: '#/components/schemas/%s'\n", indent, linkml.ToPascalCase(rangeName))
		return
	}
	fmt.Fprintf(b, "%stype: string\n", indent)
}

// writeOpenAPIPaths emits `/{resource}` (list+create) and `/{resource}/{id}`
// (read/replace/patch/delete) for every concrete class, per spec.md §4.6.
func writeOpenAPIPaths(b *strings.Builder, schema *linkml.Schema) error {
	b.WriteString("paths:\n")
	for _, className := range concreteClasses(schema) {
		resource := Pluralize(linkml.ToKebabCase(className))
		pascal := linkml.ToPascalCase(className)

		fmt.Fprintf(b, "  /%s:\n", resource)
		b.WriteString("    get:\n")
		fmt.Fprintf(b, "      summary: List %s\n", resource)
		b.WriteString("      parameters:\n")
		b.WriteString("        - name: page\n          in: query\n          schema:\n            type: integer\n")
		b.WriteString("        - name: pageSize\n          in: query\n          schema:\n            type: integer\n")
		b.WriteString("      responses:\n")
		fmt.Fprintf(b, "        '200':\n          description: A page of %s\n          content:\n            application/json:\n              schema:\n                type: array\n                items:\n                  $ref: '#/components/schemas/%s'\n", resource, pascal)
		writeOpenAPIErrorRef(b, "        ", "400")
		b.WriteString("    post:\n")
		fmt.Fprintf(b, "      summary: Create a %s\n", pascal)
		fmt.Fprintf(b, "      requestBody:\n        content:\n          application/json:\n            schema:\n              $ref: '#/components/schemas/%sCreateRequest'\n", pascal)
		b.WriteString("      responses:\n")
		fmt.Fprintf(b, "        '201':\n          description: Created\n          content:\n            application/json:\n              schema:\n                $ref: '#/components/schemas/%s'\n", pascal)
		writeOpenAPIErrorRef(b, "        ", "400")

		fmt.Fprintf(b, "  /%s/{id}:\n", resource)
		b.WriteString("    get:\n      responses:\n")
		fmt.Fprintf(b, "        '200':\n          description: %s found\n          content:\n            application/json:\n              schema:\n                $ref: '#/components/schemas/%s'\n", pascal, pascal)
		writeOpenAPIErrorRef(b, "        ", "404")
		b.WriteString("    put:\n")
		fmt.Fprintf(b, "      requestBody:\n        content:\n          application/json:\n            schema:\n              $ref: '#/components/schemas/%s'\n", pascal)
		b.WriteString("      responses:\n")
		fmt.Fprintf(b, "        '200':\n          description: Replaced\n          content:\n            application/json:\n              schema:\n                $ref: '#/components/schemas/%s'\n", pascal)
		writeOpenAPIErrorRef(b, "        ", "400")
		writeOpenAPIErrorRef(b, "        ", "404")
		b.WriteString("    patch:\n")
		fmt.Fprintf(b, "      requestBody:\n        content:\n          application/json:\n            schema:\n              $ref: '#/components/schemas/%sUpdateRequest'\n", pascal)
		b.WriteString("      responses:\n")
		fmt.Fprintf(b, "        '200':\n          description: Patched\n          content:\n            application/json:\n              schema:\n                $ref: '#/components/schemas/%s'\n", pascal)
		writeOpenAPIErrorRef(b, "        ", "400")
		writeOpenAPIErrorRef(b, "        ", "404")
		b.WriteString("    delete:\n      responses:\n        '204':\n          description: Deleted\n")
		writeOpenAPIErrorRef(b, "        ", "404")
	}
	return nil
}

func writeOpenAPIErrorRef(b *strings.Builder, indent, status string) {
	name := "BadRequest"
	if status == "404" {
		name = "NotFound"
	}
	fmt.Fprintf(b, "%s'%s':\n%s  $ref: '#/components/responses/%s'\n", indent, status, indent, name)
}

func writeOpenAPIResponses(b *strings.Builder) {
	b.WriteString("  responses:\n")
	b.WriteString("    BadRequest:\n      description: The request was malformed\n      content:\n        application/json:\n          schema:\n            type: object\n            properties:\n              message:\n                type: string\n")
	b.WriteString("    NotFound:\n      description: The resource does not exist\n      content:\n        application/json:\n          schema:\n            type: object\n            properties:\n              message:\n                type: string\n")
}

func versionOrDefault(v string) string {
	if v == "" {
		return "0.0.0"
	}
	return v
}

package generator

import (
	"fmt"
	"strings"

	"github.com/linkml/linkml-go"
)

// GraphQLGenerator emits a GraphQL SDL document, per spec.md §4.6's GraphQL
// contract: `interface` for abstract classes, `type … implements …` for
// concrete ones, scalar mappings for built-in ranges, `!`/`[T!]` wrapping,
// a Query/Mutation root, Relay-style Connection/Edge/PageInfo types, and
// per-scalar filter input types.
type GraphQLGenerator struct{}

func init() { Register(GraphQLGenerator{}) }

func (GraphQLGenerator) Name() string      { return "graphql" }
func (GraphQLGenerator) Extension() string { return "graphql" }

func graphQLScalar(rangeName string) (string, bool) {
	switch rangeName {
	case "string", "uri":
		return "String", true
	case "integer":
		return "Int", true
	case "float", "double", "decimal":
		return "Float", true
	case "boolean":
		return "Boolean", true
	case "date", "datetime":
		return "String", true
	}
	return "", false
}

func (g GraphQLGenerator) Generate(schema *linkml.Schema, opts Options) ([]Output, error) {
	var b strings.Builder

	writeGraphQLScalarFilters(&b)

	for _, enumName := range sortedEnumNames(schema) {
		enumDef, _ := schema.Enum(enumName)
		fmt.Fprintf(&b, "enum %s {\n", linkml.ToPascalCase(enumName))
		for _, pv := range enumDef.PermissibleValues {
			fmt.Fprintf(&b, "  %s\n", linkml.ToScreamingSnakeCase(pv.Text))
		}
		b.WriteString("}\n\n")
	}

	for _, className := range allClasses(schema) {
		classDef, _ := schema.Class(className)
		if err := writeGraphQLClass(&b, schema, className, classDef, opts); err != nil {
			return nil, err
		}
	}

	for _, className := range concreteClasses(schema) {
		classDef, _ := schema.Class(className)
		slots, err := CollectSlots(schema, className)
		if err != nil {
			return nil, err
		}
		writeGraphQLFilterInput(&b, schema, className, classDef, slots)
		writeGraphQLConnectionTypes(&b, className)
	}

	writeGraphQLPageInfo(&b)
	if err := writeGraphQLRoot(&b, schema); err != nil {
		return nil, err
	}

	return []Output{{
		Filename: outputFilename(schema, "graphql"),
		Content:  b.String(),
		Metadata: OutputMetadata{Generator: g.Name(), SchemaName: schema.Name},
	}}, nil
}

func writeGraphQLClass(b *strings.Builder, schema *linkml.Schema, className string, classDef *linkml.ClassDef, opts Options) error {
	if classDef.Description != nil && opts.DocWrapColumn >= 0 {
		b.WriteString(WrapDoc(*classDef.Description, "#", opts.DocWrapColumn))
		b.WriteString("\n")
	}

	kind := "type"
	if classDef.Abstract {
		kind = "interface"
	}

	fmt.Fprintf(b, "%s %s", kind, linkml.ToPascalCase(className))
	if !classDef.Abstract {
		if implements := graphQLImplements(schema, classDef); len(implements) > 0 {
			fmt.Fprintf(b, " implements %s", strings.Join(implements, " & "))
		}
	}
	b.WriteString(" {\n")

	slots, err := CollectSlots(schema, className)
	if err != nil {
		return err
	}
	for _, slotName := range slots {
		slotDef := effectiveSlotDef(schema, classDef, slotName)
		if slotDef == nil {
			continue
		}
		fieldType := graphQLFieldType(schema, slotDef)
		fmt.Fprintf(b, "  %s: %s\n", linkml.ToCamelCase(slotName), fieldType)
	}
	b.WriteString("}\n\n")
	return nil
}

// graphQLImplements returns the abstract ancestors of className, nearest
// first, each rendered as an `implements` interface name.
func graphQLImplements(schema *linkml.Schema, classDef *linkml.ClassDef) []string {
	var names []string
	cur := classDef
	visiting := map[string]bool{}
	for cur.IsA != nil {
		if visiting[*cur.IsA] {
			break
		}
		visiting[*cur.IsA] = true
		parent, ok := schema.Class(*cur.IsA)
		if !ok {
			break
		}
		if parent.Abstract {
			names = append(names, linkml.ToPascalCase(parent.Name))
		}
		cur = parent
	}
	return names
}

func graphQLFieldType(schema *linkml.Schema, slotDef *linkml.SlotDef) string {
	rangeName := "string"
	if slotDef.Range != nil {
		rangeName = *slotDef.Range
	}

	var base string
	if scalar, ok := graphQLScalar(rangeName); ok {
		base = scalar
	} else if _, ok := schema.Enum(rangeName); ok {
		base = linkml.ToPascalCase(rangeName)
	} else if _, ok := schema.Class(rangeName); ok {
		base = linkml.ToPascalCase(rangeName)
	} else {
		base = "String"
	}

	var fieldType string
	if slotDef.Multivalued != nil && *slotDef.Multivalued {
		fieldType = "[" + base + "!]"
	} else {
		fieldType = base
	}
	if slotDef.Required != nil && *slotDef.Required {
		fieldType += "!"
	}
	return fieldType
}

// graphQLFilterType maps a scalar range to its filter input type, per
// spec.md §4.6's "per-scalar StringFilter/NumberFilter/BooleanFilter/
// IDFilter".
func graphQLFilterType(schema *linkml.Schema, slotDef *linkml.SlotDef) string {
	if slotDef.Identifier != nil && *slotDef.Identifier {
		return "IDFilter"
	}
	rangeName := "string"
	if slotDef.Range != nil {
		rangeName = *slotDef.Range
	}
	switch rangeName {
	case "integer", "float", "double", "decimal":
		return "NumberFilter"
	case "boolean":
		return "BooleanFilter"
	}
	if _, ok := schema.Enum(rangeName); ok {
		return "StringFilter"
	}
	return "StringFilter"
}

func writeGraphQLScalarFilters(b *strings.Builder) {
	b.WriteString("input StringFilter {\n  eq: String\n  contains: String\n  in: [String!]\n}\n\n")
	b.WriteString("input NumberFilter {\n  eq: Float\n  gt: Float\n  lt: Float\n  gte: Float\n  lte: Float\n}\n\n")
	b.WriteString("input BooleanFilter {\n  eq: Boolean\n}\n\n")
	b.WriteString("input IDFilter {\n  eq: ID\n  in: [ID!]\n}\n\n")
}

func writeGraphQLFilterInput(b *strings.Builder, schema *linkml.Schema, className string, classDef *linkml.ClassDef, slots []string) {
	fmt.Fprintf(b, "input %sFilterInput {\n", linkml.ToPascalCase(className))
	for _, slotName := range slots {
		slotDef := effectiveSlotDef(schema, classDef, slotName)
		if slotDef == nil || slotDef.Multivalued != nil && *slotDef.Multivalued {
			continue
		}
		if _, ok := schema.Class(resolvedRange(slotDef)); ok {
			continue
		}
		fmt.Fprintf(b, "  %s: %s\n", linkml.ToCamelCase(slotName), graphQLFilterType(schema, slotDef))
	}
	b.WriteString("}\n\n")
}

func resolvedRange(slotDef *linkml.SlotDef) string {
	if slotDef.Range != nil {
		return *slotDef.Range
	}
	return "string"
}

func writeGraphQLConnectionTypes(b *strings.Builder, className string) {
	pascal := linkml.ToPascalCase(className)
	fmt.Fprintf(b, "type %sEdge {\n  node: %s!\n  cursor: String!\n}\n\n", pascal, pascal)
	fmt.Fprintf(b, "type %sConnection {\n  edges: [%sEdge!]!\n  pageInfo: PageInfo!\n  totalCount: Int!\n}\n\n", pascal, pascal)
}

func writeGraphQLPageInfo(b *strings.Builder) {
	b.WriteString("type PageInfo {\n  hasNextPage: Boolean!\n  hasPreviousPage: Boolean!\n  startCursor: String\n  endCursor: String\n}\n\n")
}

func writeGraphQLRoot(b *strings.Builder, schema *linkml.Schema) error {
	var query, mutation strings.Builder
	query.WriteString("type Query {\n")
	mutation.WriteString("type Mutation {\n")

	for _, className := range concreteClasses(schema) {
		pascal := linkml.ToPascalCase(className)
		camel := linkml.ToCamelCase(className)
		plural := Pluralize(camel)

		fmt.Fprintf(&query, "  %s(id: ID!): %s\n", camel, pascal)
		fmt.Fprintf(&query, "  %s(filter: %sFilterInput, first: Int, after: String): %sConnection!\n", plural, pascal, pascal)

		fmt.Fprintf(&mutation, "  create%s(input: %sCreateInput!): %s!\n", pascal, pascal, pascal)
		fmt.Fprintf(&mutation, "  update%s(id: ID!, input: %sUpdateInput!): %s!\n", pascal, pascal, pascal)
		fmt.Fprintf(&mutation, "  delete%s(id: ID!): Boolean!\n", pascal)
	}

	query.WriteString("}\n\n")
	mutation.WriteString("}\n\n")

	b.WriteString(query.String())
	b.WriteString(mutation.String())

	for _, className := range concreteClasses(schema) {
		classDef, _ := schema.Class(className)
		slots, err := CollectSlots(schema, className)
		if err != nil {
			return err
		}
		writeGraphQLInputType(b, schema, className, classDef, slots, "Create", true)
		writeGraphQLInputType(b, schema, className, classDef, slots, "Update", false)
	}
	return nil
}

// writeGraphQLInputType emits {Class}CreateInput/{Class}UpdateInput, the
// mutation-side counterparts to OpenAPI's CreateRequest/UpdateRequest
// variants: Create drops identifier slots, Update makes every field
// optional.
func writeGraphQLInputType(b *strings.Builder, schema *linkml.Schema, className string, classDef *linkml.ClassDef, slots []string, variant string, excludeIdentifier bool) {
	fmt.Fprintf(b, "input %s%sInput {\n", linkml.ToPascalCase(className), variant)
	for _, slotName := range slots {
		slotDef := effectiveSlotDef(schema, classDef, slotName)
		if slotDef == nil {
			continue
		}
		if excludeIdentifier && slotDef.Identifier != nil && *slotDef.Identifier {
			continue
		}
		fieldType := graphQLFieldType(schema, slotDef)
		if variant == "Update" {
			fieldType = strings.TrimSuffix(fieldType, "!")
		}
		fmt.Fprintf(b, "  %s: %s\n", linkml.ToCamelCase(slotName), fieldType)
	}
	b.WriteString("}\n\n")
}

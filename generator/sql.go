package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/linkml/linkml-go"
)

// SQLGenerator emits dialect-aware SQL DDL, per spec.md §4.6's SQL contract.
type SQLGenerator struct{}

func init() { Register(SQLGenerator{}) }

func (SQLGenerator) Name() string      { return "sql" }
func (SQLGenerator) Extension() string { return "sql" }

// sqlColumnType maps a LinkML range to the default table, overridable per
// dialect below.
func sqlColumnType(schema *linkml.Schema, rangeName, dialect string) string {
	switch rangeName {
	case "string", "uri":
		return "VARCHAR(255)"
	case "integer":
		return "INTEGER"
	case "float", "double":
		return "DOUBLE PRECISION"
	case "boolean":
		if dialect == "mysql" {
			return "TINYINT(1)"
		}
		return "BOOLEAN"
	case "date":
		return "DATE"
	case "datetime":
		if dialect == "postgres" {
			return "TIMESTAMP WITH TIME ZONE"
		}
		return "TIMESTAMP"
	case "decimal":
		return "NUMERIC"
	}
	if _, ok := schema.Enum(rangeName); ok {
		if dialect == "postgres" {
			return strings.ToUpper(toSQLSnakeCase(rangeName)) + "_ENUM"
		}
		return "VARCHAR(255)"
	}
	return "TEXT"
}

// Generate implements spec.md §4.6's SQL DDL contract: one table per
// concrete class (plus abstract classes when opts.GenerateAbstract is set,
// a documented quirk — see DESIGN.md), a synthesized `id` primary key, one
// column per scalar slot, FKs for class-ranged slots, junction tables for
// multivalued class-ranged slots, CHECK constraints for patterns under the
// Postgres dialect, and native ENUM types under Postgres. Other dialects
// give enum-ranged columns VARCHAR(255); no enum lookup tables are emitted.
func (g SQLGenerator) Generate(schema *linkml.Schema, opts Options) ([]Output, error) {
	dialect := opts.Dialect
	if dialect == "" {
		dialect = "postgres"
	}

	var b strings.Builder

	if dialect == "postgres" {
		for _, enumName := range sortedEnumNames(schema) {
			enumDef, _ := schema.Enum(enumName)
			values := make([]string, 0, len(enumDef.PermissibleValues))
			for _, pv := range enumDef.PermissibleValues {
				values = append(values, fmt.Sprintf("'%s'", escapeSQLLiteral(pv.Text)))
			}
			fmt.Fprintf(&b, "CREATE TYPE %s AS ENUM (%s);\n\n", strings.ToUpper(toSQLSnakeCase(enumName))+"_ENUM", strings.Join(values, ", "))
		}
	}

	classNames := targetClasses(schema, opts)
	var junctions []string

	for _, className := range classNames {
		classDef, _ := schema.Class(className)
		table := toSQLSnakeCase(className)
		slots, err := CollectSlots(schema, className)
		if err != nil {
			return nil, err
		}

		fmt.Fprintf(&b, "CREATE TABLE %s (\n", table)
		fmt.Fprintf(&b, "    id %s PRIMARY KEY", sqlIDType(dialect))

		var fkLines []string
		var checkLines []string
		var indexLines []string

		for _, slotName := range slots {
			slotDef := effectiveSlotDef(schema, classDef, slotName)
			if slotDef == nil {
				continue
			}
			rangeName := "string"
			if slotDef.Range != nil {
				rangeName = *slotDef.Range
			}
			multivalued := slotDef.Multivalued != nil && *slotDef.Multivalued
			_, isClass := schema.Class(rangeName)

			if multivalued && isClass {
				junctionTable := table + "_" + toSQLSnakeCase(slotName)
				junctions = append(junctions, fmt.Sprintf(
					"CREATE TABLE %s (\n    %s_id %s NOT NULL REFERENCES %s(id),\n    %s_id %s NOT NULL REFERENCES %s(id),\n    PRIMARY KEY (%s_id, %s_id)\n);\n",
					junctionTable, table, sqlIDType(dialect), table, toSQLSnakeCase(rangeName), sqlIDType(dialect), toSQLSnakeCase(rangeName), table, toSQLSnakeCase(rangeName),
				))
				continue
			}

			colName := toSQLSnakeCase(slotName)
			var colType string
			if multivalued && dialect == "postgres" {
				colType = sqlColumnType(schema, rangeName, dialect) + "[]"
			} else if multivalued {
				colType = "TEXT"
			} else {
				colType = sqlColumnType(schema, rangeName, dialect)
			}

			fmt.Fprintf(&b, ",\n    %s %s", colName, colType)
			if slotDef.Required != nil && *slotDef.Required {
				b.WriteString(" NOT NULL")
			}
			if isClass && !multivalued {
				fkLines = append(fkLines, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(id)", colName, toSQLSnakeCase(rangeName)))
				indexLines = append(indexLines, fmt.Sprintf("CREATE INDEX idx_%s_%s ON %s (%s);", table, colName, table, colName))
			}
			if slotDef.Identifier != nil && *slotDef.Identifier {
				indexLines = append(indexLines, fmt.Sprintf("CREATE UNIQUE INDEX idx_%s_%s_identifier ON %s (%s);", table, colName, table, colName))
			}
			if slotDef.Pattern != nil && dialect == "postgres" {
				checkLines = append(checkLines, fmt.Sprintf("CHECK (%s ~ '%s')", colName, escapeSQLLiteral(*slotDef.Pattern)))
			}
		}

		for _, fk := range fkLines {
			fmt.Fprintf(&b, ",\n    %s", fk)
		}
		for _, chk := range checkLines {
			fmt.Fprintf(&b, ",\n    %s", chk)
		}
		b.WriteString("\n);\n")
		for _, idx := range indexLines {
			b.WriteString(idx + "\n")
		}
		b.WriteString("\n")
	}

	for _, j := range junctions {
		b.WriteString(j)
		b.WriteString("\n")
	}

	return []Output{{
		Filename: outputFilename(schema, "sql"),
		Content:  b.String(),
		Metadata: OutputMetadata{Generator: g.Name(), SchemaName: schema.Name, Dialect: dialect},
	}}, nil
}

func sqlIDType(dialect string) string {
	if dialect == "postgres" {
		return "UUID"
	}
	return "CHAR(36)"
}

// targetClasses returns the classes the SQL generator emits tables for:
// concrete classes always, abstract classes too when opts.GenerateAbstract
// is set (a documented quirk — abstract classes normally have no table).
func targetClasses(schema *linkml.Schema, opts Options) []string {
	if opts.GenerateAbstract {
		return allClasses(schema)
	}
	return concreteClasses(schema)
}

func effectiveSlotDef(schema *linkml.Schema, classDef *linkml.ClassDef, slotName string) *linkml.SlotDef {
	if classDef.Attributes != nil {
		if v, ok := classDef.Attributes.Get(slotName); ok {
			if sd, ok := v.(*linkml.SlotDef); ok {
				return sd
			}
		}
	}
	if sd, ok := schema.Slot(slotName); ok {
		return sd
	}
	return nil
}

func sortedEnumNames(schema *linkml.Schema) []string {
	var names []string
	schema.Enums.Range(func(name string, _ any) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

func escapeSQLLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

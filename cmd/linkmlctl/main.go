// Command linkmlctl validates instance documents against a schema, diffs two
// schema versions, and drives the generator framework from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/linkml/linkml-go"
	"github.com/linkml/linkml-go/generator"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "linkmlctl",
		Short: "Validate, diff, and generate artifacts from a schema-driven data model",
	}
	root.AddCommand(newValidateCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newGenerateCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	var className string
	var failFast bool
	var failOnWarning bool

	cmd := &cobra.Command{
		Use:   "validate <schema.yaml> <instance.yaml>",
		Short: "Validate an instance document against a schema class",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := loadSchemaFile(args[0])
			if err != nil {
				return err
			}
			if className == "" {
				return fmt.Errorf("--class is required")
			}

			data, err := loadYAMLFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read instance document: %w", err)
			}

			compiler := linkml.NewCompiler(256)
			report := linkml.Validate(data, schema, className, linkml.ValidationOptions{
				FailFast:      &failFast,
				FailOnWarning: &failOnWarning,
				Compiler:      compiler,
			})

			for _, issue := range report.All() {
				fmt.Printf("[%s] %s: %s\n", issue.Severity, issue.Path, issue.Message)
			}
			if !report.Valid() {
				return fmt.Errorf("validation failed with %d issue(s)", len(report.All()))
			}
			fmt.Println("valid")
			return nil
		},
	}

	cmd.Flags().StringVarP(&className, "class", "c", "", "class name to validate the instance against")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first error")
	cmd.Flags().BoolVar(&failOnWarning, "fail-on-warning", false, "treat warnings as aborting")
	return cmd
}

func newDiffCmd() *cobra.Command {
	var format string
	var breakingOnly bool

	cmd := &cobra.Command{
		Use:   "diff <old.yaml> <new.yaml>",
		Short: "Compare two schema versions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldSchema, err := loadSchemaFile(args[0])
			if err != nil {
				return err
			}
			newSchema, err := loadSchemaFile(args[1])
			if err != nil {
				return err
			}

			result, err := linkml.Diff(oldSchema, newSchema, linkml.DiffOptions{BreakingChangesOnly: breakingOnly})
			if err != nil {
				return fmt.Errorf("diff refused: %w", err)
			}

			switch format {
			case "markdown":
				fmt.Print(linkml.RenderMarkdown(result))
			case "unified":
				fmt.Print(linkml.RenderUnifiedDiff(result))
			case "side-by-side":
				fmt.Print(linkml.RenderSideBySide(result))
			case "html":
				fmt.Print(linkml.RenderHTML(result))
			default:
				return fmt.Errorf("unknown --format %q (want markdown, unified, side-by-side, or html)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "markdown", "rendering: markdown, unified, side-by-side, html")
	cmd.Flags().BoolVar(&breakingOnly, "breaking-only", false, "only report breaking changes")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var target string
	var outDir string
	var dialect string
	var docWrapColumn int

	cmd := &cobra.Command{
		Use:   "generate <schema.yaml>",
		Short: "Emit target-language artifacts from a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := loadSchemaFile(args[0])
			if err != nil {
				return err
			}

			gen, ok := generator.Get(target)
			if !ok {
				return fmt.Errorf("unknown generator %q (available: %v)", target, generator.Names())
			}

			outputs, err := gen.Generate(schema, generator.Options{Dialect: dialect, DocWrapColumn: docWrapColumn})
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			for _, out := range outputs {
				if outDir == "" {
					fmt.Printf("// --- %s ---\n%s\n", out.Filename, out.Content)
					continue
				}
				path := outDir + "/" + out.Filename
				if err := os.WriteFile(path, []byte(out.Content), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
				fmt.Println(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "generator name (sql, graphql, openapi, typescript, sparql, jsonschema, cerberus, joi, yup, summary)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory; prints to stdout when empty")
	cmd.Flags().StringVar(&dialect, "dialect", "", "SQL dialect: postgres or mysql")
	cmd.Flags().IntVar(&docWrapColumn, "doc-wrap", 80, "documentation wrap column")
	cmd.MarkFlagRequired("target")
	return cmd
}

func loadSchemaFile(path string) (*linkml.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	schema, err := linkml.LoadYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("schema is invalid: %w", err)
	}
	return schema, nil
}

func loadYAMLFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return linkml.DecodeYAML(data)
}

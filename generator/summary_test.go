package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkml/linkml-go"
)

func TestSummaryGeneratorComputesStatsAndFourOutputs(t *testing.T) {
	s := newFixtureSchema()
	s.Classes.Set("DigitalProduct", &linkml.ClassDef{
		Name: "DigitalProduct", IsA: strPtr("Product"), Abstract: true,
	})

	gen := SummaryGenerator{}
	outputs, err := gen.Generate(s, Options{})
	require.NoError(t, err)
	require.Len(t, outputs, 4)

	var tsv, md, js, html string
	for _, o := range outputs {
		switch {
		case hasSuffix(o.Filename, ".tsv"):
			tsv = o.Content
		case hasSuffix(o.Filename, ".md"):
			md = o.Content
		case hasSuffix(o.Filename, ".json"):
			js = o.Content
		case hasSuffix(o.Filename, ".html"):
			html = o.Content
		}
	}

	assert.Contains(t, tsv, "classes\t2\n")
	assert.Contains(t, tsv, "abstract_classes\t1\n")
	assert.Contains(t, tsv, "max_inheritance_depth\t1\n")
	assert.Contains(t, md, "| classes | 2 |")
	assert.Contains(t, js, `"classes": 2,`)
	assert.Contains(t, html, "<table>")
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

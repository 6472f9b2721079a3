package linkml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilerCachesByDigest(t *testing.T) {
	schema := newPersonSchema()
	compiler := NewCompiler(16)

	_, err := compiler.Compile(schema, "Person", CompilationOptions{})
	require.NoError(t, err)
	stats := compiler.CacheStats()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	_, err = compiler.Compile(schema, "Person", CompilationOptions{})
	require.NoError(t, err)
	stats = compiler.CacheStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate(), 0.001)
}

func TestCompilerInvalidateSchemaDropsEntries(t *testing.T) {
	schema := newPersonSchema()
	compiler := NewCompiler(16)

	_, err := compiler.Compile(schema, "Person", CompilationOptions{})
	require.NoError(t, err)

	compiler.InvalidateSchema(SchemaDigest(schema))

	_, err = compiler.Compile(schema, "Person", CompilationOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), compiler.CacheStats().Misses)
}

func TestCompilerDistinguishesOptionsDigest(t *testing.T) {
	schema := newPersonSchema()
	compiler := NewCompiler(16)

	_, err := compiler.Compile(schema, "Person", CompilationOptions{AllowAdditionalProperties: true})
	require.NoError(t, err)
	_, err = compiler.Compile(schema, "Person", CompilationOptions{AllowAdditionalProperties: false})
	require.NoError(t, err)

	assert.Equal(t, int64(2), compiler.CacheStats().Misses)
}

func TestCompileResolvedClassEmitsRequiredAndPatternOps(t *testing.T) {
	schema := newPersonSchema()
	compiler := NewCompiler(16)

	cv, err := compiler.Compile(schema, "Person", CompilationOptions{})
	require.NoError(t, err)

	var sawRequired, sawPattern bool
	for _, instr := range cv.Program {
		if instr.Op == OpCheckRequired && instr.Field == "name" {
			sawRequired = true
		}
		if instr.Op == OpValidatePattern && instr.Field == "email" {
			sawPattern = true
		}
	}
	assert.True(t, sawRequired, "expected a CheckRequired instruction for name")
	assert.True(t, sawPattern, "expected a ValidatePattern instruction for email")
}

func TestSchemaDigestChangesWithSchemaContent(t *testing.T) {
	s1 := newPersonSchema()
	s2 := newPersonSchema()
	assert.Equal(t, SchemaDigest(s1), SchemaDigest(s2))

	classDef, _ := s2.Class("Person")
	classDef.Slots = append(classDef.Slots, "street")
	assert.NotEqual(t, SchemaDigest(s1), SchemaDigest(s2))
}

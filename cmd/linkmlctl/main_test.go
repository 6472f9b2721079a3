package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureSchema = `
name: person_schema
id: https://example.org/person
classes:
  Person:
    slots: [name]
slots:
  name:
    range: string
    required: true
`

func writeFixtureSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureSchema), 0o644))
	return path
}

func TestValidateCmdAcceptsWellFormedInstance(t *testing.T) {
	schemaPath := writeFixtureSchema(t)
	instancePath := filepath.Join(t.TempDir(), "instance.yaml")
	require.NoError(t, os.WriteFile(instancePath, []byte("name: Ada\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"validate", schemaPath, instancePath, "--class", "Person"})
	assert.NoError(t, cmd.Execute())
}

func TestValidateCmdRequiresClassFlag(t *testing.T) {
	schemaPath := writeFixtureSchema(t)
	instancePath := filepath.Join(t.TempDir(), "instance.yaml")
	require.NoError(t, os.WriteFile(instancePath, []byte("name: Ada\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"validate", schemaPath, instancePath})
	assert.Error(t, cmd.Execute())
}

func TestGenerateCmdRejectsUnknownTarget(t *testing.T) {
	schemaPath := writeFixtureSchema(t)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"generate", schemaPath, "--target", "cobol"})
	assert.Error(t, cmd.Execute())
}

func TestDiffCmdRejectsUnknownFormat(t *testing.T) {
	schemaPath := writeFixtureSchema(t)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"diff", schemaPath, schemaPath, "--format", "ascii-art"})
	assert.Error(t, cmd.Execute())
}

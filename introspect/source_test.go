package introspect

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasdoc/oaserrors"
)

const fixtureModels = `package models

import "time"

// Base carries audit fields.
type Base struct {
	// ID is the primary key.
	ID int64 ` + "`json:\"id\"`" + `
	CreatedAt time.Time
}

// User is an account holder.
//
// Users own pets.
type User struct {
	Base

	// Name is the display name.
	// @example "Jan"
	// @example "Jan Kowalski"
	Name string ` + "`json:\"name\"`" + `

	// Status of the account.
	// @enum ["active", "blocked"]
	Status string

	Pet *Pet

	// Companion is a pet or a free-form label.
	// @type Pet|string|null
	Companion any

	Tags map[string][]string // Tags by category.
}

type Pet struct {
	Owner *User
}

type Level int
`

// writeFixtureModule creates a throwaway module and returns its directory.
func writeFixtureModule(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/fixture\n\ngo 1.21\n"), 0600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "models"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "models.go"), []byte(fixtureModels), 0600))
	return dir
}

func TestLoadSource(t *testing.T) {
	dir := writeFixtureModule(t)

	src, err := LoadSource(context.Background(), dir, "./...")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"example.com/fixture/models.Base",
		"example.com/fixture/models.Pet",
		"example.com/fixture/models.User",
	}, src.Keys())

	desc, err := src.Describe("example.com/fixture/models.User")
	require.NoError(t, err)
	assert.Equal(t, "User is an account holder.", desc.Summary)
	assert.Equal(t, "Users own pets.", desc.Description)

	var names []string
	for _, p := range desc.Properties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"id", "CreatedAt", "name", "Status", "Pet", "Companion", "Tags"}, names)

	id, _ := desc.Property("id")
	assert.Equal(t, "ID is the primary key.", id.Summary)
	assert.Equal(t, []TypeRef{Named("int")}, id.Types)

	created, _ := desc.Property("CreatedAt")
	assert.Equal(t, []TypeRef{Named("time.Time")}, created.Types)

	name, _ := desc.Property("name")
	assert.Equal(t, "Name is the display name.", name.Summary)
	assert.Equal(t, []string{`"Jan"`, `"Jan Kowalski"`}, name.Examples)

	status, _ := desc.Property("Status")
	assert.Equal(t, []string{`["active", "blocked"]`}, status.Enums)

	pet, _ := desc.Property("Pet")
	assert.Equal(t, []TypeRef{nullable(Named("example.com/fixture/models.Pet"))}, pet.Types)

	companion, _ := desc.Property("Companion")
	want := []TypeRef{nullable(Named("example.com/fixture/models.Pet")), nullable(Named("string"))}
	if diff := cmp.Diff(want, companion.Types); diff != "" {
		t.Errorf("Companion types mismatch (-want +got):\n%s", diff)
	}

	tags, _ := desc.Property("Tags")
	assert.Equal(t, "Tags by category.", tags.Summary)
	if diff := cmp.Diff([]TypeRef{MapOf("string", ListOf(Named("string")))}, tags.Types); diff != "" {
		t.Errorf("Tags types mismatch (-want +got):\n%s", diff)
	}

	t.Run("non-struct types are unknown", func(t *testing.T) {
		_, err := src.Describe("example.com/fixture/models.Level")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrTypeNotFound))
	})
}

func TestLoadSourceErrors(t *testing.T) {
	dir := writeFixtureModule(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "broken.go"), []byte("package models\n\nvar x int = \"s\"\n"), 0600))

	_, err := LoadSource(context.Background(), dir, "./...")
	assert.Error(t, err)
}

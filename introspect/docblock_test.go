package introspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDocBlock(t *testing.T) {
	t.Run("go comment text", func(t *testing.T) {
		block := ParseDocBlock("Name is the display name.\n@example \"Jan Kowalski\"\n")
		assert.Equal(t, "Name is the display name.", block.Summary)
		assert.Empty(t, block.Description)
		assert.Equal(t, []DocTag{{Name: "example", Payload: `"Jan Kowalski"`}}, block.Tags)
	})

	t.Run("docblock markers", func(t *testing.T) {
		block := ParseDocBlock(`/**
 * User name
 *
 * Shown in the header
 * of every page.
 *
 * @var string
 * @example "Jan"
 * @example "Jan Kowalski"
 */`)
		assert.Equal(t, "User name", block.Summary)
		assert.Equal(t, "Shown in the header of every page.", block.Description)
		assert.Equal(t, []string{`"Jan"`, `"Jan Kowalski"`}, block.Values("example"))

		last, ok := block.Last("example")
		assert.True(t, ok)
		assert.Equal(t, `"Jan Kowalski"`, last)

		v, ok := block.Last("var")
		assert.True(t, ok)
		assert.Equal(t, "string", v)
	})

	t.Run("multi-line payload", func(t *testing.T) {
		block := ParseDocBlock("// Status\n// @enum [\"active\",\n//   \"blocked\"]\n")
		assert.Equal(t, "Status", block.Summary)
		assert.Equal(t, []string{"[\"active\",\n\"blocked\"]"}, block.Values("enum"))
	})

	t.Run("multiple paragraphs", func(t *testing.T) {
		block := ParseDocBlock("First.\n\nSecond.\n\nThird.")
		assert.Equal(t, "First.", block.Summary)
		assert.Equal(t, "Second.\n\nThird.", block.Description)
	})

	t.Run("tab separated tag", func(t *testing.T) {
		block := ParseDocBlock("@type\tint|null")
		assert.Equal(t, []DocTag{{Name: "type", Payload: "int|null"}}, block.Tags)
	})

	t.Run("empty", func(t *testing.T) {
		block := ParseDocBlock("")
		assert.Empty(t, block.Summary)
		assert.Empty(t, block.Tags)
		_, ok := block.Last("example")
		assert.False(t, ok)
	})
}

package commands

import (
	"bytes"
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasdoc/openapi"
)

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, syscall.EPIPE }

func TestWriteDocument(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteDocument(openapi.NewDocument(), openapi.FormatJSON, StdoutPath, &buf))
		assert.Contains(t, buf.String(), `"openapi": "3.0.3"`)
	})

	t.Run("stdout write failure is returned", func(t *testing.T) {
		for _, output := range []string{"", StdoutPath} {
			err := WriteDocument(openapi.NewDocument(), openapi.FormatJSON, output, failingWriter{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, syscall.EPIPE))
			assert.Contains(t, err.Error(), "writing output")
		}
	})
}

func TestWriteJSONFailure(t *testing.T) {
	err := writeJSON(failingWriter{}, map[string]string{"a": "b"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, syscall.EPIPE))
}

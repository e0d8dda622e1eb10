package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDescribeFlags(t *testing.T) {
	fs, flags := SetupDescribeFlags()
	assert.Equal(t, ".", flags.Dir)

	require.NoError(t, fs.Parse([]string{"-packages", "./models", "-list"}))
	assert.Equal(t, "./models", flags.Packages)
	assert.True(t, flags.List)
}

func TestHandleDescribe_Errors(t *testing.T) {
	t.Run("no type key", func(t *testing.T) {
		err := HandleDescribe([]string{"-packages", "./models"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one type key")
	})

	t.Run("list with type key", func(t *testing.T) {
		err := HandleDescribe([]string{"-list", "a.User"})
		require.Error(t, err)
	})

	t.Run("help", func(t *testing.T) {
		assert.NoError(t, HandleDescribe([]string{"-h"}))
	})
}

func TestRunDescribe_RequiresPackages(t *testing.T) {
	err := RunDescribe(context.Background(), &DescribeFlags{}, "a.User", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-packages")
}

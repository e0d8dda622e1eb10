package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageListsCommands(t *testing.T) {
	for _, cmd := range []string{"generate", "describe", "mcp", "version", "help"} {
		assert.True(t, strings.Contains(usageText, "\n  "+cmd+" "), "usage should list %s", cmd)
	}
}

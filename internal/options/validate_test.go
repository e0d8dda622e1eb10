package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExactlyOne(t *testing.T) {
	tests := []struct {
		name    string
		sources []bool
		wantErr string
	}{
		{"none", nil, "exactly one of file or content must be provided (got 0)"},
		{"none set", []bool{false, false}, "(got 0)"},
		{"one", []bool{false, true}, ""},
		{"two", []bool{true, true}, "(got 2)"},
		{"three", []bool{true, true, true}, "(got 3)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ExactlyOne("file or content", tt.sources...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"0.1.0", "docsniff v0.1.0\nPHP doc comment linter\n"},
		{"1.2.3", "docsniff v1.2.3\nPHP doc comment linter\n"},
		{"dev", "docsniff vdev\nPHP doc comment linter\n"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetArgs([]string{})

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestVersionCommandMetadata(t *testing.T) {
	cmd := NewVersionCommand("test")
	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

package cli

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	original := version
	defer func() { version = original }()

	tests := []struct {
		name    string
		version string
		args    []string
		want    string
	}{
		{"dev build", "dev", []string{"version"}, "cannibal version dev (" + runtime.Version()},
		{"release build", "1.4.0", []string{"version"}, "cannibal version 1.4.0"},
		{"short", "1.4.0", []string{"version", "--short"}, "1.4.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version = tt.version
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestVersionCmd_RejectsArgs(t *testing.T) {
	_, err := execute(t, "version", "extra")
	assert.Error(t, err)
}

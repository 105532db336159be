package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		setup        func(t *testing.T, dir string)
		args         []string
		expectedExit int
	}{
		{
			name:         "version",
			args:         []string{"stevedore", "version"},
			expectedExit: 0,
		},
		{
			name:         "unknown flag",
			args:         []string{"stevedore", "build", "--no-such-flag"},
			expectedExit: 2,
		},
		{
			name:         "exec without command",
			args:         []string{"stevedore", "exec"},
			expectedExit: 2,
		},
		{
			name:         "invalid log format",
			args:         []string{"stevedore", "plan", "--log-format", "xml"},
			expectedExit: 2,
		},
		{
			name:         "missing descriptor",
			args:         []string{"stevedore", "plan"},
			expectedExit: 1,
		},
		{
			name: "clean",
			setup: func(t *testing.T, dir string) {
				t.Helper()
				require.NoError(t, os.MkdirAll(filepath.Join(dir, ".stevedore", "staging"), 0o755))
			},
			args:         []string{"stevedore", "clean"},
			expectedExit: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.setup != nil {
				tt.setup(t, dir)
			}
			t.Chdir(dir)

			os.Args = tt.args
			assert.Equal(t, tt.expectedExit, run())
		})
	}
}

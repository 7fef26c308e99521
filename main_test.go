package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/postboard/config"
)

func TestRootCommand_ConfigFlag(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "custom.json")

	cases := []struct {
		name    string
		args    []string
		command string
		path    string
	}{
		{"serve with flag", []string{"serve", "--config", custom}, "serve", custom},
		{"root with flag", []string{"--config", custom}, "serve", custom},
		{"migrate with flag", []string{"migrate", "--config", custom}, "migrate", custom},
		{"serve default", []string{"serve"}, "serve", config.DefaultPath},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var command, path string
			cmd := newRootCommand(runners{
				serve:   func(p string) error { command, path = "serve", p; return nil },
				migrate: func(p string) error { command, path = "migrate", p; return nil },
			})
			cmd.SetArgs(tc.args)

			require.NoError(t, cmd.Execute())
			assert.Equal(t, tc.command, command)
			assert.Equal(t, tc.path, path)
		})
	}
}

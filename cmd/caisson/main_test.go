package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/chazu/caisson/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExamples runs every sample scene through the commands that need no
// output directory.
func TestExamples(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	scenes, err := filepath.Glob("../../examples/*.lisp")
	require.NoError(t, err)
	require.NotEmpty(t, scenes)

	for _, path := range scenes {
		for _, args := range [][]string{
			{"panels", path},
			{"--json", "holes", path},
			{"check", path},
		} {
			t.Run(filepath.Base(path)+"/"+args[len(args)-2], func(t *testing.T) {
				var out, errOut bytes.Buffer
				root := cli.NewRootCmd()
				root.SetOut(&out)
				root.SetErr(&errOut)
				root.SetArgs(args)

				require.NoError(t, root.Execute(), errOut.String())
				assert.NotEmpty(t, out.String())
			})
		}
	}
}

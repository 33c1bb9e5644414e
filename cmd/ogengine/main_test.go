package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "ogengine dev", strings.TrimSpace(out.String()))
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "build", "paths", "import", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, buildCmd.Flags().Lookup("out"))
	assert.NotNil(t, buildCmd.Flags().Lookup("concurrency"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestImportRequiresDatabase(t *testing.T) {
	t.Chdir(t.TempDir())
	rootCmd.SetArgs([]string{"import"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_path")
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinspect/twinspect/internal/config"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// writeConfig drops a test config into dir and returns its path. The data
// root lives next to it, subprocess bootstrap steps are disabled and the
// health check probes a tool that exists everywhere.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()

	cfgPath := filepath.Join(dir, "twinspect.yml")
	body := `listen: "127.0.0.1:0"
data_dir: ` + filepath.Join(dir, "data") + `
log_level: warn
simulation:
  devices: 2
  seed: 42
  device_interval: 50ms
  system_interval: 50ms
  energy_interval: 50ms
bootstrap:
  installer: ""
  manifest: ""
  tools: ["sh"]
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))
	return cfgPath
}

// execute runs the command tree with the given args, capturing output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd(BuildInfo{})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func TestRootCommand_NoArgsPrintsHelp(t *testing.T) {
	out, err := execute(t)

	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	for _, sub := range []string{"up", "setup", "serve", "seed", "version"} {
		assert.Contains(t, out, sub)
	}
}

func TestRootCommand_UnknownSubcommand(t *testing.T) {
	_, err := execute(t, "bogus")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRootCommand_MissingConfigFile(t *testing.T) {
	_, err := execute(t, "setup", "--config", filepath.Join(t.TempDir(), "absent.yml"))

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigFileNotFound)
}

func TestRootCommand_DataDirOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	override := filepath.Join(dir, "elsewhere")

	_, err := execute(t, "setup", "--config", cfgPath, "--data-dir", override)

	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(override, "db"))
	assert.NoDirExists(t, filepath.Join(dir, "data"))
}

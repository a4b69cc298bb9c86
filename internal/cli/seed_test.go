package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinspect/twinspect/internal/store"
)

func countReadings(t *testing.T, dbPath string) int {
	t.Helper()

	st, err := store.New(dbPath)
	require.NoError(t, err)
	defer st.Close()

	n, err := st.CountDeviceReadings()
	require.NoError(t, err)
	return n
}

func TestSeedCommand_GeneratesHistory(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	_, err := execute(t, "seed", "--config", cfgPath, "--hours", "1")
	require.NoError(t, err)

	// 2 devices from the config, one hour of 5-minute steps.
	assert.Equal(t, 2*12, countReadings(t, testPaths(dir).DBFile))
}

func TestSeedCommand_RefusesExistingDatabase(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)
	paths := testPaths(dir)

	require.NoError(t, os.MkdirAll(paths.DBDir, 0o755))
	require.NoError(t, os.WriteFile(paths.DBFile, nil, 0o644))

	_, err := execute(t, "seed", "--config", cfgPath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
	info, statErr := os.Stat(paths.DBFile)
	require.NoError(t, statErr)
	assert.Zero(t, info.Size())
}

func TestSeedCommand_ForceRegenerates(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	_, err := execute(t, "seed", "--config", cfgPath, "--hours", "1")
	require.NoError(t, err)

	_, err = execute(t, "seed", "--config", cfgPath, "--force", "--hours", "1", "--devices", "3")
	require.NoError(t, err)

	// A fresh database, not an appended one: 3 devices for one hour.
	assert.Equal(t, 3*12, countReadings(t, testPaths(dir).DBFile))
}

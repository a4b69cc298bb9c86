package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCtx runs the command tree under ctx so blocking commands shut down
// on cancellation, standing in for an interrupt.
func executeCtx(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd(BuildInfo{})
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

// cancelAfter cancels like an interrupt would: the context ends up Canceled,
// not DeadlineExceeded, which is what the shutdown path treats as clean.
func cancelAfter(t *testing.T, d time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(d, cancel)
	t.Cleanup(func() {
		timer.Stop()
		cancel()
	})
	return ctx
}

func TestUpCommand_BootsServesAndStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	_, err := executeCtx(t, cancelAfter(t, 3*time.Second), "up", "--config", cfgPath)
	require.NoError(t, err)

	paths := testPaths(dir)
	assert.FileExists(t, paths.DBFile)
	assert.FileExists(t, paths.MasterKeyFile)
	assert.FileExists(t, filepath.Join(paths.WebStaticDir, "dashboard.html"))

	// The launched collectors wrote on top of the seeded history.
	assert.Greater(t, countReadings(t, paths.DBFile), 2*24*12)
}

func TestUpCommand_InterruptedBeforeLaunchFails(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := executeCtx(t, ctx, "up", "--config", cfgPath)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

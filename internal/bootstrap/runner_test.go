package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_CapturesStdout(t *testing.T) {
	stdout, stderr, err := ExecRunner{}.Run(context.Background(), "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", stdout)
	assert.Empty(t, stderr)
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	stdout, stderr, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute sh")
	assert.Empty(t, stdout)
	assert.Equal(t, "oops\n", stderr)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, _, err := ExecRunner{}.Run(context.Background(), "definitely-not-installed-anywhere")
	assert.Error(t, err)
}

func TestExecRunner_CancelledContextKillsChild(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := ExecRunner{}.Run(ctx, "sleep", "10")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

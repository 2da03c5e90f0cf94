package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b97tsk/coop/internal/config"
)

func TestSelectScenarios(t *testing.T) {
	cfg := config.DefaultConfig()

	t.Run("All", func(t *testing.T) {
		got, err := selectScenarios(cfg, nil, true)
		require.NoError(t, err)
		assert.Len(t, got, len(cfg.Scenarios))
	})

	t.Run("ByName", func(t *testing.T) {
		got, err := selectScenarios(cfg, []string{"hard-idle", "wake-up-call", "hard-idle"}, false)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "hard-idle", got[0].Name)
		assert.Equal(t, "wake-up-call", got[1].Name)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := selectScenarios(cfg, []string{"nope"}, false)
		assert.ErrorContains(t, err, `unknown scenario "nope"`)
	})

	t.Run("Nothing", func(t *testing.T) {
		_, err := selectScenarios(cfg, nil, false)
		assert.Error(t, err)
	})

	t.Run("AllWithNames", func(t *testing.T) {
		_, err := selectScenarios(cfg, []string{"mixed"}, true)
		assert.Error(t, err)
	})
}

func TestRunOptions(t *testing.T) {
	newCmd := func(args ...string) *cobra.Command {
		cmd := &cobra.Command{Use: "run"}
		addRunFlags(cmd)
		require.NoError(t, cmd.ParseFlags(args))
		return cmd
	}

	loop := config.LoopConfig{IdleWaitMs: 5, TimeoutMs: 2000}

	opts, err := runOptions(newCmd(), loop)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Millisecond, opts.IdleWait)
	assert.Equal(t, 2*time.Second, opts.Timeout)

	opts, err = runOptions(newCmd("--idle-wait=0", "--timeout=1m"), loop)
	require.NoError(t, err)
	assert.Zero(t, opts.IdleWait)
	assert.Equal(t, time.Minute, opts.Timeout)
}

func TestColorEnabled(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	on, err := colorEnabled("auto", true)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = colorEnabled("auto", false)
	require.NoError(t, err)
	assert.False(t, on)

	on, err = colorEnabled("on", false)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = colorEnabled("off", true)
	require.NoError(t, err)
	assert.False(t, on)

	_, err = colorEnabled("sometimes", true)
	assert.Error(t, err)
}

package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("positional path with defaults", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"pipeline.hcl"}, &out)
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "pipeline.hcl", cfg.PipelinePath)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 4, cfg.WorkerCount)
		assert.Equal(t, time.Duration(0), cfg.NotifyTimeout)
	})

	t.Run("pipeline flag wins over positional", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"--pipeline", "a.hcl", "b.hcl"}, &out)
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "a.hcl", cfg.PipelinePath)
	})

	t.Run("shorthand flag", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"-p", "a.hcl"}, &out)
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "a.hcl", cfg.PipelinePath)
	})

	t.Run("no path prints usage and exits cleanly", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse(nil, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("all options", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{
			"--log-format", "json",
			"--log-level", "debug",
			"--workers", "2",
			"--healthcheck-port", "8080",
			"--notify-timeout", "250ms",
			"pipeline.hcl",
		}, &out)
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 2, cfg.WorkerCount)
		assert.Equal(t, 8080, cfg.HealthcheckPort)
		assert.Equal(t, 250*time.Millisecond, cfg.NotifyTimeout)
	})

	t.Run("invalid log format", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"--log-format", "xml", "pipeline.hcl"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("invalid log level", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"--log-level", "loud", "pipeline.hcl"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("negative notify timeout", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"--notify-timeout", "-1s", "pipeline.hcl"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})
}

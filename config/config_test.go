package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("empty document keeps defaults", func(t *testing.T) {
		cfg, err := Parse([]byte(""))

		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0", cfg.Http.Host)
		assert.Equal(t, 8080, cfg.Http.Port)
		assert.True(t, cfg.Http.PredictFormOnGet)
		assert.Equal(t, LogModeFile, cfg.Log.Mode)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "logs/running_logs.log", cfg.Log.File)
		assert.Equal(t, PipelineTree, cfg.Pipeline.Kind)
		assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	})

	t.Run("overrides and durations", func(t *testing.T) {
		cfg, err := Parse([]byte(`
http:
  port: 9090
  predict_form_on_get: false
  read_timeout: 5s
log:
  mode: print
pipeline:
  kind: remote
  url: http://model:5000
  timeout: 250ms
`))

		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Http.Port)
		assert.False(t, cfg.Http.PredictFormOnGet)
		assert.Equal(t, 5*time.Second, cfg.Http.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.Http.WriteTimeout)
		assert.Equal(t, LogModePrint, cfg.Log.Mode)
		assert.Equal(t, "http://model:5000", cfg.Pipeline.URL)
		assert.Equal(t, 250*time.Millisecond, cfg.Pipeline.Timeout)
	})

	t.Run("rejects unknown log mode", func(t *testing.T) {
		_, err := Parse([]byte("log:\n  mode: syslog\n"))
		assert.Error(t, err)
	})

	t.Run("rejects unknown log level", func(t *testing.T) {
		_, err := Parse([]byte("log:\n  level: verbose\n"))
		assert.Error(t, err)
	})

	t.Run("accepts upper-case log level", func(t *testing.T) {
		cfg, err := Parse([]byte("log:\n  level: WARN\n"))
		require.NoError(t, err)
		assert.Equal(t, "WARN", cfg.Log.Level)
	})

	t.Run("rejects unknown pipeline kind", func(t *testing.T) {
		_, err := Parse([]byte("pipeline:\n  kind: onnx\n"))
		assert.Error(t, err)
	})

	t.Run("rejects bad port", func(t *testing.T) {
		_, err := Parse([]byte("http:\n  port: 0\n"))
		assert.Error(t, err)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("http: [\n"))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("http:\n  port: 8181\n"), 0o600))

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, 8181, cfg.Http.Port)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("bad level", func(t *testing.T) {
		_, err := New(Config{Level: "loud"})
		assert.Error(t, err)
	})

	t.Run("quiet without file is a no-op logger", func(t *testing.T) {
		log, err := New(Config{Quiet: true})
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(0))
	})

	t.Run("file sink", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "console.log")
		log, err := New(Config{Level: "debug", File: path, Quiet: true})
		require.NoError(t, err)

		log.Info("hello")
		_ = log.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"hello"`)
	})
}

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-assist/pkg/common/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, hlog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, hlog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, hlog.LevelInfo, ParseLevel("verbose"))
}

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	closer := Setup(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1})
	require.NotNil(t, closer)
	t.Cleanup(func() {
		_ = closer.Close()
		hlog.SetOutput(os.Stdout)
	})

	hlog.Infof("hello %s", "file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestSetupStdoutOnly(t *testing.T) {
	assert.Nil(t, Setup(config.LogConfig{Level: "error"}))
	hlog.SetLevel(hlog.LevelInfo)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.EnableWebserver)
	assert.Equal(t, 8080, cfg.WebserverPortBase)
	assert.Equal(t, 4, cfg.MaxIncludeDepth)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce())
}

func TestLoad_YamlFile(t *testing.T) {
	root := t.TempDir()
	yaml := "enable_webserver: true\nwebserver_port_base: 9000\nmax_include_depth: 2\ndebounce_ms: 100\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "docnav.yaml"), []byte(yaml), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.True(t, cfg.EnableWebserver)
	assert.Equal(t, 9000, cfg.WebserverPortBase)
	assert.Equal(t, 2, cfg.MaxIncludeDepth)
	assert.Equal(t, 100*time.Millisecond, cfg.Debounce())
}

func TestLoad_MalformedYamlFails(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "docnav.yaml"), []byte(":\nnot yaml ["), 0o644))

	_, err := Load(root)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesYaml(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "docnav.yaml"),
		[]byte("webserver_port_base: 9000\n"), 0o644))

	t.Setenv("ENABLE_WEBSERVER", "true")
	t.Setenv("WEBSERVER_PORT_BASE", "7000")
	t.Setenv("DOCNAV_MAX_INCLUDE_DEPTH", "6")
	t.Setenv("DOCNAV_DEBOUNCE_MS", "10")

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.True(t, cfg.EnableWebserver)
	assert.Equal(t, 7000, cfg.WebserverPortBase)
	assert.Equal(t, 6, cfg.MaxIncludeDepth)
	assert.Equal(t, 10*time.Millisecond, cfg.Debounce())
}

func TestLoad_InvalidEnvValues(t *testing.T) {
	t.Run("bad port", func(t *testing.T) {
		t.Setenv("WEBSERVER_PORT_BASE", "eighty")
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})
	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("WEBSERVER_PORT_BASE", "70000")
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})
	t.Run("bad depth", func(t *testing.T) {
		t.Setenv("DOCNAV_MAX_INCLUDE_DEPTH", "0")
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", "on"} {
		assert.True(t, isTruthy(v), v)
	}
	for _, v := range []string{"0", "false", "no", "off", ""} {
		assert.False(t, isTruthy(v), v)
	}
}

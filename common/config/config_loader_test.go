package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSection struct {
	Port int64
	Host string
}

type testConfig struct {
	Service testSection
	Name    string
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "configuration.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadTomlFile(t *testing.T) {
	lc := logger.NewMockClient()

	t.Run("decodes sections", func(t *testing.T) {
		path := writeConfig(t, "Name = \"api\"\n[Service]\nPort = 8080\n")
		cfg := testConfig{}
		require.NoError(t, LoadTomlFile(lc, path, &cfg))
		assert.Equal(t, "api", cfg.Name)
		assert.Equal(t, int64(8080), cfg.Service.Port)
		assert.Empty(t, cfg.Service.Host)
	})

	t.Run("missing file", func(t *testing.T) {
		err := LoadTomlFile(lc, filepath.Join(t.TempDir(), "absent.toml"), &testConfig{})
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeConfig(t, "[Service\nPort = ")
		assert.Error(t, LoadTomlFile(lc, path, &testConfig{}))
	})
}

func TestConfigFilePath(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	assert.Equal(t, filepath.Join("/srv", "res", "configuration.toml"), ConfigFilePath("/srv"))

	t.Setenv(EnvConfigFile, "/etc/boxoffice.toml")
	assert.Equal(t, "/etc/boxoffice.toml", ConfigFilePath("/srv"))
}

func TestEnvOverride(t *testing.T) {
	lc := logger.NewMockClient()
	value := "from-file"

	t.Setenv("BOXOFFICE_TEST_VALUE", "")
	EnvOverride(lc, "BOXOFFICE_TEST_VALUE", &value, false)
	assert.Equal(t, "from-file", value)

	t.Setenv("BOXOFFICE_TEST_VALUE", "from-env")
	EnvOverride(lc, "BOXOFFICE_TEST_VALUE", &value, true)
	assert.Equal(t, "from-env", value)
}

package service

import (
	"os"
	"path/filepath"
	"testing"

	commonConfig "boxoffice/common/config"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppServiceWithLogger(t *testing.T) {
	t.Setenv(commonConfig.EnvConfigFile, "")
	lc := logger.NewMockClient()

	svc := NewAppServiceWithLogger("boxoffice-test", "/srv/app", lc)

	assert.Equal(t, "boxoffice-test", svc.ServiceKey)
	assert.Equal(t, filepath.Join("/srv/app", "res", "configuration.toml"), svc.ConfigFilePath)
	assert.Equal(t, lc, svc.LoggingClient())
}

func TestDefaultAppServiceCreator_NewAppService(t *testing.T) {
	t.Setenv(commonConfig.EnvConfigFile, "/etc/boxoffice/configuration.toml")
	wd, err := os.Getwd()
	require.NoError(t, err)

	svc, ok := (&DefaultAppServiceCreator{}).NewAppService("boxoffice-test")

	require.True(t, ok)
	assert.Equal(t, wd, svc.WorkingDir)
	assert.Equal(t, "/etc/boxoffice/configuration.toml", svc.ConfigFilePath)
	assert.NotNil(t, svc.LoggingClient())
}

func TestAppService_SetLogLevel(t *testing.T) {
	svc := NewAppServiceWithLogger("boxoffice-test", t.TempDir(), logger.NewClient("boxoffice-test", DefaultLogLevel))

	assert.NotPanics(t, func() {
		svc.SetLogLevel("")
		svc.SetLogLevel("DEBUG")
		svc.SetLogLevel("NOT-A-LEVEL")
	})
}

/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package config

import (
	"os"
	"path/filepath"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// EnvConfigFile overrides the configuration file location
const EnvConfigFile = "CONFIG_FILE"

// ConfigFilePath returns res/configuration.toml under workingDir unless CONFIG_FILE is set
func ConfigFilePath(workingDir string) string {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return path
	}
	return filepath.Join(workingDir, "res", "configuration.toml")
}

// LoadTomlFile decodes the TOML file at configFilePath into target
func LoadTomlFile(lc logger.LoggingClient, configFilePath string, target interface{}) error {
	lc.Infof("Loading configuration from: %s", configFilePath)

	configFile, err := toml.LoadFile(configFilePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read configuration %s", configFilePath)
	}
	if err = configFile.Unmarshal(target); err != nil {
		return errors.Wrapf(err, "failed to decode configuration %s", configFilePath)
	}
	return nil
}

// EnvOverride replaces *target with the value of the environment variable when it is set
func EnvOverride(lc logger.LoggingClient, envName string, target *string, secret bool) {
	value, ok := os.LookupEnv(envName)
	if !ok || value == "" {
		return
	}
	*target = value
	if secret {
		lc.Infof("%s overridden from environment", envName)
	} else {
		lc.Infof("%s overridden from environment: %s", envName, value)
	}
}

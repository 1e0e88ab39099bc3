/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package service

import (
	"os"

	commonConfig "boxoffice/common/config"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
)

const DefaultLogLevel = "INFO"

// AppService carries what every command starts from
type AppService struct {
	ServiceKey     string
	WorkingDir     string
	ConfigFilePath string
	lc             logger.LoggingClient
}

func (s *AppService) LoggingClient() logger.LoggingClient {
	return s.lc
}

// SetLogLevel switches to the configured level; an unknown level keeps the current one.
func (s *AppService) SetLogLevel(level string) {
	if level == "" {
		return
	}
	if err := s.lc.SetLogLevel(level); err != nil {
		s.lc.Warnf("log level %q not applied: %v", level, err)
	}
}

type AppServiceCreator interface {
	NewAppService(serviceKey string) (*AppService, bool)
}

type DefaultAppServiceCreator struct{}

// NewAppService creates the service logger and resolves the configuration file under the working directory
func (a *DefaultAppServiceCreator) NewAppService(serviceKey string) (*AppService, bool) {
	lc := logger.NewClient(serviceKey, DefaultLogLevel)
	workingDir, err := os.Getwd()
	if err != nil {
		lc.Errorf("Failed to get current working directory: %v", err)
		return nil, false
	}
	lc.Infof("Working directory: %s", workingDir)
	return &AppService{
		ServiceKey:     serviceKey,
		WorkingDir:     workingDir,
		ConfigFilePath: commonConfig.ConfigFilePath(workingDir),
		lc:             lc,
	}, true
}

// NewAppServiceWithLogger builds an AppService around an existing logger
func NewAppServiceWithLogger(serviceKey, workingDir string, lc logger.LoggingClient) *AppService {
	return &AppService{
		ServiceKey:     serviceKey,
		WorkingDir:     workingDir,
		ConfigFilePath: commonConfig.ConfigFilePath(workingDir),
		lc:             lc,
	}
}

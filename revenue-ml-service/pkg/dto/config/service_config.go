/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package config

import (
	"fmt"
	"strings"

	commonConfig "boxoffice/common/config"
	"boxoffice/common/db"
	"boxoffice/revenue-ml-service/pkg/forest"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/pkg/errors"
)

const (
	EnvironmentProduction  = "production"
	EnvironmentDevelopment = "development"

	StorageProviderFile  = "file"
	StorageProviderRedis = "redis"

	EnvTmdbApiKey         = "TMDB_API_KEY"
	EnvServiceEnvironment = "SERVICE_ENVIRONMENT"
)

// ServiceConfig is the content of res/configuration.toml shared by the revenue commands
type ServiceConfig struct {
	Service  ServiceInfo
	Model    ModelConfig
	Training TrainingConfig
	Storage  StorageConfig
	Redis    db.DatabaseConfig
	TMDB     TMDBConfig
}

type ServiceInfo struct {
	Host        string
	Port        int64
	LogLevel    string
	Environment string
	// MetricsReportIntervalSecs <= 0 disables periodic metric logging
	MetricsReportIntervalSecs int64
}

type ModelConfig struct {
	// TrainOnMissingArtifacts lets a non-production API train when no artifacts are stored
	TrainOnMissingArtifacts bool
}

type TrainingConfig struct {
	DatasetPath       string
	OutlierPercentile float64
	TestSize          float64
	SplitSeed         int64
	ReportPath        string
	Forest            forest.Params
}

type StorageConfig struct {
	Provider   string
	Dir        string
	ModelFile  string
	ScalerFile string
}

type TMDBConfig struct {
	BaseURL          string
	APIKey           string
	Language         string
	Years            []int64
	Pages            int64
	DetailIntervalMs int64
	ExistingDataPath string
	OutputPath       string
}

func NewServiceConfig() *ServiceConfig {
	cfg := &ServiceConfig{Redis: *db.NewDatabaseConfig()}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills every setting left at its zero value
func (cfg *ServiceConfig) applyDefaults() {
	if cfg.Service.Host == "" {
		cfg.Service.Host = "0.0.0.0"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = 5000
	}
	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = "INFO"
	}
	if cfg.Service.Environment == "" {
		cfg.Service.Environment = EnvironmentDevelopment
	}

	if cfg.Training.DatasetPath == "" {
		cfg.Training.DatasetPath = "tmdb_5000_movies.csv"
	}
	if cfg.Training.OutlierPercentile == 0 {
		cfg.Training.OutlierPercentile = 99
	}
	if cfg.Training.TestSize == 0 {
		cfg.Training.TestSize = 0.2
	}
	if cfg.Training.SplitSeed == 0 {
		cfg.Training.SplitSeed = 42
	}
	defaults := forest.DefaultParams()
	if cfg.Training.Forest.NEstimators == 0 {
		cfg.Training.Forest.NEstimators = defaults.NEstimators
	}
	if cfg.Training.Forest.MaxDepth == 0 {
		cfg.Training.Forest.MaxDepth = defaults.MaxDepth
	}
	if cfg.Training.Forest.MinSamplesSplit == 0 {
		cfg.Training.Forest.MinSamplesSplit = defaults.MinSamplesSplit
	}
	if cfg.Training.Forest.MinSamplesLeaf == 0 {
		cfg.Training.Forest.MinSamplesLeaf = defaults.MinSamplesLeaf
	}
	if cfg.Training.Forest.RandomState == 0 {
		cfg.Training.Forest.RandomState = defaults.RandomState
	}

	if cfg.Storage.Provider == "" {
		cfg.Storage.Provider = StorageProviderFile
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "."
	}
	if cfg.Storage.ModelFile == "" {
		cfg.Storage.ModelFile = "revenue_model.bin"
	}
	if cfg.Storage.ScalerFile == "" {
		cfg.Storage.ScalerFile = "scaler.bin"
	}

	redisDefaults := db.NewDatabaseConfig()
	if cfg.Redis.RedisHost == "" {
		cfg.Redis.RedisHost = redisDefaults.RedisHost
	}
	if cfg.Redis.RedisPort == "" {
		cfg.Redis.RedisPort = redisDefaults.RedisPort
	}
	if cfg.Redis.DialTimeoutMs == 0 {
		cfg.Redis.DialTimeoutMs = redisDefaults.DialTimeoutMs
	}
	if cfg.Redis.MaxIdle == 0 {
		cfg.Redis.MaxIdle = redisDefaults.MaxIdle
	}
	if cfg.Redis.LockExpirySecs == 0 {
		cfg.Redis.LockExpirySecs = redisDefaults.LockExpirySecs
	}

	if cfg.TMDB.BaseURL == "" {
		cfg.TMDB.BaseURL = "https://api.themoviedb.org/3"
	}
	if cfg.TMDB.Language == "" {
		cfg.TMDB.Language = "en-US"
	}
	if len(cfg.TMDB.Years) == 0 {
		cfg.TMDB.Years = []int64{2023, 2022, 2021, 2020}
	}
	if cfg.TMDB.Pages == 0 {
		cfg.TMDB.Pages = 1
	}
	if cfg.TMDB.DetailIntervalMs == 0 {
		cfg.TMDB.DetailIntervalMs = 100
	}
	if cfg.TMDB.ExistingDataPath == "" {
		cfg.TMDB.ExistingDataPath = "tmdb_5000_movies.csv"
	}
	if cfg.TMDB.OutputPath == "" {
		cfg.TMDB.OutputPath = "tmdb_combined.csv"
	}
}

// LoadServiceConfig reads the TOML file, fills defaults and applies environment overrides
func LoadServiceConfig(lc logger.LoggingClient, configFilePath string) (*ServiceConfig, error) {
	cfg := &ServiceConfig{}
	if err := commonConfig.LoadTomlFile(lc, configFilePath, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	cfg.ApplyEnvOverrides(lc)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func (cfg *ServiceConfig) ApplyEnvOverrides(lc logger.LoggingClient) {
	commonConfig.EnvOverride(lc, EnvTmdbApiKey, &cfg.TMDB.APIKey, true)
	commonConfig.EnvOverride(lc, EnvServiceEnvironment, &cfg.Service.Environment, false)
	if cfg.Storage.Provider == StorageProviderRedis {
		cfg.Redis.ApplyEnvOverrides(lc)
	}
}

func (cfg *ServiceConfig) Validate() error {
	switch cfg.Storage.Provider {
	case StorageProviderFile, StorageProviderRedis:
	default:
		return fmt.Errorf("unknown Storage.Provider %q, expected %s or %s", cfg.Storage.Provider, StorageProviderFile, StorageProviderRedis)
	}
	if cfg.Training.OutlierPercentile <= 0 || cfg.Training.OutlierPercentile > 100 {
		return fmt.Errorf("Training.OutlierPercentile must be in (0, 100], got %v", cfg.Training.OutlierPercentile)
	}
	if cfg.Training.TestSize <= 0 || cfg.Training.TestSize >= 1 {
		return fmt.Errorf("Training.TestSize must be in (0, 1), got %v", cfg.Training.TestSize)
	}
	if err := cfg.Training.Forest.Validate(); err != nil {
		return errors.Wrap(err, "Training.Forest")
	}
	if cfg.Service.Port <= 0 || cfg.Service.Port > 65535 {
		return fmt.Errorf("Service.Port %d is out of range", cfg.Service.Port)
	}
	return nil
}

func (cfg *ServiceConfig) IsProduction() bool {
	return strings.EqualFold(cfg.Service.Environment, EnvironmentProduction)
}

// ListenAddress is the host:port the API binds to
func (cfg *ServiceConfig) ListenAddress() string {
	return fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.Port)
}

/*******************************************************************************
* Contributors: BMC Software, Inc. - BMC Helix Edge
*
* (c) Copyright 2020-2025 BMC Software, Inc.
*******************************************************************************/

package db

import (
	"os"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
)

// DatabaseConfig holds the Redis connection settings
type DatabaseConfig struct {
	RedisHost      string `toml:"Host"`
	RedisPort      string `toml:"Port"`
	RedisDatabase  int    `toml:"Database"`
	RedisUsername  string `toml:"Username"`
	RedisPassword  string `toml:"Password"`
	KeyPrefix      string `toml:"KeyPrefix"`
	DialTimeoutMs  int64  `toml:"DialTimeoutMs"`
	MaxIdle        int    `toml:"MaxIdle"`
	LockExpirySecs int64  `toml:"LockExpirySecs"`
}

func NewDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		RedisHost:      "localhost",
		RedisPort:      "6379",
		DialTimeoutMs:  9000,
		MaxIdle:        10,
		LockExpirySecs: 5,
	}
}

// ApplyEnvOverrides replaces settings with REDIS_* environment values where they are set
func (dbConfig *DatabaseConfig) ApplyEnvOverrides(lc logger.LoggingClient) {
	if host := os.Getenv("REDIS_HOST"); host != "" {
		dbConfig.RedisHost = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		dbConfig.RedisPort = port
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		lc.Info("Using Redis password from environment")
		dbConfig.RedisPassword = password
	}
	lc.Infof("RedisHost %s RedisPort %s RedisUsername %s", dbConfig.RedisHost, dbConfig.RedisPort, dbConfig.RedisUsername)
}

// Key prefixes a storage key with the configured namespace
func (dbConfig *DatabaseConfig) Key(key string) string {
	if dbConfig.KeyPrefix == "" {
		return key
	}
	return dbConfig.KeyPrefix + ":" + key
}

/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package redis

import (
	"boxoffice/common/db"
	"boxoffice/common/db/redis"
	svcErrors "boxoffice/common/errors"
	"boxoffice/revenue-ml-service/pkg/artifact"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/go-redsync/redsync/v4"
)

type DBClient struct {
	client *redis.DBClient
}

// MLDbInterface is the Redis backed artifact store
type MLDbInterface interface {
	redis.CommonRedisDBInterface
	artifact.Store
	GetArtifactMeta() (map[string]string, svcErrors.ServiceError)
}

func NewDBClient(dbConfig *db.DatabaseConfig, lc logger.LoggingClient) (MLDbInterface, error) {
	dbc, err := redis.NewDBClient(dbConfig, lc)
	if err != nil {
		return nil, err
	}
	return &DBClient{client: dbc}, nil
}

func (dbClient *DBClient) AcquireRedisLock(name string) (*redsync.Mutex, svcErrors.ServiceError) {
	return dbClient.client.AcquireRedisLock(name)
}

func (dbClient *DBClient) Do(command string, args ...interface{}) (interface{}, error) {
	return dbClient.client.Do(command, args...)
}

func (dbClient *DBClient) CloseSession() {
	dbClient.client.CloseSession()
}

func (dbClient *DBClient) key(name string) string {
	return dbClient.client.Config.Key(name)
}

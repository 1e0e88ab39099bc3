/*******************************************************************************
 * Copyright 2018 Redis Labs Inc.
 * (c) Copyright 2020-2025 BMC Software, Inc.
 *
 * Contributors: BMC Software, Inc. - BMC Helix Edge
 *
 * Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License. You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under the License
 * is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express
 * or implied. See the License for the specific language governing permissions and limitations under
 * the License.
 *******************************************************************************/
package redis

import (
	"fmt"
	"time"

	"boxoffice/common/db"
	svcErrors "boxoffice/common/errors"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/redigo"
	"github.com/gomodule/redigo/redis"
	"github.com/pkg/errors"
)

const lockAttempts = 5

// DBClient represents a Redis client
type DBClient struct {
	Pool      *redis.Pool // A thread-safe pool of connections to Redis
	Logger    logger.LoggingClient
	RedisSync *redsync.Redsync
	Config    *db.DatabaseConfig
	// lockRetryDelay is shortened by tests
	lockRetryDelay time.Duration
}

type CommonRedisDBInterface interface {
	AcquireRedisLock(lockName string) (*redsync.Mutex, svcErrors.ServiceError)
	Do(command string, args ...interface{}) (interface{}, error)
	CloseSession()
}

// NewDBClient builds the connection pool and verifies that Redis is reachable
func NewDBClient(dbConfig *db.DatabaseConfig, lc logger.LoggingClient) (*DBClient, error) {
	connectionString := fmt.Sprintf("%s:%s", dbConfig.RedisHost, dbConfig.RedisPort)
	opts := []redis.DialOption{
		redis.DialConnectTimeout(time.Duration(dbConfig.DialTimeoutMs) * time.Millisecond),
		redis.DialDatabase(dbConfig.RedisDatabase),
	}
	if dbConfig.RedisPassword != "" {
		opts = append(opts, redis.DialPassword(dbConfig.RedisPassword))
	}
	if dbConfig.RedisUsername != "" {
		opts = append(opts, redis.DialUsername(dbConfig.RedisUsername))
	}

	dialFunc := func() (redis.Conn, error) {
		conn, err := redis.Dial("tcp", connectionString, opts...)
		if err != nil {
			return nil, fmt.Errorf("could not dial Redis: %s", err)
		}
		return conn, nil
	}

	maxIdle := dbConfig.MaxIdle
	if maxIdle <= 0 {
		maxIdle = 10
	}
	pool := &redis.Pool{
		IdleTimeout: 0,
		MaxIdle:     maxIdle,
		Dial:        dialFunc,
	}

	client := &DBClient{
		Pool:           pool,
		Logger:         lc,
		RedisSync:      redsync.New(redigo.NewPool(pool)),
		Config:         dbConfig,
		lockRetryDelay: time.Second,
	}

	// Test connectivity now so don't have failures later when doing lazy connect.
	conn, err := pool.Dial()
	if err != nil {
		_ = pool.Close()
		return nil, errors.Wrapf(err, "redis at %s is not reachable", connectionString)
	}
	_ = conn.Close()

	return client, nil
}

func (c *DBClient) AcquireRedisLock(lockName string) (*redsync.Mutex, svcErrors.ServiceError) {
	expiry := time.Duration(c.Config.LockExpirySecs) * time.Second
	if expiry <= 0 {
		expiry = 5 * time.Second
	}
	mutex := c.RedisSync.NewMutex(lockName, redsync.WithExpiry(expiry))

	for retries := 0; retries < lockAttempts; retries++ {
		if err := mutex.Lock(); err != nil {
			if retries == lockAttempts-1 {
				c.Logger.Errorf("Failed to acquire lock %s in Redis after multiple attempts: %v", lockName, err)
				return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeServerError, "Failed to acquire lock in Redis after multiple attempts")
			}
			time.Sleep(c.lockRetryDelay)
			continue
		}
		return mutex, nil
	}

	return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeServerError, "Failed to acquire lock in Redis")
}

// Do runs a single Redis command on a pooled connection
func (c *DBClient) Do(command string, args ...interface{}) (interface{}, error) {
	conn := c.Pool.Get()
	defer conn.Close()

	return conn.Do(command, args...)
}

// CloseSession closes the connections to Redis
func (c *DBClient) CloseSession() {
	_ = c.Pool.Close()
}

/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package redis

import (
	"fmt"
	"strconv"

	"boxoffice/common/db"
	svcErrors "boxoffice/common/errors"
	"boxoffice/revenue-ml-service/pkg/artifact"

	redigo "github.com/gomodule/redigo/redis"
)

// Save writes both artifacts and their metadata in one transaction while holding the artifact lock
func (dbClient *DBClient) Save(blobs artifact.Blobs) error {
	lc := dbClient.client.Logger
	errorMessage := "Error saving model artifacts"

	if len(blobs.Model) == 0 || len(blobs.Scaler) == 0 {
		return svcErrors.NewCommonServiceError(svcErrors.ErrorTypeBadRequest, "both model and scaler artifacts are required")
	}

	mutex, lockErr := dbClient.AcquireRedisLock(dbClient.key(db.MLArtifactLock))
	if lockErr != nil {
		return lockErr
	}
	defer func() {
		if _, err := mutex.Unlock(); err != nil {
			lc.Warnf("failed to release artifact lock: %v", err)
		}
	}()

	conn := dbClient.client.Pool.Get()
	defer conn.Close()

	_ = conn.Send("MULTI")
	_ = conn.Send("SET", dbClient.key(db.MLTrainedModel), blobs.Model)
	_ = conn.Send("SET", dbClient.key(db.MLFittedScaler), blobs.Scaler)
	_ = conn.Send("HSET", dbClient.key(db.MLArtifactMeta),
		"savedAt", db.MakeTimestamp(),
		"modelBytes", len(blobs.Model),
		"scalerBytes", len(blobs.Scaler))

	_, err := conn.Do("EXEC")
	if err != nil {
		lc.Errorf("%s: %v", errorMessage, err)
		return svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDBError, errorMessage)
	}
	lc.Infof("model artifacts saved to redis, model %d bytes, scaler %d bytes", len(blobs.Model), len(blobs.Scaler))
	return nil
}

func (dbClient *DBClient) Load() (artifact.Blobs, error) {
	lc := dbClient.client.Logger
	errorMessage := "Error loading model artifacts"

	conn := dbClient.client.Pool.Get()
	defer conn.Close()

	values, err := redigo.ByteSlices(conn.Do("MGET", dbClient.key(db.MLTrainedModel), dbClient.key(db.MLFittedScaler)))
	if err != nil {
		lc.Errorf("%s: %v", errorMessage, err)
		return artifact.Blobs{}, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDBError, errorMessage)
	}
	if len(values) != 2 {
		return artifact.Blobs{}, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDBError, fmt.Sprintf("%s: unexpected reply", errorMessage))
	}
	if err = artifact.CheckPresence(values[0] != nil, values[1] != nil); err != nil {
		return artifact.Blobs{}, err
	}
	return artifact.Blobs{Model: values[0], Scaler: values[1]}, nil
}

func (dbClient *DBClient) Exists() (bool, error) {
	lc := dbClient.client.Logger

	conn := dbClient.client.Pool.Get()
	defer conn.Close()

	modelExists, err := redigo.Bool(conn.Do("EXISTS", dbClient.key(db.MLTrainedModel)))
	if err != nil {
		lc.Errorf("Error checking model artifact: %v", err)
		return false, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDBError, "Error checking model artifacts")
	}
	scalerExists, err := redigo.Bool(conn.Do("EXISTS", dbClient.key(db.MLFittedScaler)))
	if err != nil {
		lc.Errorf("Error checking scaler artifact: %v", err)
		return false, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDBError, "Error checking model artifacts")
	}

	err = artifact.CheckPresence(modelExists, scalerExists)
	if err == nil {
		return true, nil
	}
	if svcErrors.AsServiceError(err).IsErrorType(svcErrors.ErrorTypeNotFound) {
		return false, nil
	}
	return false, err
}

// GetArtifactMeta returns what was recorded with the last Save
func (dbClient *DBClient) GetArtifactMeta() (map[string]string, svcErrors.ServiceError) {
	lc := dbClient.client.Logger

	conn := dbClient.client.Pool.Get()
	defer conn.Close()

	meta, err := redigo.StringMap(conn.Do("HGETALL", dbClient.key(db.MLArtifactMeta)))
	if err != nil {
		lc.Errorf("Error reading artifact metadata: %v", err)
		return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDBError, "Error reading artifact metadata")
	}
	if len(meta) == 0 {
		return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeNotFound, "no artifact metadata stored")
	}
	if savedAt, ok := meta["savedAt"]; ok {
		if _, err = strconv.ParseInt(savedAt, 10, 64); err != nil {
			lc.Warnf("artifact metadata has malformed savedAt %q", savedAt)
		}
	}
	return meta, nil
}

/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package bootstrap

import (
	"context"
	"encoding/json"
	"os"

	svcErrors "boxoffice/common/errors"
	"boxoffice/revenue-ml-service/pkg/artifact"
	"boxoffice/revenue-ml-service/pkg/db/redis"
	"boxoffice/revenue-ml-service/pkg/dto/config"
	"boxoffice/revenue-ml-service/pkg/dto/job"
	"boxoffice/revenue-ml-service/pkg/helpers"
	"boxoffice/revenue-ml-service/pkg/predictor"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/pkg/errors"
)

// NewArtifactStore returns the configured store and a function releasing it
func NewArtifactStore(lc logger.LoggingClient, cfg *config.ServiceConfig) (artifact.Store, func(), error) {
	switch cfg.Storage.Provider {
	case config.StorageProviderRedis:
		dbClient, err := redis.NewDBClient(&cfg.Redis, lc)
		if err != nil {
			return nil, nil, err
		}
		lc.Infof("model artifacts are stored in redis at %s:%s", cfg.Redis.RedisHost, cfg.Redis.RedisPort)
		return dbClient, dbClient.CloseSession, nil
	default:
		storage := helpers.NewMLStorage(cfg.Storage.Dir, cfg.Storage.ModelFile, cfg.Storage.ScalerFile, lc)
		lc.Infof("model artifacts are stored in %s and %s", storage.GetModelFileName(), storage.GetScalerFileName())
		return storage, func() {}, nil
	}
}

// InitializeModel makes p ready from stored artifacts. When none are stored a non-production
// service trains and saves a model if TrainOnMissingArtifacts is set; production refuses to start.
func InitializeModel(ctx context.Context, lc logger.LoggingClient, cfg *config.ServiceConfig, p *predictor.Service, trainer predictor.Trainer) error {
	err := p.Load()
	if err == nil {
		return nil
	}
	if !svcErrors.AsServiceError(err).IsErrorType(svcErrors.ErrorTypeNotFound) {
		return errors.Wrap(err, "failed to load model artifacts")
	}

	if cfg.IsProduction() {
		return svcErrors.NewCommonServiceError(svcErrors.ErrorTypeUntrainedModel,
			"no model artifacts found, run the trainer before starting in production")
	}
	if !cfg.Model.TrainOnMissingArtifacts {
		lc.Warn("no model artifacts found, predictions are unavailable until a model is trained")
		return nil
	}

	lc.Info("no model artifacts found, training a new model")
	if err := p.Train(ctx, trainer); err != nil {
		return errors.Wrap(err, "training on startup failed")
	}
	if err := p.Save(); err != nil {
		return errors.Wrap(err, "failed to save the trained model")
	}
	return nil
}

// WriteReport stores report as indented JSON
func WriteReport(path string, report *job.TrainingReport) error {
	if report == nil {
		return errors.New("no training report to write")
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode training report")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "failed to write %s", path)
}

/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"boxoffice/common/client"
	"boxoffice/common/service"
	"boxoffice/common/utils"
	"boxoffice/revenue-ml-service/internal/bootstrap"
	"boxoffice/revenue-ml-service/internal/training"
	"boxoffice/revenue-ml-service/pkg/dto/config"
	"boxoffice/revenue-ml-service/pkg/predictor"
)

var (
	serviceInt        *service.AppService
	appServiceCreator service.AppServiceCreator
	osExit            = os.Exit
)

func setAppService() {
	if appServiceCreator == nil {
		appServiceCreator = &service.DefaultAppServiceCreator{}
	}
	svc, ok := appServiceCreator.NewAppService(client.RevenueTrainerServiceName)
	if !ok {
		fmt.Fprintf(os.Stderr, "Failed to start service: %s\n", client.RevenueTrainerServiceName)
		osExit(-1)
		return
	}
	serviceInt = svc
}

func main() {
	setAppService()
	if serviceInt == nil {
		return
	}
	lc := serviceInt.LoggingClient()
	cfg, err := config.LoadServiceConfig(lc, serviceInt.ConfigFilePath)
	if err != nil {
		lc.Errorf("Error reading config: %v", err)
		osExit(1)
		return
	}
	serviceInt.SetLogLevel(cfg.Service.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := trainAndSave(ctx, cfg); err != nil {
		lc.Errorf("training failed: %v", err)
		stop()
		osExit(1)
	}
}

// trainAndSave runs the pipeline once, writes the report and persists the artifacts
func trainAndSave(ctx context.Context, cfg *config.ServiceConfig) error {
	lc := serviceInt.LoggingClient()

	store, closeStore, err := bootstrap.NewArtifactStore(lc, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	trainer := training.NewTrainingJobService(lc, cfg.Training)
	p := predictor.NewService(lc, store, nil)
	trainErr := p.Train(ctx, trainer)

	if cfg.Training.ReportPath != "" {
		if err := bootstrap.WriteReport(cfg.Training.ReportPath, trainer.LastReport()); err != nil {
			lc.Errorf("%v", err)
		} else {
			lc.Infof("training report written to %s", cfg.Training.ReportPath)
		}
	}
	if trainErr != nil {
		return trainErr
	}
	if exists, err := store.Exists(); err != nil {
		lc.Warnf("stored model artifacts are unusable and will be overwritten: %v", err)
	} else if exists {
		lc.Info("replacing the stored model artifacts")
	}
	if err := p.Save(); err != nil {
		return err
	}

	report := trainer.LastReport()
	lc.Infof("model saved: R2 %.4f, RMSE %s, %d training rows", report.Evaluation.R2Original,
		utils.FormatDollars(report.Evaluation.RMSEOriginal, 2), report.Evaluation.TrainRows)
	for _, fi := range report.Importances {
		lc.Infof("  %-14s %5.1f%%", fi.Name, fi.Percentage)
	}
	return nil
}

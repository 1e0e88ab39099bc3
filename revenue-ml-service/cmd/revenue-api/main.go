/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boxoffice/common/client"
	"boxoffice/common/service"
	"boxoffice/common/telemetry"
	"boxoffice/revenue-ml-service/internal/bootstrap"
	"boxoffice/revenue-ml-service/internal/router"
	"boxoffice/revenue-ml-service/internal/training"
	"boxoffice/revenue-ml-service/pkg/dto/config"
	"boxoffice/revenue-ml-service/pkg/predictor"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

var (
	serviceInt        *service.AppService
	appServiceCreator service.AppServiceCreator
	osExit            = os.Exit
)

func setAppService() {
	if appServiceCreator == nil {
		appServiceCreator = &service.DefaultAppServiceCreator{}
	}
	svc, ok := appServiceCreator.NewAppService(client.RevenueApiServiceName)
	if !ok {
		fmt.Fprintf(os.Stderr, "Failed to start service: %s\n", client.RevenueApiServiceName)
		osExit(-1)
		return
	}
	serviceInt = svc
}

func loadConfig() *config.ServiceConfig {
	cfg, err := config.LoadServiceConfig(serviceInt.LoggingClient(), serviceInt.ConfigFilePath)
	if err != nil {
		serviceInt.LoggingClient().Errorf("Error reading config: %v", err)
		osExit(1)
		return nil
	}
	serviceInt.SetLogLevel(cfg.Service.LogLevel)
	return cfg
}

func main() {
	setAppService()
	if serviceInt == nil {
		return
	}
	cfg := loadConfig()
	if cfg == nil {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		serviceInt.LoggingClient().Errorf("%s stopped: %v", serviceInt.ServiceKey, err)
		stop()
		osExit(1)
	}
}

func newServer(lc logger.LoggingClient, p predictor.PredictorInterface, metrics *telemetry.MetricsManager) (*echo.Echo, error) {
	r, err := router.NewRouter(lc, p, metrics)
	if err != nil {
		return nil, err
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	r.AddRoutes(e)
	return e, nil
}

func run(ctx context.Context, cfg *config.ServiceConfig) error {
	lc := serviceInt.LoggingClient()

	store, closeStore, err := bootstrap.NewArtifactStore(lc, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	metrics := telemetry.NewMetricsManager(lc, serviceInt.ServiceKey, time.Duration(cfg.Service.MetricsReportIntervalSecs)*time.Second)
	p := predictor.NewService(lc, store, metrics.Registry)
	trainer := training.NewTrainingJobService(lc, cfg.Training)
	if err := bootstrap.InitializeModel(ctx, lc, cfg, p, trainer); err != nil {
		return err
	}
	lc.Infof("model state: %s", p.State())

	e, err := newServer(lc, p, metrics)
	if err != nil {
		return err
	}
	metrics.Run(ctx)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- e.Start(cfg.ListenAddress())
	}()
	lc.Infof("%s %s listening on %s", client.ModelName, client.AppVersion, cfg.ListenAddress())

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	lc.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = e.Shutdown(shutdownCtx)
	metrics.Wait()
	return err
}

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
	"boxoffice/revenue-ml-service/pkg/dto/config"
	"boxoffice/revenue-ml-service/pkg/tmdb"
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
	svc, ok := appServiceCreator.NewAppService(client.TmdbFetchServiceName)
	if !ok {
		fmt.Fprintf(os.Stderr, "Failed to start service: %s\n", client.TmdbFetchServiceName)
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

	if err := fetch(ctx, cfg.TMDB, client.Client); err != nil {
		lc.Errorf("fetch failed: %v", err)
		stop()
		osExit(1)
	}
}

func fetch(ctx context.Context, cfg config.TMDBConfig, httpClient client.HTTPClient) error {
	lc := serviceInt.LoggingClient()
	tmdbClient, err := tmdb.NewClient(lc, httpClient, cfg)
	if err != nil {
		return err
	}
	summary, err := tmdb.Export(ctx, lc, tmdbClient, cfg)
	if err != nil {
		return err
	}
	lc.Infof("done: %d movies in %s, use it as Training.DatasetPath", summary.CombinedRows, summary.OutputPath)
	return nil
}

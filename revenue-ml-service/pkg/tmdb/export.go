/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package tmdb

import (
	"context"

	"boxoffice/common/utils"
	"boxoffice/revenue-ml-service/pkg/dto/config"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/pkg/errors"
)

type ExportSummary struct {
	Fetch        FetchStats
	ExistingRows int
	NewRows      int
	CombinedRows int
	OutputPath   string
}

// Export fetches the configured years, merges them after the existing data set and writes the result.
// An unreadable existing data set is not an error; the output then holds the new films only.
func Export(ctx context.Context, lc logger.LoggingClient, c *Client, cfg config.TMDBConfig) (ExportSummary, error) {
	summary := ExportSummary{OutputPath: cfg.OutputPath}

	records, stats, err := c.FetchYears(ctx, cfg.Years, cfg.Pages)
	summary.Fetch = stats
	if err != nil {
		return summary, errors.Wrap(err, "fetch interrupted")
	}
	fetched := RecordsTable(records)
	summary.NewRows = len(fetched.Rows)
	lc.Infof("total: %d new movies", summary.NewRows)

	combined := fetched
	if existing, err := ReadTableFile(cfg.ExistingDataPath); err != nil {
		lc.Warnf("existing data %s not used: %v", cfg.ExistingDataPath, err)
	} else {
		summary.ExistingRows = len(existing.Rows)
		combined = Merge(existing, fetched)
		lc.Infof("old data: %d movies, new data: %d movies", summary.ExistingRows, summary.NewRows)
	}
	summary.CombinedRows = len(combined.Rows)

	if err := combined.WriteFile(cfg.OutputPath); err != nil {
		return summary, err
	}
	lc.Infof("data saved to %s: %d movies, columns %v", cfg.OutputPath, summary.CombinedRows, combined.Columns)
	if avg, ok := combined.Mean("revenue"); ok {
		lc.Infof("average revenue: %s", utils.FormatDollars(avg, 0))
	}
	if avg, ok := combined.Mean("budget"); ok {
		lc.Infof("average budget: %s", utils.FormatDollars(avg, 0))
	}
	return summary, nil
}

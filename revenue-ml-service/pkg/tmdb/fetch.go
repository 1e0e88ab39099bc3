/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package tmdb

import (
	"context"
)

type FetchStats struct {
	Discovered int
	Kept       int
	// films without a budget or revenue
	Skipped int
	Failed  int
}

// FetchYears collects the films of every page of every year that have a budget and revenue.
// Failed calls are logged and skipped; only cancellation of ctx stops the walk.
func (c *Client) FetchYears(ctx context.Context, years []int64, pages int64) ([]MovieRecord, FetchStats, error) {
	var stats FetchStats
	records := make([]MovieRecord, 0)
	for _, year := range years {
		yearKept := 0
		for page := int64(1); page <= pages; page++ {
			ids, err := c.Discover(ctx, year, page)
			if err != nil {
				if ctx.Err() != nil {
					return records, stats, ctx.Err()
				}
				stats.Failed++
				c.lc.Errorf("error on page %d of %d: %v", page, year, err)
				continue
			}
			stats.Discovered += len(ids)

			for _, id := range ids {
				movie, err := c.MovieDetails(ctx, id)
				if err != nil {
					if ctx.Err() != nil {
						return records, stats, ctx.Err()
					}
					stats.Failed++
					c.lc.Warnf("skipping movie: %v", err)
					continue
				}
				if !movie.HasBoxOffice() {
					stats.Skipped++
					continue
				}
				records = append(records, movie)
				yearKept++
				c.lc.Debugf("fetched %s (%d)", movie.Title, year)
			}
		}
		stats.Kept += yearKept
		c.lc.Infof("found %d movies from %d", yearKept, year)
	}
	return records, stats, nil
}

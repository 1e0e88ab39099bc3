/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package dataset

import (
	"math"

	"github.com/caio/go-tdigest/v4"
)

// Quantiles summarises a column with approximate p50/p90/p99 values
type Quantiles struct {
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	P99 float64 `json:"p99"`
}

// Profile is a sketch of the raw money columns of a dataset
type Profile struct {
	Rows    int       `json:"rows"`
	Budget  Quantiles `json:"budget"`
	Revenue Quantiles `json:"revenue"`
}

// BuildProfile sketches budget and revenue with t-digests. NaN cells are skipped.
func BuildProfile(movies []Movie) (Profile, error) {
	budgetDigest, err := tdigest.New()
	if err != nil {
		return Profile{}, err
	}
	revenueDigest, err := tdigest.New()
	if err != nil {
		return Profile{}, err
	}

	for _, m := range movies {
		if !math.IsNaN(m.Budget) {
			if err = budgetDigest.Add(m.Budget); err != nil {
				return Profile{}, err
			}
		}
		if !math.IsNaN(m.Revenue) {
			if err = revenueDigest.Add(m.Revenue); err != nil {
				return Profile{}, err
			}
		}
	}

	return Profile{
		Rows:    len(movies),
		Budget:  quantilesOf(budgetDigest),
		Revenue: quantilesOf(revenueDigest),
	}, nil
}

func quantilesOf(digest *tdigest.TDigest) Quantiles {
	if digest.Count() == 0 {
		return Quantiles{}
	}
	return Quantiles{
		P50: digest.Quantile(0.5),
		P90: digest.Quantile(0.9),
		P99: digest.Quantile(0.99),
	}
}

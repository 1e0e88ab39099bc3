/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package dataset

import (
	"math"
	"sort"
)

// DefaultOutlierPercentile is the cut-off used for budget and revenue
const DefaultOutlierPercentile = 99.0

// Percentile computes the p-th percentile (0..100) of values using linear
// interpolation between the closest ranks. values is not modified.
func Percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p = math.Max(0, math.Min(100, p))
	h := float64(n-1) * p / 100
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// OutlierThresholds are the per-column cut-offs applied by FilterOutliers
type OutlierThresholds struct {
	Percentile float64 `json:"percentile"`
	Budget     float64 `json:"budget"`
	Revenue    float64 `json:"revenue"`
}

// FilterOutliers keeps rows whose budget and revenue are both at or below their
// own p-th percentile. The thresholds are computed independently per column.
func FilterOutliers(movies []Movie, p float64) ([]Movie, OutlierThresholds) {
	budgets := make([]float64, len(movies))
	revenues := make([]float64, len(movies))
	for i, m := range movies {
		budgets[i] = m.Budget
		revenues[i] = m.Revenue
	}
	thresholds := OutlierThresholds{
		Percentile: p,
		Budget:     Percentile(budgets, p),
		Revenue:    Percentile(revenues, p),
	}

	kept := make([]Movie, 0, len(movies))
	for _, m := range movies {
		if m.Budget <= thresholds.Budget && m.Revenue <= thresholds.Revenue {
			kept = append(kept, m)
		}
	}
	return kept, thresholds
}

/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package dataset

import (
	"fmt"
	"math"

	svcErrors "boxoffice/common/errors"
)

// CleanStats describes what Clean did to the raw rows
type CleanStats struct {
	RawRows          int     `json:"rawRows"`
	DroppedMissing   int     `json:"droppedMissing"`
	RuntimeFilled    int     `json:"runtimeFilled"`
	RuntimeFillValue float64 `json:"runtimeFillValue"`
}

// Clean drops rows without budget or revenue and fills missing runtime with
// the median runtime of the remaining rows. Remaining NaN features are a DatasetError.
func Clean(movies []Movie) ([]Movie, CleanStats, error) {
	stats := CleanStats{RawRows: len(movies)}

	kept := make([]Movie, 0, len(movies))
	for _, m := range movies {
		if math.IsNaN(m.Budget) || math.IsNaN(m.Revenue) {
			stats.DroppedMissing++
			continue
		}
		kept = append(kept, m)
	}
	if len(kept) == 0 {
		return nil, stats, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDataset, "no rows left after dropping missing budget or revenue")
	}

	runtimes := make([]float64, 0, len(kept))
	for _, m := range kept {
		if !math.IsNaN(m.Runtime) {
			runtimes = append(runtimes, m.Runtime)
		}
	}
	if len(runtimes) < len(kept) {
		if len(runtimes) == 0 {
			return nil, stats, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDataset, "runtime is missing in every row")
		}
		median := Percentile(runtimes, 50)
		stats.RuntimeFillValue = median
		for i := range kept {
			if math.IsNaN(kept[i].Runtime) {
				kept[i].Runtime = median
				stats.RuntimeFilled++
			}
		}
	}

	for i, m := range kept {
		for _, col := range []string{ColPopularity, ColVoteAverage, ColVoteCount} {
			if math.IsNaN(*m.fieldRef(col)) {
				return nil, stats, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDataset,
					fmt.Sprintf("row %d has no value for %s", i, col))
			}
		}
	}
	return kept, stats, nil
}

/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package forest

import "fmt"

const ModelType = "RandomForestRegressor"

// Params are the hyper-parameters of the regressor
type Params struct {
	NEstimators     int   `json:"n_estimators" toml:"NEstimators"`
	MaxDepth        int   `json:"max_depth" toml:"MaxDepth"` // <= 0 grows until leaves are pure
	MinSamplesSplit int   `json:"min_samples_split" toml:"MinSamplesSplit"`
	MinSamplesLeaf  int   `json:"min_samples_leaf" toml:"MinSamplesLeaf"`
	RandomState     int64 `json:"random_state" toml:"RandomState"`
	// NJobs bounds the trees built concurrently, 0 means one per CPU
	NJobs int `json:"-" toml:"NJobs"`
}

func DefaultParams() Params {
	return Params{
		NEstimators:     200,
		MaxDepth:        15,
		MinSamplesSplit: 5,
		MinSamplesLeaf:  2,
		RandomState:     42,
	}
}

func (p Params) Validate() error {
	if p.NEstimators < 1 {
		return fmt.Errorf("n_estimators must be at least 1, got %d", p.NEstimators)
	}
	if p.MinSamplesSplit < 2 {
		return fmt.Errorf("min_samples_split must be at least 2, got %d", p.MinSamplesSplit)
	}
	if p.MinSamplesLeaf < 1 {
		return fmt.Errorf("min_samples_leaf must be at least 1, got %d", p.MinSamplesLeaf)
	}
	if p.NJobs < 0 {
		return fmt.Errorf("n_jobs must not be negative, got %d", p.NJobs)
	}
	return nil
}

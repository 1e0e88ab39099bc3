/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package preprocess

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// StandardScaler centres each column on its mean and divides by its population
// standard deviation. A column with zero deviation is only centred.
type StandardScaler struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
	// RunID names the training run the scaler was fitted in
	RunID string `json:"runId,omitempty"`
}

// FitStandardScaler learns mean and scale per column from rows; every row must have len(columns) values
func FitStandardScaler(columns []string, rows [][]float64) (*StandardScaler, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("scaler needs at least one column")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("scaler needs at least one row")
	}

	scaler := &StandardScaler{
		Columns: append([]string(nil), columns...),
		Mean:    make([]float64, len(columns)),
		Scale:   make([]float64, len(columns)),
	}
	column := make([]float64, len(rows))
	for j := range columns {
		for i, row := range rows {
			if len(row) != len(columns) {
				return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(columns))
			}
			column[i] = row[j]
		}
		mean, std := stat.PopMeanStdDev(column, nil)
		scaler.Mean[j] = mean
		if std == 0 {
			std = 1
		}
		scaler.Scale[j] = std
	}
	return scaler, nil
}

// Validate checks the fitted parameters are consistent
func (s *StandardScaler) Validate() error {
	if len(s.Columns) == 0 || len(s.Mean) != len(s.Columns) || len(s.Scale) != len(s.Columns) {
		return fmt.Errorf("scaler has %d columns, %d means and %d scales", len(s.Columns), len(s.Mean), len(s.Scale))
	}
	for j, scale := range s.Scale {
		if scale == 0 {
			return fmt.Errorf("scaler column %s has zero scale", s.Columns[j])
		}
	}
	return nil
}

// Transform returns the standardised copy of row
func (s *StandardScaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("scaler expects %d values, got %d", len(s.Mean), len(row))
	}
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out, nil
}

// TransformAll standardises every row
func (s *StandardScaler) TransformAll(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = scaled
	}
	return out, nil
}

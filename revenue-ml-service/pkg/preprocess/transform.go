/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package preprocess

import "math"

// Log1p maps money amounts into the space the model is trained in
func Log1p(value float64) float64 {
	return math.Log1p(value)
}

// Expm1 is the inverse of Log1p
func Expm1(value float64) float64 {
	return math.Expm1(value)
}

// ToRevenue converts a log-space prediction into dollars, never below zero
func ToRevenue(logPrediction float64) float64 {
	revenue := math.Expm1(logPrediction)
	if revenue < 0 || math.IsNaN(revenue) {
		return 0
	}
	return revenue
}

func Log1pAll(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Log1p(v)
	}
	return out
}

func Expm1All(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Expm1(v)
	}
	return out
}

/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package prediction

const (
	FieldBudget      = "budget"
	FieldPopularity  = "popularity"
	FieldRuntime     = "runtime"
	FieldVoteAverage = "vote_average"
	FieldVoteCount   = "vote_count"
)

// FeatureNames is the canonical order of the model inputs
var FeatureNames = []string{FieldBudget, FieldPopularity, FieldRuntime, FieldVoteAverage, FieldVoteCount}

// Features are the raw, untransformed inputs of one prediction
type Features struct {
	Budget      float64 `json:"budget" validate:"gte=0"`
	Popularity  float64 `json:"popularity" validate:"gte=0"`
	Runtime     float64 `json:"runtime" validate:"gte=0"`
	VoteAverage float64 `json:"vote_average" validate:"gte=0,lte=10"`
	VoteCount   float64 `json:"vote_count" validate:"gte=0"`
}

type PredictionResponse struct {
	Input                     interface{} `json:"input"`
	PredictedRevenue          float64     `json:"predicted_revenue"`
	PredictedRevenueFormatted string      `json:"predicted_revenue_formatted"`
}

// BatchItemResult carries either a prediction or the error for one film
type BatchItemResult struct {
	Input                     interface{} `json:"input"`
	PredictedRevenue          *float64    `json:"predicted_revenue,omitempty"`
	PredictedRevenueFormatted string      `json:"predicted_revenue_formatted,omitempty"`
	Error                     string      `json:"error,omitempty"`
}

type BatchRequest struct {
	Films []map[string]interface{} `json:"films"`
}

type BatchResponse struct {
	Count   int               `json:"count"`
	Failed  int               `json:"failed"`
	Results []BatchItemResult `json:"results"`
}

type FeatureImportance struct {
	Name       string  `json:"name"`
	Importance float64 `json:"importance"`
	Percentage float64 `json:"percentage"`
}

type FeatureImportanceResponse struct {
	Features []FeatureImportance `json:"features"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Model   string `json:"model"`
	Version string `json:"version"`
}

type InfoResponse struct {
	ModelType       string   `json:"model_type"`
	NEstimators     int      `json:"n_estimators"`
	MaxDepth        int      `json:"max_depth"`
	MinSamplesSplit int      `json:"min_samples_split"`
	MinSamplesLeaf  int      `json:"min_samples_leaf"`
	RandomState     int64    `json:"random_state"`
	Features        []string `json:"features"`
	R2Score         float64  `json:"r2_score"`
	RMSEOriginal    float64  `json:"rmse_original"`
	R2Log           float64  `json:"r2_log"`
	RMSELog         float64  `json:"rmse_log"`
	TrainedAt       int64    `json:"trained_at,omitempty"`
	RunID           string   `json:"run_id,omitempty"`
	SavedAt         int64    `json:"saved_at,omitempty"`
}

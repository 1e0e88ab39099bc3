/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package telemetry

const (
	MetricPrefix             = "bo_"
	PredictionsCount         = "bo_predictions_count"
	FailedPredictionsCount   = "bo_failed_predictions_count"
	BatchRequestsCount       = "bo_batch_requests_count"
	BatchItemsCount          = "bo_batch_items_count"
	FormSubmissionsCount     = "bo_form_submissions_count"
	BadRequestsCount         = "bo_bad_requests_count"
	PredictionLatency        = "bo_prediction_latency"
	ModelState               = "bo_model_state"
	CompletedTrainingCount   = "bo_completed_training_count"
	FailedTrainingCount      = "bo_failed_training_count"
	LastTrainingDurationSecs = "bo_last_training_duration_secs"
)

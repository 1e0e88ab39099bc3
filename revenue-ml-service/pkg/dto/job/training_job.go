/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package job

import (
	"time"

	"boxoffice/revenue-ml-service/pkg/dataset"
	"boxoffice/revenue-ml-service/pkg/dto/prediction"
	"boxoffice/revenue-ml-service/pkg/forest"

	"github.com/google/uuid"
)

type JobStatus int

const (
	New JobStatus = iota
	DataLoaded
	TrainingInProgress
	TrainingCompleted
	Failed
)

func (js JobStatus) String() string {
	return [...]string{"New", "DataLoaded", "TrainingInProgress", "TrainingCompleted", "Failed"}[js]
}

// Evaluation holds the held-out scores, in log space and in dollars
type Evaluation struct {
	R2Log        float64 `json:"r2Log"`
	RMSELog      float64 `json:"rmseLog"`
	R2Original   float64 `json:"r2Original"`
	RMSEOriginal float64 `json:"rmseOriginal"`
	TrainRows    int     `json:"trainRows"`
	TestRows     int     `json:"testRows"`
}

// TrainingReport describes one run of the training pipeline
type TrainingReport struct {
	RunID        string                         `json:"runId"`
	StatusCode   JobStatus                      `json:"statusCode"`
	Status       string                         `json:"status"`
	DatasetPath  string                         `json:"datasetPath,omitempty"`
	StartTime    int64                          `json:"startTime"`
	EndTime      int64                          `json:"endTime,omitempty"`
	DurationSecs float64                        `json:"durationSecs,omitempty"`
	Msg          string                         `json:"msg,omitempty"`
	Cleaning     dataset.CleanStats             `json:"cleaning"`
	RowsKept     int                            `json:"rowsKept"`
	Thresholds   dataset.OutlierThresholds      `json:"thresholds"`
	Profile      dataset.Profile                `json:"profile"`
	Params       forest.Params                  `json:"params"`
	Evaluation   Evaluation                     `json:"evaluation"`
	Importances  []prediction.FeatureImportance `json:"importances,omitempty"`
}

func NewTrainingReport(datasetPath string, params forest.Params) *TrainingReport {
	report := &TrainingReport{
		RunID:       uuid.NewString(),
		DatasetPath: datasetPath,
		StartTime:   time.Now().Unix(),
		Params:      params,
	}
	report.SetStatus(New)
	return report
}

func (r *TrainingReport) SetStatus(status JobStatus) {
	r.StatusCode = status
	r.Status = status.String()
}

// Complete stamps the end of the run with its final status
func (r *TrainingReport) Complete(status JobStatus, msg string, started time.Time) {
	r.SetStatus(status)
	r.Msg = msg
	r.EndTime = time.Now().Unix()
	r.DurationSecs = time.Since(started).Seconds()
}

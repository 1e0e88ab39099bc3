/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package training

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	svcErrors "boxoffice/common/errors"
	"boxoffice/revenue-ml-service/pkg/artifact"
	"boxoffice/revenue-ml-service/pkg/dataset"
	"boxoffice/revenue-ml-service/pkg/dto/config"
	"boxoffice/revenue-ml-service/pkg/dto/job"
	"boxoffice/revenue-ml-service/pkg/dto/prediction"
	"boxoffice/revenue-ml-service/pkg/forest"
	"boxoffice/revenue-ml-service/pkg/predictor"
	"boxoffice/revenue-ml-service/pkg/preprocess"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TrainingJobService runs the training pipeline on the configured dataset
type TrainingJobService struct {
	lc  logger.LoggingClient
	cfg config.TrainingConfig

	mu         sync.Mutex
	lastReport *job.TrainingReport
}

func NewTrainingJobService(lc logger.LoggingClient, cfg config.TrainingConfig) *TrainingJobService {
	return &TrainingJobService{lc: lc, cfg: cfg}
}

// Train satisfies predictor.Trainer
func (s *TrainingJobService) Train(ctx context.Context) (*artifact.Bundle, error) {
	bundle, _, err := s.Run(ctx)
	return bundle, err
}

// LastReport returns the report of the most recent run, nil before the first
func (s *TrainingJobService) LastReport() *job.TrainingReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport
}

// Run loads the dataset file and trains on it
func (s *TrainingJobService) Run(ctx context.Context) (*artifact.Bundle, *job.TrainingReport, error) {
	started := time.Now()
	report := job.NewTrainingReport(s.cfg.DatasetPath, s.cfg.Forest)
	s.lc.Infof("training run %s started on %s", report.RunID, s.cfg.DatasetPath)

	movies, err := dataset.LoadFile(s.cfg.DatasetPath)
	if err != nil {
		return s.fail(report, started, err)
	}
	return s.RunOnMovies(ctx, movies, report, started)
}

// RunOnMovies trains on rows that are already loaded
func (s *TrainingJobService) RunOnMovies(ctx context.Context, movies []dataset.Movie, report *job.TrainingReport, started time.Time) (*artifact.Bundle, *job.TrainingReport, error) {
	profile, err := dataset.BuildProfile(movies)
	if err != nil {
		s.lc.Warnf("dataset profile could not be built: %v", err)
	}
	report.Profile = profile
	report.SetStatus(job.DataLoaded)

	cleaned, cleanStats, err := dataset.Clean(movies)
	report.Cleaning = cleanStats
	if err != nil {
		return s.fail(report, started, err)
	}
	s.lc.Infof("%d rows loaded, %d dropped for missing budget or revenue, %d runtimes filled with %.1f",
		cleanStats.RawRows, cleanStats.DroppedMissing, cleanStats.RuntimeFilled, cleanStats.RuntimeFillValue)

	kept, thresholds := dataset.FilterOutliers(cleaned, s.cfg.OutlierPercentile)
	report.Thresholds = thresholds
	report.RowsKept = len(kept)
	s.lc.Infof("outlier filter at p%.0f keeps %d of %d rows (budget <= %.0f, revenue <= %.0f)",
		thresholds.Percentile, len(kept), len(cleaned), thresholds.Budget, thresholds.Revenue)

	X, y, scaler, err := buildFeatures(kept)
	if err != nil {
		return s.fail(report, started, err)
	}

	trainIdx, testIdx, err := TrainTestSplit(len(X), s.cfg.TestSize, s.cfg.SplitSeed)
	if err != nil {
		return s.fail(report, started, err)
	}
	xTrain, yTrain := subset(X, y, trainIdx)
	xTest, yTest := subset(X, y, testIdx)

	report.SetStatus(job.TrainingInProgress)
	model, err := forest.Fit(ctx, xTrain, yTrain, s.cfg.Forest)
	if err != nil {
		return s.fail(report, started, err)
	}

	evaluation, err := s.evaluate(model, xTest, yTest)
	if err != nil {
		return s.fail(report, started, err)
	}
	evaluation.TrainRows = len(trainIdx)
	evaluation.TestRows = len(testIdx)
	report.Evaluation = evaluation
	s.lc.Infof("R2 (log) %.4f, RMSE (log) %.4f, R2 (original) %.4f, RMSE (original) $%.2f",
		evaluation.R2Log, evaluation.RMSELog, evaluation.R2Original, evaluation.RMSEOriginal)

	importances := model.FeatureImportances()
	report.Importances = make([]prediction.FeatureImportance, len(importances))
	for i, v := range importances {
		report.Importances[i] = prediction.FeatureImportance{Name: prediction.FeatureNames[i], Importance: v, Percentage: v * 100}
	}

	scaler.RunID = report.RunID
	bundle := &artifact.Bundle{
		Model: &artifact.ModelArtifact{
			Features:   append([]string(nil), prediction.FeatureNames...),
			Forest:     model,
			Evaluation: evaluation,
			TrainedAt:  time.Now().Unix(),
			RunID:      report.RunID,
		},
		Scaler: scaler,
	}

	report.Complete(job.TrainingCompleted, "", started)
	s.setLastReport(report)
	s.lc.Infof("training run %s completed in %.1fs", report.RunID, report.DurationSecs)
	return bundle, report, nil
}

func (s *TrainingJobService) fail(report *job.TrainingReport, started time.Time, err error) (*artifact.Bundle, *job.TrainingReport, error) {
	report.Complete(job.Failed, err.Error(), started)
	s.setLastReport(report)
	s.lc.Errorf("training run %s failed: %v", report.RunID, err)
	return nil, report, err
}

func (s *TrainingJobService) setLastReport(report *job.TrainingReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReport = report
}

// buildFeatures log transforms budget and revenue and standardises the other inputs
func buildFeatures(movies []dataset.Movie) ([][]float64, []float64, *preprocess.StandardScaler, error) {
	if len(movies) == 0 {
		return nil, nil, nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDataset, "no rows left after outlier filtering")
	}
	aux := make([][]float64, len(movies))
	for i, m := range movies {
		aux[i] = []float64{m.Popularity, m.Runtime, m.VoteAverage, m.VoteCount}
	}
	scaler, err := preprocess.FitStandardScaler(predictor.ScaledColumns, aux)
	if err != nil {
		return nil, nil, nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDataset, err.Error())
	}
	scaled, err := scaler.TransformAll(aux)
	if err != nil {
		return nil, nil, nil, err
	}

	X := make([][]float64, len(movies))
	y := make([]float64, len(movies))
	for i, m := range movies {
		X[i] = append([]float64{preprocess.Log1p(m.Budget)}, scaled[i]...)
		y[i] = preprocess.Log1p(m.Revenue)
	}
	return X, y, scaler, nil
}

// TrainTestSplit shuffles 0..n-1 with seed and puts the first ceil(testSize*n) in the test split
func TrainTestSplit(n int, testSize float64, seed int64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	if n-nTest < 1 || nTest < 1 {
		return nil, nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeDataset,
			fmt.Sprintf("%d rows are not enough for a train/test split", n))
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

func subset(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = X[j]
		ys[i] = y[j]
	}
	return xs, ys
}

func (s *TrainingJobService) evaluate(model *forest.Forest, xTest [][]float64, yTest []float64) (job.Evaluation, error) {
	predLog, err := model.PredictAll(xTest)
	if err != nil {
		return job.Evaluation{}, err
	}
	return job.Evaluation{
		R2Log:        s.finite("R2 (log)", stat.RSquaredFrom(predLog, yTest, nil)),
		RMSELog:      s.finite("RMSE (log)", rmse(predLog, yTest)),
		R2Original:   s.finite("R2 (original)", stat.RSquaredFrom(preprocess.Expm1All(predLog), preprocess.Expm1All(yTest), nil)),
		RMSEOriginal: s.finite("RMSE (original)", rmse(preprocess.Expm1All(predLog), preprocess.Expm1All(yTest))),
	}, nil
}

// finite replaces NaN and infinite scores, which JSON cannot carry, with 0
func (s *TrainingJobService) finite(name string, v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s.lc.Warnf("%s is undefined on this test split, reporting 0", name)
		return 0
	}
	return v
}

func rmse(estimates, values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return floats.Distance(estimates, values, 2) / math.Sqrt(float64(len(values)))
}

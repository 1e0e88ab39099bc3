/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package predictor

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	svcErrors "boxoffice/common/errors"
	"boxoffice/common/telemetry"
	"boxoffice/revenue-ml-service/pkg/artifact"
	"boxoffice/revenue-ml-service/pkg/dto/prediction"
	"boxoffice/revenue-ml-service/pkg/forest"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/pkg/errors"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cast"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

type State int32

const (
	Uninitialized State = iota
	Training
	Loaded
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Training:
		return "training"
	case Loaded:
		return "loaded"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// Trainer produces a freshly fitted model bundle
type Trainer interface {
	Train(ctx context.Context) (*artifact.Bundle, error)
}

// PredictorInterface is what the HTTP layer needs from the prediction service
type PredictorInterface interface {
	State() State
	Predict(f prediction.Features) (float64, error)
	PredictBatch(ctx context.Context, items []prediction.Features) []Outcome
	FeatureImportance() ([]prediction.FeatureImportance, error)
	Info() (prediction.InfoResponse, error)
}

// Outcome is the result of one item of a batch
type Outcome struct {
	Revenue float64
	Err     error
}

// Service serves predictions from the current model. The model is swapped
// atomically, so predictions never take a lock.
type Service struct {
	lc    logger.LoggingClient
	store artifact.Store
	state atomic.Int32
	model atomic.Pointer[Model]
	// serialises Load and Train
	mu sync.Mutex

	stateGauge       gometrics.Gauge
	trainedCounter   gometrics.Counter
	failedCounter    gometrics.Counter
	durationGauge    gometrics.GaugeFloat64
	batchConcurrency int
}

// NewService builds an uninitialized service. store may be nil when nothing is persisted.
func NewService(lc logger.LoggingClient, store artifact.Store, registry gometrics.Registry) *Service {
	if registry == nil {
		registry = gometrics.NewRegistry()
	}
	s := &Service{
		lc:               lc,
		store:            store,
		stateGauge:       gometrics.GetOrRegisterGauge(telemetry.ModelState, registry),
		trainedCounter:   gometrics.GetOrRegisterCounter(telemetry.CompletedTrainingCount, registry),
		failedCounter:    gometrics.GetOrRegisterCounter(telemetry.FailedTrainingCount, registry),
		durationGauge:    gometrics.GetOrRegisterGaugeFloat64(telemetry.LastTrainingDurationSecs, registry),
		batchConcurrency: runtime.NumCPU(),
	}
	s.setState(Uninitialized)
	return s
}

func (s *Service) State() State {
	return State(s.state.Load())
}

func (s *Service) setState(state State) {
	s.state.Store(int32(state))
	s.stateGauge.Update(int64(state))
}

// Load reads the artifact pair from the store and makes it current
func (s *Service) Load() error {
	if s.store == nil {
		return svcErrors.NewCommonServiceError(svcErrors.ErrorTypeConfig, "no artifact store is configured")
	}
	blobs, err := s.store.Load()
	if err != nil {
		return err
	}
	return s.LoadBlobs(blobs)
}

// LoadBlobs decodes and publishes an artifact pair. Both blobs are required.
func (s *Service) LoadBlobs(blobs artifact.Blobs) error {
	if err := artifact.CheckPresence(len(blobs.Model) > 0, len(blobs.Scaler) > 0); err != nil {
		return err
	}
	bundle, err := artifact.DecodeBundle(blobs)
	if err != nil {
		s.lc.Errorf("stored model artifacts are unreadable: %v", err)
		return svcErrors.NewCommonServiceError(svcErrors.ErrorTypeInconsistentState, "stored model artifacts are unreadable: "+err.Error())
	}
	model, err := NewModel(bundle)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.model.Store(model)
	s.setState(Loaded)
	s.lc.Infof("model %s loaded, %d trees", bundle.Model.RunID, len(bundle.Model.Forest.Trees))
	s.setState(Ready)
	return nil
}

// Train runs trainer and publishes its result. A failed run leaves the previous model in place.
func (s *Service) Train(ctx context.Context, trainer Trainer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.State()
	s.setState(Training)
	started := time.Now()

	bundle, err := trainer.Train(ctx)
	if err == nil {
		var model *Model
		model, err = NewModel(bundle)
		if err == nil {
			s.model.Store(model)
			s.setState(Ready)
			s.trainedCounter.Inc(1)
			s.durationGauge.Update(time.Since(started).Seconds())
			s.lc.Infof("model %s trained in %s", bundle.Model.RunID, time.Since(started).Round(time.Millisecond))
			return nil
		}
	}

	s.failedCounter.Inc(1)
	s.setState(previous)
	s.lc.Errorf("training failed: %v", err)
	return err
}

// Save persists the current model and scaler
func (s *Service) Save() error {
	if s.store == nil {
		return svcErrors.NewCommonServiceError(svcErrors.ErrorTypeConfig, "no artifact store is configured")
	}
	model := s.model.Load()
	if model == nil {
		return untrainedError()
	}
	blobs, err := model.Bundle().Encode()
	if err != nil {
		return errors.Wrap(err, "failed to encode model artifacts")
	}
	return s.store.Save(blobs)
}

func (s *Service) current() (*Model, error) {
	model := s.model.Load()
	if model == nil || s.State() == Uninitialized {
		return nil, untrainedError()
	}
	return model, nil
}

func untrainedError() svcErrors.ServiceError {
	return svcErrors.NewCommonServiceError(svcErrors.ErrorTypeUntrainedModel, "model is not trained or loaded")
}

func (s *Service) Predict(f prediction.Features) (float64, error) {
	model, err := s.current()
	if err != nil {
		return 0, err
	}
	return model.Predict(f)
}

// PredictBatch predicts every item independently; one failure does not affect the others
func (s *Service) PredictBatch(ctx context.Context, items []prediction.Features) []Outcome {
	outcomes := make([]Outcome, len(items))
	model, err := s.current()
	if err != nil {
		for i := range outcomes {
			outcomes[i].Err = err
		}
		return outcomes
	}

	g := new(errgroup.Group)
	g.SetLimit(s.batchConcurrency)
	for i := range items {
		g.Go(func() error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				outcomes[i].Err = ctxErr
				return nil
			}
			outcomes[i].Revenue, outcomes[i].Err = model.Predict(items[i])
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// FeatureImportance lists the model inputs by decreasing importance
func (s *Service) FeatureImportance() ([]prediction.FeatureImportance, error) {
	model, err := s.current()
	if err != nil {
		return nil, err
	}
	importances := model.artifact.Forest.FeatureImportances()
	result := make([]prediction.FeatureImportance, len(importances))
	for i, v := range importances {
		result[i] = prediction.FeatureImportance{
			Name:       model.artifact.Features[i],
			Importance: v,
			Percentage: v * 100,
		}
	}
	slices.SortStableFunc(result, func(a, b prediction.FeatureImportance) int {
		switch {
		case a.Importance > b.Importance:
			return -1
		case a.Importance < b.Importance:
			return 1
		}
		return 0
	})
	return result, nil
}

// ArtifactMetaReader is implemented by stores that record when the artifacts were saved
type ArtifactMetaReader interface {
	GetArtifactMeta() (map[string]string, svcErrors.ServiceError)
}

// Info describes the current model with the metrics recorded when it was trained
func (s *Service) Info() (prediction.InfoResponse, error) {
	model, err := s.current()
	if err != nil {
		return prediction.InfoResponse{}, err
	}
	params := model.artifact.Forest.Params
	eval := model.artifact.Evaluation
	info := prediction.InfoResponse{
		ModelType:       forest.ModelType,
		NEstimators:     params.NEstimators,
		MaxDepth:        params.MaxDepth,
		MinSamplesSplit: params.MinSamplesSplit,
		MinSamplesLeaf:  params.MinSamplesLeaf,
		RandomState:     params.RandomState,
		Features:        slices.Clone(model.artifact.Features),
		R2Score:         eval.R2Original,
		RMSEOriginal:    eval.RMSEOriginal,
		R2Log:           eval.R2Log,
		RMSELog:         eval.RMSELog,
		TrainedAt:       model.artifact.TrainedAt,
		RunID:           model.artifact.RunID,
	}
	if reader, ok := s.store.(ArtifactMetaReader); ok {
		info.SavedAt = s.savedAt(reader)
	}
	return info, nil
}

// savedAt is the store's save time in epoch milliseconds, 0 when it is not recorded
func (s *Service) savedAt(reader ArtifactMetaReader) int64 {
	meta, metaErr := reader.GetArtifactMeta()
	if metaErr != nil {
		if !metaErr.IsErrorType(svcErrors.ErrorTypeNotFound) {
			s.lc.Warnf("artifact metadata unavailable: %v", metaErr)
		}
		return 0
	}
	savedAt, err := cast.ToInt64E(meta["savedAt"])
	if err != nil {
		s.lc.Warnf("artifact metadata has malformed savedAt %q", meta["savedAt"])
		return 0
	}
	return savedAt
}

/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package predictor

import (
	"fmt"
	"math"

	svcErrors "boxoffice/common/errors"
	"boxoffice/revenue-ml-service/pkg/artifact"
	"boxoffice/revenue-ml-service/pkg/dto/prediction"
	"boxoffice/revenue-ml-service/pkg/preprocess"

	"golang.org/x/exp/slices"
)

// ScaledColumns are standardised before prediction; budget is log transformed instead
var ScaledColumns = []string{
	prediction.FieldPopularity,
	prediction.FieldRuntime,
	prediction.FieldVoteAverage,
	prediction.FieldVoteCount,
}

// Model is an immutable fitted scaler and forest pair
type Model struct {
	scaler   *preprocess.StandardScaler
	artifact *artifact.ModelArtifact
}

func NewModel(bundle *artifact.Bundle) (*Model, error) {
	if bundle == nil || bundle.Model == nil || bundle.Model.Forest == nil || bundle.Scaler == nil {
		return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeInconsistentState, "model bundle is incomplete")
	}
	if !slices.Equal(bundle.Model.Features, prediction.FeatureNames) {
		return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeInconsistentState,
			fmt.Sprintf("model was trained on features %v, expected %v", bundle.Model.Features, prediction.FeatureNames))
	}
	if bundle.Model.Forest.NFeatures != len(prediction.FeatureNames) {
		return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeInconsistentState,
			fmt.Sprintf("model expects %d inputs, expected %d", bundle.Model.Forest.NFeatures, len(prediction.FeatureNames)))
	}
	if !slices.Equal(bundle.Scaler.Columns, ScaledColumns) {
		return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeInconsistentState,
			fmt.Sprintf("scaler was fitted on %v, expected %v", bundle.Scaler.Columns, ScaledColumns))
	}
	if bundle.Scaler.RunID != bundle.Model.RunID {
		return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeInconsistentState,
			fmt.Sprintf("scaler from run %q does not belong to model from run %q", bundle.Scaler.RunID, bundle.Model.RunID))
	}
	if err := bundle.Scaler.Validate(); err != nil {
		return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeInconsistentState, err.Error())
	}
	return &Model{scaler: bundle.Scaler, artifact: bundle.Model}, nil
}

// Predict returns the revenue in dollars, never negative
func (m *Model) Predict(f prediction.Features) (float64, error) {
	x, err := m.FeatureVector(f)
	if err != nil {
		return 0, err
	}
	logRevenue, err := m.artifact.Forest.Predict(x)
	if err != nil {
		return 0, err
	}
	return preprocess.ToRevenue(logRevenue), nil
}

// FeatureVector is [log1p(budget), scaled popularity, runtime, vote_average, vote_count]
func (m *Model) FeatureVector(f prediction.Features) ([]float64, error) {
	raw := []float64{f.Budget, f.Popularity, f.Runtime, f.VoteAverage, f.VoteCount}
	for i, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeBadRequest,
				fmt.Sprintf("%s must be a finite number", prediction.FeatureNames[i]))
		}
	}
	scaled, err := m.scaler.Transform(raw[1:])
	if err != nil {
		return nil, err
	}
	return append([]float64{preprocess.Log1p(f.Budget)}, scaled...), nil
}

func (m *Model) Bundle() *artifact.Bundle {
	return &artifact.Bundle{Model: m.artifact, Scaler: m.scaler}
}

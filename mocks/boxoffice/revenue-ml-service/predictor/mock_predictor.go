package predictor

import (
	"context"

	"boxoffice/revenue-ml-service/pkg/dto/prediction"
	"boxoffice/revenue-ml-service/pkg/predictor"

	"github.com/stretchr/testify/mock"
)

// MockPredictor is a mock implementation for the predictor.PredictorInterface interface
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) State() predictor.State {
	args := m.Called()
	return args.Get(0).(predictor.State)
}

func (m *MockPredictor) Predict(f prediction.Features) (float64, error) {
	args := m.Called(f)
	var res float64
	if args.Get(0) != nil {
		res = args.Get(0).(float64)
	}
	return res, args.Error(1)
}

func (m *MockPredictor) PredictBatch(ctx context.Context, items []prediction.Features) []predictor.Outcome {
	args := m.Called(ctx, items)
	var res []predictor.Outcome
	if args.Get(0) != nil {
		res = args.Get(0).([]predictor.Outcome)
	}
	return res
}

func (m *MockPredictor) FeatureImportance() ([]prediction.FeatureImportance, error) {
	args := m.Called()
	var res []prediction.FeatureImportance
	if args.Get(0) != nil {
		res = args.Get(0).([]prediction.FeatureImportance)
	}
	return res, args.Error(1)
}

func (m *MockPredictor) Info() (prediction.InfoResponse, error) {
	args := m.Called()
	var res prediction.InfoResponse
	if args.Get(0) != nil {
		res = args.Get(0).(prediction.InfoResponse)
	}
	return res, args.Error(1)
}

package artifact

import (
	"context"

	"boxoffice/revenue-ml-service/pkg/artifact"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation for the artifact.Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(blobs artifact.Blobs) error {
	args := m.Called(blobs)
	return args.Error(0)
}

func (m *MockStore) Load() (artifact.Blobs, error) {
	args := m.Called()
	var res artifact.Blobs
	if args.Get(0) != nil {
		res = args.Get(0).(artifact.Blobs)
	}
	return res, args.Error(1)
}

func (m *MockStore) Exists() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

// MockTrainer is a mock implementation for the predictor.Trainer interface
type MockTrainer struct {
	mock.Mock
}

func (m *MockTrainer) Train(ctx context.Context) (*artifact.Bundle, error) {
	args := m.Called(ctx)
	var res *artifact.Bundle
	if args.Get(0) != nil {
		res = args.Get(0).(*artifact.Bundle)
	}
	return res, args.Error(1)
}

package training

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	svcErrors "boxoffice/common/errors"
	"boxoffice/revenue-ml-service/pkg/dto/config"
	"boxoffice/revenue-ml-service/pkg/dto/job"
	"boxoffice/revenue-ml-service/pkg/dto/prediction"
	"boxoffice/revenue-ml-service/pkg/predictor"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeMovies writes n synthetic films where revenue grows with budget and vote count
func writeMovies(t *testing.T, n int) string {
	t.Helper()
	rng := rand.New(rand.NewSource(3))
	var sb strings.Builder
	sb.WriteString("id,title,budget,revenue,popularity,runtime,vote_average,vote_count,tagline\n")
	for i := 0; i < n; i++ {
		budget := 1e6 + rng.Float64()*1.5e8
		votes := rng.Float64() * 15000
		revenue := budget * (1 + votes/5000) * (0.8 + rng.Float64()*0.4)
		runtime := fmt.Sprintf("%.0f", 85+rng.Float64()*80)
		if i%25 == 0 {
			runtime = ""
		}
		fmt.Fprintf(&sb, "%d,Film %d,%.0f,%.0f,%.2f,%s,%.1f,%.0f,\"a tagline, with comma\"\n",
			i, i, budget, revenue, rng.Float64()*80, runtime, 4+rng.Float64()*5, votes)
	}
	// rows without revenue or budget are dropped
	sb.WriteString("9998,No revenue,1000000,,1,90,5,10,\n")
	sb.WriteString("9999,No budget,,1000000,1,90,5,10,\n")

	path := filepath.Join(t.TempDir(), "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))
	return path
}

func testTrainingConfig(datasetPath string) config.TrainingConfig {
	cfg := config.NewServiceConfig().Training
	cfg.DatasetPath = datasetPath
	cfg.Forest.NEstimators = 10
	return cfg
}

func TestTrainTestSplit(t *testing.T) {
	train, test, err := TrainTestSplit(10, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, test, 2)
	assert.Len(t, train, 8)

	all := append(append([]int{}, train...), test...)
	sort.Ints(all)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)

	train2, test2, err := TrainTestSplit(10, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)

	_, test, err = TrainTestSplit(11, 0.2, 42)
	require.NoError(t, err)
	assert.Len(t, test, 3)
}

func TestTrainTestSplit_Errors(t *testing.T) {
	_, _, err := TrainTestSplit(1, 0.2, 42)
	require.Error(t, err)
	assert.True(t, svcErrors.AsServiceError(err).IsErrorType(svcErrors.ErrorTypeDataset))

	_, _, err = TrainTestSplit(10, 0, 42)
	assert.Error(t, err)
	_, _, err = TrainTestSplit(10, 1, 42)
	assert.Error(t, err)
}

func TestTrainingJobService_Run(t *testing.T) {
	svc := NewTrainingJobService(logger.NewMockClient(), testTrainingConfig(writeMovies(t, 300)))
	assert.Nil(t, svc.LastReport())

	bundle, report, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, bundle)

	assert.Equal(t, job.TrainingCompleted, report.StatusCode)
	assert.Equal(t, "TrainingCompleted", report.Status)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 302, report.Cleaning.RawRows)
	assert.Equal(t, 2, report.Cleaning.DroppedMissing)
	assert.Equal(t, 12, report.Cleaning.RuntimeFilled)
	assert.LessOrEqual(t, report.RowsKept, 300)
	assert.Greater(t, report.RowsKept, 290)
	assert.Equal(t, report.RowsKept, report.Evaluation.TrainRows+report.Evaluation.TestRows)
	assert.Greater(t, report.Evaluation.R2Log, 0.5)
	assert.Greater(t, report.Evaluation.RMSEOriginal, 0.0)
	assert.Greater(t, report.Profile.Budget.P50, 0.0)
	assert.Len(t, report.Importances, 5)
	assert.Same(t, report, svc.LastReport())

	assert.Equal(t, prediction.FeatureNames, bundle.Model.Features)
	assert.Equal(t, report.RunID, bundle.Model.RunID)
	assert.Equal(t, report.RunID, bundle.Scaler.RunID)
	assert.Equal(t, report.Evaluation, bundle.Model.Evaluation)
	assert.Equal(t, predictor.ScaledColumns, bundle.Scaler.Columns)
	assert.Len(t, bundle.Model.Forest.Trees, 10)
}

func TestTrainingJobService_Deterministic(t *testing.T) {
	path := writeMovies(t, 150)
	first, _, err := NewTrainingJobService(logger.NewMockClient(), testTrainingConfig(path)).Run(context.Background())
	require.NoError(t, err)
	second, _, err := NewTrainingJobService(logger.NewMockClient(), testTrainingConfig(path)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Scaler, second.Scaler)
	assert.Equal(t, first.Model.Forest.Trees, second.Model.Forest.Trees)
	assert.Equal(t, first.Model.Evaluation, second.Model.Evaluation)
}

func TestTrainingJobService_Failures(t *testing.T) {
	t.Run("missing columns", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.csv")
		require.NoError(t, os.WriteFile(path, []byte("budget,revenue\n1,2\n"), 0644))

		svc := NewTrainingJobService(logger.NewMockClient(), testTrainingConfig(path))
		_, report, err := svc.Run(context.Background())
		require.Error(t, err)
		assert.True(t, svcErrors.AsServiceError(err).IsErrorType(svcErrors.ErrorTypeDataset))
		assert.Equal(t, job.Failed, report.StatusCode)
		assert.Equal(t, err.Error(), report.Msg)
		assert.Equal(t, job.Failed, svc.LastReport().StatusCode)
	})
	t.Run("missing file", func(t *testing.T) {
		svc := NewTrainingJobService(logger.NewMockClient(), testTrainingConfig(filepath.Join(t.TempDir(), "absent.csv")))
		_, err := svc.Train(context.Background())
		assert.Error(t, err)
	})
	t.Run("too few rows", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "one.csv")
		require.NoError(t, os.WriteFile(path, []byte("budget,revenue,popularity,runtime,vote_average,vote_count\n1000,2000,1,90,5,10\n"), 0644))
		svc := NewTrainingJobService(logger.NewMockClient(), testTrainingConfig(path))
		_, err := svc.Train(context.Background())
		require.Error(t, err)
		assert.True(t, svcErrors.AsServiceError(err).IsErrorType(svcErrors.ErrorTypeDataset))
	})
	t.Run("cancelled", func(t *testing.T) {
		svc := NewTrainingJobService(logger.NewMockClient(), testTrainingConfig(writeMovies(t, 50)))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.Train(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestTrainingJobService_FeedsPredictor(t *testing.T) {
	trainer := NewTrainingJobService(logger.NewMockClient(), testTrainingConfig(writeMovies(t, 200)))
	svc := predictor.NewService(logger.NewMockClient(), nil, nil)

	require.NoError(t, svc.Train(context.Background(), trainer))
	assert.Equal(t, predictor.Ready, svc.State())

	revenue, err := svc.Predict(prediction.Features{Budget: 50000000, Popularity: 50, Runtime: 120, VoteAverage: 7.5, VoteCount: 10000})
	require.NoError(t, err)
	assert.Greater(t, revenue, 0.0)
}

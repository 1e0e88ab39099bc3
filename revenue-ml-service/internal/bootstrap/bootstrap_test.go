package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	svcErrors "boxoffice/common/errors"
	"boxoffice/revenue-ml-service/internal/training"
	"boxoffice/revenue-ml-service/pkg/dto/config"
	"boxoffice/revenue-ml-service/pkg/dto/job"
	"boxoffice/revenue-ml-service/pkg/helpers"
	"boxoffice/revenue-ml-service/pkg/predictor"

	"github.com/alicebob/miniredis/v2"
	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, dir string, rows int) string {
	t.Helper()
	rng := rand.New(rand.NewSource(3))
	var b strings.Builder
	b.WriteString("id,title,budget,revenue,popularity,runtime,vote_average,vote_count\n")
	for i := 0; i < rows; i++ {
		budget := 1e6 + rng.Float64()*1.5e8
		popularity := rng.Float64() * 80
		revenue := budget * (1 + popularity/40)
		fmt.Fprintf(&b, "%d,Film %d,%.0f,%.0f,%.3f,%.0f,%.1f,%.0f\n",
			i+1, i+1, budget, revenue, popularity, 80+rng.Float64()*80, 4+rng.Float64()*5, rng.Float64()*9000)
	}
	path := filepath.Join(dir, "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func testConfig(t *testing.T) *config.ServiceConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewServiceConfig()
	cfg.Storage.Dir = dir
	cfg.Training.DatasetPath = writeDataset(t, dir, 150)
	cfg.Training.Forest.NEstimators = 5
	cfg.Training.Forest.MaxDepth = 6
	return cfg
}

func newPredictor(t *testing.T, cfg *config.ServiceConfig) *predictor.Service {
	t.Helper()
	lc := logger.NewMockClient()
	store, closeStore, err := NewArtifactStore(lc, cfg)
	require.NoError(t, err)
	t.Cleanup(closeStore)
	return predictor.NewService(lc, store, nil)
}

func TestNewArtifactStore_File(t *testing.T) {
	cfg := testConfig(t)

	store, closeStore, err := NewArtifactStore(logger.NewMockClient(), cfg)

	require.NoError(t, err)
	defer closeStore()
	storage, ok := store.(*helpers.MLStorage)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(cfg.Storage.Dir, "revenue_model.bin"), storage.GetModelFileName())
}

func TestNewArtifactStore_Redis(t *testing.T) {
	server := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Storage.Provider = config.StorageProviderRedis
	cfg.Redis.RedisHost = server.Host()
	cfg.Redis.RedisPort = server.Port()

	store, closeStore, err := NewArtifactStore(logger.NewMockClient(), cfg)

	require.NoError(t, err)
	defer closeStore()
	exists, err := store.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewArtifactStore_RedisUnreachable(t *testing.T) {
	server := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Storage.Provider = config.StorageProviderRedis
	cfg.Redis.RedisHost = server.Host()
	cfg.Redis.RedisPort = server.Port()
	server.Close()

	_, _, err := NewArtifactStore(logger.NewMockClient(), cfg)

	assert.Error(t, err)
}

func TestInitializeModel_TrainsAndSavesWhenMissing(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.TrainOnMissingArtifacts = true
	lc := logger.NewMockClient()
	p := newPredictor(t, cfg)

	err := InitializeModel(context.Background(), lc, cfg, p, training.NewTrainingJobService(lc, cfg.Training))

	require.NoError(t, err)
	assert.Equal(t, predictor.Ready, p.State())
	assert.FileExists(t, filepath.Join(cfg.Storage.Dir, "revenue_model.bin"))
	assert.FileExists(t, filepath.Join(cfg.Storage.Dir, "scaler.bin"))

	// a second start loads what the first one saved
	reloaded := newPredictor(t, cfg)
	failing := training.NewTrainingJobService(lc, config.TrainingConfig{DatasetPath: "missing.csv"})
	require.NoError(t, InitializeModel(context.Background(), lc, cfg, reloaded, failing))
	assert.Equal(t, predictor.Ready, reloaded.State())

	first, err := p.Info()
	require.NoError(t, err)
	second, err := reloaded.Info()
	require.NoError(t, err)
	assert.Equal(t, first.RunID, second.RunID)
}

func TestInitializeModel_RedisRecordsSaveTime(t *testing.T) {
	server := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Model.TrainOnMissingArtifacts = true
	cfg.Storage.Provider = config.StorageProviderRedis
	cfg.Redis.RedisHost = server.Host()
	cfg.Redis.RedisPort = server.Port()
	lc := logger.NewMockClient()
	p := newPredictor(t, cfg)

	require.NoError(t, InitializeModel(context.Background(), lc, cfg, p, training.NewTrainingJobService(lc, cfg.Training)))

	info, err := p.Info()
	require.NoError(t, err)
	assert.Positive(t, info.SavedAt)
	assert.NotEmpty(t, info.RunID)
}

func TestInitializeModel_StaysUntrainedWhenTrainingDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.TrainOnMissingArtifacts = false
	lc := logger.NewMockClient()
	p := newPredictor(t, cfg)

	err := InitializeModel(context.Background(), lc, cfg, p, training.NewTrainingJobService(lc, cfg.Training))

	require.NoError(t, err)
	assert.Equal(t, predictor.Uninitialized, p.State())
	assert.NoFileExists(t, filepath.Join(cfg.Storage.Dir, "revenue_model.bin"))
}

func TestInitializeModel_ProductionFailsFast(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.TrainOnMissingArtifacts = true
	cfg.Service.Environment = config.EnvironmentProduction
	lc := logger.NewMockClient()
	p := newPredictor(t, cfg)

	err := InitializeModel(context.Background(), lc, cfg, p, training.NewTrainingJobService(lc, cfg.Training))

	require.Error(t, err)
	assert.True(t, svcErrors.AsServiceError(err).IsErrorType(svcErrors.ErrorTypeUntrainedModel))
	assert.Equal(t, predictor.Uninitialized, p.State())
}

func TestInitializeModel_InconsistentArtifacts(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Storage.Dir, "revenue_model.bin"), []byte("x"), 0o644))
	lc := logger.NewMockClient()
	p := newPredictor(t, cfg)

	err := InitializeModel(context.Background(), lc, cfg, p, training.NewTrainingJobService(lc, cfg.Training))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load model artifacts")
}

func TestInitializeModel_TrainingFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.TrainOnMissingArtifacts = true
	cfg.Training.DatasetPath = filepath.Join(cfg.Storage.Dir, "absent.csv")
	lc := logger.NewMockClient()
	p := newPredictor(t, cfg)

	err := InitializeModel(context.Background(), lc, cfg, p, training.NewTrainingJobService(lc, cfg.Training))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "training on startup failed")
	assert.Equal(t, predictor.Uninitialized, p.State())
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	report := &job.TrainingReport{RunID: "run-1", Status: job.TrainingCompleted.String(), RowsKept: 42}

	require.NoError(t, WriteReport(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded job.TrainingReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, 42, decoded.RowsKept)

	assert.Error(t, WriteReport(path, nil))
	assert.Error(t, WriteReport(filepath.Join(t.TempDir(), "missing", "report.json"), report))
}

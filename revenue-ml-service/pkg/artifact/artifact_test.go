package artifact

import (
	"context"
	"encoding/json"
	"testing"

	svcErrors "boxoffice/common/errors"
	"boxoffice/revenue-ml-service/pkg/dto/job"
	"boxoffice/revenue-ml-service/pkg/forest"
	"boxoffice/revenue-ml-service/pkg/preprocess"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBundle(t *testing.T) *Bundle {
	t.Helper()
	X := [][]float64{{1, 0}, {2, 1}, {3, 0}, {4, 1}, {5, 0}, {6, 1}, {7, 0}, {8, 1}}
	y := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	params := forest.DefaultParams()
	params.NEstimators = 3
	params.MinSamplesSplit = 2
	params.MinSamplesLeaf = 1
	f, err := forest.Fit(context.Background(), X, y, params)
	require.NoError(t, err)

	return &Bundle{
		Model: &ModelArtifact{
			Features:   []string{"budget", "popularity"},
			Forest:     f,
			Evaluation: job.Evaluation{R2Log: 0.7, RMSEOriginal: 1234.5},
			TrainedAt:  1700000000,
			RunID:      "run-1",
		},
		Scaler: &preprocess.StandardScaler{Columns: []string{"popularity"}, Mean: []float64{0.5}, Scale: []float64{0.5}},
	}
}

func TestBundle_EncodeDecode(t *testing.T) {
	bundle := testBundle(t)
	blobs, err := bundle.Encode()
	require.NoError(t, err)
	assert.NotEmpty(t, blobs.Model)
	assert.NotEmpty(t, blobs.Scaler)

	decoded, err := DecodeBundle(blobs)
	require.NoError(t, err)
	assert.Equal(t, bundle.Model.Features, decoded.Model.Features)
	assert.Equal(t, bundle.Model.Evaluation, decoded.Model.Evaluation)
	assert.Equal(t, bundle.Model.RunID, decoded.Model.RunID)
	assert.Equal(t, bundle.Scaler, decoded.Scaler)

	for _, x := range [][]float64{{1.5, 0}, {6, 1}, {100, 0}} {
		want, _ := bundle.Model.Forest.Predict(x)
		got, err := decoded.Model.Forest.Predict(x)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestDecode_RejectsWrongKind(t *testing.T) {
	bundle := testBundle(t)
	blobs, err := bundle.Encode()
	require.NoError(t, err)

	_, err = DecodeModel(blobs.Scaler)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a "+KindModel)

	_, err = DecodeScaler(blobs.Model)
	assert.Error(t, err)

	_, err = DecodeBundle(Blobs{Model: blobs.Scaler, Scaler: blobs.Model})
	assert.Error(t, err)
}

func TestDecode_Corrupt(t *testing.T) {
	_, err := DecodeModel(nil)
	assert.Error(t, err)
	_, err = DecodeModel([]byte("not snappy at all"))
	assert.Error(t, err)
	_, err = DecodeScaler(snappy.Encode(nil, []byte("{not json")))
	assert.Error(t, err)

	wrongVersion, _ := json.Marshal(envelope{Kind: KindScaler, Version: 99, Payload: []byte("{}")})
	_, err = DecodeScaler(snappy.Encode(nil, wrongVersion))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported version")

	badScaler, _ := json.Marshal(envelope{Kind: KindScaler, Version: formatVersion, Payload: []byte(`{"columns":["a"],"mean":[1],"scale":[0]}`)})
	_, err = DecodeScaler(snappy.Encode(nil, badScaler))
	assert.Error(t, err)

	noForest, _ := json.Marshal(envelope{Kind: KindModel, Version: formatVersion, Payload: []byte(`{"features":["a"]}`)})
	_, err = DecodeModel(snappy.Encode(nil, noForest))
	assert.Error(t, err)
}

func TestDecodeModel_FeatureMismatch(t *testing.T) {
	bundle := testBundle(t)
	bundle.Model.Features = []string{"budget"}
	blob, err := EncodeModel(bundle.Model)
	require.NoError(t, err)

	_, err = DecodeModel(blob)
	assert.Error(t, err)
}

func TestEncode_Nil(t *testing.T) {
	_, err := EncodeModel(nil)
	assert.Error(t, err)
	_, err = EncodeScaler(nil)
	assert.Error(t, err)
	_, err = (&Bundle{}).Encode()
	assert.Error(t, err)
}

func TestCheckPresence(t *testing.T) {
	assert.NoError(t, CheckPresence(true, true))

	err := CheckPresence(false, false)
	assert.True(t, svcErrors.AsServiceError(err).IsErrorType(svcErrors.ErrorTypeNotFound))

	err = CheckPresence(true, false)
	assert.True(t, svcErrors.AsServiceError(err).IsErrorType(svcErrors.ErrorTypeInconsistentState))

	err = CheckPresence(false, true)
	assert.True(t, svcErrors.AsServiceError(err).IsErrorType(svcErrors.ErrorTypeInconsistentState))
}

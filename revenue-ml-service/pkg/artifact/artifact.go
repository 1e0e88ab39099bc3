/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package artifact

import (
	"encoding/json"
	"fmt"

	svcErrors "boxoffice/common/errors"
	"boxoffice/revenue-ml-service/pkg/dto/job"
	"boxoffice/revenue-ml-service/pkg/forest"
	"boxoffice/revenue-ml-service/pkg/preprocess"

	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

const (
	KindModel  = "boxoffice.revenue-model"
	KindScaler = "boxoffice.scaler"

	formatVersion = 1
)

// Blobs are the two persisted artifacts. They are only meaningful together.
type Blobs struct {
	Model  []byte
	Scaler []byte
}

// Store persists and retrieves the artifact pair
type Store interface {
	Save(blobs Blobs) error
	// Load returns a NotFound error when nothing is stored and an
	// InconsistentState error when only one of the two artifacts exists
	Load() (Blobs, error)
	Exists() (bool, error)
}

// ModelArtifact is the fitted forest plus what is needed to describe it
type ModelArtifact struct {
	Features   []string       `json:"features"`
	Forest     *forest.Forest `json:"forest"`
	Evaluation job.Evaluation `json:"evaluation"`
	TrainedAt  int64          `json:"trainedAt"`
	RunID      string         `json:"runId"`
}

// Bundle is a decoded model together with the scaler fitted in the same run
type Bundle struct {
	Model  *ModelArtifact
	Scaler *preprocess.StandardScaler
}

type envelope struct {
	Kind    string          `json:"kind"`
	Version int             `json:"version"`
	Payload json.RawMessage `json:"payload"`
}

func (b *Bundle) Encode() (Blobs, error) {
	modelBlob, err := EncodeModel(b.Model)
	if err != nil {
		return Blobs{}, err
	}
	scalerBlob, err := EncodeScaler(b.Scaler)
	if err != nil {
		return Blobs{}, err
	}
	return Blobs{Model: modelBlob, Scaler: scalerBlob}, nil
}

func DecodeBundle(blobs Blobs) (*Bundle, error) {
	model, err := DecodeModel(blobs.Model)
	if err != nil {
		return nil, err
	}
	scaler, err := DecodeScaler(blobs.Scaler)
	if err != nil {
		return nil, err
	}
	return &Bundle{Model: model, Scaler: scaler}, nil
}

func EncodeModel(model *ModelArtifact) ([]byte, error) {
	if model == nil || model.Forest == nil {
		return nil, fmt.Errorf("no model to encode")
	}
	return encode(KindModel, model)
}

func DecodeModel(blob []byte) (*ModelArtifact, error) {
	model := &ModelArtifact{}
	if err := decode(KindModel, blob, model); err != nil {
		return nil, err
	}
	if model.Forest == nil {
		return nil, errors.New("model artifact has no forest")
	}
	if err := model.Forest.Validate(); err != nil {
		return nil, errors.Wrap(err, "model artifact is corrupt")
	}
	if len(model.Features) != model.Forest.NFeatures {
		return nil, fmt.Errorf("model artifact names %d features for %d inputs", len(model.Features), model.Forest.NFeatures)
	}
	return model, nil
}

func EncodeScaler(scaler *preprocess.StandardScaler) ([]byte, error) {
	if scaler == nil {
		return nil, fmt.Errorf("no scaler to encode")
	}
	return encode(KindScaler, scaler)
}

func DecodeScaler(blob []byte) (*preprocess.StandardScaler, error) {
	scaler := &preprocess.StandardScaler{}
	if err := decode(KindScaler, blob, scaler); err != nil {
		return nil, err
	}
	if err := scaler.Validate(); err != nil {
		return nil, errors.Wrap(err, "scaler artifact is corrupt")
	}
	return scaler, nil
}

func encode(kind string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal %s", kind)
	}
	data, err := json.Marshal(envelope{Kind: kind, Version: formatVersion, Payload: payloadBytes})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal %s", kind)
	}
	return snappy.Encode(nil, data), nil
}

func decode(kind string, blob []byte, target interface{}) error {
	if len(blob) == 0 {
		return fmt.Errorf("%s artifact is empty", kind)
	}
	data, err := snappy.Decode(nil, blob)
	if err != nil {
		return errors.Wrapf(err, "%s artifact is not readable", kind)
	}
	var env envelope
	if err = json.Unmarshal(data, &env); err != nil {
		return errors.Wrapf(err, "%s artifact is not readable", kind)
	}
	if env.Kind != kind {
		return fmt.Errorf("expected a %s artifact, found %q", kind, env.Kind)
	}
	if env.Version != formatVersion {
		return fmt.Errorf("%s artifact has unsupported version %d", kind, env.Version)
	}
	if err = json.Unmarshal(env.Payload, target); err != nil {
		return errors.Wrapf(err, "failed to unmarshal %s", kind)
	}
	return nil
}

// CheckPresence maps which artifacts a store holds to the load error, if any
func CheckPresence(modelExists, scalerExists bool) error {
	switch {
	case modelExists && scalerExists:
		return nil
	case !modelExists && !scalerExists:
		return svcErrors.NewCommonServiceError(svcErrors.ErrorTypeNotFound, "no trained model is stored")
	case modelExists:
		return svcErrors.NewCommonServiceError(svcErrors.ErrorTypeInconsistentState, "model artifact is stored without its scaler")
	default:
		return svcErrors.NewCommonServiceError(svcErrors.ErrorTypeInconsistentState, "scaler artifact is stored without its model")
	}
}

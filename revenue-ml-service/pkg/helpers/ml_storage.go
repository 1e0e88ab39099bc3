/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package helpers

import (
	"os"
	"path/filepath"

	svcErrors "boxoffice/common/errors"
	"boxoffice/revenue-ml-service/pkg/artifact"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/pkg/errors"
)

var (
	mkdirAllFunc  = os.MkdirAll
	writeFileFunc = os.WriteFile
	renameFunc    = os.Rename
)

const (
	MODEL_FILENAME  = "revenue_model.bin"
	SCALER_FILENAME = "scaler.bin"
)

// MLStorage keeps the model and scaler artifacts as two files in one directory
type MLStorage struct {
	BaseLocalDirectory string
	modelFileName      string
	scalerFileName     string
	lc                 logger.LoggingClient
}

func NewMLStorage(baseLocalDirectory, modelFileName, scalerFileName string, lc logger.LoggingClient) *MLStorage {
	if modelFileName == "" {
		modelFileName = MODEL_FILENAME
	}
	if scalerFileName == "" {
		scalerFileName = SCALER_FILENAME
	}
	return &MLStorage{
		BaseLocalDirectory: baseLocalDirectory,
		modelFileName:      modelFileName,
		scalerFileName:     scalerFileName,
		lc:                 lc,
	}
}

func (s *MLStorage) GetModelFileName() string {
	return filepath.Join(s.BaseLocalDirectory, s.modelFileName)
}

func (s *MLStorage) GetScalerFileName() string {
	return filepath.Join(s.BaseLocalDirectory, s.scalerFileName)
}

// Save writes both artifacts to temporary names and moves them into place only once both writes succeeded
func (s *MLStorage) Save(blobs artifact.Blobs) error {
	if len(blobs.Model) == 0 || len(blobs.Scaler) == 0 {
		return svcErrors.NewCommonServiceError(svcErrors.ErrorTypeBadRequest, "both model and scaler artifacts are required")
	}
	if err := mkdirAllFunc(s.BaseLocalDirectory, 0755); err != nil {
		s.lc.Errorf("failed to create model directory %s: %v", s.BaseLocalDirectory, err)
		return errors.Wrapf(err, "failed to create model directory %s", s.BaseLocalDirectory)
	}
	files := []struct {
		name string
		data []byte
	}{
		{s.GetModelFileName(), blobs.Model},
		{s.GetScalerFileName(), blobs.Scaler},
	}
	for i, f := range files {
		if err := writeFileFunc(f.name+".tmp", f.data, 0644); err != nil {
			s.lc.Errorf("failed to write %s: %v", f.name+".tmp", err)
			for _, written := range files[:i+1] {
				_ = os.Remove(written.name + ".tmp")
			}
			return errors.Wrapf(err, "failed to write %s", f.name)
		}
	}
	for i, f := range files {
		if err := renameFunc(f.name+".tmp", f.name); err != nil {
			s.lc.Errorf("failed to move %s into place: %v", f.name, err)
			for _, pending := range files[i:] {
				_ = os.Remove(pending.name + ".tmp")
			}
			if i > 0 {
				// the pair on disk is now split across two runs
				for _, moved := range files[:i] {
					_ = os.Remove(moved.name)
				}
			}
			return errors.Wrapf(err, "failed to write %s", f.name)
		}
	}
	s.lc.Infof("model saved to %s, scaler saved to %s", s.GetModelFileName(), s.GetScalerFileName())
	return nil
}

func (s *MLStorage) Load() (artifact.Blobs, error) {
	if err := artifact.CheckPresence(s.FileExists(s.GetModelFileName()), s.FileExists(s.GetScalerFileName())); err != nil {
		return artifact.Blobs{}, err
	}
	model, err := os.ReadFile(s.GetModelFileName())
	if err != nil {
		return artifact.Blobs{}, errors.Wrapf(err, "failed to read %s", s.GetModelFileName())
	}
	scaler, err := os.ReadFile(s.GetScalerFileName())
	if err != nil {
		return artifact.Blobs{}, errors.Wrapf(err, "failed to read %s", s.GetScalerFileName())
	}
	return artifact.Blobs{Model: model, Scaler: scaler}, nil
}

// Exists is true only when both artifacts are present; a lone artifact is an InconsistentState error
func (s *MLStorage) Exists() (bool, error) {
	err := artifact.CheckPresence(s.FileExists(s.GetModelFileName()), s.FileExists(s.GetScalerFileName()))
	if err == nil {
		return true, nil
	}
	if svcErrors.AsServiceError(err).IsErrorType(svcErrors.ErrorTypeNotFound) {
		return false, nil
	}
	return false, err
}

func (s *MLStorage) FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

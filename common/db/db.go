/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package db

import (
	"errors"
	"time"
)

const (
	// ML artifact storage keys
	MLArtifactBase = "bo:ml"
	MLTrainedModel = MLArtifactBase + ":model"
	MLFittedScaler = MLArtifactBase + ":scaler"
	MLArtifactMeta = MLArtifactBase + ":meta"
	MLArtifactLock = MLArtifactBase + ":lock"
)

var (
	ErrNotFound = errors.New("item not found")
	ErrInternal = errors.New("internal error")
)

func MakeTimestamp() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package client

// Names the services log and report metrics under
const (
	ServiceKeyPrefix = "boxoffice-"

	RevenueApiServiceName     = "boxoffice-revenue-api"
	RevenueTrainerServiceName = "boxoffice-revenue-trainer"
	TmdbFetchServiceName      = "boxoffice-tmdb-fetch"
)

const (
	ModelName    = "TMDB Revenue Predictor"
	AppVersion   = "1.0.0"
	ModelVersion = "1.0"
)

const (
	HeaderContentType = "Content-Type"
	HeaderAccept      = "Accept"
	ContentTypeJSON   = "application/json"
)

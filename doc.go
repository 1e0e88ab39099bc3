/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

// Package boxoffice predicts the worldwide box office revenue of films from their budget,
// popularity, runtime and audience votes with a random forest trained on TMDB data.
//
// The commands live under revenue-ml-service/cmd: revenue-api serves predictions over HTTP,
// revenue-trainer fits and stores the model, tmdb-fetch extends the training data from the TMDB API.
package boxoffice

//	@title			Box Office Revenue API
//	@version		1.0.0

// @BasePath	/
// @host		localhost:5000

//go:generate swag init --parseInternal=true --generalInfo=doc.go --pd=true --ot=json --output=./revenue-ml-service/res/swagger/

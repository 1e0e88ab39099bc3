/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"bytes"
	"net/http"
	"strings"

	"boxoffice/common/client"
	svcErrors "boxoffice/common/errors"
	"boxoffice/common/utils"
	"boxoffice/revenue-ml-service/pkg/dto/prediction"

	"github.com/labstack/echo/v4"
)

const formTemplate = "form.html"

var formDefaults = map[string]string{
	prediction.FieldBudget:      "50000000",
	prediction.FieldRuntime:     "120",
	prediction.FieldVoteCount:   "10000",
	prediction.FieldPopularity:  "50",
	prediction.FieldVoteAverage: "7.5",
}

// formFeatures mirrors prediction.Features with the narrower ranges the form offers
type formFeatures struct {
	Budget      float64 `json:"budget" validate:"gte=1000000"`
	Popularity  float64 `json:"popularity" validate:"gte=0,lte=100"`
	Runtime     float64 `json:"runtime" validate:"gte=60,lte=300"`
	VoteAverage float64 `json:"vote_average" validate:"gte=0,lte=10"`
	VoteCount   float64 `json:"vote_count" validate:"gte=0"`
}

type formPage struct {
	Title       string
	Version     string
	Values      map[string]string
	Error       string
	Result      *formResult
	Model       *prediction.InfoResponse
	Importances []prediction.FeatureImportance
}

type formResult struct {
	Revenue float64
	ROI     float64
	HasROI  bool
	Params  []formParam
}

type formParam struct {
	Label string
	Value string
}

func (r *Router) showForm(c echo.Context) *echo.HTTPError {
	values := make(map[string]string, len(formDefaults))
	for k, v := range formDefaults {
		values[k] = v
	}
	return r.render(c, http.StatusOK, r.newFormPage(values))
}

func (r *Router) submitForm(c echo.Context) *echo.HTTPError {
	r.formSubmissions.Inc(1)

	values := make(map[string]string, len(prediction.FeatureNames))
	raw := make(map[string]interface{}, len(prediction.FeatureNames))
	for _, name := range prediction.FeatureNames {
		v := strings.TrimSpace(c.FormValue(name))
		values[name] = v
		if v != "" {
			raw[name] = v
		}
	}
	page := r.newFormPage(values)

	features, svcErr := r.decodeFeatures(raw, func(f interface{}) error {
		return r.validate.Struct(formFeatures(f.(prediction.Features)))
	})
	if svcErr != nil {
		r.badRequests.Inc(1)
		page.Error = svcErr.Message()
		return r.render(c, http.StatusBadRequest, page)
	}

	revenue, err := r.timedPredict(features)
	if err != nil {
		r.failedPredictions.Inc(1)
		r.lc.Errorf("form prediction failed: %v", err)
		serviceErr := svcErrors.AsServiceError(err)
		page.Error = serviceErr.Message()
		return r.render(c, serviceErr.ConvertToHTTPError().Code, page)
	}
	r.predictions.Inc(1)
	page.Result = newFormResult(features, revenue)
	return r.render(c, http.StatusOK, page)
}

func (r *Router) newFormPage(values map[string]string) formPage {
	page := formPage{
		Title:   client.ModelName,
		Version: client.AppVersion,
		Values:  values,
	}
	if info, err := r.predictor.Info(); err == nil {
		page.Model = &info
	}
	if importances, err := r.predictor.FeatureImportance(); err == nil {
		page.Importances = importances
	}
	return page
}

func newFormResult(f prediction.Features, revenue float64) *formResult {
	result := &formResult{
		Revenue: revenue,
		Params: []formParam{
			{Label: "Budget", Value: utils.FormatDollars(f.Budget, 0)},
			{Label: "Runtime", Value: utils.FormatThousands(f.Runtime, 0) + " minutes"},
			{Label: "Popularity", Value: utils.FormatThousands(f.Popularity, 1)},
			{Label: "Vote average", Value: utils.FormatThousands(f.VoteAverage, 1) + "/10"},
			{Label: "Vote count", Value: utils.FormatThousands(f.VoteCount, 0)},
		},
	}
	result.ROI, result.HasROI = utils.ReturnOnInvestment(revenue, f.Budget)
	return result
}

func (r *Router) render(c echo.Context, code int, page formPage) *echo.HTTPError {
	var buf bytes.Buffer
	if err := r.pages.ExecuteTemplate(&buf, formTemplate, page); err != nil {
		r.lc.Errorf("failed to render %s: %v", formTemplate, err)
		return echo.NewHTTPError(http.StatusInternalServerError, svcErrors.ErrorResponse{Error: "failed to render page"})
	}
	if err := c.HTML(code, buf.String()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, svcErrors.ErrorResponse{Error: err.Error()})
	}
	return nil
}

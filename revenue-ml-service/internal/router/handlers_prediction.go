/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"boxoffice/common/client"
	svcErrors "boxoffice/common/errors"
	"boxoffice/common/utils"
	"boxoffice/revenue-ml-service/pkg/dto/prediction"
	"boxoffice/revenue-ml-service/pkg/predictor"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

const fieldFilms = "films"

func (r *Router) health(c echo.Context) *echo.HTTPError {
	status := "ok"
	if state := r.predictor.State(); state != predictor.Ready {
		status = state.String()
	}
	return jsonResponse(c, http.StatusOK, prediction.HealthResponse{
		Status:  status,
		Model:   client.ModelName,
		Version: client.ModelVersion,
	})
}

func (r *Router) predict(c echo.Context) *echo.HTTPError {
	var raw map[string]interface{}
	if err := json.NewDecoder(c.Request().Body).Decode(&raw); err != nil || raw == nil {
		r.badRequests.Inc(1)
		return svcErrors.NewCommonServiceError(svcErrors.ErrorTypeBadRequest, "request body must be a JSON object").ConvertToHTTPError()
	}

	features, svcErr := r.decodeFeatures(raw, r.validate.Struct)
	if svcErr != nil {
		r.badRequests.Inc(1)
		return svcErr.ConvertToHTTPError()
	}

	revenue, err := r.timedPredict(features)
	if err != nil {
		r.failedPredictions.Inc(1)
		r.lc.Errorf("prediction failed: %v", err)
		return svcErrors.AsServiceError(err).ConvertToHTTPError()
	}
	r.predictions.Inc(1)
	return jsonResponse(c, http.StatusOK, prediction.PredictionResponse{
		Input:                     raw,
		PredictedRevenue:          revenue,
		PredictedRevenueFormatted: utils.FormatDollars(revenue, 2),
	})
}

func (r *Router) predictBatch(c echo.Context) *echo.HTTPError {
	var req prediction.BatchRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		r.badRequests.Inc(1)
		return svcErrors.NewCommonServiceError(svcErrors.ErrorTypeBadRequest, "request body must be a JSON object with a films list").ConvertToHTTPError()
	}
	if req.Films == nil {
		r.badRequests.Inc(1)
		return svcErrors.NewMandatoryFieldsError("missing required field: "+fieldFilms, []string{fieldFilms}).ConvertToHTTPError()
	}
	r.batchRequests.Inc(1)
	r.batchItems.Inc(int64(len(req.Films)))

	results := make([]prediction.BatchItemResult, len(req.Films))
	valid := make([]prediction.Features, 0, len(req.Films))
	positions := make([]int, 0, len(req.Films))
	for i, film := range req.Films {
		results[i].Input = film
		features, svcErr := r.decodeFeatures(film, r.validate.Struct)
		if svcErr != nil {
			results[i].Error = svcErr.Message()
			continue
		}
		valid = append(valid, features)
		positions = append(positions, i)
	}

	if len(valid) > 0 {
		started := time.Now()
		outcomes := r.predictor.PredictBatch(c.Request().Context(), valid)
		r.latency.UpdateSince(started)

		untrained := 0
		for j, outcome := range outcomes {
			i := positions[j]
			if outcome.Err != nil {
				results[i].Error = outcome.Err.Error()
				if svcErrors.AsServiceError(outcome.Err).IsErrorType(svcErrors.ErrorTypeUntrainedModel) {
					untrained++
				}
				continue
			}
			revenue := outcome.Revenue
			results[i].PredictedRevenue = &revenue
			results[i].PredictedRevenueFormatted = utils.FormatDollars(revenue, 2)
		}
		if untrained == len(outcomes) {
			return svcErrors.AsServiceError(outcomes[0].Err).ConvertToHTTPError()
		}
	}

	failed := 0
	for _, result := range results {
		if result.Error != "" {
			failed++
		}
	}
	r.failedPredictions.Inc(int64(failed))
	r.predictions.Inc(int64(len(results) - failed))
	if failed > 0 {
		r.lc.Warnf("batch prediction: %d of %d films failed", failed, len(results))
	}

	return jsonResponse(c, http.StatusOK, prediction.BatchResponse{
		Count:   len(results),
		Failed:  failed,
		Results: results,
	})
}

func (r *Router) featureImportance(c echo.Context) *echo.HTTPError {
	importances, err := r.predictor.FeatureImportance()
	if err != nil {
		return svcErrors.AsServiceError(err).ConvertToHTTPError()
	}
	return jsonResponse(c, http.StatusOK, prediction.FeatureImportanceResponse{Features: importances})
}

func (r *Router) info(c echo.Context) *echo.HTTPError {
	info, err := r.predictor.Info()
	if err != nil {
		return svcErrors.AsServiceError(err).ConvertToHTTPError()
	}
	return jsonResponse(c, http.StatusOK, info)
}

func (r *Router) metricsSnapshot(c echo.Context) *echo.HTTPError {
	return jsonResponse(c, http.StatusOK, r.metrics.Snapshot())
}

func (r *Router) timedPredict(features prediction.Features) (float64, error) {
	var (
		revenue float64
		err     error
	)
	r.latency.Time(func() {
		revenue, err = r.predictor.Predict(features)
	})
	return revenue, err
}

// decodeFeatures reads the model inputs from raw. Numbers may be sent as JSON numbers or numeric strings;
// a null or blank value counts as missing.
func (r *Router) decodeFeatures(raw map[string]interface{}, validate func(interface{}) error) (prediction.Features, svcErrors.ServiceError) {
	values := make(map[string]float64, len(prediction.FeatureNames))
	var missing, invalid []string
	for _, name := range prediction.FeatureNames {
		v, ok := raw[name]
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			ok = false
		}
		if !ok || v == nil {
			missing = append(missing, name)
			continue
		}
		f, err := toNumber(v)
		if err != nil {
			invalid = append(invalid, name)
			continue
		}
		values[name] = f
	}
	if len(missing) > 0 {
		return prediction.Features{}, svcErrors.NewMandatoryFieldsError("missing required fields: "+strings.Join(missing, ", "), missing)
	}
	if len(invalid) > 0 {
		return prediction.Features{}, svcErrors.NewCommonServiceError(svcErrors.ErrorTypeBadRequest, "non-numeric value for: "+strings.Join(invalid, ", "))
	}

	features := prediction.Features{
		Budget:      values[prediction.FieldBudget],
		Popularity:  values[prediction.FieldPopularity],
		Runtime:     values[prediction.FieldRuntime],
		VoteAverage: values[prediction.FieldVoteAverage],
		VoteCount:   values[prediction.FieldVoteCount],
	}
	if err := validate(features); err != nil {
		return prediction.Features{}, validationError(err)
	}
	return features, nil
}

func toNumber(v interface{}) (float64, error) {
	switch t := v.(type) {
	case bool, map[string]interface{}, []interface{}:
		return 0, fmt.Errorf("%T is not a number", v)
	case string:
		v = strings.TrimSpace(t)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v is not a finite number", v)
	}
	return f, nil
}

func validationError(err error) svcErrors.ServiceError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return svcErrors.NewCommonServiceError(svcErrors.ErrorTypeBadRequest, err.Error())
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s must be %s %s", fe.Field(), comparison(fe.Tag()), fe.Param()))
	}
	return svcErrors.NewCommonServiceError(svcErrors.ErrorTypeBadRequest, "invalid input: "+strings.Join(msgs, "; "))
}

func comparison(tag string) string {
	switch tag {
	case "gte":
		return ">="
	case "lte":
		return "<="
	case "gt":
		return ">"
	case "lt":
		return "<"
	}
	return tag
}

func jsonResponse(c echo.Context, code int, body interface{}) *echo.HTTPError {
	if err := c.JSON(code, body); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, svcErrors.ErrorResponse{Error: err.Error()})
	}
	return nil
}

/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (r *Router) addPredictionRoutes(e *echo.Echo) {
	r.addHealthRoute(e)
	r.addPredictRoute(e)
	r.addPredictBatchRoute(e)
	r.addFeatureImportanceRoute(e)
	r.addInfoRoute(e)
	r.addMetricsRoute(e)
}

func (r *Router) addFormRoutes(e *echo.Echo) {
	r.addRoute(e, RouteMap{Url: "/", Handler: r.showForm, Label: "prediction form", Method: http.MethodGet})
	r.addRoute(e, RouteMap{Url: "/", Handler: r.submitForm, Label: "prediction form submit", Method: http.MethodPost})
}

// @Summary      Service health
// @Description  Reports "ok" once a model is ready, otherwise the model lifecycle state.
// @Tags         Prediction
// @Success      200  {object}  prediction.HealthResponse
// @Router       /health [get]
func (r *Router) addHealthRoute(e *echo.Echo) {
	r.addRoute(e, RouteMap{Url: "/health", Handler: r.health, Label: "health", Method: http.MethodGet})
}

// @Summary      Predict revenue
// @Description  Predicts the box office revenue of one film. Numbers may be sent as numeric strings.
// @Tags         Prediction
// @Param        Body  body      prediction.Features  true  "Film features"
// @Success      200   {object}  prediction.PredictionResponse
// @Failure      400   {object}  errors.ErrorResponse
// @Failure      500   {object}  errors.ErrorResponse
// @Failure      503   {object}  errors.ErrorResponse
// @Router       /predict [post]
func (r *Router) addPredictRoute(e *echo.Echo) {
	r.addRoute(e, RouteMap{Url: "/predict", Handler: r.predict, Label: "predict", Method: http.MethodPost})
}

// @Summary      Predict revenue for several films
// @Description  Each film succeeds or fails on its own; failed films carry an error instead of a prediction.
// @Tags         Prediction
// @Param        Body  body      prediction.BatchRequest  true  "Films"
// @Success      200   {object}  prediction.BatchResponse
// @Failure      400   {object}  errors.ErrorResponse
// @Failure      503   {object}  errors.ErrorResponse
// @Router       /predict_batch [post]
func (r *Router) addPredictBatchRoute(e *echo.Echo) {
	r.addRoute(e, RouteMap{Url: "/predict_batch", Handler: r.predictBatch, Label: "predict batch", Method: http.MethodPost})
}

// @Summary      Feature importance
// @Tags         Model
// @Success      200  {object}  prediction.FeatureImportanceResponse
// @Failure      503  {object}  errors.ErrorResponse
// @Router       /feature_importance [get]
func (r *Router) addFeatureImportanceRoute(e *echo.Echo) {
	r.addRoute(e, RouteMap{Url: "/feature_importance", Handler: r.featureImportance, Label: "feature importance", Method: http.MethodGet})
}

// @Summary      Model information
// @Description  Forest parameters and the evaluation metrics recorded when the model was trained.
// @Tags         Model
// @Success      200  {object}  prediction.InfoResponse
// @Failure      503  {object}  errors.ErrorResponse
// @Router       /info [get]
func (r *Router) addInfoRoute(e *echo.Echo) {
	r.addRoute(e, RouteMap{Url: "/info", Handler: r.info, Label: "model info", Method: http.MethodGet})
}

// @Summary      Service metrics
// @Tags         Model
// @Success      200
// @Router       /metrics [get]
func (r *Router) addMetricsRoute(e *echo.Echo) {
	r.addRoute(e, RouteMap{Url: "/metrics", Handler: r.metricsSnapshot, Label: "metrics", Method: http.MethodGet})
}

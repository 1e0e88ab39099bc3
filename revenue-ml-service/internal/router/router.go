/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"embed"
	"html/template"
	"reflect"
	"strings"

	"boxoffice/common/telemetry"
	"boxoffice/common/utils"
	"boxoffice/revenue-ml-service/pkg/predictor"

	"github.com/Masterminds/sprig"
	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	gometrics "github.com/rcrowley/go-metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

type Router struct {
	lc        logger.LoggingClient
	predictor predictor.PredictorInterface
	metrics   *telemetry.MetricsManager
	validate  *validator.Validate
	pages     *template.Template

	predictions       gometrics.Counter
	failedPredictions gometrics.Counter
	batchRequests     gometrics.Counter
	batchItems        gometrics.Counter
	formSubmissions   gometrics.Counter
	badRequests       gometrics.Counter
	latency           gometrics.Timer
}

const (
	ApplicationJson = "application/json"
	ContentType     = "Content-Type"
)

type RouteMap struct {
	Url     string
	Handler func(c echo.Context) *echo.HTTPError
	Label   string
	Method  string
}

func NewRouter(lc logger.LoggingClient, p predictor.PredictorInterface, metrics *telemetry.MetricsManager) (*Router, error) {
	pages, err := template.New("pages").
		Funcs(sprig.FuncMap()).
		Funcs(template.FuncMap{
			"dollars":   utils.FormatDollars,
			"thousands": utils.FormatThousands,
		}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	// report json names rather than struct field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registry := metrics.Registry
	return &Router{
		lc:                lc,
		predictor:         p,
		metrics:           metrics,
		validate:          validate,
		pages:             pages,
		predictions:       gometrics.GetOrRegisterCounter(telemetry.PredictionsCount, registry),
		failedPredictions: gometrics.GetOrRegisterCounter(telemetry.FailedPredictionsCount, registry),
		batchRequests:     gometrics.GetOrRegisterCounter(telemetry.BatchRequestsCount, registry),
		batchItems:        gometrics.GetOrRegisterCounter(telemetry.BatchItemsCount, registry),
		formSubmissions:   gometrics.GetOrRegisterCounter(telemetry.FormSubmissionsCount, registry),
		badRequests:       gometrics.GetOrRegisterCounter(telemetry.BadRequestsCount, registry),
		latency:           gometrics.GetOrRegisterTimer(telemetry.PredictionLatency, registry),
	}, nil
}

func (r *Router) AddRoutes(e *echo.Echo) {
	r.addPredictionRoutes(e)
	r.addFormRoutes(e)
}

func (r *Router) addRoute(e *echo.Echo, route RouteMap) {
	handler := route.Handler
	e.Add(route.Method, route.Url, func(c echo.Context) error {
		if herr := handler(c); herr != nil {
			return herr
		}
		return nil
	})
	r.lc.Debugf("route %s %s added (%s)", route.Method, route.Url, route.Label)
}

/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package telemetry

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/hashicorp/go-multierror"
	gometrics "github.com/rcrowley/go-metrics"
)

// MetricSample is one reported value.
type MetricSample struct {
	Name  string
	Value int64
}

type LogMetricReporter struct {
	lc                logger.LoggingClient
	serviceName       string
	tags              map[string]string
	mu                sync.Mutex
	lastReportedValue map[string]int64
}

func NewLogMetricReporter(lc logger.LoggingClient, serviceName string, tags map[string]string) *LogMetricReporter {
	return &LogMetricReporter{
		lc:                lc,
		serviceName:       serviceName,
		tags:              tags,
		lastReportedValue: make(map[string]int64),
	}
}

// Report logs the metrics whose value changed since the previous report and returns them.
func (r *LogMetricReporter) Report(registry gometrics.Registry, tags map[string]string) error {
	_, err := r.collect(registry, tags)
	return err
}

func (r *LogMetricReporter) collect(registry gometrics.Registry, tags map[string]string) ([]MetricSample, error) {
	var errs error
	samples := make([]MetricSample, 0)

	registry.Each(func(name string, item interface{}) {
		if !strings.HasPrefix(name, MetricPrefix) {
			return
		}
		var value int64
		switch metric := item.(type) {
		case gometrics.Counter:
			value = metric.Count()
			if value >= (math.MaxInt64 - 1000) {
				r.lc.Warnf("Resetting counter '%s' with value: %d to avoid overflow", name, value)
				metric.Clear()
			}
		case gometrics.Gauge:
			value = metric.Value()
		case gometrics.GaugeFloat64:
			value = int64(math.Round(metric.Value()))
		case gometrics.Timer:
			value = metric.Count()
		default:
			errs = multierror.Append(errs, fmt.Errorf("metric type %T not supported", metric))
			return
		}

		r.mu.Lock()
		if lastValue, exists := r.lastReportedValue[name]; !exists || lastValue != value {
			samples = append(samples, MetricSample{Name: name, Value: value})
			r.lastReportedValue[name] = value
		}
		r.mu.Unlock()
	})

	if len(samples) > 0 {
		r.lc.Infof("%s telemetry %v: %v", r.serviceName, tags, samples)
	} else {
		r.lc.Debugf("No telemetry metrics to report.")
	}
	return samples, errs
}

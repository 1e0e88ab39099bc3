/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	gometrics "github.com/rcrowley/go-metrics"
)

// MetricsManager owns the service registry and periodically hands it to a reporter.
type MetricsManager struct {
	wg       sync.WaitGroup
	lc       logger.LoggingClient
	Registry gometrics.Registry
	reporter *LogMetricReporter
	interval time.Duration
	tags     map[string]string
}

func NewMetricsManager(lc logger.LoggingClient, serviceName string, interval time.Duration) *MetricsManager {
	tags := map[string]string{"service": serviceName}
	return &MetricsManager{
		lc:       lc,
		Registry: gometrics.NewRegistry(),
		reporter: NewLogMetricReporter(lc, serviceName, tags),
		interval: interval,
		tags:     tags,
	}
}

// Snapshot returns the current registry values keyed by metric name.
func (m *MetricsManager) Snapshot() map[string]map[string]interface{} {
	return m.Registry.GetAll()
}

// Run reports the registry every interval until ctx is done. A non-positive interval disables reporting.
func (m *MetricsManager) Run(ctx context.Context) {
	if m.interval <= 0 {
		m.lc.Info("metric reporting is disabled")
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.reporter.Report(m.Registry, m.tags); err != nil {
					m.lc.Errorf("metric report failed: %v", err)
				}
			}
		}
	}()
}

// Wait blocks until the reporting goroutine has exited.
func (m *MetricsManager) Wait() {
	m.wg.Wait()
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

// Names
const (
	DurationHistogram = "reconcile_duration_seconds"
)

// Labels
const (
	OutcomeLabel = "outcome"
)

// ProvideMetrics returns the Metrics relevant to this package
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.HistogramVec(
			prometheus.HistogramOpts{
				Name:    DurationHistogram,
				Help:    "Time taken to reconcile a single notification, by outcome.",
				Buckets: prometheus.DefBuckets,
			},
			OutcomeLabel,
		),
	)
}

type Measures struct {
	fx.In
	Duration prometheus.ObserverVec `name:"reconcile_duration_seconds"`
}

// NewMeasures creates unregistered measures, for use outside of an fx.App.
func NewMeasures() *Measures {
	return &Measures{
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: DurationHistogram}, []string{OutcomeLabel}),
	}
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

// Names
const (
	NotificationsCounter = "notifications_total"
	BatchSizeHistogram   = "batch_size"
)

// Labels
const (
	OutcomeLabel = "outcome"
)

// Label Values, in addition to the reconcile outcomes.
const (
	IgnoredOutcome = "ignored"
)

// ProvideMetrics returns the Metrics relevant to this package
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: NotificationsCounter,
				Help: "Counter for object notifications received, by outcome.",
			},
			OutcomeLabel,
		),
		touchstone.Histogram(
			prometheus.HistogramOpts{
				Name:    BatchSizeHistogram,
				Help:    "Number of object created notifications per invocation.",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
			},
		),
	)
}

type Measures struct {
	fx.In
	Notifications *prometheus.CounterVec `name:"notifications_total"`
	BatchSize     prometheus.Observer    `name:"batch_size"`
}

// NewMeasures creates unregistered measures, for use outside of an fx.App.
func NewMeasures() *Measures {
	return &Measures{
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{Name: NotificationsCounter}, []string{OutcomeLabel}),
		BatchSize:     prometheus.NewHistogram(prometheus.HistogramOpts{Name: BatchSizeHistogram}),
	}
}

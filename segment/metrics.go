// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package segment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

// Names
const (
	SegmentsCounter = "trace_segments_total"
)

// Labels
const (
	OutcomeLabel = "outcome"
)

// Label Values
const (
	SentOutcome    = "sent"
	DroppedOutcome = "dropped"
	FailedOutcome  = "failed"
)

// ProvideMetrics returns the Metrics relevant to this package
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: SegmentsCounter,
				Help: "Counter for trace segments submitted to x-ray, by outcome.",
			},
			OutcomeLabel,
		),
	)
}

type Measures struct {
	fx.In
	Segments *prometheus.CounterVec `name:"trace_segments_total"`
}

// NewMeasures creates unregistered measures, for use outside of an fx.App.
func NewMeasures() *Measures {
	return &Measures{
		Segments: prometheus.NewCounterVec(prometheus.CounterOpts{Name: SegmentsCounter}, []string{OutcomeLabel}),
	}
}

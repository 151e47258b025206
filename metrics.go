// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

// Names
const (
	InvocationsCounter          = "invocations_total"
	InvocationDurationHistogram = "invocation_duration_seconds"
)

// Labels
const (
	OutcomeLabel = "outcome"
)

// Label Values
const (
	SuccessOutcome = "success"
	FailureOutcome = "failure"
)

// provideMetrics builds the application metrics and makes them available to the container
func provideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: InvocationsCounter,
				Help: "Counter for function invocations, by outcome.",
			},
			OutcomeLabel,
		),
		touchstone.Histogram(
			prometheus.HistogramOpts{
				Name:    InvocationDurationHistogram,
				Help:    "Time taken to process an invocation, excluding telemetry flushes.",
				Buckets: prometheus.DefBuckets,
			},
		),
	)
}

type Measures struct {
	fx.In
	Invocations *prometheus.CounterVec `name:"invocations_total"`
	Duration    prometheus.Observer    `name:"invocation_duration_seconds"`
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/touchstone"
	"go.uber.org/fx"
)

// Names
const (
	QueriesCounter           = "store_queries_total"
	QueryDurationHistogram   = "store_query_duration_seconds"
	DynamodbConsumedCapacity = "dynamodb_consumed_capacity_total"
)

// Labels
const (
	QueryOutcomeLabelKey     = "outcome"
	QueryTypeLabelKey        = "type"
	DynamoCapacityOpLabelKey = "op"
)

// Label Values
const (
	SuccessQueryOutcome = "success"
	FailQueryOutcome    = "fail"

	FindQueryType   = "find"
	InsertQueryType = "insert"
	UpdateQueryType = "update"
	PingQueryType   = "ping"

	DynamoCapacityReadOp  = "read"
	DynamoCapacityWriteOp = "write"
)

// ProvideMetrics returns the Metrics relevant to this package
func ProvideMetrics() fx.Option {
	return fx.Options(
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: QueriesCounter,
				Help: "The total number of store queries and their outcomes.",
			},
			QueryTypeLabelKey,
			QueryOutcomeLabelKey,
		),
		touchstone.HistogramVec(
			prometheus.HistogramOpts{
				Name:    QueryDurationHistogram,
				Help:    "A histogram of latencies for store queries.",
				Buckets: []float64{0.0625, 0.125, .25, .5, 1, 5, 10, 20, 40, 80, 160},
			},
			QueryTypeLabelKey,
		),
		touchstone.CounterVec(
			prometheus.CounterOpts{
				Name: DynamodbConsumedCapacity,
				Help: "The number of capacity units consumed by dynamodb operations.",
			},
			DynamoCapacityOpLabelKey,
		),
	)
}

type Measures struct {
	fx.In
	Queries                  *prometheus.CounterVec `name:"store_queries_total"`
	QueryDurationSeconds     prometheus.ObserverVec `name:"store_query_duration_seconds"`
	DynamodbConsumedCapacity *prometheus.CounterVec `name:"dynamodb_consumed_capacity_total"`
}

// NewMeasures creates unregistered measures, for use outside of an fx.App.
func NewMeasures() *Measures {
	return &Measures{
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: QueriesCounter,
		}, []string{QueryTypeLabelKey, QueryOutcomeLabelKey}),
		QueryDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: QueryDurationHistogram,
		}, []string{QueryTypeLabelKey}),
		DynamodbConsumedCapacity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: DynamodbConsumedCapacity,
		}, []string{DynamoCapacityOpLabelKey}),
	}
}

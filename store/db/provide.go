// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"github.com/xmidt-org/hebe/store"
	"github.com/xmidt-org/hebe/store/cassandra"
	"github.com/xmidt-org/hebe/store/db/metric"
	"github.com/xmidt-org/hebe/store/dynamodb"
	"github.com/xmidt-org/hebe/store/inmem"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Configs is unmarshalled from the "store" configuration key. At most one
// backend is used; dynamo wins over yugabyte, and yugabyte over inmem. With
// no backend configured, dynamo is used with its defaults.
type Configs struct {
	Dynamo   *dynamodb.Config
	Yugabyte *cassandra.Config

	// InMem selects the in-memory store. Records do not outlive the process.
	InMem bool
}

type SetupIn struct {
	fx.In
	Configs        Configs
	Measures       metric.Measures
	LC             fx.Lifecycle
	Logger         *zap.Logger
	TracerProvider trace.TracerProvider `optional:"true"`
}

func Provide() fx.Option {
	return fx.Options(
		metric.ProvideMetrics(),
		fx.Provide(
			SetupStore,
		),
	)
}

func SetupStore(in SetupIn) (store.S, error) {
	measures := in.Measures
	switch {
	case in.Configs.Dynamo != nil:
		in.Logger.Info("using dynamodb store implementation", zap.String("table", in.Configs.Dynamo.Table))
		return dynamodb.NewDynamoDB(*in.Configs.Dynamo, &measures, in.Logger, in.TracerProvider)
	case in.Configs.Yugabyte != nil:
		in.Logger.Info("using yugabyte store implementation", zap.Strings("hosts", in.Configs.Yugabyte.Hosts))
		return cassandra.NewCassandra(*in.Configs.Yugabyte, &measures, in.LC, in.Logger)
	case in.Configs.InMem:
		in.Logger.Warn("using in memory store implementation, records will not be persisted")
		return inmem.NewInMem(), nil
	default:
		in.Logger.Info("no store configured, using dynamodb store implementation with defaults")
		return dynamodb.NewDynamoDB(dynamodb.Config{}, &measures, in.Logger, in.TracerProvider)
	}
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"github.com/xmidt-org/hebe/reconcile"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type SetupIn struct {
	fx.In
	Config     Config
	Reconciler *reconcile.Reconciler
	Measures   Measures
	Logger     *zap.Logger
}

func Provide() fx.Option {
	return fx.Options(
		ProvideMetrics(),
		fx.Provide(
			NewHandler,
		),
	)
}

func NewHandler(in SetupIn) (*Handler, error) {
	measures := in.Measures
	return New(in.Config, in.Reconciler, &measures, in.Logger)
}

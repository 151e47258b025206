// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/candlelight"
	"github.com/xmidt-org/hebe/ingest"
	"github.com/xmidt-org/hebe/model"
	"github.com/xmidt-org/hebe/reconcile"
	"github.com/xmidt-org/hebe/segment"
	"github.com/xmidt-org/hebe/store"
	"github.com/xmidt-org/hebe/store/db"
	"github.com/xmidt-org/touchstone"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const (
	applicationName = "hebe"
)

var (
	GitCommit = "undefined"
	Version   = "undefined"
	BuildTime = "undefined"
)

// unmarshal returns an fx constructor that decodes the given configuration
// key into a T.
func unmarshal[T any](key string) func(*viper.Viper) (T, error) {
	return func(v *viper.Viper) (T, error) {
		var t T
		err := v.UnmarshalKey(key, &t)
		if err != nil {
			return t, fmt.Errorf("failed to unmarshal %q: %w", key, err)
		}
		return t, nil
	}
}

func provideTouchstoneConfig(v *viper.Viper) (touchstone.Config, error) {
	c, err := unmarshal[touchstone.Config]("prometheus")(v)
	if c.DefaultNamespace == "" {
		c.DefaultNamespace = applicationName
	}
	return c, err
}

func provideTracingConfig(v *viper.Viper) (candlelight.Config, error) {
	c, err := unmarshal[candlelight.Config]("tracing")(v)
	c.ApplicationName = applicationName
	return c, err
}

func provideTracerProvider(t candlelight.Tracing) trace.TracerProvider {
	return t.TracerProvider()
}

func provideLocator(v *viper.Viper) (model.Locator, error) {
	c, err := unmarshal[model.LocatorConfig]("locator")(v)
	if err != nil {
		return model.Locator{}, err
	}
	return model.NewLocator(c)
}

type ReconcilerIn struct {
	fx.In
	Store         store.S
	Segments      segment.Submitter
	SegmentConfig segment.Config
	Locator       model.Locator
	Tracing       candlelight.Tracing
	Measures      reconcile.Measures
	Logger        *zap.Logger
}

func provideReconciler(in ReconcilerIn) (*reconcile.Reconciler, error) {
	measures := in.Measures
	return reconcile.New(reconcile.Options{
		Store:        in.Store,
		Segments:     in.Segments,
		SegmentName:  in.SegmentConfig.SegmentName(),
		ErrorHandler: reconcile.NewErrorHandler(in.Logger),
		Logger:       in.Logger,
		Tracer:       in.Tracing.TracerProvider().Tracer(applicationName),
		Locator:      in.Locator,
		Measures:     &measures,
	})
}

// provideApp assembles every component of the application.
func provideApp(v *viper.Viper, logger *zap.Logger) fx.Option {
	return fx.Options(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		fx.Supply(logger, v),
		touchstone.Provide(),
		provideMetrics(),
		db.Provide(),
		segment.Provide(),
		reconcile.ProvideMetrics(),
		ingest.Provide(),
		fx.Provide(
			provideTouchstoneConfig,
			provideTracingConfig,
			candlelight.New,
			provideTracerProvider,
			provideLocator,
			provideReconciler,
			newInvoker,
			unmarshal[db.Configs]("store"),
			unmarshal[segment.Config]("segment"),
			unmarshal[ingest.Config]("ingest"),
			unmarshal[PushConfig]("prometheus"),
		),
	)
}

func main() {
	v, logger, fs, err := setup(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var inv *invoker
	app := fx.New(
		provideApp(v, logger),
		fx.Populate(&inv),
	)

	switch err := app.Err(); {
	case err == nil:
		eventFile, _ := fs.GetString("event")
		if err := run(app, inv, eventFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// run processes a single event file when one is given, otherwise hands the
// invoker to the lambda runtime, which does not return.
func run(app *fx.App, inv *invoker, eventFile string) error {
	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	if len(eventFile) == 0 {
		lambda.Start(inv.Invoke)
		return nil
	}

	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
		defer cancel()
		_ = app.Stop(stopCtx)
	}()

	payload, err := os.ReadFile(eventFile)
	if err != nil {
		return fmt.Errorf("failed to read event file: %w", err)
	}
	_, err = inv.Invoke(context.Background(), json.RawMessage(payload))
	return err
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/xmidt-org/hebe/ingest"
	"github.com/xmidt-org/hebe/reconcile"
	"github.com/xmidt-org/hebe/segment"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// PushConfig is unmarshalled from the "prometheus" configuration key.
type PushConfig struct {
	// Pushgateway is the address metrics are pushed to after every invocation.
	// When empty, metrics are not pushed.
	Pushgateway string `validate:"omitempty,url"`

	// Job is the pushgateway job label. (Optional) Defaults to the application name.
	Job string
}

type InvokerIn struct {
	fx.In
	Handler  *ingest.Handler
	Segments segment.Submitter
	Gatherer prometheus.Gatherer
	Push     PushConfig
	Measures Measures
	Logger   *zap.Logger
}

// invoker runs one invocation, then flushes pending trace segments and
// pushes metrics before returning to the lambda runtime.
type invoker struct {
	handler  *ingest.Handler
	segments segment.Submitter
	pusher   *push.Pusher
	measures Measures
	logger   *zap.Logger
	now      func() time.Time
}

func newInvoker(in InvokerIn) (*invoker, error) {
	i := &invoker{
		handler:  in.Handler,
		segments: in.Segments,
		measures: in.Measures,
		logger:   in.Logger,
		now:      time.Now,
	}
	if len(in.Push.Pushgateway) == 0 {
		return i, nil
	}
	if err := validator.New().Struct(in.Push); err != nil {
		return nil, fmt.Errorf("invalid pushgateway configuration: %w", err)
	}

	job := in.Push.Job
	if len(job) == 0 {
		job = applicationName
	}
	i.pusher = push.New(in.Push.Pushgateway, job).Gatherer(in.Gatherer)
	return i, nil
}

func (i *invoker) Invoke(ctx context.Context, payload json.RawMessage) (reconcile.Result, error) {
	start := i.now()
	result, err := i.handler.Invoke(ctx, payload)
	i.measures.Duration.Observe(i.now().Sub(start).Seconds())
	if err != nil {
		i.measures.Invocations.WithLabelValues(FailureOutcome).Inc()
		i.logger.Error("invocation failed", zap.Error(err))
	} else {
		i.measures.Invocations.WithLabelValues(SuccessOutcome).Inc()
	}

	if ferr := i.segments.Flush(ctx); ferr != nil {
		i.logger.Debug("failed to flush trace segments", zap.Error(ferr))
	}
	if i.pusher != nil {
		if perr := i.pusher.PushContext(ctx); perr != nil {
			i.logger.Warn("failed to push metrics", zap.Error(perr))
		}
	}
	return result, err
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package reconcile

import (
	"context"
	"time"

	"emperror.dev/emperror"
	"emperror.dev/errors"
	"github.com/xmidt-org/hebe/model"
	"github.com/xmidt-org/hebe/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const (
	tracerName = "github.com/xmidt-org/hebe/reconcile"

	defaultSegmentName = "DynamoDB Interaction"
)

const errNilStore = errors.Sentinel("record store is required")

// Outcome is the result of reconciling a single notification.
type Outcome string

const (
	Inserted Outcome = "inserted"
	Updated  Outcome = "updated"
	Skipped  Outcome = "skipped"
	Failed   Outcome = "failed"
)

// Notification is one "object created" event: the bucket and key of a newly
// stored image.
type Notification struct {
	Bucket    string
	ObjectKey string
	EventName string
	EventTime time.Time
}

// SegmentSubmitter receives a trace segment ahead of every store interaction.
type SegmentSubmitter interface {
	Submit(ctx context.Context, name string)
}

type nopSubmitter struct{}

func (nopSubmitter) Submit(context.Context, string) {}

// Options configures a Reconciler. Store is required; every other
// collaborator has a no-op default.
type Options struct {
	Store        store.S
	Segments     SegmentSubmitter
	SegmentName  string
	ErrorHandler emperror.ErrorHandler
	Logger       *zap.Logger
	Tracer       trace.Tracer
	Locator      model.Locator
	Measures     *Measures
}

// Reconciler brings the record store in line with incoming notifications.
type Reconciler struct {
	store        store.S
	segments     SegmentSubmitter
	segmentName  string
	errorHandler emperror.ErrorHandler
	logger       *zap.Logger
	tracer       trace.Tracer
	locator      model.Locator
	measures     *Measures
}

func New(o Options) (*Reconciler, error) {
	if o.Store == nil {
		return nil, errNilStore
	}
	r := &Reconciler{
		store:        o.Store,
		segments:     o.Segments,
		segmentName:  o.SegmentName,
		errorHandler: o.ErrorHandler,
		logger:       o.Logger,
		tracer:       o.Tracer,
		locator:      o.Locator,
		measures:     o.Measures,
	}
	if r.segments == nil {
		r.segments = nopSubmitter{}
	}
	if r.segmentName == "" {
		r.segmentName = defaultSegmentName
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.errorHandler == nil {
		r.errorHandler = NewErrorHandler(r.logger)
	}
	if r.tracer == nil {
		r.tracer = noop.NewTracerProvider().Tracer(tracerName)
	}
	if r.measures == nil {
		r.measures = NewMeasures()
	}
	return r, nil
}

// Reconcile records the image referenced by n: it inserts a record the first
// time a bar/drink pair is seen and updates the reference afterwards.
// A malformed path yields Skipped; a store failure yields Failed.
func (r *Reconciler) Reconcile(ctx context.Context, n Notification) (outcome Outcome, err error) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "reconcile",
		trace.WithAttributes(
			attribute.String("s3.bucket", n.Bucket),
			attribute.String("s3.key", n.ObjectKey),
		),
	)
	defer func() {
		span.SetAttributes(attribute.String("outcome", string(outcome)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		r.measures.Duration.WithLabelValues(string(outcome)).Observe(time.Since(start).Seconds())
	}()

	key, err := model.ParseObjectKey(n.ObjectKey)
	if err != nil {
		return Skipped, errors.WithDetails(err, "bucket", n.Bucket, "objectKey", n.ObjectKey)
	}
	span.SetAttributes(attribute.String("bar", key.Bar), attribute.String("drink", key.Drink))

	imageURL := r.locator.Locate(n.Bucket, n.ObjectKey)
	r.segments.Submit(ctx, r.segmentName)

	_, err = r.store.Find(ctx, key)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		r.segments.Submit(ctx, r.segmentName)
		err = r.store.Insert(ctx, model.Record{Key: key, ImageURL: imageURL})
		if err != nil {
			return Failed, r.details(err, n, key)
		}
		r.logger.Debug("inserted drink image record",
			zap.String("bar", key.Bar), zap.String("drink", key.Drink), zap.String("imageURL", imageURL))
		return Inserted, nil
	case err != nil:
		return Failed, r.details(err, n, key)
	}

	r.segments.Submit(ctx, r.segmentName)
	err = r.store.Update(ctx, key, imageURL)
	if err != nil {
		return Failed, r.details(err, n, key)
	}
	r.logger.Debug("updated drink image record",
		zap.String("bar", key.Bar), zap.String("drink", key.Drink), zap.String("imageURL", imageURL))
	return Updated, nil
}

func (r *Reconciler) details(err error, n Notification, key model.Key) error {
	return errors.WithDetails(err,
		"bucket", n.Bucket,
		"objectKey", n.ObjectKey,
		"bar", key.Bar,
		"drink", key.Drink,
	)
}

// ReconcileAll reconciles each notification in order. A failed notification
// never stops the batch; its error goes to the error handler and into the
// Result. Once ctx is done the remaining notifications are marked failed.
func (r *Reconciler) ReconcileAll(ctx context.Context, notifications []Notification) Result {
	var result Result
	for i, n := range notifications {
		if ctxErr := ctx.Err(); ctxErr != nil {
			for _, rest := range notifications[i:] {
				err := errors.WithDetails(errors.WrapIf(ctxErr, "notification not reconciled"),
					"bucket", rest.Bucket, "objectKey", rest.ObjectKey)
				result.record(rest, Failed, err)
				r.errorHandler.Handle(err)
			}
			break
		}

		outcome, err := r.Reconcile(ctx, n)
		result.record(n, outcome, err)
		if err != nil {
			r.errorHandler.Handle(err)
		}
	}
	return result
}

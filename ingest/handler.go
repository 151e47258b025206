// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"emperror.dev/errors"
	"github.com/aws/aws-lambda-go/events"
	"github.com/xmidt-org/hebe/reconcile"
	"go.uber.org/zap"
)

const (
	objectCreatedPrefix = "ObjectCreated:"
	s3TestEvent         = "s3:TestEvent"

	snsEventSource = "aws:sns"
	s3EventSource  = "aws:s3"
)

var (
	errItemFailures     = errors.Sentinel("one or more notifications could not be reconciled")
	errUnsupportedEvent = errors.Sentinel("unsupported event payload")
	errNilReconciler    = errors.Sentinel("reconciler is required")
)

// Notification is a single object created event.
type Notification = reconcile.Notification

// Reconciler processes a batch of notifications.
type Reconciler interface {
	ReconcileAll(ctx context.Context, notifications []Notification) reconcile.Result
}

// Config is unmarshalled from the "ingest" configuration key.
type Config struct {
	// FailOnItemError turns any failed notification into an invocation
	// error, so that the event is delivered again.
	FailOnItemError bool
}

// Handler turns Lambda events into notifications and hands them to the
// reconciler.
type Handler struct {
	reconciler      Reconciler
	logger          *zap.Logger
	measures        *Measures
	failOnItemError bool
}

func New(config Config, r Reconciler, measures *Measures, logger *zap.Logger) (*Handler, error) {
	if r == nil {
		return nil, errNilReconciler
	}
	if measures == nil {
		measures = NewMeasures()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		reconciler:      r,
		logger:          logger,
		measures:        measures,
		failOnItemError: config.FailOnItemError,
	}, nil
}

// Handle processes an SNS event whose messages carry S3 event notifications.
// Messages that are not S3 events are skipped.
func (h *Handler) Handle(ctx context.Context, event events.SNSEvent) (reconcile.Result, error) {
	var notifications []Notification
	for _, record := range event.Records {
		var s3Event events.S3Event
		if err := json.Unmarshal([]byte(record.SNS.Message), &s3Event); err != nil {
			h.ignore("sns message is not an s3 event",
				zap.String("messageID", record.SNS.MessageID), zap.Error(err))
			continue
		}
		if len(s3Event.Records) == 0 {
			h.ignore("sns message carries no s3 records",
				zap.String("messageID", record.SNS.MessageID), zap.String("subject", record.SNS.Subject))
			continue
		}
		notifications = append(notifications, h.notifications(s3Event)...)
	}
	return h.reconcile(ctx, notifications)
}

// HandleS3Event processes an S3 event delivered directly to the function.
func (h *Handler) HandleS3Event(ctx context.Context, event events.S3Event) (reconcile.Result, error) {
	return h.reconcile(ctx, h.notifications(event))
}

// probe holds just enough of an invocation payload to tell SNS and S3 events
// apart. encoding/json matches "EventSource" and "eventSource" alike.
type probe struct {
	Records []struct {
		EventSource string `json:"eventSource"`
	} `json:"Records"`
	Event string `json:"Event"`
}

// Invoke accepts a raw invocation payload, either an SNS or an S3 event.
func (h *Handler) Invoke(ctx context.Context, payload json.RawMessage) (reconcile.Result, error) {
	var p probe
	if err := json.Unmarshal(payload, &p); err != nil {
		return reconcile.Result{}, errors.WrapIf(err, "failed to decode event payload")
	}

	if len(p.Records) == 0 {
		if p.Event == s3TestEvent {
			h.ignore("s3 test event")
			return reconcile.Result{}, nil
		}
		return reconcile.Result{}, errUnsupportedEvent
	}

	switch source := p.Records[0].EventSource; source {
	case snsEventSource:
		var event events.SNSEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return reconcile.Result{}, errors.WrapIf(err, "failed to decode sns event")
		}
		return h.Handle(ctx, event)
	case s3EventSource:
		var event events.S3Event
		if err := json.Unmarshal(payload, &event); err != nil {
			return reconcile.Result{}, errors.WrapIf(err, "failed to decode s3 event")
		}
		return h.HandleS3Event(ctx, event)
	default:
		return reconcile.Result{}, errors.WithDetails(errUnsupportedEvent, "eventSource", source)
	}
}

func (h *Handler) notifications(event events.S3Event) []Notification {
	notifications := make([]Notification, 0, len(event.Records))
	for _, record := range event.Records {
		if !strings.HasPrefix(record.EventName, objectCreatedPrefix) {
			h.ignore("not an object created event",
				zap.String("eventName", record.EventName),
				zap.String("objectKey", record.S3.Object.Key))
			continue
		}
		notifications = append(notifications, Notification{
			Bucket:    record.S3.Bucket.Name,
			ObjectKey: record.S3.Object.Key,
			EventName: record.EventName,
			EventTime: record.EventTime,
		})
	}
	return notifications
}

func (h *Handler) ignore(msg string, fields ...zap.Field) {
	h.measures.Notifications.WithLabelValues(IgnoredOutcome).Inc()
	h.logger.Debug(msg, fields...)
}

func (h *Handler) reconcile(ctx context.Context, notifications []Notification) (reconcile.Result, error) {
	h.measures.BatchSize.Observe(float64(len(notifications)))
	if len(notifications) == 0 {
		return reconcile.Result{}, nil
	}

	result := h.reconciler.ReconcileAll(ctx, notifications)

	h.measures.Notifications.WithLabelValues(string(reconcile.Inserted)).Add(float64(result.Inserted))
	h.measures.Notifications.WithLabelValues(string(reconcile.Updated)).Add(float64(result.Updated))
	h.measures.Notifications.WithLabelValues(string(reconcile.Skipped)).Add(float64(result.Skipped))
	h.measures.Notifications.WithLabelValues(string(reconcile.Failed)).Add(float64(result.Failed))

	h.logger.Info("processed notifications",
		zap.Int("attempted", result.Attempted),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)

	if h.failOnItemError && result.Retryable() {
		return result, fmt.Errorf("%w: %w", errItemFailures, result.Err())
	}
	return result, nil
}

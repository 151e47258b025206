// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/hebe/model"
	"github.com/xmidt-org/hebe/reconcile"
	"github.com/xmidt-org/hebe/store/inmem"
	"go.uber.org/zap"
)

const (
	testBucket = "bar-bucket"
	testKey    = "mojito-bar/margarita.png"
)

var testEventTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func s3Record(eventName, key string) events.S3EventRecord {
	return events.S3EventRecord{
		EventSource: "aws:s3",
		EventName:   eventName,
		EventTime:   testEventTime,
		S3: events.S3Entity{
			Bucket: events.S3Bucket{Name: testBucket},
			Object: events.S3Object{Key: key},
		},
	}
}

func snsEvent(messages ...string) events.SNSEvent {
	var e events.SNSEvent
	for i, m := range messages {
		e.Records = append(e.Records, events.SNSEventRecord{
			EventSource: "aws:sns",
			SNS: events.SNSEntity{
				MessageID: string(rune('a' + i)),
				Message:   m,
			},
		})
	}
	return e
}

func s3Message(t *testing.T, records ...events.S3EventRecord) string {
	b, err := json.Marshal(events.S3Event{Records: records})
	require.NoError(t, err)
	return string(b)
}

func notification(key string) Notification {
	return Notification{
		Bucket:    testBucket,
		ObjectKey: key,
		EventName: "ObjectCreated:Put",
		EventTime: testEventTime,
	}
}

func TestNew(t *testing.T) {
	h, err := New(Config{}, nil, nil, nil)
	assert.Nil(t, h)
	assert.ErrorIs(t, err, errNilReconciler)
}

func TestHandle(t *testing.T) {
	tests := []struct {
		Description           string
		Messages              func(t *testing.T) []string
		ExpectedNotifications []Notification
		ExpectedIgnored       float64
	}{
		{
			Description: "Single object created",
			Messages: func(t *testing.T) []string {
				return []string{s3Message(t, s3Record("ObjectCreated:Put", testKey))}
			},
			ExpectedNotifications: []Notification{notification(testKey)},
		},
		{
			Description: "Multiple messages and records",
			Messages: func(t *testing.T) []string {
				return []string{
					s3Message(t, s3Record("ObjectCreated:Put", testKey), s3Record("ObjectCreated:Copy", "tiki-bar/mai-tai.png")),
					s3Message(t, s3Record("ObjectCreated:Put", "tiki-bar/zombie.png")),
				}
			},
			ExpectedNotifications: []Notification{
				notification(testKey),
				{Bucket: testBucket, ObjectKey: "tiki-bar/mai-tai.png", EventName: "ObjectCreated:Copy", EventTime: testEventTime},
				notification("tiki-bar/zombie.png"),
			},
		},
		{
			Description: "Non object created records are ignored",
			Messages: func(t *testing.T) []string {
				return []string{s3Message(t, s3Record("ObjectRemoved:Delete", testKey), s3Record("ObjectCreated:Put", testKey))}
			},
			ExpectedNotifications: []Notification{notification(testKey)},
			ExpectedIgnored:       1,
		},
		{
			Description: "Non s3 messages are ignored",
			Messages: func(t *testing.T) []string {
				return []string{
					"not json",
					`{"Service":"Amazon S3","Event":"s3:TestEvent","Bucket":"bar-bucket"}`,
					s3Message(t, s3Record("ObjectCreated:Put", testKey)),
				}
			},
			ExpectedNotifications: []Notification{notification(testKey)},
			ExpectedIgnored:       2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			m := new(mockReconciler)
			measures := NewMeasures()
			result := reconcile.Result{Attempted: len(tc.ExpectedNotifications), Inserted: len(tc.ExpectedNotifications)}
			m.On("ReconcileAll", mock.Anything, tc.ExpectedNotifications).Return(result).Once()

			h, err := New(Config{}, m, measures, zap.NewNop())
			require.NoError(t, err)

			r, err := h.Handle(context.Background(), snsEvent(tc.Messages(t)...))
			assert.NoError(err)
			assert.Equal(result, r)
			assert.Equal(tc.ExpectedIgnored, testutil.ToFloat64(measures.Notifications.WithLabelValues(IgnoredOutcome)))
			assert.Equal(float64(len(tc.ExpectedNotifications)), testutil.ToFloat64(measures.Notifications.WithLabelValues(string(reconcile.Inserted))))
			m.AssertExpectations(t)
		})
	}
}

func TestHandleEmpty(t *testing.T) {
	m := new(mockReconciler)
	h, err := New(Config{}, m, nil, nil)
	require.NoError(t, err)

	r, err := h.Handle(context.Background(), events.SNSEvent{})
	assert.NoError(t, err)
	assert.Equal(t, reconcile.Result{}, r)
	m.AssertNotCalled(t, "ReconcileAll", mock.Anything, mock.Anything)
}

func TestHandleFailures(t *testing.T) {
	errDown := errors.New("connection reset by peer")
	tests := []struct {
		Description     string
		FailOnItemError bool
		Result          reconcile.Result
		ExpectedErr     bool
	}{
		{
			Description: "Failures swallowed",
			Result: reconcile.Result{Attempted: 1, Failed: 1, Failures: []reconcile.Failure{
				{Notification: notification(testKey), Outcome: reconcile.Failed, Err: errDown},
			}},
		},
		{
			Description:     "Failures returned",
			FailOnItemError: true,
			Result: reconcile.Result{Attempted: 1, Failed: 1, Failures: []reconcile.Failure{
				{Notification: notification(testKey), Outcome: reconcile.Failed, Err: errDown},
			}},
			ExpectedErr: true,
		},
		{
			Description:     "Skips are never retried",
			FailOnItemError: true,
			Result: reconcile.Result{Attempted: 1, Skipped: 1, Failures: []reconcile.Failure{
				{Notification: notification(testKey), Outcome: reconcile.Skipped, Err: model.ErrMalformedPath},
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			m := new(mockReconciler)
			m.On("ReconcileAll", mock.Anything, mock.Anything).Return(tc.Result).Once()
			h, err := New(Config{FailOnItemError: tc.FailOnItemError}, m, nil, nil)
			require.NoError(t, err)

			r, err := h.HandleS3Event(context.Background(), events.S3Event{Records: []events.S3EventRecord{s3Record("ObjectCreated:Put", testKey)}})
			assert.Equal(tc.Result, r)
			if tc.ExpectedErr {
				assert.ErrorIs(err, errItemFailures)
				assert.ErrorIs(err, errDown)
			} else {
				assert.NoError(err)
			}
		})
	}
}

func TestInvoke(t *testing.T) {
	sns, err := json.Marshal(snsEvent(s3Message(t, s3Record("ObjectCreated:Put", testKey))))
	require.NoError(t, err)
	s3, err := json.Marshal(events.S3Event{Records: []events.S3EventRecord{s3Record("ObjectCreated:Put", testKey)}})
	require.NoError(t, err)

	tests := []struct {
		Description     string
		Payload         string
		ExpectReconcile bool
		ExpectedErr     error
	}{
		{
			Description:     "SNS event",
			Payload:         string(sns),
			ExpectReconcile: true,
		},
		{
			Description:     "S3 event",
			Payload:         string(s3),
			ExpectReconcile: true,
		},
		{
			Description: "S3 test event",
			Payload:     `{"Service":"Amazon S3","Event":"s3:TestEvent","Time":"2024-03-01T12:00:00.000Z","Bucket":"bar-bucket"}`,
		},
		{
			Description: "Unknown source",
			Payload:     `{"Records":[{"eventSource":"aws:sqs","body":"{}"}]}`,
			ExpectedErr: errUnsupportedEvent,
		},
		{
			Description: "Empty object",
			Payload:     `{}`,
			ExpectedErr: errUnsupportedEvent,
		},
	}

	for _, tc := range tests {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			m := new(mockReconciler)
			if tc.ExpectReconcile {
				m.On("ReconcileAll", mock.Anything, []Notification{notification(testKey)}).Return(reconcile.Result{Attempted: 1, Inserted: 1}).Once()
			}
			h, err := New(Config{}, m, nil, nil)
			require.NoError(t, err)

			_, err = h.Invoke(context.Background(), json.RawMessage(tc.Payload))
			if tc.ExpectedErr != nil {
				assert.ErrorIs(err, tc.ExpectedErr)
			} else {
				assert.NoError(err)
			}
			m.AssertExpectations(t)
		})
	}

	h, err := New(Config{}, new(mockReconciler), nil, nil)
	require.NoError(t, err)
	_, err = h.Invoke(context.Background(), json.RawMessage(`not json`))
	assert.Error(t, err)
}

func TestInvokeEndToEnd(t *testing.T) {
	assert := assert.New(t)
	s := inmem.NewInMem()
	r, err := reconcile.New(reconcile.Options{Store: s})
	require.NoError(t, err)
	h, err := New(Config{}, r, nil, nil)
	require.NoError(t, err)

	payload, err := json.Marshal(snsEvent(s3Message(t, s3Record("ObjectCreated:Put", testKey))))
	require.NoError(t, err)

	result, err := h.Invoke(context.Background(), payload)
	assert.NoError(err)
	assert.Equal(1, result.Inserted)

	record, err := s.Find(context.Background(), model.Key{Bar: "mojito-bar", Drink: "margarita"})
	assert.NoError(err)
	assert.Equal("https://bar-bucket.s3.amazonaws.com/mojito-bar/margarita.png", record.ImageURL)

	result, err = h.Invoke(context.Background(), payload)
	assert.NoError(err)
	assert.Equal(1, result.Updated)
	assert.Len(s.Records(), 1)
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package segment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/xray"
	"github.com/aws/aws-sdk-go-v2/service/xray/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// a long flush interval keeps sends driven only by batch size, Flush and Stop.
var testConfig = Config{
	QueueSize:     10,
	BatchSize:     2,
	FlushInterval: time.Hour,
	Timeout:       time.Second,
}

func newTestEmitter(t *testing.T, c client) (*Emitter, *Measures) {
	measures := NewMeasures()
	e, err := NewEmitter(testConfig, c, measures, zaptest.NewLogger(t))
	require.NoError(t, err)
	return e, measures
}

func TestNewEmitter(t *testing.T) {
	assert := assert.New(t)

	e, err := NewEmitter(Config{}, nil, nil, nil)
	assert.Nil(e)
	assert.ErrorIs(err, errNilClient)

	e, err = NewEmitter(Config{BatchSize: 500}, new(mockClient), nil, nil)
	require.NoError(t, err)
	assert.Equal(maxBatchSize, e.batchSize)
	assert.Equal(defaultQueueSize, cap(e.queue))
	assert.Equal(defaultFlushInterval, e.flushInterval)
	assert.Equal(defaultTimeout, e.timeout)
}

func TestEmitterBatches(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	c := new(mockClient)
	c.On("PutTraceSegments", mock.Anything, mock.Anything).Return(&xray.PutTraceSegmentsOutput{}, nil)
	e, measures := newTestEmitter(t, c)
	e.now = func() time.Time { return time.Unix(1700000000, 0) }

	ctx := spanContext(t)
	require.NoError(e.Start(ctx))
	for range 5 {
		e.Submit(ctx, DefaultName)
	}
	require.NoError(e.Flush(ctx))

	docs := c.documents()
	require.Len(docs, 3)
	assert.Len(docs[0], 2)
	assert.Len(docs[1], 2)
	assert.Len(docs[2], 1)

	var d document
	require.NoError(json.Unmarshal([]byte(docs[0][0]), &d))
	assert.Equal(DefaultName, d.Name)
	assert.Equal("1-6553f100-bd862e3fe1be46a994272793", d.TraceID)

	assert.Equal(5.0, testutil.ToFloat64(measures.Segments.WithLabelValues(SentOutcome)))
	require.NoError(e.Stop(ctx))
}

func TestEmitterFailures(t *testing.T) {
	tests := []struct {
		Description    string
		Output         *xray.PutTraceSegmentsOutput
		Err            error
		ExpectedSent   float64
		ExpectedFailed float64
	}{
		{
			Description:    "Client error",
			Output:         (*xray.PutTraceSegmentsOutput)(nil),
			Err:            errors.New("connection refused"),
			ExpectedFailed: 2,
		},
		{
			Description: "Unprocessed segment",
			Output: &xray.PutTraceSegmentsOutput{
				UnprocessedTraceSegments: []types.UnprocessedTraceSegment{
					{Id: aws.String("53995c3f42cd8ad8"), ErrorCode: aws.String("InvalidTraceId"), Message: aws.String("bad")},
				},
			},
			ExpectedSent:   1,
			ExpectedFailed: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)
			c := new(mockClient)
			c.On("PutTraceSegments", mock.Anything, mock.Anything).Return(tc.Output, tc.Err)
			e, measures := newTestEmitter(t, c)

			ctx := context.Background()
			require.NoError(e.Start(ctx))
			e.Submit(ctx, DefaultName)
			e.Submit(ctx, DefaultName)
			require.NoError(e.Flush(ctx))
			require.NoError(e.Stop(ctx))

			assert.Equal(tc.ExpectedSent, testutil.ToFloat64(measures.Segments.WithLabelValues(SentOutcome)))
			assert.Equal(tc.ExpectedFailed, testutil.ToFloat64(measures.Segments.WithLabelValues(FailedOutcome)))
		})
	}
}

func TestEmitterDropsWhenFull(t *testing.T) {
	assert := assert.New(t)
	measures := NewMeasures()
	e, err := NewEmitter(Config{QueueSize: 1}, new(mockClient), measures, zap.NewNop())
	require.NoError(t, err)

	// not started: dropped
	e.Submit(context.Background(), DefaultName)
	assert.Equal(1.0, testutil.ToFloat64(measures.Segments.WithLabelValues(DroppedOutcome)))

	// running without a worker so the queue stays full
	e.started = true
	e.Submit(context.Background(), DefaultName)
	e.Submit(context.Background(), DefaultName)
	assert.Equal(2.0, testutil.ToFloat64(measures.Segments.WithLabelValues(DroppedOutcome)))
	assert.Len(e.queue, 1)
}

func TestEmitterStop(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	c := new(mockClient)
	c.On("PutTraceSegments", mock.Anything, mock.Anything).Return(&xray.PutTraceSegmentsOutput{}, nil)
	e, measures := newTestEmitter(t, c)

	ctx := context.Background()
	require.NoError(e.Start(ctx))
	require.NoError(e.Start(ctx))
	e.Submit(ctx, DefaultName)
	require.NoError(e.Stop(ctx))
	require.NoError(e.Stop(ctx))

	assert.Len(c.documents(), 1)
	assert.Equal(1.0, testutil.ToFloat64(measures.Segments.WithLabelValues(SentOutcome)))

	e.Submit(ctx, DefaultName)
	assert.Equal(1.0, testutil.ToFloat64(measures.Segments.WithLabelValues(DroppedOutcome)))
	assert.ErrorIs(e.Flush(ctx), errEmitterStopped)
	assert.ErrorIs(e.Start(ctx), errEmitterStopped)
}

func TestNewSubmitter(t *testing.T) {
	assert := assert.New(t)
	lc := fxtest.NewLifecycle(t)

	s, err := NewSubmitter(SetupIn{
		Config:   Config{},
		Measures: *NewMeasures(),
		LC:       lc,
		Logger:   zap.NewNop(),
	})
	assert.NoError(err)
	assert.Equal(Nop{}, s)

	s, err = NewSubmitter(SetupIn{
		Config:   Config{Enabled: true, BatchSize: 100},
		Measures: *NewMeasures(),
		LC:       lc,
		Logger:   zap.NewNop(),
	})
	assert.Nil(s)
	assert.Error(err)
}

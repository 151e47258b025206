// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package segment

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/xray"
	"go.uber.org/zap"
)

const (
	defaultQueueSize     = 100
	defaultBatchSize     = 25
	defaultFlushInterval = 250 * time.Millisecond
	defaultTimeout       = 2 * time.Second

	// X-Ray rejects PutTraceSegments calls with more documents than this.
	maxBatchSize = 50
)

var (
	errEmitterStopped = errors.New("segment emitter is stopped")
	errNilClient      = errors.New("x-ray client is required")
)

type client interface {
	PutTraceSegments(ctx context.Context, params *xray.PutTraceSegmentsInput, optFns ...func(*xray.Options)) (*xray.PutTraceSegmentsOutput, error)
}

// Emitter queues segments and sends them to X-Ray in batches from a single
// background worker.
type Emitter struct {
	client        client
	logger        *zap.Logger
	measures      *Measures
	now           func() time.Time
	batchSize     int
	flushInterval time.Duration
	timeout       time.Duration

	queue   chan document
	flushes chan chan struct{}
	done    chan struct{}

	lock    sync.Mutex
	started bool
	stopped bool
	stop    chan struct{}
}

// NewEmitter builds an Emitter around the given x-ray client. The worker does
// not run until Start is called.
func NewEmitter(config Config, c client, measures *Measures, logger *zap.Logger) (*Emitter, error) {
	if c == nil {
		return nil, errNilClient
	}
	if measures == nil {
		measures = NewMeasures()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config = applyDefaults(config)
	return &Emitter{
		client:        c,
		logger:        logger,
		measures:      measures,
		now:           time.Now,
		batchSize:     config.BatchSize,
		flushInterval: config.FlushInterval,
		timeout:       config.Timeout,
		queue:         make(chan document, config.QueueSize),
		flushes:       make(chan chan struct{}),
		done:          make(chan struct{}),
		stop:          make(chan struct{}),
	}, nil
}

func applyDefaults(config Config) Config {
	if config.QueueSize <= 0 {
		config.QueueSize = defaultQueueSize
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	if config.BatchSize > maxBatchSize {
		config.BatchSize = maxBatchSize
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = defaultFlushInterval
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	return config
}

// Submit enqueues a segment. When the queue is full, or the emitter is not
// running, the segment is dropped and counted.
func (e *Emitter) Submit(ctx context.Context, name string) {
	d := newDocument(ctx, name, e.now())

	e.lock.Lock()
	defer e.lock.Unlock()
	if !e.started || e.stopped {
		e.measures.Segments.WithLabelValues(DroppedOutcome).Inc()
		return
	}

	select {
	case e.queue <- d:
	default:
		e.measures.Segments.WithLabelValues(DroppedOutcome).Inc()
		e.logger.Debug("segment queue full, dropping segment", zap.String("name", name))
	}
}

// Flush waits until every queued segment has been sent.
func (e *Emitter) Flush(ctx context.Context) error {
	e.lock.Lock()
	running := e.started && !e.stopped
	e.lock.Unlock()
	if !running {
		return errEmitterStopped
	}

	ack := make(chan struct{})
	select {
	case e.flushes <- ack:
	case <-e.done:
		return errEmitterStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start launches the background worker. Calling Start more than once has no
// further effect.
func (e *Emitter) Start(_ context.Context) error {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.stopped {
		return errEmitterStopped
	}
	if !e.started {
		e.started = true
		go e.run()
	}
	return nil
}

// Stop drains the queue and waits for the worker to exit, or for ctx to end.
func (e *Emitter) Stop(ctx context.Context) error {
	e.lock.Lock()
	if !e.started || e.stopped {
		e.stopped = true
		e.lock.Unlock()
		return nil
	}
	e.stopped = true
	close(e.stop)
	e.lock.Unlock()

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Emitter) run() {
	defer close(e.done)

	ticker := time.NewTicker(e.flushInterval)
	defer ticker.Stop()

	batch := make([]document, 0, e.batchSize)
	send := func() {
		if len(batch) > 0 {
			e.send(batch)
			batch = batch[:0]
		}
	}
	drain := func() {
		for {
			select {
			case d := <-e.queue:
				batch = append(batch, d)
				if len(batch) >= e.batchSize {
					send()
				}
			default:
				send()
				return
			}
		}
	}

	for {
		select {
		case d := <-e.queue:
			batch = append(batch, d)
			if len(batch) >= e.batchSize {
				send()
			}
		case <-ticker.C:
			send()
		case ack := <-e.flushes:
			drain()
			close(ack)
		case <-e.stop:
			drain()
			return
		}
	}
}

func (e *Emitter) send(batch []document) {
	docs := make([]string, 0, len(batch))
	for _, d := range batch {
		b, err := json.Marshal(d)
		if err != nil {
			e.measures.Segments.WithLabelValues(FailedOutcome).Inc()
			continue
		}
		docs = append(docs, string(b))
	}
	if len(docs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	out, err := e.client.PutTraceSegments(ctx, &xray.PutTraceSegmentsInput{
		TraceSegmentDocuments: docs,
	})
	if err != nil {
		e.measures.Segments.WithLabelValues(FailedOutcome).Add(float64(len(docs)))
		e.logger.Debug("failed to send trace segments", zap.Int("count", len(docs)), zap.Error(err))
		return
	}

	failed := 0
	if out != nil {
		failed = len(out.UnprocessedTraceSegments)
		for _, u := range out.UnprocessedTraceSegments {
			e.logger.Debug("trace segment rejected",
				zap.String("id", aws.ToString(u.Id)),
				zap.String("errorCode", aws.ToString(u.ErrorCode)),
				zap.String("message", aws.ToString(u.Message)))
		}
	}
	e.measures.Segments.WithLabelValues(FailedOutcome).Add(float64(failed))
	e.measures.Segments.WithLabelValues(SentOutcome).Add(float64(len(docs) - failed))
}

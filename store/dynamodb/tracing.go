// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/xmidt-org/hebe/model"
	"github.com/xmidt-org/hebe/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/xmidt-org/hebe/store/dynamodb"

type tracingService struct {
	service
	tracer    trace.Tracer
	tableName string
}

func newTracingService(tp trace.TracerProvider, tableName string, s service) service {
	return &tracingService{
		service:   s,
		tracer:    tp.Tracer(tracerName),
		tableName: tableName,
	}
}

func (s *tracingService) start(ctx context.Context, operation string, key model.Key) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "dynamodb."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "dynamodb"),
			attribute.String("db.operation", operation),
			attribute.StringSlice("aws.dynamodb.table_names", []string{s.tableName}),
			attribute.String("hebe.bar", key.Bar),
			attribute.String("hebe.drink", key.Drink),
		),
	)
}

func end(span trace.Span, err error) {
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *tracingService) Find(ctx context.Context, key model.Key) (record model.Record, consumedCapacity *types.ConsumedCapacity, err error) {
	ctx, span := s.start(ctx, "GetItem", key)
	defer func() {
		span.SetAttributes(attribute.Bool("hebe.found", err == nil))
		end(span, err)
	}()
	return s.service.Find(ctx, key)
}

func (s *tracingService) Insert(ctx context.Context, record model.Record) (consumedCapacity *types.ConsumedCapacity, err error) {
	ctx, span := s.start(ctx, "PutItem", record.Key)
	defer func() { end(span, err) }()
	return s.service.Insert(ctx, record)
}

func (s *tracingService) Update(ctx context.Context, key model.Key, imageURL string) (consumedCapacity *types.ConsumedCapacity, err error) {
	ctx, span := s.start(ctx, "UpdateItem", key)
	defer func() { end(span, err) }()
	return s.service.Update(ctx, key, imageURL)
}

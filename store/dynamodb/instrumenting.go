// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package dynamodb

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/hebe/model"
	"github.com/xmidt-org/hebe/store"
	"github.com/xmidt-org/hebe/store/db/metric"
)

type measureUpdateRequest struct {
	queryType        string
	start            time.Time
	consumedCapacity *types.ConsumedCapacity
	err              error
}

type measuresUpdater interface {
	Update(*measureUpdateRequest)
}

type dynamoMeasuresUpdater struct {
	measures *metric.Measures
	now      func() time.Time
}

func (m *dynamoMeasuresUpdater) Update(request *measureUpdateRequest) {
	outcome := metric.SuccessQueryOutcome
	if request.err != nil && !errors.Is(request.err, store.ErrRecordNotFound) {
		outcome = metric.FailQueryOutcome
	}
	m.measures.Queries.With(prometheus.Labels{
		metric.QueryTypeLabelKey:    request.queryType,
		metric.QueryOutcomeLabelKey: outcome,
	}).Inc()
	m.measures.QueryDurationSeconds.With(prometheus.Labels{
		metric.QueryTypeLabelKey: request.queryType,
	}).Observe(m.now().Sub(request.start).Seconds())

	cc := request.consumedCapacity
	if cc == nil {
		return
	}

	if cc.ReadCapacityUnits == nil && cc.WriteCapacityUnits == nil {
		// only the total was reported; attribute it to the kind of query.
		if cc.CapacityUnits == nil {
			return
		}
		op := metric.DynamoCapacityWriteOp
		if request.queryType == metric.FindQueryType {
			op = metric.DynamoCapacityReadOp
		}
		m.measures.DynamodbConsumedCapacity.With(prometheus.Labels{
			metric.DynamoCapacityOpLabelKey: op,
		}).Add(*cc.CapacityUnits)
		return
	}

	if cc.ReadCapacityUnits != nil {
		m.measures.DynamodbConsumedCapacity.With(prometheus.Labels{
			metric.DynamoCapacityOpLabelKey: metric.DynamoCapacityReadOp,
		}).Add(*cc.ReadCapacityUnits)
	}
	if cc.WriteCapacityUnits != nil {
		m.measures.DynamodbConsumedCapacity.With(prometheus.Labels{
			metric.DynamoCapacityOpLabelKey: metric.DynamoCapacityWriteOp,
		}).Add(*cc.WriteCapacityUnits)
	}
}

type instrumentingService struct {
	service
	measures measuresUpdater
	now      func() time.Time
}

func newInstrumentingService(measures measuresUpdater, s service, now func() time.Time) service {
	return &instrumentingService{measures: measures, service: s, now: now}
}

func (s *instrumentingService) Find(ctx context.Context, key model.Key) (record model.Record, consumedCapacity *types.ConsumedCapacity, err error) {
	defer func(start time.Time) {
		s.measures.Update(&measureUpdateRequest{
			queryType:        metric.FindQueryType,
			start:            start,
			consumedCapacity: consumedCapacity,
			err:              err,
		})
	}(s.now())
	return s.service.Find(ctx, key)
}

func (s *instrumentingService) Insert(ctx context.Context, record model.Record) (consumedCapacity *types.ConsumedCapacity, err error) {
	defer func(start time.Time) {
		s.measures.Update(&measureUpdateRequest{
			queryType:        metric.InsertQueryType,
			start:            start,
			consumedCapacity: consumedCapacity,
			err:              err,
		})
	}(s.now())
	return s.service.Insert(ctx, record)
}

func (s *instrumentingService) Update(ctx context.Context, key model.Key, imageURL string) (consumedCapacity *types.ConsumedCapacity, err error) {
	defer func(start time.Time) {
		s.measures.Update(&measureUpdateRequest{
			queryType:        metric.UpdateQueryType,
			start:            start,
			consumedCapacity: consumedCapacity,
			err:              err,
		})
	}(s.now())
	return s.service.Update(ctx, key, imageURL)
}

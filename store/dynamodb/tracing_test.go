// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package dynamodb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/hebe/model"
	"github.com/xmidt-org/hebe/store"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracingService(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	m := new(mockService)
	svc := newTracingService(tp, testTableName, m)

	m.On("Find", mock.Anything, key).Return(model.Record{}, (*types.ConsumedCapacity)(nil), store.NotFound(key)).Once()
	m.On("Insert", mock.Anything, record).Return((*types.ConsumedCapacity)(nil), errInternal).Once()
	m.On("Update", mock.Anything, key, testImageURL).Return((*types.ConsumedCapacity)(nil), nil).Once()

	_, _, err := svc.Find(context.Background(), key)
	assert.ErrorIs(err, store.ErrRecordNotFound)
	_, err = svc.Insert(context.Background(), record)
	assert.Equal(errInternal, err)
	_, err = svc.Update(context.Background(), key, testImageURL)
	assert.NoError(err)

	spans := sr.Ended()
	require.Len(spans, 3)
	assert.Equal("dynamodb.GetItem", spans[0].Name())
	assert.Equal(codes.Unset, spans[0].Status().Code)
	assert.Equal("dynamodb.PutItem", spans[1].Name())
	assert.Equal(codes.Error, spans[1].Status().Code)
	assert.Equal("dynamodb.UpdateItem", spans[2].Name())
	assert.Equal(codes.Unset, spans[2].Status().Code)
	m.AssertExpectations(t)
}

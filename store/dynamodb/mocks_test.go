// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/hebe/model"
)

type mockService struct {
	mock.Mock
}

func (s *mockService) Find(ctx context.Context, key model.Key) (model.Record, *types.ConsumedCapacity, error) {
	args := s.Called(ctx, key)
	return args.Get(0).(model.Record), args.Get(1).(*types.ConsumedCapacity), args.Error(2)
}

func (s *mockService) Insert(ctx context.Context, record model.Record) (*types.ConsumedCapacity, error) {
	args := s.Called(ctx, record)
	return args.Get(0).(*types.ConsumedCapacity), args.Error(1)
}

func (s *mockService) Update(ctx context.Context, key model.Key, imageURL string) (*types.ConsumedCapacity, error) {
	args := s.Called(ctx, key, imageURL)
	return args.Get(0).(*types.ConsumedCapacity), args.Error(1)
}

type mockClient struct {
	mock.Mock
}

func (c *mockClient) GetItem(ctx context.Context, input *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := c.Called(ctx, input)
	return args.Get(0).(*dynamodb.GetItemOutput), args.Error(1)
}

func (c *mockClient) PutItem(ctx context.Context, input *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := c.Called(ctx, input)
	return args.Get(0).(*dynamodb.PutItemOutput), args.Error(1)
}

func (c *mockClient) UpdateItem(ctx context.Context, input *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := c.Called(ctx, input)
	return args.Get(0).(*dynamodb.UpdateItemOutput), args.Error(1)
}

type mockMeasuresUpdater struct {
	mock.Mock
}

func (m *mockMeasuresUpdater) Update(request *measureUpdateRequest) {
	m.Called(request)
}

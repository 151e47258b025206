// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/xmidt-org/hebe/model"
	"go.uber.org/zap"
)

type loggingService struct {
	service
	logger *zap.Logger
}

func newLoggingService(logger *zap.Logger, s service) service {
	return &loggingService{service: s, logger: logger}
}

func keyFields(key model.Key) []zap.Field {
	return []zap.Field{zap.String("bar", key.Bar), zap.String("drink", key.Drink)}
}

func (s *loggingService) Find(ctx context.Context, key model.Key) (record model.Record, consumedCapacity *types.ConsumedCapacity, err error) {
	defer func() {
		s.logger.Debug("dynamodb find", append(keyFields(key), zap.Bool("found", err == nil), zap.Error(err))...)
	}()
	record, consumedCapacity, err = s.service.Find(ctx, key)
	return
}

func (s *loggingService) Insert(ctx context.Context, record model.Record) (consumedCapacity *types.ConsumedCapacity, err error) {
	defer func() {
		s.logger.Debug("dynamodb insert", append(keyFields(record.Key), zap.String("imageURL", record.ImageURL), zap.Error(err))...)
	}()
	consumedCapacity, err = s.service.Insert(ctx, record)
	return
}

func (s *loggingService) Update(ctx context.Context, key model.Key, imageURL string) (consumedCapacity *types.ConsumedCapacity, err error) {
	defer func() {
		s.logger.Debug("dynamodb update", append(keyFields(key), zap.String("imageURL", imageURL), zap.Error(err))...)
	}()
	consumedCapacity, err = s.service.Update(ctx, key, imageURL)
	return
}

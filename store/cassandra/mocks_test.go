// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package cassandra

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/hebe/model"
)

type mockDB struct {
	mock.Mock
}

func (s *mockDB) Find(ctx context.Context, key model.Key) (model.Record, error) {
	args := s.Called(ctx, key)
	return args.Get(0).(model.Record), args.Error(1)
}

func (s *mockDB) Insert(ctx context.Context, record model.Record) error {
	args := s.Called(ctx, record)
	return args.Error(0)
}

func (s *mockDB) Update(ctx context.Context, key model.Key, imageURL string) error {
	args := s.Called(ctx, key, imageURL)
	return args.Error(0)
}

func (s *mockDB) Close() {
	s.Called()
}

func (s *mockDB) Ping() error {
	args := s.Called()
	return args.Error(0)
}

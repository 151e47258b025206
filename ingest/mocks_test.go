// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/hebe/reconcile"
)

type mockReconciler struct {
	mock.Mock
}

func (m *mockReconciler) ReconcileAll(ctx context.Context, notifications []Notification) reconcile.Result {
	args := m.Called(ctx, notifications)
	return args.Get(0).(reconcile.Result)
}

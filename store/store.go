// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"

	"github.com/xmidt-org/hebe/model"
)

const (
	// TypeLabel is for labeling metrics; if there is a single metric for
	// successful queries, the typeLabel and corresponding type can be used
	// when incrementing the metric.
	TypeLabel  = "type"
	FindType   = "find"
	InsertType = "insert"
	UpdateType = "update"
	PingType   = "ping"
)

// S is the record repository. All operations address a single record by its
// composite (bar, drink) key.
type S interface {
	// Find returns the record for key or an error matching ErrRecordNotFound
	// when there is none.
	Find(ctx context.Context, key model.Key) (model.Record, error)

	// Insert creates the record, overwriting any record already stored under
	// the same key.
	Insert(ctx context.Context, record model.Record) error

	// Update sets the image reference of an existing record. Callers must not
	// rely on Update to create records.
	Update(ctx context.Context, key model.Key, imageURL string) error
}

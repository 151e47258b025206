// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"errors"
	"fmt"

	"github.com/xmidt-org/hebe/model"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreWrite       = errors.New("store write failed")
)

// OperationError is returned by store implementations when an operation
// against a single record fails. Kind is one of the sentinel errors above and
// Err is the underlying cause.
type OperationError struct {
	Kind      error
	Err       error
	Key       model.Key
	Operation string
}

func (e OperationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s [%s/%s]", e.Operation, e.Kind, e.Key.Bar, e.Key.Drink)
	}
	return fmt.Sprintf("%s %s [%s/%s]: %v", e.Operation, e.Kind, e.Key.Bar, e.Key.Drink, e.Err)
}

func (e OperationError) Is(target error) bool {
	return target == e.Kind
}

func (e OperationError) Unwrap() error {
	return e.Err
}

// NotFound builds the error returned by Find for a missing record.
func NotFound(key model.Key) error {
	return OperationError{Kind: ErrRecordNotFound, Key: key, Operation: FindType}
}

// Unavailable classifies a failed read.
func Unavailable(operation string, key model.Key, err error) error {
	return OperationError{Kind: ErrStoreUnavailable, Err: err, Key: key, Operation: operation}
}

// WriteFailed classifies a failed insert or update.
func WriteFailed(operation string, key model.Key, err error) error {
	return OperationError{Kind: ErrStoreWrite, Err: err, Key: key, Operation: operation}
}

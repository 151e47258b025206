// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package reconcile

import (
	"fmt"

	"emperror.dev/emperror"
	"emperror.dev/errors"
	"github.com/xmidt-org/hebe/model"
	"go.uber.org/zap"
)

// NewErrorHandler returns an emperror.ErrorHandler that logs each error along
// with any details attached to it. Malformed paths are logged as warnings.
func NewErrorHandler(logger *zap.Logger) emperror.ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return emperror.ErrorHandlerFunc(func(err error) {
		if err == nil {
			return
		}

		fields := []zap.Field{zap.Error(err)}
		fields = append(fields, detailFields(errors.GetDetails(err))...)

		if errors.Is(err, model.ErrMalformedPath) {
			logger.Warn("skipping notification", fields...)
			return
		}
		logger.Error("failed to reconcile notification", fields...)
	})
}

func detailFields(details []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(details)/2)
	for i := 0; i+1 < len(details); i += 2 {
		key, ok := details[i].(string)
		if !ok {
			key = fmt.Sprint(details[i])
		}
		fields = append(fields, zap.Any(key, details[i+1]))
	}
	return fields
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package reconcile

import (
	"encoding/json"

	"emperror.dev/errors"
)

// Failure pairs a notification with the error that kept it from being
// reconciled.
type Failure struct {
	Notification Notification
	Outcome      Outcome
	Err          error
}

// MarshalJSON renders the error as its message.
func (f Failure) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Bucket    string  `json:"bucket"`
		ObjectKey string  `json:"objectKey"`
		Outcome   Outcome `json:"outcome"`
		Error     string  `json:"error"`
	}{
		Bucket:    f.Notification.Bucket,
		ObjectKey: f.Notification.ObjectKey,
		Outcome:   f.Outcome,
		Error:     f.Err.Error(),
	})
}

// Result summarizes a batch.
type Result struct {
	Attempted int `json:"attempted"`
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`

	// Failures holds every skipped or failed notification, in batch order.
	Failures []Failure `json:"failures,omitempty"`
}

func (r *Result) record(n Notification, outcome Outcome, err error) {
	r.Attempted++
	switch outcome {
	case Inserted:
		r.Inserted++
	case Updated:
		r.Updated++
	case Skipped:
		r.Skipped++
	default:
		r.Failed++
	}
	if err != nil {
		r.Failures = append(r.Failures, Failure{Notification: n, Outcome: outcome, Err: err})
	}
}

// Err combines every failure into a single error, or returns nil when the
// batch had none.
func (r Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Combine(errs...)
}

// Retryable reports whether any notification failed for a reason other than
// a malformed path.
func (r Result) Retryable() bool {
	return r.Failed > 0
}

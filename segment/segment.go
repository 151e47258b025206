// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package segment

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Submitter records named trace segments. Submit never blocks on I/O and
// never reports failures to the caller.
type Submitter interface {
	Submit(ctx context.Context, name string)

	// Flush blocks until every segment submitted so far has been sent or ctx ends.
	Flush(ctx context.Context) error
}

// Nop discards every segment.
type Nop struct{}

func (Nop) Submit(context.Context, string) {}

func (Nop) Flush(context.Context) error { return nil }

// document is the X-Ray segment document. Only name and trace_id carry
// information; the remaining fields are required by the X-Ray API.
type document struct {
	Name      string  `json:"name"`
	TraceID   string  `json:"trace_id"`
	ID        string  `json:"id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

func newDocument(ctx context.Context, name string, now time.Time) document {
	epoch := float64(now.UnixNano()) / float64(time.Second)
	return document{
		Name:      name,
		TraceID:   TraceID(ctx, now),
		ID:        segmentID(ctx),
		StartTime: epoch,
		EndTime:   epoch,
	}
}

// TraceID returns an X-Ray trace id whose time component is now. The
// remaining 96 bits come from the trace id of the span active in ctx, or are
// random when there is no valid span.
func TraceID(ctx context.Context, now time.Time) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		h := sc.TraceID().String()
		return fmt.Sprintf("1-%08x-%s", now.Unix(), h[8:])
	}
	return fmt.Sprintf("1-%08x-%s", now.Unix(), randomHex(12))
}

func segmentID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasSpanID() {
		return sc.SpanID().String()
	}
	return randomHex(8)
}

func randomHex(n int) string {
	b := make([]byte, n)
	// crypto/rand.Read does not fail on supported platforms
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

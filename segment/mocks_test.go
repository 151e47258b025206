// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package segment

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/xray"
	"github.com/stretchr/testify/mock"
)

type mockClient struct {
	mock.Mock
}

func (c *mockClient) PutTraceSegments(ctx context.Context, input *xray.PutTraceSegmentsInput, _ ...func(*xray.Options)) (*xray.PutTraceSegmentsOutput, error) {
	args := c.Called(ctx, input)
	return args.Get(0).(*xray.PutTraceSegmentsOutput), args.Error(1)
}

func (c *mockClient) documents() [][]string {
	var docs [][]string
	for _, call := range c.Calls {
		docs = append(docs, call.Arguments.Get(1).(*xray.PutTraceSegmentsInput).TraceSegmentDocuments)
	}
	return docs
}

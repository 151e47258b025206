// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultLocatorFormat addresses objects through the global S3 virtual host endpoint.
const DefaultLocatorFormat = "https://%s.s3.amazonaws.com/%s"

var ErrInvalidLocatorFormat = errors.New("locator format must contain exactly two %s verbs")

// LocatorConfig is unmarshalled from the "locator" configuration key.
type LocatorConfig struct {
	// Format is a fmt pattern receiving the bucket and the object key, in that order.
	// (Optional) Defaults to DefaultLocatorFormat.
	Format string
}

// Locator builds the image reference stored in a Record.
type Locator struct {
	format string
}

// NewLocator validates the configured format.
func NewLocator(c LocatorConfig) (Locator, error) {
	format := c.Format
	if format == "" {
		format = DefaultLocatorFormat
	}
	if strings.Count(format, "%s") != 2 || strings.Count(format, "%") != 2 {
		return Locator{}, fmt.Errorf("%w: %q", ErrInvalidLocatorFormat, format)
	}
	return Locator{format: format}, nil
}

// Locate returns the fully qualified location of an object.
func (l Locator) Locate(bucket, objectKey string) string {
	format := l.format
	if format == "" {
		format = DefaultLocatorFormat
	}
	return fmt.Sprintf(format, bucket, objectKey)
}

// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"errors"
	"fmt"
	"strings"
)

const (
	pathDelimiter      = "/"
	extensionDelimiter = "."
)

var (
	// ErrMalformedPath is matched by every error returned from ParseObjectKey.
	ErrMalformedPath = errors.New("malformed object key")

	errTooFewSegments   = errors.New("expected at least two path segments")
	errMissingExtension = errors.New("last path segment has no file extension")
	errEmptyBar         = errors.New("bar segment is empty")
	errEmptyDrink       = errors.New("drink name is empty")
)

// MalformedPathError describes an object key that could not be mapped to a Key.
type MalformedPathError struct {
	Path   string
	Reason error
}

func (e *MalformedPathError) Error() string {
	return fmt.Sprintf("%s %q: %v", ErrMalformedPath, e.Path, e.Reason)
}

func (e *MalformedPathError) Is(target error) bool {
	return target == ErrMalformedPath
}

func (e *MalformedPathError) Unwrap() error {
	return e.Reason
}

// ParseObjectKey derives the record key from a storage path such as
// "mojito-bar/margarita.png". The bar is the second to last segment and the
// drink is the last segment up to its first extension delimiter.
func ParseObjectKey(objectKey string) (Key, error) {
	segments := strings.Split(objectKey, pathDelimiter)
	if len(segments) < 2 {
		return Key{}, &MalformedPathError{Path: objectKey, Reason: errTooFewSegments}
	}

	last := segments[len(segments)-1]
	drink, _, found := strings.Cut(last, extensionDelimiter)
	if !found {
		return Key{}, &MalformedPathError{Path: objectKey, Reason: errMissingExtension}
	}

	key := Key{
		Bar:   segments[len(segments)-2],
		Drink: drink,
	}
	if key.Bar == "" {
		return Key{}, &MalformedPathError{Path: objectKey, Reason: errEmptyBar}
	}
	if key.Drink == "" {
		return Key{}, &MalformedPathError{Path: objectKey, Reason: errEmptyDrink}
	}
	return key, nil
}

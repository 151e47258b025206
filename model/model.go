// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package model

// Key defines the field mapping to retrieve a record from storage.
type Key struct {
	// Bar is the collection of drinks a record belongs to.
	Bar string `json:"barName" dynamodbav:"barName"`

	// Drink is the unique name of a drink within a bar.
	Drink string `json:"drinkName" dynamodbav:"drinkName"`
}

// Record ties a drink to the most recently stored image of it.
type Record struct {
	Key

	// ImageURL is the fully qualified location of the stored image.
	ImageURL string `json:"s3ObjectKey" dynamodbav:"s3ObjectKey"`
}

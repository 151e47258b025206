// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/hebe/model"
	"github.com/xmidt-org/hebe/store"
)

var GenericTestRecord = model.Record{
	Key: model.Key{
		Bar:   "mojito-bar",
		Drink: "margarita",
	},
	ImageURL: "https://bar-bucket.s3.amazonaws.com/mojito-bar/margarita.png",
}

// StoreTest exercises the repository contract against an empty store.
func StoreTest(s store.S, t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	t.Log("Missing record")
	_, err := s.Find(ctx, GenericTestRecord.Key)
	require.ErrorIs(err, store.ErrRecordNotFound)

	t.Log("Insert")
	require.NoError(s.Insert(ctx, GenericTestRecord))
	retVal, err := s.Find(ctx, GenericTestRecord.Key)
	require.NoError(err)
	assert.Equal(GenericTestRecord, retVal)

	t.Log("Insert overwrites")
	overwrite := GenericTestRecord
	overwrite.ImageURL = "https://bar-bucket.s3.amazonaws.com/mojito-bar/margarita.jpeg"
	require.NoError(s.Insert(ctx, overwrite))
	retVal, err = s.Find(ctx, GenericTestRecord.Key)
	require.NoError(err)
	assert.Equal(overwrite, retVal)

	t.Log("Update")
	require.NoError(s.Update(ctx, GenericTestRecord.Key, GenericTestRecord.ImageURL))
	retVal, err = s.Find(ctx, GenericTestRecord.Key)
	require.NoError(err)
	assert.Equal(GenericTestRecord, retVal)

	t.Log("Sibling keys are independent")
	sibling := model.Key{Bar: GenericTestRecord.Bar, Drink: "daiquiri"}
	_, err = s.Find(ctx, sibling)
	assert.ErrorIs(err, store.ErrRecordNotFound)
}

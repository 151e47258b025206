// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package inmem

import (
	"context"
	"sync"

	"github.com/xmidt-org/hebe/model"
	"github.com/xmidt-org/hebe/store"
)

type InMem struct {
	data map[string]map[string]model.Record
	lock sync.Mutex
}

func NewInMem() *InMem {
	return &InMem{
		data: map[string]map[string]model.Record{},
	}
}

func (i *InMem) Find(_ context.Context, key model.Key) (model.Record, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	bar, ok := i.data[key.Bar]
	if !ok {
		return model.Record{}, store.NotFound(key)
	}
	record, ok := bar[key.Drink]
	if !ok {
		return model.Record{}, store.NotFound(key)
	}
	return record, nil
}

func (i *InMem) Insert(_ context.Context, record model.Record) error {
	i.lock.Lock()
	defer i.lock.Unlock()
	if i.data[record.Bar] == nil {
		i.data[record.Bar] = map[string]model.Record{}
	}
	i.data[record.Bar][record.Drink] = record
	return nil
}

// Update rejects keys that were never inserted, mirroring stores that refuse
// conditional updates on missing items.
func (i *InMem) Update(_ context.Context, key model.Key, imageURL string) error {
	i.lock.Lock()
	defer i.lock.Unlock()
	bar := i.data[key.Bar]
	record, ok := bar[key.Drink]
	if !ok {
		return store.WriteFailed(store.UpdateType, key, store.ErrRecordNotFound)
	}
	record.ImageURL = imageURL
	bar[key.Drink] = record
	return nil
}

// Records returns a copy of every stored record.
func (i *InMem) Records() []model.Record {
	i.lock.Lock()
	defer i.lock.Unlock()
	var records []model.Record
	for _, bar := range i.data {
		for _, record := range bar {
			records = append(records, record)
		}
	}
	return records
}

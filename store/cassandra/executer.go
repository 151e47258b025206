// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package cassandra

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"
	"github.com/hailocab/go-hostpool"
	"github.com/xmidt-org/hebe/model"
	"github.com/xmidt-org/hebe/store"
)

type dbStore interface {
	store.S
	Close()
	Ping() error
}

var errServerClosed = errors.New("server is closed")

type statements struct {
	find   string
	insert string
	update string
}

func newStatements(table string) statements {
	return statements{
		find:   fmt.Sprintf("SELECT image_url FROM %s WHERE bar_name = ? AND drink_name = ?", table),
		insert: fmt.Sprintf("INSERT INTO %s (bar_name, drink_name, image_url) VALUES (?,?,?)", table),
		update: fmt.Sprintf("UPDATE %s SET image_url = ? WHERE bar_name = ? AND drink_name = ?", table),
	}
}

type cassandraExecutor struct {
	session    *gocql.Session
	statements statements
}

func connect(clusterConfig *gocql.ClusterConfig, table string) (dbStore, error) {
	clusterConfig.PoolConfig.HostSelectionPolicy = gocql.HostPoolHostPolicy(hostpool.New(nil))
	session, err := clusterConfig.CreateSession()
	if err != nil {
		return nil, err
	}

	return &cassandraExecutor{session: session, statements: newStatements(table)}, nil
}

func (s *cassandraExecutor) Find(ctx context.Context, key model.Key) (model.Record, error) {
	var imageURL string
	err := s.session.Query(s.statements.find, key.Bar, key.Drink).WithContext(ctx).Scan(&imageURL)
	if errors.Is(err, gocql.ErrNotFound) {
		return model.Record{}, store.NotFound(key)
	}
	if err != nil {
		return model.Record{}, err
	}
	return model.Record{Key: key, ImageURL: imageURL}, nil
}

// Insert relies on CQL inserts being upserts.
func (s *cassandraExecutor) Insert(ctx context.Context, record model.Record) error {
	return s.session.Query(s.statements.insert, record.Bar, record.Drink, record.ImageURL).WithContext(ctx).Exec()
}

func (s *cassandraExecutor) Update(ctx context.Context, key model.Key, imageURL string) error {
	return s.session.Query(s.statements.update, imageURL, key.Bar, key.Drink).WithContext(ctx).Exec()
}

func (s *cassandraExecutor) Close() {
	s.session.Close()
}

func (s *cassandraExecutor) Ping() error {
	if s.session.Closed() {
		return errServerClosed
	}
	return nil
}

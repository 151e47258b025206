// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package cassandra

import (
	"context"
	"regexp"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gocql/gocql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/hebe/model"
	"github.com/xmidt-org/hebe/store"
	"github.com/xmidt-org/hebe/store/db/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultOpTimeout             = time.Duration(10) * time.Second
	defaultDatabase              = "hebe"
	defaultTable                 = "drink_images"
	defaultNumRetries            = 0
	defaultWaitTimeMult          = 1
	defaultMaxNumberConnsPerHost = 2
	defaultPingInterval          = 5 * time.Second
)

var (
	errNoHosts        = errors.Sentinel("number of hosts must be > 0")
	errInvalidTable   = errors.Sentinel("table must be a plain CQL identifier")
	cqlIdentifierExpr = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
)

// Config is unmarshalled from the "store.yugabyte" configuration key.
type Config struct {
	// Hosts to  connect to. Must have at least one
	Hosts []string `validate:"required,min=1,dive,required"`

	// Database aka Keyspace for cassandra
	Database string

	// Table holding the drink image records.
	Table string

	// OpTimeout
	OpTimeout time.Duration

	// SSLRootCert used for enabling tls to the cluster. SSLKey, and SSLCert must also be set.
	SSLRootCert string
	// SSLKey used for enabling tls to the cluster. SSLRootCert, and SSLCert must also be set.
	SSLKey string
	// SSLCert used for enabling tls to the cluster. SSLRootCert, and SSLRootCert must also be set.
	SSLCert string
	// If you want to verify the hostname and server cert (like a wildcard for cass cluster) then you should turn this on
	// This option is basically the inverse of InSecureSkipVerify
	// See InSecureSkipVerify in http://golang.org/pkg/crypto/tls/ for more info
	EnableHostVerification bool

	// Username to authenticate into the cluster. Password must also be provided.
	Username string
	// Password to authenticate into the cluster. Username must also be provided.
	Password string

	// NumRetries for connecting to the db
	NumRetries int

	// WaitTimeMult the amount of time to wait before retrying to connect to the db
	WaitTimeMult time.Duration

	// MaxConnsPerHost max number of connections per host
	MaxConnsPerHost int

	// PingInterval is how often the session is checked while the app runs.
	PingInterval time.Duration
}

type CassandraClient struct {
	client   dbStore
	config   Config
	logger   *zap.Logger
	measures *metric.Measures
}

// NewCassandra connects to the cluster and ties the session to the application lifecycle.
func NewCassandra(config Config, measures *metric.Measures, lc fx.Lifecycle, logger *zap.Logger) (store.S, error) {
	client, err := CreateCassandraClient(config, measures, logger)
	if err != nil {
		return nil, err
	}
	stopPinging := doEvery(client.config.PingInterval, func(_ time.Time) {
		err := client.Ping()
		if err != nil {
			logger.Error("ping failed", zap.Error(err))
		}
	})
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			stopPinging()
			client.Close()
			return nil
		},
	})
	return client, nil
}

// doEvery calls f every d until the returned function is called. The returned
// function blocks until the calling goroutine has exited.
func doEvery(d time.Duration, f func(time.Time)) func() {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		for {
			select {
			case x := <-ticker.C:
				f(x)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
		<-exited
	}
}

func CreateCassandraClient(config Config, measures *metric.Measures, logger *zap.Logger) (*CassandraClient, error) {
	if len(config.Hosts) == 0 {
		return nil, errNoHosts
	}

	validateConfig(&config)
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.WrapIf(err, "invalid yugabyte configuration")
	}
	if !cqlIdentifierExpr.MatchString(config.Table) {
		return nil, errors.WithDetails(errInvalidTable, "table", config.Table)
	}

	clusterConfig := gocql.NewCluster(config.Hosts...)
	clusterConfig.Consistency = gocql.LocalQuorum
	clusterConfig.Keyspace = config.Database
	clusterConfig.Timeout = config.OpTimeout
	clusterConfig.NumConns = config.MaxConnsPerHost
	// let retry package handle it
	clusterConfig.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: 1}
	// setup ssl
	if config.SSLRootCert != "" && config.SSLCert != "" && config.SSLKey != "" {
		clusterConfig.SslOpts = &gocql.SslOptions{
			CertPath:               config.SSLCert,
			KeyPath:                config.SSLKey,
			CaPath:                 config.SSLRootCert,
			EnableHostVerification: config.EnableHostVerification,
		}
	}
	// setup authentication
	if config.Username != "" && config.Password != "" {
		clusterConfig.Authenticator = gocql.PasswordAuthenticator{
			Username: config.Username,
			Password: config.Password,
		}
	}

	session, err := connect(clusterConfig, config.Table)

	// retry if it fails
	waitTime := 1 * time.Second
	for attempt := 0; attempt < config.NumRetries && err != nil; attempt++ {
		time.Sleep(waitTime)
		session, err = connect(clusterConfig, config.Table)
		waitTime = waitTime * config.WaitTimeMult
	}
	if err != nil {
		return nil, errors.WrapWithDetails(err, "connecting to database failed", "hosts", config.Hosts)
	}

	return newCassandraClient(session, config, measures, logger), nil
}

func newCassandraClient(client dbStore, config Config, measures *metric.Measures, logger *zap.Logger) *CassandraClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if measures == nil {
		measures = metric.NewMeasures()
	}
	return &CassandraClient{
		client:   client,
		config:   config,
		logger:   logger,
		measures: measures,
	}
}

func (s *CassandraClient) count(queryType string, err error) {
	outcome := metric.SuccessQueryOutcome
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		outcome = metric.FailQueryOutcome
	}
	s.measures.Queries.With(prometheus.Labels{
		metric.QueryTypeLabelKey:    queryType,
		metric.QueryOutcomeLabelKey: outcome,
	}).Inc()
}

func (s *CassandraClient) Find(ctx context.Context, key model.Key) (model.Record, error) {
	record, err := s.client.Find(ctx, key)
	s.count(metric.FindQueryType, err)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return record, err
		}
		return record, store.Unavailable(store.FindType, key, err)
	}
	return record, nil
}

func (s *CassandraClient) Insert(ctx context.Context, record model.Record) error {
	err := s.client.Insert(ctx, record)
	s.count(metric.InsertQueryType, err)
	if err != nil {
		return store.WriteFailed(store.InsertType, record.Key, err)
	}
	return nil
}

func (s *CassandraClient) Update(ctx context.Context, key model.Key, imageURL string) error {
	err := s.client.Update(ctx, key, imageURL)
	s.count(metric.UpdateQueryType, err)
	if err != nil {
		return store.WriteFailed(store.UpdateType, key, err)
	}
	return nil
}

func (s *CassandraClient) Close() {
	s.client.Close()
}

// Ping is for pinging the database to verify that the connection is still good.
func (s *CassandraClient) Ping() error {
	err := s.client.Ping()
	s.count(metric.PingQueryType, err)
	if err != nil {
		return errors.WrapIf(err, "pinging connection failed")
	}
	return nil
}

func validateConfig(config *Config) {
	zeroDuration := time.Duration(0) * time.Second

	if config.OpTimeout == zeroDuration {
		config.OpTimeout = defaultOpTimeout
	}

	if config.Database == "" {
		config.Database = defaultDatabase
	}
	if config.Table == "" {
		config.Table = defaultTable
	}
	if config.NumRetries < 0 {
		config.NumRetries = defaultNumRetries
	}
	if config.WaitTimeMult < 1 {
		config.WaitTimeMult = defaultWaitTimeMult
	}
	if config.MaxConnsPerHost <= 0 {
		config.MaxConnsPerHost = defaultMaxNumberConnsPerHost
	}
	if config.PingInterval <= 0 {
		config.PingInterval = defaultPingInterval
	}
}

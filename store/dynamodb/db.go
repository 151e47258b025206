// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-playground/validator/v10"
	"github.com/xmidt-org/hebe/model"
	"github.com/xmidt-org/hebe/store"
	"github.com/xmidt-org/hebe/store/db/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const (
	defaultTable      = "drink_images"
	defaultMaxRetries = 3
)

var (
	errNilMeasures = errors.New("measures cannot be nil")
	errInvalidConf = errors.New("invalid dynamodb configuration")
)

// Config is unmarshalled from the "store.dynamo" configuration key.
type Config struct {
	// Table is the name of the table holding drink image records.
	// (Optional) Defaults to drink_images.
	Table string `validate:"required"`

	// Endpoint overrides the AWS resolved endpoint, i.e. http://localhost:8000 for dynamodb local.
	Endpoint string `validate:"omitempty,url"`

	// Region is the AWS region of the table. When empty, the SDK's default chain is used.
	Region string

	// MaxRetries is the maximum number of attempts the SDK makes per request.
	MaxRetries int `validate:"gte=0"`

	// AccessKey and SecretKey are static credentials. When empty, the SDK's
	// default credential chain is used (i.e. the Lambda execution role).
	AccessKey string
	SecretKey string `validate:"required_with=AccessKey"`

	// ConsistentRead requests strongly consistent reads when checking whether a record exists.
	ConsistentRead bool
}

// dao adapts the dynamodb service to the store repository, classifying
// failures into store.OperationError values.
type dao struct {
	s service
}

func (d dao) Find(ctx context.Context, key model.Key) (model.Record, error) {
	record, _, err := d.s.Find(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return model.Record{}, err
		}
		return model.Record{}, store.Unavailable(store.FindType, key, err)
	}
	return record, nil
}

func (d dao) Insert(ctx context.Context, record model.Record) error {
	_, err := d.s.Insert(ctx, record)
	if err != nil {
		return store.WriteFailed(store.InsertType, record.Key, err)
	}
	return nil
}

func (d dao) Update(ctx context.Context, key model.Key, imageURL string) error {
	_, err := d.s.Update(ctx, key, imageURL)
	if err != nil {
		return store.WriteFailed(store.UpdateType, key, err)
	}
	return nil
}

func applyDefaults(config *Config) {
	if config.Table == "" {
		config.Table = defaultTable
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = defaultMaxRetries
	}
}

// NewDynamoDB returns a dynamodb backed record repository.
func NewDynamoDB(config Config, measures *metric.Measures, logger *zap.Logger, tp trace.TracerProvider) (store.S, error) {
	if measures == nil {
		return nil, errNilMeasures
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if tp == nil {
		tp = noop.NewTracerProvider()
	}

	applyDefaults(&config)
	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidConf, err)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRetryMaxAttempts(config.MaxRetries),
	}
	if config.Region != "" {
		opts = append(opts, awsconfig.WithRegion(config.Region))
	}
	if config.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.AccessKey, config.SecretKey, "")))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	c := dynamodb.NewFromConfig(awsConfig, func(o *dynamodb.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
	})

	return newDAO(c, config, measures, logger, tp), nil
}

func newDAO(c client, config Config, measures *metric.Measures, logger *zap.Logger, tp trace.TracerProvider) store.S {
	svc := newService(c, config.Table, config.ConsistentRead)
	svc = newLoggingService(logger.With(zap.String("table", config.Table)), svc)
	svc = newInstrumentingService(&dynamoMeasuresUpdater{measures: measures, now: time.Now}, svc, time.Now)
	svc = newTracingService(tp, config.Table, svc)
	return dao{s: svc}
}

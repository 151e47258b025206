// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package segment

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/xray"
	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// DefaultName labels the segment submitted ahead of each store interaction.
const DefaultName = "DynamoDB Interaction"

// Config is unmarshalled from the "segment" configuration key.
type Config struct {
	// Enabled turns on segment submission. When false every segment is discarded.
	Enabled bool

	// Name is the segment label. (Optional) Defaults to DefaultName.
	Name string

	// QueueSize bounds the number of segments waiting to be sent.
	QueueSize int `validate:"gte=0"`

	// BatchSize is the maximum number of segments per PutTraceSegments call.
	BatchSize int `validate:"gte=0,lte=50"`

	// FlushInterval is how long a partial batch may wait before it is sent.
	FlushInterval time.Duration `validate:"gte=0"`

	// Timeout bounds each PutTraceSegments call.
	Timeout time.Duration `validate:"gte=0"`

	// Region and Endpoint override the AWS defaults for the x-ray client.
	Region   string
	Endpoint string `validate:"omitempty,url"`
}

// SegmentName returns the configured label or DefaultName.
func (c Config) SegmentName() string {
	if c.Name == "" {
		return DefaultName
	}
	return c.Name
}

type SetupIn struct {
	fx.In
	Config   Config
	Measures Measures
	LC       fx.Lifecycle
	Logger   *zap.Logger
}

// Provide wires the segment metrics and a Submitter into the fx graph.
func Provide() fx.Option {
	return fx.Options(
		ProvideMetrics(),
		fx.Provide(
			NewSubmitter,
		),
	)
}

// NewSubmitter returns Nop when segments are disabled, otherwise an x-ray
// backed Emitter bound to the application lifecycle.
func NewSubmitter(in SetupIn) (Submitter, error) {
	if !in.Config.Enabled {
		in.Logger.Info("trace segment submission disabled")
		return Nop{}, nil
	}
	if err := validator.New().Struct(in.Config); err != nil {
		return nil, fmt.Errorf("invalid segment configuration: %w", err)
	}

	var opts []func(*awsconfig.LoadOptions) error
	if in.Config.Region != "" {
		opts = append(opts, awsconfig.WithRegion(in.Config.Region))
	}
	awsConfig, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	c := xray.NewFromConfig(awsConfig, func(o *xray.Options) {
		if in.Config.Endpoint != "" {
			o.BaseEndpoint = aws.String(in.Config.Endpoint)
		}
	})

	measures := in.Measures
	e, err := NewEmitter(in.Config, c, &measures, in.Logger)
	if err != nil {
		return nil, err
	}
	in.LC.Append(fx.Hook{
		OnStart: e.Start,
		OnStop:  e.Stop,
	})
	return e, nil
}

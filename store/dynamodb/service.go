// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/xmidt-org/hebe/model"
	"github.com/xmidt-org/hebe/store"
)

// client captures the methods of interest from the dynamoDB API. This
// should help mock API calls as well.
type client interface {
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// service defines the dynamodb specific DAO interface. It helps keeping middleware
// such as logging and instrumentation orthogonal to business logic.
type service interface {
	Find(ctx context.Context, key model.Key) (model.Record, *types.ConsumedCapacity, error)
	Insert(ctx context.Context, record model.Record) (*types.ConsumedCapacity, error)
	Update(ctx context.Context, key model.Key, imageURL string) (*types.ConsumedCapacity, error)
}

// executor satisfies the service interface so dao can then adapt the outputs to match
// the abstract record repository.
type executor struct {
	// c is the dynamodb client
	c client

	// tableName is the name of the dynamodb table
	tableName string

	// consistentRead requests strongly consistent reads on Find
	consistentRead bool
}

// Dynamo DB attribute keys
const (
	barAttributeKey      = "barName"
	drinkAttributeKey    = "drinkName"
	imageURLAttributeKey = "s3ObjectKey"

	imageURLNamePlaceholder  = "#ref"
	imageURLValuePlaceholder = ":ref"
)

var updateImageURLExpression = fmt.Sprintf("SET %s = %s", imageURLNamePlaceholder, imageURLValuePlaceholder)

var (
	errDynamoDBFailure  = errors.New("dynamodb operation failed")
	errDynamoDBThrottle = errors.New("dynamodb request throttled")
	errMissingKeyValues = errors.New("stored item is missing key attributes")
)

// handleClientError tags throttling failures apart from all other client errors.
func handleClientError(err error) error {
	var (
		throughputErr *types.ProvisionedThroughputExceededException
		limitErr      *types.RequestLimitExceeded
	)
	if errors.As(err, &throughputErr) || errors.As(err, &limitErr) {
		return fmt.Errorf("%w: %w", errDynamoDBThrottle, err)
	}
	return fmt.Errorf("%w: %w", errDynamoDBFailure, err)
}

func keyAttributes(key model.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		barAttributeKey:   &types.AttributeValueMemberS{Value: key.Bar},
		drinkAttributeKey: &types.AttributeValueMemberS{Value: key.Drink},
	}
}

func (d *executor) Find(ctx context.Context, key model.Key) (model.Record, *types.ConsumedCapacity, error) {
	input := &dynamodb.GetItemInput{
		TableName:              aws.String(d.tableName),
		Key:                    keyAttributes(key),
		ConsistentRead:         aws.Bool(d.consistentRead),
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	}
	output, err := d.c.GetItem(ctx, input)
	var consumedCapacity *types.ConsumedCapacity
	if output != nil {
		consumedCapacity = output.ConsumedCapacity
	}
	if err != nil {
		return model.Record{}, consumedCapacity, handleClientError(err)
	}

	if len(output.Item) == 0 {
		return model.Record{}, consumedCapacity, store.NotFound(key)
	}

	var record model.Record
	err = attributevalue.UnmarshalMap(output.Item, &record)
	if err != nil {
		return model.Record{}, consumedCapacity, err
	}
	if record.Bar == "" || record.Drink == "" {
		return model.Record{}, consumedCapacity, errMissingKeyValues
	}
	return record, consumedCapacity, nil
}

func (d *executor) Insert(ctx context.Context, record model.Record) (*types.ConsumedCapacity, error) {
	av, err := attributevalue.MarshalMap(record)
	if err != nil {
		return nil, err
	}
	input := &dynamodb.PutItemInput{
		Item:                   av,
		TableName:              aws.String(d.tableName),
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	}

	output, err := d.c.PutItem(ctx, input)
	var consumedCapacity *types.ConsumedCapacity
	if output != nil {
		consumedCapacity = output.ConsumedCapacity
	}
	if err != nil {
		return consumedCapacity, handleClientError(err)
	}
	return consumedCapacity, nil
}

func (d *executor) Update(ctx context.Context, key model.Key, imageURL string) (*types.ConsumedCapacity, error) {
	input := &dynamodb.UpdateItemInput{
		TableName:        aws.String(d.tableName),
		Key:              keyAttributes(key),
		UpdateExpression: aws.String(updateImageURLExpression),
		ExpressionAttributeNames: map[string]string{
			imageURLNamePlaceholder: imageURLAttributeKey,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			imageURLValuePlaceholder: &types.AttributeValueMemberS{Value: imageURL},
		},
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	}

	output, err := d.c.UpdateItem(ctx, input)
	var consumedCapacity *types.ConsumedCapacity
	if output != nil {
		consumedCapacity = output.ConsumedCapacity
	}
	if err != nil {
		return consumedCapacity, handleClientError(err)
	}
	return consumedCapacity, nil
}

func newService(c client, tableName string, consistentRead bool) service {
	return &executor{
		c:              c,
		tableName:      tableName,
		consistentRead: consistentRead,
	}
}

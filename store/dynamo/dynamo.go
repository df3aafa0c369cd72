// Package dynamo is a cacheaside.Store backed by an Amazon DynamoDB table.
//
// Table schema:
//   - Partition key: key (string)
//   - Attribute:     value (string)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name kvcache \
//	  --attribute-definitions AttributeName=key,AttributeType=S \
//	  --key-schema AttributeName=key,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
//
// or call Store.CreateTable.
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/IvanBrykalov/kvcache/cacheaside"
)

const (
	attrKey   = "key"
	attrValue = "value"
)

// Client is the subset of the DynamoDB API the store uses.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// ErrInvalidItem is returned when a stored item lacks a string value.
var ErrInvalidItem = errors.New("dynamo: item has no string value attribute")

// Store maps string keys to string values in one table.
type Store struct {
	client Client
	table  string
}

// NewStore wraps an existing client.
func NewStore(client Client, table string) *Store {
	return &Store{client: client, table: table}
}

// Option configures New.
type Option func(*settings)

type settings struct {
	region   string
	endpoint string
}

// WithRegion overrides the region from the default AWS config chain.
func WithRegion(region string) Option { return func(s *settings) { s.region = region } }

// WithEndpoint points the client at a custom endpoint, e.g. DynamoDB Local.
func WithEndpoint(url string) Option { return func(s *settings) { s.endpoint = url } }

// New loads the default AWS configuration and returns a Store for table.
func New(ctx context.Context, table string, opts ...Option) (*Store, error) {
	var st settings
	for _, o := range opts {
		o(&st)
	}

	var loadOpts []func(*config.LoadOptions) error
	if st.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(st.region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("dynamo: load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if st.endpoint != "" {
			o.BaseEndpoint = aws.String(st.endpoint)
		}
	})
	return NewStore(client, table), nil
}

// CreateTable creates the table if it does not exist yet.
func (s *Store) CreateTable(ctx context.Context) error {
	_, err := s.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(s.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrKey), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}
		return fmt.Errorf("dynamo: create table %s: %w", s.table, err)
	}
	return nil
}

// Upsert writes k→v, replacing any previous value.
func (s *Store) Upsert(ctx context.Context, k, v string) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			attrKey:   &types.AttributeValueMemberS{Value: k},
			attrValue: &types.AttributeValueMemberS{Value: v},
		},
	})
	if err != nil {
		return fmt.Errorf("dynamo: put %q: %w", k, err)
	}
	return nil
}

// Get reads k with a strongly consistent read.
func (s *Store) Get(ctx context.Context, k string) (string, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            keyOf(k),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", false, fmt.Errorf("dynamo: get %q: %w", k, err)
	}
	if len(out.Item) == 0 {
		return "", false, nil
	}
	val, ok := out.Item[attrValue].(*types.AttributeValueMemberS)
	if !ok {
		return "", false, fmt.Errorf("dynamo: get %q: %w", k, ErrInvalidItem)
	}
	return val.Value, true, nil
}

// Erase deletes k. Deleting a missing key is not an error in DynamoDB.
func (s *Store) Erase(ctx context.Context, k string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       keyOf(k),
	})
	if err != nil {
		return fmt.Errorf("dynamo: delete %q: %w", k, err)
	}
	return nil
}

func keyOf(k string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{attrKey: &types.AttributeValueMemberS{Value: k}}
}

var _ cacheaside.Store[string, string] = (*Store)(nil)

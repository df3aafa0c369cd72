package dynamo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/kvcache/cacheaside"
)

// mockClient is an in-memory DynamoDB mock keyed on the "key" attribute.
type mockClient struct {
	mu     sync.RWMutex
	items  map[string]map[string]types.AttributeValue
	tables map[string]bool
	err    error

	lastGet *dynamodb.GetItemInput
}

func newMockClient() *mockClient {
	return &mockClient{
		items:  make(map[string]map[string]types.AttributeValue),
		tables: make(map[string]bool),
	}
}

func keyString(m map[string]types.AttributeValue) string {
	return m["key"].(*types.AttributeValueMemberS).Value
}

func (m *mockClient) PutItem(_ context.Context, p *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.items[keyString(p.Item)] = p.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockClient) GetItem(_ context.Context, p *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastGet = p
	if m.err != nil {
		return nil, m.err
	}
	return &dynamodb.GetItemOutput{Item: m.items[keyString(p.Key)]}, nil
}

func (m *mockClient) DeleteItem(_ context.Context, p *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	delete(m.items, keyString(p.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *mockClient) CreateTable(_ context.Context, p *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name := aws.ToString(p.TableName)
	if m.tables[name] {
		return nil, &types.ResourceInUseException{Message: aws.String("table exists")}
	}
	m.tables[name] = true
	return &dynamodb.CreateTableOutput{}, nil
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newMockClient()
	s := NewStore(client, "kv")

	_, found, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Upsert(ctx, "a", "1"))
	require.NoError(t, s.Upsert(ctx, "a", "2"))

	v, found, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "2", v)
	require.NotNil(t, client.lastGet)
	assert.True(t, aws.ToBool(client.lastGet.ConsistentRead))
	assert.Equal(t, "kv", aws.ToString(client.lastGet.TableName))

	require.NoError(t, s.Erase(ctx, "a"))
	require.NoError(t, s.Erase(ctx, "a"))
	_, found, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_ErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	client := newMockClient()
	boom := errors.New("throttled")
	client.err = boom
	s := NewStore(client, "kv")

	assert.ErrorIs(t, s.Upsert(ctx, "a", "1"), boom)
	_, _, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.Erase(ctx, "a"), boom)
}

func TestStore_InvalidItem(t *testing.T) {
	ctx := context.Background()
	client := newMockClient()
	client.items["a"] = map[string]types.AttributeValue{
		"key":   &types.AttributeValueMemberS{Value: "a"},
		"value": &types.AttributeValueMemberN{Value: "1"},
	}
	s := NewStore(client, "kv")

	_, _, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestStore_CreateTableIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMockClient(), "kv")

	require.NoError(t, s.CreateTable(ctx))
	require.NoError(t, s.CreateTable(ctx))
}

// The store plugs into the coordinator and failures surface as StoreError.
func TestStore_WithCoordinator(t *testing.T) {
	ctx := context.Background()
	client := newMockClient()
	co := cacheaside.New[string, string](NewStore(client, "kv"), cacheaside.Options[string, string]{Capacity: 16, Shards: 2})

	require.NoError(t, co.Write(ctx, "a", "1"))
	v, err := co.Read(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
	assert.Nil(t, client.lastGet, "read after write must be served from cache")

	client.err = errors.New("unavailable")
	err = co.Delete(ctx, "a")
	assert.True(t, cacheaside.IsStoreError(err))
	v, err = co.Read(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

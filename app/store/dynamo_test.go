package store

import (
	"context"
	"errors"
	"sort"
	"testing"

	"tasklist/app/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo is an in-memory table keyed by the "id" string attribute. Scan
// pages hold at most pageSize items so pagination is exercised.
type fakeDynamo struct {
	items    map[string]map[string]types.AttributeValue
	pageSize int
	scans    int
	err      error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}, pageSize: 1}
}

func keyOf(item map[string]types.AttributeValue) string {
	if v, ok := item["id"].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scans++
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]string, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	start := keyOf(in.ExclusiveStartKey)
	out := &dynamodb.ScanOutput{}
	for _, id := range ids {
		if start != "" && id <= start {
			continue
		}
		if len(out.Items) == f.pageSize {
			out.LastEvaluatedKey = taskKey(keyOf(out.Items[len(out.Items)-1]))
			break
		}
		out.Items = append(out.Items, f.items[id])
	}
	return out, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := keyOf(in.Item)
	if _, exists := f.items[id]; exists && aws.ToString(in.ConditionExpression) == "attribute_not_exists(id)" {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")}
	}
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := keyOf(in.Key)
	item, exists := f.items[id]
	if !exists {
		if aws.ToString(in.ConditionExpression) == "attribute_exists(id)" {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("missing")}
		}
		item = map[string]types.AttributeValue{"id": in.Key["id"]}
	}
	for placeholder, attr := range in.ExpressionAttributeNames {
		item[attr] = in.ExpressionAttributeValues[":"+placeholder[1:]]
	}
	f.items[id] = item
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := keyOf(in.Key)
	old, exists := f.items[id]
	delete(f.items, id)
	out := &dynamodb.DeleteItemOutput{}
	if exists && in.ReturnValues == types.ReturnValueAllOld {
		out.Attributes = old
	}
	return out, nil
}

func TestDynamoStore(t *testing.T) {
	fake := newFakeDynamo()
	s := NewDynamoStore(fake, "tasks", testLogger())

	exerciseTaskStore(t, s)
}

func TestDynamoStore_ScanFollowsPages(t *testing.T) {
	fake := newFakeDynamo()
	s := NewDynamoStore(fake, "tasks", testLogger())
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := s.Put(ctx, models.Task{Name: name})
		require.NoError(t, err)
	}

	tasks, err := s.Scan(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
	assert.Equal(t, 3, fake.scans)
}

func TestDynamoStore_UpdateDoesNotUpsert(t *testing.T) {
	fake := newFakeDynamo()
	s := NewDynamoStore(fake, "tasks", testLogger())

	ack, err := s.Update(context.Background(), models.Task{ID: "42", Name: "Buy milk", Completed: true})
	require.NoError(t, err)
	assert.Equal(t, models.Ack{ID: "42"}, ack)
	assert.Empty(t, fake.items)
}

func TestDynamoStore_PropagatesErrors(t *testing.T) {
	fake := newFakeDynamo()
	fake.err = errors.New("ResourceNotFoundException: table missing")
	s := NewDynamoStore(fake, "tasks", testLogger())
	ctx := context.Background()

	_, err := s.Scan(ctx)
	assert.ErrorIs(t, err, fake.err)
	_, err = s.Put(ctx, models.Task{Name: "x"})
	assert.ErrorIs(t, err, fake.err)
	_, err = s.Update(ctx, models.Task{ID: "1"})
	assert.ErrorIs(t, err, fake.err)
	_, err = s.Delete(ctx, "1")
	assert.ErrorIs(t, err, fake.err)
}

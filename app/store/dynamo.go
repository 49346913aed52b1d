package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tasklist/app/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the slice of the DynamoDB client the store calls.
type DynamoAPI interface {
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

var _ DynamoAPI = (*dynamodb.Client)(nil)

// dynamoTask is the item layout in the table. Attribute names match the
// task's JSON field names.
type dynamoTask struct {
	ID        string `dynamodbav:"id"`
	Name      string `dynamodbav:"name"`
	Completed bool   `dynamodbav:"completed"`
}

// DynamoStore keeps tasks in a DynamoDB table keyed by "id".
type DynamoStore struct {
	client DynamoAPI
	table  string
	logger *slog.Logger
}

// NewDynamoStore creates a store over an existing table.
func NewDynamoStore(client DynamoAPI, table string, logger *slog.Logger) *DynamoStore {
	return &DynamoStore{client: client, table: table, logger: logger}
}

// Scan reads every page of the table.
func (s *DynamoStore) Scan(ctx context.Context) ([]models.Task, error) {
	tasks := []models.Task{}
	pages := 0

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		pages++

		var items []dynamoTask
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("decode scan page: %w", err)
		}
		for _, item := range items {
			tasks = append(tasks, models.Task(item))
		}
	}

	s.logger.Debug("dynamodb scan", "table", s.table, "pages", pages, "count", len(tasks))
	return tasks, nil
}

// Put writes a new item. The condition guards against a uuid collision
// silently replacing another task.
func (s *DynamoStore) Put(ctx context.Context, task models.Task) (models.Task, error) {
	task.ID = newID()

	item, err := attributevalue.MarshalMap(dynamoTask(task))
	if err != nil {
		return models.Task{}, fmt.Errorf("encode task: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// Update replaces name and completed. UpdateItem upserts by default, so the
// write is conditioned on the item existing; a failed condition is a no-op.
func (s *DynamoStore) Update(ctx context.Context, task models.Task) (models.Ack, error) {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.table),
		Key:                 taskKey(task.ID),
		UpdateExpression:    aws.String("SET #name = :name, #completed = :completed"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeNames: map[string]string{
			"#name":      "name",
			"#completed": "completed",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":      &types.AttributeValueMemberS{Value: task.Name},
			":completed": &types.AttributeValueMemberBOOL{Value: task.Completed},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			s.logger.Debug("dynamodb update missed", "id", task.ID)
			return models.Ack{ID: task.ID}, nil
		}
		return models.Ack{}, err
	}
	return models.Ack{ID: task.ID, Affected: 1}, nil
}

// Delete removes the item and reports whether one existed.
func (s *DynamoStore) Delete(ctx context.Context, id string) (models.Ack, error) {
	out, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.table),
		Key:          taskKey(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return models.Ack{}, err
	}

	ack := models.Ack{ID: id}
	if len(out.Attributes) > 0 {
		ack.Affected = 1
	}
	return ack, nil
}

// Close is a no-op; the SDK client holds no connections of its own.
func (s *DynamoStore) Close(context.Context) error {
	return nil
}

func taskKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

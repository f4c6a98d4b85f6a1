package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hugofmello/startup-pitch/config"
	"github.com/hugofmello/startup-pitch/model"
)

// NewDynamoClient builds a DynamoDB client from config. A non-empty endpoint
// points the client at a local DynamoDB.
func NewDynamoClient(ctx context.Context, cfg *config.DynamoConfig) (*dynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return client, nil
}

// DynamoTaskStore persists task records in the tasks table, keyed by taskId.
type DynamoTaskStore struct {
	db    *dynamodb.Client
	table string
}

func NewDynamoTaskStore(db *dynamodb.Client, table string) *DynamoTaskStore {
	return &DynamoTaskStore{db: db, table: table}
}

func (s *DynamoTaskStore) Put(ctx context.Context, task model.Task) error {
	item, err := attributevalue.MarshalMap(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put task: %w", err)
	}
	return nil
}

func (s *DynamoTaskStore) Get(ctx context.Context, taskID string) (*model.Task, error) {
	out, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"taskId": &types.AttributeValueMemberS{Value: taskID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var task model.Task
	if err := attributevalue.UnmarshalMap(out.Item, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}

func (s *DynamoTaskStore) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.db.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan tasks: %w", err)
		}

		var page []model.Task
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tasks: %w", err)
		}
		tasks = append(tasks, page...)

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return tasks, nil
}

// UpdateStatus writes status and updatedAt. The condition expression keeps
// the status forward-only: a CONSUMED row is never overwritten, and a missing
// row is never created by an update.
func (s *DynamoTaskStore) UpdateStatus(ctx context.Context, taskID, status string, updatedAt time.Time) error {
	_, err := s.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"taskId": &types.AttributeValueMemberS{Value: taskID},
		},
		UpdateExpression:    aws.String("SET #status = :status, updatedAt = :updatedAt"),
		ConditionExpression: aws.String("attribute_exists(taskId) AND #status <> :consumed"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":    &types.AttributeValueMemberS{Value: status},
			":updatedAt": &types.AttributeValueMemberS{Value: updatedAt.Format(time.RFC3339Nano)},
			":consumed":  &types.AttributeValueMemberS{Value: model.StatusConsumed},
		},
	})
	return translateConditionErr(err, "failed to update task status")
}

// TransitionStatus writes status only when the current status equals from.
func (s *DynamoTaskStore) TransitionStatus(ctx context.Context, taskID, from, to string, updatedAt time.Time) error {
	_, err := s.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"taskId": &types.AttributeValueMemberS{Value: taskID},
		},
		UpdateExpression:    aws.String("SET #status = :to, updatedAt = :updatedAt"),
		ConditionExpression: aws.String("#status = :from"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":to":        &types.AttributeValueMemberS{Value: to},
			":from":      &types.AttributeValueMemberS{Value: from},
			":updatedAt": &types.AttributeValueMemberS{Value: updatedAt.Format(time.RFC3339Nano)},
		},
	})
	return translateConditionErr(err, "failed to transition task status")
}

func translateConditionErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return ErrConditionFailed
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// DynamoStartupStore persists startup records, keyed by id.
type DynamoStartupStore struct {
	db    *dynamodb.Client
	table string
}

func NewDynamoStartupStore(db *dynamodb.Client, table string) *DynamoStartupStore {
	return &DynamoStartupStore{db: db, table: table}
}

func (s *DynamoStartupStore) Put(ctx context.Context, startup model.Startup) error {
	item, err := attributevalue.MarshalMap(startup)
	if err != nil {
		return fmt.Errorf("failed to marshal startup: %w", err)
	}

	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put startup: %w", err)
	}
	return nil
}

func (s *DynamoStartupStore) Get(ctx context.Context, id string) (*model.Startup, error) {
	out, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get startup: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var startup model.Startup
	if err := attributevalue.UnmarshalMap(out.Item, &startup); err != nil {
		return nil, fmt.Errorf("failed to unmarshal startup: %w", err)
	}
	return &startup, nil
}

func (s *DynamoStartupStore) List(ctx context.Context) ([]model.Startup, error) {
	var startups []model.Startup
	var startKey map[string]types.AttributeValue

	for {
		out, err := s.db.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan startups: %w", err)
		}

		var page []model.Startup
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal startups: %w", err)
		}
		startups = append(startups, page...)

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return startups, nil
}

func (s *DynamoStartupStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete startup: %w", err)
	}
	return nil
}

package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/domain"
)

// PageRepo provides typed DynamoDB operations for the private_pages table.
type PageRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPageRepo(client *dynamodb.Client, tableName string) *PageRepo {
	return &PageRepo{client: client, tableName: tableName}
}

func (r *PageRepo) Put(ctx context.Context, p *domain.PrivatePage) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal private page: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PageRepo) Get(ctx context.Context, pageID string) (*domain.PrivatePage, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("page_id", pageID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("private page not found: %w", domain.ErrNotFound)
	}
	var p domain.PrivatePage
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PageRepo) Scan(ctx context.Context) ([]domain.PrivatePage, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	if err != nil {
		return nil, err
	}
	var pages []domain.PrivatePage
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// SoftDelete disables a page and records the deletion time. The record is
// kept so existing share links resolve to a clear "gone" rather than a 404.
func (r *PageRepo) SoftDelete(ctx context.Context, pageID string) error {
	now := time.Now().UTC()
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldEnable:    false,
		fieldDeletedAt: now,
		fieldUpdatedAt: now,
	})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("page_id", pageID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/harshpatel9469/medoh-v2-sub002/internal/domain"
)

// DocumentRepo provides typed DynamoDB operations for the documents table.
type DocumentRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDocumentRepo(client *dynamodb.Client, tableName string) *DocumentRepo {
	return &DocumentRepo{client: client, tableName: tableName}
}

func (r *DocumentRepo) Put(ctx context.Context, d *domain.Document) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *DocumentRepo) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("document_id", documentID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("document not found: %w", domain.ErrNotFound)
	}
	var d domain.Document
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByPage queries the page_id GSI.
func (r *DocumentRepo) ListByPage(ctx context.Context, pageID string) ([]domain.Document, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("page_id-index"),
		KeyConditionExpression: aws.String("page_id = :pid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pid": &types.AttributeValueMemberS{Value: pageID},
		},
	})
	if err != nil {
		return nil, err
	}
	var docs []domain.Document
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// HardDelete permanently removes a document item; the S3 object is
// deleted separately by the page service.
func (r *DocumentRepo) HardDelete(ctx context.Context, documentID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("document_id", documentID),
	})
	return err
}

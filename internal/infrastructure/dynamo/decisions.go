package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/wa-otp-auth/internal/domain"
)

// DecisionRepo appends orchestrator decisions to the audit table.
type DecisionRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDecisionRepo(client *dynamodb.Client, tableName string) *DecisionRepo {
	return &DecisionRepo{client: client, tableName: tableName}
}

func (r *DecisionRepo) Put(ctx context.Context, rec *domain.DecisionRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal decision record: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

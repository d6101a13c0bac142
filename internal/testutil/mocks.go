// Package testutil provides hand-written fakes shared across test packages.
package testutil

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MockStore is a configurable StatementExecutor / ConnectionChecker fake.
type MockStore struct {
	ExecuteFn func(ctx context.Context, statement string, limit *int32) ([]map[string]types.AttributeValue, error)
	CheckFn   func(ctx context.Context) error

	// Statements records every statement passed to ExecuteStatement.
	Statements []string
}

func (m *MockStore) ExecuteStatement(ctx context.Context, statement string, limit *int32) ([]map[string]types.AttributeValue, error) {
	m.Statements = append(m.Statements, statement)
	if m.ExecuteFn == nil {
		return nil, nil
	}
	return m.ExecuteFn(ctx, statement, limit)
}

func (m *MockStore) CheckConnection(ctx context.Context) error {
	if m.CheckFn == nil {
		return nil
	}
	return m.CheckFn(ctx)
}

// Item builds a DynamoDB item from string attributes, the common case in
// pipeline tests.
func Item(attrs map[string]string) map[string]types.AttributeValue {
	item := make(map[string]types.AttributeValue, len(attrs))
	for k, v := range attrs {
		item[k] = &types.AttributeValueMemberS{Value: v}
	}
	return item
}

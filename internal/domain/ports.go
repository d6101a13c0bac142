package domain

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// StatementExecutor is the single store capability the query pipeline
// consumes: run one PartiQL statement and return the raw items in store
// order. Implementations perform exactly one round trip and no retries.
type StatementExecutor interface {
	ExecuteStatement(ctx context.Context, statement string, limit *int32) ([]map[string]types.AttributeValue, error)
}

// ConnectionChecker verifies that the store is reachable with the
// configured credentials.
type ConnectionChecker interface {
	CheckConnection(ctx context.Context) error
}

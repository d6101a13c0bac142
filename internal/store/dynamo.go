// Package store provides the DynamoDB client behind the query pipeline.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"dynasource/internal/config"
	"dynasource/internal/domain"
)

// dynamoAPI is the slice of the DynamoDB client the store uses.
// Narrowed to an interface so tests can substitute a fake.
type dynamoAPI interface {
	ExecuteStatement(ctx context.Context, params *dynamodb.ExecuteStatementInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ExecuteStatementOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Compile-time checks: Client implements the domain ports.
var _ domain.StatementExecutor = (*Client)(nil)
var _ domain.ConnectionChecker = (*Client)(nil)

// Client executes PartiQL statements against DynamoDB. One client is shared
// across requests; it holds no per-request state.
type Client struct {
	api       dynamoAPI
	probeName string // table for connectivity checks; empty disables the probe
	logger    *slog.Logger
}

// New builds a client from configuration. Static credentials take precedence
// when configured; otherwise the SDK's default chain (env, shared config,
// IMDS) is used.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var api *dynamodb.Client
	if cfg.HasStaticCredentials() {
		opts := dynamodb.Options{
			Region: cfg.AWSRegion,
			Credentials: credentials.NewStaticCredentialsProvider(
				cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.AWSSessionToken,
			),
		}
		if cfg.AWSEndpoint != "" {
			opts.BaseEndpoint = aws.String(cfg.AWSEndpoint)
		}
		api = dynamodb.New(opts)
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		api = dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.AWSEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
			}
		})
	}

	return &Client{api: api, probeName: cfg.ConnectionTestTable, logger: logger}, nil
}

// ExecuteStatement runs one PartiQL statement with an optional item cap.
// Exactly one round trip: transient failures surface as a single terminal
// StoreError, retries are left to the SDK's own configuration.
func (c *Client) ExecuteStatement(ctx context.Context, statement string, limit *int32) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.ExecuteStatementInput{
		Statement: aws.String(statement),
		Limit:     limit,
	}

	out, err := c.api.ExecuteStatement(ctx, input)
	if err != nil {
		c.logger.Warn("execute statement failed", "error", err)
		return nil, domain.ErrStore(err, "execute statement: %s", diagnostic(err))
	}
	return out.Items, nil
}

// CheckConnection verifies reachability by describing the configured probe
// table. With no probe table configured the check is a no-op: client
// construction already validated the configuration.
func (c *Client) CheckConnection(ctx context.Context) error {
	if c.probeName == "" {
		return nil
	}

	_, err := c.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(c.probeName),
	})
	if err != nil {
		var nf *types.ResourceNotFoundException
		if errors.As(err, &nf) {
			return domain.ErrNotFound("connection test table %q not found", c.probeName)
		}
		return domain.ErrStore(err, "describe table %q: %s", c.probeName, diagnostic(err))
	}
	return nil
}

// diagnostic extracts the store's own error code and message when present,
// so callers see "ValidationException: ..." rather than transport noise.
func diagnostic(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return err.Error()
}

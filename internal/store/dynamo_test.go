package store

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dynasource/internal/domain"
)

func newTestClient(api dynamoAPI, probe string) *Client {
	return &Client{api: api, probeName: probe, logger: slog.Default()}
}

type fakeAPI struct {
	executeIn  *dynamodb.ExecuteStatementInput
	executeOut *dynamodb.ExecuteStatementOutput
	executeErr error

	describeIn  *dynamodb.DescribeTableInput
	describeErr error
}

func (f *fakeAPI) ExecuteStatement(_ context.Context, in *dynamodb.ExecuteStatementInput, _ ...func(*dynamodb.Options)) (*dynamodb.ExecuteStatementOutput, error) {
	f.executeIn = in
	if f.executeErr != nil {
		return nil, f.executeErr
	}
	if f.executeOut != nil {
		return f.executeOut, nil
	}
	return &dynamodb.ExecuteStatementOutput{}, nil
}

func (f *fakeAPI) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.describeIn = in
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return &dynamodb.DescribeTableOutput{}, nil
}

func TestExecuteStatement_PassesStatementAndLimit(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		executeOut: &dynamodb.ExecuteStatementOutput{
			Items: []map[string]types.AttributeValue{
				{"id": &types.AttributeValueMemberS{Value: "a"}},
			},
		},
	}
	c := newTestClient(api, "")

	items, err := c.ExecuteStatement(context.Background(), `SELECT * FROM "t"`, aws.Int32(25))
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NotNil(t, api.executeIn)
	assert.Equal(t, `SELECT * FROM "t"`, aws.ToString(api.executeIn.Statement))
	assert.Equal(t, int32(25), aws.ToInt32(api.executeIn.Limit))
}

func TestExecuteStatement_NoLimit(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	c := newTestClient(api, "")

	_, err := c.ExecuteStatement(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)
	assert.Nil(t, api.executeIn.Limit)
}

func TestExecuteStatement_WrapsAPIError(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		executeErr: &smithy.GenericAPIError{Code: "ValidationException", Message: "syntax error"},
	}
	c := newTestClient(api, "")

	_, err := c.ExecuteStatement(context.Background(), "SELEC", nil)

	var serr *domain.StoreError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Message, "ValidationException: syntax error")
}

func TestCheckConnection_SkipsWithoutProbeTable(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{describeErr: errors.New("must not be called")}
	c := newTestClient(api, "")

	require.NoError(t, c.CheckConnection(context.Background()))
	assert.Nil(t, api.describeIn)
}

func TestCheckConnection_DescribesProbeTable(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	c := newTestClient(api, "health")

	require.NoError(t, c.CheckConnection(context.Background()))
	require.NotNil(t, api.describeIn)
	assert.Equal(t, "health", aws.ToString(api.describeIn.TableName))
}

func TestCheckConnection_MissingTableIsNotFound(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		describeErr: &types.ResourceNotFoundException{Message: aws.String("no such table")},
	}
	c := newTestClient(api, "health")

	err := c.CheckConnection(context.Background())

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Message, "health")
}

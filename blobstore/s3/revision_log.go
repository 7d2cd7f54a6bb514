package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/editkit/blobstore"
)

// DDBRevisionLog implements blobstore.RevisionLog on DynamoDB.
//
// Each commit is a conditional put of the next version number, so two
// uploaders racing on the same file never both get the same version.
//
// Table schema:
//   - Partition key: name (string) - the uploaded file name
//   - Sort key: version (number) - monotonically increasing version
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name editkit-revisions \
//	  --attribute-definitions AttributeName=name,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=name,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBRevisionLog struct {
	client      DDBClient
	tableName   string
	maxAttempts int
	now         func() time.Time
}

var _ blobstore.RevisionLog = (*DDBRevisionLog)(nil)

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ErrConcurrentModification is returned when a commit keeps losing the
// race for the next version.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// NewDDBRevisionLog creates a revision log stored in tableName.
func NewDDBRevisionLog(client DDBClient, tableName string) *DDBRevisionLog {
	return &DDBRevisionLog{
		client:      client,
		tableName:   tableName,
		maxAttempts: 3,
		now:         time.Now,
	}
}

// Commit records object as the next revision of name.
func (l *DDBRevisionLog) Commit(ctx context.Context, name, object string, size int64) (uint64, error) {
	for attempt := 0; attempt < l.maxAttempts; attempt++ {
		latest, err := l.Latest(ctx, name)
		if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
			return 0, err
		}

		version := latest.Version + 1
		_, err = l.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(l.tableName),
			Item: map[string]types.AttributeValue{
				"name":         &types.AttributeValueMemberS{Value: name},
				"version":      &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
				"object":       &types.AttributeValueMemberS{Value: object},
				"size":         &types.AttributeValueMemberN{Value: strconv.FormatInt(size, 10)},
				"committed_at": &types.AttributeValueMemberS{Value: l.now().UTC().Format(time.RFC3339Nano)},
			},
			ConditionExpression: aws.String("attribute_not_exists(version)"),
		})
		if err == nil {
			return version, nil
		}

		var condErr *types.ConditionalCheckFailedException
		if !errors.As(err, &condErr) {
			return 0, fmt.Errorf("failed to commit revision to DynamoDB: %w", err)
		}
	}
	return 0, ErrConcurrentModification
}

// Latest returns the newest revision of name.
func (l *DDBRevisionLog) Latest(ctx context.Context, name string) (blobstore.Revision, error) {
	resp, err := l.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(l.tableName),
		KeyConditionExpression: aws.String("#n = :name"),
		ExpressionAttributeNames: map[string]string{
			"#n": "name",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name": &types.AttributeValueMemberS{Value: name},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
		ConsistentRead:   aws.Bool(true),
	})
	if err != nil {
		return blobstore.Revision{}, fmt.Errorf("failed to query DynamoDB: %w", err)
	}

	if len(resp.Items) == 0 {
		return blobstore.Revision{}, blobstore.ErrNotFound
	}
	return decodeRevision(resp.Items[0])
}

func decodeRevision(item map[string]types.AttributeValue) (blobstore.Revision, error) {
	rev := blobstore.Revision{}

	nameAttr, ok := item["name"].(*types.AttributeValueMemberS)
	if !ok {
		return rev, errors.New("invalid name attribute in DynamoDB")
	}
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return rev, errors.New("invalid version attribute in DynamoDB")
	}
	objectAttr, ok := item["object"].(*types.AttributeValueMemberS)
	if !ok {
		return rev, errors.New("invalid object attribute in DynamoDB")
	}

	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return rev, fmt.Errorf("failed to parse version: %w", err)
	}

	rev.Name = nameAttr.Value
	rev.Version = version
	rev.Object = objectAttr.Value

	if sizeAttr, ok := item["size"].(*types.AttributeValueMemberN); ok {
		rev.Size, _ = strconv.ParseInt(sizeAttr.Value, 10, 64)
	}
	if tsAttr, ok := item["committed_at"].(*types.AttributeValueMemberS); ok {
		rev.Time, _ = time.Parse(time.RFC3339Nano, tsAttr.Value)
	}
	return rev, nil
}

package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/klauspost/compress/zstd"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"graphdb/internal/hierarchy"
	"graphdb/internal/object"
)

// snapshotItem is the DynamoDB item shape for a whole-hierarchy
// snapshot blob, following graph_repository.go's single-table
// PK/SK-plus-typed-attributes item layout.
type snapshotItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Version   uint32 `dynamodbav:"Version"`
	Blob      []byte `dynamodbav:"Blob"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

const (
	snapshotPK = "SNAPSHOT"
	snapshotSK = "LATEST"
)

// DynamoSnapshotStore is the alternate remote-resident snapshot store
// (§6 DOMAIN STACK): a single compressed blob item per table,
// refreshed wholesale on every save rather than per-node, since the
// snapshot cadence (not per-mutation replication) is what this store
// serves.
type DynamoSnapshotStore struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
	breaker   *gobreaker.CircuitBreaker
}

// NewDynamoSnapshotStore wires a store whose calls are wrapped in a
// circuit breaker so a DynamoDB outage degrades to local-only
// persistence instead of blocking the save path (DESIGN.md C12).
func NewDynamoSnapshotStore(client *dynamodb.Client, tableName string, logger *zap.Logger) *DynamoSnapshotStore {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dynamodb-snapshot",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= 3 },
	})
	return &DynamoSnapshotStore{client: client, tableName: tableName, logger: logger, breaker: cb}
}

// Save compresses h and puts it as the table's single LATEST item.
func (s *DynamoSnapshotStore) Save(ctx context.Context, h *hierarchy.Hierarchy) error {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return err
	}
	if err := Save(enc, h); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	item := snapshotItem{
		PK:        snapshotPK,
		SK:        snapshotSK,
		Version:   Version,
		Blob:      buf.Bytes(),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("snapshot: marshal dynamo item: %w", err)
	}

	_, err = s.breaker.Execute(func() (interface{}, error) {
		return s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(s.tableName),
			Item:      av,
		})
	})
	if err != nil {
		s.logger.Warn("snapshot: dynamodb save failed, degrading to local-only", zap.Error(err))
		return err
	}
	return nil
}

// Load fetches the table's LATEST item and decompresses it into a
// fresh Hierarchy.
func (s *DynamoSnapshotStore) Load(ctx context.Context, reg object.PointerRegistry) (*hierarchy.Hierarchy, error) {
	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: snapshotPK},
				"SK": &types.AttributeValueMemberS{Value: snapshotSK},
			},
		})
	})
	if err != nil {
		return nil, err
	}
	out := res.(*dynamodb.GetItemOutput)
	if out.Item == nil {
		return nil, ErrUnknownVersion
	}

	var item snapshotItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal dynamo item: %w", err)
	}
	dec, err := zstd.NewReader(bytes.NewReader(item.Blob))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return Load(dec, reg)
}

// Command ws-send-message is the EventBridge-triggered fan-out
// broadcaster: one subscription's deferred events (subscribe package's
// wireEvent JSON) arrive as an EventBridge event, and every WebSocket
// connection registered for that subscription gets the message pushed
// via PostToConnection, grounded on cmd/ws-send-message/main.go's
// query-then-broadcast-then-cleanup-stale workflow.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	dbClient         *dynamodb.Client
	mgmtClient       *apigatewaymanagementapi.Client
	connectionsTable string
)

func init() {
	connectionsTable = os.Getenv("CONNECTIONS_TABLE_NAME")
	wsEndpoint := os.Getenv("WEBSOCKET_API_ENDPOINT")

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("ws-send-message: aws config: %v", err)
	}
	dbClient = dynamodb.NewFromConfig(awsCfg)
	mgmtClient = apigatewaymanagementapi.NewFromConfig(awsCfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = &wsEndpoint
	})
}

// subscriptionEvent mirrors subscribe.wireEvent, the JSON shape
// EventBridgePublisher publishes for one deferred subscription event.
type subscriptionEvent struct {
	Subscription string `json:"subscription"`
	NodeID       string `json:"node_id"`
	Kind         int    `json:"kind"`
	Field        string `json:"field,omitempty"`
}

func handler(ctx context.Context, event events.EventBridgeEvent) error {
	var detail subscriptionEvent
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		log.Printf("ws-send-message: malformed event detail: %v", err)
		return err
	}

	pk := "SUB#" + detail.Subscription
	keyCond := expression.Key("PK").Equal(expression.Value(pk)).
		And(expression.Key("SK").BeginsWith("CONN#"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		log.Printf("ws-send-message: build key expression: %v", err)
		return err
	}

	result, err := dbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(connectionsTable),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		log.Printf("ws-send-message: query connections for %s: %v", detail.Subscription, err)
		return err
	}

	message, err := json.Marshal(map[string]string{
		"action":       "subscriptionFired",
		"subscription": detail.Subscription,
		"node_id":      detail.NodeID,
		"field":        detail.Field,
	})
	if err != nil {
		return err
	}

	for _, item := range result.Items {
		connectionID := strings.TrimPrefix(item["SK"].(*types.AttributeValueMemberS).Value, "CONN#")

		_, err := mgmtClient.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: &connectionID,
			Data:         message,
		})
		if err != nil {
			var goneErr *apigwtypes.GoneException
			if errors.As(err, &goneErr) {
				log.Printf("ws-send-message: stale connection %s, deleting", connectionID)
				dbClient.DeleteItem(ctx, &dynamodb.DeleteItemInput{
					TableName: aws.String(connectionsTable),
					Key: map[string]types.AttributeValue{
						"PK": item["PK"],
						"SK": item["SK"],
					},
				})
			} else {
				log.Printf("ws-send-message: post to %s failed: %v", connectionID, err)
			}
		}
	}

	return nil
}

func main() {
	lambda.Start(handler)
}

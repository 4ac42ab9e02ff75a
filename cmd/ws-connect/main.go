// Command ws-connect is the API Gateway WebSocket $connect handler:
// it validates the client's Supabase JWT and records the connection
// in DynamoDB, grounded on cmd/ws-connect/main.go's auth-then-PutItem
// connection workflow.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/supabase-community/supabase-go"
)

var (
	dbClient         *dynamodb.Client
	supabaseClient   *supabase.Client
	connectionsTable string
)

func init() {
	connectionsTable = os.Getenv("CONNECTIONS_TABLE_NAME")
	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseKey := os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	if connectionsTable == "" || supabaseURL == "" || supabaseKey == "" {
		log.Fatal("ws-connect: CONNECTIONS_TABLE_NAME, SUPABASE_URL, SUPABASE_SERVICE_ROLE_KEY must be set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("ws-connect: aws config: %v", err)
	}
	dbClient = dynamodb.NewFromConfig(awsCfg)

	client, err := supabase.NewClient(supabaseURL, supabaseKey, nil)
	if err != nil {
		log.Fatalf("ws-connect: supabase client: %v", err)
	}
	supabaseClient = client
}

// handler authenticates the connecting client against Supabase (the
// only JWT auth path this handler has — API Gateway WebSocket
// handshakes carry no custom headers, only query parameters) and
// records the connection under PK "USER#<userID>", SK "CONN#<connectionID>".
// ws-send-message looks connections up under "SUB#<subscription>" keys,
// which this handler does not write.
func handler(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	token, ok := req.QueryStringParameters["token"]
	if !ok || token == "" {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusUnauthorized}, nil
	}

	user, err := supabaseClient.Auth.WithToken(token).GetUser()
	if err != nil {
		log.Printf("ws-connect: invalid token: %v", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusUnauthorized}, nil
	}

	connectionID := req.RequestContext.ConnectionID
	userID := user.ID.String()
	expireAt := time.Now().Add(2 * time.Hour).Unix()

	pk := "USER#" + userID
	sk := "CONN#" + connectionID

	_, err = dbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(connectionsTable),
		Item: map[string]types.AttributeValue{
			"PK":       &types.AttributeValueMemberS{Value: pk},
			"SK":       &types.AttributeValueMemberS{Value: sk},
			"GSI1PK":   &types.AttributeValueMemberS{Value: sk},
			"GSI1SK":   &types.AttributeValueMemberS{Value: pk},
			"expireAt": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expireAt)},
		},
	})
	if err != nil {
		log.Printf("ws-connect: PutItem failed: %v", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, nil
	}

	log.Printf("ws-connect: connected user %s as %s", userID, connectionID)
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

func main() {
	lambda.Start(handler)
}

//go:build wireinject

package di

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/google/wire"
	"go.uber.org/zap"

	"graphdb/internal/config"
	"graphdb/internal/edge"
	"graphdb/internal/hierarchy"
	"graphdb/internal/index"
	"graphdb/internal/modify"
	"graphdb/internal/observability"
	"graphdb/internal/query"
	"graphdb/internal/server"
	"graphdb/internal/snapshot"
	"graphdb/internal/subscribe"
)

// ProvideAWSConfig loads the default AWS SDK config once, shared by the
// DynamoDB and EventBridge clients (wire.go's ProvideDynamoDBClient
// pattern, generalized to one shared aws.Config provider).
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (awsconfig.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
}

func ProvideDynamoClient(awsCfg awsconfig.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg)
}

func ProvideEventBridgeClient(awsCfg awsconfig.Config) *eventbridge.Client {
	return eventbridge.NewFromConfig(awsCfg)
}

func ProvideHierarchy() *hierarchy.Hierarchy {
	return hierarchy.New()
}

func ProvideEdgeStore(h *hierarchy.Hierarchy) *edge.Store {
	return edge.NewStore(h)
}

func ProvidePublisher(client *eventbridge.Client, cfg *config.Config, log *zap.Logger) subscribe.Publisher {
	return subscribe.NewEventBridgePublisher(client, cfg.EventBusName, log)
}

func ProvideSubscribeStore(h *hierarchy.Hierarchy, pub subscribe.Publisher, log *zap.Logger) *subscribe.Store {
	return subscribe.NewStore(h, pub, log)
}

func ProvideMetrics(cfg *config.Config) *index.Metrics {
	return index.NewMetrics("graphdb", nil)
}

func ProvideIndexStore(h *hierarchy.Hierarchy, edges *edge.Store, cfg *config.Config, metrics *index.Metrics) *index.Store {
	return index.NewStore(cfg.IndexMaxEntries, cfg.IndexAdmitRate, NewMaterializer(h, edges), metrics)
}

func ProvideQueryEngine(h *hierarchy.Hierarchy, edges *edge.Store, idx *index.Store) *query.Engine {
	return &query.Engine{H: h, Edges: edges, Index: idx}
}

func ProvideAliases() modify.AliasResolver {
	return modify.NewAliasTable()
}

func ProvideExecutor(h *hierarchy.Hierarchy, edges *edge.Store, subs *subscribe.Store, aliases modify.AliasResolver) *modify.Executor {
	return modify.NewExecutor(h, edges, subs, aliases)
}

func ProvideRegistry() *server.Registry {
	return server.NewDefaultRegistry()
}

func ProvideSnapshotStore(client *dynamodb.Client, cfg *config.Config, log *zap.Logger) *snapshot.DynamoSnapshotStore {
	return snapshot.NewDynamoSnapshotStore(client, cfg.SnapshotTable, log)
}

func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("graphdb", cfg.EnableTracing)
}

var (
	AWSSet = wire.NewSet(
		ProvideAWSConfig,
		ProvideDynamoClient,
		ProvideEventBridgeClient,
	)

	EngineSet = wire.NewSet(
		ProvideHierarchy,
		ProvideEdgeStore,
		ProvidePublisher,
		ProvideSubscribeStore,
		ProvideMetrics,
		ProvideIndexStore,
		ProvideQueryEngine,
		ProvideAliases,
		ProvideExecutor,
		ProvideRegistry,
	)

	ObservabilitySet = wire.NewSet(
		ProvideTracer,
	)
)

// InitializeServer builds a complete Server, matching the teacher's
// InitializeAPI() shape (one wire.Build call per process entrypoint).
func InitializeServer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	wire.Build(
		AWSSet,
		EngineSet,
		ObservabilitySet,
		ProvideSnapshotStore,
		NewServer,
	)
	return nil, nil
}

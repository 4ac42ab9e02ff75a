// Code generated by Wire normally lives here; graphdb's build never
// invokes the wire binary, so this file is hand-written to the exact
// shape `wire` would emit from wire.go's InitializeServer graph: a
// flat sequence of provider calls with no conditional logic (wire
// never generates branches).
package di

import (
	"context"

	"go.uber.org/zap"

	"graphdb/internal/config"
)

// InitializeServer wires one Server from cfg, following wire.go's
// declared provider graph in dependency order: AWS config and clients
// first, then the engine singletons, then the observability and
// snapshot layers that depend on them.
func InitializeServer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	dynamoClient := ProvideDynamoClient(awsCfg)
	eventBridgeClient := ProvideEventBridgeClient(awsCfg)

	h := ProvideHierarchy()
	edges := ProvideEdgeStore(h)
	publisher := ProvidePublisher(eventBridgeClient, cfg, log)
	subs := ProvideSubscribeStore(h, publisher, log)
	metrics := ProvideMetrics(cfg)
	idx := ProvideIndexStore(h, edges, cfg, metrics)
	q := ProvideQueryEngine(h, edges, idx)
	aliases := ProvideAliases()
	executor := ProvideExecutor(h, edges, subs, aliases)
	registry := ProvideRegistry()

	tracer := ProvideTracer(cfg)
	snap := ProvideSnapshotStore(dynamoClient, cfg, log)

	return NewServer(cfg, log, tracer, h, edges, subs, idx, metrics, executor, q, registry, snap), nil
}

// Command lambda exposes graphdb's admin HTTP surface behind API
// Gateway, following backend2/cmd/lambda/main.go's cold-start-in-init,
// chiadapter.ProxyWithContextV2 pattern.
package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"graphdb/internal/admin"
	"graphdb/internal/config"
	"graphdb/internal/di"
	"graphdb/internal/observability"
)

var (
	chiLambda     *chiadapter.ChiLambdaV2
	logger        *zap.Logger
	coldStart     = true
	coldStartTime time.Time
)

func init() {
	coldStartTime = time.Now()
	ctx := context.Background()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("graphdb lambda: config: %v", err)
	}

	logger, err = observability.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("graphdb lambda: logger: %v", err)
	}

	srv, err := di.InitializeServer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("graphdb lambda: dependency injection failed", zap.Error(err))
	}

	validator := admin.NewTokenValidator(cfg.JWTSecret, cfg.JWTIssuer)
	router := admin.NewRouter(&admin.StatsProvider{Hierarchy: srv.Hierarchy, Index: srv.Metrics, Config: cfg}, validator, logger)

	mux, ok := router.Setup().(*chi.Mux)
	if !ok {
		logger.Fatal("graphdb lambda: admin router did not return a *chi.Mux")
	}
	chiLambda = chiadapter.NewV2(mux)

	logger.Info("graphdb lambda: cold start complete", zap.Duration("duration", time.Since(coldStartTime)))
}

// Handler proxies one API Gateway HTTP API v2 request through the
// admin chi router.
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	resp, err := chiLambda.ProxyWithContextV2(ctx, req)
	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	if coldStart {
		resp.Headers["X-Cold-Start"] = "true"
		coldStart = false
	} else {
		resp.Headers["X-Cold-Start"] = "false"
	}
	return resp, err
}

func main() {
	lambda.Start(Handler)
}

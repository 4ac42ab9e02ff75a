// Command server runs the graphdb wire-protocol listener alongside its
// admin HTTP surface and metrics endpoint, following
// backend2/cmd/api/main.go's load-config/build-container/serve/
// graceful-shutdown shape.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"graphdb/internal/admin"
	"graphdb/internal/config"
	"graphdb/internal/di"
	"graphdb/internal/observability"
	"graphdb/internal/server"
	"graphdb/internal/snapshot"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config overlay")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("graphdb: config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("graphdb: logger: %v", err)
	}
	defer logger.Sync()

	srv, err := di.InitializeServer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("graphdb: dependency injection failed", zap.Error(err))
	}

	if err := restoreSnapshot(cfg, srv, logger); err != nil {
		logger.Warn("graphdb: starting with an empty hierarchy, snapshot restore failed", zap.Error(err))
	}

	watcher, err := config.NewWatcher(*configPath, cfg, logger)
	if err != nil {
		logger.Fatal("graphdb: config watcher", zap.Error(err))
	}
	defer watcher.Close()

	metricsSrv := observability.NewMetricsServer(cfg.MetricsAddr, srv.Metrics)
	go func() {
		if err := metricsSrv.Start(); err != nil {
			logger.Error("graphdb: metrics server stopped", zap.Error(err))
		}
	}()

	validator := admin.NewTokenValidator(cfg.JWTSecret, cfg.JWTIssuer)
	adminRouter := admin.NewRouter(&admin.StatsProvider{Hierarchy: srv.Hierarchy, Index: srv.Metrics, Config: cfg}, validator, logger)
	adminHTTP := &http.Server{Addr: cfg.AdminAddr, Handler: adminRouter.Setup()}
	go func() {
		if err := adminHTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Info("graphdb: admin server stopped", zap.Error(err))
		}
	}()

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		logger.Fatal("graphdb: listen", zap.Error(err))
	}
	logger.Info("graphdb: listening", zap.String("addr", cfg.ListenAddr), zap.String("environment", cfg.Environment))

	go acceptLoop(ln, srv, logger)

	stopSnapshot := startSnapshotLoop(ctx, cfg, srv, logger)
	defer stopSnapshot()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("graphdb: shutting down")
	ln.Close()
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 10*time.Second)
	defer shutdownCancel()
	adminHTTP.Shutdown(shutdownCtx)
	metricsSrv.Shutdown(shutdownCtx)

	if err := snapshot.SaveFile(cfg.SnapshotPath, srv.Hierarchy); err != nil {
		logger.Error("graphdb: final snapshot save failed", zap.Error(err))
	}
}

func acceptLoop(ln net.Listener, srv *di.Server, logger *zap.Logger) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go server.ServeConn(conn, srv.Registry, srv.NewSession(), logger)
	}
}

// restoreSnapshot overwrites the already-wired *hierarchy.Hierarchy in
// place, rather than replacing srv.Hierarchy's pointer, since edge.Store,
// query.Engine and the rest of di.Server's graph were built against
// that exact pointer identity.
func restoreSnapshot(cfg *config.Config, srv *di.Server, logger *zap.Logger) error {
	h, err := snapshot.LoadFile(cfg.SnapshotPath, nil)
	if err != nil {
		return err
	}
	*srv.Hierarchy = *h
	logger.Info("graphdb: restored snapshot", zap.String("path", cfg.SnapshotPath))
	return nil
}

func startSnapshotLoop(ctx context.Context, cfg *config.Config, srv *di.Server, logger *zap.Logger) func() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.SnapshotInterval) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := snapshot.SaveFile(cfg.SnapshotPath, srv.Hierarchy); err != nil {
					logger.Error("graphdb: periodic snapshot failed", zap.Error(err))
					continue
				}
				if srv.Snapshot != nil {
					if err := srv.Snapshot.Save(ctx, srv.Hierarchy); err != nil {
						logger.Warn("graphdb: remote snapshot save failed", zap.Error(err))
					}
				}
			case <-stop:
				return
			}
		}
	}()
	return func() { close(stop) }
}

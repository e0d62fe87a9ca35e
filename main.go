package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rag-console-backend/config"
	"rag-console-backend/controller"
	"rag-console-backend/dao"
	"rag-console-backend/router"
	"rag-console-backend/service/auth"
	"rag-console-backend/service/chunks"
	"rag-console-backend/service/ingest"
	"rag-console-backend/service/mq"
	"rag-console-backend/service/rag"
	"rag-console-backend/service/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to config file")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "path", *configPath, "err", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.Cfg.LogLevel(),
	})))

	if err := run(); err != nil {
		slog.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := dao.Init(&config.Cfg.Store)
	if err != nil {
		return err
	}

	objects, err := storage.New(&config.Cfg.OSS)
	if err != nil {
		return err
	}

	runner, err := buildRunner(objects)
	if err != nil {
		return err
	}

	ingestService := ingest.NewService(stores.Files, stores.Sites, runner, objects)

	var chunkService *chunks.Service
	var ragService *rag.Service
	if config.Cfg.ChatEnabled() {
		chunkService, err = chunks.New(ctx, &config.Cfg.Milvus)
		if err != nil {
			return err
		}
		defer chunkService.Close(context.Background())
		ingestService.SetPurger(chunkService)

		ragService, err = rag.New(config.Cfg)
		if err != nil {
			return err
		}
	} else {
		slog.Warn("model or milvus not configured, chat and chunk endpoints disabled")
	}

	var remote *ingest.RemoteClient
	if config.Cfg.Ingest.Mode == config.IngestModeRemote {
		remote = ingest.NewRemoteClient(config.Cfg.Ingest.RemoteBase)
	}

	reconciler := ingest.NewReconciler(stores.Files, stores.Sites, remote, config.Cfg.Ingest.PollInterval.Std())
	ingestService.SetReconciler(reconciler)
	reconciler.Start(ctx)
	defer reconciler.Stop()

	if config.Cfg.MQ.Enabled {
		if err := mq.Init(&config.Cfg.MQ, ingestService); err != nil {
			return err
		}
		defer mq.Shutdown()

		ingestService.SetDispatcher(func(siteID int64) {
			if err := mq.SendCrawlTask(context.Background(), siteID); err != nil {
				slog.Error("failed to dispatch crawl task", "site_id", siteID, "err", err)
			}
		})
	}

	authService := auth.NewService(stores.Users)
	controller.Init(ingestService, authService, ragService, chunkService)

	srv := &http.Server{
		Addr:    net.JoinHostPort(config.Cfg.Server.Host, config.Cfg.Server.Port),
		Handler: router.Register(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", srv.Addr, "ingest_mode", config.Cfg.Ingest.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildRunner 按配置选择摄取执行方式
func buildRunner(objects storage.ObjectStore) (ingest.Runner, error) {
	simulated := ingest.NewSimulatedRunner(&config.Cfg.Ingest)

	switch config.Cfg.Ingest.Mode {
	case config.IngestModeLocal:
		// 站点爬取没有本地实现，继续走模拟执行
		return ingest.NewETLRunner(config.Cfg, objects, simulated)
	case config.IngestModeRemote:
		return ingest.NewRemoteRunner(ingest.NewRemoteClient(config.Cfg.Ingest.RemoteBase)), nil
	default:
		return simulated, nil
	}
}

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "config/config.yaml"
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/mini-maxit/judge/internal/api"
	"github.com/mini-maxit/judge/internal/config"
	"github.com/mini-maxit/judge/internal/database"
	"github.com/mini-maxit/judge/internal/docker"
	"github.com/mini-maxit/judge/internal/engine"
	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/pipeline"
	"github.com/mini-maxit/judge/internal/rabbitmq"
	"github.com/mini-maxit/judge/internal/rabbitmq/channel"
	"github.com/mini-maxit/judge/internal/rabbitmq/consumer"
	"github.com/mini-maxit/judge/internal/rabbitmq/responder"
	"github.com/mini-maxit/judge/internal/repository"
	"github.com/mini-maxit/judge/internal/sandbox"
	"github.com/mini-maxit/judge/internal/stages/compiler"
	"github.com/mini-maxit/judge/internal/stages/executor"
	"github.com/mini-maxit/judge/internal/storage"
	"github.com/mini-maxit/judge/pkg/languages"
)

func main() {
	defer logger.Sync()
	logger := logger.NewNamedLogger("main")

	logger.Info("Starting judge")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.NewConfig()

	registry := languages.NewRegistry()
	if cfg.LanguagesFile != "" {
		if err := registry.LoadFile(cfg.LanguagesFile); err != nil {
			logger.Fatalf("Failed to load languages from %s: %s", cfg.LanguagesFile, err)
		}
	}

	// Initialize the sandbox stack
	dCli, err := docker.NewDockerClient(cfg.Sandbox.JobsDataVolume, cfg.Sandbox.WorkspaceRoot)
	if err != nil {
		logger.Fatalf("Failed to initialize Docker client: %s", err)
	}
	exec := executor.NewExecutor(dCli, cfg.Sandbox.ExecTimeout, cfg.Sandbox.MaxOutputBytes)
	provisioner := sandbox.NewProvisioner(dCli, compiler.NewCompiler(exec), sandbox.Config{
		WorkspaceRoot:   cfg.Sandbox.WorkspaceRoot,
		DataVolume:      dCli.DataVolumeName(),
		MemoryBytes:     cfg.Sandbox.MemoryBytes,
		NanoCPUs:        cfg.Sandbox.NanoCPUs,
		PidsLimit:       cfg.Sandbox.PidsLimit,
		User:            cfg.Sandbox.User,
		NetworkDisabled: cfg.Sandbox.NetworkDisabled,
	})
	judge := engine.NewEngine(registry, provisioner, exec)

	// Storage collaborators
	db, err := database.NewPostgresDatabase(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %s", err)
	}
	submissions := repository.NewSubmissionRepository(db)

	objects, err := storage.NewMinioObjectStore(storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		UseSSL:    cfg.MinioUseSSL,
		Bucket:    cfg.MinioBucket,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize object storage: %s", err)
	}
	problems := storage.NewProblemStorage(objects)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		problems = storage.NewCachedProblemStorage(problems, redisClient, cfg.RedisTTL)
	}

	// Connect to RabbitMQ
	conn := rabbitmq.NewRabbitMqConnection(cfg)
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Errorf("Failed to close RabbitMQ connection: %s", err)
		}
	}()

	jobsChannel := channel.NewAmqpChannel(rabbitmq.NewRabbitMQChannel(conn))
	eventsChannel := channel.NewAmqpChannel(rabbitmq.NewRabbitMQChannel(conn))
	if err := responder.DeclareQueue(eventsChannel, cfg.EventsQueueName); err != nil {
		logger.Fatalf("Failed to declare events queue %s: %s", cfg.EventsQueueName, err)
	}
	publisher := responder.NewPublisher(eventsChannel, cfg.EventsQueueName)

	worker := pipeline.NewWorker(submissions, problems, judge, publisher)
	jobs := consumer.NewConsumer(jobsChannel, cfg.JobsQueueName, worker)

	// HTTP entry points
	gin.SetMode(gin.ReleaseMode)
	limiter := api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.NewRouter(api.NewHandler(judge, registry, worker), limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Serving HTTP on :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("HTTP server failed: %s", err)
			stop()
		}
	}()

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Prune(10 * time.Minute)
			}
		}
	}()

	logger.Info("Listening for jobs")
	if err := jobs.Listen(ctx); err != nil {
		logger.Errorf("Consumer stopped: %s", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Graceful shutdown failed: %s", err)
	}
	if err := jobsChannel.Close(); err != nil {
		logger.Warnf("Failed to close jobs channel: %s", err)
	}
	if err := eventsChannel.Close(); err != nil {
		logger.Warnf("Failed to close events channel: %s", err)
	}
	logger.Info("Judge stopped")
}

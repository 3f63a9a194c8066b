package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"charbit-go/internal/config"
	"charbit-go/internal/infra/database"
	infraES "charbit-go/internal/infra/elasticsearch"
	infraKafka "charbit-go/internal/infra/kafka"
	"charbit-go/internal/repository"
	"charbit-go/internal/service"
	"charbit-go/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// 搜索同步 worker：消费角色事件并写入 Elasticsearch
func main() {
	_ = godotenv.Load()

	configPath := os.Getenv("CHARBIT_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(logger.Options{
		Service:    "charbit-worker",
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	if !cfg.Kafka.Enabled || !cfg.Elasticsearch.Enabled {
		logger.Fatal("Search sync worker requires kafka and elasticsearch to be enabled")
	}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	esClient, err := infraES.NewClient(&cfg.Elasticsearch)
	if err != nil {
		logger.Fatal("Failed to init elasticsearch", zap.Error(err))
	}
	index := infraES.NewCharacterIndex(esClient, cfg.Elasticsearch.CharacterIndex())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := index.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure elasticsearch index", zap.Error(err))
	}

	searchService := service.NewSearchService(repository.NewCharacterRepository(database.Get()), index)

	// 监听系统信号，优雅退出
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	logger.Info("Search sync worker started",
		zap.String("topic", cfg.Kafka.CharacterTopic()),
		zap.String("group", cfg.Kafka.GroupID),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)

	infraKafka.StartCharacterEventConsumer(ctx, &cfg.Kafka, searchService.HandleEvent)
}

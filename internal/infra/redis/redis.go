// Package redis 创建缓存使用的 Redis 客户端
package redis

import (
	"context"
	"fmt"
	"time"

	"charbit-go/internal/config"
	"charbit-go/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pingTimeout = 3 * time.Second

// Connect 建立连接并在超时内 ping 通，失败时关闭客户端
func Connect(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr(), err)
	}

	logger.Info("Redis cache connected", zap.String("addr", cfg.Addr()), zap.Int("db", cfg.DB))
	return client, nil
}

// ConnectOptional 未启用或连接失败时返回 nil，调用方退回进程内缓存
func ConnectOptional(ctx context.Context, cfg *config.RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}
	client, err := Connect(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to local cache", zap.Error(err))
		return nil
	}
	return client
}

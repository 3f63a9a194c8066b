package elasticsearch

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"charbit-go/pkg/logger"

	"go.uber.org/zap"
)

// characterIndexMapping 角色索引 mapping，标签按 keyword 精确匹配
const characterIndexMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0,
		"analysis": {
			"normalizer": {
				"lowercase_normalizer": {"type": "custom", "filter": ["lowercase"]}
			}
		}
	},
	"mappings": {
		"properties": {
			"id": {"type": "long"},
			"creator_id": {"type": "keyword"},
			"creator_name": {"type": "keyword"},
			"name": {
				"type": "text",
				"analyzer": "standard",
				"fields": {"lower": {"type": "keyword", "normalizer": "lowercase_normalizer", "ignore_above": 256}}
			},
			"nickname": {"type": "text", "analyzer": "standard"},
			"about": {"type": "text", "analyzer": "standard"},
			"tags": {"type": "keyword"},
			"likes_count": {"type": "long"},
			"favorites_count": {"type": "long"},
			"views_count": {"type": "long"},
			"created_at": {"type": "date", "format": "strict_date_optional_time||epoch_millis"}
		}
	}
}`

// EnsureIndex 确保角色索引存在，不存在则创建
func (ix *CharacterIndex) EnsureIndex(ctx context.Context) error {
	resp, err := ix.client.Indices.Exists([]string{ix.index}, ix.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		logger.Info("Elasticsearch characters index already exists", zap.String("index", ix.index))
		return nil
	}

	resp, err = ix.client.Indices.Create(
		ix.index,
		ix.client.Indices.Create.WithContext(ctx),
		ix.client.Indices.Create.WithBody(strings.NewReader(characterIndexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("create index failed: %s", resp.String())
	}

	logger.Info("Elasticsearch characters index created", zap.String("index", ix.index))
	return nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"charbit-go/internal/api/dto"
	"charbit-go/internal/repository"
	"charbit-go/pkg/logger"

	"go.uber.org/zap"
)

// PredefinedTags 平台预设标签
var PredefinedTags = []string{
	"OC", "Anime", "Furry", "Human", "Fantasy", "Sci-Fi", "Horror", "Romance", "Adventure", "Mystery",
	"Cute", "Dark", "Mysterious", "Funny", "Serious", "Friendly", "Villain", "Hero", "Anti-Hero", "Magical",
}

// Cache 字符串 TTL 缓存
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type TagService struct {
	tagRepo *repository.TagRepository
	cache   Cache
	ttl     time.Duration
}

// NewTagService cache 为 nil 或 ttl 非正时不缓存
func NewTagService(tagRepo *repository.TagRepository, cache Cache, ttl time.Duration) *TagService {
	return &TagService{tagRepo: tagRepo, cache: cache, ttl: ttl}
}

// Trending 公开角色中使用最多的标签
func (s *TagService) Trending(ctx context.Context, limit int) ([]dto.TrendingTag, error) {
	limit = clampLimit(limit, defaultListLimit, maxListLimit)
	key := fmt.Sprintf("tags:trending:%s:%d", s.trendingGeneration(ctx), limit)

	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	counts, err := s.tagRepo.Trending(ctx, limit)
	if err != nil {
		return nil, err
	}
	tags := make([]dto.TrendingTag, 0, len(counts))
	for _, c := range counts {
		tags = append(tags, dto.TrendingTag{Tag: c.Tag, Count: c.Count})
	}

	s.toCache(ctx, key, tags)
	return tags, nil
}

// InvalidateTrending 角色增删改后调用，切换缓存代次使旧结果失效
func (s *TagService) InvalidateTrending(ctx context.Context) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	gen := strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := s.cache.Set(ctx, trendingGenerationKey, gen, 0); err != nil {
		logger.Warn("Failed to invalidate trending tags", zap.Error(err))
	}
}

const trendingGenerationKey = "tags:trending:gen"

func (s *TagService) trendingGeneration(ctx context.Context) string {
	if s.cache == nil || s.ttl <= 0 {
		return "0"
	}
	gen, ok, err := s.cache.Get(ctx, trendingGenerationKey)
	if err != nil || !ok {
		return "0"
	}
	return gen
}

// All 预设标签加上公开角色用过的标签，预设标签在前
func (s *TagService) All(ctx context.Context) ([]string, error) {
	used, err := s.tagRepo.Distinct(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(PredefinedTags)+len(used))
	all := make([]string, 0, len(PredefinedTags)+len(used))
	for _, list := range [][]string{PredefinedTags, used} {
		for _, t := range list {
			if !seen[t] {
				seen[t] = true
				all = append(all, t)
			}
		}
	}
	return all, nil
}

func (s *TagService) fromCache(ctx context.Context, key string) ([]dto.TrendingTag, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Failed to read tag cache", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var tags []dto.TrendingTag
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, false
	}
	return tags, true
}

func (s *TagService) toCache(ctx context.Context, key string, tags []dto.TrendingTag) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	payload, err := json.Marshal(tags)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
		logger.Warn("Failed to write tag cache", zap.String("key", key), zap.Error(err))
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charbit-go/internal/api/dto"
	"charbit-go/internal/infra/kafka"
	"charbit-go/internal/model"
	"charbit-go/internal/repository"
	"charbit-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrSearchDisabled = errors.New("搜索服务未启用")

// SearchIndex 角色搜索索引
type SearchIndex interface {
	Upsert(ctx context.Context, c *model.Character) error
	Delete(ctx context.Context, characterID int64) error
	BulkUpsert(ctx context.Context, characters []model.Character) (success, failed int, err error)
	SearchIDs(ctx context.Context, keyword string, limit int) ([]int64, error)
}

// EventPublisher 角色变更事件发布
type EventPublisher interface {
	PublishCharacterEvent(ctx context.Context, event kafka.CharacterEvent) error
}

type SearchService struct {
	characterRepo *repository.CharacterRepository
	index         SearchIndex
}

// NewSearchService index 为 nil 时只走数据库搜索
func NewSearchService(characterRepo *repository.CharacterRepository, index SearchIndex) *SearchService {
	return &SearchService{characterRepo: characterRepo, index: index}
}

// Search 搜索公开角色（ES 优先，失败则降级到 DB）
func (s *SearchService) Search(ctx context.Context, keyword string, limit int) ([]model.Character, error) {
	if s.index != nil {
		list, err := s.searchFromIndex(ctx, keyword, limit)
		if err == nil {
			return list, nil
		}
		logger.Warn("ES search failed, fallback to DB", zap.Error(err))
	}
	return s.characterRepo.Search(ctx, keyword, limit)
}

func (s *SearchService) searchFromIndex(ctx context.Context, keyword string, limit int) ([]model.Character, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ids, err := s.index.SearchIDs(ctx, keyword, limit)
	if err != nil {
		return nil, err
	}
	found, err := s.characterRepo.GetByIDsWithCreator(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*model.Character, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	// 索引可能滞后，以数据库中的可见性为准
	ordered := make([]model.Character, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok && c.IsPublic() {
			ordered = append(ordered, *c)
		}
	}
	return ordered, nil
}

// SyncCharacter 按数据库当前状态同步单个角色：公开则写入，否则从索引移除
func (s *SearchService) SyncCharacter(ctx context.Context, characterID int64) error {
	if s.index == nil {
		return ErrSearchDisabled
	}
	c, err := s.characterRepo.GetByIDWithCreator(ctx, characterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.index.Delete(ctx, characterID)
		}
		return err
	}
	if !c.IsPublic() {
		return s.index.Delete(ctx, characterID)
	}
	return s.index.Upsert(ctx, c)
}

// HandleEvent 消费角色事件
func (s *SearchService) HandleEvent(ctx context.Context, event kafka.CharacterEvent) error {
	switch event.Type {
	case kafka.EventUpsert:
		return s.SyncCharacter(ctx, event.CharacterID)
	case kafka.EventDelete:
		if s.index == nil {
			return ErrSearchDisabled
		}
		return s.index.Delete(ctx, event.CharacterID)
	default:
		return fmt.Errorf("unknown character event type: %s", event.Type)
	}
}

// PublishCharacterEvent 未启用 Kafka 时由 API 进程直接同步索引
func (s *SearchService) PublishCharacterEvent(ctx context.Context, event kafka.CharacterEvent) error {
	return s.HandleEvent(ctx, event)
}

// Reindex 将全部公开角色批量写入索引
func (s *SearchService) Reindex(ctx context.Context) (*dto.ReindexResult, error) {
	if s.index == nil {
		return nil, ErrSearchDisabled
	}
	list, err := s.characterRepo.ListAllPublic(ctx)
	if err != nil {
		return nil, err
	}
	success, failed, err := s.index.BulkUpsert(ctx, list)
	if err != nil {
		return nil, err
	}
	return &dto.ReindexResult{Total: len(list), Success: success, Failed: failed}, nil
}

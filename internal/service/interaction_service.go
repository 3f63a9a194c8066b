package service

import (
	"context"
	"errors"

	"charbit-go/internal/api/dto"
	"charbit-go/internal/infra/kafka"
	"charbit-go/internal/repository"

	"gorm.io/gorm"
)

// InteractionService 点赞与收藏
type InteractionService struct {
	characterRepo   *repository.CharacterRepository
	interactionRepo *repository.InteractionRepository
	events          EventPublisher
}

func NewInteractionService(characterRepo *repository.CharacterRepository, interactionRepo *repository.InteractionRepository, events EventPublisher) *InteractionService {
	return &InteractionService{characterRepo: characterRepo, interactionRepo: interactionRepo, events: events}
}

// ToggleLike 切换点赞，非公开角色只有创建者可操作
func (s *InteractionService) ToggleLike(ctx context.Context, userID string, characterID int64) (*dto.LikeResult, error) {
	if err := s.ensureVisible(ctx, userID, characterID); err != nil {
		return nil, err
	}
	liked, err := s.interactionRepo.ToggleLike(ctx, userID, characterID)
	if err != nil {
		return nil, err
	}
	publishEvent(ctx, s.events, kafka.EventUpsert, characterID)
	return &dto.LikeResult{Liked: liked}, nil
}

// ToggleFavorite 切换收藏，非公开角色只有创建者可操作
func (s *InteractionService) ToggleFavorite(ctx context.Context, userID string, characterID int64) (*dto.FavoriteResult, error) {
	if err := s.ensureVisible(ctx, userID, characterID); err != nil {
		return nil, err
	}
	favorited, err := s.interactionRepo.ToggleFavorite(ctx, userID, characterID)
	if err != nil {
		return nil, err
	}
	publishEvent(ctx, s.events, kafka.EventUpsert, characterID)
	return &dto.FavoriteResult{Favorited: favorited}, nil
}

// Status 当前用户是否点赞、收藏了角色
func (s *InteractionService) Status(ctx context.Context, userID string, characterID int64) (*dto.CharacterStatusData, error) {
	liked, err := s.interactionRepo.IsLiked(ctx, userID, characterID)
	if err != nil {
		return nil, err
	}
	favorited, err := s.interactionRepo.IsFavorited(ctx, userID, characterID)
	if err != nil {
		return nil, err
	}
	return &dto.CharacterStatusData{Liked: liked, Favorited: favorited}, nil
}

// ListFavorites 用户收藏的角色
func (s *InteractionService) ListFavorites(ctx context.Context, userID string) ([]dto.CharacterInfo, error) {
	list, err := s.interactionRepo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toCharacterInfos(list), nil
}

// ensureVisible 角色不存在或对当前用户不可见时返回 ErrCharacterNotFound
func (s *InteractionService) ensureVisible(ctx context.Context, userID string, characterID int64) error {
	c, err := s.characterRepo.GetByID(ctx, characterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCharacterNotFound
		}
		return err
	}
	if !c.IsPublic() && c.CreatorID != userID {
		return ErrCharacterNotFound
	}
	return nil
}

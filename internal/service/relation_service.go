package service

import (
	"context"
	"errors"

	"charbit-go/internal/api/dto"
	"charbit-go/internal/repository"

	"gorm.io/gorm"
)

var ErrCannotFollowSelf = errors.New("不能关注自己")

const maxRelationLimit = 100

// RelationService 关注关系
type RelationService struct {
	relationRepo   *repository.RelationRepository
	friendshipRepo *repository.FriendshipRepository
	userRepo       *repository.UserRepository
}

func NewRelationService(relationRepo *repository.RelationRepository, friendshipRepo *repository.FriendshipRepository, userRepo *repository.UserRepository) *RelationService {
	return &RelationService{relationRepo: relationRepo, friendshipRepo: friendshipRepo, userRepo: userRepo}
}

// ToggleFollow 切换关注；拉黑关系中的双方不能关注
func (s *RelationService) ToggleFollow(ctx context.Context, followerID, followingID string) (*dto.FollowResult, error) {
	if followerID == followingID {
		return nil, ErrCannotFollowSelf
	}
	if err := ensureUser(ctx, s.userRepo, followingID); err != nil {
		return nil, err
	}

	blocked, err := s.friendshipRepo.IsBlocked(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrUserBlocked
	}

	following, err := s.relationRepo.Toggle(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}
	return &dto.FollowResult{Following: following}, nil
}

// IsFollowing 是否已关注
func (s *RelationService) IsFollowing(ctx context.Context, followerID, followingID string) (*dto.FollowResult, error) {
	following, err := s.relationRepo.Exists(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}
	return &dto.FollowResult{Following: following}, nil
}

// ListFollowers 粉丝列表
func (s *RelationService) ListFollowers(ctx context.Context, userID string, limit int) ([]dto.UserBrief, error) {
	users, err := s.relationRepo.ListFollowers(ctx, userID, clampLimit(limit, maxRelationLimit, maxRelationLimit))
	if err != nil {
		return nil, err
	}
	return toUserBriefs(users), nil
}

// ListFollowing 关注列表
func (s *RelationService) ListFollowing(ctx context.Context, userID string, limit int) ([]dto.UserBrief, error) {
	users, err := s.relationRepo.ListFollowing(ctx, userID, clampLimit(limit, maxRelationLimit, maxRelationLimit))
	if err != nil {
		return nil, err
	}
	return toUserBriefs(users), nil
}

func ensureUser(ctx context.Context, userRepo *repository.UserRepository, userID string) error {
	if _, err := userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

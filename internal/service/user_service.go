package service

import (
	"context"
	"errors"
	"slices"

	"charbit-go/internal/api/dto"
	"charbit-go/internal/model"
	"charbit-go/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrInvalidTheme      = errors.New("无效的主题")
	ErrInvalidVisibility = errors.New("无效的可见性设置")
)

var profileVisibilities = []string{model.VisibilityPublic, model.VisibilityPrivate, model.VisibilityRestricted}

type UserService struct {
	userRepo         *repository.UserRepository
	relationRepo     *repository.RelationRepository
	verificationRepo *repository.VerificationRepository
}

func NewUserService(userRepo *repository.UserRepository, relationRepo *repository.RelationRepository, verificationRepo *repository.VerificationRepository) *UserService {
	return &UserService{userRepo: userRepo, relationRepo: relationRepo, verificationRepo: verificationRepo}
}

// GetByID 用户详情
func (s *UserService) GetByID(ctx context.Context, id string) (*dto.UserProfileData, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.buildProfile(ctx, user)
}

// GetByUsername 按用户名查询公开主页
func (s *UserService) GetByUsername(ctx context.Context, username string) (*dto.UserProfileData, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.buildProfile(ctx, user)
}

// UpdateTheme 设置界面主题
func (s *UserService) UpdateTheme(ctx context.Context, userID, theme string) (*dto.UserInfo, error) {
	if !slices.Contains(model.Themes, theme) {
		return nil, ErrInvalidTheme
	}
	user, err := s.userRepo.Update(ctx, userID, map[string]interface{}{"theme": theme})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserInfo(user), nil
}

// UpdateProfileVisibility 设置主页可见性
func (s *UserService) UpdateProfileVisibility(ctx context.Context, userID, visibility string) error {
	if !slices.Contains(profileVisibilities, visibility) {
		return ErrInvalidVisibility
	}
	_, err := s.userRepo.UpsertProfileVisibility(ctx, userID, visibility)
	return err
}

// GetRole 查询用户角色，供管理员中间件使用
func (s *UserService) GetRole(ctx context.Context, userID string) (string, error) {
	role, err := s.userRepo.GetRole(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrUserNotFound
	}
	return role, err
}

func (s *UserService) buildProfile(ctx context.Context, user *model.User) (*dto.UserProfileData, error) {
	data := &dto.UserProfileData{
		UserInfo:          *toUserInfo(user),
		ProfileVisibility: model.VisibilityPublic,
	}

	profile, err := s.userRepo.GetProfile(ctx, user.ID)
	switch {
	case err == nil:
		data.ProfileVisibility = profile.ProfileVisibility
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	verifications, err := s.verificationRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	data.Verifications = toVerificationInfos(verifications)

	if data.FollowerCount, err = s.relationRepo.CountFollowers(ctx, user.ID); err != nil {
		return nil, err
	}
	if data.FollowingCount, err = s.relationRepo.CountFollowing(ctx, user.ID); err != nil {
		return nil, err
	}
	return data, nil
}

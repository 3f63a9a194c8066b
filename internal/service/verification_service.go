package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"charbit-go/internal/api/dto"
	"charbit-go/internal/model"
	"charbit-go/internal/repository"
)

var (
	ErrInvalidPlatform      = errors.New("不支持的社交平台")
	ErrVerificationNotFound = errors.New("该用户没有此平台的认证申请")
)

type VerificationService struct {
	verificationRepo *repository.VerificationRepository
	userRepo         *repository.UserRepository
}

func NewVerificationService(verificationRepo *repository.VerificationRepository, userRepo *repository.UserRepository) *VerificationService {
	return &VerificationService{verificationRepo: verificationRepo, userRepo: userRepo}
}

// Add 登记社交账号，同一平台重复提交时更新用户名
func (s *VerificationService) Add(ctx context.Context, userID string, req *dto.SocialVerificationRequest) (*dto.VerificationInfo, error) {
	if !slices.Contains(model.SocialPlatforms, req.Platform) {
		return nil, ErrInvalidPlatform
	}
	v, err := s.verificationRepo.Upsert(ctx, userID, req.Platform, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, err
	}
	info := toVerificationInfos([]model.SocialMediaVerification{*v})[0]
	return &info, nil
}

// Verify 管理员确认认证
func (s *VerificationService) Verify(ctx context.Context, userID, platform string) (*dto.VerificationInfo, error) {
	if !slices.Contains(model.SocialPlatforms, platform) {
		return nil, ErrInvalidPlatform
	}
	ok, err := s.verificationRepo.MarkVerified(ctx, userID, platform)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrVerificationNotFound
	}
	v, err := s.verificationRepo.Get(ctx, userID, platform)
	if err != nil {
		return nil, err
	}
	info := toVerificationInfos([]model.SocialMediaVerification{*v})[0]
	return &info, nil
}

// List 用户的社交认证
func (s *VerificationService) List(ctx context.Context, userID string) ([]dto.VerificationInfo, error) {
	list, err := s.verificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toVerificationInfos(list), nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"charbit-go/internal/api/dto"
	"charbit-go/internal/infra/oauth"
	"charbit-go/internal/model"
	"charbit-go/internal/repository"
	"charbit-go/pkg/utils"

	"gorm.io/gorm"
)

var ErrInvalidProfile = errors.New("登录信息不完整")

type AuthService struct {
	userRepo *repository.UserRepository
	jwt      *utils.JWTManager
}

func NewAuthService(userRepo *repository.UserRepository, jwt *utils.JWTManager) *AuthService {
	return &AuthService{userRepo: userRepo, jwt: jwt}
}

// LoginWithProfile OAuth 回调后写入用户；老用户只刷新账号资料
func (s *AuthService) LoginWithProfile(ctx context.Context, profile *oauth.Profile) (*dto.UserInfo, error) {
	if profile == nil || profile.Subject == "" {
		return nil, ErrInvalidProfile
	}

	user := &model.User{
		ID:                       profile.Subject,
		Email:                    optionalString(profile.Email),
		FirstName:                optionalString(profile.GivenName),
		LastName:                 optionalString(profile.FamilyName),
		ProfileImageURL:          optionalString(profile.Picture),
		CreatorApplicationStatus: model.CreatorStatusNone,
		Theme:                    model.Themes[0],
		UserRole:                 model.RoleUser,
	}
	saved, err := s.userRepo.Upsert(ctx, user)
	if err != nil {
		return nil, err
	}
	return toUserInfo(saved), nil
}

// IssueToken 为已登录用户签发 API Token
func (s *AuthService) IssueToken(ctx context.Context, userID string) (*dto.TokenData, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	token, err := s.jwt.GenerateToken(userID)
	if err != nil {
		return nil, err
	}
	return &dto.TokenData{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int(s.jwt.TTL().Seconds()),
	}, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

package service

import (
	"context"
	"errors"
	"strings"

	"charbit-go/internal/api/dto"
	"charbit-go/internal/model"
	"charbit-go/internal/repository"
	"charbit-go/pkg/utils"

	"gorm.io/gorm"
)

var (
	ErrApplicationPending    = errors.New("创作者申请正在审核中")
	ErrAlreadyCreator        = errors.New("您已经是创作者了")
	ErrYoutubeHandleRequired = errors.New("YouTube 申请需要填写 handle")
	ErrEmailRequired         = errors.New("邮箱申请需要账号绑定邮箱")
	ErrInvalidApplication    = errors.New("申请类型无效")
	ErrUsernameTaken         = errors.New("用户名已被占用")
	ErrApplicationNotPending = errors.New("该用户没有待审核的创作者申请")
)

// 创作者申请方式
const (
	ApplicationYoutube = "youtube"
	ApplicationEmail   = "email"
)

const (
	defaultCreatorLimit = 10
	maxCreatorLimit     = 50
)

// CreatorService 创作者申请与审核
type CreatorService struct {
	userRepo         *repository.UserRepository
	verificationRepo *repository.VerificationRepository
}

func NewCreatorService(userRepo *repository.UserRepository, verificationRepo *repository.VerificationRepository) *CreatorService {
	return &CreatorService{userRepo: userRepo, verificationRepo: verificationRepo}
}

// Apply 提交创作者申请；被拒绝后可以重新提交
func (s *CreatorService) Apply(ctx context.Context, userID string, req *dto.CreatorApplyRequest) (*dto.CreatorStatusData, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.CreatorApplicationStatus == model.CreatorStatusPending {
		return nil, ErrApplicationPending
	}
	if user.IsCreator {
		return nil, ErrAlreadyCreator
	}

	var username, creatorName string
	updates := map[string]interface{}{
		"creator_application_status": model.CreatorStatusPending,
	}

	switch req.ApplicationType {
	case ApplicationYoutube:
		handle := ""
		if req.YoutubeHandle != nil {
			handle = utils.SanitizeHandle(*req.YoutubeHandle)
		}
		if handle == "" {
			return nil, ErrYoutubeHandleRequired
		}
		username, creatorName = handle, handle
		updates["youtube_handle"] = handle
	case ApplicationEmail:
		if user.Email == nil || strings.TrimSpace(*user.Email) == "" {
			return nil, ErrEmailRequired
		}
		username = *user.Email
		creatorName = utils.EmailLocalPart(*user.Email)
	default:
		return nil, ErrInvalidApplication
	}

	taken, err := s.userRepo.ExistsByUsernameExcept(ctx, username, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	updates["username"] = username
	updates["creator_name"] = creatorName
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) != "" {
		updates["display_name"] = strings.TrimSpace(*req.DisplayName)
	}

	updated, err := s.userRepo.Update(ctx, userID, updates)
	if err != nil {
		return nil, err
	}
	return &dto.CreatorStatusData{Status: updated.CreatorApplicationStatus, IsCreator: updated.IsCreator}, nil
}

// Status 创作者申请状态
func (s *CreatorService) Status(ctx context.Context, userID string) (*dto.CreatorStatusData, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.CreatorStatusData{Status: model.CreatorStatusNone}, nil
		}
		return nil, err
	}
	status := user.CreatorApplicationStatus
	if status == "" {
		status = model.CreatorStatusNone
	}
	return &dto.CreatorStatusData{Status: status, IsCreator: user.IsCreator}, nil
}

// Approve 通过待审核的申请
func (s *CreatorService) Approve(ctx context.Context, userID string) (*dto.CreatorStatusData, error) {
	return s.review(ctx, userID, map[string]interface{}{
		"creator_application_status": model.CreatorStatusApproved,
		"is_creator":                 true,
	})
}

// Reject 拒绝待审核的申请
func (s *CreatorService) Reject(ctx context.Context, userID string) (*dto.CreatorStatusData, error) {
	return s.review(ctx, userID, map[string]interface{}{
		"creator_application_status": model.CreatorStatusRejected,
	})
}

func (s *CreatorService) review(ctx context.Context, userID string, updates map[string]interface{}) (*dto.CreatorStatusData, error) {
	ok, err := s.userRepo.UpdateWhereStatus(ctx, userID, model.CreatorStatusPending, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := ensureUser(ctx, s.userRepo, userID); err != nil {
			return nil, err
		}
		return nil, ErrApplicationNotPending
	}
	return s.Status(ctx, userID)
}

// Featured 按角色数量排序的创作者，附带社交认证
func (s *CreatorService) Featured(ctx context.Context, limit int) ([]dto.FeaturedCreator, error) {
	users, counts, err := s.userRepo.ListFeaturedCreators(ctx, clampLimit(limit, defaultCreatorLimit, maxCreatorLimit))
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
	}
	verifications, err := s.verificationRepo.ListByUsers(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.FeaturedCreator, 0, len(users))
	for i := range users {
		items = append(items, dto.FeaturedCreator{
			UserBrief:      toUserBrief(&users[i]),
			CharacterCount: counts[users[i].ID],
			Verifications:  toVerificationInfos(verifications[users[i].ID]),
		})
	}
	return items, nil
}

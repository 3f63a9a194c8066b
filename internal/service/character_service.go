package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"charbit-go/internal/api/dto"
	"charbit-go/internal/infra/kafka"
	"charbit-go/internal/model"
	"charbit-go/internal/repository"
	"charbit-go/pkg/logger"
	"charbit-go/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotCharacterOwner     = errors.New("无权操作该角色")
	ErrAvatarStorageDisabled = errors.New("头像存储未启用")
	ErrInvalidAvatar         = errors.New("头像只支持 jpg、png、gif、webp 图片")
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 20
)

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AvatarStorage 头像对象存储
type AvatarStorage interface {
	UploadAvatar(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}

// TagInvalidator 角色变更后清理标签缓存
type TagInvalidator interface {
	InvalidateTrending(ctx context.Context)
}

type CharacterService struct {
	characterRepo   *repository.CharacterRepository
	interactionRepo *repository.InteractionRepository
	search          *SearchService
	events          EventPublisher
	avatars         AvatarStorage
	tags            TagInvalidator
}

// NewCharacterService events、avatars 可为 nil
func NewCharacterService(
	characterRepo *repository.CharacterRepository,
	interactionRepo *repository.InteractionRepository,
	search *SearchService,
	events EventPublisher,
	avatars AvatarStorage,
) *CharacterService {
	return &CharacterService{
		characterRepo:   characterRepo,
		interactionRepo: interactionRepo,
		search:          search,
		events:          events,
		avatars:         avatars,
	}
}

// WithTagInvalidator 设置标签缓存失效回调
func (s *CharacterService) WithTagInvalidator(tags TagInvalidator) *CharacterService {
	s.tags = tags
	return s
}

// Create 创建角色，标签中始终包含 OC
func (s *CharacterService) Create(ctx context.Context, userID string, req *dto.CreateCharacterRequest) (*dto.CharacterInfo, error) {
	visibility := req.Visibility
	if visibility == "" {
		visibility = model.VisibilityPublic
	}

	c := &model.Character{
		CreatorID:   userID,
		Name:        req.Name,
		Nickname:    req.Nickname,
		Personality: req.Personality,
		About:       req.About,
		AvatarURL:   req.AvatarURL,
		Visibility:  visibility,
		Tags:        datatypes.JSONSlice[string](utils.NormalizeTags(req.Tags)),
	}
	if err := s.characterRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventUpsert, c.ID)

	created, err := s.characterRepo.GetByIDWithCreator(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return toCharacterInfo(created), nil
}

// Get 角色详情；非公开角色只对创建者可见。登录的非创建者浏览时记录最近浏览
func (s *CharacterService) Get(ctx context.Context, id int64, viewerID string) (*dto.CharacterInfo, error) {
	c, err := s.characterRepo.GetByIDWithCreator(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, err
	}

	isOwner := viewerID != "" && viewerID == c.CreatorID
	if !c.IsPublic() && !isOwner {
		return nil, ErrCharacterNotFound
	}

	if viewerID != "" && !isOwner {
		if err := s.interactionRepo.AddRecentlyViewed(ctx, viewerID, id); err != nil {
			return nil, err
		}
	}
	return toCharacterInfo(c), nil
}

// Update 更新角色，仅创建者可操作
func (s *CharacterService) Update(ctx context.Context, userID string, id int64, req *dto.UpdateCharacterRequest) (*dto.CharacterInfo, error) {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Nickname != nil {
		updates["nickname"] = *req.Nickname
	}
	if req.Personality != nil {
		updates["personality"] = *req.Personality
	}
	if req.About != nil {
		updates["about"] = *req.About
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if req.Visibility != nil {
		updates["visibility"] = *req.Visibility
	}
	if req.Tags != nil {
		updates["tags"] = datatypes.JSONSlice[string](utils.NormalizeTags(*req.Tags))
	}

	if len(updates) == 0 {
		c, err := s.characterRepo.GetByIDWithCreator(ctx, id)
		if err != nil {
			return nil, err
		}
		return toCharacterInfo(c), nil
	}

	c, err := s.characterRepo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, err
	}

	s.publish(ctx, kafka.EventUpsert, id)
	return toCharacterInfo(c), nil
}

// Delete 删除角色，仅创建者可操作
func (s *CharacterService) Delete(ctx context.Context, userID string, id int64) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.characterRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCharacterNotFound
		}
		return err
	}

	s.publish(ctx, kafka.EventDelete, id)
	return nil
}

// UploadAvatar 上传头像到对象存储并更新角色头像地址
func (s *CharacterService) UploadAvatar(ctx context.Context, userID string, id int64, reader io.Reader, size int64, contentType string) (*dto.AvatarData, error) {
	if s.avatars == nil {
		return nil, ErrAvatarStorageDisabled
	}
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return nil, ErrInvalidAvatar
	}
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("characters/%d/%s%s", id, uuid.NewString(), ext)
	url, err := s.avatars.UploadAvatar(ctx, objectName, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	if _, err := s.characterRepo.Update(ctx, id, map[string]interface{}{"avatar_url": url}); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventUpsert, id)
	return &dto.AvatarData{AvatarURL: url}, nil
}

// Discover 角色发现：关键词搜索 > 标签筛选 > 推荐 > 最新公开
func (s *CharacterService) Discover(ctx context.Context, q *dto.CharacterQuery) ([]dto.CharacterInfo, error) {
	limit := clampLimit(q.Limit, defaultListLimit, maxListLimit)

	var (
		list []model.Character
		err  error
	)
	query := strings.TrimSpace(q.Query)
	switch tags := utils.SplitCSV(q.Tags); {
	case query != "":
		list, err = s.search.Search(ctx, query, limit)
	case len(tags) > 0:
		list, err = s.characterRepo.ListByTags(ctx, tags, limit)
	case q.Type == "featured":
		list, err = s.characterRepo.ListFeatured(ctx, limit)
	default:
		list, err = s.characterRepo.ListPublic(ctx, limit)
	}
	if err != nil {
		return nil, err
	}
	return toCharacterInfos(list), nil
}

// ListByCreator 用户的角色；本人可见全部，其他人只看公开角色
func (s *CharacterService) ListByCreator(ctx context.Context, creatorID, viewerID string) ([]dto.CharacterInfo, error) {
	list, err := s.characterRepo.ListByCreator(ctx, creatorID, viewerID != "" && viewerID == creatorID)
	if err != nil {
		return nil, err
	}
	return toCharacterInfos(list), nil
}

// ListFollowing 已关注创作者的公开角色
func (s *CharacterService) ListFollowing(ctx context.Context, userID string, limit int) ([]dto.CharacterInfo, error) {
	list, err := s.characterRepo.ListFollowing(ctx, userID, clampLimit(limit, defaultListLimit, maxListLimit))
	if err != nil {
		return nil, err
	}
	return toCharacterInfos(list), nil
}

// ListRecentlyViewed 最近浏览
func (s *CharacterService) ListRecentlyViewed(ctx context.Context, userID string, limit int) ([]dto.CharacterInfo, error) {
	list, err := s.interactionRepo.ListRecentlyViewed(ctx, userID, clampLimit(limit, defaultRecentLimit, maxRecentLimit))
	if err != nil {
		return nil, err
	}
	return toCharacterInfos(list), nil
}

func (s *CharacterService) getOwned(ctx context.Context, userID string, id int64) (*model.Character, error) {
	c, err := s.characterRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, err
	}
	if c.CreatorID != userID {
		return nil, ErrNotCharacterOwner
	}
	return c, nil
}

// publish 发布角色事件并使热门标签缓存失效，失败只记录日志
func (s *CharacterService) publish(ctx context.Context, eventType string, id int64) {
	publishEvent(ctx, s.events, eventType, id)
	if s.tags != nil {
		s.tags.InvalidateTrending(ctx)
	}
}

func publishEvent(ctx context.Context, events EventPublisher, eventType string, id int64) {
	if events == nil {
		return
	}
	event := kafka.CharacterEvent{Type: eventType, CharacterID: id}
	if err := events.PublishCharacterEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish character event",
			zap.String("type", eventType),
			zap.Int64("character_id", id),
			zap.Error(err),
		)
	}
}

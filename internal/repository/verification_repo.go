package repository

import (
	"context"
	"time"

	"charbit-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Upsert 按 (用户, 平台) 写入认证申请，已存在时更新平台用户名
func (r *VerificationRepository) Upsert(ctx context.Context, userID, platform, username string) (*model.SocialMediaVerification, error) {
	v := &model.SocialMediaVerification{UserID: userID, Platform: platform, PlatformUsername: username}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{"platform_username", "updated_at"}),
	}).Create(v).Error
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, userID, platform)
}

// Get 查询单条认证记录
func (r *VerificationRepository) Get(ctx context.Context, userID, platform string) (*model.SocialMediaVerification, error) {
	var v model.SocialMediaVerification
	if err := r.db.WithContext(ctx).Where("user_id = ? AND platform = ?", userID, platform).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// MarkVerified 标记认证通过，返回是否命中
func (r *VerificationRepository) MarkVerified(ctx context.Context, userID, platform string) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&model.SocialMediaVerification{}).
		Where("user_id = ? AND platform = ?", userID, platform).
		Updates(map[string]interface{}{"is_verified": true, "verified_at": &now})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByUser 用户的全部认证记录
func (r *VerificationRepository) ListByUser(ctx context.Context, userID string) ([]model.SocialMediaVerification, error) {
	var list []model.SocialMediaVerification
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("platform ASC").Find(&list).Error
	return list, err
}

// ListByUsers 批量查询认证记录，按用户分组
func (r *VerificationRepository) ListByUsers(ctx context.Context, userIDs []string) (map[string][]model.SocialMediaVerification, error) {
	result := make(map[string][]model.SocialMediaVerification, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}
	var list []model.SocialMediaVerification
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Order("platform ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	for _, v := range list {
		result[v.UserID] = append(result[v.UserID], v)
	}
	return result, nil
}

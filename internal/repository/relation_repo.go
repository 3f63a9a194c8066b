package repository

import (
	"context"

	"charbit-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationRepository 关注关系
type RelationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(db *gorm.DB) *RelationRepository {
	return &RelationRepository{db: db}
}

// Toggle 切换关注状态，返回切换后的状态
func (r *RelationRepository) Toggle(ctx context.Context, followerID, followingID string) (bool, error) {
	var following bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&model.UserFollow{})
		if deleted.Error != nil {
			return deleted.Error
		}
		if deleted.RowsAffected > 0 {
			following = false
			return nil
		}

		following = true
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.UserFollow{FollowerID: followerID, FollowingID: followingID}).Error
	})
	return following, err
}

// Exists 检查关注关系是否存在
func (r *RelationRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserFollow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// ListFollowers 粉丝列表
func (r *RelationRepository) ListFollowers(ctx context.Context, userID string, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("users.*").
		Joins("JOIN user_follows ON user_follows.follower_id = users.id").
		Where("user_follows.following_id = ?", userID).
		Order("user_follows.created_at DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// ListFollowing 关注列表
func (r *RelationRepository) ListFollowing(ctx context.Context, userID string, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("users.*").
		Joins("JOIN user_follows ON user_follows.following_id = users.id").
		Where("user_follows.follower_id = ?", userID).
		Order("user_follows.created_at DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// CountFollowers 统计粉丝数
func (r *RelationRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserFollow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

// CountFollowing 统计关注数
func (r *RelationRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserFollow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

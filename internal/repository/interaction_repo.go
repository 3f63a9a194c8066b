package repository

import (
	"context"

	"charbit-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionRepository 点赞、收藏与浏览记录，计数字段与关联表在同一事务中变更
type InteractionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// ToggleLike 切换点赞状态，返回切换后的状态
func (r *InteractionRepository) ToggleLike(ctx context.Context, userID string, characterID int64) (bool, error) {
	return r.toggle(ctx, &model.CharacterLike{}, &model.CharacterLike{UserID: userID, CharacterID: characterID},
		userID, characterID, "likes_count")
}

// ToggleFavorite 切换收藏状态，返回切换后的状态
func (r *InteractionRepository) ToggleFavorite(ctx context.Context, userID string, characterID int64) (bool, error) {
	return r.toggle(ctx, &model.CharacterFavorite{}, &model.CharacterFavorite{UserID: userID, CharacterID: characterID},
		userID, characterID, "favorites_count")
}

// toggle 先删后插：删除成功则计数减一；插入成功则计数加一；
// 插入因唯一索引冲突被忽略说明并发请求已插入，计数由那次请求负责
func (r *InteractionRepository) toggle(ctx context.Context, table, row interface{}, userID string, characterID int64, counter string) (bool, error) {
	var active bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted := tx.Where("user_id = ? AND character_id = ?", userID, characterID).Delete(table)
		if deleted.Error != nil {
			return deleted.Error
		}
		if deleted.RowsAffected > 0 {
			active = false
			return tx.Model(&model.Character{}).
				Where("id = ? AND "+counter+" > 0", characterID).
				UpdateColumn(counter, gorm.Expr(counter+" - 1")).Error
		}

		inserted := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
		if inserted.Error != nil {
			return inserted.Error
		}
		active = true
		if inserted.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&model.Character{}).
			Where("id = ?", characterID).
			UpdateColumn(counter, gorm.Expr(counter+" + 1")).Error
	})
	return active, err
}

// IsLiked 是否已点赞
func (r *InteractionRepository) IsLiked(ctx context.Context, userID string, characterID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CharacterLike{}).
		Where("user_id = ? AND character_id = ?", userID, characterID).Count(&count).Error
	return count > 0, err
}

// IsFavorited 是否已收藏
func (r *InteractionRepository) IsFavorited(ctx context.Context, userID string, characterID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CharacterFavorite{}).
		Where("user_id = ? AND character_id = ?", userID, characterID).Count(&count).Error
	return count > 0, err
}

// ListFavorites 用户收藏的角色，按收藏时间倒序；他人的非公开角色不返回
func (r *InteractionRepository) ListFavorites(ctx context.Context, userID string) ([]model.Character, error) {
	var list []model.Character
	err := r.db.WithContext(ctx).Model(&model.Character{}).
		Select("characters.*").
		Preload("Creator").
		Joins("JOIN character_favorites ON character_favorites.character_id = characters.id").
		Where("character_favorites.user_id = ?", userID).
		Scopes(visibleTo(userID)).
		Order("character_favorites.created_at DESC").
		Order("character_favorites.id DESC").
		Find(&list).Error
	return list, err
}

// AddRecentlyViewed 刷新浏览记录并累加浏览数
func (r *InteractionRepository) AddRecentlyViewed(ctx context.Context, userID string, characterID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND character_id = ?", userID, characterID).
			Delete(&model.RecentlyViewed{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.RecentlyViewed{UserID: userID, CharacterID: characterID}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Character{}).
			Where("id = ?", characterID).
			UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
	})
}

// ListRecentlyViewed 最近浏览的角色；他人的非公开角色不返回
func (r *InteractionRepository) ListRecentlyViewed(ctx context.Context, userID string, limit int) ([]model.Character, error) {
	var list []model.Character
	err := r.db.WithContext(ctx).Model(&model.Character{}).
		Select("characters.*").
		Preload("Creator").
		Joins("JOIN recently_viewed ON recently_viewed.character_id = characters.id").
		Where("recently_viewed.user_id = ?", userID).
		Scopes(visibleTo(userID)).
		Order("recently_viewed.viewed_at DESC").
		Order("recently_viewed.id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// visibleTo 公开角色或 viewerID 自己创建的角色
func visibleTo(viewerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(characters.visibility = ? OR characters.creator_id = ?)", model.VisibilityPublic, viewerID)
	}
}

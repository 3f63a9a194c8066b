package repository

import (
	"context"
	"strings"

	"charbit-go/internal/model"

	"gorm.io/gorm"
)

type CharacterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Create 创建角色
func (r *CharacterRepository) Create(ctx context.Context, c *model.Character) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// GetByID 根据 ID 查询角色
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*model.Character, error) {
	var c model.Character
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByIDWithCreator 查询角色并预加载创建者
func (r *CharacterRepository) GetByIDWithCreator(ctx context.Context, id int64) (*model.Character, error) {
	var c model.Character
	if err := r.db.WithContext(ctx).Preload("Creator").Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByIDsWithCreator 批量查询角色（顺序不保证）
func (r *CharacterRepository) GetByIDsWithCreator(ctx context.Context, ids []int64) ([]model.Character, error) {
	if len(ids) == 0 {
		return []model.Character{}, nil
	}
	var list []model.Character
	err := r.db.WithContext(ctx).Preload("Creator").Where("id IN ?", ids).Find(&list).Error
	return list, err
}

// Update 更新角色字段
func (r *CharacterRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*model.Character, error) {
	result := r.db.WithContext(ctx).Model(&model.Character{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByIDWithCreator(ctx, id)
}

// Delete 删除角色及其点赞、收藏、浏览记录
func (r *CharacterRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&model.CharacterLike{}, &model.CharacterFavorite{}, &model.RecentlyViewed{}} {
			if err := tx.Where("character_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		result := tx.Where("id = ?", id).Delete(&model.Character{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListByCreator 查询用户的角色，includePrivate 为 false 时只返回公开角色
func (r *CharacterRepository) ListByCreator(ctx context.Context, creatorID string, includePrivate bool) ([]model.Character, error) {
	query := r.db.WithContext(ctx).Preload("Creator").Where("creator_id = ?", creatorID)
	if !includePrivate {
		query = query.Where("visibility = ?", model.VisibilityPublic)
	}
	var list []model.Character
	err := query.Order("created_at DESC").Order("id DESC").Find(&list).Error
	return list, err
}

// ListPublic 最新公开角色
func (r *CharacterRepository) ListPublic(ctx context.Context, limit int) ([]model.Character, error) {
	var list []model.Character
	err := r.publicQuery(ctx).Order("characters.created_at DESC").Order("characters.id DESC").
		Limit(limit).Find(&list).Error
	return list, err
}

// ListFeatured 按点赞数排序的公开角色
func (r *CharacterRepository) ListFeatured(ctx context.Context, limit int) ([]model.Character, error) {
	var list []model.Character
	err := r.publicQuery(ctx).Order("characters.likes_count DESC").Order("characters.id DESC").
		Limit(limit).Find(&list).Error
	return list, err
}

// ListByTags 包含任一标签的公开角色，按点赞数排序
func (r *CharacterRepository) ListByTags(ctx context.Context, tags []string, limit int) ([]model.Character, error) {
	if len(tags) == 0 {
		return []model.Character{}, nil
	}
	var list []model.Character
	err := r.publicQuery(ctx).
		Where(tagsContainAny(r.db), tags).
		Order("characters.likes_count DESC").Order("characters.id DESC").
		Limit(limit).Find(&list).Error
	return list, err
}

// Search 名称或简介模糊匹配，或标签完全匹配
func (r *CharacterRepository) Search(ctx context.Context, keyword string, limit int) ([]model.Character, error) {
	keyword = strings.TrimSpace(keyword)
	like := "%" + escapeLike(strings.ToLower(keyword)) + "%"

	var list []model.Character
	err := r.publicQuery(ctx).
		Where(r.db.Where(`LOWER(characters.name) LIKE ? ESCAPE '\'`, like).
			Or(`LOWER(characters.about) LIKE ? ESCAPE '\'`, like).
			Or(tagsContainAny(r.db), []string{keyword})).
		Order("characters.likes_count DESC").Order("characters.id DESC").
		Limit(limit).Find(&list).Error
	return list, err
}

// ListFollowing 已关注创作者的公开角色
func (r *CharacterRepository) ListFollowing(ctx context.Context, userID string, limit int) ([]model.Character, error) {
	var list []model.Character
	err := r.publicQuery(ctx).
		Joins("JOIN user_follows ON user_follows.following_id = characters.creator_id").
		Where("user_follows.follower_id = ?", userID).
		Order("characters.created_at DESC").Order("characters.id DESC").
		Limit(limit).Find(&list).Error
	return list, err
}

// ListAllPublic 批量读取全部公开角色，供搜索索引重建使用
func (r *CharacterRepository) ListAllPublic(ctx context.Context) ([]model.Character, error) {
	var list []model.Character
	err := r.publicQuery(ctx).Order("characters.id ASC").Find(&list).Error
	return list, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike 转义 LIKE 通配符，关键字按字面子串匹配
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *CharacterRepository) publicQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Character{}).
		Select("characters.*").
		Preload("Creator").
		Where("characters.visibility = ?", model.VisibilityPublic)
}

// tagsContainAny 返回判断 characters.tags 是否包含参数列表中任一标签的条件
func tagsContainAny(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "EXISTS (SELECT 1 FROM jsonb_array_elements_text(characters.tags) AS t(tag) WHERE t.tag IN ?)"
	}
	return "EXISTS (SELECT 1 FROM json_each(characters.tags) WHERE json_each.value IN ?)"
}

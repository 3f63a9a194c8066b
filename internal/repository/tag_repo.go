package repository

import (
	"context"

	"charbit-go/internal/model"

	"gorm.io/gorm"
)

// TagCount 标签及其出现次数
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// TagRepository 基于 characters.tags JSON 数组的标签聚合
type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// Trending 公开角色中出现次数最多的标签
func (r *TagRepository) Trending(ctx context.Context, limit int) ([]TagCount, error) {
	var sql string
	if r.db.Dialector.Name() == "postgres" {
		sql = `SELECT t.tag AS tag, COUNT(*) AS count
			FROM characters CROSS JOIN LATERAL jsonb_array_elements_text(characters.tags) AS t(tag)
			WHERE characters.visibility = ?
			GROUP BY t.tag
			ORDER BY count DESC, tag ASC
			LIMIT ?`
	} else {
		sql = `SELECT je.value AS tag, COUNT(*) AS count
			FROM characters, json_each(characters.tags) AS je
			WHERE characters.visibility = ?
			GROUP BY je.value
			ORDER BY count DESC, tag ASC
			LIMIT ?`
	}

	var rows []TagCount
	err := r.db.WithContext(ctx).Raw(sql, model.VisibilityPublic, limit).Scan(&rows).Error
	return rows, err
}

// Distinct 公开角色使用过的全部标签
func (r *TagRepository) Distinct(ctx context.Context) ([]string, error) {
	var sql string
	if r.db.Dialector.Name() == "postgres" {
		sql = `SELECT DISTINCT t.tag
			FROM characters CROSS JOIN LATERAL jsonb_array_elements_text(characters.tags) AS t(tag)
			WHERE characters.visibility = ?
			ORDER BY t.tag`
	} else {
		sql = `SELECT DISTINCT je.value
			FROM characters, json_each(characters.tags) AS je
			WHERE characters.visibility = ?
			ORDER BY je.value`
	}

	var tags []string
	err := r.db.WithContext(ctx).Raw(sql, model.VisibilityPublic).Scan(&tags).Error
	return tags, err
}

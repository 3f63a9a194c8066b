package model

import (
	"time"

	"gorm.io/datatypes"
)

// Character 角色模型
type Character struct {
	ID             int64                       `gorm:"primaryKey;autoIncrement;comment:角色标识" json:"id"`
	CreatorID      string                      `gorm:"size:255;not null;index:idx_characters_creator_id;comment:创建者ID" json:"creator_id"`
	Name           string                      `gorm:"size:255;not null;comment:角色名" json:"name"`
	Nickname       *string                     `gorm:"size:255;comment:昵称" json:"nickname"`
	Personality    string                      `gorm:"type:text;comment:性格" json:"personality"`
	About          string                      `gorm:"type:text;comment:简介" json:"about"`
	AvatarURL      *string                     `gorm:"size:500;comment:头像地址" json:"avatar_url"`
	Visibility     string                      `gorm:"size:20;not null;default:'public';index:idx_characters_visibility;comment:可见性" json:"visibility"`
	Tags           datatypes.JSONSlice[string] `gorm:"comment:标签" json:"tags"`
	LikesCount     int64                       `gorm:"not null;default:0;comment:点赞数" json:"likes_count"`
	FavoritesCount int64                       `gorm:"not null;default:0;comment:收藏数" json:"favorites_count"`
	ViewsCount     int64                       `gorm:"not null;default:0;comment:浏览数" json:"views_count"`
	CreatedAt      time.Time                   `gorm:"autoCreateTime;index:idx_characters_created_at;comment:创建时间" json:"created_at"`
	UpdatedAt      time.Time                   `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Creator User `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"creator,omitempty"`
}

func (Character) TableName() string {
	return "characters"
}

// IsPublic 是否对所有人可见；restricted 对非所有者按私密处理
func (c *Character) IsPublic() bool {
	return c.Visibility == VisibilityPublic
}

// CharacterLike 角色点赞
type CharacterLike struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:点赞记录ID" json:"id"`
	UserID      string    `gorm:"size:255;not null;uniqueIndex:uq_user_character_like;comment:点赞用户ID" json:"user_id"`
	CharacterID int64     `gorm:"not null;uniqueIndex:uq_user_character_like;index:idx_likes_character_id;comment:被点赞角色ID" json:"character_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime;comment:点赞时间" json:"created_at"`

	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Character Character `gorm:"foreignKey:CharacterID;constraint:OnDelete:CASCADE" json:"-"`
}

func (CharacterLike) TableName() string {
	return "character_likes"
}

// CharacterFavorite 角色收藏
type CharacterFavorite struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:收藏记录ID" json:"id"`
	UserID      string    `gorm:"size:255;not null;uniqueIndex:uq_user_character_favorite;comment:收藏用户ID" json:"user_id"`
	CharacterID int64     `gorm:"not null;uniqueIndex:uq_user_character_favorite;index:idx_favorites_character_id;comment:被收藏角色ID" json:"character_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_favorites_created_at;comment:收藏时间" json:"created_at"`

	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Character Character `gorm:"foreignKey:CharacterID;constraint:OnDelete:CASCADE" json:"-"`
}

func (CharacterFavorite) TableName() string {
	return "character_favorites"
}

// RecentlyViewed 最近浏览记录，每个 (用户, 角色) 只保留一条
type RecentlyViewed struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:浏览记录ID" json:"id"`
	UserID      string    `gorm:"size:255;not null;uniqueIndex:uq_user_character_view;comment:浏览用户ID" json:"user_id"`
	CharacterID int64     `gorm:"not null;uniqueIndex:uq_user_character_view;comment:被浏览角色ID" json:"character_id"`
	ViewedAt    time.Time `gorm:"autoCreateTime;index:idx_recently_viewed_at;comment:浏览时间" json:"viewed_at"`

	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Character Character `gorm:"foreignKey:CharacterID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RecentlyViewed) TableName() string {
	return "recently_viewed"
}

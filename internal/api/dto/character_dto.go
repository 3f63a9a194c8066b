package dto

import "time"

// CreateCharacterRequest 创建角色请求
type CreateCharacterRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=255"`
	Nickname    *string  `json:"nickname" binding:"omitempty,max=255"`
	Personality string   `json:"personality" binding:"max=10000"`
	About       string   `json:"about" binding:"max=10000"`
	AvatarURL   *string  `json:"avatar_url" binding:"omitempty,max=500"`
	Visibility  string   `json:"visibility" binding:"omitempty,oneof=public restricted private"`
	Tags        []string `json:"tags" binding:"max=30,dive,max=50"`
}

// UpdateCharacterRequest 更新角色请求，未提供的字段保持不变
type UpdateCharacterRequest struct {
	Name        *string   `json:"name" binding:"omitempty,min=1,max=255"`
	Nickname    *string   `json:"nickname" binding:"omitempty,max=255"`
	Personality *string   `json:"personality" binding:"omitempty,max=10000"`
	About       *string   `json:"about" binding:"omitempty,max=10000"`
	AvatarURL   *string   `json:"avatar_url" binding:"omitempty,max=500"`
	Visibility  *string   `json:"visibility" binding:"omitempty,oneof=public restricted private"`
	Tags        *[]string `json:"tags" binding:"omitempty,max=30,dive,max=50"`
}

// CharacterInfo 角色信息
type CharacterInfo struct {
	ID             int64      `json:"id"`
	CreatorID      string     `json:"creator_id"`
	Name           string     `json:"name"`
	Nickname       *string    `json:"nickname"`
	Personality    string     `json:"personality"`
	About          string     `json:"about"`
	AvatarURL      *string    `json:"avatar_url"`
	Visibility     string     `json:"visibility"`
	Tags           []string   `json:"tags"`
	LikesCount     int64      `json:"likes_count"`
	FavoritesCount int64      `json:"favorites_count"`
	ViewsCount     int64      `json:"views_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Creator        *UserBrief `json:"creator,omitempty"`
}

// CharacterQuery 角色发现查询参数
type CharacterQuery struct {
	Type  string `form:"type"` // public / featured
	Tags  string `form:"tags"` // 逗号分隔
	Query string `form:"query"`
	Limit int    `form:"limit"`
}

// LikeResult 点赞切换结果
type LikeResult struct {
	Liked bool `json:"liked"`
}

// FavoriteResult 收藏切换结果
type FavoriteResult struct {
	Favorited bool `json:"favorited"`
}

// CharacterStatusData 当前用户对角色的点赞/收藏状态
type CharacterStatusData struct {
	Liked     bool `json:"liked"`
	Favorited bool `json:"favorited"`
}

// AvatarData 头像上传结果
type AvatarData struct {
	AvatarURL string `json:"avatar_url"`
}

package dto

import "time"

// UserInfo 用户信息
type UserInfo struct {
	ID                       string    `json:"id"`
	Email                    *string   `json:"email"`
	FirstName                *string   `json:"first_name"`
	LastName                 *string   `json:"last_name"`
	DisplayName              *string   `json:"display_name"`
	CreatorName              *string   `json:"creator_name"`
	ProfileImageURL          *string   `json:"profile_image_url"`
	Username                 *string   `json:"username"`
	YoutubeHandle            *string   `json:"youtube_handle"`
	IsCreator                bool      `json:"is_creator"`
	CreatorApplicationStatus string    `json:"creator_application_status"`
	Theme                    string    `json:"theme"`
	UserRole                 string    `json:"user_role"`
	CreatedAt                time.Time `json:"created_at"`
}

// UserBrief 列表中的用户简要信息
type UserBrief struct {
	ID              string  `json:"id"`
	Username        *string `json:"username"`
	DisplayName     *string `json:"display_name"`
	CreatorName     *string `json:"creator_name"`
	ProfileImageURL *string `json:"profile_image_url"`
	IsCreator       bool    `json:"is_creator"`
}

// UserProfileData 用户详情，附带社交认证与主页可见性
type UserProfileData struct {
	UserInfo
	ProfileVisibility string             `json:"profile_visibility"`
	Verifications     []VerificationInfo `json:"verifications"`
	FollowerCount     int64              `json:"follower_count"`
	FollowingCount    int64              `json:"following_count"`
}

// UpdateThemeRequest 主题设置请求
type UpdateThemeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=black white midnight neon pinky bob"`
}

// UpdateProfileVisibilityRequest 主页可见性设置请求
type UpdateProfileVisibilityRequest struct {
	Visibility string `json:"visibility" binding:"required,oneof=public private restricted"`
}

package model

import "time"

// SocialPlatforms 支持认证的社交平台
var SocialPlatforms = []string{"youtube", "instagram", "x", "tiktok", "facebook"}

// SocialMediaVerification 社交账号认证，每个平台一条
type SocialMediaVerification struct {
	ID               int64      `gorm:"primaryKey;autoIncrement;comment:认证记录ID" json:"id"`
	UserID           string     `gorm:"size:255;not null;uniqueIndex:uq_user_platform;comment:用户ID" json:"user_id"`
	Platform         string     `gorm:"size:20;not null;uniqueIndex:uq_user_platform;comment:平台" json:"platform"`
	PlatformUsername string     `gorm:"size:255;not null;comment:平台用户名" json:"platform_username"`
	IsVerified       bool       `gorm:"not null;default:false;comment:是否已认证" json:"is_verified"`
	VerifiedAt       *time.Time `gorm:"comment:认证时间" json:"verified_at"`
	CreatedAt        time.Time  `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SocialMediaVerification) TableName() string {
	return "social_media_verifications"
}

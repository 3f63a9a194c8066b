package dto

import "time"

// SocialVerificationRequest 社交账号认证申请
type SocialVerificationRequest struct {
	Platform string `json:"platform" binding:"required,oneof=youtube instagram x tiktok facebook"`
	Username string `json:"username" binding:"required,min=1,max=255"`
}

// VerificationInfo 社交账号认证信息
type VerificationInfo struct {
	Platform         string     `json:"platform"`
	PlatformUsername string     `json:"platform_username"`
	IsVerified       bool       `json:"is_verified"`
	VerifiedAt       *time.Time `json:"verified_at"`
}

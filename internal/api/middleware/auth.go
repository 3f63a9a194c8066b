package middleware

import (
	"context"
	"strings"

	"charbit-go/internal/api/response"
	"charbit-go/pkg/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	ContextKeyUserID   = "currentUserID"
	ContextKeyUserRole = "currentUserRole"

	// SessionKeyUserID OAuth 登录成功后写入 cookie session 的键
	SessionKeyUserID = "user_id"
)

// AuthRequired 认证中间件：优先读取 session 中的用户，其次校验 Bearer Token
func AuthRequired(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolveUserID(c, jwtManager)
		if !ok {
			response.Unauthorized(c, "请先登录")
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// OptionalAuth 可选认证，识别到用户时写入上下文，否则以游客身份继续
func OptionalAuth(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := resolveUserID(c, jwtManager); ok {
			c.Set(ContextKeyUserID, userID)
		}
		c.Next()
	}
}

// GetCurrentUserID 从 Gin Context 中获取当前登录用户 ID
func GetCurrentUserID(c *gin.Context) (string, bool) {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok && userID != ""
}

// UserRoleFetcher 用于获取用户角色的函数类型
type UserRoleFetcher func(ctx context.Context, userID string) (string, error)

// AdminRequired 管理员权限中间件（必须在 AuthRequired 之后使用）
func AdminRequired(roleFetcher UserRoleFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetCurrentUserID(c)
		if !ok {
			response.Unauthorized(c, "请先登录")
			return
		}

		role, err := roleFetcher(c.Request.Context(), userID)
		if err != nil {
			response.Unauthorized(c, "用户不存在")
			return
		}

		if role != "admin" {
			response.Forbidden(c, "需要管理员权限")
			return
		}

		c.Set(ContextKeyUserRole, role)
		c.Next()
	}
}

func resolveUserID(c *gin.Context, jwtManager *utils.JWTManager) (string, bool) {
	// 未挂载 sessions 中间件时 sessions.Default 会 panic
	if _, exists := c.Get(sessions.DefaultKey); exists {
		if userID, ok := sessions.Default(c).Get(SessionKeyUserID).(string); ok && userID != "" {
			return userID, true
		}
	}

	token := extractToken(c)
	if token == "" || jwtManager == nil {
		return "", false
	}
	claims, err := jwtManager.ParseToken(token)
	if err != nil || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}

// extractToken 从 Authorization 头中提取 Bearer Token
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

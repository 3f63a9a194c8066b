package handler

import (
	"context"
	"errors"
	"net/http"

	"charbit-go/internal/api/middleware"
	"charbit-go/internal/api/response"
	"charbit-go/internal/infra/oauth"
	"charbit-go/internal/service"
	"charbit-go/pkg/logger"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sessionKeyOAuthState = "oauth_state"

// OAuthProvider 第三方登录提供方
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.Profile, error)
}

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	provider    OAuthProvider
	successURL  string
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, provider OAuthProvider, successURL string) *AuthHandler {
	if successURL == "" {
		successURL = "/"
	}
	return &AuthHandler{
		authService: authService,
		userService: userService,
		provider:    provider,
		successURL:  successURL,
	}
}

// GoogleLogin 跳转 Google 授权页
// @Summary Google 登录
// @Description 生成 state 写入 session 并重定向到 Google 授权页
// @Tags 认证
// @Success 302 "跳转授权页"
// @Router /auth/google [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	session := sessions.Default(c)
	session.Set(sessionKeyOAuthState, state)
	if err := session.Save(); err != nil {
		logger.Error("Failed to save oauth state", zap.Error(err))
		response.InternalError(c, "登录失败，请稍后重试")
		return
	}

	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// GoogleCallback Google 授权回调
// @Summary Google 登录回调
// @Description 校验 state，换取用户资料并写入 session
// @Tags 认证
// @Param state query string true "state"
// @Param code query string true "授权码"
// @Success 302 "登录成功后跳转"
// @Failure 400 {object} response.ErrorResponse "state 校验失败"
// @Failure 401 {object} response.ErrorResponse "授权失败"
// @Router /auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	expected, _ := session.Get(sessionKeyOAuthState).(string)
	session.Delete(sessionKeyOAuthState)

	if expected == "" || c.Query("state") != expected {
		_ = session.Save()
		response.BadRequest(c, "登录状态校验失败")
		return
	}
	code := c.Query("code")
	if code == "" {
		_ = session.Save()
		response.BadRequest(c, "缺少授权码")
		return
	}

	profile, err := h.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		_ = session.Save()
		logger.Warn("OAuth exchange failed", zap.Error(err))
		response.Unauthorized(c, "Google 授权失败")
		return
	}

	user, err := h.authService.LoginWithProfile(c.Request.Context(), profile)
	if err != nil {
		_ = session.Save()
		if errors.Is(err, service.ErrInvalidProfile) {
			response.Unauthorized(c, err.Error())
			return
		}
		logger.Error("Login failed", zap.Error(err))
		response.InternalError(c, "登录失败，请稍后重试")
		return
	}

	session.Set(middleware.SessionKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		logger.Error("Failed to save session", zap.Error(err))
		response.InternalError(c, "登录失败，请稍后重试")
		return
	}

	logger.Info("User logged in", zap.String("user_id", user.ID))
	c.Redirect(http.StatusFound, h.successURL)
}

// Logout 退出登录
// @Summary 退出登录
// @Description 清除 session 并跳转首页
// @Tags 认证
// @Success 302 "跳转首页"
// @Router /logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		logger.Warn("Failed to clear session", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/")
}

// CurrentUser 获取当前登录用户
// @Summary 当前用户
// @Description 返回当前用户、社交认证与主页可见性
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.UserProfileData} "获取成功"
// @Failure 401 {object} response.ErrorResponse "未登录"
// @Router /auth/user [get]
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Unauthorized(c, err.Error())
			return
		}
		logger.Error("Get current user failed", zap.Error(err))
		response.InternalError(c, "获取用户信息失败")
		return
	}

	response.OK(c, "获取成功", profile)
}

// IssueToken 签发 API Token
// @Summary 签发 API Token
// @Description 已登录用户获取用于 API 客户端的 JWT
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.TokenData} "签发成功"
// @Failure 401 {object} response.ErrorResponse "未登录"
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	token, err := h.authService.IssueToken(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Unauthorized(c, err.Error())
			return
		}
		logger.Error("Issue token failed", zap.Error(err))
		response.InternalError(c, "签发令牌失败")
		return
	}

	response.OK(c, "签发成功", token)
}

package handler

import (
	"errors"

	"charbit-go/internal/api/dto"
	"charbit-go/internal/api/response"
	"charbit-go/internal/service"
	"charbit-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile 用户主页
// @Summary 按用户名获取用户主页
// @Tags 用户
// @Produce json
// @Param id path string true "用户名"
// @Success 200 {object} response.Response{data=dto.UserProfileData} "获取成功"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetByUsername(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "获取成功", profile)
}

// UpdateTheme 设置主题
// @Summary 设置界面主题
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateThemeRequest true "主题"
// @Success 200 {object} response.Response{data=dto.UserInfo} "设置成功"
// @Failure 400 {object} response.ErrorResponse "无效的主题"
// @Router /user/theme [patch]
func (h *UserHandler) UpdateTheme(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, service.ErrInvalidTheme.Error())
		return
	}

	user, err := h.userService.UpdateTheme(c.Request.Context(), userID, req.Theme)
	if err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "设置成功", user)
}

// UpdateProfileVisibility 设置主页可见性
// @Summary 设置主页可见性
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileVisibilityRequest true "可见性"
// @Success 200 {object} response.Response "设置成功"
// @Failure 400 {object} response.ErrorResponse "无效的可见性设置"
// @Router /user/profile-visibility [patch]
func (h *UserHandler) UpdateProfileVisibility(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, service.ErrInvalidVisibility.Error())
		return
	}

	if err := h.userService.UpdateProfileVisibility(c.Request.Context(), userID, req.Visibility); err != nil {
		handleUserError(c, err)
		return
	}

	response.OK(c, "设置成功", nil)
}

func handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidTheme),
		errors.Is(err, service.ErrInvalidVisibility):
		response.BadRequest(c, err.Error())
	default:
		logger.Error("User operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}

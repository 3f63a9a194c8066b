package handler

import (
	"errors"

	"charbit-go/internal/api/response"
	"charbit-go/internal/service"
	"charbit-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RelationHandler struct {
	relationService *service.RelationService
}

func NewRelationHandler(relationService *service.RelationService) *RelationHandler {
	return &RelationHandler{relationService: relationService}
}

// ToggleFollow 关注/取消关注
// @Summary 切换关注
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path string true "被关注用户ID"
// @Success 200 {object} response.Response{data=dto.FollowResult} "操作成功"
// @Failure 400 {object} response.ErrorResponse "不能关注自己"
// @Failure 403 {object} response.ErrorResponse "已被拉黑"
// @Failure 404 {object} response.ErrorResponse "用户不存在"
// @Router /users/{id}/follow [post]
func (h *RelationHandler) ToggleFollow(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	result, err := h.relationService.ToggleFollow(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleRelationError(c, err)
		return
	}

	response.OK(c, "操作成功", result)
}

// FollowStatus 关注状态
// @Summary 是否已关注
// @Tags 关注
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response{data=dto.FollowResult} "查询成功"
// @Router /users/{id}/follow-status [get]
func (h *RelationHandler) FollowStatus(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	result, err := h.relationService.IsFollowing(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleRelationError(c, err)
		return
	}

	response.OK(c, "查询成功", result)
}

// Followers 粉丝列表
// @Summary 用户的粉丝
// @Tags 关注
// @Produce json
// @Param id path string true "用户ID"
// @Param limit query int false "数量" default(100)
// @Success 200 {object} response.Response{data=[]dto.UserBrief} "获取成功"
// @Router /users/{id}/followers [get]
func (h *RelationHandler) Followers(c *gin.Context) {
	list, err := h.relationService.ListFollowers(c.Request.Context(), c.Param("id"), parseLimit(c))
	if err != nil {
		handleRelationError(c, err)
		return
	}

	response.OK(c, "获取粉丝列表成功", list)
}

// Following 关注列表
// @Summary 用户关注的人
// @Tags 关注
// @Produce json
// @Param id path string true "用户ID"
// @Param limit query int false "数量" default(100)
// @Success 200 {object} response.Response{data=[]dto.UserBrief} "获取成功"
// @Router /users/{id}/following [get]
func (h *RelationHandler) Following(c *gin.Context) {
	list, err := h.relationService.ListFollowing(c.Request.Context(), c.Param("id"), parseLimit(c))
	if err != nil {
		handleRelationError(c, err)
		return
	}

	response.OK(c, "获取关注列表成功", list)
}

func handleRelationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCannotFollowSelf):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUserBlocked):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Relation operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}

package handler

import (
	"errors"

	"charbit-go/internal/api/response"
	"charbit-go/internal/service"
	"charbit-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FriendshipHandler struct {
	friendshipService *service.FriendshipService
}

func NewFriendshipHandler(friendshipService *service.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: friendshipService}
}

// SendRequest 发送好友请求
// @Summary 发送好友请求
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param id path string true "对方用户ID"
// @Success 200 {object} response.Response "请求已发送"
// @Failure 400 {object} response.ErrorResponse "不能添加自己"
// @Failure 403 {object} response.ErrorResponse "已被拉黑"
// @Router /users/{id}/friend-request [post]
func (h *FriendshipHandler) SendRequest(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.friendshipService.SendRequest(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleFriendshipError(c, err)
		return
	}

	response.OK(c, "好友请求已发送", nil)
}

// Accept 接受好友请求
// @Summary 接受好友请求
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param id path string true "请求者用户ID"
// @Success 200 {object} response.Response "已接受"
// @Failure 404 {object} response.ErrorResponse "请求不存在"
// @Router /friend-requests/{id}/accept [post]
func (h *FriendshipHandler) Accept(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.friendshipService.Accept(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleFriendshipError(c, err)
		return
	}

	response.OK(c, "已接受好友请求", nil)
}

// Reject 拒绝好友请求
// @Summary 拒绝好友请求
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param id path string true "请求者用户ID"
// @Success 200 {object} response.Response "已拒绝"
// @Failure 404 {object} response.ErrorResponse "请求不存在"
// @Router /friend-requests/{id}/reject [post]
func (h *FriendshipHandler) Reject(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.friendshipService.Reject(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleFriendshipError(c, err)
		return
	}

	response.OK(c, "已拒绝好友请求", nil)
}

// Remove 解除好友
// @Summary 解除好友关系
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param id path string true "好友用户ID"
// @Success 200 {object} response.Response "已解除"
// @Failure 404 {object} response.ErrorResponse "不是好友"
// @Router /users/{id}/friend [delete]
func (h *FriendshipHandler) Remove(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.friendshipService.Remove(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleFriendshipError(c, err)
		return
	}

	response.OK(c, "已解除好友关系", nil)
}

// MyFriends 我的好友
// @Summary 我的好友列表
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]dto.UserBrief} "获取成功"
// @Router /users/me/friends [get]
func (h *FriendshipHandler) MyFriends(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	list, err := h.friendshipService.ListFriends(c.Request.Context(), userID)
	if err != nil {
		handleFriendshipError(c, err)
		return
	}

	response.OK(c, "获取成功", list)
}

// MyRequests 收到的好友请求
// @Summary 待处理的好友请求
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]dto.FriendRequestInfo} "获取成功"
// @Router /users/me/friend-requests [get]
func (h *FriendshipHandler) MyRequests(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	list, err := h.friendshipService.ListRequests(c.Request.Context(), userID)
	if err != nil {
		handleFriendshipError(c, err)
		return
	}

	response.OK(c, "获取成功", list)
}

// Block 拉黑用户
// @Summary 拉黑用户
// @Description 同时解除双方的好友与关注关系
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response "已拉黑"
// @Router /users/{id}/block [post]
func (h *FriendshipHandler) Block(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.friendshipService.Block(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleFriendshipError(c, err)
		return
	}

	response.OK(c, "已拉黑", nil)
}

// Unblock 解除拉黑
// @Summary 解除拉黑
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response "已解除拉黑"
// @Router /users/{id}/unblock [post]
func (h *FriendshipHandler) Unblock(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.friendshipService.Unblock(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleFriendshipError(c, err)
		return
	}

	response.OK(c, "已解除拉黑", nil)
}

// MyBlocked 黑名单
// @Summary 我拉黑的用户
// @Tags 好友
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]dto.UserBrief} "获取成功"
// @Router /users/me/blocked [get]
func (h *FriendshipHandler) MyBlocked(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	list, err := h.friendshipService.ListBlocked(c.Request.Context(), userID)
	if err != nil {
		handleFriendshipError(c, err)
		return
	}

	response.OK(c, "获取成功", list)
}

func handleFriendshipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCannotFriendSelf),
		errors.Is(err, service.ErrCannotBlockSelf):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUserBlocked):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrFriendRequestNotFound),
		errors.Is(err, service.ErrFriendshipNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Friendship operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}

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

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// Send 发送私信
// @Summary 给好友发送私信
// @Tags 私信
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendMessageRequest true "私信"
// @Success 201 {object} response.Response{data=dto.MessageInfo} "发送成功"
// @Failure 400 {object} response.ErrorResponse "内容无效"
// @Failure 403 {object} response.ErrorResponse "不是好友或已拉黑"
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	msg, err := h.messageService.Send(c.Request.Context(), userID, &req)
	if err != nil {
		handleMessageError(c, err)
		return
	}

	response.Created(c, "发送成功", msg)
}

// Conversation 会话记录
// @Summary 与好友的会话
// @Description 按时间正序返回双方私信，并将对方发来的消息标记为已读
// @Tags 私信
// @Produce json
// @Security BearerAuth
// @Param id path string true "好友用户ID"
// @Success 200 {object} response.Response{data=[]dto.MessageInfo} "获取成功"
// @Failure 403 {object} response.ErrorResponse "不是好友或已拉黑"
// @Router /messages/{id} [get]
func (h *MessageHandler) Conversation(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	list, err := h.messageService.Conversation(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleMessageError(c, err)
		return
	}

	response.OK(c, "获取成功", list)
}

func handleMessageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrMessageTooLong),
		errors.Is(err, service.ErrCannotMessageSelf):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotFriends),
		errors.Is(err, service.ErrUserBlocked):
		response.Forbidden(c, err.Error())
	default:
		logger.Error("Message operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}

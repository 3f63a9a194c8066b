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

type CreatorHandler struct {
	creatorService      *service.CreatorService
	verificationService *service.VerificationService
}

func NewCreatorHandler(creatorService *service.CreatorService, verificationService *service.VerificationService) *CreatorHandler {
	return &CreatorHandler{creatorService: creatorService, verificationService: verificationService}
}

// Apply 申请成为创作者
// @Summary 申请成为创作者
// @Description 通过 YouTube handle 或账号邮箱申请，审核中不可重复提交
// @Tags 创作者
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatorApplyRequest true "申请信息"
// @Success 200 {object} response.Response{data=dto.CreatorStatusData} "提交成功"
// @Failure 400 {object} response.ErrorResponse "申请无效"
// @Router /creator/apply [post]
func (h *CreatorHandler) Apply(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreatorApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	status, err := h.creatorService.Apply(c.Request.Context(), userID, &req)
	if err != nil {
		handleCreatorError(c, err)
		return
	}

	response.OK(c, "申请已提交", status)
}

// Status 创作者申请状态
// @Summary 创作者申请状态
// @Tags 创作者
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.CreatorStatusData} "获取成功"
// @Router /creator/status [get]
func (h *CreatorHandler) Status(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	status, err := h.creatorService.Status(c.Request.Context(), userID)
	if err != nil {
		handleCreatorError(c, err)
		return
	}

	response.OK(c, "获取成功", status)
}

// Featured 推荐创作者
// @Summary 推荐创作者
// @Description 按角色数量排序
// @Tags 创作者
// @Produce json
// @Param limit query int false "数量" default(10)
// @Success 200 {object} response.Response{data=[]dto.FeaturedCreator} "获取成功"
// @Router /creators/featured [get]
func (h *CreatorHandler) Featured(c *gin.Context) {
	list, err := h.creatorService.Featured(c.Request.Context(), parseLimit(c))
	if err != nil {
		handleCreatorError(c, err)
		return
	}

	response.OK(c, "获取成功", list)
}

// AddVerification 登记社交账号认证
// @Summary 登记社交账号
// @Description 同一平台重复提交时更新用户名，等待管理员确认
// @Tags 创作者
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SocialVerificationRequest true "社交账号"
// @Success 200 {object} response.Response{data=dto.VerificationInfo} "提交成功"
// @Failure 400 {object} response.ErrorResponse "平台无效"
// @Router /social-verification [post]
func (h *CreatorHandler) AddVerification(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.SocialVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	info, err := h.verificationService.Add(c.Request.Context(), userID, &req)
	if err != nil {
		handleCreatorError(c, err)
		return
	}

	response.OK(c, "提交成功", info)
}

func handleCreatorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrApplicationPending),
		errors.Is(err, service.ErrAlreadyCreator),
		errors.Is(err, service.ErrYoutubeHandleRequired),
		errors.Is(err, service.ErrEmailRequired),
		errors.Is(err, service.ErrInvalidApplication),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrApplicationNotPending),
		errors.Is(err, service.ErrInvalidPlatform):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrVerificationNotFound):
		response.NotFound(c, err.Error())
	default:
		logger.Error("Creator operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}

package handler

import (
	"errors"

	"charbit-go/internal/api/response"
	"charbit-go/internal/service"
	"charbit-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler 管理员接口，路由需挂载 AdminRequired
type AdminHandler struct {
	creatorService      *service.CreatorService
	verificationService *service.VerificationService
	searchService       *service.SearchService
}

func NewAdminHandler(creatorService *service.CreatorService, verificationService *service.VerificationService, searchService *service.SearchService) *AdminHandler {
	return &AdminHandler{
		creatorService:      creatorService,
		verificationService: verificationService,
		searchService:       searchService,
	}
}

// ApproveCreator 通过创作者申请
// @Summary 通过创作者申请
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response{data=dto.CreatorStatusData} "已通过"
// @Failure 400 {object} response.ErrorResponse "没有待审核申请"
// @Failure 403 {object} response.ErrorResponse "需要管理员权限"
// @Router /admin/creators/{id}/approve [post]
func (h *AdminHandler) ApproveCreator(c *gin.Context) {
	status, err := h.creatorService.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleCreatorError(c, err)
		return
	}

	logger.Info("Creator application approved", zap.String("user_id", c.Param("id")))
	response.OK(c, "已通过", status)
}

// RejectCreator 拒绝创作者申请
// @Summary 拒绝创作者申请
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response{data=dto.CreatorStatusData} "已拒绝"
// @Failure 400 {object} response.ErrorResponse "没有待审核申请"
// @Router /admin/creators/{id}/reject [post]
func (h *AdminHandler) RejectCreator(c *gin.Context) {
	status, err := h.creatorService.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleCreatorError(c, err)
		return
	}

	logger.Info("Creator application rejected", zap.String("user_id", c.Param("id")))
	response.OK(c, "已拒绝", status)
}

// VerifySocial 确认社交账号认证
// @Summary 确认社交账号认证
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param platform path string true "平台"
// @Success 200 {object} response.Response{data=dto.VerificationInfo} "已认证"
// @Failure 404 {object} response.ErrorResponse "认证申请不存在"
// @Router /admin/verifications/{id}/{platform}/verify [post]
func (h *AdminHandler) VerifySocial(c *gin.Context) {
	info, err := h.verificationService.Verify(c.Request.Context(), c.Param("id"), c.Param("platform"))
	if err != nil {
		handleCreatorError(c, err)
		return
	}

	response.OK(c, "已认证", info)
}

// Reindex 重建搜索索引
// @Summary 重建角色搜索索引
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.ReindexResult} "重建完成"
// @Failure 503 {object} response.ErrorResponse "搜索服务未启用"
// @Router /admin/search/reindex [post]
func (h *AdminHandler) Reindex(c *gin.Context) {
	result, err := h.searchService.Reindex(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrSearchDisabled) {
			response.ServiceUnavailable(c, err.Error())
			return
		}
		logger.Error("Reindex failed", zap.Error(err))
		response.InternalError(c, "重建索引失败")
		return
	}

	logger.Info("Search index rebuilt",
		zap.Int("total", result.Total),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed),
	)
	response.OK(c, "重建完成", result)
}

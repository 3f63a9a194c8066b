package handler

import (
	"charbit-go/internal/api/response"
	"charbit-go/internal/service"
	"charbit-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TagHandler struct {
	tagService *service.TagService
}

func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// Trending 热门标签
// @Summary 热门标签
// @Description 统计公开角色的标签使用次数
// @Tags 标签
// @Produce json
// @Param limit query int false "数量" default(20)
// @Success 200 {object} response.Response{data=[]dto.TrendingTag} "获取成功"
// @Router /tags/trending [get]
func (h *TagHandler) Trending(c *gin.Context) {
	tags, err := h.tagService.Trending(c.Request.Context(), parseLimit(c))
	if err != nil {
		logger.Error("Get trending tags failed", zap.Error(err))
		response.InternalError(c, "获取热门标签失败")
		return
	}

	response.OK(c, "获取成功", tags)
}

// All 全部标签
// @Summary 全部标签
// @Description 预置标签与已使用标签的并集
// @Tags 标签
// @Produce json
// @Success 200 {object} response.Response{data=[]string} "获取成功"
// @Router /tags [get]
func (h *TagHandler) All(c *gin.Context) {
	tags, err := h.tagService.All(c.Request.Context())
	if err != nil {
		logger.Error("Get tags failed", zap.Error(err))
		response.InternalError(c, "获取标签失败")
		return
	}

	response.OK(c, "获取成功", tags)
}

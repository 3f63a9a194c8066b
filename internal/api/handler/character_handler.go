package handler

import (
	"errors"
	"io"
	"net/http"

	"charbit-go/internal/api/dto"
	"charbit-go/internal/api/response"
	"charbit-go/internal/service"
	"charbit-go/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CharacterHandler struct {
	characterService   *service.CharacterService
	interactionService *service.InteractionService
	maxAvatarBytes     int64
}

func NewCharacterHandler(characterService *service.CharacterService, interactionService *service.InteractionService, maxAvatarMB int64) *CharacterHandler {
	if maxAvatarMB <= 0 {
		maxAvatarMB = 5
	}
	return &CharacterHandler{
		characterService:   characterService,
		interactionService: interactionService,
		maxAvatarBytes:     maxAvatarMB << 20,
	}
}

// Create 创建角色
// @Summary 创建角色
// @Description 创建原创角色，标签中自动包含 OC
// @Tags 角色
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCharacterRequest true "角色信息"
// @Success 201 {object} response.Response{data=dto.CharacterInfo} "创建成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Router /characters [post]
func (h *CharacterHandler) Create(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	info, err := h.characterService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleCharacterError(c, err)
		return
	}

	response.Created(c, "创建成功", info)
}

// List 角色发现
// @Summary 角色发现
// @Description 按关键词、标签、推荐或最新列出公开角色
// @Tags 角色
// @Produce json
// @Param type query string false "public / featured"
// @Param tags query string false "逗号分隔的标签"
// @Param query query string false "搜索关键词"
// @Param limit query int false "数量" default(20)
// @Success 200 {object} response.Response{data=[]dto.CharacterInfo} "获取成功"
// @Router /characters [get]
func (h *CharacterHandler) List(c *gin.Context) {
	var q dto.CharacterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	list, err := h.characterService.Discover(c.Request.Context(), &q)
	if err != nil {
		handleCharacterError(c, err)
		return
	}

	response.OK(c, "获取成功", list)
}

// Get 角色详情
// @Summary 角色详情
// @Description 获取角色详情，登录用户查看他人角色时记录浏览
// @Tags 角色
// @Produce json
// @Param id path int true "角色ID"
// @Success 200 {object} response.Response{data=dto.CharacterInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "角色不存在"
// @Router /characters/{id} [get]
func (h *CharacterHandler) Get(c *gin.Context) {
	id, ok := parseCharacterID(c)
	if !ok {
		return
	}

	info, err := h.characterService.Get(c.Request.Context(), id, viewerID(c))
	if err != nil {
		handleCharacterError(c, err)
		return
	}

	response.OK(c, "获取成功", info)
}

// Update 更新角色
// @Summary 更新角色
// @Description 仅创建者可修改
// @Tags 角色
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "角色ID"
// @Param request body dto.UpdateCharacterRequest true "更新字段"
// @Success 200 {object} response.Response{data=dto.CharacterInfo} "更新成功"
// @Failure 403 {object} response.ErrorResponse "无权操作"
// @Failure 404 {object} response.ErrorResponse "角色不存在"
// @Router /characters/{id} [patch]
func (h *CharacterHandler) Update(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := parseCharacterID(c)
	if !ok {
		return
	}

	var req dto.UpdateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数无效: "+err.Error())
		return
	}

	info, err := h.characterService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		handleCharacterError(c, err)
		return
	}

	response.OK(c, "更新成功", info)
}

// Delete 删除角色
// @Summary 删除角色
// @Description 仅创建者可删除
// @Tags 角色
// @Produce json
// @Security BearerAuth
// @Param id path int true "角色ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "无权操作"
// @Failure 404 {object} response.ErrorResponse "角色不存在"
// @Router /characters/{id} [delete]
func (h *CharacterHandler) Delete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := parseCharacterID(c)
	if !ok {
		return
	}

	if err := h.characterService.Delete(c.Request.Context(), userID, id); err != nil {
		handleCharacterError(c, err)
		return
	}

	response.OK(c, "删除成功", nil)
}

// UploadAvatar 上传角色头像
// @Summary 上传角色头像
// @Description 头像存入对象存储，返回公开地址
// @Tags 角色
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "角色ID"
// @Param avatar formData file true "头像图片"
// @Success 200 {object} response.Response{data=dto.AvatarData} "上传成功"
// @Failure 400 {object} response.ErrorResponse "文件无效"
// @Failure 503 {object} response.ErrorResponse "存储未启用"
// @Router /characters/{id}/avatar [post]
func (h *CharacterHandler) UploadAvatar(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := parseCharacterID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		response.BadRequest(c, "请上传头像文件")
		return
	}
	if fileHeader.Size <= 0 || fileHeader.Size > h.maxAvatarBytes {
		response.BadRequest(c, "头像文件过大")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "无法读取头像文件")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		sniff := make([]byte, 512)
		n, _ := file.Read(sniff)
		contentType = http.DetectContentType(sniff[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			response.BadRequest(c, "无法读取头像文件")
			return
		}
	}

	data, err := h.characterService.UploadAvatar(c.Request.Context(), userID, id, file, fileHeader.Size, contentType)
	if err != nil {
		handleCharacterError(c, err)
		return
	}

	response.OK(c, "上传成功", data)
}

// FollowingFeed 关注动态
// @Summary 关注的创作者的角色
// @Tags 角色
// @Produce json
// @Security BearerAuth
// @Param limit query int false "数量" default(20)
// @Success 200 {object} response.Response{data=[]dto.CharacterInfo} "获取成功"
// @Router /characters/following/feed [get]
func (h *CharacterHandler) FollowingFeed(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	list, err := h.characterService.ListFollowing(c.Request.Context(), userID, parseLimit(c))
	if err != nil {
		handleCharacterError(c, err)
		return
	}

	response.OK(c, "获取成功", list)
}

// RecentlyViewed 最近浏览
// @Summary 最近浏览的角色
// @Tags 角色
// @Produce json
// @Security BearerAuth
// @Param limit query int false "数量" default(10)
// @Success 200 {object} response.Response{data=[]dto.CharacterInfo} "获取成功"
// @Router /characters/recently-viewed [get]
func (h *CharacterHandler) RecentlyViewed(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	list, err := h.characterService.ListRecentlyViewed(c.Request.Context(), userID, parseLimit(c))
	if err != nil {
		handleCharacterError(c, err)
		return
	}

	response.OK(c, "获取成功", list)
}

// ListByUser 用户的角色
// @Summary 用户的角色
// @Description 本人可见全部角色，其他访问者只看到公开角色
// @Tags 角色
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response{data=[]dto.CharacterInfo} "获取成功"
// @Router /users/{id}/characters [get]
func (h *CharacterHandler) ListByUser(c *gin.Context) {
	list, err := h.characterService.ListByCreator(c.Request.Context(), c.Param("id"), viewerID(c))
	if err != nil {
		handleCharacterError(c, err)
		return
	}

	response.OK(c, "获取成功", list)
}

// Like 点赞/取消点赞
// @Summary 切换点赞
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Param id path int true "角色ID"
// @Success 200 {object} response.Response{data=dto.LikeResult} "操作成功"
// @Failure 404 {object} response.ErrorResponse "角色不存在"
// @Router /characters/{id}/like [post]
func (h *CharacterHandler) Like(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := parseCharacterID(c)
	if !ok {
		return
	}

	result, err := h.interactionService.ToggleLike(c.Request.Context(), userID, id)
	if err != nil {
		handleCharacterError(c, err)
		return
	}

	response.OK(c, "操作成功", result)
}

// Favorite 收藏/取消收藏
// @Summary 切换收藏
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Param id path int true "角色ID"
// @Success 200 {object} response.Response{data=dto.FavoriteResult} "操作成功"
// @Failure 404 {object} response.ErrorResponse "角色不存在"
// @Router /characters/{id}/favorite [post]
func (h *CharacterHandler) Favorite(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := parseCharacterID(c)
	if !ok {
		return
	}

	result, err := h.interactionService.ToggleFavorite(c.Request.Context(), userID, id)
	if err != nil {
		handleCharacterError(c, err)
		return
	}

	response.OK(c, "操作成功", result)
}

// Status 点赞/收藏状态
// @Summary 当前用户对角色的点赞与收藏状态
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Param id path int true "角色ID"
// @Success 200 {object} response.Response{data=dto.CharacterStatusData} "获取成功"
// @Router /characters/{id}/status [get]
func (h *CharacterHandler) Status(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := parseCharacterID(c)
	if !ok {
		return
	}

	status, err := h.interactionService.Status(c.Request.Context(), userID, id)
	if err != nil {
		handleCharacterError(c, err)
		return
	}

	response.OK(c, "获取成功", status)
}

// MyFavorites 我的收藏
// @Summary 我收藏的角色
// @Tags 互动
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]dto.CharacterInfo} "获取成功"
// @Router /users/me/favorites [get]
func (h *CharacterHandler) MyFavorites(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	list, err := h.interactionService.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		handleCharacterError(c, err)
		return
	}

	response.OK(c, "获取成功", list)
}

func handleCharacterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCharacterNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrNotCharacterOwner):
		response.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrInvalidAvatar):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrAvatarStorageDisabled):
		response.ServiceUnavailable(c, err.Error())
	default:
		logger.Error("Character operation failed", zap.Error(err))
		response.InternalError(c, "操作失败，请稍后重试")
	}
}

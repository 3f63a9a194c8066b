package handler

import (
	"strconv"

	"charbit-go/internal/api/middleware"
	"charbit-go/internal/api/response"

	"github.com/gin-gonic/gin"
)

// parseCharacterID 解析路径中的角色 ID
func parseCharacterID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "无效的角色ID")
		return 0, false
	}
	return id, true
}

// parseLimit 读取 limit 查询参数，缺省或非法时返回 0 交由 service 取默认值
func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return limit
}

// mustUserID 读取认证中间件写入的用户 ID
func mustUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "请先登录")
	}
	return userID, ok
}

// viewerID 可选认证下的访问者 ID，游客为空串
func viewerID(c *gin.Context) string {
	userID, _ := middleware.GetCurrentUserID(c)
	return userID
}

package service

import "errors"

// 通用错误
var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrCharacterNotFound = errors.New("角色不存在")
	ErrUserBlocked       = errors.New("该用户已被拉黑")
	ErrNotFriends        = errors.New("只能与好友互发私信")
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// clampLimit limit 非正时取默认值，超过上限时截断
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

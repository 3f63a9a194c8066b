package dto

import "time"

// FollowResult 关注切换结果
type FollowResult struct {
	Following bool `json:"following"`
}

// FriendRequestInfo 收到的好友请求
type FriendRequestInfo struct {
	ID          int64     `json:"id"`
	RequesterID string    `json:"requester_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	Requester   UserBrief `json:"requester"`
}

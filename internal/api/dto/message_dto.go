package dto

import "time"

// SendMessageRequest 发送私信请求
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required,max=255"`
	Content    string `json:"content" binding:"required"`
}

// MessageInfo 私信
type MessageInfo struct {
	ID         int64     `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

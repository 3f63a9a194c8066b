package repository

import (
	"context"

	"charbit-go/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create 写入私信
func (r *MessageRepository) Create(ctx context.Context, msg *model.PrivateMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListConversation 双方往来私信，按发送时间正序
func (r *MessageRepository) ListConversation(ctx context.Context, a, b string) ([]model.PrivateMessage, error) {
	var list []model.PrivateMessage
	err := r.db.WithContext(ctx).
		Scopes(pairScope("sender_id", "receiver_id", a, b)).
		Order("created_at ASC").
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// MarkAsRead 将 sender 发给 receiver 的未读私信标记为已读
func (r *MessageRepository) MarkAsRead(ctx context.Context, receiverID, senderID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.PrivateMessage{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverID, senderID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

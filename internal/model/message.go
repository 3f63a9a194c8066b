package model

import "time"

// PrivateMessage 好友私信
type PrivateMessage struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;comment:私信ID" json:"id"`
	SenderID   string    `gorm:"size:255;not null;index:idx_messages_pair,priority:1;comment:发送者ID" json:"sender_id"`
	ReceiverID string    `gorm:"size:255;not null;index:idx_messages_pair,priority:2;comment:接收者ID" json:"receiver_id"`
	Content    string    `gorm:"type:text;not null;comment:内容" json:"content"`
	IsRead     bool      `gorm:"not null;default:false;comment:是否已读" json:"is_read"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_messages_created_at;comment:发送时间" json:"created_at"`

	Sender   User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PrivateMessage) TableName() string {
	return "private_messages"
}

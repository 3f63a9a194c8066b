package model

import "time"

// UserFollow 用户关注关系
type UserFollow struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:关注关系ID" json:"id"`
	FollowerID  string    `gorm:"size:255;not null;uniqueIndex:uq_follow_pair;index:idx_follows_follower_id;comment:粉丝用户ID" json:"follower_id"`
	FollowingID string    `gorm:"size:255;not null;uniqueIndex:uq_follow_pair;index:idx_follows_following_id;comment:被关注用户ID" json:"following_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime;comment:关注时间" json:"created_at"`

	Follower  User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Following User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}

// 好友请求状态
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipRejected = "rejected"
)

// UserFriendship 好友关系，由 requester 发起，addressee 处理
type UserFriendship struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:好友关系ID" json:"id"`
	RequesterID string    `gorm:"size:255;not null;uniqueIndex:uq_friendship_pair;comment:发起者ID" json:"requester_id"`
	AddresseeID string    `gorm:"size:255;not null;uniqueIndex:uq_friendship_pair;index:idx_friendships_addressee_id;comment:接收者ID" json:"addressee_id"`
	Status      string    `gorm:"size:20;not null;default:'pending';comment:状态" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	Requester User `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE" json:"requester,omitempty"`
	Addressee User `gorm:"foreignKey:AddresseeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserFriendship) TableName() string {
	return "user_friendships"
}

// UserBlock 拉黑关系
type UserBlock struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:拉黑关系ID" json:"id"`
	BlockerID string    `gorm:"size:255;not null;uniqueIndex:uq_block_pair;comment:拉黑发起者ID" json:"blocker_id"`
	BlockedID string    `gorm:"size:255;not null;uniqueIndex:uq_block_pair;index:idx_blocks_blocked_id;comment:被拉黑用户ID" json:"blocked_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:拉黑时间" json:"created_at"`

	Blocker User `gorm:"foreignKey:BlockerID;constraint:OnDelete:CASCADE" json:"-"`
	Blocked User `gorm:"foreignKey:BlockedID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserBlock) TableName() string {
	return "user_blocks"
}

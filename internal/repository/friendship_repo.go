package repository

import (
	"context"

	"charbit-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendshipRepository 好友关系与拉黑
type FriendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *FriendshipRepository {
	return &FriendshipRepository{db: db}
}

// CreateRequest 发起好友请求，同一方向已有记录时静默忽略，返回是否新建
func (r *FriendshipRepository) CreateRequest(ctx context.Context, requesterID, addresseeID string) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.UserFriendship{
			RequesterID: requesterID,
			AddresseeID: addresseeID,
			Status:      model.FriendshipPending,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RespondRequest 处理待确认的好友请求，返回是否命中；
// 接受时同一事务内删除反方向的记录，保证一对好友只有一行
func (r *FriendshipRepository) RespondRequest(ctx context.Context, requesterID, addresseeID, status string) (bool, error) {
	var ok bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.UserFriendship{}).
			Where("requester_id = ? AND addressee_id = ? AND status = ?", requesterID, addresseeID, model.FriendshipPending).
			Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		ok = true
		if status != model.FriendshipAccepted {
			return nil
		}
		return tx.Where("requester_id = ? AND addressee_id = ?", addresseeID, requesterID).
			Delete(&model.UserFriendship{}).Error
	})
	return ok, err
}

// Remove 删除双方之间的好友关系（任一方向）
func (r *FriendshipRepository) Remove(ctx context.Context, userID, friendID string) (bool, error) {
	result := r.db.WithContext(ctx).Scopes(pairScope("requester_id", "addressee_id", userID, friendID)).
		Delete(&model.UserFriendship{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AreFriends 是否互为好友
func (r *FriendshipRepository) AreFriends(ctx context.Context, a, b string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserFriendship{}).
		Scopes(pairScope("requester_id", "addressee_id", a, b)).
		Where("status = ?", model.FriendshipAccepted).
		Count(&count).Error
	return count > 0, err
}

// ListFriends 好友列表
func (r *FriendshipRepository) ListFriends(ctx context.Context, userID string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("users.*").
		Joins(`JOIN user_friendships ON (user_friendships.requester_id = ? AND user_friendships.addressee_id = users.id)
			OR (user_friendships.addressee_id = ? AND user_friendships.requester_id = users.id)`, userID, userID).
		Where("user_friendships.status = ?", model.FriendshipAccepted).
		Order("user_friendships.updated_at DESC").
		Find(&users).Error
	return users, err
}

// ListIncomingRequests 收到的待处理好友请求，附带请求者信息
func (r *FriendshipRepository) ListIncomingRequests(ctx context.Context, userID string) ([]model.UserFriendship, error) {
	var list []model.UserFriendship
	err := r.db.WithContext(ctx).Preload("Requester").
		Where("addressee_id = ? AND status = ?", userID, model.FriendshipPending).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// Block 拉黑并在同一事务中解除双方的好友与关注关系
func (r *FriendshipRepository) Block(ctx context.Context, blockerID, blockedID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.UserBlock{BlockerID: blockerID, BlockedID: blockedID}).Error; err != nil {
			return err
		}
		if err := tx.Scopes(pairScope("requester_id", "addressee_id", blockerID, blockedID)).
			Delete(&model.UserFriendship{}).Error; err != nil {
			return err
		}
		return tx.Scopes(pairScope("follower_id", "following_id", blockerID, blockedID)).
			Delete(&model.UserFollow{}).Error
	})
}

// Unblock 解除拉黑，返回是否存在拉黑记录
func (r *FriendshipRepository) Unblock(ctx context.Context, blockerID, blockedID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&model.UserBlock{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// IsBlocked 任一方拉黑了对方
func (r *FriendshipRepository) IsBlocked(ctx context.Context, a, b string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserBlock{}).
		Scopes(pairScope("blocker_id", "blocked_id", a, b)).
		Count(&count).Error
	return count > 0, err
}

// ListBlocked 当前用户拉黑的用户
func (r *FriendshipRepository) ListBlocked(ctx context.Context, blockerID string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("users.*").
		Joins("JOIN user_blocks ON user_blocks.blocked_id = users.id").
		Where("user_blocks.blocker_id = ?", blockerID).
		Order("user_blocks.created_at DESC").
		Find(&users).Error
	return users, err
}

// pairScope 匹配 (a, b) 或 (b, a) 两个方向
func pairScope(left, right, a, b string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(("+left+" = ? AND "+right+" = ?) OR ("+left+" = ? AND "+right+" = ?))", a, b, b, a)
	}
}

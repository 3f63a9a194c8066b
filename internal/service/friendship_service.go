package service

import (
	"context"
	"errors"

	"charbit-go/internal/api/dto"
	"charbit-go/internal/model"
	"charbit-go/internal/repository"
)

var (
	ErrCannotFriendSelf      = errors.New("不能向自己发送好友请求")
	ErrFriendRequestNotFound = errors.New("好友请求不存在或已处理")
	ErrFriendshipNotFound    = errors.New("你们还不是好友")
	ErrCannotBlockSelf       = errors.New("不能拉黑自己")
)

// FriendshipService 好友与拉黑
type FriendshipService struct {
	friendshipRepo *repository.FriendshipRepository
	userRepo       *repository.UserRepository
}

func NewFriendshipService(friendshipRepo *repository.FriendshipRepository, userRepo *repository.UserRepository) *FriendshipService {
	return &FriendshipService{friendshipRepo: friendshipRepo, userRepo: userRepo}
}

// SendRequest 发送好友请求，重复请求或已是好友时静默忽略；
// 对方已发来待处理请求时直接接受
func (s *FriendshipService) SendRequest(ctx context.Context, requesterID, addresseeID string) error {
	if requesterID == addresseeID {
		return ErrCannotFriendSelf
	}
	if err := ensureUser(ctx, s.userRepo, addresseeID); err != nil {
		return err
	}

	blocked, err := s.friendshipRepo.IsBlocked(ctx, requesterID, addresseeID)
	if err != nil {
		return err
	}
	if blocked {
		return ErrUserBlocked
	}

	accepted, err := s.friendshipRepo.RespondRequest(ctx, addresseeID, requesterID, model.FriendshipAccepted)
	if err != nil || accepted {
		return err
	}

	friends, err := s.friendshipRepo.AreFriends(ctx, requesterID, addresseeID)
	if err != nil || friends {
		return err
	}

	_, err = s.friendshipRepo.CreateRequest(ctx, requesterID, addresseeID)
	return err
}

// Accept 接受 requester 发来的待处理请求
func (s *FriendshipService) Accept(ctx context.Context, addresseeID, requesterID string) error {
	return s.respond(ctx, addresseeID, requesterID, model.FriendshipAccepted)
}

// Reject 拒绝 requester 发来的待处理请求
func (s *FriendshipService) Reject(ctx context.Context, addresseeID, requesterID string) error {
	return s.respond(ctx, addresseeID, requesterID, model.FriendshipRejected)
}

func (s *FriendshipService) respond(ctx context.Context, addresseeID, requesterID, status string) error {
	ok, err := s.friendshipRepo.RespondRequest(ctx, requesterID, addresseeID, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFriendRequestNotFound
	}
	return nil
}

// Remove 解除好友关系
func (s *FriendshipService) Remove(ctx context.Context, userID, friendID string) error {
	ok, err := s.friendshipRepo.Remove(ctx, userID, friendID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFriendshipNotFound
	}
	return nil
}

// ListFriends 好友列表
func (s *FriendshipService) ListFriends(ctx context.Context, userID string) ([]dto.UserBrief, error) {
	users, err := s.friendshipRepo.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserBriefs(users), nil
}

// ListRequests 收到的待处理好友请求
func (s *FriendshipService) ListRequests(ctx context.Context, userID string) ([]dto.FriendRequestInfo, error) {
	list, err := s.friendshipRepo.ListIncomingRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FriendRequestInfo, 0, len(list))
	for i := range list {
		items = append(items, dto.FriendRequestInfo{
			ID:          list[i].ID,
			RequesterID: list[i].RequesterID,
			Status:      list[i].Status,
			CreatedAt:   list[i].CreatedAt,
			Requester:   toUserBrief(&list[i].Requester),
		})
	}
	return items, nil
}

// Block 拉黑用户，同时解除双方好友与关注关系
func (s *FriendshipService) Block(ctx context.Context, blockerID, blockedID string) error {
	if blockerID == blockedID {
		return ErrCannotBlockSelf
	}
	if err := ensureUser(ctx, s.userRepo, blockedID); err != nil {
		return err
	}
	return s.friendshipRepo.Block(ctx, blockerID, blockedID)
}

// Unblock 解除拉黑，未拉黑时同样视为成功
func (s *FriendshipService) Unblock(ctx context.Context, blockerID, blockedID string) error {
	_, err := s.friendshipRepo.Unblock(ctx, blockerID, blockedID)
	return err
}

// ListBlocked 已拉黑的用户
func (s *FriendshipService) ListBlocked(ctx context.Context, userID string) ([]dto.UserBrief, error) {
	users, err := s.friendshipRepo.ListBlocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserBriefs(users), nil
}

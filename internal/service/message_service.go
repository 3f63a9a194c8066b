package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"charbit-go/internal/api/dto"
	"charbit-go/internal/model"
	"charbit-go/internal/repository"
)

var (
	ErrEmptyMessage      = errors.New("私信内容不能为空")
	ErrMessageTooLong    = errors.New("私信内容不能超过 5000 字")
	ErrCannotMessageSelf = errors.New("不能给自己发私信")
)

const maxMessageLength = 5000

// MessageService 好友私信；发送和读取时都要求是好友且双方均未拉黑
type MessageService struct {
	messageRepo    *repository.MessageRepository
	friendshipRepo *repository.FriendshipRepository
}

func NewMessageService(messageRepo *repository.MessageRepository, friendshipRepo *repository.FriendshipRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo, friendshipRepo: friendshipRepo}
}

// Send 发送私信
func (s *MessageService) Send(ctx context.Context, senderID string, req *dto.SendMessageRequest) (*dto.MessageInfo, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, ErrMessageTooLong
	}
	if senderID == req.ReceiverID {
		return nil, ErrCannotMessageSelf
	}
	if err := s.checkCanMessage(ctx, senderID, req.ReceiverID); err != nil {
		return nil, err
	}

	msg := &model.PrivateMessage{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    content,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	info := toMessageInfo(msg)
	return &info, nil
}

// Conversation 与好友的会话，按时间正序；读取后把对方发来的消息标记为已读
func (s *MessageService) Conversation(ctx context.Context, userID, otherID string) ([]dto.MessageInfo, error) {
	if err := s.checkCanMessage(ctx, userID, otherID); err != nil {
		return nil, err
	}

	list, err := s.messageRepo.ListConversation(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if _, err := s.messageRepo.MarkAsRead(ctx, userID, otherID); err != nil {
		return nil, err
	}

	items := make([]dto.MessageInfo, 0, len(list))
	for i := range list {
		items = append(items, toMessageInfo(&list[i]))
	}
	return items, nil
}

func (s *MessageService) checkCanMessage(ctx context.Context, a, b string) error {
	friends, err := s.friendshipRepo.AreFriends(ctx, a, b)
	if err != nil {
		return err
	}
	if !friends {
		return ErrNotFriends
	}
	blocked, err := s.friendshipRepo.IsBlocked(ctx, a, b)
	if err != nil {
		return err
	}
	if blocked {
		return ErrUserBlocked
	}
	return nil
}

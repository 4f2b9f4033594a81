package service

import (
	"fmt"

	"talent_nest_backend/internal/model"
	"talent_nest_backend/internal/repository"
	"talent_nest_backend/internal/util"
)

// MessageService 站内私信的数据封装，发送前检查双方存在活跃关系
type MessageService struct {
	MsgRepo  *repository.MessageRepository
	QuerySvc *RelationshipQueryService
}

func NewMessageService(msgRepo *repository.MessageRepository, querySvc *RelationshipQueryService) *MessageService {
	return &MessageService{
		MsgRepo:  msgRepo,
		QuerySvc: querySvc,
	}
}

func (s *MessageService) Send(senderID, receiverID uint, content string) (*model.Message, error) {
	if content == "" {
		return nil, util.NewValidation("content", "message content is required")
	}
	if senderID == receiverID {
		return nil, util.NewValidation("receiverId", "cannot message yourself")
	}

	connected, err := s.QuerySvc.IsActivelyConnected(senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, fmt.Errorf("messaging requires an active relationship: %w", util.ErrForbidden)
	}

	msg := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.MsgRepo.Create(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MessageService) GetConversation(userID, otherID uint, limit, offset int) ([]model.Message, int64, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	msgs, total, err := s.MsgRepo.ListConversation(userID, otherID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	// 标记已读失败不影响读取
	_ = s.MsgRepo.MarkRead(userID, otherID)

	return msgs, total, nil
}

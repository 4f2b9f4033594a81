package repository

import (
	"talent_nest_backend/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(msg *model.Message) error {
	return r.DB.Create(msg).Error
}

// ListConversation 两人之间的往来消息，按时间正序分页
func (r *MessageRepository) ListConversation(userID, otherID uint, limit, offset int) ([]model.Message, int64, error) {
	var msgs []model.Message
	var total int64

	db := r.DB.Model(&model.Message{}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&msgs).Error

	return msgs, total, err
}

// MarkRead 打开会话时把对方发来的未读消息置为已读
func (r *MessageRepository) MarkRead(userID, otherID uint) error {
	return r.DB.Model(&model.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND `read` = ?", otherID, userID, false).
		Update("read", true).Error
}

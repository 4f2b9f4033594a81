package model

// Message 站内私信，只在存在活跃关系的双方之间允许发送
// swagger:model Message
type Message struct {
	UUIDBase
	SenderID   uint   `gorm:"not null;index" json:"senderId"`
	ReceiverID uint   `gorm:"not null;index" json:"receiverId"`
	Content    string `gorm:"type:text;not null" json:"content"`
	Read       bool   `gorm:"default:false" json:"read"`
}

func (Message) TableName() string {
	return "messages"
}

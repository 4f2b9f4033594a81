package model

type DocumentType string

const (
	DocumentResume      DocumentType = "resume"
	DocumentCoverLetter DocumentType = "cover_letter"
)

// Document 简历/求职信的元数据，文件本体存对象存储
// swagger:model Document
type Document struct {
	UUIDBase
	OwnerID     uint         `gorm:"not null;index" json:"ownerId"`
	Type        DocumentType `gorm:"type:varchar(20);not null" json:"type"`
	FileName    string       `gorm:"size:255;not null" json:"fileName"`
	ObjectKey   string       `gorm:"size:255;not null" json:"-"`
	ContentType string       `gorm:"size:100" json:"contentType"`
	Size        int64        `json:"size"`
}

func (Document) TableName() string {
	return "documents"
}

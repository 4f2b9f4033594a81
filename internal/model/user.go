package model

import (
	"time"
)

type UserRole string

const (
	Member UserRole = "member"
	Admin  UserRole = "admin"
)

// User 即身份目录中的个人档案，关系引擎只读取存在性和展示字段
// swagger:model User
type User struct {
	BaseModel
	Name          string    `gorm:"size:100;not null" json:"name"`
	Email         string    `gorm:"size:100;unique;not null" json:"email"`
	Password      string    `gorm:"size:100;not null" json:"-"`
	Role          UserRole  `gorm:"type:varchar(20);default:'member'" json:"role"`
	Headline      string    `gorm:"size:255" json:"headline"`
	Company       string    `gorm:"size:100" json:"company"`
	Industry      string    `gorm:"size:100" json:"industry"`
	PictureURL    string    `gorm:"size:255" json:"pictureUrl"`
	EmailVerified bool      `gorm:"default:false" json:"emailVerified"`
	Disabled      bool      `gorm:"default:false" json:"disabled"`
	LastLogin     time.Time `gorm:"autoCreateTime" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary 关系视图里附带的展示字段
// swagger:model UserSummary
type UserSummary struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Headline   string `json:"headline"`
	Company    string `json:"company"`
	Industry   string `json:"industry"`
	PictureURL string `json:"pictureUrl"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		Headline:   u.Headline,
		Company:    u.Company,
		Industry:   u.Industry,
		PictureURL: u.PictureURL,
	}
}

package model

import (
	"time"
)

// swagger:model User
type User struct {
	BaseModel
	Email     string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string `gorm:"size:100;not null" json:"-"`
	FirstName string `gorm:"size:50;not null" json:"firstName"`
	LastName  string `gorm:"size:50;not null" json:"lastName"`

	// 个人偏好，用于搜索的隐式过滤
	Location       string  `gorm:"size:100" json:"location"` // "City, ST"
	FavoriteGenres string  `gorm:"size:255" json:"favoriteGenres"`
	MaxTicketPrice float64 `gorm:"default:0" json:"maxTicketPrice"`
	Avatar         string  `gorm:"size:255" json:"avatar"`

	LastLogin time.Time `json:"lastLogin"`
	LastSeen  time.Time `json:"lastSeen"`
	Disabled  bool      `gorm:"default:false" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

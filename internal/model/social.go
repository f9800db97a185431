package model

import "time"

// swagger:model SocialPost
type SocialPost struct {
	UUIDBase
	AuthorID uint            `gorm:"index;not null" json:"authorId"`
	Author   User            `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	EventID  *uint           `gorm:"index" json:"eventId,omitempty"`
	Event    *Event          `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Content  string          `gorm:"type:text;not null" json:"content"`
	ImageURL string          `gorm:"size:512" json:"imageUrl"`
	Comments []SocialComment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

func (SocialPost) TableName() string {
	return "social_posts"
}

// SocialLike (post_id, user_id) 唯一，存在即已点赞
// 物理删除，toggle 是唯一的变更路径
type SocialLike struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	PostID    string    `gorm:"uniqueIndex:idx_post_user;size:36;not null" json:"postId"`
	UserID    uint      `gorm:"uniqueIndex:idx_post_user;not null" json:"userId"`
}

func (SocialLike) TableName() string {
	return "social_likes"
}

type SocialComment struct {
	UUIDBase
	PostID   string `gorm:"index;size:36;not null" json:"postId"`
	AuthorID uint   `gorm:"index;not null" json:"authorId"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content  string `gorm:"type:text;not null" json:"content"`
}

func (SocialComment) TableName() string {
	return "social_comments"
}

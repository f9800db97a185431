package model

import "time"

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipBlocked  FriendshipStatus = "blocked"
)

// Friendship 有向好友边 (requester, addressee)，同一有序对唯一
// pending --accept--> accepted；pending --decline--> 删除；pending --block--> blocked
// 物理删除，decline 或解除好友后可重新发起
type Friendship struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	RequesterID uint             `gorm:"uniqueIndex:idx_requester_addressee;not null" json:"requesterId"`
	Requester   User             `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	AddresseeID uint             `gorm:"uniqueIndex:idx_requester_addressee;not null" json:"addresseeId"`
	Addressee   User             `gorm:"foreignKey:AddresseeID" json:"addressee,omitempty"`
	Status      FriendshipStatus `gorm:"size:20;default:'pending'" json:"status"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// OtherParty 返回边上非 userID 的一端
func (f *Friendship) OtherParty(userID uint) uint {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

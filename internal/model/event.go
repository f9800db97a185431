package model

import "time"

// Event 外部票务平台活动的本地缓存投影，以 TicketmasterID 为自然键
// swagger:model Event
type Event struct {
	BaseModel
	TicketmasterID string    `gorm:"size:64;uniqueIndex;not null" json:"ticketmasterId"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Artist         string    `gorm:"size:255" json:"artist"`
	Venue          string    `gorm:"size:255" json:"venue"`
	City           string    `gorm:"size:100;index" json:"city"`
	State          string    `gorm:"size:50" json:"state"`
	Date           time.Time `gorm:"index" json:"date"`
	MinPrice       float64   `gorm:"default:0" json:"minPrice"`
	MaxPrice       float64   `gorm:"default:0" json:"maxPrice"`
	Genre          string    `gorm:"size:50;index" json:"genre"`
	ImageURL       string    `gorm:"size:512" json:"imageUrl"`
	TicketURL      string    `gorm:"size:512" json:"ticketUrl"`
	IsActive       bool      `gorm:"default:true" json:"isActive"`
}

func (Event) TableName() string {
	return "events"
}

type InteractionType string

const (
	InteractionInterested InteractionType = "interested"
	InteractionGoing      InteractionType = "going"
	InteractionPurchased  InteractionType = "purchased"
)

func (t InteractionType) Valid() bool {
	switch t {
	case InteractionInterested, InteractionGoing, InteractionPurchased:
		return true
	}
	return false
}

// UserEvent 用户与活动的交互事实表，(user_id, event_id, interaction_type) 唯一
// 物理删除，取消交互后可重新创建
type UserEvent struct {
	ID              uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	UserID          uint            `gorm:"uniqueIndex:idx_user_event_type;not null" json:"userId"`
	EventID         uint            `gorm:"uniqueIndex:idx_user_event_type;not null" json:"eventId"`
	Event           Event           `gorm:"foreignKey:EventID" json:"event,omitempty"`
	InteractionType InteractionType `gorm:"uniqueIndex:idx_user_event_type;size:20;not null" json:"interactionType"`

	// purchased 行由支付对账写入的购买元数据
	PaymentID   *string    `gorm:"size:36;index" json:"paymentId,omitempty"`
	AmountPaid  *int64     `json:"amountPaid,omitempty"`
	Currency    string     `gorm:"size:8" json:"currency,omitempty"`
	PurchasedAt *time.Time `json:"purchasedAt,omitempty"`
}

func (UserEvent) TableName() string {
	return "user_events"
}

package model

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCanceled  PaymentStatus = "canceled"
)

func (s PaymentStatus) Terminal() bool {
	return s == PaymentSucceeded || s == PaymentFailed || s == PaymentCanceled
}

// Payment 支付意向的本地记录，StripePaymentIntentID 为供应商侧唯一键
// Amount 为最小货币单位（美分）
// swagger:model Payment
type Payment struct {
	UUIDBase
	UserID                uint          `gorm:"index;not null" json:"userId"`
	EventID               *uint         `gorm:"index" json:"eventId,omitempty"`
	Event                 *Event        `gorm:"foreignKey:EventID" json:"event,omitempty"`
	StripePaymentIntentID string        `gorm:"size:64;uniqueIndex;not null" json:"stripePaymentIntentId"`
	Amount                int64         `gorm:"not null" json:"amount"`
	Currency              string        `gorm:"size:8;default:'usd'" json:"currency"`
	Status                PaymentStatus `gorm:"size:20;default:'pending';index" json:"status"`
	Description           string        `gorm:"size:255" json:"description"`
	Metadata              string        `gorm:"type:text" json:"metadata,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

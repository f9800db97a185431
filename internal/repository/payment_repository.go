package repository

import (
	"concert_connect_backend/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(payment *model.Payment) error {
	return r.DB.Create(payment).Error
}

func (r *PaymentRepository) FindByID(id string) (*model.Payment, error) {
	var payment model.Payment
	err := r.DB.Preload("Event").Where("id = ?", id).First(&payment).Error
	return &payment, err
}

func (r *PaymentRepository) FindByIntentID(intentID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.DB.Where("stripe_payment_intent_id = ?", intentID).First(&payment).Error
	return &payment, err
}

func (r *PaymentRepository) Update(payment *model.Payment) error {
	return r.DB.Save(payment).Error
}

func (r *PaymentRepository) UpdateStatus(id string, status model.PaymentStatus) error {
	return r.DB.Model(&model.Payment{}).Where("id = ?", id).Update("status", status).Error
}

// HistoryPage 用户支付记录分页，最新在前
func (r *PaymentRepository) HistoryPage(userID uint, page, limit int) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	query := r.DB.Model(&model.Payment{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Event").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&payments).Error
	return payments, total, err
}

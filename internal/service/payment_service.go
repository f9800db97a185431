package service

import (
	"concert_connect_backend/internal/config"
	"concert_connect_backend/internal/model"
	"concert_connect_backend/internal/payment"
	"concert_connect_backend/internal/repository"
	"concert_connect_backend/internal/util"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// 最小支付金额（美分），与供应商下限一致
const minPaymentAmount = 50

// confirm 时对幂等的状态查询做有限重试
const intentPollAttempts = 3

type PaymentService struct {
	PaymentRepo *repository.PaymentRepository
	EventRepo   *repository.EventRepository
	Provider    payment.Client
	Cfg         *config.Config
}

func NewPaymentService(paymentRepo *repository.PaymentRepository, eventRepo *repository.EventRepository, provider payment.Client, cfg *config.Config) *PaymentService {
	return &PaymentService{
		PaymentRepo: paymentRepo,
		EventRepo:   eventRepo,
		Provider:    provider,
		Cfg:         cfg,
	}
}

type CreateIntentInput struct {
	EventID     uint   `json:"eventId" binding:"required"`
	Amount      int64  `json:"amount" binding:"required"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

// IntentResult create-intent 的响应投影
type IntentResult struct {
	PaymentID       string `json:"paymentId"`
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

// CreateIntent 创建供应商支付意向并落本地 pending 行。
// 创建是非幂等写操作，失败不自动重试
func (s *PaymentService) CreateIntent(ctx context.Context, userID uint, input CreateIntentInput) (*IntentResult, error) {
	if input.Amount < minPaymentAmount {
		return nil, util.Validationf("amount must be at least %d", minPaymentAmount)
	}
	currency := input.Currency
	if currency == "" {
		currency = "usd"
	}

	event, err := s.EventRepo.FindByID(input.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEventNotFound
		}
		return nil, err
	}

	description := input.Description
	if description == "" {
		description = "Tickets: " + event.Title
	}

	intent, err := s.Provider.CreateIntent(ctx, payment.CreateIntentParams{
		Amount:      input.Amount,
		Currency:    currency,
		Description: description,
		UserID:      userID,
		EventID:     event.ID,
	})
	if err != nil {
		return nil, util.Vendorf("payment provider", err)
	}

	row := &model.Payment{
		UserID:                userID,
		EventID:               &event.ID,
		StripePaymentIntentID: intent.ID,
		Amount:                input.Amount,
		Currency:              currency,
		Status:                model.PaymentPending,
		Description:           description,
	}
	if err := s.PaymentRepo.Create(row); err != nil {
		return nil, err
	}

	return &IntentResult{
		PaymentID:       row.ID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          input.Amount,
		Currency:        currency,
	}, nil
}

// Confirm 向供应商查询意向状态并持久化。首次进入 succeeded 时
// 写入 purchased 交互行（含购买元数据），保证支付成功 ⇒ 已购买
func (s *PaymentService) Confirm(ctx context.Context, userID uint, paymentID string) (*model.Payment, error) {
	row, err := s.PaymentRepo.FindByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPaymentNotFound
		}
		return nil, err
	}
	if row.UserID != userID {
		return nil, util.ErrForbidden
	}
	if row.Status.Terminal() {
		return row, nil
	}

	var intent *payment.Intent
	for attempt := 0; attempt < intentPollAttempts; attempt++ {
		intent, err = s.Provider.GetIntent(ctx, row.StripePaymentIntentID)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			break
		}
		time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
	}
	if err != nil {
		return nil, util.Vendorf("payment provider", err)
	}

	newStatus := mapIntentStatus(intent.Status)
	if newStatus == row.Status {
		return row, nil
	}

	row.Status = newStatus
	if err := s.PaymentRepo.Update(row); err != nil {
		return nil, err
	}

	if newStatus == model.PaymentSucceeded {
		if err := s.recordPurchase(row); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// HandleWebhook 验签后按事件类型对账。签名错误按校验类错误返回
func (s *PaymentService) HandleWebhook(payload []byte, signatureHeader string) error {
	event, err := payment.ParseWebhook(payload, signatureHeader, s.Cfg.Stripe.WebhookSecret)
	if err != nil {
		return util.Validationf("webhook: %v", err)
	}

	switch event.Type {
	case payment.EventIntentSucceeded:
		return s.settleIntent(event, model.PaymentSucceeded)
	case payment.EventIntentFailed:
		return s.settleIntent(event, model.PaymentFailed)
	default:
		// 未订阅的事件类型直接确认，避免供应商重发
		return nil
	}
}

func (s *PaymentService) settleIntent(event *payment.WebhookEvent, status model.PaymentStatus) error {
	row, err := s.PaymentRepo.FindByIntentID(event.Data.Object.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 意向不在本地，可能来自其它环境，确认即可
			return nil
		}
		return err
	}

	if row.Status == status {
		return nil
	}
	row.Status = status
	if err := s.PaymentRepo.Update(row); err != nil {
		return err
	}

	if status == model.PaymentSucceeded {
		return s.recordPurchase(row)
	}
	return nil
}

func (s *PaymentService) recordPurchase(row *model.Payment) error {
	if row.EventID == nil {
		return nil
	}
	return s.EventRepo.UpsertPurchase(row.UserID, *row.EventID, row.ID, row.Amount, row.Currency, time.Now())
}

func (s *PaymentService) History(userID uint, page, limit int) ([]model.Payment, int64, error) {
	return s.PaymentRepo.HistoryPage(userID, page, limit)
}

func mapIntentStatus(vendorStatus string) model.PaymentStatus {
	switch vendorStatus {
	case "succeeded":
		return model.PaymentSucceeded
	case "canceled":
		return model.PaymentCanceled
	case "requires_payment_method":
		return model.PaymentFailed
	default:
		return model.PaymentPending
	}
}

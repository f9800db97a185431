package repository

import (
	"concert_connect_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

// Upsert 按自然键 ticketmaster_id 插入或刷新可变字段。
// 幂等，并发搜索落到同一活动时第二次写只是覆盖同一行
func (r *EventRepository) Upsert(event *model.Event) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ticketmaster_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "artist", "venue", "city", "state", "date",
			"min_price", "max_price", "genre", "image_url", "ticket_url",
			"is_active", "updated_at",
		}),
	}).Create(event).Error
}

func (r *EventRepository) FindByID(id uint) (*model.Event, error) {
	var event model.Event
	err := r.DB.First(&event, id).Error
	return &event, err
}

// FindByExternalIDs 查询一批自然键对应的本地行，搜索结果注解时使用
func (r *EventRepository) FindByExternalIDs(externalIDs []string) ([]model.Event, error) {
	var events []model.Event
	if len(externalIDs) == 0 {
		return events, nil
	}
	err := r.DB.Where("ticketmaster_id IN ?", externalIDs).Find(&events).Error
	return events, err
}

func (r *EventRepository) FeaturedUpcoming(limit int) ([]model.Event, error) {
	var events []model.Event
	err := r.DB.
		Where("date >= ? AND is_active = ?", time.Now(), true).
		Order("date ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// UpsertInteraction (user_id, event_id, interaction_type) 唯一，重复标记仅刷新时间戳
func (r *EventRepository) UpsertInteraction(userID, eventID uint, interactionType model.InteractionType) error {
	row := &model.UserEvent{
		UserID:          userID,
		EventID:         eventID,
		InteractionType: interactionType,
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "event_id"}, {Name: "interaction_type"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
	}).Create(row).Error
}

// UpsertPurchase 支付对账写入 purchased 行及购买元数据
func (r *EventRepository) UpsertPurchase(userID, eventID uint, paymentID string, amount int64, currency string, purchasedAt time.Time) error {
	row := &model.UserEvent{
		UserID:          userID,
		EventID:         eventID,
		InteractionType: model.InteractionPurchased,
		PaymentID:       &paymentID,
		AmountPaid:      &amount,
		Currency:        currency,
		PurchasedAt:     &purchasedAt,
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "event_id"}, {Name: "interaction_type"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"payment_id", "amount_paid", "currency", "purchased_at", "updated_at",
		}),
	}).Create(row).Error
}

// DeleteInteraction 返回删除的行数，0 行由上层判定为 NotFound
func (r *EventRepository) DeleteInteraction(userID, eventID uint, interactionType model.InteractionType) (int64, error) {
	result := r.DB.
		Where("user_id = ? AND event_id = ? AND interaction_type = ?", userID, eventID, interactionType).
		Delete(&model.UserEvent{})
	return result.RowsAffected, result.Error
}

// InteractionsForEvents 返回用户对一批活动的交互类型集合，key 为 event_id
func (r *EventRepository) InteractionsForEvents(userID uint, eventIDs []uint) (map[uint][]model.InteractionType, error) {
	result := make(map[uint][]model.InteractionType)
	if userID == 0 || len(eventIDs) == 0 {
		return result, nil
	}

	var rows []model.UserEvent
	err := r.DB.
		Where("user_id = ? AND event_id IN ?", userID, eventIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.EventID] = append(result[row.EventID], row.InteractionType)
	}
	return result, nil
}

// ListInteractions 用户的全部交互行，可按类型过滤，按创建时间倒序
func (r *EventRepository) ListInteractions(userID uint, typeFilter model.InteractionType) ([]model.UserEvent, error) {
	var rows []model.UserEvent
	query := r.DB.Preload("Event").Where("user_id = ?", userID)
	if typeFilter != "" {
		query = query.Where("interaction_type = ?", typeFilter)
	}
	err := query.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

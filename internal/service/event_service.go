package service

import (
	"concert_connect_backend/internal/model"
	"concert_connect_backend/internal/repository"
	"concert_connect_backend/internal/ticketing"
	"concert_connect_backend/internal/util"
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

const maxSearchSize = 50

type EventService struct {
	EventRepo *repository.EventRepository
	UserRepo  *repository.UserRepository
	Ticketing ticketing.Client
}

func NewEventService(eventRepo *repository.EventRepository, userRepo *repository.UserRepository, tc ticketing.Client) *EventService {
	return &EventService{
		EventRepo: eventRepo,
		UserRepo:  userRepo,
		Ticketing: tc,
	}
}

// AnnotatedEvent 活动加上当前用户的交互类型
type AnnotatedEvent struct {
	model.Event
	UserInteractions []model.InteractionType `json:"userInteractions"`
}

// Search 调用供应商搜索，落库后返回带交互注解的本地行。
// 已登录且未显式指定地区时，用用户档案里的城市做隐式过滤
func (s *EventService) Search(ctx context.Context, userID uint, params ticketing.SearchParams) ([]AnnotatedEvent, error) {
	if params.Size <= 0 {
		params.Size = 20
	}
	if params.Size > maxSearchSize {
		params.Size = maxSearchSize
	}
	if params.Page < 0 {
		params.Page = 0
	}

	if userID != 0 && params.City == "" && params.State == "" {
		if user, err := s.UserRepo.FindByID(userID); err == nil && user.Location != "" {
			parts := strings.SplitN(user.Location, ",", 2)
			params.City = strings.TrimSpace(parts[0])
			if len(parts) == 2 {
				params.State = strings.TrimSpace(parts[1])
			}
		}
	}

	normalized, err := s.Ticketing.SearchEvents(ctx, params)
	if err != nil {
		return nil, util.Vendorf("ticketing provider", err)
	}

	externalIDs := make([]string, 0, len(normalized))
	for _, n := range normalized {
		event := &model.Event{
			TicketmasterID: n.ExternalID,
			Title:          n.Title,
			Artist:         n.Artist,
			Venue:          n.Venue,
			City:           n.City,
			State:          n.State,
			Date:           n.Date,
			MinPrice:       n.MinPrice,
			MaxPrice:       n.MaxPrice,
			Genre:          n.Genre,
			ImageURL:       n.ImageURL,
			TicketURL:      n.TicketURL,
			IsActive:       true,
		}
		if err := s.EventRepo.Upsert(event); err != nil {
			// 并发 upsert 撞唯一键不影响结果集
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, err
			}
		}
		externalIDs = append(externalIDs, n.ExternalID)
	}

	events, err := s.EventRepo.FindByExternalIDs(externalIDs)
	if err != nil {
		return nil, err
	}

	// 保持供应商返回的顺序
	byExternal := make(map[string]model.Event, len(events))
	for _, e := range events {
		byExternal[e.TicketmasterID] = e
	}
	ordered := make([]model.Event, 0, len(externalIDs))
	for _, id := range externalIDs {
		if e, ok := byExternal[id]; ok {
			ordered = append(ordered, e)
		}
	}

	return s.annotate(userID, ordered)
}

func (s *EventService) GetEvent(userID, eventID uint) (*AnnotatedEvent, error) {
	event, err := s.EventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEventNotFound
		}
		return nil, err
	}

	annotated, err := s.annotate(userID, []model.Event{*event})
	if err != nil {
		return nil, err
	}
	return &annotated[0], nil
}

func (s *EventService) annotate(userID uint, events []model.Event) ([]AnnotatedEvent, error) {
	ids := make([]uint, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}

	interactions, err := s.EventRepo.InteractionsForEvents(userID, ids)
	if err != nil {
		return nil, err
	}

	annotated := make([]AnnotatedEvent, 0, len(events))
	for _, e := range events {
		types := interactions[e.ID]
		if types == nil {
			types = []model.InteractionType{}
		}
		annotated = append(annotated, AnnotatedEvent{Event: e, UserInteractions: types})
	}
	return annotated, nil
}

// MarkInterest 幂等标记，重复标记只刷新时间戳
func (s *EventService) MarkInterest(userID, eventID uint, interactionType model.InteractionType) error {
	if !interactionType.Valid() {
		return util.Validationf("invalid interaction type: %s", interactionType)
	}

	if _, err := s.EventRepo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEventNotFound
		}
		return err
	}

	return s.EventRepo.UpsertInteraction(userID, eventID, interactionType)
}

func (s *EventService) RemoveInterest(userID, eventID uint, interactionType model.InteractionType) error {
	if !interactionType.Valid() {
		return util.Validationf("invalid interaction type: %s", interactionType)
	}

	affected, err := s.EventRepo.DeleteInteraction(userID, eventID, interactionType)
	if err != nil {
		return err
	}
	if affected == 0 {
		return util.ErrInteractionMissing
	}
	return nil
}

// MyEventEntry 交互行加时间戳，按类型分组返回
type MyEventEntry struct {
	Event       model.Event `json:"event"`
	MarkedAt    time.Time   `json:"markedAt"`
	PurchasedAt *time.Time  `json:"purchasedAt,omitempty"`
}

// MyEvents 返回按交互类型分组的活动，typeFilter 为空时全部
func (s *EventService) MyEvents(userID uint, typeFilter model.InteractionType) (map[string][]MyEventEntry, error) {
	if typeFilter != "" && !typeFilter.Valid() {
		return nil, util.Validationf("invalid interaction type: %s", typeFilter)
	}

	rows, err := s.EventRepo.ListInteractions(userID, typeFilter)
	if err != nil {
		return nil, err
	}

	grouped := map[string][]MyEventEntry{
		string(model.InteractionInterested): {},
		string(model.InteractionGoing):      {},
		string(model.InteractionPurchased):  {},
	}
	for _, row := range rows {
		entry := MyEventEntry{
			Event:    row.Event,
			MarkedAt: row.CreatedAt,
		}
		if row.PurchasedAt != nil {
			entry.PurchasedAt = row.PurchasedAt
		}
		grouped[string(row.InteractionType)] = append(grouped[string(row.InteractionType)], entry)
	}
	return grouped, nil
}

func (s *EventService) FeaturedUpcoming(userID uint, limit int) ([]AnnotatedEvent, error) {
	if limit < 1 || limit > maxSearchSize {
		limit = 10
	}
	events, err := s.EventRepo.FeaturedUpcoming(limit)
	if err != nil {
		return nil, err
	}
	return s.annotate(userID, events)
}

func (s *EventService) Genres() []string {
	return util.Genres
}

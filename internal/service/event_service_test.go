package service

import (
	"concert_connect_backend/internal/model"
	"concert_connect_backend/internal/repository"
	"concert_connect_backend/internal/ticketing"
	"concert_connect_backend/internal/util"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeTicketing 录制调用参数并返回预置结果
type fakeTicketing struct {
	lastParams ticketing.SearchParams
	results    []ticketing.NormalizedEvent
	err        error
}

func (f *fakeTicketing) SearchEvents(ctx context.Context, params ticketing.SearchParams) ([]ticketing.NormalizedEvent, error) {
	f.lastParams = params
	return f.results, f.err
}

func newEventService(t *testing.T, tc ticketing.Client) (*EventService, *gorm.DB) {
	db := newTestDB(t)
	return NewEventService(repository.NewEventRepository(db), repository.NewUserRepository(db), tc), db
}

func TestSearchUpsertsAndAnnotates(t *testing.T) {
	fake := &fakeTicketing{
		results: []ticketing.NormalizedEvent{
			{ExternalID: "tm-1", Title: "First Show", Genre: "Rock", Date: time.Now().Add(24 * time.Hour)},
			{ExternalID: "tm-2", Title: "Second Show", Genre: "Jazz", Date: time.Now().Add(48 * time.Hour)},
		},
	}
	svc, db := newEventService(t, fake)
	user := createUser(t, db, "fan@example.com")

	events, err := svc.Search(context.Background(), user.ID, ticketing.SearchParams{Keyword: "show"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "tm-1", events[0].TicketmasterID)
	assert.Empty(t, events[0].UserInteractions)

	// 再次搜索：标题变化走 upsert 更新同一行
	fake.results[0].Title = "First Show (Rescheduled)"
	again, err := svc.Search(context.Background(), user.ID, ticketing.SearchParams{Keyword: "show"})
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, events[0].ID, again[0].ID)
	assert.Equal(t, "First Show (Rescheduled)", again[0].Title)

	var count int64
	require.NoError(t, db.Model(&model.Event{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	// 标记后搜索结果带交互注解
	require.NoError(t, svc.MarkInterest(user.ID, events[0].ID, model.InteractionInterested))
	annotated, err := svc.Search(context.Background(), user.ID, ticketing.SearchParams{Keyword: "show"})
	require.NoError(t, err)
	assert.Equal(t, []model.InteractionType{model.InteractionInterested}, annotated[0].UserInteractions)
}

func TestSearchImplicitLocationFromProfile(t *testing.T) {
	fake := &fakeTicketing{}
	svc, db := newEventService(t, fake)

	user := createUser(t, db, "fan@example.com")
	require.NoError(t, db.Model(user).Update("location", "Austin, TX").Error)

	_, err := svc.Search(context.Background(), user.ID, ticketing.SearchParams{})
	require.NoError(t, err)
	assert.Equal(t, "Austin", fake.lastParams.City)
	assert.Equal(t, "TX", fake.lastParams.State)

	// 显式地区优先于档案
	_, err = svc.Search(context.Background(), user.ID, ticketing.SearchParams{City: "Denver"})
	require.NoError(t, err)
	assert.Equal(t, "Denver", fake.lastParams.City)
	assert.Empty(t, fake.lastParams.State)

	// 匿名请求不读档案
	_, err = svc.Search(context.Background(), 0, ticketing.SearchParams{})
	require.NoError(t, err)
	assert.Empty(t, fake.lastParams.City)
}

func TestSearchSizeCapAndVendorError(t *testing.T) {
	fake := &fakeTicketing{}
	svc, _ := newEventService(t, fake)

	_, err := svc.Search(context.Background(), 0, ticketing.SearchParams{Size: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, fake.lastParams.Size)

	fake.err = errors.New("rate limited")
	_, err = svc.Search(context.Background(), 0, ticketing.SearchParams{})
	assert.True(t, errors.Is(err, util.ErrValidation))
}

func TestMarkAndRemoveInterest(t *testing.T) {
	svc, db := newEventService(t, &fakeTicketing{})
	user := createUser(t, db, "fan@example.com")
	event := createEvent(t, db, "tm-1", time.Now().Add(24*time.Hour))

	assert.True(t, errors.Is(svc.MarkInterest(user.ID, event.ID, "maybe"), util.ErrValidation))
	assert.True(t, errors.Is(svc.MarkInterest(user.ID, 9999, model.InteractionGoing), util.ErrNotFound))

	// 重复标记幂等，只有一行
	require.NoError(t, svc.MarkInterest(user.ID, event.ID, model.InteractionGoing))
	require.NoError(t, svc.MarkInterest(user.ID, event.ID, model.InteractionGoing))

	var count int64
	require.NoError(t, db.Model(&model.UserEvent{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// 不同类型共存
	require.NoError(t, svc.MarkInterest(user.ID, event.ID, model.InteractionInterested))

	require.NoError(t, svc.RemoveInterest(user.ID, event.ID, model.InteractionGoing))
	assert.True(t, errors.Is(svc.RemoveInterest(user.ID, event.ID, model.InteractionGoing), util.ErrNotFound))
}

func TestMyEventsGrouping(t *testing.T) {
	svc, db := newEventService(t, &fakeTicketing{})
	user := createUser(t, db, "fan@example.com")
	first := createEvent(t, db, "tm-1", time.Now().Add(24*time.Hour))
	second := createEvent(t, db, "tm-2", time.Now().Add(48*time.Hour))

	require.NoError(t, svc.MarkInterest(user.ID, first.ID, model.InteractionInterested))
	require.NoError(t, svc.MarkInterest(user.ID, second.ID, model.InteractionGoing))

	grouped, err := svc.MyEvents(user.ID, "")
	require.NoError(t, err)
	assert.Len(t, grouped["interested"], 1)
	assert.Len(t, grouped["going"], 1)
	assert.Len(t, grouped["purchased"], 0)
	assert.Equal(t, first.ID, grouped["interested"][0].Event.ID)

	onlyGoing, err := svc.MyEvents(user.ID, model.InteractionGoing)
	require.NoError(t, err)
	assert.Len(t, onlyGoing["interested"], 0)
	assert.Len(t, onlyGoing["going"], 1)

	_, err = svc.MyEvents(user.ID, "maybe")
	assert.True(t, errors.Is(err, util.ErrValidation))
}

func TestFeaturedUpcoming(t *testing.T) {
	svc, db := newEventService(t, &fakeTicketing{})

	createEvent(t, db, "tm-past", time.Now().Add(-24*time.Hour))
	soon := createEvent(t, db, "tm-soon", time.Now().Add(24*time.Hour))
	later := createEvent(t, db, "tm-later", time.Now().Add(72*time.Hour))

	inactive := createEvent(t, db, "tm-off", time.Now().Add(36*time.Hour))
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	events, err := svc.FeaturedUpcoming(0, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, soon.ID, events[0].ID)
	assert.Equal(t, later.ID, events[1].ID)
}

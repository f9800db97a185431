package ticketing

import (
	"concert_connect_backend/internal/config"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const discoveryBody = `{
  "_embedded": {
    "events": [
      {
        "id": "tm-1",
        "name": "Arena Night",
        "url": "https://tickets.example.com/tm-1",
        "images": [
          {"url": "https://img.example.com/small.jpg", "width": 100},
          {"url": "https://img.example.com/wide.jpg", "width": 1024}
        ],
        "dates": {"start": {"dateTime": "2026-10-01T19:30:00Z"}},
        "classifications": [{"genre": {"name": "Rock"}}],
        "priceRanges": [{"min": 49.5, "max": 180}],
        "_embedded": {
          "venues": [{"name": "Big Arena", "city": {"name": "Austin"}, "state": {"stateCode": "TX"}}],
          "attractions": [{"name": "The Band"}]
        }
      },
      {
        "id": "tm-2",
        "name": "Park Session",
        "dates": {"start": {"localDate": "2026-11-05"}}
      }
    ]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *DiscoveryClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewDiscoveryClient(&config.TicketmasterConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
}

func TestSearchEventsNormalization(t *testing.T) {
	var query url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(discoveryBody))
	})

	events, err := client.SearchEvents(context.Background(), SearchParams{
		Keyword:   "arena",
		City:      "Austin",
		State:     "TX",
		Genre:     "Rock",
		StartDate: "2026-10-01",
		EndDate:   "2026-12-01",
		Radius:    25,
		Size:      20,
	})
	require.NoError(t, err)

	assert.Equal(t, "test-key", query.Get("apikey"))
	assert.Equal(t, "music", query.Get("classificationName"))
	assert.Equal(t, "arena", query.Get("keyword"))
	assert.Equal(t, "TX", query.Get("stateCode"))
	assert.Equal(t, "2026-10-01T00:00:00Z", query.Get("startDateTime"))
	assert.Equal(t, "25", query.Get("radius"))
	assert.Equal(t, "miles", query.Get("unit"))

	require.Len(t, events, 2)
	first := events[0]
	assert.Equal(t, "tm-1", first.ExternalID)
	assert.Equal(t, "Arena Night", first.Title)
	assert.Equal(t, "The Band", first.Artist)
	assert.Equal(t, "Big Arena", first.Venue)
	assert.Equal(t, "Austin", first.City)
	assert.Equal(t, "TX", first.State)
	assert.Equal(t, "Rock", first.Genre)
	assert.Equal(t, 49.5, first.MinPrice)
	assert.Equal(t, 180.0, first.MaxPrice)
	// 取最宽的图
	assert.Equal(t, "https://img.example.com/wide.jpg", first.ImageURL)
	assert.Equal(t, time.Date(2026, 10, 1, 19, 30, 0, 0, time.UTC), first.Date)

	// 缺失字段的事件按零值归一，localDate 回退解析
	second := events[1]
	assert.Equal(t, "tm-2", second.ExternalID)
	assert.Equal(t, time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC), second.Date)
	assert.Empty(t, second.Venue)
	assert.Zero(t, second.MinPrice)
}

func TestSearchEventsVendorError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.SearchEvents(context.Background(), SearchParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSearchEventsEmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	events, err := client.SearchEvents(context.Background(), SearchParams{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

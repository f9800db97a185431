package ticketing

import (
	"concert_connect_backend/internal/config"
	"concert_connect_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// SearchParams 活动搜索条件，零值字段不参与过滤
type SearchParams struct {
	Keyword   string
	City      string
	State     string
	Genre     string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
	Page      int
	Size      int
	Radius    int // miles，透传给供应商
	Sort      string
}

// NormalizedEvent 供应商活动的规范化投影
type NormalizedEvent struct {
	ExternalID string
	Title      string
	Artist     string
	Venue      string
	City       string
	State      string
	Date       time.Time
	MinPrice   float64
	MaxPrice   float64
	Genre      string
	ImageURL   string
	TicketURL  string
}

// Client 票务供应商的黑盒搜索接口
type Client interface {
	SearchEvents(ctx context.Context, params SearchParams) ([]NormalizedEvent, error)
}

// DiscoveryClient Ticketmaster Discovery API v2 客户端
type DiscoveryClient struct {
	cfg  *config.TicketmasterConfig
	http *http.Client
}

func NewDiscoveryClient(cfg *config.TicketmasterConfig) *DiscoveryClient {
	return &DiscoveryClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// discovery API 的响应结构，只解码用到的字段
type discoveryResponse struct {
	Embedded struct {
		Events []discoveryEvent `json:"events"`
	} `json:"_embedded"`
}

type discoveryEvent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Images []struct {
		URL   string `json:"url"`
		Width int    `json:"width"`
	} `json:"images"`
	Dates struct {
		Start struct {
			DateTime  string `json:"dateTime"`
			LocalDate string `json:"localDate"`
		} `json:"start"`
	} `json:"dates"`
	Classifications []struct {
		Genre struct {
			Name string `json:"name"`
		} `json:"genre"`
	} `json:"classifications"`
	PriceRanges []struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"priceRanges"`
	Embedded struct {
		Venues []struct {
			Name string `json:"name"`
			City struct {
				Name string `json:"name"`
			} `json:"city"`
			State struct {
				StateCode string `json:"stateCode"`
			} `json:"state"`
		} `json:"venues"`
		Attractions []struct {
			Name string `json:"name"`
		} `json:"attractions"`
	} `json:"_embedded"`
}

func (c *DiscoveryClient) SearchEvents(ctx context.Context, params SearchParams) ([]NormalizedEvent, error) {
	start := time.Now()
	events, err := c.search(ctx, params)
	monitoring.ObserveVendor("ticketmaster", "search_events", start, err)
	return events, err
}

func (c *DiscoveryClient) search(ctx context.Context, params SearchParams) ([]NormalizedEvent, error) {
	q := url.Values{}
	q.Set("apikey", c.cfg.APIKey)
	q.Set("classificationName", "music")
	if params.Keyword != "" {
		q.Set("keyword", params.Keyword)
	}
	if params.City != "" {
		q.Set("city", params.City)
	}
	if params.State != "" {
		q.Set("stateCode", params.State)
	}
	if params.Genre != "" {
		q.Set("genreName", params.Genre)
	}
	if params.StartDate != "" {
		q.Set("startDateTime", params.StartDate+"T00:00:00Z")
	}
	if params.EndDate != "" {
		q.Set("endDateTime", params.EndDate+"T23:59:59Z")
	}
	if params.Radius > 0 {
		q.Set("radius", strconv.Itoa(params.Radius))
		q.Set("unit", "miles")
	}
	if params.Sort != "" {
		q.Set("sort", params.Sort)
	}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("size", strconv.Itoa(params.Size))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/events.json?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discovery API returned status %d", resp.StatusCode)
	}

	var body discoveryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode discovery response: %w", err)
	}

	events := make([]NormalizedEvent, 0, len(body.Embedded.Events))
	for _, ev := range body.Embedded.Events {
		events = append(events, normalize(ev))
	}
	return events, nil
}

func normalize(ev discoveryEvent) NormalizedEvent {
	n := NormalizedEvent{
		ExternalID: ev.ID,
		Title:      ev.Name,
		TicketURL:  ev.URL,
	}

	if ev.Dates.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, ev.Dates.Start.DateTime); err == nil {
			n.Date = t
		}
	} else if ev.Dates.Start.LocalDate != "" {
		if t, err := time.Parse("2006-01-02", ev.Dates.Start.LocalDate); err == nil {
			n.Date = t
		}
	}

	if len(ev.Classifications) > 0 {
		n.Genre = ev.Classifications[0].Genre.Name
	}
	if len(ev.PriceRanges) > 0 {
		n.MinPrice = ev.PriceRanges[0].Min
		n.MaxPrice = ev.PriceRanges[0].Max
	}
	if len(ev.Embedded.Venues) > 0 {
		v := ev.Embedded.Venues[0]
		n.Venue = v.Name
		n.City = v.City.Name
		n.State = v.State.StateCode
	}
	if len(ev.Embedded.Attractions) > 0 {
		n.Artist = ev.Embedded.Attractions[0].Name
	}

	// 取最宽的一张图，避免缩略图
	best := 0
	for _, img := range ev.Images {
		if img.Width > best {
			best = img.Width
			n.ImageURL = img.URL
		}
	}

	return n
}

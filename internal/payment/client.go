package payment

import (
	"concert_connect_backend/internal/config"
	"concert_connect_backend/pkg/monitoring"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Intent 供应商侧支付意向
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type CreateIntentParams struct {
	Amount      int64
	Currency    string
	Description string
	UserID      uint
	EventID     uint
}

// Client 支付供应商的黑盒接口。创建是非幂等写操作，查询是幂等读操作
type Client interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	GetIntent(ctx context.Context, intentID string) (*Intent, error)
}

// StripeClient Stripe PaymentIntents API 客户端（form-encoded REST）
type StripeClient struct {
	cfg  *config.StripeConfig
	http *http.Client
}

func NewStripeClient(cfg *config.StripeConfig) *StripeClient {
	return &StripeClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *StripeClient) CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error) {
	start := time.Now()

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.Amount, 10))
	form.Set("currency", params.Currency)
	if params.Description != "" {
		form.Set("description", params.Description)
	}
	// 关联元数据，webhook 对账时回查
	form.Set("metadata[user_id]", strconv.FormatUint(uint64(params.UserID), 10))
	form.Set("metadata[event_id]", strconv.FormatUint(uint64(params.EventID), 10))

	intent, err := c.do(ctx, http.MethodPost, "/payment_intents", strings.NewReader(form.Encode()))
	monitoring.ObserveVendor("stripe", "create_intent", start, err)
	return intent, err
}

func (c *StripeClient) GetIntent(ctx context.Context, intentID string) (*Intent, error) {
	start := time.Now()
	intent, err := c.do(ctx, http.MethodGet, "/payment_intents/"+url.PathEscape(intentID), nil)
	monitoring.ObserveVendor("stripe", "get_intent", start, err)
	return intent, err
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *StripeClient) do(ctx context.Context, method, path string, body io.Reader) (*Intent, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var se stripeError
		if json.Unmarshal(raw, &se) == nil && se.Error.Message != "" {
			return nil, fmt.Errorf("stripe: %s", se.Error.Message)
		}
		return nil, fmt.Errorf("stripe: status %d", resp.StatusCode)
	}

	var intent Intent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, fmt.Errorf("decode intent: %w", err)
	}
	return &intent, nil
}

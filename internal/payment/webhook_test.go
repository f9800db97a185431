package payment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	now := time.Now()

	header := SignPayload(payload, testSecret, now)
	assert.NoError(t, VerifySignature(payload, header, testSecret, DefaultTolerance, now))

	// 错误密钥
	assert.ErrorIs(t, VerifySignature(payload, SignPayload(payload, "other", now), testSecret, DefaultTolerance, now), ErrInvalidSignature)

	// 载荷被篡改
	assert.ErrorIs(t, VerifySignature([]byte(`{"id":"evt_2"}`), header, testSecret, DefaultTolerance, now), ErrInvalidSignature)

	// 时间戳超出容忍窗口
	stale := SignPayload(payload, testSecret, now.Add(-10*time.Minute))
	assert.ErrorIs(t, VerifySignature(payload, stale, testSecret, DefaultTolerance, now), ErrTimestampTooOld)

	// tolerance 为 0 时不检查时间戳
	assert.NoError(t, VerifySignature(payload, stale, testSecret, 0, now))
}

func TestVerifySignatureMalformedHeaders(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()

	for _, header := range []string{
		"",
		"v1=abc",
		"t=notanumber,v1=abc",
		fmt.Sprintf("t=%d", now.Unix()),
		"garbage",
	} {
		assert.ErrorIs(t, VerifySignature(payload, header, testSecret, DefaultTolerance, now), ErrMalformedHeader, "header %q", header)
	}
}

func TestVerifySignatureMultipleSignatures(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	// 密钥轮换期间供应商会带多个 v1，任意一个匹配即通过
	valid := SignPayload(payload, testSecret, now)
	header := valid + ",v1=deadbeef"
	assert.NoError(t, VerifySignature(payload, header, testSecret, DefaultTolerance, now))
}

func TestParseWebhook(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_123", "status": "succeeded", "amount": 5000, "currency": "usd",
			"metadata": {"user_id": "7", "event_id": "42"}}}
	}`)

	event, err := ParseWebhook(payload, SignPayload(payload, testSecret, time.Now()), testSecret)
	require.NoError(t, err)
	assert.Equal(t, EventIntentSucceeded, event.Type)
	assert.Equal(t, "pi_123", event.Data.Object.ID)
	assert.EqualValues(t, 5000, event.Data.Object.Amount)
	assert.Equal(t, "7", event.Data.Object.Metadata.UserID)

	_, err = ParseWebhook(payload, "t=1,v1=bad", testSecret)
	assert.Error(t, err)

	bad := []byte(`not json`)
	_, err = ParseWebhook(bad, SignPayload(bad, testSecret, time.Now()), testSecret)
	assert.Error(t, err)
}

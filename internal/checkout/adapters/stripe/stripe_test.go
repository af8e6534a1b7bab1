package stripe

import (
	"context"
	"testing"

	checkoutdomain "github.com/celebreapp/celebre/internal/checkout/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdapterRequiresAPIKey(t *testing.T) {
	factory := NewFactory()

	_, err := factory.NewAdapter(checkoutdomain.AdapterConfig{Config: map[string]any{}})
	assert.ErrorIs(t, err, checkoutdomain.ErrInvalidConfig)

	adapter, err := factory.NewAdapter(checkoutdomain.AdapterConfig{
		Config: map[string]any{"api_key": "sk_test_123"},
	})
	require.NoError(t, err)
	assert.NotNil(t, adapter)
}

func TestParseWebhook(t *testing.T) {
	adapter := &Adapter{}

	payload := []byte(`{
		"type": "checkout.session.completed",
		"data": {"object": {
			"client_reference_id": "gift_42_01J8Z",
			"payment_status": "paid",
			"amount_total": 45000
		}}
	}`)
	notice, err := adapter.ParseWebhook(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "gift_42_01J8Z", notice.OrderRef)
	assert.True(t, notice.Paid)
	assert.Equal(t, int64(45000), notice.AmountCents)

	unpaid := []byte(`{
		"type": "checkout.session.completed",
		"data": {"object": {"client_reference_id": "gift_42_01J8Z", "payment_status": "unpaid"}}
	}`)
	notice, err = adapter.ParseWebhook(context.Background(), unpaid)
	require.NoError(t, err)
	assert.False(t, notice.Paid)

	_, err = adapter.ParseWebhook(context.Background(), []byte(`{"type":"invoice.created"}`))
	assert.ErrorIs(t, err, checkoutdomain.ErrInvalidPayload)
}

package infinitepay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	checkoutdomain "github.com/celebreapp/celebre/internal/checkout/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdapter(t *testing.T, server *httptest.Server) checkoutdomain.Adapter {
	t.Helper()
	factory := NewFactoryWithClient(server.Client())
	adapter, err := factory.NewAdapter(checkoutdomain.AdapterConfig{
		Config: map[string]any{"handle": "nosso-casamento", "api_url": server.URL},
	})
	require.NoError(t, err)
	return adapter
}

func TestCreateLink(t *testing.T) {
	var got linkPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/invoices/public/checkout/links", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://checkout.infinitepay.io/abc"})
	}))
	defer server.Close()

	url, err := newAdapter(t, server).CreateLink(context.Background(), checkoutdomain.LinkRequest{
		OrderRef:    "gift_42_01J8Z",
		RedirectURL: "https://nosso-casamento.example/obrigado",
		Items:       []checkoutdomain.Item{{Quantity: 1, PriceCents: 45000, Description: "Jogo de panelas"}},
		Customer:    checkoutdomain.Customer{Name: "Ana", Email: "ana@example.com", Phone: "11999990000"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.infinitepay.io/abc", url)

	assert.Equal(t, "nosso-casamento", got.Handle)
	assert.Equal(t, "gift_42_01J8Z", got.OrderNSU)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(45000), got.Items[0].PriceCents)
	require.NotNil(t, got.Customer)
	assert.Equal(t, "11999990000", got.Customer.PhoneNumber)
}

func TestCreateLinkRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid handle"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	_, err := newAdapter(t, server).CreateLink(context.Background(), checkoutdomain.LinkRequest{
		OrderRef: "gift_42_01J8Z",
		Items:    []checkoutdomain.Item{{Quantity: 1, PriceCents: 100, Description: "Cafeteira"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestNewAdapterWithoutHandle(t *testing.T) {
	_, err := NewFactory().NewAdapter(checkoutdomain.AdapterConfig{Config: map[string]any{}})
	assert.ErrorIs(t, err, checkoutdomain.ErrInvalidConfig)
}

func TestParseWebhook(t *testing.T) {
	adapter := &Adapter{}

	notice, err := adapter.ParseWebhook(context.Background(),
		[]byte(`{"order_nsu":"gift_42_01J8Z","invoice_slug":"abc","paid_amount":45000}`))
	require.NoError(t, err)
	assert.Equal(t, "gift_42_01J8Z", notice.OrderRef)
	assert.True(t, notice.Paid)
	assert.Equal(t, int64(45000), notice.AmountCents)

	_, err = adapter.ParseWebhook(context.Background(), []byte(`{"paid_amount":45000}`))
	assert.ErrorIs(t, err, checkoutdomain.ErrInvalidPayload)
	_, err = adapter.ParseWebhook(context.Background(), []byte(`not json`))
	assert.ErrorIs(t, err, checkoutdomain.ErrInvalidPayload)
}

// Package infinitepay creates InfinitePay checkout links.
package infinitepay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	checkoutdomain "github.com/celebreapp/celebre/internal/checkout/domain"
)

const defaultAPIURL = "https://api.infinitepay.io"

type Factory struct {
	client *http.Client
}

func NewFactory() *Factory {
	return &Factory{client: &http.Client{Timeout: 30 * time.Second}}
}

// NewFactoryWithClient exists for tests.
func NewFactoryWithClient(client *http.Client) *Factory {
	return &Factory{client: client}
}

func (f *Factory) Provider() string {
	return "infinitepay"
}

func (f *Factory) NewAdapter(cfg checkoutdomain.AdapterConfig) (checkoutdomain.Adapter, error) {
	handle, _ := cfg.Config["handle"].(string)
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, checkoutdomain.ErrInvalidConfig
	}
	apiURL, _ := cfg.Config["api_url"].(string)
	apiURL = strings.TrimSuffix(strings.TrimSpace(apiURL), "/")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Adapter{handle: handle, apiURL: apiURL, client: f.client}, nil
}

type Adapter struct {
	handle string
	apiURL string
	client *http.Client
}

type linkPayload struct {
	Handle      string                `json:"handle"`
	OrderNSU    string                `json:"order_nsu"`
	Items       []checkoutdomain.Item `json:"items"`
	RedirectURL string                `json:"redirect_url,omitempty"`
	Customer    *checkoutCustomer     `json:"customer,omitempty"`
}

type checkoutCustomer struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

func (a *Adapter) CreateLink(ctx context.Context, req checkoutdomain.LinkRequest) (string, error) {
	payload := linkPayload{
		Handle:      a.handle,
		OrderNSU:    req.OrderRef,
		Items:       req.Items,
		RedirectURL: req.RedirectURL,
	}
	if req.Customer.Name != "" || req.Customer.Email != "" {
		payload.Customer = &checkoutCustomer{
			Name:        req.Customer.Name,
			Email:       req.Customer.Email,
			PhoneNumber: req.Customer.Phone,
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := a.apiURL + "/invoices/public/checkout/links"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("infinitepay checkout: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("infinitepay checkout: status %d: %s", resp.StatusCode, body)
	}

	var parsed struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.URL == "" {
		return "", checkoutdomain.ErrInvalidPayload
	}
	return parsed.URL, nil
}

func (a *Adapter) ParseWebhook(_ context.Context, payload []byte) (*checkoutdomain.Notice, error) {
	var event struct {
		OrderNSU   string `json:"order_nsu"`
		InvoiceRef string `json:"invoice_slug"`
		PaidAmount int64  `json:"paid_amount"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, checkoutdomain.ErrInvalidPayload
	}
	if event.OrderNSU == "" {
		return nil, checkoutdomain.ErrInvalidPayload
	}
	return &checkoutdomain.Notice{
		OrderRef:    event.OrderNSU,
		Paid:        true,
		AmountCents: event.PaidAmount,
		RawPayload:  payload,
	}, nil
}

// Package stripe creates Stripe Checkout sessions.
package stripe

import (
	"context"
	"encoding/json"
	"strings"

	checkoutdomain "github.com/celebreapp/celebre/internal/checkout/domain"
	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Provider() string {
	return "stripe"
}

func (f *Factory) NewAdapter(cfg checkoutdomain.AdapterConfig) (checkoutdomain.Adapter, error) {
	apiKey, _ := cfg.Config["api_key"].(string)
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, checkoutdomain.ErrInvalidConfig
	}

	api := &client.API{}
	api.Init(apiKey, nil)
	return &Adapter{api: api}, nil
}

type Adapter struct {
	api *client.API
}

func (a *Adapter) CreateLink(ctx context.Context, req checkoutdomain.LinkRequest) (string, error) {
	params := &stripego.CheckoutSessionParams{
		Mode:              stripego.String(string(stripego.CheckoutSessionModePayment)),
		ClientReferenceID: stripego.String(req.OrderRef),
	}
	params.Context = ctx
	if req.RedirectURL != "" {
		params.SuccessURL = stripego.String(req.RedirectURL)
	}
	if req.Customer.Email != "" {
		params.CustomerEmail = stripego.String(req.Customer.Email)
	}
	for _, item := range req.Items {
		params.LineItems = append(params.LineItems, &stripego.CheckoutSessionLineItemParams{
			Quantity: stripego.Int64(int64(item.Quantity)),
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripego.String(string(stripego.CurrencyBRL)),
				UnitAmount: stripego.Int64(item.PriceCents),
				ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripego.String(item.Description),
				},
			},
		})
	}

	sess, err := a.api.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func (a *Adapter) ParseWebhook(_ context.Context, payload []byte) (*checkoutdomain.Notice, error) {
	var event struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ClientReferenceID string `json:"client_reference_id"`
				PaymentStatus     string `json:"payment_status"`
				AmountTotal       int64  `json:"amount_total"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, checkoutdomain.ErrInvalidPayload
	}
	if event.Type != "checkout.session.completed" || event.Data.Object.ClientReferenceID == "" {
		return nil, checkoutdomain.ErrInvalidPayload
	}
	return &checkoutdomain.Notice{
		OrderRef:    event.Data.Object.ClientReferenceID,
		Paid:        event.Data.Object.PaymentStatus == "paid",
		AmountCents: event.Data.Object.AmountTotal,
		RawPayload:  payload,
	}, nil
}

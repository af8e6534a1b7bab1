package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	giftdomain "github.com/celebreapp/celebre/internal/gift/domain"
	tenantdomain "github.com/celebreapp/celebre/internal/tenant/domain"
	"github.com/celebreapp/celebre/internal/tenantctx"
	"github.com/gin-gonic/gin"
)

type fakeGiftService struct {
	reserveErr      error
	reserveCalls    int
	webhookProvider string
	webhookPayload  []byte
}

func (f *fakeGiftService) List(ctx context.Context) ([]giftdomain.Gift, error) {
	_ = ctx
	return nil, nil
}

func (f *fakeGiftService) ByCategory(ctx context.Context, category string) ([]giftdomain.Gift, error) {
	_ = ctx
	_ = category
	return nil, nil
}

func (f *fakeGiftService) Get(ctx context.Context, id snowflake.ID) (*giftdomain.Gift, error) {
	_ = ctx
	_ = id
	return nil, giftdomain.ErrGiftNotFound
}

func (f *fakeGiftService) Create(ctx context.Context, gift *giftdomain.Gift) error {
	_ = ctx
	_ = gift
	return nil
}

func (f *fakeGiftService) Update(ctx context.Context, gift *giftdomain.Gift) error {
	_ = ctx
	_ = gift
	return nil
}

func (f *fakeGiftService) Delete(ctx context.Context, id snowflake.ID) error {
	_ = ctx
	_ = id
	return nil
}

func (f *fakeGiftService) Stats(ctx context.Context) (giftdomain.Stats, error) {
	_ = ctx
	return giftdomain.Stats{}, nil
}

func (f *fakeGiftService) Reserve(ctx context.Context, id snowflake.ID, name, email, phone string) (*giftdomain.Reservation, error) {
	f.reserveCalls++
	_ = ctx
	_ = email
	_ = phone
	if f.reserveErr != nil {
		return nil, f.reserveErr
	}
	return &giftdomain.Reservation{
		Gift:        &giftdomain.Gift{ID: id, Name: "Jogo de Panelas", ReservedBy: name},
		CheckoutURL: "https://checkout.example/abc",
		OrderRef:    giftdomain.FormatOrderRef(id, "01J8Z"),
	}, nil
}

func (f *fakeGiftService) HandleWebhook(ctx context.Context, provider string, payload []byte) error {
	_ = ctx
	f.webhookProvider = provider
	f.webhookPayload = payload
	return nil
}

func withTenant(cfg *tenantdomain.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := tenantctx.WithTenant(c.Request.Context(), cfg)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func TestRequireFeatureHidesDisabledRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &tenantdomain.Config{Features: tenantdomain.Features{Rsvp: true}}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.Use(withTenant(cfg))
	router.GET("/api/presentes", RequireFeature("pix"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/presentes", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "feature_not_available" {
		t.Fatalf("expected feature_not_available, got %q", body["error"])
	}
}

func TestRequireFeaturePassesEnabledRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &tenantdomain.Config{Features: tenantdomain.Features{Pix: true}}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.Use(withTenant(cfg))
	router.GET("/api/presentes", RequireFeature("pix"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/presentes", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestReserveGiftUnavailableReturnsConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)

	giftSvc := &fakeGiftService{reserveErr: giftdomain.ErrGiftUnavailable}
	srv := &Server{giftSvc: giftSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/api/presentes/:id/reservar", srv.ReserveGift)

	req := httptest.NewRequest(http.MethodPost, "/api/presentes/42/reservar",
		bytes.NewBufferString(`{"nome":"Ana","email":"ana@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
	if giftSvc.reserveCalls != 1 {
		t.Fatalf("expected one reserve call, got %d", giftSvc.reserveCalls)
	}
}

func TestReserveGiftReturnsCheckoutLink(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := &Server{giftSvc: &fakeGiftService{}}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/api/presentes/:id/reservar", srv.ReserveGift)

	req := httptest.NewRequest(http.MethodPost, "/api/presentes/42/reservar",
		bytes.NewBufferString(`{"nome":"Ana","email":"ana@example.com","telefone":"11999990000"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var reservation giftdomain.Reservation
	if err := json.Unmarshal(resp.Body.Bytes(), &reservation); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if reservation.CheckoutURL != "https://checkout.example/abc" {
		t.Fatalf("unexpected checkout url %q", reservation.CheckoutURL)
	}
	if reservation.OrderRef == "" {
		t.Fatal("expected order_ref in response")
	}
}

func TestHandleCheckoutWebhookAcknowledges(t *testing.T) {
	gin.SetMode(gin.TestMode)

	giftSvc := &fakeGiftService{}
	srv := &Server{giftSvc: giftSvc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/api/payments/webhooks/:provider", srv.HandleCheckoutWebhook)

	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhooks/infinitepay",
		bytes.NewBufferString(`{"order_nsu":"gift_42_01J8Z","paid_amount":45000}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if giftSvc.webhookProvider != "infinitepay" {
		t.Fatalf("expected provider infinitepay, got %q", giftSvc.webhookProvider)
	}
	if len(giftSvc.webhookPayload) == 0 {
		t.Fatal("expected raw payload to reach the service")
	}
}

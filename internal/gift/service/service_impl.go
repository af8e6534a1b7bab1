package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/checkout/adapters"
	checkoutdomain "github.com/celebreapp/celebre/internal/checkout/domain"
	"github.com/celebreapp/celebre/internal/config"
	"github.com/celebreapp/celebre/internal/gift/domain"
	"github.com/celebreapp/celebre/internal/observability/metrics"
	"github.com/celebreapp/celebre/internal/repofactory"
	"github.com/celebreapp/celebre/internal/tenantctx"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config   *config.Config
	Log      *zap.Logger
	Factory  *repofactory.Factory
	Registry *adapters.Registry
	Node     *snowflake.Node
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	cfg      *config.Config
	log      *zap.Logger
	factory  *repofactory.Factory
	registry *adapters.Registry
	node     *snowflake.Node
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		cfg:      p.Config,
		log:      p.Log.Named("gift.service"),
		factory:  p.Factory,
		registry: p.Registry,
		node:     p.Node,
		metrics:  p.Metrics,
	}
}

func (s *Service) repo(ctx context.Context) (domain.Repository, error) {
	return s.factory.Gifts(ctx)
}

func (s *Service) List(ctx context.Context) ([]domain.Gift, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.All(ctx)
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]domain.Gift, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.ByCategory(ctx, category)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Gift, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	gift, err := repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gift == nil {
		return nil, domain.ErrGiftNotFound
	}
	return gift, nil
}

func (s *Service) Create(ctx context.Context, gift *domain.Gift) error {
	gift.Name = strings.TrimSpace(gift.Name)
	if gift.Name == "" || gift.PriceCents <= 0 {
		return domain.ErrInvalidGift
	}
	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	if gift.ID == 0 {
		gift.ID = s.node.Generate()
	}
	return repo.Insert(ctx, gift)
}

func (s *Service) Update(ctx context.Context, gift *domain.Gift) error {
	if gift.ID == 0 {
		return domain.ErrInvalidGift
	}
	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	existing, err := repo.ByID(ctx, gift.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrGiftNotFound
	}
	gift.CreatedAt = existing.CreatedAt
	return repo.Update(ctx, gift)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	return repo.Stats(ctx)
}

// Reserve claims the gift and hands back the provider's checkout page.
// A reservation that fails to produce a checkout link is rolled back so
// the gift goes back on the shelf.
func (s *Service) Reserve(ctx context.Context, id snowflake.ID, name, email, phone string) (*domain.Reservation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidGift
	}

	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	gift, err := repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gift == nil {
		return nil, domain.ErrGiftNotFound
	}
	if gift.Status != domain.StatusAvailable {
		return nil, domain.ErrGiftUnavailable
	}

	orderRef := domain.FormatOrderRef(gift.ID, ulid.Make().String())
	won, err := repo.Reserve(ctx, gift.ID, orderRef, name, email)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, domain.ErrGiftUnavailable
	}

	adapter, err := s.adapter(ctx)
	if err != nil {
		s.release(ctx, repo, gift.ID)
		return nil, err
	}

	checkoutURL, err := adapter.CreateLink(ctx, checkoutdomain.LinkRequest{
		OrderRef:    orderRef,
		RedirectURL: s.cfg.Checkout.RedirectURL,
		Items: []checkoutdomain.Item{{
			Quantity:    1,
			PriceCents:  gift.PriceCents,
			Description: gift.Name,
		}},
		Customer: checkoutdomain.Customer{Name: name, Email: email, Phone: phone},
	})
	if err != nil {
		s.release(ctx, repo, gift.ID)
		return nil, err
	}

	gift.Status = domain.StatusReserved
	gift.ReservedBy = name
	gift.ReservedEmail = email
	gift.OrderRef = &orderRef

	s.log.Info("gift reserved",
		zap.Int64("gift_id", int64(gift.ID)),
		zap.String("order_ref", orderRef))
	return &domain.Reservation{Gift: gift, CheckoutURL: checkoutURL, OrderRef: orderRef}, nil
}

// HandleWebhook marks the gift paid from a provider notification. Replays
// are no-ops.
func (s *Service) HandleWebhook(ctx context.Context, provider string, payload []byte) error {
	adapter, err := s.adapterFor(ctx, provider)
	if err != nil {
		return err
	}
	notice, err := adapter.ParseWebhook(ctx, payload)
	if err != nil {
		s.metrics.RecordWebhookEvent(ctx, provider, "invalid")
		return err
	}
	s.metrics.RecordWebhookEvent(ctx, provider, "ok")
	if !notice.Paid {
		return nil
	}
	if _, err := domain.ParseOrderRef(notice.OrderRef); err != nil {
		return err
	}

	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	updated, err := repo.MarkPaid(ctx, notice.OrderRef)
	if err != nil {
		return err
	}
	if updated {
		s.log.Info("gift paid", zap.String("order_ref", notice.OrderRef))
		s.metrics.RecordGiftPayment(ctx, provider)
	}
	return nil
}

func (s *Service) adapter(ctx context.Context) (checkoutdomain.Adapter, error) {
	provider := ""
	if cfg, ok := tenantctx.FromContext(ctx); ok {
		provider = cfg.Integrations.Payment
	}
	return s.adapterFor(ctx, provider)
}

// normalizeProvider maps tenant payment settings onto registry names.
// Tenants configured with "pix" charge through InfinitePay.
func normalizeProvider(provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "pix", "infinitepay":
		return "infinitepay"
	default:
		return strings.ToLower(strings.TrimSpace(provider))
	}
}

func (s *Service) adapterFor(ctx context.Context, provider string) (checkoutdomain.Adapter, error) {
	var tenantID snowflake.ID
	if id, ok := tenantctx.TenantID(ctx); ok {
		tenantID = id
	}
	return s.registry.NewAdapter(normalizeProvider(provider), checkoutdomain.AdapterConfig{
		TenantID: tenantID,
		Config: map[string]any{
			"handle":  s.cfg.Checkout.InfinitePayHandle,
			"api_url": s.cfg.Checkout.InfinitePayAPIURL,
			"api_key": s.cfg.Checkout.StripeAPIKey,
		},
	})
}

func (s *Service) release(ctx context.Context, repo domain.Repository, id snowflake.ID) {
	if err := repo.Release(ctx, id); err != nil {
		s.log.Warn("gift release failed", zap.Int64("gift_id", int64(id)), zap.Error(err))
	}
}

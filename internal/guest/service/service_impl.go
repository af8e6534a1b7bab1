package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/clock"
	"github.com/celebreapp/celebre/internal/guest/domain"
	"github.com/celebreapp/celebre/internal/repofactory"
	"github.com/celebreapp/celebre/internal/tenantctx"
	"github.com/celebreapp/celebre/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Factory *repofactory.Factory
	Clock   clock.Clock
	Node    *snowflake.Node
}

type Service struct {
	log     *zap.Logger
	factory *repofactory.Factory
	clock   clock.Clock
	node    *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("guest.service"),
		factory: p.Factory,
		clock:   p.Clock,
		node:    p.Node,
	}
}

func (s *Service) repo(ctx context.Context) (domain.Repository, error) {
	return s.factory.Guests(ctx)
}

func (s *Service) List(ctx context.Context) ([]domain.Guest, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.All(ctx)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Guest, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	guest, err := repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, domain.ErrGuestNotFound
	}
	return guest, nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (*domain.Guest, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidGuest
	}
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	guest, err := repo.ByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, domain.ErrGuestNotFound
	}
	return guest, nil
}

func (s *Service) Create(ctx context.Context, guest *domain.Guest) error {
	guest.Name = strings.TrimSpace(guest.Name)
	guest.Code = strings.TrimSpace(guest.Code)
	if guest.Name == "" || guest.Code == "" {
		return domain.ErrInvalidGuest
	}

	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}

	if cfg, ok := tenantctx.FromContext(ctx); ok && cfg.Limits.MaxGuests > 0 {
		total, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if total >= int64(cfg.Limits.MaxGuests) {
			return domain.ErrGuestLimit
		}
	}

	if guest.ID == 0 {
		guest.ID = s.node.Generate()
	}
	if err := repo.Insert(ctx, guest); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrCodeExists
		}
		return err
	}
	return nil
}

func (s *Service) Update(ctx context.Context, guest *domain.Guest) error {
	if guest.ID == 0 {
		return domain.ErrInvalidGuest
	}
	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	existing, err := repo.ByID(ctx, guest.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrGuestNotFound
	}
	guest.CreatedAt = existing.CreatedAt
	if err := repo.Update(ctx, guest); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrCodeExists
		}
		return err
	}
	return nil
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

func (s *Service) CheckedIn(ctx context.Context) ([]domain.Guest, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.CheckedIn(ctx)
}

// RegisterCheckin records the guest's entry exactly once. Concurrent
// attempts race on a conditional update; losers get the winner's entry time.
func (s *Service) RegisterCheckin(ctx context.Context, code string) (*domain.Guest, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}

	guest, err := repo.ByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, domain.ErrGuestNotFound
	}
	if guest.CheckedIn {
		return guest, &domain.AlreadyCheckedInError{At: guest.CheckinTime}
	}

	now := s.clock.Now()
	won, err := repo.Checkin(ctx, guest.ID, now)
	if err != nil {
		return nil, err
	}
	if !won {
		refreshed, err := repo.ByID(ctx, guest.ID)
		if err != nil || refreshed == nil {
			return guest, &domain.AlreadyCheckedInError{}
		}
		return refreshed, &domain.AlreadyCheckedInError{At: refreshed.CheckinTime}
	}

	guest.CheckedIn = true
	guest.CheckinTime = &now
	s.log.Info("guest checked in",
		zap.String("codigo", guest.Code),
		zap.String("nome", guest.Name))
	return guest, nil
}

package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/celebreapp/celebre/internal/contract/domain"
	"github.com/celebreapp/celebre/internal/repofactory"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Factory *repofactory.Factory
	Node    *snowflake.Node
}

type Service struct {
	log     *zap.Logger
	factory *repofactory.Factory
	node    *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("contract.service"),
		factory: p.Factory,
		node:    p.Node,
	}
}

func (s *Service) repo(ctx context.Context) (domain.Repository, error) {
	return s.factory.Contracts(ctx)
}

func (s *Service) List(ctx context.Context) ([]domain.Contract, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	return repo.All(ctx)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Contract, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return nil, err
	}
	contract, err := repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, domain.ErrContractNotFound
	}
	return contract, nil
}

func (s *Service) Create(ctx context.Context, contract *domain.Contract) error {
	if err := validate(contract); err != nil {
		return err
	}
	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	if contract.ID == 0 {
		contract.ID = s.node.Generate()
	}
	return repo.Insert(ctx, contract)
}

func (s *Service) Update(ctx context.Context, contract *domain.Contract) error {
	if contract.ID == 0 {
		return domain.ErrInvalidContract
	}
	if err := validate(contract); err != nil {
		return err
	}
	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	existing, err := repo.ByID(ctx, contract.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.ErrContractNotFound
	}
	contract.CreatedAt = existing.CreatedAt
	return repo.Update(ctx, contract)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	repo, err := s.repo(ctx)
	if err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}

func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	repo, err := s.repo(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return repo.Summary(ctx)
}

func validate(contract *domain.Contract) error {
	contract.Company = strings.TrimSpace(contract.Company)
	contract.Responsible = strings.TrimSpace(contract.Responsible)
	if contract.Company == "" || contract.Responsible == "" {
		return domain.ErrInvalidContract
	}
	if contract.ValueCents < 0 || contract.PaidCents < 0 || contract.PaidCents > contract.ValueCents {
		return domain.ErrInvalidContract
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/clock"
	"eventhub/internal/domain"
)

type catalogService struct {
	tx             domain.Transactor
	catalogRepo    domain.CatalogRepository
	usageRepo      domain.UsageRepository
	clock          clock.Clock
	contextTimeout time.Duration
}

// NewCatalogService manages the lookup entities events point at.
func NewCatalogService(tx domain.Transactor, catalogRepo domain.CatalogRepository, usageRepo domain.UsageRepository, clk clock.Clock, timeout time.Duration) domain.CatalogService {
	return &catalogService{
		tx:             tx,
		catalogRepo:    catalogRepo,
		usageRepo:      usageRepo,
		clock:          clk,
		contextTimeout: timeout,
	}
}

func (s *catalogService) Create(ctx context.Context, item *domain.CatalogItem) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !item.Kind.Valid() {
		return domain.Invalidf("unknown catalog kind %q", item.Kind)
	}
	item.Name = strings.TrimSpace(item.Name)
	item.Description = strings.TrimSpace(item.Description)
	if item.Name == "" {
		return domain.Invalidf("name is required")
	}
	if item.Description == "" {
		return domain.Invalidf("description is required")
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		taken, err := s.catalogRepo.NameTaken(ctx, item.Kind, item.Name)
		if err != nil {
			return fmt.Errorf("check %s name: %w", item.Kind, err)
		}
		if taken {
			return domain.Invalidf("%s name %q is already in use", item.Kind, item.Name)
		}
		taken, err = s.catalogRepo.DescriptionTaken(ctx, item.Kind, item.Description)
		if err != nil {
			return fmt.Errorf("check %s description: %w", item.Kind, err)
		}
		if taken {
			return domain.Invalidf("%s description is already in use", item.Kind)
		}
		now := s.clock.Now()
		item.CreatedAt = now
		item.UpdatedAt = now
		if err := s.catalogRepo.Create(ctx, item); err != nil {
			return fmt.Errorf("create %s: %w", item.Kind, err)
		}
		return nil
	})
}

func (s *catalogService) Get(ctx context.Context, kind domain.CatalogKind, id int64) (*domain.CatalogItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.catalogRepo.GetByID(ctx, kind, id)
}

func (s *catalogService) List(ctx context.Context, kind domain.CatalogKind, params domain.PaginationParams) ([]*domain.CatalogItem, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	items, total, err := s.catalogRepo.List(ctx, kind, params.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", kind.Plural(), err)
	}
	return items, total, nil
}

// Delete removes the item only while no event references it.
func (s *catalogService) Delete(ctx context.Context, kind domain.CatalogKind, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.catalogRepo.GetByID(ctx, kind, id); err != nil {
			return err
		}
		n, err := s.usageRepo.CountUsages(ctx, kind.UsageKind(), id)
		if err != nil {
			return fmt.Errorf("count %s usages: %w", kind, err)
		}
		if err := domain.UsageError(kind.UsageKind(), id, n); err != nil {
			return err
		}
		return s.catalogRepo.Delete(ctx, kind, id)
	})
}

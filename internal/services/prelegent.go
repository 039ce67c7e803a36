package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/clock"
	"eventhub/internal/domain"
)

type prelegentService struct {
	tx             domain.Transactor
	prelegentRepo  domain.PrelegentRepository
	userRepo       domain.UserRepository
	usageRepo      domain.UsageRepository
	clock          clock.Clock
	contextTimeout time.Duration
}

func NewPrelegentService(tx domain.Transactor, prelegentRepo domain.PrelegentRepository, userRepo domain.UserRepository, usageRepo domain.UsageRepository, clk clock.Clock, timeout time.Duration) domain.PrelegentService {
	return &prelegentService{
		tx:             tx,
		prelegentRepo:  prelegentRepo,
		userRepo:       userRepo,
		usageRepo:      usageRepo,
		clock:          clk,
		contextTimeout: timeout,
	}
}

// Create gives an existing user a speaker profile. Members are promoted to
// the prelegent role; administrators keep theirs.
func (s *prelegentService) Create(ctx context.Context, p *domain.Prelegent) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	if p.UserID <= 0 {
		return domain.Invalidf("user_id must be a positive integer")
	}
	if p.Name == "" {
		return domain.Invalidf("name is required")
	}
	if p.Description == "" {
		return domain.Invalidf("description is required")
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, p.UserID)
		if err != nil {
			return err
		}
		existing, err := s.prelegentRepo.GetByUserID(ctx, p.UserID)
		switch {
		case err == nil:
			return domain.Conflictf("user %d already has prelegent profile %d", p.UserID, existing.ID)
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("check prelegent profile: %w", err)
		}
		if taken, err := s.prelegentRepo.NameTaken(ctx, p.Name); err != nil {
			return fmt.Errorf("check prelegent name: %w", err)
		} else if taken {
			return domain.Invalidf("prelegent name %q is already in use", p.Name)
		}
		if taken, err := s.prelegentRepo.DescriptionTaken(ctx, p.Description); err != nil {
			return fmt.Errorf("check prelegent description: %w", err)
		} else if taken {
			return domain.Invalidf("prelegent description is already in use")
		}

		now := s.clock.Now()
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := s.prelegentRepo.Create(ctx, p); err != nil {
			return fmt.Errorf("create prelegent: %w", err)
		}
		if user.Role == domain.RoleMember {
			if err := s.userRepo.UpdateRole(ctx, user.ID, domain.RolePrelegent); err != nil {
				return fmt.Errorf("promote user: %w", err)
			}
		}
		return nil
	})
}

func (s *prelegentService) Get(ctx context.Context, id int64) (*domain.Prelegent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.prelegentRepo.GetByID(ctx, id)
}

func (s *prelegentService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Prelegent, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	out, total, err := s.prelegentRepo.List(ctx, params.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list prelegents: %w", err)
	}
	return out, total, nil
}

// Delete removes an unbooked prelegent and returns its owner to the member role.
func (s *prelegentService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.prelegentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		n, err := s.usageRepo.CountUsages(ctx, domain.UsagePrelegent, id)
		if err != nil {
			return fmt.Errorf("count prelegent usages: %w", err)
		}
		if err := domain.UsageError(domain.UsagePrelegent, id, n); err != nil {
			return err
		}
		if err := s.prelegentRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete prelegent: %w", err)
		}
		user, err := s.userRepo.GetByID(ctx, p.UserID)
		if err != nil {
			return err
		}
		if user.Role == domain.RolePrelegent {
			if err := s.userRepo.UpdateRole(ctx, user.ID, domain.RoleMember); err != nil {
				return fmt.Errorf("demote user: %w", err)
			}
		}
		return nil
	})
}

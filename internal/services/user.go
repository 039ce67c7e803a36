package services

import (
	"context"
	"fmt"
	"time"

	"eventhub/internal/domain"
)

type userService struct {
	tx             domain.Transactor
	userRepo       domain.UserRepository
	usageRepo      domain.UsageRepository
	contextTimeout time.Duration
}

// NewUserService creates a UserService backed by the given repositories.
func NewUserService(tx domain.Transactor, userRepo domain.UserRepository, usageRepo domain.UsageRepository, timeout time.Duration) domain.UserService {
	return &userService{
		tx:             tx,
		userRepo:       userRepo,
		usageRepo:      usageRepo,
		contextTimeout: timeout,
	}
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.User, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	users, total, err := s.userRepo.List(ctx, params.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// Delete removes a user who is not the actor, owns no prelegent profile and
// holds no tickets.
func (s *userService) Delete(ctx context.Context, actorID, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actorID == id {
		return domain.Conflictf("user %d cannot delete itself", id)
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.LockByID(ctx, id); err != nil {
			return err
		}
		for _, kind := range []domain.UsageKind{domain.UsageUserPrelegent, domain.UsageUserTickets} {
			n, err := s.usageRepo.CountUsages(ctx, kind, id)
			if err != nil {
				return fmt.Errorf("count %s: %w", kind, err)
			}
			if err := domain.UsageError(kind, id, n); err != nil {
				return err
			}
		}
		if err := s.userRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

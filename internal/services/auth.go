package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"eventhub/internal/clock"
	"eventhub/internal/domain"
)

const minPasswordLen = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	userRepo       domain.UserRepository
	hasher         domain.PasswordHasher
	tokenIssuer    domain.TokenIssuer
	blacklist      domain.TokenBlacklist
	emailService   domain.EmailService
	clock          clock.Clock
	logger         *slog.Logger
	bootstrapAdmin string
	contextTimeout time.Duration
}

// NewAuthService creates an AuthService. A sign-up whose email equals
// bootstrapAdmin is stored as an administrator; leave it empty to disable.
func NewAuthService(userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	blacklist domain.TokenBlacklist,
	emailService domain.EmailService,
	clk clock.Clock,
	logger *slog.Logger,
	bootstrapAdmin string,
	timeout time.Duration,
) domain.AuthService {
	return &authService{
		userRepo:       userRepo,
		hasher:         hasher,
		tokenIssuer:    tokenIssuer,
		blacklist:      blacklist,
		emailService:   emailService,
		clock:          clk,
		logger:         logger,
		bootstrapAdmin: normalizeEmail(bootstrapAdmin),
		contextTimeout: timeout,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (s *authService) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if !emailRegexp.MatchString(email) {
		return nil, domain.Invalidf("invalid email format")
	}
	if len(password) < minPasswordLen {
		return nil, domain.Invalidf("password must be at least %d characters", minPasswordLen)
	}
	if name == "" {
		return nil, domain.Invalidf("name is required")
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.Conflictf("email %s is already registered", email)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	role := domain.RoleMember
	if s.bootstrapAdmin != "" && email == s.bootstrapAdmin {
		role = domain.RoleAdministrator
	}
	now := s.clock.Now()
	user := domain.NewUser(email, name, role, hash, now, now)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.emailService != nil {
		data := &domain.WelcomeMessageEmailData{Email: user.Email, Name: user.Name}
		if err := s.emailService.SendWelcomeMessage(ctx, data); err != nil {
			s.logger.WarnContext(ctx, "welcome email failed", "user_id", user.ID, "err", err)
		}
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	token, err := s.tokenIssuer.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout revokes the token until it would have expired on its own.
func (s *authService) Logout(ctx context.Context, claims *domain.TokenClaims) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if claims == nil || claims.TokenID == "" {
		return fmt.Errorf("%w: token has no id", domain.ErrUnauthorized)
	}
	if !claims.ExpiresAt.After(s.clock.Now()) {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

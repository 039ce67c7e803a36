package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventhub/internal/clock"
	"eventhub/internal/domain"
)

type ticketService struct {
	tx             domain.Transactor
	eventRepo      domain.EventRepository
	ticketRepo     domain.TicketRepository
	scheduleRepo   domain.ScheduleRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	clock          clock.Clock
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewTicketService(tx domain.Transactor,
	eventRepo domain.EventRepository,
	ticketRepo domain.TicketRepository,
	scheduleRepo domain.ScheduleRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	clk clock.Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.TicketService {
	return &ticketService{
		tx:             tx,
		eventRepo:      eventRepo,
		ticketRepo:     ticketRepo,
		scheduleRepo:   scheduleRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		clock:          clk,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// CreateTicket buys a ticket for userID. The user row is locked for the
// duration so two purchases by one user cannot both pass the overlap check.
func (s *ticketService) CreateTicket(ctx context.Context, userID, eventID int64) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var (
		ticket *domain.Ticket
		event  *domain.Event
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.LockByID(ctx, userID); err != nil {
			return err
		}
		var err error
		event, err = s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		window := event.Window()
		if window.EndedBy(now) {
			return domain.Conflictf("event %d has already ended", eventID)
		}

		existing, err := s.ticketRepo.GetByEventAndUser(ctx, eventID, userID)
		switch {
		case err == nil:
			return domain.Conflictf("user %d already holds ticket %d for event %d", userID, existing.ID, eventID)
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("check existing ticket: %w", err)
		}

		overlaps, err := s.scheduleRepo.FindUserOverlaps(ctx, userID, window, 0)
		if err != nil {
			return fmt.Errorf("check user schedule: %w", err)
		}
		if len(overlaps) > 0 {
			return domain.Conflictf("user %d already attends %s", userID, overlaps[0])
		}

		ticket = &domain.Ticket{EventID: eventID, UserID: userID, Price: event.Price, CreatedAt: now}
		if err := s.ticketRepo.Create(ctx, ticket, window); err != nil {
			return fmt.Errorf("create ticket: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, ticket, event)
	return ticket, nil
}

// sendConfirmation is best effort; the purchase stands if the email fails.
func (s *ticketService) sendConfirmation(ctx context.Context, ticket *domain.Ticket, event *domain.Event) {
	if s.emailService == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, ticket.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "ticket confirmation skipped", "ticket_id", ticket.ID, "err", err)
		return
	}
	data := &domain.TicketConfirmationEmailData{
		Email:     user.Email,
		Name:      user.Name,
		TicketID:  ticket.ID,
		EventName: event.Name,
		StartedAt: event.StartedAt,
		EndedAt:   event.EndedAt,
		Price:     ticket.Price,
	}
	if err := s.emailService.SendTicketConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "ticket confirmation failed", "ticket_id", ticket.ID, "err", err)
	}
}

func (s *ticketService) DeleteTicket(ctx context.Context, userID, ticketID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ticket, err := s.ownedTicket(ctx, userID, ticketID)
		if err != nil {
			return err
		}
		event, err := s.eventRepo.GetByID(ctx, ticket.EventID)
		if err != nil {
			return err
		}
		if event.Window().StartedBy(s.clock.Now()) {
			return domain.Conflictf("event %d has already started", event.ID)
		}
		if err := s.ticketRepo.Delete(ctx, ticketID); err != nil {
			return fmt.Errorf("delete ticket: %w", err)
		}
		return nil
	})
}

func (s *ticketService) GetTicket(ctx context.Context, userID, ticketID int64) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.ownedTicket(ctx, userID, ticketID)
}

func (s *ticketService) ownedTicket(ctx context.Context, userID, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != userID {
		return nil, fmt.Errorf("%w: ticket %d belongs to another user", domain.ErrForbidden, ticketID)
	}
	return ticket, nil
}

func (s *ticketService) ListMyTickets(ctx context.Context, userID int64) ([]*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	tickets, err := s.ticketRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

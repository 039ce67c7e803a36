package services

import (
	"context"
	"fmt"
	"time"

	"eventhub/internal/clock"
	"eventhub/internal/domain"
)

type eventService struct {
	tx             domain.Transactor
	eventRepo      domain.EventRepository
	relationRepo   domain.EventRelationRepository
	catalogRepo    domain.CatalogRepository
	ticketRepo     domain.TicketRepository
	scheduleRepo   domain.ScheduleRepository
	usageRepo      domain.UsageRepository
	clock          clock.Clock
	contextTimeout time.Duration
}

func NewEventService(tx domain.Transactor,
	eventRepo domain.EventRepository,
	relationRepo domain.EventRelationRepository,
	catalogRepo domain.CatalogRepository,
	ticketRepo domain.TicketRepository,
	scheduleRepo domain.ScheduleRepository,
	usageRepo domain.UsageRepository,
	clk clock.Clock,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		tx:             tx,
		eventRepo:      eventRepo,
		relationRepo:   relationRepo,
		catalogRepo:    catalogRepo,
		ticketRepo:     ticketRepo,
		scheduleRepo:   scheduleRepo,
		usageRepo:      usageRepo,
		clock:          clk,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, in *domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	var eventID int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkUnique(ctx, in, 0); err != nil {
			return err
		}
		if err := s.checkReferences(ctx, in); err != nil {
			return err
		}
		now := s.clock.Now()
		event := &domain.Event{CreatedAt: now, UpdatedAt: now}
		in.Apply(event)
		if err := s.eventRepo.Create(ctx, event); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
		eventID = event.ID
		return s.writeRelations(ctx, event.ID, in, 0, false)
	})
	if err != nil {
		return nil, err
	}
	return s.eventRepo.GetByID(ctx, eventID)
}

func (s *eventService) UpdateEvent(ctx context.Context, id int64, in *domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.eventRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.checkUnique(ctx, in, id); err != nil {
			return err
		}
		if err := s.checkReferences(ctx, in); err != nil {
			return err
		}
		moved := !event.StartedAt.Equal(in.StartedAt) || !event.EndedAt.Equal(in.EndedAt)
		in.Apply(event)
		event.UpdatedAt = s.clock.Now()
		if err := s.eventRepo.Update(ctx, event); err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		if err := s.writeRelations(ctx, id, in, id, true); err != nil {
			return err
		}
		if moved {
			if err := s.ticketRepo.Reschedule(ctx, id, in.Window()); err != nil {
				return fmt.Errorf("reschedule tickets: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.eventRepo.GetByID(ctx, id)
}

// writeRelations links the event to every requested target, kind by kind in
// RelationKinds order and id by id in request order. The first failure aborts.
func (s *eventService) writeRelations(ctx context.Context, eventID int64, in *domain.EventInput, excludeEventID int64, replace bool) error {
	window := in.Window()
	for _, kind := range domain.RelationKinds {
		if replace {
			if err := s.relationRepo.DeleteAll(ctx, kind, eventID); err != nil {
				return fmt.Errorf("clear %s links: %w", kind, err)
			}
		}
		for _, targetID := range in.IDs(kind) {
			exists, err := s.relationRepo.TargetExists(ctx, kind, targetID)
			if err != nil {
				return fmt.Errorf("check %s %d: %w", kind, targetID, err)
			}
			if !exists {
				return domain.NotFoundf("%s %d not found", kind, targetID)
			}
			if kind.Scheduled() {
				overlaps, err := s.scheduleRepo.FindOverlaps(ctx, kind, targetID, window, excludeEventID)
				if err != nil {
					return fmt.Errorf("check %s %d schedule: %w", kind, targetID, err)
				}
				if len(overlaps) > 0 {
					return domain.Conflictf("%s %d is already booked for %s", kind, targetID, overlaps[0])
				}
			}
			if err := s.relationRepo.Add(ctx, kind, eventID, targetID, window); err != nil {
				return fmt.Errorf("link %s %d: %w", kind, targetID, err)
			}
		}
	}
	return nil
}

func (s *eventService) checkUnique(ctx context.Context, in *domain.EventInput, excludeID int64) error {
	taken, err := s.eventRepo.NameTaken(ctx, in.Name, excludeID)
	if err != nil {
		return fmt.Errorf("check event name: %w", err)
	}
	if taken {
		return domain.Invalidf("event name %q is already in use", in.Name)
	}
	taken, err = s.eventRepo.DescriptionTaken(ctx, in.Description, excludeID)
	if err != nil {
		return fmt.Errorf("check event description: %w", err)
	}
	if taken {
		return domain.Invalidf("event description is already in use")
	}
	return nil
}

func (s *eventService) checkReferences(ctx context.Context, in *domain.EventInput) error {
	refs := []struct {
		kind domain.CatalogKind
		id   int64
	}{
		{domain.CatalogLocale, in.LocaleID},
		{domain.CatalogCategory, in.CategoryID},
	}
	for _, ref := range refs {
		ok, err := s.catalogRepo.Exists(ctx, ref.kind, ref.id)
		if err != nil {
			return fmt.Errorf("check %s %d: %w", ref.kind, ref.id, err)
		}
		if !ok {
			return domain.NotFoundf("%s %d not found", ref.kind, ref.id)
		}
	}
	return nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
			return err
		}
		n, err := s.usageRepo.CountUsages(ctx, domain.UsageEventTickets, id)
		if err != nil {
			return fmt.Errorf("count tickets: %w", err)
		}
		if err := domain.UsageError(domain.UsageEventTickets, id, n); err != nil {
			return err
		}
		if err := s.eventRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) ListEvents(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	events, total, err := s.eventRepo.List(ctx, params.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

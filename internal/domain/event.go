package domain

import (
	"context"
	"math"
	"strings"
	"time"
)

// MaxPrice is the largest price a NUMERIC(10,2) column holds.
const MaxPrice = 99999999.99

// Event is a scheduled event together with the ids of everything linked to it.
// swagger:model Event
type Event struct {
	ID           int64     `json:"id"`
	LocaleID     int64     `json:"locale_id"`
	CategoryID   int64     `json:"category_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
	PrelegentIDs []int64   `json:"prelegent_ids"`
	ResourceIDs  []int64   `json:"resource_ids"`
	SponsorIDs   []int64   `json:"sponsor_ids"`
	CateringIDs  []int64   `json:"catering_ids"`
	TicketCount  int       `json:"ticket_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Window returns the event's [StartedAt, EndedAt) window.
func (e *Event) Window() TimeWindow {
	return TimeWindow{Start: e.StartedAt, End: e.EndedAt}
}

// RelationIDs returns the linked ids of the given kind.
func (e *Event) RelationIDs(kind RelationKind) []int64 {
	switch kind {
	case RelationPrelegent:
		return e.PrelegentIDs
	case RelationResource:
		return e.ResourceIDs
	case RelationSponsor:
		return e.SponsorIDs
	case RelationCatering:
		return e.CateringIDs
	}
	return nil
}

// EventInput is the full desired state of an event. Relation id lists replace
// whatever the event was linked to before; a nil list means no links.
type EventInput struct {
	LocaleID     int64
	CategoryID   int64
	Name         string
	Description  string
	Price        float64
	StartedAt    time.Time
	EndedAt      time.Time
	PrelegentIDs []int64
	ResourceIDs  []int64
	SponsorIDs   []int64
	CateringIDs  []int64
}

// IDs returns the requested ids of the given kind.
func (in *EventInput) IDs(kind RelationKind) []int64 {
	switch kind {
	case RelationPrelegent:
		return in.PrelegentIDs
	case RelationResource:
		return in.ResourceIDs
	case RelationSponsor:
		return in.SponsorIDs
	case RelationCatering:
		return in.CateringIDs
	}
	return nil
}

// Window returns the requested [StartedAt, EndedAt) window.
func (in *EventInput) Window() TimeWindow {
	return TimeWindow{Start: in.StartedAt, End: in.EndedAt}
}

// Validate checks the shape of the input. Duplicate ids within one relation
// list are rejected rather than collapsed.
func (in *EventInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return Invalidf("name is required")
	}
	if in.Description == "" {
		return Invalidf("description is required")
	}
	if in.LocaleID <= 0 {
		return Invalidf("locale_id must be a positive integer")
	}
	if in.CategoryID <= 0 {
		return Invalidf("category_id must be a positive integer")
	}
	if in.Price < 0 {
		return Invalidf("price must not be negative")
	}
	if in.Price > MaxPrice {
		return Invalidf("price must not exceed %.2f", MaxPrice)
	}
	if cents := in.Price * 100; math.Abs(cents-math.Round(cents)) > 1e-4 {
		return Invalidf("price must have at most two decimal places")
	}
	if _, err := NewTimeWindow(in.StartedAt, in.EndedAt); err != nil {
		return err
	}
	for _, kind := range RelationKinds {
		seen := make(map[int64]struct{}, len(in.IDs(kind)))
		for _, id := range in.IDs(kind) {
			if id <= 0 {
				return Invalidf("%s ids must be positive integers", kind)
			}
			if _, ok := seen[id]; ok {
				return Invalidf("%s id %d is listed more than once", kind, id)
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}

// Apply copies the base fields of the input onto e.
func (in *EventInput) Apply(e *Event) {
	e.LocaleID = in.LocaleID
	e.CategoryID = in.CategoryID
	e.Name = in.Name
	e.Description = in.Description
	e.Price = in.Price
	e.StartedAt = in.StartedAt
	e.EndedAt = in.EndedAt
}

// EventRepository defines the interface for event storage. GetByID and List
// return events with relation ids and ticket counts filled in.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	Delete(ctx context.Context, id int64) error
	// NameTaken reports whether another event (id != excludeID) already uses name.
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	// DescriptionTaken reports whether another event (id != excludeID) already uses description.
	DescriptionTaken(ctx context.Context, description string, excludeID int64) (bool, error)
}

// EventService composes events with their relations.
type EventService interface {
	CreateEvent(ctx context.Context, in *EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, id int64, in *EventInput) (*Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	GetEvent(ctx context.Context, id int64) (*Event, error)
	ListEvents(ctx context.Context, params PaginationParams) ([]*Event, int, error)
}

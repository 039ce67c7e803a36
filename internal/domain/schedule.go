package domain

import (
	"context"
	"fmt"
	"time"
)

// TimeWindow is the half-open interval [Start, End). Two windows that only
// touch at an endpoint do not overlap.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// NewTimeWindow returns the window [start, end). End must be strictly after start.
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !end.After(start) {
		return TimeWindow{}, Invalidf("ended_at must be after started_at")
	}
	return TimeWindow{Start: start, End: end}, nil
}

// Overlaps reports whether w and o share any instant.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return w.Start.Before(o.End) && w.End.After(o.Start)
}

// StartedBy reports whether the window has started at now.
func (w TimeWindow) StartedBy(now time.Time) bool {
	return w.Start.Before(now)
}

// EndedBy reports whether the window has ended at now.
func (w TimeWindow) EndedBy(now time.Time) bool {
	return w.End.Before(now)
}

// Overlap is an existing event whose window intersects a candidate window.
type Overlap struct {
	EventID   int64     `json:"event_id"`
	Name      string    `json:"name"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

func (o Overlap) String() string {
	return fmt.Sprintf("event %d (%s) from %s to %s", o.EventID, o.Name,
		o.StartedAt.Format(time.RFC3339), o.EndedAt.Format(time.RFC3339))
}

// ScheduleRepository answers time-conflict queries. When ctx carries a
// transaction the queries see its uncommitted writes.
//
// excludeEventID removes one event from consideration; 0 excludes nothing.
// Results are ordered by start time, then event id.
type ScheduleRepository interface {
	FindOverlaps(ctx context.Context, kind RelationKind, entityID int64, window TimeWindow, excludeEventID int64) ([]Overlap, error)
	FindUserOverlaps(ctx context.Context, userID int64, window TimeWindow, excludeEventID int64) ([]Overlap, error)
}

package domain

import "context"

// RelationKind identifies one of the many-to-many relations an event owns.
type RelationKind string

const (
	RelationPrelegent RelationKind = "prelegent"
	RelationResource  RelationKind = "resource"
	RelationSponsor   RelationKind = "sponsor"
	RelationCatering  RelationKind = "catering"
)

// RelationKinds lists every relation kind in the order an event's relations
// are written and checked.
var RelationKinds = []RelationKind{
	RelationPrelegent,
	RelationResource,
	RelationSponsor,
	RelationCatering,
}

// Scheduled reports whether a link of this kind books its target for the
// event's time window, making it subject to conflict checks.
func (k RelationKind) Scheduled() bool {
	return k == RelationPrelegent || k == RelationResource
}

// Valid reports whether k is a known relation kind.
func (k RelationKind) Valid() bool {
	switch k {
	case RelationPrelegent, RelationResource, RelationSponsor, RelationCatering:
		return true
	}
	return false
}

// EventRelationRepository stores junction rows between events and their
// prelegents, resources, sponsors and caterings.
type EventRelationRepository interface {
	// TargetExists reports whether the entity a link of this kind would point at exists.
	TargetExists(ctx context.Context, kind RelationKind, targetID int64) (bool, error)
	// Add inserts one junction row. Scheduled kinds record window alongside the link.
	Add(ctx context.Context, kind RelationKind, eventID, targetID int64, window TimeWindow) error
	// DeleteAll removes every junction row of this kind for the event.
	DeleteAll(ctx context.Context, kind RelationKind, eventID int64) error
}

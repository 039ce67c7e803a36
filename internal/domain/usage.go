package domain

import "context"

// UsageKind names one reference count the usage guard can take.
type UsageKind string

const (
	UsageCategory      UsageKind = "category"
	UsageLocale        UsageKind = "locale"
	UsageResource      UsageKind = "resource"
	UsageSponsor       UsageKind = "sponsor"
	UsageCatering      UsageKind = "catering"
	UsagePrelegent     UsageKind = "prelegent"
	UsageEventTickets  UsageKind = "event_tickets"
	UsageUserPrelegent UsageKind = "user_prelegent"
	UsageUserTickets   UsageKind = "user_tickets"
)

// UsageRepository counts rows that still reference an entity.
type UsageRepository interface {
	CountUsages(ctx context.Context, kind UsageKind, id int64) (int, error)
}

// UsageError returns nil when count is zero and a Conflict naming the count otherwise.
func UsageError(kind UsageKind, id int64, count int) error {
	if count == 0 {
		return nil
	}
	switch kind {
	case UsageEventTickets:
		return Conflictf("event %d has %d ticket(s)", id, count)
	case UsageUserPrelegent:
		return Conflictf("user %d owns a prelegent profile", id)
	case UsageUserTickets:
		return Conflictf("user %d holds %d ticket(s)", id, count)
	default:
		return Conflictf("%s %d is used by %d event(s)", kind, id, count)
	}
}

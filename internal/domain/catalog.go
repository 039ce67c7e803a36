package domain

import (
	"context"
	"time"
)

// CatalogKind identifies a simple lookup entity that events refer to.
type CatalogKind string

const (
	CatalogCategory CatalogKind = "category"
	CatalogLocale   CatalogKind = "locale"
	CatalogResource CatalogKind = "resource"
	CatalogSponsor  CatalogKind = "sponsor"
	CatalogCatering CatalogKind = "catering"
)

// CatalogKinds lists every catalog kind.
var CatalogKinds = []CatalogKind{
	CatalogCategory,
	CatalogLocale,
	CatalogResource,
	CatalogSponsor,
	CatalogCatering,
}

// Valid reports whether k is a known catalog kind.
func (k CatalogKind) Valid() bool {
	switch k {
	case CatalogCategory, CatalogLocale, CatalogResource, CatalogSponsor, CatalogCatering:
		return true
	}
	return false
}

// Plural returns the collection name, e.g. "categories".
func (k CatalogKind) Plural() string {
	if k == CatalogCategory {
		return "categories"
	}
	return string(k) + "s"
}

// UsageKind returns the usage count that guards deletion of this kind.
func (k CatalogKind) UsageKind() UsageKind {
	switch k {
	case CatalogCategory:
		return UsageCategory
	case CatalogLocale:
		return UsageLocale
	case CatalogResource:
		return UsageResource
	case CatalogSponsor:
		return UsageSponsor
	default:
		return UsageCatering
	}
}

// CatalogItem is one category, locale, resource, sponsor or catering.
// Name and Description are unique within a kind.
// swagger:model CatalogItem
type CatalogItem struct {
	ID          int64       `json:"id"`
	Kind        CatalogKind `json:"kind"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CatalogRepository defines storage for catalog items.
type CatalogRepository interface {
	Create(ctx context.Context, item *CatalogItem) error
	GetByID(ctx context.Context, kind CatalogKind, id int64) (*CatalogItem, error)
	List(ctx context.Context, kind CatalogKind, params PaginationParams) ([]*CatalogItem, int, error)
	Delete(ctx context.Context, kind CatalogKind, id int64) error
	Exists(ctx context.Context, kind CatalogKind, id int64) (bool, error)
	NameTaken(ctx context.Context, kind CatalogKind, name string) (bool, error)
	DescriptionTaken(ctx context.Context, kind CatalogKind, description string) (bool, error)
}

// CatalogService manages catalog items; deletion is refused while an item is in use.
type CatalogService interface {
	Create(ctx context.Context, item *CatalogItem) error
	Get(ctx context.Context, kind CatalogKind, id int64) (*CatalogItem, error)
	List(ctx context.Context, kind CatalogKind, params PaginationParams) ([]*CatalogItem, int, error)
	Delete(ctx context.Context, kind CatalogKind, id int64) error
}

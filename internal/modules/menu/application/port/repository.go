package port

import (
	"context"
	"errors"

	"acapulcoWs/internal/modules/menu/domain"
)

var (
	ErrMenuUnavailable = errors.New("menu backend unavailable")
	ErrItemNotFound    = errors.New("menu item not found")
)

// CatalogReader serves what a given day offers.
type CatalogReader interface {
	DailyMenu(ctx context.Context, day string) ([]domain.DailyEntry, error)
	// DailySides returns the sides scheduled for day, active or not.
	DailySides(ctx context.Context, day string) ([]domain.SideItem, error)
}

// Repository is the full menu store the admin edits.
type Repository interface {
	CatalogReader
	ListMenuItems(ctx context.Context, activeOnly bool) ([]domain.MenuItem, error)
	ReplaceDailyGroup(ctx context.Context, day string, group domain.DailyGroup, itemIDs []string) error
	UpdateSidesRule(ctx context.Context, itemID string, rule domain.SidesRule) error
	ListSides(ctx context.Context) ([]domain.SideItem, error)
	ReplaceDailySides(ctx context.Context, day string, sideIDs []string) error
	TemplateSideIDs(ctx context.Context) ([]string, error)
	ReplaceTemplateSides(ctx context.Context, sideIDs []string) error
}

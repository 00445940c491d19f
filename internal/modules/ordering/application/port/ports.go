package port

import (
	"context"

	"acapulcoWs/internal/modules/ordering/domain"
)

// CatalogProvider serves read-only snapshots of a business day's menu.
// Days are "YYYY-MM-DD" in the restaurant's time zone.
type CatalogProvider interface {
	FetchDailyDishes(ctx context.Context, day string) ([]domain.Dish, error)
	FetchActiveSides(ctx context.Context, day string) ([]domain.SideCatalogEntry, error)
}

// OrderSubmitter persists a validated order and returns its identifier.
type OrderSubmitter interface {
	Submit(ctx context.Context, draft domain.OrderDraft) (string, error)
}

// SettingsProvider exposes the storefront switches read at checkout.
type SettingsProvider interface {
	DeliveryEnabled(ctx context.Context) (bool, error)
}

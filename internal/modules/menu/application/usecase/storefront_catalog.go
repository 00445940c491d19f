package usecase

import (
	"context"
	"fmt"

	"acapulcoWs/internal/modules/menu/application/port"
	"acapulcoWs/internal/modules/menu/domain"
	ordering "acapulcoWs/internal/modules/ordering/domain"
)

// StorefrontCatalog exposes a day's menu in the shape the ordering module consumes.
type StorefrontCatalog struct {
	reader port.CatalogReader
}

func NewStorefrontCatalog(reader port.CatalogReader) *StorefrontCatalog {
	return &StorefrontCatalog{reader: reader}
}

// FetchDailyDishes returns the active dishes of the storefront groups, in board order.
func (c *StorefrontCatalog) FetchDailyDishes(ctx context.Context, day string) ([]ordering.Dish, error) {
	entries, err := c.reader.DailyMenu(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrMenuUnavailable, err)
	}
	grouped := domain.GroupEntries(entries)
	dishes := make([]ordering.Dish, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, group := range domain.StorefrontGroups {
		for _, entry := range grouped[group] {
			if !entry.Item.Active {
				continue
			}
			if _, dup := seen[entry.Item.ID]; dup {
				continue
			}
			seen[entry.Item.ID] = struct{}{}
			dishes = append(dishes, ToDish(entry.Item))
		}
	}
	return dishes, nil
}

func (c *StorefrontCatalog) FetchActiveSides(ctx context.Context, day string) ([]ordering.SideCatalogEntry, error) {
	sides, err := c.reader.DailySides(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrMenuUnavailable, err)
	}
	out := make([]ordering.SideCatalogEntry, 0, len(sides))
	for _, side := range sides {
		out = append(out, ordering.SideCatalogEntry{ID: side.ID, Name: side.Name, Active: side.Active})
	}
	return out, nil
}

// ToDish maps a menu item to the ordering view of a dish.
func ToDish(item domain.MenuItem) ordering.Dish {
	free := ordering.DefaultSidesFreeCount
	if item.SidesFreeCount != nil && *item.SidesFreeCount >= 0 {
		free = *item.SidesFreeCount
	}
	return ordering.Dish{
		ID:             item.ID,
		Name:           item.Name,
		Description:    item.Description,
		Price:          item.Price,
		SidesEnabled:   item.SidesEnabled,
		SidesFreeCount: free,
		Portion:        ordering.ResolvePortion(item.PortionType, item.Name),
	}
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"acapulcoWs/internal/modules/menu/application/port"
	"acapulcoWs/internal/modules/menu/domain"
)

var (
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidGroup     = errors.New("invalid daily group")
	ErrSameDay          = errors.New("source and target day are the same")
	ErrInvalidFreeCount = errors.New("free sides count must not be negative")
	ErrItemRequired     = errors.New("menu item id is required")
)

// DailyBoard is a day's menu bucketed by group.
type DailyBoard struct {
	Day    string                                    `json:"day"`
	Groups map[domain.DailyGroup][]domain.DailyEntry `json:"groups"`
}

// DailyMenuUseCase implements the admin side of the daily menu and side catalog.
type DailyMenuUseCase struct {
	repo port.Repository
}

func NewDailyMenuUseCase(repo port.Repository) *DailyMenuUseCase {
	return &DailyMenuUseCase{repo: repo}
}

func (uc *DailyMenuUseCase) Items(ctx context.Context, activeOnly bool) ([]domain.MenuItem, error) {
	items, err := uc.repo.ListMenuItems(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrMenuUnavailable, err)
	}
	return items, nil
}

func (uc *DailyMenuUseCase) Board(ctx context.Context, day string) (DailyBoard, error) {
	if _, err := domain.ParseDay(day); err != nil {
		return DailyBoard{}, fmt.Errorf("%w: %v", ErrInvalidDay, err)
	}
	entries, err := uc.repo.DailyMenu(ctx, day)
	if err != nil {
		return DailyBoard{}, fmt.Errorf("%w: %v", port.ErrMenuUnavailable, err)
	}
	return DailyBoard{Day: day, Groups: domain.GroupEntries(entries)}, nil
}

// SetDailyGroup replaces the dishes listed under group on day.
func (uc *DailyMenuUseCase) SetDailyGroup(ctx context.Context, day string, group domain.DailyGroup, itemIDs []string) error {
	if _, err := domain.ParseDay(day); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDay, err)
	}
	if _, ok := domain.ParseDailyGroup(string(group)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidGroup, group)
	}
	ids := uniqueIDs(itemIDs)
	if err := uc.repo.ReplaceDailyGroup(ctx, day, group, ids); err != nil {
		return fmt.Errorf("%w: %v", port.ErrMenuUnavailable, err)
	}
	slog.Info("daily menu group replaced",
		slog.String("day", day),
		slog.String("group", string(group)),
		slog.Int("items", len(ids)),
	)
	return nil
}

// CopyDay overwrites every group of toDay with the contents of fromDay.
func (uc *DailyMenuUseCase) CopyDay(ctx context.Context, fromDay, toDay string) error {
	if _, err := domain.ParseDay(fromDay); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDay, err)
	}
	if _, err := domain.ParseDay(toDay); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDay, err)
	}
	if strings.TrimSpace(fromDay) == strings.TrimSpace(toDay) {
		return ErrSameDay
	}
	entries, err := uc.repo.DailyMenu(ctx, fromDay)
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrMenuUnavailable, err)
	}
	grouped := domain.GroupEntries(entries)
	for _, group := range domain.AllGroups {
		ids := make([]string, 0, len(grouped[group]))
		for _, entry := range grouped[group] {
			ids = append(ids, entry.Item.ID)
		}
		if err := uc.repo.ReplaceDailyGroup(ctx, toDay, group, ids); err != nil {
			return fmt.Errorf("%w: %v", port.ErrMenuUnavailable, err)
		}
	}
	slog.Info("daily menu copied", slog.String("from", fromDay), slog.String("to", toDay), slog.Int("items", len(entries)))
	return nil
}

func (uc *DailyMenuUseCase) SetSidesRule(ctx context.Context, itemID string, rule domain.SidesRule) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return ErrItemRequired
	}
	if rule.FreeCount != nil && *rule.FreeCount < 0 {
		return ErrInvalidFreeCount
	}
	if err := uc.repo.UpdateSidesRule(ctx, itemID, rule); err != nil {
		if errors.Is(err, port.ErrItemNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", port.ErrMenuUnavailable, err)
	}
	return nil
}

func (uc *DailyMenuUseCase) Sides(ctx context.Context) ([]domain.SideItem, error) {
	sides, err := uc.repo.ListSides(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrMenuUnavailable, err)
	}
	return sides, nil
}

func (uc *DailyMenuUseCase) DailySides(ctx context.Context, day string) ([]domain.SideItem, error) {
	if _, err := domain.ParseDay(day); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDay, err)
	}
	sides, err := uc.repo.DailySides(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrMenuUnavailable, err)
	}
	return sides, nil
}

func (uc *DailyMenuUseCase) SetDailySides(ctx context.Context, day string, sideIDs []string) error {
	if _, err := domain.ParseDay(day); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDay, err)
	}
	if err := uc.repo.ReplaceDailySides(ctx, day, uniqueIDs(sideIDs)); err != nil {
		return fmt.Errorf("%w: %v", port.ErrMenuUnavailable, err)
	}
	return nil
}

func (uc *DailyMenuUseCase) TemplateSides(ctx context.Context) ([]string, error) {
	ids, err := uc.repo.TemplateSideIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrMenuUnavailable, err)
	}
	return ids, nil
}

func (uc *DailyMenuUseCase) SetTemplateSides(ctx context.Context, sideIDs []string) error {
	if err := uc.repo.ReplaceTemplateSides(ctx, uniqueIDs(sideIDs)); err != nil {
		return fmt.Errorf("%w: %v", port.ErrMenuUnavailable, err)
	}
	return nil
}

// EnsureDailySidesFromTemplate seeds day from the template when nothing was
// scheduled yet, then returns the day's active sides.
func (uc *DailyMenuUseCase) EnsureDailySidesFromTemplate(ctx context.Context, day string) ([]domain.SideItem, error) {
	current, err := uc.DailySides(ctx, day)
	if err != nil {
		return nil, err
	}
	if len(current) == 0 {
		template, err := uc.TemplateSides(ctx)
		if err != nil {
			return nil, err
		}
		if len(template) > 0 {
			if err := uc.SetDailySides(ctx, day, template); err != nil {
				return nil, err
			}
			slog.Info("daily sides seeded from template", slog.String("day", day), slog.Int("sides", len(template)))
			if current, err = uc.DailySides(ctx, day); err != nil {
				return nil, err
			}
		}
	}
	return activeSides(current), nil
}

func activeSides(sides []domain.SideItem) []domain.SideItem {
	active := make([]domain.SideItem, 0, len(sides))
	for _, side := range sides {
		if side.Active {
			active = append(active, side)
		}
	}
	return active
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

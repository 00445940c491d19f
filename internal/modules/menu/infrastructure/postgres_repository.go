package infrastructure

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"acapulcoWs/internal/modules/menu/application/port"
	"acapulcoWs/internal/modules/menu/domain"
)

// PostgresRepository stores the menu, the daily board and the side catalog.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const menuItemColumns = `
	m.id::text, m.name, COALESCE(m.description, ''), m.category, m.price::text,
	COALESCE(m.image_url, ''), m.active, m.sort_order, m.sides_enabled,
	m.sides_free_count, COALESCE(m.portion_type, '')`

func (r *PostgresRepository) ListMenuItems(ctx context.Context, activeOnly bool) ([]domain.MenuItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items m
		WHERE ($1 = FALSE OR m.active)
		ORDER BY m.category, m.sort_order, m.name
	`, activeOnly)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.MenuItem, error) {
		return scanMenuItem(row)
	})
}

func (r *PostgresRepository) DailyMenu(ctx context.Context, day string) ([]domain.DailyEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT d.day::text, d.group_key, `+menuItemColumns+`
		FROM daily_menu d
		JOIN menu_items m ON m.id = d.menu_item_id
		WHERE d.day = $1::date
		ORDER BY d.group_key, d.position, m.name
	`, day)
	if err != nil {
		return nil, err
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DailyEntry, error) {
		var (
			entryDay string
			groupKey string
			item     domain.MenuItem
		)
		if err := scanInto(row, &item, &entryDay, &groupKey); err != nil {
			return domain.DailyEntry{}, err
		}
		group, _ := domain.ParseDailyGroup(groupKey)
		return domain.DailyEntry{Day: entryDay, Group: group, Item: item}, nil
	})
	if err != nil {
		return nil, err
	}
	// rows with a group_key this build does not know are skipped
	out := entries[:0]
	for _, e := range entries {
		if e.Group != "" {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *PostgresRepository) ReplaceDailyGroup(ctx context.Context, day string, group domain.DailyGroup, itemIDs []string) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			DELETE FROM daily_menu WHERE day = $1::date AND group_key = $2
		`, day, string(group)); err != nil {
			return fmt.Errorf("clear group: %w", err)
		}
		for i, id := range itemIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO daily_menu (day, group_key, menu_item_id, position)
				VALUES ($1::date, $2, $3::uuid, $4)
			`, day, string(group), id, i); err != nil {
				return fmt.Errorf("insert %s: %w", id, err)
			}
		}
		return nil
	})
}

func (r *PostgresRepository) UpdateSidesRule(ctx context.Context, itemID string, rule domain.SidesRule) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE menu_items
		SET sides_enabled = $2, sides_free_count = $3
		WHERE id = $1::uuid
	`, itemID, rule.Enabled, rule.FreeCount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", port.ErrItemNotFound, itemID)
	}
	return nil
}

func (r *PostgresRepository) ListSides(ctx context.Context) ([]domain.SideItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, name, active FROM side_items ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanSide)
}

func (r *PostgresRepository) DailySides(ctx context.Context, day string) ([]domain.SideItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id::text, s.name, s.active
		FROM daily_sides d
		JOIN side_items s ON s.id = d.side_item_id
		WHERE d.day = $1::date
		ORDER BY d.created_at, s.name
	`, day)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanSide)
}

func (r *PostgresRepository) ReplaceDailySides(ctx context.Context, day string, sideIDs []string) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM daily_sides WHERE day = $1::date`, day); err != nil {
			return fmt.Errorf("clear daily sides: %w", err)
		}
		for _, id := range sideIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO daily_sides (day, side_item_id) VALUES ($1::date, $2::uuid)
			`, day, id); err != nil {
				return fmt.Errorf("insert side %s: %w", id, err)
			}
		}
		return nil
	})
}

func (r *PostgresRepository) TemplateSideIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT side_item_id::text FROM side_templates WHERE enabled
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *PostgresRepository) ReplaceTemplateSides(ctx context.Context, sideIDs []string) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM side_templates`); err != nil {
			return fmt.Errorf("clear template: %w", err)
		}
		for _, id := range sideIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO side_templates (side_item_id, enabled) VALUES ($1::uuid, TRUE)
			`, id); err != nil {
				return fmt.Errorf("insert template side %s: %w", id, err)
			}
		}
		return nil
	})
}

func scanSide(row pgx.CollectableRow) (domain.SideItem, error) {
	var side domain.SideItem
	err := row.Scan(&side.ID, &side.Name, &side.Active)
	return side, err
}

func scanMenuItem(row pgx.Row) (domain.MenuItem, error) {
	var item domain.MenuItem
	err := scanInto(row, &item)
	return item, err
}

// scanInto reads the leading columns into prefix, then the menu item columns.
func scanInto(row pgx.Row, item *domain.MenuItem, prefix ...any) error {
	var (
		price     *string
		freeCount *int32
	)
	dest := append(prefix,
		&item.ID, &item.Name, &item.Description, &item.Category, &price,
		&item.ImageURL, &item.Active, &item.SortOrder, &item.SidesEnabled,
		&freeCount, &item.PortionType,
	)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	if price != nil {
		parsed, err := decimal.NewFromString(*price)
		if err != nil {
			return fmt.Errorf("menu item %s price: %w", item.ID, err)
		}
		item.Price = decimal.NewNullDecimal(parsed)
	}
	if freeCount != nil {
		n := int(*freeCount)
		item.SidesFreeCount = &n
	}
	return nil
}

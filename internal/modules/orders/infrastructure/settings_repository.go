package infrastructure

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"acapulcoWs/internal/modules/orders/application/port"
)

const settingsRowID = 1

// SettingsRepository reads the single app_settings row.
type SettingsRepository struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// DeliveryEnabled reports false when the settings row is missing.
func (r *SettingsRepository) DeliveryEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	err := r.db.QueryRow(ctx, `SELECT delivery_enabled FROM app_settings WHERE id = $1`, settingsRowID).Scan(&enabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return enabled, err
}

func (r *SettingsRepository) SetDeliveryEnabled(ctx context.Context, enabled bool) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO app_settings (id, delivery_enabled, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET delivery_enabled = EXCLUDED.delivery_enabled, updated_at = now()
	`, settingsRowID, enabled)
	return err
}

var _ port.SettingsRepository = (*SettingsRepository)(nil)

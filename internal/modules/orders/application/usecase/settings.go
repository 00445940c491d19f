package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"acapulcoWs/internal/modules/orders/application/port"
)

// SettingsUseCase reads and flips the delivery switch used at checkout.
type SettingsUseCase struct {
	repo port.SettingsRepository
}

func NewSettingsUseCase(repo port.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo}
}

func (uc *SettingsUseCase) DeliveryEnabled(ctx context.Context) (bool, error) {
	enabled, err := uc.repo.DeliveryEnabled(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %v", port.ErrSettings, err)
	}
	return enabled, nil
}

func (uc *SettingsUseCase) SetDeliveryEnabled(ctx context.Context, enabled bool) error {
	if err := uc.repo.SetDeliveryEnabled(ctx, enabled); err != nil {
		return fmt.Errorf("%w: %v", port.ErrSettings, err)
	}
	slog.Info("delivery switch updated", slog.Bool("enabled", enabled))
	return nil
}

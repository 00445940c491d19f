package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"acapulcoWs/internal/modules/orders/application/port"
)

// ExportUseCase writes every order of a day as a spreadsheet.
type ExportUseCase struct {
	triage   *TriageUseCase
	exporter port.Exporter
}

func NewExportUseCase(triage *TriageUseCase, exporter port.Exporter) *ExportUseCase {
	return &ExportUseCase{triage: triage, exporter: exporter}
}

func (uc *ExportUseCase) Export(ctx context.Context, day string, w io.Writer) error {
	orders, err := uc.triage.Orders(ctx, day, nil)
	if err != nil {
		return err
	}
	if err := uc.exporter.Export(w, day, orders); err != nil {
		return fmt.Errorf("export orders for %s: %w", day, err)
	}
	slog.Info("orders exported", slog.String("day", day), slog.Int("count", len(orders)))
	return nil
}

package port

import (
	"context"
	"errors"
	"io"
	"time"

	"acapulcoWs/internal/modules/orders/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrStatusChanged = errors.New("order status changed meanwhile")
	ErrSettings      = errors.New("settings store failure")
)

// Repository persists orders.
type Repository interface {
	Insert(ctx context.Context, order domain.Order) error
	Get(ctx context.Context, id string) (domain.Order, error)
	// ListBetween returns orders created in [start, end) with one of statuses,
	// oldest first. An empty statuses slice means every status.
	ListBetween(ctx context.Context, start, end time.Time, statuses []domain.Status) ([]domain.Order, error)
	// Update stores order only while the stored status still reads as
	// expected, returning ErrStatusChanged otherwise.
	Update(ctx context.Context, order domain.Order, expected domain.Status) error
}

// SettingsRepository stores the storefront switches.
type SettingsRepository interface {
	DeliveryEnabled(ctx context.Context) (bool, error)
	SetDeliveryEnabled(ctx context.Context, enabled bool) error
}

// EventPublisher announces order changes to whoever follows the board.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// TicketArchive keeps printed tickets and returns where they can be fetched.
type TicketArchive interface {
	Store(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Exporter writes a day's orders as a spreadsheet.
type Exporter interface {
	Export(w io.Writer, day string, orders []domain.Order) error
}

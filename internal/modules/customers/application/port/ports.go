package port

import (
	"context"
	"errors"

	"acapulcoWs/internal/modules/customers/domain"
	orders "acapulcoWs/internal/modules/orders/domain"
)

var ErrProfileNotFound = errors.New("profile not found")

// Repository stores customer profiles and address books. Every call is
// scoped to userID; an address belonging to someone else is not found.
type Repository interface {
	Profile(ctx context.Context, userID string) (domain.Profile, error)
	SaveProfile(ctx context.Context, profile domain.Profile) error

	Addresses(ctx context.Context, userID string) ([]domain.Address, error)
	InsertAddress(ctx context.Context, address domain.Address) error
	UpdateAddressLine(ctx context.Context, userID, id, line string) error
	// SetDefaultAddress flags id as the only default and records it on the profile.
	SetDefaultAddress(ctx context.Context, userID, id string) error
	DeleteAddress(ctx context.Context, userID, id string) error
}

// OrderHistory lists orders placed while signed in, newest first.
type OrderHistory interface {
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]orders.Order, error)
}

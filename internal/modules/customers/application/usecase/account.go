package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"acapulcoWs/internal/modules/customers/application/port"
	"acapulcoWs/internal/modules/customers/domain"
	orders "acapulcoWs/internal/modules/orders/domain"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

var ErrNoCustomer = errors.New("customer identity missing")

// AccountUseCase serves the signed-in customer's own data.
type AccountUseCase struct {
	repo    port.Repository
	history port.OrderHistory
	now     func() time.Time
	newID   func() string
}

func NewAccountUseCase(repo port.Repository, history port.OrderHistory) *AccountUseCase {
	return &AccountUseCase{repo: repo, history: history, now: time.Now, newID: uuid.NewString}
}

// Profile returns the stored profile, or an empty one for a customer who
// never saved anything.
func (uc *AccountUseCase) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return domain.Profile{}, err
	}
	profile, err := uc.repo.Profile(ctx, userID)
	if errors.Is(err, port.ErrProfileNotFound) {
		return domain.Profile{UserID: userID}, nil
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("read profile: %w", err)
	}
	return profile, nil
}

func (uc *AccountUseCase) UpdateProfile(ctx context.Context, userID string, changes domain.ProfileChanges) (domain.Profile, error) {
	profile, err := uc.Profile(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	if err := profile.Apply(changes, uc.now()); err != nil {
		return domain.Profile{}, err
	}
	if err := uc.repo.SaveProfile(ctx, profile); err != nil {
		return domain.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	slog.Info("customer profile updated", slog.String("userId", profile.UserID))
	return profile, nil
}

// Addresses lists the address book, default first and then newest first.
func (uc *AccountUseCase) Addresses(ctx context.Context, userID string) ([]domain.Address, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	addresses, err := uc.repo.Addresses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	domain.SortAddresses(addresses)
	return addresses, nil
}

// AddAddress stores a new address. Asking for it to be the default moves the
// default flag away from the previous one.
func (uc *AccountUseCase) AddAddress(ctx context.Context, userID string, input domain.AddressInput) (domain.Address, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return domain.Address{}, err
	}
	address, err := domain.NewAddress(uc.newID(), userID, input, uc.now())
	if err != nil {
		return domain.Address{}, err
	}
	if err := uc.repo.InsertAddress(ctx, address); err != nil {
		return domain.Address{}, fmt.Errorf("insert address: %w", err)
	}
	if input.IsDefault {
		if err := uc.repo.SetDefaultAddress(ctx, userID, address.ID); err != nil {
			return domain.Address{}, fmt.Errorf("set default address: %w", err)
		}
		address.IsDefault = true
	}
	slog.Info("customer address added", slog.String("userId", userID), slog.String("addressId", address.ID), slog.Bool("default", address.IsDefault))
	return address, nil
}

func (uc *AccountUseCase) SetDefaultAddress(ctx context.Context, userID, id string) error {
	userID, err := requireUser(userID)
	if err != nil {
		return err
	}
	if err := uc.repo.SetDefaultAddress(ctx, userID, strings.TrimSpace(id)); err != nil {
		return fmt.Errorf("set default address: %w", err)
	}
	return nil
}

func (uc *AccountUseCase) DeleteAddress(ctx context.Context, userID, id string) error {
	userID, err := requireUser(userID)
	if err != nil {
		return err
	}
	if err := uc.repo.DeleteAddress(ctx, userID, strings.TrimSpace(id)); err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	return nil
}

// DefaultAddress returns the default address, or the newest one when none is
// flagged. ok is false for an empty address book.
func (uc *AccountUseCase) DefaultAddress(ctx context.Context, userID string) (domain.Address, bool, error) {
	addresses, err := uc.Addresses(ctx, userID)
	if err != nil {
		return domain.Address{}, false, err
	}
	address, ok := domain.PickDefault(addresses)
	return address, ok, nil
}

// SaveDefaultAddress edits the line of the flagged default address, or
// creates a new default address when none is flagged.
func (uc *AccountUseCase) SaveDefaultAddress(ctx context.Context, userID, line string) (domain.Address, error) {
	line, err := domain.CleanAddressLine(line)
	if err != nil {
		return domain.Address{}, err
	}
	addresses, err := uc.Addresses(ctx, userID)
	if err != nil {
		return domain.Address{}, err
	}
	if current, ok := domain.PickDefault(addresses); ok && current.IsDefault {
		if err := uc.repo.UpdateAddressLine(ctx, strings.TrimSpace(userID), current.ID, line); err != nil {
			return domain.Address{}, fmt.Errorf("update default address: %w", err)
		}
		current.Line = line
		return current, nil
	}
	return uc.AddAddress(ctx, userID, domain.AddressInput{Label: domain.DefaultAddressLabel, Line: line, IsDefault: true})
}

// Prefill returns the checkout fields for a signed-in customer.
func (uc *AccountUseCase) Prefill(ctx context.Context, userID string) (domain.Prefill, error) {
	profile, err := uc.Profile(ctx, userID)
	if err != nil {
		return domain.Prefill{}, err
	}
	addresses, err := uc.Addresses(ctx, userID)
	if err != nil {
		return domain.Prefill{}, err
	}
	return domain.BuildPrefill(profile, addresses), nil
}

// Orders returns the customer's order history, newest first. limit is
// clamped to [1, MaxHistoryLimit] with DefaultHistoryLimit for zero.
func (uc *AccountUseCase) Orders(ctx context.Context, userID string, limit int) ([]orders.Order, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	list, err := uc.history.ListByCustomer(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list customer orders: %w", err)
	}
	if list == nil {
		list = []orders.Order{}
	}
	return list, nil
}

func requireUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrNoCustomer
	}
	return userID, nil
}

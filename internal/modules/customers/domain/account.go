package domain

import (
	"errors"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	ordering "acapulcoWs/internal/modules/ordering/domain"
)

const (
	minNameLength    = 2
	minPhoneDigits   = 9
	minAddressLength = 8

	// DefaultAddressLabel names an address created from the default address field.
	DefaultAddressLabel = "Casa"
)

var (
	ErrNameTooShort    = errors.New("full name needs at least two letters")
	ErrPhoneInvalid    = errors.New("phone needs at least nine digits")
	ErrAddressTooShort = errors.New("address line too short")
	ErrAddressNotFound = errors.New("address not found")
)

// Profile is a signed-in customer's contact data, keyed by the token subject.
type Profile struct {
	UserID           string    `json:"id"`
	FullName         string    `json:"fullName"`
	Phone            string    `json:"phone"`
	DefaultAddressID string    `json:"defaultAddressId,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ProfileChanges holds the fields a customer edits; nil leaves a field as is.
type ProfileChanges struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
}

// Apply validates and applies changes. An empty phone clears it; any other
// phone is stored as digits with the 351 prefix for national numbers.
func (p *Profile) Apply(changes ProfileChanges, now time.Time) error {
	name := p.FullName
	if changes.FullName != nil {
		name = strings.Join(strings.Fields(*changes.FullName), " ")
		if utf8.RuneCountInString(name) < minNameLength {
			return ErrNameTooShort
		}
	}
	phone := p.Phone
	if changes.Phone != nil {
		phone = ""
		if raw := strings.TrimSpace(*changes.Phone); raw != "" {
			phone = ordering.NormalizePhone(raw)
			if len(phone) < minPhoneDigits {
				return ErrPhoneInvalid
			}
		}
	}
	p.FullName = name
	p.Phone = phone
	p.UpdatedAt = now.UTC()
	return nil
}

// SplitName returns the first word as the first name and the rest as the last name.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// Address is one entry of the customer's address book.
type Address struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Label     string    `json:"label,omitempty"`
	Line      string    `json:"addressLine"`
	Notes     string    `json:"notes,omitempty"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddressInput is what the customer submits for a new address.
type AddressInput struct {
	Label     string `json:"label"`
	Line      string `json:"addressLine"`
	Notes     string `json:"notes"`
	IsDefault bool   `json:"isDefault"`
}

// CleanAddressLine trims the line and rejects lines too short to deliver to.
func CleanAddressLine(line string) (string, error) {
	line = strings.TrimSpace(line)
	if utf8.RuneCountInString(line) < minAddressLength {
		return "", ErrAddressTooShort
	}
	return line, nil
}

// NewAddress builds a validated, not yet default, address.
func NewAddress(id, userID string, input AddressInput, now time.Time) (Address, error) {
	line, err := CleanAddressLine(input.Line)
	if err != nil {
		return Address{}, err
	}
	return Address{
		ID:        id,
		UserID:    userID,
		Label:     strings.TrimSpace(input.Label),
		Line:      line,
		Notes:     strings.TrimSpace(input.Notes),
		CreatedAt: now.UTC(),
	}, nil
}

// SortAddresses orders the book with the default first, then newest first.
func SortAddresses(addresses []Address) {
	slices.SortStableFunc(addresses, func(a, b Address) int {
		if a.IsDefault != b.IsDefault {
			if a.IsDefault {
				return -1
			}
			return 1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// PickDefault returns the newest address flagged as default, falling back to
// the newest address when none is flagged.
func PickDefault(addresses []Address) (Address, bool) {
	var (
		best  Address
		found bool
	)
	for _, a := range addresses {
		switch {
		case !found:
			best, found = a, true
		case a.IsDefault && !best.IsDefault:
			best = a
		case a.IsDefault == best.IsDefault && a.CreatedAt.After(best.CreatedAt):
			best = a
		}
	}
	return best, found
}

// Prefill is what the checkout form starts with for a signed-in customer.
type Prefill struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone"`
	AddressLine string `json:"addressLine,omitempty"`
}

// BuildPrefill combines the profile with the default address.
func BuildPrefill(profile Profile, addresses []Address) Prefill {
	first, last := SplitName(profile.FullName)
	prefill := Prefill{FirstName: first, LastName: last, Phone: profile.Phone}
	if address, ok := PickDefault(addresses); ok {
		prefill.AddressLine = address.Line
	}
	return prefill
}

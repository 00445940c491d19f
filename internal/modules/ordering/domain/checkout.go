package domain

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DeliveryType selects how the customer receives the order.
type DeliveryType string

const (
	DeliveryTakeaway DeliveryType = "takeaway"
	DeliveryDelivery DeliveryType = "delivery"
)

// ParseDeliveryType accepts the two known delivery types; an empty value means takeaway.
func ParseDeliveryType(raw string) (DeliveryType, bool) {
	switch DeliveryType(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DeliveryTakeaway:
		return DeliveryTakeaway, true
	case DeliveryDelivery:
		return DeliveryDelivery, true
	default:
		return "", false
	}
}

const (
	minNameLength    = 2
	minAddressLength = 8
	portugalPrefix   = "351"
)

// ValidationError is a checkout rule rejection with a customer-facing message.
type ValidationError struct {
	Rule        string
	Message     string
	Description string
}

func (e *ValidationError) Error() string { return e.Message }

// Is matches any ValidationError for the same rule.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Rule == e.Rule
}

var (
	ErrEmptyCart            = &ValidationError{Rule: "empty_cart", Message: "Carrinho vazio"}
	ErrFirstNameRequired    = &ValidationError{Rule: "first_name", Message: "Informe o teu nome."}
	ErrLastNameRequired     = &ValidationError{Rule: "last_name", Message: "Informe o teu apelido."}
	ErrPhoneRequired        = &ValidationError{Rule: "phone", Message: "Informe um telefone válido."}
	ErrOutsideBusinessHours = &ValidationError{Rule: "business_hours", Message: "Horário fora do expediente", Description: DefaultBusinessHours.String()}
	ErrDeliveryDisabled     = &ValidationError{Rule: "delivery_disabled", Message: "Entregas desativadas. Escolhe Recolha."}
	ErrAddressRequired      = &ValidationError{Rule: "address", Message: "Informe a morada para entrega."}
	ErrDeliveryTypeInvalid  = &ValidationError{Rule: "delivery_type", Message: "Escolhe Recolha ou Entrega."}
)

// IsValidation reports whether err is a checkout rule rejection.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// NormalizePhone keeps only digits and prefixes bare 9-digit national numbers with 351.
func NormalizePhone(raw string) string {
	digits := digitsOnly(raw)
	if len(digits) == 9 {
		return portugalPrefix + digits
	}
	return digits
}

// CheckoutForm is the customer data collected at checkout.
type CheckoutForm struct {
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	Phone         string       `json:"phone"`
	DeliveryType  DeliveryType `json:"deliveryType"`
	Address       string       `json:"address"`
	RequestedTime string       `json:"requestedTime"`
	// CustomerID is set from the caller's token, never from the body.
	CustomerID string `json:"-"`
}

// CheckoutPolicy carries the settings checkout depends on.
type CheckoutPolicy struct {
	DeliveryEnabled bool
	Hours           BusinessHours
}

// OrderItem is a submitted line.
type OrderItem struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Price    decimal.NullDecimal `json:"price"`
	Quantity int                 `json:"quantity"`
}

// OrderDraft is the validated order handed to the submission backend.
type OrderDraft struct {
	DeliveryType  DeliveryType    `json:"deliveryType"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	AddressLine   string          `json:"addressLine,omitempty"`
	RequestedTime string          `json:"requestedTime,omitempty"`
	Observations  string          `json:"observations,omitempty"`
	Items         []OrderItem     `json:"items"`
	Total         decimal.Decimal `json:"total"`
	CustomerID    string          `json:"customerId,omitempty"`
}

// ValidateCheckout applies the checkout rules in order and stops at the first failure.
func ValidateCheckout(cart *Cart, form CheckoutForm, policy CheckoutPolicy) (OrderDraft, error) {
	if cart == nil || cart.IsEmpty() {
		return OrderDraft{}, ErrEmptyCart
	}

	firstName := strings.TrimSpace(form.FirstName)
	lastName := strings.TrimSpace(form.LastName)
	if utf8.RuneCountInString(firstName) < minNameLength {
		return OrderDraft{}, ErrFirstNameRequired
	}
	if utf8.RuneCountInString(lastName) < minNameLength {
		return OrderDraft{}, ErrLastNameRequired
	}

	phone := NormalizePhone(form.Phone)
	if phone == "" {
		return OrderDraft{}, ErrPhoneRequired
	}

	hours := policy.Hours
	if len(hours) == 0 {
		hours = DefaultBusinessHours
	}
	requested := strings.TrimSpace(form.RequestedTime)
	if requested != "" && !hours.Contains(requested) {
		return OrderDraft{}, &ValidationError{
			Rule:        ErrOutsideBusinessHours.Rule,
			Message:     ErrOutsideBusinessHours.Message,
			Description: hours.String(),
		}
	}

	deliveryType, ok := ParseDeliveryType(string(form.DeliveryType))
	if !ok {
		return OrderDraft{}, ErrDeliveryTypeInvalid
	}
	address := ""
	if deliveryType == DeliveryDelivery {
		if !policy.DeliveryEnabled {
			return OrderDraft{}, ErrDeliveryDisabled
		}
		address = strings.TrimSpace(form.Address)
		if utf8.RuneCountInString(address) < minAddressLength {
			return OrderDraft{}, ErrAddressRequired
		}
	}

	lines := cart.Lines()
	items := make([]OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, OrderItem{
			ID:       line.ProductID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
		})
	}

	return OrderDraft{
		DeliveryType:  deliveryType,
		CustomerName:  firstName + " " + lastName,
		CustomerPhone: phone,
		AddressLine:   address,
		RequestedTime: requested,
		Observations:  cart.FinalObservations(),
		Items:         items,
		Total:         cart.TotalPrice(),
		CustomerID:    strings.TrimSpace(form.CustomerID),
	}, nil
}

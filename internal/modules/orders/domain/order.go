package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	ordering "acapulcoWs/internal/modules/ordering/domain"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusPreparing Status = "preparing"
	StatusRejected  Status = "rejected"
	StatusAdjusted  Status = "adjusted"
	StatusDone      Status = "done"
)

// BoardStatuses are the statuses shown on the kitchen board.
var BoardStatuses = []Status{StatusPending, StatusAdjusted, StatusAccepted, StatusPreparing, StatusRejected}

var (
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrReasonRequired    = errors.New("a reason is required")
	ErrInvalidTime       = errors.New("invalid time")
)

// statusSpellings lists every stored spelling of each status, canonical
// first. Older rows were written in Portuguese.
var statusSpellings = map[Status][]string{
	StatusPending:   {"pending", "pendente", "new", ""},
	StatusAccepted:  {"accepted", "aceite", "aceito", "confirmed"},
	StatusPreparing: {"preparing", "em_preparacao", "in_progress"},
	StatusRejected:  {"rejected", "rejeitado", "cancelled", "canceled"},
	StatusAdjusted:  {"adjusted", "ajustado"},
	StatusDone:      {"done", "concluido", "completed", "delivered"},
}

// NormalizeStatus maps stored or legacy status strings onto a Status.
func NormalizeStatus(raw string) (Status, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for status, spellings := range statusSpellings {
		for _, spelling := range spellings {
			if spelling == raw {
				return status, true
			}
		}
	}
	return "", false
}

// Spellings returns the stored strings that read back as s.
func (s Status) Spellings() []string {
	spellings, ok := statusSpellings[s]
	if !ok {
		return []string{string(s)}
	}
	out := make([]string, len(spellings))
	copy(out, spellings)
	return out
}

// Order is a submitted take-away order as the restaurant sees it.
type Order struct {
	ID            string                `json:"id"`
	Status        Status                `json:"status"`
	DeliveryType  ordering.DeliveryType `json:"deliveryType"`
	CustomerName  string                `json:"customerName"`
	CustomerPhone string                `json:"customerPhone"`
	AddressLine   string                `json:"addressLine,omitempty"`
	RequestedTime string                `json:"requestedTime,omitempty"`
	ConfirmedTime string                `json:"confirmedTime,omitempty"`
	Observations  string                `json:"observations,omitempty"`
	AdminNotes    string                `json:"adminNotes,omitempty"`
	Items         []ordering.OrderItem  `json:"items"`
	Total         decimal.Decimal       `json:"total"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
	AcceptedAt    *time.Time            `json:"acceptedAt,omitempty"`
	RejectedAt    *time.Time            `json:"rejectedAt,omitempty"`
	CustomerID    string                `json:"customerId,omitempty"`
}

// FromDraft turns a validated checkout draft into a pending order.
func FromDraft(id string, draft ordering.OrderDraft, now time.Time) Order {
	items := make([]ordering.OrderItem, len(draft.Items))
	copy(items, draft.Items)
	return Order{
		ID:            id,
		Status:        StatusPending,
		DeliveryType:  draft.DeliveryType,
		CustomerName:  draft.CustomerName,
		CustomerPhone: draft.CustomerPhone,
		AddressLine:   draft.AddressLine,
		RequestedTime: draft.RequestedTime,
		Observations:  draft.Observations,
		Items:         items,
		Total:         draft.Total,
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
		CustomerID:    draft.CustomerID,
	}
}

// ShortID is the first eight characters of the id, upper-cased.
func (o Order) ShortID() string {
	id := o.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// EffectiveTime prefers the time confirmed by the restaurant over the requested one.
func (o Order) EffectiveTime() string {
	if t := strings.TrimSpace(o.ConfirmedTime); t != "" {
		return t
	}
	return strings.TrimSpace(o.RequestedTime)
}

func (o Order) IsDelivery() bool {
	return o.DeliveryType == ordering.DeliveryDelivery
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusAccepted, StatusRejected},
	StatusAdjusted:  {StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusPreparing, StatusDone, StatusRejected},
	StatusPreparing: {StatusDone},
}

func (o Order) CanTransition(to Status) bool {
	for _, allowed := range transitions[o.Status] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Accept confirms the order. An empty confirmed time keeps the requested one.
func (o *Order) Accept(now time.Time, confirmedTime, note string) error {
	if !o.CanTransition(StatusAccepted) {
		return ErrInvalidTransition
	}
	confirmed := strings.TrimSpace(confirmedTime)
	if confirmed == "" {
		confirmed = strings.TrimSpace(o.RequestedTime)
	} else if _, ok := ordering.TimeToMinutes(confirmed); !ok {
		return ErrInvalidTime
	}
	at := now.UTC()
	o.Status = StatusAccepted
	o.ConfirmedTime = confirmed
	o.AdminNotes = strings.TrimSpace(note)
	o.AcceptedAt = &at
	o.UpdatedAt = at
	return nil
}

func (o *Order) Reject(now time.Time, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	if !o.CanTransition(StatusRejected) {
		return ErrInvalidTransition
	}
	at := now.UTC()
	o.Status = StatusRejected
	o.AdminNotes = reason
	o.RejectedAt = &at
	o.UpdatedAt = at
	return nil
}

// Adjust records a change agreed with the customer without moving the status.
func (o *Order) Adjust(now time.Time, reason, newTime string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}
	if o.Status == StatusRejected || o.Status == StatusDone {
		return ErrInvalidTransition
	}
	newTime = strings.TrimSpace(newTime)
	if newTime != "" {
		if _, ok := ordering.TimeToMinutes(newTime); !ok {
			return ErrInvalidTime
		}
		o.ConfirmedTime = newTime
	} else if o.ConfirmedTime == "" {
		o.ConfirmedTime = strings.TrimSpace(o.RequestedTime)
	}
	o.AdminNotes = reason
	o.UpdatedAt = now.UTC()
	return nil
}

func (o *Order) StartPreparing(now time.Time) error {
	return o.moveTo(StatusPreparing, now)
}

func (o *Order) Complete(now time.Time) error {
	return o.moveTo(StatusDone, now)
}

func (o *Order) moveTo(status Status, now time.Time) error {
	if !o.CanTransition(status) {
		return ErrInvalidTransition
	}
	o.Status = status
	o.UpdatedAt = now.UTC()
	return nil
}

// Board splits a day's orders into the three kitchen columns.
type Board struct {
	Day      string  `json:"day"`
	Pending  []Order `json:"pending"`
	Active   []Order `json:"active"`
	Rejected []Order `json:"rejected"`
}

func BuildBoard(day string, orders []Order) Board {
	board := Board{Day: day, Pending: []Order{}, Active: []Order{}, Rejected: []Order{}}
	for _, o := range orders {
		switch o.Status {
		case StatusPending, StatusAdjusted:
			board.Pending = append(board.Pending, o)
		case StatusAccepted, StatusPreparing:
			board.Active = append(board.Active, o)
		case StatusRejected:
			board.Rejected = append(board.Rejected, o)
		}
	}
	return board
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

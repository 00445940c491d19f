package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	menu "acapulcoWs/internal/modules/menu/domain"
	"acapulcoWs/internal/modules/orders/application/port"
	"acapulcoWs/internal/modules/orders/domain"
)

var ErrInvalidDay = errors.New("invalid day")

const ticketContentType = "text/plain; charset=utf-8"

// ActionResult is what the kitchen gets back after acting on an order: the
// updated order, the customer notification and the printable ticket.
type ActionResult struct {
	Order       domain.Order `json:"order"`
	Message     string       `json:"message,omitempty"`
	WhatsAppURL string       `json:"whatsappUrl,omitempty"`
	Ticket      string       `json:"ticket,omitempty"`
	TicketURL   string       `json:"ticketUrl,omitempty"`
}

// TriageUseCase backs the kitchen board.
type TriageUseCase struct {
	repo      port.Repository
	publisher port.EventPublisher
	archive   port.TicketArchive
	loc       *time.Location
	now       func() time.Time
}

// NewTriageUseCase wires the board. publisher and archive are optional.
func NewTriageUseCase(repo port.Repository, publisher port.EventPublisher, archive port.TicketArchive, loc *time.Location) *TriageUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &TriageUseCase{
		repo:      repo,
		publisher: publisher,
		archive:   archive,
		loc:       loc,
		now:       time.Now,
	}
}

// Today is the current business day in the restaurant's zone.
func (uc *TriageUseCase) Today() string {
	return menu.BusinessDay(uc.now(), uc.loc)
}

// Orders lists the orders placed on day with one of statuses.
func (uc *TriageUseCase) Orders(ctx context.Context, day string, statuses []domain.Status) ([]domain.Order, error) {
	start, end, err := menu.DayBounds(day, uc.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDay, err)
	}
	orders, err := uc.repo.ListBetween(ctx, start, end, statuses)
	if err != nil {
		return nil, fmt.Errorf("list orders for %s: %w", day, err)
	}
	return orders, nil
}

func (uc *TriageUseCase) Board(ctx context.Context, day string) (domain.Board, error) {
	orders, err := uc.Orders(ctx, day, domain.BoardStatuses)
	if err != nil {
		return domain.Board{}, err
	}
	return domain.BuildBoard(day, orders), nil
}

func (uc *TriageUseCase) Get(ctx context.Context, id string) (domain.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Order{}, port.ErrOrderNotFound
	}
	return uc.repo.Get(ctx, id)
}

// Accept confirms the order. An empty confirmedTime keeps the customer's time.
func (uc *TriageUseCase) Accept(ctx context.Context, id, confirmedTime, note string) (ActionResult, error) {
	order, err := uc.mutate(ctx, id, func(o *domain.Order, now time.Time) error {
		return o.Accept(now, confirmedTime, note)
	})
	if err != nil {
		return ActionResult{}, err
	}
	result := uc.notify(order, domain.MessageAccepted, note)
	uc.attachTicket(ctx, &result)
	return result, nil
}

func (uc *TriageUseCase) Reject(ctx context.Context, id, reason string) (ActionResult, error) {
	order, err := uc.mutate(ctx, id, func(o *domain.Order, now time.Time) error {
		return o.Reject(now, reason)
	})
	if err != nil {
		return ActionResult{}, err
	}
	return uc.notify(order, domain.MessageRejected, reason), nil
}

// Adjust changes the promised time with a reason and reprints the ticket.
func (uc *TriageUseCase) Adjust(ctx context.Context, id, reason, newTime string) (ActionResult, error) {
	order, err := uc.mutate(ctx, id, func(o *domain.Order, now time.Time) error {
		return o.Adjust(now, reason, newTime)
	})
	if err != nil {
		return ActionResult{}, err
	}
	result := uc.notify(order, domain.MessageEdited, reason)
	uc.attachTicket(ctx, &result)
	return result, nil
}

func (uc *TriageUseCase) StartPreparing(ctx context.Context, id string) (domain.Order, error) {
	return uc.mutate(ctx, id, func(o *domain.Order, now time.Time) error {
		return o.StartPreparing(now)
	})
}

func (uc *TriageUseCase) Complete(ctx context.Context, id string) (domain.Order, error) {
	return uc.mutate(ctx, id, func(o *domain.Order, now time.Time) error {
		return o.Complete(now)
	})
}

// Reprint renders the ticket again without touching the order.
func (uc *TriageUseCase) Reprint(ctx context.Context, id string) (ActionResult, error) {
	order, err := uc.Get(ctx, id)
	if err != nil {
		return ActionResult{}, err
	}
	result := ActionResult{Order: order}
	uc.attachTicket(ctx, &result)
	return result, nil
}

// Notification renders the customer message for kind without changing the order.
func (uc *TriageUseCase) Notification(ctx context.Context, id string, kind domain.MessageKind) (ActionResult, error) {
	order, err := uc.Get(ctx, id)
	if err != nil {
		return ActionResult{}, err
	}
	return uc.notify(order, kind, ""), nil
}

func (uc *TriageUseCase) mutate(ctx context.Context, id string, apply func(*domain.Order, time.Time) error) (domain.Order, error) {
	order, err := uc.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	previous := order.Status
	if err := apply(&order, uc.now()); err != nil {
		return domain.Order{}, err
	}
	if err := uc.repo.Update(ctx, order, previous); err != nil {
		if errors.Is(err, port.ErrStatusChanged) {
			return domain.Order{}, fmt.Errorf("%w: %w", domain.ErrInvalidTransition, err)
		}
		return domain.Order{}, fmt.Errorf("update order %s: %w", order.ID, err)
	}
	slog.Info("order updated",
		slog.String("orderId", order.ID),
		slog.String("from", string(previous)),
		slog.String("to", string(order.Status)),
	)
	publish(ctx, uc.publisher, domain.NewEvent(domain.ActionUpdated, order, uc.loc))
	return order, nil
}

func (uc *TriageUseCase) notify(order domain.Order, kind domain.MessageKind, reason string) ActionResult {
	result := ActionResult{
		Order:   order,
		Message: domain.CustomerMessage(order, kind, reason),
	}
	link, err := domain.WhatsAppLink(order, kind, reason)
	if err != nil {
		slog.Warn("whatsapp link unavailable", slog.String("orderId", order.ID), slog.Any("error", err))
		return result
	}
	result.WhatsAppURL = link
	return result
}

func (uc *TriageUseCase) attachTicket(ctx context.Context, result *ActionResult) {
	printedAt := uc.now()
	result.Ticket = domain.Ticket(result.Order, printedAt, uc.loc)
	if uc.archive == nil {
		return
	}
	key := domain.TicketKey(result.Order, printedAt)
	url, err := uc.archive.Store(ctx, key, []byte(result.Ticket), ticketContentType)
	if err != nil {
		slog.Warn("ticket archive failed", slog.String("orderId", result.Order.ID), slog.String("key", key), slog.Any("error", err))
		return
	}
	result.TicketURL = url
}

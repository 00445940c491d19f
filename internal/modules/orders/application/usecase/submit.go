package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	ordering "acapulcoWs/internal/modules/ordering/domain"
	"acapulcoWs/internal/modules/orders/application/port"
	"acapulcoWs/internal/modules/orders/domain"
)

// SubmitUseCase stores checked-out carts as pending orders.
type SubmitUseCase struct {
	repo      port.Repository
	publisher port.EventPublisher
	loc       *time.Location
	now       func() time.Time
	newID     func() string
}

func NewSubmitUseCase(repo port.Repository, publisher port.EventPublisher, loc *time.Location) *SubmitUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &SubmitUseCase{
		repo:      repo,
		publisher: publisher,
		loc:       loc,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Submit inserts the draft and announces it. A failed announcement does not
// fail the submission; the board polling picks the order up anyway.
func (uc *SubmitUseCase) Submit(ctx context.Context, draft ordering.OrderDraft) (string, error) {
	order := domain.FromDraft(uc.newID(), draft, uc.now())
	if err := uc.repo.Insert(ctx, order); err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	slog.Info("order submitted",
		slog.String("orderId", order.ID),
		slog.String("deliveryType", string(order.DeliveryType)),
		slog.Int("items", len(order.Items)),
		slog.String("total", order.Total.StringFixed(2)),
	)
	publish(ctx, uc.publisher, domain.NewEvent(domain.ActionCreated, order, uc.loc))
	return order.ID, nil
}

func publish(ctx context.Context, publisher port.EventPublisher, event domain.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		slog.Warn("order event publish failed",
			slog.String("orderId", event.OrderID),
			slog.String("action", event.Action),
			slog.Any("error", err),
		)
	}
}

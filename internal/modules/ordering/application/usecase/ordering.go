package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"acapulcoWs/internal/modules/ordering/application/port"
	"acapulcoWs/internal/modules/ordering/domain"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrDishNotFound        = errors.New("dish not on today's menu")
	ErrSideNotFound        = errors.New("side not available today")
	ErrItemNotFound        = errors.New("item not found")
	ErrLineNotFound        = errors.New("cart line not found")
	ErrNoInteraction       = errors.New("no side selection open")
	ErrInteractionStale    = errors.New("side selection was replaced or closed")
	ErrCatalogUnavailable  = errors.New("catalog unavailable")
	ErrSettingsUnavailable = errors.New("settings unavailable")
	ErrSubmitFailed        = errors.New("order submission failed")
)

// OrderingConfig tunes prices and rules applied to every session.
type OrderingConfig struct {
	ExtraPrices   domain.ExtraPrices
	BusinessHours domain.BusinessHours
	Desserts      []domain.SimpleItem
	// Today returns the current business day as "YYYY-MM-DD".
	Today func() string
}

func (cfg OrderingConfig) withDefaults() OrderingConfig {
	if cfg.ExtraPrices.Half.IsZero() && cfg.ExtraPrices.Full.IsZero() {
		cfg.ExtraPrices = domain.DefaultExtraPrices()
	}
	if len(cfg.BusinessHours) == 0 {
		cfg.BusinessHours = domain.DefaultBusinessHours
	}
	if cfg.Desserts == nil {
		cfg.Desserts = domain.DefaultDesserts()
	}
	if cfg.Today == nil {
		cfg.Today = func() string { return time.Now().Format(time.DateOnly) }
	}
	return cfg
}

// OrderingUseCase drives the storefront: browsing today's menu, composing the
// cart of each session and submitting it.
type OrderingUseCase struct {
	sessions  *SessionStore
	catalog   port.CatalogProvider
	submitter port.OrderSubmitter
	settings  port.SettingsProvider
	cfg       OrderingConfig
}

func NewOrderingUseCase(
	sessions *SessionStore,
	catalog port.CatalogProvider,
	submitter port.OrderSubmitter,
	settings port.SettingsProvider,
	cfg OrderingConfig,
) *OrderingUseCase {
	if sessions == nil {
		sessions = NewSessionStore()
	}
	return &OrderingUseCase{
		sessions:  sessions,
		catalog:   catalog,
		submitter: submitter,
		settings:  settings,
		cfg:       cfg.withDefaults(),
	}
}

// Sessions exposes the store so callers can sweep idle sessions.
func (uc *OrderingUseCase) Sessions() *SessionStore {
	return uc.sessions
}

func (uc *OrderingUseCase) NewSession() CartView {
	session := uc.sessions.Create()
	slog.Debug("ordering session created", slog.String("sessionId", session.ID))
	session.mu.Lock()
	defer session.mu.Unlock()
	return buildCartView(session)
}

func (uc *OrderingUseCase) Cart(sessionID string) (CartView, error) {
	return uc.withSession(sessionID, func(*Session) error { return nil })
}

// Menu returns today's dishes, visible sides and fixed-price extras.
func (uc *OrderingUseCase) Menu(ctx context.Context) (MenuView, error) {
	day := uc.cfg.Today()
	dishes, err := uc.catalog.FetchDailyDishes(ctx, day)
	if err != nil {
		return MenuView{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	sides, err := uc.catalog.FetchActiveSides(ctx, day)
	if err != nil {
		return MenuView{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return MenuView{
		Day:           day,
		Dishes:        dishes,
		Sides:         domain.VisibleSides(sides),
		Desserts:      uc.cfg.Desserts,
		SideHalfPrice: money(uc.cfg.ExtraPrices.Half),
		SideFullPrice: money(uc.cfg.ExtraPrices.Full),
	}, nil
}

// PickDish adds a dish to the cart, or opens a side selection when the dish
// offers sides and today's side catalog is not empty. A non-empty
// replaceLineID edits that line instead of adding a new one.
func (uc *OrderingUseCase) PickDish(ctx context.Context, sessionID, dishID, replaceLineID string) (PickOutcome, error) {
	session, ok := uc.sessions.Get(sessionID)
	if !ok {
		return PickOutcome{}, ErrSessionNotFound
	}
	day := uc.cfg.Today()

	dishes, err := uc.catalog.FetchDailyDishes(ctx, day)
	if err != nil {
		slog.Warn("ordering dish fetch failed", slog.String("sessionId", session.ID), slog.String("day", day), slog.Any("error", err))
		return PickOutcome{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	dish, found := findDish(dishes, dishID)
	if !found {
		return PickOutcome{}, ErrDishNotFound
	}

	session.mu.Lock()
	if replaceLineID != "" {
		if _, exists := session.cart.Line(replaceLineID); !exists {
			session.mu.Unlock()
			return PickOutcome{}, ErrLineNotFound
		}
	}
	if !dish.SidesEnabled {
		outcome := uc.addDishDirectLocked(session, dish, replaceLineID)
		session.mu.Unlock()
		return outcome, nil
	}
	generation := session.openInteraction(dish, replaceLineID, uc.cfg.ExtraPrices)
	session.mu.Unlock()

	sides, fetchErr := uc.catalog.FetchActiveSides(ctx, day)

	session.mu.Lock()
	defer session.mu.Unlock()

	it := session.current(generation)
	if it == nil {
		slog.Debug("ordering stale side catalog discarded", slog.String("sessionId", session.ID), slog.Uint64("generation", generation))
		return PickOutcome{}, ErrInteractionStale
	}
	if fetchErr != nil {
		session.closeInteraction()
		slog.Warn("ordering side fetch failed", slog.String("sessionId", session.ID), slog.String("dishId", dish.ID), slog.Any("error", fetchErr))
		return PickOutcome{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, fetchErr)
	}

	visible := domain.VisibleSides(sides)
	if len(visible) == 0 {
		session.closeInteraction()
		return uc.addDishDirectLocked(session, dish, replaceLineID), nil
	}

	it.catalog = visible
	it.loaded = true
	it.selection.Sanitize(domain.ActiveSideIDs(visible))

	view := buildInteractionView(it)
	return PickOutcome{Interaction: &view, Cart: buildCartView(session)}, nil
}

// RefreshSides reloads today's side catalog into the open selection and drops
// choices that are no longer offered. A failed fetch keeps the selection as is.
func (uc *OrderingUseCase) RefreshSides(ctx context.Context, sessionID string) (InteractionView, error) {
	session, ok := uc.sessions.Get(sessionID)
	if !ok {
		return InteractionView{}, ErrSessionNotFound
	}

	session.mu.Lock()
	if session.interaction == nil || !session.interaction.loaded {
		session.mu.Unlock()
		return InteractionView{}, ErrNoInteraction
	}
	generation := session.interaction.generation
	session.mu.Unlock()

	sides, err := uc.catalog.FetchActiveSides(ctx, uc.cfg.Today())

	session.mu.Lock()
	defer session.mu.Unlock()
	it := session.current(generation)
	if it == nil {
		return InteractionView{}, ErrInteractionStale
	}
	if err != nil {
		return InteractionView{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	it.catalog = domain.VisibleSides(sides)
	it.selection.Sanitize(domain.ActiveSideIDs(it.catalog))
	return buildInteractionView(it), nil
}

func (uc *OrderingUseCase) ToggleFreeSide(sessionID, sideID string) (InteractionView, error) {
	return uc.withInteraction(sessionID, sideID, func(sel *domain.SideSelection) { sel.ToggleFree(sideID) })
}

func (uc *OrderingUseCase) IncrementExtra(sessionID, sideID string) (InteractionView, error) {
	return uc.withInteraction(sessionID, sideID, func(sel *domain.SideSelection) { sel.IncrementExtra(sideID) })
}

func (uc *OrderingUseCase) DecrementExtra(sessionID, sideID string) (InteractionView, error) {
	return uc.withInteraction(sessionID, sideID, func(sel *domain.SideSelection) { sel.DecrementExtra(sideID) })
}

// ConfirmSides commits the open selection as a cart line. With noSides the
// dish is added with the explicit "sem guarnição" note.
func (uc *OrderingUseCase) ConfirmSides(sessionID string, noSides bool) (CartView, error) {
	return uc.withSession(sessionID, func(session *Session) error {
		it := session.interaction
		if it == nil || !it.loaded {
			return ErrNoInteraction
		}

		result := it.selection.Confirm()
		extrasTotal := it.selection.ExtrasTotal()
		if noSides {
			result = domain.NoSides()
			extrasTotal = decimal.Zero
		}

		note := domain.FormatSidesObservation(it.dish.Name, domain.SideNames(it.catalog), result)
		input := domain.DishLine(it.dish, note, extrasTotal, it.replaceLineID)
		if session.cart.AddLine(input) == "" {
			// the edited line was removed while the selection was open
			input.ReplaceLineID = ""
			session.cart.AddLine(input)
		}
		session.closeInteraction()
		return nil
	})
}

// CancelSides discards the open selection without touching the cart.
func (uc *OrderingUseCase) CancelSides(sessionID string) (CartView, error) {
	return uc.withSession(sessionID, func(session *Session) error {
		if session.interaction != nil {
			session.closeInteraction()
		}
		return nil
	})
}

func (uc *OrderingUseCase) AddSimpleItem(sessionID, itemID string) (CartView, error) {
	item, ok := domain.FindSimpleItem(uc.cfg.Desserts, itemID)
	if !ok {
		return CartView{}, ErrItemNotFound
	}
	return uc.withSession(sessionID, func(session *Session) error {
		session.cart.AddLine(item.LineInput())
		return nil
	})
}

// AddStandaloneSide adds a side bought on its own, priced by portion.
func (uc *OrderingUseCase) AddStandaloneSide(ctx context.Context, sessionID, sideID string, portion domain.Portion) (CartView, error) {
	if _, ok := uc.sessions.Get(sessionID); !ok {
		return CartView{}, ErrSessionNotFound
	}
	sides, err := uc.catalog.FetchActiveSides(ctx, uc.cfg.Today())
	if err != nil {
		return CartView{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	var side *domain.SideCatalogEntry
	for i := range sides {
		if sides[i].ID == sideID && sides[i].Active {
			side = &sides[i]
			break
		}
	}
	if side == nil {
		return CartView{}, ErrSideNotFound
	}
	return uc.withSession(sessionID, func(session *Session) error {
		session.cart.AddLine(domain.StandaloneSideLine(*side, portion, uc.cfg.ExtraPrices))
		return nil
	})
}

func (uc *OrderingUseCase) UpdateQuantity(sessionID, lineID string, quantity int) (CartView, error) {
	return uc.withSession(sessionID, func(session *Session) error {
		if _, ok := session.cart.Line(lineID); !ok {
			return ErrLineNotFound
		}
		session.cart.UpdateQuantity(lineID, quantity)
		return nil
	})
}

func (uc *OrderingUseCase) RemoveLine(sessionID, lineID string) (CartView, error) {
	return uc.withSession(sessionID, func(session *Session) error {
		session.cart.RemoveLine(lineID)
		return nil
	})
}

func (uc *OrderingUseCase) ClearCart(sessionID string) (CartView, error) {
	return uc.withSession(sessionID, func(session *Session) error {
		session.cart.Clear()
		return nil
	})
}

func (uc *OrderingUseCase) SetNotes(sessionID, notes string) (CartView, error) {
	return uc.withSession(sessionID, func(session *Session) error {
		session.cart.SetManualNotes(notes)
		return nil
	})
}

// Checkout validates the cart and submits it. The cart is cleared only after
// the backend accepted the order; any failure leaves it untouched for a retry.
func (uc *OrderingUseCase) Checkout(ctx context.Context, sessionID string, form domain.CheckoutForm) (CheckoutOutcome, error) {
	session, ok := uc.sessions.Get(sessionID)
	if !ok {
		return CheckoutOutcome{}, ErrSessionNotFound
	}

	deliveryEnabled, err := uc.settings.DeliveryEnabled(ctx)
	if err != nil {
		slog.Warn("ordering settings read failed", slog.String("sessionId", session.ID), slog.Any("error", err))
		return CheckoutOutcome{}, fmt.Errorf("%w: %v", ErrSettingsUnavailable, err)
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	draft, err := domain.ValidateCheckout(session.cart, form, domain.CheckoutPolicy{
		DeliveryEnabled: deliveryEnabled,
		Hours:           uc.cfg.BusinessHours,
	})
	if err != nil {
		return CheckoutOutcome{}, err
	}

	orderID, err := uc.submitter.Submit(ctx, draft)
	if err != nil {
		slog.Error("ordering submit failed", slog.String("sessionId", session.ID), slog.Int("items", len(draft.Items)), slog.Any("error", err))
		return CheckoutOutcome{}, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	session.cart.Clear()
	session.interaction = nil
	slog.Info("ordering order submitted", slog.String("sessionId", session.ID), slog.String("orderId", orderID), slog.String("total", draft.Total.StringFixed(2)))
	return CheckoutOutcome{OrderID: orderID, Draft: draft}, nil
}

func (uc *OrderingUseCase) addDishDirectLocked(session *Session, dish domain.Dish, replaceLineID string) PickOutcome {
	if session.interaction != nil {
		session.closeInteraction()
	}
	lineID := session.cart.AddLine(domain.AddLineInput{
		ProductID:     dish.ID,
		Name:          dish.Name,
		Price:         dish.Price,
		Quantity:      1,
		ReplaceLineID: replaceLineID,
	})
	return PickOutcome{LineID: lineID, Cart: buildCartView(session)}
}

func (uc *OrderingUseCase) withSession(sessionID string, fn func(*Session) error) (CartView, error) {
	session, ok := uc.sessions.Get(sessionID)
	if !ok {
		return CartView{}, ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if err := fn(session); err != nil {
		return CartView{}, err
	}
	return buildCartView(session), nil
}

func (uc *OrderingUseCase) withInteraction(sessionID, sideID string, fn func(*domain.SideSelection)) (InteractionView, error) {
	session, ok := uc.sessions.Get(sessionID)
	if !ok {
		return InteractionView{}, ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	it := session.interaction
	if it == nil || !it.loaded {
		return InteractionView{}, ErrNoInteraction
	}
	if !catalogHas(it.catalog, sideID) {
		return InteractionView{}, ErrSideNotFound
	}
	fn(it.selection)
	return buildInteractionView(it), nil
}

func findDish(dishes []domain.Dish, id string) (domain.Dish, bool) {
	id = strings.TrimSpace(id)
	for _, dish := range dishes {
		if dish.ID == id {
			return dish, true
		}
	}
	return domain.Dish{}, false
}

func catalogHas(catalog []domain.SideCatalogEntry, id string) bool {
	for _, entry := range catalog {
		if entry.ID == id {
			return true
		}
	}
	return false
}

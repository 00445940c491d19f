package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"acapulcoWs/internal/modules/ordering/domain"
)

type fakeCatalog struct {
	mu        sync.Mutex
	dishes    []domain.Dish
	sides     []domain.SideCatalogEntry
	dishErr   error
	sidesErr  error
	started   chan struct{}
	release   chan struct{}
	sideCalls int
}

func (f *fakeCatalog) FetchDailyDishes(_ context.Context, _ string) ([]domain.Dish, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dishes, f.dishErr
}

func (f *fakeCatalog) FetchActiveSides(_ context.Context, _ string) ([]domain.SideCatalogEntry, error) {
	f.mu.Lock()
	f.sideCalls++
	started, release := f.started, f.release
	f.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sides, f.sidesErr
}

type fakeSubmitter struct {
	drafts []domain.OrderDraft
	err    error
}

func (f *fakeSubmitter) Submit(_ context.Context, draft domain.OrderDraft) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.drafts = append(f.drafts, draft)
	return "order-1", nil
}

type fakeSettings struct {
	delivery bool
	err      error
}

func (f fakeSettings) DeliveryEnabled(context.Context) (bool, error) {
	return f.delivery, f.err
}

func nullPrice(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		dishes: []domain.Dish{
			{ID: "bitoque", Name: "Bitoque", Price: nullPrice("8.50"), SidesEnabled: true, SidesFreeCount: 2, Portion: domain.PortionFull},
			{ID: "meia-dourada", Name: "1/2 Dourada", Price: nullPrice("6.00"), SidesEnabled: true, SidesFreeCount: 1, Portion: domain.PortionHalf},
			{ID: "sopa", Name: "Sopa do dia", SidesEnabled: false},
		},
		sides: []domain.SideCatalogEntry{
			{ID: "arroz", Name: "Arroz", Active: true},
			{ID: "batata", Name: "Batata frita", Active: true},
			{ID: "salada", Name: "Salada", Active: true},
			{ID: "feijao", Name: "Feijão", Active: false},
		},
	}
}

func newTestUseCase(catalog *fakeCatalog, submitter *fakeSubmitter, settings fakeSettings) *OrderingUseCase {
	return NewOrderingUseCase(NewSessionStore(), catalog, submitter, settings, OrderingConfig{
		Today: func() string { return "2026-10-15" },
	})
}

func TestPickDishWithoutSidesAddsDirectly(t *testing.T) {
	uc := newTestUseCase(testCatalog(), &fakeSubmitter{}, fakeSettings{})
	session := uc.NewSession()

	outcome, err := uc.PickDish(context.Background(), session.SessionID, "sopa", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Interaction != nil || outcome.LineID == "" {
		t.Fatalf("expected direct add, got %+v", outcome)
	}
	if len(outcome.Cart.Lines) != 1 || outcome.Cart.Lines[0].Price != PriceOnRequest {
		t.Fatalf("unexpected cart %+v", outcome.Cart)
	}
}

func TestPickDishWithEmptySideCatalogAddsDirectly(t *testing.T) {
	catalog := testCatalog()
	catalog.sides = []domain.SideCatalogEntry{{ID: "arroz", Name: "Arroz", Active: false}}
	uc := newTestUseCase(catalog, &fakeSubmitter{}, fakeSettings{})
	session := uc.NewSession()

	outcome, err := uc.PickDish(context.Background(), session.SessionID, "bitoque", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Interaction != nil {
		t.Fatalf("expected no side selection")
	}
	if outcome.Cart.TotalPrice != "8.50" || outcome.Cart.Lines[0].Note != "" {
		t.Fatalf("unexpected cart %+v", outcome.Cart)
	}
}

func TestSideSelectionFlow(t *testing.T) {
	uc := newTestUseCase(testCatalog(), &fakeSubmitter{}, fakeSettings{})
	sid := uc.NewSession().SessionID

	outcome, err := uc.PickDish(context.Background(), sid, "meia-dourada", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Interaction == nil {
		t.Fatal("expected a side selection")
	}
	if got := len(outcome.Interaction.Sides); got != 3 {
		t.Fatalf("expected 3 visible sides, got %d", got)
	}
	if outcome.Interaction.PortionLabel != "1/2 dose" || outcome.Interaction.UnitPrice != "3.00" {
		t.Fatalf("unexpected interaction %+v", outcome.Interaction)
	}

	if _, err := uc.ToggleFreeSide(sid, "arroz"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	view, err := uc.ToggleFreeSide(sid, "salada")
	if err != nil {
		t.Fatalf("toggle at ceiling must be silent: %v", err)
	}
	if view.FreeRemaining != 0 {
		t.Fatalf("expected no free slots, got %d", view.FreeRemaining)
	}
	uc.IncrementExtra(sid, "batata")
	view, _ = uc.IncrementExtra(sid, "batata")
	if view.ExtrasTotal != "6.00" {
		t.Fatalf("expected extras total 6.00, got %s", view.ExtrasTotal)
	}
	if _, err := uc.IncrementExtra(sid, "feijao"); !errors.Is(err, ErrSideNotFound) {
		t.Fatalf("expected inactive side rejected, got %v", err)
	}

	cart, err := uc.ConfirmSides(sid, false)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if cart.Interaction != nil {
		t.Fatal("selection should be closed after confirm")
	}
	line := cart.Lines[0]
	if line.Note != "1/2 Dourada: Grátis: Arroz | Extras: Batata frita (1/2 dose) x2" {
		t.Fatalf("unexpected note %q", line.Note)
	}
	if line.Price != "12.00" {
		t.Fatalf("expected dish plus extras price, got %s", line.Price)
	}
	if _, err := uc.ConfirmSides(sid, false); !errors.Is(err, ErrNoInteraction) {
		t.Fatalf("expected no interaction, got %v", err)
	}
}

func TestConfirmNoSides(t *testing.T) {
	uc := newTestUseCase(testCatalog(), &fakeSubmitter{}, fakeSettings{})
	sid := uc.NewSession().SessionID

	uc.PickDish(context.Background(), sid, "bitoque", "")
	uc.IncrementExtra(sid, "arroz")
	cart, err := uc.ConfirmSides(sid, true)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if cart.Lines[0].Note != "Bitoque: sem guarnição" || cart.Lines[0].Price != "8.50" {
		t.Fatalf("unexpected line %+v", cart.Lines[0])
	}
}

func TestCancelSidesLeavesCartUntouched(t *testing.T) {
	uc := newTestUseCase(testCatalog(), &fakeSubmitter{}, fakeSettings{})
	sid := uc.NewSession().SessionID

	uc.PickDish(context.Background(), sid, "bitoque", "")
	uc.ToggleFreeSide(sid, "arroz")
	cart, err := uc.CancelSides(sid)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(cart.Lines) != 0 || cart.Interaction != nil {
		t.Fatalf("expected empty cart and no selection, got %+v", cart)
	}
}

func TestEditLineKeepsLineID(t *testing.T) {
	uc := newTestUseCase(testCatalog(), &fakeSubmitter{}, fakeSettings{})
	sid := uc.NewSession().SessionID

	uc.PickDish(context.Background(), sid, "bitoque", "")
	cart, _ := uc.ConfirmSides(sid, true)
	lineID := cart.Lines[0].LineID

	if _, err := uc.PickDish(context.Background(), sid, "bitoque", lineID); err != nil {
		t.Fatalf("edit: %v", err)
	}
	uc.ToggleFreeSide(sid, "salada")
	cart, err := uc.ConfirmSides(sid, false)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(cart.Lines) != 1 || cart.Lines[0].LineID != lineID {
		t.Fatalf("expected the edited line to keep its id, got %+v", cart.Lines)
	}
	if cart.Lines[0].Note != "Bitoque: Grátis: Salada" {
		t.Fatalf("unexpected note %q", cart.Lines[0].Note)
	}

	if _, err := uc.PickDish(context.Background(), sid, "bitoque", "missing"); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected unknown line error, got %v", err)
	}
}

func TestStaleSideFetchIsDiscarded(t *testing.T) {
	catalog := testCatalog()
	catalog.started = make(chan struct{})
	catalog.release = make(chan struct{})
	uc := newTestUseCase(catalog, &fakeSubmitter{}, fakeSettings{})
	sid := uc.NewSession().SessionID

	errCh := make(chan error, 1)
	go func() {
		_, err := uc.PickDish(context.Background(), sid, "bitoque", "")
		errCh <- err
	}()

	select {
	case <-catalog.started:
	case <-time.After(time.Second):
		t.Fatal("side fetch never started")
	}

	if _, err := uc.CancelSides(sid); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	close(catalog.release)

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrInteractionStale) {
			t.Fatalf("expected stale error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("pick never returned")
	}

	cart, _ := uc.Cart(sid)
	if cart.Interaction != nil || len(cart.Lines) != 0 {
		t.Fatalf("stale fetch leaked into the session: %+v", cart)
	}
}

func TestSideFetchFailureClosesSelection(t *testing.T) {
	catalog := testCatalog()
	catalog.sidesErr = errors.New("boom")
	uc := newTestUseCase(catalog, &fakeSubmitter{}, fakeSettings{})
	sid := uc.NewSession().SessionID

	if _, err := uc.PickDish(context.Background(), sid, "bitoque", ""); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected catalog error, got %v", err)
	}
	if _, err := uc.ToggleFreeSide(sid, "arroz"); !errors.Is(err, ErrNoInteraction) {
		t.Fatalf("expected no interaction, got %v", err)
	}
}

func TestRefreshSidesSanitizesSelection(t *testing.T) {
	catalog := testCatalog()
	uc := newTestUseCase(catalog, &fakeSubmitter{}, fakeSettings{})
	sid := uc.NewSession().SessionID

	uc.PickDish(context.Background(), sid, "bitoque", "")
	uc.ToggleFreeSide(sid, "arroz")
	uc.IncrementExtra(sid, "batata")

	catalog.mu.Lock()
	catalog.sides = []domain.SideCatalogEntry{{ID: "batata", Name: "Batata frita", Active: true}}
	catalog.mu.Unlock()

	view, err := uc.RefreshSides(context.Background(), sid)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(view.Sides) != 1 || view.FreeRemaining != 2 || view.ExtrasTotal != "4.00" {
		t.Fatalf("unexpected interaction after refresh %+v", view)
	}
}

func TestAddSimpleAndStandaloneItems(t *testing.T) {
	uc := newTestUseCase(testCatalog(), &fakeSubmitter{}, fakeSettings{})
	sid := uc.NewSession().SessionID

	if _, err := uc.AddSimpleItem(sid, "dessert-mousse"); err != nil {
		t.Fatalf("dessert: %v", err)
	}
	cart, err := uc.AddStandaloneSide(context.Background(), sid, "arroz", domain.PortionHalf)
	if err != nil {
		t.Fatalf("standalone side: %v", err)
	}
	if cart.TotalPrice != "4.30" || cart.Lines[1].Name != "Arroz (1/2 dose)" {
		t.Fatalf("unexpected cart %+v", cart)
	}
	if _, err := uc.AddStandaloneSide(context.Background(), sid, "feijao", domain.PortionFull); !errors.Is(err, ErrSideNotFound) {
		t.Fatalf("expected inactive side rejected, got %v", err)
	}
	if _, err := uc.AddSimpleItem(sid, "gelado"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected unknown item, got %v", err)
	}
}

func checkoutForm() domain.CheckoutForm {
	return domain.CheckoutForm{FirstName: "Ana", LastName: "Silva", Phone: "928353342", DeliveryType: domain.DeliveryTakeaway}
}

func TestCheckoutSuccessClearsCart(t *testing.T) {
	submitter := &fakeSubmitter{}
	uc := newTestUseCase(testCatalog(), submitter, fakeSettings{})
	sid := uc.NewSession().SessionID
	uc.PickDish(context.Background(), sid, "sopa", "")
	uc.SetNotes(sid, "sem sal")

	outcome, err := uc.Checkout(context.Background(), sid, checkoutForm())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if outcome.OrderID != "order-1" || len(submitter.drafts) != 1 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if submitter.drafts[0].Observations != "sem sal" {
		t.Fatalf("unexpected observations %q", submitter.drafts[0].Observations)
	}
	cart, _ := uc.Cart(sid)
	if len(cart.Lines) != 0 || cart.ManualNotes != "" {
		t.Fatalf("expected cleared cart, got %+v", cart)
	}
}

func TestCheckoutFailuresKeepCart(t *testing.T) {
	cases := []struct {
		name      string
		submitErr error
		settings  fakeSettings
		form      func() domain.CheckoutForm
		wantErr   error
	}{
		{name: "submit failure", submitErr: errors.New("rpc down"), form: checkoutForm, wantErr: ErrSubmitFailed},
		{name: "settings failure", settings: fakeSettings{err: errors.New("timeout")}, form: checkoutForm, wantErr: ErrSettingsUnavailable},
		{
			name: "delivery disabled",
			form: func() domain.CheckoutForm {
				f := checkoutForm()
				f.DeliveryType = domain.DeliveryDelivery
				f.Address = "Rua Direita 10"
				return f
			},
			wantErr: domain.ErrDeliveryDisabled,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := newTestUseCase(testCatalog(), &fakeSubmitter{err: tc.submitErr}, tc.settings)
			sid := uc.NewSession().SessionID
			uc.PickDish(context.Background(), sid, "sopa", "")
			uc.SetNotes(sid, "sem sal")

			_, err := uc.Checkout(context.Background(), sid, tc.form())
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v got %v", tc.wantErr, err)
			}
			cart, _ := uc.Cart(sid)
			if len(cart.Lines) != 1 || cart.ManualNotes != "sem sal" {
				t.Fatalf("cart changed after failed checkout: %+v", cart)
			}
		})
	}
}

func TestQuantityUpdates(t *testing.T) {
	uc := newTestUseCase(testCatalog(), &fakeSubmitter{}, fakeSettings{})
	sid := uc.NewSession().SessionID
	outcome, _ := uc.PickDish(context.Background(), sid, "sopa", "")

	cart, err := uc.UpdateQuantity(sid, outcome.LineID, 3)
	if err != nil || cart.TotalItems != 3 {
		t.Fatalf("unexpected update result %+v %v", cart, err)
	}
	cart, _ = uc.UpdateQuantity(sid, outcome.LineID, 0)
	if len(cart.Lines) != 0 {
		t.Fatalf("expected line removed")
	}
	if _, err := uc.UpdateQuantity(sid, outcome.LineID, 2); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected missing line, got %v", err)
	}
}

func TestUnknownSession(t *testing.T) {
	uc := newTestUseCase(testCatalog(), &fakeSubmitter{}, fakeSettings{})
	if _, err := uc.Cart("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
	if _, err := uc.PickDish(context.Background(), "nope", "sopa", ""); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}

func TestMenu(t *testing.T) {
	uc := newTestUseCase(testCatalog(), &fakeSubmitter{}, fakeSettings{})
	menu, err := uc.Menu(context.Background())
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	if menu.Day != "2026-10-15" || len(menu.Dishes) != 3 || len(menu.Sides) != 3 || len(menu.Desserts) != 2 {
		t.Fatalf("unexpected menu %+v", menu)
	}
	if menu.SideHalfPrice != "3.00" || menu.SideFullPrice != "4.00" {
		t.Fatalf("unexpected side prices %s %s", menu.SideHalfPrice, menu.SideFullPrice)
	}
}

func TestSessionStoreSweep(t *testing.T) {
	store := NewSessionStore()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	idle := store.Create()
	now = now.Add(30 * time.Minute)
	active := store.Create()

	now = now.Add(40 * time.Minute)
	if removed := store.Sweep(time.Hour); removed != 1 {
		t.Fatalf("expected one idle session removed, got %d", removed)
	}
	if _, ok := store.Get(idle.ID); ok {
		t.Fatal("idle session should be gone")
	}
	if _, ok := store.Get(active.ID); !ok {
		t.Fatal("active session should remain")
	}
}

package usecase

import (
	"github.com/shopspring/decimal"

	"acapulcoWs/internal/modules/ordering/domain"
)

// PriceOnRequest is shown for lines without a price.
const PriceOnRequest = "Consultar"

type LineView struct {
	LineID    string `json:"lineId"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Priced    bool   `json:"priced"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
	Note      string `json:"note,omitempty"`
}

type SideOptionView struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Free          bool   `json:"free"`
	ExtraQuantity int    `json:"extraQuantity"`
}

type InteractionView struct {
	DishID        string           `json:"dishId"`
	DishName      string           `json:"dishName"`
	ReplaceLineID string           `json:"replaceLineId,omitempty"`
	Portion       domain.Portion   `json:"portion"`
	PortionLabel  string           `json:"portionLabel"`
	FreeCount     int              `json:"freeCount"`
	FreeRemaining int              `json:"freeRemaining"`
	UnitPrice     string           `json:"unitPrice"`
	ExtrasTotal   string           `json:"extrasTotal"`
	Sides         []SideOptionView `json:"sides"`
}

type CartView struct {
	SessionID         string           `json:"sessionId"`
	Lines             []LineView       `json:"lines"`
	TotalItems        int              `json:"totalItems"`
	TotalPrice        string           `json:"totalPrice"`
	ManualNotes       string           `json:"manualNotes"`
	FinalObservations string           `json:"finalObservations"`
	Interaction       *InteractionView `json:"interaction,omitempty"`
}

// PickOutcome reports whether a picked dish went straight to the cart or
// opened a side selection.
type PickOutcome struct {
	LineID      string           `json:"lineId,omitempty"`
	Interaction *InteractionView `json:"interaction,omitempty"`
	Cart        CartView         `json:"cart"`
}

type CheckoutOutcome struct {
	OrderID string            `json:"orderId"`
	Draft   domain.OrderDraft `json:"draft"`
}

type MenuView struct {
	Day           string                    `json:"day"`
	Dishes        []domain.Dish             `json:"dishes"`
	Sides         []domain.SideCatalogEntry `json:"sides"`
	Desserts      []domain.SimpleItem       `json:"desserts"`
	SideHalfPrice string                    `json:"sideHalfPrice"`
	SideFullPrice string                    `json:"sideFullPrice"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func buildCartView(session *Session) CartView {
	cart := session.cart
	lines := cart.Lines()
	view := CartView{
		SessionID:         session.ID,
		Lines:             make([]LineView, 0, len(lines)),
		TotalItems:        cart.TotalItems(),
		TotalPrice:        money(cart.TotalPrice()),
		ManualNotes:       cart.ManualNotes(),
		FinalObservations: cart.FinalObservations(),
	}
	for _, line := range lines {
		lv := LineView{
			LineID:    line.LineID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     PriceOnRequest,
			Priced:    line.Price.Valid,
			Quantity:  line.Quantity,
			Subtotal:  money(line.Subtotal()),
			Note:      line.Note,
		}
		if line.Price.Valid {
			lv.Price = money(line.Price.Decimal)
		}
		view.Lines = append(view.Lines, lv)
	}
	if it := session.interaction; it != nil && it.loaded {
		iv := buildInteractionView(it)
		view.Interaction = &iv
	}
	return view
}

func buildInteractionView(it *sideInteraction) InteractionView {
	sel := it.selection
	view := InteractionView{
		DishID:        it.dish.ID,
		DishName:      it.dish.Name,
		ReplaceLineID: it.replaceLineID,
		Portion:       sel.Portion(),
		PortionLabel:  sel.PortionLabel(),
		FreeCount:     sel.FreeCount(),
		FreeRemaining: sel.FreeRemaining(),
		UnitPrice:     money(sel.UnitPrice()),
		ExtrasTotal:   money(sel.ExtrasTotal()),
		Sides:         make([]SideOptionView, 0, len(it.catalog)),
	}
	for _, side := range it.catalog {
		view.Sides = append(view.Sides, SideOptionView{
			ID:            side.ID,
			Name:          side.Name,
			Free:          sel.IsFree(side.ID),
			ExtraQuantity: sel.ExtraQuantity(side.ID),
		})
	}
	return view
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SimpleItem is a fixed-price product added to the cart as is (desserts, drinks).
type SimpleItem struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Note  string          `json:"note,omitempty"`
}

// DisplayName is the cart line name, carrying the note when there is one.
func (i SimpleItem) DisplayName() string {
	if i.Note == "" {
		return i.Name
	}
	return i.Name + " — " + i.Note
}

// LineInput converts the item into a single-unit cart line.
func (i SimpleItem) LineInput() AddLineInput {
	return AddLineInput{
		ProductID: i.ID,
		Name:      i.DisplayName(),
		Price:     decimal.NewNullDecimal(i.Price),
		Quantity:  1,
	}
}

// DefaultDesserts is the fixed dessert list offered with the daily menu.
func DefaultDesserts() []SimpleItem {
	return []SimpleItem{
		{ID: "dessert-mousse", Name: "Mousse de chocolate", Price: decimal.RequireFromString("1.30")},
		{
			ID:    "dessert-fatia-bolo",
			Name:  "Fatia de bolo",
			Price: decimal.RequireFromString("1.90"),
			Note:  "Opções: cheesecake, bolo bolacha c/ leite condensado",
		},
	}
}

// FindSimpleItem looks an item up by ID.
func FindSimpleItem(items []SimpleItem, id string) (SimpleItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return SimpleItem{}, false
}

// StandaloneSideLine builds the cart line for a side bought on its own,
// priced like an extra of the requested portion.
func StandaloneSideLine(side SideCatalogEntry, portion Portion, prices ExtraPrices) AddLineInput {
	if portion != PortionHalf {
		portion = PortionFull
	}
	return AddLineInput{
		ProductID: fmt.Sprintf("side-avulso-%s-%s", side.ID, portion),
		Name:      fmt.Sprintf("%s (%s)", side.Name, portion.Label()),
		Price:     decimal.NewNullDecimal(prices.For(portion)),
		Quantity:  1,
	}
}

// DishLine builds the cart line for a dish with its confirmed sides. The line
// price adds the extras to the dish price; an unpriced dish stays unpriced.
func DishLine(dish Dish, note string, extrasTotal decimal.Decimal, replaceLineID string) AddLineInput {
	linePrice := dish.Price
	if linePrice.Valid {
		linePrice = decimal.NewNullDecimal(dish.Price.Decimal.Add(extrasTotal))
	}
	return AddLineInput{
		ProductID:     dish.ID,
		Name:          dish.Name,
		Price:         linePrice,
		Quantity:      1,
		Note:          note,
		ReplaceLineID: replaceLineID,
	}
}

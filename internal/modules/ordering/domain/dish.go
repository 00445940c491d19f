package domain

import "github.com/shopspring/decimal"

// DefaultSidesFreeCount is applied when a dish does not say how many sides come free.
const DefaultSidesFreeCount = 2

// Dish is a menu entry offered on a business day.
type Dish struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description,omitempty"`
	Price          decimal.NullDecimal `json:"price"`
	SidesEnabled   bool                `json:"sidesEnabled"`
	SidesFreeCount int                 `json:"sidesFreeCount"`
	Portion        Portion             `json:"portion"`
}

// FreeCount returns the number of free sides, defaulting when unset or negative.
func (d Dish) FreeCount() int {
	if d.SidesFreeCount < 0 {
		return DefaultSidesFreeCount
	}
	return d.SidesFreeCount
}

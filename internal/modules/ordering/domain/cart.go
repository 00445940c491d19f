package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one purchased item. Lines are never merged by product.
type CartLine struct {
	LineID    string              `json:"lineId"`
	ProductID string              `json:"productId"`
	Name      string              `json:"name"`
	Price     decimal.NullDecimal `json:"price"`
	Quantity  int                 `json:"quantity"`
	Note      string              `json:"note,omitempty"`
}

// Subtotal is price times quantity; an absent price counts as zero.
func (l CartLine) Subtotal() decimal.Decimal {
	if !l.Price.Valid {
		return decimal.Zero
	}
	return l.Price.Decimal.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AddLineInput describes a line to add, or to overwrite when ReplaceLineID is set.
type AddLineInput struct {
	ProductID     string
	Name          string
	Price         decimal.NullDecimal
	Quantity      int
	Note          string
	ReplaceLineID string
}

// Cart is the ordered ledger of a single ordering session. It is not safe for
// concurrent use; the owning session serializes access.
type Cart struct {
	lines       []CartLine
	manualNotes string
	newLineID   func() string
}

// NewCart returns an empty cart issuing random line IDs.
func NewCart() *Cart {
	return &Cart{newLineID: uuid.NewString}
}

// NewCartWithLineIDs returns an empty cart using gen for line IDs.
func NewCartWithLineIDs(gen func() string) *Cart {
	return &Cart{newLineID: gen}
}

// AddLine appends a new line and returns its ID. When ReplaceLineID names an
// existing line, that line is overwritten in place and keeps its ID; an unknown
// ReplaceLineID leaves the cart untouched and returns "".
func (c *Cart) AddLine(in AddLineInput) string {
	qty := in.Quantity
	if qty <= 0 {
		qty = 1
	}
	line := CartLine{
		ProductID: in.ProductID,
		Name:      in.Name,
		Price:     in.Price,
		Quantity:  qty,
		Note:      in.Note,
	}

	if in.ReplaceLineID != "" {
		idx := c.indexOf(in.ReplaceLineID)
		if idx < 0 {
			return ""
		}
		line.LineID = in.ReplaceLineID
		c.lines[idx] = line
		return line.LineID
	}

	line.LineID = c.nextLineID()
	c.lines = append(c.lines, line)
	return line.LineID
}

// UpdateQuantity sets a line quantity; zero or less removes the line.
func (c *Cart) UpdateQuantity(lineID string, quantity int) {
	if quantity <= 0 {
		c.RemoveLine(lineID)
		return
	}
	if idx := c.indexOf(lineID); idx >= 0 {
		c.lines[idx].Quantity = quantity
	}
}

// RemoveLine deletes a line; unknown IDs are ignored.
func (c *Cart) RemoveLine(lineID string) {
	if idx := c.indexOf(lineID); idx >= 0 {
		c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	}
}

// Clear empties the cart and the customer's notes.
func (c *Cart) Clear() {
	c.lines = nil
	c.manualNotes = ""
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []CartLine {
	return append([]CartLine(nil), c.lines...)
}

// Line looks up a line by ID.
func (c *Cart) Line(lineID string) (CartLine, bool) {
	if idx := c.indexOf(lineID); idx >= 0 {
		return c.lines[idx], true
	}
	return CartLine{}, false
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// TotalItems sums quantities over all lines.
func (c *Cart) TotalItems() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice sums line subtotals.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (c *Cart) SetManualNotes(notes string) { c.manualNotes = notes }

func (c *Cart) ManualNotes() string { return c.manualNotes }

// FinalObservations composes the customer's notes with every line note.
func (c *Cart) FinalObservations() string {
	return ComposeObservations(c.manualNotes, c.lines)
}

func (c *Cart) indexOf(lineID string) int {
	if lineID == "" {
		return -1
	}
	for i, line := range c.lines {
		if line.LineID == lineID {
			return i
		}
	}
	return -1
}

func (c *Cart) nextLineID() string {
	if c.newLineID == nil {
		c.newLineID = uuid.NewString
	}
	return c.newLineID()
}

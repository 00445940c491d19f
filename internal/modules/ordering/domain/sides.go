package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ExtraPrices holds the unit price of a paid side portion for each dish size.
type ExtraPrices struct {
	Half decimal.Decimal
	Full decimal.Decimal
}

// DefaultExtraPrices charges 3 for a half portion and 4 for a full one.
func DefaultExtraPrices() ExtraPrices {
	return ExtraPrices{Half: decimal.NewFromInt(3), Full: decimal.NewFromInt(4)}
}

// For returns the unit price matching portion.
func (p ExtraPrices) For(portion Portion) decimal.Decimal {
	if portion == PortionHalf {
		return p.Half
	}
	return p.Full
}

// SideCatalogEntry is one side dish of the day's catalog.
type SideCatalogEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// SideExtra is a paid side portion attached to a dish.
type SideExtra struct {
	SideID   string  `json:"sideId"`
	Size     Portion `json:"size"`
	Quantity int     `json:"quantity"`
}

// SideSelectionResult is the confirmed outcome of a side interaction.
type SideSelectionResult struct {
	FreeSideIDs []string    `json:"freeSideIds"`
	Extras      []SideExtra `json:"extras"`
}

// IsEmpty reports the explicit "no sides" outcome.
func (r SideSelectionResult) IsEmpty() bool {
	return len(r.FreeSideIDs) == 0 && len(r.Extras) == 0
}

// SideSelection tracks free and paid sides chosen for a single dish purchase.
// Limits are soft: toggling past the free ceiling or decrementing below zero
// leaves the state untouched.
type SideSelection struct {
	portion    Portion
	freeCount  int
	prices     ExtraPrices
	free       []string
	extras     map[string]int
	extraOrder []string
}

// NewSideSelection builds an initialized selection.
func NewSideSelection(portion Portion, freeCount int, prices ExtraPrices) *SideSelection {
	s := &SideSelection{}
	s.Initialize(portion, freeCount, prices)
	return s
}

// Initialize resets the selection for a (possibly different) dish.
func (s *SideSelection) Initialize(portion Portion, freeCount int, prices ExtraPrices) {
	if portion != PortionHalf {
		portion = PortionFull
	}
	if freeCount < 0 {
		freeCount = 0
	}
	s.portion = portion
	s.freeCount = freeCount
	s.prices = prices
	s.free = nil
	s.extras = make(map[string]int)
	s.extraOrder = nil
}

// Portion returns the dish portion governing every extra.
func (s *SideSelection) Portion() Portion { return s.portion }

// FreeCount returns the free-side allowance.
func (s *SideSelection) FreeCount() int { return s.freeCount }

// FreeSelected returns the free side IDs in selection order.
func (s *SideSelection) FreeSelected() []string {
	return append([]string(nil), s.free...)
}

// IsFree reports whether sideID is currently selected as free.
func (s *SideSelection) IsFree(sideID string) bool {
	return s.freeIndex(sideID) >= 0
}

// ExtraQuantity returns the paid quantity for sideID.
func (s *SideSelection) ExtraQuantity(sideID string) int {
	return s.extras[sideID]
}

// FreeRemaining returns how many free slots are still open.
func (s *SideSelection) FreeRemaining() int {
	return max(0, s.freeCount-len(s.free))
}

// UnitPrice returns the price of one extra portion for this dish.
func (s *SideSelection) UnitPrice() decimal.Decimal {
	return s.prices.For(s.portion)
}

// PortionLabel returns the label shown next to every extra.
func (s *SideSelection) PortionLabel() string {
	return s.portion.Label()
}

// ToggleFree deselects sideID when selected, otherwise selects it while slots remain.
func (s *SideSelection) ToggleFree(sideID string) {
	if sideID == "" {
		return
	}
	if idx := s.freeIndex(sideID); idx >= 0 {
		s.free = append(s.free[:idx], s.free[idx+1:]...)
		return
	}
	if len(s.free) >= s.freeCount {
		return
	}
	s.free = append(s.free, sideID)
}

// IncrementExtra adds one paid portion of sideID.
func (s *SideSelection) IncrementExtra(sideID string) {
	if sideID == "" {
		return
	}
	if _, seen := s.extras[sideID]; !seen {
		s.extraOrder = append(s.extraOrder, sideID)
	}
	s.extras[sideID]++
}

// DecrementExtra removes one paid portion of sideID, never going below zero.
func (s *SideSelection) DecrementExtra(sideID string) {
	if s.extras[sideID] <= 0 {
		return
	}
	s.extras[sideID]--
}

// Sanitize drops every free or extra side that is no longer in activeIDs,
// together with extras whose quantity fell to zero.
func (s *SideSelection) Sanitize(activeIDs map[string]struct{}) {
	free := s.free[:0]
	for _, id := range s.free {
		if _, ok := activeIDs[id]; ok {
			free = append(free, id)
		}
	}
	s.free = free

	order := s.extraOrder[:0]
	for _, id := range s.extraOrder {
		_, active := activeIDs[id]
		if !active || s.extras[id] <= 0 {
			delete(s.extras, id)
			continue
		}
		order = append(order, id)
	}
	s.extraOrder = order
}

// ExtrasTotal sums quantity times unit price over every positive extra.
func (s *SideSelection) ExtrasTotal() decimal.Decimal {
	total := decimal.Zero
	unit := s.UnitPrice()
	for _, qty := range s.extras {
		if qty <= 0 {
			continue
		}
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total
}

// Confirm snapshots the selection. Every extra carries the dish portion and
// zero quantities are left out.
func (s *SideSelection) Confirm() SideSelectionResult {
	result := SideSelectionResult{
		FreeSideIDs: append([]string{}, s.free...),
		Extras:      make([]SideExtra, 0, len(s.extraOrder)),
	}
	for _, id := range s.extraOrder {
		qty := s.extras[id]
		if qty <= 0 {
			continue
		}
		result.Extras = append(result.Extras, SideExtra{SideID: id, Size: s.portion, Quantity: qty})
	}
	return result
}

// NoSides is the explicit "no sides wanted" result.
func NoSides() SideSelectionResult {
	return SideSelectionResult{FreeSideIDs: []string{}, Extras: []SideExtra{}}
}

func (s *SideSelection) freeIndex(sideID string) int {
	for i, id := range s.free {
		if id == sideID {
			return i
		}
	}
	return -1
}

// ActiveSideIDs indexes the active entries of a catalog.
func ActiveSideIDs(catalog []SideCatalogEntry) map[string]struct{} {
	ids := make(map[string]struct{}, len(catalog))
	for _, entry := range catalog {
		if entry.Active {
			ids[entry.ID] = struct{}{}
		}
	}
	return ids
}

// VisibleSides returns the active entries ordered by name, ignoring case and accents.
func VisibleSides(catalog []SideCatalogEntry) []SideCatalogEntry {
	visible := make([]SideCatalogEntry, 0, len(catalog))
	for _, entry := range catalog {
		if entry.Active {
			visible = append(visible, entry)
		}
	}
	col := collate.New(language.EuropeanPortuguese, collate.IgnoreCase, collate.IgnoreDiacritics)
	sort.SliceStable(visible, func(i, j int) bool {
		return col.CompareString(visible[i].Name, visible[j].Name) < 0
	})
	return visible
}

// SideNames indexes catalog names by side ID.
func SideNames(catalog []SideCatalogEntry) map[string]string {
	names := make(map[string]string, len(catalog))
	for _, entry := range catalog {
		names[entry.ID] = entry.Name
	}
	return names
}

// FormatSidesObservation renders the line note describing a confirmed selection.
func FormatSidesObservation(dishName string, namesByID map[string]string, result SideSelectionResult) string {
	freeNames := make([]string, 0, len(result.FreeSideIDs))
	for _, id := range result.FreeSideIDs {
		if name := namesByID[id]; name != "" {
			freeNames = append(freeNames, name)
		}
	}

	extraParts := make([]string, 0, len(result.Extras))
	for _, extra := range result.Extras {
		if extra.Quantity <= 0 {
			continue
		}
		name := namesByID[extra.SideID]
		if name == "" {
			name = "Acomp"
		}
		extraParts = append(extraParts, fmt.Sprintf("%s (%s) x%d", name, extra.Size.Label(), extra.Quantity))
	}

	if len(freeNames) == 0 && len(extraParts) == 0 {
		return dishName + ": sem guarnição"
	}

	blocks := make([]string, 0, 2)
	if len(freeNames) > 0 {
		blocks = append(blocks, "Grátis: "+strings.Join(freeNames, ", "))
	}
	if len(extraParts) > 0 {
		blocks = append(blocks, "Extras: "+strings.Join(extraParts, " | "))
	}
	return dishName + ": " + strings.Join(blocks, " | ")
}

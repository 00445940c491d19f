package domain

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToggleFreeRespectsCeiling(t *testing.T) {
	sel := NewSideSelection(PortionFull, 2, DefaultExtraPrices())

	steps := []string{"rice", "fries", "salad", "rice", "salad", "fries", "beans", "beans"}
	for _, id := range steps {
		sel.ToggleFree(id)
		if len(sel.FreeSelected()) > sel.FreeCount() {
			t.Fatalf("free selection %v exceeds ceiling %d", sel.FreeSelected(), sel.FreeCount())
		}
	}

	want := []string{"salad"}
	if got := sel.FreeSelected(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v got %v", want, got)
	}
	if sel.FreeRemaining() != 1 {
		t.Fatalf("expected one free slot left, got %d", sel.FreeRemaining())
	}
}

func TestToggleFreeAtCeilingIsSilent(t *testing.T) {
	sel := NewSideSelection(PortionHalf, 1, DefaultExtraPrices())
	sel.ToggleFree("rice")
	sel.ToggleFree("fries")

	if !sel.IsFree("rice") || sel.IsFree("fries") {
		t.Fatalf("expected only rice selected, got %v", sel.FreeSelected())
	}
}

func TestZeroFreeCountNeverSelects(t *testing.T) {
	sel := NewSideSelection(PortionFull, 0, DefaultExtraPrices())
	sel.ToggleFree("rice")
	if len(sel.FreeSelected()) != 0 {
		t.Fatalf("expected no free sides, got %v", sel.FreeSelected())
	}
}

func TestExtrasNeverNegative(t *testing.T) {
	sel := NewSideSelection(PortionFull, 2, DefaultExtraPrices())
	ops := []int{-1, -1, 1, -1, -1, 1, 1, -1}
	for _, op := range ops {
		if op > 0 {
			sel.IncrementExtra("rice")
		} else {
			sel.DecrementExtra("rice")
		}
		if sel.ExtraQuantity("rice") < 0 {
			t.Fatalf("extra quantity went negative")
		}
	}
	if sel.ExtraQuantity("rice") != 1 {
		t.Fatalf("expected quantity 1, got %d", sel.ExtraQuantity("rice"))
	}
}

func TestExtrasTotal(t *testing.T) {
	cases := []struct {
		name     string
		portion  Portion
		extras   map[string]int
		expected string
	}{
		{name: "half portion two extras", portion: PortionHalf, extras: map[string]int{"rice": 2}, expected: "6"},
		{name: "full portion mixed", portion: PortionFull, extras: map[string]int{"rice": 1, "fries": 2}, expected: "12"},
		{name: "none", portion: PortionHalf, extras: nil, expected: "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sel := NewSideSelection(tc.portion, 2, DefaultExtraPrices())
			for id, qty := range tc.extras {
				for i := 0; i < qty; i++ {
					sel.IncrementExtra(id)
				}
			}
			if got := sel.ExtrasTotal(); !got.Equal(decimal.RequireFromString(tc.expected)) {
				t.Fatalf("expected %s got %s", tc.expected, got)
			}
		})
	}
}

func TestUnitPriceAndLabelFollowPortion(t *testing.T) {
	prices := ExtraPrices{Half: decimal.RequireFromString("2.5"), Full: decimal.RequireFromString("3.5")}

	half := NewSideSelection(PortionHalf, 2, prices)
	if !half.UnitPrice().Equal(prices.Half) || half.PortionLabel() != "1/2 dose" {
		t.Fatalf("unexpected half pricing %s %q", half.UnitPrice(), half.PortionLabel())
	}
	full := NewSideSelection(PortionFull, 2, prices)
	if !full.UnitPrice().Equal(prices.Full) || full.PortionLabel() != "1 dose" {
		t.Fatalf("unexpected full pricing %s %q", full.UnitPrice(), full.PortionLabel())
	}
}

func TestConfirmSnapshotsSelection(t *testing.T) {
	sel := NewSideSelection(PortionHalf, 2, DefaultExtraPrices())
	sel.ToggleFree("rice")
	sel.IncrementExtra("fries")
	sel.IncrementExtra("salad")
	sel.IncrementExtra("fries")
	sel.IncrementExtra("beans")
	sel.DecrementExtra("beans")

	got := sel.Confirm()
	want := SideSelectionResult{
		FreeSideIDs: []string{"rice"},
		Extras: []SideExtra{
			{SideID: "fries", Size: PortionHalf, Quantity: 2},
			{SideID: "salad", Size: PortionHalf, Quantity: 1},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v got %+v", want, got)
	}

	sel.ToggleFree("rice")
	if len(got.FreeSideIDs) != 1 {
		t.Fatalf("confirmed result must not alias the live selection")
	}
}

func TestNoSidesIsEmptyResult(t *testing.T) {
	if !NoSides().IsEmpty() {
		t.Fatal("expected empty result")
	}
	sel := NewSideSelection(PortionFull, 2, DefaultExtraPrices())
	if !sel.Confirm().IsEmpty() {
		t.Fatal("untouched selection should confirm empty")
	}
}

func TestInitializeResetsState(t *testing.T) {
	sel := NewSideSelection(PortionFull, 2, DefaultExtraPrices())
	sel.ToggleFree("rice")
	sel.IncrementExtra("fries")

	sel.Initialize(PortionHalf, 1, DefaultExtraPrices())
	if len(sel.FreeSelected()) != 0 || sel.ExtraQuantity("fries") != 0 {
		t.Fatalf("expected reset selection, got free=%v", sel.FreeSelected())
	}
	if sel.Portion() != PortionHalf || sel.FreeCount() != 1 {
		t.Fatalf("unexpected dish parameters %s %d", sel.Portion(), sel.FreeCount())
	}
}

func TestSanitizeDropsInactiveSides(t *testing.T) {
	sel := NewSideSelection(PortionFull, 2, DefaultExtraPrices())
	sel.ToggleFree("rice")
	sel.ToggleFree("fries")
	sel.IncrementExtra("salad")
	sel.IncrementExtra("beans")
	sel.IncrementExtra("corn")
	sel.DecrementExtra("corn")

	sel.Sanitize(map[string]struct{}{"rice": {}, "beans": {}, "corn": {}})

	if want := []string{"rice"}; !reflect.DeepEqual(sel.FreeSelected(), want) {
		t.Fatalf("expected free %v got %v", want, sel.FreeSelected())
	}
	if sel.ExtraQuantity("salad") != 0 || sel.ExtraQuantity("beans") != 1 {
		t.Fatalf("unexpected extras after sanitize")
	}
	result := sel.Confirm()
	if len(result.Extras) != 1 || result.Extras[0].SideID != "beans" {
		t.Fatalf("unexpected confirmed extras %+v", result.Extras)
	}
	if !sel.ExtrasTotal().Equal(decimal.NewFromInt(4)) {
		t.Fatalf("unexpected extras total %s", sel.ExtrasTotal())
	}
}

func TestVisibleSides(t *testing.T) {
	catalog := []SideCatalogEntry{
		{ID: "3", Name: "salada", Active: true},
		{ID: "1", Name: "Arroz", Active: true},
		{ID: "4", Name: "Batata frita", Active: false},
		{ID: "2", Name: "Ébola de feijão", Active: true},
		{ID: "5", Name: "batata cozida", Active: true},
	}

	var got []string
	for _, entry := range VisibleSides(catalog) {
		got = append(got, entry.ID)
	}
	want := []string{"1", "5", "2", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected order %v got %v", want, got)
	}
}

func TestFormatSidesObservation(t *testing.T) {
	names := map[string]string{"r": "Arroz", "f": "Batata frita", "s": "Salada"}

	cases := []struct {
		name     string
		result   SideSelectionResult
		expected string
	}{
		{
			name:     "no sides",
			result:   NoSides(),
			expected: "Bitoque: sem guarnição",
		},
		{
			name:     "free only",
			result:   SideSelectionResult{FreeSideIDs: []string{"r", "s"}},
			expected: "Bitoque: Grátis: Arroz, Salada",
		},
		{
			name: "free and extras",
			result: SideSelectionResult{
				FreeSideIDs: []string{"r"},
				Extras: []SideExtra{
					{SideID: "f", Size: PortionHalf, Quantity: 2},
					{SideID: "s", Size: PortionHalf, Quantity: 1},
				},
			},
			expected: "Bitoque: Grátis: Arroz | Extras: Batata frita (1/2 dose) x2 | Salada (1/2 dose) x1",
		},
		{
			name:     "unknown extra name",
			result:   SideSelectionResult{Extras: []SideExtra{{SideID: "x", Size: PortionFull, Quantity: 1}}},
			expected: "Bitoque: Extras: Acomp (1 dose) x1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatSidesObservation("Bitoque", names, tc.result); got != tc.expected {
				t.Fatalf("expected %q got %q", tc.expected, got)
			}
		})
	}
}

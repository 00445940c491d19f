package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	"acapulcoWs/internal/shared/normalization"
)

// DailyGroup is the section of the daily board a dish is listed under.
type DailyGroup string

const (
	GroupVariados        DailyGroup = "variados"
	GroupPeixe           DailyGroup = "peixe"
	GroupCarne           DailyGroup = "carne"
	GroupGrelhados       DailyGroup = "grelhados"
	GroupAcompanhamentos DailyGroup = "acompanhamentos"
)

// AllGroups lists the groups in board order.
var AllGroups = []DailyGroup{GroupVariados, GroupPeixe, GroupCarne, GroupGrelhados, GroupAcompanhamentos}

// StorefrontGroups are the groups customers can order from.
var StorefrontGroups = []DailyGroup{GroupPeixe, GroupCarne, GroupGrelhados}

func ParseDailyGroup(raw string) (DailyGroup, bool) {
	candidate := DailyGroup(strings.ToLower(strings.TrimSpace(raw)))
	for _, g := range AllGroups {
		if g == candidate {
			return g, true
		}
	}
	return "", false
}

func (g DailyGroup) OnStorefront() bool {
	for _, sg := range StorefrontGroups {
		if sg == g {
			return true
		}
	}
	return false
}

// MenuItem is a dish of the permanent menu. A nil SidesFreeCount means the
// dish relies on the house default.
type MenuItem struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Description    string              `json:"description,omitempty"`
	Category       string              `json:"category,omitempty"`
	Price          decimal.NullDecimal `json:"price"`
	ImageURL       string              `json:"imageUrl,omitempty"`
	Active         bool                `json:"active"`
	SortOrder      int                 `json:"sortOrder"`
	SidesEnabled   bool                `json:"sidesEnabled"`
	SidesFreeCount *int                `json:"sidesFreeCount,omitempty"`
	PortionType    string              `json:"portionType,omitempty"`
}

// DailyEntry places a menu item on a day's board.
type DailyEntry struct {
	Day   string     `json:"day"`
	Group DailyGroup `json:"group"`
	Item  MenuItem   `json:"item"`
}

type SideItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// SidesRule is the per-dish side configuration edited by the admin.
type SidesRule struct {
	Enabled   bool
	FreeCount *int
}

// NormalizeMenuItem builds a MenuItem from a loosely typed row. Prices that are
// not numbers become "price on request", and sides_enabled accepts the usual
// textual and numeric booleans.
func NormalizeMenuItem(raw map[string]any) (MenuItem, bool) {
	if raw == nil {
		return MenuItem{}, false
	}
	id := normalization.AsString(raw["id"])
	if id == "" {
		return MenuItem{}, false
	}
	item := MenuItem{
		ID:          id,
		Name:        normalization.AsString(raw["name"]),
		Description: normalization.AsString(raw["description"]),
		Category:    normalization.AsString(raw["category"]),
		Price:       normalization.AsNullDecimal(raw["price"]),
		ImageURL:    normalization.AsString(raw["image_url"]),
		Active:      true,
		SortOrder:   normalization.AsInt(raw["sort_order"]),
		PortionType: strings.ToLower(normalization.AsString(raw["portion_type"])),
	}
	if active, ok := normalization.AsBool(raw["active"]); ok {
		item.Active = active
	}
	if enabled, ok := normalization.AsBool(raw["sides_enabled"]); ok {
		item.SidesEnabled = enabled
	}
	if n, ok := normalization.AsOptionalInt(raw["sides_free_count"]); ok {
		item.SidesFreeCount = &n
	}
	return item, true
}

// NormalizeDailyEntry reads a daily_menu row whose menu_items relation may be
// embedded as an object or a single-element array.
func NormalizeDailyEntry(raw map[string]any) (DailyEntry, bool) {
	if raw == nil {
		return DailyEntry{}, false
	}
	group, ok := ParseDailyGroup(normalization.AsString(raw["group_key"]))
	if !ok {
		return DailyEntry{}, false
	}
	item, ok := NormalizeMenuItem(normalization.FirstMap(raw["menu_items"]))
	if !ok {
		return DailyEntry{}, false
	}
	return DailyEntry{
		Day:   normalization.AsString(raw["day"]),
		Group: group,
		Item:  item,
	}, true
}

// NormalizeSideItem reads a side_items row, also accepting it nested under
// "side_items" as daily_sides joins return it.
func NormalizeSideItem(raw map[string]any) (SideItem, bool) {
	if nested := normalization.FirstMap(raw["side_items"]); nested != nil {
		raw = nested
	}
	if raw == nil {
		return SideItem{}, false
	}
	id := normalization.AsString(raw["id"])
	if id == "" {
		return SideItem{}, false
	}
	side := SideItem{ID: id, Name: normalization.AsString(raw["name"]), Active: true}
	if active, ok := normalization.AsBool(raw["active"]); ok {
		side.Active = active
	}
	return side, true
}

// GroupEntries buckets entries by group, keeping every group key present.
func GroupEntries(entries []DailyEntry) map[DailyGroup][]DailyEntry {
	grouped := make(map[DailyGroup][]DailyEntry, len(AllGroups))
	for _, g := range AllGroups {
		grouped[g] = []DailyEntry{}
	}
	for _, e := range entries {
		grouped[e.Group] = append(grouped[e.Group], e)
	}
	return grouped
}

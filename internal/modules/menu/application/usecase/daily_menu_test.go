package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"acapulcoWs/internal/modules/menu/application/port"
	"acapulcoWs/internal/modules/menu/domain"
	ordering "acapulcoWs/internal/modules/ordering/domain"
)

type fakeRepo struct {
	items     map[string]domain.MenuItem
	daily     map[string]map[domain.DailyGroup][]string
	sides     map[string]domain.SideItem
	dailySide map[string][]string
	template  []string
	failWith  error
	replaced  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		items:     map[string]domain.MenuItem{},
		daily:     map[string]map[domain.DailyGroup][]string{},
		sides:     map[string]domain.SideItem{},
		dailySide: map[string][]string{},
	}
}

func (r *fakeRepo) DailyMenu(_ context.Context, day string) ([]domain.DailyEntry, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []domain.DailyEntry
	for _, group := range domain.AllGroups {
		for _, id := range r.daily[day][group] {
			out = append(out, domain.DailyEntry{Day: day, Group: group, Item: r.items[id]})
		}
	}
	return out, nil
}

func (r *fakeRepo) DailySides(_ context.Context, day string) ([]domain.SideItem, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var out []domain.SideItem
	for _, id := range r.dailySide[day] {
		out = append(out, r.sides[id])
	}
	return out, nil
}

func (r *fakeRepo) ListMenuItems(context.Context, bool) ([]domain.MenuItem, error) {
	out := make([]domain.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	return out, r.failWith
}

func (r *fakeRepo) ReplaceDailyGroup(_ context.Context, day string, group domain.DailyGroup, ids []string) error {
	if r.failWith != nil {
		return r.failWith
	}
	if r.daily[day] == nil {
		r.daily[day] = map[domain.DailyGroup][]string{}
	}
	r.daily[day][group] = ids
	r.replaced++
	return nil
}

func (r *fakeRepo) UpdateSidesRule(_ context.Context, id string, rule domain.SidesRule) error {
	item := r.items[id]
	item.SidesEnabled = rule.Enabled
	item.SidesFreeCount = rule.FreeCount
	r.items[id] = item
	return r.failWith
}

func (r *fakeRepo) ListSides(context.Context) ([]domain.SideItem, error) {
	out := make([]domain.SideItem, 0, len(r.sides))
	for _, s := range r.sides {
		out = append(out, s)
	}
	return out, r.failWith
}

func (r *fakeRepo) ReplaceDailySides(_ context.Context, day string, ids []string) error {
	r.dailySide[day] = ids
	return r.failWith
}

func (r *fakeRepo) TemplateSideIDs(context.Context) ([]string, error) {
	return r.template, r.failWith
}

func (r *fakeRepo) ReplaceTemplateSides(_ context.Context, ids []string) error {
	r.template = ids
	return r.failWith
}

var _ port.Repository = (*fakeRepo)(nil)

func seededRepo() *fakeRepo {
	repo := newFakeRepo()
	two := 2
	repo.items["dourada"] = domain.MenuItem{ID: "dourada", Name: "1/2 Dourada", Price: decimal.NewNullDecimal(decimal.RequireFromString("9")), Active: true, SidesEnabled: true}
	repo.items["bitoque"] = domain.MenuItem{ID: "bitoque", Name: "Bitoque", Active: true, SidesFreeCount: &two, PortionType: "full"}
	repo.items["sopa"] = domain.MenuItem{ID: "sopa", Name: "Sopa", Active: true}
	repo.items["retirado"] = domain.MenuItem{ID: "retirado", Name: "Retirado", Active: false}
	repo.daily["2026-10-15"] = map[domain.DailyGroup][]string{
		domain.GroupPeixe:    {"dourada"},
		domain.GroupCarne:    {"bitoque", "retirado"},
		domain.GroupVariados: {"sopa"},
	}
	repo.sides["arroz"] = domain.SideItem{ID: "arroz", Name: "Arroz", Active: true}
	repo.sides["salada"] = domain.SideItem{ID: "salada", Name: "Salada", Active: false}
	return repo
}

func TestStorefrontCatalogFiltersGroupsAndInactive(t *testing.T) {
	catalog := NewStorefrontCatalog(seededRepo())

	dishes, err := catalog.FetchDailyDishes(context.Background(), "2026-10-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dishes) != 2 {
		t.Fatalf("expected 2 dishes, got %+v", dishes)
	}
	if dishes[0].ID != "dourada" || dishes[0].Portion != ordering.PortionHalf {
		t.Fatalf("expected half dourada first, got %+v", dishes[0])
	}
	if dishes[0].SidesFreeCount != ordering.DefaultSidesFreeCount {
		t.Fatalf("expected default free count, got %d", dishes[0].SidesFreeCount)
	}
	if dishes[1].ID != "bitoque" || dishes[1].Portion != ordering.PortionFull || dishes[1].Price.Valid {
		t.Fatalf("unexpected second dish %+v", dishes[1])
	}
}

func TestStorefrontCatalogWrapsFailures(t *testing.T) {
	repo := seededRepo()
	repo.failWith = errors.New("boom")
	_, err := NewStorefrontCatalog(repo).FetchActiveSides(context.Background(), "2026-10-15")
	if !errors.Is(err, port.ErrMenuUnavailable) {
		t.Fatalf("expected ErrMenuUnavailable, got %v", err)
	}
}

func TestCopyDayOverwritesEveryGroup(t *testing.T) {
	repo := seededRepo()
	repo.daily["2026-10-16"] = map[domain.DailyGroup][]string{domain.GroupGrelhados: {"sopa"}}
	uc := NewDailyMenuUseCase(repo)

	if err := uc.CopyDay(context.Background(), "2026-10-15", "2026-10-16"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.replaced != len(domain.AllGroups) {
		t.Fatalf("expected every group replaced, got %d", repo.replaced)
	}
	target := repo.daily["2026-10-16"]
	if len(target[domain.GroupGrelhados]) != 0 {
		t.Fatalf("expected grelhados cleared, got %v", target[domain.GroupGrelhados])
	}
	if len(target[domain.GroupCarne]) != 2 {
		t.Fatalf("expected carne copied, got %v", target[domain.GroupCarne])
	}
}

func TestCopyDayRejectsSameDay(t *testing.T) {
	uc := NewDailyMenuUseCase(seededRepo())
	if err := uc.CopyDay(context.Background(), "2026-10-15", "2026-10-15"); !errors.Is(err, ErrSameDay) {
		t.Fatalf("expected ErrSameDay, got %v", err)
	}
}

func TestSetDailyGroupValidates(t *testing.T) {
	uc := NewDailyMenuUseCase(seededRepo())
	cases := []struct {
		name  string
		day   string
		group domain.DailyGroup
		want  error
	}{
		{name: "bad day", day: "15-10-2026", group: domain.GroupPeixe, want: ErrInvalidDay},
		{name: "bad group", day: "2026-10-15", group: "sobremesas", want: ErrInvalidGroup},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := uc.SetDailyGroup(context.Background(), tc.day, tc.group, []string{"x"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSetDailyGroupDeduplicates(t *testing.T) {
	repo := seededRepo()
	uc := NewDailyMenuUseCase(repo)
	if err := uc.SetDailyGroup(context.Background(), "2026-10-17", domain.GroupPeixe, []string{"a", " a ", "", "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := repo.daily["2026-10-17"][domain.GroupPeixe]
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected ids %v", got)
	}
}

func TestSetSidesRuleRejectsNegative(t *testing.T) {
	uc := NewDailyMenuUseCase(seededRepo())
	neg := -1
	if err := uc.SetSidesRule(context.Background(), "bitoque", domain.SidesRule{Enabled: true, FreeCount: &neg}); !errors.Is(err, ErrInvalidFreeCount) {
		t.Fatalf("expected ErrInvalidFreeCount, got %v", err)
	}
	if err := uc.SetSidesRule(context.Background(), " ", domain.SidesRule{}); !errors.Is(err, ErrItemRequired) {
		t.Fatalf("expected ErrItemRequired, got %v", err)
	}
}

func TestEnsureDailySidesFromTemplate(t *testing.T) {
	repo := seededRepo()
	repo.template = []string{"arroz", "salada"}
	uc := NewDailyMenuUseCase(repo)

	sides, err := uc.EnsureDailySidesFromTemplate(context.Background(), "2026-10-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.dailySide["2026-10-15"]) != 2 {
		t.Fatalf("expected template copied, got %v", repo.dailySide["2026-10-15"])
	}
	if len(sides) != 1 || sides[0].ID != "arroz" {
		t.Fatalf("expected only active sides, got %+v", sides)
	}

	repo.template = []string{"salada"}
	if _, err := uc.EnsureDailySidesFromTemplate(context.Background(), "2026-10-15"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.dailySide["2026-10-15"]) != 2 {
		t.Fatalf("expected existing day left alone, got %v", repo.dailySide["2026-10-15"])
	}
}

package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"acapulcoWs/internal/modules/customers/application/port"
	"acapulcoWs/internal/modules/customers/application/usecase"
	"acapulcoWs/internal/modules/customers/domain"
	orders "acapulcoWs/internal/modules/orders/domain"
	"acapulcoWs/internal/shared/auth"
	"acapulcoWs/internal/shared/httputil"
)

type memoryRepo struct {
	mu        sync.Mutex
	profiles  map[string]domain.Profile
	addresses []domain.Address
}

func (r *memoryRepo) Profile(_ context.Context, userID string) (domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return domain.Profile{}, port.ErrProfileNotFound
	}
	return p, nil
}

func (r *memoryRepo) SaveProfile(_ context.Context, p domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = p
	return nil
}

func (r *memoryRepo) Addresses(_ context.Context, userID string) ([]domain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Address
	for _, a := range r.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryRepo) InsertAddress(_ context.Context, a domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addresses = append(r.addresses, a)
	return nil
}

func (r *memoryRepo) find(userID, id string) int {
	for i, a := range r.addresses {
		if a.ID == id && a.UserID == userID {
			return i
		}
	}
	return -1
}

func (r *memoryRepo) UpdateAddressLine(_ context.Context, userID, id, line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.find(userID, id)
	if i < 0 {
		return domain.ErrAddressNotFound
	}
	r.addresses[i].Line = line
	return nil
}

func (r *memoryRepo) SetDefaultAddress(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(userID, id) < 0 {
		return domain.ErrAddressNotFound
	}
	for i := range r.addresses {
		if r.addresses[i].UserID == userID {
			r.addresses[i].IsDefault = r.addresses[i].ID == id
		}
	}
	return nil
}

func (r *memoryRepo) DeleteAddress(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.find(userID, id)
	if i < 0 {
		return domain.ErrAddressNotFound
	}
	r.addresses = append(r.addresses[:i], r.addresses[i+1:]...)
	return nil
}

type memoryHistory []orders.Order

func (h memoryHistory) ListByCustomer(_ context.Context, customerID string, limit int) ([]orders.Order, error) {
	var out []orders.Order
	for _, o := range h {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func fixedTime(hour int) time.Time {
	return time.Date(2026, 10, 15, hour, 0, 0, 0, time.UTC)
}

type stubValidator map[string]string

func (v stubValidator) Validate(token string) (*auth.Claims, error) {
	if token == "" {
		return nil, auth.ErrMissingToken
	}
	subject, ok := v[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	claims := &auth.Claims{Role: "customer"}
	claims.Subject = subject
	return claims, nil
}

func newAccountServer(t *testing.T, history memoryHistory) (*echo.Echo, *memoryRepo) {
	t.Helper()
	repo := &memoryRepo{profiles: map[string]domain.Profile{}}
	validator := stubValidator{"ana-token": "user-ana", "rui-token": "user-rui"}
	e := echo.New()
	NewAccountHandler(usecase.NewAccountUseCase(repo, history)).Register(e.Group("/api/me", auth.RequireRole(validator)))
	return e, repo
}

func call(t *testing.T, e *echo.Echo, token, method, path, body string, out any) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

func TestAccountRequiresSignIn(t *testing.T) {
	e, _ := newAccountServer(t, nil)
	cases := []struct {
		name   string
		token  string
		method string
		path   string
		want   int
	}{
		{name: "profile without token", method: http.MethodGet, path: "/api/me/profile", want: http.StatusUnauthorized},
		{name: "orders with forged token", token: "forged", method: http.MethodGet, path: "/api/me/orders", want: http.StatusUnauthorized},
		{name: "prefill signed in", token: "ana-token", method: http.MethodGet, path: "/api/me/checkout-prefill", want: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if code := call(t, e, tc.token, tc.method, tc.path, "", nil); code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, code)
			}
		})
	}
}

func TestAccountProfileAndPrefill(t *testing.T) {
	e, _ := newAccountServer(t, nil)

	var profile domain.Profile
	if code := call(t, e, "ana-token", http.MethodGet, "/api/me/profile", "", &profile); code != http.StatusOK || profile.UserID != "user-ana" {
		t.Fatalf("empty profile: %d %+v", code, profile)
	}

	var rejection httputil.ErrorBody
	if code := call(t, e, "ana-token", http.MethodPut, "/api/me/profile", `{"fullName":"A"}`, &rejection); code != http.StatusUnprocessableEntity || rejection.Error == "" {
		t.Fatalf("short name: %d %+v", code, rejection)
	}

	body := `{"fullName":"Ana Maria Silva","phone":"912 345 678"}`
	if code := call(t, e, "ana-token", http.MethodPut, "/api/me/profile", body, &profile); code != http.StatusOK || profile.Phone != "351912345678" {
		t.Fatalf("update profile: %d %+v", code, profile)
	}

	var address domain.Address
	if code := call(t, e, "ana-token", http.MethodPut, "/api/me/addresses/default", `{"addressLine":"Rua das Flores 10"}`, &address); code != http.StatusOK || !address.IsDefault {
		t.Fatalf("save default address: %d %+v", code, address)
	}

	var prefill domain.Prefill
	if code := call(t, e, "ana-token", http.MethodGet, "/api/me/checkout-prefill", "", &prefill); code != http.StatusOK {
		t.Fatalf("prefill: %d", code)
	}
	want := domain.Prefill{FirstName: "Ana", LastName: "Maria Silva", Phone: "351912345678", AddressLine: "Rua das Flores 10"}
	if prefill != want {
		t.Fatalf("got %+v, want %+v", prefill, want)
	}

	var other domain.Prefill
	if code := call(t, e, "rui-token", http.MethodGet, "/api/me/checkout-prefill", "", &other); code != http.StatusOK || other != (domain.Prefill{}) {
		t.Fatalf("another customer must not see ana's data: %d %+v", code, other)
	}
}

func TestAccountAddressBook(t *testing.T) {
	e, repo := newAccountServer(t, nil)

	if code := call(t, e, "ana-token", http.MethodGet, "/api/me/addresses/default", "", nil); code != http.StatusNoContent {
		t.Fatalf("default on empty book: %d", code)
	}

	var home, work domain.Address
	if code := call(t, e, "ana-token", http.MethodPost, "/api/me/addresses", `{"label":"Casa","addressLine":"Rua das Flores 10"}`, &home); code != http.StatusCreated {
		t.Fatalf("add home: %d", code)
	}
	if code := call(t, e, "ana-token", http.MethodPost, "/api/me/addresses", `{"label":"Trabalho","addressLine":"Avenida Central 5"}`, &work); code != http.StatusCreated {
		t.Fatalf("add work: %d", code)
	}

	var fallback domain.Address
	if code := call(t, e, "ana-token", http.MethodGet, "/api/me/addresses/default", "", &fallback); code != http.StatusOK || fallback.ID == "" {
		t.Fatalf("fallback default: %d %+v", code, fallback)
	}

	cases := []struct {
		name   string
		token  string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "short line", token: "ana-token", method: http.MethodPost, path: "/api/me/addresses", body: `{"addressLine":"Rua 1"}`, want: http.StatusUnprocessableEntity},
		{name: "foreign default", token: "rui-token", method: http.MethodPost, path: "/api/me/addresses/" + home.ID + "/default", want: http.StatusNotFound},
		{name: "foreign delete", token: "rui-token", method: http.MethodDelete, path: "/api/me/addresses/" + home.ID, want: http.StatusNotFound},
		{name: "own default", token: "ana-token", method: http.MethodPost, path: "/api/me/addresses/" + home.ID + "/default", want: http.StatusNoContent},
		{name: "own delete", token: "ana-token", method: http.MethodDelete, path: "/api/me/addresses/" + work.ID, want: http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if code := call(t, e, tc.token, tc.method, tc.path, tc.body, nil); code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, code)
			}
		})
	}

	var list []domain.Address
	if code := call(t, e, "ana-token", http.MethodGet, "/api/me/addresses", "", &list); code != http.StatusOK {
		t.Fatalf("list: %d", code)
	}
	if len(list) != 1 || list[0].ID != home.ID || !list[0].IsDefault {
		t.Fatalf("unexpected address book %+v (stored %+v)", list, repo.addresses)
	}
}

func TestAccountOrderHistory(t *testing.T) {
	history := memoryHistory{
		{ID: "o1", CustomerID: "user-ana", CreatedAt: fixedTime(9)},
		{ID: "o2", CustomerID: "user-rui", CreatedAt: fixedTime(10)},
		{ID: "o3", CustomerID: "user-ana", CreatedAt: fixedTime(11)},
	}
	e, _ := newAccountServer(t, history)

	cases := []struct {
		name    string
		token   string
		query   string
		want    int
		wantIDs []string
	}{
		{name: "newest first", token: "ana-token", want: http.StatusOK, wantIDs: []string{"o3", "o1"}},
		{name: "limited", token: "ana-token", query: "?limit=1", want: http.StatusOK, wantIDs: []string{"o3"}},
		{name: "bad limit", token: "ana-token", query: "?limit=zero", want: http.StatusBadRequest},
		{name: "other customer", token: "rui-token", want: http.StatusOK, wantIDs: []string{"o2"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var list []orders.Order
			var out any = &list
			if tc.want != http.StatusOK {
				out = nil
			}
			if code := call(t, e, tc.token, http.MethodGet, "/api/me/orders"+tc.query, "", out); code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, code)
			}
			if tc.want != http.StatusOK {
				return
			}
			if len(list) != len(tc.wantIDs) {
				t.Fatalf("expected %v, got %+v", tc.wantIDs, list)
			}
			for i, id := range tc.wantIDs {
				if list[i].ID != id {
					t.Fatalf("position %d: expected %s, got %s", i, id, list[i].ID)
				}
			}
		})
	}
}

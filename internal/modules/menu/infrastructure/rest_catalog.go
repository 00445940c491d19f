package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"acapulcoWs/internal/modules/menu/domain"
	"acapulcoWs/internal/shared/normalization"
)

const (
	dailyMenuPath  = "/rest/v1/daily_menu"
	dailySidesPath = "/rest/v1/daily_sides"

	dailyMenuSelect  = "id,day,group_key,menu_item_id,menu_items:menu_item_id(id,name,description,category,price,image_url,active,sides_enabled,sides_free_count,portion_type)"
	dailySidesSelect = "day,side_item_id,created_at,side_items(id,name,active)"
)

// RESTCatalog reads the daily board from a PostgREST-style backend.
type RESTCatalog struct {
	rest    *RESTClient
	timeout time.Duration
}

func NewRESTCatalog(baseURL, apiKey string, timeout time.Duration, client *http.Client) *RESTCatalog {
	return &RESTCatalog{rest: NewRESTClient(baseURL, apiKey, timeout, client), timeout: timeoutOrDefault(timeout)}
}

func (c *RESTCatalog) DailyMenu(ctx context.Context, day string) ([]domain.DailyEntry, error) {
	rows, err := c.fetchRows(ctx, dailyMenuPath, dailyMenuSelect, day)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.DailyEntry, 0, len(rows))
	for _, row := range rows {
		entry, ok := domain.NormalizeDailyEntry(normalization.MapFromPayload(row))
		if !ok {
			slog.Debug("daily menu row skipped", slog.Any("row", row))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (c *RESTCatalog) DailySides(ctx context.Context, day string) ([]domain.SideItem, error) {
	rows, err := c.fetchRows(ctx, dailySidesPath, dailySidesSelect, day)
	if err != nil {
		return nil, err
	}
	sides := make([]domain.SideItem, 0, len(rows))
	for _, row := range rows {
		side, ok := domain.NormalizeSideItem(normalization.MapFromPayload(row))
		if !ok {
			continue
		}
		sides = append(sides, side)
	}
	return sides, nil
}

func (c *RESTCatalog) fetchRows(ctx context.Context, path, selectExpr, day string) ([]any, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := c.rest.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	values := url.Values{}
	values.Set("select", selectExpr)
	values.Set("day", "eq."+strings.TrimSpace(day))
	req.URL.RawQuery = values.Encode()

	res, err := c.rest.Do(req)
	if err != nil {
		slog.Error("catalog request error", slog.String("path", path), slog.Any("error", err))
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		slog.Error("catalog unexpected status",
			slog.Int("status", res.StatusCode),
			slog.String("url", req.URL.String()),
			slog.String("body", strings.TrimSpace(string(body))),
		)
		return nil, fmt.Errorf("unexpected catalog response %d", res.StatusCode)
	}

	var payload any
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	rows := normalization.AsInterfaceSlice(payload)
	if rows == nil {
		if wrapped := normalization.MapFromPayload(payload); wrapped != nil {
			rows = normalization.AsInterfaceSlice(wrapped["items"])
		}
	}
	return rows, nil
}

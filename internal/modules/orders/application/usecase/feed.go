package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"acapulcoWs/internal/modules/orders/domain"
	rtport "acapulcoWs/internal/modules/realtime/application/port"
	rtdomain "acapulcoWs/internal/modules/realtime/domain"
)

const (
	DefaultPollInterval = 20 * time.Second
	reloadTimeout       = 10 * time.Second
	metadataFingerprint = "fingerprint"
)

// BoardSource loads the kitchen board of a day.
type BoardSource interface {
	Board(ctx context.Context, day string) (domain.Board, error)
	Today() string
}

// FeedUseCase keeps websocket clients in sync with the kitchen board. It
// rebuilds a day's board on every order event and on a fixed poll, and only
// broadcasts when the board actually changed.
type FeedUseCase struct {
	source      BoardSource
	broadcaster rtport.Broadcaster
	interval    time.Duration
	now         func() time.Time

	mu           sync.Mutex
	fingerprints map[string]string
	watchers     map[string]int
}

func NewFeedUseCase(source BoardSource, broadcaster rtport.Broadcaster, interval time.Duration) *FeedUseCase {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &FeedUseCase{
		source:       source,
		broadcaster:  broadcaster,
		interval:     interval,
		now:          time.Now,
		fingerprints: make(map[string]string),
		watchers:     make(map[string]int),
	}
}

func (f *FeedUseCase) Today() string {
	return f.source.Today()
}

func (f *FeedUseCase) SnapshotMessage(ctx context.Context, day string) (*rtdomain.Message, error) {
	msg, _, err := f.snapshot(ctx, day)
	return msg, err
}

func (f *FeedUseCase) Reload(ctx context.Context, day string) error {
	day = strings.TrimSpace(day)
	if day == "" {
		day = f.Today()
	}
	msg, fingerprint, err := f.snapshot(ctx, day)
	if err != nil {
		return err
	}

	f.mu.Lock()
	unchanged := f.fingerprints[day] == fingerprint
	f.fingerprints[day] = fingerprint
	f.mu.Unlock()
	if unchanged {
		return nil
	}

	f.broadcaster.Broadcast(ctx, msg)
	slog.Debug("orders snapshot broadcast", slog.String("day", day), slog.String("fingerprint", fingerprint))
	return nil
}

func (f *FeedUseCase) Watch(day string) func() {
	day = strings.TrimSpace(day)
	f.mu.Lock()
	f.watchers[day]++
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.watchers[day]--
			if f.watchers[day] <= 0 {
				delete(f.watchers, day)
				delete(f.fingerprints, day)
			}
		})
	}
}

// Run polls today and every watched day until ctx is cancelled.
func (f *FeedUseCase) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	slog.Info("orders feed polling started", slog.Duration("interval", f.interval))
	for {
		select {
		case <-ctx.Done():
			slog.Info("orders feed polling stopped")
			return
		case <-ticker.C:
			f.reloadAll(ctx)
		}
	}
}

func (f *FeedUseCase) reloadAll(ctx context.Context) {
	for _, day := range f.days() {
		reloadCtx, cancel := context.WithTimeout(ctx, reloadTimeout)
		if err := f.Reload(reloadCtx, day); err != nil {
			slog.Warn("orders feed reload failed", slog.String("day", day), slog.Any("error", err))
		}
		cancel()
	}
}

func (f *FeedUseCase) days() []string {
	today := f.Today()
	f.mu.Lock()
	defer f.mu.Unlock()
	days := []string{today}
	for day := range f.watchers {
		if day != today && day != "" {
			days = append(days, day)
		}
	}
	sort.Strings(days[1:])
	return days
}

func (f *FeedUseCase) snapshot(ctx context.Context, day string) (*rtdomain.Message, string, error) {
	board, err := f.source.Board(ctx, day)
	if err != nil {
		return nil, "", err
	}
	fingerprint, err := boardFingerprint(board)
	if err != nil {
		return nil, "", err
	}
	msg := rtdomain.BuildSnapshotMessage(domain.Entity, day, board, f.now(), rtdomain.Metadata{metadataFingerprint: fingerprint})
	return msg, fingerprint, nil
}

func boardFingerprint(board domain.Board) (string, error) {
	raw, err := json.Marshal(board)
	if err != nil {
		return "", fmt.Errorf("encode board: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8]), nil
}

var _ rtport.DayFeed = (*FeedUseCase)(nil)

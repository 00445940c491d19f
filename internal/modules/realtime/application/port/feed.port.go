package port

import (
	"context"

	"acapulcoWs/internal/modules/realtime/domain"
)

// DayFeed serves per-day snapshots of a realtime board.
type DayFeed interface {
	// SnapshotMessage builds the current snapshot of day.
	SnapshotMessage(ctx context.Context, day string) (*domain.Message, error)
	// Reload rebuilds the snapshot of day and broadcasts it when it changed.
	Reload(ctx context.Context, day string) error
	// Watch keeps day refreshed until the returned release func is called.
	Watch(day string) (release func())
	// Today is the default day for clients that do not pick one.
	Today() string
}

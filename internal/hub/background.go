package hub

import (
	"context"
	"log/slog"
	"time"
)

// Run removes idle sessions until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.idleTimeout <= 0 {
		return
	}

	interval := h.idleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "idle session sweeper started", "idle_timeout", h.idleTimeout)
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "idle session sweeper stopped")
			return
		case now := <-ticker.C:
			h.sweep(ctx, now)
		}
	}
}

// sweep removes every session idle since before now minus the idle timeout.
func (h *Hub) sweep(ctx context.Context, now time.Time) int {
	ctx, span := tracer.Start(ctx, "hub.sweep")
	defer span.End()

	var idle []string
	h.mu.RLock()
	for id, s := range h.sessions {
		if now.Sub(s.LastActive()) > h.idleTimeout {
			idle = append(idle, id)
		}
	}
	h.mu.RUnlock()

	removed := 0
	for _, id := range idle {
		if h.Remove(ctx, id) {
			removed++
		}
	}
	if removed > 0 {
		slog.InfoContext(ctx, "removed idle sessions", "count", removed)
	}
	return removed
}

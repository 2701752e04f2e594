package discord

import (
	"context"
	"log"
	"time"

	"eventbot/internal/ports/output"
)

// timerScheduler arms real timers for dialog expiry and notice deletion.
type timerScheduler struct{}

var _ output.Scheduler = timerScheduler{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) output.Timer {
	return time.AfterFunc(d, f)
}

// RunAutosave saves the events every interval until ctx is done.
func (h *Handler) RunAutosave(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.events.Flush(ctx); err != nil {
				log.Printf("❌ Sauvegarde automatique: %v", err)
			}
		}
	}
}

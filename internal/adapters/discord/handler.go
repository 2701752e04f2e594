package discord

import (
	"eventbot/internal/config"
	"eventbot/internal/ports/input"
)

// Handler turns gateway events into engine calls.
type Handler struct {
	events    input.EventCoordinator
	messenger *Messenger
	cfg       *config.Config
}

// NewHandler creates a Handler.
func NewHandler(events input.EventCoordinator, messenger *Messenger, cfg *config.Config) *Handler {
	return &Handler{
		events:    events,
		messenger: messenger,
		cfg:       cfg,
	}
}

func (h *Handler) isOwner(userID string) bool {
	return h.cfg.OwnerID != "" && userID == h.cfg.OwnerID
}

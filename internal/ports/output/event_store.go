package output

import (
	"context"

	"eventbot/internal/domain/entities"
)

// EventStore persists the whole set of event groups.
// SaveAll replaces what was stored before.
type EventStore interface {
	SaveAll(ctx context.Context, groups []*entities.EventGroup) error
	LoadAll(ctx context.Context) ([]*entities.EventGroup, error)
}

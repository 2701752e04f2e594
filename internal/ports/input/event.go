package input

import (
	"context"

	"eventbot/internal/domain/entities"
)

// EventCoordinator is the entry point of the event engine used by the chat adapter.
type EventCoordinator interface {
	HandleEventCommand(ctx context.Context, cmd entities.Command)
	RouteReaction(ctx context.Context, r entities.Reaction) entities.RouteResult
	// Restore loads the stored events; it must succeed before any command is accepted.
	Restore(ctx context.Context) error
	// Flush saves the events if something changed since the last save.
	Flush(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

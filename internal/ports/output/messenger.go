package output

import (
	"context"
	"errors"
	"time"

	"eventbot/internal/domain/entities"
)

// Transport errors the engine reacts to. Adapters map their platform codes onto them.
var (
	ErrMessageNotFound    = errors.New("message not found")
	ErrMissingPermissions = errors.New("missing permissions")
)

// Embed is a platform neutral rich message.
type Embed struct {
	Title       string
	Description string
	Color       int
	Timestamp   time.Time
	Fields      []EmbedField
	Footer      string
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Messenger is the chat transport used by the engine.
type Messenger interface {
	SendEmbed(ctx context.Context, channelID string, embed Embed) (entities.MessageRef, error)
	SendText(ctx context.Context, channelID, content string) (entities.MessageRef, error)
	EditEmbed(ctx context.Context, ref entities.MessageRef, embed Embed) error
	Delete(ctx context.Context, ref entities.MessageRef) error
	// FetchMessage checks that the message still exists.
	FetchMessage(ctx context.Context, ref entities.MessageRef) error

	// Reactions lists the markers currently present on the message.
	Reactions(ctx context.Context, ref entities.MessageRef) ([]entities.Symbol, error)
	AddReaction(ctx context.Context, ref entities.MessageRef, s entities.Symbol) error
	// RemoveUserReaction strips one user's reaction, leaving the others.
	RemoveUserReaction(ctx context.Context, ref entities.MessageRef, s entities.Symbol, userID string) error
	// ClearReaction removes the marker for every user.
	ClearReaction(ctx context.Context, ref entities.MessageRef, s entities.Symbol) error

	OpenPrivateChannel(ctx context.Context, userID string) (string, error)
	CustomEmoji(ctx context.Context, guildID, name string) (entities.Symbol, bool)
	DisplayName(ctx context.Context, guildID, userID string) string
}

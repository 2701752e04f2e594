package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain/entities"
	"eventbot/pkg/emoji"
)

func TestSymbolOf(t *testing.T) {
	t.Parallel()

	if s := symbolOf(&discordgo.Emoji{ID: "77", Name: "North"}); s != entities.Custom("77", "North") {
		t.Errorf("expected a custom symbol, got %+v", s)
	}
	if s := symbolOf(&discordgo.Emoji{Name: emoji.Wastebasket + emoji.VariationSelector}); !s.Is(emoji.Wastebasket) {
		t.Errorf("expected the wastebasket, got %+v", s)
	}
}

func TestCanWastebasket(t *testing.T) {
	t.Parallel()

	inGuild := &discordgo.MessageReactionAdd{MessageReaction: &discordgo.MessageReaction{GuildID: "g1"}}
	inDM := &discordgo.MessageReactionAdd{MessageReaction: &discordgo.MessageReaction{}}
	plain := &discordgo.Message{}
	seeded := &discordgo.Message{Reactions: []*discordgo.MessageReactions{
		{Me: true, Count: 2, Emoji: &discordgo.Emoji{Name: emoji.Wastebasket}},
	}}
	seededByOther := &discordgo.Message{Reactions: []*discordgo.MessageReactions{
		{Me: false, Count: 1, Emoji: &discordgo.Emoji{Name: emoji.Wastebasket}},
	}}

	tests := []struct {
		name         string
		r            *discordgo.MessageReactionAdd
		msg          *discordgo.Message
		owner, admin bool
		want         bool
	}{
		{"anyone in private", inDM, plain, false, false, true},
		{"member in guild", inGuild, plain, false, false, false},
		{"owner in guild", inGuild, plain, true, false, true},
		{"admin in guild", inGuild, plain, false, true, true},
		{"seeded by the bot", inGuild, seeded, false, false, true},
		{"seeded by someone else", inGuild, seededByOther, false, false, false},
	}
	for _, tt := range tests {
		if got := canWastebasket(tt.r, tt.msg, tt.owner, tt.admin); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestResolveDisplayName(t *testing.T) {
	t.Parallel()

	user := &discordgo.User{Username: "raider", GlobalName: "Raider"}
	if got := resolveDisplayName(&discordgo.Member{Nick: "Lead", User: user}); got != "Lead" {
		t.Errorf("expected the nick, got %q", got)
	}
	if got := resolveDisplayName(&discordgo.Member{User: user}); got != "Raider" {
		t.Errorf("expected the global name, got %q", got)
	}
	if got := resolveDisplayName(&discordgo.Member{User: &discordgo.User{Username: "raider"}}); got != "raider" {
		t.Errorf("expected the username, got %q", got)
	}
	if got := resolveDisplayName(nil); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestHasRole(t *testing.T) {
	t.Parallel()

	m := &discordgo.Member{Roles: []string{"10", "20"}}
	if !hasRole(m, "", "20") {
		t.Error("expected the admin role to match")
	}
	if hasRole(m, "", "") || hasRole(nil, "10") {
		t.Error("empty role IDs or a missing member must not match")
	}
}

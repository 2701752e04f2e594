package discord

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain/entities"
)

const eventKeyword = "event"

var channelMention = regexp.MustCompile(`<#(\d+)>`)

// parseEventCommand returns what follows "<prefix>event" in content.
func parseEventCommand(prefix, content string) (string, bool) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", false
	}
	rest := content[len(prefix):]
	if len(rest) < len(eventKeyword) || !strings.EqualFold(rest[:len(eventKeyword)], eventKeyword) {
		return "", false
	}
	rest = rest[len(eventKeyword):]
	if rest != "" && !unicode.IsSpace(rune(rest[0])) {
		// "!events" n'est pas notre commande
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func mentionedChannels(content string) []string {
	var ids []string
	for _, m := range channelMention.FindAllStringSubmatch(content, -1) {
		ids = append(ids, m[1])
	}
	return ids
}

func (h *Handler) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	args, ok := parseEventCommand(h.cfg.CommandPrefix, m.Content)
	if !ok {
		return
	}

	ctx := context.Background()
	cmd := entities.Command{
		CallerID:    m.Author.ID,
		IsOwner:     h.isOwner(m.Author.ID),
		IsOrganizer: h.isOrganizer(ctx, s, m.GuildID, m.Author.ID, m.Member),
		Args:        args,
		Channel: entities.ChannelContext{
			GuildID:           m.GuildID,
			ChannelID:         m.ChannelID,
			MessageID:         m.ID,
			IsPrivate:         m.GuildID == "",
			MentionedChannels: mentionedChannels(m.Content),
		},
	}
	h.events.HandleEventCommand(ctx, cmd)
}

// isOrganizer checks the organizer or admin role. In private channels the
// member is looked up in the configured guild.
func (h *Handler) isOrganizer(ctx context.Context, s *discordgo.Session, guildID, userID string, member *discordgo.Member) bool {
	if member == nil {
		member = h.lookupMember(ctx, s, guildID, userID)
	}
	return hasRole(member, h.cfg.EventOrganizerRoleID, h.cfg.AdminRoleID)
}

func (h *Handler) lookupMember(ctx context.Context, s *discordgo.Session, guildID, userID string) *discordgo.Member {
	if guildID == "" {
		guildID = h.cfg.GuildID
	}
	if member, err := s.State.Member(guildID, userID); err == nil {
		return member
	}
	member, err := s.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil
	}
	return member
}

package discord

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
	pkgdiscord "eventbot/pkg/discord"
)

const unknownUserName = "User-Not-Found"

var _ output.Messenger = (*Messenger)(nil)

// Messenger implements output.Messenger on a discordgo session.
type Messenger struct {
	s *discordgo.Session
}

func NewMessenger(s *discordgo.Session) *Messenger {
	return &Messenger{s: s}
}

func refOf(m *discordgo.Message) entities.MessageRef {
	return entities.MessageRef{ChannelID: m.ChannelID, MessageID: m.ID}
}

func (m *Messenger) SendEmbed(ctx context.Context, channelID string, embed output.Embed) (entities.MessageRef, error) {
	msg, err := m.s.ChannelMessageSendEmbed(channelID, pkgdiscord.ToMessageEmbed(embed), discordgo.WithContext(ctx))
	if err != nil {
		return entities.MessageRef{}, pkgdiscord.MapRESTError(err)
	}
	return refOf(msg), nil
}

func (m *Messenger) SendText(ctx context.Context, channelID, content string) (entities.MessageRef, error) {
	msg, err := m.s.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return entities.MessageRef{}, pkgdiscord.MapRESTError(err)
	}
	return refOf(msg), nil
}

func (m *Messenger) EditEmbed(ctx context.Context, ref entities.MessageRef, embed output.Embed) error {
	_, err := m.s.ChannelMessageEditEmbed(ref.ChannelID, ref.MessageID, pkgdiscord.ToMessageEmbed(embed), discordgo.WithContext(ctx))
	return pkgdiscord.MapRESTError(err)
}

func (m *Messenger) Delete(ctx context.Context, ref entities.MessageRef) error {
	return pkgdiscord.MapRESTError(m.s.ChannelMessageDelete(ref.ChannelID, ref.MessageID, discordgo.WithContext(ctx)))
}

func (m *Messenger) FetchMessage(ctx context.Context, ref entities.MessageRef) error {
	_, err := m.s.ChannelMessage(ref.ChannelID, ref.MessageID, discordgo.WithContext(ctx))
	return pkgdiscord.MapRESTError(err)
}

func (m *Messenger) Reactions(ctx context.Context, ref entities.MessageRef) ([]entities.Symbol, error) {
	msg, err := m.s.ChannelMessage(ref.ChannelID, ref.MessageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, pkgdiscord.MapRESTError(err)
	}
	out := make([]entities.Symbol, 0, len(msg.Reactions))
	for _, r := range msg.Reactions {
		if r.Emoji != nil {
			out = append(out, symbolOf(r.Emoji))
		}
	}
	return out, nil
}

func (m *Messenger) AddReaction(ctx context.Context, ref entities.MessageRef, s entities.Symbol) error {
	return pkgdiscord.MapRESTError(m.s.MessageReactionAdd(ref.ChannelID, ref.MessageID, s.Reaction(), discordgo.WithContext(ctx)))
}

func (m *Messenger) RemoveUserReaction(ctx context.Context, ref entities.MessageRef, s entities.Symbol, userID string) error {
	return pkgdiscord.MapRESTError(m.s.MessageReactionRemove(ref.ChannelID, ref.MessageID, s.Reaction(), userID, discordgo.WithContext(ctx)))
}

func (m *Messenger) ClearReaction(ctx context.Context, ref entities.MessageRef, s entities.Symbol) error {
	return pkgdiscord.MapRESTError(m.s.MessageReactionsRemoveEmoji(ref.ChannelID, ref.MessageID, s.Reaction(), discordgo.WithContext(ctx)))
}

func (m *Messenger) OpenPrivateChannel(ctx context.Context, userID string) (string, error) {
	ch, err := m.s.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", pkgdiscord.MapRESTError(err)
	}
	return ch.ID, nil
}

// CustomEmoji cherche d'abord dans le cache, puis via l'API.
func (m *Messenger) CustomEmoji(ctx context.Context, guildID, name string) (entities.Symbol, bool) {
	if guildID == "" {
		return entities.Symbol{}, false
	}
	var emojis []*discordgo.Emoji
	if g, err := m.s.State.Guild(guildID); err == nil {
		emojis = g.Emojis
	}
	if len(emojis) == 0 {
		fetched, err := m.s.GuildEmojis(guildID, discordgo.WithContext(ctx))
		if err != nil {
			log.Printf("⚠️ Emojis du serveur %s indisponibles: %v", guildID, err)
			return entities.Symbol{}, false
		}
		emojis = fetched
	}
	for _, em := range emojis {
		if em != nil && em.ID != "" && em.Name == name {
			return entities.Custom(em.ID, em.Name), true
		}
	}
	return entities.Symbol{}, false
}

func (m *Messenger) DisplayName(ctx context.Context, guildID, userID string) string {
	if guildID != "" {
		if member, err := m.s.State.Member(guildID, userID); err == nil {
			if name := resolveDisplayName(member); name != "" {
				return name
			}
		}
		member, err := m.s.GuildMember(guildID, userID, discordgo.WithContext(ctx))
		if err == nil {
			if name := resolveDisplayName(member); name != "" {
				return name
			}
		}
	}
	return unknownUserName
}

// symbolOf builds the marker of a discordgo emoji: custom when it has an ID.
func symbolOf(em *discordgo.Emoji) entities.Symbol {
	if em.ID != "" {
		return entities.Custom(em.ID, em.Name)
	}
	return entities.Builtin(em.Name)
}

package discord

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/domain/entities"
	pkgdiscord "eventbot/pkg/discord"
	"eventbot/pkg/emoji"
)

func (h *Handler) onReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.MessageReaction == nil || (s.State.User != nil && r.UserID == s.State.User.ID) {
		return
	}
	ctx := context.Background()
	reaction := entities.Reaction{
		Message: entities.MessageRef{ChannelID: r.ChannelID, MessageID: r.MessageID},
		UserID:  r.UserID,
		Symbol:  symbolOf(&r.Emoji),
		GuildID: r.GuildID,
	}
	if h.events.RouteReaction(ctx, reaction) == entities.Handled {
		return
	}
	if reaction.Symbol.Is(emoji.Wastebasket) {
		h.wastebasket(ctx, s, r)
	}
}

// wastebasket supprime un message du bot que le moteur ne gère pas.
// En MP tout le monde peut; sur le serveur il faut être admin ou owner,
// sauf si le bot a lui-même posé 🗑 en premier.
func (h *Handler) wastebasket(ctx context.Context, s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	msg, err := s.ChannelMessage(r.ChannelID, r.MessageID, discordgo.WithContext(ctx))
	if err != nil {
		if !pkgdiscord.IsNotFound(err) {
			log.Printf("⚠️ Lecture du message %s: %v", r.MessageID, err)
		}
		return
	}
	if msg.Author == nil || s.State.User == nil || msg.Author.ID != s.State.User.ID {
		return
	}
	if !canWastebasket(r, msg, h.isOwner(r.UserID), hasRole(r.Member, h.cfg.AdminRoleID)) {
		return
	}
	ref := refOf(msg)
	if err := h.messenger.Delete(ctx, ref); err != nil {
		log.Printf("❌ Suppression du message %s: %v", ref.MessageID, err)
		return
	}
	log.Printf("🗑️ Message %s supprimé par %s", ref.MessageID, r.UserID)
}

func canWastebasket(r *discordgo.MessageReactionAdd, msg *discordgo.Message, owner, admin bool) bool {
	if r.GuildID == "" || owner || admin {
		return true
	}
	if len(msg.Reactions) == 0 {
		return false
	}
	first := msg.Reactions[0]
	return first.Me && first.Emoji != nil && symbolOf(first.Emoji).Is(emoji.Wastebasket)
}

package application

import (
	"context"
	"log"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/pkg/emoji"
)

// RouteReaction dispatches a reaction added by a user. Switch choosers come
// first, then guild embeds, then position choosers.
func (e *Engine) RouteReaction(ctx context.Context, r entities.Reaction) entities.RouteResult {
	t := e.begin()
	defer t.commit(ctx)

	if d, ok := e.switchDialogs[r.Message.MessageID]; ok {
		t.chooseEvent(d, r)
		return entities.Handled
	}

	for _, g := range e.groups {
		for _, inst := range g.Events {
			if inst.GuildEmbed.MessageID == r.Message.MessageID {
				t.vote(g, inst, r)
				return entities.Handled
			}
		}
	}

	for _, g := range e.groups {
		for _, inst := range g.Events {
			if l, d := inst.FindDialog(r.Message.MessageID); d != nil {
				if t.choosePosition(inst, l, d, r) {
					return entities.Handled
				}
				return entities.NotForThisEngine
			}
		}
	}
	return entities.NotForThisEngine
}

// chooseEvent applies a reaction on a switch chooser. Caller holds mu.
func (t *txn) chooseEvent(d *entities.Dialog, r entities.Reaction) {
	e := t.e
	t.later(func(ctx context.Context) { e.stripReaction(ctx, r.Message, r.Symbol, r.UserID) })
	if d.OwnerID != r.UserID {
		return
	}
	g := e.groups[d.OwnerID]
	if g == nil {
		return
	}
	n, ok := selectsEvent(g, r.Symbol)
	if !ok {
		return
	}
	_ = g.Switch(n)
	delete(e.switchDialogs, d.Message.MessageID)
	t.cancelDialogs([]*entities.Dialog{d})
	t.touch()
}

// vote applies a reaction on a guild embed. Caller holds mu.
func (t *txn) vote(g *entities.EventGroup, inst *entities.EventInstance, r entities.Reaction) {
	e := t.e
	s := r.Symbol

	if s.Is(emoji.Wastebasket) {
		if r.UserID == inst.OrganizerID || (e.ownerID != "" && r.UserID == e.ownerID) {
			t.removeInstance(g, inst)
			log.Printf("🗑️ Événement de %s supprimé par %s", inst.OrganizerID, r.UserID)
			return
		}
		msg := e.errorText(domain.ErrNotCreator)
		channelID := r.Message.ChannelID
		t.later(func(ctx context.Context) { e.notify(ctx, channelID, msg, deleteNoticeTTL) })
		t.later(func(ctx context.Context) { e.stripReaction(ctx, r.Message, s, r.UserID) })
		return
	}

	t.later(func(ctx context.Context) { e.stripReaction(ctx, r.Message, s, r.UserID) })
	if !inst.VoteOpen {
		return
	}

	switch {
	case s.Number() >= 1 && s.Number() <= len(inst.Locations):
		t.requestPosition(inst, inst.Locations[s.Number()-1], r.UserID)
		return
	case s.Is(emoji.GreyQuestion) && inst.MaybeEnabled:
		inst.JoinMaybe(r.UserID)
	case s.Is(emoji.Couch) && inst.BackupEnabled:
		inst.JoinBackup(r.UserID)
	case s.Is(emoji.X):
		inst.RemoveUser(r.UserID)
	default:
		return
	}
	t.touch()
	t.render(inst, false)
}

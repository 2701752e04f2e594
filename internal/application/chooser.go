package application

import (
	"context"
	"errors"
	"log"
	"strings"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

// requestPosition supersedes the user's pending choosers in inst and queues a
// new chooser for l. Caller holds mu.
func (t *txn) requestPosition(inst *entities.EventInstance, l *entities.Location, userID string) {
	e := t.e
	t.supersede(inst, userID)
	key := positionRequest{inst: inst, userID: userID}
	seq := e.nextSeq()
	e.positionRequests[key] = seq
	embed := e.positionEmbed(l, userID)
	markers := append([]entities.Symbol(nil), l.Symbols...)
	t.later(func(ctx context.Context) {
		e.postPositionChooser(ctx, key, seq, l, embed, markers)
	})
}

// supersede removes every position chooser of userID in inst.
func (t *txn) supersede(inst *entities.EventInstance, userID string) {
	for _, other := range inst.Locations {
		t.cancelDialogs(other.TakeDialogsOf(userID))
	}
}

// positionEmbed lists the positions of l next to their markers. Caller holds mu.
func (e *Engine) positionEmbed(l *entities.Location, userID string) output.Embed {
	var b strings.Builder
	for i, p := range l.Positions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(l.Symbols[i].Mention())
		b.WriteString(" - ")
		b.WriteString(l.Name)
		b.WriteString(" ")
		b.WriteString(p)
	}
	return output.Embed{
		Title: e.text("position.title", map[string]any{"User": "<@" + userID + ">", "Location": l.Name}),
		Color: colorCyan,
		Fields: []output.EmbedField{
			{Name: "\u200b", Value: b.String()},
			{Name: "\u200b", Value: e.text("position.hint", nil)},
		},
		Footer: e.text("position.footer", nil),
	}
}

// postPositionChooser sends the chooser of request key. It is dropped when a
// newer request of the same user came in meanwhile.
func (e *Engine) postPositionChooser(ctx context.Context, key positionRequest, seq uint64, l *entities.Location, embed output.Embed, markers []entities.Symbol) {
	inst, userID := key.inst, key.userID
	ref, err := e.sendPrivateEmbed(ctx, userID, embed)
	if err != nil {
		log.Printf("⚠️ Choix de position non envoyé à %s: %v", userID, err)
		e.mu.Lock()
		if e.positionRequests[key] == seq {
			delete(e.positionRequests, key)
		}
		e.mu.Unlock()
		return
	}

	t := e.begin()
	latest := e.positionRequests[key] == seq
	if latest {
		delete(e.positionRequests, key)
	}
	if !latest || e.groupOf(inst) == nil || !hasLocation(inst, l) {
		t.commit(ctx)
		e.deleteMessage(ctx, ref)
		return
	}
	t.supersede(inst, userID)
	d := entities.NewPositionDialog(ref, userID, l, e.now())
	l.AddDialog(d)
	d.OnCancel(e.scheduler.AfterFunc(entities.DialogLifetime, func() { e.expirePositionDialog(l, ref) }).Stop)
	t.commit(ctx)

	for _, s := range markers {
		if err := e.messenger.AddReaction(ctx, ref, s); err != nil {
			if !errors.Is(err, output.ErrMessageNotFound) {
				log.Printf("⚠️ Ajout de la réaction %s: %v", s.Reaction(), err)
			}
			return
		}
	}
}

func (e *Engine) sendPrivateEmbed(ctx context.Context, userID string, embed output.Embed) (entities.MessageRef, error) {
	dm, err := e.messenger.OpenPrivateChannel(ctx, userID)
	if err != nil {
		return entities.MessageRef{}, err
	}
	return e.messenger.SendEmbed(ctx, dm, embed)
}

func hasLocation(inst *entities.EventInstance, l *entities.Location) bool {
	for _, other := range inst.Locations {
		if other == l {
			return true
		}
	}
	return false
}

// expirePositionDialog drops the dialog unless a selection won the race.
func (e *Engine) expirePositionDialog(l *entities.Location, ref entities.MessageRef) {
	e.mu.Lock()
	_, ok := l.RemoveDialog(ref.MessageID)
	e.mu.Unlock()
	if ok {
		e.deleteMessage(context.Background(), ref)
	}
}

// choosePosition applies a reaction on a live position chooser. It reports
// false, stripping the reaction, when the reaction is not the owner's or not
// one of the location's markers. Caller holds mu.
func (t *txn) choosePosition(inst *entities.EventInstance, l *entities.Location, d *entities.Dialog, r entities.Reaction) bool {
	e := t.e
	i := l.SymbolIndex(r.Symbol)
	if d.OwnerID != r.UserID || i < 0 {
		t.later(func(ctx context.Context) { e.stripReaction(ctx, r.Message, r.Symbol, r.UserID) })
		return false
	}
	inst.AssignPosition(l, r.UserID, l.Positions[i])
	if _, ok := l.RemoveDialog(d.Message.MessageID); ok {
		t.cancelDialogs([]*entities.Dialog{d})
	}
	t.touch()
	t.render(inst, false)
	return true
}

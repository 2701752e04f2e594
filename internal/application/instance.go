package application

import (
	"context"
	"strings"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
)

// update applies a field command to the organizer's active event.
func (e *Engine) update(ctx context.Context, cmd entities.Command, sub, rest string) {
	channelID := cmd.Channel.ChannelID

	switch sub {
	case "move":
		e.move(ctx, cmd)
		return
	case "location":
		if !strings.Contains(rest, "delete") {
			e.addLocation(ctx, cmd, rest)
			return
		}
	}

	t := e.begin()
	defer t.commit(ctx)

	g := e.groups[cmd.CallerID]
	if g == nil {
		t.say(channelID, "event.create_first", nil)
		return
	}
	inst := g.Active()

	redraw := false
	var err error
	switch sub {
	case "title":
		inst.SetTitle(rest)
	case "desc", "description":
		inst.SetDescription(rest)
	case "date":
		err = inst.SetDate(rest, e.loc)
	case "start":
		err = inst.SetStart(rest, e.nowLocal())
	case "end", "stop":
		err = inst.SetStop(rest, e.nowLocal())
	case "location":
		err = t.deleteLocations(inst, rest)
		redraw = true
	case "toggle":
		err = inst.Toggle(rest)
		redraw = true
	case "vote":
		inst.VoteOpen = !inst.VoteOpen
		redraw = true
	case "next":
		inst.HelpPage = entities.HelpPageSecond
	case "previous":
		inst.HelpPage = entities.HelpPageFirst
	default:
		err = domain.ErrUnknownCommand
	}
	if err != nil {
		t.fail(channelID, err)
		// A failed location delete still redraws the event.
		if sub == "location" {
			t.render(inst, redraw)
		}
		return
	}
	t.touch()
	t.render(inst, redraw)
}

// deleteLocations handles "location delete" (every location) and
// "location delete <Name>", the name being everything after the first space.
func (t *txn) deleteLocations(inst *entities.EventInstance, rest string) error {
	if rest == "delete" {
		for _, l := range inst.ClearLocations() {
			t.cancelDialogs(l.TakeDialogs())
		}
		return nil
	}
	_, name, _ := strings.Cut(rest, " ")
	l, err := inst.RemoveLocation(strings.TrimSpace(name))
	if err != nil {
		return err
	}
	t.cancelDialogs(l.TakeDialogs())
	return nil
}

// addLocation parses and resolves the location outside the lock, since custom
// emoji lookups may hit the transport.
func (e *Engine) addLocation(ctx context.Context, cmd entities.Command, arg string) {
	channelID := cmd.Channel.ChannelID

	e.mu.Lock()
	var guildID string
	if g := e.groups[cmd.CallerID]; g != nil {
		guildID = g.Active().GuildID
	}
	e.mu.Unlock()

	l, perr := entities.ParseLocation(arg)
	if perr == nil && guildID != "" {
		l.ResolveSymbols(func(name string) (entities.Symbol, bool) {
			return e.messenger.CustomEmoji(ctx, guildID, name)
		})
	}

	t := e.begin()
	defer t.commit(ctx)

	g := e.groups[cmd.CallerID]
	if g == nil {
		t.say(channelID, "event.create_first", nil)
		return
	}
	if perr != nil {
		t.fail(channelID, perr)
		return
	}
	inst := g.Active()
	old, err := inst.PutLocation(l)
	if err != nil {
		t.fail(channelID, err)
		return
	}
	if old != nil {
		t.cancelDialogs(old.TakeDialogs())
	}
	t.touch()
	t.render(inst, true)
}

package application

import (
	"context"
	"errors"
	"log"
	"strings"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
	"eventbot/pkg/emoji"
)

// HandleEventCommand runs one "event ..." command. Failures are reported to the
// caller as transient notices, never returned.
func (e *Engine) HandleEventCommand(ctx context.Context, cmd entities.Command) {
	ctx = context.WithoutCancel(ctx)
	if !cmd.IsOrganizer && !cmd.IsOwner {
		e.run(func() { e.notify(ctx, cmd.Channel.ChannelID, e.errorText(domain.ErrNotOrganizer), noticeTTL) })
		return
	}

	sub, rest := splitArgs(cmd.Args)
	switch strings.ToLower(sub) {
	case "", "help":
		e.run(func() { e.postHelp(ctx, cmd.Channel.ChannelID) })
	case "create":
		e.run(func() { e.create(ctx, cmd) })
	case "delete":
		e.deleteActive(ctx, cmd)
	case "switch":
		e.switchEvent(ctx, cmd)
	default:
		if !cmd.Channel.IsPrivate {
			trigger := entities.MessageRef{ChannelID: cmd.Channel.ChannelID, MessageID: cmd.Channel.MessageID}
			e.scheduler.AfterFunc(triggerDeleteTTL, func() { e.deleteMessage(ctx, trigger) })
		}
		e.update(ctx, cmd, strings.ToLower(sub), rest)
	}
}

// splitArgs returns the first word and the trimmed remainder.
func splitArgs(args string) (string, string) {
	args = strings.TrimSpace(args)
	i := strings.IndexAny(args, " \t\n")
	if i < 0 {
		return args, ""
	}
	return args[:i], strings.TrimSpace(args[i+1:])
}

func (e *Engine) postHelp(ctx context.Context, channelID string) {
	if _, err := e.messenger.SendEmbed(ctx, channelID, e.commandsEmbed()); err != nil {
		log.Printf("⚠️ Aide des commandes non envoyée: %v", err)
	}
}

// create posts the messages of a new event, then registers it as the
// organizer's active event.
func (e *Engine) create(ctx context.Context, cmd entities.Command) {
	if cmd.Channel.IsPrivate {
		e.notify(ctx, cmd.Channel.ChannelID, e.errorText(domain.ErrGuildOnly), noticeTTL)
		return
	}
	e.deleteMessage(ctx, entities.MessageRef{ChannelID: cmd.Channel.ChannelID, MessageID: cmd.Channel.MessageID})

	inst := entities.NewEventInstance(cmd.CallerID, cmd.Channel.GuildID)
	embed := e.eventEmbed(ctx, inst)
	ref, err := e.messenger.SendEmbed(ctx, cmd.Channel.ChannelID, embed)
	if err != nil {
		log.Printf("❌ Création de l'événement de %s: %v", cmd.CallerID, err)
		return
	}
	inst.GuildEmbed = ref

	if dm, err := e.messenger.OpenPrivateChannel(ctx, cmd.CallerID); err != nil {
		log.Printf("⚠️ MP impossible pour %s: %v", cmd.CallerID, err)
	} else {
		if _, err := e.messenger.SendText(ctx, dm, e.text("event.continue_here", nil)); err != nil {
			log.Printf("⚠️ MP impossible pour %s: %v", cmd.CallerID, err)
		}
		if help, err := e.messenger.SendEmbed(ctx, dm, e.helpEmbed(inst.HelpPage)); err == nil {
			inst.HelpMessage = help
		}
		if mirror, err := e.messenger.SendEmbed(ctx, dm, embed); err == nil {
			inst.PrivateEmbed = mirror
		}
	}

	t := e.begin()
	if g := e.groups[cmd.CallerID]; g != nil {
		g.Add(inst)
	} else {
		e.groups[cmd.CallerID] = entities.NewEventGroup(cmd.CallerID, inst)
	}
	t.touch()
	t.commit(ctx)
	log.Printf("✅ Événement créé par %s", cmd.CallerID)
}

func (e *Engine) deleteActive(ctx context.Context, cmd entities.Command) {
	t := e.begin()
	defer t.commit(ctx)

	g := e.groups[cmd.CallerID]
	if g == nil {
		t.fail(cmd.Channel.ChannelID, domain.ErrNoEvent)
		return
	}
	t.removeInstance(g, g.Active())
	log.Printf("🗑️ Événement supprimé par %s", cmd.CallerID)
}

func (e *Engine) switchEvent(ctx context.Context, cmd entities.Command) {
	t := e.begin()
	defer t.commit(ctx)

	channelID := cmd.Channel.ChannelID
	g := e.groups[cmd.CallerID]
	switch {
	case g == nil:
		t.fail(channelID, domain.ErrNoEvent)
	case len(g.Events) == 1:
		t.fail(channelID, domain.ErrSingleEvent)
	case len(g.Events) == 2:
		_ = g.Switch(3 - g.ActiveIndex)
		t.touch()
		t.say(channelID, "event.switched", map[string]any{"Title": e.titleOf(g.Active())})
	default:
		t.cancelSwitchDialogs(cmd.CallerID)
		embed, markers := e.switchEmbed(g)
		owner := cmd.CallerID
		seq := e.nextSeq()
		e.switchRequests[owner] = seq
		t.later(func(ctx context.Context) { e.postSwitchChooser(ctx, channelID, owner, seq, embed, markers) })
	}
}

// switchEmbed lists every event but the active one. Caller holds mu.
func (e *Engine) switchEmbed(g *entities.EventGroup) (output.Embed, []entities.Symbol) {
	embed := output.Embed{
		Title:  e.text("switch.title", nil),
		Color:  colorRed,
		Footer: e.text("switch.footer", nil),
	}
	var markers []entities.Symbol
	for i, inst := range g.Events {
		if i+1 == g.ActiveIndex {
			continue
		}
		s, ok := entities.NumberSymbol(i + 1)
		if !ok {
			break
		}
		markers = append(markers, s)
		embed.Fields = append(embed.Fields, output.EmbedField{
			Name:  s.Mention() + " " + e.titleOf(inst),
			Value: e.descriptionOf(inst),
		})
	}
	return embed, markers
}

// postSwitchChooser sends the chooser of request seq, unless the organizer
// asked for another one meanwhile.
func (e *Engine) postSwitchChooser(ctx context.Context, channelID, ownerID string, seq uint64, embed output.Embed, markers []entities.Symbol) {
	ref, err := e.messenger.SendEmbed(ctx, channelID, embed)

	t := e.begin()
	latest := e.switchRequests[ownerID] == seq
	if latest {
		delete(e.switchRequests, ownerID)
	}
	if err != nil {
		t.commit(ctx)
		log.Printf("⚠️ Choix d'événement non envoyé: %v", err)
		return
	}
	if !latest || e.groups[ownerID] == nil {
		t.commit(ctx)
		e.deleteMessage(ctx, ref)
		return
	}
	t.cancelSwitchDialogs(ownerID)
	d := entities.NewSwitchDialog(ref, ownerID, e.now())
	e.switchDialogs[ref.MessageID] = d
	d.OnCancel(e.scheduler.AfterFunc(entities.DialogLifetime, func() { e.expireSwitchDialog(ref) }).Stop)
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

func (e *Engine) expireSwitchDialog(ref entities.MessageRef) {
	e.mu.Lock()
	_, ok := e.switchDialogs[ref.MessageID]
	delete(e.switchDialogs, ref.MessageID)
	e.mu.Unlock()
	if ok {
		e.deleteMessage(context.Background(), ref)
	}
}

func (e *Engine) titleOf(inst *entities.EventInstance) string {
	if inst == nil || inst.Title == nil {
		return e.text("embed.not_set", nil)
	}
	return *inst.Title
}

func (e *Engine) descriptionOf(inst *entities.EventInstance) string {
	if inst.Description == nil {
		return e.text("embed.not_set", nil)
	}
	return *inst.Description
}

// selectsEvent reports whether s picks an event of g in a switch chooser.
func selectsEvent(g *entities.EventGroup, s entities.Symbol) (int, bool) {
	n := emoji.NumberIndex(s.Code)
	if s.Kind != entities.SymbolBuiltin || n < 1 || n > len(g.Events) {
		return 0, false
	}
	return n, true
}

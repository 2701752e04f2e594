package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
	"eventbot/pkg/emoji"
	"eventbot/pkg/tz"
)

const (
	colorCyan = 0x00FFFF
	colorRed  = 0xFF0000
	colorHelp = 0x5865F2
)

// render queues the publication of inst as it is now. Caller holds mu.
func (t *txn) render(inst *entities.EventInstance, redraw bool) {
	e := t.e
	snap := inst.Clone()
	t.later(func(ctx context.Context) { e.publish(ctx, inst, snap, redraw) })
}

// publish edits the three messages of an event. A guild embed deleted by
// someone else is posted again and adopted.
func (e *Engine) publish(ctx context.Context, inst, snap *entities.EventInstance, redraw bool) {
	embed := e.eventEmbed(ctx, snap)

	if guild := snap.GuildEmbed; !guild.IsZero() {
		err := e.messenger.EditEmbed(ctx, guild, embed)
		switch {
		case errors.Is(err, output.ErrMessageNotFound):
			guild = e.resend(ctx, inst, guild, embed)
			redraw = !guild.IsZero()
		case err != nil:
			log.Printf("⚠️ Mise à jour de l'événement %s: %v", guild.MessageID, err)
		}
		if redraw {
			e.redrawMarkers(ctx, guild, snap.Markers())
		}
	}

	if mirror := snap.PrivateEmbed; !mirror.IsZero() {
		if err := e.messenger.EditEmbed(ctx, mirror, embed); err != nil {
			log.Printf("⚠️ Mise à jour de la copie privée %s: %v", mirror.MessageID, err)
		}
	}
	if help := snap.HelpMessage; !help.IsZero() {
		if err := e.messenger.EditEmbed(ctx, help, e.helpEmbed(snap.HelpPage)); err != nil {
			log.Printf("⚠️ Mise à jour de l'aide %s: %v", help.MessageID, err)
		}
	}
}

// resend posts the embed again in the channel of old and adopts it, unless
// the event moved or was deleted meanwhile. It returns the adopted message.
func (e *Engine) resend(ctx context.Context, inst *entities.EventInstance, old entities.MessageRef, embed output.Embed) entities.MessageRef {
	ref, err := e.messenger.SendEmbed(ctx, old.ChannelID, embed)
	if err != nil {
		log.Printf("❌ Republication de l'événement dans %s: %v", old.ChannelID, err)
		return entities.MessageRef{}
	}

	e.mu.Lock()
	adopted := inst.GuildEmbed == old && e.groupOf(inst) != nil
	if adopted {
		inst.GuildEmbed = ref
		e.dirty = true
	}
	e.mu.Unlock()

	if !adopted {
		e.deleteMessage(ctx, ref)
		return entities.MessageRef{}
	}
	return ref
}

// redrawMarkers clears every marker of the message then adds the expected ones.
func (e *Engine) redrawMarkers(ctx context.Context, ref entities.MessageRef, markers []entities.Symbol) {
	present, err := e.messenger.Reactions(ctx, ref)
	if err != nil {
		log.Printf("⚠️ Lecture des réactions de %s: %v", ref.MessageID, err)
	}
	for _, s := range present {
		if err := e.messenger.ClearReaction(ctx, ref, s); err != nil {
			log.Printf("⚠️ Retrait de la réaction %s sur %s: %v", s.Reaction(), ref.MessageID, err)
		}
	}
	for _, s := range markers {
		if err := e.messenger.AddReaction(ctx, ref, s); err != nil {
			log.Printf("⚠️ Ajout de la réaction %s sur %s: %v", s.Reaction(), ref.MessageID, err)
			if errors.Is(err, output.ErrMessageNotFound) {
				return
			}
		}
	}
}

// eventEmbed builds the embed shown in the guild and in the organizer's DM.
func (e *Engine) eventEmbed(ctx context.Context, inst *entities.EventInstance) output.Embed {
	notSet := e.text("embed.not_set", nil)
	embed := output.Embed{
		Title: e.titleOf(inst),
		Color: colorCyan,
	}

	date, start, stop := notSet, notSet, notSet
	zone := e.nowLocal()
	if !inst.EventDate.IsZero() {
		date = inst.EventDate.In(e.loc).Format(tz.DateLayout)
	}
	if !inst.StartTime.IsZero() {
		zone = inst.StartTime.In(e.loc)
		start = zone.Format(tz.ClockLayout)
		embed.Timestamp = inst.StartTime
	}
	if !inst.StopTime.IsZero() {
		stop = inst.StopTime.In(e.loc).Format(tz.ClockLayout)
	}
	info := fmt.Sprintf("%s %s\n%s %s - %s %s", emoji.CalendarSpiral, date, emoji.Clock2, start, stop, tz.Label(zone))

	embed.Fields = append(embed.Fields,
		output.EmbedField{Name: e.text("embed.event_info", nil), Value: info},
		output.EmbedField{Name: e.text("embed.description", nil), Value: e.descriptionOf(inst)},
	)

	for i, l := range inst.Locations {
		marker, _ := emoji.Number(i + 1)
		rows := make([]string, 0, len(l.Assignments))
		for _, a := range l.Assignments {
			rows = append(rows, l.PositionLabel(a.Position)+" "+e.messenger.DisplayName(ctx, inst.GuildID, a.UserID))
		}
		embed.Fields = append(embed.Fields, output.EmbedField{
			Name:   marker + " " + l.Title(),
			Value:  orDash(rows),
			Inline: true,
		})
	}

	embed.Fields = append(embed.Fields, output.EmbedField{Name: "\u200b", Value: "\u200b"})

	if inst.MaybeEnabled {
		embed.Fields = append(embed.Fields, e.rosterField(ctx, inst.GuildID, emoji.GreyQuestion, "embed.maybe", inst.MaybeUsers))
	}
	if inst.BackupEnabled {
		embed.Fields = append(embed.Fields, e.rosterField(ctx, inst.GuildID, emoji.Couch, "embed.backup", inst.BackupUsers))
	}
	return embed
}

func (e *Engine) rosterField(ctx context.Context, guildID, marker, key string, users []string) output.EmbedField {
	rows := make([]string, 0, len(users))
	for _, id := range users {
		rows = append(rows, e.messenger.DisplayName(ctx, guildID, id))
	}
	return output.EmbedField{
		Name:   fmt.Sprintf("%s %s (%d)", marker, e.text(key, nil), len(users)),
		Value:  orDash(rows),
		Inline: true,
	}
}

func orDash(rows []string) string {
	if len(rows) == 0 {
		return "-"
	}
	return strings.Join(rows, "\n")
}

// helpCommands lists, per help page, the subcommands and their i18n keys.
var helpCommands = map[int][]string{
	entities.HelpPageFirst:  {"title", "desc", "date", "start", "end", "next"},
	entities.HelpPageSecond: {"location", "toggle", "vote", "previous"},
}

// helpEmbed renders one page of the private creation help.
func (e *Engine) helpEmbed(page int) output.Embed {
	cmds, ok := helpCommands[page]
	if !ok {
		page = entities.HelpPageFirst
		cmds = helpCommands[page]
	}
	embed := output.Embed{
		Title:       e.text("help.title", map[string]any{"Page": page, "Pages": len(helpCommands)}),
		Description: e.text("help.description", nil),
		Color:       colorHelp,
	}
	for _, c := range cmds {
		embed.Fields = append(embed.Fields, output.EmbedField{
			Name:  fmt.Sprintf("`%sevent %s`", e.prefix, c),
			Value: e.text("help.cmd."+c, map[string]any{"Prefix": e.prefix}),
		})
	}
	return embed
}

// commandsEmbed is the overview shown by "event" and "event help".
func (e *Engine) commandsEmbed() output.Embed {
	embed := output.Embed{
		Title:       e.text("help.overview.title", nil),
		Description: e.text("help.overview.description", map[string]any{"Prefix": e.prefix}),
		Color:       colorHelp,
		Timestamp:   e.now(),
	}
	for _, c := range []string{"create", "delete", "switch", "move"} {
		embed.Fields = append(embed.Fields, output.EmbedField{
			Name:  fmt.Sprintf("`%sevent %s`", e.prefix, c),
			Value: e.text("help.cmd."+c, map[string]any{"Prefix": e.prefix}),
		})
	}
	return embed
}

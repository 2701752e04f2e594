package application

import (
	"context"
	"errors"
	"log"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

// move reposts the guild embed in the mentioned channel. The caller waits,
// at most moveTimeout, until the new message has been adopted so that the
// following render targets it.
func (e *Engine) move(ctx context.Context, cmd entities.Command) {
	channelID := cmd.Channel.ChannelID

	t := e.begin()
	g := e.groups[cmd.CallerID]
	var inst *entities.EventInstance
	switch {
	case g == nil:
		t.say(channelID, "event.create_first", nil)
	case cmd.Channel.IsPrivate:
		t.fail(channelID, domain.ErrGuildOnly)
	case len(cmd.Channel.MentionedChannels) != 1:
		t.fail(channelID, domain.ErrChannelMention)
	default:
		inst = g.Active()
	}
	if inst == nil {
		t.commit(ctx)
		return
	}
	snap := inst.Clone()
	t.commit(ctx)

	target := cmd.Channel.MentionedChannels[0]
	done := make(chan error, 1)
	go func() {
		done <- e.repost(ctx, inst, snap, target)
	}()

	wait, cancel := context.WithTimeout(ctx, e.moveTimeout)
	defer cancel()

	var err error
	select {
	case err = <-done:
	case <-wait.Done():
		err = domain.ErrMoveTimeout
	}

	t = e.begin()
	defer t.commit(ctx)
	if err != nil {
		t.fail(channelID, err)
		return
	}
	if e.groupOf(inst) != nil {
		t.render(inst, true)
	}
}

// repost sends the embed to target, adopts the new message and deletes the
// old one. It returns once the new message is adopted.
func (e *Engine) repost(ctx context.Context, inst *entities.EventInstance, snap *entities.EventInstance, target string) error {
	ref, err := e.messenger.SendEmbed(ctx, target, e.eventEmbed(ctx, snap))
	if err != nil {
		if errors.Is(err, output.ErrMissingPermissions) {
			return domain.ErrMissingPermissions
		}
		log.Printf("❌ Déplacement de l'événement vers %s: %v", target, err)
		return err
	}

	t := e.begin()
	old := inst.GuildEmbed
	live := e.groupOf(inst) != nil
	if live {
		inst.GuildEmbed = ref
		t.touch()
	}
	t.commit(ctx)

	if !live {
		e.deleteMessage(ctx, ref)
		return domain.ErrNoEvent
	}
	e.run(func() { e.deleteMessage(ctx, old) })
	return nil
}

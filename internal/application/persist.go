package application

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"eventbot/internal/domain/entities"
)

// maxConcurrentFetches bounds the message lookups done by Restore.
const maxConcurrentFetches = 8

// Restore loads the stored groups and checks that every stored message still
// exists. Any failure is returned: the engine must not run on partial state.
func (e *Engine) Restore(ctx context.Context) error {
	groups, err := e.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}

	for _, g := range groups {
		if g.Empty() || g.ActiveIndex < 1 || g.ActiveIndex > len(g.Events) {
			return fmt.Errorf("restore events of %s: active index %d out of range", g.OrganizerID, g.ActiveIndex)
		}
		for _, inst := range g.Events {
			if inst.GuildEmbed.IsZero() {
				return fmt.Errorf("restore event of %s: missing guild message", inst.OrganizerID)
			}
		}
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentFetches)
	for _, g := range groups {
		for _, inst := range g.Events {
			for name, ref := range map[string]entities.MessageRef{
				"guild message":   inst.GuildEmbed,
				"private message": inst.PrivateEmbed,
				"help message":    inst.HelpMessage,
			} {
				if ref.IsZero() {
					continue
				}
				owner := inst.OrganizerID
				eg.Go(func() error {
					if err := e.messenger.FetchMessage(gctx, ref); err != nil {
						return fmt.Errorf("restore event of %s: %s %s: %w", owner, name, ref.MessageID, err)
					}
					return nil
				})
			}
		}
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, g := range groups {
		for _, inst := range g.Events {
			guildID := inst.GuildID
			for _, l := range inst.Locations {
				l.ResolveSymbols(func(name string) (entities.Symbol, bool) {
					return e.messenger.CustomEmoji(ctx, guildID, name)
				})
			}
		}
	}

	e.mu.Lock()
	for _, g := range groups {
		e.groups[g.OrganizerID] = g
	}
	e.dirty = false
	e.mu.Unlock()

	log.Printf("✅ %d organisateur(s) restauré(s)", len(groups))
	return nil
}

// snapshot deep copies every group. Caller holds mu.
func (e *Engine) snapshot() []*entities.EventGroup {
	out := make([]*entities.EventGroup, 0, len(e.groups))
	for _, g := range e.groups {
		out = append(out, g.Clone())
	}
	return out
}

// Flush saves the groups when they changed since the last save.
func (e *Engine) Flush(ctx context.Context) error {
	e.mu.Lock()
	if !e.dirty {
		e.mu.Unlock()
		return nil
	}
	groups := e.snapshot()
	e.dirty = false
	e.mu.Unlock()

	if err := e.store.SaveAll(ctx, groups); err != nil {
		e.mu.Lock()
		e.dirty = true
		e.mu.Unlock()
		return fmt.Errorf("save events: %w", err)
	}
	return nil
}

// Shutdown stops every pending dialog timer and saves the groups.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	for id, d := range e.switchDialogs {
		d.Cancel()
		delete(e.switchDialogs, id)
	}
	for _, g := range e.groups {
		for _, inst := range g.Events {
			for _, d := range inst.TakeDialogs() {
				d.Cancel()
			}
		}
	}
	groups := e.snapshot()
	e.dirty = false
	e.mu.Unlock()

	if err := e.store.SaveAll(ctx, groups); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	log.Printf("💾 %d organisateur(s) sauvegardé(s)", len(groups))
	return nil
}

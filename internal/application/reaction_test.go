package application

import (
	"slices"
	"testing"

	"eventbot/internal/domain/entities"
	"eventbot/pkg/emoji"
)

// votingEvent creates an event of u1 with HUB: North, East and voting open.
func votingEvent(t *testing.T, h *harness) *entities.EventInstance {
	t.Helper()
	h.run(guildCmd("u1", "create"), guildCmd("u1", "location HUB: North, East"), guildCmd("u1", "vote"))
	return h.active(t, "u1")
}

func TestMaybeThenPosition(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	inst := votingEvent(t, h)

	if res := h.react(inst.GuildEmbed, "u2", entities.Builtin(emoji.GreyQuestion)); res != entities.Handled {
		t.Fatalf("expected Handled, got %v", res)
	}
	if !slices.Equal(inst.MaybeUsers, []string{"u2"}) {
		t.Fatalf("expected u2 in maybe, got %v", inst.MaybeUsers)
	}

	h.react(inst.GuildEmbed, "u2", entities.Builtin(emoji.One))
	chooser := h.m.lastEmbed("dm-u2")
	if chooser == nil {
		t.Fatal("expected a position chooser in the private channel")
	}
	if got := h.m.markers(chooser.Ref.MessageID); len(got) != 2 {
		t.Errorf("expected the 2 position markers, got %v", got)
	}

	if res := h.react(chooser.Ref, "u2", entities.Builtin(emoji.Two)); res != entities.Handled {
		t.Fatalf("expected Handled, got %v", res)
	}
	hub := inst.Locations[0]
	if len(hub.Assignments) != 1 || hub.Assignments[0] != (entities.Assignment{UserID: "u2", Position: "East"}) {
		t.Errorf("expected u2 on East, got %v", hub.Assignments)
	}
	if len(inst.MaybeUsers) != 0 {
		t.Errorf("expected u2 out of maybe, got %v", inst.MaybeUsers)
	}
	if h.m.alive(chooser.Ref.MessageID) {
		t.Error("expected the chooser to be deleted")
	}
	if n := h.s.fire(entities.DialogLifetime); n != 0 {
		t.Errorf("the expiry timer should be stopped, %d fired", n)
	}

	edits := h.m.edits[inst.GuildEmbed.MessageID]
	hubField := edits[len(edits)-1].Fields[2]
	if hubField.Name != emoji.One+" HUB (1)" || hubField.Value != "East: name-u2" {
		t.Errorf("unexpected HUB field %+v", hubField)
	}
}

func TestPositionChooserSupersedes(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.run(guildCmd("u1", "create"), guildCmd("u1", "location HUB: North, East"), guildCmd("u1", "location TWR: Ground"), guildCmd("u1", "vote"))
	inst := h.active(t, "u1")

	h.react(inst.GuildEmbed, "u2", entities.Builtin(emoji.One))
	first := h.m.lastEmbed("dm-u2")
	h.react(inst.GuildEmbed, "u2", entities.Builtin(emoji.Two))
	second := h.m.lastEmbed("dm-u2")

	if first.Ref == second.Ref {
		t.Fatal("expected two choosers")
	}
	if h.m.alive(first.Ref.MessageID) {
		t.Error("expected the first chooser to be deleted")
	}
	if n := inst.Locations[0].DialogCount() + inst.Locations[1].DialogCount(); n != 1 {
		t.Errorf("expected a single live chooser, got %d", n)
	}

	if res := h.react(first.Ref, "u2", entities.Builtin(emoji.One)); res == entities.Handled {
		t.Error("a superseded chooser must not accept a selection")
	}
	if len(inst.Locations[0].Assignments) != 0 {
		t.Errorf("unexpected HUB assignments %v", inst.Locations[0].Assignments)
	}

	if res := h.react(second.Ref, "u2", entities.Builtin(emoji.One)); res != entities.Handled {
		t.Errorf("expected Handled, got %v", res)
	}
	if got := inst.Locations[1].Assignments; len(got) != 1 || got[0].Position != "Ground" {
		t.Errorf("expected u2 on Ground, got %v", got)
	}
}

func TestPositionChooserOutOfOrderSends(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.run(guildCmd("u1", "create"), guildCmd("u1", "location HUB: North, East"), guildCmd("u1", "location TWR: Ground"), guildCmd("u1", "vote"))
	inst := h.active(t, "u1")

	var jobs []func()
	h.e.run = func(f func()) { jobs = append(jobs, f) }

	h.react(inst.GuildEmbed, "u2", entities.Builtin(emoji.One))
	h.react(inst.GuildEmbed, "u2", entities.Builtin(emoji.Two))
	if len(jobs) != 2 {
		t.Fatalf("expected 2 queued jobs, got %d", len(jobs))
	}

	// The TWR chooser goes out before the HUB one.
	queued := jobs
	jobs = nil
	queued[1]()
	queued[0]()
	for len(jobs) > 0 {
		f := jobs[0]
		jobs = jobs[1:]
		f()
	}

	if n := inst.Locations[0].DialogCount(); n != 0 {
		t.Errorf("expected no HUB chooser, got %d", n)
	}
	if n := inst.Locations[1].DialogCount(); n != 1 {
		t.Errorf("expected one TWR chooser, got %d", n)
	}
	if late := h.m.lastEmbed("dm-u2"); late == nil || h.m.alive(late.Ref.MessageID) {
		t.Error("expected the older request's chooser to be deleted once sent")
	}
	if n := h.s.pending(entities.DialogLifetime); n != 1 {
		t.Errorf("expected a single dialog timer, got %d", n)
	}
}

func TestPositionChooserRejectsOthers(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	inst := votingEvent(t, h)

	h.react(inst.GuildEmbed, "u2", entities.Builtin(emoji.One))
	chooser := h.m.lastEmbed("dm-u2")

	if res := h.react(chooser.Ref, "u3", entities.Builtin(emoji.One)); res != entities.NotForThisEngine {
		t.Errorf("expected NotForThisEngine for another user, got %v", res)
	}
	if res := h.react(chooser.Ref, "u2", entities.Builtin(emoji.Five)); res != entities.NotForThisEngine {
		t.Errorf("expected NotForThisEngine for a foreign marker, got %v", res)
	}
	if n := len(h.m.stripsOf(chooser.Ref.MessageID)); n != 2 {
		t.Errorf("expected both reactions stripped, got %d", n)
	}
	if len(inst.Locations[0].Assignments) != 0 {
		t.Errorf("unexpected assignments %v", inst.Locations[0].Assignments)
	}
	if !h.m.alive(chooser.Ref.MessageID) || inst.Locations[0].DialogCount() != 1 {
		t.Error("the chooser must stay live")
	}
}

func TestPositionChooserExpires(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	inst := votingEvent(t, h)

	h.react(inst.GuildEmbed, "u2", entities.Builtin(emoji.One))
	chooser := h.m.lastEmbed("dm-u2")

	if n := h.s.fire(entities.DialogLifetime); n != 1 {
		t.Fatalf("expected one expiry, got %d", n)
	}
	if h.m.alive(chooser.Ref.MessageID) {
		t.Error("expected the chooser to be deleted on expiry")
	}
	if res := h.react(chooser.Ref, "u2", entities.Builtin(emoji.One)); res != entities.NotForThisEngine {
		t.Errorf("expected NotForThisEngine after expiry, got %v", res)
	}
	if len(inst.Locations[0].Assignments) != 0 {
		t.Errorf("unexpected assignments %v", inst.Locations[0].Assignments)
	}
}

func TestCustomEmojiPositions(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.m.emojis["North"] = entities.Custom("77", "North")
	inst := votingEvent(t, h)

	h.react(inst.GuildEmbed, "u2", entities.Builtin(emoji.One))
	chooser := h.m.lastEmbed("dm-u2")
	got := h.m.markers(chooser.Ref.MessageID)
	if len(got) != 2 || got[0].Kind != entities.SymbolCustom || !got[1].Is(emoji.Two) {
		t.Fatalf("unexpected chooser markers %v", got)
	}

	if res := h.react(chooser.Ref, "u2", entities.Custom("77", "North")); res != entities.Handled {
		t.Fatalf("expected Handled, got %v", res)
	}
	edits := h.m.edits[inst.GuildEmbed.MessageID]
	if v := edits[len(edits)-1].Fields[2].Value; v != "<:North:77> name-u2" {
		t.Errorf("unexpected row %q", v)
	}
}

func TestVoteClosedStripsOnly(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.run(guildCmd("u1", "create"), guildCmd("u1", "location HUB: North"))
	inst := h.active(t, "u1")

	for _, s := range []string{emoji.GreyQuestion, emoji.Couch, emoji.One} {
		if res := h.react(inst.GuildEmbed, "u2", entities.Builtin(s)); res != entities.Handled {
			t.Errorf("expected Handled for %q, got %v", s, res)
		}
	}
	if len(inst.MaybeUsers)+len(inst.BackupUsers) != 0 || h.m.lastEmbed("dm-u2") != nil {
		t.Error("closed voting must not change anything")
	}
	if n := len(h.m.stripsOf(inst.GuildEmbed.MessageID)); n != 3 {
		t.Errorf("expected 3 stripped reactions, got %d", n)
	}
}

func TestClearMarker(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	inst := votingEvent(t, h)

	h.react(inst.GuildEmbed, "u2", entities.Builtin(emoji.Couch))
	if !slices.Equal(inst.BackupUsers, []string{"u2"}) {
		t.Fatalf("expected u2 in backup, got %v", inst.BackupUsers)
	}
	h.react(inst.GuildEmbed, "u2", entities.Builtin(emoji.X))
	if len(inst.BackupUsers) != 0 {
		t.Errorf("expected u2 cleared, got %v", inst.BackupUsers)
	}
	h.react(inst.GuildEmbed, "u2", entities.Builtin(emoji.X))
}

func TestWastebasket(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.run(guildCmd("u1", "create"), guildCmd("u2", "create"))
	first := h.active(t, "u1")
	second := h.active(t, "u2")

	if res := h.react(first.GuildEmbed, "u9", entities.Builtin(emoji.Wastebasket)); res != entities.Handled {
		t.Errorf("expected Handled, got %v", res)
	}
	if h.group("u1") == nil {
		t.Fatal("only the creator or the owner may delete")
	}
	if got := h.m.texts("c1"); !contains(got, "errors.not_creator") {
		t.Errorf("expected not_creator notice, got %v", got)
	}
	if n := h.s.pending(deleteNoticeTTL); n != 1 {
		t.Errorf("expected the notice to expire after %v, got %d timers", deleteNoticeTTL, n)
	}

	h.react(first.GuildEmbed, "u1", entities.Builtin(emoji.Wastebasket+emoji.VariationSelector))
	if h.group("u1") != nil || h.m.alive(first.GuildEmbed.MessageID) {
		t.Error("expected the creator to delete the event")
	}

	h.react(second.GuildEmbed, "owner", entities.Builtin(emoji.Wastebasket))
	if h.group("u2") != nil {
		t.Error("expected the owner to delete the event")
	}

	if res := h.react(second.GuildEmbed, "u2", entities.Builtin(emoji.Wastebasket)); res != entities.NotForThisEngine {
		t.Errorf("a deleted event's message is not ours anymore, got %v", res)
	}
}

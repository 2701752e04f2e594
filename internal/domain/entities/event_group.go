package entities

import "eventbot/internal/domain"

// EventGroup holds every event of one organizer and which one is active.
type EventGroup struct {
	OrganizerID string
	ActiveIndex int // 1-based
	Events      []*EventInstance
}

func NewEventGroup(organizerID string, first *EventInstance) *EventGroup {
	return &EventGroup{OrganizerID: organizerID, ActiveIndex: 1, Events: []*EventInstance{first}}
}

// Active returns the active event, or nil for an empty group.
func (g *EventGroup) Active() *EventInstance {
	if g.ActiveIndex < 1 || g.ActiveIndex > len(g.Events) {
		return nil
	}
	return g.Events[g.ActiveIndex-1]
}

// Add appends e and makes it active.
func (g *EventGroup) Add(e *EventInstance) {
	g.Events = append(g.Events, e)
	g.ActiveIndex = len(g.Events)
}

// Remove deletes e from the group. The active pointer keeps designating the same event
// when possible, otherwise it is clamped to the new last index.
func (g *EventGroup) Remove(e *EventInstance) bool {
	for i, ev := range g.Events {
		if ev != e {
			continue
		}
		g.Events = append(g.Events[:i], g.Events[i+1:]...)
		if i+1 < g.ActiveIndex {
			g.ActiveIndex--
		}
		if g.ActiveIndex > len(g.Events) {
			g.ActiveIndex = len(g.Events)
		}
		return true
	}
	return false
}

// Switch activates the n-th event (1-based).
func (g *EventGroup) Switch(n int) error {
	if n < 1 || n > len(g.Events) {
		return domain.ErrNoEvent
	}
	g.ActiveIndex = n
	return nil
}

func (g *EventGroup) Empty() bool {
	return len(g.Events) == 0
}

// Index returns the 1-based index of e, or 0.
func (g *EventGroup) Index(e *EventInstance) int {
	for i, ev := range g.Events {
		if ev == e {
			return i + 1
		}
	}
	return 0
}

func (g *EventGroup) Clone() *EventGroup {
	c := &EventGroup{OrganizerID: g.OrganizerID, ActiveIndex: g.ActiveIndex}
	c.Events = make([]*EventInstance, len(g.Events))
	for i, e := range g.Events {
		c.Events[i] = e.Clone()
	}
	return c
}

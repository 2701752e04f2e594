package entities

import (
	"strings"
	"time"

	"eventbot/internal/domain"
	"eventbot/pkg/emoji"
	"eventbot/pkg/tz"
)

const MaxLocations = 10

// Help pages shown in the organizer's private channel.
const (
	HelpPageFirst  = 1
	HelpPageSecond = 2
)

// EventInstance is one event under construction or live.
// Zero times and nil strings mean "not set".
type EventInstance struct {
	OrganizerID string
	GuildID     string

	Title       *string
	Description *string
	EventDate   time.Time
	StartTime   time.Time
	StopTime    time.Time

	Locations     []*Location
	MaybeUsers    []string
	BackupUsers   []string
	MaybeEnabled  bool
	BackupEnabled bool
	VoteOpen      bool
	HelpPage      int

	GuildEmbed   MessageRef
	PrivateEmbed MessageRef
	HelpMessage  MessageRef
}

func NewEventInstance(organizerID, guildID string) *EventInstance {
	return &EventInstance{
		OrganizerID:   organizerID,
		GuildID:       guildID,
		MaybeEnabled:  true,
		BackupEnabled: true,
		HelpPage:      HelpPageFirst,
	}
}

// SetTitle sets the title; an empty value unsets it.
func (e *EventInstance) SetTitle(v string) {
	e.Title = optional(v)
}

// SetDescription sets the description; an empty value unsets it.
func (e *EventInstance) SetDescription(v string) {
	e.Description = optional(v)
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// SetDate parses DD.MM.YYYY and moves the already set start/stop times onto that day.
func (e *EventInstance) SetDate(arg string, loc *time.Location) error {
	day, err := tz.ParseDate(arg, loc)
	if err != nil {
		return domain.ErrInvalidDate
	}
	e.EventDate = day
	if !e.StartTime.IsZero() {
		e.StartTime = tz.Combine(day, e.StartTime.Hour(), e.StartTime.Minute())
	}
	if !e.StopTime.IsZero() {
		e.StopTime = tz.Combine(day, e.StopTime.Hour(), e.StopTime.Minute())
	}
	return nil
}

// SetStart parses HH:mm on the event date, or on today when no date is set.
func (e *EventInstance) SetStart(arg string, now time.Time) error {
	t, err := e.clockOnEventDay(arg, now)
	if err != nil {
		return err
	}
	e.StartTime = t
	return nil
}

// SetStop parses HH:mm on the event date, or on today when no date is set.
func (e *EventInstance) SetStop(arg string, now time.Time) error {
	t, err := e.clockOnEventDay(arg, now)
	if err != nil {
		return err
	}
	e.StopTime = t
	return nil
}

func (e *EventInstance) clockOnEventDay(arg string, now time.Time) (time.Time, error) {
	h, m, err := tz.ParseClock(arg)
	if err != nil {
		return time.Time{}, domain.ErrInvalidTime
	}
	day := e.EventDate
	if day.IsZero() {
		day = now
	}
	return tz.Combine(day, h, m), nil
}

// Location returns the location named name and its index, or nil and -1.
func (e *EventInstance) Location(name string) (*Location, int) {
	for i, l := range e.Locations {
		if l.Name == name {
			return l, i
		}
	}
	return nil, -1
}

// PutLocation adds l, replacing a location of the same name. The replaced location
// is returned so that its dialogs can be cancelled.
func (e *EventInstance) PutLocation(l *Location) (*Location, error) {
	if len(e.Locations) >= MaxLocations {
		return nil, domain.ErrTooManyLocations
	}
	old, i := e.Location(l.Name)
	if old != nil {
		e.Locations = append(e.Locations[:i], e.Locations[i+1:]...)
	}
	e.Locations = append(e.Locations, l)
	return old, nil
}

// RemoveLocation removes the location named name.
func (e *EventInstance) RemoveLocation(name string) (*Location, error) {
	l, i := e.Location(name)
	if l == nil {
		return nil, domain.ErrUnknownLocation
	}
	e.Locations = append(e.Locations[:i], e.Locations[i+1:]...)
	return l, nil
}

// ClearLocations removes every location and returns them.
func (e *EventInstance) ClearLocations() []*Location {
	removed := e.Locations
	e.Locations = nil
	return removed
}

// Toggle flips the maybe or backup roster and empties it.
func (e *EventInstance) Toggle(kind string) error {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "maybe":
		e.MaybeEnabled = !e.MaybeEnabled
		e.MaybeUsers = nil
	case "backup":
		e.BackupEnabled = !e.BackupEnabled
		e.BackupUsers = nil
	default:
		return domain.ErrUnknownToggle
	}
	return nil
}

// RemoveUser drops the user from every roster and location.
func (e *EventInstance) RemoveUser(userID string) {
	e.MaybeUsers = without(e.MaybeUsers, userID)
	e.BackupUsers = without(e.BackupUsers, userID)
	for _, l := range e.Locations {
		l.DeleteUser(userID)
	}
}

func (e *EventInstance) JoinMaybe(userID string) {
	e.RemoveUser(userID)
	e.MaybeUsers = append(e.MaybeUsers, userID)
}

func (e *EventInstance) JoinBackup(userID string) {
	e.RemoveUser(userID)
	e.BackupUsers = append(e.BackupUsers, userID)
}

// AssignPosition gives the user a position of l, dropping any other slot they held.
func (e *EventInstance) AssignPosition(l *Location, userID, position string) {
	e.RemoveUser(userID)
	l.Assign(userID, position)
}

func without(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// Markers returns the reaction markers the guild embed must carry.
func (e *EventInstance) Markers() []Symbol {
	if !e.VoteOpen {
		return nil
	}
	var out []Symbol
	for i := range e.Locations {
		s, _ := NumberSymbol(i + 1)
		out = append(out, s)
	}
	if e.MaybeEnabled {
		out = append(out, Builtin(emoji.GreyQuestion))
	}
	if e.BackupEnabled {
		out = append(out, Builtin(emoji.Couch))
	}
	return append(out, Builtin(emoji.X))
}

// TakeDialogs unregisters every position dialog of the event.
func (e *EventInstance) TakeDialogs() []*Dialog {
	var out []*Dialog
	for _, l := range e.Locations {
		out = append(out, l.TakeDialogs()...)
	}
	return out
}

// FindDialog returns the location owning the position dialog posted as messageID.
func (e *EventInstance) FindDialog(messageID string) (*Location, *Dialog) {
	for _, l := range e.Locations {
		if d, ok := l.Dialog(messageID); ok {
			return l, d
		}
	}
	return nil, nil
}

// Clone copies the persistent state of the event.
func (e *EventInstance) Clone() *EventInstance {
	c := *e
	c.Title = cloneString(e.Title)
	c.Description = cloneString(e.Description)
	c.MaybeUsers = append([]string(nil), e.MaybeUsers...)
	c.BackupUsers = append([]string(nil), e.BackupUsers...)
	c.Locations = make([]*Location, len(e.Locations))
	for i, l := range e.Locations {
		c.Locations[i] = l.Clone()
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

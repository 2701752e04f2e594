package entities

import (
	"fmt"
	"strings"

	"eventbot/internal/domain"
)

const MaxPositions = 10

// Assignment is a user holding one position of a location.
type Assignment struct {
	UserID   string
	Position string
}

// Location is one voting topic of an event, split into positions.
type Location struct {
	Name        string
	Positions   []string
	Symbols     []Symbol // parallel to Positions
	Assignments []Assignment

	dialogs map[string]*Dialog // PositionChooser dialogs by message ID
}

// NewLocation builds a location whose positions use the numbered markers.
// Call ResolveSymbols to switch to the guild custom emojis where available.
func NewLocation(name string, positions []string) (*Location, error) {
	if len(positions) > MaxPositions {
		return nil, domain.ErrTooManyPositions
	}
	l := &Location{
		Name:      name,
		Positions: append([]string(nil), positions...),
		dialogs:   make(map[string]*Dialog),
	}
	l.ResolveSymbols(nil)
	return l, nil
}

// ParseLocation parses "<Name>: <Pos1>, <Pos2>, ...".
func ParseLocation(arg string) (*Location, error) {
	name, rest, ok := strings.Cut(arg, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return nil, domain.ErrLocationFormat
	}
	var positions []string
	for _, p := range strings.Split(rest, ",") {
		if p = strings.TrimSpace(p); p != "" {
			positions = append(positions, p)
		}
	}
	if len(positions) == 0 {
		return nil, domain.ErrLocationFormat
	}
	return NewLocation(name, positions)
}

// ResolveSymbols picks for every position the custom emoji named like the position,
// falling back to the numbered marker of its index. lookup may be nil.
func (l *Location) ResolveSymbols(lookup func(name string) (Symbol, bool)) {
	l.Symbols = make([]Symbol, len(l.Positions))
	for i, p := range l.Positions {
		if lookup != nil {
			if s, ok := lookup(p); ok {
				l.Symbols[i] = s
				continue
			}
		}
		l.Symbols[i], _ = NumberSymbol(i + 1)
	}
}

// SymbolIndex returns the position index matching s, or -1.
func (l *Location) SymbolIndex(s Symbol) int {
	for i, sym := range l.Symbols {
		if sym.Equal(s) {
			return i
		}
	}
	return -1
}

// Assign appends the user at position. The caller removes the user from every other
// roster of the event first.
func (l *Location) Assign(userID, position string) {
	l.DeleteUser(userID)
	l.Assignments = append(l.Assignments, Assignment{UserID: userID, Position: position})
}

// DeleteUser removes the user's assignment; no-op when absent.
func (l *Location) DeleteUser(userID string) {
	for i, a := range l.Assignments {
		if a.UserID == userID {
			l.Assignments = append(l.Assignments[:i], l.Assignments[i+1:]...)
			return
		}
	}
}

// Title returns "Name (count)".
func (l *Location) Title() string {
	return fmt.Sprintf("%s (%d)", l.Name, len(l.Assignments))
}

// PositionLabel is the prefix shown in front of a user holding position.
func (l *Location) PositionLabel(position string) string {
	for i, p := range l.Positions {
		if p == position && i < len(l.Symbols) && l.Symbols[i].Kind == SymbolCustom {
			return l.Symbols[i].Mention()
		}
	}
	return position + ":"
}

func (l *Location) Dialog(messageID string) (*Dialog, bool) {
	d, ok := l.dialogs[messageID]
	return d, ok
}

func (l *Location) AddDialog(d *Dialog) {
	if l.dialogs == nil {
		l.dialogs = make(map[string]*Dialog)
	}
	l.dialogs[d.Message.MessageID] = d
}

// RemoveDialog unregisters the dialog. ok is false when it was already gone.
func (l *Location) RemoveDialog(messageID string) (*Dialog, bool) {
	d, ok := l.dialogs[messageID]
	if ok {
		delete(l.dialogs, messageID)
	}
	return d, ok
}

// TakeDialogs unregisters and returns every dialog of the location.
func (l *Location) TakeDialogs() []*Dialog {
	out := make([]*Dialog, 0, len(l.dialogs))
	for id, d := range l.dialogs {
		out = append(out, d)
		delete(l.dialogs, id)
	}
	return out
}

// TakeDialogsOf unregisters and returns the dialogs owned by userID.
func (l *Location) TakeDialogsOf(userID string) []*Dialog {
	var out []*Dialog
	for id, d := range l.dialogs {
		if d.OwnerID == userID {
			out = append(out, d)
			delete(l.dialogs, id)
		}
	}
	return out
}

func (l *Location) DialogCount() int {
	return len(l.dialogs)
}

// Clone copies the persistent state; live dialogs are not copied.
func (l *Location) Clone() *Location {
	return &Location{
		Name:        l.Name,
		Positions:   append([]string(nil), l.Positions...),
		Symbols:     append([]Symbol(nil), l.Symbols...),
		Assignments: append([]Assignment(nil), l.Assignments...),
		dialogs:     make(map[string]*Dialog),
	}
}

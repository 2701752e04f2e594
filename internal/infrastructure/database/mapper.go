package database

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"eventbot/internal/domain/entities"
)

const (
	rosterMaybe  = "maybe"
	rosterBackup = "backup"
)

type groupRow struct {
	OrganizerID string `db:"organizer_id"`
	ActiveIndex int32  `db:"active_index"`
}

type eventRow struct {
	OrganizerID      string             `db:"organizer_id"`
	Position         int32              `db:"position"`
	GuildID          string             `db:"guild_id"`
	Title            pgtype.Text        `db:"title"`
	Description      pgtype.Text        `db:"description"`
	EventDate        pgtype.Timestamptz `db:"event_date"`
	StartTime        pgtype.Timestamptz `db:"start_time"`
	StopTime         pgtype.Timestamptz `db:"stop_time"`
	MaybeEnabled     bool               `db:"maybe_enabled"`
	BackupEnabled    bool               `db:"backup_enabled"`
	VoteOpen         bool               `db:"vote_open"`
	HelpPage         int32              `db:"help_page"`
	GuildChannelID   string             `db:"guild_channel_id"`
	GuildMessageID   string             `db:"guild_message_id"`
	PrivateChannelID string             `db:"private_channel_id"`
	PrivateMessageID string             `db:"private_message_id"`
	HelpChannelID    string             `db:"help_channel_id"`
	HelpMessageID    string             `db:"help_message_id"`
}

type rosterRow struct {
	OrganizerID   string `db:"organizer_id"`
	EventPosition int32  `db:"event_position"`
	Kind          string `db:"kind"`
	Ord           int32  `db:"ord"`
	UserID        string `db:"user_id"`
}

type locationRow struct {
	OrganizerID   string   `db:"organizer_id"`
	EventPosition int32    `db:"event_position"`
	Ord           int32    `db:"ord"`
	Name          string   `db:"name"`
	Positions     []string `db:"positions"`
}

type assignmentRow struct {
	OrganizerID   string `db:"organizer_id"`
	EventPosition int32  `db:"event_position"`
	LocationOrd   int32  `db:"location_ord"`
	Ord           int32  `db:"ord"`
	UserID        string `db:"user_id"`
	Position      string `db:"position"`
}

// snapshotRows is the table-by-table form of a snapshot.
type snapshotRows struct {
	groups      []groupRow
	events      []eventRow
	rosters     []rosterRow
	locations   []locationRow
	assignments []assignmentRow
}

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

func timeToPgtypeTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func textToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}

func ptrToText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// flatten turns the groups into rows. Positions and ords are 1-based.
func flatten(groups []*entities.EventGroup) snapshotRows {
	var rows snapshotRows
	for _, g := range groups {
		rows.groups = append(rows.groups, groupRow{OrganizerID: g.OrganizerID, ActiveIndex: int32(g.ActiveIndex)})
		for i, inst := range g.Events {
			pos := int32(i + 1)
			rows.events = append(rows.events, eventToRow(g.OrganizerID, pos, inst))
			for j, u := range inst.MaybeUsers {
				rows.rosters = append(rows.rosters, rosterRow{g.OrganizerID, pos, rosterMaybe, int32(j + 1), u})
			}
			for j, u := range inst.BackupUsers {
				rows.rosters = append(rows.rosters, rosterRow{g.OrganizerID, pos, rosterBackup, int32(j + 1), u})
			}
			for j, l := range inst.Locations {
				ord := int32(j + 1)
				rows.locations = append(rows.locations, locationRow{g.OrganizerID, pos, ord, l.Name, l.Positions})
				for k, a := range l.Assignments {
					rows.assignments = append(rows.assignments, assignmentRow{g.OrganizerID, pos, ord, int32(k + 1), a.UserID, a.Position})
				}
			}
		}
	}
	return rows
}

func eventToRow(organizerID string, pos int32, inst *entities.EventInstance) eventRow {
	return eventRow{
		OrganizerID:      organizerID,
		Position:         pos,
		GuildID:          inst.GuildID,
		Title:            ptrToText(inst.Title),
		Description:      ptrToText(inst.Description),
		EventDate:        timeToPgtypeTimestamptz(inst.EventDate),
		StartTime:        timeToPgtypeTimestamptz(inst.StartTime),
		StopTime:         timeToPgtypeTimestamptz(inst.StopTime),
		MaybeEnabled:     inst.MaybeEnabled,
		BackupEnabled:    inst.BackupEnabled,
		VoteOpen:         inst.VoteOpen,
		HelpPage:         int32(inst.HelpPage),
		GuildChannelID:   inst.GuildEmbed.ChannelID,
		GuildMessageID:   inst.GuildEmbed.MessageID,
		PrivateChannelID: inst.PrivateEmbed.ChannelID,
		PrivateMessageID: inst.PrivateEmbed.MessageID,
		HelpChannelID:    inst.HelpMessage.ChannelID,
		HelpMessageID:    inst.HelpMessage.MessageID,
	}
}

func eventToDomain(r eventRow, loc *time.Location) *entities.EventInstance {
	inLoc := func(t pgtype.Timestamptz) time.Time {
		v := pgtypeTimestamptzToTime(t)
		if v.IsZero() {
			return v
		}
		return v.In(loc)
	}
	inst := entities.NewEventInstance(r.OrganizerID, r.GuildID)
	inst.Title = textToPtr(r.Title)
	inst.Description = textToPtr(r.Description)
	inst.EventDate = inLoc(r.EventDate)
	inst.StartTime = inLoc(r.StartTime)
	inst.StopTime = inLoc(r.StopTime)
	inst.MaybeEnabled = r.MaybeEnabled
	inst.BackupEnabled = r.BackupEnabled
	inst.VoteOpen = r.VoteOpen
	inst.HelpPage = int(r.HelpPage)
	inst.GuildEmbed = entities.MessageRef{ChannelID: r.GuildChannelID, MessageID: r.GuildMessageID}
	inst.PrivateEmbed = entities.MessageRef{ChannelID: r.PrivateChannelID, MessageID: r.PrivateMessageID}
	inst.HelpMessage = entities.MessageRef{ChannelID: r.HelpChannelID, MessageID: r.HelpMessageID}
	return inst
}

type eventKey struct {
	organizerID string
	position    int32
}

type locationKey struct {
	eventKey
	ord int32
}

// assemble rebuilds the groups from rows sorted by their keys.
func assemble(rows snapshotRows, loc *time.Location) ([]*entities.EventGroup, error) {
	groups := make([]*entities.EventGroup, 0, len(rows.groups))
	byOrganizer := make(map[string]*entities.EventGroup, len(rows.groups))
	for _, r := range rows.groups {
		g := &entities.EventGroup{OrganizerID: r.OrganizerID, ActiveIndex: int(r.ActiveIndex)}
		groups = append(groups, g)
		byOrganizer[r.OrganizerID] = g
	}

	events := make(map[eventKey]*entities.EventInstance, len(rows.events))
	for _, r := range rows.events {
		g, ok := byOrganizer[r.OrganizerID]
		if !ok {
			return nil, fmt.Errorf("event %s/%d: unknown group", r.OrganizerID, r.Position)
		}
		if int(r.Position) != len(g.Events)+1 {
			return nil, fmt.Errorf("event %s/%d: position out of sequence", r.OrganizerID, r.Position)
		}
		inst := eventToDomain(r, loc)
		g.Events = append(g.Events, inst)
		events[eventKey{r.OrganizerID, r.Position}] = inst
	}

	for _, r := range rows.rosters {
		inst, ok := events[eventKey{r.OrganizerID, r.EventPosition}]
		if !ok {
			return nil, fmt.Errorf("roster %s/%d: unknown event", r.OrganizerID, r.EventPosition)
		}
		switch r.Kind {
		case rosterMaybe:
			inst.MaybeUsers = append(inst.MaybeUsers, r.UserID)
		case rosterBackup:
			inst.BackupUsers = append(inst.BackupUsers, r.UserID)
		default:
			return nil, fmt.Errorf("roster %s/%d: unknown kind %q", r.OrganizerID, r.EventPosition, r.Kind)
		}
	}

	locations := make(map[locationKey]*entities.Location, len(rows.locations))
	for _, r := range rows.locations {
		key := eventKey{r.OrganizerID, r.EventPosition}
		inst, ok := events[key]
		if !ok {
			return nil, fmt.Errorf("location %q: unknown event %s/%d", r.Name, r.OrganizerID, r.EventPosition)
		}
		l, err := entities.NewLocation(r.Name, r.Positions)
		if err != nil {
			return nil, fmt.Errorf("location %q: %w", r.Name, err)
		}
		inst.Locations = append(inst.Locations, l)
		locations[locationKey{key, r.Ord}] = l
	}

	for _, r := range rows.assignments {
		l, ok := locations[locationKey{eventKey{r.OrganizerID, r.EventPosition}, r.LocationOrd}]
		if !ok {
			return nil, fmt.Errorf("assignment of %s: unknown location", r.UserID)
		}
		l.Assign(r.UserID, r.Position)
	}

	return groups, nil
}

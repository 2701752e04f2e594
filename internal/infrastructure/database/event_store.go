package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

var _ output.EventStore = (*EventStore)(nil)

// EventStore keeps the whole engine state in PostgreSQL. Each SaveAll
// replaces the previous snapshot in a single transaction.
type EventStore struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// NewEventStore creates a store; loaded times are expressed in loc.
func NewEventStore(pool *pgxpool.Pool, loc *time.Location) *EventStore {
	if loc == nil {
		loc = time.UTC
	}
	return &EventStore{pool: pool, loc: loc}
}

func (s *EventStore) SaveAll(ctx context.Context, groups []*entities.EventGroup) error {
	rows := flatten(groups)
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		// les autres tables suivent par cascade
		if _, err := tx.Exec(ctx, `DELETE FROM event_groups`); err != nil {
			return fmt.Errorf("clear: %w", err)
		}

		batch := &pgx.Batch{}
		for _, r := range rows.groups {
			batch.Queue(`INSERT INTO event_groups (organizer_id, active_index) VALUES ($1, $2)`, r.OrganizerID, r.ActiveIndex)
		}
		for _, r := range rows.events {
			batch.Queue(`INSERT INTO events (
				organizer_id, position, guild_id, title, description, event_date, start_time, stop_time,
				maybe_enabled, backup_enabled, vote_open, help_page,
				guild_channel_id, guild_message_id, private_channel_id, private_message_id, help_channel_id, help_message_id
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
				r.OrganizerID, r.Position, r.GuildID, r.Title, r.Description, r.EventDate, r.StartTime, r.StopTime,
				r.MaybeEnabled, r.BackupEnabled, r.VoteOpen, r.HelpPage,
				r.GuildChannelID, r.GuildMessageID, r.PrivateChannelID, r.PrivateMessageID, r.HelpChannelID, r.HelpMessageID)
		}
		for _, r := range rows.rosters {
			batch.Queue(`INSERT INTO event_rosters (organizer_id, event_position, kind, ord, user_id) VALUES ($1, $2, $3, $4, $5)`,
				r.OrganizerID, r.EventPosition, r.Kind, r.Ord, r.UserID)
		}
		for _, r := range rows.locations {
			batch.Queue(`INSERT INTO locations (organizer_id, event_position, ord, name, positions) VALUES ($1, $2, $3, $4, $5)`,
				r.OrganizerID, r.EventPosition, r.Ord, r.Name, r.Positions)
		}
		for _, r := range rows.assignments {
			batch.Queue(`INSERT INTO location_assignments (organizer_id, event_position, location_ord, ord, user_id, position) VALUES ($1, $2, $3, $4, $5, $6)`,
				r.OrganizerID, r.EventPosition, r.LocationOrd, r.Ord, r.UserID, r.Position)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	return nil
}

func (s *EventStore) LoadAll(ctx context.Context) ([]*entities.EventGroup, error) {
	var rows snapshotRows
	var err error

	if rows.groups, err = collect[groupRow](ctx, s.pool,
		`SELECT organizer_id, active_index FROM event_groups ORDER BY organizer_id`); err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	if rows.events, err = collect[eventRow](ctx, s.pool,
		`SELECT organizer_id, position, guild_id, title, description, event_date, start_time, stop_time,
			maybe_enabled, backup_enabled, vote_open, help_page,
			guild_channel_id, guild_message_id, private_channel_id, private_message_id, help_channel_id, help_message_id
		FROM events ORDER BY organizer_id, position`); err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	if rows.rosters, err = collect[rosterRow](ctx, s.pool,
		`SELECT organizer_id, event_position, kind, ord, user_id FROM event_rosters
		ORDER BY organizer_id, event_position, kind, ord`); err != nil {
		return nil, fmt.Errorf("load rosters: %w", err)
	}
	if rows.locations, err = collect[locationRow](ctx, s.pool,
		`SELECT organizer_id, event_position, ord, name, positions FROM locations
		ORDER BY organizer_id, event_position, ord`); err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	if rows.assignments, err = collect[assignmentRow](ctx, s.pool,
		`SELECT organizer_id, event_position, location_ord, ord, user_id, position FROM location_assignments
		ORDER BY organizer_id, event_position, location_ord, ord`); err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}

	groups, err := assemble(rows, s.loc)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	return groups, nil
}

func collect[T any](ctx context.Context, pool *pgxpool.Pool, sql string) ([]T, error) {
	rows, err := pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}

package domain

import "errors"

// Error is a domain error carrying a stable code used as i18n key suffix ("errors.<code>").
type Error struct {
	code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Code returns the stable code of the error.
func (e *Error) Code() string { return e.code }

var codes []string

func newError(code, msg string) *Error {
	codes = append(codes, code)
	return &Error{code: code, msg: msg}
}

// Codes lists the codes of every domain error, in declaration order.
func Codes() []string {
	return append([]string(nil), codes...)
}

// Domain errors.
var (
	ErrNotOrganizer       = newError("not_organizer", "only event organizers can manage events")
	ErrNotCreator         = newError("not_creator", "only the event creator can delete the event")
	ErrGuildOnly          = newError("guild_only", "command must be sent from a server channel")
	ErrNoEvent            = newError("no_event", "no event set up")
	ErrSingleEvent        = newError("single_event", "only one event set up")
	ErrInvalidDate        = newError("invalid_date", "date is not in the DD.MM.YYYY format")
	ErrInvalidTime        = newError("invalid_time", "time is not in the HH:mm format")
	ErrTooManyLocations   = newError("too_many_locations", "an event cannot have more than 10 locations")
	ErrTooManyPositions   = newError("too_many_positions", "a location cannot have more than 10 positions")
	ErrLocationFormat     = newError("location_format", "location must be written as <Name>: <Pos1>, <Pos2>")
	ErrUnknownLocation    = newError("unknown_location", "unknown location")
	ErrUnknownToggle      = newError("unknown_toggle", "toggle must be maybe or backup")
	ErrUnknownCommand     = newError("unknown_command", "unknown event command")
	ErrChannelMention     = newError("channel_mention", "exactly one channel must be mentioned")
	ErrMissingPermissions = newError("missing_permissions", "no permission to send messages to that channel")
	ErrMoveTimeout        = newError("move_timeout", "the event embed could not be moved in time")
)

// Code extracts the domain code from err, or "" when err is not a domain error.
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return ""
}

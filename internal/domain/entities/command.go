package entities

// ChannelContext describes where a command was typed.
type ChannelContext struct {
	GuildID           string
	ChannelID         string
	MessageID         string // the command message itself
	IsPrivate         bool
	MentionedChannels []string
}

// Command is an "event ..." command already split from the prefix, with the
// caller's permissions resolved upstream.
type Command struct {
	IsOrganizer bool
	IsOwner     bool
	CallerID    string
	Args        string // everything after "event"
	Channel     ChannelContext
}

// Reaction is a reaction added by a user on a message.
type Reaction struct {
	Message MessageRef
	UserID  string
	Symbol  Symbol
	GuildID string // empty in private channels
}

type RouteResult int

const (
	NotForThisEngine RouteResult = iota
	Handled
)

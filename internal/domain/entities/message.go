package entities

// MessageRef identifies a message posted by the bot.
type MessageRef struct {
	ChannelID string
	MessageID string
}

func (r MessageRef) IsZero() bool {
	return r.ChannelID == "" || r.MessageID == ""
}

package discord

import (
	"slices"
	"testing"
)

func TestParseEventCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix  string
		content string
		want    string
		ok      bool
	}{
		{"!", "!event", "", true},
		{"!", "  !event title Raid night  ", "title Raid night", true},
		{"!", "!EVENT help", "help", true},
		{"!", "!event\tdate 16.10.2026", "date 16.10.2026", true},
		{"!", "!events", "", false},
		{"!", "event title", "", false},
		{"!", "!ev", "", false},
		{"?", "!event", "", false},
		{"ev!", "ev!event create", "create", true},
		{"", "event", "", false},
	}
	for _, tt := range tests {
		got, ok := parseEventCommand(tt.prefix, tt.content)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseEventCommand(%q, %q) = %q, %v; want %q, %v", tt.prefix, tt.content, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMentionedChannels(t *testing.T) {
	t.Parallel()

	got := mentionedChannels("!event move <#123> and <#456> but not <@789>")
	if !slices.Equal(got, []string{"123", "456"}) {
		t.Errorf("unexpected channels %v", got)
	}
	if got := mentionedChannels("!event move"); len(got) != 0 {
		t.Errorf("expected no channel, got %v", got)
	}
}

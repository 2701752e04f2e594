package discord

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/ports/output"
)

func TestToMessageEmbed(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 10, 16, 11, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	me := ToMessageEmbed(output.Embed{
		Title:     "Raid",
		Color:     0x00FFFF,
		Timestamp: at,
		Footer:    "footer",
		Fields:    []output.EmbedField{{Name: "HUB", Value: "North: x", Inline: true}},
	})
	if me.Title != "Raid" || me.Color != 0x00FFFF || me.Timestamp != "2026-10-16T09:00:00Z" {
		t.Errorf("unexpected embed %+v", me)
	}
	if me.Footer == nil || me.Footer.Text != "footer" {
		t.Errorf("unexpected footer %+v", me.Footer)
	}
	if len(me.Fields) != 1 || !me.Fields[0].Inline || me.Fields[0].Value != "North: x" {
		t.Errorf("unexpected fields %+v", me.Fields)
	}

	bare := ToMessageEmbed(output.Embed{Title: "x"})
	if bare.Footer != nil || bare.Timestamp != "" || bare.Fields != nil {
		t.Errorf("expected no footer, timestamp or fields, got %+v", bare)
	}
}

func TestMapRESTError(t *testing.T) {
	t.Parallel()

	withCode := func(code int) error {
		return &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: code}}
	}
	withStatus := func(status int) error {
		return &discordgo.RESTError{Response: &http.Response{StatusCode: status}}
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"unknown message", withCode(discordgo.ErrCodeUnknownMessage), output.ErrMessageNotFound},
		{"missing permissions", withCode(discordgo.ErrCodeMissingPermissions), output.ErrMissingPermissions},
		{"404", withStatus(http.StatusNotFound), output.ErrMessageNotFound},
		{"403", withStatus(http.StatusForbidden), output.ErrMissingPermissions},
	}
	for _, tt := range tests {
		if got := MapRESTError(tt.err); !errors.Is(got, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}

	other := errors.New("boom")
	if got := MapRESTError(other); got != other {
		t.Errorf("unrelated errors must be returned unchanged, got %v", got)
	}
	if MapRESTError(nil) != nil {
		t.Error("nil must stay nil")
	}
	if !IsNotFound(withCode(discordgo.ErrCodeUnknownMessage)) || IsNotFound(other) {
		t.Error("IsNotFound mismatch")
	}
}

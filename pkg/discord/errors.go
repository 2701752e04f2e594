package discord

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/ports/output"
)

// MapRESTError maps the Discord REST failures the engine reacts to onto the
// output sentinels. Other errors are returned unchanged.
func MapRESTError(err error) error {
	if err == nil {
		return nil
	}
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) {
		return err
	}
	if rest.Message != nil {
		switch rest.Message.Code {
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
			return errors.Join(output.ErrMessageNotFound, err)
		case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
			return errors.Join(output.ErrMissingPermissions, err)
		}
	}
	if rest.Response != nil {
		switch rest.Response.StatusCode {
		case http.StatusNotFound:
			return errors.Join(output.ErrMessageNotFound, err)
		case http.StatusForbidden:
			return errors.Join(output.ErrMissingPermissions, err)
		}
	}
	return err
}

// IsNotFound reports whether err is a missing message or channel.
func IsNotFound(err error) bool {
	return errors.Is(MapRESTError(err), output.ErrMessageNotFound)
}

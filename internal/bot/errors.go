package bot

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"discord-gban/internal/service"
)

// classify tags Discord REST errors with the service error they stand for.
// The original error stays in the chain.
func classify(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err
	}

	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
			return fmt.Errorf("%w: %w", service.ErrMissingPermissions, err)
		case discordgo.ErrCodeUnknownUser:
			return fmt.Errorf("%w: %w", service.ErrUnknownUser, err)
		case discordgo.ErrCodeUnknownBan:
			return fmt.Errorf("%w: %w", service.ErrUnknownBan, err)
		case discordgo.ErrCodeUnknownGuild:
			return fmt.Errorf("%w: %w", service.ErrGuildUnavailable, err)
		}
	}

	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %w", service.ErrMissingPermissions, err)
	}
	return err
}

package handler

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"discord-gban/internal/service"
)

// authorize checks the invoking member's permissions on the guild. Every
// command needs administrator; setlog also needs manage-server.
func authorize(perms int64, needManageServer bool) error {
	if perms&discordgo.PermissionAdministrator == 0 {
		return fmt.Errorf("%w: you need the Administrator permission to use global bans", service.ErrPermissionDenied)
	}
	if needManageServer && perms&discordgo.PermissionManageServer == 0 {
		return fmt.Errorf("%w: you need the Manage Server permission to set the log channel", service.ErrPermissionDenied)
	}
	return nil
}

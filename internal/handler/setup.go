package handler

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"discord-gban/internal/logger"
	"discord-gban/internal/service"
)

const (
	commandName = "gban"

	subAdd    = "add"
	subRemove = "remove"
	subList   = "list"
	subSetLog = "setlog"
)

var (
	adminPermission int64   = discordgo.PermissionAdministrator
	minPage         float64 = 1
)

// Commands returns the slash command definitions of the gban group.
func Commands() []*discordgo.ApplicationCommand {
	dmPermission := false
	return []*discordgo.ApplicationCommand{
		{
			Name:                     commandName,
			Description:              "Global ban management across every server the bot is in",
			DefaultMemberPermissions: &adminPermission,
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subAdd,
					Description: "Ban a user on every server",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "User to ban",
							Required:    true,
						},
						{
							Type:         discordgo.ApplicationCommandOptionString,
							Name:         "reason",
							Description:  "Reason for the ban",
							Autocomplete: true,
							MaxLength:    service.MaxReasonLength,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subRemove,
					Description: "Lift a global ban",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "user_id",
							Description: "ID of the user to unban",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subList,
					Description: "Show the global ban list",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "page",
							Description: "Page to open",
							MinValue:    &minPage,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subSetLog,
					Description: "Choose where global ban logs are posted on this server",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:         discordgo.ApplicationCommandOptionChannel,
							Name:         "channel",
							Description:  "Log channel",
							Required:     true,
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
						},
					},
				},
			},
		},
	}
}

// RegisterCommands overwrites the application's global commands with the
// gban group.
func RegisterCommands(s *discordgo.Session) error {
	if s.State.User == nil {
		return fmt.Errorf("session is not open")
	}
	cmds, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, "", Commands())
	if err != nil {
		return fmt.Errorf("failed to register slash commands: %w", err)
	}
	logger.Infof("Registered %d slash commands", len(cmds))
	return nil
}

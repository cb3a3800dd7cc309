package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"discord-gban/internal/service"
)

// sendPermissions are what a log channel needs for the bot to post embeds.
const sendPermissions = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionEmbedLinks

// guild adapts one guild of the session state to service.Guild. Name and
// system channel are read from state on each call so renames are picked up.
type guild struct {
	session *discordgo.Session
	id      string
}

func (g *guild) ID() string { return g.id }

func (g *guild) Name() string {
	st, err := g.session.State.Guild(g.id)
	if err != nil || st.Name == "" {
		return g.id
	}
	return st.Name
}

func (g *guild) SystemChannelID() string {
	st, err := g.session.State.Guild(g.id)
	if err != nil {
		return ""
	}
	return st.SystemChannelID
}

func (g *guild) available() error {
	st, err := g.session.State.Guild(g.id)
	if err != nil || st.Unavailable {
		return fmt.Errorf("guild %s: %w", g.id, service.ErrGuildUnavailable)
	}
	return nil
}

func (g *guild) Ban(ctx context.Context, userID, reason string) error {
	if err := g.available(); err != nil {
		return err
	}
	if err := g.session.GuildBanCreateWithReason(g.id, userID, reason, 0, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("ban %s in guild %s: %w", userID, g.id, classify(err))
	}
	return nil
}

func (g *guild) Unban(ctx context.Context, userID string) error {
	if err := g.available(); err != nil {
		return err
	}
	if err := g.session.GuildBanDelete(g.id, userID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("unban %s in guild %s: %w", userID, g.id, classify(err))
	}
	return nil
}

// CanSend reports whether channelID belongs to this guild and the bot may
// post embeds in it.
func (g *guild) CanSend(channelID string) bool {
	if channelID == "" || g.session.State.User == nil {
		return false
	}
	ch, err := g.session.State.Channel(channelID)
	if err != nil || ch.GuildID != g.id {
		return false
	}
	perms, err := g.session.State.UserChannelPermissions(g.session.State.User.ID, channelID)
	if err != nil {
		return false
	}
	return hasPermissions(perms, sendPermissions)
}

func (g *guild) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	if _, err := g.session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send embed to channel %s: %w", channelID, classify(err))
	}
	return nil
}

// hasPermissions is true when perms grants every bit of want, or administrator.
func hasPermissions(perms, want int64) bool {
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&want == want
}

package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"

	"discord-gban/internal/models"
)

// Platform errors a Guild implementation wraps so failures can be classified
// without knowing the transport.
var (
	ErrMissingPermissions = errors.New("missing permissions")
	ErrUnknownUser        = errors.New("unknown user")
	ErrUnknownBan         = errors.New("unknown ban")
	ErrGuildUnavailable   = errors.New("guild unavailable")
)

// Guild is one server the bot is installed in.
type Guild interface {
	ID() string
	Name() string
	Ban(ctx context.Context, userID, reason string) error
	Unban(ctx context.Context, userID string) error
	// SystemChannelID is empty when the guild has no system channel.
	SystemChannelID() string
	// CanSend reports whether the bot may post embeds in channelID.
	CanSend(channelID string) bool
	SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error
}

// Platform enumerates guilds and reaches users directly.
type Platform interface {
	Guilds() []Guild
	Guild(guildID string) (Guild, bool)
	DirectMessage(ctx context.Context, userID string, embed *discordgo.MessageEmbed) error
}

// Store is the durable side of the global ban list.
type Store interface {
	AddBan(ctx context.Context, identity, issuedBy, reason string) (bool, error)
	RemoveBan(ctx context.Context, identity string) (int64, error)
	ListBans(ctx context.Context) ([]models.GlobalBan, error)
	SetLogChannel(ctx context.Context, guildID, channelID, setBy string) error
	GetAllLogChannels(ctx context.Context) (map[string]string, error)
}

// Mirror receives a plain-text copy of every global ban summary outside Discord.
type Mirror interface {
	Mirror(ctx context.Context, text string)
}

// User identifies a target or an operator.
type User struct {
	ID       string
	Username string
}

func (u User) Mention() string {
	return "<@" + u.ID + ">"
}

func (u User) String() string {
	if u.Username == "" {
		return u.ID
	}
	return u.Username
}

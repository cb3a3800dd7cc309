package bot

import (
	"context"
	"fmt"
	"sort"

	"github.com/bwmarrin/discordgo"

	"discord-gban/internal/config"
	"discord-gban/internal/logger"
	"discord-gban/internal/service"
)

// Intents the bot needs: guild state, member joins and prefix commands.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent

// Session represents the Discord bot session and is the service.Platform
// the coordinator fans out over.
type Session struct {
	Discord *discordgo.Session
}

// Start opens the gateway connection
func (s *Session) Start() error {
	if err := s.Discord.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}
	logger.Infof("Authorized on account %s, present in %d guilds", s.Discord.State.User.Username, len(s.Guilds()))
	return nil
}

// Stop closes the gateway connection
func (s *Session) Stop() error {
	return s.Discord.Close()
}

// Initialize creates the Discord session and, when enabled, the status server.
func Initialize(cfg *config.Config) (*Session, *StatusServer, error) {
	// Validate configuration
	if cfg.Bot.Token == "" {
		return nil, nil, fmt.Errorf("bot token is required")
	}

	routeLibraryLogs()

	dg, err := discordgo.New("Bot " + cfg.Bot.Token)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize bot: %w", err)
	}
	dg.Identify.Intents = Intents
	dg.StateEnabled = true
	dg.LogLevel = LibraryLogLevel(cfg.Logger.Level)

	session := &Session{Discord: dg}

	var server *StatusServer
	if cfg.Bot.Status.Enabled {
		server = NewStatusServer(cfg.Bot.Status.ListenPort, cfg.Bot.Status.DebugPath)
	}
	return session, server, nil
}

// Guilds lists every guild in the session state, ordered by ID.
func (s *Session) Guilds() []service.Guild {
	s.Discord.State.RLock()
	ids := make([]string, 0, len(s.Discord.State.Guilds))
	for _, g := range s.Discord.State.Guilds {
		ids = append(ids, g.ID)
	}
	s.Discord.State.RUnlock()

	sort.Strings(ids)
	guilds := make([]service.Guild, len(ids))
	for i, id := range ids {
		guilds[i] = &guild{session: s.Discord, id: id}
	}
	return guilds
}

// Guild returns the guild with guildID if the bot is a member of it.
func (s *Session) Guild(guildID string) (service.Guild, bool) {
	if _, err := s.Discord.State.Guild(guildID); err != nil {
		return nil, false
	}
	return &guild{session: s.Discord, id: guildID}, true
}

// DirectMessage opens a DM channel with userID and sends embed to it.
func (s *Session) DirectMessage(ctx context.Context, userID string, embed *discordgo.MessageEmbed) error {
	ch, err := s.Discord.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open DM with %s: %w", userID, classify(err))
	}
	if _, err := s.Discord.ChannelMessageSendEmbed(ch.ID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send DM to %s: %w", userID, classify(err))
	}
	return nil
}

// routeLibraryLogs sends discordgo's own log lines through the project logger.
func routeLibraryLogs() {
	discordgo.Logger = func(msgL, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Errorf("discordgo: %s", msg)
		case discordgo.LogWarning:
			logger.Warningf("discordgo: %s", msg)
		case discordgo.LogInformational:
			logger.Infof("discordgo: %s", msg)
		default:
			logger.Debugf("discordgo: %s", msg)
		}
	}
}

// LibraryLogLevel maps the configured level onto discordgo's levels.
func LibraryLogLevel(level string) int {
	switch logger.ParseLevel(level) {
	case logger.LevelDebug:
		return discordgo.LogDebug
	case logger.LevelInfo:
		return discordgo.LogInformational
	case logger.LevelWarning:
		return discordgo.LogWarning
	}
	return discordgo.LogError
}

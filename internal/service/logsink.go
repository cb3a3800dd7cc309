package service

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/sourcegraph/conc"

	"discord-gban/internal/logger"
)

// LogSink knows each guild's global ban log channel and delivers embeds there,
// falling back to the guild's system channel. Delivery is best-effort.
type LogSink struct {
	mu       sync.RWMutex
	channels map[string]string
}

func NewLogSink() *LogSink {
	return &LogSink{channels: make(map[string]string)}
}

// Load replaces every mapping with the persisted configuration.
func (s *LogSink) Load(channels map[string]string) {
	m := make(map[string]string, len(channels))
	for guildID, channelID := range channels {
		m[guildID] = channelID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels = m
}

func (s *LogSink) Set(guildID, channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[guildID] = channelID
}

func (s *LogSink) Channel(guildID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.channels[guildID]
	return ch, ok
}

func (s *LogSink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.channels)
}

// resolve returns "" when neither the configured nor the system channel is writable.
func (s *LogSink) resolve(g Guild) string {
	if ch, ok := s.Channel(g.ID()); ok && ch != "" && g.CanSend(ch) {
		return ch
	}
	if sys := g.SystemChannelID(); sys != "" && g.CanSend(sys) {
		return sys
	}
	return ""
}

// Send posts embed to g's log channel. Errors are logged, never returned.
func (s *LogSink) Send(ctx context.Context, g Guild, embed *discordgo.MessageEmbed) {
	channelID := s.resolve(g)
	if channelID == "" {
		logger.Debugf("No writable log channel in guild %s (%s), dropping log", g.Name(), g.ID())
		return
	}
	if err := g.SendEmbed(ctx, channelID, embed); err != nil {
		logger.Debugf("Failed to send log to channel %s in guild %s: %v", channelID, g.ID(), err)
	}
}

// Broadcast sends embed to every guild concurrently and returns once all
// sends have settled.
func (s *LogSink) Broadcast(ctx context.Context, guilds []Guild, embed *discordgo.MessageEmbed) {
	var wg conc.WaitGroup
	for _, g := range guilds {
		g := g
		wg.Go(func() {
			s.Send(ctx, g, embed)
		})
	}
	if r := wg.WaitAndRecover(); r != nil {
		logger.Errorf("Log broadcast panicked: %v", r.Value)
	}
}

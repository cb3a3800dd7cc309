package handler

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"discord-gban/internal/service"
)

// HandleMemberJoin bans a globally banned user who joins any guild.
func (h *Handler) HandleMemberJoin(m *discordgo.GuildMemberAdd) {
	if m.Member == nil || m.Member.User == nil || m.Member.User.Bot {
		return
	}
	incrementCounter(&totalMemberJoins)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	h.coord.OnMemberJoin(ctx, m.GuildID, service.User{ID: m.Member.User.ID, Username: m.Member.User.Username})
}

package handler

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"discord-gban/internal/logger"
	"discord-gban/internal/service"
)

const (
	prefixBan   = "gban"
	prefixUnban = "gunban"
)

// HandlePrefixCommand handles <prefix>gban and <prefix>gunban. Replies go to
// the invoking channel.
func (h *Handler) HandlePrefixCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	cmd, args, ok := splitPrefixCommand(m.Content, h.prefix)
	if !ok || (cmd != prefixBan && cmd != prefixUnban) {
		return
	}
	incrementCounter(&totalPrefixCommands)

	op := h.prefix + cmd
	perms, err := s.State.MessagePermissions(m.Message)
	if err != nil {
		h.logFailure(op+" permission lookup", err)
		h.reply(s, m, service.ErrorEmbed(service.ErrInternal.Error()))
		return
	}
	if err := authorize(perms, false); err != nil {
		h.reportError(op, err)
		h.reply(s, m, service.ErrorEmbed(service.Describe(err)))
		return
	}

	operator := toUser(m.Author, "")
	logger.Infof("%s invoked by %s (%s) in guild %s", op, operator, operator.ID, m.GuildID)

	switch cmd {
	case prefixBan:
		h.banFromMessage(s, m, args, operator)
	case prefixUnban:
		h.unbanFromMessage(s, m, args, operator)
	}
}

func (h *Handler) banFromMessage(s *discordgo.Session, m *discordgo.MessageCreate, args []string, operator service.User) {
	if len(args) == 0 {
		h.reply(s, m, service.ErrorEmbed(fmt.Sprintf("Usage: %s%s <user> [reason...]", h.prefix, prefixBan)))
		return
	}
	targetID, err := ParseIdentity(args[0])
	if err == nil {
		err = validateTarget(targetID, operator.ID, h.botID())
	}
	if err != nil {
		h.reply(s, m, service.ErrorEmbed(service.Describe(err)))
		return
	}

	target := service.User{ID: targetID}
	for _, u := range m.Mentions {
		if u.ID == targetID {
			target = toUser(u, targetID)
		}
	}

	ctx, cancel := actionContext()
	defer cancel()

	res, err := h.coord.Ban(ctx, target, operator, strings.Join(args[1:], " "))
	h.replyResult(s, m, h.prefix+prefixBan, res, err)
}

func (h *Handler) unbanFromMessage(s *discordgo.Session, m *discordgo.MessageCreate, args []string, operator service.User) {
	if len(args) == 0 {
		h.reply(s, m, service.ErrorEmbed(fmt.Sprintf("Usage: %s%s <user ID>", h.prefix, prefixUnban)))
		return
	}
	targetID, err := ParseIdentity(args[0])
	if err != nil {
		h.reply(s, m, service.ErrorEmbed(service.Describe(err)))
		return
	}

	ctx, cancel := actionContext()
	defer cancel()

	res, err := h.coord.Unban(ctx, targetID, operator)
	h.replyResult(s, m, h.prefix+prefixUnban, res, err)
}

func (h *Handler) replyResult(s *discordgo.Session, m *discordgo.MessageCreate, op string, res service.Result, err error) {
	embed, _ := h.resultEmbed(op, res, err)
	h.reply(s, m, embed)
}

func (h *Handler) reply(s *discordgo.Session, m *discordgo.MessageCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.ChannelMessageSendEmbedReply(m.ChannelID, embed, m.Reference()); err != nil {
		h.logFailure("prefix reply", err)
	}
}

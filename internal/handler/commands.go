package handler

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"discord-gban/internal/logger"
	"discord-gban/internal/service"
)

type optionMap map[string]*discordgo.ApplicationCommandInteractionDataOption

func toOptionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) optionMap {
	m := make(optionMap, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

func (m optionMap) str(name string) string {
	if o, ok := m[name]; ok {
		return o.StringValue()
	}
	return ""
}

// HandleSlashCommand dispatches /gban subcommands.
func (h *Handler) HandleSlashCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	opts := toOptionMap(sub.Options)

	if i.Member == nil || i.GuildID == "" {
		h.respondEphemeral(s, i, service.ErrorEmbed("Global ban commands can only be used in a server."))
		return
	}
	if err := authorize(i.Member.Permissions, sub.Name == subSetLog); err != nil {
		h.reportError("/gban "+sub.Name, err)
		h.respondEphemeral(s, i, service.ErrorEmbed(service.Describe(err)))
		return
	}

	operator := toUser(i.Member.User, "")
	logger.Infof("/gban %s invoked by %s (%s) in guild %s", sub.Name, operator, operator.ID, i.GuildID)

	switch sub.Name {
	case subAdd:
		h.slashAdd(s, i, data, opts, operator)
	case subRemove:
		h.slashRemove(s, i, opts, operator)
	case subList:
		h.slashList(s, i, opts, operator)
	case subSetLog:
		h.slashSetLog(s, i, opts, operator)
	}
}

func (h *Handler) slashAdd(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData, opts optionMap, operator service.User) {
	targetID := opts.str("user")
	var resolved *discordgo.User
	if data.Resolved != nil {
		resolved = data.Resolved.Users[targetID]
	}
	target := toUser(resolved, targetID)

	if err := validateTarget(target.ID, operator.ID, h.botID()); err != nil {
		h.respondEphemeral(s, i, service.ErrorEmbed(service.Describe(err)))
		return
	}

	if err := h.deferResponse(s, i, false); err != nil {
		h.logFailure("defer /gban add", err)
		return
	}

	ctx, cancel := actionContext()
	defer cancel()

	res, err := h.coord.Ban(ctx, target, operator, opts.str("reason"))
	h.finishAction(s, i, "/gban add", res, err)
}

func (h *Handler) slashRemove(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap, operator service.User) {
	targetID, err := ParseIdentity(opts.str("user_id"))
	if err != nil {
		h.respondEphemeral(s, i, service.ErrorEmbed(service.Describe(err)))
		return
	}

	if err := h.deferResponse(s, i, false); err != nil {
		h.logFailure("defer /gban remove", err)
		return
	}

	ctx, cancel := actionContext()
	defer cancel()

	res, err := h.coord.Unban(ctx, targetID, operator)
	h.finishAction(s, i, "/gban remove", res, err)
}

// finishAction turns a coordinator result into the deferred reply. Failures
// replace the public placeholder with an ephemeral error.
func (h *Handler) finishAction(s *discordgo.Session, i *discordgo.InteractionCreate, op string, res service.Result, err error) {
	embed, public := h.resultEmbed(op, res, err)
	if public {
		h.editDeferred(s, i, embed, nil)
		return
	}
	h.replaceWithEphemeral(s, i, embed)
}

func (h *Handler) slashList(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap, operator service.User) {
	page := 1
	if o, ok := opts["page"]; ok {
		page = int(o.IntValue())
	}

	if err := h.deferResponse(s, i, true); err != nil {
		h.logFailure("defer /gban list", err)
		return
	}

	ctx, cancel := actionContext()
	defer cancel()

	p, err := h.coord.List(ctx, page)
	if err != nil {
		h.reportError("/gban list", err)
		h.editDeferred(s, i, replyEmbed(err), nil)
		return
	}

	logger.Debugf("Listing %d global bans for %s, page %d/%d", p.Len(), operator.ID, p.Page(), p.Pages())
	if p.Pages() <= 1 {
		h.editDeferred(s, i, p.Embed(), nil)
		return
	}

	v := h.pages.open(operator.ID, p, i.Interaction)
	h.editDeferred(s, i, p.Embed(), listComponents(v, false))
}

func (h *Handler) slashSetLog(s *discordgo.Session, i *discordgo.InteractionCreate, opts optionMap, operator service.User) {
	channelID := opts.str("channel")
	if channelID == "" {
		h.respondEphemeral(s, i, service.ErrorEmbed("A channel is required."))
		return
	}

	ctx, cancel := actionContext()
	defer cancel()

	if err := h.coord.SetLog(ctx, i.GuildID, channelID, operator); err != nil {
		h.reportError("/gban setlog", err)
		h.respondEphemeral(s, i, replyEmbed(err))
		return
	}
	h.respond(s, i, service.SetLogEmbed(channelID))
}

// HandleAutocomplete suggests ban reasons while the operator types.
func (h *Handler) HandleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}

	var typed string
	for _, o := range data.Options[0].Options {
		if o.Focused && o.Name == "reason" {
			typed = o.StringValue()
		}
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: suggestReasons(typed),
		},
	})
	if err != nil {
		logger.Debugf("Autocomplete response failed: %v", err)
	}
}

// validateTarget refuses bans that would hit the operator or the bot itself.
func validateTarget(targetID, operatorID, botID string) error {
	if _, err := ParseIdentity(targetID); err != nil {
		return err
	}
	if targetID == operatorID {
		return fmt.Errorf("%w: you cannot globally ban yourself", service.ErrValidation)
	}
	if botID != "" && targetID == botID {
		return fmt.Errorf("%w: the bot cannot ban itself", service.ErrValidation)
	}
	return nil
}

func (h *Handler) botID() string {
	if h.session == nil || h.session.State == nil || h.session.State.User == nil {
		return ""
	}
	return h.session.State.User.ID
}

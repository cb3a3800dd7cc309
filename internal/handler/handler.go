package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"discord-gban/internal/crash"
	"discord-gban/internal/logger"
	"discord-gban/internal/service"
)

// Handler is the command surface: slash commands, prefix commands, list
// buttons and the member-join hook, all calling into the coordinator.
type Handler struct {
	coord    *service.Coordinator
	session  *discordgo.Session
	prefix   string
	pages    *pageRegistry
	removers []func()
}

// New creates a Handler. Call Register to start receiving events.
func New(coord *service.Coordinator, session *discordgo.Session, prefix string, listTimeout time.Duration) *Handler {
	h := &Handler{
		coord:   coord,
		session: session,
		prefix:  prefix,
	}
	h.pages = newPageRegistry(listTimeout, h.disableListView)
	return h
}

// Register adds the event handlers to the session.
func (h *Handler) Register() {
	h.removers = append(h.removers,
		h.session.AddHandler(h.onInteraction),
		h.session.AddHandler(h.onMessageCreate),
		h.session.AddHandler(h.onGuildMemberAdd),
	)
}

// Close removes the event handlers and drops open list views.
func (h *Handler) Close() {
	for _, remove := range h.removers {
		remove()
	}
	h.removers = nil
	h.pages.close()
}

func (h *Handler) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer crash.RecoverWithStack("interaction")

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == commandName {
			incrementCounter(&totalSlashCommands)
			h.HandleSlashCommand(s, i)
		}
	case discordgo.InteractionApplicationCommandAutocomplete:
		if i.ApplicationCommandData().Name == commandName {
			h.HandleAutocomplete(s, i)
		}
	case discordgo.InteractionMessageComponent:
		h.HandleListButton(s, i)
	}
}

func (h *Handler) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer crash.RecoverWithStack("prefix command")
	h.HandlePrefixCommand(s, m)
}

func (h *Handler) onGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	defer crash.RecoverWithStack("member join")
	h.HandleMemberJoin(m)
}

// replyEmbed picks what an operator sees for a coordinator error.
func replyEmbed(err error) *discordgo.MessageEmbed {
	var storageErr *service.StorageError
	if errors.As(err, &storageErr) {
		return service.StorageErrorEmbed(storageErr)
	}
	return service.ErrorEmbed(service.Describe(err))
}

// resultEmbed maps a coordinator outcome to the reply embed. Only a
// completed action is public; everything else goes back to the operator alone.
func (h *Handler) resultEmbed(op string, res service.Result, err error) (embed *discordgo.MessageEmbed, public bool) {
	if err != nil {
		h.reportError(op, err)
		return replyEmbed(err), false
	}
	switch r := res.(type) {
	case *service.Summary:
		return r.Embed(), true
	case *service.RateLimited:
		return service.RateLimitedEmbed(r), false
	default:
		h.logFailure(op, fmt.Errorf("unknown result %T", res))
		return service.ErrorEmbed(service.ErrInternal.Error()), false
	}
}

// logFailure records errors that reach the operator as "unexpected error".
func (h *Handler) logFailure(op string, err error) {
	incrementCounter(&totalErrors)
	logger.Errorf("%s failed (%T): %v", op, err, err)
}

// reportError logs unexpected errors; expected ones are only shown.
func (h *Handler) reportError(op string, err error) {
	var storageErr *service.StorageError
	switch {
	case errors.Is(err, service.ErrPermissionDenied), errors.Is(err, service.ErrValidation):
		logger.Debugf("%s rejected: %v", op, err)
	case errors.As(err, &storageErr):
		// already logged by the coordinator
	default:
		h.logFailure(op, err)
	}
}

func (h *Handler) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logFailure("respond", err)
	}
}

func (h *Handler) respond(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		h.logFailure("respond", err)
	}
}

// deferResponse acknowledges an interaction whose work outlives Discord's
// three second reply window.
func (h *Handler) deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	resp := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	if ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	return s.InteractionRespond(i.Interaction, resp)
}

// editDeferred fills in a deferred public reply.
func (h *Handler) editDeferred(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	edit := &discordgo.WebhookEdit{Embeds: &[]*discordgo.MessageEmbed{embed}}
	if components != nil {
		edit.Components = &components
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, edit); err != nil {
		h.logFailure("edit deferred reply", err)
	}
}

// replaceWithEphemeral swaps a deferred public reply for a private error.
func (h *Handler) replaceWithEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if err := s.InteractionResponseDelete(i.Interaction); err != nil {
		logger.Debugf("Could not delete deferred reply: %v", err)
	}
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		h.logFailure("send ephemeral followup", err)
	}
}

// actionContext bounds one operator action.
func actionContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Minute)
}

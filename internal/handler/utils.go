package handler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"

	"discord-gban/internal/service"
)

var (
	snowflakeRegex = regexp.MustCompile(`^\d{17,20}$`)
	mentionRegex   = regexp.MustCompile(`^<@!?(\d{17,20})>$`)
)

// ParseIdentity accepts a raw user ID or a user mention and returns the ID.
func ParseIdentity(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if snowflakeRegex.MatchString(arg) {
		return arg, nil
	}
	if m := mentionRegex.FindStringSubmatch(arg); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: %q is not a valid user ID", service.ErrValidation, arg)
}

// toUser converts a discordgo user, which may be nil, into a service.User.
func toUser(u *discordgo.User, fallbackID string) service.User {
	if u == nil {
		return service.User{ID: fallbackID}
	}
	return service.User{ID: u.ID, Username: u.Username}
}

// interactionUser is the member who invoked a guild interaction, or the
// user for interactions outside a guild.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// suggestReasons filters the reason vocabulary by what the operator has typed.
// Free text stays selectable as the first choice.
func suggestReasons(typed string) []*discordgo.ApplicationCommandOptionChoice {
	typed = strings.TrimSpace(typed)
	lower := strings.ToLower(typed)

	var choices []*discordgo.ApplicationCommandOptionChoice
	exact := false
	for _, r := range service.ReasonChoices {
		if strings.EqualFold(r, typed) {
			exact = true
		}
		if strings.HasPrefix(strings.ToLower(r), lower) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: r, Value: r})
		}
	}
	if typed != "" && !exact {
		if len(typed) > 100 {
			typed = typed[:100]
		}
		choices = append([]*discordgo.ApplicationCommandOptionChoice{{Name: typed, Value: typed}}, choices...)
	}
	return choices
}

// splitPrefixCommand returns the lower-cased command name and its arguments,
// or ok=false when content does not start with prefix.
func splitPrefixCommand(content, prefix string) (cmd string, args []string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

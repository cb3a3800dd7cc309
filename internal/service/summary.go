package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Embed colors.
const (
	ColorSuccess = 0x2ecc71
	ColorError   = 0xe74c3c
	ColorInfo    = 0x3498db
)

type Action string

const (
	ActionBan   Action = "ban"
	ActionUnban Action = "unban"
)

// GuildRef is the part of a Guild a summary keeps after the call returns.
type GuildRef struct {
	ID   string
	Name string
}

// Summary describes one global ban or unban.
type Summary struct {
	Action    Action
	Target    User
	Operator  User
	Reason    string
	Succeeded []GuildRef
	Failed    []FailedGuild
	// Added is true when the ban created a new record.
	Added bool
	// Removed is the number of records an unban deleted.
	Removed int64
	At      time.Time
}

func (*Summary) isResult() {}

func newSummary(action Action, target, operator User, reason string, fan FanOutResult, at time.Time) *Summary {
	s := &Summary{
		Action:   action,
		Target:   target,
		Operator: operator,
		Reason:   reason,
		Failed:   fan.Failed,
		At:       at,
	}
	for _, g := range fan.Succeeded {
		s.Succeeded = append(s.Succeeded, GuildRef{ID: g.ID(), Name: g.Name()})
	}
	sort.Slice(s.Succeeded, func(i, j int) bool { return s.Succeeded[i].Name < s.Succeeded[j].Name })
	sort.Slice(s.Failed, func(i, j int) bool { return s.Failed[i].GuildName < s.Failed[j].GuildName })
	return s
}

func (s *Summary) Total() int {
	return len(s.Succeeded) + len(s.Failed)
}

func (s *Summary) verb() string {
	if s.Action == ActionUnban {
		return "unbanned"
	}
	return "banned"
}

// Outcome is the "banned on X/Y servers" line.
func (s *Summary) Outcome() string {
	return fmt.Sprintf("%s on %d/%d servers", s.verb(), len(s.Succeeded), s.Total())
}

// failureList keeps the field under Discord's 1024 character limit.
func (s *Summary) failureList() string {
	const maxLen = 1000
	var b strings.Builder
	for i, f := range s.Failed {
		line := fmt.Sprintf("• %s: %s\n", f.GuildName, f.Reason())
		if b.Len()+len(line) > maxLen {
			fmt.Fprintf(&b, "…and %d more", len(s.Failed)-i)
			break
		}
		b.WriteString(line)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Embed renders the summary sent to the operator and the log channels.
func (s *Summary) Embed() *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Target", Value: fmt.Sprintf("%s (`%s`)", s.Target.Mention(), s.Target.ID), Inline: true},
		{Name: "Operator", Value: s.Operator.Mention(), Inline: true},
	}
	if s.Action == ActionBan {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Reason", Value: s.Reason})
	} else {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Records removed", Value: fmt.Sprint(s.Removed), Inline: true})
	}
	fields = append(fields, &discordgo.MessageEmbedField{Name: "Result", Value: s.Outcome()})
	if len(s.Failed) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Failed servers", Value: s.failureList()})
	}

	return &discordgo.MessageEmbed{
		Title:     "Success",
		Color:     ColorSuccess,
		Fields:    fields,
		Timestamp: s.At.Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: "Global " + string(s.Action)},
	}
}

// Text is a plain-text rendering for mirrors that do not speak embeds.
func (s *Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Global %s: %s (%s) by %s\n", s.Action, s.Target, s.Target.ID, s.Operator)
	if s.Action == ActionBan {
		fmt.Fprintf(&b, "Reason: %s\n", s.Reason)
	} else {
		fmt.Fprintf(&b, "Records removed: %d\n", s.Removed)
	}
	b.WriteString(s.Outcome())
	for _, f := range s.Failed {
		fmt.Fprintf(&b, "\n- %s: %s", f.GuildName, f.Reason())
	}
	return b.String()
}

func ErrorEmbed(description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Title: "Error", Description: description, Color: ColorError}
}

func InfoEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Title: title, Description: description, Color: ColorInfo}
}

func RateLimitedEmbed(r *RateLimited) *discordgo.MessageEmbed {
	return ErrorEmbed(fmt.Sprintf("Global bans are rate limited. Try again in %ds.", r.Seconds()))
}

// StorageErrorEmbed tells the operator the platform side already happened.
func StorageErrorEmbed(e *StorageError) *discordgo.MessageEmbed {
	embed := ErrorEmbed("The global ban list could not be updated in the database.")
	if e.Summary != nil {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Already applied", Value: e.Summary.Outcome()},
		}
	}
	return embed
}

func AutoBanEmbed(u User) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Auto-ban",
		Description: fmt.Sprintf("%s auto-banned (global)", u.Mention()),
		Color:       ColorSuccess,
		Footer:      &discordgo.MessageEmbedFooter{Text: "ID " + u.ID},
	}
}

func directMessageEmbed(reason string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "You have been globally banned",
		Description: "You were banned from every server in this community network.",
		Color:       ColorError,
		Fields:      []*discordgo.MessageEmbedField{{Name: "Reason", Value: reason}},
	}
}

func SetLogEmbed(channelID string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Success",
		Description: fmt.Sprintf("Global ban logs will be sent to <#%s>.", channelID),
		Color:       ColorSuccess,
	}
}

package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"discord-gban/internal/models"
)

const DefaultPageSize = 10

const (
	// Discord rejects embed descriptions longer than this.
	maxDescriptionLength = 4096
	listReasonLength     = 200
)

// Paginator walks a snapshot of ban records, newest first. Record numbers
// count from the oldest ban (#1) so they stay stable while paging.
type Paginator struct {
	records  []models.GlobalBan
	pageSize int
	page     int
}

func NewPaginator(records []models.GlobalBan, pageSize, page int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	p := &Paginator{records: records, pageSize: pageSize}
	p.SetPage(page)
	return p
}

func (p *Paginator) Len() int {
	return len(p.records)
}

// Pages is never less than 1 so an empty list still has a page to show.
func (p *Paginator) Pages() int {
	n := (len(p.records) + p.pageSize - 1) / p.pageSize
	if n < 1 {
		return 1
	}
	return n
}

func (p *Paginator) Page() int {
	return p.page
}

// SetPage clamps page into [1, Pages()] and returns the page selected.
func (p *Paginator) SetPage(page int) int {
	if page < 1 {
		page = 1
	}
	if last := p.Pages(); page > last {
		page = last
	}
	p.page = page
	return p.page
}

func (p *Paginator) Next() int { return p.SetPage(p.page + 1) }
func (p *Paginator) Prev() int { return p.SetPage(p.page - 1) }

func (p *Paginator) HasPrev() bool { return p.page > 1 }
func (p *Paginator) HasNext() bool { return p.page < p.Pages() }

// Items returns the records on the current page.
func (p *Paginator) Items() []models.GlobalBan {
	start := (p.page - 1) * p.pageSize
	if start >= len(p.records) {
		return nil
	}
	end := start + p.pageSize
	if end > len(p.records) {
		end = len(p.records)
	}
	return p.records[start:end]
}

// Number is the display number of the record at index i of the snapshot.
func (p *Paginator) Number(i int) int {
	return len(p.records) - i
}

func (p *Paginator) Embed() *discordgo.MessageEmbed {
	if len(p.records) == 0 {
		return InfoEmbed("Global bans", "There are no global bans.")
	}

	var b strings.Builder
	offset := (p.page - 1) * p.pageSize
	items := p.Items()
	for i, rec := range items {
		entry := fmt.Sprintf("**#%d** <@%s> (`%s`)\nReason: %s · by <@%s> · <t:%d:R>\n",
			p.Number(offset+i), rec.DiscordID, rec.DiscordID,
			truncate(rec.Reason, listReasonLength), rec.BannedBy, rec.Timestamp.Unix())
		if utf8.RuneCountInString(b.String())+utf8.RuneCountInString(entry) > maxDescriptionLength-50 {
			fmt.Fprintf(&b, "…and %d more on this page", len(items)-i)
			break
		}
		b.WriteString(entry)
	}

	return &discordgo.MessageEmbed{
		Title:       "Global bans",
		Description: strings.TrimRight(b.String(), "\n"),
		Color:       ColorInfo,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d · %d total", p.page, p.Pages(), len(p.records)),
		},
	}
}

package service

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"discord-gban/internal/models"
)

// records returns n bans newest first, numbered so #n is the newest.
func records(n int) []models.GlobalBan {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.GlobalBan, 0, n)
	for i := n; i >= 1; i-- {
		out = append(out, models.GlobalBan{
			ID:        uint(i),
			DiscordID: fmt.Sprintf("1000%02d", i),
			BannedBy:  "9",
			Reason:    "Spam",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

func TestPaginatorClamps(t *testing.T) {
	p := NewPaginator(records(23), 10, 1)
	assert.Equal(t, 3, p.Pages())
	assert.Equal(t, 1, p.Page())
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	assert.Equal(t, 3, p.SetPage(4))
	assert.False(t, p.HasNext())
	assert.Equal(t, 1, p.SetPage(-2))

	assert.Equal(t, 2, p.Next())
	assert.Equal(t, 3, p.Next())
	assert.Equal(t, 3, p.Next())
	assert.Equal(t, 2, p.Prev())
}

func TestPaginatorPages(t *testing.T) {
	p := NewPaginator(records(23), 10, 1)
	first := p.Items()
	assert.Len(t, first, 10)
	assert.Equal(t, "100023", first[0].DiscordID)
	assert.Equal(t, "100014", first[9].DiscordID)

	p.SetPage(3)
	last := p.Items()
	assert.Len(t, last, 3)
	assert.Equal(t, "100003", last[0].DiscordID)
	assert.Equal(t, "100001", last[2].DiscordID)

	embed := p.Embed()
	assert.Contains(t, embed.Description, "**#3**")
	assert.Contains(t, embed.Description, "**#1**")
	assert.NotContains(t, embed.Description, "**#4**")
	assert.Equal(t, "Page 3/3 · 23 total", embed.Footer.Text)
}

func TestPaginatorEmpty(t *testing.T) {
	p := NewPaginator(nil, 10, 5)
	assert.Equal(t, 1, p.Pages())
	assert.Equal(t, 1, p.Page())
	assert.Empty(t, p.Items())
	assert.True(t, strings.Contains(p.Embed().Description, "no global bans"))
	assert.Equal(t, ColorInfo, p.Embed().Color)
}

func TestPaginatorEmbedFitsDescriptionLimit(t *testing.T) {
	recs := records(12)
	for i := range recs {
		recs[i].Reason = strings.Repeat("x", 1900)
	}

	embed := NewPaginator(recs, DefaultPageSize, 1).Embed()

	assert.LessOrEqual(t, utf8.RuneCountInString(embed.Description), maxDescriptionLength)
	assert.NotContains(t, embed.Description, strings.Repeat("x", listReasonLength+1))
	assert.Contains(t, embed.Description, "#12")
}

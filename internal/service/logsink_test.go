package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSinkPrefersConfiguredChannel(t *testing.T) {
	g := newFakeGuild("g1")
	g.systemCh = "sys"
	g.writable["sys"] = true
	g.writable["logs"] = true

	sink := NewLogSink()
	sink.Set("g1", "logs")
	sink.Send(context.Background(), g, InfoEmbed("t", "d"))

	sent := g.sentEmbeds()
	require.Len(t, sent, 1)
	assert.Equal(t, "logs", sent[0].channelID)
}

func TestLogSinkFallsBackToSystemChannel(t *testing.T) {
	g := newFakeGuild("g1")
	g.systemCh = "sys"
	g.writable["sys"] = true

	sink := NewLogSink()
	sink.Set("g1", "locked")
	sink.Send(context.Background(), g, InfoEmbed("t", "d"))

	sent := g.sentEmbeds()
	require.Len(t, sent, 1)
	assert.Equal(t, "sys", sent[0].channelID)
}

func TestLogSinkDropsWhenNothingWritable(t *testing.T) {
	g := newFakeGuild("g1")
	g.systemCh = "sys"

	NewLogSink().Send(context.Background(), g, InfoEmbed("t", "d"))
	assert.Empty(t, g.sentEmbeds())
}

func TestLogSinkBroadcast(t *testing.T) {
	p := newFakePlatform(5)
	sink := NewLogSink()
	sink.Load(map[string]string{"g1": "logs"})
	p.guilds[0].writable["logs"] = true

	sink.Broadcast(context.Background(), p.Guilds(), InfoEmbed("t", "d"))

	for _, g := range p.guilds {
		sent := g.sentEmbeds()
		require.Len(t, sent, 1, g.id)
	}
	assert.Equal(t, "logs", p.guilds[0].sentEmbeds()[0].channelID)
	assert.Equal(t, "sys-g2", p.guilds[1].sentEmbeds()[0].channelID)
	assert.Equal(t, 1, sink.Len())
}

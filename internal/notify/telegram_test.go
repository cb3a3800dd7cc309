package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discord-gban/internal/config"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*telego.SendMessageParams
	err  error
}

func (f *fakeSender) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, params)
	if f.err != nil {
		return nil, f.err
	}
	return &telego.Message{MessageID: len(f.sent)}, nil
}

func TestMirrorSendsToChat(t *testing.T) {
	sender := &fakeSender{}
	m := newTelegramMirror(sender, -100123)

	m.Mirror(context.Background(), "Global ban: u1\nbanned on 3/3 servers")

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(-100123), sender.sent[0].ChatID.ID)
	assert.Equal(t, "Global ban: u1\nbanned on 3/3 servers", sender.sent[0].Text)
}

func TestMirrorSwallowsErrors(t *testing.T) {
	sender := &fakeSender{err: errors.New("chat not found")}
	m := newTelegramMirror(sender, 1)

	assert.NotPanics(t, func() { m.Mirror(context.Background(), "x") })
	assert.Len(t, sender.sent, 1)
}

func TestMirrorTruncatesLongText(t *testing.T) {
	sender := &fakeSender{}
	m := newTelegramMirror(sender, 1)

	m.Mirror(context.Background(), strings.Repeat("é", maxMessageLength+50))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, maxMessageLength, utf8.RuneCountInString(sender.sent[0].Text))
	assert.True(t, strings.HasSuffix(sender.sent[0].Text, "…"))
}

func TestNewTelegramMirrorDisabled(t *testing.T) {
	m, err := NewTelegramMirror(config.TelegramConfig{})
	assert.NoError(t, err)
	assert.Nil(t, m)

	_, err = NewTelegramMirror(config.TelegramConfig{Enabled: true})
	assert.Error(t, err)
}
